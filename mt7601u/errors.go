package mt7601u

import (
	"fmt"

	"github.com/ardnew/softwlan/pkg"
)

// StageError reports the bring-up stage that failed. It matches
// pkg.ErrStageFailed and unwraps to the cause.
type StageError struct {
	Stage Stage
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%v: stage %d (%s): %v", pkg.ErrStageFailed, uint32(e.Stage), e.Stage, e.Err)
}

func (e *StageError) Unwrap() error { return e.Err }

// Is reports whether target is pkg.ErrStageFailed.
func (e *StageError) Is(target error) bool { return target == pkg.ErrStageFailed }
