package mt7601u

import (
	"fmt"

	"github.com/ardnew/softwlan/pkg"
)

// RegPair is one register assignment.
type RegPair struct {
	Addr  uint32
	Value uint32
}

// Table is an ordered list of register assignments.
type Table []RegPair

// staging is the bounded buffer burst writes are assembled in.
type staging struct {
	words []uint32
	busy  bool
}

func (s *staging) get(n int) ([]uint32, error) {
	if s.busy || n > len(s.words) {
		return nil, fmt.Errorf("%w: staging %d words, limit %d", pkg.ErrResourceExhausted, n, len(s.words))
	}
	s.busy = true
	return s.words[:n], nil
}

func (s *staging) put() { s.busy = false }

// ApplyTable writes t in order. Runs of ascending consecutive registers go
// out as one burst; the final register state is the same as writing each
// pair alone. It stops at the first failed write and does not undo earlier
// ones.
func (d *Device) ApplyTable(t Table) error {
	if err := d.removedErr(); err != nil {
		return err
	}

	d.regMu.Lock()
	defer d.regMu.Unlock()

	limit := len(d.staging.words)
	for i := 0; i < len(t); {
		j := i + 1
		for j < len(t) && j-i < limit && t[j].Addr == t[j-1].Addr+4 {
			j++
		}

		var err error
		if j-i == 1 {
			err = d.writeLocked(t[i].Addr, t[i].Value)
		} else {
			err = d.stageRun(t[i:j])
		}
		if err != nil {
			return fmt.Errorf("table entry %d (0x%04x): %w", i, t[i].Addr, err)
		}
		i = j
	}
	return nil
}

func (d *Device) stageRun(run Table) error {
	buf, err := d.staging.get(len(run))
	if err != nil {
		return err
	}
	defer d.staging.put()

	for k, p := range run {
		buf[k] = p.Value
	}
	return d.burstLocked(run[0].Addr, buf)
}

// BurstWrite writes vals to consecutive registers starting at base.
func (d *Device) BurstWrite(base uint32, vals []uint32) error {
	if err := d.removedErr(); err != nil {
		return err
	}

	d.regMu.Lock()
	defer d.regMu.Unlock()
	return d.burstLocked(base, vals)
}

// fillBurst writes n words starting at base, repeating pattern, through the
// staging buffer.
func (d *Device) fillBurst(base uint32, n int, pattern ...uint32) error {
	if err := d.removedErr(); err != nil {
		return err
	}

	d.regMu.Lock()
	defer d.regMu.Unlock()

	buf, err := d.staging.get(n)
	if err != nil {
		return err
	}
	defer d.staging.put()

	for k := range buf {
		buf[k] = pattern[k%len(pattern)]
	}
	return d.burstLocked(base, buf)
}

// ApplyBBPTable writes t to the BBP in order, stopping at the first error.
func (d *Device) ApplyBBPTable(t []BBPPair) error {
	for i, p := range t {
		if err := d.BBPWrite(p.Offset, p.Value); err != nil {
			return fmt.Errorf("BBP entry %d (offset %d): %w", i, p.Offset, err)
		}
	}
	return nil
}
