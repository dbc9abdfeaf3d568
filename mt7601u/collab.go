package mt7601u

import (
	"context"
	"fmt"
	"time"

	"github.com/ardnew/softwlan/pkg"
)

// =============================================================================
// Collaborators
// =============================================================================

// Firmware loads and starts the MCU firmware.
type Firmware interface {
	LoadAndStart(ctx context.Context, d *Device) error
}

// DMA owns the bulk data path.
type DMA interface {
	Init(ctx context.Context, d *Device) error
	Cleanup(d *Device)
}

// Command owns the MCU command path.
type Command interface {
	Init(ctx context.Context, d *Device) error
	Deinit(d *Device)
}

// EEPROM loads calibration data.
type EEPROM interface {
	Init(ctx context.Context, d *Device) error
}

// PHY initializes the radio.
type PHY interface {
	Init(ctx context.Context, d *Device) error
}

// Nop is a collaborator that does nothing. It satisfies every collaborator
// interface.
type Nop struct{}

func (Nop) LoadAndStart(context.Context, *Device) error { return nil }
func (Nop) Init(context.Context, *Device) error         { return nil }
func (Nop) Cleanup(*Device)                             {}
func (Nop) Deinit(*Device)                              {}

// ResidentFirmware accepts firmware that is already running, as after a
// warm restart of the host. It waits for the MCU mailbox to report a
// running image.
type ResidentFirmware struct {
	// Timeout bounds the wait. Zero means 100ms.
	Timeout time.Duration
}

// mcuRunning is the MCU_COM_REG0 value of running firmware.
const mcuRunning = 1

func (f ResidentFirmware) LoadAndStart(ctx context.Context, d *Device) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	timeout := f.Timeout
	if timeout <= 0 {
		timeout = 100 * time.Millisecond
	}
	if err := d.PollMsec(RegMCUComReg0, 0xffffffff, mcuRunning, timeout); err != nil {
		return fmt.Errorf("firmware not running: %w", err)
	}
	pkg.LogInfo(pkg.ComponentInit, "firmware already running", "dev", d.ID())
	return nil
}

var (
	_ Firmware = Nop{}
	_ DMA      = Nop{}
	_ Command  = Nop{}
	_ EEPROM   = Nop{}
	_ PHY      = Nop{}
	_ Firmware = ResidentFirmware{}
)
