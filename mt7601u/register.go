package mt7601u

import (
	"errors"
	"fmt"

	"github.com/ardnew/softwlan/pkg"
)

// =============================================================================
// Register Access
// =============================================================================

// removedValue is returned by reads once the device is gone.
const removedValue = 0xffffffff

// Read returns the register at addr. Transport errors are logged and yield
// 0xffffffff, as does any read after removal.
func (d *Device) Read(addr uint32) uint32 {
	d.regMu.Lock()
	defer d.regMu.Unlock()
	return d.readLocked(addr)
}

// Write stores val at addr. Transport errors are logged.
func (d *Device) Write(addr, val uint32) {
	d.regMu.Lock()
	defer d.regMu.Unlock()
	_ = d.writeLocked(addr, val)
}

// RMW replaces the bits of addr selected by mask: the result is
// val | (old &^ mask). It returns the value written.
func (d *Device) RMW(addr, mask, val uint32) uint32 {
	d.regMu.Lock()
	defer d.regMu.Unlock()
	return d.rmwLocked(addr, mask, val)
}

// Set ORs bits into addr.
func (d *Device) Set(addr, bits uint32) uint32 {
	return d.RMW(addr, 0, bits)
}

// Clear clears bits in addr.
func (d *Device) Clear(addr, bits uint32) uint32 {
	return d.RMW(addr, bits, 0)
}

func (d *Device) readLocked(addr uint32) uint32 {
	if d.Removed() {
		return removedValue
	}
	v, err := d.bus.Read32(addr)
	if err != nil {
		d.busError("read", addr, err)
		return removedValue
	}
	return v
}

func (d *Device) writeLocked(addr, val uint32) error {
	if d.Removed() {
		return pkg.ErrRemoved
	}
	if err := d.bus.Write32(addr, val); err != nil {
		return d.busError("write", addr, err)
	}
	return nil
}

func (d *Device) rmwLocked(addr, mask, val uint32) uint32 {
	val |= d.readLocked(addr) &^ mask
	_ = d.writeLocked(addr, val)
	return val
}

func (d *Device) burstLocked(addr uint32, vals []uint32) error {
	if d.Removed() {
		return pkg.ErrRemoved
	}
	if err := d.bus.WriteBurst(addr, vals); err != nil {
		return d.busError("burst", addr, err)
	}
	return nil
}

// busError logs a transport failure and latches REMOVED when the adapter
// is gone.
func (d *Device) busError(op string, addr uint32, err error) error {
	if errors.Is(err, pkg.ErrNoDevice) {
		d.MarkRemoved()
		return fmt.Errorf("%w: %s 0x%04x: %w", pkg.ErrRemoved, op, addr, err)
	}
	pkg.LogError(pkg.ComponentRegister, "register "+op+" failed",
		"dev", d.id,
		"addr", fmt.Sprintf("0x%04x", addr),
		"error", err)
	return fmt.Errorf("%s 0x%04x: %w", op, addr, err)
}
