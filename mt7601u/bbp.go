package mt7601u

import (
	"errors"
	"fmt"
	"time"

	"github.com/ardnew/softwlan/pkg"
)

// BBPFailed is the value returned alongside any BBP read error.
const BBPFailed = 0xff

// bbpBusyTimeout bounds each wait on the BBP_CSR_CFG busy bit.
const bbpBusyTimeout = 1000 * time.Microsecond

// BBPPair is one BBP register assignment.
type BBPPair struct {
	Offset uint8
	Value  uint8
}

// bbpPreamble checks the conditions shared by every BBP command.
func (d *Device) bbpPreamble(op string, offset uint8) error {
	if d.WLANCtrl()&WLANFunCtrlWLANEnable == 0 {
		pkg.LogError(pkg.ComponentBBP, "wlan not enabled",
			"dev", d.id,
			"op", op,
			"offset", offset)
		return pkg.ErrNotEnabled
	}
	return d.removedErr()
}

// BBPRead reads BBP register offset. On failure it returns BBPFailed and
// an error wrapping pkg.ErrBusyBitStuck, pkg.ErrVerifyMismatch,
// pkg.ErrNotEnabled or pkg.ErrRemoved.
func (d *Device) BBPRead(offset uint8) (uint8, error) {
	if err := d.bbpPreamble("read", offset); err != nil {
		return BBPFailed, err
	}

	d.regMu.Lock()
	defer d.regMu.Unlock()
	return d.bbpReadLocked(offset)
}

// BBPWrite writes val to BBP register offset. Nothing is written when the
// command register stays busy.
func (d *Device) BBPWrite(offset, val uint8) error {
	if err := d.bbpPreamble("write", offset); err != nil {
		return err
	}

	d.regMu.Lock()
	defer d.regMu.Unlock()
	return d.bbpWriteLocked(offset, val)
}

// BBPRMW replaces the bits of offset selected by mask with val and always
// writes the result back.
func (d *Device) BBPRMW(offset, mask, val uint8) (uint8, error) {
	return d.bbpModify(offset, mask, val, true)
}

// BBPRMC is BBPRMW that skips the write when the value is unchanged.
func (d *Device) BBPRMC(offset, mask, val uint8) (uint8, error) {
	return d.bbpModify(offset, mask, val, false)
}

func (d *Device) bbpModify(offset, mask, val uint8, always bool) (uint8, error) {
	if err := d.bbpPreamble("modify", offset); err != nil {
		return BBPFailed, err
	}

	d.regMu.Lock()
	defer d.regMu.Unlock()

	cur, err := d.bbpReadLocked(offset)
	if err != nil {
		return BBPFailed, err
	}
	val |= cur &^ mask
	if !always && val == cur {
		return val, nil
	}
	if err := d.bbpWriteLocked(offset, val); err != nil {
		return BBPFailed, err
	}
	return val, nil
}

// BBPReady reports whether the BBP version register reads back as
// neither 0x00 nor 0xff.
func (d *Device) BBPReady() bool {
	v, err := d.BBPRead(BBPRegVersion)
	return err == nil && v != 0 && v != 0xff
}

func (d *Device) bbpWaitIdle(offset uint8, phase string) error {
	if err := d.pollLocked(RegBBPCSRCfg, BBPCSRCfgBusy, 0, bbpBusyTimeout); err != nil {
		if errors.Is(err, pkg.ErrRemoved) {
			return err
		}
		pkg.LogError(pkg.ComponentBBP, "BBP busy",
			"dev", d.id,
			"offset", offset,
			"phase", phase)
		return fmt.Errorf("%w: offset %d %s: %w", pkg.ErrBusyBitStuck, offset, phase, err)
	}
	return nil
}

func (d *Device) bbpReadLocked(offset uint8) (uint8, error) {
	if err := d.bbpWaitIdle(offset, "before read"); err != nil {
		return BBPFailed, err
	}

	cmd := uint32(offset)<<BBPCSRCfgRegNumShft |
		BBPCSRCfgRead | BBPCSRCfgRWMode | BBPCSRCfgBusy
	if err := d.writeLocked(RegBBPCSRCfg, cmd); err != nil {
		return BBPFailed, err
	}

	if err := d.bbpWaitIdle(offset, "after read"); err != nil {
		return BBPFailed, err
	}

	v := d.readLocked(RegBBPCSRCfg)
	if err := d.removedErr(); err != nil {
		return BBPFailed, err
	}
	if echo := uint8((v & BBPCSRCfgRegNumMask) >> BBPCSRCfgRegNumShft); echo != offset {
		pkg.LogError(pkg.ComponentBBP, "BBP register changed",
			"dev", d.id,
			"offset", offset,
			"echo", echo)
		return BBPFailed, fmt.Errorf("%w: requested %d, got %d", pkg.ErrVerifyMismatch, offset, echo)
	}

	val := uint8(v & BBPCSRCfgValMask)
	pkg.LogDebug(pkg.ComponentBBP, "read", "offset", offset, "val", val)
	return val, nil
}

func (d *Device) bbpWriteLocked(offset, val uint8) error {
	if err := d.bbpWaitIdle(offset, "before write"); err != nil {
		return err
	}

	cmd := uint32(val) | uint32(offset)<<BBPCSRCfgRegNumShft |
		BBPCSRCfgRWMode | BBPCSRCfgBusy
	if err := d.writeLocked(RegBBPCSRCfg, cmd); err != nil {
		return err
	}
	pkg.LogDebug(pkg.ComponentBBP, "write", "offset", offset, "val", val)
	return nil
}
