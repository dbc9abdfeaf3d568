package mt7601u

import (
	"fmt"
	"time"

	"github.com/ardnew/softwlan/pkg"
)

// PowerState is the state of the power and reset state machine.
type PowerState uint32

// Power states.
const (
	PoweredOff PowerState = iota
	PoweringOn
	Resetting
	Ready
	PoweringOff
)

var powerStateNames = [...]string{
	PoweredOff:  "powered-off",
	PoweringOn:  "powering-on",
	Resetting:   "resetting",
	Ready:       "ready",
	PoweringOff: "powering-off",
}

func (s PowerState) String() string {
	if int(s) < len(powerStateNames) {
		return powerStateNames[s]
	}
	return fmt.Sprintf("PowerState(%d)", uint32(s))
}

const (
	// powerHold is the settle time after each WLAN_FUN_CTRL write.
	powerHold = 20 * time.Microsecond

	// pllPolls bounds the crystal and PLL lock wait, powerHold apart.
	pllPolls = 200
)

// PowerState returns the current power state.
func (d *Device) PowerState() PowerState { return PowerState(d.powerState.Load()) }

func (d *Device) setPowerState(s PowerState) {
	if old := PowerState(d.powerState.Swap(uint32(s))); old != s {
		pkg.LogDebug(pkg.ComponentPower, "state", "dev", d.id, "from", old, "to", s)
	}
}

// PowerOn enables the WLAN function, pulsing the reset lines first when
// reset is set and the function was already enabled.
func (d *Device) PowerOn(reset bool) error {
	return d.SetPower(true, reset)
}

// PowerOff disables the WLAN function. The WLAN clock stays enabled since
// the chip stops answering discovery without it.
func (d *Device) PowerOff() error {
	return d.SetPower(false, false)
}

// SetPower runs one complete power transition under the power lock.
//
// With enable set it returns an error wrapping pkg.ErrPLLUnlocked when the
// crystal and PLL never report lock; the device is left in Ready anyway and
// the caller decides whether that is fatal.
func (d *Device) SetPower(enable, reset bool) error {
	d.powerMu.Lock()
	defer d.powerMu.Unlock()

	if err := d.removedErr(); err != nil {
		return err
	}

	if enable {
		d.setPowerState(PoweringOn)
	} else {
		d.setPowerState(PoweringOff)
	}

	val := d.Read(RegWLANFunCtrl)

	if reset {
		val |= WLANFunCtrlGPIOOutEnMsk
		val &^= WLANFunCtrlFrcWLAntSel

		if val&WLANFunCtrlWLANEnable != 0 {
			d.setPowerState(Resetting)
			val |= WLANFunCtrlWLANReset | WLANFunCtrlResetRF
			d.Write(RegWLANFunCtrl, val)
			d.clock.Sleep(powerHold)

			val &^= WLANFunCtrlWLANReset | WLANFunCtrlResetRF
		}
	}

	d.Write(RegWLANFunCtrl, val)
	d.clock.Sleep(powerHold)

	return d.setWLANState(val, enable)
}

func (d *Device) setWLANState(val uint32, enable bool) error {
	if enable {
		val |= WLANFunCtrlWLANEnable | WLANFunCtrlWLANClkEn
	} else {
		val &^= WLANFunCtrlWLANEnable
	}

	d.Write(RegWLANFunCtrl, val)
	d.clock.Sleep(powerHold)

	d.wlanCtrl.Store(val)

	if err := d.removedErr(); err != nil {
		return err
	}

	if !enable {
		d.setPowerState(PoweredOff)
		pkg.LogDebug(pkg.ComponentPower, "powered off", "dev", d.id, "ctrl", fmt.Sprintf("0x%08x", val))
		return nil
	}

	for i := 0; i < pllPolls; i++ {
		cmb := d.Read(RegCMBCtrl)
		if err := d.removedErr(); err != nil {
			return err
		}
		if cmb&CMBCtrlXtalReady != 0 && cmb&CMBCtrlPLLLocked != 0 {
			d.setPowerState(Ready)
			pkg.LogDebug(pkg.ComponentPower, "powered on", "dev", d.id, "ctrl", fmt.Sprintf("0x%08x", val))
			return nil
		}
		d.clock.Sleep(powerHold)
	}

	d.setPowerState(Ready)
	pkg.LogError(pkg.ComponentPower, "PLL and XTAL check failed", "dev", d.id)
	return fmt.Errorf("%w after %d polls: %w", pkg.ErrPLLUnlocked, pllPolls, pkg.ErrTimeout)
}
