package mt7601u

import (
	"errors"
	"testing"
	"time"

	"github.com/ardnew/softwlan/pkg"
	"github.com/ardnew/softwlan/sim"
)

// =============================================================================
// Register Access Tests
// =============================================================================

func TestReadWrite(t *testing.T) {
	d, chip, _ := newSimDevice(t, sim.Options{}, nil)

	d.Write(RegTxLinkCfg, 0x00001020)
	if got := chip.Reg(RegTxLinkCfg); got != 0x00001020 {
		t.Errorf("chip register = 0x%08x, want 0x00001020", got)
	}

	chip.SetReg(RegPBFCfg, 0xdeadbeef)
	if got := d.Read(RegPBFCfg); got != 0xdeadbeef {
		t.Errorf("Read() = 0x%08x, want 0xdeadbeef", got)
	}
}

func TestRMW(t *testing.T) {
	tests := []struct {
		name string
		old  uint32
		mask uint32
		val  uint32
		want uint32
	}{
		{"replace field", 0xffff0000, 0x00ff0000, 0x12, 0xff000012},
		{"set bits", 0x00000100, 0, 0x3fff, 0x00003fff},
		{"clear bits", 0xffffffff, 0x0000000f, 0, 0xfffffff0},
		{"usb cycle tuning", 0x12345678, 0xffffff00, 0x1e, 0x0000001e | 0x78},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, chip, _ := newSimDevice(t, sim.Options{}, nil)
			chip.SetReg(RegUSBCycCfg, tt.old)

			got := d.RMW(RegUSBCycCfg, tt.mask, tt.val)
			if got != tt.want {
				t.Errorf("RMW() = 0x%08x, want 0x%08x", got, tt.want)
			}
			if reg := chip.Reg(RegUSBCycCfg); reg != tt.want {
				t.Errorf("register = 0x%08x, want 0x%08x", reg, tt.want)
			}
		})
	}
}

func TestSetClear(t *testing.T) {
	d, chip, _ := newSimDevice(t, sim.Options{}, nil)
	chip.SetReg(RegBeaconTimeCfg, 0x00ff0000)

	d.Clear(RegBeaconTimeCfg, beaconTimeCfgAllEnables)
	if got := chip.Reg(RegBeaconTimeCfg); got&beaconTimeCfgAllEnables != 0 {
		t.Errorf("after Clear register = 0x%08x, enable bits still set", got)
	}
	if got := chip.Reg(RegBeaconTimeCfg); got != 0x00e00000 {
		t.Errorf("after Clear register = 0x%08x, want 0x00e00000", got)
	}

	d.Set(RegBeaconTimeCfg, BeaconTimeCfgTimerEn)
	if got := chip.Reg(RegBeaconTimeCfg); got != 0x00e10000 {
		t.Errorf("after Set register = 0x%08x, want 0x00e10000", got)
	}
}

func TestRemovedSkipsBus(t *testing.T) {
	bus := newScriptBus()
	bus.regs[RegMACCSR0] = 0x76010500
	d, _ := newScriptDevice(bus)
	d.MarkRemoved()

	if got := d.Read(RegMACCSR0); got != 0xffffffff {
		t.Errorf("Read() after removal = 0x%08x, want 0xffffffff", got)
	}
	d.Write(RegMACSysCtrl, 1)
	d.RMW(RegMACSysCtrl, 1, 1)

	if n := bus.readCount(RegMACCSR0); n != 0 {
		t.Errorf("bus reads = %d, want 0", n)
	}
	if n := bus.writeCount(); n != 0 {
		t.Errorf("bus writes = %d, want 0", n)
	}
	if err := d.BurstWrite(RegWCIDAddrBase, []uint32{1, 2}); !errors.Is(err, pkg.ErrRemoved) {
		t.Errorf("BurstWrite() error = %v, want ErrRemoved", err)
	}
}

func TestNoDeviceLatchesRemoved(t *testing.T) {
	bus := newScriptBus()
	bus.err = pkg.ErrNoDevice
	d, _ := newScriptDevice(bus)

	if got := d.Read(RegMACCSR0); got != 0xffffffff {
		t.Errorf("Read() = 0x%08x, want 0xffffffff", got)
	}
	if !d.Removed() {
		t.Fatal("Removed() = false after ErrNoDevice")
	}

	d.Read(RegMACCSR0)
	if n := bus.readCount(RegMACCSR0); n != 1 {
		t.Errorf("bus reads = %d, want 1", n)
	}
}

func TestNoDeviceFromWrite(t *testing.T) {
	d, chip, _ := newSimDevice(t, sim.Options{}, nil)
	chip.Unplug()

	err := d.ApplyTable(Table{{RegTxLinkCfg, 1}})
	if !errors.Is(err, pkg.ErrRemoved) {
		t.Errorf("ApplyTable() error = %v, want ErrRemoved", err)
	}
	if !errors.Is(err, pkg.ErrNoDevice) {
		t.Errorf("ApplyTable() error = %v, want wrapped ErrNoDevice", err)
	}
	if !d.Removed() {
		t.Error("Removed() = false after unplug")
	}
}

func TestWriteErrorKeepsDevice(t *testing.T) {
	d, chip, _ := newSimDevice(t, sim.Options{}, nil)
	injected := errors.New("stall")
	chip.FailWrite(RegTxLinkCfg, injected)

	d.Write(RegTxLinkCfg, 1)
	if d.Removed() {
		t.Error("Removed() = true after a non-fatal write error")
	}

	err := d.ApplyTable(Table{{RegTxLinkCfg, 1}})
	if !errors.Is(err, injected) {
		t.Errorf("ApplyTable() error = %v, want %v", err, injected)
	}
}

// =============================================================================
// Poll Tests
// =============================================================================

func TestPollImmediate(t *testing.T) {
	bus := newScriptBus()
	d, clock := newScriptDevice(bus)

	if err := d.Poll(RegMACStatus, MACStatusTx, 0, time.Millisecond); err != nil {
		t.Fatalf("Poll() error = %v", err)
	}
	if clock.Sleeps() != 0 {
		t.Errorf("Sleeps() = %d, want 0", clock.Sleeps())
	}
	if n := bus.readCount(RegMACStatus); n != 1 {
		t.Errorf("reads = %d, want 1", n)
	}
}

func TestPollSucceedsAtFirstMatch(t *testing.T) {
	bus := newScriptBus()
	bus.seq[RegWPDMAGloCfg] = []uint32{
		WPDMAGloCfgTxDMABusy,
		WPDMAGloCfgRxDMABusy,
		WPDMAGloCfgTxDMABusy | WPDMAGloCfgRxDMABusy,
		0,
		WPDMAGloCfgTxDMABusy,
	}
	d, clock := newScriptDevice(bus)

	err := d.Poll(RegWPDMAGloCfg, WPDMAGloCfgTxDMABusy|WPDMAGloCfgRxDMABusy, 0, time.Second)
	if err != nil {
		t.Fatalf("Poll() error = %v", err)
	}
	if n := bus.readCount(RegWPDMAGloCfg); n != 4 {
		t.Errorf("reads = %d, want 4", n)
	}
	if got := clock.Slept(); got != 3*PollInterval {
		t.Errorf("Slept() = %v, want %v", got, 3*PollInterval)
	}
}

func TestPollTimeoutBound(t *testing.T) {
	tests := []struct {
		name     string
		timeout  time.Duration
		interval time.Duration
		reads    int
	}{
		{"busy bit", 1000 * time.Microsecond, 10 * time.Microsecond, 101},
		{"uneven", 25 * time.Microsecond, 10 * time.Microsecond, 4},
		{"msec", 100 * time.Millisecond, 10 * time.Millisecond, 11},
		{"zero", 0, 10 * time.Microsecond, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bus := newScriptBus()
			bus.regs[RegMACStatus] = MACStatusTx
			d, clock := newScriptDevice(bus)

			err := d.PollEvery(RegMACStatus, MACStatusTx, 0, tt.timeout, tt.interval)
			if !errors.Is(err, pkg.ErrTimeout) {
				t.Fatalf("PollEvery() error = %v, want ErrTimeout", err)
			}
			if got := clock.Slept(); got > tt.timeout+tt.interval {
				t.Errorf("Slept() = %v, exceeds %v", got, tt.timeout+tt.interval)
			}
			if got := clock.Slept(); got != tt.timeout {
				t.Errorf("Slept() = %v, want %v", got, tt.timeout)
			}
			if n := bus.readCount(RegMACStatus); n != tt.reads {
				t.Errorf("reads = %d, want %d", n, tt.reads)
			}
		})
	}
}

func TestPollMsecInterval(t *testing.T) {
	bus := newScriptBus()
	bus.seq[RegMACStatus] = []uint32{MACStatusRx, MACStatusRx, 0}
	d, clock := newScriptDevice(bus)

	if err := d.PollMsec(RegMACStatus, MACStatusRx, 0, 100*time.Millisecond); err != nil {
		t.Fatalf("PollMsec() error = %v", err)
	}
	if got := clock.Slept(); got != 2*PollMsecInterval {
		t.Errorf("Slept() = %v, want %v", got, 2*PollMsecInterval)
	}
}

func TestPollRemoved(t *testing.T) {
	bus := newScriptBus()
	d, _ := newScriptDevice(bus)
	d.MarkRemoved()

	if err := d.Poll(RegMACStatus, 1, 1, time.Second); !errors.Is(err, pkg.ErrRemoved) {
		t.Errorf("Poll() error = %v, want ErrRemoved", err)
	}
	if n := bus.readCount(RegMACStatus); n != 0 {
		t.Errorf("reads = %d, want 0", n)
	}
}

func TestPollUnplugged(t *testing.T) {
	bus := newScriptBus()
	bus.err = pkg.ErrNoDevice
	d, clock := newScriptDevice(bus)

	// 0xffffffff would satisfy this condition if removal were ignored.
	err := d.Poll(RegMACStatus, 0xffffffff, 0xffffffff, time.Second)
	if !errors.Is(err, pkg.ErrRemoved) {
		t.Errorf("Poll() error = %v, want ErrRemoved", err)
	}
	if clock.Sleeps() != 0 {
		t.Errorf("Sleeps() = %d, want 0", clock.Sleeps())
	}
}
