package sim

import (
	"errors"
	"testing"

	"github.com/ardnew/softwlan/pkg"
)

// =============================================================================
// Readiness Tests
// =============================================================================

func TestChip_ReadyAfter(t *testing.T) {
	c := New(Options{ReadyAfter: 3})

	for i := 1; i <= 3; i++ {
		v, err := c.Read32(regMACCSR0)
		if err != nil || v != 0 {
			t.Fatalf("read %d = %#x, %v; want 0", i, v, err)
		}
	}
	v, _ := c.Read32(regMACCSR0)
	if v != DefaultChipID {
		t.Errorf("read 4 = %#x, want %#x", v, DefaultChipID)
	}
}

func TestChip_PLLFollowsWLANEnable(t *testing.T) {
	tests := []struct {
		name     string
		opts     Options
		enable   bool
		wantLock bool
	}{
		{"disabled", Options{}, false, false},
		{"enabled", Options{}, true, true},
		{"never locks", Options{PLLNeverLocks: true}, true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := New(tt.opts)
			if tt.enable {
				c.Write32(regWLANFunCtrl, wlanEnable|0x2)
			}
			v, _ := c.Read32(regCMBCtrl)
			locked := v&(cmbXtalReady|cmbPLLLocked) == cmbXtalReady|cmbPLLLocked
			if locked != tt.wantLock {
				t.Errorf("CMB_CTRL = %#08x, locked = %v, want %v", v, locked, tt.wantLock)
			}
		})
	}
}

// =============================================================================
// BBP Protocol Tests
// =============================================================================

func bbpWriteCmd(reg, val uint8) uint32 {
	return uint32(val) | uint32(reg)<<bbpRegNumShift | bbpRWMode | bbpBusy
}

func bbpReadCmd(reg uint8) uint32 {
	return uint32(reg)<<bbpRegNumShift | bbpRead | bbpRWMode | bbpBusy
}

func TestChip_BBPWriteRead(t *testing.T) {
	c := New(Options{})

	c.Write32(regBBPCSRCfg, bbpWriteCmd(66, 0x38))
	if c.BBP(66) != 0x38 {
		t.Fatalf("BBP(66) = %#x, want 0x38", c.BBP(66))
	}
	v, _ := c.Read32(regBBPCSRCfg)
	if v&bbpBusy != 0 {
		t.Error("busy bit still set after write")
	}

	c.Write32(regBBPCSRCfg, bbpReadCmd(66))
	v, _ = c.Read32(regBBPCSRCfg)
	if v&bbpBusy != 0 {
		t.Error("busy bit still set after read")
	}
	if uint8(v>>bbpRegNumShift) != 66 || uint8(v) != 0x38 {
		t.Errorf("read result = %#08x, want reg 66 val 0x38", v)
	}
	if c.BBPWrites() != 1 {
		t.Errorf("BBPWrites() = %d, want 1", c.BBPWrites())
	}
}

func TestChip_BBPVersion(t *testing.T) {
	if v := New(Options{}).BBP(bbpRegVersion); v != DefaultBBPVersion {
		t.Errorf("default version = %#x", v)
	}
	if v := New(Options{BBPUnresponsive: true}).BBP(bbpRegVersion); v != 0xff {
		t.Errorf("unresponsive version = %#x, want 0xff", v)
	}
}

func TestChip_BBPFaults(t *testing.T) {
	c := New(Options{BBPBusyStuck: true})
	c.Write32(regBBPCSRCfg, bbpWriteCmd(1, 4))
	if v, _ := c.Read32(regBBPCSRCfg); v&bbpBusy == 0 {
		t.Error("stuck busy bit cleared")
	}

	c = New(Options{BBPEchoMismatch: true})
	c.Write32(regBBPCSRCfg, bbpReadCmd(20))
	if v, _ := c.Read32(regBBPCSRCfg); uint8(v>>bbpRegNumShift) == 20 {
		t.Errorf("echo = %d, want mismatch", uint8(v>>bbpRegNumShift))
	}
}

// =============================================================================
// Side Effect Tests
// =============================================================================

func TestChip_CountersClearOnRead(t *testing.T) {
	c := New(Options{})
	c.SetReg(regRxStaCnt0, 17)
	c.SetReg(regTxStaCnt2, 4)

	if v, _ := c.Read32(regRxStaCnt0); v != 17 {
		t.Errorf("first read = %d, want 17", v)
	}
	if v, _ := c.Read32(regRxStaCnt0); v != 0 {
		t.Errorf("second read = %d, want 0", v)
	}
	if v, _ := c.Read32(regTxStaCnt2); v != 4 {
		t.Errorf("TX_STA_CNT2 = %d, want 4", v)
	}
	if c.Reg(regTxStaCnt2) != 0 {
		t.Error("TX_STA_CNT2 not cleared")
	}
}

func TestChip_TxStatusFIFO(t *testing.T) {
	c := New(Options{})
	c.PushTxStatus(0x21, 0x01)

	for _, want := range []uint32{0x21, 0x01, 0} {
		if v, _ := c.Read32(regTxStatFIFO); v != want {
			t.Errorf("FIFO = %#x, want %#x", v, want)
		}
	}
}

func TestChip_Force(t *testing.T) {
	c := New(Options{})
	c.SetReg(0x02a0, 0x00c0)
	c.Force(0x02a0, 1<<31)

	if v, _ := c.Read32(0x02a0); v != 0x800000c0 {
		t.Errorf("forced read = %#08x", v)
	}
	c.Force(0x02a0, 0)
	if v, _ := c.Read32(0x02a0); v != 0xc0 {
		t.Errorf("read after clear = %#08x", v)
	}
}

// =============================================================================
// Fault Injection Tests
// =============================================================================

func TestChip_FailWrite(t *testing.T) {
	c := New(Options{})
	boom := errors.New("boom")
	c.FailWrite(0x1808, boom)

	if err := c.Write32(0x1808, 1); !errors.Is(err, boom) {
		t.Errorf("Write32 = %v, want boom", err)
	}

	err := c.WriteBurst(0x1800, []uint32{1, 2, 3, 4})
	if !errors.Is(err, boom) {
		t.Errorf("WriteBurst = %v, want boom", err)
	}
	if c.Reg(0x1800) != 1 || c.Reg(0x1804) != 2 {
		t.Error("words before the fault were not written")
	}
	if c.Reg(0x180c) != 0 {
		t.Error("words after the fault were written")
	}

	c.FailWrite(0x1808, nil)
	if err := c.Write32(0x1808, 3); err != nil {
		t.Errorf("Write32 after clear = %v", err)
	}
}

func TestChip_Unplug(t *testing.T) {
	c := New(Options{})
	c.Unplug()

	if _, err := c.Read32(0); !errors.Is(err, pkg.ErrNoDevice) {
		t.Errorf("Read32 = %v, want ErrNoDevice", err)
	}
	if err := c.Write32(0, 0); !errors.Is(err, pkg.ErrNoDevice) {
		t.Errorf("Write32 = %v, want ErrNoDevice", err)
	}
	if err := c.WriteBurst(0, []uint32{0}); !errors.Is(err, pkg.ErrNoDevice) {
		t.Errorf("WriteBurst = %v, want ErrNoDevice", err)
	}
}

// =============================================================================
// Log Tests
// =============================================================================

func TestChip_Log(t *testing.T) {
	c := New(Options{})
	c.Write32(0x1004, 3)
	c.WriteBurst(0x1004, []uint32{0, 5})
	c.Read32(0x1004)

	log := c.Log()
	want := []Access{
		{OpWrite, 0x1004, 3},
		{OpBurst, 0x1004, 0},
		{OpBurst, 0x1008, 5},
		{OpRead, 0x1004, 0},
	}
	if len(log) != len(want) {
		t.Fatalf("log = %v", log)
	}
	for i := range want {
		if log[i] != want[i] {
			t.Errorf("log[%d] = %v, want %v", i, log[i], want[i])
		}
	}

	if got := c.Writes(0x1004); len(got) != 2 || got[0] != 3 || got[1] != 0 {
		t.Errorf("Writes(0x1004) = %v", got)
	}
	if c.Reads(0x1004) != 1 {
		t.Errorf("Reads(0x1004) = %d", c.Reads(0x1004))
	}

	c.ResetLog()
	if len(c.Log()) != 0 {
		t.Error("ResetLog left entries")
	}
}
