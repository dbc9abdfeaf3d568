package mt7601u

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ardnew/softwlan/pkg"
)

// Stage identifies one step of InitHardware.
type Stage uint32

// Bring-up stages, in execution order.
const (
	StageNone Stage = iota
	StagePowerOn
	StageASICReady
	StageFirmware
	StageFirmwareReady
	StageResetCSR
	StageUSBAggregation
	StageCommandInit
	StageDMAInit
	StageMACInitvals
	StageBeaconOffsets
	StageChipInitvals
	StageMACIdle
	StageBBPInit
	StageMaxLength
	StageStationTables
	StageBeaconTimers
	StageUSBCycle
	StageCalibration
	StageEDCA
)

var stageNames = [...]string{
	StageNone:           "none",
	StagePowerOn:        "power-on",
	StageASICReady:      "asic-ready",
	StageFirmware:       "firmware",
	StageFirmwareReady:  "firmware-ready",
	StageResetCSR:       "reset-csr-bbp",
	StageUSBAggregation: "usb-aggregation",
	StageCommandInit:    "command-init",
	StageDMAInit:        "dma-init",
	StageMACInitvals:    "mac-initvals",
	StageBeaconOffsets:  "beacon-offsets",
	StageChipInitvals:   "chip-initvals",
	StageMACIdle:        "mac-idle",
	StageBBPInit:        "bbp-init",
	StageMaxLength:      "max-length",
	StageStationTables:  "station-tables",
	StageBeaconTimers:   "beacon-timers",
	StageUSBCycle:       "usb-cycle",
	StageCalibration:    "calibration",
	StageEDCA:           "edca",
}

func (s Stage) String() string {
	if int(s) < len(stageNames) {
		return stageNames[s]
	}
	return fmt.Sprintf("Stage(%d)", uint32(s))
}

// Stage returns the furthest bring-up stage completed by the last
// InitHardware call.
func (d *Device) Stage() Stage { return Stage(d.stage.Load()) }

type stage struct {
	id  Stage
	run func(d *Device, ctx context.Context) error
}

var stages = []stage{
	{StagePowerOn, (*Device).stagePowerOn},
	{StageASICReady, (*Device).stageASICReady},
	{StageFirmware, (*Device).stageFirmware},
	{StageFirmwareReady, (*Device).stageFirmwareReady},
	{StageResetCSR, (*Device).stageResetCSR},
	{StageUSBAggregation, (*Device).stageUSBAggregation},
	{StageCommandInit, (*Device).stageCommandInit},
	{StageDMAInit, (*Device).stageDMAInit},
	{StageMACInitvals, (*Device).stageMACInitvals},
	{StageBeaconOffsets, (*Device).stageBeaconOffsets},
	{StageChipInitvals, (*Device).stageChipInitvals},
	{StageMACIdle, (*Device).stageMACIdle},
	{StageBBPInit, (*Device).stageBBPInit},
	{StageMaxLength, (*Device).stageMaxLength},
	{StageStationTables, (*Device).stageStationTables},
	{StageBeaconTimers, (*Device).stageBeaconTimers},
	{StageUSBCycle, (*Device).stageUSBCycle},
	{StageCalibration, (*Device).stageCalibration},
	{StageEDCA, (*Device).stageEDCA},
}

const (
	asicReadyInterval = 10 * time.Microsecond
	dmaIdleTimeout    = 100 * time.Millisecond
	macIdleTimeout    = 100 * time.Millisecond
	resetHold         = time.Millisecond
	bbpReadyTries     = 20

	maxLenFinal  = 0x3fff
	usbCycMask   = 0xffffff00
	usbCycValue  = 0x1e
	txopCtrlInit = 0x583f
)

// InitHardware brings the device from any state to operational. A TX status
// worker left by MacStart is drained first. Stages run strictly in order;
// the first failure rolls back what was acquired, powers the chip off and
// returns a *StageError. Concurrent calls fail with pkg.ErrAlreadyRunning.
func (d *Device) InitHardware(ctx context.Context) error {
	if !d.initBusy.CompareAndSwap(false, true) {
		return pkg.ErrAlreadyRunning
	}
	defer d.initBusy.Store(false)

	if err := d.removedErr(); err != nil {
		return &StageError{Stage: StageNone, Err: err}
	}

	// Drain any worker left running by MacStart.
	d.stopStats()
	d.setActive(false)
	d.stage.Store(uint32(StageNone))

	for _, s := range stages {
		err := ctx.Err()
		if err == nil {
			pkg.LogDebug(pkg.ComponentInit, "stage", "dev", d.id, "stage", s.id)
			err = s.run(d, ctx)
		}
		if err != nil {
			d.rollback(d.Stage())
			pkg.LogError(pkg.ComponentInit, "bring-up failed",
				"dev", d.id,
				"stage", s.id,
				"error", err)
			return &StageError{Stage: s.id, Err: err}
		}
		d.stage.Store(uint32(s.id))
	}

	d.setActive(true)
	pkg.LogInfo(pkg.ComponentInit, "hardware initialized",
		"dev", d.id,
		"asic", fmt.Sprintf("0x%08x", d.ASICVersion()))
	return nil
}

// rollback releases what the stages up to completed acquired, newest
// first, then powers the chip off.
func (d *Device) rollback(completed Stage) {
	pkg.LogDebug(pkg.ComponentInit, "rollback", "dev", d.id, "completed", completed)

	d.cmdMu.Lock()
	if completed >= StageDMAInit && d.dmaUp {
		d.opts.DMA.Cleanup(d)
		d.dmaUp = false
	}
	if completed >= StageCommandInit && d.cmdUp {
		d.opts.Command.Deinit(d)
		d.cmdUp = false
	}
	d.cmdMu.Unlock()

	if err := d.PowerOff(); err != nil {
		pkg.LogWarn(pkg.ComponentInit, "power off during rollback", "dev", d.id, "error", err)
	}
}

// collaborate runs fn under the command lock.
func (d *Device) collaborate(fn func() error) error {
	d.cmdMu.Lock()
	defer d.cmdMu.Unlock()
	return fn()
}

// =============================================================================
// Stages
// =============================================================================

func (d *Device) stagePowerOn(context.Context) error {
	err := d.PowerOn(true)
	if errors.Is(err, pkg.ErrPLLUnlocked) && !d.opts.AbortOnPLLFailure {
		pkg.LogWarn(pkg.ComponentInit, "continuing without PLL lock", "dev", d.id)
		return nil
	}
	return err
}

func (d *Device) stageASICReady(context.Context) error {
	return d.waitASICReady()
}

// waitASICReady polls MAC_CSR0 until it holds a chip id.
func (d *Device) waitASICReady() error {
	var v uint32
	for i := 0; i < d.opts.ASICReadyPolls; i++ {
		if err := d.removedErr(); err != nil {
			return err
		}
		v = d.Read(RegMACCSR0)
		if v != 0 && v != 0xffffffff {
			d.asicRev.Store(v)
			pkg.LogDebug(pkg.ComponentInit, "asic ready", "dev", d.id, "csr0", fmt.Sprintf("0x%08x", v))
			return nil
		}
		d.clock.Sleep(asicReadyInterval)
	}
	if err := d.removedErr(); err != nil {
		return err
	}
	return fmt.Errorf("%w: MAC_CSR0 0x%08x after %d polls: %w",
		pkg.ErrASICNotReady, v, d.opts.ASICReadyPolls, pkg.ErrTimeout)
}

func (d *Device) stageFirmware(ctx context.Context) error {
	return d.collaborate(func() error { return d.opts.Firmware.LoadAndStart(ctx, d) })
}

func (d *Device) stageFirmwareReady(context.Context) error {
	err := d.PollMsec(RegWPDMAGloCfg, WPDMAGloCfgTxDMABusy|WPDMAGloCfgRxDMABusy, 0, dmaIdleTimeout)
	if err != nil {
		return fmt.Errorf("WPDMA busy after firmware load: %w", err)
	}
	return d.waitASICReady()
}

func (d *Device) stageResetCSR(context.Context) error {
	d.Write(RegMACSysCtrl, MACSysCtrlResetCSR|MACSysCtrlResetBBP)
	d.Write(RegUSBDMACfg, 0)
	d.clock.Sleep(resetHold)
	d.Write(RegMACSysCtrl, 0)
	return d.removedErr()
}

// usbDMACfg returns the USB_DMA_CFG value for the configured aggregation.
func (d *Device) usbDMACfg() uint32 {
	val := uint32(d.opts.RxAggTimeout)&USBDMACfgRxAggTimeoutMask |
		uint32(d.opts.RxAggLimit)<<USBDMACfgRxAggLimitShift |
		USBDMACfgRxBulkEn | USBDMACfgTxBulkEn
	if d.opts.InMaxPacket == 512 {
		val |= USBDMACfgRxBulkAggEn
	}
	return val
}

func (d *Device) stageUSBAggregation(context.Context) error {
	val := d.usbDMACfg()
	d.Write(RegUSBDMACfg, val)

	// UDMA_RX_WL_DROP acts on the edge.
	d.Write(RegUSBDMACfg, val|USBDMACfgUDMARxWLDrop)
	d.Write(RegUSBDMACfg, val)
	return d.removedErr()
}

func (d *Device) stageCommandInit(ctx context.Context) error {
	return d.collaborate(func() error {
		if err := d.opts.Command.Init(ctx, d); err != nil {
			return err
		}
		d.cmdUp = true
		return nil
	})
}

func (d *Device) stageDMAInit(ctx context.Context) error {
	return d.collaborate(func() error {
		if err := d.opts.DMA.Init(ctx, d); err != nil {
			return err
		}
		d.dmaUp = true
		return nil
	})
}

func (d *Device) stageMACInitvals(context.Context) error {
	return d.ApplyTable(macInitvals)
}

func (d *Device) stageBeaconOffsets(context.Context) error {
	return d.initBeaconOffsets()
}

func (d *Device) stageChipInitvals(context.Context) error {
	if err := d.ApplyTable(chipInitvals); err != nil {
		return err
	}
	d.Clear(RegMACSysCtrl, MACSysCtrlResetCSR|MACSysCtrlResetBBP)
	d.Write(RegAuxClkCfg, 0)
	return d.removedErr()
}

func (d *Device) stageMACIdle(context.Context) error {
	return d.PollMsec(RegMACStatus, MACStatusTx|MACStatusRx, 0, macIdleTimeout)
}

func (d *Device) stageBBPInit(context.Context) error {
	ready := false
	for i := 0; i < bbpReadyTries && !ready; i++ {
		ready = d.BBPReady()
	}
	if !ready {
		if err := d.removedErr(); err != nil {
			return err
		}
		return fmt.Errorf("%w after %d tries", pkg.ErrBBPNotReady, bbpReadyTries)
	}

	if err := d.ApplyBBPTable(bbpInitvals); err != nil {
		return err
	}
	return d.ApplyBBPTable(bbpChipInitvals)
}

func (d *Device) stageMaxLength(context.Context) error {
	d.Set(RegMaxLenCfg, maxLenFinal)
	return d.removedErr()
}

func (d *Device) stageStationTables(context.Context) error {
	if err := d.initWCIDMem(); err != nil {
		return fmt.Errorf("station address table: %w", err)
	}
	d.resetCounters()
	if err := d.initKeyMem(); err != nil {
		return fmt.Errorf("key mode table: %w", err)
	}
	if err := d.initWCIDAttrMem(); err != nil {
		return fmt.Errorf("station attribute table: %w", err)
	}
	return nil
}

func (d *Device) stageBeaconTimers(context.Context) error {
	d.Clear(RegBeaconTimeCfg, beaconTimeCfgAllEnables)
	d.resetCounters()
	return d.removedErr()
}

func (d *Device) stageUSBCycle(context.Context) error {
	d.RMW(RegUSBCycCfg, usbCycMask, usbCycValue)
	d.Write(RegTXOPCtrlCfg, txopCtrlInit)
	return d.removedErr()
}

func (d *Device) stageCalibration(ctx context.Context) error {
	return d.collaborate(func() error {
		if err := d.opts.EEPROM.Init(ctx, d); err != nil {
			return fmt.Errorf("eeprom: %w", err)
		}
		if err := d.opts.PHY.Init(ctx, d); err != nil {
			return fmt.Errorf("phy: %w", err)
		}
		return nil
	})
}

func (d *Device) stageEDCA(context.Context) error {
	return d.SetEDCA(DefaultEDCA())
}

// resetCounters clears the statistics counters, which clear on read.
func (d *Device) resetCounters() {
	for _, addr := range [...]uint32{
		RegRxStaCnt0, RegRxStaCnt1, RegRxStaCnt2,
		RegTxStaCnt0, RegTxStaCnt1, RegTxStaCnt2,
	} {
		d.Read(addr)
	}
}
