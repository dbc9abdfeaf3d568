package mt7601u

import (
	"context"
	"fmt"
	"time"

	"github.com/ardnew/softwlan/pkg"
)

const (
	macStartDMATimeout  = 200000 * time.Microsecond
	macStartIdleTimeout = 50 * time.Microsecond
	macStopPollTimeout  = 1000 * time.Microsecond

	txDrainPolls    = 200
	txDrainInterval = 10 * time.Millisecond
	rxDrainPolls    = 200
	rxDrainInterval = time.Millisecond
	rxDrainSettled  = 6
)

// MacStart enables the MAC transmitter and receiver, programs the default
// RX filter and starts the TX status worker. The worker runs until MacStop,
// Detach, or the end of ctx.
func (d *Device) MacStart(ctx context.Context) error {
	if err := d.removedErr(); err != nil {
		return err
	}

	d.Write(RegMACSysCtrl, MACSysCtrlEnableTx)

	busy := uint32(WPDMAGloCfgTxDMABusy | WPDMAGloCfgRxDMABusy)
	if err := d.Poll(RegWPDMAGloCfg, busy, 0, macStartDMATimeout); err != nil {
		return fmt.Errorf("mac start: %w", err)
	}

	d.rxFilter.Store(DefaultRxFilter)
	d.Write(RegRxFiltrCfg, DefaultRxFilter)

	d.Write(RegMACSysCtrl, MACSysCtrlEnableTx|MACSysCtrlEnableRx)

	d.Read(RegEDCACfgAC(0))

	for i := 0; i < 2; i++ {
		if err := d.Poll(RegWPDMAGloCfg, busy, 0, macStartIdleTimeout); err != nil {
			return fmt.Errorf("mac start: %w", err)
		}
	}

	d.startStats(ctx)
	pkg.LogInfo(pkg.ComponentMAC, "mac started", "dev", d.id)
	return nil
}

// MacStop halts the MAC and waits for its queues to drain. Failed waits are
// logged and teardown carries on. The TX status worker is drained last.
func (d *Device) MacStop() {
	if !d.Removed() {
		d.macStopHW()
	}
	d.stopStats()
}

func (d *Device) macStopHW() {
	d.Clear(RegBeaconTimeCfg, beaconTimeCfgAllEnables)

	if err := d.Poll(RegUSBDMACfg, USBDMACfgTxBusy, 0, macStopPollTimeout); err != nil {
		pkg.LogWarn(pkg.ComponentMAC, "TX DMA did not stop", "dev", d.id, "error", err)
	}

	i := 0
	for ; i < txDrainPolls && d.txQueueBusy(); i++ {
		d.clock.Sleep(txDrainInterval)
	}
	if i == txDrainPolls {
		pkg.LogWarn(pkg.ComponentMAC, "TX queue did not drain", "dev", d.id)
	}

	if err := d.Poll(RegMACStatus, MACStatusTx, 0, macStopPollTimeout); err != nil {
		pkg.LogWarn(pkg.ComponentMAC, "MAC TX did not stop", "dev", d.id, "error", err)
	}

	d.Clear(RegMACSysCtrl, MACSysCtrlEnableRx)

	settled := 0
	for i := 0; i < rxDrainPolls && settled < rxDrainSettled; i++ {
		if d.rxQueueBusy() {
			settled = 0
		} else {
			settled++
		}
		if settled < rxDrainSettled {
			d.clock.Sleep(rxDrainInterval)
		}
	}
	if settled < rxDrainSettled {
		pkg.LogWarn(pkg.ComponentMAC, "RX queue did not drain", "dev", d.id)
	}

	if err := d.Poll(RegMACStatus, MACStatusRx, 0, macStopPollTimeout); err != nil {
		pkg.LogWarn(pkg.ComponentMAC, "MAC RX did not stop", "dev", d.id, "error", err)
	}

	if err := d.Poll(RegUSBDMACfg, USBDMACfgRxBusy, 0, macStopPollTimeout); err != nil {
		pkg.LogWarn(pkg.ComponentMAC, "RX DMA did not stop", "dev", d.id, "error", err)
	}

	pkg.LogInfo(pkg.ComponentMAC, "mac stopped", "dev", d.id)
}

func (d *Device) txQueueBusy() bool {
	return d.Read(RegTxQPageCnt) != 0 ||
		d.Read(RegPSEPageCnt0)&0x000000ff != 0 ||
		d.Read(RegPSEPageCnt1)&0x00ff00ff != 0
}

func (d *Device) rxQueueBusy() bool {
	return d.Read(RegRxQPageCnt)&0x00ff0000 != 0 ||
		d.Read(RegPSEPageCnt0) != 0 ||
		d.Read(RegPSEPageCnt1) != 0
}

// =============================================================================
// Teardown
// =============================================================================

// Cleanup drains the TX status worker, powers the chip off and releases
// the DMA and command collaborators acquired by InitHardware.
func (d *Device) Cleanup() {
	d.stopStats()
	d.setActive(false)

	if err := d.PowerOff(); err != nil {
		pkg.LogWarn(pkg.ComponentInit, "power off during cleanup", "dev", d.id, "error", err)
	}

	d.cmdMu.Lock()
	defer d.cmdMu.Unlock()
	if d.dmaUp {
		d.opts.DMA.Cleanup(d)
		d.dmaUp = false
	}
	if d.cmdUp {
		d.opts.Command.Deinit(d)
		d.cmdUp = false
	}
	d.stage.Store(uint32(StageNone))
}

// Detach marks the device removed, waits for background work and then
// releases everything. The handle is unusable afterwards.
func (d *Device) Detach() {
	d.MarkRemoved()
	d.stopStats()
	d.Cleanup()
	pkg.LogInfo(pkg.ComponentInit, "device detached", "dev", d.id)
}
