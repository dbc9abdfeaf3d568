package mt7601u

import (
	"context"
	"sync/atomic"

	"github.com/ardnew/softwlan/pkg"
)

// TxStats are the transmit outcomes accumulated by the status worker.
type TxStats struct {
	Success    uint64
	Failed     uint64
	Aggregated uint64
	Retries    uint64
	Samples    uint64
}

type txCounters struct {
	success    atomic.Uint64
	failed     atomic.Uint64
	aggregated atomic.Uint64
	retries    atomic.Uint64
	samples    atomic.Uint64
}

// TxStats returns a snapshot of the transmit counters.
func (d *Device) TxStats() TxStats {
	return TxStats{
		Success:    d.txStats.success.Load(),
		Failed:     d.txStats.failed.Load(),
		Aggregated: d.txStats.aggregated.Load(),
		Retries:    d.txStats.retries.Load(),
		Samples:    d.txStats.samples.Load(),
	}
}

// maxFIFODrain bounds the entries consumed per sample.
const maxFIFODrain = 32

// txStaCnt1RetryShift locates the retransmit count in TX_STA_CNT1.
const txStaCnt1RetryShift = 16

type statsWorker struct {
	cancel context.CancelFunc
	done   chan struct{}
}

// startStats launches the TX status worker unless it is already running.
func (d *Device) startStats(ctx context.Context) {
	d.statsMu.Lock()
	defer d.statsMu.Unlock()

	if d.worker != nil {
		return
	}
	ctx, cancel := context.WithCancel(ctx)
	w := &statsWorker{cancel: cancel, done: make(chan struct{})}
	d.worker = w
	go d.statsLoop(ctx, w.done)
}

// stopStats cancels the worker and blocks until it has exited.
func (d *Device) stopStats() {
	d.statsMu.Lock()
	w := d.worker
	d.worker = nil
	d.statsMu.Unlock()

	if w == nil {
		return
	}
	w.cancel()
	<-w.done
	pkg.LogDebug(pkg.ComponentStats, "worker drained", "dev", d.id)
}

// StatsRunning reports whether the TX status worker is running.
func (d *Device) StatsRunning() bool {
	d.statsMu.Lock()
	defer d.statsMu.Unlock()
	return d.worker != nil
}

func (d *Device) statsLoop(ctx context.Context, done chan<- struct{}) {
	defer close(done)

	for {
		select {
		case <-ctx.Done():
			return
		case <-d.clock.After(d.opts.StatsPeriod):
			if d.Removed() {
				pkg.LogDebug(pkg.ComponentStats, "device removed, worker exiting", "dev", d.id)
				return
			}
			d.sampleTxStatus()
		}
	}
}

// sampleTxStatus drains TX_STAT_FIFO and the retry counter.
func (d *Device) sampleTxStatus() {
	d.txStats.samples.Add(1)

	for i := 0; i < maxFIFODrain; i++ {
		v := d.Read(RegTxStatFIFO)
		if d.Removed() || v&TxStatFIFOValid == 0 {
			break
		}
		if v&TxStatFIFOSuccess != 0 {
			d.txStats.success.Add(1)
		} else {
			d.txStats.failed.Add(1)
		}
		if v&TxStatFIFOAggr != 0 {
			d.txStats.aggregated.Add(1)
		}
		pkg.LogDebug(pkg.ComponentStats, "tx status",
			"wcid", (v&TxStatFIFOWCIDMask)>>TxStatFIFOWCIDShift,
			"success", v&TxStatFIFOSuccess != 0)
	}

	cnt := d.Read(RegTxStaCnt1)
	if !d.Removed() {
		d.txStats.retries.Add(uint64(cnt >> txStaCnt1RetryShift))
	}
}
