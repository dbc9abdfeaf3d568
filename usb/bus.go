package usb

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ardnew/softwlan/pkg"
)

// Bus defaults.
const (
	DefaultTimeout    = 500 * time.Millisecond
	DefaultBurstWords = 64
	DefaultRetries    = 10
	DefaultRetryDelay = 5 * time.Millisecond
)

// BusConfig tunes a Bus. Zero fields take the defaults above.
type BusConfig struct {
	Timeout    time.Duration // per control transfer
	BurstWords int           // words per MultiWrite request
	Retries    int           // attempts per vendor request
	RetryDelay time.Duration // pause between attempts
	Clock      pkg.Clock
}

func (c BusConfig) withDefaults() BusConfig {
	if c.Timeout <= 0 {
		c.Timeout = DefaultTimeout
	}
	if c.BurstWords <= 0 {
		c.BurstWords = DefaultBurstWords
	}
	if c.Retries <= 0 {
		c.Retries = DefaultRetries
	}
	if c.RetryDelay <= 0 {
		c.RetryDelay = DefaultRetryDelay
	}
	if c.Clock == nil {
		c.Clock = pkg.SystemClock{}
	}
	return c
}

// Bus provides 32-bit register access over MT7601U vendor requests.
type Bus struct {
	t   Transport
	cfg BusConfig

	mu      sync.Mutex // serializes vendor requests; guards buf
	buf     []byte
	removed atomic.Bool
}

// NewBus wraps t.
func NewBus(t Transport, cfg BusConfig) *Bus {
	cfg = cfg.withDefaults()
	return &Bus{
		t:   t,
		cfg: cfg,
		buf: make([]byte, cfg.BurstWords*4),
	}
}

// Removed reports whether the transport has reported the device gone.
func (b *Bus) Removed() bool {
	return b.removed.Load()
}

// BurstWords returns the number of words sent per MultiWrite request.
func (b *Bus) BurstWords() int {
	return b.cfg.BurstWords
}

// vendorRequest issues one vendor request, retrying transient failures.
// The caller must hold b.mu.
func (b *Bus) vendorRequest(req VendorRequest, in bool, value, index uint16, data []byte) error {
	if b.removed.Load() {
		return pkg.ErrNoDevice
	}

	setup := vendorSetup(req, in, value, index, len(data))

	var err error
	for attempt := 1; attempt <= b.cfg.Retries; attempt++ {
		ctx, cancel := context.WithTimeout(context.Background(), b.cfg.Timeout)
		var n int
		n, err = b.t.ControlTransfer(ctx, &setup, data)
		cancel()

		if err == nil {
			if n != len(data) {
				return fmt.Errorf("%w: %s index 0x%04x: %d of %d bytes",
					pkg.ErrShortTransfer, req, index, n, len(data))
			}
			return nil
		}
		if errors.Is(err, pkg.ErrNoDevice) {
			b.removed.Store(true)
			pkg.LogWarn(pkg.ComponentUSB, "device gone", "request", req.String(), "index", index)
			return err
		}

		pkg.LogDebug(pkg.ComponentUSB, "vendor request failed",
			"request", req.String(), "index", index, "attempt", attempt, "error", err)
		// Fixed spacing, matching the vendor driver's retry loop.
		if attempt < b.cfg.Retries {
			b.cfg.Clock.Sleep(b.cfg.RetryDelay)
		}
	}
	return fmt.Errorf("%s index 0x%04x failed after %d attempts: %w",
		req, index, b.cfg.Retries, err)
}

func checkAddr(addr uint32, words int) error {
	if addr&3 != 0 || uint64(addr)+uint64(words)*4 > 0x10000 {
		return fmt.Errorf("%w: register 0x%x (+%d words) not addressable",
			pkg.ErrInvalidParameter, addr, words)
	}
	return nil
}

// Read32 reads one register with a MultiRead request.
func (b *Bus) Read32(addr uint32) (uint32, error) {
	if err := checkAddr(addr, 1); err != nil {
		return 0, err
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	buf := b.buf[:4]
	if err := b.vendorRequest(VendorMultiRead, true, 0, uint16(addr), buf); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(buf), nil
}

// Write32 writes one register as two 16-bit Write requests, low half first.
func (b *Bus) Write32(addr, val uint32) error {
	if err := checkAddr(addr, 1); err != nil {
		return err
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if err := b.vendorRequest(VendorWrite, false, uint16(val), uint16(addr), nil); err != nil {
		return err
	}
	return b.vendorRequest(VendorWrite, false, uint16(val>>16), uint16(addr+2), nil)
}

// WriteBurst writes consecutive registers starting at addr using
// MultiWrite requests of at most BurstWords words each. The vendor lock is
// held across all chunks so no other register access interleaves.
func (b *Bus) WriteBurst(addr uint32, vals []uint32) error {
	if len(vals) == 0 {
		return nil
	}
	if err := checkAddr(addr, len(vals)); err != nil {
		return err
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	for len(vals) > 0 {
		n := min(len(vals), b.cfg.BurstWords)
		buf := b.buf[:n*4]
		for i, v := range vals[:n] {
			binary.LittleEndian.PutUint32(buf[i*4:], v)
		}
		if err := b.vendorRequest(VendorMultiWrite, false, 0, uint16(addr), buf); err != nil {
			return err
		}
		addr += uint32(n * 4)
		vals = vals[n:]
	}
	return nil
}

// ReadEEPROM fills buf with EEPROM contents starting at offset.
func (b *Bus) ReadEEPROM(offset uint16, buf []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.vendorRequest(VendorReadEEPROM, true, 0, offset, buf)
}

// Reset asks the device to reset its USB logic.
func (b *Bus) Reset() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.vendorRequest(VendorDeviceMode, false, DeviceModeReset, 0, nil)
}
