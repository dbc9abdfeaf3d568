package mt7601u

import (
	"fmt"
	"time"

	"github.com/ardnew/softwlan/pkg"
)

// Poll intervals of the microsecond and millisecond poll flavors.
const (
	PollInterval     = 10 * time.Microsecond
	PollMsecInterval = 10 * time.Millisecond
)

// Poll waits until Read(addr)&mask == expected, checking every 10µs.
func (d *Device) Poll(addr, mask, expected uint32, timeout time.Duration) error {
	return d.PollEvery(addr, mask, expected, timeout, PollInterval)
}

// PollMsec is Poll with a 10ms check interval, for waits measured in
// milliseconds.
func (d *Device) PollMsec(addr, mask, expected uint32, timeout time.Duration) error {
	return d.PollEvery(addr, mask, expected, timeout, PollMsecInterval)
}

// PollEvery waits until Read(addr)&mask == expected. It succeeds at the
// first matching check and gives up once timeout has elapsed on the device
// clock, returning an error wrapping pkg.ErrTimeout. It never sleeps past
// the deadline. Each read takes the register lock on its own.
func (d *Device) PollEvery(addr, mask, expected uint32, timeout, interval time.Duration) error {
	return d.poll(d.Read, addr, mask, expected, timeout, interval)
}

// pollLocked is PollEvery for callers already holding regMu.
func (d *Device) pollLocked(addr, mask, expected uint32, timeout time.Duration) error {
	return d.poll(d.readLocked, addr, mask, expected, timeout, PollInterval)
}

func (d *Device) poll(read func(uint32) uint32, addr, mask, expected uint32, timeout, interval time.Duration) error {
	start := d.clock.Now()
	for {
		if d.Removed() {
			return pkg.ErrRemoved
		}
		v := read(addr)
		if d.Removed() {
			return pkg.ErrRemoved
		}
		if v&mask == expected {
			return nil
		}

		elapsed := d.clock.Now().Sub(start)
		if elapsed >= timeout {
			return fmt.Errorf("%w: 0x%04x&0x%08x=0x%08x, want 0x%08x after %v",
				pkg.ErrTimeout, addr, mask, v&mask, expected, timeout)
		}
		d.clock.Sleep(min(interval, timeout-elapsed))
	}
}
