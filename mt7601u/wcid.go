package mt7601u

import (
	"fmt"

	"github.com/ardnew/softwlan/pkg"
)

// WCIDSlots is the size of the station table. Slot 0 is reserved for
// multicast traffic.
const WCIDSlots = 128

// AllocWCID reserves the lowest free station slot.
func (d *Device) AllocWCID() (int, error) {
	d.wcidMu.Lock()
	defer d.wcidMu.Unlock()

	for i := 1; i < WCIDSlots; i++ {
		w, b := i/64, uint(i%64)
		if d.wcid[w]&(1<<b) == 0 {
			d.wcid[w] |= 1 << b
			return i, nil
		}
	}
	return -1, fmt.Errorf("%w: all %d station slots in use", pkg.ErrResourceExhausted, WCIDSlots-1)
}

// FreeWCID releases a slot returned by AllocWCID. Slot 0 and out of range
// indices are ignored.
func (d *Device) FreeWCID(idx int) {
	if idx <= 0 || idx >= WCIDSlots {
		return
	}
	d.wcidMu.Lock()
	defer d.wcidMu.Unlock()
	d.wcid[idx/64] &^= 1 << uint(idx%64)
}

// Station table initial contents.
const (
	wcidAddrEmptyLo = 0xffffffff
	wcidAddrEmptyHi = 0x00ffffff
	wcidAttrDefault = 1
	skeyModeWords   = 4
)

func (d *Device) initWCIDMem() error {
	return d.fillBurst(RegWCIDAddrBase, WCIDSlots*2, wcidAddrEmptyLo, wcidAddrEmptyHi)
}

func (d *Device) initKeyMem() error {
	return d.fillBurst(RegSKeyModeBase0, skeyModeWords, 0)
}

func (d *Device) initWCIDAttrMem() error {
	return d.fillBurst(RegWCIDAttrBase, WCIDSlots*2, wcidAttrDefault)
}
