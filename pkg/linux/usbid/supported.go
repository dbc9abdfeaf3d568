package usbid

import "fmt"

// ID is a USB vendor/product pair.
type ID struct {
	Vendor  uint16
	Product uint16
}

// String formats the pair the way lsusb does ("148f:7601").
func (id ID) String() string {
	return fmt.Sprintf("%04x:%04x", id.Vendor, id.Product)
}

func (id ID) key() uint32 {
	return uint32(id.Vendor)<<16 | uint32(id.Product)
}

// Adapters lists the USB IDs of known MT7601U-based adapters.
var Adapters = []ID{
	{0x0b05, 0x17d3},
	{0x0e8d, 0x760a},
	{0x0e8d, 0x760b},
	{0x13d3, 0x3431},
	{0x13d3, 0x3434},
	{0x148f, 0x7601},
	{0x148f, 0x760a},
	{0x148f, 0x760b},
	{0x148f, 0x760c},
	{0x148f, 0x760d},
	{0x2001, 0x3d04},
	{0x2717, 0x4106},
	{0x2955, 0x0001},
	{0x2955, 0x1001},
	{0x2955, 0x1003},
	{0x2a5f, 0x1000},
	{0x7392, 0x7710},
}

var adapterSet = func() map[uint32]struct{} {
	m := make(map[uint32]struct{}, len(Adapters))
	for _, id := range Adapters {
		m[id.key()] = struct{}{}
	}
	return m
}()

// Supported reports whether vid:pid is a known MT7601U adapter.
func Supported(vid, pid uint16) bool {
	_, ok := adapterSet[ID{vid, pid}.key()]
	return ok
}
