// Package usb defines the transport contract the driver needs from a USB
// host stack and implements the MT7601U vendor-request register protocol
// on top of it.
//
// A [Transport] is one opened adapter: control transfers on endpoint 0,
// bulk transfers on data endpoints, and the negotiated max packet size per
// endpoint. The usb/linux package provides a usbfs-backed Transport.
//
// [Bus] turns a Transport into 32-bit register access:
//
//	bus := usb.NewBus(transport, usb.BusConfig{Timeout: 500 * time.Millisecond})
//	v, err := bus.Read32(0x0000)
//
// Vendor requests are serialized by a single lock held for the duration of
// each control transfer. A transport error matching [pkg.ErrNoDevice]
// latches the bus into a removed state in which every later call fails
// immediately.
package usb
