// Package linux opens MT7601U adapters through Linux usbfs and watches for
// their removal.
//
// Discovery reads /sys/bus/usb/devices (see [Scan] and [FindAdapters]);
// [Open] opens the matching /dev/bus/usb/BBB/DDD node, detaches any kernel
// driver from the interface, claims it, and returns a [Device] that
// implements usb.Transport with synchronous USBDEVFS_CONTROL and
// USBDEVFS_BULK ioctls. [Monitor] reads kernel uevents from a netlink
// socket so callers can mark a device removed as soon as it is unplugged.
//
// # Requirements
//
// The process needs read/write access to the device node, either as root
// or through a udev rule such as:
//
//	SUBSYSTEM=="usb", ATTR{idVendor}=="148f", ATTR{idProduct}=="7601", MODE="0660", GROUP="plugdev"
//
// The package is pure Go (golang.org/x/sys/unix, no cgo).
package linux
