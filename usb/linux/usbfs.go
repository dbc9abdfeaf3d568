//go:build linux

package linux

import (
	"errors"
	"unsafe"

	"golang.org/x/sys/unix"

	"github.com/ardnew/softwlan/pkg"
)

// ctrlTransfer matches struct usbdevfs_ctrltransfer.
type ctrlTransfer struct {
	requestType uint8
	request     uint8
	value       uint16
	index       uint16
	length      uint16
	timeout     uint32 // milliseconds
	data        unsafe.Pointer
}

// bulkTransfer matches struct usbdevfs_bulktransfer.
type bulkTransfer struct {
	endpoint uint32
	length   uint32
	timeout  uint32 // milliseconds
	data     unsafe.Pointer
}

// ifaceIoctl matches struct usbdevfs_ioctl.
type ifaceIoctl struct {
	ifno      int32
	ioctlCode int32
	data      unsafe.Pointer
}

func ioctlPtr(fd int, req uintptr, arg unsafe.Pointer) (int, error) {
	r, _, errno := unix.Syscall(unix.SYS_IOCTL, uintptr(fd), req, uintptr(arg))
	if errno != 0 {
		return 0, errno
	}
	return int(r), nil
}

func openDevice(path string) (int, error) {
	return unix.Open(path, unix.O_RDWR|unix.O_CLOEXEC, 0)
}

func closeDevice(fd int) error {
	return unix.Close(fd)
}

func doControlTransfer(fd int, reqType, req uint8, value, index uint16, data []byte, timeoutMs uint32) (int, error) {
	ctrl := ctrlTransfer{
		requestType: reqType,
		request:     req,
		value:       value,
		index:       index,
		length:      uint16(len(data)),
		timeout:     timeoutMs,
	}
	if len(data) > 0 {
		ctrl.data = unsafe.Pointer(&data[0])
	}
	return ioctlPtr(fd, usbdevfsControl, unsafe.Pointer(&ctrl))
}

func doBulkTransfer(fd int, endpoint uint8, data []byte, timeoutMs uint32) (int, error) {
	bulk := bulkTransfer{
		endpoint: uint32(endpoint),
		length:   uint32(len(data)),
		timeout:  timeoutMs,
	}
	if len(data) > 0 {
		bulk.data = unsafe.Pointer(&data[0])
	}
	return ioctlPtr(fd, usbdevfsBulk, unsafe.Pointer(&bulk))
}

func claimInterface(fd int, iface uint8) error {
	n := uint32(iface)
	_, err := ioctlPtr(fd, usbdevfsClaimInterface, unsafe.Pointer(&n))
	return err
}

func releaseInterface(fd int, iface uint8) error {
	n := uint32(iface)
	_, err := ioctlPtr(fd, usbdevfsReleaseInterface, unsafe.Pointer(&n))
	return err
}

// disconnectDriver detaches the kernel driver bound to iface. ENODATA
// means no driver was bound.
func disconnectDriver(fd int, iface uint8) error {
	cmd := ifaceIoctl{
		ifno:      int32(iface),
		ioctlCode: int32(usbdevfsDisconnect),
	}
	_, err := ioctlPtr(fd, usbdevfsIoctl, unsafe.Pointer(&cmd))
	if errors.Is(err, unix.ENODATA) {
		return nil
	}
	return err
}

func resetDevice(fd int) error {
	_, err := ioctlPtr(fd, usbdevfsReset, nil)
	return err
}

// mapErrno converts usbfs errno values to driver errors.
func mapErrno(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, unix.ENODEV), errors.Is(err, unix.ESHUTDOWN):
		return pkg.ErrNoDevice
	case errors.Is(err, unix.EPIPE):
		return pkg.ErrStall
	case errors.Is(err, unix.ETIMEDOUT):
		return pkg.ErrTimeout
	default:
		return err
	}
}
