//go:build linux && (386 || amd64 || arm || arm64 || riscv64 || loong64)

package linux

import "unsafe"

// Generic _IOC encoding (asm-generic/ioctl.h):
//
//	bits 0-7:   command number
//	bits 8-15:  type
//	bits 16-29: argument size
//	bits 30-31: direction
const (
	iocNone  = 0
	iocWrite = 1
	iocRead  = 2

	iocNRShift   = 0
	iocTypeShift = 8
	iocSizeShift = 16
	iocDirShift  = 30
)

func ioc(dir, typ, nr, size uintptr) uintptr {
	return dir<<iocDirShift | typ<<iocTypeShift | nr<<iocNRShift | size<<iocSizeShift
}

func ion(typ, nr uintptr) uintptr { return ioc(iocNone, typ, nr, 0) }
func ior(typ, nr, size uintptr) uintptr { return ioc(iocRead, typ, nr, size) }
func iowr(typ, nr, size uintptr) uintptr { return ioc(iocRead|iocWrite, typ, nr, size) }

const usbdevfsType = 'U'

// usbdevfs command numbers.
const (
	nrControl          = 0
	nrBulk             = 2
	nrClaimInterface   = 15
	nrReleaseInterface = 16
	nrIoctl            = 18
	nrReset            = 20
	nrDisconnect       = 22
)

var (
	usbdevfsControl          = iowr(usbdevfsType, nrControl, unsafe.Sizeof(ctrlTransfer{}))
	usbdevfsBulk             = iowr(usbdevfsType, nrBulk, unsafe.Sizeof(bulkTransfer{}))
	usbdevfsClaimInterface   = ior(usbdevfsType, nrClaimInterface, unsafe.Sizeof(uint32(0)))
	usbdevfsReleaseInterface = ior(usbdevfsType, nrReleaseInterface, unsafe.Sizeof(uint32(0)))
	usbdevfsIoctl            = iowr(usbdevfsType, nrIoctl, unsafe.Sizeof(ifaceIoctl{}))
	usbdevfsReset            = ion(usbdevfsType, nrReset)
	usbdevfsDisconnect       = ion(usbdevfsType, nrDisconnect)
)
