//go:build linux

package linux

import (
	"context"
	"sync"
	"time"

	"github.com/ardnew/softwlan/pkg"
	"github.com/ardnew/softwlan/usb"
)

// Device is an opened usbfs device node with one claimed interface. It
// implements usb.Transport.
type Device struct {
	info  DeviceInfo
	iface uint8

	mu     sync.RWMutex // guards fd against Close
	fd     int
	closed bool
}

var _ usb.Transport = (*Device)(nil)

// Open opens info.DevfsPath, detaches any kernel driver from iface and
// claims it.
func Open(info DeviceInfo, iface uint8) (*Device, error) {
	if iface >= MaxInterfacesPerDevice {
		return nil, pkg.ErrInvalidParameter
	}

	fd, err := openDevice(info.DevfsPath)
	if err != nil {
		return nil, mapErrno(err)
	}

	if err := disconnectDriver(fd, iface); err != nil {
		pkg.LogDebug(pkg.ComponentHAL, "driver detach failed", "device", info.Name(), "error", err)
	}
	if err := claimInterface(fd, iface); err != nil {
		closeDevice(fd)
		return nil, mapErrno(err)
	}

	pkg.LogDebug(pkg.ComponentHAL, "device opened",
		"device", info.Name(), "path", info.DevfsPath, "interface", iface)
	return &Device{info: info, iface: iface, fd: fd}, nil
}

// Info returns the sysfs description the device was opened from.
func (d *Device) Info() DeviceInfo {
	return d.info
}

// timeoutMs converts the context deadline into a usbfs timeout.
func timeoutMs(ctx context.Context) uint32 {
	deadline, ok := ctx.Deadline()
	if !ok {
		return DefaultTransferTimeoutMs
	}
	ms := time.Until(deadline).Milliseconds()
	if ms < 1 {
		ms = 1
	}
	return uint32(ms)
}

// ControlTransfer performs a synchronous control transfer.
func (d *Device) ControlTransfer(ctx context.Context, setup *usb.SetupPacket, data []byte) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		return 0, pkg.ErrNoDevice
	}

	n, err := doControlTransfer(d.fd, setup.RequestType, setup.Request,
		setup.Value, setup.Index, data, timeoutMs(ctx))
	return n, mapErrno(err)
}

// BulkTransfer performs a synchronous bulk transfer.
func (d *Device) BulkTransfer(ctx context.Context, endpoint uint8, data []byte) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		return 0, pkg.ErrNoDevice
	}

	n, err := doBulkTransfer(d.fd, endpoint, data, timeoutMs(ctx))
	return n, mapErrno(err)
}

// MaxPacketSize returns wMaxPacketSize from sysfs for endpoint.
func (d *Device) MaxPacketSize(endpoint uint8) int {
	return d.info.MaxPacketSize(endpoint)
}

// Reset issues a USB port reset. The kernel may re-enumerate the device,
// after which this handle is stale.
func (d *Device) Reset() error {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		return pkg.ErrNoDevice
	}
	return mapErrno(resetDevice(d.fd))
}

// Close releases the interface and closes the node. It is idempotent.
func (d *Device) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return nil
	}
	d.closed = true

	if err := releaseInterface(d.fd, d.iface); err != nil {
		pkg.LogDebug(pkg.ComponentHAL, "release interface failed", "device", d.info.Name(), "error", err)
	}
	return closeDevice(d.fd)
}
