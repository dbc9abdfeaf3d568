package linux

// System paths.
const (
	// SysfsUSBPath is the base path for USB devices in sysfs.
	SysfsUSBPath = "/sys/bus/usb/devices"

	// DevfsUSBPath is the base path for USB device nodes.
	DevfsUSBPath = "/dev/bus/usb"
)

// MaxInterfacesPerDevice bounds the interface claim mask.
const MaxInterfacesPerDevice = 16

// DefaultTransferTimeoutMs applies when a transfer context has no deadline.
const DefaultTransferTimeoutMs = 1000

// Netlink uevent parameters.
const (
	// netlinkKernelGroup is the kernel uevent multicast group.
	netlinkKernelGroup = 1

	// UEventBufferSize is the receive buffer size for one uevent.
	UEventBufferSize = 4096

	// monitorPollMs bounds how long Monitor.Run blocks before rechecking
	// its context.
	monitorPollMs = 100
)
