package usb

import "context"

// Speed represents the USB connection speed.
type Speed uint8

// USB speed constants.
const (
	SpeedUnknown Speed = iota
	SpeedLow           // 1.5 Mbit/s
	SpeedFull          // 12 Mbit/s
	SpeedHigh          // 480 Mbit/s
)

// String returns a human-readable speed name.
func (s Speed) String() string {
	switch s {
	case SpeedLow:
		return "Low Speed"
	case SpeedFull:
		return "Full Speed"
	case SpeedHigh:
		return "High Speed"
	default:
		return "Unknown"
	}
}

// Request type bits (bmRequestType).
const (
	DirOut          uint8 = 0x00
	DirIn           uint8 = 0x80
	TypeVendor      uint8 = 0x40
	RecipientDevice uint8 = 0x00
)

// SetupPacket is a USB SETUP packet.
type SetupPacket struct {
	RequestType uint8  // Request characteristics
	Request     uint8  // Specific request
	Value       uint16 // Request-specific value
	Index       uint16 // Request-specific index
	Length      uint16 // Number of bytes in the data stage
}

// IsIn reports whether the data stage flows device to host.
func (s *SetupPacket) IsIn() bool {
	return s.RequestType&DirIn != 0
}

// Transport is an opened USB device.
type Transport interface {
	// ControlTransfer performs a control transfer on endpoint 0. For IN
	// requests data is filled; for OUT requests it is sent. Returns the
	// number of data-stage bytes transferred.
	ControlTransfer(ctx context.Context, setup *SetupPacket, data []byte) (int, error)

	// BulkTransfer performs a bulk transfer on the given endpoint address.
	BulkTransfer(ctx context.Context, endpoint uint8, data []byte) (int, error)

	// MaxPacketSize returns wMaxPacketSize of an endpoint address, or 0 if
	// the endpoint is unknown.
	MaxPacketSize(endpoint uint8) int

	// Close releases the device.
	Close() error
}
