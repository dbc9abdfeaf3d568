package usb

// VendorRequest is an MT7601U bRequest code.
type VendorRequest uint8

// Vendor requests understood by the MT7601U.
const (
	VendorDeviceMode VendorRequest = 1 // value selects the mode
	VendorWrite      VendorRequest = 2 // 16-bit write, value=data index=addr
	VendorMultiWrite VendorRequest = 6 // burst of 32-bit words starting at index
	VendorMultiRead  VendorRequest = 7 // 32-bit read at index
	VendorReadEEPROM VendorRequest = 9 // EEPROM bytes starting at index
)

// Device mode values for VendorDeviceMode.
const (
	DeviceModeReset = 1
)

// Bulk endpoints of the MT7601U. Endpoint 0x84 carries TX status and
// in-band command responses.
const (
	EndpointRxData  uint8 = 0x84
	EndpointCmdResp uint8 = 0x85
	EndpointCmdOut  uint8 = 0x08
)

// String returns the request name.
func (r VendorRequest) String() string {
	switch r {
	case VendorDeviceMode:
		return "DeviceMode"
	case VendorWrite:
		return "Write"
	case VendorMultiWrite:
		return "MultiWrite"
	case VendorMultiRead:
		return "MultiRead"
	case VendorReadEEPROM:
		return "ReadEEPROM"
	default:
		return "Unknown"
	}
}

// vendorSetup builds the SETUP packet for a vendor request to the device.
func vendorSetup(req VendorRequest, in bool, value, index uint16, length int) SetupPacket {
	rt := DirOut | TypeVendor | RecipientDevice
	if in {
		rt = DirIn | TypeVendor | RecipientDevice
	}
	return SetupPacket{
		RequestType: rt,
		Request:     uint8(req),
		Value:       value,
		Index:       index,
		Length:      uint16(length),
	}
}
