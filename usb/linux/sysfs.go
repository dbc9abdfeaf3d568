//go:build linux

package linux

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/ardnew/softwlan/pkg/linux/usbid"
	"github.com/ardnew/softwlan/usb"
)

// DeviceInfo describes a USB device found in sysfs.
type DeviceInfo struct {
	SysfsPath  string
	DevfsPath  string
	BusNum     uint8
	DevNum     uint8
	VendorID   uint16
	ProductID  uint16
	Speed      usb.Speed
	Interfaces []InterfaceInfo
}

// InterfaceInfo describes one interface of the active configuration.
type InterfaceInfo struct {
	Number    uint8
	Class     uint8
	Endpoints []EndpointInfo
}

// EndpointInfo describes one endpoint of an interface.
type EndpointInfo struct {
	Address       uint8
	MaxPacketSize uint16
}

// Name returns the sysfs port name ("1-1.2").
func (d *DeviceInfo) Name() string {
	return filepath.Base(d.SysfsPath)
}

// ID returns the device's vendor/product pair.
func (d *DeviceInfo) ID() usbid.ID {
	return usbid.ID{Vendor: d.VendorID, Product: d.ProductID}
}

// MaxPacketSize returns wMaxPacketSize for endpoint addr on any interface,
// or 0 if the endpoint is not listed.
func (d *DeviceInfo) MaxPacketSize(addr uint8) int {
	for _, iface := range d.Interfaces {
		for _, ep := range iface.Endpoints {
			if ep.Address == addr {
				return int(ep.MaxPacketSize)
			}
		}
	}
	return 0
}

// String identifies the device for logs.
func (d DeviceInfo) String() string {
	return fmt.Sprintf("%s (%s, bus %03d dev %03d)", d.Name(), d.ID(), d.BusNum, d.DevNum)
}

// Scan lists the USB devices under a sysfs devices directory (normally
// [SysfsUSBPath]). Root hubs, interface entries and unreadable devices are
// skipped.
func Scan(root string) ([]DeviceInfo, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, err
	}

	var devices []DeviceInfo
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasPrefix(name, "usb") || strings.Contains(name, ":") {
			continue
		}
		info, err := parseDevice(filepath.Join(root, name))
		if err != nil {
			continue
		}
		devices = append(devices, info)
	}

	sort.Slice(devices, func(i, j int) bool {
		if devices[i].BusNum != devices[j].BusNum {
			return devices[i].BusNum < devices[j].BusNum
		}
		return devices[i].DevNum < devices[j].DevNum
	})
	return devices, nil
}

// FindAdapters returns the devices under root whose IDs are known MT7601U
// adapters.
func FindAdapters(root string) ([]DeviceInfo, error) {
	devices, err := Scan(root)
	if err != nil {
		return nil, err
	}
	var out []DeviceInfo
	for _, d := range devices {
		if usbid.Supported(d.VendorID, d.ProductID) {
			out = append(out, d)
		}
	}
	return out, nil
}

// parseDevice reads one device directory. busnum and devnum are required.
func parseDevice(path string) (DeviceInfo, error) {
	info := DeviceInfo{SysfsPath: path}

	bus, err := readDec(filepath.Join(path, "busnum"), 8)
	if err != nil {
		return info, err
	}
	dev, err := readDec(filepath.Join(path, "devnum"), 8)
	if err != nil {
		return info, err
	}
	info.BusNum, info.DevNum = uint8(bus), uint8(dev)
	info.DevfsPath = devfsPath(DevfsUSBPath, info.BusNum, info.DevNum)

	if v, err := readHex(filepath.Join(path, "idVendor"), 16); err == nil {
		info.VendorID = uint16(v)
	}
	if v, err := readHex(filepath.Join(path, "idProduct"), 16); err == nil {
		info.ProductID = uint16(v)
	}
	if s, err := readString(filepath.Join(path, "speed")); err == nil {
		info.Speed = parseSpeed(s)
	}

	info.Interfaces = scanInterfaces(path)
	return info, nil
}

// scanInterfaces reads "<dev>:<cfg>.<if>" subdirectories.
func scanInterfaces(devPath string) []InterfaceInfo {
	entries, err := os.ReadDir(devPath)
	if err != nil {
		return nil
	}
	prefix := filepath.Base(devPath) + ":"

	var out []InterfaceInfo
	for _, entry := range entries {
		if !strings.HasPrefix(entry.Name(), prefix) {
			continue
		}
		ifPath := filepath.Join(devPath, entry.Name())
		num, err := readHex(filepath.Join(ifPath, "bInterfaceNumber"), 8)
		if err != nil {
			continue
		}
		iface := InterfaceInfo{Number: uint8(num)}
		if v, err := readHex(filepath.Join(ifPath, "bInterfaceClass"), 8); err == nil {
			iface.Class = uint8(v)
		}
		iface.Endpoints = scanEndpoints(ifPath)
		out = append(out, iface)
	}
	return out
}

// scanEndpoints reads "ep_XX" subdirectories of an interface.
func scanEndpoints(ifPath string) []EndpointInfo {
	entries, err := os.ReadDir(ifPath)
	if err != nil {
		return nil
	}

	var out []EndpointInfo
	for _, entry := range entries {
		if !strings.HasPrefix(entry.Name(), "ep_") {
			continue
		}
		epPath := filepath.Join(ifPath, entry.Name())
		addr, err := readHex(filepath.Join(epPath, "bEndpointAddress"), 8)
		if err != nil {
			continue
		}
		size, err := readHex(filepath.Join(epPath, "wMaxPacketSize"), 16)
		if err != nil {
			continue
		}
		out = append(out, EndpointInfo{Address: uint8(addr), MaxPacketSize: uint16(size)})
	}
	return out
}

func readString(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}

func readDec(path string, bits int) (uint64, error) {
	s, err := readString(path)
	if err != nil {
		return 0, err
	}
	return strconv.ParseUint(s, 10, bits)
}

func readHex(path string, bits int) (uint64, error) {
	s, err := readString(path)
	if err != nil {
		return 0, err
	}
	return strconv.ParseUint(strings.TrimPrefix(s, "0x"), 16, bits)
}

// devfsPath returns <base>/BBB/DDD.
func devfsPath(base string, bus, dev uint8) string {
	return fmt.Sprintf("%s/%03d/%03d", base, bus, dev)
}

func parseSpeed(s string) usb.Speed {
	switch s {
	case "1.5":
		return usb.SpeedLow
	case "12":
		return usb.SpeedFull
	case "480":
		return usb.SpeedHigh
	default:
		return usb.SpeedUnknown
	}
}
