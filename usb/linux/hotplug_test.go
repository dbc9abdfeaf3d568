//go:build linux

package linux

import "testing"

// =============================================================================
// uevent Parsing Tests
// =============================================================================

func TestParseUEvent_Add(t *testing.T) {
	data := []byte(
		"add@/devices/pci0000:00/0000:00:14.0/usb1/1-1\x00" +
			"ACTION=add\x00" +
			"DEVPATH=/devices/pci0000:00/0000:00:14.0/usb1/1-1\x00" +
			"SUBSYSTEM=usb\x00" +
			"DEVTYPE=usb_device\x00" +
			"BUSNUM=001\x00" +
			"DEVNUM=002\x00",
	)

	evt := parseUEvent(data)

	if evt.Action != ActionAdd {
		t.Errorf("Action = %v, want add", evt.Action)
	}
	if evt.DevPath != "/devices/pci0000:00/0000:00:14.0/usb1/1-1" {
		t.Errorf("DevPath = %q", evt.DevPath)
	}
	if !evt.IsUSBDevice() {
		t.Error("IsUSBDevice() = false")
	}
	if evt.BusNum != 1 || evt.DevNum != 2 {
		t.Errorf("bus/dev = %d/%d, want 1/2", evt.BusNum, evt.DevNum)
	}
}

func TestParseUEvent_HeaderOnly(t *testing.T) {
	evt := parseUEvent([]byte("remove@/devices/pci0000:00/usb1/1-1.4\x00"))

	if evt.Action != ActionRemove {
		t.Errorf("Action = %v, want remove", evt.Action)
	}
	if evt.DevPath != "/devices/pci0000:00/usb1/1-1.4" {
		t.Errorf("DevPath = %q", evt.DevPath)
	}
	if evt.IsUSBDevice() {
		t.Error("event without SUBSYSTEM should not be a usb device")
	}
}

func TestParseUEvent_Actions(t *testing.T) {
	tests := []struct {
		action string
		want   Action
	}{
		{"add", ActionAdd},
		{"remove", ActionRemove},
		{"change", ActionChange},
		{"bind", ActionBind},
		{"unbind", ActionUnbind},
		{"move", ActionUnknown},
	}
	for _, tt := range tests {
		evt := parseUEvent([]byte("ACTION=" + tt.action + "\x00SUBSYSTEM=usb\x00"))
		if evt.Action != tt.want {
			t.Errorf("ACTION=%s parsed as %v, want %v", tt.action, evt.Action, tt.want)
		}
	}
}

func TestParseUEvent_Interface(t *testing.T) {
	evt := parseUEvent([]byte(
		"bind@/devices/pci0000:00/usb1/1-1:1.0\x00" +
			"ACTION=bind\x00" +
			"SUBSYSTEM=usb\x00" +
			"DEVTYPE=usb_interface\x00",
	))
	if evt.IsUSBDevice() {
		t.Error("interface event reported as usb device")
	}
}

func TestParseUEvent_BadNumbers(t *testing.T) {
	evt := parseUEvent([]byte("BUSNUM=abc\x00DEVNUM=999\x00"))
	if evt.BusNum != 0 || evt.DevNum != 0 {
		t.Errorf("bus/dev = %d/%d, want 0/0", evt.BusNum, evt.DevNum)
	}
}

func TestParseUEvent_Empty(t *testing.T) {
	evt := parseUEvent(nil)
	if evt.Action != ActionUnknown || evt.DevPath != "" {
		t.Errorf("parseUEvent(nil) = %+v", evt)
	}
}

// =============================================================================
// Event Matching Tests
// =============================================================================

func TestEvent_Matches(t *testing.T) {
	info := DeviceInfo{SysfsPath: "/sys/bus/usb/devices/1-1.4", BusNum: 1, DevNum: 7}

	tests := []struct {
		name string
		evt  Event
		want bool
	}{
		{"same numbers", Event{BusNum: 1, DevNum: 7}, true},
		{"other device", Event{BusNum: 1, DevNum: 8, DevPath: "/devices/usb1/1-1.4"}, false},
		{"path only", Event{DevPath: "/devices/pci0000:00/usb1/1-1.4"}, true},
		{"other path", Event{DevPath: "/devices/pci0000:00/usb1/1-1.3"}, false},
		{"nothing", Event{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.evt.Matches(info); got != tt.want {
				t.Errorf("Matches() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestAction_String(t *testing.T) {
	if ActionRemove.String() != "remove" {
		t.Errorf("String() = %q", ActionRemove.String())
	}
	if ActionUnknown.String() != "unknown" {
		t.Errorf("String() = %q", ActionUnknown.String())
	}
}
