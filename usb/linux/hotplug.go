//go:build linux

package linux

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"strconv"
	"strings"

	"golang.org/x/sys/unix"

	"github.com/ardnew/softwlan/pkg"
)

// Action is a uevent action.
type Action uint8

// Uevent actions.
const (
	ActionUnknown Action = iota
	ActionAdd
	ActionRemove
	ActionChange
	ActionBind
	ActionUnbind
)

var actionNames = map[string]Action{
	"add":    ActionAdd,
	"remove": ActionRemove,
	"change": ActionChange,
	"bind":   ActionBind,
	"unbind": ActionUnbind,
}

// String returns the kernel's name for the action.
func (a Action) String() string {
	for name, v := range actionNames {
		if v == a {
			return name
		}
	}
	return "unknown"
}

// Event is a parsed kernel uevent.
type Event struct {
	Action    Action
	DevPath   string
	Subsystem string
	DevType   string
	BusNum    uint8
	DevNum    uint8
}

// IsUSBDevice reports whether the event concerns a whole USB device rather
// than one of its interfaces.
func (e Event) IsUSBDevice() bool {
	return e.Subsystem == "usb" && e.DevType == "usb_device"
}

// Matches reports whether the event refers to info, by bus/device number
// when present and by sysfs port name otherwise.
func (e Event) Matches(info DeviceInfo) bool {
	if e.BusNum != 0 && e.DevNum != 0 {
		return e.BusNum == info.BusNum && e.DevNum == info.DevNum
	}
	return e.DevPath != "" && filepath.Base(e.DevPath) == info.Name()
}

// parseUEvent parses a NUL-separated netlink uevent message. The header
// line "action@devpath" is followed by KEY=VALUE pairs, which take
// precedence.
func parseUEvent(data []byte) Event {
	var evt Event

	for _, field := range bytes.Split(data, []byte{0}) {
		if len(field) == 0 {
			continue
		}
		s := string(field)

		key, value, ok := strings.Cut(s, "=")
		if !ok {
			if action, path, ok := strings.Cut(s, "@"); ok {
				evt.Action = actionNames[action]
				evt.DevPath = path
			}
			continue
		}

		switch key {
		case "ACTION":
			evt.Action = actionNames[value]
		case "DEVPATH":
			evt.DevPath = value
		case "SUBSYSTEM":
			evt.Subsystem = value
		case "DEVTYPE":
			evt.DevType = value
		case "BUSNUM":
			if n, err := strconv.ParseUint(value, 10, 8); err == nil {
				evt.BusNum = uint8(n)
			}
		case "DEVNUM":
			if n, err := strconv.ParseUint(value, 10, 8); err == nil {
				evt.DevNum = uint8(n)
			}
		}
	}
	return evt
}

// Monitor receives USB device uevents from the kernel.
type Monitor struct {
	fd  int
	buf [UEventBufferSize]byte
}

// NewMonitor opens a netlink uevent socket bound to the kernel group.
func NewMonitor() (*Monitor, error) {
	fd, err := unix.Socket(unix.AF_NETLINK,
		unix.SOCK_DGRAM|unix.SOCK_CLOEXEC|unix.SOCK_NONBLOCK,
		unix.NETLINK_KOBJECT_UEVENT)
	if err != nil {
		return nil, err
	}

	addr := &unix.SockaddrNetlink{
		Family: unix.AF_NETLINK,
		Groups: netlinkKernelGroup,
	}
	if err := unix.Bind(fd, addr); err != nil {
		unix.Close(fd)
		return nil, err
	}
	return &Monitor{fd: fd}, nil
}

// Run delivers USB device events to events until ctx is cancelled or the
// socket fails. Interface events and other subsystems are dropped.
func (m *Monitor) Run(ctx context.Context, events chan<- Event) error {
	fds := []unix.PollFd{{Fd: int32(m.fd), Events: unix.POLLIN}}

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		n, err := unix.Poll(fds, monitorPollMs)
		if err != nil {
			if errors.Is(err, unix.EINTR) {
				continue
			}
			return err
		}
		if n == 0 {
			continue
		}

		nr, err := unix.Read(m.fd, m.buf[:])
		if err != nil {
			if errors.Is(err, unix.EAGAIN) {
				continue
			}
			return err
		}

		evt := parseUEvent(m.buf[:nr])
		if !evt.IsUSBDevice() {
			continue
		}
		pkg.LogDebug(pkg.ComponentHAL, "uevent",
			"action", evt.Action.String(), "devpath", evt.DevPath,
			"bus", evt.BusNum, "dev", evt.DevNum)

		select {
		case events <- evt:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// Close closes the netlink socket. Run must have returned.
func (m *Monitor) Close() error {
	return unix.Close(m.fd)
}
