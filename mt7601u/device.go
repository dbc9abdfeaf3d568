package mt7601u

import (
	"sync"
	"sync/atomic"
	"time"

	uuid "github.com/satori/go.uuid"

	"github.com/ardnew/softwlan/pkg"
)

// Bus is the register transport the core drives. usb.Bus implements it
// over vendor control requests; sim.Chip implements it in memory.
type Bus interface {
	Read32(addr uint32) (uint32, error)
	Write32(addr, val uint32) error
	WriteBurst(addr uint32, vals []uint32) error
}

// Defaults applied by New to zero-valued options.
const (
	DefaultInMaxPacket     = 512
	DefaultRxAggTimeout    = 0x80
	DefaultRxAggLimit      = 21
	DefaultASICReadyPolls  = 100
	DefaultStatsPeriod     = 100 * time.Millisecond
	DefaultMaxStagingWords = 512
)

// Options configures a Device.
type Options struct {
	// Clock drives every delay and poll deadline. Nil means the wall clock.
	Clock pkg.Clock

	// InMaxPacket is the bulk-IN max packet size. RX aggregation is only
	// enabled for 512-byte (high speed) endpoints.
	InMaxPacket int

	RxAggTimeout uint8
	RxAggLimit   uint8

	// ASICReadyPolls bounds the MAC_CSR0 readiness wait (10µs apart).
	ASICReadyPolls int

	// StatsPeriod is the TX status sampling period.
	StatsPeriod time.Duration

	// AbortOnPLLFailure makes a missing PLL lock at power-on fatal.
	AbortOnPLLFailure bool

	// MaxStagingWords bounds the buffer used to stage burst writes.
	MaxStagingWords int

	Firmware Firmware
	DMA      DMA
	Command  Command
	EEPROM   EEPROM
	PHY      PHY
}

// DefaultOptions returns options with the vendor aggregation settings and
// no-op collaborators.
func DefaultOptions() Options {
	return Options{
		InMaxPacket:     DefaultInMaxPacket,
		RxAggTimeout:    DefaultRxAggTimeout,
		RxAggLimit:      DefaultRxAggLimit,
		ASICReadyPolls:  DefaultASICReadyPolls,
		StatsPeriod:     DefaultStatsPeriod,
		MaxStagingWords: DefaultMaxStagingWords,
	}
}

func (o Options) withDefaults() Options {
	if o.Clock == nil {
		o.Clock = pkg.SystemClock{}
	}
	if o.InMaxPacket <= 0 {
		o.InMaxPacket = DefaultInMaxPacket
	}
	if o.ASICReadyPolls <= 0 {
		o.ASICReadyPolls = DefaultASICReadyPolls
	}
	if o.StatsPeriod <= 0 {
		o.StatsPeriod = DefaultStatsPeriod
	}
	if o.MaxStagingWords <= 0 {
		o.MaxStagingWords = DefaultMaxStagingWords
	}
	if o.Firmware == nil {
		o.Firmware = Nop{}
	}
	if o.DMA == nil {
		o.DMA = Nop{}
	}
	if o.Command == nil {
		o.Command = Nop{}
	}
	if o.EEPROM == nil {
		o.EEPROM = Nop{}
	}
	if o.PHY == nil {
		o.PHY = Nop{}
	}
	return o
}

// Lifecycle flags.
const (
	flagActive uint32 = 1 << iota
	flagRemoved
)

// BeaconSlots is the number of beacon buffers in chip memory.
const BeaconSlots = 16

// beaconSlotSize is the size of one beacon buffer in bytes.
const beaconSlotSize = 0x200

// Device is the handle for one attached adapter. Register access,
// power transitions and bring-up all go through it.
//
// Lock order is powerMu, then cmdMu, then regMu. regMu is never held while
// a collaborator runs.
type Device struct {
	bus   Bus
	opts  Options
	clock pkg.Clock
	id    string

	flags atomic.Uint32

	powerMu sync.Mutex
	cmdMu   sync.Mutex
	regMu   sync.Mutex

	wlanCtrl   atomic.Uint32
	powerState atomic.Uint32
	stage      atomic.Uint32
	asicRev    atomic.Uint32
	rxFilter   atomic.Uint32
	initBusy   atomic.Bool

	beaconOffsets [BeaconSlots]uint16

	// guarded by regMu
	staging staging

	// guarded by cmdMu
	cmdUp bool
	dmaUp bool

	wcidMu sync.Mutex
	wcid   [WCIDSlots / 64]uint64

	statsMu sync.Mutex
	worker  *statsWorker
	txStats txCounters
}

// New returns a powered-off device handle on bus.
func New(bus Bus, opts Options) *Device {
	opts = opts.withDefaults()
	d := &Device{
		bus:     bus,
		opts:    opts,
		clock:   opts.Clock,
		id:      uuid.NewV4().String(),
		staging: staging{words: make([]uint32, opts.MaxStagingWords)},
	}
	for i := range d.beaconOffsets {
		d.beaconOffsets[i] = uint16(BeaconBase + i*beaconSlotSize)
	}
	d.wcid[0] = 1 // multicast

	pkg.LogDebug(pkg.ComponentInit, "device created",
		"dev", d.id,
		"inMaxPacket", opts.InMaxPacket)
	return d
}

// ID returns the session id used to tag log records.
func (d *Device) ID() string { return d.id }

// Active reports whether bring-up completed and the device was not torn
// down since.
func (d *Device) Active() bool { return d.flags.Load()&flagActive != 0 }

// Removed reports whether the adapter has been unplugged or detached.
func (d *Device) Removed() bool { return d.flags.Load()&flagRemoved != 0 }

// MarkRemoved latches the REMOVED flag. Every later register access
// returns without touching the bus.
func (d *Device) MarkRemoved() {
	for {
		old := d.flags.Load()
		if old&flagRemoved != 0 {
			return
		}
		if d.flags.CompareAndSwap(old, (old|flagRemoved)&^flagActive) {
			pkg.LogInfo(pkg.ComponentInit, "device removed", "dev", d.id)
			return
		}
	}
}

func (d *Device) setActive(on bool) {
	for {
		old := d.flags.Load()
		next := old &^ flagActive
		if on && old&flagRemoved == 0 {
			next |= flagActive
		}
		if d.flags.CompareAndSwap(old, next) {
			return
		}
	}
}

// WLANCtrl returns the cached WLAN_FUN_CTRL value written by the last
// power transition.
func (d *Device) WLANCtrl() uint32 { return d.wlanCtrl.Load() }

// ASICVersion returns the MAC_CSR0 value observed when the chip became
// ready, or 0 before that.
func (d *Device) ASICVersion() uint32 { return d.asicRev.Load() }

// RxFilter returns the RX filter programmed by MacStart.
func (d *Device) RxFilter() uint32 { return d.rxFilter.Load() }

// BeaconOffsets returns the chip memory address of each beacon slot.
func (d *Device) BeaconOffsets() [BeaconSlots]uint16 { return d.beaconOffsets }

// InMaxPacket returns the bulk-IN max packet size.
func (d *Device) InMaxPacket() int { return d.opts.InMaxPacket }

// Clock returns the device time source.
func (d *Device) Clock() pkg.Clock { return d.clock }

func (d *Device) removedErr() error {
	if d.Removed() {
		return pkg.ErrRemoved
	}
	return nil
}
