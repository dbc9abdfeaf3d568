package sim

import (
	"fmt"
	"sync"

	"github.com/ardnew/softwlan/pkg"
)

// Registers the model gives behavior to.
const (
	regCMBCtrl     = 0x0020
	regWLANFunCtrl = 0x0080
	regMACCSR0     = 0x1000
	regBBPCSRCfg   = 0x101c
	regRxStaCnt0   = 0x1700
	regTxStaCnt2   = 0x1714
	regTxStatFIFO  = 0x1718
)

const (
	wlanEnable = 1 << 0

	cmbXtalReady = 1 << 22
	cmbPLLLocked = 1 << 23

	bbpRegNumShift = 8
	bbpRead        = 1 << 16
	bbpBusy        = 1 << 17
	bbpRWMode      = 1 << 20

	bbpRegVersion = 0
)

// DefaultChipID is the MAC_CSR0 value of an MT7601U (ASIC 0x7601, rev 0x0500).
const DefaultChipID = 0x76010500

// DefaultBBPVersion is the BBP version register value.
const DefaultBBPVersion = 0x0b

// Options configures a Chip.
type Options struct {
	// ReadyAfter is the number of MAC_CSR0 reads that return 0 before the
	// chip id appears.
	ReadyAfter int

	// ChipID is returned from MAC_CSR0 once ready. Zero means DefaultChipID.
	ChipID uint32

	// PLLNeverLocks keeps the crystal and PLL status bits clear.
	PLLNeverLocks bool

	// BBPBusyStuck leaves the BBP busy bit set after every command.
	BBPBusyStuck bool

	// BBPEchoMismatch makes BBP reads echo a different register number.
	BBPEchoMismatch bool

	// BBPVersion is the BBP version register. Zero means DefaultBBPVersion;
	// use BBPUnresponsive to model a dead BBP.
	BBPVersion uint8

	// BBPUnresponsive makes the BBP version register read 0xff.
	BBPUnresponsive bool
}

// Op is the kind of a logged register access.
type Op uint8

// Access kinds.
const (
	OpRead Op = iota
	OpWrite
	OpBurst
)

func (o Op) String() string {
	switch o {
	case OpRead:
		return "read"
	case OpWrite:
		return "write"
	default:
		return "burst"
	}
}

// Access is one logged register access. Bursts log one entry per word.
type Access struct {
	Op    Op
	Addr  uint32
	Value uint32
}

func (a Access) String() string {
	return fmt.Sprintf("%s 0x%04x=0x%08x", a.Op, a.Addr, a.Value)
}

// Chip is an in-memory MT7601U register file. It is safe for concurrent use.
type Chip struct {
	opts Options

	mu        sync.Mutex
	regs      map[uint32]uint32
	force     map[uint32]uint32 // bits ORed into every read
	failWrite map[uint32]error
	bbp       [256]uint8
	bbpWrites int
	csr0Reads int
	txStatus  []uint32
	unplugged bool
	log       []Access
}

// New returns a powered-down chip.
func New(opts Options) *Chip {
	if opts.ChipID == 0 {
		opts.ChipID = DefaultChipID
	}
	if opts.BBPVersion == 0 {
		opts.BBPVersion = DefaultBBPVersion
	}
	c := &Chip{
		opts:      opts,
		regs:      make(map[uint32]uint32),
		force:     make(map[uint32]uint32),
		failWrite: make(map[uint32]error),
	}
	c.bbp[bbpRegVersion] = opts.BBPVersion
	if opts.BBPUnresponsive {
		c.bbp[bbpRegVersion] = 0xff
	}
	return c
}

// Read32 reads a register, applying read side effects.
func (c *Chip) Read32(addr uint32) (uint32, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.unplugged {
		return 0, pkg.ErrNoDevice
	}

	v := c.readLocked(addr)
	c.log = append(c.log, Access{OpRead, addr, v})
	return v, nil
}

func (c *Chip) readLocked(addr uint32) uint32 {
	v := c.regs[addr]

	switch {
	case addr == regMACCSR0:
		c.csr0Reads++
		if c.csr0Reads <= c.opts.ReadyAfter {
			v = 0
		} else {
			v = c.opts.ChipID
		}

	case addr == regCMBCtrl:
		v &^= cmbXtalReady | cmbPLLLocked
		if c.regs[regWLANFunCtrl]&wlanEnable != 0 && !c.opts.PLLNeverLocks {
			v |= cmbXtalReady | cmbPLLLocked
		}

	case addr >= regRxStaCnt0 && addr <= regTxStaCnt2:
		c.regs[addr] = 0

	case addr == regTxStatFIFO:
		v = 0
		if len(c.txStatus) > 0 {
			v = c.txStatus[0]
			c.txStatus = c.txStatus[1:]
		}
	}

	return v | c.force[addr]
}

// Write32 writes a register, applying write side effects.
func (c *Chip) Write32(addr, val uint32) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.unplugged {
		return pkg.ErrNoDevice
	}
	if err := c.failWrite[addr]; err != nil {
		pkg.LogDebug(pkg.ComponentSim, "injected write fault", "addr", addr)
		return err
	}

	c.writeLocked(addr, val)
	c.log = append(c.log, Access{OpWrite, addr, val})
	return nil
}

func (c *Chip) writeLocked(addr, val uint32) {
	if addr == regBBPCSRCfg {
		c.bbpCommand(val)
		return
	}
	c.regs[addr] = val
}

// bbpCommand executes a BBP_CSR_CFG command.
func (c *Chip) bbpCommand(val uint32) {
	if val&bbpBusy == 0 {
		c.regs[regBBPCSRCfg] = val
		return
	}

	reg := uint8(val >> bbpRegNumShift)
	result := val
	if val&bbpRead != 0 {
		echo := reg
		if c.opts.BBPEchoMismatch {
			echo++
		}
		result = val&^0xffff | uint32(echo)<<bbpRegNumShift | uint32(c.bbp[reg])
	} else {
		c.bbp[reg] = uint8(val)
		c.bbpWrites++
	}

	if !c.opts.BBPBusyStuck {
		result &^= bbpBusy
	}
	c.regs[regBBPCSRCfg] = result
}

// WriteBurst writes consecutive registers. It stops at the first injected
// fault, leaving earlier words written.
func (c *Chip) WriteBurst(addr uint32, vals []uint32) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.unplugged {
		return pkg.ErrNoDevice
	}
	for i, v := range vals {
		a := addr + uint32(4*i)
		if err := c.failWrite[a]; err != nil {
			pkg.LogDebug(pkg.ComponentSim, "injected burst fault", "addr", a)
			return err
		}
		c.writeLocked(a, v)
		c.log = append(c.log, Access{OpBurst, a, v})
	}
	return nil
}

// Reg returns a register without read side effects.
func (c *Chip) Reg(addr uint32) uint32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.regs[addr]
}

// SetReg stores a register value without logging it.
func (c *Chip) SetReg(addr, val uint32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.regs[addr] = val
}

// Force ORs bits into every read of addr, modelling a stuck status bit.
// Zero removes the override.
func (c *Chip) Force(addr, bits uint32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if bits == 0 {
		delete(c.force, addr)
		return
	}
	c.force[addr] = bits
}

// FailWrite makes writes to addr fail with err. A nil err clears the fault.
func (c *Chip) FailWrite(addr uint32, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err == nil {
		delete(c.failWrite, addr)
		return
	}
	c.failWrite[addr] = err
}

// Unplug makes every later access fail with pkg.ErrNoDevice.
func (c *Chip) Unplug() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.unplugged = true
}

// BBP returns a BBP register.
func (c *Chip) BBP(offset uint8) uint8 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.bbp[offset]
}

// SetBBP stores a BBP register.
func (c *Chip) SetBBP(offset, val uint8) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.bbp[offset] = val
}

// BBPWrites returns the number of BBP write commands executed.
func (c *Chip) BBPWrites() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.bbpWrites
}

// PushTxStatus queues entries to be returned from TX_STAT_FIFO.
func (c *Chip) PushTxStatus(entries ...uint32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.txStatus = append(c.txStatus, entries...)
}

// Log returns a copy of the access log.
func (c *Chip) Log() []Access {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Access(nil), c.log...)
}

// ResetLog clears the access log.
func (c *Chip) ResetLog() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.log = nil
}

// Writes returns the values written to addr, in order, from single writes
// and bursts.
func (c *Chip) Writes(addr uint32) []uint32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	var out []uint32
	for _, a := range c.log {
		if a.Addr == addr && a.Op != OpRead {
			out = append(out, a.Value)
		}
	}
	return out
}

// Reads returns the number of logged reads of addr.
func (c *Chip) Reads(addr uint32) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, a := range c.log {
		if a.Addr == addr && a.Op == OpRead {
			n++
		}
	}
	return n
}

// Snapshot returns a copy of the register file.
func (c *Chip) Snapshot() map[uint32]uint32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make(map[uint32]uint32, len(c.regs))
	for k, v := range c.regs {
		out[k] = v
	}
	return out
}
