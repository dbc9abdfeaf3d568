// Package sim models the register-visible behavior of an MT7601U closely
// enough to drive bring-up without hardware.
//
// A [Chip] satisfies the driver's register bus (Read32, Write32,
// WriteBurst). It reproduces the behaviors bring-up depends on: the MAC
// version register reads zero until the ASIC is ready, the crystal and PLL
// lock bits follow the WLAN enable bit, BBP registers are reached through
// the BBP_CSR_CFG command protocol, and statistics counters clear on read.
// Faults can be injected per register, and every access is logged so tests
// can assert exact sequences.
package sim
