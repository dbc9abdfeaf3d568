// Package mt7601u brings an MT7601U USB wireless chip from reset to an
// operating state and tears it down again.
//
// A [Device] wraps a register [Bus]. On top of the 32-bit register
// primitives it layers the BBP command protocol, the WLAN power state
// machine, table loading and the staged bring-up in [Device.InitHardware].
// Firmware, DMA, command, EEPROM and PHY handling are supplied by the
// caller through the collaborator interfaces in [Options].
//
// All delays and poll deadlines run on the [pkg.Clock] in [Options], so the
// whole sequence can be driven against the sim package without sleeping.
package mt7601u
