package mt7601u

// BeaconOffsetRegs packs the 16 beacon slot addresses into the four
// BCN_OFFSET registers. Each slot takes one byte holding its distance from
// base in 64-byte units.
func BeaconOffsetRegs(offsets [BeaconSlots]uint16, base uint16) [4]uint32 {
	var regs [4]uint32
	for i, addr := range offsets {
		regs[i/4] |= uint32((addr-base)/64) << (8 * (i % 4))
	}
	return regs
}

func (d *Device) initBeaconOffsets() error {
	regs := BeaconOffsetRegs(d.beaconOffsets, BeaconBase)

	d.regMu.Lock()
	defer d.regMu.Unlock()
	for i, v := range regs {
		if err := d.writeLocked(RegBcnOffset(i), v); err != nil {
			return err
		}
	}
	return nil
}
