package mt7601u

// EDCAParams are the channel access parameters of one access category.
// CWMin and CWMax are exponents.
type EDCAParams struct {
	AIFS  uint8
	CWMin uint8
	CWMax uint8
	TXOP  uint16
}

// Access categories, in register order.
const (
	ACBestEffort = iota
	ACBackground
	ACVideo
	ACVoice
	NumACs
)

// DefaultEDCA returns the parameters programmed at the end of bring-up.
func DefaultEDCA() [NumACs]EDCAParams {
	return [NumACs]EDCAParams{
		ACBestEffort: {AIFS: 3, CWMin: 4, CWMax: 6, TXOP: 0},
		ACBackground: {AIFS: 7, CWMin: 4, CWMax: 10, TXOP: 0},
		ACVideo:      {AIFS: 1, CWMin: 3, CWMax: 4, TXOP: 94},
		ACVoice:      {AIFS: 1, CWMin: 2, CWMax: 3, TXOP: 47},
	}
}

// defaultWMMAIFSN is the packed WMM_AIFSN value the vendor driver uses
// regardless of the per-category AIFS.
const defaultWMMAIFSN = 0x0293

// effective returns the parameters actually programmed for category ac.
// The video category runs with 60% of its TXOP and one extra slot of AIFS.
func (p EDCAParams) effective(ac int) EDCAParams {
	if ac == ACVideo {
		p.TXOP = p.TXOP * 6 / 10
		p.AIFS++
	}
	return p
}

// edcaCfg packs p into an EDCA_CFG_AC register value.
func edcaCfg(p EDCAParams) uint32 {
	return uint32(p.TXOP)&EDCACfgTXOPMask |
		uint32(p.AIFS&0xf)<<EDCACfgAIFSNShift |
		uint32(p.CWMin&0xf)<<EDCACfgCWMinShift |
		uint32(p.CWMax&0xf)<<EDCACfgCWMaxShift
}

// EDCATable returns the register writes programming p: the per-category
// EDCA_CFG registers followed by the packed WMM registers.
func EDCATable(p [NumACs]EDCAParams) Table {
	t := make(Table, 0, NumACs+5)
	for ac := range p {
		t = append(t, RegPair{RegEDCACfgAC(ac), edcaCfg(p[ac].effective(ac))})
	}

	txop := func(ac int) uint32 { return uint32(p[ac].effective(ac).TXOP) }
	t = append(t,
		RegPair{RegWMMTXOP(ACBestEffort), txop(ACBestEffort) | txop(ACBackground)<<16},
		RegPair{RegWMMTXOP(ACVideo), txop(ACVideo) | txop(ACVoice)<<16},
	)

	var cwMin, cwMax uint32
	for ac := NumACs - 1; ac >= 0; ac-- {
		cwMin = cwMin<<4 | uint32(p[ac].CWMin&0xf)
		cwMax = cwMax<<4 | uint32(p[ac].CWMax&0xf)
	}
	// The vendor table programs the voice CWMIN one below its EDCA value.
	if cwMin>>12 != 0 {
		cwMin -= 1 << 12
	}
	t = append(t,
		RegPair{RegWMMCWMin, cwMin},
		RegPair{RegWMMCWMax, cwMax},
		RegPair{RegWMMAIFSN, defaultWMMAIFSN},
	)
	return t
}

// SetEDCA programs p.
func (d *Device) SetEDCA(p [NumACs]EDCAParams) error {
	return d.ApplyTable(EDCATable(p))
}
