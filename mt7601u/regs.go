package mt7601u

// =============================================================================
// System Control
// =============================================================================

const (
	RegASICVersion = 0x0000

	RegCMBCtrl       = 0x0020
	CMBCtrlXtalReady = 1 << 22
	CMBCtrlPLLLocked = 1 << 23

	RegWLANFunCtrl          = 0x0080
	WLANFunCtrlWLANEnable   = 1 << 0
	WLANFunCtrlWLANClkEn    = 1 << 1
	WLANFunCtrlResetRF      = 1 << 2
	WLANFunCtrlWLANReset    = 1 << 3
	WLANFunCtrlPCIeClkReq   = 1 << 4
	WLANFunCtrlFrcWLAntSel  = 1 << 5
	WLANFunCtrlGPIOOutEnMsk = 0xff << 24
)

// =============================================================================
// DMA
// =============================================================================

const (
	RegWPDMAGloCfg       = 0x0208
	WPDMAGloCfgTxDMABusy = 1 << 1
	WPDMAGloCfgRxDMABusy = 1 << 3

	RegWMMAIFSN = 0x0214
	RegWMMCWMin = 0x0218
	RegWMMCWMax = 0x021c
	regWMMTXOP  = 0x0220

	RegTSOCtrl            = 0x0250
	RegHeaderTransCtrlReg = 0x0260

	RegUSBDMACfg              = 0x02a0
	USBDMACfgRxAggTimeoutMask = 0xff
	USBDMACfgRxAggLimitShift  = 8
	USBDMACfgUDMARxWLDrop     = 1 << 18
	USBDMACfgRxBulkAggEn      = 1 << 21
	USBDMACfgRxBulkEn         = 1 << 22
	USBDMACfgTxBulkEn         = 1 << 23
	USBDMACfgRxBusy           = 1 << 30
	USBDMACfgTxBusy           = 1 << 31

	RegUSBCycCfg = 0x02a4
)

// RegWMMTXOP returns the packed TXOP register holding access categories
// n and n+1.
func RegWMMTXOP(n int) uint32 {
	return regWMMTXOP + uint32(n/2)*4
}

// =============================================================================
// Packet Buffer and Frame Checksum Engine
// =============================================================================

const (
	RegPBFSysCtrl   = 0x0400
	RegPBFCfg       = 0x0404
	RegPBFTxMaxPcnt = 0x0408
	RegPBFRxMaxPcnt = 0x040c

	regBcnOffset = 0x041c

	RegFCEPSECtrl          = 0x0800
	RegFCEParameters       = 0x0824
	RegFCECSO              = 0x0828
	RegPauseEnableControl1 = 0x0a38
)

// Queue page counters sampled while stopping the MAC.
const (
	RegTxQPageCnt  = 0x0438
	RegRxQPageCnt  = 0x0430
	RegPSEPageCnt0 = 0x0a30
	RegPSEPageCnt1 = 0x0a34
)

// RegBcnOffset returns the beacon offset register holding slots 4n..4n+3.
func RegBcnOffset(n int) uint32 {
	return regBcnOffset + uint32(n)*4
}

// =============================================================================
// MAC
// =============================================================================

const (
	RegMACCSR0 = 0x1000

	RegMACSysCtrl      = 0x1004
	MACSysCtrlResetCSR = 1 << 0
	MACSysCtrlResetBBP = 1 << 1
	MACSysCtrlEnableTx = 1 << 2
	MACSysCtrlEnableRx = 1 << 3

	RegMaxLenCfg = 0x1018

	RegBBPCSRCfg        = 0x101c
	BBPCSRCfgValMask    = 0xff
	BBPCSRCfgRegNumShft = 8
	BBPCSRCfgRegNumMask = 0xff << BBPCSRCfgRegNumShft
	BBPCSRCfgRead       = 1 << 16
	BBPCSRCfgBusy       = 1 << 17
	BBPCSRCfgRWMode     = 1 << 20

	RegXIFSTimeCfg  = 0x1100
	RegBkoffSlotCfg = 0x1104

	RegBeaconTimeCfg        = 0x1114
	BeaconTimeCfgTimerEn    = 1 << 16
	BeaconTimeCfgSyncMode   = 3 << 17
	BeaconTimeCfgTBTTEn     = 1 << 19
	BeaconTimeCfgBeaconTx   = 1 << 20
	beaconTimeCfgAllEnables = BeaconTimeCfgTimerEn | BeaconTimeCfgSyncMode |
		BeaconTimeCfgTBTTEn | BeaconTimeCfgBeaconTx

	RegMACStatus = 0x1200
	MACStatusTx  = 1 << 0
	MACStatusRx  = 1 << 1

	RegPwrPinCfg = 0x1204
	RegAuxClkCfg = 0x120c
)

// =============================================================================
// EDCA, Protection and TX Configuration
// =============================================================================

const (
	regEDCACfgBase = 0x1300

	EDCACfgTXOPMask   = 0xff
	EDCACfgAIFSNShift = 8
	EDCACfgCWMinShift = 12
	EDCACfgCWMaxShift = 16

	RegTxSwCfg0      = 0x1330
	RegTxSwCfg1      = 0x1334
	RegTxSwCfg2      = 0x1338
	RegTXOPCtrlCfg   = 0x1340
	RegTxRTSCfg      = 0x1344
	RegTxTimeoutCfg  = 0x1348
	RegTxRetryCfg    = 0x134c
	RegTxLinkCfg     = 0x1350
	RegCCKProtCfg    = 0x1364
	RegOFDMProtCfg   = 0x1368
	RegMM20ProtCfg   = 0x136c
	RegMM40ProtCfg   = 0x1370
	RegGF20ProtCfg   = 0x1374
	RegGF40ProtCfg   = 0x1378
	RegExpAckTime    = 0x1380
	RegTx0RFGainCorr = 0x13a0
	RegTx0RFGainAtt  = 0x13a8
	RegTx0BBGainAtt  = 0x13c0
	RegTxALCVGA3     = 0x13c8

	RegRxFiltrCfg      = 0x1400
	RegAutoRspCfg      = 0x1404
	RegLegacyBasicRate = 0x1408
	RegHTBasicRate     = 0x140c
	RegTXOPHldrET      = 0x1608
)

// RegEDCACfgAC returns the EDCA configuration register of access category n.
func RegEDCACfgAC(n int) uint32 {
	return regEDCACfgBase + uint32(n)*4
}

// RX filter bits. Set bits drop the matching frames.
const (
	RxFiltrCRCErr   = 1 << 0
	RxFiltrPhyErr   = 1 << 1
	RxFiltrPromisc  = 1 << 2
	RxFiltrOtherBSS = 1 << 3
	RxFiltrVerErr   = 1 << 4
	RxFiltrMcast    = 1 << 5
	RxFiltrBcast    = 1 << 6
	RxFiltrDup      = 1 << 7
	RxFiltrCFAck    = 1 << 8
	RxFiltrCFEnd    = 1 << 9
	RxFiltrAck      = 1 << 10
	RxFiltrCTS      = 1 << 11
	RxFiltrRTS      = 1 << 12
	RxFiltrPSPoll   = 1 << 13
	RxFiltrBA       = 1 << 14
	RxFiltrBAR      = 1 << 15
	RxFiltrCtrlRsv  = 1 << 16
)

// DefaultRxFilter is programmed by MacStart.
const DefaultRxFilter = RxFiltrCRCErr | RxFiltrPhyErr | RxFiltrPromisc |
	RxFiltrVerErr | RxFiltrDup | RxFiltrCFAck | RxFiltrCFEnd |
	RxFiltrAck | RxFiltrCTS | RxFiltrRTS | RxFiltrPSPoll |
	RxFiltrBA | RxFiltrCtrlRsv

// =============================================================================
// Statistics
// =============================================================================

const (
	RegRxStaCnt0 = 0x1700
	RegRxStaCnt1 = 0x1704
	RegRxStaCnt2 = 0x1708
	RegTxStaCnt0 = 0x170c
	RegTxStaCnt1 = 0x1710
	RegTxStaCnt2 = 0x1714

	RegTxStatFIFO       = 0x1718
	TxStatFIFOValid     = 1 << 0
	TxStatFIFOSuccess   = 1 << 5
	TxStatFIFOAggr      = 1 << 6
	TxStatFIFOWCIDShift = 8
	TxStatFIFOWCIDMask  = 0xff << TxStatFIFOWCIDShift
	TxStatFIFORateShift = 16
)

// =============================================================================
// Station Tables and Beacon Memory
// =============================================================================

const (
	RegWCIDAddrBase  = 0x1800
	RegWCIDAttrBase  = 0x6800
	RegSKeyModeBase0 = 0x7000

	BeaconBase = 0xc000
)

// MCU mailbox register. It reads 1 while firmware is running.
const RegMCUComReg0 = 0x0730

// =============================================================================
// BBP Registers
// =============================================================================

// BBPRegVersion is the BBP version identifier register.
const BBPRegVersion = 0
