package mt7601u

// maxAggregationSize is the MAX_LEN_CFG value programmed by the MAC
// initial values. Bring-up raises it later.
const maxAggregationSize = 3840

// macInitvals holds the MAC initial values.
var macInitvals = Table{
	{RegLegacyBasicRate, 0x0000013f},
	{RegHTBasicRate, 0x00008003},
	{RegMACSysCtrl, 0x00000000},
	{RegRxFiltrCfg, 0x00017f97},
	{RegBkoffSlotCfg, 0x00000209},
	{RegTxSwCfg0, 0x00000000},
	{RegTxSwCfg1, 0x00080606},
	{RegTxLinkCfg, 0x00001020},
	{RegTxTimeoutCfg, 0x000a2090},
	{RegMaxLenCfg, maxAggregationSize | 0x00001000},
	{RegPBFTxMaxPcnt, 0x1fbf1f1f},
	{RegPBFRxMaxPcnt, 0x0000009f},
	{RegTxRetryCfg, 0x47d01f0f},
	{RegAutoRspCfg, 0x00000013},
	{RegCCKProtCfg, 0x05740003},
	{RegOFDMProtCfg, 0x05740003},
	{RegMM40ProtCfg, 0x03f44084},
	{RegGF20ProtCfg, 0x01744004},
	{RegGF40ProtCfg, 0x03f44084},
	{RegMM20ProtCfg, 0x01744004},
	{RegTXOPCtrlCfg, 0x0000583f},
	{RegTxRTSCfg, 0x01092b20},
	{RegExpAckTime, 0x002400ca},
	{RegTXOPHldrET, 0x00000002},
	{RegXIFSTimeCfg, 0x33a41010},
	{RegPwrPinCfg, 0x00000000},
}

// chipInitvals holds the MT7601U specific MAC values.
var chipInitvals = Table{
	{RegTSOCtrl, 0x00006050},
	{RegBcnOffset(0), 0x18100800},
	{RegBcnOffset(1), 0x38302820},
	{RegPBFSysCtrl, 0x00080c00},
	{RegPBFCfg, 0x7f723c1f},
	{RegFCEPSECtrl, 0x00000001},
	{RegPauseEnableControl1, 0x00000000},
	{RegTx0RFGainCorr, 0x003b0005},
	{RegTx0RFGainAtt, 0x00006900},
	{RegTx0BBGainAtt, 0x00000400},
	{RegTxALCVGA3, 0x00060006},
	{RegTxSwCfg0, 0x00000402},
	{RegTxSwCfg1, 0x00000000},
	{RegTxSwCfg2, 0x00000000},
	{RegHeaderTransCtrlReg, 0x00000000},
	{RegFCECSO, 0x0000030f},
	{RegFCEParameters, 0x00256f0f},
}

// bbpInitvals is written once the BBP reports ready.
var bbpInitvals = []BBPPair{
	{65, 0x2c},
	{66, 0x38},
	{68, 0x0b},
	{69, 0x12},
	{70, 0x0a},
	{73, 0x10},
	{81, 0x37},
	{82, 0x62},
	{83, 0x6a},
	{84, 0x99},
	{86, 0x00},
	{91, 0x04},
	{92, 0x00},
	{103, 0x00},
	{105, 0x05},
	{106, 0x35},
}

// bbpChipInitvals follows bbpInitvals. Registers 195 and 196 are the index
// and data ports of the AGC/GLRT bank.
var bbpChipInitvals = []BBPPair{
	{1, 0x04}, {4, 0x40}, {20, 0x06}, {31, 0x08},

	// CCK TX control
	{178, 0xff},

	// AGC and sync
	{66, 0x14}, {68, 0x8b}, {69, 0x12}, {70, 0x09},
	{73, 0x11}, {75, 0x60}, {76, 0x44}, {84, 0x9a},
	{86, 0x38}, {91, 0x07}, {92, 0x02},

	// RX path
	{99, 0x50}, {101, 0x00}, {103, 0xc0}, {104, 0x92},
	{105, 0x3c}, {106, 0x03}, {128, 0x12},

	// RXWI gain report, then antenna report
	{142, 0x04}, {143, 0x37},
	{142, 0x03}, {143, 0x99},

	// CCK receiver
	{160, 0xeb}, {161, 0xc4}, {162, 0x77}, {163, 0xf9},
	{164, 0x88}, {165, 0x80}, {166, 0xff}, {167, 0xe4},

	// AGC/GLRT bank
	{195, 0x00}, {196, 0x00},
	{195, 0x01}, {196, 0x04},
	{195, 0x02}, {196, 0x20},
	{195, 0x03}, {196, 0x0a},
	{195, 0x06}, {196, 0x16},
	{195, 0x07}, {196, 0x05},
	{195, 0x08}, {196, 0x37},
	{195, 0x0a}, {196, 0x15},
	{195, 0x0b}, {196, 0x17},
	{195, 0x0c}, {196, 0x06},
	{195, 0x0d}, {196, 0x09},
	{195, 0x0e}, {196, 0x05},
	{195, 0x0f}, {196, 0x09},
	{195, 0x10}, {196, 0x20},
	{195, 0x20}, {196, 0x17},
	{195, 0x21}, {196, 0x06},
	{195, 0x22}, {196, 0x09},
	{195, 0x23}, {196, 0x17},
	{195, 0x24}, {196, 0x06},
	{195, 0x25}, {196, 0x09},
	{195, 0x26}, {196, 0x17},
	{195, 0x27}, {196, 0x06},
	{195, 0x28}, {196, 0x09},
	{195, 0x29}, {196, 0x05},
	{195, 0x2a}, {196, 0x09},
	{195, 0x80}, {196, 0x8b},
	{195, 0x81}, {196, 0x12},
	{195, 0x82}, {196, 0x09},
	{195, 0x83}, {196, 0x17},
	{195, 0x84}, {196, 0x11},
	{195, 0x85}, {196, 0x00},
	{195, 0x86}, {196, 0x00},
	{195, 0x87}, {196, 0x18},
	{195, 0x88}, {196, 0x60},
	{195, 0x89}, {196, 0x44},
	{195, 0x8a}, {196, 0x8b},
	{195, 0x8b}, {196, 0x8b},
	{195, 0x8c}, {196, 0x8b},
	{195, 0x8d}, {196, 0x8b},
	{195, 0x8e}, {196, 0x09},
	{195, 0x8f}, {196, 0x09},
	{195, 0x90}, {196, 0x09},
	{195, 0x91}, {196, 0x09},
	{195, 0x92}, {196, 0x11},
	{195, 0x93}, {196, 0x11},
	{195, 0x94}, {196, 0x11},
	{195, 0x95}, {196, 0x11},

	// PPAD
	{47, 0x80}, {60, 0x80}, {150, 0xd2}, {151, 0x32},
	{152, 0x23}, {153, 0x41}, {154, 0x00}, {155, 0x4f},
	{253, 0x7e}, {195, 0x30}, {196, 0x32}, {195, 0x31},
	{196, 0x23}, {195, 0x32}, {196, 0x45}, {195, 0x35},
	{196, 0x4a}, {195, 0x36}, {196, 0x5a}, {195, 0x37},
	{196, 0x5a},
}
