package pkg

import "errors"

// Bring-up and register access errors.
var (
	// ErrTimeout indicates a poll did not observe its condition in time.
	ErrTimeout = errors.New("poll timeout")

	// ErrBusyBitStuck indicates the BBP command register stayed busy.
	ErrBusyBitStuck = errors.New("BBP busy bit stuck")

	// ErrVerifyMismatch indicates the BBP echoed a different register offset.
	ErrVerifyMismatch = errors.New("BBP offset verify mismatch")

	// ErrRemoved indicates the adapter was unplugged or detached.
	ErrRemoved = errors.New("device removed")

	// ErrResourceExhausted indicates a staging buffer or slot table is full.
	ErrResourceExhausted = errors.New("resource exhausted")

	// ErrStageFailed indicates a bring-up stage failed.
	ErrStageFailed = errors.New("bring-up stage failed")

	// ErrPLLUnlocked indicates the crystal or PLL did not report lock.
	ErrPLLUnlocked = errors.New("PLL and XTAL not locked")

	// ErrNotEnabled indicates the WLAN function is powered off.
	ErrNotEnabled = errors.New("WLAN function not enabled")

	// ErrASICNotReady indicates the MAC version register never became valid.
	ErrASICNotReady = errors.New("ASIC not ready")

	// ErrBBPNotReady indicates the BBP version register never became valid.
	ErrBBPNotReady = errors.New("BBP not ready")
)

// Transport errors.
var (
	// ErrNoDevice indicates the device is not present on the bus.
	ErrNoDevice = errors.New("device not present")

	// ErrStall indicates an endpoint stall condition.
	ErrStall = errors.New("endpoint stalled")

	// ErrShortTransfer indicates fewer bytes moved than requested.
	ErrShortTransfer = errors.New("short transfer")

	// ErrInvalidParameter indicates an invalid parameter was provided.
	ErrInvalidParameter = errors.New("invalid parameter")

	// ErrNotSupported indicates an unsupported operation or feature.
	ErrNotSupported = errors.New("not supported")

	// ErrAlreadyRunning indicates a background task is already running.
	ErrAlreadyRunning = errors.New("already running")
)
