// Package pkg provides shared utilities for the softwlan driver.
//
// This package contains common functionality used by the register core,
// the USB transport and the chip model, including:
//
//   - Structured logging via Go's standard [log/slog] package, optionally
//     teed into a rotating log file
//   - Sentinel error values for bring-up and transport failures
//   - Component identifiers for log filtering
//   - An injectable [Clock] for bounded busy-wait loops
//
// # Logging
//
// The logging subsystem wraps [log/slog] with driver-specific context:
//
//	pkg.SetLogLevel(slog.LevelDebug)
//	pkg.LogInfo(pkg.ComponentPower, "chip enabled", "ctrl", 0x3)
//
// # Errors
//
// Failures are reported as sentinel values, usually wrapped with context:
//
//	if errors.Is(err, pkg.ErrTimeout) {
//	    // the polled condition never held
//	}
package pkg
