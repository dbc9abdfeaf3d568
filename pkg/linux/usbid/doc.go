// Package usbid identifies MT7601U-based adapters by USB vendor/product ID
// and resolves human-readable names from the system usb.ids database.
//
// The supported-adapter table is compiled in:
//
//	if usbid.Supported(0x148f, 0x7601) { ... }
//
// Names are optional and come from the first database file found in
// [DefaultPaths]:
//
//	db := usbid.New()
//	db.Load()
//	name := db.Describe(0x148f, 0x7601)
//
// All Database methods are safe for concurrent use.
package usbid
