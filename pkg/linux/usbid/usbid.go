package usbid

import (
	"bufio"
	"io"
	"os"
	"strconv"
	"strings"
	"sync"
)

// DefaultPaths lists the standard locations for the USB ID database.
var DefaultPaths = []string{
	"/usr/share/hwdata/usb.ids",
	"/var/lib/usbutils/usb.ids",
	"/usr/share/misc/usb.ids",
}

// Database caches vendor and product names from the USB ID database.
type Database struct {
	vendors  map[uint16]string
	products map[uint32]string
	path     string // file actually loaded, "" if none
	loaded   bool
	paths    []string
	mu       sync.RWMutex
}

// New creates a database that searches [DefaultPaths].
func New() *Database {
	return NewWithPaths(DefaultPaths)
}

// NewWithPaths creates a database that searches paths in order.
func NewWithPaths(paths []string) *Database {
	return &Database{
		vendors:  make(map[uint16]string),
		products: make(map[uint32]string),
		paths:    paths,
	}
}

// Load parses the first readable database file. Later calls are no-ops.
// It returns false when no file could be opened; lookups then return "".
func (db *Database) Load() bool {
	db.mu.Lock()
	defer db.mu.Unlock()

	if db.loaded {
		return db.path != ""
	}
	db.loaded = true

	for _, path := range db.paths {
		f, err := os.Open(path)
		if err != nil {
			continue
		}
		db.parse(f)
		f.Close()
		db.path = path
		return true
	}
	return false
}

// parse reads the usb.ids format: vendor lines "vvvv  Name" followed by
// tab-indented product lines "\tpppp  Name". Any other line ends the
// current vendor block.
func (db *Database) parse(r io.Reader) {
	scanner := bufio.NewScanner(r)
	var vid uint16
	inVendor := false

	for scanner.Scan() {
		line := scanner.Text()
		if line == "" || line[0] == '#' {
			continue
		}

		if line[0] == '\t' {
			if !inVendor {
				continue
			}
			id, name, ok := splitEntry(line[1:])
			if ok {
				db.products[ID{vid, id}.key()] = name
			}
			continue
		}

		id, name, ok := splitEntry(line)
		inVendor = ok
		if ok {
			vid = id
			db.vendors[vid] = name
		}
	}
}

// splitEntry splits "xxxx  Name" into its hex id and name.
func splitEntry(s string) (uint16, string, bool) {
	if len(s) < 6 || s[4] != ' ' {
		return 0, "", false
	}
	v, err := strconv.ParseUint(s[:4], 16, 16)
	if err != nil {
		return 0, "", false
	}
	return uint16(v), strings.TrimLeft(s[5:], " "), true
}

// Path returns the database file that was loaded, or "".
func (db *Database) Path() string {
	db.mu.RLock()
	defer db.mu.RUnlock()
	return db.path
}

// LookupVendor returns the vendor name for vid, or "".
func (db *Database) LookupVendor(vid uint16) string {
	db.mu.RLock()
	defer db.mu.RUnlock()
	return db.vendors[vid]
}

// LookupProduct returns the product name for vid:pid, or "".
func (db *Database) LookupProduct(vid, pid uint16) string {
	db.mu.RLock()
	defer db.mu.RUnlock()
	return db.products[ID{vid, pid}.key()]
}

// Describe returns "vendor product" for vid:pid, falling back to the
// numeric form for whatever part is unknown.
func (db *Database) Describe(vid, pid uint16) string {
	vendor := db.LookupVendor(vid)
	product := db.LookupProduct(vid, pid)
	switch {
	case vendor != "" && product != "":
		return vendor + " " + product
	case vendor != "":
		return vendor + " " + ID{vid, pid}.String()
	default:
		return ID{vid, pid}.String()
	}
}
