// Package runid provides opaque identifiers that are unique within one run
// of a process.
//
// An ID is backed by a serial number drawn from a single process-wide
// atomic counter, so allocation is one fetch-and-add with no locking. IDs
// are plain values: they can be copied freely, compared with ==, and used
// as map keys. Two IDs are equal if and only if they come from the same
// New call.
//
// IDs expose no ordering and no serialized form. They distinguish "this
// run or session" from "that run or session" inside one process only;
// persisting or transmitting one would suggest a cross-process uniqueness
// that does not exist.
package runid

import (
	"encoding/binary"
	"fmt"
	"hash"
	"sync/atomic"

	"github.com/cespare/xxhash/v2"
)

// lastSerial is the process-wide allocation counter. It only moves
// forward and is touched exclusively by New.
var lastSerial uint64

// ID is an opaque identifier that is unique within one run of a process.
//
// The zero value is not a valid ID. It compares unequal to every ID
// returned by New.
type ID struct {
	serial uint64
}

// New allocates a new unique ID.
//
// New is safe for concurrent use from any number of goroutines and never
// blocks. Every call within one process run returns a distinct ID. New
// panics when the serial space is exhausted, on the call that would wrap
// the counter after 2^64 allocations; no realistic workload reaches that
// boundary.
func New() ID {
	serial := atomic.AddUint64(&lastSerial, 1)
	if serial == 0 {
		panic("runid: serial space exhausted")
	}

	return ID{serial: serial}
}

// Hash feeds the identity of the ID into h as one fixed-width block in
// native byte order. Equal IDs always contribute identical bytes and
// distinct IDs always contribute distinct bytes, so any quality hash
// function separates them with overwhelming probability.
func (id ID) Hash(h hash.Hash) {
	var block [8]byte
	binary.NativeEndian.PutUint64(block[:], id.serial)
	h.Write(block[:])
}

// String returns an opaque fingerprint of the ID for diagnostics, such as
// "runid.ID(29fa4b35c1d20e17)". The fingerprint is stable for a given ID
// within one run. It is not a serialized form: nothing can turn the string
// back into an ID, and it carries no information about how many IDs were
// allocated or in which order.
func (id ID) String() string {
	var block [8]byte
	binary.NativeEndian.PutUint64(block[:], id.serial)

	return fmt.Sprintf("runid.ID(%016x)", xxhash.Sum64(block[:]))
}
