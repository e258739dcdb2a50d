// Package intern implements BFAST's string interner (component C3): the
// per-document table that assigns stable 32-bit ids to object-key strings,
// so repeated keys are written once in the header and referenced by id from
// the value body.
//
// The encode-side algorithm is a pre-scan, assign-or-reuse, write-once-per-
// distinct-string pass in first-seen order, with the table's entries
// length-prefixed by a single byte rather than a wider integer.
package intern

import (
	"fmt"

	"github.com/marcelomarkus/bfast/cursor"
	"github.com/marcelomarkus/bfast/errs"
	"github.com/marcelomarkus/bfast/internal/hash"
)

// MaxEntries is the largest number of distinct keys a single document may
// intern; the header's count field is 16 bits wide.
const MaxEntries = 65535

// MaxKeyLength is the largest UTF-8 byte length a single key may have; the
// header's per-entry length prefix is a single byte.
const MaxKeyLength = 255

// Table is a per-document interning table. The zero value is ready to use.
// A Table is built once per encode or decode call and discarded afterward;
// it must never be reused across documents.
type Table struct {
	strings []string
	ids     map[string]uint32
	hashes  map[uint64][]uint32
}

// New returns an empty interning table.
func New() *Table {
	return &Table{ids: make(map[string]uint32)}
}

// Len reports the number of entries currently in the table. Tables built by
// Intern hold distinct keys; a table read by ReadTable keeps repeated
// entries, and each one counts.
func (t *Table) Len() int { return len(t.strings) }

// String returns the key stored at id, which must be < t.Len().
func (t *Table) String(id uint32) string { return t.strings[id] }

// Intern returns the id for key, assigning a new one in first-seen order if
// key has not been seen before in this table. It fails with
// errs.ErrKeyTooLong if key exceeds MaxKeyLength bytes, or
// errs.ErrInternOverflow if assigning a new entry would exceed MaxEntries.
//
// A cheap xxhash digest (hash.ID) is recorded for every distinct key, so a
// caller holding only a Table can resolve a key by hash via Hashes before
// falling back to an exact string comparison on collision.
func (t *Table) Intern(key string) (uint32, error) {
	if len(key) > MaxKeyLength {
		return 0, fmt.Errorf("%w: key %q is %d bytes", errs.ErrKeyTooLong, key, len(key))
	}

	if id, ok := t.ids[key]; ok {
		return id, nil
	}

	if len(t.strings) >= MaxEntries {
		return 0, fmt.Errorf("%w: would exceed %d distinct keys", errs.ErrInternOverflow, MaxEntries)
	}

	if t.ids == nil {
		t.ids = make(map[string]uint32)
	}

	if t.hashes == nil {
		t.hashes = make(map[uint64][]uint32)
	}
	h := hash.ID(key)
	id := uint32(len(t.strings)) //nolint:gosec
	t.hashes[h] = append(t.hashes[h], id)
	t.strings = append(t.strings, key)
	t.ids[key] = id

	return id, nil
}

// Hashes returns the ids of every entry whose key hashes to h, per
// hash.ID. Most keys hash to a single id; a collision yields more than
// one, and callers must verify by comparing the actual strings (String)
// before trusting a match.
func (t *Table) Hashes(h uint64) []uint32 {
	return t.hashes[h]
}

// WriteTable appends the count field and every interning entry to w, in
// first-seen order, per the document's header layout.
func (t *Table) WriteTable(w *cursor.WriteCursor) error {
	if len(t.strings) > MaxEntries {
		return fmt.Errorf("%w: table has %d entries", errs.ErrInternOverflow, len(t.strings))
	}

	w.WriteU16LE(uint16(len(t.strings))) //nolint:gosec

	for _, s := range t.strings {
		if len(s) > MaxKeyLength {
			return fmt.Errorf("%w: key %q is %d bytes", errs.ErrKeyTooLong, s, len(s))
		}
		w.WriteU8(uint8(len(s))) //nolint:gosec
		w.WriteUTF8(s)
	}

	return nil
}

// ReadTable reads the count field and that many [len:u8][UTF-8 bytes]
// entries from r, materialising a Table for the duration of one document's
// decode.
//
// The slice backing the table is safe to pre-size from the declared count:
// at most 65,536 slots of pointer size each, a trivially bounded allocation
// regardless of what the rest of the document claims.
func ReadTable(r *cursor.ReadCursor) (*Table, error) {
	count, err := r.ReadU16LE()
	if err != nil {
		return nil, err
	}

	t := &Table{
		strings: make([]string, 0, count),
		ids:     make(map[string]uint32, count),
		hashes:  make(map[uint64][]uint32, count),
	}

	for i := uint16(0); i < count; i++ {
		n, err := r.ReadU8()
		if err != nil {
			return nil, err
		}

		s, err := r.ReadUTF8(int(n))
		if err != nil {
			return nil, err
		}

		id := uint32(len(t.strings)) //nolint:gosec
		h := hash.ID(s)
		t.hashes[h] = append(t.hashes[h], id)
		t.ids[s] = id
		t.strings = append(t.strings, s)
	}

	return t, nil
}

// Lookup resolves a decoded interning id to its key string, failing with
// errs.ErrBadInternID if id is outside [0, t.Len()).
func (t *Table) Lookup(id uint32) (string, error) {
	if id >= uint32(len(t.strings)) { //nolint:gosec
		return "", fmt.Errorf("%w: id %d, table has %d entries", errs.ErrBadInternID, id, len(t.strings))
	}

	return t.strings[id], nil
}
