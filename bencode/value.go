// Package bencode implements the BitTorrent metadata encoding.
//
// Decode produces a generic Value tree that keeps dictionary entries
// in their original order, so a decoded file can be inspected or
// re-encoded without losing information. Encode always emits the
// canonical form: dictionary keys sorted by raw byte value.
package bencode

// Value is a bencode value: Integer, String, List or Dict.
type Value interface {
	appendTo(dst []byte) []byte
}

// Integer is a bencode integer.
type Integer int64

// String is a bencode byte string. It is raw bytes, not necessarily
// valid UTF-8.
type String []byte

// List is an ordered sequence of values.
type List []Value

// Entry is a single key/value pair of a Dict.
type Entry struct {
	Key   []byte
	Value Value
}

// Dict is a bencode dictionary. Entries keep the order they were
// decoded in (or appended in, when building one by hand); canonical
// key ordering is applied by Encode, not stored here.
type Dict []Entry

// Get returns the value for key. If the dictionary holds duplicate
// keys the first occurrence wins.
func (d Dict) Get(key string) (Value, bool) {
	for _, e := range d {
		if string(e.Key) == key {
			return e.Value, true
		}
	}
	return nil, false
}

// Set appends a key/value pair. It does not replace existing entries.
func (d Dict) Set(key string, v Value) Dict {
	return append(d, Entry{Key: []byte(key), Value: v})
}
