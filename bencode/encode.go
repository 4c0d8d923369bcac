package bencode

import (
	"bytes"
	"sort"
	"strconv"
)

// Encode serializes v into its canonical byte form. Dictionary keys
// are sorted by raw byte value regardless of the order they carry in
// the tree; everything else renders in place. Two trees with the same
// logical content always encode to identical bytes.
func Encode(v Value) []byte {
	return v.appendTo(nil)
}

func (i Integer) appendTo(dst []byte) []byte {
	dst = append(dst, 'i')
	dst = strconv.AppendInt(dst, int64(i), 10)
	return append(dst, 'e')
}

func (s String) appendTo(dst []byte) []byte {
	dst = strconv.AppendInt(dst, int64(len(s)), 10)
	dst = append(dst, ':')
	return append(dst, s...)
}

func (l List) appendTo(dst []byte) []byte {
	dst = append(dst, 'l')
	for _, v := range l {
		dst = v.appendTo(dst)
	}
	return append(dst, 'e')
}

func (d Dict) appendTo(dst []byte) []byte {
	// The sort is the canonical-form invariant: never rely on the
	// order entries happen to be stored in.
	sorted := make(Dict, len(d))
	copy(sorted, d)
	sort.SliceStable(sorted, func(i, j int) bool {
		return bytes.Compare(sorted[i].Key, sorted[j].Key) < 0
	})

	dst = append(dst, 'd')
	for _, e := range sorted {
		dst = String(e.Key).appendTo(dst)
		dst = e.Value.appendTo(dst)
	}
	return append(dst, 'e')
}
