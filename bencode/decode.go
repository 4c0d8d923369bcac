package bencode

import (
	"fmt"
	"strconv"
)

// SyntaxError reports a grammar violation in the input, with the byte
// offset where it was detected.
type SyntaxError struct {
	Offset int
	msg    string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("bencode: %s at offset %d", e.msg, e.Offset)
}

// Decode parses data as a single bencode value. Trailing bytes after
// the value are an error. Dictionary entries are returned in input
// order; unsorted and duplicate keys are accepted.
func Decode(data []byte) (Value, error) {
	d := &decoder{data: data}
	v, err := d.value()
	if err != nil {
		return nil, err
	}
	if d.pos != len(d.data) {
		return nil, d.errorf("trailing data after value")
	}
	return v, nil
}

type decoder struct {
	data []byte
	pos  int
}

func (d *decoder) errorf(format string, args ...interface{}) error {
	return &SyntaxError{Offset: d.pos, msg: fmt.Sprintf(format, args...)}
}

func (d *decoder) value() (Value, error) {
	if d.pos >= len(d.data) {
		return nil, d.errorf("unexpected end of data")
	}
	switch c := d.data[d.pos]; {
	case c == 'i':
		return d.integer()
	case c == 'l':
		return d.list()
	case c == 'd':
		return d.dict()
	case c >= '0' && c <= '9':
		return d.str()
	default:
		return nil, d.errorf("invalid type prefix %q", c)
	}
}

// digits consumes an unsigned decimal run. Leading zeros are rejected
// except for the literal "0".
func (d *decoder) digits() (string, error) {
	start := d.pos
	for d.pos < len(d.data) && d.data[d.pos] >= '0' && d.data[d.pos] <= '9' {
		d.pos++
	}
	if d.pos == start {
		return "", d.errorf("expected digit")
	}
	s := string(d.data[start:d.pos])
	if len(s) > 1 && s[0] == '0' {
		d.pos = start
		return "", d.errorf("leading zero in number")
	}
	return s, nil
}

func (d *decoder) integer() (Value, error) {
	d.pos++ // 'i'
	neg := false
	if d.pos < len(d.data) && d.data[d.pos] == '-' {
		neg = true
		d.pos++
	}
	s, err := d.digits()
	if err != nil {
		return nil, err
	}
	if neg {
		if s == "0" {
			return nil, d.errorf("negative zero")
		}
		s = "-" + s
	}
	if d.pos >= len(d.data) || d.data[d.pos] != 'e' {
		return nil, d.errorf("unterminated integer")
	}
	d.pos++
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return nil, d.errorf("integer %s out of range", s)
	}
	return Integer(n), nil
}

func (d *decoder) str() (Value, error) {
	s, err := d.digits()
	if err != nil {
		return nil, err
	}
	if d.pos >= len(d.data) || d.data[d.pos] != ':' {
		return nil, d.errorf("expected ':' after string length")
	}
	d.pos++
	length, err := strconv.Atoi(s)
	if err != nil || length > len(d.data)-d.pos {
		return nil, d.errorf("string length %s exceeds remaining data", s)
	}
	raw := d.data[d.pos : d.pos+length]
	d.pos += length
	return String(raw), nil
}

func (d *decoder) list() (Value, error) {
	d.pos++ // 'l'
	list := List{}
	for {
		if d.pos >= len(d.data) {
			return nil, d.errorf("unterminated list")
		}
		if d.data[d.pos] == 'e' {
			d.pos++
			return list, nil
		}
		v, err := d.value()
		if err != nil {
			return nil, err
		}
		list = append(list, v)
	}
}

func (d *decoder) dict() (Value, error) {
	d.pos++ // 'd'
	dict := Dict{}
	for {
		if d.pos >= len(d.data) {
			return nil, d.errorf("unterminated dictionary")
		}
		if d.data[d.pos] == 'e' {
			d.pos++
			return dict, nil
		}
		if c := d.data[d.pos]; c < '0' || c > '9' {
			return nil, d.errorf("dictionary key must be a string")
		}
		key, err := d.str()
		if err != nil {
			return nil, err
		}
		v, err := d.value()
		if err != nil {
			return nil, err
		}
		dict = append(dict, Entry{Key: []byte(key.(String)), Value: v})
	}
}
