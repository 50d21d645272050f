// Package encoding packs arena-indexed board slots into compact strings.
package encoding

import (
	"bytes"
	"encoding/base64"
	"encoding/binary"
	"fmt"
)

// EncodeRLE packs slot values as base64 of uvarint (value, run) pairs.
// Board arenas are mostly empty, so a fresh board packs to a few bytes.
func EncodeRLE(vals []uint16) string {
	var buf bytes.Buffer
	var tmp [binary.MaxVarintLen64]byte
	put := func(v uint64) {
		n := binary.PutUvarint(tmp[:], v)
		buf.Write(tmp[:n])
	}

	for i := 0; i < len(vals); {
		j := i + 1
		for j < len(vals) && vals[j] == vals[i] {
			j++
		}
		put(uint64(vals[i]))
		put(uint64(j - i))
		i = j
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes())
}

// DecodeRLE unpacks exactly n slots. A stream that expands to any other
// length is rejected.
func DecodeRLE(s string, n int) ([]uint16, error) {
	raw, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return nil, err
	}
	out := make([]uint16, 0, n)
	for i := 0; i < len(raw); {
		v, k := binary.Uvarint(raw[i:])
		if k <= 0 {
			return nil, fmt.Errorf("rle: bad value at byte %d", i)
		}
		i += k
		run, k := binary.Uvarint(raw[i:])
		if k <= 0 || run == 0 {
			return nil, fmt.Errorf("rle: bad run at byte %d", i)
		}
		i += k
		if v > 0xFFFF {
			return nil, fmt.Errorf("rle: value %d overflows a slot", v)
		}
		if run > uint64(n-len(out)) {
			return nil, fmt.Errorf("rle: stream longer than %d slots", n)
		}
		for ; run > 0; run-- {
			out = append(out, uint16(v))
		}
	}
	if len(out) != n {
		return nil, fmt.Errorf("rle: got %d slots, want %d", len(out), n)
	}
	return out, nil
}
