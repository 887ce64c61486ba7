package protocol

import (
	"encoding/base64"
	"encoding/json"
	"math"
)

// PriceValue extracts the coupon price from a mall offer's opaque price
// field. The server sends either a plain number or a base64 blob wrapping a
// partially-documented binary record whose varint field 2 carries the
// price. 0 means "price unknown" and callers skip the funds check.
func PriceValue(raw json.RawMessage) int64 {
	if len(raw) == 0 {
		return 0
	}
	var num float64
	if err := json.Unmarshal(raw, &num); err == nil {
		if num <= 0 || math.IsNaN(num) || math.IsInf(num, 0) {
			return 0
		}
		return int64(math.Floor(num))
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return 0
	}
	buf, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return 0
	}
	return decodePriceRecord(buf)
}

// Wire types of the record's key byte (low 3 bits).
const (
	wireVarint  = 0
	wireFixed64 = 1
	wireBytes   = 2
	wireFixed32 = 5
)

const priceFieldNumber = 2

// decodePriceRecord scans sequential (key, value) entries and keeps the
// last varint seen in field 2. It never fails: malformed or truncated input
// returns whatever has been accumulated, and an unknown wire type aborts
// the scan the same way.
func decodePriceRecord(buf []byte) int64 {
	var price int64
	i := 0
	for i < len(buf) {
		key, n := readUvarint(buf[i:])
		if n <= 0 {
			return price
		}
		i += n
		field := key >> 3
		switch key & 0x7 {
		case wireVarint:
			v, vn := readUvarint(buf[i:])
			if vn <= 0 {
				return price
			}
			i += vn
			if field == priceFieldNumber {
				price = int64(v)
			}
		case wireFixed64:
			i += 8
		case wireBytes:
			l, ln := readUvarint(buf[i:])
			if ln <= 0 {
				return price
			}
			i += ln
			// The declared length is untrusted; a huge value would wrap
			// the cursor negative when converted.
			if l > uint64(len(buf)-i) {
				return price
			}
			i += int(l)
		case wireFixed32:
			i += 4
		default:
			return price
		}
	}
	return price
}

// readUvarint decodes a 7-bits-per-byte little-endian varint. It returns
// the byte count consumed, or 0 when the input is truncated or overlong.
func readUvarint(buf []byte) (uint64, int) {
	var v uint64
	for n := 0; n < len(buf); n++ {
		b := buf[n]
		if n >= 10 {
			return 0, 0
		}
		v |= uint64(b&0x7f) << (7 * uint(n))
		if b&0x80 == 0 {
			return v, n + 1
		}
	}
	return 0, 0
}
