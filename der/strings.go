package der

import (
	"github.com/ansel1/merry"
)

// AppendString appends a primitive element with the given tag and raw content.
// It is used for OCTET STRING and all the character string types; the content
// is not checked against the character set of the tag.
func AppendString(dst []byte, tag Tag, content []byte) []byte {
	dst = AppendHeader(dst, tag, len(content))
	return append(dst, content...)
}

// AppendOctetString appends an OCTET STRING.
func AppendOctetString(dst []byte, b []byte) []byte {
	return AppendString(dst, TagOctetString, b)
}

// AppendBitString appends a BIT STRING.
//
// An unused count of 8 or more is accepted.  The data is shortened to the bytes
// which still hold used bits, and the count written is unused/8.  If unused
// covers all the data, an empty bit string with no unused bits is written.
// The unused bits of the last byte are cleared.
func AppendBitString(dst []byte, data []byte, unused uint32) []byte {
	var dataBytes int
	var unusedBits byte

	switch {
	case unused == 0:
		dataBytes = len(data)
	case uint64(len(data))*8 > uint64(unused):
		dataBytes = int((uint64(len(data))*8-uint64(unused))/8 + 1)
		if unused >= 8 {
			unusedBits = byte(unused / 8)
		} else {
			unusedBits = byte(unused)
		}
	}

	dst = AppendHeader(dst, TagBitString, dataBytes+1)
	dst = append(dst, unusedBits)
	if dataBytes > 0 {
		dst = append(dst, data[:dataBytes]...)
		dst[len(dst)-1] &= mask(unusedBits)
	}
	return dst
}

func mask(unused byte) byte {
	if unused >= 8 {
		return 0
	}
	return 0xff << unused
}

// DecodeOctetString returns the content of an OCTET STRING.  The result aliases t.
func DecodeOctetString(t TLV) ([]byte, error) {
	return t.content(TagOctetString)
}

// DecodeString returns the content of a primitive element with the given tag.
// The result aliases t.
func DecodeString(t TLV, tag Tag) ([]byte, error) {
	return t.content(tag)
}

// DecodeBitString returns the data bytes and unused bit count of a BIT STRING.
// The data is a copy, with the unused bits of the last byte cleared.
func DecodeBitString(t TLV) (data []byte, unused uint32, err error) {
	raw, unused, err := DecodeBitStringRaw(t)
	if err != nil {
		return nil, 0, err
	}
	data = make([]byte, len(raw))
	copy(data, raw)
	MaskBits(data, unused)
	return data, unused, nil
}

// DecodeBitStringRaw is like DecodeBitString, but the returned data aliases t,
// and is not masked.
func DecodeBitStringRaw(t TLV) (data []byte, unused uint32, err error) {
	v, err := t.content(TagBitString)
	if err != nil {
		return nil, 0, err
	}
	if len(v) == 0 {
		return nil, 0, merry.Here(ErrCorrupt).Append("bit string has no unused bits byte")
	}
	return v[1:], uint32(v[0]), nil
}

// MaskBits clears the unused bits in the last byte of data.
func MaskBits(data []byte, unused uint32) {
	if len(data) == 0 {
		return
	}
	if unused >= 8 {
		data[len(data)-1] = 0
		return
	}
	data[len(data)-1] &= mask(byte(unused))
}
