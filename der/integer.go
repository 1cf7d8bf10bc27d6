package der

import (
	"github.com/ansel1/merry"
	"math/big"
)

// AppendInt32 appends v as a minimal DER INTEGER.
func AppendInt32(dst []byte, v int32) []byte {
	u := uint32(v)
	return appendInteger(dst, TagInteger, unpadBigInt([]byte{byte(u >> 24), byte(u >> 16), byte(u >> 8), byte(u)}))
}

// AppendIntegerBlob appends a two's complement integer, stored little-endian in le,
// as a minimal DER INTEGER.  Redundant sign bytes are dropped.  An empty blob
// encodes as zero.
func AppendIntegerBlob(dst []byte, le []byte) []byte {
	return appendInteger(dst, TagInteger, unpadBigInt(reverse(le)))
}

// AppendUintBlob appends an unsigned integer, stored little-endian in le, as a
// minimal DER INTEGER.  Leading zeros are dropped, and a single zero byte is
// added when the high bit of the most significant byte is set.
func AppendUintBlob(dst []byte, le []byte) []byte {
	return appendInteger(dst, TagInteger, unsignedContent(reverse(le)))
}

// AppendEnumerated appends v as an ENUMERATED.  The value is always encoded as unsigned.
func AppendEnumerated(dst []byte, v uint32) []byte {
	return appendInteger(dst, TagEnumerated, unsignedContent([]byte{byte(v >> 24), byte(v >> 16), byte(v >> 8), byte(v)}))
}

// AppendBigInt appends i as a minimal DER INTEGER.  A nil i encodes as zero.
func AppendBigInt(dst []byte, i *big.Int) []byte {
	return appendInteger(dst, TagInteger, BigIntBytes(i))
}

// AppendBool appends a BOOLEAN.  TRUE is encoded as 0xff.
func AppendBool(dst []byte, v bool) []byte {
	if v {
		return append(dst, byte(TagBoolean), 1, 0xff)
	}
	return append(dst, byte(TagBoolean), 1, 0)
}

// AppendNull appends a NULL.
func AppendNull(dst []byte) []byte {
	return append(dst, byte(TagNull), 0)
}

func appendInteger(dst []byte, tag Tag, content []byte) []byte {
	if len(content) == 0 {
		content = []byte{0}
	}
	dst = AppendHeader(dst, tag, len(content))
	return append(dst, content...)
}

// unsignedContent strips leading zeros from the big-endian b, and adds a zero
// byte back if the result would otherwise read as negative.
func unsignedContent(b []byte) []byte {
	for len(b) > 1 && b[0] == 0 {
		b = b[1:]
	}
	if len(b) > 0 && b[0]&0x80 != 0 {
		b = append([]byte{0}, b...)
	}
	return b
}

func reverse(b []byte) []byte {
	r := make([]byte, len(b))
	for i, c := range b {
		r[len(b)-1-i] = c
	}
	return r
}

// BigIntBytes returns the minimal big-endian two's complement encoding of i.
func BigIntBytes(i *big.Int) []byte {
	if i == nil {
		return []byte{0}
	}
	switch i.Sign() {
	case 0:
		return []byte{0}
	case 1:
		b := i.Bytes()
		// if n is positive, but the first bit is a 1, it will look like
		// a negative in 2's complement, so prepend a zero in front
		if b[0]&0x80 > 0 {
			b = append([]byte{0}, b...)
		}
		return b
	default:
		length := uint(i.BitLen()/8+1) * 8
		j := new(big.Int).Lsh(one, length)
		b := j.Add(i, j).Bytes()
		// When the most significant bit is on a byte
		// boundary, we can get some extra significant
		// bits, so strip them off when that happens.
		if len(b) >= 2 && b[0] == 0xff && b[1]&0x80 != 0 {
			b = b[1:]
		}
		return b
	}
}

// DecodeInt32 decodes an INTEGER which fits in 32 bits.  Wider values fail
// with ErrTooLarge.
func DecodeInt32(t TLV) (int32, error) {
	v, err := integerContent(t, TagInteger)
	if err != nil {
		return 0, err
	}
	if len(v) > 4 {
		return 0, merry.Here(ErrTooLarge).Appendf("integer of %d bytes does not fit in 32 bits", len(v))
	}
	var i int32
	if v[0]&0x80 != 0 {
		// initialize to a negative value to sign-extend
		i = -1
	}
	for _, c := range v {
		i = i<<8 | int32(c)
	}
	return i, nil
}

// DecodeIntegerBlob decodes an INTEGER of any size into a little-endian two's complement blob.
func DecodeIntegerBlob(t TLV) ([]byte, error) {
	v, err := integerContent(t, TagInteger)
	if err != nil {
		return nil, err
	}
	return reverse(v), nil
}

// DecodeUintBlob decodes an INTEGER of any size into a little-endian unsigned blob.
// A leading zero byte on the wire is dropped.
func DecodeUintBlob(t TLV) ([]byte, error) {
	v, err := integerContent(t, TagInteger)
	if err != nil {
		return nil, err
	}
	if v[0] == 0 {
		v = v[1:]
	}
	return reverse(v), nil
}

// DecodeBigInt decodes an INTEGER of any size.
func DecodeBigInt(t TLV) (*big.Int, error) {
	v, err := integerContent(t, TagInteger)
	if err != nil {
		return nil, err
	}
	i := new(big.Int)
	unmarshalBigInt(i, v)
	return i, nil
}

// DecodeEnumerated decodes an ENUMERATED.  The content is read as unsigned, and
// may be up to 5 bytes long, so a sign byte in front of 4 value bytes is accepted.
func DecodeEnumerated(t TLV) (uint32, error) {
	v, err := integerContent(t, TagEnumerated)
	if err != nil {
		return 0, err
	}
	if len(v) > 5 {
		return 0, merry.Here(ErrTooLarge).Appendf("enumerated of %d bytes does not fit in 32 bits", len(v))
	}
	var u uint32
	for _, c := range v {
		u = u<<8 | uint32(c)
	}
	return u, nil
}

// DecodeBool decodes a BOOLEAN.  Any non-zero content byte is true.
func DecodeBool(t TLV) (bool, error) {
	v, err := t.content(TagBoolean)
	if err != nil {
		return false, err
	}
	if len(v) != 1 {
		return false, merry.Here(ErrCorrupt).Appendf("boolean length must be 1, got %d", len(v))
	}
	return v[0] != 0, nil
}

// DecodeNull decodes a NULL.
func DecodeNull(t TLV) error {
	v, err := t.content(TagNull)
	if err != nil {
		return err
	}
	if len(v) != 0 {
		return merry.Here(ErrCorrupt).Append("null must be empty")
	}
	return nil
}

func integerContent(t TLV, tag Tag) ([]byte, error) {
	v, err := t.content(tag)
	if err != nil {
		return nil, err
	}
	if len(v) == 0 {
		return nil, merry.Here(ErrCorrupt).Appendf("%v has no content", tag)
	}
	return v, nil
}

var one = big.NewInt(1)

func unpadBigInt(data []byte) []byte {
	if len(data) < 2 {
		return data
	}

	i := 0
	for ; (i + 1) < len(data); i++ {
		switch {
		// first two cases keep looping, skipping pad bytes
		// pad bytes are all the same bit as
		// the first bit of the next byte
		case data[i] == 0xFF && data[i+1]&0x80 > 1:
		case data[i] == 0x00 && data[i+1]&0x80 == 0:
		default:
			// we've hit a byte that doesn't match the pad pattern
			return data[i:]
		}
	}
	// we've reached the last byte
	return data[i:]
}

// unmarshalBigInt sets the value of n to the big-endian two's complement
// value stored in the given data. If data[0]&80 != 0, the number
// is negative. If data is empty, the result will be 0.
func unmarshalBigInt(n *big.Int, data []byte) {
	n.SetBytes(data)
	if len(data) > 0 && data[0]&0x80 > 0 {
		// first byte is 1, so number is negative.
		// left shifting 1 by the length in bits of the data
		// then subtracting the value from that gives us the
		// twos complement.
		n.Sub(n, new(big.Int).Lsh(one, uint(len(data))*8))
	}
}
