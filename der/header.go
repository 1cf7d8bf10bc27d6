package der

import (
	"github.com/ansel1/merry"
	"math"
)

// DefaultMaxLength is the largest content length DecodeHeader accepts.
const DefaultMaxLength = 0x061a8000

// maximum number of long form length bytes which can be decoded
const maxLenBytes = 8

// Header is a decoded TLV header.
type Header struct {
	Tag Tag
	// Length is the length of the content.
	Length int
	// HeaderLen is the number of bytes taken by the tag and length.
	HeaderLen int
}

// FullLen is the length of the complete element, header plus content.
func (h Header) FullLen() int {
	return h.HeaderLen + h.Length
}

// HeaderLen returns the size of a header with the given content length.
func HeaderLen(length int) int {
	if length < 0x80 {
		return 2
	}
	return 2 + lenBytes(uint64(length))
}

func lenBytes(l uint64) int {
	n := 1
	for l > 0xff {
		l >>= 8
		n++
	}
	return n
}

// AppendHeader appends a DER header to dst.  Lengths up to 127 use the short
// form, longer lengths use the long form with the minimum number of length bytes.
func AppendHeader(dst []byte, tag Tag, length int) []byte {
	if length < 0 {
		panic("der: negative length")
	}
	if length < 0x80 {
		return append(dst, byte(tag), byte(length))
	}
	return AppendLongHeader(dst, tag, length)
}

// AppendLongHeader appends a header using the long length form, regardless of the
// length.  This is valid BER, but not DER, for lengths under 128.
func AppendLongHeader(dst []byte, tag Tag, length int) []byte {
	if length < 0 {
		panic("der: negative length")
	}
	n := lenBytes(uint64(length))
	dst = append(dst, byte(tag), 0x80|byte(n))
	for i := n - 1; i >= 0; i-- {
		dst = append(dst, byte(uint64(length)>>(uint(i)*8)))
	}
	return dst
}

// EncodeHeader returns the DER header for tag and length.
func EncodeHeader(tag Tag, length int) []byte {
	return AppendHeader(make([]byte, 0, HeaderLen(length)), tag, length)
}

// DecodeHeader decodes the header at the start of b, enforcing DefaultMaxLength.
func DecodeHeader(b []byte) (Header, error) {
	return DecodeHeaderLimit(b, DefaultMaxLength)
}

// DecodeHeaderLimit decodes the header at the start of b.  The content length
// must be no more than limit, and must fit in the remainder of b.  A limit of 0 or
// less means DefaultMaxLength.
func DecodeHeaderLimit(b []byte, limit int) (Header, error) {
	h, err := parseHeader(b, limit)
	if err != nil {
		return Header{}, err
	}
	if h.FullLen() > len(b) {
		return Header{}, merry.Here(ErrEndOfData).Appendf("length %d exceeds remaining %d bytes", h.Length, len(b)-h.HeaderLen)
	}
	return h, nil
}

// parseHeader decodes the tag and length, without checking the content is present.
func parseHeader(b []byte, limit int) (Header, error) {
	if limit <= 0 {
		limit = DefaultMaxLength
	}
	if len(b) < 2 {
		return Header{}, merry.Here(ErrEndOfData).Append("header truncated")
	}

	h := Header{Tag: Tag(b[0])}

	if b[1] < 0x80 {
		h.Length = int(b[1])
		h.HeaderLen = 2
	} else {
		n := int(b[1] & 0x7f)
		switch {
		case n == 0:
			return Header{}, merry.Here(ErrEndOfData).Append("indefinite length is not supported")
		case n > maxLenBytes:
			return Header{}, merry.Here(ErrCorrupt).Appendf("length uses %d bytes", n)
		case len(b) < 2+n:
			return Header{}, merry.Here(ErrEndOfData).Append("length truncated")
		}
		var l uint64
		for _, c := range b[2 : 2+n] {
			l = l<<8 | uint64(c)
		}
		h.HeaderLen = 2 + n
		if l > uint64(math.MaxInt-h.HeaderLen) {
			return Header{}, merry.Here(ErrCorrupt).Append("length overflows")
		}
		h.Length = int(l)
	}

	if h.Length > limit {
		return Header{}, merry.Here(ErrTooLarge).Appendf("length %d exceeds maximum %d", h.Length, limit)
	}
	return h, nil
}
