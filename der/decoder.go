package der

import (
	"bufio"
	"github.com/ansel1/merry"
	"io"
)

// Decoder reads TLV elements from a stream.
type Decoder struct {
	r    io.Reader
	bufr *bufio.Reader

	// MaxLength bounds the content length of elements.  0 means DefaultMaxLength.
	MaxLength int
}

func NewDecoder(r io.Reader) *Decoder {
	return &Decoder{
		r:    r,
		bufr: bufio.NewReader(r),
	}
}

func (dec *Decoder) Reset(r io.Reader) {
	*dec = Decoder{
		r:         r,
		bufr:      dec.bufr,
		MaxLength: dec.MaxLength,
	}
	dec.bufr.Reset(r)
}

// NextTLV reads the next complete element.  It returns io.EOF if the stream
// ends cleanly before an element, and ErrEndOfData if it ends inside one.
func (dec *Decoder) NextTLV() (TLV, error) {
	// first, read the header
	header, err := dec.bufr.Peek(2)
	switch {
	case err == io.EOF && len(header) == 0:
		return nil, io.EOF
	case err == io.EOF:
		return TLV(header), merry.Here(ErrEndOfData).Append("header truncated")
	case err != nil:
		return nil, merry.Wrap(err)
	}

	if header[1] > 0x80 {
		n := int(header[1] & 0x7f)
		if n <= maxLenBytes {
			header, err = dec.bufr.Peek(2 + n)
			if err == io.EOF {
				return TLV(header), merry.Here(ErrEndOfData).Append("length truncated")
			}
			if err != nil {
				return nil, merry.Wrap(err)
			}
		}
	}

	h, err := parseHeader(header, dec.MaxLength)
	if err != nil {
		// bad header, abort
		return TLV(header), merry.Prependf(err, "invalid header: %x", header)
	}

	// allocate a buffer large enough for the entire element
	buf := make([]byte, h.FullLen())
	if _, err := io.ReadFull(dec.bufr, buf); err != nil {
		if err == io.ErrUnexpectedEOF || err == io.EOF {
			return TLV(buf), merry.Here(ErrEndOfData).Appendf("element of %d bytes truncated", h.FullLen())
		}
		return TLV(buf), merry.Wrap(err)
	}
	return TLV(buf), nil
}
