package der

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"github.com/ansel1/merry"
	"io"
	"strconv"
	"strings"
	"unicode/utf8"
)

// TLV is a single encoded element: header and content.  It may be followed by
// further bytes, which Next returns.
type TLV []byte

// Header decodes the element's header, enforcing DefaultMaxLength.
func (t TLV) Header() (Header, error) {
	return DecodeHeader(t)
}

func (t TLV) Tag() Tag {
	// don't panic if header is truncated
	if len(t) < 1 {
		return TagNone
	}
	return Tag(t[0])
}

// Len returns the content length, or 0 if the header is invalid.
func (t TLV) Len() int {
	h, err := t.Header()
	if err != nil {
		return 0
	}
	return h.Length
}

// HeaderLen returns the length of the header, or 0 if it is invalid.
func (t TLV) HeaderLen() int {
	h, err := t.Header()
	if err != nil {
		return 0
	}
	return h.HeaderLen
}

// FullLen returns the length of the element, header plus content, or 0 if the
// header is invalid.
func (t TLV) FullLen() int {
	h, err := t.Header()
	if err != nil {
		return 0
	}
	return h.FullLen()
}

// ValueRaw returns the content bytes, or nil if the header is invalid.
func (t TLV) ValueRaw() []byte {
	h, err := t.Header()
	if err != nil {
		return nil
	}
	return t[h.HeaderLen:h.FullLen():h.FullLen()]
}

// ValueConstructed returns the content of a constructed element as the first
// of a run of child elements.
func (t TLV) ValueConstructed() TLV {
	return t.ValueRaw()
}

// Element returns only this element, without any trailing bytes.
func (t TLV) Element() TLV {
	return t[:t.FullLen()]
}

// Valid checks the header, and recursively checks the children of constructed
// elements.
func (t TLV) Valid() error {
	if _, err := t.Header(); err != nil {
		return err
	}
	if t.Tag().Constructed() {
		for inner := t.ValueConstructed(); len(inner) > 0; inner = inner.Next() {
			if err := inner.Valid(); err != nil {
				return merry.Prepend(err, t.Tag().String())
			}
		}
	}
	return nil
}

// Next returns the bytes following this element, or nil if there are none, or
// if the header is invalid.
func (t TLV) Next() TLV {
	h, err := t.Header()
	if err != nil {
		return nil
	}
	n := t[h.FullLen():]
	if len(n) == 0 {
		return nil
	}
	return n
}

// Split returns the top level elements in t.  It fails on the first invalid
// header, or if the elements don't exactly fill t.
func (t TLV) Split() ([]TLV, error) {
	var elems []TLV
	for len(t) > 0 {
		h, err := t.Header()
		if err != nil {
			return nil, err
		}
		elems = append(elems, t[:h.FullLen():h.FullLen()])
		t = t[h.FullLen():]
	}
	return elems, nil
}

// content checks the tag, and returns the content bytes.
func (t TLV) content(tag Tag) ([]byte, error) {
	if len(t) == 0 {
		return nil, merry.Here(ErrEndOfData).Appendf("expected %v", tag)
	}
	if t.Tag() != tag {
		return nil, merry.Here(ErrBadTag).Appendf("expected %v, got %v", tag, t.Tag())
	}
	h, err := t.Header()
	if err != nil {
		return nil, err
	}
	return t[h.HeaderLen:h.FullLen():h.FullLen()], nil
}

func (t TLV) String() string {
	buf := bytes.NewBuffer(nil)
	_ = Print(buf, "", "  ", t)
	return buf.String()
}

// Print writes a text representation of the elements in t, one line per element,
// indenting the children of constructed elements.  Invalid elements are printed
// with the error and as many bytes as remain, and printing stops.
func Print(w io.Writer, prefix, indent string, t TLV) error {
	currIndent := prefix
	for {
		if err := printTLV(w, currIndent, indent, t); err != nil {
			return err
		}
		t = t.Next()
		if len(t) == 0 {
			return nil
		}
		_, _ = fmt.Fprint(w, "\n")
	}
}

func printTLV(w io.Writer, currIndent, indent string, t TLV) (err error) {
	tag := t.Tag()

	h, err := t.Header()
	if err != nil {
		_, _ = fmt.Fprintf(w, "%s%v: (%s) %#x", currIndent, tag, err.Error(), []byte(t))
		return err
	}

	_, _ = fmt.Fprintf(w, "%s%v (%d):", currIndent, tag, h.Length)

	if tag.Constructed() {
		currIndent += indent
		for s := t.ValueConstructed(); len(s) > 0; s = s.Next() {
			_, _ = fmt.Fprint(w, "\n")
			if err = printTLV(w, currIndent, indent, s); err != nil {
				// an error means we've hit invalid bytes in the stream
				// there are no markers to pick back up again, so we have to give up
				return
			}
		}
		return nil
	}

	_, _ = fmt.Fprint(w, " ", valueString(t))
	return nil
}

// valueString renders a primitive value.  Values which fail to decode are printed as hex.
func valueString(t TLV) string {
	switch t.Tag() {
	case TagBoolean:
		if v, err := DecodeBool(t); err == nil {
			return strconv.FormatBool(v)
		}
	case TagInteger:
		if v, err := DecodeBigInt(t); err == nil {
			return v.String()
		}
	case TagEnumerated:
		if v, err := DecodeEnumerated(t); err == nil {
			return strconv.FormatUint(uint64(v), 10)
		}
	case TagNull:
		return "NULL"
	case TagOID:
		if v, err := DecodeOID(t); err == nil {
			return v
		}
	case TagBitString:
		if v, unused, err := DecodeBitString(t); err == nil {
			return fmt.Sprintf("%#x (unused %d)", v, unused)
		}
	case TagUTCTime, TagGeneralizedTime:
		if v, err := DecodeTime(t); err == nil {
			return v.Format("2006-01-02T15:04:05.000Z07:00")
		}
	case TagNumericString, TagPrintableString, TagIA5String, TagVisibleString, TagUTF8String:
		if v := t.ValueRaw(); utf8.Valid(v) {
			return strconv.Quote(string(v))
		}
	}
	return fmt.Sprintf("%#x", t.ValueRaw())
}

// PrintPrettyHex writes the elements in t as hex, one element per line, with the
// tag, length, and content separated by " | ".  Hex2bytes ignores the separators
// and whitespace, so the output is still valid hex input.  Bytes which can't be
// parsed are written as plain hex.
func PrintPrettyHex(w io.Writer, prefix, indent string, t TLV) error {
	currIndent := prefix
	for {
		if len(t) == 0 {
			return nil
		}
		h, err := t.Header()
		if err != nil {
			// print the rest as hex
			_, err = fmt.Fprint(w, currIndent, hex.EncodeToString(t))
			return err
		}
		_, _ = fmt.Fprint(w, currIndent, hex.EncodeToString(t[:1]), " | ", hex.EncodeToString(t[1:h.HeaderLen]))
		if h.Tag.Constructed() {
			if h.Length > 0 {
				_, _ = fmt.Fprint(w, "\n")
				if err := PrintPrettyHex(w, currIndent+indent, indent, t.ValueConstructed()); err != nil {
					return err
				}
			}
		} else if h.Length > 0 {
			_, _ = fmt.Fprint(w, " | ", hex.EncodeToString(t.ValueRaw()))
		}
		t = t[h.FullLen():]
		if len(t) > 0 {
			_, _ = fmt.Fprint(w, "\n")
		}
	}
}

// MarshalJSON renders the element tree as {"tag": ..., "value": ...}.  Constructed
// values become arrays of children, primitive values are rendered as in Print.
func (t TLV) MarshalJSON() ([]byte, error) {
	if len(t) == 0 {
		return []byte("null"), nil
	}
	if err := t.Valid(); err != nil {
		return nil, err
	}

	var sb strings.Builder

	sb.WriteString(`{"tag":"`)
	sb.WriteString(t.Tag().String())
	sb.WriteString(`","value":`)

	if t.Tag().Constructed() {
		sb.WriteString("[")
		for s := t.ValueConstructed(); len(s) > 0; s = s.Next() {
			b, err := s.MarshalJSON()
			if err != nil {
				return nil, err
			}
			sb.Write(b)
			if len(s.Next()) > 0 {
				sb.WriteString(",")
			}
		}
		sb.WriteString("]")
	} else {
		switch t.Tag() {
		case TagNull:
			sb.WriteString("null")
		case TagBoolean:
			v, err := DecodeBool(t)
			if err != nil {
				return nil, err
			}
			sb.WriteString(strconv.FormatBool(v))
		default:
			b, err := json.Marshal(valueString(t))
			if err != nil {
				return nil, err
			}
			sb.Write(b)
		}
	}

	sb.WriteString("}")
	return []byte(sb.String()), nil
}

// Hex2bytes converts hex string to bytes.  Any non-hex characters in the string are stripped first.
// panics on error
func Hex2bytes(s string) []byte {
	// strip non hex bytes
	s = strings.Map(func(r rune) rune {
		switch {
		case r >= '0' && r <= '9':
		case r >= 'A' && r <= 'F':
		case r >= 'a' && r <= 'f':
		default:
			return -1 // drop
		}
		return r
	}, s)
	b, err := hex.DecodeString(s)
	if err != nil {
		panic(err)
	}
	return b
}
