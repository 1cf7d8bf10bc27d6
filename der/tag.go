package der

import (
	"encoding/hex"
	"fmt"
	"github.com/ansel1/merry"
	"github.com/gemalto/x509asn/internal/asnutil"
	"strings"
)

// Tag is a single byte ASN.1 identifier octet: class, constructed bit, and tag number.
type Tag byte

const (
	TagNone            Tag = 0x00
	TagBoolean         Tag = 0x01
	TagInteger         Tag = 0x02
	TagBitString       Tag = 0x03
	TagOctetString     Tag = 0x04
	TagNull            Tag = 0x05
	TagOID             Tag = 0x06
	TagEnumerated      Tag = 0x0a
	TagUTF8String      Tag = 0x0c
	TagNumericString   Tag = 0x12
	TagPrintableString Tag = 0x13
	TagT61String       Tag = 0x14
	TagVideotexString  Tag = 0x15
	TagIA5String       Tag = 0x16
	TagUTCTime         Tag = 0x17
	TagGeneralizedTime Tag = 0x18
	TagGraphicString   Tag = 0x19
	TagVisibleString   Tag = 0x1a
	TagGeneralString   Tag = 0x1b
	TagUniversalString Tag = 0x1c
	TagBMPString       Tag = 0x1e
	TagSequence        Tag = 0x30
	TagSet             Tag = 0x31
)

const (
	ClassUniversal       byte = 0x00
	ClassApplication     byte = 0x40
	ClassContextSpecific byte = 0x80
	ClassPrivate         byte = 0xc0

	constructedBit byte = 0x20
	tagNumberMask  byte = 0x1f
)

func init() {
	RegisterTag(TagBoolean, "Boolean")
	RegisterTag(TagInteger, "Integer")
	RegisterTag(TagBitString, "Bit String")
	RegisterTag(TagOctetString, "Octet String")
	RegisterTag(TagNull, "Null")
	RegisterTag(TagOID, "Object Identifier")
	RegisterTag(TagEnumerated, "Enumerated")
	RegisterTag(TagUTF8String, "UTF8 String")
	RegisterTag(TagNumericString, "Numeric String")
	RegisterTag(TagPrintableString, "Printable String")
	RegisterTag(TagT61String, "T61 String")
	RegisterTag(TagVideotexString, "Videotex String")
	RegisterTag(TagIA5String, "IA5 String")
	RegisterTag(TagUTCTime, "UTC Time")
	RegisterTag(TagGeneralizedTime, "Generalized Time")
	RegisterTag(TagGraphicString, "Graphic String")
	RegisterTag(TagVisibleString, "Visible String")
	RegisterTag(TagGeneralString, "General String")
	RegisterTag(TagUniversalString, "Universal String")
	RegisterTag(TagBMPString, "BMP String")
	RegisterTag(TagSequence, "Sequence")
	RegisterTag(TagSet, "Set")
}

// RegisterTag adds a name for a tag.  The name is normalized, so "Octet String"
// is registered, printed and parsed as "OctetString".
func RegisterTag(tag Tag, name string) {
	_TagValueToFullNameMap[tag] = name
	name = asnutil.NormalizeName(name)
	_TagNameToValueMap[name] = tag
	_TagValueToNameMap[tag] = name
}

// ParseTag parses a tag from a registered name, or a one byte hex string prefixed with "0x".
// returns error if s is a malformed hex string, or an unknown name.
func ParseTag(s string) (Tag, error) {
	if strings.HasPrefix(s, "0x") {
		b, err := hex.DecodeString(s[2:])
		if err != nil {
			return TagNone, merry.Prepend(err, "invalid hex string, should be 0x[a-fA-F0-9][a-fA-F0-9]")
		}
		if len(b) != 1 {
			return TagNone, merry.Errorf("invalid byte length for tag, should be 1 byte: %s", s)
		}
		return Tag(b[0]), nil
	}
	if v, ok := _TagNameToValueMap[asnutil.NormalizeName(s)]; ok {
		return v, nil
	}
	return TagNone, merry.Errorf("invalid tag \"%s\"", s)
}

// ContextTag returns the context specific tag with number n.
func ContextTag(n int, constructed bool) Tag {
	t := ClassContextSpecific | byte(n)&tagNumberMask
	if constructed {
		t |= constructedBit
	}
	return Tag(t)
}

func (t Tag) Class() byte {
	return byte(t) & 0xc0
}

func (t Tag) Constructed() bool {
	return byte(t)&constructedBit != 0
}

func (t Tag) Number() int {
	return int(byte(t) & tagNumberMask)
}

func (t Tag) String() string {
	if s, ok := _TagValueToNameMap[t]; ok {
		return s
	}
	if t.Class() == ClassContextSpecific {
		return fmt.Sprintf("[%d]", t.Number())
	}
	return fmt.Sprintf("%#04x", byte(t))
}

func (t Tag) FullName() string {
	if s, ok := _TagValueToFullNameMap[t]; ok {
		return s
	}
	return t.String()
}

func (t Tag) MarshalText() (text []byte, err error) {
	return []byte(t.String()), nil
}

func (t *Tag) UnmarshalText(text []byte) (err error) {
	*t, err = ParseTag(string(text))
	return
}

var _TagValueToFullNameMap = map[Tag]string{}
var _TagValueToNameMap = map[Tag]string{}
var _TagNameToValueMap = map[string]Tag{}
