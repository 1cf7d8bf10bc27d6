package x509asn

import (
	"encoding/hex"
	"github.com/ansel1/merry"
	"github.com/gemalto/x509asn/der"
	ldap "github.com/go-ldap/ldap/v3"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/encoding/unicode/utf32"
	"strconv"
	"strings"
)

var _RDNValueTypeToTagMap = map[RDNValueType]der.Tag{
	RDNOctetString:     der.TagOctetString,
	RDNNumericString:   der.TagNumericString,
	RDNPrintableString: der.TagPrintableString,
	RDNT61String:       der.TagT61String,
	RDNVideotexString:  der.TagVideotexString,
	RDNIA5String:       der.TagIA5String,
	RDNGraphicString:   der.TagGraphicString,
	RDNVisibleString:   der.TagVisibleString,
	RDNGeneralString:   der.TagGeneralString,
	RDNUniversalString: der.TagUniversalString,
	RDNBMPString:       der.TagBMPString,
	RDNUTF8String:      der.TagUTF8String,
}

var _TagToRDNValueTypeMap = map[der.Tag]RDNValueType{}

func init() {
	for vt, tag := range _RDNValueTypeToTagMap {
		_TagToRDNValueTypeMap[tag] = vt
	}
}

var _RDNValueTypeNames = map[RDNValueType]string{
	RDNAnyType:         "Any",
	RDNEncodedBlob:     "EncodedBlob",
	RDNOctetString:     "OctetString",
	RDNNumericString:   "NumericString",
	RDNPrintableString: "PrintableString",
	RDNT61String:       "T61String",
	RDNVideotexString:  "VideotexString",
	RDNIA5String:       "IA5String",
	RDNGraphicString:   "GraphicString",
	RDNVisibleString:   "VisibleString",
	RDNGeneralString:   "GeneralString",
	RDNUniversalString: "UniversalString",
	RDNBMPString:       "BMPString",
	RDNUTF8String:      "UTF8String",
}

func (vt RDNValueType) String() string {
	if s, ok := _RDNValueTypeNames[vt]; ok {
		return s
	}
	return "RDNValueType(" + strconv.FormatUint(uint64(vt), 10) + ")"
}

var (
	bmpEncoding       = unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM)
	universalEncoding = utf32.UTF32(utf32.BigEndian, utf32.IgnoreBOM)
)

// textEncoding returns the character encoding of the string types which
// aren't UTF-8 compatible.  T61 is treated as Latin-1.
func textEncoding(vt RDNValueType) encoding.Encoding {
	switch vt {
	case RDNT61String:
		return charmap.ISO8859_1
	case RDNBMPString:
		return bmpEncoding
	case RDNUniversalString:
		return universalEncoding
	}
	return nil
}

func isPrintable(c rune) bool {
	switch {
	case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
		return true
	}
	return strings.ContainsRune(" '()+,-./:=?", c)
}

func checkChars(s string, vt RDNValueType, ok func(rune) bool) error {
	for i, c := range s {
		if !ok(c) {
			return newError(ErrBadEncode, "%q at offset %d is not allowed in a %v", c, i, vt)
		}
	}
	return nil
}

// NewRDNAttr converts s to a value of type vt.  Characters vt can't hold fail
// with ErrBadEncode.  Only string types are accepted.
func NewRDNAttr(oid string, vt RDNValueType, s string) (RDNAttr, error) {
	var err error
	switch vt {
	case RDNAnyType, RDNEncodedBlob, RDNOctetString:
		return RDNAttr{}, newError(ErrInvalidParameter, "%v is not a string type", vt)
	case RDNPrintableString:
		err = checkChars(s, vt, isPrintable)
	case RDNNumericString:
		err = checkChars(s, vt, func(c rune) bool {
			return c == ' ' || c >= '0' && c <= '9'
		})
	case RDNIA5String:
		err = checkChars(s, vt, func(c rune) bool {
			return c < 0x80
		})
	case RDNBMPString:
		err = checkChars(s, vt, func(c rune) bool {
			return c <= 0xffff
		})
	}
	if err != nil {
		return RDNAttr{}, err
	}
	if _, ok := _RDNValueTypeToTagMap[vt]; !ok {
		return RDNAttr{}, newError(ErrInvalidParameter, "unknown attribute value type %d", uint32(vt))
	}

	value := []byte(s)
	if enc := textEncoding(vt); enc != nil {
		value, err = enc.NewEncoder().Bytes(value)
		if err != nil {
			return RDNAttr{}, merry.Here(ErrBadEncode).Appendf("%q can't be held in a %v: %v", s, vt, err)
		}
	}
	return RDNAttr{ObjID: oid, ValueType: vt, Value: value}, nil
}

// Text returns the value as a UTF-8 string.  Values which aren't strings fail
// with ErrBadEncode.
func (attr RDNAttr) Text() (string, error) {
	switch attr.ValueType {
	case RDNAnyType, RDNEncodedBlob, RDNOctetString:
		return "", newError(ErrBadEncode, "%v is not a string type", attr.ValueType)
	}
	enc := textEncoding(attr.ValueType)
	if enc == nil {
		return string(attr.Value), nil
	}
	b, err := enc.NewDecoder().Bytes(attr.Value)
	if err != nil {
		return "", merry.Here(ErrCorrupt).Appendf("invalid %v: %v", attr.ValueType, err)
	}
	return string(b), nil
}

// String formats the attribute as in RFC 4514, like "CN=Juan Lang".  Values
// which aren't strings are printed as '#' and the hex of their encoding.
func (attr RDNAttr) String() string {
	s, err := attr.Text()
	if err != nil {
		return attributeTypeString(attr.ObjID) + "=#" + hex.EncodeToString(attr.encodedValue())
	}
	return attributeTypeString(attr.ObjID) + "=" + escapeValue(s)
}

func (attr RDNAttr) encodedValue() []byte {
	if attr.ValueType == RDNEncodedBlob {
		return attr.Value
	}
	tag, ok := _RDNValueTypeToTagMap[attr.ValueType]
	if !ok {
		return nil
	}
	return der.AppendString(nil, tag, attr.Value)
}

func escapeValue(s string) string {
	var sb strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == 0:
			sb.WriteString(`\00`)
			continue
		case strings.IndexByte(`,+"\<>;`, c) >= 0,
			i == 0 && (c == '#' || c == ' '),
			i == len(s)-1 && c == ' ':
			sb.WriteByte('\\')
		}
		sb.WriteByte(c)
	}
	return sb.String()
}

// String formats the name as in RFC 4514: least significant RDN first,
// separated by ',', with the attributes of multi-valued RDNs joined by '+'.
func (n NameInfo) String() string {
	var sb strings.Builder
	for i := len(n.RDNs) - 1; i >= 0; i-- {
		if i != len(n.RDNs)-1 {
			sb.WriteByte(',')
		}
		for j, attr := range n.RDNs[i] {
			if j > 0 {
				sb.WriteByte('+')
			}
			sb.WriteString(attr.String())
		}
	}
	return sb.String()
}

// ParseName parses an RFC 4514 name string, like "CN=Juan Lang,O=Example".
// Attribute types may be short names, descriptive names, or dotted OIDs.
// Values become PrintableStrings if they can, and UTF8Strings otherwise,
// except email addresses and domain components, which are IA5Strings.
func ParseName(s string) (NameInfo, error) {
	dn, err := ldap.ParseDN(s)
	if err != nil {
		return NameInfo{}, merry.Here(ErrInvalidParameter).Appendf("invalid name %q: %v", s, err)
	}
	var name NameInfo
	if len(dn.RDNs) > 0 {
		name.RDNs = make([]RDN, len(dn.RDNs))
	}
	for i, r := range dn.RDNs {
		rdn := make(RDN, len(r.Attributes))
		for j, at := range r.Attributes {
			oid, err := ParseAttributeType(at.Type)
			if err != nil {
				return NameInfo{}, err
			}
			rdn[j], err = NewRDNAttr(oid, defaultValueType(oid, at.Value), at.Value)
			if err != nil {
				return NameInfo{}, merry.Prependf(err, "attribute %s", at.Type)
			}
		}
		name.RDNs[len(dn.RDNs)-1-i] = rdn
	}
	return name, nil
}

const (
	oidEmailAddress    = "1.2.840.113549.1.9.1"
	oidDomainComponent = "0.9.2342.19200300.100.1.25"
)

func defaultValueType(oid, value string) RDNValueType {
	switch {
	case oid == oidEmailAddress, oid == oidDomainComponent:
		return RDNIA5String
	case checkChars(value, RDNPrintableString, isPrintable) == nil:
		return RDNPrintableString
	}
	return RDNUTF8String
}
