package x509asn

import (
	"fmt"
	"github.com/ansel1/merry"
	"github.com/gemalto/x509asn/der"
	"github.com/gemalto/x509asn/internal/asnutil"
	"reflect"
	"sort"
	"strconv"
	"strings"
	"unsafe"
)

// StructType selects the Go type of an object, and how it is encoded.
type StructType int

const (
	StructNone              StructType = 0
	StructExtensions        StructType = 5
	StructName              StructType = 7
	StructPublicKeyInfo     StructType = 8
	StructKeyUsage          StructType = 14
	StructBasicConstraints2 StructType = 15
	StructUTCTime           StructType = 17
	StructOctetString       StructType = 25
	StructBits              StructType = 26
	StructInteger           StructType = 27
	StructMultiByteInteger  StructType = 28
	StructEnumerated        StructType = 29
	StructChoiceOfTime      StructType = 30
	StructSequenceOfAny     StructType = 34
	StructMultiByteUint     StructType = 38
	StructGeneralizedTime   StructType = 0x1000
)

// codec binds a struct type to its Go type and its encode and decode functions.
//
// decode is called twice by the decode entry points: once with a measuring
// arena to size the result, then with a filling arena.
type codec struct {
	name   string
	typ    reflect.Type
	encode func(e *der.Encoder, v interface{}) error
	decode func(t der.TLV, a *arena) (interface{}, error)
}

// codecs is the closed set of supported struct types.
var codecs = map[StructType]*codec{
	StructExtensions:        {name: "X509_EXTENSIONS", typ: reflect.TypeOf(Extensions(nil)), encode: encodeExtensionsValue, decode: decodeExtensionsValue},
	StructName:              {name: "X509_NAME", typ: reflect.TypeOf(NameInfo{}), encode: encodeNameValue, decode: decodeNameValue},
	StructPublicKeyInfo:     {name: "X509_PUBLIC_KEY_INFO", typ: reflect.TypeOf(PublicKeyInfo{}), encode: encodePublicKeyInfoValue, decode: decodePublicKeyInfoValue},
	StructKeyUsage:          {name: "X509_KEY_USAGE", typ: reflect.TypeOf(BitBlob{}), encode: encodeBitsValue, decode: decodeBitsValue},
	StructBasicConstraints2: {name: "X509_BASIC_CONSTRAINTS2", typ: reflect.TypeOf(BasicConstraints2{}), encode: encodeBasicConstraints2Value, decode: decodeBasicConstraints2Value},
	StructUTCTime:           {name: "PKCS_UTC_TIME", typ: reflect.TypeOf(FileTime(0)), encode: encodeUTCTimeValue, decode: decodeUTCTimeValue},
	StructOctetString:       {name: "X509_OCTET_STRING", typ: reflect.TypeOf([]byte(nil)), encode: encodeOctetStringValue, decode: decodeOctetStringValue},
	StructBits:              {name: "X509_BITS", typ: reflect.TypeOf(BitBlob{}), encode: encodeBitsValue, decode: decodeBitsValue},
	StructInteger:           {name: "X509_INTEGER", typ: reflect.TypeOf(int32(0)), encode: encodeIntegerValue, decode: decodeIntegerValue},
	StructMultiByteInteger:  {name: "X509_MULTI_BYTE_INTEGER", typ: reflect.TypeOf(IntegerBlob(nil)), encode: encodeMultiByteIntegerValue, decode: decodeMultiByteIntegerValue},
	StructEnumerated:        {name: "X509_ENUMERATED", typ: reflect.TypeOf(uint32(0)), encode: encodeEnumeratedValue, decode: decodeEnumeratedValue},
	StructChoiceOfTime:      {name: "X509_CHOICE_OF_TIME", typ: reflect.TypeOf(FileTime(0)), encode: encodeChoiceOfTimeValue, decode: decodeChoiceOfTimeValue},
	StructSequenceOfAny:     {name: "X509_SEQUENCE_OF_ANY", typ: reflect.TypeOf(SequenceOfAny(nil)), encode: encodeSequenceOfAnyValue, decode: decodeSequenceOfAnyValue},
	StructMultiByteUint:     {name: "X509_MULTI_BYTE_UINT", typ: reflect.TypeOf(UintBlob(nil)), encode: encodeMultiByteUintValue, decode: decodeMultiByteUintValue},
	StructGeneralizedTime:   {name: "X509_GENERALIZED_TIME", typ: reflect.TypeOf(FileTime(0)), encode: encodeGeneralizedTimeValue, decode: decodeGeneralizedTimeValue},
}

// object identifiers which select a struct type
var _OIDToStructTypeMap = map[string]StructType{
	"1.3.6.1.4.1.311.2.1.14": StructExtensions,
	"1.2.840.113549.1.9.5":   StructUTCTime,
	"2.5.29.21":              StructEnumerated,
	"2.5.29.15":              StructKeyUsage,
	"2.5.29.14":              StructOctetString,
	"2.5.29.19":              StructBasicConstraints2,
}

// folded names, with and without the X509_/PKCS_ prefix
var _StructTypeNameToValueMap = map[string]StructType{}

func init() {
	for st, c := range codecs {
		name := asnutil.FoldName(c.name)
		_StructTypeNameToValueMap[name] = st
		for _, prefix := range []string{"x509", "pkcs"} {
			if strings.HasPrefix(name, prefix) {
				_StructTypeNameToValueMap[strings.TrimPrefix(name, prefix)] = st
			}
		}
	}
}

func lookupCodec(st StructType) (*codec, error) {
	c := codecs[st]
	if c == nil {
		return nil, WithStructType(newError(ErrUnknownStructType, "struct type %d", int(st)), st)
	}
	return c, nil
}

// LookupStructType returns the struct type an object identifier selects.
func LookupStructType(oid string) (StructType, bool) {
	st, ok := _OIDToStructTypeMap[oid]
	return st, ok
}

// ParseStructType parses a struct type name, like "X509_NAME", "Name" or
// "name", a number, or an object identifier which selects a struct type, like
// "2.5.29.19".
func ParseStructType(s string) (StructType, error) {
	if st, ok := LookupStructType(s); ok {
		return st, nil
	}
	if st, ok := _StructTypeNameToValueMap[asnutil.FoldName(s)]; ok {
		return st, nil
	}
	if u, err := asnutil.ParseUint32(s); err == nil {
		st := StructType(u)
		if _, ok := codecs[st]; ok {
			return st, nil
		}
	}
	return StructNone, merry.Here(ErrUnknownStructType).Appendf("invalid struct type %q", s)
}

// StructTypes returns all the supported struct types, in numeric order.
func StructTypes() []StructType {
	sts := make([]StructType, 0, len(codecs))
	for st := range codecs {
		sts = append(sts, st)
	}
	sort.Slice(sts, func(i, j int) bool {
		return sts[i] < sts[j]
	})
	return sts
}

func (st StructType) String() string {
	if c, ok := codecs[st]; ok {
		return c.name
	}
	return "StructType(" + strconv.Itoa(int(st)) + ")"
}

// GoType returns the Go type objects of this struct type decode to.
func (st StructType) GoType() reflect.Type {
	if c, ok := codecs[st]; ok {
		return c.typ
	}
	return nil
}

func (st StructType) MarshalText() (text []byte, err error) {
	return []byte(st.String()), nil
}

func (st *StructType) UnmarshalText(text []byte) (err error) {
	*st, err = ParseStructType(string(text))
	return
}

// sizes of the structs a decoded value is carved into
const (
	sizeOfRDNAttr   = int(unsafe.Sizeof(RDNAttr{}))
	sizeOfRDN       = int(unsafe.Sizeof(RDN(nil)))
	sizeOfExtension = int(unsafe.Sizeof(Extension{}))
	sizeOfBlob      = int(unsafe.Sizeof([]byte(nil)))
)

func (c *codec) fixedSize() int {
	return int(c.typ.Size())
}

func (c *codec) String() string {
	return fmt.Sprintf("%s (%v)", c.name, c.typ)
}
