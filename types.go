package x509asn

import (
	"math/big"
	"time"
)

// IntegerBlob is a signed integer of any size, stored little-endian in two's
// complement, least significant byte first.
type IntegerBlob []byte

// NewIntegerBlob returns the minimal blob for i.
func NewIntegerBlob(i *big.Int) IntegerBlob {
	switch i.Sign() {
	case 0:
		return IntegerBlob{0}
	case 1:
		b := i.Bytes()
		if b[0]&0x80 != 0 {
			b = append([]byte{0}, b...)
		}
		return IntegerBlob(reversed(b))
	}
	// two's complement of a negative value: invert the bits of |i| - 1
	n := new(big.Int).Neg(i)
	n.Sub(n, big.NewInt(1))
	b := n.Bytes()
	for j := range b {
		b[j] = ^b[j]
	}
	if len(b) == 0 || b[0]&0x80 == 0 {
		b = append([]byte{0xff}, b...)
	}
	return IntegerBlob(reversed(b))
}

// BigInt returns the value of the blob.  An empty blob is zero.
func (b IntegerBlob) BigInt() *big.Int {
	if len(b) == 0 {
		return new(big.Int)
	}
	be := reversed(b)
	i := new(big.Int).SetBytes(be)
	if be[0]&0x80 != 0 {
		// subtract 2^(8*len)
		i.Sub(i, new(big.Int).Lsh(big.NewInt(1), uint(len(be)*8)))
	}
	return i
}

// UintBlob is an unsigned integer of any size, stored little-endian, least
// significant byte first.
type UintBlob []byte

// NewUintBlob returns the minimal blob for i, which must not be negative.
func NewUintBlob(i *big.Int) UintBlob {
	if i.Sign() < 0 {
		panic("x509asn: negative value for unsigned blob")
	}
	if i.Sign() == 0 {
		return UintBlob{0}
	}
	return UintBlob(reversed(i.Bytes()))
}

func (b UintBlob) BigInt() *big.Int {
	return new(big.Int).SetBytes(reversed(b))
}

func reversed(b []byte) []byte {
	r := make([]byte, len(b))
	for i, c := range b {
		r[len(b)-1-i] = c
	}
	return r
}

// BitBlob is a BIT STRING.  UnusedBits counts the unused low order bits of the
// last byte of Data.
type BitBlob struct {
	Data       []byte
	UnusedBits uint32
}

// FileTime is a timestamp in 100 nanosecond ticks since 1601-01-01 00:00:00 UTC.
type FileTime uint64

// ticks from the FileTime epoch to the unix epoch
const fileTimeUnixDelta = 116444736000000000

var (
	minFileTime = time.Date(1601, 1, 1, 0, 0, 0, 0, time.UTC)
	maxFileTime = time.Date(30828, 9, 14, 2, 48, 5, 477580700, time.UTC)
)

// NewFileTime converts t to a FileTime.  Times FileTime can't represent fail
// with ErrBadEncode.
func NewFileTime(t time.Time) (FileTime, error) {
	if t.Before(minFileTime) || t.After(maxFileTime) {
		return 0, newError(ErrBadEncode, "time %v is outside the FileTime range", t)
	}
	return FileTime(t.Unix()*10000000 + int64(t.Nanosecond()/100) + fileTimeUnixDelta), nil
}

// Time returns the FileTime as a UTC time.Time.
func (ft FileTime) Time() time.Time {
	ticks := int64(ft) - fileTimeUnixDelta
	if ft > FileTime(1<<63-1) {
		return maxFileTime
	}
	sec := ticks / 10000000
	rem := ticks % 10000000
	if rem < 0 {
		sec--
		rem += 10000000
	}
	return time.Unix(sec, rem*100).UTC()
}

func (ft FileTime) String() string {
	return ft.Time().Format(time.RFC3339Nano)
}

// RDNValueType is the kind of string, or other value, held by an RDN attribute.
type RDNValueType uint32

const (
	// RDNAnyType is not a concrete type, and can't be encoded.
	RDNAnyType RDNValueType = 0
	// RDNEncodedBlob values hold a complete pre-encoded element, which is
	// copied as is.
	RDNEncodedBlob     RDNValueType = 1
	RDNOctetString     RDNValueType = 2
	RDNNumericString   RDNValueType = 3
	RDNPrintableString RDNValueType = 4
	RDNT61String       RDNValueType = 5
	RDNVideotexString  RDNValueType = 6
	RDNIA5String       RDNValueType = 7
	RDNGraphicString   RDNValueType = 8
	RDNVisibleString   RDNValueType = 9
	RDNGeneralString   RDNValueType = 10
	RDNUniversalString RDNValueType = 11
	RDNBMPString       RDNValueType = 12
	RDNUTF8String      RDNValueType = 13
)

// RDNAttr is a single attribute of a relative distinguished name.  Value
// holds the content bytes of the encoded string, in the character encoding
// of the string type, except for RDNEncodedBlob values which hold the whole
// element.  An empty ObjID encodes as an OID with no content.
type RDNAttr struct {
	ObjID     string
	ValueType RDNValueType
	Value     []byte
}

// RDN is a relative distinguished name: a set of attributes.
type RDN []RDNAttr

// NameInfo is an X.509 Name: a sequence of RDNs, most significant first.
type NameInfo struct {
	RDNs []RDN
}

// Extension is a certificate extension.  Value is the encoded extension value,
// which is not interpreted.
type Extension struct {
	ObjID    string
	Critical bool
	Value    []byte
}

type Extensions []Extension

// AlgorithmIdentifier names an algorithm.  Parameters holds the encoded
// parameters, if any.  Absent parameters encode as NULL.
type AlgorithmIdentifier struct {
	ObjID      string
	Parameters []byte
}

type PublicKeyInfo struct {
	Algorithm AlgorithmIdentifier
	PublicKey BitBlob
}

// SequenceOfAny is a SEQUENCE of pre-encoded elements.
type SequenceOfAny [][]byte

// BasicConstraints2 is the basic constraints extension value.  PathLen is
// only encoded if PathLenConstraint is set.
type BasicConstraints2 struct {
	CA                bool
	PathLenConstraint bool
	PathLen           uint32
}
