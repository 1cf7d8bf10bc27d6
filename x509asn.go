package x509asn

import (
	"github.com/gemalto/flume"
	"github.com/gemalto/x509asn/der"
	"reflect"
)

var log = flume.New("x509asn")

// EncodingType selects the wire dialect.  It combines a certificate encoding
// type, in the low 16 bits, with a message encoding type, in the high 16
// bits.  Both dialects are ASN.1 DER.
type EncodingType uint32

const (
	X509ASNEncoding  EncodingType = 0x00000001
	PKCS7ASNEncoding EncodingType = 0x00010000

	certEncodingTypeMask EncodingType = 0x0000ffff
	msgEncodingTypeMask  EncodingType = 0xffff0000
)

func (et EncodingType) valid() bool {
	return et&certEncodingTypeMask == X509ASNEncoding || et&msgEncodingTypeMask == PKCS7ASNEncoding
}

type EncodeFlags uint32

// EncodeAlloc makes EncodeObjectEx return the encoding in a new slice,
// instead of copying it to the caller's buffer.
const EncodeAlloc EncodeFlags = 0x8000

type DecodeFlags uint32

const (
	// DecodeNoCopy makes byte slices in the decoded value alias the input,
	// which must then outlive the value.
	DecodeNoCopy DecodeFlags = 0x1
	// DecodeShareOIDString returns well known OIDs as shared constant
	// strings, instead of copies.
	DecodeShareOIDString DecodeFlags = 0x4
	// DecodeAlloc makes DecodeObjectTo store a pointer to a newly allocated
	// value, instead of filling in the caller's value.
	DecodeAlloc DecodeFlags = 0x8000
)

func checkEncodingType(encType EncodingType, st StructType) error {
	if !encType.valid() {
		return WithStructType(newError(ErrUnknownEncodingType, "encoding type %#x", uint32(encType)), st)
	}
	return nil
}

// EncodeObject returns the DER encoding of v as struct type st.
//
// Each struct type accepts its own Go type (see StructType.GoType), or a
// pointer to it, and a few alternatives:
//
//	StructInteger           int32, int
//	StructMultiByteInteger  IntegerBlob, []byte, *big.Int
//	StructMultiByteUint     UintBlob, []byte, *big.Int
//	StructUTCTime, StructGeneralizedTime, StructChoiceOfTime
//	                        FileTime, time.Time
//	StructExtensions        Extensions, []Extension
//	StructSequenceOfAny     SequenceOfAny, [][]byte
//
// Other types fail with ErrInvalidParameter.  A nil v, or a nil pointer,
// panics with ErrNilValue.
func EncodeObject(encType EncodingType, st StructType, v interface{}) ([]byte, error) {
	_, b, err := EncodeObjectEx(encType, st, v, EncodeAlloc, nil)
	return b, err
}

// EncodeObjectTo encodes v into dst, and returns the length of the encoding.
// If dst is nil, it only returns the length.  If dst is too small, it returns
// the length and ErrMoreData.
func EncodeObjectTo(encType EncodingType, st StructType, v interface{}, dst []byte) (int, error) {
	n, _, err := EncodeObjectEx(encType, st, v, 0, dst)
	return n, err
}

// EncodeObjectEx is EncodeObjectTo with flags.  With EncodeAlloc, dst is
// ignored, and the encoding is returned in a new slice.  Otherwise the
// returned slice is the filled part of dst.
func EncodeObjectEx(encType EncodingType, st StructType, v interface{}, flags EncodeFlags, dst []byte) (int, []byte, error) {
	b, err := encode(encType, st, v)
	if err != nil {
		return 0, nil, err
	}
	switch {
	case flags&EncodeAlloc != 0:
		return len(b), b, nil
	case dst == nil:
		return len(b), nil, nil
	case len(dst) < len(b):
		return len(b), nil, WithStructType(newError(ErrMoreData, "encoding needs %d bytes, buffer has %d", len(b), len(dst)), st)
	}
	n := copy(dst, b)
	return n, dst[:n], nil
}

func encode(encType EncodingType, st StructType, v interface{}) ([]byte, error) {
	if err := checkEncodingType(encType, st); err != nil {
		return nil, err
	}
	c, err := lookupCodec(st)
	if err != nil {
		return nil, err
	}
	v = derefValue(v)

	var e der.Encoder
	if err := c.encode(&e, v); err != nil {
		log.Debug("encode failed", "structType", c.name, "err", err)
		return nil, WithStructType(err, st)
	}
	b := e.Bytes()
	log.Debug("encoded", "structType", c.name, "len", len(b))
	return b, nil
}

// DecodeObject decodes the first element of data as struct type st, and
// returns a new value of the type StructType.GoType reports.  Bytes after the
// first element are ignored.
//
// Byte slices in the value are copies, unless flags has DecodeNoCopy.  All
// the slices and strings of a value share a single allocation per kind.
func DecodeObject(encType EncodingType, st StructType, data []byte, flags DecodeFlags) (interface{}, error) {
	c, a, err := measure(encType, st, data, flags)
	if err != nil {
		return nil, err
	}
	return fill(c, a, st, data)
}

// DecodedSize returns the number of bytes a decoded value occupies: the size
// of its Go type, plus everything it points to which isn't shared with data.
func DecodedSize(encType EncodingType, st StructType, data []byte, flags DecodeFlags) (int, error) {
	c, a, err := measure(encType, st, data, flags)
	if err != nil {
		return 0, err
	}
	return a.size(c.fixedSize()), nil
}

// DecodeObjectTo decodes into out, following the caller-buffer protocol
// DecodedSize measures for.
//
// out must be a pointer to the struct type's Go type, or with DecodeAlloc, a
// pointer to a pointer to it, which is set to a new value.  If size isn't nil,
// it is set to the decoded size.  If out is nil, only the size is computed.
// Without DecodeAlloc, if *size is smaller than the decoded size, DecodeObjectTo
// fails with ErrMoreData, and leaves out untouched.
func DecodeObjectTo(encType EncodingType, st StructType, data []byte, flags DecodeFlags, out interface{}, size *int) error {
	if err := checkEncodingType(encType, st); err != nil {
		return err
	}
	if out == nil && size == nil {
		return WithStructType(newError(ErrInvalidParameter, "out and size are both nil"), st)
	}
	c, a, err := measure(encType, st, data, flags)
	if err != nil {
		return err
	}
	need := a.size(c.fixedSize())

	if out == nil {
		*size = need
		return nil
	}

	rv := reflect.ValueOf(out)
	want := reflect.PtrTo(c.typ)
	if flags&DecodeAlloc != 0 {
		want = reflect.PtrTo(want)
	}
	if rv.Type() != want {
		return WithStructType(newError(ErrInvalidParameter, "out must be %v, not %T", want, out), st)
	}
	if rv.IsNil() {
		panic(ErrNilValue)
	}

	if flags&DecodeAlloc == 0 && size != nil && *size < need {
		avail := *size
		*size = need
		return WithStructType(newError(ErrMoreData, "decoded value needs %d bytes, buffer has %d", need, avail), st)
	}
	if size != nil {
		*size = need
	}

	v, err := fill(c, a, st, data)
	if err != nil {
		return err
	}
	if flags&DecodeAlloc != 0 {
		p := reflect.New(c.typ)
		p.Elem().Set(reflect.ValueOf(v))
		rv.Elem().Set(p)
	} else {
		rv.Elem().Set(reflect.ValueOf(v))
	}
	return nil
}

// measure runs the decoder once without building anything, to validate data
// and count what the value needs.
func measure(encType EncodingType, st StructType, data []byte, flags DecodeFlags) (*codec, *arena, error) {
	if err := checkEncodingType(encType, st); err != nil {
		return nil, nil, err
	}
	c, err := lookupCodec(st)
	if err != nil {
		return nil, nil, err
	}
	a := newArena(flags)
	if _, err := c.decode(der.TLV(data), a); err != nil {
		log.Debug("decode failed", "structType", c.name, "err", err)
		return nil, nil, WithStructType(err, st)
	}
	return c, a, nil
}

func fill(c *codec, a *arena, st StructType, data []byte) (interface{}, error) {
	v, err := c.decode(der.TLV(data), a.filling())
	if err != nil {
		// the measuring pass already accepted data
		return nil, WithStructType(err, st)
	}
	log.Debug("decoded", "structType", c.name, "size", a.size(c.fixedSize()))
	return v, nil
}
