package x509asn

import (
	"github.com/ansel1/merry"
	"github.com/gemalto/x509asn/der"
	"math"
	"math/big"
	"reflect"
	"time"
)

// derefValue dereferences a pointer to the value to encode.  A nil value, or a
// nil pointer, is a programming error, and panics with ErrNilValue.
func derefValue(v interface{}) interface{} {
	if v == nil {
		panic(ErrNilValue)
	}
	if bi, ok := v.(*big.Int); ok {
		if bi == nil {
			panic(ErrNilValue)
		}
		return bi
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Ptr {
		if rv.IsNil() {
			panic(ErrNilValue)
		}
		return rv.Elem().Interface()
	}
	return v
}

func invalidType(v interface{}) error {
	return merry.WrapSkipping(ErrInvalidParameter, 1).Appendf("can't encode value of type %T", v)
}

func encodeIntegerValue(e *der.Encoder, v interface{}) error {
	switch t := v.(type) {
	case int32:
		e.EncodeInt(t)
	case int:
		if t < math.MinInt32 || t > math.MaxInt32 {
			return newError(ErrBadEncode, "%d overflows a 32 bit integer", t)
		}
		e.EncodeInt(int32(t))
	default:
		return invalidType(v)
	}
	return nil
}

func encodeMultiByteIntegerValue(e *der.Encoder, v interface{}) error {
	switch t := v.(type) {
	case IntegerBlob:
		e.EncodeIntegerBlob(t)
	case []byte:
		e.EncodeIntegerBlob(t)
	case *big.Int:
		e.EncodeBigInt(t)
	default:
		return invalidType(v)
	}
	return nil
}

func encodeMultiByteUintValue(e *der.Encoder, v interface{}) error {
	switch t := v.(type) {
	case UintBlob:
		e.EncodeUintBlob(t)
	case []byte:
		e.EncodeUintBlob(t)
	case *big.Int:
		if t.Sign() < 0 {
			return newError(ErrBadEncode, "negative value %v for an unsigned integer", t)
		}
		e.EncodeBigInt(t)
	default:
		return invalidType(v)
	}
	return nil
}

func encodeEnumeratedValue(e *der.Encoder, v interface{}) error {
	t, ok := v.(uint32)
	if !ok {
		return invalidType(v)
	}
	e.EncodeEnumerated(t)
	return nil
}

func encodeOctetStringValue(e *der.Encoder, v interface{}) error {
	t, ok := v.([]byte)
	if !ok {
		return invalidType(v)
	}
	e.EncodeOctetString(t)
	return nil
}

func encodeBitsValue(e *der.Encoder, v interface{}) error {
	t, ok := v.(BitBlob)
	if !ok {
		return invalidType(v)
	}
	e.EncodeBitString(t.Data, t.UnusedBits)
	return nil
}

func timeOf(v interface{}) (time.Time, error) {
	switch t := v.(type) {
	case FileTime:
		return t.Time(), nil
	case time.Time:
		return t, nil
	}
	return time.Time{}, invalidType(v)
}

func encodeUTCTimeValue(e *der.Encoder, v interface{}) error {
	t, err := timeOf(v)
	if err != nil {
		return err
	}
	return e.EncodeUTCTime(t)
}

func encodeGeneralizedTimeValue(e *der.Encoder, v interface{}) error {
	t, err := timeOf(v)
	if err != nil {
		return err
	}
	return e.EncodeGeneralizedTime(t)
}

func encodeChoiceOfTimeValue(e *der.Encoder, v interface{}) error {
	t, err := timeOf(v)
	if err != nil {
		return err
	}
	return e.EncodeTime(t)
}

func encodeNameValue(e *der.Encoder, v interface{}) error {
	t, ok := v.(NameInfo)
	if !ok {
		return invalidType(v)
	}
	return encodeName(e, &t)
}

func encodeName(e *der.Encoder, name *NameInfo) error {
	return e.EncodeSequence(func(e *der.Encoder) error {
		for i, rdn := range name.RDNs {
			if err := encodeRDN(e, rdn); err != nil {
				return merry.Prependf(err, "rdn %d", i)
			}
		}
		return nil
	})
}

// encodeRDN writes the attributes as a SET OF, which the encoder sorts.
func encodeRDN(e *der.Encoder, rdn RDN) error {
	return e.EncodeSet(func(e *der.Encoder) error {
		for i := range rdn {
			if err := encodeRDNAttr(e, &rdn[i]); err != nil {
				return merry.Prependf(err, "attribute %d", i)
			}
		}
		return nil
	})
}

func encodeRDNAttr(e *der.Encoder, attr *RDNAttr) error {
	return e.EncodeSequence(func(e *der.Encoder) error {
		if err := e.EncodeOID(attr.ObjID); err != nil {
			return err
		}
		return encodeNameString(e, attr.ValueType, attr.Value)
	})
}

func encodeNameString(e *der.Encoder, vt RDNValueType, value []byte) error {
	switch vt {
	case RDNAnyType:
		return newError(ErrInvalidParameter, "attribute value type must not be %v", vt)
	case RDNEncodedBlob:
		h, err := der.DecodeHeader(value)
		if err != nil || h.FullLen() != len(value) {
			return newError(ErrInvalidParameter, "encoded blob value must be a single element: %x", value)
		}
		e.EncodeTLV(value)
		return nil
	}
	tag, ok := _RDNValueTypeToTagMap[vt]
	if !ok {
		return newError(ErrInvalidParameter, "unknown attribute value type %d", uint32(vt))
	}
	e.EncodeString(tag, value)
	return nil
}

func encodeExtensionsValue(e *der.Encoder, v interface{}) error {
	var exts Extensions
	switch t := v.(type) {
	case Extensions:
		exts = t
	case []Extension:
		exts = t
	default:
		return invalidType(v)
	}
	return e.EncodeSequence(func(e *der.Encoder) error {
		for i := range exts {
			if err := encodeExtension(e, &exts[i]); err != nil {
				return merry.Prependf(err, "extension %d", i)
			}
		}
		return nil
	})
}

func encodeExtension(e *der.Encoder, ext *Extension) error {
	return e.EncodeSequence(func(e *der.Encoder) error {
		if err := e.EncodeOID(ext.ObjID); err != nil {
			return err
		}
		// DEFAULT FALSE
		if ext.Critical {
			e.EncodeBool(true)
		}
		e.EncodeOctetString(ext.Value)
		return nil
	})
}

func encodePublicKeyInfoValue(e *der.Encoder, v interface{}) error {
	info, ok := v.(PublicKeyInfo)
	if !ok {
		return invalidType(v)
	}
	return e.EncodeSequence(func(e *der.Encoder) error {
		if err := encodeAlgorithmIdentifier(e, &info.Algorithm); err != nil {
			return err
		}
		e.EncodeBitString(info.PublicKey.Data, info.PublicKey.UnusedBits)
		return nil
	})
}

func encodeAlgorithmIdentifier(e *der.Encoder, alg *AlgorithmIdentifier) error {
	return e.EncodeSequence(func(e *der.Encoder) error {
		if err := e.EncodeOID(alg.ObjID); err != nil {
			return err
		}
		if len(alg.Parameters) == 0 {
			e.EncodeNull()
		} else {
			e.EncodeTLV(alg.Parameters)
		}
		return nil
	})
}

func encodeSequenceOfAnyValue(e *der.Encoder, v interface{}) error {
	var seq SequenceOfAny
	switch t := v.(type) {
	case SequenceOfAny:
		seq = t
	case [][]byte:
		seq = t
	default:
		return invalidType(v)
	}
	return e.EncodeSequence(func(e *der.Encoder) error {
		for _, el := range seq {
			e.EncodeTLV(el)
		}
		return nil
	})
}

func encodeBasicConstraints2Value(e *der.Encoder, v interface{}) error {
	info, ok := v.(BasicConstraints2)
	if !ok {
		return invalidType(v)
	}
	return e.EncodeSequence(func(e *der.Encoder) error {
		if info.CA {
			e.EncodeBool(true)
		}
		if info.PathLenConstraint {
			e.EncodeBigInt(new(big.Int).SetUint64(uint64(info.PathLen)))
		}
		return nil
	})
}
