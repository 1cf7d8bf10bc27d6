package x509asn

import (
	"github.com/ansel1/merry"
	"github.com/gemalto/x509asn/der"
	"math"
	"time"
)

// children checks the tag of a constructed element, and returns its content
// and the number of elements in it.  Every child header is validated, so
// callers can step through the content with Next.
func children(t der.TLV, tag der.Tag) (der.TLV, int, error) {
	content, err := der.DecodeString(t, tag)
	if err != nil {
		return nil, 0, err
	}
	n := 0
	for c := der.TLV(content); len(c) > 0; n++ {
		h, err := c.Header()
		if err != nil {
			return nil, 0, merry.Prependf(err, "element %d of %v", n, tag)
		}
		c = c[h.FullLen():]
	}
	return content, n, nil
}

// fieldCount checks the number of fields in a SEQUENCE.  Too few is a
// truncated value, too many is corrupt.
func fieldCount(what string, n, least, most int) error {
	switch {
	case n < least:
		return newError(ErrEndOfData, "%s has %d fields, expected at least %d", what, n, least)
	case n > most:
		return newError(ErrCorrupt, "%s has %d fields, expected at most %d", what, n, most)
	}
	return nil
}

func decodeIntegerValue(t der.TLV, _ *arena) (interface{}, error) {
	v, err := der.DecodeInt32(t)
	return v, err
}

func decodeEnumeratedValue(t der.TLV, _ *arena) (interface{}, error) {
	v, err := der.DecodeEnumerated(t)
	return v, err
}

func decodeMultiByteIntegerValue(t der.TLV, a *arena) (interface{}, error) {
	le, err := der.DecodeIntegerBlob(t)
	if err != nil {
		return IntegerBlob(nil), err
	}
	return IntegerBlob(a.ownBytes(le)), nil
}

func decodeMultiByteUintValue(t der.TLV, a *arena) (interface{}, error) {
	le, err := der.DecodeUintBlob(t)
	if err != nil {
		return UintBlob(nil), err
	}
	return UintBlob(a.ownBytes(le)), nil
}

func decodeOctetStringValue(t der.TLV, a *arena) (interface{}, error) {
	v, err := der.DecodeOctetString(t)
	if err != nil {
		return []byte(nil), err
	}
	return a.copyBytes(v), nil
}

func decodeBitsValue(t der.TLV, a *arena) (interface{}, error) {
	b, err := decodeBitBlob(t, a)
	return b, err
}

// decodeBitBlob masks the unused bits of the copy it makes.  With
// DecodeNoCopy, the data aliases the input as is.
func decodeBitBlob(t der.TLV, a *arena) (BitBlob, error) {
	data, unused, err := der.DecodeBitStringRaw(t)
	if err != nil {
		return BitBlob{}, err
	}
	if a.noCopy() {
		return BitBlob{Data: a.copyBytes(data), UnusedBits: unused}, nil
	}
	owned := a.ownBytes(data)
	if !a.measuring {
		der.MaskBits(owned, unused)
	}
	return BitBlob{Data: owned, UnusedBits: unused}, nil
}

func fileTimeOf(t time.Time, err error) (interface{}, error) {
	if err != nil {
		return FileTime(0), err
	}
	if t.Before(minFileTime) {
		return FileTime(0), newError(ErrTooLarge, "time %v is before 1601", t)
	}
	ft, err := NewFileTime(t)
	return ft, err
}

func decodeUTCTimeValue(t der.TLV, _ *arena) (interface{}, error) {
	return fileTimeOf(der.DecodeUTCTime(t))
}

func decodeGeneralizedTimeValue(t der.TLV, _ *arena) (interface{}, error) {
	return fileTimeOf(der.DecodeGeneralizedTime(t))
}

func decodeChoiceOfTimeValue(t der.TLV, _ *arena) (interface{}, error) {
	return fileTimeOf(der.DecodeTime(t))
}

func decodeNameValue(t der.TLV, a *arena) (interface{}, error) {
	name, err := decodeName(t, a)
	return name, err
}

func decodeName(t der.TLV, a *arena) (NameInfo, error) {
	content, n, err := children(t, der.TagSequence)
	if err != nil {
		return NameInfo{}, err
	}
	rdns := a.rdnList(n)
	i := 0
	for c := content; len(c) > 0; c = c.Next() {
		rdn, err := decodeRDN(c, a)
		if err != nil {
			return NameInfo{}, merry.Prependf(err, "rdn %d", i)
		}
		if rdns != nil {
			rdns[i] = rdn
		}
		i++
	}
	return NameInfo{RDNs: rdns}, nil
}

func decodeRDN(t der.TLV, a *arena) (RDN, error) {
	content, n, err := children(t, der.TagSet)
	if err != nil {
		return nil, err
	}
	attrs := a.rdnAttrs(n)
	i := 0
	for c := content; len(c) > 0; c = c.Next() {
		attr, err := decodeRDNAttr(c, a)
		if err != nil {
			return nil, merry.Prependf(err, "attribute %d", i)
		}
		if attrs != nil {
			attrs[i] = attr
		}
		i++
	}
	return attrs, nil
}

func decodeRDNAttr(t der.TLV, a *arena) (RDNAttr, error) {
	content, n, err := children(t, der.TagSequence)
	if err != nil {
		return RDNAttr{}, err
	}
	// an OID and a value need at least 4 bytes
	if len(content) < 4 {
		return RDNAttr{}, newError(ErrEndOfData, "attribute of %d bytes is truncated", len(content))
	}
	if err := fieldCount("attribute", n, 2, 2); err != nil {
		return RDNAttr{}, err
	}
	oid, err := a.oid(content)
	if err != nil {
		return RDNAttr{}, err
	}
	vt, value := decodeNameString(content.Next(), a)
	return RDNAttr{ObjID: oid, ValueType: vt, Value: value}, nil
}

// decodeNameString returns the content of known string types.  Any other
// element is kept whole, as an RDNEncodedBlob.
func decodeNameString(t der.TLV, a *arena) (RDNValueType, []byte) {
	vt, ok := _TagToRDNValueTypeMap[t.Tag()]
	if !ok {
		return RDNEncodedBlob, a.copyBytes(t.Element())
	}
	return vt, a.copyBytes(t.ValueRaw())
}

func decodeExtensionsValue(t der.TLV, a *arena) (interface{}, error) {
	content, n, err := children(t, der.TagSequence)
	if err != nil {
		return Extensions(nil), err
	}
	exts := a.extensions(n)
	i := 0
	for c := content; len(c) > 0; c = c.Next() {
		ext, err := decodeExtension(c, a)
		if err != nil {
			return Extensions(nil), merry.Prependf(err, "extension %d", i)
		}
		if exts != nil {
			exts[i] = ext
		}
		i++
	}
	return Extensions(exts), nil
}

func decodeExtension(t der.TLV, a *arena) (Extension, error) {
	content, n, err := children(t, der.TagSequence)
	if err != nil {
		return Extension{}, err
	}
	if err := fieldCount("extension", n, 2, 3); err != nil {
		return Extension{}, err
	}
	oid, err := a.oid(content)
	if err != nil {
		return Extension{}, err
	}
	c := content.Next()
	var critical bool
	if c.Tag() == der.TagBoolean {
		critical, err = der.DecodeBool(c)
		if err != nil {
			return Extension{}, err
		}
		c = c.Next()
	}
	value, err := der.DecodeOctetString(c)
	if err != nil {
		return Extension{}, err
	}
	if len(c.Next()) > 0 {
		return Extension{}, newError(ErrCorrupt, "unexpected %v after extension value", c.Next().Tag())
	}
	return Extension{ObjID: oid, Critical: critical, Value: a.copyBytes(value)}, nil
}

func decodePublicKeyInfoValue(t der.TLV, a *arena) (interface{}, error) {
	content, n, err := children(t, der.TagSequence)
	if err != nil {
		return PublicKeyInfo{}, err
	}
	if err := fieldCount("public key info", n, 2, 2); err != nil {
		return PublicKeyInfo{}, err
	}
	alg, err := decodeAlgorithmIdentifier(content, a)
	if err != nil {
		return PublicKeyInfo{}, merry.Prepend(err, "algorithm")
	}
	key, err := decodeBitBlob(content.Next(), a)
	if err != nil {
		return PublicKeyInfo{}, merry.Prepend(err, "public key")
	}
	return PublicKeyInfo{Algorithm: alg, PublicKey: key}, nil
}

// decodeAlgorithmIdentifier keeps the parameters encoded, including a NULL.
func decodeAlgorithmIdentifier(t der.TLV, a *arena) (AlgorithmIdentifier, error) {
	content, n, err := children(t, der.TagSequence)
	if err != nil {
		return AlgorithmIdentifier{}, err
	}
	if err := fieldCount("algorithm identifier", n, 1, 2); err != nil {
		return AlgorithmIdentifier{}, err
	}
	oid, err := a.oid(content)
	if err != nil {
		return AlgorithmIdentifier{}, err
	}
	return AlgorithmIdentifier{ObjID: oid, Parameters: a.copyBytes(content.Next())}, nil
}

// decodeSequenceOfAnyValue keeps each element whole, header included.
func decodeSequenceOfAnyValue(t der.TLV, a *arena) (interface{}, error) {
	content, n, err := children(t, der.TagSequence)
	if err != nil {
		return SequenceOfAny(nil), err
	}
	elems := a.blobs(n)
	i := 0
	for c := content; len(c) > 0; c = c.Next() {
		el := a.copyBytes(c.Element())
		if elems != nil {
			elems[i] = el
		}
		i++
	}
	return SequenceOfAny(elems), nil
}

// a BOOLEAN and a 32 bit INTEGER fit in 10 bytes
const maxBasicConstraintsLen = 10

func decodeBasicConstraints2Value(t der.TLV, _ *arena) (interface{}, error) {
	content, _, err := children(t, der.TagSequence)
	if err != nil {
		return BasicConstraints2{}, err
	}
	if len(content) > maxBasicConstraintsLen {
		return BasicConstraints2{}, newError(ErrCorrupt, "basic constraints content of %d bytes is too long", len(content))
	}
	var info BasicConstraints2
	c := content
	if c.Tag() == der.TagBoolean {
		info.CA, err = der.DecodeBool(c)
		if err != nil {
			return BasicConstraints2{}, err
		}
		c = c.Next()
	}
	if c.Tag() == der.TagInteger {
		info.PathLen, err = decodePathLen(c)
		if err != nil {
			return BasicConstraints2{}, err
		}
		info.PathLenConstraint = true
		c = c.Next()
	}
	if len(c) > 0 {
		return BasicConstraints2{}, newError(ErrCorrupt, "unexpected %v in basic constraints", c.Tag())
	}
	return info, nil
}

func decodePathLen(t der.TLV) (uint32, error) {
	i, err := der.DecodeBigInt(t)
	if err != nil {
		return 0, err
	}
	switch {
	case i.Sign() < 0:
		return 0, newError(ErrCorrupt, "negative path length %v", i)
	case !i.IsUint64() || i.Uint64() > math.MaxUint32:
		return 0, newError(ErrTooLarge, "path length %v does not fit in 32 bits", i)
	}
	return uint32(i.Uint64()), nil
}
