// Package x509asn encodes and decodes X.509 and PKCS #7 objects to and from
// ASN.1 DER.
//
// Objects are selected by StructType, which determines both the Go type of
// the value and its ASN.1 structure:
//
// | StructType | Go type | ASN.1 |
// | ---------- | ------- | ----- |
// | StructExtensions | Extensions | SEQUENCE OF Extension |
// | StructName | NameInfo | Name |
// | StructPublicKeyInfo | PublicKeyInfo | SubjectPublicKeyInfo |
// | StructKeyUsage, StructBits | BitBlob | BIT STRING |
// | StructBasicConstraints2 | BasicConstraints2 | BasicConstraints |
// | StructUTCTime | FileTime | UTCTime |
// | StructGeneralizedTime | FileTime | GeneralizedTime |
// | StructChoiceOfTime | FileTime | UTCTime for 1950-2049, else GeneralizedTime |
// | StructOctetString | []byte | OCTET STRING |
// | StructInteger | int32 | INTEGER |
// | StructMultiByteInteger | IntegerBlob | INTEGER |
// | StructMultiByteUint | UintBlob | INTEGER, unsigned |
// | StructEnumerated | uint32 | ENUMERATED |
// | StructSequenceOfAny | SequenceOfAny | SEQUENCE OF ANY |
//
// Some object identifiers select a struct type too, see LookupStructType.
//
// Encoding
//
// EncodeObject returns the encoding in a new slice.  EncodeObjectTo follows the
// caller-buffer protocol instead: with a nil buffer it only reports the
// length, and with a short buffer it reports the length and fails with
// ErrMoreData.
//
// Decoding
//
// DecodeObject decodes the first element of its input.  Decoded values are
// self contained: all their slices and strings are carved out of one
// allocation per kind, sized by a measuring pass over the input, unless
// DecodeNoCopy makes them alias the input.  DecodedSize reports the size the
// measuring pass computed, and DecodeObjectTo fills a caller's value only if
// the caller's size allows it.
//
// Errors
//
// Errors are merry errors, which carry a stack, and the struct type of the
// object being encoded or decoded (see GetStructType).  Match them against the
// Err* sentinels with Is or errors.Is.
//
// Names
//
// NameInfo.String formats names as RFC 4514 strings, and ParseName parses them.
package x509asn
