// Package der encodes and decodes the ASN.1 BER/DER wire format used by X.509 data.
//
// The core representation of an encoded element is the der.TLV type, which is
// a []byte holding a single tag-length-value element.  The der.TLV methods read
// the header and content of the element without copying, and der.Print renders
// an element tree in a human readable form.
//
// Only single byte tags are supported (tag numbers 0-30), which covers every
// universal type X.509 uses.  Lengths may use the short or the long form.  When
// decoding, a length is bounded by a ceiling (DefaultMaxLength unless configured
// otherwise), which keeps a hostile length field from driving a huge allocation.
//
// Encoding
//
// The Encoder writes DER.  Constructed values (SEQUENCE, SET) are written by
// passing a function to EncodeConstructed; the encoder reserves a single length
// byte, and widens it to the long form once the content length is known.
//
//     var e der.Encoder
//     e.EncodeConstructed(der.TagSequence, func(e *der.Encoder) error {
//         e.EncodeInt(1)
//         e.EncodeBool(true)
//         return nil
//     })
//     b := e.Bytes()
//
// Primitive values can also be appended directly to a byte slice with the
// Append* functions (AppendInt32, AppendUintBlob, AppendBitString, ...).
//
// Decoding
//
// DecodeHeader parses a TLV header.  The errors it returns are load bearing:
//
// | condition | error |
// | --------- | ----- |
// | fewer than 2 bytes, indefinite length, or missing length bytes | ErrEndOfData |
// | length field wider than 8 bytes, or length overflowing int | ErrCorrupt |
// | length above the ceiling | ErrTooLarge |
// | length past the end of the buffer | ErrEndOfData |
//
// The Decode* functions parse a complete primitive element from a TLV, checking
// the tag first (ErrBadTag), then the content.
//
// The Decoder reads a stream of TLVs from an io.Reader.
//
// Types
//
// Primitive types map to go types as follows:
//
// | ASN.1 type | Golang type |
// | ---------- | ----------- |
// | BOOLEAN  | bool |
// | INTEGER  | int32, or a little-endian []byte for big integers |
// | ENUMERATED | uint32 |
// | BIT STRING | []byte + unused bit count |
// | OCTET STRING | []byte |
// | OBJECT IDENTIFIER | string, in dotted form |
// | UTCTime, GeneralizedTime | time.Time |
package der
