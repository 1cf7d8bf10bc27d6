package der

import (
	"bytes"
	"io"
	"math/big"
	"sort"
	"time"
)

// Encoder writes DER elements.  Values are buffered until the outermost
// constructed value is complete, then written to the writer by Flush.  An
// Encoder with no writer just accumulates the encoding, which Bytes returns.
//
// Encoding errors are sticky: once an Encode method fails, later calls are
// ignored, and Err returns the first error.
type Encoder struct {
	encodeDepth int
	w           io.Writer
	encBuf      encBuf
	err         error
}

func NewEncoder(w io.Writer) *Encoder {
	return &Encoder{w: w}
}

// Err returns the first error encountered while encoding.
func (e *Encoder) Err() error {
	return e.err
}

func (e *Encoder) setErr(err error) {
	if e.err == nil {
		e.err = err
	}
}

// EncodeConstructed writes a constructed element with the given tag.  f writes
// the content.
func (e *Encoder) EncodeConstructed(tag Tag, f func(e *Encoder) error) error {
	if e.err != nil {
		return e.err
	}
	e.encodeDepth++
	i := e.encBuf.begin(tag | Tag(constructedBit))
	err := f(e)
	e.encBuf.end(i)
	e.encodeDepth--
	if err != nil {
		e.setErr(err)
		return err
	}
	return e.Flush()
}

// EncodeSequence writes a SEQUENCE.
func (e *Encoder) EncodeSequence(f func(e *Encoder) error) error {
	return e.EncodeConstructed(TagSequence, f)
}

// EncodeSet writes a SET OF.  The members written by f are sorted by their
// encodings, which is the order DER requires.
func (e *Encoder) EncodeSet(f func(e *Encoder) error) error {
	if e.err != nil {
		return e.err
	}
	e.encodeDepth++
	i := e.encBuf.begin(TagSet)
	err := f(e)
	e.encBuf.sortMembers(i)
	e.encBuf.end(i)
	e.encodeDepth--
	if err != nil {
		e.setErr(err)
		return err
	}
	return e.Flush()
}

func (e *Encoder) EncodeInt(v int32) {
	e.write(AppendInt32(e.encBuf.scratch(), v))
}

// EncodeIntegerBlob writes a little-endian two's complement integer.
func (e *Encoder) EncodeIntegerBlob(le []byte) {
	e.write(AppendIntegerBlob(e.encBuf.scratch(), le))
}

// EncodeUintBlob writes a little-endian unsigned integer.
func (e *Encoder) EncodeUintBlob(le []byte) {
	e.write(AppendUintBlob(e.encBuf.scratch(), le))
}

func (e *Encoder) EncodeBigInt(v *big.Int) {
	e.write(AppendBigInt(e.encBuf.scratch(), v))
}

func (e *Encoder) EncodeEnumerated(v uint32) {
	e.write(AppendEnumerated(e.encBuf.scratch(), v))
}

func (e *Encoder) EncodeBool(v bool) {
	e.write(AppendBool(e.encBuf.scratch(), v))
}

func (e *Encoder) EncodeNull() {
	e.write(AppendNull(e.encBuf.scratch()))
}

func (e *Encoder) EncodeOctetString(v []byte) {
	e.write(AppendOctetString(e.encBuf.scratch(), v))
}

// EncodeString writes a primitive element with the given tag and content.
func (e *Encoder) EncodeString(tag Tag, v []byte) {
	e.write(AppendString(e.encBuf.scratch(), tag, v))
}

func (e *Encoder) EncodeBitString(data []byte, unused uint32) {
	e.write(AppendBitString(e.encBuf.scratch(), data, unused))
}

func (e *Encoder) EncodeOID(oid string) error {
	b, err := AppendOID(e.encBuf.scratch(), oid)
	if err != nil {
		e.setErr(err)
		return err
	}
	e.write(b)
	return nil
}

func (e *Encoder) EncodeUTCTime(t time.Time) error {
	return e.encodeTime(AppendUTCTime, t)
}

func (e *Encoder) EncodeGeneralizedTime(t time.Time) error {
	return e.encodeTime(AppendGeneralizedTime, t)
}

// EncodeTime writes a UTCTime or GeneralizedTime, depending on the year.
func (e *Encoder) EncodeTime(t time.Time) error {
	return e.encodeTime(AppendTime, t)
}

func (e *Encoder) encodeTime(f func([]byte, time.Time) ([]byte, error), t time.Time) error {
	b, err := f(e.encBuf.scratch(), t)
	if err != nil {
		e.setErr(err)
		return err
	}
	e.write(b)
	return nil
}

// EncodeTLV writes pre-encoded bytes verbatim.
func (e *Encoder) EncodeTLV(t TLV) {
	e.write(t)
}

func (e *Encoder) write(b []byte) {
	if e.err != nil {
		return
	}
	_, _ = e.encBuf.Write(b)
	if err := e.Flush(); err != nil {
		e.setErr(err)
	}
}

// Flush writes any complete values to the writer.  It does nothing while a
// constructed value is open, or if the Encoder has no writer.
func (e *Encoder) Flush() error {
	if e.encodeDepth > 0 || e.w == nil {
		return nil
	}
	_, err := e.encBuf.WriteTo(e.w)
	e.encBuf.Reset()
	return err
}

// Bytes returns the buffered encoding.  The slice is only valid until the next
// call to the Encoder.
func (e *Encoder) Bytes() []byte {
	return e.encBuf.Bytes()
}

// Len returns the number of buffered bytes.
func (e *Encoder) Len() int {
	return e.encBuf.Len()
}

// Reset discards the buffered encoding and any error.
func (e *Encoder) Reset() {
	e.encBuf.Reset()
	e.err = nil
	e.encodeDepth = 0
}

type encBuf struct {
	bytes.Buffer
	tmp [16]byte
}

// scratch returns an empty slice for primitive encoders to append to.
func (h *encBuf) scratch() []byte {
	return h.tmp[:0]
}

// begin writes the tag and a single placeholder length byte, and returns the
// offset where the content starts.
func (h *encBuf) begin(tag Tag) int {
	_ = h.WriteByte(byte(tag))
	_ = h.WriteByte(0)
	return h.Len()
}

// end fills in the length of the content started at i.  Lengths over 127 need
// more length bytes, so the content is shifted right to make room.
func (h *encBuf) end(i int) {
	n := h.Len() - i
	if n < 0x80 {
		h.Bytes()[i-1] = byte(n)
		return
	}
	k := lenBytes(uint64(n))
	_, _ = h.Write(zeros[:k])
	b := h.Bytes()
	copy(b[i+k:], b[i:i+n])
	b[i-1] = 0x80 | byte(k)
	for j := 0; j < k; j++ {
		b[i+j] = byte(uint64(n) >> (uint(k-1-j) * 8))
	}
}

// sortMembers reorders the elements written since offset i by their encodings.
func (h *encBuf) sortMembers(i int) {
	content := h.Bytes()[i:]
	elems, err := TLV(append([]byte(nil), content...)).Split()
	if err != nil || len(elems) < 2 {
		return
	}
	sort.Slice(elems, func(a, b int) bool {
		return bytes.Compare(elems[a], elems[b]) < 0
	})
	pos := 0
	for _, el := range elems {
		pos += copy(content[pos:], el)
	}
}

var zeros = [8]byte{}
