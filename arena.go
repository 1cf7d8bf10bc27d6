package x509asn

import (
	"github.com/gemalto/x509asn/der"
	"strings"
)

// arena sizes and then fills a decoded value.  Decoders run twice against an
// arena: the measuring pass only counts what the value needs, then the filling
// pass carves every slice and string of the value from a single allocation
// per kind, sized by the counts.
type arena struct {
	measuring bool
	flags     DecodeFlags

	nBytes    int
	nOIDBytes int
	nAttrs    int
	nRDNs     int
	nExts     int
	nElems    int

	bytes   []byte
	oidText strings.Builder
	attrs   []RDNAttr
	rdns    []RDN
	exts    []Extension
	elems   [][]byte

	scratch []byte
}

func newArena(flags DecodeFlags) *arena {
	return &arena{measuring: true, flags: flags}
}

// filling returns an arena with room for everything this arena counted.
func (a *arena) filling() *arena {
	f := &arena{
		flags: a.flags,
		bytes: make([]byte, 0, a.nBytes),
		attrs: make([]RDNAttr, 0, a.nAttrs),
		rdns:  make([]RDN, 0, a.nRDNs),
		exts:  make([]Extension, 0, a.nExts),
		elems: make([][]byte, 0, a.nElems),
	}
	f.oidText.Grow(a.nOIDBytes)
	return f
}

// size is the number of bytes the measured value occupies, as a fixed size
// struct plus everything it points to.
func (a *arena) size(fixed int) int {
	return fixed +
		a.nBytes +
		a.nOIDBytes +
		a.nAttrs*sizeOfRDNAttr +
		a.nRDNs*sizeOfRDN +
		a.nExts*sizeOfExtension +
		a.nElems*sizeOfBlob
}

func (a *arena) noCopy() bool {
	return a.flags&DecodeNoCopy != 0
}

// copyBytes returns b as part of the decoded value.  With DecodeNoCopy, the
// result aliases the input.  Empty values are nil.
func (a *arena) copyBytes(b []byte) []byte {
	if len(b) == 0 {
		return nil
	}
	if a.noCopy() {
		return b[:len(b):len(b)]
	}
	return a.carveBytes(b)
}

// ownBytes is like copyBytes, but b is never aliased, because the decoder has
// to modify it.
func (a *arena) ownBytes(b []byte) []byte {
	if len(b) == 0 {
		return nil
	}
	return a.carveBytes(b)
}

func (a *arena) carveBytes(b []byte) []byte {
	if a.measuring {
		a.nBytes += len(b)
		return b
	}
	start := len(a.bytes)
	a.bytes = append(a.bytes, b...)
	return a.bytes[start:len(a.bytes):len(a.bytes)]
}

// oid decodes an OBJECT IDENTIFIER.  With DecodeShareOIDString, well known
// OIDs are returned from the shared OID table instead of being copied.
func (a *arena) oid(t der.TLV) (string, error) {
	content, err := der.DecodeString(t, der.TagOID)
	if err != nil {
		return "", err
	}
	a.scratch, err = der.AppendOIDText(a.scratch[:0], content)
	if err != nil {
		return "", err
	}
	if a.flags&DecodeShareOIDString != 0 {
		if s, ok := sharedOID(a.scratch); ok {
			return s, nil
		}
	}
	if a.measuring {
		a.nOIDBytes += len(a.scratch)
		return "", nil
	}
	start := a.oidText.Len()
	_, _ = a.oidText.Write(a.scratch)
	// earlier results stay valid: the builder was grown up front, so it never reallocates
	return a.oidText.String()[start:], nil
}

// The slice allocators return nil while measuring.  Decoders assign into the
// result only when it's non-nil.

func (a *arena) rdnAttrs(n int) []RDNAttr {
	if a.measuring || n == 0 {
		a.nAttrs += n
		return nil
	}
	start := len(a.attrs)
	a.attrs = a.attrs[:start+n]
	return a.attrs[start : start+n : start+n]
}

func (a *arena) rdnList(n int) []RDN {
	if a.measuring || n == 0 {
		a.nRDNs += n
		return nil
	}
	start := len(a.rdns)
	a.rdns = a.rdns[:start+n]
	return a.rdns[start : start+n : start+n]
}

func (a *arena) extensions(n int) []Extension {
	if a.measuring || n == 0 {
		a.nExts += n
		return nil
	}
	start := len(a.exts)
	a.exts = a.exts[:start+n]
	return a.exts[start : start+n : start+n]
}

func (a *arena) blobs(n int) [][]byte {
	if a.measuring || n == 0 {
		a.nElems += n
		return nil
	}
	start := len(a.elems)
	a.elems = a.elems[:start+n]
	return a.elems[start : start+n : start+n]
}
