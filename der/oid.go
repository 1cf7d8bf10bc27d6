package der

import (
	"github.com/ansel1/merry"
	"math"
	"math/big"
	"strconv"
	"strings"
)

// AppendOID appends an OBJECT IDENTIFIER given in dotted form.  An empty string
// encodes as an OID with no content.  Arcs may be of any size.
func AppendOID(dst []byte, oid string) ([]byte, error) {
	content, err := OIDContent(oid)
	if err != nil {
		return dst, err
	}
	return AppendString(dst, TagOID, content), nil
}

// OIDContent returns the content bytes of an OBJECT IDENTIFIER given in dotted form.
// Malformed strings fail with ErrBadEncode.
func OIDContent(oid string) ([]byte, error) {
	if oid == "" {
		return nil, nil
	}
	parts := strings.Split(oid, ".")
	if len(parts) < 2 {
		return nil, merry.Here(ErrBadEncode).Appendf("object identifier %q needs at least 2 arcs", oid)
	}

	arcs := make([]*big.Int, len(parts))
	for i, p := range parts {
		if p == "" || strings.TrimLeft(p, "0123456789") != "" {
			return nil, merry.Here(ErrBadEncode).Appendf("invalid arc %q in object identifier %q", p, oid)
		}
		arcs[i], _ = new(big.Int).SetString(p, 10)
	}

	switch {
	case arcs[0].Cmp(big.NewInt(2)) > 0:
		return nil, merry.Here(ErrBadEncode).Appendf("first arc of object identifier %q must be 0, 1 or 2", oid)
	case arcs[0].Cmp(big.NewInt(2)) < 0 && arcs[1].Cmp(big.NewInt(40)) >= 0:
		return nil, merry.Here(ErrBadEncode).Appendf("second arc of object identifier %q must be less than 40", oid)
	}

	first := new(big.Int).Mul(arcs[0], big.NewInt(40))
	first.Add(first, arcs[1])

	b := appendBase128(nil, first)
	for _, arc := range arcs[2:] {
		b = appendBase128(b, arc)
	}
	return b, nil
}

func appendBase128(dst []byte, n *big.Int) []byte {
	if n.IsUint64() {
		return appendBase128Uint(dst, n.Uint64())
	}
	var groups []byte
	n = new(big.Int).Set(n)
	low := new(big.Int)
	for n.Sign() > 0 {
		low.And(n, big.NewInt(0x7f))
		groups = append(groups, byte(low.Uint64()))
		n.Rsh(n, 7)
	}
	for i := len(groups) - 1; i >= 0; i-- {
		c := groups[i]
		if i > 0 {
			c |= 0x80
		}
		dst = append(dst, c)
	}
	return dst
}

func appendBase128Uint(dst []byte, n uint64) []byte {
	l := 1
	for v := n >> 7; v > 0; v >>= 7 {
		l++
	}
	for i := l - 1; i >= 0; i-- {
		c := byte(n>>(uint(i)*7)) & 0x7f
		if i > 0 {
			c |= 0x80
		}
		dst = append(dst, c)
	}
	return dst
}

// DecodeOID decodes an OBJECT IDENTIFIER to dotted form.  An OID with no content
// decodes to the empty string.
func DecodeOID(t TLV) (string, error) {
	v, err := t.content(TagOID)
	if err != nil {
		return "", err
	}
	return OIDString(v)
}

// OIDString converts the content bytes of an OBJECT IDENTIFIER to dotted form.
// Arcs with redundant leading zero groups, and truncated arcs, fail with ErrCorrupt.
func OIDString(content []byte) (string, error) {
	b, err := AppendOIDText(nil, content)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// AppendOIDText appends the dotted form of the OBJECT IDENTIFIER content bytes to dst.
func AppendOIDText(dst []byte, content []byte) ([]byte, error) {
	var arc uint64
	var bigArc *big.Int
	first := true
	start := true

	for _, c := range content {
		if start && c == 0x80 {
			return dst, merry.Here(ErrCorrupt).Append("object identifier arc is not minimally encoded")
		}
		start = false

		switch {
		case bigArc != nil:
			bigArc.Lsh(bigArc, 7).Or(bigArc, big.NewInt(int64(c&0x7f)))
		case arc > math.MaxUint64>>7:
			bigArc = new(big.Int).SetUint64(arc)
			bigArc.Lsh(bigArc, 7).Or(bigArc, big.NewInt(int64(c&0x7f)))
		default:
			arc = arc<<7 | uint64(c&0x7f)
		}

		if c&0x80 != 0 {
			continue
		}

		if first {
			first = false
			switch {
			case bigArc != nil:
				dst = append(dst, "2."...)
				dst = bigArc.Sub(bigArc, big.NewInt(80)).Append(dst, 10)
			case arc < 40:
				dst = append(dst, "0."...)
				dst = strconv.AppendUint(dst, arc, 10)
			case arc < 80:
				dst = append(dst, "1."...)
				dst = strconv.AppendUint(dst, arc-40, 10)
			default:
				dst = append(dst, "2."...)
				dst = strconv.AppendUint(dst, arc-80, 10)
			}
		} else {
			dst = append(dst, '.')
			if bigArc != nil {
				dst = bigArc.Append(dst, 10)
			} else {
				dst = strconv.AppendUint(dst, arc, 10)
			}
		}
		arc = 0
		bigArc = nil
		start = true
	}

	if !start {
		return dst, merry.Here(ErrCorrupt).Append("object identifier truncated")
	}
	return dst, nil
}
