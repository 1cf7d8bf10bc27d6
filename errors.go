package x509asn

import (
	"fmt"
	"github.com/ansel1/merry"
	"github.com/gemalto/x509asn/der"
)

func Is(err error, originals ...error) bool {
	return merry.Is(err, originals...)
}

func Details(err error) string {
	return merry.Details(err)
}

var (
	ErrUnknownEncodingType = der.ErrUnknownEncodingType
	ErrUnknownStructType   = der.ErrUnknownStructType
	ErrMoreData            = der.ErrMoreData
	ErrEndOfData           = der.ErrEndOfData
	ErrTooLarge            = der.ErrTooLarge
	ErrBadTag              = der.ErrBadTag
	ErrCorrupt             = der.ErrCorrupt
	ErrBadEncode           = der.ErrBadEncode
	ErrInvalidParameter    = der.ErrInvalidParameter
	ErrNilValue            = der.ErrNilValue
)

func newError(sentinel error, format string, args ...interface{}) error {
	return merry.WrapSkipping(sentinel, 1).Appendf(format, args...)
}

type errKey int

const (
	errorKeyStructType errKey = iota
)

func init() {
	merry.RegisterDetail("Struct Type", errorKeyStructType)
}

// WithStructType records the struct type of the object being encoded or
// decoded when err occurred.
func WithStructType(err error, st StructType) error {
	return merry.WithValue(err, errorKeyStructType, st)
}

// GetStructType returns the struct type recorded by WithStructType, or
// StructNone.
func GetStructType(err error) StructType {
	v := merry.Value(err, errorKeyStructType)
	switch t := v.(type) {
	case nil:
		return StructNone
	case StructType:
		return t
	default:
		panic(fmt.Sprintf("err struct type attribute's value was wrong type, expected StructType, got %T", v))
	}
}
