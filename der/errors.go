package der

import (
	"errors"
)

var ErrUnknownEncodingType = errors.New("unknown encoding type")
var ErrUnknownStructType = errors.New("unknown struct type")
var ErrMoreData = errors.New("output buffer too small")
var ErrEndOfData = errors.New("unexpected end of data")
var ErrTooLarge = errors.New("value too large")
var ErrBadTag = errors.New("unexpected tag")
var ErrCorrupt = errors.New("corrupt encoding")
var ErrBadEncode = errors.New("value cannot be encoded as the requested type")
var ErrInvalidParameter = errors.New("invalid parameter")
var ErrNilValue = errors.New("nil value")
