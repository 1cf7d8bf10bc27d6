package x509asn

import (
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"math"
	"math/big"
	"testing"
	"time"
)

func TestIntegerBlob(t *testing.T) {
	tests := []struct {
		name string
		in   *big.Int
		exp  IntegerBlob
	}{
		{name: "zero", in: big.NewInt(0), exp: IntegerBlob{0x00}},
		{name: "one", in: big.NewInt(1), exp: IntegerBlob{0x01}},
		{name: "127", in: big.NewInt(127), exp: IntegerBlob{0x7f}},
		{name: "128", in: big.NewInt(128), exp: IntegerBlob{0x80, 0x00}},
		{name: "256", in: big.NewInt(256), exp: IntegerBlob{0x00, 0x01}},
		{name: "minusone", in: big.NewInt(-1), exp: IntegerBlob{0xff}},
		{name: "minus128", in: big.NewInt(-128), exp: IntegerBlob{0x80}},
		{name: "minus129", in: big.NewInt(-129), exp: IntegerBlob{0x7f, 0xff}},
		{name: "minus256", in: big.NewInt(-256), exp: IntegerBlob{0x00, 0xff}},
		{name: "int64min", in: big.NewInt(math.MinInt64), exp: IntegerBlob{0, 0, 0, 0, 0, 0, 0, 0x80}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			b := NewIntegerBlob(tc.in)
			assert.Equal(t, tc.exp, b)
			assert.Zero(t, tc.in.Cmp(b.BigInt()), "expected %v, got %v", tc.in, b.BigInt())
		})
	}

	assert.Zero(t, IntegerBlob(nil).BigInt().Sign())
	// padding doesn't change the value
	assert.Equal(t, int64(-1), IntegerBlob{0xff, 0xff, 0xff}.BigInt().Int64())
	assert.Equal(t, int64(1), IntegerBlob{0x01, 0x00, 0x00}.BigInt().Int64())
}

func TestUintBlob(t *testing.T) {
	tests := []struct {
		name string
		in   *big.Int
		exp  UintBlob
	}{
		{name: "zero", in: big.NewInt(0), exp: UintBlob{0x00}},
		{name: "255", in: big.NewInt(255), exp: UintBlob{0xff}},
		{name: "256", in: big.NewInt(256), exp: UintBlob{0x00, 0x01}},
		{name: "uint32max", in: big.NewInt(math.MaxUint32), exp: UintBlob{0xff, 0xff, 0xff, 0xff}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			b := NewUintBlob(tc.in)
			assert.Equal(t, tc.exp, b)
			assert.Zero(t, tc.in.Cmp(b.BigInt()))
		})
	}

	assert.Panics(t, func() {
		NewUintBlob(big.NewInt(-1))
	})
}

func TestFileTime(t *testing.T) {
	tests := []struct {
		name string
		in   time.Time
		exp  FileTime
	}{
		{name: "epoch", in: time.Date(1601, 1, 1, 0, 0, 0, 0, time.UTC), exp: 0},
		{name: "unixepoch", in: time.Unix(0, 0), exp: 116444736000000000},
		{name: "2005", in: time.Date(2005, 6, 6, 16, 10, 0, 0, time.UTC), exp: 127625478000000000},
		{name: "ticks", in: time.Date(1601, 1, 1, 0, 0, 0, 1234567, time.UTC), exp: 12345},
		{name: "zone", in: time.Date(2005, 6, 6, 18, 10, 0, 0, time.FixedZone("CEST", 2*60*60)), exp: 127625478000000000},
		{name: "max", in: time.Date(30828, 9, 14, 2, 48, 5, 477580700, time.UTC), exp: math.MaxInt64},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			ft, err := NewFileTime(tc.in)
			require.NoError(t, err)
			assert.Equal(t, tc.exp, ft)
			assert.True(t, tc.in.Truncate(100*time.Nanosecond).Equal(ft.Time()), "expected %v, got %v", tc.in, ft.Time())
			assert.Equal(t, time.UTC, ft.Time().Location())
		})
	}

	assert.Equal(t, "2005-06-06T16:10:00Z", FileTime(127625478000000000).String())
	// beyond the range of time.Time's unix arithmetic
	assert.True(t, FileTime(math.MaxUint64).Time().Equal(maxFileTime))
}

func TestNewFileTime_errors(t *testing.T) {
	for _, tm := range []time.Time{
		time.Date(1600, 12, 31, 23, 59, 59, 0, time.UTC),
		time.Date(30828, 9, 14, 2, 48, 5, 477580800, time.UTC),
		{},
	} {
		t.Run(tm.String(), func(t *testing.T) {
			_, err := NewFileTime(tm)
			assert.True(t, Is(err, ErrBadEncode), Details(err))
		})
	}
}
