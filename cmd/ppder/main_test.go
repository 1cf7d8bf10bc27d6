package main

import (
	"bytes"
	"github.com/gemalto/x509asn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"strings"
	"testing"
)

const juanLangHex = "301431123010060355040313094a75616e204c616e67"

func TestRun(t *testing.T) {
	tests := []struct {
		name     string
		opts     options
		in       []byte
		expected string
	}{
		{
			name: "text",
			in:   []byte(juanLangHex),
			expected: strings.Join([]string{
				"Sequence (20):",
				"  Set (18):",
				"    Sequence (16):",
				"      ObjectIdentifier (3): 2.5.4.3",
				`      PrintableString (9): "Juan Lang"`,
			}, "\n"),
		},
		{
			name: "prettyhex",
			opts: options{outFormat: "prettyhex"},
			in:   []byte(juanLangHex),
			expected: strings.Join([]string{
				"30 | 14",
				"  31 | 12",
				"    30 | 10",
				"      06 | 03 | 550403",
				"      13 | 09 | 4a75616e204c616e67",
			}, "\n"),
		},
		{
			name:     "prettyhexinput",
			opts:     options{outFormat: "hex"},
			in:       []byte("30 | 03\n  01 | 01 | ff"),
			expected: "30030101ff",
		},
		{
			name:     "multiple",
			in:       []byte("0500 0101ff"),
			expected: "Null (0): NULL\nBoolean (1): true",
		},
		{
			name:     "der",
			in:       []byte{0x05, 0x00, 0x01, 0x01, 0xff},
			expected: "Null (0): NULL\nBoolean (1): true",
		},
		{
			name:     "forcedhex",
			opts:     options{inFormat: "HEX", outFormat: "hex"},
			in:       []byte("02 01 05"),
			expected: "020105",
		},
		{
			name:     "typedname",
			opts:     options{structType: "name"},
			in:       []byte(juanLangHex),
			expected: "CN=Juan Lang",
		},
		{
			name:     "typedoid",
			opts:     options{structType: "2.5.29.19"},
			in:       []byte("30 06 01 01 ff 02 01 03"),
			expected: "{true true 3}",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, run(tc.opts, tc.in, &buf))
			assert.Equal(t, tc.expected, buf.String())
		})
	}
}

func TestRun_json(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, run(options{outFormat: "json"}, []byte("30 03 02 01 05"), &buf))
	assert.JSONEq(t, `{"tag":"Sequence","value":[{"tag":"Integer","value":"5"}]}`, buf.String())

	buf.Reset()
	require.NoError(t, run(options{outFormat: "json", structType: "X509_NAME"}, []byte(juanLangHex), &buf))
	assert.JSONEq(t, `{"RDNs":[[{"ObjID":"2.5.4.3","ValueType":4,"Value":"SnVhbiBMYW5n"}]]}`, buf.String())
}

func TestRun_errors(t *testing.T) {
	tests := []struct {
		name string
		opts options
		in   []byte
		err  error
	}{
		{name: "oddhex", in: []byte("301")},
		{name: "informat", opts: options{inFormat: "xml"}, in: []byte("0500")},
		{name: "outformat", opts: options{outFormat: "xml"}, in: []byte("0500")},
		{name: "structtype", opts: options{structType: "nope"}, in: []byte("0500"), err: x509asn.ErrUnknownStructType},
		{name: "badobject", opts: options{structType: "integer"}, in: []byte("0500"), err: x509asn.ErrBadTag},
		{name: "truncateder", opts: options{inFormat: "der"}, in: []byte{0x30, 0x05, 0x02}, err: x509asn.ErrEndOfData},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := run(tc.opts, tc.in, &bytes.Buffer{})
			require.Error(t, err)
			if tc.err != nil {
				assert.True(t, x509asn.Is(err, tc.err), x509asn.Details(err))
			}
		})
	}
}

func TestDetectFormat(t *testing.T) {
	assert.Equal(t, FormatHex, detectFormat([]byte("30 | 03\n 01 01 ff")))
	assert.Equal(t, FormatDER, detectFormat([]byte{0x30, 0x03, 0x01, 0x01, 0xff}))
}
