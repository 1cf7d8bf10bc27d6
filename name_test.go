package x509asn

import (
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"testing"
)

func TestNameInfo_String(t *testing.T) {
	printable := func(oid, s string) RDNAttr {
		return RDNAttr{ObjID: oid, ValueType: RDNPrintableString, Value: []byte(s)}
	}

	tests := []struct {
		name string
		in   NameInfo
		exp  string
	}{
		{name: "empty", in: NameInfo{}, exp: ""},
		{name: "multivalued", in: juanLang, exp: `CN=Juan Lang\00+SN=Lang\00`},
		{
			name: "reversed",
			in:   NameInfo{RDNs: []RDN{{printable("2.5.4.6", "US")}, {printable("2.5.4.10", "Example")}, {printable("2.5.4.3", "Juan Lang")}}},
			exp:  "CN=Juan Lang,O=Example,C=US",
		},
		{
			name: "escaped",
			in:   NameInfo{RDNs: []RDN{{printable("2.5.4.3", `#Lang, "Juan" <a+b>;\ `)}}},
			exp:  `CN=\#Lang\, \"Juan\" \<a\+b\>\;\\\ `,
		},
		{name: "leadingspace", in: NameInfo{RDNs: []RDN{{printable("2.5.4.3", " a b")}}}, exp: `CN=\ a b`},
		{name: "unknowntype", in: NameInfo{RDNs: []RDN{{printable("1.2.3.4", "x")}}}, exp: "1.2.3.4=x"},
		{
			name: "blob",
			in:   NameInfo{RDNs: []RDN{{{ObjID: "2.5.4.3", ValueType: RDNEncodedBlob, Value: []byte{0x02, 0x01, 0x05}}}}},
			exp:  "CN=#020105",
		},
		{
			name: "octets",
			in:   NameInfo{RDNs: []RDN{{{ObjID: "2.5.4.3", ValueType: RDNOctetString, Value: []byte{0xab}}}}},
			exp:  "CN=#0401ab",
		},
		{
			name: "bmp",
			in:   NameInfo{RDNs: []RDN{{{ObjID: "2.5.4.3", ValueType: RDNBMPString, Value: []byte{0x00, 'J', 0x00, 0xe9}}}}},
			exp:  "CN=Jé",
		},
		{
			name: "t61",
			in:   NameInfo{RDNs: []RDN{{{ObjID: "2.5.4.10", ValueType: RDNT61String, Value: []byte{'J', 0xe9}}}}},
			exp:  "O=Jé",
		},
		{
			name: "universal",
			in:   NameInfo{RDNs: []RDN{{{ObjID: "2.5.4.7", ValueType: RDNUniversalString, Value: []byte{0, 0, 0, 'J', 0, 0, 0, 0xe9}}}}},
			exp:  "L=Jé",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.exp, tc.in.String())
		})
	}
}

func TestParseName(t *testing.T) {
	tests := []struct {
		in  string
		exp NameInfo
	}{
		{in: "", exp: NameInfo{}},
		{
			in: "CN=Juan Lang,O=Example,C=US",
			exp: NameInfo{RDNs: []RDN{
				{{ObjID: "2.5.4.6", ValueType: RDNPrintableString, Value: []byte("US")}},
				{{ObjID: "2.5.4.10", ValueType: RDNPrintableString, Value: []byte("Example")}},
				{{ObjID: "2.5.4.3", ValueType: RDNPrintableString, Value: []byte("Juan Lang")}},
			}},
		},
		{
			in: "CN=Juan Lang+SN=Lang",
			exp: NameInfo{RDNs: []RDN{{
				{ObjID: "2.5.4.3", ValueType: RDNPrintableString, Value: []byte("Juan Lang")},
				{ObjID: "2.5.4.4", ValueType: RDNPrintableString, Value: []byte("Lang")},
			}}},
		},
		{
			in: "E=juan@example.com,DC=example",
			exp: NameInfo{RDNs: []RDN{
				{{ObjID: "0.9.2342.19200300.100.1.25", ValueType: RDNIA5String, Value: []byte("example")}},
				{{ObjID: "1.2.840.113549.1.9.1", ValueType: RDNIA5String, Value: []byte("juan@example.com")}},
			}},
		},
		{
			in:  "commonName=José",
			exp: NameInfo{RDNs: []RDN{{{ObjID: "2.5.4.3", ValueType: RDNUTF8String, Value: []byte("José")}}}},
		},
		{
			in:  `OID.2.5.4.3=Lang\, Juan`,
			exp: NameInfo{RDNs: []RDN{{{ObjID: "2.5.4.3", ValueType: RDNPrintableString, Value: []byte("Lang, Juan")}}}},
		},
		{
			in:  "1.2.3.4=a_b",
			exp: NameInfo{RDNs: []RDN{{{ObjID: "1.2.3.4", ValueType: RDNUTF8String, Value: []byte("a_b")}}}},
		},
	}

	for _, tc := range tests {
		t.Run(tc.in, func(t *testing.T) {
			name, err := ParseName(tc.in)
			require.NoError(t, err, Details(err))
			assert.Equal(t, tc.exp, name)

			// and back again
			b, err := EncodeObject(X509ASNEncoding, StructName, name)
			require.NoError(t, err)
			v, err := DecodeObject(X509ASNEncoding, StructName, b, 0)
			require.NoError(t, err)
			reparsed, err := ParseName(v.(NameInfo).String())
			require.NoError(t, err)
			assert.Equal(t, v, reparsed)
		})
	}
}

func TestParseName_errors(t *testing.T) {
	tests := []struct {
		in  string
		err error
	}{
		{in: "CN", err: ErrInvalidParameter},
		{in: "XX=a", err: ErrInvalidParameter},
		{in: "OID.5.1=a", err: ErrInvalidParameter},
		{in: "E=josé@example.com", err: ErrBadEncode},
	}

	for _, tc := range tests {
		t.Run(tc.in, func(t *testing.T) {
			_, err := ParseName(tc.in)
			assert.True(t, Is(err, tc.err), "expected %v, got %v", tc.err, Details(err))
		})
	}
}

func TestNewRDNAttr(t *testing.T) {
	tests := []struct {
		vt  RDNValueType
		in  string
		exp []byte
		err error
	}{
		{vt: RDNPrintableString, in: "Juan Lang (x)", exp: []byte("Juan Lang (x)")},
		{vt: RDNPrintableString, in: "a@b", err: ErrBadEncode},
		{vt: RDNNumericString, in: "12 34", exp: []byte("12 34")},
		{vt: RDNNumericString, in: "12a", err: ErrBadEncode},
		{vt: RDNIA5String, in: "a@b", exp: []byte("a@b")},
		{vt: RDNIA5String, in: "é", err: ErrBadEncode},
		{vt: RDNUTF8String, in: "é", exp: []byte{0xc3, 0xa9}},
		{vt: RDNVisibleString, in: "é", exp: []byte{0xc3, 0xa9}},
		{vt: RDNT61String, in: "é", exp: []byte{0xe9}},
		{vt: RDNT61String, in: "€", err: ErrBadEncode},
		{vt: RDNBMPString, in: "Jé", exp: []byte{0x00, 'J', 0x00, 0xe9}},
		{vt: RDNBMPString, in: "😀", err: ErrBadEncode},
		{vt: RDNUniversalString, in: "😀", exp: []byte{0x00, 0x01, 0xf6, 0x00}},
		{vt: RDNAnyType, in: "a", err: ErrInvalidParameter},
		{vt: RDNEncodedBlob, in: "a", err: ErrInvalidParameter},
		{vt: RDNOctetString, in: "a", err: ErrInvalidParameter},
		{vt: 99, in: "a", err: ErrInvalidParameter},
	}

	for _, tc := range tests {
		t.Run(tc.vt.String()+":"+tc.in, func(t *testing.T) {
			attr, err := NewRDNAttr("2.5.4.3", tc.vt, tc.in)
			if tc.err != nil {
				assert.True(t, Is(err, tc.err), "expected %v, got %v", tc.err, Details(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, RDNAttr{ObjID: "2.5.4.3", ValueType: tc.vt, Value: tc.exp}, attr)

			text, err := attr.Text()
			require.NoError(t, err)
			assert.Equal(t, tc.in, text)
		})
	}
}

func TestRDNAttr_Text(t *testing.T) {
	_, err := RDNAttr{ValueType: RDNEncodedBlob, Value: []byte{5, 0}}.Text()
	assert.True(t, Is(err, ErrBadEncode))

	text, err := RDNAttr{ValueType: RDNIA5String}.Text()
	require.NoError(t, err)
	assert.Empty(t, text)
}

func TestRDNValueType_String(t *testing.T) {
	assert.Equal(t, "PrintableString", RDNPrintableString.String())
	assert.Equal(t, "EncodedBlob", RDNEncodedBlob.String())
	assert.Equal(t, "RDNValueType(99)", RDNValueType(99).String())
}
