package x509asn

import (
	"github.com/ansel1/merry"
	"github.com/gemalto/x509asn/der"
	"github.com/google/uuid"
	"math/big"
	"strings"
	"sync"
)

// OIDInfo describes a well known object identifier.
type OIDInfo struct {
	OID string
	// Name is a descriptive name, like "commonName".
	Name string
	// Short is the attribute type used in name strings, like "CN".  Only
	// attribute types have one.
	Short string
}

var oidInfos = []OIDInfo{
	// attribute types
	{"2.5.4.3", "commonName", "CN"},
	{"2.5.4.4", "surname", "SN"},
	{"2.5.4.5", "serialNumber", "SERIALNUMBER"},
	{"2.5.4.6", "countryName", "C"},
	{"2.5.4.7", "localityName", "L"},
	{"2.5.4.8", "stateOrProvinceName", "ST"},
	{"2.5.4.9", "streetAddress", "STREET"},
	{"2.5.4.10", "organizationName", "O"},
	{"2.5.4.11", "organizationalUnitName", "OU"},
	{"2.5.4.12", "title", "T"},
	{"2.5.4.42", "givenName", "G"},
	{"2.5.4.43", "initials", "I"},
	{"2.5.4.46", "dnQualifier", "DNQUALIFIER"},
	{"0.9.2342.19200300.100.1.1", "userId", "UID"},
	{"0.9.2342.19200300.100.1.25", "domainComponent", "DC"},
	{"1.2.840.113549.1.9.1", "emailAddress", "E"},

	// extensions
	{"2.5.29.14", "subjectKeyIdentifier", ""},
	{"2.5.29.15", "keyUsage", ""},
	{"2.5.29.17", "subjectAltName", ""},
	{"2.5.29.18", "issuerAltName", ""},
	{"2.5.29.19", "basicConstraints", ""},
	{"2.5.29.21", "cRLReason", ""},
	{"2.5.29.31", "cRLDistributionPoints", ""},
	{"2.5.29.32", "certificatePolicies", ""},
	{"2.5.29.35", "authorityKeyIdentifier", ""},
	{"2.5.29.37", "extKeyUsage", ""},
	{"1.3.6.1.5.5.7.1.1", "authorityInfoAccess", ""},
	{"1.3.6.1.4.1.311.2.1.14", "certExtensions", ""},

	// algorithms
	{"1.2.840.113549.1.1.1", "rsaEncryption", ""},
	{"1.2.840.113549.1.1.5", "sha1WithRSAEncryption", ""},
	{"1.2.840.113549.1.1.11", "sha256WithRSAEncryption", ""},
	{"1.2.840.113549.1.1.12", "sha384WithRSAEncryption", ""},
	{"1.2.840.113549.1.1.13", "sha512WithRSAEncryption", ""},
	{"1.2.840.10040.4.1", "dsa", ""},
	{"1.2.840.10045.2.1", "ecPublicKey", ""},
	{"1.2.840.10045.3.1.7", "prime256v1", ""},
	{"1.2.840.10045.4.3.2", "ecdsaWithSHA256", ""},
	{"1.3.132.0.34", "secp384r1", ""},
	{"1.3.101.112", "Ed25519", ""},

	// pkcs9
	{"1.2.840.113549.1.9.5", "signingTime", ""},
}

type oidTable struct {
	byOID   map[string]*OIDInfo
	byShort map[string]*OIDInfo
	byName  map[string]*OIDInfo
}

var (
	oidTableOnce sync.Once
	oids         oidTable
)

// oidsTable returns the process wide OID table, which is built on first use
// and never modified afterwards.
func oidsTable() *oidTable {
	oidTableOnce.Do(func() {
		oids = oidTable{
			byOID:   make(map[string]*OIDInfo, len(oidInfos)),
			byShort: map[string]*OIDInfo{},
			byName:  make(map[string]*OIDInfo, len(oidInfos)),
		}
		for i := range oidInfos {
			info := &oidInfos[i]
			oids.byOID[info.OID] = info
			oids.byName[strings.ToLower(info.Name)] = info
			if info.Short != "" {
				oids.byShort[info.Short] = info
			}
		}
		// alternate spellings
		oids.byShort["S"] = oids.byShort["ST"]
		oids.byShort["EMAIL"] = oids.byShort["E"]
	})
	return &oids
}

// sharedOID returns the table's copy of the OID in text, if it's in the table.
func sharedOID(text []byte) (string, bool) {
	if info, ok := oidsTable().byOID[string(text)]; ok {
		return info.OID, true
	}
	return "", false
}

// LookupOID returns information about a well known OID.
func LookupOID(oid string) (OIDInfo, bool) {
	if info, ok := oidsTable().byOID[oid]; ok {
		return *info, true
	}
	return OIDInfo{}, false
}

// ParseAttributeType converts an attribute type from a name string, like
// "CN", "commonName", or "2.5.4.3", to an OID.  Names are not case sensitive.
func ParseAttributeType(s string) (string, error) {
	t := oidsTable()
	if info, ok := t.byShort[strings.ToUpper(s)]; ok {
		return info.OID, nil
	}
	if info, ok := t.byName[strings.ToLower(s)]; ok {
		return info.OID, nil
	}
	s = strings.TrimPrefix(strings.TrimPrefix(s, "OID."), "oid.")
	if _, err := der.OIDContent(s); err != nil || s == "" {
		return "", merry.Here(ErrInvalidParameter).Appendf("unknown attribute type %q", s)
	}
	return s, nil
}

// attributeTypeString returns the short name of an attribute type, or the
// dotted OID.
func attributeTypeString(oid string) string {
	if info, ok := oidsTable().byOID[oid]; ok && info.Short != "" {
		return info.Short
	}
	return oid
}

// OIDFromUUID returns the OID of a UUID under the 2.25 arc: 2.25 followed by
// the UUID as a single unsigned integer.
func OIDFromUUID(u uuid.UUID) string {
	return "2.25." + new(big.Int).SetBytes(u[:]).String()
}

// UUIDFromOID reverses OIDFromUUID.
func UUIDFromOID(oid string) (uuid.UUID, error) {
	if _, err := der.OIDContent(oid); err != nil || !strings.HasPrefix(oid, "2.25.") {
		return uuid.Nil, merry.Here(ErrInvalidParameter).Appendf("%q is not under the 2.25 arc", oid)
	}
	n, ok := new(big.Int).SetString(oid[len("2.25."):], 10)
	if !ok || n.Sign() < 0 || n.BitLen() > 128 {
		return uuid.Nil, merry.Here(ErrInvalidParameter).Appendf("%q does not hold a UUID", oid)
	}
	var u uuid.UUID
	n.FillBytes(u[:])
	return u, nil
}
