package security

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"sort"

	"github.com/goliatone/go-rmw/core"
	"github.com/gowebpki/jcs"
)

// CredentialMap maps attribute names to resolved file or PKCS#11 URIs.
type CredentialMap map[string]string

func (m CredentialMap) Get(attribute Attribute) (string, bool) {
	value, ok := m[string(attribute)]
	return value, ok
}

// Attributes lists the resolved attributes in resolution table order. Keys
// that are not part of the default table follow in lexical order.
func (m CredentialMap) Attributes() []Attribute {
	out := make([]Attribute, 0, len(m))
	known := map[string]bool{}
	for _, rule := range DefaultRules() {
		known[string(rule.Attribute)] = true
		if _, ok := m[string(rule.Attribute)]; ok {
			out = append(out, rule.Attribute)
		}
	}
	extra := make([]string, 0)
	for key := range m {
		if !known[key] {
			extra = append(extra, key)
		}
	}
	sort.Strings(extra)
	for _, key := range extra {
		out = append(out, Attribute(key))
	}
	return out
}

func (m CredentialMap) Clone() CredentialMap {
	if m == nil {
		return nil
	}
	out := make(CredentialMap, len(m))
	for key, value := range m {
		out[key] = value
	}
	return out
}

// Digest returns the hex SHA-256 of the RFC 8785 canonical JSON form of the
// map, so two nodes loading the same bundle report the same digest.
func (m CredentialMap) Digest() (string, error) {
	raw, err := json.Marshal(map[string]string(m))
	if err != nil {
		return "", core.Unspecified("security: encode credential map", err)
	}
	canonical, err := jcs.Transform(raw)
	if err != nil {
		return "", core.Unspecified("security: canonicalize credential map", err)
	}
	sum := sha256.Sum256(canonical)
	return hex.EncodeToString(sum[:]), nil
}
