package security

type Attribute string

const (
	AttributeIdentityCA    Attribute = "IDENTITY_CA"
	AttributeCertificate   Attribute = "CERTIFICATE"
	AttributePrivateKey    Attribute = "PRIVATE_KEY"
	AttributePermissionsCA Attribute = "PERMISSIONS_CA"
	AttributeGovernance    Attribute = "GOVERNANCE"
	AttributePermissions   Attribute = "PERMISSIONS"
	AttributeCRL           Attribute = "CRL"
)

type Representation int

const (
	// FileURI resolves to the value prefix followed by the file path.
	FileURI Representation = iota
	// PKCS11URI resolves to the first token of the file, which must start
	// with "pkcs11:".
	PKCS11URI
)

func (r Representation) String() string {
	switch r {
	case PKCS11URI:
		return "pkcs11"
	default:
		return "file"
	}
}

const pkcs11Scheme = "pkcs11:"

type Candidate struct {
	Filename       string
	Representation Representation
}

type Rule struct {
	Attribute  Attribute
	Candidates []Candidate
	Optional   bool
}

// DefaultRules returns the candidate table in resolution order. Token
// references come before plain files for every identity bearing attribute.
func DefaultRules() []Rule {
	return []Rule{
		{Attribute: AttributeIdentityCA, Candidates: []Candidate{
			{Filename: "identity_ca.cert.p11", Representation: PKCS11URI},
			{Filename: "identity_ca.cert.pem", Representation: FileURI},
		}},
		{Attribute: AttributeCertificate, Candidates: []Candidate{
			{Filename: "cert.p11", Representation: PKCS11URI},
			{Filename: "cert.pem", Representation: FileURI},
		}},
		{Attribute: AttributePrivateKey, Candidates: []Candidate{
			{Filename: "key.p11", Representation: PKCS11URI},
			{Filename: "key.pem", Representation: FileURI},
		}},
		{Attribute: AttributePermissionsCA, Candidates: []Candidate{
			{Filename: "permissions_ca.cert.p11", Representation: PKCS11URI},
			{Filename: "permissions_ca.cert.pem", Representation: FileURI},
		}},
		{Attribute: AttributeGovernance, Candidates: []Candidate{
			{Filename: "governance.p7s", Representation: FileURI},
		}},
		{Attribute: AttributePermissions, Candidates: []Candidate{
			{Filename: "permissions.p7s", Representation: FileURI},
		}},
		{Attribute: AttributeCRL, Optional: true, Candidates: []Candidate{
			{Filename: "crl.pem", Representation: FileURI},
		}},
	}
}

func cloneRules(rules []Rule) []Rule {
	out := make([]Rule, 0, len(rules))
	for _, rule := range rules {
		rule.Candidates = append([]Candidate(nil), rule.Candidates...)
		out = append(out, rule)
	}
	return out
}

func candidateNames(candidates []Candidate) []string {
	names := make([]string, 0, len(candidates))
	for _, candidate := range candidates {
		names = append(names, candidate.Filename)
	}
	return names
}
