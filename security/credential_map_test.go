package security

import "testing"

func TestCredentialMapDigest_IsOrderIndependent(t *testing.T) {
	a := CredentialMap{"CERTIFICATE": "file:///c.pem", "GOVERNANCE": "file:///g.p7s"}
	b := CredentialMap{}
	b["GOVERNANCE"] = "file:///g.p7s"
	b["CERTIFICATE"] = "file:///c.pem"

	da, err := a.Digest()
	if err != nil {
		t.Fatalf("digest: %v", err)
	}
	db, err := b.Digest()
	if err != nil {
		t.Fatalf("digest: %v", err)
	}
	if da != db || len(da) != 64 {
		t.Fatalf("expected equal sha256 digests, got %q and %q", da, db)
	}
	b["CRL"] = "file:///crl.pem"
	dc, err := b.Digest()
	if err != nil {
		t.Fatalf("digest: %v", err)
	}
	if dc == da {
		t.Fatalf("expected digest to change with content")
	}
}

func TestCredentialMapClone(t *testing.T) {
	original := CredentialMap{"CERTIFICATE": "x"}
	clone := original.Clone()
	clone["CERTIFICATE"] = "y"
	if original["CERTIFICATE"] != "x" {
		t.Fatalf("expected clone to be independent")
	}
	if CredentialMap(nil).Clone() != nil {
		t.Fatalf("expected nil clone of nil map")
	}
}

func TestCredentialMapAttributes_ExtraKeysSorted(t *testing.T) {
	m := CredentialMap{"Z_EXTRA": "z", "A_EXTRA": "a", "PRIVATE_KEY": "k"}
	got := m.Attributes()
	if len(got) != 3 || got[0] != AttributePrivateKey || got[1] != "A_EXTRA" || got[2] != "Z_EXTRA" {
		t.Fatalf("unexpected order %v", got)
	}
}
