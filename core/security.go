package core

// SecurityFilesRequest overrides the configured location of a credential
// bundle for one resolution. Empty fields fall back to Config.Security.
type SecurityFilesRequest struct {
	RootDirectory string
	Enclave       string
}

// SecurityBundle is the outcome of resolving the credential bundle of the
// current enclave.
type SecurityBundle struct {
	Enabled       bool
	Enforced      bool
	RootDirectory string
	Files         map[string]string
	Digest        string
	// Err is the resolution failure tolerated under the permissive strategy.
	Err error
}

// Complete reports whether every mandatory artifact was resolved.
func (b SecurityBundle) Complete() bool {
	return b.Enabled && b.Err == nil && len(b.Files) > 0
}
