package security

import (
	"path/filepath"
	"strings"

	"github.com/goliatone/go-rmw/allocator"
	"github.com/goliatone/go-rmw/core"
)

// EnclaveOptions owns a copy of an enclave name.
type EnclaveOptions struct {
	name []byte
}

func CopyEnclaveOptions(src string, a core.Allocator) (EnclaveOptions, error) {
	if src == "" {
		return EnclaveOptions{}, core.InvalidArgument("security: enclave is required")
	}
	if !allocator.IsValid(a) {
		return EnclaveOptions{}, core.InvalidArgument("security: allocator is invalid")
	}
	block := allocator.Strdup(a, src)
	if block == nil {
		return EnclaveOptions{}, core.AllocationFailure("security: failed to copy enclave options", map[string]any{"enclave": src})
	}
	return EnclaveOptions{name: block}, nil
}

func (o *EnclaveOptions) Name() string {
	if o == nil {
		return ""
	}
	return string(o.name)
}

func (o *EnclaveOptions) Finalize(a core.Allocator) error {
	if o == nil || o.name == nil {
		return core.InvalidArgument("security: enclave options are not set")
	}
	if !allocator.IsValid(a) {
		return core.InvalidArgument("security: allocator is invalid")
	}
	a.Deallocate(o.name)
	o.name = nil
	return nil
}

// SecureRoot returns <keystore>/enclaves/<enclave>. The enclave is a fully
// qualified name such as "/talker_listener/talker".
func SecureRoot(keystore string, enclave string) (string, error) {
	keystore = strings.TrimSpace(keystore)
	enclave = strings.TrimSpace(enclave)
	if keystore == "" || enclave == "" {
		return "", core.InvalidArgument("security: keystore and enclave are required", map[string]any{
			"keystore": keystore,
			"enclave":  enclave,
		})
	}
	if !strings.HasPrefix(enclave, "/") {
		return "", core.InvalidArgument("security: enclave must be fully qualified", map[string]any{"enclave": enclave})
	}
	relative := filepath.FromSlash(strings.TrimPrefix(enclave, "/"))
	return filepath.Join(keystore, "enclaves", relative), nil
}
