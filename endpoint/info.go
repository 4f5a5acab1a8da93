package endpoint

import (
	"unsafe"

	"github.com/goliatone/go-rmw/allocator"
	"github.com/goliatone/go-rmw/core"
)

var qosProfileSize = int(unsafe.Sizeof(QoSProfile{}))

// Info describes one client or server endpoint of a service. Every string,
// GID and QoS block is owned by the record and released by Finalize.
//
// Strings and GIDs are stored in their allocator blocks. The QoS block only
// accounts for the profiles, which are kept in a Go slice.
//
// Info is not safe for concurrent mutation.
type Info struct {
	nodeName        []byte
	nodeNamespace   []byte
	serviceType     []byte
	serviceTypeHash TypeHash
	endpointKind    Kind
	endpointCount   int
	gids            []byte
	qosBlock        []byte
	qosProfiles     []QoSProfile
}

func ZeroInfo() Info {
	return Info{}
}

func (i *Info) IsZero() bool {
	if i == nil {
		return false
	}
	return i.nodeName == nil &&
		i.nodeNamespace == nil &&
		i.serviceType == nil &&
		i.serviceTypeHash.IsZero() &&
		i.endpointKind == KindInvalid &&
		i.endpointCount == 0 &&
		i.gids == nil &&
		i.qosBlock == nil &&
		i.qosProfiles == nil
}

func (i *Info) SetNodeName(value string, a core.Allocator) error {
	return i.setString(&i.nodeName, "node_name", value, a)
}

func (i *Info) SetNodeNamespace(value string, a core.Allocator) error {
	return i.setString(&i.nodeNamespace, "node_namespace", value, a)
}

func (i *Info) SetServiceType(value string, a core.Allocator) error {
	return i.setString(&i.serviceType, "service_type", value, a)
}

// setString installs a copy of value. A previous value is released through a
// after the new block is allocated, so a is expected to be the allocator that
// produced it.
func (i *Info) setString(field *[]byte, name string, value string, a core.Allocator) error {
	if i == nil {
		return core.InvalidArgument("endpoint: info is nil", map[string]any{"field": name})
	}
	if !allocator.IsValid(a) {
		return core.InvalidArgument("endpoint: allocator is invalid", map[string]any{"field": name})
	}
	block := allocator.Strdup(a, value)
	if block == nil {
		return core.AllocationFailure("endpoint: failed to allocate "+name, map[string]any{"field": name, "size": len(value)})
	}
	release(a, *field)
	*field = block
	return nil
}

func (i *Info) SetServiceTypeHash(hash *TypeHash) error {
	if i == nil {
		return core.InvalidArgument("endpoint: info is nil")
	}
	if hash == nil {
		return core.InvalidArgument("endpoint: type hash is nil")
	}
	i.serviceTypeHash = *hash
	return nil
}

func (i *Info) SetEndpointKind(kind Kind) error {
	if i == nil {
		return core.InvalidArgument("endpoint: info is nil")
	}
	i.endpointKind = kind
	return nil
}

func (i *Info) SetEndpointCount(count int) error {
	if i == nil {
		return core.InvalidArgument("endpoint: info is nil")
	}
	if err := validateCount(count); err != nil {
		return err
	}
	i.endpointCount = count
	return nil
}

// SetGIDs copies count identifiers of size bytes each, packed in gids, into a
// zeroed block of count*GIDStorageSize bytes. Bytes past size in each slot
// stay zero.
func (i *Info) SetGIDs(gids []byte, count int, size int, a core.Allocator) error {
	if i == nil {
		return core.InvalidArgument("endpoint: info is nil")
	}
	if err := validateCount(count); err != nil {
		return err
	}
	if size < 0 || size > GIDStorageSize {
		return core.InvalidArgument("endpoint: gid size exceeds storage size", map[string]any{
			"size":         size,
			"storage_size": GIDStorageSize,
		})
	}
	if gids == nil || len(gids) < count*size {
		return core.InvalidArgument("endpoint: gids buffer is too short", map[string]any{
			"count": count,
			"size":  size,
		})
	}
	if !allocator.IsValid(a) {
		return core.InvalidArgument("endpoint: allocator is invalid", map[string]any{"field": "endpoint_gids"})
	}
	block := a.Allocate(count * GIDStorageSize)
	if block == nil {
		return core.AllocationFailure("endpoint: failed to allocate endpoint_gids", map[string]any{"count": count})
	}
	clear(block)
	for slot := 0; slot < count; slot++ {
		copy(block[slot*GIDStorageSize:], gids[slot*size:(slot+1)*size])
	}
	release(a, i.gids)
	i.gids = block
	return nil
}

func (i *Info) SetQoSProfiles(profiles []QoSProfile, count int, a core.Allocator) error {
	if i == nil {
		return core.InvalidArgument("endpoint: info is nil")
	}
	if err := validateCount(count); err != nil {
		return err
	}
	if profiles == nil || len(profiles) < count {
		return core.InvalidArgument("endpoint: qos profiles are missing", map[string]any{"count": count})
	}
	if !allocator.IsValid(a) {
		return core.InvalidArgument("endpoint: allocator is invalid", map[string]any{"field": "qos_profiles"})
	}
	block := a.Allocate(count * qosProfileSize)
	if block == nil {
		return core.AllocationFailure("endpoint: failed to allocate qos_profiles", map[string]any{"count": count})
	}
	copied := make([]QoSProfile, count)
	copy(copied, profiles[:count])
	release(a, i.qosBlock)
	i.qosBlock = block
	i.qosProfiles = copied
	return nil
}

// Finalize releases every owned block in the order node name, namespace,
// service type, gids, qos profiles and resets the record to the zero state.
// On an argument error the record is left untouched.
func (i *Info) Finalize(a core.Allocator) error {
	if i == nil {
		return core.InvalidArgument("endpoint: info is nil")
	}
	if !allocator.IsValid(a) {
		return core.InvalidArgument("endpoint: allocator is invalid")
	}
	release(a, i.nodeName)
	release(a, i.nodeNamespace)
	release(a, i.serviceType)
	release(a, i.gids)
	release(a, i.qosBlock)
	*i = ZeroInfo()
	return nil
}

func (i *Info) NodeName() string {
	return string(i.nodeName)
}

func (i *Info) NodeNamespace() string {
	return string(i.nodeNamespace)
}

func (i *Info) ServiceType() string {
	return string(i.serviceType)
}

// HasNodeName distinguishes an unset name from an empty one.
func (i *Info) HasNodeName() bool {
	return i.nodeName != nil
}

func (i *Info) ServiceTypeHash() TypeHash {
	return i.serviceTypeHash
}

func (i *Info) EndpointKind() Kind {
	return i.endpointKind
}

func (i *Info) EndpointCount() int {
	return i.endpointCount
}

// GIDs returns copies of the stored identifiers, one per storage slot.
func (i *Info) GIDs() []GID {
	if i.gids == nil {
		return nil
	}
	out := make([]GID, len(i.gids)/GIDStorageSize)
	for slot := range out {
		copy(out[slot][:], i.gids[slot*GIDStorageSize:])
	}
	return out
}

func (i *Info) QoSProfiles() []QoSProfile {
	if i.qosProfiles == nil {
		return nil
	}
	out := make([]QoSProfile, len(i.qosProfiles))
	copy(out, i.qosProfiles)
	return out
}

func validateCount(count int) error {
	if count != 1 && count != 2 {
		return core.InvalidArgument("endpoint: endpoint count must be 1 or 2", map[string]any{"count": count})
	}
	return nil
}

func release(a core.Allocator, block []byte) {
	if block == nil {
		return
	}
	a.Deallocate(block)
}
