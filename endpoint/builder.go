package endpoint

import (
	"github.com/goliatone/go-rmw/allocator"
	"github.com/goliatone/go-rmw/core"
)

type builderField uint8

const (
	fieldNodeName builderField = 1 << iota
	fieldNodeNamespace
	fieldServiceType
	fieldServiceTypeHash
	fieldEndpointKind
	fieldEndpoints
)

var builderFieldNames = map[builderField]string{
	fieldNodeName:        "node_name",
	fieldNodeNamespace:   "node_namespace",
	fieldServiceType:     "service_type",
	fieldServiceTypeHash: "service_type_hash",
	fieldEndpointKind:    "endpoint_kind",
	fieldEndpoints:       "endpoints",
}

// Builder assembles an Info where every field may be set at most once. The
// first error sticks; Build then finalizes whatever was already allocated.
// A Builder is single use.
type Builder struct {
	allocator core.Allocator
	info      Info
	set       builderField
	err       error
	done      bool
}

func NewBuilder(a core.Allocator) *Builder {
	return &Builder{allocator: a, info: ZeroInfo()}
}

func (b *Builder) NodeName(value string) *Builder {
	return b.apply(fieldNodeName, func() error {
		return b.info.SetNodeName(value, b.allocator)
	})
}

func (b *Builder) NodeNamespace(value string) *Builder {
	return b.apply(fieldNodeNamespace, func() error {
		return b.info.SetNodeNamespace(value, b.allocator)
	})
}

func (b *Builder) ServiceType(value string) *Builder {
	return b.apply(fieldServiceType, func() error {
		return b.info.SetServiceType(value, b.allocator)
	})
}

func (b *Builder) ServiceTypeHash(hash TypeHash) *Builder {
	return b.apply(fieldServiceTypeHash, func() error {
		return b.info.SetServiceTypeHash(&hash)
	})
}

func (b *Builder) EndpointKind(kind Kind) *Builder {
	return b.apply(fieldEndpointKind, func() error {
		return b.info.SetEndpointKind(kind)
	})
}

// Endpoints sets the endpoint count, GIDs and QoS profiles together. Both
// pairs must hold the same number of values.
func (b *Builder) Endpoints(gids Pair[GID], profiles Pair[QoSProfile]) *Builder {
	return b.apply(fieldEndpoints, func() error {
		count := gids.Len()
		if count == 0 || count != profiles.Len() {
			return core.InvalidArgument("endpoint: gids and qos profiles must both hold one or two values", map[string]any{
				"gids":         count,
				"qos_profiles": profiles.Len(),
			})
		}
		packed := make([]byte, 0, count*GIDStorageSize)
		for _, gid := range gids.Slice() {
			packed = append(packed, gid[:]...)
		}
		if err := b.info.SetEndpointCount(count); err != nil {
			return err
		}
		if err := b.info.SetGIDs(packed, count, GIDStorageSize, b.allocator); err != nil {
			return err
		}
		return b.info.SetQoSProfiles(profiles.Slice(), count, b.allocator)
	})
}

func (b *Builder) apply(field builderField, set func() error) *Builder {
	if b.done {
		if b.err == nil {
			b.err = core.InvalidState("endpoint: builder already used", map[string]any{"field": builderFieldNames[field]})
		}
		return b
	}
	if b.err != nil {
		return b
	}
	if b.set&field != 0 {
		b.err = core.InvalidState("endpoint: field already set", map[string]any{"field": builderFieldNames[field]})
		return b
	}
	if err := set(); err != nil {
		b.err = err
		return b
	}
	b.set |= field
	return b
}

// Build returns the assembled record, which the caller now owns. On error
// everything allocated so far is released and the zero Info is returned.
func (b *Builder) Build() (Info, error) {
	if b.done {
		return ZeroInfo(), core.InvalidState("endpoint: builder already used")
	}
	b.done = true
	if !allocator.IsValid(b.allocator) {
		return ZeroInfo(), core.InvalidArgument("endpoint: allocator is invalid")
	}
	if b.err != nil {
		if finiErr := b.info.Finalize(b.allocator); finiErr != nil {
			return ZeroInfo(), core.JoinErrors("endpoint: build rollback failed", b.err, finiErr)
		}
		return ZeroInfo(), b.err
	}
	info := b.info
	b.info = ZeroInfo()
	return info, nil
}
