package endpoint

import "github.com/goliatone/go-rmw/core"

// Descriptor is a plain value view of an Info. It owns nothing and is what
// stores, queries and snapshots exchange.
type Descriptor struct {
	NodeName        string
	NodeNamespace   string
	ServiceType     string
	ServiceTypeHash TypeHash
	EndpointKind    Kind
	GIDs            Pair[GID]
	QoSProfiles     Pair[QoSProfile]
}

func (i *Info) Descriptor() Descriptor {
	d := Descriptor{
		NodeName:        i.NodeName(),
		NodeNamespace:   i.NodeNamespace(),
		ServiceType:     i.ServiceType(),
		ServiceTypeHash: i.ServiceTypeHash(),
		EndpointKind:    i.EndpointKind(),
	}
	if gids, err := PairFromSlice(i.GIDs()); err == nil {
		d.GIDs = gids
	}
	if profiles, err := PairFromSlice(i.QoSProfiles()); err == nil {
		d.QoSProfiles = profiles
	}
	return d
}

// Build allocates a new Info from the descriptor through a Builder.
func (d Descriptor) Build(a core.Allocator) (Info, error) {
	b := NewBuilder(a).
		NodeName(d.NodeName).
		NodeNamespace(d.NodeNamespace).
		ServiceType(d.ServiceType).
		ServiceTypeHash(d.ServiceTypeHash).
		EndpointKind(d.EndpointKind)
	if d.GIDs.Len() > 0 || d.QoSProfiles.Len() > 0 {
		b = b.Endpoints(d.GIDs, d.QoSProfiles)
	}
	return b.Build()
}

// Populate finalizes info and refills it from the descriptor. On error info
// is left in the zero state.
func (d Descriptor) Populate(info *Info, a core.Allocator) error {
	if info == nil {
		return core.InvalidArgument("endpoint: info is nil")
	}
	if err := info.Finalize(a); err != nil {
		return err
	}
	built, err := d.Build(a)
	if err != nil {
		return err
	}
	*info = built
	return nil
}

func (d Descriptor) Validate() error {
	if d.EndpointKind != KindClient && d.EndpointKind != KindServer {
		return core.InvalidArgument("endpoint: descriptor kind must be client or server", map[string]any{"kind": d.EndpointKind.String()})
	}
	if d.GIDs.Len() == 0 || d.GIDs.Len() != d.QoSProfiles.Len() {
		return core.InvalidArgument("endpoint: descriptor needs matching gids and qos profiles", map[string]any{
			"gids":         d.GIDs.Len(),
			"qos_profiles": d.QoSProfiles.Len(),
		})
	}
	return nil
}
