package sqlstore

import (
	"strings"
	"time"

	"github.com/goliatone/go-rmw/endpoint"
	"github.com/uptrace/bun"
)

type serviceEndpointRecord struct {
	bun.BaseModel `bun:"table:rmw_service_endpoints,alias:rse"`

	ID              string                `bun:"id,pk"`
	ServiceName     string                `bun:"service_name,notnull"`
	Position        int                   `bun:"position,notnull"`
	NodeName        string                `bun:"node_name,notnull"`
	NodeNamespace   string                `bun:"node_namespace,notnull"`
	ServiceType     string                `bun:"service_type,notnull"`
	ServiceTypeHash string                `bun:"service_type_hash,notnull"`
	EndpointKind    string                `bun:"endpoint_kind,notnull"`
	GIDs            []string              `bun:"gids,type:jsonb,notnull"`
	QoSProfiles     []endpoint.QoSProfile `bun:"qos_profiles,type:jsonb,notnull"`
	CreatedAt       time.Time             `bun:"created_at,nullzero,notnull,default:current_timestamp"`
}

func newServiceEndpointRecord(serviceName string, position int, d endpoint.Descriptor, now time.Time) *serviceEndpointRecord {
	gids := d.GIDs.Slice()
	encoded := make([]string, 0, len(gids))
	for _, gid := range gids {
		encoded = append(encoded, gid.String())
	}
	profiles := d.QoSProfiles.Slice()
	if profiles == nil {
		profiles = []endpoint.QoSProfile{}
	}
	return &serviceEndpointRecord{
		ServiceName:     serviceName,
		Position:        position,
		NodeName:        d.NodeName,
		NodeNamespace:   d.NodeNamespace,
		ServiceType:     d.ServiceType,
		ServiceTypeHash: d.ServiceTypeHash.String(),
		EndpointKind:    d.EndpointKind.String(),
		GIDs:            encoded,
		QoSProfiles:     profiles,
		CreatedAt:       now,
	}
}

func (r *serviceEndpointRecord) toDomain() (endpoint.Descriptor, error) {
	if r == nil {
		return endpoint.Descriptor{}, nil
	}
	hash, err := endpoint.ParseTypeHash(r.ServiceTypeHash)
	if err != nil {
		return endpoint.Descriptor{}, err
	}
	kind, err := endpoint.ParseKind(r.EndpointKind)
	if err != nil {
		return endpoint.Descriptor{}, err
	}
	gids := make([]endpoint.GID, 0, len(r.GIDs))
	for _, raw := range r.GIDs {
		gid, parseErr := endpoint.ParseGID(strings.TrimSpace(raw))
		if parseErr != nil {
			return endpoint.Descriptor{}, parseErr
		}
		gids = append(gids, gid)
	}
	d := endpoint.Descriptor{
		NodeName:        r.NodeName,
		NodeNamespace:   r.NodeNamespace,
		ServiceType:     r.ServiceType,
		ServiceTypeHash: hash,
		EndpointKind:    kind,
	}
	if len(gids) > 0 {
		if d.GIDs, err = endpoint.PairFromSlice(gids); err != nil {
			return endpoint.Descriptor{}, err
		}
	}
	if len(r.QoSProfiles) > 0 {
		if d.QoSProfiles, err = endpoint.PairFromSlice(r.QoSProfiles); err != nil {
			return endpoint.Descriptor{}, err
		}
	}
	return d, nil
}
