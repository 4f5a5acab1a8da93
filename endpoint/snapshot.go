package endpoint

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/goliatone/go-rmw/core"
	"github.com/kaptinlin/jsonschema"
)

//go:embed schema/snapshot.schema.json
var snapshotSchemaJSON []byte

var compiledSnapshotSchema = sync.OnceValues(func() (*jsonschema.Schema, error) {
	compiler := jsonschema.NewCompiler()
	compiler.AssertFormat = true
	return compiler.Compile(snapshotSchemaJSON)
})

// Snapshot is the exported, allocator-free form of a service's endpoints.
type Snapshot struct {
	ServiceName string
	Endpoints   []Descriptor
}

type snapshotDocument struct {
	ServiceName string             `json:"service_name"`
	Endpoints   []snapshotEndpoint `json:"endpoints"`
}

type snapshotEndpoint struct {
	NodeName        string       `json:"node_name"`
	NodeNamespace   string       `json:"node_namespace"`
	ServiceType     string       `json:"service_type"`
	ServiceTypeHash string       `json:"service_type_hash,omitempty"`
	EndpointKind    string       `json:"endpoint_kind"`
	GIDs            []string     `json:"gids"`
	QoSProfiles     []QoSProfile `json:"qos_profiles"`
}

func SnapshotSchema() []byte {
	return append([]byte(nil), snapshotSchemaJSON...)
}

func EncodeSnapshot(snapshot Snapshot) ([]byte, error) {
	doc := snapshotDocument{
		ServiceName: snapshot.ServiceName,
		Endpoints:   make([]snapshotEndpoint, 0, len(snapshot.Endpoints)),
	}
	for index, descriptor := range snapshot.Endpoints {
		if err := descriptor.Validate(); err != nil {
			return nil, core.InvalidArgument("endpoint: snapshot descriptor is invalid", map[string]any{
				"index": index,
				"error": err.Error(),
			})
		}
		gids := make([]string, 0, descriptor.GIDs.Len())
		for _, gid := range descriptor.GIDs.Slice() {
			gids = append(gids, gid.String())
		}
		doc.Endpoints = append(doc.Endpoints, snapshotEndpoint{
			NodeName:        descriptor.NodeName,
			NodeNamespace:   descriptor.NodeNamespace,
			ServiceType:     descriptor.ServiceType,
			ServiceTypeHash: descriptor.ServiceTypeHash.String(),
			EndpointKind:    descriptor.EndpointKind.String(),
			GIDs:            gids,
			QoSProfiles:     descriptor.QoSProfiles.Slice(),
		})
	}
	data, err := json.Marshal(doc)
	if err != nil {
		return nil, core.Unspecified("endpoint: encode snapshot", err)
	}
	if err := ValidateSnapshot(data); err != nil {
		return nil, err
	}
	return data, nil
}

// ValidateSnapshot checks data against the embedded snapshot schema.
func ValidateSnapshot(data []byte) error {
	if !json.Valid(data) {
		return core.InvalidArgument("endpoint: snapshot is not valid json")
	}
	schema, err := compiledSnapshotSchema()
	if err != nil {
		return core.Unspecified("endpoint: compile snapshot schema", err)
	}
	result := schema.ValidateJSON(data)
	if result.IsValid() {
		return nil
	}
	return core.InvalidArgument("endpoint: snapshot schema validation failed", map[string]any{
		"errors": fmt.Sprintf("%v", result.Errors),
	})
}

func DecodeSnapshot(data []byte) (Snapshot, error) {
	if err := ValidateSnapshot(data); err != nil {
		return Snapshot{}, err
	}
	var doc snapshotDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return Snapshot{}, core.InvalidArgument("endpoint: decode snapshot", map[string]any{"error": err.Error()})
	}
	snapshot := Snapshot{
		ServiceName: strings.TrimSpace(doc.ServiceName),
		Endpoints:   make([]Descriptor, 0, len(doc.Endpoints)),
	}
	for index, entry := range doc.Endpoints {
		descriptor, err := entry.descriptor()
		if err != nil {
			return Snapshot{}, core.InvalidArgument("endpoint: snapshot endpoint is invalid", map[string]any{
				"index": index,
				"error": err.Error(),
			})
		}
		snapshot.Endpoints = append(snapshot.Endpoints, descriptor)
	}
	return snapshot, nil
}

func (e snapshotEndpoint) descriptor() (Descriptor, error) {
	kind, err := ParseKind(e.EndpointKind)
	if err != nil {
		return Descriptor{}, err
	}
	hash, err := ParseTypeHash(e.ServiceTypeHash)
	if err != nil {
		return Descriptor{}, err
	}
	gidValues := make([]GID, 0, len(e.GIDs))
	for _, raw := range e.GIDs {
		gid, err := ParseGID(raw)
		if err != nil {
			return Descriptor{}, err
		}
		gidValues = append(gidValues, gid)
	}
	gids, err := PairFromSlice(gidValues)
	if err != nil {
		return Descriptor{}, err
	}
	profiles, err := PairFromSlice(e.QoSProfiles)
	if err != nil {
		return Descriptor{}, err
	}
	descriptor := Descriptor{
		NodeName:        e.NodeName,
		NodeNamespace:   e.NodeNamespace,
		ServiceType:     e.ServiceType,
		ServiceTypeHash: hash,
		EndpointKind:    kind,
		GIDs:            gids,
		QoSProfiles:     profiles,
	}
	if err := descriptor.Validate(); err != nil {
		return Descriptor{}, err
	}
	return descriptor, nil
}
