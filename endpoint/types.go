package endpoint

import (
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/goliatone/go-rmw/core"
	"github.com/google/uuid"
)

const (
	// GIDStorageSize is the fixed storage reserved per endpoint GID.
	GIDStorageSize = 16
	// TypeHashSize is the size of a type hash value.
	TypeHashSize = 32

	typeHashPrefix = "RIHS"
)

type GID [GIDStorageSize]byte

// NewGID returns a random GID built from a version 4 UUID.
func NewGID() GID {
	return GID(uuid.New())
}

func (g GID) String() string {
	return hex.EncodeToString(g[:])
}

func ParseGID(value string) (GID, error) {
	var gid GID
	decoded, err := hex.DecodeString(strings.TrimSpace(value))
	if err != nil || len(decoded) != GIDStorageSize {
		return gid, core.InvalidArgument("endpoint: gid must be 32 hex characters", map[string]any{"gid": value})
	}
	copy(gid[:], decoded)
	return gid, nil
}

type TypeHash struct {
	Version uint8
	Value   [TypeHashSize]byte
}

func (h TypeHash) IsZero() bool {
	return h == TypeHash{}
}

// String renders the hash as RIHS<version>_<hex>. A zero hash renders empty.
func (h TypeHash) String() string {
	if h.IsZero() {
		return ""
	}
	return fmt.Sprintf("%s%02d_%s", typeHashPrefix, h.Version, hex.EncodeToString(h.Value[:]))
}

func ParseTypeHash(value string) (TypeHash, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return TypeHash{}, nil
	}
	invalid := core.InvalidArgument("endpoint: type hash must look like RIHS01_<64 hex>", map[string]any{"type_hash": value})
	versionPart, valuePart, ok := strings.Cut(strings.TrimPrefix(value, typeHashPrefix), "_")
	if !ok || !strings.HasPrefix(value, typeHashPrefix) || len(versionPart) != 2 {
		return TypeHash{}, invalid
	}
	version, err := strconv.ParseUint(versionPart, 10, 8)
	if err != nil {
		return TypeHash{}, invalid
	}
	decoded, err := hex.DecodeString(valuePart)
	if err != nil || len(decoded) != TypeHashSize {
		return TypeHash{}, invalid
	}
	hash := TypeHash{Version: uint8(version)}
	copy(hash.Value[:], decoded)
	return hash, nil
}

type Kind int

const (
	KindInvalid Kind = iota
	KindClient
	KindServer
)

func (k Kind) String() string {
	switch k {
	case KindClient:
		return "client"
	case KindServer:
		return "server"
	default:
		return "invalid"
	}
}

func ParseKind(value string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "client":
		return KindClient, nil
	case "server":
		return KindServer, nil
	case "", "invalid":
		return KindInvalid, nil
	default:
		return KindInvalid, core.InvalidArgument("endpoint: unknown endpoint kind", map[string]any{"kind": value})
	}
}

type HistoryPolicy int

const (
	HistorySystemDefault HistoryPolicy = iota
	HistoryKeepLast
	HistoryKeepAll
	HistoryUnknown
)

type ReliabilityPolicy int

const (
	ReliabilitySystemDefault ReliabilityPolicy = iota
	ReliabilityReliable
	ReliabilityBestEffort
	ReliabilityUnknown
	ReliabilityBestAvailable
)

type DurabilityPolicy int

const (
	DurabilitySystemDefault DurabilityPolicy = iota
	DurabilityTransientLocal
	DurabilityVolatile
	DurabilityUnknown
	DurabilityBestAvailable
)

type LivelinessPolicy int

const (
	LivelinessSystemDefault LivelinessPolicy = iota
	LivelinessAutomatic
	_
	LivelinessManualByTopic
	LivelinessUnknown
	LivelinessBestAvailable
)

// QoSProfile is a fixed-layout value copied by value into records.
type QoSProfile struct {
	History                      HistoryPolicy     `json:"history"`
	Depth                        uint32            `json:"depth"`
	Reliability                  ReliabilityPolicy `json:"reliability"`
	Durability                   DurabilityPolicy  `json:"durability"`
	Deadline                     time.Duration     `json:"deadline"`
	Lifespan                     time.Duration     `json:"lifespan"`
	Liveliness                   LivelinessPolicy  `json:"liveliness"`
	LivelinessLeaseDuration      time.Duration     `json:"liveliness_lease_duration"`
	AvoidROSNamespaceConventions bool              `json:"avoid_ros_namespace_conventions"`
}

func SystemDefaultQoSProfile() QoSProfile {
	return QoSProfile{}
}

// ServicesDefaultQoSProfile is the profile services use unless overridden.
func ServicesDefaultQoSProfile() QoSProfile {
	return QoSProfile{
		History:     HistoryKeepLast,
		Depth:       10,
		Reliability: ReliabilityReliable,
		Durability:  DurabilityVolatile,
		Liveliness:  LivelinessSystemDefault,
	}
}
