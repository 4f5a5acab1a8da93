package endpoint

import (
	"testing"

	"github.com/goliatone/go-rmw/allocator"
	"github.com/goliatone/go-rmw/core"
)

func TestBuilder_BuildsOwnedRecord(t *testing.T) {
	tracker := allocator.NewTracking()
	gid := NewGID()
	info, err := NewBuilder(tracker).
		NodeName("listener").
		NodeNamespace("/").
		ServiceType("std_srvs/srv/Trigger").
		ServiceTypeHash(testTypeHash()).
		EndpointKind(KindClient).
		Endpoints(One(gid), One(ServicesDefaultQoSProfile())).
		Build()
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if info.NodeName() != "listener" || info.EndpointKind() != KindClient || info.EndpointCount() != 1 {
		t.Fatalf("unexpected record %+v", info.Descriptor())
	}
	if got := info.GIDs(); len(got) != 1 || got[0] != gid {
		t.Fatalf("expected gid %s, got %v", gid, got)
	}
	if err := info.Finalize(tracker); err != nil {
		t.Fatalf("finalize: %v", err)
	}
	if stats := tracker.Stats(); stats.Live != 0 {
		t.Fatalf("expected no live blocks, got %+v", stats)
	}
}

func TestBuilder_SecondSetIsInvalidState(t *testing.T) {
	tracker := allocator.NewTracking()
	_, err := NewBuilder(tracker).
		NodeName("first").
		NodeName("second").
		Build()
	if !core.IsKind(err, core.KindInvalidState) {
		t.Fatalf("expected invalid state, got %v", err)
	}
	if stats := tracker.Stats(); stats.Live != 0 {
		t.Fatalf("expected rollback to release the first name, got %+v", stats)
	}
}

func TestBuilder_RejectsMismatchedEndpoints(t *testing.T) {
	tracker := allocator.NewTracking()
	_, err := NewBuilder(tracker).
		NodeName("node").
		Endpoints(Two(NewGID(), NewGID()), One(SystemDefaultQoSProfile())).
		Build()
	if !core.IsKind(err, core.KindInvalidArgument) {
		t.Fatalf("expected invalid argument, got %v", err)
	}
	if stats := tracker.Stats(); stats.Live != 0 {
		t.Fatalf("expected rollback, got %+v", stats)
	}
}

func TestBuilder_RollsBackOnEveryAllocationFailure(t *testing.T) {
	// node name, namespace, service type, gids, qos
	const allocations = 5
	for budget := 0; budget < allocations; budget++ {
		tracker := allocator.NewTracking()
		tracker.FailAfter(budget)
		_, err := NewBuilder(tracker).
			NodeName("node").
			NodeNamespace("/ns").
			ServiceType("pkg/srv/Type").
			EndpointKind(KindServer).
			Endpoints(Two(NewGID(), NewGID()), Two(SystemDefaultQoSProfile(), ServicesDefaultQoSProfile())).
			Build()
		if !core.IsKind(err, core.KindAllocationFailure) {
			t.Fatalf("budget %d: expected allocation failure, got %v", budget, err)
		}
		stats := tracker.Stats()
		if stats.Live != 0 || stats.Allocations != budget || stats.ForeignFrees != 0 {
			t.Fatalf("budget %d: expected full rollback, got %+v", budget, stats)
		}
	}
}

func TestBuilder_IsSingleUse(t *testing.T) {
	b := NewBuilder(allocator.Default()).NodeName("node")
	info, err := b.Build()
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if _, err := b.Build(); !core.IsKind(err, core.KindInvalidState) {
		t.Fatalf("expected invalid state on reuse, got %v", err)
	}
	if info.NodeName() != "node" {
		t.Fatalf("expected first build to keep its record")
	}
}

func TestBuilder_InvalidAllocator(t *testing.T) {
	_, err := NewBuilder(nil).Build()
	if !core.IsKind(err, core.KindInvalidArgument) {
		t.Fatalf("expected invalid argument, got %v", err)
	}
}

func TestPairFromSlice(t *testing.T) {
	if _, err := PairFromSlice([]int{}); !core.IsKind(err, core.KindInvalidArgument) {
		t.Fatalf("expected invalid argument for empty slice, got %v", err)
	}
	if _, err := PairFromSlice([]int{1, 2, 3}); !core.IsKind(err, core.KindInvalidArgument) {
		t.Fatalf("expected invalid argument for three values, got %v", err)
	}
	pair, err := PairFromSlice([]int{4, 5})
	if err != nil {
		t.Fatalf("pair from slice: %v", err)
	}
	second, ok := pair.Second()
	if pair.Len() != 2 || pair.First() != 4 || !ok || second != 5 {
		t.Fatalf("unexpected pair %+v", pair)
	}
	if _, ok := One(1).Second(); ok {
		t.Fatalf("expected single pair to have no second value")
	}
}
