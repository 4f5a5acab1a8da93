package endpoint

import (
	"testing"

	"github.com/goliatone/go-rmw/allocator"
	"github.com/goliatone/go-rmw/core"
)

func testDescriptor(node string, kind Kind) Descriptor {
	return Descriptor{
		NodeName:        node,
		NodeNamespace:   "/demo",
		ServiceType:     "example_interfaces/srv/AddTwoInts",
		ServiceTypeHash: testTypeHash(),
		EndpointKind:    kind,
		GIDs:            Two(NewGID(), NewGID()),
		QoSProfiles:     Two(ServicesDefaultQoSProfile(), ServicesDefaultQoSProfile()),
	}
}

func TestArray_CheckZero(t *testing.T) {
	if err := (*Array)(nil).CheckZero(); !core.IsKind(err, core.KindInvalidArgument) {
		t.Fatalf("expected invalid argument for nil array, got %v", err)
	}
	arr := ZeroArray()
	if err := arr.CheckZero(); err != nil {
		t.Fatalf("expected zero array, got %v", err)
	}
	if err := arr.InitWithSize(1, allocator.Default()); err != nil {
		t.Fatalf("init: %v", err)
	}
	if err := arr.CheckZero(); !core.IsKind(err, core.KindInvalidState) {
		t.Fatalf("expected invalid state, got %v", err)
	}
}

func TestArray_InitAndFinalizeUnpopulated(t *testing.T) {
	tracker := allocator.NewTracking()
	arr := ZeroArray()
	if err := arr.InitWithSize(3, tracker); err != nil {
		t.Fatalf("init: %v", err)
	}
	if arr.Len() != 3 {
		t.Fatalf("expected size 3, got %d", arr.Len())
	}
	for index := 0; index < 3; index++ {
		info, err := arr.At(index)
		if err != nil {
			t.Fatalf("at %d: %v", index, err)
		}
		if !info.IsZero() {
			t.Fatalf("expected zero record at %d", index)
		}
	}
	if err := arr.Finalize(tracker); err != nil {
		t.Fatalf("finalize: %v", err)
	}
	if arr.Len() != 0 || arr.records != nil {
		t.Fatalf("expected zero array after finalize")
	}
	if stats := tracker.Stats(); stats.Live != 0 || stats.Allocations != 1 {
		t.Fatalf("unexpected stats %+v", stats)
	}
}

func TestArray_InitWithSizeValidation(t *testing.T) {
	arr := ZeroArray()
	if err := (*Array)(nil).InitWithSize(1, allocator.Default()); !core.IsKind(err, core.KindInvalidArgument) {
		t.Fatalf("expected invalid argument for nil array, got %v", err)
	}
	if err := arr.InitWithSize(1, nil); !core.IsKind(err, core.KindInvalidArgument) {
		t.Fatalf("expected invalid argument for nil allocator, got %v", err)
	}
	if err := arr.InitWithSize(-1, allocator.Default()); !core.IsKind(err, core.KindInvalidArgument) {
		t.Fatalf("expected invalid argument for negative size, got %v", err)
	}
	if err := arr.InitWithSize(0, allocator.Default()); err != nil {
		t.Fatalf("init zero: %v", err)
	}
	if err := arr.CheckZero(); err != nil {
		t.Fatalf("expected size zero to leave the zero state, got %v", err)
	}
	if err := arr.InitWithSize(2, allocator.Default()); err != nil {
		t.Fatalf("init: %v", err)
	}
	if err := arr.InitWithSize(2, allocator.Default()); !core.IsKind(err, core.KindInvalidState) {
		t.Fatalf("expected invalid state for non zero array, got %v", err)
	}
	if arr.Len() != 2 {
		t.Fatalf("expected array unchanged, got size %d", arr.Len())
	}
}

func TestArray_InitAllocationFailureLeavesArrayUnchanged(t *testing.T) {
	tracker := allocator.NewTracking()
	tracker.FailAfter(0)
	arr := ZeroArray()
	if err := arr.InitWithSize(4, tracker); !core.IsKind(err, core.KindAllocationFailure) {
		t.Fatalf("expected allocation failure, got %v", err)
	}
	if err := arr.CheckZero(); err != nil {
		t.Fatalf("expected zero array, got %v", err)
	}
}

func TestArray_FinalizeReleasesPopulatedRecords(t *testing.T) {
	tracker := allocator.NewTracking()
	arr := ZeroArray()
	if err := arr.InitWithSize(2, tracker); err != nil {
		t.Fatalf("init: %v", err)
	}
	for index, kind := range []Kind{KindClient, KindServer} {
		info, err := arr.At(index)
		if err != nil {
			t.Fatalf("at %d: %v", index, err)
		}
		if err := testDescriptor("node", kind).Populate(info, tracker); err != nil {
			t.Fatalf("populate %d: %v", index, err)
		}
	}
	if _, err := arr.At(2); !core.IsKind(err, core.KindInvalidArgument) {
		t.Fatalf("expected out of range error, got %v", err)
	}
	if err := arr.Finalize(allocator.Invalid{}); !core.IsKind(err, core.KindInvalidArgument) {
		t.Fatalf("expected invalid argument, got %v", err)
	}
	if arr.Len() != 2 {
		t.Fatalf("expected array untouched after rejected finalize")
	}
	if err := arr.Finalize(tracker); err != nil {
		t.Fatalf("finalize: %v", err)
	}
	stats := tracker.Stats()
	if stats.Live != 0 || stats.ForeignFrees != 0 {
		t.Fatalf("expected every block released once, got %+v", stats)
	}
}

func TestNewArrayFromDescriptors(t *testing.T) {
	tracker := allocator.NewTracking()
	descriptors := []Descriptor{testDescriptor("a", KindClient), testDescriptor("b", KindServer)}
	arr, err := NewArrayFromDescriptors(descriptors, tracker)
	if err != nil {
		t.Fatalf("new array: %v", err)
	}
	got := arr.Descriptors()
	if len(got) != 2 || got[0].NodeName != "a" || got[1].EndpointKind != KindServer {
		t.Fatalf("unexpected descriptors %+v", got)
	}
	if got[0].GIDs != descriptors[0].GIDs || got[1].ServiceTypeHash != descriptors[1].ServiceTypeHash {
		t.Fatalf("expected descriptors to round trip")
	}
	if err := arr.Finalize(tracker); err != nil {
		t.Fatalf("finalize: %v", err)
	}
	if stats := tracker.Stats(); stats.Live != 0 {
		t.Fatalf("expected no live blocks, got %+v", stats)
	}
}

func TestNewArrayFromDescriptors_RollsBackOnAllocationFailure(t *testing.T) {
	descriptors := []Descriptor{testDescriptor("a", KindClient), testDescriptor("b", KindServer)}
	// one array block plus five blocks per record
	const allocations = 11
	for budget := 0; budget < allocations; budget++ {
		tracker := allocator.NewTracking()
		tracker.FailAfter(budget)
		arr, err := NewArrayFromDescriptors(descriptors, tracker)
		if !core.IsKind(err, core.KindAllocationFailure) {
			t.Fatalf("budget %d: expected allocation failure, got %v", budget, err)
		}
		if err := arr.CheckZero(); err != nil {
			t.Fatalf("budget %d: expected zero array, got %v", budget, err)
		}
		if stats := tracker.Stats(); stats.Live != 0 || stats.ForeignFrees != 0 {
			t.Fatalf("budget %d: expected full rollback, got %+v", budget, stats)
		}
	}
}

func TestArray_InitAccountsForRecordBlock(t *testing.T) {
	tracker := allocator.NewTracking()
	arr := ZeroArray()
	if err := arr.InitWithSize(3, tracker); err != nil {
		t.Fatalf("init: %v", err)
	}
	stats := tracker.Stats()
	if stats.Live != 1 || stats.LiveBytes != 3*infoSize {
		t.Fatalf("expected one block sized for 3 records, got %+v", stats)
	}
	if err := arr.Finalize(tracker); err != nil {
		t.Fatalf("finalize: %v", err)
	}
	if live := tracker.Stats().Live; live != 0 {
		t.Fatalf("expected no live allocations, got %d", live)
	}
}
