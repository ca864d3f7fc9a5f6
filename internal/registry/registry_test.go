package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coregx/gxpdf/internal/model"
)

// ============================================================================
// Register / Resolve Tests
// ============================================================================

func TestRegisterAssignsSequentialNumbers(t *testing.T) {
	r := New()

	ref1 := r.Register(model.Int(1))
	ref2 := r.Register(model.Int(2))

	assert.Equal(t, 1, ref1.Num)
	assert.Equal(t, 2, ref2.Num)
	assert.Equal(t, 0, ref1.Gen)
}

func TestResolveReturnsStoredObject(t *testing.T) {
	r := New()
	ref := r.Register(model.Name("Catalog"))

	got := r.Resolve(ref)
	assert.Equal(t, model.Name("Catalog"), got)
}

func TestResolveIsIdempotent(t *testing.T) {
	r := New()
	ref := r.Register(model.Text("hello"))

	once := r.Resolve(ref)
	twice := r.Resolve(once)

	assert.Equal(t, once, twice)
	assert.Equal(t, once, r.Resolve(ref))
}

func TestResolveNonReferencePassesThrough(t *testing.T) {
	r := New()

	got := r.Resolve(model.Int(42))
	assert.Equal(t, model.Int(42), got)
}

func TestResolveUnknownReferenceReturnsNullAndWarns(t *testing.T) {
	r := New()

	got := r.Resolve(model.Reference{Num: 999, Gen: 0})
	assert.Equal(t, model.NullObject, got)
	assert.Len(t, r.Warnings(), 1)
}

func TestRegisterAtFillsReservedSlot(t *testing.T) {
	r := New()
	ref := r.AllocateRef()

	r.RegisterAt(ref, model.Int(7))

	got := r.Resolve(ref)
	assert.Equal(t, model.Int(7), got)
}

func TestAllocateRefReservesWithoutStoring(t *testing.T) {
	r := New()
	ref := r.AllocateRef()

	got := r.Resolve(ref)
	assert.Equal(t, model.NullObject, got, "unfilled reserved ref resolves to null until RegisterAt fills it")
}

func TestSeedNextNumOnlyRaisesFloor(t *testing.T) {
	r := New()
	r.SeedNextNum(10)
	ref := r.Register(model.Int(1))
	require.Equal(t, 10, ref.Num)

	r.SeedNextNum(3)
	ref2 := r.Register(model.Int(2))
	assert.Equal(t, 11, ref2.Num, "seeding a lower floor must not move the allocator backwards")
}

// ============================================================================
// Compression location Tests
// ============================================================================

func TestMarkCompressedAndIsCompressed(t *testing.T) {
	r := New()
	ref := r.Register(model.Int(1))

	_, ok := r.IsCompressed(ref)
	assert.False(t, ok)

	r.MarkCompressed(ref, CompressedLocation{StreamNum: 5, Index: 2})

	loc, ok := r.IsCompressed(ref)
	require.True(t, ok)
	assert.Equal(t, CompressedLocation{StreamNum: 5, Index: 2}, loc)
}

// ============================================================================
// Free list Tests
// ============================================================================

func TestFreeRemovesObjectAndMarksDirty(t *testing.T) {
	r := New()
	ref := r.Register(model.Int(1))
	r.ClearDirty()

	r.Free(ref, 0)

	got := r.Resolve(ref)
	assert.Equal(t, model.NullObject, got)

	dirty := r.Dirty()
	require.Len(t, dirty, 1)
	assert.Equal(t, ref, dirty[0].Ref)
	assert.Nil(t, dirty[0].Obj)
}

// ============================================================================
// All / Dirty / ClearDirty Tests
// ============================================================================

func TestAllReturnsAscendingOrder(t *testing.T) {
	r := New()
	r.Register(model.Int(1))
	r.Register(model.Int(2))
	r.Register(model.Int(3))

	entries := r.All()
	require.Len(t, entries, 3)
	assert.Equal(t, 1, entries[0].Ref.Num)
	assert.Equal(t, 2, entries[1].Ref.Num)
	assert.Equal(t, 3, entries[2].Ref.Num)
}

func TestDirtyTracksOnlyMutatedEntries(t *testing.T) {
	r := New()
	ref1 := r.Register(model.Int(1))
	r.ClearDirty()
	_ = ref1

	ref2 := r.Register(model.Int(2))

	dirty := r.Dirty()
	require.Len(t, dirty, 1)
	assert.Equal(t, ref2, dirty[0].Ref)
}

func TestClearDirtyEmptiesDirtySet(t *testing.T) {
	r := New()
	r.Register(model.Int(1))
	require.NotEmpty(t, r.Dirty())

	r.ClearDirty()
	assert.Empty(t, r.Dirty())
}

func TestMarkDirtyFlagsExistingEntryWithoutChangingValue(t *testing.T) {
	r := New()
	dict := model.NewDictionary()
	ref := r.Register(dict)
	r.ClearDirty()

	dict.Set("Mutated", model.Boolean(true))
	r.MarkDirty(ref)

	dirty := r.Dirty()
	require.Len(t, dirty, 1)
	assert.Equal(t, ref, dirty[0].Ref)
}

// ============================================================================
// NextNum Tests
// ============================================================================

func TestNextNumReflectsAllocatorFloor(t *testing.T) {
	r := New()
	assert.Equal(t, 1, r.NextNum())

	r.Register(model.Int(1))
	assert.Equal(t, 2, r.NextNum())
}
