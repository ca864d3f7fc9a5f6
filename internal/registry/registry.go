// Package registry implements the live object graph: it owns every indirect
// object, resolves references, allocates ids, and tracks which objects have
// mutated since load so an incremental save knows what to re-emit.
//
// Kept separate from the parser's Reader so the writer can depend on it
// without depending on the parser.
package registry

import (
	"fmt"
	"sort"
	"sync"

	"github.com/coregx/gxpdf/internal/model"
)

type objKey struct {
	num int
	gen int
}

// CompressedLocation records that an object lives inside an object stream
// rather than at a direct byte offset.
type CompressedLocation struct {
	StreamNum int
	Index     int
}

// Registry is the sole owner of live indirect objects, shared by every
// component that needs to read or mutate one: every other component holds
// References, not direct handles.
type Registry struct {
	mu         sync.RWMutex
	objects    map[objKey]model.Object
	compressed map[objKey]CompressedLocation
	freeNext   map[int]int // freed object num -> next free num (free-list chain)
	freeGen    map[int]int // freed object num -> generation to use on reuse
	nextNum    int
	dirty      map[objKey]bool
	warnings   []string
}

// New returns an empty registry. nextNum starts at 1; object 0 is reserved
// for the head of the free list, per the classic xref free-list convention.
func New() *Registry {
	return &Registry{
		objects:    make(map[objKey]model.Object),
		compressed: make(map[objKey]CompressedLocation),
		freeNext:   make(map[int]int),
		freeGen:    make(map[int]int),
		nextNum:    1,
		dirty:      make(map[objKey]bool),
	}
}

// Register allocates a new id at the next free number, stores the value,
// and marks it dirty.
func (r *Registry) Register(obj model.Object) model.Reference {
	r.mu.Lock()
	defer r.mu.Unlock()

	num := r.nextNum
	r.nextNum++
	key := objKey{num: num, gen: 0}
	r.objects[key] = obj
	r.dirty[key] = true
	return model.Reference{Num: num, Gen: 0}
}

// RegisterAt fills a previously reserved slot (see AllocateRef).
func (r *Registry) RegisterAt(ref model.Reference, obj model.Object) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := objKey{num: ref.Num, gen: ref.Gen}
	r.objects[key] = obj
	r.dirty[key] = true
}

// AllocateRef reserves an id with no object yet. Used to break cycles and to
// pre-publish font refs before finalize() builds their bodies.
func (r *Registry) AllocateRef() model.Reference {
	r.mu.Lock()
	defer r.mu.Unlock()

	num := r.nextNum
	r.nextNum++
	return model.Reference{Num: num, Gen: 0}
}

// SeedNextNum raises the allocator floor so a freshly loaded document
// continues numbering after the highest id found on disk. Never lowers it.
func (r *Registry) SeedNextNum(n int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if n > r.nextNum {
		r.nextNum = n
	}
}

// Resolve returns the underlying object if v is a Reference, otherwise
// returns v unchanged. It never recurses, which is what guarantees
// resolve(resolve(x)) == resolve(x): a chain of references is not something
// this model produces, since every value stored in the registry is itself
// already resolved-once.
//
// References to a free or nonexistent entry resolve to the null object and
// add a warning; they never raise.
func (r *Registry) Resolve(v model.Object) model.Object {
	ref, ok := v.(model.Reference)
	if !ok {
		return v
	}

	r.mu.RLock()
	key := objKey{num: ref.Num, gen: ref.Gen}
	obj, found := r.objects[key]
	r.mu.RUnlock()

	if !found {
		r.AddWarning(fmt.Sprintf("unresolved reference %d %d R", ref.Num, ref.Gen))
		return model.NullObject
	}
	return obj
}

// IsCompressed reports whether (num,gen) lives inside an object stream, and
// where.
func (r *Registry) IsCompressed(ref model.Reference) (CompressedLocation, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	loc, ok := r.compressed[objKey{num: ref.Num, gen: ref.Gen}]
	return loc, ok
}

// MarkCompressed records that ref's storage location is inside an object
// stream (used by the parser when ingesting a classic xref-stream entry
// type 2, and by the serializer when batching objects into a new ObjStm).
func (r *Registry) MarkCompressed(ref model.Reference, loc CompressedLocation) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.compressed[objKey{num: ref.Num, gen: ref.Gen}] = loc
}

// Free releases an object, making its number available for reuse in a later
// generation. The free list is a chain suitable for classic xref table
// emission's "0 65535 f" head-of-list entry.
func (r *Registry) Free(ref model.Reference, nextFreeNum int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := objKey{num: ref.Num, gen: ref.Gen}
	delete(r.objects, key)
	r.freeNext[ref.Num] = nextFreeNum
	r.freeGen[ref.Num] = ref.Gen + 1
	r.dirty[key] = true
}

// AddWarning accumulates a diagnostic without failing the load or save it
// was raised during.
func (r *Registry) AddWarning(msg string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.warnings = append(r.warnings, msg)
}

// Warnings returns all warnings in discovery order.
func (r *Registry) Warnings() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, len(r.warnings))
	copy(out, r.warnings)
	return out
}

// Entry pairs a Reference with its current object, for iteration.
type Entry struct {
	Ref model.Reference
	Obj model.Object
}

// All returns every live object in ascending id order, which the full-save
// writer walks directly.
func (r *Registry) All() []Entry {
	r.mu.RLock()
	defer r.mu.RUnlock()

	keys := make([]objKey, 0, len(r.objects))
	for k := range r.objects {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].num != keys[j].num {
			return keys[i].num < keys[j].num
		}
		return keys[i].gen < keys[j].gen
	})

	out := make([]Entry, len(keys))
	for i, k := range keys {
		out[i] = Entry{Ref: model.Reference{Num: k.num, Gen: k.gen}, Obj: r.objects[k]}
	}
	return out
}

// Dirty returns every object that mutated since load, in ascending id order
// — what an incremental save re-emits.
func (r *Registry) Dirty() []Entry {
	r.mu.RLock()
	defer r.mu.RUnlock()

	keys := make([]objKey, 0, len(r.dirty))
	for k, isDirty := range r.dirty {
		if isDirty {
			keys = append(keys, k)
		}
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].num != keys[j].num {
			return keys[i].num < keys[j].num
		}
		return keys[i].gen < keys[j].gen
	})

	out := make([]Entry, 0, len(keys))
	for _, k := range keys {
		obj, ok := r.objects[k]
		if !ok {
			// Freed since register; still dirty as a free-list entry.
			out = append(out, Entry{Ref: model.Reference{Num: k.num, Gen: k.gen}, Obj: nil})
			continue
		}
		out = append(out, Entry{Ref: model.Reference{Num: k.num, Gen: k.gen}, Obj: obj})
	}
	return out
}

// NextNum reports the allocator's current floor (one past the highest
// issued id), used by the serializer to compute the trailer's /Size.
func (r *Registry) NextNum() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.nextNum
}

// MarkDirty flags an existing entry as mutated, without changing its value.
// Used when a caller mutates a Dictionary/Array in place after fetching it
// via Resolve (the registry can't see through that mutation on its own).
func (r *Registry) MarkDirty(ref model.Reference) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.dirty[objKey{num: ref.Num, gen: ref.Gen}] = true
}

// ClearDirty resets the dirty set, e.g. immediately after a full save where
// every object is now considered clean relative to the new on-disk image.
func (r *Registry) ClearDirty() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.dirty = make(map[objKey]bool)
}
