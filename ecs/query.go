package ecs

import (
	"iter"
	"sort"
	"unsafe"
)

// queryExecutor is implemented by every Query so the Scheduler can refresh
// them without knowing T.
type queryExecutor interface {
	Execute()
}

// Query wraps a View with a per-frame cache of matching entities.
// The Scheduler calls Execute before the owning system runs; Iter, Values,
// Pairs and Len read the cache.
type Query[T any] struct {
	view               *View[T]
	storage            *Storage
	cachedArchetypes   []*Archetype
	lastArchetypeCount int

	cachedEntities   []EntityId
	cachedComponents []T
	cacheValid       bool
}

// NewQuery creates a Query bound to storage.
func NewQuery[T any](storage *Storage) *Query[T] {
	q := &Query[T]{}
	q.Init(storage)
	return q
}

// Init binds the Query to storage. Called by the Scheduler during registration.
func (q *Query[T]) Init(storage *Storage) {
	q.view = NewView[T](storage)
	q.storage = storage
	q.cachedArchetypes = nil
	q.lastArchetypeCount = -1
	q.cacheValid = false
}

// Execute rebuilds the entity cache for this frame.
func (q *Query[T]) Execute() {
	if count := len(q.storage.archetypes); count != q.lastArchetypeCount {
		q.cachedArchetypes = nil
		q.lastArchetypeCount = count
	}
	q.ensureArchetypeCache()

	q.cachedEntities = q.cachedEntities[:0]
	q.cachedComponents = q.cachedComponents[:0]

	for _, archetype := range q.cachedArchetypes {
		if len(archetype.storages) == 0 {
			continue
		}
		storageIndices := q.view.buildStorageIndices(archetype)

		var result T
		resultPtr := unsafe.Pointer(&result)
		for entityIndex := range archetype.storages[0].Iter() {
			if !q.view.populateResult(resultPtr, archetype, entityIndex, storageIndices) {
				continue
			}
			q.cachedEntities = append(q.cachedEntities, NewEntityId(archetype.id, uint32(entityIndex)))
			q.cachedComponents = append(q.cachedComponents, result)
		}
	}

	q.cacheValid = true
}

// ensureArchetypeCache collects matching archetypes ordered by ID so that
// iteration order is stable from run to run.
func (q *Query[T]) ensureArchetypeCache() {
	if q.cachedArchetypes != nil {
		return
	}

	q.cachedArchetypes = make([]*Archetype, 0)
	for _, archetype := range q.storage.archetypes {
		if q.view.matchesArchetype(archetype) {
			q.cachedArchetypes = append(q.cachedArchetypes, archetype)
		}
	}
	sort.Slice(q.cachedArchetypes, func(i, j int) bool {
		return q.cachedArchetypes[i].id < q.cachedArchetypes[j].id
	})
}

func (q *Query[T]) mustBeValid(method string) {
	if !q.cacheValid {
		panic("Query." + method + "() called before Query.Execute()")
	}
}

// Len returns the number of entities matched by the last Execute.
func (q *Query[T]) Len() int {
	q.mustBeValid("Len")
	return len(q.cachedEntities)
}

// Iter yields entity IDs and component data.
func (q *Query[T]) Iter() iter.Seq2[EntityId, T] {
	q.mustBeValid("Iter")

	return func(yield func(EntityId, T) bool) {
		for i := range q.cachedEntities {
			if !yield(q.cachedEntities[i], q.cachedComponents[i]) {
				return
			}
		}
	}
}

// Values yields component data only.
func (q *Query[T]) Values() iter.Seq[T] {
	q.mustBeValid("Values")

	return func(yield func(T) bool) {
		for i := range q.cachedComponents {
			if !yield(q.cachedComponents[i]) {
				return
			}
		}
	}
}

// Pairs yields every unordered pair of distinct matched entities exactly once.
// Both items of a pair carry live component pointers, so a caller may mutate
// the two entities together. Fewer than two entities yield nothing.
func (q *Query[T]) Pairs() iter.Seq2[T, T] {
	q.mustBeValid("Pairs")

	return func(yield func(T, T) bool) {
		n := len(q.cachedComponents)
		for i := 0; i < n; i++ {
			for j := i + 1; j < n; j++ {
				if !yield(q.cachedComponents[i], q.cachedComponents[j]) {
					return
				}
			}
		}
	}
}
