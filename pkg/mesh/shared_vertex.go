package mesh

import (
	"fmt"
	"maps"
	"slices"
	"sort"

	"github.com/chewxy/math32"

	"github.com/Faultbox/meshtopo/pkg/math"
)

// DefaultResolution is the number of quantization steps per unit used when
// grouping vertices by position. Coordinates closer than 1/DefaultResolution
// round to the same key.
const DefaultResolution float32 = 1000

// SharedVertex is a group of render indexes treated as one logical vertex.
type SharedVertex []int

// Contains reports whether index is in the group.
func (s SharedVertex) Contains(index int) bool {
	return slices.Contains(s, index)
}

type positionKey [3]int64

func quantize(p math.Vec3, resolution float32) positionKey {
	return positionKey{
		int64(math32.Round(p[0] * resolution)),
		int64(math32.Round(p[1] * resolution)),
		int64(math32.Round(p[2] * resolution)),
	}
}

// usableResolution returns r, or DefaultResolution when r is not a finite
// positive number. NaN or infinite steps would collapse every key to one value.
func usableResolution(r float32) float32 {
	if !math.IsFinite(r) || r <= 0 {
		return DefaultResolution
	}
	return r
}

// GroupByPosition partitions [0, len(positions)) into groups of vertices whose
// quantized positions are equal. Quantization (rather than an epsilon test) keeps
// the relation transitive. Groups are ordered by their lowest index.
func GroupByPosition(positions []math.Vec3, resolution float32) []SharedVertex {
	resolution = usableResolution(resolution)

	buckets := make(map[positionKey]int, len(positions))
	var groups []SharedVertex
	for i, p := range positions {
		key := quantize(p, resolution)
		if g, ok := buckets[key]; ok {
			groups[g] = append(groups[g], i)
			continue
		}
		buckets[key] = len(groups)
		groups = append(groups, SharedVertex{i})
	}
	return groups
}

// BuildLookup maps every index in groups to the position of its group.
func BuildLookup(groups []SharedVertex) map[int]int {
	n := 0
	for _, g := range groups {
		n += len(g)
	}
	lookup := make(map[int]int, n)
	for gi, g := range groups {
		for _, i := range g {
			lookup[i] = gi
		}
	}
	return lookup
}

// FromLookup rebuilds groups from an index to group-id map. Groups are ordered by
// group id and members ascend, so the result does not depend on map iteration.
// Ids need not be contiguous; empty groups disappear.
func FromLookup(lookup map[int]int) []SharedVertex {
	byGroup := make(map[int]SharedVertex)
	for index, group := range lookup {
		byGroup[group] = append(byGroup[group], index)
	}

	ids := make([]int, 0, len(byGroup))
	for id := range byGroup {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	groups := make([]SharedVertex, 0, len(ids))
	for _, id := range ids {
		g := byGroup[id]
		sort.Ints(g)
		groups = append(groups, g)
	}
	return groups
}

// NearestIndexPriorToValue returns the position of the last element of sorted that
// is strictly less than value, or -1 if there is none.
func NearestIndexPriorToValue(sorted []int, value int) int {
	// First position with sorted[i] >= value.
	i := sort.SearchInts(sorted, value)
	return i - 1
}

// RemoveAndShift drops removed indexes from lookup and renumbers the rest into
// the compacted index space: each kept index decreases by the number of removed
// indexes below it. lookup must describe the index space before removal; calling
// this twice on the same removal shifts twice.
func RemoveAndShift(lookup map[int]int, removed []int) []SharedVertex {
	sorted := sortedUnique(removed)

	shifted := make(map[int]int, len(lookup))
	for index, group := range lookup {
		if _, found := slices.BinarySearch(sorted, index); found {
			continue
		}
		shifted[index-(NearestIndexPriorToValue(sorted, index)+1)] = group
	}
	return FromLookup(shifted)
}

func sortedUnique(values []int) []int {
	s := slices.Clone(values)
	slices.Sort(s)
	return slices.Compact(s)
}

// CoincidenceTable owns the shared vertex groups of a mesh and a lazily built
// index to group lookup.
type CoincidenceTable struct {
	groups []SharedVertex

	lookup      map[int]int
	lookupValid bool
}

// NewCoincidenceTable wraps groups. The slice is owned by the table afterwards.
func NewCoincidenceTable(groups []SharedVertex) *CoincidenceTable {
	return &CoincidenceTable{groups: groups}
}

// Groups returns the current groups. Callers must not modify them.
func (t *CoincidenceTable) Groups() []SharedVertex {
	return t.groups
}

// Len returns the number of groups.
func (t *CoincidenceTable) Len() int {
	return len(t.groups)
}

// SetGroups replaces all groups.
func (t *CoincidenceTable) SetGroups(groups []SharedVertex) {
	t.groups = groups
	t.Invalidate()
}

// Invalidate drops the cached lookup.
func (t *CoincidenceTable) Invalidate() {
	t.lookupValid = false
	t.lookup = nil
}

// Lookup returns the index to group-id map, rebuilding it if stale.
func (t *CoincidenceTable) Lookup() map[int]int {
	if !t.lookupValid {
		t.lookup = BuildLookup(t.groups)
		t.lookupValid = true
	}
	return t.lookup
}

// GroupOf returns the group id of index. Indexes that are in no group are
// implicit singletons and report ok == false.
func (t *CoincidenceTable) GroupOf(index int) (group int, ok bool) {
	group, ok = t.Lookup()[index]
	return group, ok
}

// MergeGroups moves every member of group b into group a and drops b.
func (t *CoincidenceTable) MergeGroups(a, b int) error {
	if a < 0 || a >= len(t.groups) || b < 0 || b >= len(t.groups) {
		return fmt.Errorf("%w: group %d or %d of %d", ErrInvalidArgument, a, b, len(t.groups))
	}
	if a == b {
		return nil
	}
	merged := append(slices.Clone(t.groups[a]), t.groups[b]...)
	sort.Ints(merged)
	t.groups[a] = merged
	t.groups = slices.Delete(t.groups, b, b+1)
	t.Invalidate()
	return nil
}

// MergeIndexes merges the groups containing each of indexes into one.
// Unknown indexes are added to the merged group.
func (t *CoincidenceTable) MergeIndexes(indexes []int) {
	if len(indexes) == 0 {
		return
	}
	old := t.Lookup()

	target := -1
	members := make(map[int]bool)
	lookup := make(map[int]int, len(old)+len(indexes))
	for i, g := range old {
		lookup[i] = g
		members[g] = false
	}
	for _, i := range indexes {
		if g, ok := old[i]; ok {
			members[g] = true
			if target < 0 || g < target {
				target = g
			}
		}
	}
	if target < 0 {
		target = len(t.groups)
	}
	for i, g := range old {
		if members[g] {
			lookup[i] = target
		}
	}
	for _, i := range indexes {
		lookup[i] = target
	}
	t.SetGroups(FromLookup(lookup))
}

// AddToGroup moves index from its current group into group.
func (t *CoincidenceTable) AddToGroup(group, index int) error {
	if group < 0 || group >= len(t.groups) {
		return fmt.Errorf("%w: group %d of %d", ErrInvalidArgument, group, len(t.groups))
	}
	lookup := maps.Clone(t.Lookup())
	lookup[index] = group
	t.SetGroups(FromLookup(lookup))
	return nil
}

// SetCoincident moves exactly indexes into a new group of their own, leaving the
// rest of their former groups in place.
func (t *CoincidenceTable) SetCoincident(indexes []int) {
	if len(indexes) == 0 {
		return
	}
	lookup := maps.Clone(t.Lookup())
	fresh := len(t.groups)
	for _, i := range indexes {
		lookup[i] = fresh
	}
	t.SetGroups(FromLookup(lookup))
}

// RemoveAndShift removes indexes and compacts the remaining indexes. The lookup of
// the pre-removal space is read exactly once.
func (t *CoincidenceTable) RemoveAndShift(removed []int) {
	t.SetGroups(RemoveAndShift(t.Lookup(), removed))
}

// Complete adds a singleton group for every index in [0, count) that has none,
// making implicit singletons explicit.
func (t *CoincidenceTable) Complete(count int) {
	lookup := t.Lookup()
	added := false
	for i := 0; i < count; i++ {
		if _, ok := lookup[i]; !ok {
			t.groups = append(t.groups, SharedVertex{i})
			added = true
		}
	}
	if added {
		t.Invalidate()
	}
}

// Validate checks that groups are disjoint, in [0, count) and non-empty.
func (t *CoincidenceTable) Validate(count int) error {
	seen := make(map[int]struct{}, count)
	for gi, g := range t.groups {
		if len(g) == 0 {
			return fmt.Errorf("%w: group %d is empty", ErrInvalidGroups, gi)
		}
		for _, i := range g {
			if i < 0 || i >= count {
				return fmt.Errorf("%w: index %d in group %d outside [0, %d)", ErrInvalidGroups, i, gi, count)
			}
			if _, dup := seen[i]; dup {
				return fmt.Errorf("%w: index %d appears in more than one group", ErrInvalidGroups, i)
			}
			seen[i] = struct{}{}
		}
	}
	return nil
}

// Copy returns a deep copy of the table.
func (t *CoincidenceTable) Copy() *CoincidenceTable {
	groups := make([]SharedVertex, len(t.groups))
	for i, g := range t.groups {
		groups[i] = slices.Clone(g)
	}
	return NewCoincidenceTable(groups)
}
