package mesh

import (
	"errors"
	"slices"
	"sort"
	"testing"

	"github.com/chewxy/math32"

	"github.com/Faultbox/meshtopo/pkg/math"
)

// normalizeGroups sorts members and groups so comparisons ignore order.
func normalizeGroups(groups []SharedVertex) [][]int {
	out := make([][]int, len(groups))
	for i, g := range groups {
		s := slices.Clone([]int(g))
		sort.Ints(s)
		out[i] = s
	}
	sort.Slice(out, func(i, j int) bool { return out[i][0] < out[j][0] })
	return out
}

func groupsEqual(got []SharedVertex, want [][]int) bool {
	g := normalizeGroups(got)
	if len(g) != len(want) {
		return false
	}
	for i := range g {
		if !slices.Equal(g[i], want[i]) {
			return false
		}
	}
	return true
}

func TestGroupByPosition(t *testing.T) {
	positions := []math.Vec3{{0, 0, 0}, {0, 0, 0}, {1, 0, 0}}
	got := GroupByPosition(positions, DefaultResolution)
	want := [][]int{{0, 1}, {2}}
	if !groupsEqual(got, want) {
		t.Errorf("GroupByPosition() = %v, want %v", got, want)
	}
}

func TestGroupByPositionQuantized(t *testing.T) {
	positions := []math.Vec3{
		{0, 0, 0},
		{0.0001, 0, 0}, // rounds to the same key at resolution 1000
		{0.01, 0, 0},
	}
	got := GroupByPosition(positions, 1000)
	want := [][]int{{0, 1}, {2}}
	if !groupsEqual(got, want) {
		t.Errorf("GroupByPosition() = %v, want %v", got, want)
	}
}

func TestGroupByPositionFallbackResolution(t *testing.T) {
	positions := []math.Vec3{{0, 0, 0}, {1, 0, 0}, {5, 5, 5}}
	want := [][]int{{0}, {1}, {2}}

	tests := []struct {
		name       string
		resolution float32
	}{
		{"zero", 0},
		{"negative", -10},
		{"nan", math32.NaN()},
		{"positive infinity", math32.Inf(1)},
		{"negative infinity", math32.Inf(-1)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := GroupByPosition(positions, tt.resolution)
			if !groupsEqual(got, want) {
				t.Errorf("GroupByPosition(%g) = %v, want %v", tt.resolution, got, want)
			}
		})
	}
}

func TestNewFallbackResolution(t *testing.T) {
	m, err := New([]math.Vec3{{0, 0, 0}, {1, 0, 0}}, []*Face{}, BuildOptions{Resolution: math32.NaN()})
	if err != nil {
		t.Fatal(err)
	}
	if m.Resolution() != DefaultResolution {
		t.Errorf("Resolution() = %g, want %g", m.Resolution(), DefaultResolution)
	}
	if got := len(m.SharedVertices()); got != 2 {
		t.Errorf("SharedVertices() has %d groups, want 2", got)
	}
}

func TestGroupByPositionDeterministic(t *testing.T) {
	positions := []math.Vec3{{1, 1, 1}, {0, 0, 0}, {1, 1, 1}, {0, 0, 0}, {2, 2, 2}}
	first := GroupByPosition(positions, DefaultResolution)
	for i := 0; i < 10; i++ {
		again := GroupByPosition(positions, DefaultResolution)
		if len(again) != len(first) {
			t.Fatalf("group count changed: %d vs %d", len(again), len(first))
		}
		for gi := range first {
			if !slices.Equal(first[gi], again[gi]) {
				t.Fatalf("group %d changed: %v vs %v", gi, first[gi], again[gi])
			}
		}
	}
}

func TestBuildLookup(t *testing.T) {
	groups := []SharedVertex{{0, 3}, {1}, {2, 4}}
	lookup := BuildLookup(groups)
	want := map[int]int{0: 0, 3: 0, 1: 1, 2: 2, 4: 2}
	if len(lookup) != len(want) {
		t.Fatalf("lookup size = %d, want %d", len(lookup), len(want))
	}
	for k, v := range want {
		if lookup[k] != v {
			t.Errorf("lookup[%d] = %d, want %d", k, lookup[k], v)
		}
	}
}

func TestFromLookupOrdering(t *testing.T) {
	lookup := map[int]int{5: 9, 1: 2, 0: 9, 3: 2, 4: 7}
	got := FromLookup(lookup)
	want := []SharedVertex{{1, 3}, {4}, {0, 5}}
	if len(got) != len(want) {
		t.Fatalf("FromLookup() = %v, want %v", got, want)
	}
	for i := range want {
		if !slices.Equal(got[i], want[i]) {
			t.Errorf("group %d = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestNearestIndexPriorToValue(t *testing.T) {
	sorted := []int{2, 5, 9}
	tests := []struct {
		value int
		want  int
	}{
		{0, -1},
		{2, -1},
		{3, 0},
		{5, 0},
		{6, 1},
		{10, 2},
	}
	for _, tt := range tests {
		if got := NearestIndexPriorToValue(sorted, tt.value); got != tt.want {
			t.Errorf("NearestIndexPriorToValue(%v, %d) = %d, want %d", sorted, tt.value, got, tt.want)
		}
	}
}

func TestRemoveAndShift(t *testing.T) {
	tests := []struct {
		name    string
		groups  []SharedVertex
		removed []int
		want    [][]int
	}{
		{
			name:    "remove middle singleton",
			groups:  []SharedVertex{{0}, {1}, {2}},
			removed: []int{1},
			want:    [][]int{{0}, {1}},
		},
		{
			name:    "remove from shared group",
			groups:  []SharedVertex{{0, 2}, {1, 3}, {4}},
			removed: []int{0, 3},
			want:    [][]int{{0}, {1}, {2}},
		},
		{
			name:    "unsorted duplicate removal list",
			groups:  []SharedVertex{{0, 4}, {1}, {2}, {3}},
			removed: []int{3, 1, 3},
			want:    [][]int{{0, 2}, {1}},
		},
		{
			name:    "remove whole group",
			groups:  []SharedVertex{{0, 1}, {2, 3}},
			removed: []int{0, 1},
			want:    [][]int{{0, 1}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := RemoveAndShift(BuildLookup(tt.groups), tt.removed)
			if !groupsEqual(got, tt.want) {
				t.Errorf("RemoveAndShift() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCoincidenceTableLookupInvalidation(t *testing.T) {
	table := NewCoincidenceTable([]SharedVertex{{0}, {1}, {2}})
	if g, _ := table.GroupOf(2); g != 2 {
		t.Fatalf("GroupOf(2) = %d, want 2", g)
	}

	if err := table.MergeGroups(0, 2); err != nil {
		t.Fatal(err)
	}
	a, _ := table.GroupOf(0)
	b, _ := table.GroupOf(2)
	if a != b {
		t.Errorf("after MergeGroups, 0 and 2 in groups %d and %d", a, b)
	}
	if table.Len() != 2 {
		t.Errorf("Len() = %d, want 2", table.Len())
	}
}

func TestCoincidenceTableImplicitSingleton(t *testing.T) {
	table := NewCoincidenceTable([]SharedVertex{{0, 1}})
	if _, ok := table.GroupOf(2); ok {
		t.Error("GroupOf(2) ok = true for ungrouped index")
	}
	table.Complete(3)
	if g, ok := table.GroupOf(2); !ok || g != 1 {
		t.Errorf("GroupOf(2) after Complete = %d, %v; want 1, true", g, ok)
	}
}

func TestCoincidenceTableMergeIndexes(t *testing.T) {
	table := NewCoincidenceTable([]SharedVertex{{0, 1}, {2}, {3, 4}, {5}})
	table.MergeIndexes([]int{1, 3})
	want := [][]int{{0, 1, 3, 4}, {2}, {5}}
	if !groupsEqual(table.Groups(), want) {
		t.Errorf("Groups() = %v, want %v", table.Groups(), want)
	}
}

func TestCoincidenceTableAddToGroup(t *testing.T) {
	table := NewCoincidenceTable([]SharedVertex{{0, 1}, {2}, {3}})
	if err := table.AddToGroup(0, 3); err != nil {
		t.Fatal(err)
	}
	want := [][]int{{0, 1, 3}, {2}}
	if !groupsEqual(table.Groups(), want) {
		t.Errorf("Groups() = %v, want %v", table.Groups(), want)
	}
	if err := table.AddToGroup(9, 0); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("AddToGroup(9) error = %v, want ErrInvalidArgument", err)
	}
}

func TestCoincidenceTableSetCoincident(t *testing.T) {
	table := NewCoincidenceTable([]SharedVertex{{0, 1, 2}, {3}})
	table.SetCoincident([]int{2, 3})
	want := [][]int{{0, 1}, {2, 3}}
	if !groupsEqual(table.Groups(), want) {
		t.Errorf("Groups() = %v, want %v", table.Groups(), want)
	}
}

func TestCoincidenceTableValidate(t *testing.T) {
	tests := []struct {
		name   string
		groups []SharedVertex
		count  int
		ok     bool
	}{
		{"partition", []SharedVertex{{0, 1}, {2}}, 3, true},
		{"duplicate", []SharedVertex{{0, 1}, {1, 2}}, 3, false},
		{"out of range", []SharedVertex{{0, 5}}, 3, false},
		{"empty group", []SharedVertex{{}}, 3, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewCoincidenceTable(tt.groups).Validate(tt.count)
			if (err == nil) != tt.ok {
				t.Errorf("Validate() error = %v, want ok=%v", err, tt.ok)
			}
			if err != nil && !errors.Is(err, ErrInvalidGroups) {
				t.Errorf("Validate() error = %v, want ErrInvalidGroups", err)
			}
		})
	}
}
