package domain

import (
	"errors"
	"testing"
)

// home
// ├── garage
// │   └── shelf
// │       └── bin
// └── kitchen
// attic (second root)
func sampleLocations() []Location {
	return []Location{
		{ID: "home", Name: "Home"},
		{ID: "garage", Name: "Garage", ParentID: "home"},
		{ID: "shelf", Name: "Shelf", ParentID: "garage"},
		{ID: "bin", Name: "Bin", ParentID: "shelf"},
		{ID: "kitchen", Name: "Kitchen", ParentID: "home"},
		{ID: "attic", Name: "Attic"},
	}
}

func TestLocationTree_Breadcrumb(t *testing.T) {
	tree := NewLocationTree(sampleLocations())

	chain, err := tree.Breadcrumb("bin")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{"home", "garage", "shelf", "bin"}
	if len(chain) != len(want) {
		t.Fatalf("expected %d entries, got %d", len(want), len(chain))
	}
	for i, id := range want {
		if chain[i].ID != id {
			t.Errorf("breadcrumb[%d] = %s, want %s", i, chain[i].ID, id)
		}
	}

	if got := tree.Path("bin", PathSeparator); got != "Home > Garage > Shelf > Bin" {
		t.Errorf("unexpected path %q", got)
	}
}

func TestLocationTree_Breadcrumb_Unknown(t *testing.T) {
	tree := NewLocationTree(sampleLocations())
	if _, err := tree.Breadcrumb("nope"); !errors.Is(err, ErrLocationNotFound) {
		t.Fatalf("expected ErrLocationNotFound, got %v", err)
	}
	if tree.Path("nope", "/") != "" {
		t.Error("expected empty path for unknown id")
	}
}

func TestLocationTree_Descendants(t *testing.T) {
	tree := NewLocationTree(sampleLocations())

	got := tree.Descendants("home")
	if len(got) != 4 {
		t.Fatalf("expected 4 descendants, got %v", got)
	}
	if !tree.IsDescendant("home", "bin") {
		t.Error("bin should be below home")
	}
	if tree.IsDescendant("garage", "kitchen") {
		t.Error("kitchen is not below garage")
	}
	if len(tree.Descendants("bin")) != 0 {
		t.Error("leaf should have no descendants")
	}
}

func TestLocationTree_ValidateParent(t *testing.T) {
	tree := NewLocationTree(sampleLocations())

	cases := []struct {
		name     string
		id       string
		parent   string
		expected error
	}{
		{"root allowed", "garage", "", nil},
		{"sibling subtree", "garage", "kitchen", nil},
		{"new location", "", "shelf", nil},
		{"self", "garage", "garage", ErrLocationCycle},
		{"direct child", "garage", "shelf", ErrLocationCycle},
		{"deep descendant", "home", "bin", ErrLocationCycle},
		{"unknown parent", "garage", "nowhere", ErrLocationNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tree.ValidateParent(tc.id, tc.parent)
			if !errors.Is(err, tc.expected) {
				t.Fatalf("expected %v, got %v", tc.expected, err)
			}
		})
	}
}

func TestLocationTree_Nested(t *testing.T) {
	tree := NewLocationTree(sampleLocations())

	roots := tree.Nested()
	if len(roots) != 2 {
		t.Fatalf("expected 2 roots, got %d", len(roots))
	}
	// Sorted by name: Attic before Home.
	if roots[0].ID != "attic" || roots[1].ID != "home" {
		t.Fatalf("unexpected root order: %s, %s", roots[0].ID, roots[1].ID)
	}
	home := roots[1]
	if len(home.Children) != 2 || home.Children[0].ID != "garage" {
		t.Fatalf("unexpected children of home: %+v", home.Children)
	}
	if home.Children[0].Children[0].Children[0].ID != "bin" {
		t.Error("bin should be nested three levels under home")
	}
}

func TestLocationTree_OrphanBecomesRoot(t *testing.T) {
	tree := NewLocationTree([]Location{
		{ID: "a", Name: "A", ParentID: "deleted"},
		{ID: "b", Name: "B", ParentID: "a"},
	})
	roots := tree.Nested()
	if len(roots) != 1 || roots[0].ID != "a" {
		t.Fatalf("expected orphan a to be a root, got %+v", roots)
	}
	if tree.Path("b", "/") != "A/B" {
		t.Errorf("unexpected path %q", tree.Path("b", "/"))
	}
}

func TestLocationTree_StoredCycleTerminates(t *testing.T) {
	tree := NewLocationTree([]Location{
		{ID: "a", Name: "A", ParentID: "b"},
		{ID: "b", Name: "B", ParentID: "a"},
	})

	chain, err := tree.Breadcrumb("a")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(chain) != 2 {
		t.Fatalf("expected walk to stop after 2 nodes, got %d", len(chain))
	}
	if n := len(tree.Flatten()); n != 2 {
		t.Fatalf("expected both nodes flattened once, got %d", n)
	}
}

func TestLocationTree_Flatten(t *testing.T) {
	tree := NewLocationTree(sampleLocations())

	flat := tree.Flatten()
	if len(flat) != 6 {
		t.Fatalf("expected 6 rows, got %d", len(flat))
	}
	var bin FlatLocation
	for _, f := range flat {
		if f.ID == "bin" {
			bin = f
		}
	}
	if bin.Depth != 3 {
		t.Errorf("expected depth 3, got %d", bin.Depth)
	}
	if bin.Path != "Home > Garage > Shelf > Bin" {
		t.Errorf("unexpected path %q", bin.Path)
	}
}

func TestLocationTree_FindByPath(t *testing.T) {
	tree := NewLocationTree(sampleLocations())

	loc, ok := tree.FindByPath(SplitPath("home > GARAGE > shelf"))
	if !ok || loc.ID != "shelf" {
		t.Fatalf("expected shelf, got %+v (ok=%v)", loc, ok)
	}
	if _, ok := tree.FindByPath(SplitPath("Home > Basement")); ok {
		t.Error("expected miss for unknown segment")
	}
	if _, ok := tree.FindByPath(nil); ok {
		t.Error("expected miss for empty path")
	}
}
