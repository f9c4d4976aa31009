package domain

import (
	"sort"
	"strings"
	"time"
)

// Location is a place items live in. Locations form a forest through ParentID.
type Location struct {
	ID          string    `json:"id"`
	GroupID     string    `json:"group_id"`
	Name        string    `json:"name"`
	ParentID    string    `json:"parent_id,omitempty"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// PathSeparator joins location names in breadcrumbs and CSV files.
const PathSeparator = " > "

// LocationNode is a location with its nested children.
type LocationNode struct {
	Location
	Children []*LocationNode `json:"children"`
}

// FlatLocation is one row of a depth-first flattening, used by pickers.
type FlatLocation struct {
	Location
	Depth int    `json:"depth"`
	Path  string `json:"path"`
}

// LocationTree indexes a group's locations for hierarchy queries.
// Parents that are missing from the set are treated as absent, so their
// children surface as roots.
type LocationTree struct {
	byID     map[string]Location
	children map[string][]string
}

// NewLocationTree builds the index. Children are ordered by name.
func NewLocationTree(locations []Location) *LocationTree {
	t := &LocationTree{
		byID:     make(map[string]Location, len(locations)),
		children: make(map[string][]string),
	}
	for _, l := range locations {
		t.byID[l.ID] = l
	}
	for _, l := range locations {
		parent := l.ParentID
		if _, ok := t.byID[parent]; !ok || parent == l.ID {
			parent = ""
		}
		t.children[parent] = append(t.children[parent], l.ID)
	}
	for _, ids := range t.children {
		sort.Slice(ids, func(i, j int) bool {
			a, b := t.byID[ids[i]], t.byID[ids[j]]
			if !strings.EqualFold(a.Name, b.Name) {
				return strings.ToLower(a.Name) < strings.ToLower(b.Name)
			}
			return a.ID < b.ID
		})
	}
	return t
}

// Len returns the number of indexed locations.
func (t *LocationTree) Len() int { return len(t.byID) }

// Get returns the location with id.
func (t *LocationTree) Get(id string) (Location, bool) {
	l, ok := t.byID[id]
	return l, ok
}

// parentOf returns the effective parent of id, or "" for roots.
func (t *LocationTree) parentOf(id string) string {
	l := t.byID[id]
	if _, ok := t.byID[l.ParentID]; !ok || l.ParentID == id {
		return ""
	}
	return l.ParentID
}

// Breadcrumb returns the chain from the root down to id, inclusive.
// The walk stops after visiting every location once, so stored cycles
// cannot make it loop.
func (t *LocationTree) Breadcrumb(id string) ([]Location, error) {
	if _, ok := t.byID[id]; !ok {
		return nil, ErrLocationNotFound
	}
	seen := make(map[string]bool, len(t.byID))
	var chain []Location
	for cur := id; cur != "" && !seen[cur]; cur = t.parentOf(cur) {
		seen[cur] = true
		chain = append(chain, t.byID[cur])
	}
	for i, j := 0, len(chain)-1; i < j; i, j = i+1, j-1 {
		chain[i], chain[j] = chain[j], chain[i]
	}
	return chain, nil
}

// Path renders the breadcrumb of id joined by sep. Unknown ids yield "".
func (t *LocationTree) Path(id, sep string) string {
	chain, err := t.Breadcrumb(id)
	if err != nil {
		return ""
	}
	names := make([]string, len(chain))
	for i, l := range chain {
		names[i] = l.Name
	}
	return strings.Join(names, sep)
}

// Children returns the direct children of id in name order.
func (t *LocationTree) Children(id string) []Location {
	out := make([]Location, 0, len(t.children[id]))
	for _, c := range t.children[id] {
		out = append(out, t.byID[c])
	}
	return out
}

// Descendants returns every location below id, excluding id itself.
func (t *LocationTree) Descendants(id string) []string {
	var out []string
	seen := map[string]bool{id: true}
	queue := append([]string(nil), t.children[id]...)
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		if seen[cur] {
			continue
		}
		seen[cur] = true
		out = append(out, cur)
		queue = append(queue, t.children[cur]...)
	}
	return out
}

// IsDescendant reports whether id sits anywhere below ancestor.
func (t *LocationTree) IsDescendant(ancestor, id string) bool {
	for _, d := range t.Descendants(ancestor) {
		if d == id {
			return true
		}
	}
	return false
}

// ValidateParent checks that parentID may become the parent of id.
// An empty parentID makes id a root. id may be empty for a location
// that does not exist yet.
func (t *LocationTree) ValidateParent(id, parentID string) error {
	if parentID == "" {
		return nil
	}
	if _, ok := t.byID[parentID]; !ok {
		return ErrLocationNotFound
	}
	if id == "" {
		return nil
	}
	if parentID == id || t.IsDescendant(id, parentID) {
		return ErrLocationCycle
	}
	return nil
}

// Nested returns the forest of locations. Nodes trapped in a stored cycle,
// which have no reachable root, are appended as extra roots.
func (t *LocationTree) Nested() []*LocationNode {
	seen := make(map[string]bool, len(t.byID))
	var build func(id string) *LocationNode
	build = func(id string) *LocationNode {
		seen[id] = true
		node := &LocationNode{Location: t.byID[id], Children: []*LocationNode{}}
		for _, c := range t.children[id] {
			if !seen[c] {
				node.Children = append(node.Children, build(c))
			}
		}
		return node
	}

	roots := []*LocationNode{}
	for _, id := range t.children[""] {
		roots = append(roots, build(id))
	}
	if len(seen) < len(t.byID) {
		var rest []string
		for id := range t.byID {
			if !seen[id] {
				rest = append(rest, id)
			}
		}
		sort.Strings(rest)
		for _, id := range rest {
			if !seen[id] {
				roots = append(roots, build(id))
			}
		}
	}
	return roots
}

// Flatten walks the forest depth first, recording depth and full path.
func (t *LocationTree) Flatten() []FlatLocation {
	var out []FlatLocation
	var walk func(nodes []*LocationNode, depth int, prefix string)
	walk = func(nodes []*LocationNode, depth int, prefix string) {
		for _, n := range nodes {
			path := n.Name
			if prefix != "" {
				path = prefix + PathSeparator + n.Name
			}
			out = append(out, FlatLocation{Location: n.Location, Depth: depth, Path: path})
			walk(n.Children, depth+1, path)
		}
	}
	walk(t.Nested(), 0, "")
	return out
}

// FindByPath resolves a chain of names from a root downwards, matching
// case-insensitively.
func (t *LocationTree) FindByPath(names []string) (Location, bool) {
	parent := ""
	var found Location
	for _, name := range names {
		name = strings.TrimSpace(name)
		match := ""
		for _, c := range t.children[parent] {
			if strings.EqualFold(t.byID[c].Name, name) {
				match = c
				break
			}
		}
		if match == "" {
			return Location{}, false
		}
		found = t.byID[match]
		parent = match
	}
	return found, parent != ""
}

// SplitPath splits "A > B > C" into trimmed, non-empty names.
func SplitPath(path string) []string {
	parts := strings.Split(path, strings.TrimSpace(PathSeparator))
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
