// Package pkgset maintains the ordered, deduplicated set of packages to
// install.
package pkgset

// Set is an ordered package list with first-seen deduplication. Names added
// first keep their position; later duplicates are dropped. This keeps the
// curated base packages ahead of dependencies discovered from recipes.
type Set struct {
	names []string
	seen  map[string]struct{}
}

// New returns a Set seeded with the given names, in order, deduplicated.
func New(names ...string) *Set {
	s := &Set{seen: make(map[string]struct{})}
	s.Add(names...)
	return s
}

// Add appends names that have not been seen before. Empty names are ignored.
func (s *Set) Add(names ...string) {
	for _, name := range names {
		if name == "" {
			continue
		}
		if _, ok := s.seen[name]; ok {
			continue
		}
		s.seen[name] = struct{}{}
		s.names = append(s.names, name)
	}
}

// Contains reports whether name is in the set.
func (s *Set) Contains(name string) bool {
	_, ok := s.seen[name]
	return ok
}

// Len returns the number of packages in the set.
func (s *Set) Len() int {
	return len(s.names)
}

// Names returns a copy of the package names in insertion order.
func (s *Set) Names() []string {
	out := make([]string, len(s.names))
	copy(out, s.names)
	return out
}

// DependencyLister is anything that declares runtime and build-time
// dependencies, such as a parsed build recipe.
type DependencyLister interface {
	RuntimeDeps() []string
	BuildDeps() []string
}

// Aggregate unions the base package list with the dependencies declared by
// each lister, preserving base-first order with stable deduplication.
func Aggregate(base []string, recipes []DependencyLister) *Set {
	s := New(base...)
	for _, r := range recipes {
		s.Add(r.RuntimeDeps()...)
		s.Add(r.BuildDeps()...)
	}
	return s
}
