package dsconv

// The source to target class taxonomy mapping.

import "sort"

// ClassMap is an immutable mapping from source (VisDrone) class IDs to the
// sparse target taxonomy used by the detector. Source classes without an
// entry are dropped during conversion.
type ClassMap struct {
	targets map[int]int
	names   map[int]string
	count   int
}

// NewClassMap builds a ClassMap from a source-to-target ID table and the
// names of the target IDs. count is the number of slots in the target
// taxonomy; it may exceed len(names) when the target IDs are sparse.
//
// The input maps are copied, so the returned value is unaffected by later
// modification of the arguments.
func NewClassMap(targets map[int]int, names map[int]string, count int) ClassMap {
	t := make(map[int]int, len(targets))
	for k, v := range targets {
		t[k] = v
	}
	n := make(map[int]string, len(names))
	for k, v := range names {
		n[k] = v
	}
	return ClassMap{targets: t, names: n, count: count}
}

// DefaultClassMap returns the standard VisDrone mapping:
//
//	1 (pedestrian) -> 0 (person)
//	2 (people)     -> 0 (person)
//	4 (car)        -> 2 (car)
//	5 (van)        -> 3 (truck)
//	6 (truck)      -> 3 (truck)
//	9 (bus)        -> 3 (truck)
//
// Ignored regions, bicycles, tricycles and motorcycles have no mapping and
// their annotations are filtered out. The target IDs index into a larger
// shared taxonomy, so they are intentionally sparse: slot 1 is unused here.
func DefaultClassMap() ClassMap {
	return NewClassMap(
		map[int]int{1: 0, 2: 0, 4: 2, 5: 3, 6: 3, 9: 3},
		map[int]string{0: "person", 2: "car", 3: "truck"},
		4,
	)
}

// fullTaxonomy lists the complete detector taxonomy in slot order. The
// conversion pipeline emits only the subset named in DefaultClassMap; the
// synthetic generator exercises the full range.
var fullTaxonomy = []string{
	"person", "car", "van", "truck", "bus", "motorcycle", "bicycle",
	"deer", "elk", "wild_boar", "coyote", "bear", "turkey",
}

// FullClassMap returns the identity taxonomy over all detector classes. It
// has no source mappings; it exists to describe synthetically generated
// datasets that already use target IDs.
func FullClassMap() ClassMap {
	names := make(map[int]string, len(fullTaxonomy))
	for i, name := range fullTaxonomy {
		names[i] = name
	}
	return NewClassMap(nil, names, len(fullTaxonomy))
}

// Target looks up the target class ID for a source class ID.
func (m ClassMap) Target(sourceID int) (int, bool) {
	id, ok := m.targets[sourceID]
	return id, ok
}

// Name returns the name of the given target class ID, or the empty string if
// the ID is not part of the target taxonomy.
func (m ClassMap) Name(targetID int) string {
	return m.names[targetID]
}

// TargetIDs returns the named target class IDs in ascending order.
func (m ClassMap) TargetIDs() []int {
	ids := make([]int, 0, len(m.names))
	for id := range m.names {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

// Count is the number of slots in the target taxonomy, including unused ones.
func (m ClassMap) Count() int {
	return m.count
}

// isZero reports whether m is the uninitialised zero value.
func (m ClassMap) isZero() bool {
	return m.targets == nil && m.names == nil
}
