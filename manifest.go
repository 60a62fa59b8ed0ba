package dsconv

// Dataset manifest emission.

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"
)

// ManifestFileName is the name of the manifest file written at the output
// root.
const ManifestFileName = "dataset.yaml"

// Manifest describes a converted corpus for the downstream trainer: the
// absolute output root, the relative image directory per split and the sparse
// target class table.
type Manifest struct {
	Root    string
	Splits  []string
	Classes ClassMap
}

// NewManifest returns a Manifest for the corpus at root.
func NewManifest(root string, splits []string, classes ClassMap) Manifest {
	return Manifest{Root: root, Splits: splits, Classes: classes}
}

// MarshalYAML emits the manifest as a mapping with a fixed key order: path,
// one entry per split in input order, nc and the names table in ascending ID
// order. The order is fixed so that repeated runs produce identical bytes.
func (m Manifest) MarshalYAML() (interface{}, error) {
	root, err := filepath.Abs(m.Root)
	if err != nil {
		return nil, err
	}

	doc := &yaml.Node{Kind: yaml.MappingNode}
	scalar := func(v string) *yaml.Node {
		return &yaml.Node{Kind: yaml.ScalarNode, Value: v}
	}
	intScalar := func(v int) *yaml.Node {
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!int", Value: strconv.Itoa(v)}
	}
	add := func(key string, value *yaml.Node) {
		doc.Content = append(doc.Content, scalar(key), value)
	}

	add("path", scalar(root))
	for _, split := range m.Splits {
		add(split, scalar("images/"+split))
	}
	add("nc", intScalar(m.Classes.Count()))

	names := &yaml.Node{Kind: yaml.MappingNode}
	for _, id := range m.Classes.TargetIDs() {
		names.Content = append(names.Content, intScalar(id), scalar(m.Classes.Name(id)))
	}
	add("names", names)

	return doc, nil
}

// WriteFile serialises the manifest to path.
func (m Manifest) WriteFile(path string) error {
	enc, err := yaml.Marshal(m)
	if err != nil {
		return fmt.Errorf("failed to serialise the manifest: %v", err)
	}
	if err := os.WriteFile(path, enc, 0644); err != nil {
		return fmt.Errorf("cannot write file %q: %v", path, err)
	}
	return nil
}
