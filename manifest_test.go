package dsconv

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManifestWriteFile(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	m := NewManifest(root, []string{"train", "val"}, DefaultClassMap())

	path := filepath.Join(root, ManifestFileName)
	require.NoError(t, m.WriteFile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	want := fmt.Sprintf(`path: %s
train: images/train
val: images/val
nc: 4
names:
    0: person
    2: car
    3: truck
`, root)
	assert.Equal(t, want, string(data))
}

func TestManifestDeterministic(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	m := NewManifest(root, []string{"train"}, DefaultClassMap())

	pathA := filepath.Join(root, "a.yaml")
	pathB := filepath.Join(root, "b.yaml")
	require.NoError(t, m.WriteFile(pathA))
	require.NoError(t, m.WriteFile(pathB))

	a, err := os.ReadFile(pathA)
	require.NoError(t, err)
	b, err := os.ReadFile(pathB)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestManifestFullTaxonomy(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	m := NewManifest(root, []string{"train", "val", "test"}, FullClassMap())

	path := filepath.Join(root, ManifestFileName)
	require.NoError(t, m.WriteFile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "nc: 13")
	assert.Contains(t, string(data), "test: images/test")
	assert.Contains(t, string(data), "12: turkey")
}
