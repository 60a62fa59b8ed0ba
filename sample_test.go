package dsconv

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateSampleDataset(t *testing.T) {
	t.Parallel()

	outputRoot := t.TempDir()
	err := GenerateSampleDataset(SampleConfig{
		OutputRoot: outputRoot,
		NumImages:  10,
		Width:      64,
		Height:     48,
		Seed:       1,
	})
	require.NoError(t, err)

	wantCounts := map[string]int{"train": 7, "val": 2, "test": 1}
	for split, want := range wantCounts {
		images, err := filesByExtInDir(filepath.Join(outputRoot, "images", split), ".jpg")
		require.NoError(t, err)
		assert.Len(t, images, want, "split %s", split)

		// Every image has a matching label file with valid lines.
		for _, imagePath := range images {
			_, baseNoExt, _, err := splitPath(imagePath)
			require.NoError(t, err)

			lines, err := readLines(filepath.Join(outputRoot, "labels", split, baseNoExt+".txt"))
			require.NoError(t, err)
			require.NotEmpty(t, lines)

			for _, line := range lines {
				a, err := parseLabelLine(line)
				require.NoError(t, err)
				assert.GreaterOrEqual(t, a.ClassID, 0)
				assert.Less(t, a.ClassID, 13)
				assert.InDelta(t, 0.5, a.CenterX, 0.5)
				assert.InDelta(t, 0.5, a.CenterY, 0.5)
				assert.Greater(t, a.Width, 0.0)
				assert.LessOrEqual(t, a.Width, 1.0)
				assert.Greater(t, a.Height, 0.0)
				assert.LessOrEqual(t, a.Height, 1.0)
			}
		}
	}

	data, err := os.ReadFile(filepath.Join(outputRoot, ManifestFileName))
	require.NoError(t, err)
	assert.Contains(t, string(data), "nc: 13")
	assert.Contains(t, string(data), "0: person")
	assert.Contains(t, string(data), "12: turkey")
}

func TestGenerateSampleDatasetDeterministicLabels(t *testing.T) {
	t.Parallel()

	generate := func(root string) map[string]string {
		err := GenerateSampleDataset(SampleConfig{
			OutputRoot: root,
			NumImages:  6,
			Width:      32,
			Height:     32,
			Seed:       42,
		})
		require.NoError(t, err)

		labels := make(map[string]string)
		for _, split := range []string{"train", "val", "test"} {
			files, err := filesByExtInDir(filepath.Join(root, "labels", split), ".txt")
			require.NoError(t, err)
			for _, path := range files {
				data, err := os.ReadFile(path)
				require.NoError(t, err)
				labels[split+"/"+filepath.Base(path)] = string(data)
			}
		}
		return labels
	}

	a := generate(t.TempDir())
	b := generate(t.TempDir())
	assert.Empty(t, cmp.Diff(a, b))
}
