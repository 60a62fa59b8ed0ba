package dsconv

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeConvertedPair places a committed (image, label) pair into an output
// corpus tree, as the split processor would.
func writeConvertedPair(t *testing.T, root, split, name, labels string) {
	t.Helper()

	imagesDir := filepath.Join(root, "images", split)
	labelsDir := filepath.Join(root, "labels", split)
	require.NoError(t, os.MkdirAll(imagesDir, 0755))
	require.NoError(t, os.MkdirAll(labelsDir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(imagesDir, name+".jpg"), []byte("jpeg-bytes:"+name), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(labelsDir, name+".txt"), []byte(labels), 0644))
}

func TestTFRecordExport(t *testing.T) {
	t.Parallel()

	outputRoot := t.TempDir()
	writeConvertedPair(t, outputRoot, "train", "0000001", "0 0.500000 0.500000 0.250000 0.250000\n")
	writeConvertedPair(t, outputRoot, "train", "0000002",
		"2 0.250000 0.250000 0.100000 0.100000\n3 0.750000 0.750000 0.200000 0.200000\n")

	e := &TFRecordExporter{
		OutputRoot: outputRoot,
		Classes:    DefaultClassMap(),
		Dimensions: fixedDimensions(1280, 720),
	}

	recordPath := filepath.Join(t.TempDir(), "train.tfrecord")
	labelMapPath := filepath.Join(t.TempDir(), "label_map.pbtxt")
	require.NoError(t, e.Export("train", recordPath, labelMapPath, 1))

	info, err := os.Stat(recordPath)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))

	// The label map shifts target IDs by one, since TFRecord label maps are
	// 1-based.
	data, err := os.ReadFile(labelMapPath)
	require.NoError(t, err)
	want := "item {\n  id: 1\n  name: \"person\"\n}\n" +
		"item {\n  id: 3\n  name: \"car\"\n}\n" +
		"item {\n  id: 4\n  name: \"truck\"\n}\n"
	assert.Equal(t, want, string(data))
}

func TestTFRecordExportSharded(t *testing.T) {
	t.Parallel()

	outputRoot := t.TempDir()
	for _, name := range []string{"0000001", "0000002", "0000003", "0000004"} {
		writeConvertedPair(t, outputRoot, "val", name, "0 0.500000 0.500000 0.250000 0.250000\n")
	}

	e := &TFRecordExporter{
		OutputRoot: outputRoot,
		Classes:    DefaultClassMap(),
		Dimensions: fixedDimensions(1280, 720),
	}

	recordsDir := t.TempDir()
	recordPath := filepath.Join(recordsDir, "val.tfrecord")
	labelMapPath := filepath.Join(recordsDir, "label_map.pbtxt")
	require.NoError(t, e.Export("val", recordPath, labelMapPath, 2))

	for _, suffix := range []string{"-00000-of-00002", "-00001-of-00002"} {
		info, err := os.Stat(recordPath + suffix)
		require.NoError(t, err)
		assert.Greater(t, info.Size(), int64(0))
	}
}
