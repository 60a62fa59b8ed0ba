package dsconv

// TFRecord export of a converted corpus.

import (
	"fmt"
	"io"
	"log"
	"math"
	"os"
	"path/filepath"

	"github.com/golang/protobuf/proto"
	"github.com/ryszard/tfutils/go/example"
	"github.com/ryszard/tfutils/go/tfrecord"
	"github.com/ryszard/tfutils/proto/tensorflow/core/example" // package tensorflow
)

// TFFeatureMap maps feature names to their values. Values must be convertible
// to tensorflow.Feature.
type TFFeatureMap map[string]interface{}

// TFRecordExporter serialises the committed (image, label) pairs of a
// converted corpus into sharded TFRecord files for TensorFlow object
// detection trainers.
type TFRecordExporter struct {
	OutputRoot string // The converted corpus root.
	Classes    ClassMap
	Dimensions DimensionReader // Defaults to ReadImageDimensions.
}

// Export does a streaming conversion, serialisation and file write of one
// split to TFRecord files under recordPath (with "-xxxxx-of-yyyyy" suffixes
// when numShards > 1). The label map is written to labelMapPath in prototxt
// form.
//
// Images that cannot be converted are logged and skipped; they were already
// committed to the corpus, so losing one here only thins the export.
func (e *TFRecordExporter) Export(split, recordPath, labelMapPath string, numShards int) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("conversion to TensorFlow Example failed: %v", r)
		}
	}()

	imagesDir := filepath.Join(e.OutputRoot, "images", split)
	labelsDir := filepath.Join(e.OutputRoot, "labels", split)

	images, err := filesByExtInDir(imagesDir, ".jpg")
	if err != nil {
		return err
	}

	if numShards <= 0 {
		numShards = 1
	}
	dimensions := e.Dimensions
	if dimensions == nil {
		dimensions = ReadImageDimensions
	}

	fmtShardSuffix := func(idx int) string {
		return fmt.Sprintf("-%05d-of-%05d", idx, numShards)
	}

	var shardFile *os.File
	shardSize := int(math.Ceil(float64(len(images)) / float64(numShards)))
	shardIdx := -1

	// Convert and serialise one image at a time.
	for i, imagePath := range images {
		// Check if a new shard file needs to be opened for writing.
		if shardSize > 0 && i%shardSize == 0 {
			shardIdx++

			if shardFile != nil {
				_ = shardFile.Close()
				shardFile = nil
			}

			shardPath := recordPath
			if numShards > 1 {
				shardPath += fmtShardSuffix(shardIdx)
			}
			f, err := os.Create(shardPath)
			if err != nil {
				return fmt.Errorf("failed to create shard at %q: %v", shardPath, err)
			}
			shardFile = f
		}

		features, err := e.imageFeatures(imagePath, labelsDir, dimensions)
		if err != nil {
			log.Printf("Failed to convert %q: %v", imagePath, err)
			continue
		}

		if err := writeTFRecordExample(shardFile, example.New(features)); err != nil {
			_ = shardFile.Close()
			return fmt.Errorf("failed to write example for %q: %v", imagePath, err)
		}
	}

	if shardFile != nil {
		_ = shardFile.Close()
	}

	return writeTFLabelMap(labelMapPath, e.Classes)
}

// imageFeatures builds the tensorflow.Example feature map for one committed
// image and its label file. The normalized center boxes are converted back to
// corner form, which is what the TensorFlow object detection readers expect.
func (e *TFRecordExporter) imageFeatures(imagePath, labelsDir string, dimensions DimensionReader) (
	TFFeatureMap, error) {

	width, height, err := dimensions(imagePath)
	if err != nil {
		return nil, fmt.Errorf("failed to decode the image metadata: %v", err)
	}

	imgData, err := os.ReadFile(imagePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read the image: %v", err)
	}

	_, baseNoExt, _, err := splitPath(imagePath)
	if err != nil {
		return nil, err
	}
	lines, err := readLines(filepath.Join(labelsDir, baseNoExt+".txt"))
	if err != nil {
		return nil, err
	}

	xmins := make([]float32, 0, len(lines))
	ymins := make([]float32, 0, len(lines))
	xmaxs := make([]float32, 0, len(lines))
	ymaxs := make([]float32, 0, len(lines))
	classes := make([]string, 0, len(lines))
	classIDs := make([]int64, 0, len(lines))
	for _, line := range lines {
		a, err := parseLabelLine(line)
		if err != nil {
			return nil, err
		}

		xmins = append(xmins, float32(a.CenterX-a.Width/2))
		ymins = append(ymins, float32(a.CenterY-a.Height/2))
		xmaxs = append(xmaxs, float32(a.CenterX+a.Width/2))
		ymaxs = append(ymaxs, float32(a.CenterY+a.Height/2))
		classes = append(classes, e.Classes.Name(a.ClassID))
		// TFRecord label maps are 1-based; ID 0 is reserved for background.
		classIDs = append(classIDs, int64(a.ClassID)+1)
	}

	f := make(TFFeatureMap, 16)
	f["image/height"] = height
	f["image/width"] = width
	f["image/filename"] = imagePath
	f["image/source_id"] = imagePath
	f["image/encoded"] = imgData
	f["image/format"] = "jpeg"
	f["image/object/bbox/xmin"] = xmins
	f["image/object/bbox/ymin"] = ymins
	f["image/object/bbox/xmax"] = xmaxs
	f["image/object/bbox/ymax"] = ymaxs
	f["image/object/class/text"] = classes
	f["image/object/class/label"] = classIDs

	return f, nil
}

// writeTFRecordExample serialises the example and writes it as a TFRecord
// to w.
func writeTFRecordExample(w io.Writer, e *tensorflow.Example) error {
	enc, err := proto.Marshal(e)
	if err != nil {
		return err
	}

	return tfrecord.Write(w, enc)
}

// writeTFLabelMap writes the class table to path as a TensorFlow object
// detection label map in prototxt form, with the 1-based ID shift applied.
func writeTFLabelMap(path string, classes ClassMap) (err error) {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create the label map file %q: %v", path, err)
	}
	defer closeWithErrCheck(file, &err)

	for _, id := range classes.TargetIDs() {
		_, err := fmt.Fprintf(file, "item {\n  id: %d\n  name: %q\n}\n", id+1, classes.Name(id))
		if err != nil {
			return err
		}
	}

	return nil
}
