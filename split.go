package dsconv

// Per-split traversal, conversion and commit.

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
)

// DefaultSplitDirPrefix reflects the VisDrone release naming convention: each
// split lives in a "{prefix}-{split}" directory under the source root.
const DefaultSplitDirPrefix = "VisDrone2019-DET"

// DimensionReader resolves the pixel dimensions of the image at path.
type DimensionReader func(path string) (width, height int, err error)

// ProgressFunc observes per-split progress. done counts images that reached a
// final outcome (processed or skipped) out of total.
type ProgressFunc func(split string, done, total int)

// SplitResult is the outcome tally for one split.
type SplitResult struct {
	Processed int // Images committed to the output corpus.
	Skipped   int // Images excluded: unreadable, unlabelled or fully filtered.
}

// Add accumulates o into r.
func (r *SplitResult) Add(o SplitResult) {
	r.Processed += o.Processed
	r.Skipped += o.Skipped
}

// SplitProcessor converts one named split end to end: it walks the split's
// image directory, converts the matching annotation files and commits the
// surviving (image, label) pairs into the output tree.
type SplitProcessor struct {
	SourceRoot     string
	OutputRoot     string
	SplitDirPrefix string          // Defaults to DefaultSplitDirPrefix.
	Converter      Converter
	Dimensions     DimensionReader // Defaults to ReadImageDimensions.
	NumWorkers     int             // Defaults to twice the CPU count.
	Progress       ProgressFunc    // Optional observer, invoked per image.
}

// Process converts the named split and returns its tally. A split whose image
// directory does not exist yields a zero result and no error; failures of
// individual images are absorbed into the skipped count.
func (p *SplitProcessor) Process(split string) (SplitResult, error) {
	prefix := p.SplitDirPrefix
	if prefix == "" {
		prefix = DefaultSplitDirPrefix
	}
	splitDir := filepath.Join(p.SourceRoot, prefix+"-"+split)
	imagesDir := filepath.Join(splitDir, "images")
	annotationsDir := filepath.Join(splitDir, "annotations")

	if info, err := os.Stat(imagesDir); err != nil || !info.IsDir() {
		log.Printf("Split %q has no image directory at %q, skipping", split, imagesDir)
		return SplitResult{}, nil
	}

	outImages := filepath.Join(p.OutputRoot, "images", split)
	outLabels := filepath.Join(p.OutputRoot, "labels", split)
	for _, dir := range []string{outImages, outLabels} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return SplitResult{}, fmt.Errorf("cannot create directory %q: %v", dir, err)
		}
	}

	images, err := filesByExtInDir(imagesDir, ".jpg")
	if err != nil {
		return SplitResult{}, err
	}

	dimensions := p.Dimensions
	if dimensions == nil {
		dimensions = ReadImageDimensions
	}

	// Bound the number of images decoded concurrently.
	numWorkers := p.NumWorkers
	if numWorkers <= 0 {
		numWorkers = 2 * runtime.NumCPU()
	}
	if numWorkers > len(images) {
		numWorkers = len(images)
	}

	workQueue := make(chan string, 2*numWorkers)
	outcomes := make(chan bool, 2*numWorkers)

	var wg sync.WaitGroup
	wg.Add(numWorkers)
	for i := 0; i < numWorkers; i++ {
		go func() {
			defer wg.Done()
			for imagePath := range workQueue {
				outcomes <- p.processImage(imagePath, annotationsDir, outImages, outLabels, dimensions)
			}
		}()
	}

	// A single collector owns the counters; workers only report outcomes.
	var result SplitResult
	var wgCollect sync.WaitGroup
	wgCollect.Add(1)
	go func() {
		defer wgCollect.Done()
		done := 0
		for processed := range outcomes {
			if processed {
				result.Processed++
			} else {
				result.Skipped++
			}
			done++
			if p.Progress != nil {
				p.Progress(split, done, len(images))
			}
		}
	}()

	for _, path := range images {
		workQueue <- path
	}
	close(workQueue)
	wg.Wait()
	close(outcomes)
	wgCollect.Wait()

	return result, nil
}

// processImage converts a single image and its annotation file. Returns true
// when the pair was committed to the output corpus. All failures are local to
// the image: they are logged and turn into a skip.
func (p *SplitProcessor) processImage(imagePath, annotationsDir, outImages, outLabels string,
	dimensions DimensionReader) bool {

	width, height, err := dimensions(imagePath)
	if err != nil {
		log.Printf("Cannot read image %q, skipping: %v", imagePath, err)
		return false
	}

	_, baseNoExt, _, err := splitPath(imagePath)
	if err != nil {
		log.Printf("Skipping %q: %v", imagePath, err)
		return false
	}

	// Annotation files carry the image base name with a .txt extension.
	lines, err := readLines(filepath.Join(annotationsDir, baseNoExt+".txt"))
	if err != nil {
		log.Printf("No readable annotations for %q, skipping: %v", imagePath, err)
		return false
	}

	records := make([]string, 0, len(lines))
	for _, line := range lines {
		if res := p.Converter.Convert(line, width, height); res.Accepted() {
			records = append(records, res.Annotation.String())
		}
	}

	// An image with no surviving annotations is excluded entirely.
	if len(records) == 0 {
		return false
	}

	// Commit the pair. Nothing may be left behind for an image that fails
	// here, so a failed label write removes the copied image again.
	outImagePath := filepath.Join(outImages, filepath.Base(imagePath))
	if err := copyFile(imagePath, outImagePath); err != nil {
		log.Printf("Cannot copy %q, skipping: %v", imagePath, err)
		return false
	}

	labels := strings.Join(records, "\n") + "\n"
	outLabelPath := filepath.Join(outLabels, baseNoExt+".txt")
	if err := os.WriteFile(outLabelPath, []byte(labels), 0644); err != nil {
		log.Printf("Cannot write labels for %q, skipping: %v", imagePath, err)
		_ = os.Remove(outImagePath)
		return false
	}

	return true
}
