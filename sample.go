package dsconv

// Synthetic placeholder dataset generation.
//
// The generator shares the output layout and label line format with the
// conversion pipeline, which makes it a drop-in stand-in for a real corpus
// when exercising the downstream training workflow.

import (
	"fmt"
	"image"
	"image/color"
	"log"
	"math"
	"math/rand"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
)

// SampleConfig controls synthetic dataset generation.
type SampleConfig struct {
	OutputRoot  string
	NumImages   int   // Total across all splits. Defaults to 100.
	Width       int   // Image width in pixels. Defaults to 1280.
	Height      int   // Image height in pixels. Defaults to 720.
	Seed        int64 // Seed for the random source; equal seeds reproduce the labels.
	JPEGQuality int   // Defaults to 85.
}

// sampleSplitCounts divides numImages 70/20/10 across train, val and test,
// with test taking the remainder.
func sampleSplitCounts(numImages int) []struct {
	split string
	count int
} {
	train := numImages * 7 / 10
	val := numImages * 2 / 10
	return []struct {
		split string
		count int
	}{
		{"train", train},
		{"val", val},
		{"test", numImages - train - val},
	}
}

// GenerateSampleDataset writes a synthetic corpus in the converter's output
// layout: noise JPEGs under images/{split}, random label lines over the full
// taxonomy under labels/{split}, and a manifest at the output root. The
// images contain no real objects; the dataset only exists to validate
// pipeline plumbing.
func GenerateSampleDataset(cfg SampleConfig) error {
	if cfg.NumImages <= 0 {
		cfg.NumImages = 100
	}
	if cfg.Width <= 0 {
		cfg.Width = 1280
	}
	if cfg.Height <= 0 {
		cfg.Height = 720
	}
	if cfg.JPEGQuality <= 0 {
		cfg.JPEGQuality = 85
	}

	counts := sampleSplitCounts(cfg.NumImages)
	for _, c := range counts {
		for _, sub := range []string{"images", "labels"} {
			dir := filepath.Join(cfg.OutputRoot, sub, c.split)
			if err := os.MkdirAll(dir, 0755); err != nil {
				return fmt.Errorf("cannot create directory %q: %v", dir, err)
			}
		}
	}

	rng := rand.New(rand.NewSource(cfg.Seed))
	classes := FullClassMap()

	imageID := 0
	for _, c := range counts {
		for i := 0; i < c.count; i++ {
			name := fmt.Sprintf("sample_%06d", imageID)
			imageID++

			img := noiseImage(rng, cfg.Width, cfg.Height)
			imagePath := filepath.Join(cfg.OutputRoot, "images", c.split, name+".jpg")
			if err := imaging.Save(img, imagePath, imaging.JPEGQuality(cfg.JPEGQuality)); err != nil {
				return fmt.Errorf("cannot save image %q: %v", imagePath, err)
			}

			labels := sampleLabels(rng, classes)
			labelPath := filepath.Join(cfg.OutputRoot, "labels", c.split, name+".txt")
			if err := os.WriteFile(labelPath, []byte(labels), 0644); err != nil {
				return fmt.Errorf("cannot write labels %q: %v", labelPath, err)
			}

			if imageID%20 == 0 {
				log.Printf("Created %d/%d samples", imageID, cfg.NumImages)
			}
		}
	}

	splits := make([]string, len(counts))
	for i, c := range counts {
		splits[i] = c.split
	}
	manifest := NewManifest(cfg.OutputRoot, splits, classes)
	if err := manifest.WriteFile(filepath.Join(cfg.OutputRoot, ManifestFileName)); err != nil {
		return err
	}

	log.Printf("Sample dataset created at %s (%d train, %d val, %d test)",
		cfg.OutputRoot, counts[0].count, counts[1].count, counts[2].count)
	return nil
}

// noiseImage returns a width x height image of random mid-range pixels.
// Values stay in [50, 200) to avoid pure black and white.
func noiseImage(rng *rand.Rand, width, height int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.SetNRGBA(x, y, color.NRGBA{
				R: uint8(50 + rng.Intn(150)),
				G: uint8(50 + rng.Intn(150)),
				B: uint8(50 + rng.Intn(150)),
				A: 255,
			})
		}
	}
	return img
}

// sampleLabels generates one to five random label lines over the full
// taxonomy, clamped so every box lies inside the frame.
func sampleLabels(rng *rand.Rand, classes ClassMap) string {
	numBoxes := 1 + rng.Intn(5)
	lines := make([]string, 0, numBoxes)

	for i := 0; i < numBoxes; i++ {
		cx := 0.1 + 0.8*rng.Float64()
		cy := 0.1 + 0.8*rng.Float64()
		w := 0.05 + 0.25*rng.Float64()
		h := 0.05 + 0.35*rng.Float64()

		// A centered box of width w fits iff w <= 2*min(cx, 1-cx).
		if maxW := 2 * math.Min(cx, 1-cx); w > maxW {
			w = maxW
		}
		if maxH := 2 * math.Min(cy, 1-cy); h > maxH {
			h = maxH
		}

		a := NormalizedAnnotation{
			ClassID: sampleClassID(rng, classes.Count()),
			CenterX: cx,
			CenterY: cy,
			Width:   w,
			Height:  h,
		}
		lines = append(lines, a.String())
	}

	return strings.Join(lines, "\n") + "\n"
}

// sampleClassID picks a class with a distribution that favours people and
// vehicles over wildlife, mimicking real detection corpora.
func sampleClassID(rng *rand.Rand, count int) int {
	switch r := rng.Float64(); {
	case r < 0.6:
		return rng.Intn(5) // person through bus
	case r < 0.8:
		return 5 + rng.Intn(2) // motorcycle, bicycle
	default:
		return 7 + rng.Intn(count-7) // wildlife
	}
}
