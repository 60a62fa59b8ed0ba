// Generates a synthetic placeholder dataset in the converter's output layout,
// for exercising the training workflow before real annotated data exists.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/skyrange/dsconv"
)

var (
	outputRoot  string
	numImages   int
	imageWidth  int
	imageHeight int
	seed        int64
	jpegQuality int
)

func init() {
	flag.Usage = func() {
		_, _ = fmt.Fprintf(os.Stderr, "Usage of %s:\n", filepath.Base(os.Args[0]))
		_, _ = fmt.Fprintln(os.Stderr,
			"  Creates a synthetic YOLO-format dataset with noise images and random labels.")
		_, _ = fmt.Fprintln(os.Stderr)
		flag.PrintDefaults()
	}

	flag.StringVar(&outputRoot, "output", "datasets/sample",
		"The `path` to the output directory for the generated dataset")
	flag.IntVar(&numImages, "num-images", 100,
		"The total `number` of images to generate across all splits")
	flag.IntVar(&imageWidth, "width", 1280, "The image width in `pixels`")
	flag.IntVar(&imageHeight, "height", 720, "The image height in `pixels`")
	flag.Int64Var(&seed, "seed", 0,
		"The random `seed`; equal seeds reproduce the generated labels")
	flag.IntVar(&jpegQuality, "jpeg-quality", 85,
		"The quality to use when encoding JPEGs [1, 100]")

	flag.Parse()

	if outputRoot == "" {
		log.Print("Missing output path argument")
		flag.Usage()
		os.Exit(1)
	}
	outputRoot = filepath.Clean(outputRoot)

	if jpegQuality < 1 || jpegQuality > 100 {
		jpegQuality = 85
		log.Print("Invalid JPEG quality, setting it to ", jpegQuality)
	}
}

func main() {
	err := dsconv.GenerateSampleDataset(dsconv.SampleConfig{
		OutputRoot:  outputRoot,
		NumImages:   numImages,
		Width:       imageWidth,
		Height:      imageHeight,
		Seed:        seed,
		JPEGQuality: jpegQuality,
	})
	if err != nil {
		log.Fatal("Sample generation failed: ", err)
	}
}
