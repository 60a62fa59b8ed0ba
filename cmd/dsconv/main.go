// Converts VisDrone detection annotations into a normalized, center-based
// YOLO corpus with the rangefinder class taxonomy, with optional TFRecord
// export of the result.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/skyrange/dsconv"
)

var (
	sourceRoot     string   // The raw VisDrone dataset root.
	outputRoot     string   // The output directory for the converted corpus.
	splitNames     []string // The splits to process.
	splitDirPrefix string   // The split directory naming prefix.
	minBoxSize     int      // The minimum box width and height in pixels.
	numWorkers     int      // The number of concurrent per-image workers.

	exportTFRecords bool // Additionally export the converted splits as TFRecords.
	numShardFiles   int  // The number of shard files per exported split.

	progressEvery int // Progress log interval in images.
)

func init() {
	flag.Usage = func() {
		_, _ = fmt.Fprintf(os.Stderr, "Usage of %s:\n", filepath.Base(os.Args[0]))
		_, _ = fmt.Fprintln(os.Stderr,
			"  Converts a VisDrone annotation corpus into a normalized YOLO dataset.")
		_, _ = fmt.Fprintln(os.Stderr)
		flag.PrintDefaults()
	}

	printUsageAndExit := func(msg ...interface{}) {
		log.Print(msg...)
		flag.Usage()
		os.Exit(1)
	}

	flag.StringVar(&sourceRoot, "source", "datasets/visdrone_raw",
		"The `path` to the raw VisDrone dataset root")
	flag.StringVar(&outputRoot, "output", "datasets/visdrone",
		"The `path` to the output directory for the converted dataset")
	splits := flag.String("splits", strings.Join(dsconv.DefaultSplits(), ","),
		"The comma-separated split `names` to process")
	flag.StringVar(&splitDirPrefix, "split-prefix", dsconv.DefaultSplitDirPrefix,
		"The naming `prefix` of the per-split directories under the source root")
	flag.IntVar(&minBoxSize, "min-box-size", dsconv.DefaultMinBoxSize,
		"The minimum bounding box width and height in `pixels`")
	flag.IntVar(&numWorkers, "workers", 0,
		"The `number` of concurrent image workers (0 selects twice the CPU count)")
	flag.BoolVar(&exportTFRecords, "tfrecord", false,
		"Additionally export each converted split as TFRecord files under the output root")
	flag.IntVar(&numShardFiles, "num-shards", 1,
		"The number of TFRecord shard files to create per split")
	flag.IntVar(&progressEvery, "progress-every", 500,
		"Log progress every `n` images (0 disables progress logging)")

	flag.Parse()

	if sourceRoot == "" || outputRoot == "" {
		printUsageAndExit("Missing source or output path argument")
	}
	sourceRoot = filepath.Clean(sourceRoot)
	outputRoot = filepath.Clean(outputRoot)
	if sourceRoot == outputRoot {
		printUsageAndExit("The source and output paths cannot be identical")
	}

	for _, name := range strings.Split(*splits, ",") {
		name = strings.TrimSpace(name)
		if name == "" {
			printUsageAndExit("Invalid value in -splits: ", *splits)
		}
		splitNames = append(splitNames, name)
	}

	if minBoxSize < 0 {
		printUsageAndExit("Invalid -min-box-size: ", minBoxSize)
	}
	if numShardFiles < 1 {
		printUsageAndExit("Invalid -num-shards: ", numShardFiles)
	}
}

func main() {
	classes := dsconv.DefaultClassMap()

	log.Printf("Converting %s -> %s, splits %v", sourceRoot, outputRoot, splitNames)
	for _, sourceID := range []int{1, 2, 4, 5, 6, 9} {
		targetID, _ := classes.Target(sourceID)
		log.Printf("  class %d -> %d (%s)", sourceID, targetID, classes.Name(targetID))
	}

	var progress dsconv.ProgressFunc
	if progressEvery > 0 {
		progress = func(split string, done, total int) {
			if done%progressEvery == 0 || done == total {
				log.Printf("Split %s: %d/%d images", split, done, total)
			}
		}
	}

	result, err := dsconv.Run(dsconv.RunConfig{
		SourceRoot:     sourceRoot,
		OutputRoot:     outputRoot,
		Splits:         splitNames,
		SplitDirPrefix: splitDirPrefix,
		Classes:        classes,
		MinBoxSize:     minBoxSize,
		NumWorkers:     numWorkers,
		Progress:       progress,
	})
	if err != nil {
		log.Fatal("Conversion failed: ", err)
	}

	log.Printf("Total processed: %d, total skipped: %d",
		result.Total.Processed, result.Total.Skipped)

	if !exportTFRecords {
		return
	}

	recordsDir := filepath.Join(outputRoot, "tfrecords")
	if err := os.MkdirAll(recordsDir, 0755); err != nil {
		log.Fatal("Cannot create the TFRecord directory: ", err)
	}

	exporter := &dsconv.TFRecordExporter{OutputRoot: outputRoot, Classes: classes}
	labelMapPath := filepath.Join(recordsDir, "label_map.pbtxt")
	for _, split := range splitNames {
		recordPath := filepath.Join(recordsDir, split+".tfrecord")
		if err := exporter.Export(split, recordPath, labelMapPath, numShardFiles); err != nil {
			log.Fatal("TFRecord export failed: ", err)
		}
		log.Printf("Exported split %s to %s", split, recordPath)
	}
}
