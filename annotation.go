package dsconv

// VisDrone annotation parsing and the YOLO label line format.

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// SourceAnnotation is a single object record from a VisDrone annotation file.
// Coordinates are in pixels, anchored at the top-left corner of the box.
type SourceAnnotation struct {
	X, Y          int
	Width, Height int
	Score         float64 // Confidence value. Not used by the pipeline.
	ClassID       int     // VisDrone class ID.
	Truncation    int
	Occlusion     int
}

// ParseSourceAnnotation parses one line of a VisDrone annotation file.
//
// The format is CSV with at least 8 fields:
//
//	x,y,w,h,score,class,truncation,occlusion
//
// Fields beyond the eighth are ignored.
func ParseSourceAnnotation(line string) (SourceAnnotation, error) {
	a := SourceAnnotation{}

	tokens := strings.Split(strings.TrimSpace(line), ",")
	if len(tokens) < 8 {
		return a, fmt.Errorf("insufficient fields in %q", line)
	}

	intFields := []*int{&a.X, &a.Y, &a.Width, &a.Height, nil, &a.ClassID, &a.Truncation, &a.Occlusion}
	for i, dst := range intFields {
		if dst == nil {
			continue
		}
		v, err := strconv.Atoi(strings.TrimSpace(tokens[i]))
		if err != nil {
			return a, fmt.Errorf("unexpected value in %q: %v", line, err)
		}
		*dst = v
	}

	score, err := strconv.ParseFloat(strings.TrimSpace(tokens[4]), 64)
	if err != nil {
		return a, fmt.Errorf("unexpected score format in %q: %v", line, err)
	}
	a.Score = score

	return a, nil
}

// NormalizedAnnotation is one converted object record: a target class ID plus
// a center-anchored bounding box expressed as fractions of the image
// dimensions. Center coordinates are in [0, 1], width and height in (0, 1].
type NormalizedAnnotation struct {
	ClassID int
	CenterX float64
	CenterY float64
	Width   float64
	Height  float64
}

// String formats the annotation as a YOLO label line:
//
//	classID centerX centerY width height
//
// with the four coordinates rendered to six decimal places.
func (a NormalizedAnnotation) String() string {
	return fmt.Sprintf("%d %s %s %s %s", a.ClassID,
		formatCoord(a.CenterX), formatCoord(a.CenterY),
		formatCoord(a.Width), formatCoord(a.Height))
}

// formatCoord renders v with six decimal places, rounding ties away from zero.
func formatCoord(v float64) string {
	return strconv.FormatFloat(math.Round(v*1e6)/1e6, 'f', 6, 64)
}

// parseLabelLine parses a YOLO label line as written by
// NormalizedAnnotation.String.
func parseLabelLine(line string) (NormalizedAnnotation, error) {
	a := NormalizedAnnotation{}

	tokens := strings.Fields(line)
	if len(tokens) != 5 {
		return a, fmt.Errorf("unexpected field count in %q", line)
	}

	classID, err := strconv.Atoi(tokens[0])
	if err != nil {
		return a, fmt.Errorf("invalid class ID in %q: %v", line, err)
	}
	a.ClassID = classID

	coords := []*float64{&a.CenterX, &a.CenterY, &a.Width, &a.Height}
	for i, dst := range coords {
		v, err := strconv.ParseFloat(tokens[i+1], 64)
		if err != nil {
			return a, fmt.Errorf("invalid coordinate in %q: %v", line, err)
		}
		*dst = v
	}

	return a, nil
}
