package dsconv

// Per-line conversion from VisDrone pixel boxes to normalized records.

// DefaultMinBoxSize is the minimum box width and height in pixels. Smaller
// objects are unreliable for ranging and are filtered out.
const DefaultMinBoxSize = 10

// RejectReason classifies why an annotation line produced no output record.
// Rejection is a policy outcome, not an error; a rejected line only drops
// itself.
type RejectReason int

const (
	RejectNone            RejectReason = iota // The line was accepted.
	RejectMalformed                           // The line could not be parsed.
	RejectUnmappedClass                       // The source class has no target mapping.
	RejectTooSmall                            // The box is below the minimum size, before or after clipping.
	RejectInvalidGeometry                     // Degenerate geometry that must not reach the output.
)

func (r RejectReason) String() string {
	switch r {
	case RejectNone:
		return "accepted"
	case RejectMalformed:
		return "malformed line"
	case RejectUnmappedClass:
		return "unmapped class"
	case RejectTooSmall:
		return "box too small"
	case RejectInvalidGeometry:
		return "invalid geometry"
	}
	return "unknown"
}

// ConvertResult is the outcome for one annotation line: either an accepted
// NormalizedAnnotation or a reject reason.
type ConvertResult struct {
	Annotation NormalizedAnnotation
	Reason     RejectReason
}

// Accepted reports whether the line produced an output record.
func (r ConvertResult) Accepted() bool {
	return r.Reason == RejectNone
}

func accept(a NormalizedAnnotation) ConvertResult {
	return ConvertResult{Annotation: a}
}

func reject(reason RejectReason) ConvertResult {
	return ConvertResult{Reason: reason}
}

// Converter turns raw VisDrone annotation lines into normalized records for
// the target taxonomy. The zero value is not usable; construct it with
// NewConverter or populate both fields.
type Converter struct {
	Classes    ClassMap
	MinBoxSize int // Minimum box width and height in pixels.
}

// NewConverter returns a Converter with the default class map and minimum
// box size.
func NewConverter() Converter {
	return Converter{Classes: DefaultClassMap(), MinBoxSize: DefaultMinBoxSize}
}

// Convert processes one annotation line against the dimensions of its image.
//
// The line is rejected when it is malformed, when its class has no target
// mapping, when the box is below the minimum size before or after clipping,
// or when clipping leaves degenerate geometry.
func (c Converter) Convert(line string, imgWidth, imgHeight int) ConvertResult {
	a, err := ParseSourceAnnotation(line)
	if err != nil {
		return reject(RejectMalformed)
	}

	target, ok := c.Classes.Target(a.ClassID)
	if !ok {
		return reject(RejectUnmappedClass)
	}

	// Early exit on boxes that are already too small; clipping only shrinks.
	if a.Width < c.MinBoxSize || a.Height < c.MinBoxSize {
		return reject(RejectTooSmall)
	}

	return c.normalize(target, a.X, a.Y, a.Width, a.Height, imgWidth, imgHeight)
}

// normalize clips the pixel box to the image bounds and converts it to a
// center-anchored box in fractional coordinates.
func (c Converter) normalize(classID, x, y, w, h, imgWidth, imgHeight int) ConvertResult {
	if imgWidth <= 0 || imgHeight <= 0 {
		return reject(RejectInvalidGeometry)
	}

	// Clip boxes that extend beyond the image and re-check the size, since
	// clipping can push a box below the minimum.
	if x < 0 || y < 0 || x+w > imgWidth || y+h > imgHeight {
		if x < 0 {
			x = 0
		}
		if y < 0 {
			y = 0
		}
		if maxW := imgWidth - x; w > maxW {
			w = maxW
		}
		if maxH := imgHeight - y; h > maxH {
			h = maxH
		}

		if w < c.MinBoxSize || h < c.MinBoxSize {
			return reject(RejectTooSmall)
		}
	}

	// A box entirely outside the image clips to non-positive dimensions; it
	// must not reach the transform.
	if w <= 0 || h <= 0 {
		return reject(RejectInvalidGeometry)
	}

	na := NormalizedAnnotation{
		ClassID: classID,
		CenterX: (float64(x) + float64(w)/2) / float64(imgWidth),
		CenterY: (float64(y) + float64(h)/2) / float64(imgHeight),
		Width:   float64(w) / float64(imgWidth),
		Height:  float64(h) / float64(imgHeight),
	}
	if na.CenterX < 0 || na.CenterX > 1 || na.CenterY < 0 || na.CenterY > 1 ||
		na.Width <= 0 || na.Width > 1 || na.Height <= 0 || na.Height > 1 {
		return reject(RejectInvalidGeometry)
	}

	return accept(na)
}
