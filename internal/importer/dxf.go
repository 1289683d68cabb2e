package importer

import (
	"fmt"
	"math"
	"sort"

	"github.com/yofu/dxf"
	"github.com/yofu/dxf/entity"

	"github.com/piwi3910/BarCut/internal/model"
)

// minDXFSegment is the shortest drawn segment that is taken as a piece.
const minDXFSegment = 1.0

// ImportDXF reads piece lengths from a DXF drawing. Every LINE, every
// LWPOLYLINE segment and every ARC becomes one piece of its drawn length,
// rounded to 0.1 mm. Equal lengths are grouped into one row.
func ImportDXF(path string) ImportResult {
	result := ImportResult{}

	drawing, err := dxf.Open(path)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot open DXF file: %v", err))
		return result
	}

	entities := drawing.Entities()
	if len(entities) == 0 {
		result.Errors = append(result.Errors, "DXF file contains no entities")
		return result
	}

	var lengths []float64
	skipped := 0
	for _, ent := range entities {
		switch e := ent.(type) {
		case *entity.Line:
			lengths = append(lengths, distance(e.Start[0], e.Start[1], e.End[0], e.End[1]))

		case *entity.LwPolyline:
			lengths = append(lengths, lwPolylineSegments(e)...)

		case *entity.Arc:
			lengths = append(lengths, arcLength(e))

		default:
			skipped++
		}
	}
	if skipped > 0 {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("Skipped %d unsupported entities", skipped))
	}

	counts := make(map[float64]int)
	short := 0
	for _, l := range lengths {
		if l < minDXFSegment {
			short++
			continue
		}
		counts[math.Round(l*10)/10]++
	}
	if short > 0 {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("Skipped %d segments shorter than %.0f mm", short, minDXFSegment))
	}

	if len(counts) == 0 {
		result.Errors = append(result.Errors, "No usable segments found in DXF file")
		return result
	}

	keys := make([]float64, 0, len(counts))
	for l := range counts {
		keys = append(keys, l)
	}
	sort.Sort(sort.Reverse(sort.Float64Slice(keys)))

	for _, l := range keys {
		r := model.NewDemandRow(l, counts[l])
		r.Label = "DXF"
		result.Rows = append(result.Rows, r)
	}

	return result
}

// lwPolylineSegments returns the length of each segment of the polyline,
// including the closing segment of a closed polyline. Bulged segments are
// measured along the arc.
func lwPolylineSegments(lw *entity.LwPolyline) []float64 {
	n := len(lw.Vertices)
	if n < 2 {
		return nil
	}
	last := n - 1
	if lw.Closed {
		last = n
	}

	segs := make([]float64, 0, last)
	for i := 0; i < last; i++ {
		a := lw.Vertices[i]
		b := lw.Vertices[(i+1)%n]
		chord := distance(a[0], a[1], b[0], b[1])

		bulge := 0.0
		if i < len(lw.Bulges) {
			bulge = lw.Bulges[i]
		}
		segs = append(segs, bulgeLength(chord, bulge))
	}
	return segs
}

// bulgeLength converts a chord and a DXF bulge factor (tangent of a quarter
// of the included angle) into the arc length.
func bulgeLength(chord, bulge float64) float64 {
	if math.Abs(bulge) < 1e-9 || chord < 1e-9 {
		return chord
	}
	theta := 4 * math.Atan(math.Abs(bulge))
	radius := chord / (2 * math.Sin(theta/2))
	return radius * theta
}

// arcLength returns the length of a DXF ARC, swept counter-clockwise from
// the start angle to the end angle.
func arcLength(a *entity.Arc) float64 {
	sweep := a.Angle[1] - a.Angle[0]
	if sweep <= 0 {
		sweep += 360
	}
	return a.Circle.Radius * sweep * math.Pi / 180
}

func distance(x1, y1, x2, y2 float64) float64 {
	return math.Hypot(x2-x1, y2-y1)
}
