// Package cable converts plotted cable runs into physical length and
// install-time estimates.
package cable

import (
	"math"

	"github.com/vbonduro/installquote/internal/domain"
)

const (
	// MinLengthFt is the shortest run ever reported.
	MinLengthFt = 1.0

	baseMinutes       = 20.0
	minutesPerSegment = 10.0
	feetPerSegment    = 25.0
)

// ClampScale returns scale, raised to the minimum floor scale when lower.
// Non-finite values also clamp to the minimum.
func ClampScale(scale float64) float64 {
	if math.IsNaN(scale) || math.IsInf(scale, 0) || scale < domain.MinScalePxPerFt {
		return domain.MinScalePxPerFt
	}
	return scale
}

// Resolve converts the pixel segment start-end into feet (one decimal, at
// least MinLengthFt) and install minutes: 20 plus 10 per 25 ft, rounded.
func Resolve(start, end domain.Point, scalePxPerFt float64) (lengthFt float64, minutes int) {
	px := math.Hypot(end.X-start.X, end.Y-start.Y)
	lengthFt = math.Round(px/ClampScale(scalePxPerFt)*10) / 10
	if math.IsNaN(lengthFt) || lengthFt < MinLengthFt {
		lengthFt = MinLengthFt
	}
	return lengthFt, InstallMinutes(lengthFt)
}

// InstallMinutes returns the install time for a run of lengthFt feet.
func InstallMinutes(lengthFt float64) int {
	return int(math.Round(baseMinutes + lengthFt/feetPerSegment*minutesPerSegment))
}

// ResolveRun recomputes the derived fields of run for the given scale.
func ResolveRun(run domain.CableRun, scalePxPerFt float64) domain.CableRun {
	run.LengthFt, run.TTIMin = Resolve(run.Start, run.End, scalePxPerFt)
	return run
}

// ResolveFloor recomputes every cable run on f in place.
func ResolveFloor(f *domain.Floor) {
	for li := range f.Layers {
		runs := f.Layers[li].CableRuns
		for ri := range runs {
			runs[ri] = ResolveRun(runs[ri], f.ScalePxPerFt)
		}
	}
}
