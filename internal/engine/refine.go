package engine

import (
	"github.com/rs/zerolog"

	"github.com/piwi3910/BarCut/internal/model"
)

// MaxRefineIterations caps the number of length searches one refinement runs.
// The last allowed search commits its bins unconditionally.
const MaxRefineIterations = 5

// acceptableWasteRatio is the fallback band used when no bar meets the
// absolute waste threshold.
const acceptableWasteRatio = 0.02

// Termination tells why a refinement stopped.
type Termination int

const (
	TerminationExhausted    Termination = iota // every piece was committed in a good bar
	TerminationAcceptedAll                     // no bar was good or acceptable, the whole pass was kept
	TerminationIterationCap                    // the final search was committed regardless of waste
	TerminationNoCandidate                     // no candidate length could hold the pending pieces
)

func (t Termination) String() string {
	switch t {
	case TerminationExhausted:
		return "exhausted"
	case TerminationAcceptedAll:
		return "accepted_all"
	case TerminationIterationCap:
		return "iteration_cap"
	case TerminationNoCandidate:
		return "no_candidate"
	default:
		return "unknown"
	}
}

// Refinement is the mixed-length plan for the pieces not served from inventory.
type Refinement struct {
	Bins        []model.Bin
	Searches    int
	Termination Termination
}

// Refine approximates a mixed-length plan. Each pass searches the best single
// length for the pending pieces, keeps the bars whose leftover is within the
// waste threshold (or, failing that, under 2% of the bar), and sends the
// pieces of the other bars to the next pass.
func Refine(pieces []float64, cfg model.StockConfig, workers int, log zerolog.Logger) Refinement {
	var ref Refinement
	pending := append([]float64(nil), pieces...)
	sortDescending(pending)

	for len(pending) > 0 {
		res, ok := SearchLength(pending, cfg, workers)
		if !ok {
			ref.Termination = TerminationNoCandidate
			break
		}
		ref.Searches++

		if ref.Searches >= MaxRefineIterations {
			ref.Bins = append(ref.Bins, res.Bins...)
			ref.Termination = TerminationIterationCap
			log.Debug().
				Int("iteration", ref.Searches).
				Int("pending", len(pending)).
				Float64("length", res.Length).
				Msg("iteration cap reached, committing remaining bars")
			break
		}

		good, bad := partitionBins(res.Bins, func(b model.Bin) bool {
			return b.Remaining <= cfg.MaxWasteThreshold
		})
		if len(good) == 0 {
			good, bad = partitionBins(res.Bins, func(b model.Bin) bool {
				return b.WasteRatio() < acceptableWasteRatio
			})
		}

		log.Debug().
			Int("iteration", ref.Searches).
			Int("pending", len(pending)).
			Float64("length", res.Length).
			Float64("efficiency", res.Efficiency).
			Int("good", len(good)).
			Int("bad", len(bad)).
			Msg("refinement pass")

		if len(good) == 0 {
			ref.Bins = append(ref.Bins, res.Bins...)
			ref.Termination = TerminationAcceptedAll
			break
		}

		ref.Bins = append(ref.Bins, good...)
		pending = pending[:0]
		for _, b := range bad {
			pending = append(pending, b.Cuts...)
		}
		sortDescending(pending)
		if len(pending) == 0 {
			ref.Termination = TerminationExhausted
		}
	}

	log.Debug().
		Int("searches", ref.Searches).
		Int("bars", len(ref.Bins)).
		Stringer("termination", ref.Termination).
		Msg("refinement finished")
	return ref
}

func partitionBins(bins []model.Bin, keep func(model.Bin) bool) (kept, rest []model.Bin) {
	for _, b := range bins {
		if keep(b) {
			kept = append(kept, b)
		} else {
			rest = append(rest, b)
		}
	}
	return kept, rest
}

// resolvedLength reports the single purchased length, or Mixed when the
// committed bars have different lengths.
func resolvedLength(bins []model.Bin) model.ResolvedLength {
	if len(bins) == 0 {
		return model.ResolvedLength{}
	}
	first := bins[0].Length
	for _, b := range bins[1:] {
		if b.Length != first {
			return model.ResolvedLength{Mixed: true}
		}
	}
	return model.ResolvedLength{Value: first}
}
