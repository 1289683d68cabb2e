package engine

import (
	"math"
	"sync"

	"github.com/piwi3910/BarCut/internal/model"
)

// tieEpsilon is the efficiency difference, in percentage points, below which
// two candidates are considered equally efficient.
const tieEpsilon = 0.01

// gridEpsilon absorbs float error when walking the candidate grid.
const gridEpsilon = 1e-9

// SearchResult is the best single-length packing found by SearchLength.
type SearchResult struct {
	Length      float64
	Bins        []model.Bin
	TotalLength float64
	TotalWaste  float64
	Efficiency  float64 // percent
}

// beats reports whether r should replace best. Higher efficiency wins; within
// tieEpsilon the plan with fewer bars wins; on a full tie best is kept.
func (r SearchResult) beats(best SearchResult) bool {
	diff := r.Efficiency - best.Efficiency
	if math.Abs(diff) < tieEpsilon {
		return len(r.Bins) < len(best.Bins)
	}
	return diff > 0
}

// CandidateLengths lists the purchasable bar lengths to try, shortest first,
// leaving out any candidate shorter than minPiece. The grid is
// minLength + i*stepSize; maxLength is appended when the grid misses it.
func CandidateLengths(cfg model.StockConfig, minPiece float64) []float64 {
	var out []float64
	if cfg.StepSize <= 0 || cfg.MinLength > cfg.MaxLength {
		return out
	}
	last := math.Inf(-1)
	for i := 0; ; i++ {
		l := cfg.MinLength + float64(i)*cfg.StepSize
		if l > cfg.MaxLength+gridEpsilon {
			break
		}
		last = l
		if l >= minPiece {
			out = append(out, l)
		}
	}
	if cfg.MaxLength-last > gridEpsilon && cfg.MaxLength >= minPiece {
		out = append(out, cfg.MaxLength)
	}
	return out
}

// evaluate packs pieces at one candidate length and scores the packing.
func evaluate(pieces []float64, length, kerf float64) SearchResult {
	bins := PackFFD(pieces, length, kerf)
	res := SearchResult{
		Length:      length,
		Bins:        bins,
		TotalLength: length * float64(len(bins)),
	}
	for _, b := range bins {
		res.TotalWaste += b.Remaining
	}
	if res.TotalLength > 0 {
		res.Efficiency = (res.TotalLength - res.TotalWaste) / res.TotalLength * 100
	}
	return res
}

// SearchLength packs the pending pieces at every valid candidate length and
// returns the most efficient plan. It returns false when there is nothing to
// pack or no candidate can hold the longest piece.
//
// With workers > 1 candidates are packed concurrently. Selection always folds
// over the results in candidate order, so the outcome does not depend on it.
func SearchLength(pieces []float64, cfg model.StockConfig, workers int) (SearchResult, bool) {
	if len(pieces) == 0 {
		return SearchResult{}, false
	}
	sorted := append([]float64(nil), pieces...)
	sortDescending(sorted)

	candidates := CandidateLengths(cfg, sorted[0])
	if len(candidates) == 0 {
		return SearchResult{}, false
	}

	results := make([]SearchResult, len(candidates))
	if workers > 1 && len(candidates) > 1 {
		evaluateParallel(sorted, candidates, cfg.Kerf, workers, results)
	} else {
		for i, l := range candidates {
			results[i] = evaluate(sorted, l, cfg.Kerf)
		}
	}

	best := results[0]
	for _, r := range results[1:] {
		if r.beats(best) {
			best = r
		}
	}
	return best, true
}

func evaluateParallel(pieces, candidates []float64, kerf float64, workers int, results []SearchResult) {
	if workers > len(candidates) {
		workers = len(candidates)
	}
	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				results[i] = evaluate(pieces, candidates[i], kerf)
			}
		}()
	}
	for i := range candidates {
		jobs <- i
	}
	close(jobs)
	wg.Wait()
}
