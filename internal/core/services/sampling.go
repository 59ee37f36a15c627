package services

import (
	"fmt"
	"math"
	"math/rand/v2"
	"sort"

	"github.com/learningequality/alignpro/internal/core/domain"
)

// newRand returns a call-local generator, seeded when seed is set.
func newRand(seed *uint64) *rand.Rand {
	s := rand.Uint64()
	if seed != nil {
		s = *seed
	}
	return rand.New(rand.NewPCG(s, s))
}

// maskedWeights copies a relevance row, zeroing every column outside mask
// and every value that is negative, above domain.MaxSampleWeight or not finite.
func maskedWeights(row []float64, mask []bool) []float64 {
	out := make([]float64, len(row))
	for i, v := range row {
		if i >= len(mask) || !mask[i] {
			continue
		}
		if !domain.IsFinite(v) || v < 0 || v > domain.MaxSampleWeight {
			continue
		}
		out[i] = v
	}
	return out
}

// skewWeights raises positive weights to gamma and normalizes them.
// When the skewed sum is zero or not finite, the raw weights are normalized
// instead and fallback is true. A zero raw sum is domain.ErrNoEligibleCandidates.
func skewWeights(w []float64, gamma float64) (probs []float64, fallback bool, err error) {
	probs = make([]float64, len(w))
	var sum float64
	for i, v := range w {
		if v <= 0 {
			continue
		}
		p := math.Pow(v, gamma)
		probs[i] = p
		sum += p
	}
	if sum > 0 && domain.IsFinite(sum) {
		for i := range probs {
			probs[i] /= sum
		}
		return probs, false, nil
	}

	var raw float64
	for _, v := range w {
		raw += v
	}
	if raw <= 0 || !domain.IsFinite(raw) {
		return nil, true, fmt.Errorf("%w: all candidate weights are zero", domain.ErrNoEligibleCandidates)
	}
	for i, v := range w {
		probs[i] = v / raw
	}
	return probs, true, nil
}

// weightedChoice draws an index with probability proportional to probs.
// probs must contain at least one positive entry.
func weightedChoice(probs []float64, rng *rand.Rand) int {
	var total float64
	last := -1
	for i, p := range probs {
		if p > 0 {
			total += p
			last = i
		}
	}
	target := rng.Float64() * total
	var cum float64
	for i, p := range probs {
		if p <= 0 {
			continue
		}
		cum += p
		if target < cum {
			return i
		}
	}
	return last
}

// topWeights lists up to domain.MaxTopWeights weights above
// domain.MinTopWeight, heaviest first, ties by row.
func topWeights(probs []float64, artifact *domain.ModelArtifact) []domain.WeightEntry {
	entries := make([]domain.WeightEntry, 0)
	for row, p := range probs {
		if p > domain.MinTopWeight {
			entries = append(entries, domain.WeightEntry{NodeID: artifact.IDAt(row), Row: row, Weight: p})
		}
	}
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].Weight != entries[j].Weight {
			return entries[i].Weight > entries[j].Weight
		}
		return entries[i].Row < entries[j].Row
	})
	if len(entries) > domain.MaxTopWeights {
		entries = entries[:domain.MaxTopWeights]
	}
	return entries
}
