package service

import "golang-stock-sentinel/internal/pipeline/dto"

// DefaultMaxBatch caps how many candidates one run processes.
const DefaultMaxBatch = 30

// Aggregate concatenates strategy outputs in order, keeps the first occurrence of each symbol and caps the batch.
func Aggregate(outputs [][]dto.Candidate, maxBatch int) []dto.Candidate {
	if maxBatch <= 0 {
		maxBatch = DefaultMaxBatch
	}

	seen := make(map[string]struct{})
	batch := make([]dto.Candidate, 0, maxBatch)
	for _, list := range outputs {
		for _, c := range list {
			if _, dup := seen[c.Symbol]; dup {
				continue
			}
			seen[c.Symbol] = struct{}{}
			batch = append(batch, c)
			if len(batch) == maxBatch {
				return batch
			}
		}
	}
	return batch
}
