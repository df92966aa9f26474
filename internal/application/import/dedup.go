package importapp

import (
	"context"

	csvimport "github.com/sellerdesk/backend/internal/infrastructure/import"
)

// ExistingKeyLookup reports which of the given natural keys are already
// stored for the target account, in one batched query.
type ExistingKeyLookup func(ctx context.Context, keys []string) (map[string]struct{}, error)

// DuplicateDetector partitions parsed records into fresh rows and duplicates
// against a single batched store lookup. Within-file repeats of a natural key
// count as duplicates too; only the first occurrence survives.
type DuplicateDetector struct {
	lookup ExistingKeyLookup
}

// NewDuplicateDetector creates a detector backed by the given lookup
func NewDuplicateDetector(lookup ExistingKeyLookup) *DuplicateDetector {
	return &DuplicateDetector{lookup: lookup}
}

// Partition splits records into fresh and duplicate sets. The split is total
// and disjoint: every input record lands in exactly one of the two slices.
func (d *DuplicateDetector) Partition(
	ctx context.Context,
	records []*csvimport.NormalizedRecord,
) (fresh, duplicates []*csvimport.NormalizedRecord, err error) {
	fresh = make([]*csvimport.NormalizedRecord, 0, len(records))
	duplicates = make([]*csvimport.NormalizedRecord, 0)
	if len(records) == 0 {
		return fresh, duplicates, nil
	}

	keys := make([]string, 0, len(records))
	seen := make(map[string]struct{}, len(records))
	for _, r := range records {
		if _, ok := seen[r.NaturalKey]; ok {
			continue
		}
		seen[r.NaturalKey] = struct{}{}
		keys = append(keys, r.NaturalKey)
	}

	existing, err := d.lookup(ctx, keys)
	if err != nil {
		return nil, nil, err
	}

	taken := make(map[string]struct{}, len(records))
	for _, r := range records {
		if _, ok := existing[r.NaturalKey]; ok {
			duplicates = append(duplicates, r)
			continue
		}
		if _, ok := taken[r.NaturalKey]; ok {
			duplicates = append(duplicates, r)
			continue
		}
		taken[r.NaturalKey] = struct{}{}
		fresh = append(fresh, r)
	}

	return fresh, duplicates, nil
}
