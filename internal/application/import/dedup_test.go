package importapp

import (
	"context"
	"errors"
	"testing"

	csvimport "github.com/sellerdesk/backend/internal/infrastructure/import"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func record(row int, key string) *csvimport.NormalizedRecord {
	return &csvimport.NormalizedRecord{
		RowIndex:   row,
		NaturalKey: key,
		Fields:     map[string]string{"Order Number": key},
	}
}

func staticLookup(existing ...string) ExistingKeyLookup {
	return func(ctx context.Context, keys []string) (map[string]struct{}, error) {
		found := make(map[string]struct{})
		for _, e := range existing {
			found[e] = struct{}{}
		}
		return found, nil
	}
}

func TestDuplicateDetector_Partition(t *testing.T) {
	t.Run("splits new rows from stored duplicates", func(t *testing.T) {
		detector := NewDuplicateDetector(staticLookup("ORD-100"))

		records := []*csvimport.NormalizedRecord{
			record(1, "ORD-100"),
			record(2, "ORD-101"),
			record(3, "ORD-102"),
		}

		fresh, dups, err := detector.Partition(context.Background(), records)
		require.NoError(t, err)

		require.Len(t, fresh, 2)
		assert.Equal(t, "ORD-101", fresh[0].NaturalKey)
		assert.Equal(t, "ORD-102", fresh[1].NaturalKey)
		require.Len(t, dups, 1)
		assert.Equal(t, "ORD-100", dups[0].NaturalKey)
	})

	t.Run("within-file repeats keep only the first occurrence", func(t *testing.T) {
		detector := NewDuplicateDetector(staticLookup())

		records := []*csvimport.NormalizedRecord{
			record(1, "ORD-200"),
			record(2, "ORD-200"),
			record(3, "ORD-201"),
			record(4, "ORD-200"),
		}

		fresh, dups, err := detector.Partition(context.Background(), records)
		require.NoError(t, err)

		require.Len(t, fresh, 2)
		assert.Equal(t, 1, fresh[0].RowIndex)
		assert.Equal(t, "ORD-201", fresh[1].NaturalKey)
		require.Len(t, dups, 2)
		assert.Equal(t, 2, dups[0].RowIndex)
		assert.Equal(t, 4, dups[1].RowIndex)
	})

	t.Run("partition is total and disjoint", func(t *testing.T) {
		detector := NewDuplicateDetector(staticLookup("ORD-300", "ORD-302"))

		records := []*csvimport.NormalizedRecord{
			record(1, "ORD-300"),
			record(2, "ORD-301"),
			record(3, "ORD-301"),
			record(4, "ORD-302"),
			record(5, "ORD-303"),
		}

		fresh, dups, err := detector.Partition(context.Background(), records)
		require.NoError(t, err)
		assert.Equal(t, len(records), len(fresh)+len(dups))

		seen := make(map[int]bool)
		for _, r := range fresh {
			seen[r.RowIndex] = true
		}
		for _, r := range dups {
			assert.False(t, seen[r.RowIndex])
		}
	})

	t.Run("queries each key once", func(t *testing.T) {
		var queried []string
		detector := NewDuplicateDetector(func(ctx context.Context, keys []string) (map[string]struct{}, error) {
			queried = keys
			return map[string]struct{}{}, nil
		})

		records := []*csvimport.NormalizedRecord{
			record(1, "ORD-400"),
			record(2, "ORD-400"),
			record(3, "ORD-401"),
		}

		_, _, err := detector.Partition(context.Background(), records)
		require.NoError(t, err)
		assert.Equal(t, []string{"ORD-400", "ORD-401"}, queried)
	})

	t.Run("empty input yields empty partitions without a lookup", func(t *testing.T) {
		called := false
		detector := NewDuplicateDetector(func(ctx context.Context, keys []string) (map[string]struct{}, error) {
			called = true
			return nil, nil
		})

		fresh, dups, err := detector.Partition(context.Background(), nil)
		require.NoError(t, err)
		assert.Empty(t, fresh)
		assert.Empty(t, dups)
		assert.False(t, called)
	})

	t.Run("lookup failure propagates", func(t *testing.T) {
		detector := NewDuplicateDetector(func(ctx context.Context, keys []string) (map[string]struct{}, error) {
			return nil, errors.New("connection refused")
		})

		_, _, err := detector.Partition(context.Background(), []*csvimport.NormalizedRecord{record(1, "ORD-500")})
		require.Error(t, err)
	})
}
