// Package stats contains statistics calculations and reporting.
package stats

import (
	"sort"

	"github.com/aldenmoor/typeforge/internal/model"
)

// TopCharsByFrequency returns the N characters most worth watching in a
// learning-curve chart: the most frequently typed characters, with ties
// broken in favor of the slower one, since a character typed often and
// slowly is the better curve to chart than one typed often and quickly.
func TopCharsByFrequency(aggs []model.CharAggregate, n int) []string {
	if n <= 0 || len(aggs) == 0 {
		return nil
	}
	type item struct {
		ch     string
		total  int
		avgLat float64
	}
	items := make([]item, 0, len(aggs))
	for _, agg := range aggs {
		avgLat := 0.0
		if agg.LatencyCount > 0 {
			avgLat = float64(agg.LatencySumMs) / float64(agg.LatencyCount)
		}
		items = append(items, item{
			ch:     agg.Char,
			total:  agg.Correct + agg.Incorrect,
			avgLat: avgLat,
		})
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].total != items[j].total {
			return items[i].total > items[j].total
		}
		if items[i].avgLat != items[j].avgLat {
			return items[i].avgLat > items[j].avgLat
		}
		return items[i].ch < items[j].ch
	})
	if n > len(items) {
		n = len(items)
	}
	out := make([]string, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, items[i].ch)
	}
	return out
}
