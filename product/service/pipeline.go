package service

import (
	"sort"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/fauzankm/storefront/product/response"
)

const (
	SortDefault   = "default"
	SortPriceLow  = "price-low"
	SortPriceHigh = "price-high"
	SortName      = "name"
)

// FilterAndSort applies the local search filter then the selected sort policy.
// The input slice is never mutated; ties keep their source order.
func FilterAndSort(
	products []response.Product,
	searchTerm string,
	sortBy string,
) []response.Product {
	filtered := products
	if searchTerm != "" {
		term := strings.ToLower(searchTerm)
		filtered = []response.Product{}
		for _, product := range products {
			if strings.Contains(strings.ToLower(product.Title), term) ||
				strings.Contains(strings.ToLower(product.Description), term) {
				filtered = append(filtered, product)
			}
		}
	}

	sorted := make([]response.Product, len(filtered))
	copy(sorted, filtered)

	switch sortBy {
	case SortPriceLow:
		sort.SliceStable(sorted, func(i, j int) bool {
			return sorted[i].Price.LessThan(sorted[j].Price)
		})
	case SortPriceHigh:
		sort.SliceStable(sorted, func(i, j int) bool {
			return sorted[i].Price.GreaterThan(sorted[j].Price)
		})
	case SortName:
		collator := collate.New(language.English)
		sort.SliceStable(sorted, func(i, j int) bool {
			return collator.CompareString(sorted[i].Title, sorted[j].Title) < 0
		})
	default:
		// SortDefault and anything unrecognized keep the source order.
	}

	return sorted
}
