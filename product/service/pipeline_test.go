package service

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/fauzankm/storefront/product/response"
)

func hats() []response.Product {
	return []response.Product{
		{
			ID:          1,
			Title:       "Red Hat",
			Price:       decimal.NewFromInt(10),
			Description: "a warm red hat",
			Category:    "accessories",
		},
		{
			ID:          2,
			Title:       "Blue Hat",
			Price:       decimal.NewFromInt(5),
			Description: "a cool blue hat",
			Category:    "accessories",
		},
	}
}

func titles(products []response.Product) []string {
	out := make([]string, 0, len(products))
	for _, product := range products {
		out = append(out, product.Title)
	}
	return out
}

func TestFilterAndSort(t *testing.T) {
	tests := []struct {
		name       string
		searchTerm string
		sortBy     string
		expected   []string
	}{
		{
			name:     "given default sort should keep source order",
			sortBy:   SortDefault,
			expected: []string{"Red Hat", "Blue Hat"},
		},
		{
			name:     "given unknown sort should keep source order",
			sortBy:   "newest",
			expected: []string{"Red Hat", "Blue Hat"},
		},
		{
			name:     "given price-low should sort ascending by price",
			sortBy:   SortPriceLow,
			expected: []string{"Blue Hat", "Red Hat"},
		},
		{
			name:     "given price-high should sort descending by price",
			sortBy:   SortPriceHigh,
			expected: []string{"Red Hat", "Blue Hat"},
		},
		{
			name:     "given name sort should order alphabetically",
			sortBy:   SortName,
			expected: []string{"Blue Hat", "Red Hat"},
		},
		{
			name:       "given search term should match title case-insensitively",
			searchTerm: "RED",
			sortBy:     SortDefault,
			expected:   []string{"Red Hat"},
		},
		{
			name:       "given search term should also match description",
			searchTerm: "cool",
			sortBy:     SortDefault,
			expected:   []string{"Blue Hat"},
		},
		{
			name:       "given search term matching nothing should return empty",
			searchTerm: "scarf",
			sortBy:     SortDefault,
			expected:   []string{},
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			actual := FilterAndSort(hats(), test.searchTerm, test.sortBy)
			assert.EqualValues(t, test.expected, titles(actual))
		})
	}
}

func TestFilterAndSortDoesNotMutateInput(t *testing.T) {
	input := hats()

	FilterAndSort(input, "", SortPriceLow)

	assert.EqualValues(t, []string{"Red Hat", "Blue Hat"}, titles(input))
}

func TestFilterAndSortIsStable(t *testing.T) {
	input := []response.Product{
		{ID: 1, Title: "First", Price: decimal.NewFromInt(5)},
		{ID: 2, Title: "Second", Price: decimal.NewFromInt(5)},
		{ID: 3, Title: "Third", Price: decimal.NewFromInt(5)},
	}

	actual := FilterAndSort(input, "", SortPriceLow)

	assert.EqualValues(t, []string{"First", "Second", "Third"}, titles(actual))
}
