package catalog

import (
	"slices"
	"strings"

	"github.com/shopspring/decimal"
)

type CategoryFacet struct {
	Name          string   `json:"name"`
	Count         int      `json:"count"`
	Subcategories []string `json:"subcategories,omitempty"`
}

type PriceRange struct {
	Min      decimal.Decimal `json:"min"`
	Max      decimal.Decimal `json:"max"`
	Currency string          `json:"currency,omitempty"`
}

// Facets describes the filter controls a catalog page can offer for its data.
type Facets struct {
	Categories []CategoryFacet `json:"categories"`
	PriceRange *PriceRange     `json:"price_range"`
	Brands     []string        `json:"brands,omitempty"`
	Genders    []string        `json:"genders,omitempty"`
	Flags      map[Flag]int    `json:"flags"`
	InStock    int             `json:"in_stock"`
	OutOfStock int             `json:"out_of_stock"`
}

// BuildFacets summarises every offering of the given vendors. Categories and
// subcategories keep first-seen order; brands and genders are sorted.
// Names are grouped case-insensitively and reported with their first spelling.
func BuildFacets(vendors []Vendor) Facets {
	facets := Facets{
		Categories: []CategoryFacet{},
		Flags:      map[Flag]int{},
	}
	catIndex := map[string]int{}
	subSeen := map[string]bool{}
	brands := map[string]string{}
	genders := map[string]string{}

	for _, v := range vendors {
		for _, o := range v.Offerings {
			if name := strings.TrimSpace(o.Category); name != "" {
				key := strings.ToLower(name)
				idx, ok := catIndex[key]
				if !ok {
					idx = len(facets.Categories)
					catIndex[key] = idx
					facets.Categories = append(facets.Categories, CategoryFacet{Name: name})
				}
				facets.Categories[idx].Count++
				if sub := strings.TrimSpace(o.Subcategory); sub != "" {
					subKey := key + "/" + strings.ToLower(sub)
					if !subSeen[subKey] {
						subSeen[subKey] = true
						facets.Categories[idx].Subcategories = append(facets.Categories[idx].Subcategories, sub)
					}
				}
			}

			amount := o.Price.Amount
			switch {
			case facets.PriceRange == nil:
				facets.PriceRange = &PriceRange{Min: amount, Max: amount, Currency: o.Price.Currency}
			default:
				if amount.LessThan(facets.PriceRange.Min) {
					facets.PriceRange.Min = amount
				}
				if amount.GreaterThan(facets.PriceRange.Max) {
					facets.PriceRange.Max = amount
				}
				if facets.PriceRange.Currency != o.Price.Currency {
					facets.PriceRange.Currency = ""
				}
			}

			addName(brands, o.Brand)
			addName(genders, o.Gender)

			for _, f := range []Flag{FlagNew, FlagHotDeal, FlagTrending, FlagPopular} {
				if o.HasFlag(f) {
					facets.Flags[f]++
				}
			}
			if o.Available() {
				facets.InStock++
			} else {
				facets.OutOfStock++
			}
		}
	}

	facets.Brands = sortedValues(brands)
	facets.Genders = sortedValues(genders)
	return facets
}

func addName(set map[string]string, name string) {
	name = strings.TrimSpace(name)
	if name == "" {
		return
	}
	key := strings.ToLower(name)
	if _, ok := set[key]; !ok {
		set[key] = name
	}
}

func sortedValues(set map[string]string) []string {
	if len(set) == 0 {
		return nil
	}
	out := make([]string, 0, len(set))
	for _, v := range set {
		out = append(out, v)
	}
	slices.SortFunc(out, func(a, b string) int {
		return strings.Compare(strings.ToLower(a), strings.ToLower(b))
	})
	return out
}
