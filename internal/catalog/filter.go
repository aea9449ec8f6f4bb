package catalog

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"github.com/shopspring/decimal"
)

// SortOrder selects how the visible vendor list is ordered.
type SortOrder string

const (
	SortDefault    SortOrder = "default"
	SortPriceAsc   SortOrder = "price_asc"
	SortPriceDesc  SortOrder = "price_desc"
	SortRatingDesc SortOrder = "rating_desc"
	SortNewest     SortOrder = "newest"
)

// ParseSortOrder accepts the sort names with either "_" or "-" separators.
// The empty string is SortDefault.
func ParseSortOrder(s string) (SortOrder, error) {
	v := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "-", "_")
	switch SortOrder(v) {
	case "", SortDefault:
		return SortDefault, nil
	case SortPriceAsc, SortPriceDesc, SortRatingDesc, SortNewest:
		return SortOrder(v), nil
	}
	return "", fmt.Errorf("unknown sort order %q", s)
}

// Flag is a promotional badge usable as a filter.
type Flag string

const (
	FlagNew      Flag = "new"
	FlagHotDeal  Flag = "hot_deal"
	FlagTrending Flag = "trending"
	FlagPopular  Flag = "popular"
)

func ParseFlag(s string) (Flag, error) {
	v := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "-", "_")
	switch Flag(v) {
	case "":
		return "", nil
	case FlagNew, FlagHotDeal, FlagTrending, FlagPopular:
		return Flag(v), nil
	}
	return "", fmt.Errorf("unknown flag %q", s)
}

// Filter is the user-controlled state driving the visible list. The zero
// value shows every vendor with at least one offering in source order.
type Filter struct {
	Search      string
	Category    string
	Subcategory string
	MinPrice    decimal.NullDecimal
	MaxPrice    decimal.NullDecimal
	Sort        SortOrder
	Gender      string
	Brand       string
	Flag        Flag
	InStockOnly bool
}

// Apply derives the visible vendors from the raw list. It never reorders or
// mutates vendors; the result holds copies.
//
// Every predicate is evaluated per vendor as "some offering matches", so a
// vendor whose offerings straddle the price range is kept with all of its
// offerings. A non-empty search spans every category: category and
// subcategory are not applied while searching.
func Apply(vendors []Vendor, f Filter) []Vendor {
	f = f.normalized()

	out := make([]Vendor, 0, len(vendors))
	for _, v := range vendors {
		if f.matches(v) {
			out = append(out, v.Clone())
		}
	}
	sortVendors(out, f.Sort)
	return out
}

func (f Filter) normalized() Filter {
	f.Search = strings.ToLower(strings.TrimSpace(f.Search))
	f.Category = strings.TrimSpace(f.Category)
	f.Subcategory = strings.TrimSpace(f.Subcategory)
	f.Gender = strings.TrimSpace(f.Gender)
	f.Brand = strings.TrimSpace(f.Brand)
	if f.Sort == "" {
		f.Sort = SortDefault
	}
	return f
}

func (f Filter) matches(v Vendor) bool {
	if len(v.Offerings) == 0 {
		return false
	}
	if f.Search != "" {
		if !vendorMatchesSearch(v, f.Search) {
			return false
		}
	} else {
		if f.Category != "" && !anyOffering(v, func(o Offering) bool { return strings.EqualFold(o.Category, f.Category) }) {
			return false
		}
		if f.Subcategory != "" && !anyOffering(v, func(o Offering) bool { return strings.EqualFold(o.Subcategory, f.Subcategory) }) {
			return false
		}
	}
	if (f.MinPrice.Valid || f.MaxPrice.Valid) && !anyOffering(v, f.priceInRange) {
		return false
	}
	if f.Gender != "" && !anyOffering(v, func(o Offering) bool { return strings.EqualFold(o.Gender, f.Gender) }) {
		return false
	}
	if f.Brand != "" && !anyOffering(v, func(o Offering) bool { return strings.EqualFold(o.Brand, f.Brand) }) {
		return false
	}
	if f.Flag != "" && !anyOffering(v, func(o Offering) bool { return o.HasFlag(f.Flag) }) {
		return false
	}
	if f.InStockOnly && !anyOffering(v, Offering.Available) {
		return false
	}
	return true
}

func (f Filter) priceInRange(o Offering) bool {
	amount := o.Price.Amount
	if f.MinPrice.Valid && amount.LessThan(f.MinPrice.Decimal) {
		return false
	}
	if f.MaxPrice.Valid && amount.GreaterThan(f.MaxPrice.Decimal) {
		return false
	}
	return true
}

func anyOffering(v Vendor, pred func(Offering) bool) bool {
	for _, o := range v.Offerings {
		if pred(o) {
			return true
		}
	}
	return false
}

// vendorMatchesSearch expects term to be lower-cased already.
func vendorMatchesSearch(v Vendor, term string) bool {
	if containsFold(term, v.Name, v.Location, v.Description) {
		return true
	}
	return anyOffering(v, func(o Offering) bool {
		return containsFold(term, o.Name, o.Description, o.Location) || containsFold(term, o.Tags...)
	})
}

func containsFold(term string, fields ...string) bool {
	for _, field := range fields {
		if strings.Contains(strings.ToLower(field), term) {
			return true
		}
	}
	return false
}

func sortVendors(vendors []Vendor, order SortOrder) {
	var compare func(a, b Vendor) int
	switch order {
	case SortPriceAsc:
		compare = func(a, b Vendor) int {
			pa, _ := a.MinPrice()
			pb, _ := b.MinPrice()
			return pa.Cmp(pb)
		}
	case SortPriceDesc:
		compare = func(a, b Vendor) int {
			pa, _ := a.MaxPrice()
			pb, _ := b.MaxPrice()
			return pb.Cmp(pa)
		}
	case SortRatingDesc:
		compare = func(a, b Vendor) int {
			return cmp.Compare(b.EffectiveRating(), a.EffectiveRating())
		}
	case SortNewest:
		compare = func(a, b Vendor) int {
			return b.Newest().Compare(a.Newest())
		}
	default:
		return
	}
	slices.SortStableFunc(vendors, compare)
}
