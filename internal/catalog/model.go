package catalog

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Vertical identifies one catalog page of the marketplace.
type Vertical string

const (
	Construction  Vertical = "construction"
	Entertainment Vertical = "entertainment"
	Insurance     Vertical = "insurance"
	RealEstate    Vertical = "realestate"
)

// Verticals returns every known vertical in display order.
func Verticals() []Vertical {
	return []Vertical{Construction, Entertainment, Insurance, RealEstate}
}

// ParseVertical accepts the vertical name case-insensitively; "real-estate"
// and "real_estate" are accepted for RealEstate.
func ParseVertical(s string) (Vertical, bool) {
	v := strings.ToLower(strings.TrimSpace(s))
	v = strings.NewReplacer("-", "", "_", "").Replace(v)
	for _, known := range Verticals() {
		if string(known) == v {
			return known, true
		}
	}
	return "", false
}

// PlaceholderImage is served when an offering has no image of its own.
func (v Vertical) PlaceholderImage() string {
	return "/static/placeholders/" + string(v) + ".svg"
}

// Money is an exact amount in a currency. Amounts are compared without
// conversion.
type Money struct {
	Amount   decimal.Decimal `json:"amount"`
	Currency string          `json:"currency"`
}

// Stock counts for an offering; a nil *Stock means the count is unknown.
type Stock struct {
	Available int `json:"available"`
	Total     int `json:"total"`
}

// Flags are the promotional badges shown on an offering card.
type Flags struct {
	IsNew      bool `json:"is_new"`
	IsHotDeal  bool `json:"is_hot_deal"`
	IsTrending bool `json:"is_trending"`
	IsPopular  bool `json:"is_popular"`
}

// Offering is a single sellable product, policy or listing of a vendor.
type Offering struct {
	ID            string     `json:"id"`
	VendorID      string     `json:"vendor_id"`
	Name          string     `json:"name"`
	Description   string     `json:"description,omitempty"`
	Category      string     `json:"category"`
	Subcategory   string     `json:"subcategory,omitempty"`
	Tags          []string   `json:"tags,omitempty"`
	Price         Money      `json:"price"`
	OriginalPrice *Money     `json:"original_price,omitempty"`
	DateAdded     time.Time  `json:"date_added"`
	Rating        *float64   `json:"rating,omitempty"`
	Stock         *Stock     `json:"stock,omitempty"`
	Location      string     `json:"location,omitempty"`
	Brand         string     `json:"brand,omitempty"`
	Gender        string     `json:"gender,omitempty"`
	DealEndsAt    *time.Time `json:"deal_ends_at,omitempty"`
	ImageURL      string     `json:"image_url"`
	Flags
}

// RatingOrZero treats a missing rating as 0.
func (o Offering) RatingOrZero() float64 {
	if o.Rating == nil {
		return 0
	}
	return *o.Rating
}

// Available reports whether the offering can be bought. Unknown stock counts
// as available.
func (o Offering) Available() bool {
	return o.Stock == nil || o.Stock.Available > 0
}

// HasFlag reports whether the promotional flag is set.
func (o Offering) HasFlag(f Flag) bool {
	switch f {
	case FlagNew:
		return o.IsNew
	case FlagHotDeal:
		return o.IsHotDeal
	case FlagTrending:
		return o.IsTrending
	case FlagPopular:
		return o.IsPopular
	}
	return false
}

// DiscountPercent is the whole-number discount from the original price, or 0
// when there is none.
func (o Offering) DiscountPercent() int64 {
	if o.OriginalPrice == nil || !o.OriginalPrice.Amount.IsPositive() {
		return 0
	}
	if o.Price.Amount.GreaterThanOrEqual(o.OriginalPrice.Amount) {
		return 0
	}
	off := o.OriginalPrice.Amount.Sub(o.Price.Amount).Div(o.OriginalPrice.Amount).Mul(decimal.NewFromInt(100))
	return off.Round(0).IntPart()
}

// DealActive reports whether a hot deal is still running at now.
func (o Offering) DealActive(now time.Time) bool {
	if !o.IsHotDeal {
		return false
	}
	return o.DealEndsAt == nil || now.Before(*o.DealEndsAt)
}

type Contact struct {
	Phone   string `json:"phone,omitempty"`
	Email   string `json:"email,omitempty"`
	Website string `json:"website,omitempty"`
}

// Vendor is a seller owning one or more offerings.
type Vendor struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description,omitempty"`
	Location    string     `json:"location"`
	Contact     Contact    `json:"contact"`
	Verified    bool       `json:"verified"`
	Since       int        `json:"since,omitempty"`
	Rating      *float64   `json:"rating,omitempty"`
	Offerings   []Offering `json:"offerings"`
}

// MinPrice is the lowest current offering price. ok is false for a vendor
// without offerings.
func (v Vendor) MinPrice() (lo decimal.Decimal, ok bool) {
	for i, o := range v.Offerings {
		if i == 0 || o.Price.Amount.LessThan(lo) {
			lo = o.Price.Amount
		}
	}
	return lo, len(v.Offerings) > 0
}

// MaxPrice is the highest current offering price.
func (v Vendor) MaxPrice() (hi decimal.Decimal, ok bool) {
	for i, o := range v.Offerings {
		if i == 0 || o.Price.Amount.GreaterThan(hi) {
			hi = o.Price.Amount
		}
	}
	return hi, len(v.Offerings) > 0
}

// Newest is the latest DateAdded across the vendor's offerings.
func (v Vendor) Newest() time.Time {
	var newest time.Time
	for _, o := range v.Offerings {
		if o.DateAdded.After(newest) {
			newest = o.DateAdded
		}
	}
	return newest
}

// EffectiveRating is the vendor's own rating when present, otherwise the mean
// of its rated offerings, otherwise 0.
func (v Vendor) EffectiveRating() float64 {
	if v.Rating != nil {
		return *v.Rating
	}
	var sum float64
	var n int
	for _, o := range v.Offerings {
		if o.Rating != nil {
			sum += *o.Rating
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}

// Offering looks up one of the vendor's offerings by id.
func (v Vendor) Offering(id string) (Offering, bool) {
	for _, o := range v.Offerings {
		if o.ID == id {
			return o, true
		}
	}
	return Offering{}, false
}

// Clone returns a copy that shares no slices or pointers with v.
func (v Vendor) Clone() Vendor {
	out := v
	out.Rating = cloneFloat(v.Rating)
	if v.Offerings != nil {
		out.Offerings = make([]Offering, len(v.Offerings))
		for i, o := range v.Offerings {
			out.Offerings[i] = o.clone()
		}
	}
	return out
}

func (o Offering) clone() Offering {
	out := o
	if o.Tags != nil {
		out.Tags = append([]string(nil), o.Tags...)
	}
	if o.OriginalPrice != nil {
		p := *o.OriginalPrice
		out.OriginalPrice = &p
	}
	if o.Stock != nil {
		s := *o.Stock
		out.Stock = &s
	}
	if o.DealEndsAt != nil {
		t := *o.DealEndsAt
		out.DealEndsAt = &t
	}
	out.Rating = cloneFloat(o.Rating)
	return out
}

func cloneFloat(f *float64) *float64 {
	if f == nil {
		return nil
	}
	v := *f
	return &v
}

// Normalize applies the boundary defaults to vendors read from a source:
// offerings get their owner id, a placeholder image when they have none, and
// ratings are clamped to 0..5.
func Normalize(vertical Vertical, vendors []Vendor) []Vendor {
	out := make([]Vendor, len(vendors))
	for i, v := range vendors {
		v = v.Clone()
		v.Rating = clampRating(v.Rating)
		for j := range v.Offerings {
			o := &v.Offerings[j]
			o.VendorID = v.ID
			if strings.TrimSpace(o.ImageURL) == "" {
				o.ImageURL = vertical.PlaceholderImage()
			}
			o.Rating = clampRating(o.Rating)
		}
		out[i] = v
	}
	return out
}

func clampRating(r *float64) *float64 {
	if r == nil {
		return nil
	}
	v := *r
	switch {
	case v < 0:
		v = 0
	case v > 5:
		v = 5
	}
	return &v
}
