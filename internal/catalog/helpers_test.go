package catalog

import (
	"time"

	"github.com/shopspring/decimal"
)

func ptr[T any](v T) *T { return &v }

func money(amount string) Money {
	return Money{Amount: decimal.RequireFromString(amount), Currency: "KES"}
}

func day(d int) time.Time {
	return time.Date(2024, time.January, d, 0, 0, 0, 0, time.UTC)
}

func offering(id, name string, price string) Offering {
	return Offering{ID: id, Name: name, Price: money(price), Category: "General", DateAdded: day(1)}
}

func vendor(id string, offerings ...Offering) Vendor {
	return Vendor{ID: id, Name: "Vendor " + id, Location: "Nairobi", Offerings: offerings}
}

func ids(vendors []Vendor) []string {
	out := make([]string, 0, len(vendors))
	for _, v := range vendors {
		out = append(out, v.ID)
	}
	return out
}

func bound(amount string) decimal.NullDecimal {
	return decimal.NewNullDecimal(decimal.RequireFromString(amount))
}
