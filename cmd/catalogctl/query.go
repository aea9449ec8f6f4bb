package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sudo-init-do/bazaar/internal/catalog"
	"github.com/sudo-init-do/bazaar/internal/catalog/seed"
)

type queryOptions struct {
	search, category, subcategory string
	minPrice, maxPrice            string
	sort, gender, brand, flag     string
	inStock                       bool
	offset, limit                 int
}

var queryFlags queryOptions

// queryCmd runs the filter pipeline over the embedded seeds
var queryCmd = &cobra.Command{
	Use:   "query <vertical>",
	Short: "Filter and sort a vertical from the embedded seeds",
	Example: `  catalogctl query construction --q steel --sort price_desc
  catalogctl query entertainment --gender women --limit 5`,
	Args: cobra.ExactArgs(1),
	RunE: runQuery,
}

func init() {
	f := queryCmd.Flags()
	f.StringVar(&queryFlags.search, "q", "", "Search text")
	f.StringVar(&queryFlags.category, "category", "", "Category")
	f.StringVar(&queryFlags.subcategory, "subcategory", "", "Subcategory")
	f.StringVar(&queryFlags.minPrice, "min-price", "", "Lowest price, inclusive")
	f.StringVar(&queryFlags.maxPrice, "max-price", "", "Highest price, inclusive")
	f.StringVar(&queryFlags.sort, "sort", "", "default, price_asc, price_desc, rating_desc or newest")
	f.StringVar(&queryFlags.gender, "gender", "", "Gender")
	f.StringVar(&queryFlags.brand, "brand", "", "Brand")
	f.StringVar(&queryFlags.flag, "flag", "", "new, hot_deal, trending or popular")
	f.BoolVar(&queryFlags.inStock, "in-stock", false, "Only vendors with something in stock")
	f.IntVar(&queryFlags.offset, "offset", 0, "Window offset")
	f.IntVar(&queryFlags.limit, "limit", 0, "Window size, 0 for everything")
}

func runQuery(cmd *cobra.Command, args []string) error {
	vertical, ok := catalog.ParseVertical(args[0])
	if !ok {
		return fmt.Errorf("unknown vertical %q", args[0])
	}

	values := map[string]string{
		"q":           queryFlags.search,
		"category":    queryFlags.category,
		"subcategory": queryFlags.subcategory,
		"min_price":   queryFlags.minPrice,
		"max_price":   queryFlags.maxPrice,
		"sort":        queryFlags.sort,
		"gender":      queryFlags.gender,
		"brand":       queryFlags.brand,
		"flag":        queryFlags.flag,
	}
	if queryFlags.inStock {
		values["in_stock"] = "true"
	}
	filter, err := catalog.ParseFilter(func(k string) string { return values[k] })
	if err != nil {
		return err
	}

	vendors, err := seed.Source{}.Load(cmd.Context(), vertical)
	if err != nil {
		return err
	}
	page := catalog.Window(catalog.Apply(catalog.Normalize(vertical, vendors), filter), queryFlags.offset, queryFlags.limit)

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(page)
}
