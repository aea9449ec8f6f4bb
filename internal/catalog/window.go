package catalog

// Page is one "load more" slice of an already filtered list.
type Page struct {
	Vendors    []Vendor `json:"vendors"`
	Offset     int      `json:"offset"`
	Limit      int      `json:"limit"`
	Total      int      `json:"total"`
	HasMore    bool     `json:"has_more"`
	NextOffset int      `json:"next_offset,omitempty"`
}

// Window slices vendors for incremental loading. Offsets past the end give an
// empty page; a non-positive limit returns everything from offset.
func Window(vendors []Vendor, offset, limit int) Page {
	total := len(vendors)
	if offset < 0 {
		offset = 0
	}
	if offset > total {
		offset = total
	}
	end := total
	if limit > 0 && limit < total-offset {
		end = offset + limit
	}

	page := Page{
		Vendors: vendors[offset:end:end],
		Offset:  offset,
		Limit:   limit,
		Total:   total,
		HasMore: end < total,
	}
	if page.HasMore {
		page.NextOffset = end
	}
	return page
}
