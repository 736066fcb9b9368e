package dto

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/alimikegami/point-of-sales/inventory-dashboard/pkg/errs"
)

// ProductFilter narrows a product listing. A nil field is absent and never sent.
type ProductFilter struct {
	CategoryID *int64           `json:"categoryId,omitempty"`
	MinPrice   *decimal.Decimal `json:"minPrice,omitempty"`
	MaxPrice   *decimal.Decimal `json:"maxPrice,omitempty"`
	MinStock   *int             `json:"minStock,omitempty"`
	MaxStock   *int             `json:"maxStock,omitempty"`
}

func (f ProductFilter) IsEmpty() bool {
	return f.CategoryID == nil && f.MinPrice == nil && f.MaxPrice == nil && f.MinStock == nil && f.MaxStock == nil
}

// Apply adds the present filters to q.
func (f ProductFilter) Apply(q url.Values) {
	if f.CategoryID != nil {
		q.Set("categoryId", strconv.FormatInt(*f.CategoryID, 10))
	}
	if f.MinPrice != nil {
		q.Set("minPrice", f.MinPrice.String())
	}
	if f.MaxPrice != nil {
		q.Set("maxPrice", f.MaxPrice.String())
	}
	if f.MinStock != nil {
		q.Set("minStock", strconv.Itoa(*f.MinStock))
	}
	if f.MaxStock != nil {
		q.Set("maxStock", strconv.Itoa(*f.MaxStock))
	}
}

// ParseProductFilter reads filters from query parameters. Blank parameters are absent.
func ParseProductFilter(q url.Values) (ProductFilter, error) {
	var filter ProductFilter
	fieldErrors := map[string]string{}

	if v := strings.TrimSpace(q.Get("categoryId")); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			fieldErrors["categoryId"] = "Must be an integer"
		} else {
			filter.CategoryID = &id
		}
	}

	for _, name := range []string{"minPrice", "maxPrice"} {
		v := strings.TrimSpace(q.Get(name))
		if v == "" {
			continue
		}
		d, err := decimal.NewFromString(v)
		if err != nil {
			fieldErrors[name] = "Must be a decimal number"
			continue
		}
		if name == "minPrice" {
			filter.MinPrice = &d
		} else {
			filter.MaxPrice = &d
		}
	}

	for _, name := range []string{"minStock", "maxStock"} {
		v := strings.TrimSpace(q.Get(name))
		if v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			fieldErrors[name] = "Must be an integer"
			continue
		}
		if name == "minStock" {
			filter.MinStock = &n
		} else {
			filter.MaxStock = &n
		}
	}

	if len(fieldErrors) > 0 {
		return ProductFilter{}, &errs.ValidationError{FieldErrors: fieldErrors}
	}

	return filter, nil
}
