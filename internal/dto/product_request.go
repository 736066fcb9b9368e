package dto

import (
	"strings"

	"github.com/shopspring/decimal"
)

// ProductRequest is the body of both create and update calls. An update replaces all
// editable fields.
type ProductRequest struct {
	Name       string          `json:"name" validate:"required,min=2,max=200"`
	SKU        string          `json:"sku" validate:"required,sku"`
	Price      decimal.Decimal `json:"price" validate:"gte=0.01"`
	Stock      int             `json:"stock" validate:"gte=0"`
	CategoryID int64           `json:"categoryId" validate:"required,gt=0"`
}

func (r ProductRequest) Normalize() ProductRequest {
	r.Name = strings.TrimSpace(r.Name)
	r.SKU = strings.ToUpper(strings.TrimSpace(r.SKU))

	return r
}
