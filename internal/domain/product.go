package domain

import "github.com/shopspring/decimal"

// DefaultLowStockThreshold is the stock level under which a product is listed in alerts.
const DefaultLowStockThreshold = 5

func init() {
	// the inventory API expects prices as JSON numbers
	decimal.MarshalJSONWithoutQuotes = true
}

type Product struct {
	ID           int64           `json:"id"`
	Name         string          `json:"name"`
	SKU          string          `json:"sku"`
	Price        decimal.Decimal `json:"price"`
	Stock        int             `json:"stock"`
	CategoryID   int64           `json:"categoryId"`
	CategoryName string          `json:"categoryName"`
}

func (p Product) IsLowStock(threshold int) bool {
	return p.Stock < threshold
}
