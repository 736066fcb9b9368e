package utils

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alimikegami/point-of-sales/inventory-dashboard/pkg/errs"
)

type productForm struct {
	Name       string          `json:"name" validate:"required,min=2,max=200"`
	SKU        string          `json:"sku" validate:"required,sku"`
	Price      decimal.Decimal `json:"price" validate:"gt=0"`
	Stock      int             `json:"stock" validate:"gte=0"`
	CategoryID int64           `json:"categoryId" validate:"required,gt=0"`
}

func TestValidateStruct(t *testing.T) {
	testCases := []struct {
		Name     string
		Form     productForm
		Expected map[string]string
	}{
		{
			Name: "valid",
			Form: productForm{Name: "Widget", SKU: "WID-001", Price: decimal.RequireFromString("0.01"), Stock: 0, CategoryID: 1},
		},
		{
			Name: "every rule broken",
			Form: productForm{Name: "W", SKU: "wid-1", Price: decimal.Zero, Stock: -1},
			Expected: map[string]string{
				"name":       "Minimum length is 2",
				"sku":        "Must match the format AAA-000 (3 uppercase letters, hyphen, 3 digits)",
				"price":      "Must be greater than 0",
				"stock":      "Must be greater than or equal to 0",
				"categoryId": "This field is required",
			},
		},
		{
			Name:     "negative price",
			Form:     productForm{Name: "Widget", SKU: "WID-001", Price: decimal.RequireFromString("-2"), Stock: 1, CategoryID: 1},
			Expected: map[string]string{"price": "Must be greater than 0"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.Name, func(t *testing.T) {
			err := ValidateStruct(tc.Form)
			if tc.Expected == nil {
				require.NoError(t, err)
				return
			}

			require.ErrorIs(t, err, errs.ErrValidation)
			assert.Equal(t, tc.Expected, errs.FieldErrors(err))
		})
	}
}
