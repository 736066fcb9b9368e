package export

import (
	"fmt"
	"io"

	"github.com/360EntSecGroup-Skylar/excelize/v2"

	"github.com/alimikegami/point-of-sales/inventory-dashboard/internal/domain"
)

const (
	ProductsSheet = "Products"
	ContentType   = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

var (
	headerStyle = `
	{
		"border": [
			{"type": "left", "color": "#000000", "style": 1},
			{"type": "top", "color": "#000000", "style": 1},
			{"type": "right", "color": "#000000", "style": 1},
			{"type": "bottom", "color": "#000000", "style": 1}
		],
		"fill": {"type": "pattern", "pattern": 1, "color": ["#96b753"]},
		"font": {"bold": true},
		"alignment": {"shrink_to_fit": true, "horizontal": "center"}
	}
	`
	dataStyle = `
	{
		"border": [
			{"type": "left", "color": "#000000", "style": 1},
			{"type": "top", "color": "#000000", "style": 1},
			{"type": "right", "color": "#000000", "style": 1},
			{"type": "bottom", "color": "#000000", "style": 1}
		],
		"alignment": {"shrink_to_fit": true}
	}
	`
	lowStockStyle = `
	{
		"border": [
			{"type": "left", "color": "#000000", "style": 1},
			{"type": "top", "color": "#000000", "style": 1},
			{"type": "right", "color": "#000000", "style": 1},
			{"type": "bottom", "color": "#000000", "style": 1}
		],
		"fill": {"type": "pattern", "pattern": 1, "color": ["#f4cccc"]},
		"alignment": {"shrink_to_fit": true}
	}
	`

	productHeaders = []string{"ID", "Name", "SKU", "Category", "Price", "Stock"}
)

// WriteProductsXLSX writes products as one worksheet. Rows whose stock is below
// lowStockThreshold are highlighted.
func WriteProductsXLSX(w io.Writer, products []domain.Product, lowStockThreshold int) error {
	f := excelize.NewFile()

	f.NewSheet(ProductsSheet)
	f.DeleteSheet("Sheet1")

	if err := f.SetColWidth(ProductsSheet, "A", "A", 10); err != nil {
		return err
	}
	if err := f.SetColWidth(ProductsSheet, "B", "D", 35); err != nil {
		return err
	}
	if err := f.SetColWidth(ProductsSheet, "E", "F", 15); err != nil {
		return err
	}

	headerStyleID, err := f.NewStyle(headerStyle)
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}
	dataStyleID, err := f.NewStyle(dataStyle)
	if err != nil {
		return fmt.Errorf("failed to create data style: %w", err)
	}
	lowStockStyleID, err := f.NewStyle(lowStockStyle)
	if err != nil {
		return fmt.Errorf("failed to create low stock style: %w", err)
	}

	streamWriter, err := f.NewStreamWriter(ProductsSheet)
	if err != nil {
		return err
	}

	header := make([]interface{}, len(productHeaders))
	for i, h := range productHeaders {
		header[i] = excelize.Cell{StyleID: headerStyleID, Value: h}
	}
	if err := streamWriter.SetRow("A1", header); err != nil {
		return err
	}

	for n, product := range products {
		style := dataStyleID
		if product.IsLowStock(lowStockThreshold) {
			style = lowStockStyleID
		}

		price, _ := product.Price.Float64()
		row := []interface{}{
			excelize.Cell{StyleID: style, Value: product.ID},
			excelize.Cell{StyleID: style, Value: product.Name},
			excelize.Cell{StyleID: style, Value: product.SKU},
			excelize.Cell{StyleID: style, Value: product.CategoryName},
			excelize.Cell{StyleID: style, Value: price},
			excelize.Cell{StyleID: style, Value: product.Stock},
		}

		cell, _ := excelize.CoordinatesToCellName(1, n+2)
		if err := streamWriter.SetRow(cell, row); err != nil {
			return err
		}
	}

	if err := streamWriter.Flush(); err != nil {
		return err
	}

	_, err = f.WriteTo(w)

	return err
}
