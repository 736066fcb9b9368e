package monitor

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html/template"

	"github.com/dustin/go-humanize"
	"github.com/rs/zerolog/log"
	"gopkg.in/gomail.v2"

	"github.com/alimikegami/point-of-sales/inventory-dashboard/internal/domain"
	"github.com/alimikegami/point-of-sales/inventory-dashboard/pkg/utils"
)

type LogNotifier struct{}

func (LogNotifier) Notify(ctx context.Context, products []domain.Product) error {
	for _, p := range products {
		log.Warn().Str("component", "LowStockAlert").
			Int64("product_id", p.ID).
			Str("sku", p.SKU).
			Int("stock", p.Stock).
			Msg("product stock is low")
	}

	return nil
}

type MultiNotifier []Notifier

// Notify calls every notifier and joins their errors.
func (m MultiNotifier) Notify(ctx context.Context, products []domain.Product) error {
	var errs []error
	for _, n := range m {
		if err := n.Notify(ctx, products); err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}

var alertEmailTemplate = template.Must(template.New("alert").Parse(`<p>{{.Count}} product(s) dropped below the low-stock threshold.</p>
<table>
<tr><th>SKU</th><th>Name</th><th>Category</th><th>Price</th><th>Stock</th></tr>
{{range .Rows}}<tr><td>{{.SKU}}</td><td>{{.Name}}</td><td>{{.Category}}</td><td>{{.Price}}</td><td>{{.Stock}}</td></tr>
{{end}}</table>`))

type alertEmailRow struct {
	SKU      string
	Name     string
	Category string
	Price    string
	Stock    string
}

// EmailNotifier mails the alert to a single recipient.
type EmailNotifier struct {
	smtp      utils.SMTPConfig
	sender    string
	recipient string
	send      func(message *gomail.Message, config utils.SMTPConfig) error
}

func CreateEmailNotifier(smtp utils.SMTPConfig, sender, recipient string) *EmailNotifier {
	return &EmailNotifier{
		smtp:      smtp,
		sender:    sender,
		recipient: recipient,
		send:      utils.SendEmail,
	}
}

func (n *EmailNotifier) Notify(ctx context.Context, products []domain.Product) error {
	body, err := renderAlertEmail(products)
	if err != nil {
		return err
	}

	m := gomail.NewMessage()
	m.SetHeader("From", n.sender)
	m.SetHeader("To", n.recipient)
	m.SetHeader("Subject", fmt.Sprintf("Low stock alert: %s product(s)", humanize.Comma(int64(len(products)))))
	m.SetBody("text/html", body)

	if err := n.send(m, n.smtp); err != nil {
		return fmt.Errorf("failed to send low stock email: %w", err)
	}

	return nil
}

func renderAlertEmail(products []domain.Product) (string, error) {
	rows := make([]alertEmailRow, len(products))
	for i, p := range products {
		price, _ := p.Price.Float64()
		rows[i] = alertEmailRow{
			SKU:      p.SKU,
			Name:     p.Name,
			Category: p.CategoryName,
			Price:    humanize.FormatFloat("#,###.##", price),
			Stock:    humanize.Comma(int64(p.Stock)),
		}
	}

	var buf bytes.Buffer
	err := alertEmailTemplate.Execute(&buf, struct {
		Count string
		Rows  []alertEmailRow
	}{
		Count: humanize.Comma(int64(len(products))),
		Rows:  rows,
	})
	if err != nil {
		return "", err
	}

	return buf.String(), nil
}
