// Package receipt renders transaction receipts as HTML strings. Rendering is
// pure: the same data always yields the same markup, so it can run inside
// the checkout unit of work.
package receipt

import (
	"html/template"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/kavindus/autoparts_pos_app/internal/core/domain"
)

// Data carries everything a receipt shows.
type Data struct {
	ReferenceNumber string
	Heading         string // optional, e.g. "REFUND"; defaults per template
	Items           []domain.SoldItem
	TradeIns        []domain.TradeIn
	TotalAmount     decimal.Decimal
	PaymentMethod   string
	CashierID       string
	CarPlateNumber  string
	OriginalBill    string
	CreatedAt       time.Time
}

var funcs = template.FuncMap{
	"money": func(d decimal.Decimal) string { return d.StringFixed(2) },
	"lineTotal": func(it domain.SoldItem) string {
		return it.LineTotal().StringFixed(2)
	},
	"fmtTime": func(t time.Time) string { return t.Format("2006-01-02 15:04") },
}

var receiptTmpl = template.Must(template.New("receipt").Funcs(funcs).Parse(`<div class="receipt">
<h2>{{if .Heading}}{{.Heading}}{{else}}SALES RECEIPT{{end}}</h2>
<p class="refno">{{.ReferenceNumber}}</p>
{{if .OriginalBill}}<p class="original">Original bill: {{.OriginalBill}}</p>{{end}}
<p>{{fmtTime .CreatedAt}} &middot; Cashier {{.CashierID}}</p>
{{if .CarPlateNumber}}<p>Vehicle: {{.CarPlateNumber}}</p>{{end}}
<table>
<thead><tr><th>Item</th><th>Qty</th><th>Price</th><th>Total</th></tr></thead>
<tbody>
{{range .Items}}<tr><td>{{.Description}}</td><td>{{.Quantity}}</td><td>{{money .UnitPrice}}</td><td>{{lineTotal .}}</td></tr>
{{end}}</tbody>
</table>
{{range .TradeIns}}<p class="tradein">Trade-in: {{.Description}} -{{money .Value}}</p>
{{end}}<p class="total">TOTAL: {{money .TotalAmount}}</p>
<p class="payment">Paid by {{.PaymentMethod}}</p>
</div>`))

var batteryBillTmpl = template.Must(template.New("batterybill").Funcs(funcs).Parse(`<div class="battery-bill">
<h2>{{if .Heading}}{{.Heading}}{{else}}BATTERY BILL{{end}}</h2>
<p class="refno">{{.ReferenceNumber}}</p>
{{if .OriginalBill}}<p class="original">Original bill: {{.OriginalBill}}</p>{{end}}
<p>{{fmtTime .CreatedAt}} &middot; Cashier {{.CashierID}}</p>
{{if .CarPlateNumber}}<p>Vehicle: {{.CarPlateNumber}}</p>{{end}}
<table>
<thead><tr><th>Battery</th><th>Qty</th><th>Price</th><th>Total</th></tr></thead>
<tbody>
{{range .Items}}<tr><td>{{.Description}}</td><td>{{.Quantity}}</td><td>{{money .UnitPrice}}</td><td>{{lineTotal .}}</td></tr>
{{end}}</tbody>
</table>
{{range .TradeIns}}<p class="tradein">Old battery trade-in: {{.Description}} -{{money .Value}}</p>
{{end}}<p class="total">NET PAYABLE: {{money .TotalAmount}}</p>
<p class="payment">Paid by {{.PaymentMethod}}</p>
<p class="warranty">Warranty subject to inspection. Keep this bill.</p>
</div>`))

// RenderReceipt renders the standard thermal receipt.
func RenderReceipt(data Data) (string, error) {
	return render(receiptTmpl, data)
}

// RenderBatteryBill renders the battery bill variant.
func RenderBatteryBill(data Data) (string, error) {
	return render(batteryBillTmpl, data)
}

func render(tmpl *template.Template, data Data) (string, error) {
	var sb strings.Builder
	if err := tmpl.Execute(&sb, data); err != nil {
		return "", err
	}
	return sb.String(), nil
}
