package printing

import (
	"bytes"
	"html/template"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// InvoiceDocument is the data bound to the invoice template
type InvoiceDocument struct {
	InvoiceNumber string
	CustomerName  string
	CustomerRef   string
	AddressLines  []string
	IssuedAt      time.Time
	DueDate       time.Time
	Lines         []DocumentLine
	Total         decimal.Decimal
	Overdue       bool
}

// DocumentLine is one charge on an invoice
type DocumentLine struct {
	Description string
	Amount      decimal.Decimal
	IsLateFee   bool
}

// ReceiptDocument is the data bound to the receipt template
type ReceiptDocument struct {
	ReceiptNumber string
	InvoiceNumber string
	CustomerName  string
	CustomerRef   string
	Amount        decimal.Decimal
	Method        string
	PaidAt        time.Time
}

// DocumentBuilder renders invoice and receipt HTML from embedded templates
type DocumentBuilder struct {
	invoiceTmpl *template.Template
	receiptTmpl *template.Template
}

// NewDocumentBuilder parses the embedded document templates
func NewDocumentBuilder() (*DocumentBuilder, error) {
	funcs := template.FuncMap{
		"formatMoney": formatMoney,
		"formatDate":  formatDate,
		"methodText":  methodText,
	}

	invoiceTmpl, err := template.New("invoice").Funcs(funcs).Parse(invoiceTemplate)
	if err != nil {
		return nil, NewRenderError(ErrCodeInvalidHTML, "failed to parse invoice template", err)
	}
	receiptTmpl, err := template.New("receipt").Funcs(funcs).Parse(receiptTemplate)
	if err != nil {
		return nil, NewRenderError(ErrCodeInvalidHTML, "failed to parse receipt template", err)
	}

	return &DocumentBuilder{
		invoiceTmpl: invoiceTmpl,
		receiptTmpl: receiptTmpl,
	}, nil
}

// BuildInvoiceHTML renders the invoice document as HTML
func (b *DocumentBuilder) BuildInvoiceHTML(doc *InvoiceDocument) (string, error) {
	var buf bytes.Buffer
	if err := b.invoiceTmpl.Execute(&buf, doc); err != nil {
		return "", NewRenderError(ErrCodeRenderFailed, "failed to execute invoice template", err)
	}
	return buf.String(), nil
}

// BuildReceiptHTML renders the receipt document as HTML
func (b *DocumentBuilder) BuildReceiptHTML(doc *ReceiptDocument) (string, error) {
	var buf bytes.Buffer
	if err := b.receiptTmpl.Execute(&buf, doc); err != nil {
		return "", NewRenderError(ErrCodeRenderFailed, "failed to execute receipt template", err)
	}
	return buf.String(), nil
}

// formatMoney formats a decimal value as GBP with thousand separators.
// Example: 1234.5 -> "£1,234.50"
func formatMoney(d decimal.Decimal) string {
	sign := ""
	if d.IsNegative() {
		sign = "-"
		d = d.Abs()
	}

	parts := strings.Split(d.StringFixed(2), ".")
	intPart := parts[0]
	decPart := "00"
	if len(parts) > 1 {
		decPart = parts[1]
	}

	var result strings.Builder
	for i, c := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			result.WriteRune(',')
		}
		result.WriteRune(c)
	}

	return sign + "£" + result.String() + "." + decPart
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("2 January 2006")
}

// methodText converts payment method codes to display text
func methodText(method string) string {
	switch method {
	case "card_online":
		return "Card payment online"
	case "card_phone":
		return "Card payment over the phone"
	case "direct_debit":
		return "Direct Debit"
	default:
		// Unknown codes are shown title-cased with underscores removed
		return cases.Title(language.BritishEnglish).String(strings.ReplaceAll(method, "_", " "))
	}
}

const invoiceTemplate = `<!DOCTYPE html>
<html>
<head>
<meta charset="UTF-8">
<title>Invoice {{.InvoiceNumber}}</title>
<style>
  body { font-family: "Helvetica Neue", Arial, sans-serif; color: #1a1a2e; font-size: 13px; }
  .header { display: flex; justify-content: space-between; margin-bottom: 32px; }
  .brand { font-size: 22px; font-weight: bold; color: #0b5cab; }
  .meta { text-align: right; }
  .meta h1 { font-size: 18px; margin: 0 0 4px 0; }
  .overdue { color: #b42318; font-weight: bold; }
  table.lines { width: 100%; border-collapse: collapse; margin-top: 24px; }
  table.lines th { text-align: left; border-bottom: 2px solid #1a1a2e; padding: 6px 4px; }
  table.lines td { border-bottom: 1px solid #d8d8e0; padding: 6px 4px; }
  td.amount, th.amount { text-align: right; }
  tr.late-fee td { color: #b42318; }
  .total-row td { font-weight: bold; border-bottom: none; border-top: 2px solid #1a1a2e; }
  .footer { margin-top: 48px; font-size: 11px; color: #6b6b7b; }
</style>
</head>
<body>
<div class="header">
  <div>
    <div class="brand">OCC Telecom</div>
    <p>
      {{.CustomerName}}<br>
      {{- range .AddressLines}}
      {{.}}<br>
      {{- end}}
    </p>
  </div>
  <div class="meta">
    <h1>Invoice {{.InvoiceNumber}}</h1>
    <p>
      Account: {{.CustomerRef}}<br>
      Issued: {{formatDate .IssuedAt}}<br>
      Due: {{formatDate .DueDate}}
      {{- if .Overdue}}<br><span class="overdue">OVERDUE</span>{{end}}
    </p>
  </div>
</div>
<table class="lines">
  <thead>
    <tr><th>Description</th><th class="amount">Amount</th></tr>
  </thead>
  <tbody>
    {{- range .Lines}}
    <tr{{if .IsLateFee}} class="late-fee"{{end}}>
      <td>{{.Description}}</td>
      <td class="amount">{{formatMoney .Amount}}</td>
    </tr>
    {{- end}}
    <tr class="total-row">
      <td>Total due</td>
      <td class="amount">{{formatMoney .Total}}</td>
    </tr>
  </tbody>
</table>
<div class="footer">
  <p>Please pay by the due date to avoid a late payment fee. Questions about this
  invoice? Raise a support ticket from your online account.</p>
</div>
</body>
</html>`

const receiptTemplate = `<!DOCTYPE html>
<html>
<head>
<meta charset="UTF-8">
<title>Receipt {{.ReceiptNumber}}</title>
<style>
  body { font-family: "Helvetica Neue", Arial, sans-serif; color: #1a1a2e; font-size: 13px; }
  .brand { font-size: 22px; font-weight: bold; color: #0b5cab; margin-bottom: 24px; }
  h1 { font-size: 18px; }
  table { border-collapse: collapse; margin-top: 16px; }
  td { padding: 6px 16px 6px 0; }
  td.label { color: #6b6b7b; }
  .amount { font-size: 20px; font-weight: bold; }
</style>
</head>
<body>
<div class="brand">OCC Telecom</div>
<h1>Payment receipt {{.ReceiptNumber}}</h1>
<p class="amount">{{formatMoney .Amount}}</p>
<table>
  <tr><td class="label">Customer</td><td>{{.CustomerName}} ({{.CustomerRef}})</td></tr>
  <tr><td class="label">Invoice</td><td>{{.InvoiceNumber}}</td></tr>
  <tr><td class="label">Paid on</td><td>{{formatDate .PaidAt}}</td></tr>
  <tr><td class="label">Method</td><td>{{methodText .Method}}</td></tr>
</table>
<p>Thank you for your payment.</p>
</body>
</html>`
