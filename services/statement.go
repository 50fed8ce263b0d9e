package services

import (
	"fmt"
	"html/template"
	"strings"

	"lawyer_app_go/models"

	"github.com/microcosm-cc/bluemonday"
)

// statementTemplate renders a single case as a printable account
// statement. Free-text fields go through the `san` function, which
// bluemonday-sanitizes them and marks the result safe, so stored markup
// cannot script the rendered page and entities are not escaped a second
// time by html/template.
const statementTemplate = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<style>
  body { font-family: Georgia, 'Times New Roman', serif; color: #1a1a2e; font-size: 13px; }
  h1 { font-size: 20px; border-bottom: 2px solid #1a1a2e; padding-bottom: 8px; }
  h2 { font-size: 15px; margin-top: 24px; }
  table { width: 100%; border-collapse: collapse; margin-top: 8px; }
  th, td { border: 1px solid #999; padding: 6px 8px; text-align: left; }
  th { background: #f0f0f5; }
  .amount { text-align: right; }
  .meta td { border: none; padding: 2px 8px 2px 0; }
  .balance { font-size: 15px; font-weight: bold; margin-top: 24px; }
  .muted { color: #666; font-style: italic; }
</style>
</head>
<body>
<h1>Statement of Account</h1>
<table class="meta">
  <tr><td>Case Title</td><td>{{san .Case.CaseTitle}}</td></tr>
  <tr><td>Case Number</td><td>{{san .Case.CaseNumber}}</td></tr>
  <tr><td>Court</td><td>{{san .Case.Court}}</td></tr>
  <tr><td>Appearing For</td><td>{{san .Case.AppearingFor}}</td></tr>
  <tr><td>Date Created</td><td>{{.Case.DateCreated}}</td></tr>
  {{if .Case.Reference}}<tr><td>Reference</td><td>{{san .Case.Reference}}</td></tr>{{end}}
</table>

<h2>Fees</h2>
<table>
  <tr><th>Item</th><th class="amount">Amount</th></tr>
  <tr><td>Quotation</td><td class="amount">{{printf "%.2f" .Case.Quotation}}</td></tr>
  <tr><td>Invoiced{{if .Case.InvoiceNumber}} ({{san .Case.InvoiceNumber}}{{if .Case.InvoiceDate}}, {{.Case.InvoiceDate}}{{end}}){{end}}</td><td class="amount">{{printf "%.2f" .Case.InvoiceAmount}}</td></tr>
</table>

<h2>Installments Received</h2>
{{if .Case.Installments}}
<table>
  <tr><th>Invoice</th><th>Invoice Date</th><th>Received</th><th>Method</th><th class="amount">Amount</th></tr>
  {{range .Case.Installments}}
  <tr><td>{{san .InvoiceNumber}}</td><td>{{.InvoiceDate}}</td><td>{{.DateReceived}}</td><td>{{san .PaymentMethod}}</td><td class="amount">{{printf "%.2f" .Amount}}</td></tr>
  {{end}}
  <tr><th colspan="4">Total Received</th><th class="amount">{{printf "%.2f" .TotalPaid}}</th></tr>
</table>
{{else}}<p class="muted">No installments recorded.</p>{{end}}

{{if .HearingsBilled}}
<h2>Hearings</h2>
{{if .Case.Hearings}}
<table>
  <tr><th>Date</th><th>Remark</th><th class="amount">Fees Charged</th></tr>
  {{range .Case.Hearings}}
  <tr><td>{{.Date}}</td><td>{{san .Remark}}</td><td class="amount">{{printf "%.2f" .FeesCharged}}</td></tr>
  {{end}}
  <tr><th colspan="2">Total Hearing Fees</th><th class="amount">{{printf "%.2f" .TotalHearingFees}}</th></tr>
</table>
{{else}}<p class="muted">No hearings recorded.</p>{{end}}
{{else}}
<h2>Court Visits</h2>
{{if .Case.CourtVisits}}
<table>
  <tr><th>Date</th><th>Remark</th></tr>
  {{range .Case.CourtVisits}}
  <tr><td>{{.Date}}</td><td>{{san .Remark}}</td></tr>
  {{end}}
</table>
{{else}}<p class="muted">No court visits recorded.</p>{{end}}
{{end}}

{{if .Case.Remark}}<h2>Remark</h2><p>{{san .Case.Remark}}</p>{{end}}

<p class="balance">Balance Remaining: {{printf "%.2f" .Case.BalanceRemaining}}</p>
{{if .Case.TDSApplicable}}<p class="muted">TDS applicable.</p>{{end}}
</body>
</html>`

type statementData struct {
	Case             models.Case
	TotalPaid        float64
	TotalHearingFees float64
	HearingsBilled   bool
}

// BuildStatementHTML renders a case into a self-contained statement page.
func BuildStatementHTML(c models.Case) (string, error) {
	c.Normalize()

	data := statementData{
		Case:           c,
		HearingsBilled: c.IsHearingBilled(),
	}
	for _, inst := range c.Installments {
		data.TotalPaid += inst.Amount
	}
	for _, h := range c.Hearings {
		data.TotalHearingFees += h.FeesCharged
	}

	// Sanitized output is already safe HTML; marking it template.HTML
	// keeps html/template from escaping the entities again.
	policy := bluemonday.UGCPolicy()
	tmpl, err := template.New("statement").Funcs(template.FuncMap{
		"san": func(s string) template.HTML {
			return template.HTML(policy.Sanitize(s))
		},
	}).Parse(statementTemplate)
	if err != nil {
		return "", fmt.Errorf("failed to parse statement template: %w", err)
	}
	var buf strings.Builder
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to render statement: %w", err)
	}
	return buf.String(), nil
}
