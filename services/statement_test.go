package services

import (
	"testing"

	"lawyer_app_go/models"

	"github.com/stretchr/testify/assert"
)

func TestBuildStatementHTMLBilledCase(t *testing.T) {
	c := models.NewCase()
	c.CaseTitle = "Sharma vs Verma"
	c.CaseNumber = "CS/123/2026"
	c.Court = "High Court"
	c.AppearingFor = "Sharma"
	c.Quotation = 50000
	c.PerHearingFees = 2000
	c.InvoiceAmount = 10000
	c.Installments = []models.Installment{{InvoiceNumber: "INV-1", Amount: 5000, PaymentMethod: models.PaymentMethodUPI}}
	c.Hearings = []models.Hearing{{Date: "2026-02-01", Remark: "Arguments", FeesCharged: 2000}}

	html, err := BuildStatementHTML(c)
	assert.NoError(t, err)

	assert.Contains(t, html, "Sharma vs Verma")
	assert.Contains(t, html, "CS/123/2026")
	assert.Contains(t, html, "Hearings")
	assert.NotContains(t, html, "Court Visits")
	// Balance recomputed: 50000 - (10000 + 5000 + 2000)
	assert.Contains(t, html, "33000.00")
}

func TestBuildStatementHTMLUnbilledCaseShowsVisits(t *testing.T) {
	c := models.NewCase()
	c.CaseTitle = "Estate of Gupta"
	c.Quotation = 30000
	c.CourtVisits = []models.CourtVisit{{Date: "2026-02-01", Remark: "Adjourned"}}

	html, err := BuildStatementHTML(c)
	assert.NoError(t, err)

	assert.Contains(t, html, "Court Visits")
	assert.Contains(t, html, "Adjourned")
	assert.NotContains(t, html, ">Hearings<")
}

func TestBuildStatementHTMLEscapesEntitiesOnce(t *testing.T) {
	c := models.NewCase()
	c.CaseTitle = "O'Brien & Co vs State"
	c.Remark = `fees < quotation, "pending"`

	html, err := BuildStatementHTML(c)
	assert.NoError(t, err)

	assert.Contains(t, html, "O&#39;Brien &amp; Co vs State")
	assert.Contains(t, html, "fees &lt; quotation, &#34;pending&#34;")
	// Entities must not be escaped a second time.
	assert.NotContains(t, html, "&amp;#39;")
	assert.NotContains(t, html, "&amp;amp;")
	assert.NotContains(t, html, "&amp;lt;")
}

func TestBuildStatementHTMLSanitizesRemarks(t *testing.T) {
	c := models.NewCase()
	c.CaseTitle = "Sharma vs Verma"
	c.Remark = `<script>alert("x")</script>next date soon`

	html, err := BuildStatementHTML(c)
	assert.NoError(t, err)

	assert.NotContains(t, html, "<script>")
	assert.Contains(t, html, "next date soon")
}
