package services

import (
	"bytes"
	"testing"

	"lawyer_app_go/models"

	"github.com/stretchr/testify/assert"
	"github.com/xuri/excelize/v2"
)

func TestExportCasesWorkbook(t *testing.T) {
	c := models.NewCase()
	c.CaseTitle = "Sharma vs Verma"
	c.CaseNumber = "CS/123/2026"
	c.Quotation = 50000
	c.PerHearingFees = 2000
	c.Installments = []models.Installment{{InvoiceNumber: "INV-1", Amount: 5000, PaymentMethod: models.PaymentMethodCash}}
	c.Hearings = []models.Hearing{{Date: "2026-02-01", FeesCharged: 2000}}
	c.CourtVisits = []models.CourtVisit{{Date: "2026-02-05", Remark: "Adjourned"}}

	buf, err := ExportCasesWorkbook([]models.Case{c})
	assert.NoError(t, err)
	assert.NotZero(t, buf.Len())

	f, err := excelize.OpenReader(bytes.NewReader(buf.Bytes()))
	assert.NoError(t, err)
	defer f.Close()

	assert.ElementsMatch(t, []string{"Cases", "Installments", "Hearings", "Court Visits"}, f.GetSheetList())

	title, err := f.GetCellValue("Cases", "A2")
	assert.NoError(t, err)
	assert.Equal(t, "Sharma vs Verma", title)

	// Balance column recomputed from the children.
	balance, err := f.GetCellValue("Cases", "J2")
	assert.NoError(t, err)
	assert.Equal(t, "43000", balance)

	instTitle, err := f.GetCellValue("Installments", "A2")
	assert.NoError(t, err)
	assert.Equal(t, "Sharma vs Verma", instTitle)

	hearingDate, err := f.GetCellValue("Hearings", "B2")
	assert.NoError(t, err)
	assert.Equal(t, "2026-02-01", hearingDate)

	visitRemark, err := f.GetCellValue("Court Visits", "C2")
	assert.NoError(t, err)
	assert.Equal(t, "Adjourned", visitRemark)
}

func TestExportCasesWorkbookEmptyBook(t *testing.T) {
	buf, err := ExportCasesWorkbook(nil)
	assert.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(buf.Bytes()))
	assert.NoError(t, err)
	defer f.Close()

	header, err := f.GetCellValue("Cases", "A1")
	assert.NoError(t, err)
	assert.Equal(t, "Case Title", header)
}
