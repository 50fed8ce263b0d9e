package services

import (
	"bytes"
	"fmt"

	"lawyer_app_go/models"

	"github.com/xuri/excelize/v2"
)

// ExportCasesWorkbook renders the whole case book as an Excel workbook
// with one sheet per record type. Child rows carry the owning case title
// so the flat sheets stay readable.
func ExportCasesWorkbook(cases []models.Case) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer f.Close()

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#D9E1F2"}, Pattern: 1},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}

	const casesSheet = "Cases"
	f.SetSheetName("Sheet1", casesSheet)
	caseHeaders := []string{
		"Case Title", "Case Number", "Court", "Appearing For", "Quotation",
		"Per Hearing Fees", "Invoice Number", "Invoice Date", "Invoice Amount",
		"Balance Remaining", "TDS Applicable", "Reference", "Remark", "Date Created",
	}
	if err := writeHeaderRow(f, casesSheet, caseHeaders, headerStyle); err != nil {
		return nil, err
	}
	for i, c := range cases {
		c.Normalize()
		row := i + 2
		values := []interface{}{
			c.CaseTitle, c.CaseNumber, c.Court, c.AppearingFor, c.Quotation,
			c.PerHearingFees, c.InvoiceNumber, c.InvoiceDate, c.InvoiceAmount,
			c.BalanceRemaining, c.TDSApplicable, c.Reference, c.Remark, c.DateCreated,
		}
		if err := writeRow(f, casesSheet, row, values); err != nil {
			return nil, err
		}
	}

	const installmentsSheet = "Installments"
	if _, err := f.NewSheet(installmentsSheet); err != nil {
		return nil, fmt.Errorf("failed to create sheet %s: %w", installmentsSheet, err)
	}
	instHeaders := []string{"Case Title", "Invoice Number", "Invoice Date", "Date Received", "Payment Method", "Amount"}
	if err := writeHeaderRow(f, installmentsSheet, instHeaders, headerStyle); err != nil {
		return nil, err
	}
	row := 2
	for _, c := range cases {
		for _, inst := range c.Installments {
			values := []interface{}{c.CaseTitle, inst.InvoiceNumber, inst.InvoiceDate, inst.DateReceived, inst.PaymentMethod, inst.Amount}
			if err := writeRow(f, installmentsSheet, row, values); err != nil {
				return nil, err
			}
			row++
		}
	}

	const hearingsSheet = "Hearings"
	if _, err := f.NewSheet(hearingsSheet); err != nil {
		return nil, fmt.Errorf("failed to create sheet %s: %w", hearingsSheet, err)
	}
	hearingHeaders := []string{"Case Title", "Date", "Remark", "Fees Charged"}
	if err := writeHeaderRow(f, hearingsSheet, hearingHeaders, headerStyle); err != nil {
		return nil, err
	}
	row = 2
	for _, c := range cases {
		for _, h := range c.Hearings {
			values := []interface{}{c.CaseTitle, h.Date, h.Remark, h.FeesCharged}
			if err := writeRow(f, hearingsSheet, row, values); err != nil {
				return nil, err
			}
			row++
		}
	}

	const visitsSheet = "Court Visits"
	if _, err := f.NewSheet(visitsSheet); err != nil {
		return nil, fmt.Errorf("failed to create sheet %s: %w", visitsSheet, err)
	}
	visitHeaders := []string{"Case Title", "Date", "Remark"}
	if err := writeHeaderRow(f, visitsSheet, visitHeaders, headerStyle); err != nil {
		return nil, err
	}
	row = 2
	for _, c := range cases {
		for _, v := range c.CourtVisits {
			values := []interface{}{c.CaseTitle, v.Date, v.Remark}
			if err := writeRow(f, visitsSheet, row, values); err != nil {
				return nil, err
			}
			row++
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf, nil
}

func writeHeaderRow(f *excelize.File, sheet string, headers []string, style int) error {
	for i, header := range headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return fmt.Errorf("failed to resolve header cell: %w", err)
		}
		if err := f.SetCellValue(sheet, cell, header); err != nil {
			return fmt.Errorf("failed to write header %s: %w", header, err)
		}
		if err := f.SetCellStyle(sheet, cell, cell, style); err != nil {
			return fmt.Errorf("failed to style header %s: %w", header, err)
		}
	}
	return nil
}

func writeRow(f *excelize.File, sheet string, row int, values []interface{}) error {
	for i, value := range values {
		cell, err := excelize.CoordinatesToCellName(i+1, row)
		if err != nil {
			return fmt.Errorf("failed to resolve cell: %w", err)
		}
		if err := f.SetCellValue(sheet, cell, value); err != nil {
			return fmt.Errorf("failed to write cell %s: %w", cell, err)
		}
	}
	return nil
}
