package models

import (
	"time"

	"github.com/google/uuid"
)

// Conventional case number values offered by the form; any other value is
// treated as free text.
const (
	CaseNumberLegalNotice = "Legal Notice"
	CaseNumberAffidavit   = "Affidavit"
)

// Conventional court values; any other value is treated as free text.
const (
	CourtHighCourt = "High Court"
	CourtNone      = "None"
)

// DateFormat is the calendar-date layout used everywhere in the stored
// document (YYYY-MM-DD).
const DateFormat = "2006-01-02"

// Case represents one legal matter. The entire case list is persisted as a
// single JSON document in the user's drive space, so these JSON tags are
// the wire format and must round-trip exactly.
type Case struct {
	ID           string `json:"id"`
	CaseTitle    string `json:"caseTitle"`    // "A vs B" or a client name
	CaseNumber   string `json:"caseNumber"`   // Legal Notice, Affidavit, or custom
	Court        string `json:"court"`        // High Court, None, or custom
	AppearingFor string `json:"appearingFor"` // party represented

	// Financials. PerHearingFees > 0 switches the case into hearing-billed
	// mode; absent or zero means appearances are tracked as court visits.
	Quotation      float64 `json:"quotation"`
	PerHearingFees float64 `json:"perHearingFees,omitempty"`
	InvoiceNumber  string  `json:"invoiceNumber"`
	InvoiceDate    string  `json:"invoiceDate"`
	InvoiceAmount  float64 `json:"invoiceAmount"`

	Installments []Installment `json:"installments"`
	Hearings     []Hearing     `json:"hearings"`
	CourtVisits  []CourtVisit  `json:"courtVisits"`

	// Derived from the financial fields; recomputed on every mutation and
	// on every load, never trusted from a stored document.
	BalanceRemaining float64 `json:"balanceRemaining"`

	Remark        string `json:"remark"`
	Reference     string `json:"reference"`
	TDSApplicable bool   `json:"tdsApplicable"`
	DateCreated   string `json:"dateCreated"`
}

// NewCase creates a case with a fresh ID and today's creation date.
func NewCase() Case {
	return Case{
		ID:           uuid.New().String(),
		Installments: []Installment{},
		Hearings:     []Hearing{},
		CourtVisits:  []CourtVisit{},
		DateCreated:  time.Now().Format(DateFormat),
	}
}

// ComputeBalance returns the outstanding balance for the given financial
// inputs. Nil collections are treated as empty. The result keeps its sign:
// negative means overpayment, positive means amount owed.
func ComputeBalance(quotation, invoiceAmount float64, installments []Installment, hearings []Hearing) float64 {
	var paid float64
	for _, inst := range installments {
		paid += inst.Amount
	}
	var hearingFees float64
	for _, h := range hearings {
		hearingFees += h.FeesCharged
	}
	return quotation - (invoiceAmount + paid + hearingFees)
}

// Recalculate recomputes BalanceRemaining from the case's own fields.
func (c *Case) Recalculate() {
	c.BalanceRemaining = ComputeBalance(c.Quotation, c.InvoiceAmount, c.Installments, c.Hearings)
}

// Normalize makes the case safe after decoding a stored document: nil child
// collections become empty slices (documents written by older schema
// versions omit courtVisits entirely) and the balance is recomputed.
func (c *Case) Normalize() {
	if c.Installments == nil {
		c.Installments = []Installment{}
	}
	if c.Hearings == nil {
		c.Hearings = []Hearing{}
	}
	if c.CourtVisits == nil {
		c.CourtVisits = []CourtVisit{}
	}
	c.Recalculate()
}

// IsHearingBilled reports whether appearances on this case are billed at a
// per-hearing fee. When false, appearances are recorded as court visits.
func (c *Case) IsHearingBilled() bool {
	return c.PerHearingFees > 0
}

// FindInstallment returns the index of the installment with the given ID,
// or -1 when it is not present.
func (c *Case) FindInstallment(id string) int {
	for i := range c.Installments {
		if c.Installments[i].ID == id {
			return i
		}
	}
	return -1
}

// FindHearing returns the index of the hearing with the given ID, or -1.
func (c *Case) FindHearing(id string) int {
	for i := range c.Hearings {
		if c.Hearings[i].ID == id {
			return i
		}
	}
	return -1
}

// FindCourtVisit returns the index of the court visit with the given ID,
// or -1.
func (c *Case) FindCourtVisit(id string) int {
	for i := range c.CourtVisits {
		if c.CourtVisits[i].ID == id {
			return i
		}
	}
	return -1
}
