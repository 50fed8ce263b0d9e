package models

import "fmt"

// Payment method constants for installments. Any other non-empty value is a
// custom free-text method.
const (
	PaymentMethodCash = "cash"
	PaymentMethodUPI  = "upi"
)

// Installment is a partial payment recorded against a case. Installments
// exist only inside their owning case; recording one means the owner's
// balance must be recomputed.
type Installment struct {
	ID            string  `json:"id"`
	InvoiceNumber string  `json:"invoiceNumber"`
	InvoiceDate   string  `json:"invoiceDate"`
	Amount        float64 `json:"amount"`
	PaymentMethod string  `json:"paymentMethod"`
	DateReceived  string  `json:"dateReceived"`
}

// Validate checks the fields required to record an installment.
func (i *Installment) Validate() error {
	if i.InvoiceNumber == "" {
		return fmt.Errorf("installment invoice number is required")
	}
	if i.InvoiceDate == "" {
		return fmt.Errorf("installment invoice date is required")
	}
	if i.Amount <= 0 {
		return fmt.Errorf("installment amount must be positive, got %v", i.Amount)
	}
	if i.PaymentMethod == "" {
		return fmt.Errorf("installment payment method is required")
	}
	return nil
}
