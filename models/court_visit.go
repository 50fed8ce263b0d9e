package models

import "fmt"

// CourtVisit is a non-billable appearance record, used when the owning case
// tracks visits instead of billing hearings. Visits never affect the
// balance.
type CourtVisit struct {
	ID     string `json:"id"`
	Date   string `json:"date"`
	Remark string `json:"remark"`
}

// Validate checks the fields required to record a court visit.
func (v *CourtVisit) Validate() error {
	if v.Date == "" {
		return fmt.Errorf("court visit date is required")
	}
	return nil
}
