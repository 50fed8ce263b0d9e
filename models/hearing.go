package models

import "fmt"

// Hearing is a billable court appearance. Hearings are only meaningful on a
// hearing-billed case (PerHearingFees > 0); FeesCharged is copied from the
// owning case at the time the hearing is recorded or edited and is not
// recomputed if the case's per-hearing fee later changes.
type Hearing struct {
	ID          string  `json:"id"`
	Date        string  `json:"date"`
	Remark      string  `json:"remark"`
	FeesCharged float64 `json:"feesCharged"`
}

// Validate checks the fields required to record a hearing.
func (h *Hearing) Validate() error {
	if h.Date == "" {
		return fmt.Errorf("hearing date is required")
	}
	return nil
}
