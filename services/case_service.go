package services

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"lawyer_app_go/models"

	"github.com/google/uuid"
)

// ErrCaseNotFound is returned by edit operations targeting an unknown case.
var ErrCaseNotFound = errors.New("case not found")

// ErrHearingsNotBillable is returned when a hearing is recorded on a case
// without a positive per-hearing fee. Such cases track court visits
// instead.
var ErrHearingsNotBillable = errors.New("per hearing fees are not set for this case; record a court visit instead")

// The edit operations below are pure: they never mutate the input slice or
// the cases inside it. Each returns a fresh collection with the change
// applied and the affected balance recomputed, and the caller replaces its
// in-memory book with the result.

// AddCase appends a case to the book, assigning a fresh id and today's
// creation date when absent.
func AddCase(cases []models.Case, c models.Case) []models.Case {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	if c.DateCreated == "" {
		c.DateCreated = time.Now().Format(models.DateFormat)
	}
	c.Normalize()

	out := make([]models.Case, 0, len(cases)+1)
	out = append(out, cases...)
	return append(out, c)
}

// UpdateCase replaces the case with the same id. When the incoming case
// carries no child collections (an edit of the base fields only), the
// existing children are preserved. DateCreated is immutable after
// creation.
func UpdateCase(cases []models.Case, updated models.Case) ([]models.Case, error) {
	idx := findCase(cases, updated.ID)
	if idx < 0 {
		return nil, fmt.Errorf("%w: %s", ErrCaseNotFound, updated.ID)
	}

	existing := cases[idx]
	if updated.Installments == nil {
		updated.Installments = existing.Installments
	}
	if updated.Hearings == nil {
		updated.Hearings = existing.Hearings
	}
	if updated.CourtVisits == nil {
		updated.CourtVisits = existing.CourtVisits
	}
	updated.DateCreated = existing.DateCreated
	updated.Normalize()

	out := cloneBook(cases)
	out[idx] = updated
	return out, nil
}

// RemoveCase deletes the case with the given id. Removing an unknown id is
// a no-op.
func RemoveCase(cases []models.Case, id string) []models.Case {
	out := make([]models.Case, 0, len(cases))
	for _, c := range cases {
		if c.ID != id {
			out = append(out, c)
		}
	}
	return out
}

// AddInstallment records a partial payment on the case. The amount must be
// positive; dateReceived defaults to today.
func AddInstallment(cases []models.Case, caseID string, inst models.Installment) ([]models.Case, error) {
	if inst.DateReceived == "" {
		inst.DateReceived = time.Now().Format(models.DateFormat)
	}
	if err := inst.Validate(); err != nil {
		return nil, err
	}
	if inst.ID == "" {
		inst.ID = uuid.New().String()
	}

	return withCase(cases, caseID, func(c *models.Case) error {
		c.Installments = append(append([]models.Installment{}, c.Installments...), inst)
		return nil
	})
}

// UpdateInstallment replaces an existing installment on the case. An empty
// dateReceived keeps the stored one.
func UpdateInstallment(cases []models.Case, caseID string, inst models.Installment) ([]models.Case, error) {
	return withCase(cases, caseID, func(c *models.Case) error {
		idx := c.FindInstallment(inst.ID)
		if idx < 0 {
			return fmt.Errorf("installment %s not found on case %s", inst.ID, caseID)
		}
		if inst.DateReceived == "" {
			inst.DateReceived = c.Installments[idx].DateReceived
		}
		if err := inst.Validate(); err != nil {
			return err
		}
		installments := append([]models.Installment{}, c.Installments...)
		installments[idx] = inst
		c.Installments = installments
		return nil
	})
}

// RemoveInstallment deletes an installment from the case.
func RemoveInstallment(cases []models.Case, caseID, installmentID string) ([]models.Case, error) {
	return withCase(cases, caseID, func(c *models.Case) error {
		out := make([]models.Installment, 0, len(c.Installments))
		for _, inst := range c.Installments {
			if inst.ID != installmentID {
				out = append(out, inst)
			}
		}
		c.Installments = out
		return nil
	})
}

// AddHearing records a billable appearance. Rejected unless the case has a
// positive per-hearing fee; the fee charged is copied from the case at
// recording time and is not revisited if the case's fee later changes.
func AddHearing(cases []models.Case, caseID string, h models.Hearing) ([]models.Case, error) {
	if err := h.Validate(); err != nil {
		return nil, err
	}
	if h.ID == "" {
		h.ID = uuid.New().String()
	}

	return withCase(cases, caseID, func(c *models.Case) error {
		if !c.IsHearingBilled() {
			return ErrHearingsNotBillable
		}
		h.FeesCharged = c.PerHearingFees
		c.Hearings = append(append([]models.Hearing{}, c.Hearings...), h)
		return nil
	})
}

// UpdateHearing replaces an existing hearing. Editing counts as
// re-recording, so the fee is copied from the case again.
func UpdateHearing(cases []models.Case, caseID string, h models.Hearing) ([]models.Case, error) {
	if err := h.Validate(); err != nil {
		return nil, err
	}

	return withCase(cases, caseID, func(c *models.Case) error {
		if !c.IsHearingBilled() {
			return ErrHearingsNotBillable
		}
		idx := c.FindHearing(h.ID)
		if idx < 0 {
			return fmt.Errorf("hearing %s not found on case %s", h.ID, caseID)
		}
		h.FeesCharged = c.PerHearingFees
		hearings := append([]models.Hearing{}, c.Hearings...)
		hearings[idx] = h
		c.Hearings = hearings
		return nil
	})
}

// RemoveHearing deletes a hearing from the case.
func RemoveHearing(cases []models.Case, caseID, hearingID string) ([]models.Case, error) {
	return withCase(cases, caseID, func(c *models.Case) error {
		out := make([]models.Hearing, 0, len(c.Hearings))
		for _, h := range c.Hearings {
			if h.ID != hearingID {
				out = append(out, h)
			}
		}
		c.Hearings = out
		return nil
	})
}

// AddCourtVisit records a non-billable appearance. Visits are valid on any
// case and never affect the balance.
func AddCourtVisit(cases []models.Case, caseID string, v models.CourtVisit) ([]models.Case, error) {
	if err := v.Validate(); err != nil {
		return nil, err
	}
	if v.ID == "" {
		v.ID = uuid.New().String()
	}

	return withCase(cases, caseID, func(c *models.Case) error {
		c.CourtVisits = append(append([]models.CourtVisit{}, c.CourtVisits...), v)
		return nil
	})
}

// UpdateCourtVisit replaces an existing court visit.
func UpdateCourtVisit(cases []models.Case, caseID string, v models.CourtVisit) ([]models.Case, error) {
	if err := v.Validate(); err != nil {
		return nil, err
	}

	return withCase(cases, caseID, func(c *models.Case) error {
		idx := c.FindCourtVisit(v.ID)
		if idx < 0 {
			return fmt.Errorf("court visit %s not found on case %s", v.ID, caseID)
		}
		visits := append([]models.CourtVisit{}, c.CourtVisits...)
		visits[idx] = v
		c.CourtVisits = visits
		return nil
	})
}

// RemoveCourtVisit deletes a court visit from the case.
func RemoveCourtVisit(cases []models.Case, caseID, visitID string) ([]models.Case, error) {
	return withCase(cases, caseID, func(c *models.Case) error {
		out := make([]models.CourtVisit, 0, len(c.CourtVisits))
		for _, v := range c.CourtVisits {
			if v.ID != visitID {
				out = append(out, v)
			}
		}
		c.CourtVisits = out
		return nil
	})
}

// Sort keys accepted by SortCases.
const (
	SortByBalance     = "balanceRemaining"
	SortByDateCreated = "dateCreated"
)

// SortCases returns a copy of the book ordered by the given key. Unknown
// keys leave the original order. The sort is stable, so equal keys keep
// their relative positions.
func SortCases(cases []models.Case, by string, ascending bool) []models.Case {
	out := cloneBook(cases)

	var less func(a, b models.Case) bool
	switch by {
	case SortByBalance:
		less = func(a, b models.Case) bool { return a.BalanceRemaining < b.BalanceRemaining }
	case SortByDateCreated:
		less = func(a, b models.Case) bool { return a.DateCreated < b.DateCreated }
	default:
		return out
	}

	sort.SliceStable(out, func(i, j int) bool {
		if ascending {
			return less(out[i], out[j])
		}
		return less(out[j], out[i])
	})
	return out
}

// SuggestAppearingFor returns the party choices implied by a case title
// following the "A vs B" convention, or the whole trimmed title when it
// names a single client. This is a form convenience; load and save never
// rewrite the stored appearingFor field.
func SuggestAppearingFor(caseTitle string) []string {
	title := strings.TrimSpace(caseTitle)
	if title == "" {
		return nil
	}
	parts := strings.SplitN(title, " vs ", 2)
	if len(parts) == 2 {
		return []string{strings.TrimSpace(parts[0]), strings.TrimSpace(parts[1])}
	}
	return []string{title}
}

// withCase applies a child mutation to a copy of the targeted case and
// recomputes its balance.
func withCase(cases []models.Case, caseID string, mutate func(c *models.Case) error) ([]models.Case, error) {
	idx := findCase(cases, caseID)
	if idx < 0 {
		return nil, fmt.Errorf("%w: %s", ErrCaseNotFound, caseID)
	}

	out := cloneBook(cases)
	c := out[idx]
	if err := mutate(&c); err != nil {
		return nil, err
	}
	c.Recalculate()
	out[idx] = c
	return out, nil
}

func findCase(cases []models.Case, id string) int {
	for i := range cases {
		if cases[i].ID == id {
			return i
		}
	}
	return -1
}

func cloneBook(cases []models.Case) []models.Case {
	out := make([]models.Case, len(cases))
	copy(out, cases)
	return out
}
