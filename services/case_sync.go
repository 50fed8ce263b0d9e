package services

import (
	"context"
	"encoding/json"
	"fmt"

	"lawyer_app_go/models"
)

// LoadCases fetches and decodes the user's case book. A missing document is
// the expected first-time state and yields an empty list; present but
// unparseable content is an IntegrityError, never an empty list. Every
// loaded case is normalized: absent child collections become empty and the
// balance is recomputed, so documents written by older schema versions
// can't smuggle in a stale balance.
func LoadCases(ctx context.Context, store DocumentStore) ([]models.Case, error) {
	content, found, err := store.Load(ctx)
	if err != nil {
		return nil, err
	}
	if !found {
		return []models.Case{}, nil
	}

	var cases []models.Case
	if err := json.Unmarshal(content, &cases); err != nil {
		return nil, &IntegrityError{Err: err}
	}
	if cases == nil {
		// A stored "null" decodes without error; treat it like an empty book.
		cases = []models.Case{}
	}

	for i := range cases {
		cases[i].Normalize()
	}
	return cases, nil
}

// SaveCases replaces the user's case book with the given collection as one
// whole document and returns the backend file id. The input is not
// mutated; the persisted copy is normalized first so the stored document
// always satisfies the balance invariant and serializes empty child
// collections as empty arrays rather than omitting them.
func SaveCases(ctx context.Context, store DocumentStore, cases []models.Case) (string, error) {
	book := make([]models.Case, len(cases))
	copy(book, cases)
	for i := range book {
		book[i].Normalize()
	}

	content, err := json.MarshalIndent(book, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to serialize case book: %w", err)
	}

	return store.Save(ctx, content)
}
