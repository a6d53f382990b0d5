// Package service wires storage, extraction and reconciliation behind the
// operations the API layer exposes.
package service

import (
	"context"
	"fmt"

	"github.com/splitbill/billsplitter/internal/storage"
)

// PartyResolver produces the ordered party list the ledger reconciles over.
// A fixed list from configuration wins; otherwise the registered users, in
// creation order, are the parties.
type PartyResolver struct {
	store storage.Store
	fixed []string
}

// NewPartyResolver creates a resolver. fixed may be nil.
func NewPartyResolver(store storage.Store, fixed []string) *PartyResolver {
	return &PartyResolver{store: store, fixed: fixed}
}

// Parties returns the ordered party names.
func (r *PartyResolver) Parties(ctx context.Context) ([]string, error) {
	if len(r.fixed) > 0 {
		return r.fixed, nil
	}

	users, err := r.store.ListUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve parties: %w", err)
	}
	parties := make([]string, len(users))
	for i, u := range users {
		parties[i] = u.Name
	}
	return parties, nil
}
