package main

import (
	"sync"

	"github.com/amazing-skyhawk/crm/internal/pricing"
)

// proposalState is the in-progress proposal of one authenticated session.
// It lives only in memory and is cleared when the deal is closed.
type proposalState struct {
	Client         string
	Contract       pricing.ContractType
	DurationMonths int
	Cart           pricing.Cart
}

func defaultProposalState() *proposalState {
	return &proposalState{
		Contract:       pricing.ContractRental,
		DurationMonths: 36,
	}
}

// sessionStore owns the per-session proposal states, keyed by the signed
// session cookie value.
type sessionStore struct {
	mu     sync.Mutex
	states map[string]*proposalState
}

func newSessionStore() *sessionStore {
	return &sessionStore{states: make(map[string]*proposalState)}
}

// snapshot returns a copy of the session's state; the cart slice is
// duplicated so callers can pass it around freely.
func (s *sessionStore) snapshot(key string) proposalState {
	s.mu.Lock()
	defer s.mu.Unlock()

	state := s.states[key]
	if state == nil {
		return *defaultProposalState()
	}

	copied := *state
	copied.Cart.Items = append([]pricing.LineItem(nil), state.Cart.Items...)
	return copied
}

// update mutates the session's state under the lock, creating it with
// defaults on first use.
func (s *sessionStore) update(key string, fn func(*proposalState)) {
	s.mu.Lock()
	defer s.mu.Unlock()

	state := s.states[key]
	if state == nil {
		state = defaultProposalState()
		s.states[key] = state
	}
	fn(state)
}
