package account

import (
	"bytes"
	"sort"
	"strings"

	"github.com/google/uuid"
)

// MatchType classifies how strongly a detected username token matched an account
type MatchType string

const (
	MatchExact   MatchType = "exact"
	MatchPartial MatchType = "partial"
)

// MatchCandidate is a ranked suggestion for which account a file belongs to.
// Candidates are derived on demand and never persisted.
type MatchCandidate struct {
	AccountID        uuid.UUID `json:"account_id"`
	DisplayName      string    `json:"display_name"`
	PlatformUsername string    `json:"platform_username"`
	MatchType        MatchType `json:"match_type"`
}

// MatchStrategy decides whether and how a token matches a username.
// Returning ok=false excludes the account from the suggestions.
type MatchStrategy func(token, username string) (MatchType, bool)

// DefaultMatchStrategy matches case-insensitively: exact equality first,
// then substring containment in either direction.
func DefaultMatchStrategy(token, username string) (MatchType, bool) {
	t := strings.ToLower(strings.TrimSpace(token))
	u := strings.ToLower(strings.TrimSpace(username))
	if t == "" || u == "" {
		return "", false
	}
	if t == u {
		return MatchExact, true
	}
	if strings.Contains(u, t) || strings.Contains(t, u) {
		return MatchPartial, true
	}
	return "", false
}

// Matcher ranks accounts against a username token detected in an uploaded file
type Matcher struct {
	strategy MatchStrategy
}

// MatcherOption is a functional option for Matcher
type MatcherOption func(*Matcher)

// WithStrategy replaces the default match strategy
func WithStrategy(s MatchStrategy) MatcherOption {
	return func(m *Matcher) {
		m.strategy = s
	}
}

// NewMatcher creates a matcher with the default strategy unless overridden
func NewMatcher(opts ...MatcherOption) *Matcher {
	m := &Matcher{strategy: DefaultMatchStrategy}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Suggest returns match candidates ordered by strength: exact matches before
// partial matches, ties broken by account id ascending. An empty token or no
// matching account yields an empty slice, never an error.
func (m *Matcher) Suggest(token string, accounts []Account) []MatchCandidate {
	candidates := make([]MatchCandidate, 0)
	if strings.TrimSpace(token) == "" {
		return candidates
	}

	for i := range accounts {
		acc := &accounts[i]
		if !acc.Active {
			continue
		}
		matchType, ok := m.strategy(token, acc.PlatformUsername)
		if !ok {
			continue
		}
		candidates = append(candidates, MatchCandidate{
			AccountID:        acc.ID,
			DisplayName:      acc.DisplayName,
			PlatformUsername: acc.PlatformUsername,
			MatchType:        matchType,
		})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].MatchType != candidates[j].MatchType {
			return candidates[i].MatchType == MatchExact
		}
		return bytes.Compare(candidates[i].AccountID[:], candidates[j].AccountID[:]) < 0
	})

	return candidates
}
