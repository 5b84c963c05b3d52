package deckgen

import "strings"

// Replacements maps literal placeholder tokens (e.g. "{COMPANY_NAME}") to
// their replacement values. Tokens are matched verbatim, not as a template
// mini-language. Application order is the insertion order, which makes
// output deterministic even when one token's value contains another token's
// literal text.
type Replacements struct {
	tokens []string
	values map[string]string
}

// NewReplacements returns an empty replacement map.
func NewReplacements() *Replacements {
	return &Replacements{values: make(map[string]string)}
}

// Set adds or updates a token. A re-set token keeps its original position
// in the application order. Set returns the receiver for chaining.
func (r *Replacements) Set(token, value string) *Replacements {
	if _, ok := r.values[token]; !ok {
		r.tokens = append(r.tokens, token)
	}
	r.values[token] = value
	return r
}

// Len returns the number of distinct tokens.
func (r *Replacements) Len() int {
	return len(r.tokens)
}

// Apply replaces every occurrence of every token in text, in insertion
// order. Each token is applied to the result of the previous one. A token
// that does not occur is a no-op.
func (r *Replacements) Apply(text string) string {
	if r == nil || len(r.tokens) == 0 || text == "" {
		return text
	}
	for _, token := range r.tokens {
		if strings.Contains(text, token) {
			text = strings.ReplaceAll(text, token, r.values[token])
		}
	}
	return text
}
