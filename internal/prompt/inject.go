package prompt

import (
	"fmt"
	"sort"
	"strings"
)

// Injector substitutes [TOKEN] placeholders with canonical content.
//
// All tokens are replaced in one pass, so text that arrives through a
// replacement is never scanned again. Bracketed text that is not a
// registered token is left untouched.
type Injector struct {
	tokens   []string
	replacer *strings.Replacer
}

// NewInjector builds an Injector from identifier → replacement pairs.
// Identifiers are given without brackets. A replacement that itself
// contains a registered token is rejected, which keeps Inject idempotent.
func NewInjector(values map[string]string) (*Injector, error) {
	tokens := make([]string, 0, len(values))
	for id := range values {
		if id == "" || strings.ContainsAny(id, "[]") {
			return nil, fmt.Errorf("invalid placeholder identifier %q", id)
		}
		tokens = append(tokens, Token(id))
	}
	sort.Strings(tokens)

	pairs := make([]string, 0, 2*len(tokens))
	for _, tok := range tokens {
		value := values[strings.Trim(tok, "[]")]
		for _, other := range tokens {
			if strings.Contains(value, other) {
				return nil, fmt.Errorf("replacement for %s contains placeholder %s", tok, other)
			}
		}
		pairs = append(pairs, tok, value)
	}

	return &Injector{tokens: tokens, replacer: strings.NewReplacer(pairs...)}, nil
}

// Token wraps an identifier in placeholder brackets.
func Token(id string) string {
	return "[" + id + "]"
}

// Tokens returns the bracketed tokens this injector replaces, sorted.
func (i *Injector) Tokens() []string {
	if i == nil {
		return nil
	}
	return append([]string(nil), i.tokens...)
}

// Inject replaces every occurrence of every known token in text.
// A nil Injector returns text unchanged.
func (i *Injector) Inject(text string) string {
	if i == nil || len(i.tokens) == 0 {
		return text
	}
	return i.replacer.Replace(text)
}
