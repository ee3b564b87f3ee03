// Package resolver resolves recipe path expressions against a report context.
//
// The path mini-language is deliberately small:
//
//	expr      := alias | alias "[" key "=" value "]"
//	alias     := [A-Za-z_][A-Za-z0-9_.]*
//	key       := [A-Za-z_][A-Za-z0-9_]*
//	value     := any non-empty text without "[" or "]"
//
// Exactly one equality predicate is allowed per expression.
package resolver

import (
	"fmt"
	"strings"

	"github.com/custodia-labs/healthdoc/internal/core/domain"
)

// Predicate is an equality test on one field of a collection element.
type Predicate struct {
	Key   string
	Value string
}

// Expr is a parsed path expression: an alias reference, optionally indexed.
type Expr struct {
	Alias string
	Index *Predicate
}

// String returns the canonical form of the expression.
func (e Expr) String() string {
	if e.Index == nil {
		return e.Alias
	}
	return fmt.Sprintf("%s[%s=%s]", e.Alias, e.Index.Key, e.Index.Value)
}

// Parse parses a path expression.
// Errors wrap domain.ErrInvalidInput.
func Parse(s string) (Expr, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Expr{}, fmt.Errorf("%w: empty path expression", domain.ErrInvalidInput)
	}

	open := strings.IndexByte(s, '[')
	if open < 0 {
		if strings.ContainsRune(s, ']') {
			return Expr{}, fmt.Errorf("%w: unbalanced ']' in %q", domain.ErrInvalidInput, s)
		}
		if !isAlias(s) {
			return Expr{}, fmt.Errorf("%w: invalid alias %q", domain.ErrInvalidInput, s)
		}
		return Expr{Alias: s}, nil
	}

	alias := strings.TrimSpace(s[:open])
	if !isAlias(alias) {
		return Expr{}, fmt.Errorf("%w: invalid collection %q", domain.ErrInvalidInput, alias)
	}
	if !strings.HasSuffix(s, "]") {
		return Expr{}, fmt.Errorf("%w: expected ']' at end of %q", domain.ErrInvalidInput, s)
	}

	inner := s[open+1 : len(s)-1]
	if strings.ContainsAny(inner, "[]") {
		return Expr{}, fmt.Errorf("%w: only one predicate allowed in %q", domain.ErrInvalidInput, s)
	}

	eq := strings.IndexByte(inner, '=')
	if eq < 0 {
		return Expr{}, fmt.Errorf("%w: predicate must be key=value in %q", domain.ErrInvalidInput, s)
	}
	key := strings.TrimSpace(inner[:eq])
	value := strings.TrimSpace(inner[eq+1:])
	if !isIdent(key) {
		return Expr{}, fmt.Errorf("%w: invalid predicate key %q", domain.ErrInvalidInput, key)
	}
	if value == "" {
		return Expr{}, fmt.Errorf("%w: empty predicate value in %q", domain.ErrInvalidInput, s)
	}

	return Expr{Alias: alias, Index: &Predicate{Key: key, Value: value}}, nil
}

func isAlias(s string) bool {
	return isName(s, true)
}

func isIdent(s string) bool {
	return isName(s, false)
}

func isName(s string, allowDot bool) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r == '_' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z'):
		case i > 0 && r >= '0' && r <= '9':
		case i > 0 && allowDot && r == '.':
		default:
			return false
		}
	}
	return !strings.HasSuffix(s, ".")
}
