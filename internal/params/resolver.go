package params

import (
	"context"
	"regexp"
	"strings"
	"time"

	"github.com/ningyanhui/scheduler-dag/internal/dateexpr"
	"github.com/ningyanhui/scheduler-dag/internal/logger"
)

// MaxRecursionDepth bounds how many times a resolved value is itself
// re-expanded before the resolver gives up and leaves the token literal.
const MaxRecursionDepth = 8

// tokenPattern matches a single, non-nested "${...}" token.
var tokenPattern = regexp.MustCompile(`\$\{([^{}]*)\}`)

// Lookuper resolves a bare name to a string value. Store implements it;
// nestedLookuper below extends it with the "params.<name>" accessor used
// by custom_command templates.
type Lookuper interface {
	Lookup(name string) (string, bool)
}

// Resolver expands "${...}" tokens within arbitrary strings against a
// Lookuper and a reference date for date expressions.
type Resolver struct {
	ctx     context.Context
	lookup  Lookuper
	refDate time.Time
}

// NewResolver builds a Resolver bound to the given scope and reference
// date (used to evaluate date expressions). ctx is only used for logging
// recursion-overflow warnings through the caller's logger.
func NewResolver(ctx context.Context, lookup Lookuper, refDate time.Time) *Resolver {
	return &Resolver{ctx: ctx, lookup: lookup, refDate: refDate}
}

// RefDate returns the reference date this Resolver evaluates date
// expressions against, so callers building a derived Resolver (e.g. with
// an extended scope) can keep it consistent.
func (r *Resolver) RefDate() time.Time { return r.refDate }

// MapLookuper adapts a plain map to the Lookuper interface.
type MapLookuper map[string]string

func (m MapLookuper) Lookup(name string) (string, bool) {
	v, ok := m[name]
	return v, ok
}

// Resolve expands every "${...}" token in input. Unknown names are left
// literal. Recursion depth is capped at MaxRecursionDepth; an expansion
// that would exceed it is left literal and a warning is logged.
func (r *Resolver) Resolve(input string) string {
	return r.resolveDepth(input, 0)
}

func (r *Resolver) resolveDepth(input string, depth int) string {
	if depth >= MaxRecursionDepth {
		logger.Warn(r.ctx, "template recursion depth exceeded, leaving literal", "input", input, "depth", depth)
		return input
	}

	expanded := false
	out := tokenPattern.ReplaceAllStringFunc(input, func(tok string) string {
		body := tok[2 : len(tok)-1] // strip "${" and "}"
		val, ok := r.evalToken(body)
		if !ok {
			return tok
		}
		expanded = true
		return val
	})

	if !expanded || out == input {
		return out
	}
	return r.resolveDepth(out, depth+1)
}

// evalToken resolves one token body: date expression first, then a plain
// store lookup.
func (r *Resolver) evalToken(body string) (string, bool) {
	if dateexpr.LooksLikeDateExpr(body) {
		v, err := dateexpr.Eval(body, r.refDate)
		if err == nil {
			return v, true
		}
		// Malformed offset on what looked like a date pattern: leave
		// literal per spec, but still try a plain name lookup in case
		// it's coincidentally also a declared parameter name.
	}
	return r.lookup.Lookup(body)
}

// nestedLookuper extends a base Lookuper with a "params.<name>" accessor
// grammar used when resolving custom_command templates, where `params` is
// a reserved namespace exposing the current task's resolved parameters.
type nestedLookuper struct {
	base       Lookuper
	paramsNS   map[string]string
	extraNames map[string]string
}

// NewCustomCommandScope builds the extended lookup scope a custom_command
// template is resolved against: the task's own overlay (base), a
// "params.<name>" nested accessor over the same overlay, and any extra
// flat names (e.g. "script_path").
func NewCustomCommandScope(base Lookuper, resolvedParams map[string]string, extra map[string]string) Lookuper {
	return &nestedLookuper{base: base, paramsNS: resolvedParams, extraNames: extra}
}

func (n *nestedLookuper) Lookup(name string) (string, bool) {
	if v, ok := n.extraNames[name]; ok {
		return v, true
	}
	if rest, ok := strings.CutPrefix(name, "params."); ok {
		v, ok := n.paramsNS[rest]
		return v, ok
	}
	return n.base.Lookup(name)
}
