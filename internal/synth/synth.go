// Package synth implements the Candidate Generator (C3): recursive,
// depth-bounded hole-fit expansion with memoization, grounded on the
// teacher's handler.go map-plus-mutex caching idiom
// (internal/lsp/handler.go's KansoHandler.content/asts).
package synth

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/kanso-lang/repairgo/internal/langs/mini"
	"github.com/kanso-lang/repairgo/internal/oracle"
)

// MemoCache maps (compilerConfig, depth, context, type, properties) to a
// list of canonical candidate strings, so repeated synthesize calls on an
// identical subproblem skip the oracle entirely.
type MemoCache struct {
	mu sync.RWMutex
	m  map[string][]string
}

// NewMemoCache returns an empty cache.
func NewMemoCache() *MemoCache {
	return &MemoCache{m: make(map[string][]string)}
}

func (c *MemoCache) lookup(key string) ([]string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	v, ok := c.m[key]
	return v, ok
}

func (c *MemoCache) store(key string, candidates []string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.m[key] = candidates
}

func memoKey(cfg oracle.Config, depth int, ctxBindings []oracle.ContextBinding, t *mini.Type, properties []oracle.Property) string {
	var b strings.Builder
	fmt.Fprintf(&b, "holes=%d;depth=%d;type=%s;context=", cfg.HoleLevel, depth, t)
	for _, c := range ctxBindings {
		fmt.Fprintf(&b, "%s:%s=%s,", c.Name, c.Type, mini.Show(c.Value))
	}
	b.WriteString(";props=")
	for _, p := range properties {
		fmt.Fprintf(&b, "%s=%s,", p.Name, mini.Show(p.Expr))
	}
	return b.String()
}

// envOf builds the typing environment the oracle needs from an ordered
// list of context bindings.
func envOf(ctxBindings []oracle.ContextBinding) mini.Env {
	env := make(mini.Env, len(ctxBindings))
	for _, c := range ctxBindings {
		env[c.Name] = c.Type
	}
	return env
}

// Synthesizer implements C3 against a single oracle backend.
type Synthesizer struct {
	Oracle oracle.Oracle
	Memo   *MemoCache
}

// New returns a Synthesizer with a fresh MemoCache.
func New(o oracle.Oracle) *Synthesizer {
	return &Synthesizer{Oracle: o, Memo: NewMemoCache()}
}

// Synthesize returns every well-typed expression of t in context that
// satisfies properties (spec §4.3). If properties is empty, every
// well-typed fit is returned with no execution.
func (s *Synthesizer) Synthesize(ctx context.Context, cfg oracle.Config, depth int, ctxBindings []oracle.ContextBinding, t *mini.Type, properties []oracle.Property) ([]string, error) {
	if depth < 0 {
		return nil, nil
	}

	key := memoKey(cfg, depth, ctxBindings, t, properties)
	if cached, ok := s.Memo.lookup(key); ok {
		return cached, nil
	}

	env := envOf(ctxBindings)

	concrete, ok := s.Oracle.MonomorphiseType(cfg, t)
	if !ok {
		if len(properties) > 0 {
			return []string{}, nil
		}
		concrete = t
	}

	fits, err := s.Oracle.CompileAtType(cfg, "", concrete, env)
	if err != nil {
		return nil, err
	}

	var candidates []mini.Expr
	for _, f := range fits {
		if len(f.SubHoles) == 0 {
			candidates = append(candidates, f.Expr)
			continue
		}
		expanded, err := s.expandSkeleton(ctx, cfg, depth, ctxBindings, f)
		if err != nil {
			return nil, err
		}
		candidates = append(candidates, expanded...)
	}

	rendered := make([]string, len(candidates))
	for i, c := range candidates {
		rendered[i] = s.Oracle.ShowUnsafe(c)
	}

	if len(properties) == 0 {
		s.Memo.store(key, rendered)
		return rendered, nil
	}

	survivors, err := s.filterByProperties(ctx, cfg, ctxBindings, concrete, properties, candidates, rendered)
	if err != nil {
		return nil, err
	}
	s.Memo.store(key, survivors)
	return survivors, nil
}

// expandSkeleton recursively synthesizes a filler for each of f's sub-holes
// (at one depth level and hole-nesting level down, and always at
// hole-nesting level 0 on the final depth), forms the Cartesian product of
// fillers per hole, and substitutes each combination into the skeleton.
func (s *Synthesizer) expandSkeleton(ctx context.Context, cfg oracle.Config, depth int, ctxBindings []oracle.ContextBinding, f oracle.Fit) ([]mini.Expr, error) {
	childCfg := cfg
	if depth-1 <= 0 {
		childCfg.HoleLevel = 0
	} else if childCfg.HoleLevel > 0 {
		childCfg.HoleLevel--
	}

	fitsPerHole := make([][]oracle.Fit, len(f.SubHoles))
	for i, subType := range f.SubHoles {
		texts, err := s.Synthesize(ctx, childCfg, depth-1, ctxBindings, subType, nil)
		if err != nil {
			return nil, err
		}
		if len(texts) == 0 {
			return nil, nil
		}
		holeFits := make([]oracle.Fit, len(texts))
		for j, text := range texts {
			expr, err := s.Oracle.ParseExpr(childCfg, text)
			if err != nil {
				return nil, err
			}
			holeFits[j] = oracle.Fit{Expr: expr, Label: text}
		}
		fitsPerHole[i] = holeFits
	}

	he := oracle.HoleyExpr{Whole: f.Expr}
	return s.Oracle.Replacements(he, fitsPerHole), nil
}

func (s *Synthesizer) filterByProperties(ctx context.Context, cfg oracle.Config, ctxBindings []oracle.ContextBinding, t *mini.Type, properties []oracle.Property, candidates []mini.Expr, rendered []string) ([]string, error) {
	problem := oracle.Problem{Type: t, Properties: properties, Context: ctxBindings}
	verdicts, err := s.Oracle.CheckFixes(ctx, cfg, problem, candidates)
	if err != nil {
		return nil, err
	}
	var survivors []string
	for i, v := range verdicts {
		if v.IsWinner() {
			survivors = append(survivors, rendered[i])
		}
	}
	if survivors == nil {
		survivors = []string{}
	}
	return survivors, nil
}
