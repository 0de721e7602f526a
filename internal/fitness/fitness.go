// Package fitness implements the Fitness Evaluator (C6): scoring a fix in
// [0, 1], lower is better, with a write-through cache mirroring the
// teacher's RWMutex-guarded map idiom (internal/lsp/handler.go).
package fitness

import (
	"context"
	"sync"

	"github.com/kanso-lang/repairgo/internal/fix"
	"github.com/kanso-lang/repairgo/internal/langs/mini"
	"github.com/kanso-lang/repairgo/internal/oracle"
	"github.com/kanso-lang/repairgo/internal/verdict"
)

// Score computes a Verdict's fitness per spec §4.6: AllPass is 0 (best),
// AllFail and Timeout are 1 (worst), Partial is the failing fraction.
func Score(v verdict.Verdict) float64 {
	switch v.Kind {
	case verdict.AllPass:
		return 0
	case verdict.Partial:
		if len(v.Bits) == 0 {
			return 1
		}
		trueCount := 0
		for _, b := range v.Bits {
			if b {
				trueCount++
			}
		}
		return 1 - float64(trueCount)/float64(len(v.Bits))
	default: // AllFail, Timeout, WrongShape
		return 1
	}
}

// Cache maps a Fix to its fitness, keyed by the fix's rendered text (the
// same syntactic-equality convention fix.Equal uses), never invalidated
// within a run.
type Cache struct {
	mu sync.RWMutex
	m  map[string]float64
}

// NewCache returns an empty fitness cache.
func NewCache() *Cache {
	return &Cache{m: make(map[string]float64)}
}

func fixKey(f fix.Fix) string {
	key := ""
	for _, e := range f {
		key += e.Span.String() + "=" + mini.Show(e.Expr) + ";"
	}
	return key
}

func (c *Cache) lookup(f fix.Fix) (float64, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	v, ok := c.m[fixKey(f)]
	return v, ok
}

func (c *Cache) store(f fix.Fix, score float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.m[fixKey(f)] = score
}

// Evaluator computes and caches fitness for fixes against one fixed
// problem and program.
type Evaluator struct {
	Oracle  oracle.Oracle
	Cache   *Cache
	Problem oracle.Problem
	Program mini.Expr
}

// New returns an Evaluator for repairing program against problem using o,
// with a fresh fitness cache.
func New(o oracle.Oracle, problem oracle.Problem, program mini.Expr) *Evaluator {
	return &Evaluator{Oracle: o, Cache: NewCache(), Problem: problem, Program: program}
}

// Fitness returns f's cached score if present; otherwise it uses
// precomputed if non-nil (a verdict C7's mutation obtained incidentally),
// or applies f to the program and runs its check, then always
// write-throughs the result to the cache.
func (e *Evaluator) Fitness(ctx context.Context, f fix.Fix, precomputed *verdict.Verdict) (float64, error) {
	if score, ok := e.Cache.lookup(f); ok {
		return score, nil
	}

	var v verdict.Verdict
	if precomputed != nil {
		v = *precomputed
	} else {
		applied := fix.Apply(e.Program, f)
		verdicts, err := e.Oracle.CheckFixes(ctx, oracle.Config{}, e.Problem, []mini.Expr{applied})
		if err != nil {
			return 0, err
		}
		v = verdicts[0]
	}

	score := Score(v)
	e.Cache.store(f, score)
	return score, nil
}
