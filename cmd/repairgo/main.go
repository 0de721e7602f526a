// SPDX-License-Identifier: Apache-2.0
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"math/rand"
	"os"

	"github.com/fatih/color"
	"github.com/rs/zerolog"

	"github.com/kanso-lang/repairgo/internal/config"
	"github.com/kanso-lang/repairgo/internal/fitness"
	"github.com/kanso-lang/repairgo/internal/fix"
	"github.com/kanso-lang/repairgo/internal/ga"
	"github.com/kanso-lang/repairgo/internal/ga/efixgene"
	"github.com/kanso-lang/repairgo/internal/langs/mini"
	"github.com/kanso-lang/repairgo/internal/minimize"
	"github.com/kanso-lang/repairgo/internal/obslog"
	oraclemini "github.com/kanso-lang/repairgo/internal/oracle/mini"
	"github.com/kanso-lang/repairgo/internal/problem"
	"github.com/kanso-lang/repairgo/internal/repair"
	"github.com/kanso-lang/repairgo/internal/sandbox"
	"github.com/kanso-lang/repairgo/repl"
)

func main() {
	if len(os.Args) >= 2 && os.Args[1] == sandbox.ChildMarker {
		stdin, err := io.ReadAll(os.Stdin)
		if err != nil {
			os.Exit(1)
		}
		os.Exit(sandbox.RunChildProcess(stdin, os.Stdout))
	}

	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	fs := flag.NewFlagSet("repairgo", flag.ContinueOnError)
	holes := fs.Int("fholes", config.Default().Holes, "top-level hole nesting")
	depth := fs.Int("fdepth", config.Default().Depth, "recursion depth for candidate synthesis")
	debug := fs.Bool("fdebug", false, "verbose trace logging")

	useGA := fs.Bool("ga", false, "search for a multi-site fix with the genetic search core instead of a single-step repair")
	population := fs.Int("population", ga.DefaultConfig().PopulationSize, "GA population size")
	iterations := fs.Int("iterations", ga.DefaultConfig().Iterations, "GA generation count")
	timeoutMinutes := fs.Float64("timeout", ga.DefaultConfig().TimeoutInMinutes, "GA wall-clock budget, in minutes")
	seed := fs.Int64("seed", 1, "random seed for the GA's generator")
	doMinimize := fs.Bool("minimize", false, "after a GA search, minimize each winning fix")
	useRepl := fs.Bool("repl", false, "start an interactive mini-language console instead of repairing a file")

	if err := fs.Parse(args); err != nil {
		return 2
	}
	if *useRepl {
		repl.Start(os.Stdin, os.Stdout)
		return 0
	}
	if fs.NArg() < 1 {
		color.Red("Usage: repairgo [flags] <problem-file>")
		return 2
	}
	if *holes < 0 || *depth < 0 {
		color.Red("-fholes and -fdepth must not be negative")
		return 2
	}

	cfg := config.Config{Holes: *holes, Depth: *depth, Debug: *debug}

	level := zerolog.InfoLevel
	if cfg.Debug {
		level = zerolog.DebugLevel
	}
	log := obslog.New(os.Stderr, level)

	path := fs.Arg(0)
	source, err := os.ReadFile(path)
	if err != nil {
		color.Red("failed to read %s: %s", path, err)
		return 0
	}

	p, err := problem.Load(path, string(source))
	if err != nil {
		color.Red("failed to parse problem: %s", err)
		return 0
	}

	o := oraclemini.New()
	oracleProblem := p.OracleProblem()
	ctx := context.Background()

	if !*useGA {
		d := repair.New(o)
		candidates, err := d.Repair(ctx, cfg.OracleConfig(), oracleProblem)
		if err != nil {
			log.Error(err, "repair attempt failed")
			color.Red("repair failed: %s", err)
			return 0
		}
		printCandidates(candidates)
		return 0
	}

	env := efixgene.NewEnv(o, cfg.OracleConfig(), oracleProblem)
	gaCfg := ga.DefaultConfig()
	gaCfg.PopulationSize = *population
	gaCfg.Iterations = *iterations
	gaCfg.TimeoutInMinutes = *timeoutMinutes
	gaCfg.TryMinimizeFixes = *doMinimize

	r := rand.New(rand.NewSource(*seed))
	winners, err := ga.Search[efixgene.Individual](ctx, gaCfg, efixgene.InitialPopulation(env), r)
	if err != nil {
		log.Error(err, "genetic search failed")
		color.Red("search failed: %s", err)
		return 0
	}
	log.Generation(gaCfg.Iterations, gaCfg.PopulationSize, len(winners), 0)

	fixes := make([]fix.Fix, len(winners))
	for i, w := range winners {
		fixes[i] = w.Fix
	}
	if gaCfg.TryMinimizeFixes {
		eval := fitness.New(o, oracleProblem, oracleProblem.Program)
		fixes = minimizeAll(ctx, eval, fixes)
	}

	var candidates []string
	for _, f := range fixes {
		applied := fix.Apply(oracleProblem.Program, f)
		candidates = append(candidates, o.ShowUnsafe(applied))
	}
	printCandidates(candidates)
	return 0
}

// maxMinimizeEntries gates minimizeAll's call into Minimize, whose 2^k
// subset enumeration is only intended for small fixes (internal/minimize's
// own doc comment: "callers are expected to gate on size themselves"). A
// winner past this many entries is kept as-is rather than minimized.
const maxMinimizeEntries = 12

func minimizeAll(ctx context.Context, eval *fitness.Evaluator, fixes []fix.Fix) []fix.Fix {
	var out []fix.Fix
	seen := map[string]bool{}
	for _, f := range fixes {
		smallest := f
		if f.Len() <= maxMinimizeEntries {
			minimized, err := minimize.Minimize(ctx, eval, f)
			if err != nil || len(minimized) == 0 {
				continue
			}
			smallest = minimized[0]
		}
		key := mini.Show(fix.Apply(eval.Program, smallest))
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, smallest)
	}
	return out
}

func printCandidates(candidates []string) {
	if len(candidates) == 0 {
		color.Yellow("no repair found")
		return
	}
	color.Green("found %d candidate(s):", len(candidates))
	for _, c := range candidates {
		fmt.Println(c)
	}
}

