package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sync"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"github.com/vango-dev/woby/pkg/dom"
	"github.com/vango-dev/woby/pkg/loop"
	"github.com/vango-dev/woby/pkg/reconcile"
)

type benchResult struct {
	Scenario  string                   `json:"scenario"`
	Steps     int                      `json:"steps"`
	Duration  time.Duration            `json:"duration_ns"`
	PerStep   time.Duration            `json:"per_step_ns"`
	Paths     map[string]int           `json:"paths"`
	PathTime  map[string]time.Duration `json:"path_time_ns"`
	Errors    int                      `json:"errors"`
	Mutations dom.Stats                `json:"mutations"`
}

// pathCounter is a reconcile.Observer tallying paths.
type pathCounter struct {
	mu     sync.Mutex
	counts map[string]int
	time   map[string]time.Duration
	errors int
}

func newPathCounter() *pathCounter {
	return &pathCounter{
		counts: make(map[string]int),
		time:   make(map[string]time.Duration),
	}
}

func (p *pathCounter) ObserveReconcile(path reconcile.Path, elapsed time.Duration, err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.counts[path.String()]++
	p.time[path.String()] += elapsed
	if err != nil {
		p.errors++
	}
}

func benchCmd(load configLoader) *cobra.Command {
	var (
		names      []string
		steps      int
		jsonOutput string
	)

	cmd := &cobra.Command{
		Use:   "bench",
		Short: "Measure reconciliation on the demo scenarios",
		Long: `Run every step of the demo scenarios back to back and report how
often each reconciliation path ran, how long it took, and how many DOM
mutations it caused.

Examples:
  woby bench
  woby bench --scenario list --steps 10000 --json bench.json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := load()
			if err != nil {
				return err
			}
			if len(names) == 0 {
				names = scenarioNames()
			}

			var results []benchResult
			for _, name := range names {
				sc, err := lookupScenario(name)
				if err != nil {
					return err
				}
				res, err := runBench(cmd.Context(), sc, steps, cfg.HotReload)
				if err != nil {
					return err
				}
				results = append(results, res)
			}

			printBench(cmd.OutOrStdout(), results)
			if jsonOutput != "" {
				data, err := json.MarshalIndent(results, "", "  ")
				if err != nil {
					return err
				}
				return os.WriteFile(jsonOutput, data, 0644)
			}
			return nil
		},
	}

	cmd.Flags().StringSliceVarP(&names, "scenario", "s", nil, "Scenarios to run (default: all)")
	cmd.Flags().IntVarP(&steps, "steps", "n", 1000, "Steps per scenario")
	cmd.Flags().StringVar(&jsonOutput, "json", "", "Also write results as JSON to this file")

	return cmd
}

func runBench(ctx context.Context, sc scenario, steps int, hotReload bool) (benchResult, error) {
	l := loop.New(nil)
	defer l.Close()

	counter := newPathCounter()
	s, err := startSession(ctx, sc, l, sessionOptions{
		reconciler: &reconcile.Reconciler{HotReload: hotReload, Observer: counter},
	})
	if err != nil {
		return benchResult{}, err
	}
	defer s.close()
	if err := settle(ctx, l, s.inst.idle); err != nil {
		return benchResult{}, err
	}
	s.doc.ResetStats()

	start := time.Now()
	for i := 0; i < steps; i++ {
		s.advance()
		if err := settle(ctx, l, s.inst.idle); err != nil {
			return benchResult{}, err
		}
	}
	elapsed := time.Since(start)

	res := benchResult{
		Scenario:  sc.name,
		Steps:     steps,
		Duration:  elapsed,
		Paths:     counter.counts,
		PathTime:  counter.time,
		Errors:    counter.errors,
		Mutations: s.doc.Stats(),
	}
	if steps > 0 {
		res.PerStep = elapsed / time.Duration(steps)
	}
	return res, nil
}

func printBench(w io.Writer, results []benchResult) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "SCENARIO\tSTEPS\tPER STEP\tPATHS\tCREATED\tINSERTED\tMOVED\tREMOVED\tTEXT")
	for _, r := range results {
		fmt.Fprintf(tw, "%s\t%d\t%s\t%s\t%d\t%d\t%d\t%d\t%d\n",
			r.Scenario, r.Steps, r.PerStep, formatPaths(r.Paths),
			r.Mutations.Created, r.Mutations.Inserted, r.Mutations.Moved,
			r.Mutations.Removed, r.Mutations.TextWrites)
	}
	tw.Flush()
}

func formatPaths(counts map[string]int) string {
	out := ""
	for _, p := range reconcile.Paths {
		n := counts[p.String()]
		if n == 0 {
			continue
		}
		if out != "" {
			out += " "
		}
		out += fmt.Sprintf("%s=%d", p, n)
	}
	if out == "" {
		return "-"
	}
	return out
}
