package main

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/vango-dev/woby/internal/errors"
	"github.com/vango-dev/woby/pkg/child"
	"github.com/vango-dev/woby/pkg/dom"
	"github.com/vango-dev/woby/pkg/flow"
	"github.com/vango-dev/woby/pkg/loop"
	"github.com/vango-dev/woby/pkg/reactive"
	"github.com/vango-dev/woby/pkg/suspense"
	"github.com/vango-dev/woby/pkg/telemetry"
)

// env is what a scenario may use while building its tree. Building and
// stepping always happen on the goroutine that owns the document.
type env struct {
	ctx        context.Context
	doc        *dom.Document
	dispatcher loop.Dispatcher
	metrics    *telemetry.Metrics // may be nil

	// latency is how long simulated fetches take.
	latency time.Duration
}

// instance is a built scenario.
type instance struct {
	root child.Child

	// step advances the demo state to step i (i >= 1).
	step func(i int)

	// idle reports whether no asynchronous work is outstanding.
	idle func() bool
}

type scenario struct {
	name        string
	description string
	build       func(e *env) instance
}

var scenarios = map[string]scenario{
	"counter": {
		name:        "counter",
		description: "a text slot following a signal",
		build:       buildCounter,
	},
	"list": {
		name:        "list",
		description: "a keyed list that rotates, grows and empties",
		build:       buildList,
	},
	"suspense": {
		name:        "suspense",
		description: "a boundary waiting on a refetched resource",
		build:       buildSuspense,
	},
}

func scenarioNames() []string {
	names := make([]string, 0, len(scenarios))
	for name := range scenarios {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func lookupScenario(name string) (scenario, error) {
	s, ok := scenarios[name]
	if !ok {
		return scenario{}, errors.Newf(errors.CategoryCLI, "unknown scenario %q", name).
			WithSuggestion("Available scenarios: " + fmt.Sprint(scenarioNames()))
	}
	return s, nil
}

func always() bool { return true }

func buildCounter(e *env) instance {
	count := reactive.NewSignal(0)
	label := e.doc.CreateElement("strong")
	label.SetTextContent("count")

	root := child.List(
		child.Node(label),
		child.Text(": "),
		child.Of[int](count),
		flow.When(func() bool { return count.Get()%2 == 1 }, func() child.Child {
			return child.Text(" (odd)")
		}),
	)
	return instance{
		root: root,
		step: count.Set,
		idle: always,
	}
}

func buildList(e *env) instance {
	items := reactive.NewSignal([]int{1, 2, 3, 4, 5})

	root := flow.For(e.doc, items, func(n int) child.Child {
		li := e.doc.CreateElement("li")
		li.SetTextContent("item " + strconv.Itoa(n))
		return child.Node(li)
	})
	return instance{
		root: root,
		step: func(i int) {
			items.Set(listStep(items.Peek(), i))
		},
		idle: always,
	}
}

// listStep cycles through the reconciler's paths: rotations diff, every
// fifth step empties the list and the next one refills it.
func listStep(cur []int, i int) []int {
	switch {
	case i%5 == 0:
		return nil
	case len(cur) == 0:
		return []int{i, i + 1, i + 2}
	case i%3 == 0:
		return append(append([]int(nil), cur...), cur[len(cur)-1]+1)
	default:
		next := make([]int, 0, len(cur))
		next = append(next, cur[1:]...)
		return append(next, cur[0])
	}
}

func buildSuspense(e *env) instance {
	var fetches atomic.Int64
	var res *suspense.Resource[string]

	root := suspense.Suspense(child.Text("loading…"), func() child.Child {
		if e.metrics != nil {
			e.metrics.TrackBoundary(suspense.Current())
		}
		res = suspense.UseResource(e.ctx, e.dispatcher, func(ctx context.Context) (string, error) {
			n := fetches.Add(1)
			select {
			case <-time.After(e.latency):
			case <-ctx.Done():
				return "", ctx.Err()
			}
			return "payload #" + strconv.FormatInt(n, 10), nil
		})
		return res.Match(
			suspense.OnReady(func(s string) child.Child {
				p := e.doc.CreateElement("p")
				p.SetTextContent(s)
				return child.Node(p)
			}),
			suspense.OnError[string](func(err error) child.Child {
				return child.Text("error: " + err.Error())
			}),
		)
	})
	return instance{
		root: root,
		step: func(i int) {
			if i%2 == 0 {
				res.Refetch()
			}
		},
		idle: func() bool {
			s := res.State()
			return s == suspense.Ready || s == suspense.Failed
		},
	}
}

// settle flushes l until idle reports true or ctx ends.
func settle(ctx context.Context, l *loop.Loop, idle func() bool) error {
	for {
		l.Flush()
		if idle() {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(time.Millisecond):
		}
	}
}
