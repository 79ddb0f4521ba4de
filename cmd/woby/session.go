package main

import (
	"context"
	"time"

	"github.com/vango-dev/woby"
	"github.com/vango-dev/woby/pkg/child"
	"github.com/vango-dev/woby/pkg/dom"
	"github.com/vango-dev/woby/pkg/loop"
	"github.com/vango-dev/woby/pkg/reconcile"
	"github.com/vango-dev/woby/pkg/telemetry"
)

// session is a scenario rendered into its own document.
type session struct {
	scenario scenario
	doc      *dom.Document
	root     *dom.Node
	inst     instance
	dispose  func()
	steps    int
}

type sessionOptions struct {
	reconciler *reconcile.Reconciler
	metrics    *telemetry.Metrics
	latency    time.Duration
}

// startSession renders sc into a fresh <main> element. It must run on the
// goroutine that drives l.
func startSession(ctx context.Context, sc scenario, l *loop.Loop, opts sessionOptions) (*session, error) {
	if opts.reconciler == nil {
		opts.reconciler = reconcile.Default
	}

	doc := dom.NewDocument()
	s := &session{
		scenario: sc,
		doc:      doc,
		root:     doc.CreateElement("main"),
	}
	e := &env{
		ctx:        ctx,
		doc:        doc,
		dispatcher: l,
		metrics:    opts.metrics,
		latency:    opts.latency,
	}

	// Built lazily so everything the scenario creates belongs to the
	// render's owner.
	build := child.Frozen(func() child.Child {
		s.inst = sc.build(e)
		return s.inst.root
	})

	dispose, err := woby.RenderWith(opts.reconciler, build, s.root)
	if err != nil {
		return nil, err
	}
	s.dispose = dispose
	return s, nil
}

// advance moves to the next step.
func (s *session) advance() {
	s.steps++
	s.inst.step(s.steps)
}

// html returns the rendered markup.
func (s *session) html() string {
	return s.root.InnerHTML()
}

func (s *session) close() {
	if s.dispose != nil {
		s.dispose()
		s.dispose = nil
	}
}
