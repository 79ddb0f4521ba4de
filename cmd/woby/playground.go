package main

import (
	"context"
	stderrors "errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"github.com/vango-dev/woby/internal/config"
	"github.com/vango-dev/woby/pkg/loop"
	"github.com/vango-dev/woby/pkg/reconcile"
	"github.com/vango-dev/woby/pkg/telemetry"
)

func playgroundCmd(load configLoader) *cobra.Command {
	var (
		port    int
		host    string
		name    string
		tick    time.Duration
		latency time.Duration
	)

	cmd := &cobra.Command{
		Use:   "playground",
		Short: "Serve a live view of a scenario",
		Long: `Start an HTTP server that renders a demo scenario and pushes the
markup to connected browsers over WebSocket after every step.

Routes:
  /          live view
  /ws        WebSocket stream of rendered frames
  /snapshot  current markup
  /step      advance one step (POST)
  /metrics   Prometheus metrics (when enabled)

Examples:
  woby playground
  woby playground --scenario suspense --tick 2s
  woby playground --port=8080 --host=0.0.0.0`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := load()
			if err != nil {
				return err
			}
			if port > 0 {
				cfg.Playground.Port = port
			}
			if host != "" {
				cfg.Playground.Host = host
			}
			if cmd.Flags().Changed("tick") {
				cfg.Playground.TickMs = int(tick / time.Millisecond)
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			sc, err := lookupScenario(name)
			if err != nil {
				return err
			}

			logger := newLogger(cfg, os.Stderr)
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			out := cmd.OutOrStdout()
			printBanner(out)
			info(out, "playground: %s", sc.description)
			success(out, "Listening on http://%s", cfg.PlaygroundAddress())

			return serve(ctx, newPlayground(cfg, sc, logger, latency))
		},
	}

	cmd.Flags().IntVarP(&port, "port", "p", 0, "Port to run on (default from woby.json)")
	cmd.Flags().StringVarP(&host, "host", "H", "", "Host to bind to (default from woby.json)")
	cmd.Flags().StringVarP(&name, "scenario", "s", "list", "Scenario to serve")
	cmd.Flags().DurationVar(&tick, "tick", 0, "Step interval, 0 to step only on POST /step (default from woby.json)")
	cmd.Flags().DurationVar(&latency, "latency", 300*time.Millisecond, "Simulated fetch latency")

	return cmd
}

// serve runs p and its HTTP server until ctx is done.
func serve(ctx context.Context, p *playground) error {
	srv := &http.Server{
		Addr:              p.cfg.PlaygroundAddress(),
		Handler:           p.routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	srvErr := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !stderrors.Is(err, http.ErrServerClosed) {
			srvErr <- err
		}
	}()
	runErr := make(chan error, 1)
	go func() {
		runErr <- p.run(ctx)
	}()

	var err error
	running := true
	select {
	case <-ctx.Done():
	case err = <-srvErr:
	case err = <-runErr:
		running = false
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if serr := srv.Shutdown(shutdownCtx); serr != nil && err == nil {
		err = serr
	}
	p.loop.Close()
	if running {
		if rerr := <-runErr; rerr != nil && err == nil {
			err = rerr
		}
	}
	return err
}

// frame is one rendered state pushed to clients.
type frame struct {
	Scenario string `json:"scenario"`
	Step     int    `json:"step"`
	HTML     string `json:"html"`
}

// playground renders one scenario on its own loop goroutine and serves the
// result. HTTP handlers never touch the document; they read the last
// published frame.
type playground struct {
	cfg      *config.Config
	scenario scenario
	logger   *slog.Logger
	latency  time.Duration

	loop     *loop.Loop
	registry *prometheus.Registry
	metrics  *telemetry.Metrics
	observer reconcile.Observer

	session *session // loop goroutine only
	current atomic.Pointer[frame]
	ready   chan struct{}
	hub     *hub

	upgrader websocket.Upgrader
}

func newPlayground(cfg *config.Config, sc scenario, logger *slog.Logger, latency time.Duration) *playground {
	p := &playground{
		cfg:      cfg,
		scenario: sc,
		logger:   logger,
		latency:  latency,
		loop:     loop.New(logger),
		registry: prometheus.NewRegistry(),
		ready:    make(chan struct{}),
		hub:      newHub(),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
		},
	}

	var observers []reconcile.Observer
	if cfg.Metrics.Enabled {
		p.metrics = telemetry.NewMetrics(
			telemetry.WithNamespace(cfg.Metrics.Namespace),
			telemetry.WithRegistry(p.registry),
		)
		observers = append(observers, p.metrics)
	}
	if cfg.Tracing.Enabled {
		observers = append(observers, telemetry.NewTracing(
			telemetry.WithTracerName(cfg.Tracing.TracerName),
		))
	}
	if len(observers) > 0 {
		p.observer = telemetry.Multi(observers...)
	}
	return p
}

// run renders the scenario and drives the loop on the calling goroutine
// until ctx is done or the loop is closed.
func (p *playground) run(ctx context.Context) error {
	s, err := startSession(ctx, p.scenario, p.loop, sessionOptions{
		reconciler: &reconcile.Reconciler{
			HotReload: p.cfg.HotReload,
			Logger:    p.logger,
			Observer:  p.observer,
		},
		metrics: p.metrics,
		latency: p.latency,
	})
	if err != nil {
		return err
	}
	defer s.close()
	if p.metrics != nil {
		stop := p.metrics.ObserveDocument(s.doc)
		defer stop()
	}

	p.session = s
	p.publish()
	p.loop.OnFlush(p.publish)
	close(p.ready)

	if tick := p.cfg.Tick(); tick > 0 {
		go p.tickLoop(ctx, tick)
	}

	err = p.loop.Run(ctx)
	if stderrors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func (p *playground) tickLoop(ctx context.Context, tick time.Duration) {
	t := time.NewTicker(tick)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			p.loop.Dispatch(p.session.advance)
		}
	}
}

// publish records the current markup and pushes it to clients if it changed.
func (p *playground) publish() {
	f := &frame{
		Scenario: p.scenario.name,
		Step:     p.session.steps,
		HTML:     p.session.html(),
	}
	if old := p.current.Load(); old != nil && old.Step == f.Step && old.HTML == f.HTML {
		return
	}
	p.current.Store(f)
	p.hub.broadcast(f)
	p.logger.Debug("frame published", "scenario", f.Scenario, "step", f.Step)
}

func (p *playground) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/", p.handleIndex)
	r.Get("/ws", p.handleWS)
	r.Get("/snapshot", p.handleSnapshot)
	r.Post("/step", p.handleStep)
	if p.metrics != nil {
		r.Handle("/metrics", promhttp.HandlerFor(p.registry, promhttp.HandlerOpts{}))
	}
	return r
}

func (p *playground) handleIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte(indexHTML))
}

func (p *playground) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	f := p.current.Load()
	if f == nil {
		http.Error(w, "not rendered yet", http.StatusServiceUnavailable)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte(f.HTML))
}

func (p *playground) handleStep(w http.ResponseWriter, r *http.Request) {
	select {
	case <-p.ready:
	case <-r.Context().Done():
		return
	}
	p.loop.Dispatch(p.session.advance)
	w.WriteHeader(http.StatusAccepted)
}

func (p *playground) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := p.upgrader.Upgrade(w, r, nil)
	if err != nil {
		p.logger.Warn("websocket upgrade failed", "error", err)
		return
	}
	c := &client{send: make(chan *frame, 8), done: make(chan struct{})}
	p.hub.add(c)
	defer p.hub.remove(c)

	if f := p.current.Load(); f != nil {
		c.push(f)
	}

	go func() {
		defer close(c.done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				if websocket.IsUnexpectedCloseError(err,
					websocket.CloseGoingAway,
					websocket.CloseNormalClosure) {
					p.logger.Debug("websocket read error", "error", err)
				}
				return
			}
		}
	}()

	c.writeLoop(conn, p.logger)
}

// hub fans frames out to connected clients.
type hub struct {
	mu      sync.Mutex
	clients map[*client]struct{}
}

func newHub() *hub {
	return &hub{clients: make(map[*client]struct{})}
}

func (h *hub) add(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[c] = struct{}{}
}

func (h *hub) remove(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.clients, c)
}

func (h *hub) count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

func (h *hub) broadcast(f *frame) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		c.push(f)
	}
}

type client struct {
	send chan *frame
	done chan struct{}
}

// push queues f, dropping the oldest queued frame when the client lags.
func (c *client) push(f *frame) {
	for {
		select {
		case c.send <- f:
			return
		default:
		}
		select {
		case <-c.send:
		default:
		}
	}
}

func (c *client) writeLoop(conn *websocket.Conn, logger *slog.Logger) {
	defer conn.Close()
	for {
		select {
		case <-c.done:
			return
		case f := <-c.send:
			conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := conn.WriteJSON(f); err != nil {
				logger.Debug("websocket write failed", "error", err)
				return
			}
		}
	}
}

const indexHTML = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>woby playground</title>
<style>
body { font-family: system-ui, sans-serif; margin: 2rem; }
#meta { color: #666; font-size: 0.9rem; }
#view { border: 1px solid #ddd; padding: 1rem; margin-top: 1rem; }
</style>
</head>
<body>
<div id="meta">connecting…</div>
<div id="view"></div>
<button id="step">step</button>
<script>
const meta = document.getElementById("meta");
const view = document.getElementById("view");
const ws = new WebSocket((location.protocol === "https:" ? "wss://" : "ws://") + location.host + "/ws");
ws.onmessage = (ev) => {
  const f = JSON.parse(ev.data);
  meta.textContent = f.scenario + " · step " + f.step;
  view.innerHTML = f.html;
};
ws.onclose = () => { meta.textContent = "disconnected"; };
document.getElementById("step").onclick = () => fetch("/step", { method: "POST" });
</script>
</body>
</html>
`
