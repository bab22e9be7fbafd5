package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/dmitrymomot/vform/pkg/config"
	"github.com/dmitrymomot/vform/pkg/form"
	"github.com/dmitrymomot/vform/pkg/logger"
	"github.com/dmitrymomot/vform/pkg/metrics"
	"github.com/dmitrymomot/vform/pkg/transport"
)

const (
	exitOK      = 0
	exitFailure = 1
	exitInvalid = 2
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// assignments collects repeated -set name=value flags.
type assignments map[string]string

func (a assignments) String() string {
	pairs := make([]string, 0, len(a))
	for k, v := range a {
		pairs = append(pairs, k+"="+v)
	}
	return strings.Join(pairs, ",")
}

func (a assignments) Set(s string) error {
	name, value, ok := strings.Cut(s, "=")
	if !ok || strings.TrimSpace(name) == "" {
		return fmt.Errorf("expected name=value, got %q", s)
	}
	a[strings.TrimSpace(name)] = value
	return nil
}

// result is the JSON printed for every attempt.
type result struct {
	ID         string              `json:"id,omitempty"`
	Status     form.Status         `json:"status"`
	HTTPStatus int                 `json:"http_status,omitempty"`
	Errors     map[string][]string `json:"errors,omitempty"`
	Message    string              `json:"message,omitempty"`
	Redirect   string              `json:"redirect,omitempty"`
	Data       any                 `json:"data,omitempty"`
	Error      string              `json:"error,omitempty"`
	Duration   string              `json:"duration,omitempty"`
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("vform", flag.ContinueOnError)
	fs.SetOutput(stderr)
	defPath := fs.String("form", "form.yaml", "form definition file")
	action := fs.String("action", "", "override the form action")
	envFile := fs.String("env-file", "", "additional dotenv file")
	metricsFile := fs.String("metrics-file", "", "write metrics to this file on exit (overrides VFORM_METRICS_FILE)")
	values := assignments{}
	fs.Var(values, "set", "field value as name=value (repeatable)")
	if err := fs.Parse(args); err != nil {
		return exitFailure
	}

	var loadOpts []config.Option
	if *envFile != "" {
		loadOpts = append(loadOpts, config.WithEnvFiles(*envFile))
	}
	settings, err := config.LoadSettings(loadOpts...)
	if err != nil {
		fmt.Fprintf(stderr, "vform: %v\n", err)
		return exitFailure
	}

	if *metricsFile != "" {
		settings.MetricsFile = *metricsFile
	}

	log, err := newLogger(settings, stderr)
	if err != nil {
		fmt.Fprintf(stderr, "vform: %v\n", err)
		return exitFailure
	}

	def, err := config.LoadDefinition(*defPath)
	if err != nil {
		log.ErrorContext(ctx, "failed to load form definition", logger.Error(err))
		return exitFailure
	}
	cfg, err := def.FormConfig()
	if err != nil {
		log.ErrorContext(ctx, "invalid form definition", logger.Error(err))
		return exitFailure
	}
	if *action != "" {
		cfg.Action = *action
	}

	tr := transport.NewHTTP(
		transport.WithBaseURL(settings.BaseURL),
		transport.WithUserAgent(settings.UserAgent),
		transport.WithMaxBodySize(settings.MaxBodySize),
		transport.WithTimeout(settings.HTTPTimeout),
	)

	ctl, err := form.New(cfg, tr,
		form.WithLogger(log),
		form.WithNavigator(form.NavigatorFunc(func(ctx context.Context, target string) error {
			log.InfoContext(ctx, "endpoint requested redirect", logger.URL(target))
			return nil
		})),
	)
	if err != nil {
		log.ErrorContext(ctx, "failed to create form", logger.Error(err))
		return exitFailure
	}
	defer ctl.Close()

	if settings.MetricsAddr != "" || settings.MetricsFile != "" {
		reg := prometheus.NewRegistry()
		remove := metrics.NewWithRegistry(reg).Attach(ctl.Signals())
		defer remove()
		if settings.MetricsAddr != "" {
			srv := serveMetrics(settings.MetricsAddr, reg, log)
			defer shutdown(srv)
		}
		if settings.MetricsFile != "" {
			defer writeMetrics(settings.MetricsFile, reg, log)
		}
	}

	if err := def.Apply(ctl); err != nil {
		log.ErrorContext(ctx, "failed to register fields", logger.Error(err))
		return exitFailure
	}
	for name, v := range values {
		if f, ok := ctl.Field(name); ok {
			_ = f.Set(v)
			continue
		}
		ctl.Set(name, v)
	}

	fut, err := ctl.Submit(ctx)
	if err != nil {
		log.ErrorContext(ctx, "submission aborted", logger.Error(err))
		return exitFailure
	}
	out, err := fut.AwaitContext(ctx)
	if errors.Is(err, context.Canceled) {
		log.WarnContext(ctx, "interrupted")
		return exitFailure
	}

	if err := writeResult(stdout, out); err != nil {
		log.ErrorContext(ctx, "failed to write result", logger.Error(err))
		return exitFailure
	}

	switch out.Status {
	case form.StatusRejected:
		return exitInvalid
	case form.StatusFailed:
		return exitFailure
	default:
		return exitOK
	}
}

func newLogger(s config.Settings, w io.Writer) (*slog.Logger, error) {
	level, err := logger.ParseLevel(s.LogLevel)
	if err != nil {
		return nil, err
	}
	opts := []logger.Option{
		logger.WithOutput(w),
		logger.WithEnvironment(s.Env, "vform"),
		logger.WithLevel(level),
	}
	switch f := logger.Format(strings.ToLower(s.LogFormat)); f {
	case "":
	case logger.FormatJSON, logger.FormatText:
		opts = append(opts, logger.WithFormat(f))
	default:
		return nil, fmt.Errorf("invalid log format %q", s.LogFormat)
	}
	return logger.New(opts...), nil
}

func writeResult(w io.Writer, out form.Outcome) error {
	res := result{
		ID:         out.ID,
		Status:     out.Status,
		HTTPStatus: out.Response.Status,
		Errors:     out.Errors,
		Message:    out.Response.Message,
		Redirect:   out.Response.RedirectTo,
		Data:       printable(out.Response.Raw),
	}
	if out.Err != nil {
		res.Error = out.Err.Error()
	}
	if out.Duration > 0 {
		res.Duration = out.Duration.Round(time.Millisecond).String()
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(res)
}

// printable makes msgpack and blob bodies JSON-encodable.
func printable(v any) any {
	switch t := v.(type) {
	case form.Blob:
		return map[string]any{"content_type": t.ContentType, "size": len(t.Data)}
	case map[any]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[fmt.Sprint(k)] = printable(val)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[k] = printable(val)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, val := range t {
			out[i] = printable(val)
		}
		return out
	default:
		return v
	}
}

// writeMetrics stores the gathered metrics for a textfile collector.
func writeMetrics(path string, g prometheus.Gatherer, log *slog.Logger) {
	if err := prometheus.WriteToTextfile(path, g); err != nil {
		log.Error("failed to write metrics file", logger.Error(err))
	}
}

// serveMetrics exposes g until shutdown is called.
func serveMetrics(addr string, g prometheus.Gatherer, log *slog.Logger) *http.Server {
	r := chi.NewRouter()
	r.Method(http.MethodGet, "/metrics", metrics.Handler(g))

	srv := &http.Server{Addr: addr, Handler: r, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("metrics server stopped", logger.Error(err))
		}
	}()
	return srv
}

func shutdown(srv *http.Server) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = srv.Shutdown(ctx)
}
