// Package logger configures the structured stderr logging used by every
// command.
package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"
	"golang.org/x/term"
)

const (
	FormatJSON   = "json"
	FormatPretty = "pretty"
	FormatAuto   = "auto"
)

// Logger wraps slog.Logger with the run identifier attached.
type Logger struct {
	*slog.Logger
	RunID string
}

// Config holds logger configuration.
type Config struct {
	Writer io.Writer
	Format string
	Level  slog.Level
}

// New creates a logger writing to cfg.Writer (stderr by default). An empty
// or "auto" format selects the pretty handler when the writer is a
// terminal and JSON otherwise. Every record carries a per-run uuid.
func New(cfg Config) *Logger {
	if cfg.Writer == nil {
		cfg.Writer = os.Stderr
	}

	format := strings.ToLower(cfg.Format)
	if format == "" || format == FormatAuto {
		format = FormatJSON
		if IsTerminal(cfg.Writer) {
			format = FormatPretty
		}
	}

	opts := &slog.HandlerOptions{Level: cfg.Level}

	var handler slog.Handler
	if format == FormatJSON {
		handler = slog.NewJSONHandler(cfg.Writer, opts)
	} else {
		handler = NewPrettyHandler(cfg.Writer, opts)
	}

	runID := uuid.NewString()
	return &Logger{
		Logger: slog.New(handler).With(slog.String("run", runID)),
		RunID:  runID,
	}
}

// Discard returns a logger that drops everything.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// IsTerminal reports whether w is a file attached to a terminal.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// ParseLevel converts a string to slog.Level. Unknown values map to info.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// PrettyHandler is a slog.Handler that writes one human-readable, styled
// line per record.
type PrettyHandler struct {
	opts   *slog.HandlerOptions
	writer io.Writer
	attrs  []slog.Attr
	styles styles
}

type styles struct {
	time, msg, attrs     lipgloss.Style
	debug, info, warn, e lipgloss.Style
}

// NewPrettyHandler creates a new pretty handler. Colors are only emitted
// when w supports them.
func NewPrettyHandler(w io.Writer, opts *slog.HandlerOptions) *PrettyHandler {
	if opts == nil {
		opts = &slog.HandlerOptions{}
	}
	r := lipgloss.NewRenderer(w)
	return &PrettyHandler{
		opts:   opts,
		writer: w,
		styles: styles{
			time:  r.NewStyle().Faint(true),
			msg:   r.NewStyle().Bold(true),
			attrs: r.NewStyle().Foreground(lipgloss.Color("6")),
			debug: r.NewStyle().Foreground(lipgloss.Color("5")),
			info:  r.NewStyle().Foreground(lipgloss.Color("2")),
			warn:  r.NewStyle().Foreground(lipgloss.Color("3")),
			e:     r.NewStyle().Foreground(lipgloss.Color("1")),
		},
	}
}

// Enabled reports whether the handler handles records at the given level.
func (h *PrettyHandler) Enabled(_ context.Context, level slog.Level) bool {
	minLevel := slog.LevelInfo
	if h.opts.Level != nil {
		minLevel = h.opts.Level.Level()
	}
	return level >= minLevel
}

// Handle formats and writes the log record.
func (h *PrettyHandler) Handle(_ context.Context, r slog.Record) error {
	var b strings.Builder

	b.WriteString(h.styles.time.Render(r.Time.Format("15:04:05")))
	b.WriteByte(' ')
	b.WriteString(h.level(r.Level))
	b.WriteByte(' ')
	b.WriteString(h.styles.msg.Render(r.Message))

	attrs := make([]slog.Attr, 0, len(h.attrs)+r.NumAttrs())
	attrs = append(attrs, h.attrs...)
	r.Attrs(func(a slog.Attr) bool {
		attrs = append(attrs, a)
		return true
	})

	if len(attrs) > 0 {
		parts := make([]string, 0, len(attrs))
		for _, a := range attrs {
			// run ids are noise on a terminal
			if a.Key == "run" {
				continue
			}
			parts = append(parts, a.Key+"="+formatValue(a.Value))
		}
		if len(parts) > 0 {
			b.WriteByte(' ')
			b.WriteString(h.styles.attrs.Render(strings.Join(parts, " ")))
		}
	}

	b.WriteByte('\n')
	_, err := io.WriteString(h.writer, b.String())
	return err
}

// WithAttrs returns a new handler with additional attributes.
func (h *PrettyHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	newAttrs := make([]slog.Attr, len(h.attrs)+len(attrs))
	copy(newAttrs, h.attrs)
	copy(newAttrs[len(h.attrs):], attrs)

	clone := *h
	clone.attrs = newAttrs
	return &clone
}

// WithGroup is a no-op; the CLI never groups attributes.
func (h *PrettyHandler) WithGroup(_ string) slog.Handler {
	return h
}

func (h *PrettyHandler) level(level slog.Level) string {
	switch {
	case level < slog.LevelInfo:
		return h.styles.debug.Render("DBG")
	case level < slog.LevelWarn:
		return h.styles.info.Render("INF")
	case level < slog.LevelError:
		return h.styles.warn.Render("WRN")
	default:
		return h.styles.e.Render("ERR")
	}
}

func formatValue(v slog.Value) string {
	switch v.Kind() {
	case slog.KindTime:
		return v.Time().Format(time.RFC3339)
	case slog.KindDuration:
		return v.Duration().String()
	default:
		s := v.String()
		if strings.ContainsAny(s, " \t\"") {
			return `"` + strings.ReplaceAll(s, `"`, `\"`) + `"`
		}
		return s
	}
}
