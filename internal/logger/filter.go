package logger

import (
	"context"
	"log/slog"
	"net/url"
	"runtime"
	"strings"
)

// ModuleKey is the attribute key that overrides the module path derived from
// the caller's program counter. Bind it with logger.With(ModuleKey, "...").
const ModuleKey = "module"

// Metadata is what a Predicate sees about a record.
type Metadata struct {
	Module    string
	HasModule bool
	Level     slog.Level
}

// Predicate decides whether a record is forwarded to a layer.
type Predicate func(Metadata) bool

// ModulePrefix accepts records whose module path starts with prefix.
// Records without a module path are rejected.
func ModulePrefix(prefix string) Predicate {
	return func(m Metadata) bool {
		return m.HasModule && strings.HasPrefix(m.Module, prefix)
	}
}

// MinLevel accepts records at or above the given severity. The threshold
// is read on every record, so a *slog.LevelVar can move it at runtime.
func MinLevel(level slog.Leveler) Predicate {
	return func(m Metadata) bool {
		return m.Level >= level.Level()
	}
}

// All accepts a record only if every predicate does.
func All(preds ...Predicate) Predicate {
	return func(m Metadata) bool {
		for _, p := range preds {
			if !p(m) {
				return false
			}
		}
		return true
	}
}

// Recorder receives per-layer counts of forwarded and filtered records.
type Recorder interface {
	RecordForwarded(ctx context.Context, layer string)
	RecordFiltered(ctx context.Context, layer string)
}

type filterHandler struct {
	layer   string
	next    slog.Handler
	pred    Predicate
	rec     Recorder
	module  string
	grouped bool
}

// NewFilter wraps next so that only records accepted by pred reach it.
// rec may be nil.
func NewFilter(layer string, next slog.Handler, pred Predicate, rec Recorder) slog.Handler {
	return &filterHandler{layer: layer, next: next, pred: pred, rec: rec}
}

func (h *filterHandler) Enabled(ctx context.Context, l slog.Level) bool {
	return h.next.Enabled(ctx, l)
}

func (h *filterHandler) Handle(ctx context.Context, r slog.Record) error {
	module, ok := resolveModule(r, h.module, h.grouped)
	if !h.pred(Metadata{Module: module, HasModule: ok, Level: r.Level}) {
		if h.rec != nil {
			h.rec.RecordFiltered(ctx, h.layer)
		}
		return nil
	}
	if h.rec != nil {
		h.rec.RecordForwarded(ctx, h.layer)
	}
	return h.next.Handle(ctx, r)
}

func (h *filterHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	c := *h
	c.next = h.next.WithAttrs(attrs)
	c.module = boundModule(h.module, h.grouped, attrs)
	return &c
}

func (h *filterHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	c := *h
	c.next = h.next.WithGroup(name)
	c.grouped = true
	return &c
}

// boundModule returns the module override after binding attrs. Attributes
// inside a group are ordinary data and never override the module.
func boundModule(current string, grouped bool, attrs []slog.Attr) string {
	if grouped {
		return current
	}
	for _, a := range attrs {
		if a.Key == ModuleKey && a.Value.Kind() == slog.KindString {
			current = a.Value.String()
		}
	}
	return current
}

// resolveModule picks the module path of r: a top-level ModuleKey attr on
// the record wins, then bound, then the caller's package.
func resolveModule(r slog.Record, bound string, grouped bool) (string, bool) {
	if !grouped {
		var module string
		r.Attrs(func(a slog.Attr) bool {
			if a.Key == ModuleKey && a.Value.Kind() == slog.KindString {
				module = a.Value.String()
				return false
			}
			return true
		})
		if module != "" {
			return module, true
		}
	}
	if bound != "" {
		return bound, true
	}
	return ModuleOf(r)
}

// ModuleOf returns the import path of the package that logged r.
func ModuleOf(r slog.Record) (string, bool) {
	if r.PC == 0 {
		return "", false
	}
	frames := runtime.CallersFrames([]uintptr{r.PC})
	f, _ := frames.Next()
	if f.Function == "" {
		return "", false
	}
	return packagePath(f.Function), true
}

// packagePath trims the symbol from a qualified function name:
// "github.com/a/b/pkg.(*T).M" -> "github.com/a/b/pkg".
// The linker escapes dots in the last path element ("billing.api" becomes
// "billing%2eapi"), so the first dot after the last slash always ends the
// path; the escapes are undone afterwards.
func packagePath(fn string) string {
	slash := strings.LastIndex(fn, "/")
	path := fn
	if dot := strings.Index(fn[slash+1:], "."); dot >= 0 {
		path = fn[:slash+1+dot]
	}
	if !strings.Contains(path, "%") {
		return path
	}
	if unescaped, err := url.PathUnescape(path); err == nil {
		return unescaped
	}
	return path
}
