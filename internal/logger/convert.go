package logger

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/log"
)

func groupPrefix(groups []string) string {
	return strings.Join(groups, ".")
}

// appendAttr flattens a into span attributes, dotting group names into keys.
func appendAttr(kvs []attribute.KeyValue, prefix string, a slog.Attr) []attribute.KeyValue {
	a.Value = a.Value.Resolve()
	if a.Equal(slog.Attr{}) {
		return kvs
	}
	key := a.Key
	if prefix != "" && key != "" {
		key = prefix + "." + key
	} else if key == "" {
		key = prefix
	}

	switch a.Value.Kind() {
	case slog.KindGroup:
		for _, ga := range a.Value.Group() {
			kvs = appendAttr(kvs, key, ga)
		}
		return kvs
	case slog.KindString:
		return append(kvs, attribute.String(key, a.Value.String()))
	case slog.KindInt64:
		return append(kvs, attribute.Int64(key, a.Value.Int64()))
	case slog.KindUint64:
		return append(kvs, attribute.Int64(key, int64(a.Value.Uint64())))
	case slog.KindFloat64:
		return append(kvs, attribute.Float64(key, a.Value.Float64()))
	case slog.KindBool:
		return append(kvs, attribute.Bool(key, a.Value.Bool()))
	case slog.KindDuration:
		return append(kvs, attribute.String(key, a.Value.Duration().String()))
	case slog.KindTime:
		return append(kvs, attribute.String(key, a.Value.Time().Format(time.RFC3339Nano)))
	default:
		return append(kvs, attribute.String(key, fmt.Sprint(a.Value.Any())))
	}
}

func toOTelValue(v slog.Value) log.Value {
	v = v.Resolve()
	switch v.Kind() {
	case slog.KindString:
		return log.StringValue(v.String())
	case slog.KindInt64:
		return log.Int64Value(v.Int64())
	case slog.KindUint64:
		return log.Int64Value(int64(v.Uint64()))
	case slog.KindBool:
		return log.BoolValue(v.Bool())
	case slog.KindFloat64:
		return log.Float64Value(v.Float64())
	case slog.KindDuration:
		return log.StringValue(v.Duration().String())
	case slog.KindTime:
		return log.StringValue(v.Time().Format(time.RFC3339Nano))
	case slog.KindGroup:
		group := v.Group()
		kvs := make([]log.KeyValue, 0, len(group))
		for _, a := range group {
			kvs = append(kvs, log.KeyValue{Key: a.Key, Value: toOTelValue(a.Value)})
		}
		return log.MapValue(kvs...)
	default:
		return log.StringValue(fmt.Sprint(v.Any()))
	}
}

func toSeverity(l slog.Level) log.Severity {
	switch {
	case l >= slog.LevelError:
		return log.SeverityError
	case l >= slog.LevelWarn:
		return log.SeverityWarn
	case l >= slog.LevelInfo:
		return log.SeverityInfo
	case l >= slog.LevelDebug:
		return log.SeverityDebug
	default:
		return log.SeverityTrace
	}
}
