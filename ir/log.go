package ir

import (
	"context"
	"fmt"
	"log/slog"
)

// slogType wraps a Type as a slog.LogValuer to not render type strings
// unless they definitely need to be logged
func slogType(t Type) slog.LogValuer { return typeLogValuer{t} }
func slogDecl(d Decl) slog.LogValuer { return declLogValuer{d} }

type typeLogValuer struct{ Type }
type declLogValuer struct{ Decl }

func (l typeLogValuer) LogValue() slog.Value { return slog.StringValue(TypeString(l.Type)) }

func (l declLogValuer) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("name", l.DeclName()),
		slog.String("kind", l.DeclKind().String()),
		slog.String("hash", fmt.Sprintf("%x", l.Hash())),
		slog.String("pos", l.Position().String()),
	)
}

// SlogHandler wraps underlying so that it is capable of lazy-printing types and declarations
func SlogHandler(underlying slog.Handler) slog.Handler {
	return &irLogHandler{underlying: underlying}
}

type irLogHandler struct {
	underlying slog.Handler
}

func (l *irLogHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return l.underlying.Enabled(ctx, level)
}

func (l *irLogHandler) Handle(ctx context.Context, record slog.Record) error {
	newRecord := slog.NewRecord(record.Time, record.Level, record.Message, record.PC)
	record.Attrs(func(attr slog.Attr) bool {
		newRecord.AddAttrs(wrapAttr(attr))
		return true
	})
	return l.underlying.Handle(ctx, newRecord)
}

func (l *irLogHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	wrapped := make([]slog.Attr, len(attrs))
	for i, attr := range attrs {
		wrapped[i] = wrapAttr(attr)
	}
	return SlogHandler(l.underlying.WithAttrs(wrapped))
}

func (l *irLogHandler) WithGroup(name string) slog.Handler {
	return SlogHandler(l.underlying.WithGroup(name))
}

func wrapAttr(attr slog.Attr) slog.Attr {
	if attr.Value.Kind() != slog.KindAny {
		return attr
	}
	switch value := attr.Value.Any().(type) {
	case Type:
		attr.Value = slog.AnyValue(slogType(value))
	case Decl:
		attr.Value = slog.AnyValue(slogDecl(value))
	}
	return attr
}
