package tracing

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Span names.
const (
	SpanDocumentOpen   = "workspace.open"
	SpanDocumentSave   = "workspace.save"
	SpanDocumentReload = "workspace.reload"
	SpanRegistersLoad  = "registers.load"
	SpanRegistersSave  = "registers.save"
)

// Attribute keys.
const (
	AttrPath      = "file.path"
	AttrBytes     = "file.bytes"
	AttrLines     = "file.lines"
	AttrAdded     = "diff.added"
	AttrRemoved   = "diff.removed"
	AttrRegisters = "registers.count"
)

// Start opens a span named name on tracer.
func Start(ctx context.Context, tracer trace.Tracer, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return tracer.Start(ctx, name, trace.WithAttributes(attrs...))
}

// End records err on span, if any, and ends it.
func End(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}
