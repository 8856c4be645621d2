package propagator

import (
	"encoding/json"
	"fmt"

	"go.opentelemetry.io/otel/trace"
)

// SpanContextDTO is the JSON form of a span context, used when the
// carrier medium is structured message metadata (e.g. queue or event
// metadata) rather than a flat string map.
type SpanContextDTO struct {
	TraceID    string `json:"trace_id"`
	SpanID     string `json:"span_id"`
	TraceFlags byte   `json:"trace_flags"`
	TraceState string `json:"trace_state"` // serialized trace state if needed
	IsRemote   bool   `json:"is_remote"`
}

func SerializeSpanContext(sc trace.SpanContext) ([]byte, error) {
	dto := SpanContextDTO{
		TraceID:    sc.TraceID().String(),
		SpanID:     sc.SpanID().String(),
		TraceFlags: byte(sc.TraceFlags()),
		TraceState: sc.TraceState().String(),
		IsRemote:   sc.IsRemote(),
	}

	return json.Marshal(dto)
}

func DeserializeSpanContext(data []byte) (trace.SpanContext, error) {
	var dto SpanContextDTO
	if err := json.Unmarshal(data, &dto); err != nil {
		return trace.SpanContext{}, fmt.Errorf("DeserializeSpanContext: failed to unmarshal json: %w", err)
	}

	traceID, err := trace.TraceIDFromHex(dto.TraceID)
	if err != nil {
		return trace.SpanContext{}, fmt.Errorf("DeserializeSpanContext: failed to parse trace id: %w", err)
	}

	spanID, err := trace.SpanIDFromHex(dto.SpanID)
	if err != nil {
		return trace.SpanContext{}, fmt.Errorf("DeserializeSpanContext: failed to parse span id: %w", err)
	}

	traceState, err := trace.ParseTraceState(dto.TraceState)
	if err != nil {
		return trace.SpanContext{}, fmt.Errorf("DeserializeSpanContext: failed to parse trace state: %w", err)
	}

	return trace.NewSpanContext(trace.SpanContextConfig{
		TraceID:    traceID,
		SpanID:     spanID,
		TraceFlags: trace.TraceFlags(dto.TraceFlags),
		TraceState: traceState,
		Remote:     dto.IsRemote,
	}), nil
}
