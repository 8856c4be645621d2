package propagator

import (
	"context"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

const (
	TraceparentHeader = "traceparent"
	TracestateHeader  = "tracestate"

	// Kubernetes env vars are conventionally UPPERCASE, so the pod-spec
	// view of the carrier renames the two canonical keys.
	TraceparentEnvVar = "TRACEPARENT"
	TracestateEnvVar  = "TRACESTATE"
)

var traceContext = propagation.TraceContext{}

// Inject captures the span context active in ctx as a W3C Trace Context
// carrier. If ctx carries no valid span context the returned map has no
// keys; a missing "traceparent" key means "no context available", not an
// error.
func Inject(ctx context.Context) map[string]string {
	carrier := map[string]string{}
	traceContext.Inject(ctx, propagation.MapCarrier(carrier))
	return carrier
}

// InjectEnv returns the same carrier as Inject under uppercase key names,
// suitable for injection into a Kubernetes Pod spec so a remote training
// job continues the same trace.
func InjectEnv(ctx context.Context) map[string]string {
	carrier := Inject(ctx)

	envVars := map[string]string{}
	if traceparent, found := carrier[TraceparentHeader]; found {
		envVars[TraceparentEnvVar] = traceparent
	}
	if tracestate, found := carrier[TracestateHeader]; found {
		envVars[TracestateEnvVar] = tracestate
	}

	return envVars
}

// Extract returns a copy of ctx carrying the remote span context encoded
// in carrier. A malformed or absent traceparent leaves ctx unchanged.
func Extract(ctx context.Context, carrier map[string]string) context.Context {
	warnOnMalformedTracestate(carrier)
	return traceContext.Extract(ctx, propagation.MapCarrier(carrier))
}

// SpanContextFromCarrier decodes a carrier back into a span context. The
// second return value reports whether the carrier held a well-formed
// traceparent; all-zero trace or span ids are rejected per the W3C spec.
// A malformed tracestate is dropped while the traceparent still decodes.
func SpanContextFromCarrier(carrier map[string]string) (trace.SpanContext, bool) {
	ctx := Extract(context.Background(), carrier)

	sc := trace.SpanContextFromContext(ctx)
	if !sc.IsValid() {
		return trace.SpanContext{}, false
	}

	return sc, true
}

func warnOnMalformedTracestate(carrier map[string]string) {
	tracestate, found := carrier[TracestateHeader]
	if !found {
		return
	}

	if _, err := trace.ParseTraceState(tracestate); err != nil {
		log.Warnf("dropping malformed tracestate %q: %v", tracestate, err)
	}
}
