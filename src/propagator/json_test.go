package propagator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSpanContextJSONCodec(t *testing.T) {
	t.Run("round trip", func(t *testing.T) {
		sc := buildSpanContext(t, testTraceID, testSpanID, true, "vendor1=a")

		data, err := SerializeSpanContext(sc)
		require.NoError(t, err)

		decoded, err := DeserializeSpanContext(data)
		require.NoError(t, err)

		assert.Equal(t, sc.TraceID(), decoded.TraceID())
		assert.Equal(t, sc.SpanID(), decoded.SpanID())
		assert.Equal(t, sc.TraceFlags(), decoded.TraceFlags())
		assert.Equal(t, "a", decoded.TraceState().Get("vendor1"))
	})

	t.Run("invalid trace id hex is rejected", func(t *testing.T) {
		_, err := DeserializeSpanContext([]byte(`{"trace_id":"zzzz","span_id":"00f067aa0ba902b7"}`))
		assert.Error(t, err)
	})

	t.Run("invalid span id hex is rejected", func(t *testing.T) {
		_, err := DeserializeSpanContext([]byte(`{"trace_id":"4bf92f3577b34da6a3ce929d0e0e4736","span_id":"nope"}`))
		assert.Error(t, err)
	})

	t.Run("malformed json is rejected", func(t *testing.T) {
		_, err := DeserializeSpanContext([]byte(`{`))
		assert.Error(t, err)
	})

	t.Run("remote flag survives", func(t *testing.T) {
		sc := buildSpanContext(t, testTraceID, testSpanID, true, "")

		data, err := SerializeSpanContext(sc.WithRemote(true))
		require.NoError(t, err)

		decoded, err := DeserializeSpanContext(data)
		require.NoError(t, err)

		assert.True(t, decoded.IsRemote())
	})
}
