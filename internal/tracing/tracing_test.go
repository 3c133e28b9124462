package tracing

import (
	"context"
	"io"
	"testing"

	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func quietLogger() *log.Entry {
	logger := log.New()
	logger.SetOutput(io.Discard)
	return log.NewEntry(logger)
}

func TestSetup_DisabledWithoutEndpoint(t *testing.T) {
	shutdown, err := Setup(context.Background(), Config{ServiceName: "cartstore"}, quietLogger())
	require.NoError(t, err)
	require.NotNil(t, shutdown)
	assert.NoError(t, shutdown(context.Background()))
}

func TestSampler(t *testing.T) {
	tests := []struct {
		ratio   float64
		sampled bool
	}{
		{ratio: 1, sampled: true},
		{ratio: 2, sampled: true},
		{ratio: 0, sampled: false},
		{ratio: -1, sampled: false},
	}

	for _, tt := range tests {
		recorder := tracetest.NewSpanRecorder()
		tp := sdktrace.NewTracerProvider(sdktrace.WithSampler(Sampler(tt.ratio)), sdktrace.WithSpanProcessor(recorder))

		_, span := tp.Tracer("test").Start(context.Background(), "op")
		span.End()

		assert.Equal(t, tt.sampled, len(recorder.Ended()) == 1, "ratio %v", tt.ratio)
		require.NoError(t, tp.Shutdown(context.Background()))
	}
}
