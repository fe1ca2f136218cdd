package observes

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestStartSpan(t *testing.T) {
	rec := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(rec))
	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	t.Cleanup(func() { otel.SetTracerProvider(prev) })

	_, ok := StartSpan(context.Background(), LayerService, "ListProjects", attribute.String("list_mode", "by-name"))
	ok.End(nil)
	_, failed := StartSpan(context.Background(), LayerStore, "ByName")
	failed.End(errors.New("boom"))

	spans := rec.Ended()
	require.Len(t, spans, 2)
	assert.Equal(t, "Service.ListProjects", spans[0].Name())
	assert.Equal(t, codes.Ok, spans[0].Status().Code)
	assert.Contains(t, spans[0].Attributes(), attribute.String("list_mode", "by-name"))
	assert.Equal(t, "Store.ByName", spans[1].Name())
	assert.Equal(t, codes.Error, spans[1].Status().Code)
	assert.Len(t, spans[1].Events(), 1)
}

func TestNewTracerRejectsNil(t *testing.T) {
	_, err := NewTracer(context.Background(), nil)
	assert.Error(t, err)
}

func TestLayerString(t *testing.T) {
	assert.Equal(t, "Handler", LayerHandler.String())
	assert.Equal(t, "Unknown", LayerUnknown.String())
}
