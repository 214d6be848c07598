package telemetry_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.trai.ch/livepush/internal/adapters/telemetry"
	"go.trai.ch/livepush/internal/core/ports"
	"go.trai.ch/livepush/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

func TestBridge_OnStart(t *testing.T) {
	ctrl := gomock.NewController(t)
	renderer := mocks.NewMockRenderer(ctrl)
	bridge := telemetry.NewBridge(renderer)

	renderer.EXPECT().OnActivityStart(gomock.Any(), "publish", gomock.Any()).Times(1)

	tp := sdktrace.NewTracerProvider()
	ctx, span := tp.Tracer("test").Start(context.Background(), "publish")
	defer span.End()

	if rwSpan, ok := span.(sdktrace.ReadWriteSpan); ok {
		bridge.OnStart(ctx, rwSpan)
	}
}

func TestBridge_NilRenderer(_ *testing.T) {
	bridge := telemetry.NewBridge(nil)

	tp := sdktrace.NewTracerProvider()
	ctx, span := tp.Tracer("test").Start(context.Background(), "publish")
	span.End()

	if rwSpan, ok := span.(sdktrace.ReadWriteSpan); ok {
		bridge.OnStart(ctx, rwSpan)
		bridge.OnEnd(rwSpan)
	}
}

func TestBridge_OnEndWithError(t *testing.T) {
	ctrl := gomock.NewController(t)
	renderer := mocks.NewMockRenderer(ctrl)
	bridge := telemetry.NewBridge(renderer)

	renderer.EXPECT().OnActivityComplete(gomock.Any(), gomock.Any(), gomock.Any()).
		Do(func(_ string, _ time.Time, err error) {
			require.Error(t, err)
			assert.Equal(t, "resolve failed", err.Error())
		})

	tp := sdktrace.NewTracerProvider()
	_, span := tp.Tracer("test").Start(context.Background(), "resolve")
	span.SetStatus(codes.Error, "")
	span.End()

	if roSpan, ok := span.(sdktrace.ReadOnlySpan); ok {
		bridge.OnEnd(roSpan)
	}
}

func TestOTelTracer_ForwardsSpans(t *testing.T) {
	ctrl := gomock.NewController(t)
	renderer := mocks.NewMockRenderer(ctrl)

	var startID, endID string
	gomock.InOrder(
		renderer.EXPECT().OnActivityStart(gomock.Any(), "save", gomock.Any()).
			Do(func(id, _ string, _ time.Time) { startID = id }),
		renderer.EXPECT().OnActivityComplete(gomock.Any(), gomock.Any(), gomock.Any()).
			Do(func(id string, _ time.Time, err error) {
				endID = id
				require.Error(t, err)
				assert.Equal(t, "Failed to save code", err.Error())
			}),
	)

	tracer := telemetry.NewOTelTracer(renderer)
	defer func() { _ = tracer.Shutdown(context.Background()) }()

	_, span := tracer.Start(context.Background(), "save", ports.WithAttribute("files", 3))
	span.SetAttribute("channel", "abcdef")
	span.SetAttribute("draft", true)
	span.SetAttribute("size", int64(10))
	span.SetAttribute("ratio", 0.5)
	span.SetAttribute("modules", []string{"lodash"})
	span.SetAttribute("other", struct{}{})
	_, _ = span.Write([]byte("log line"))
	span.RecordError(errors.New("Failed to save code"))
	span.RecordError(nil)
	span.End()

	assert.NotEmpty(t, startID)
	assert.Equal(t, startID, endID)
}

func TestNoOpTracer(t *testing.T) {
	tracer := telemetry.NewNoOpTracer()
	ctx := context.Background()

	got, span := tracer.Start(ctx, "publish")
	assert.Equal(t, ctx, got)

	n, err := span.Write([]byte("abc"))
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	span.SetAttribute("k", "v")
	span.RecordError(errors.New("x"))
	span.End()
}
