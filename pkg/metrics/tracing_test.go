package metrics

import (
	"context"
	"errors"
	"testing"
)

func TestNoOpTracer(t *testing.T) {
	tracer := NoOpTracer{}
	ctx, end := tracer.StartSpan(context.Background(), SpanScenario)
	if ctx == nil {
		t.Fatal("context should not be nil")
	}
	end(nil) // must not panic
}

func TestSimpleTracerRecordsSpans(t *testing.T) {
	tracer := NewSimpleTracer()

	ctx, endScenario := tracer.StartSpan(context.Background(), SpanScenario,
		WithAttributes(map[string]interface{}{"scenario": "iot_small/zlib/Kyber512"}))
	_, endStage := tracer.StartSpan(ctx, SpanCompress)
	endStage(nil)
	endScenario(errors.New("boom"))

	spans := tracer.Spans()
	if len(spans) != 2 {
		t.Fatalf("got %d spans, want 2", len(spans))
	}

	// Spans are recorded in completion order.
	if spans[0].Name != SpanCompress {
		t.Errorf("first completed span: got %q, want %q", spans[0].Name, SpanCompress)
	}
	if spans[0].ParentName != SpanScenario {
		t.Errorf("stage span parent: got %q, want %q", spans[0].ParentName, SpanScenario)
	}
	if spans[1].Error == nil {
		t.Error("scenario span should record the error")
	}
	if spans[1].Attributes["scenario"] != "iot_small/zlib/Kyber512" {
		t.Errorf("attributes not recorded: %v", spans[1].Attributes)
	}
}

func TestSimpleTracerReset(t *testing.T) {
	tracer := NewSimpleTracer()
	_, end := tracer.StartSpan(context.Background(), SpanVerify)
	end(nil)
	tracer.Reset()
	if len(tracer.Spans()) != 0 {
		t.Error("reset should clear recorded spans")
	}
}
