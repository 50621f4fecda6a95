package errors

import (
	stderrors "errors"
	"strings"
	"testing"
)

func TestPipelineError_New(t *testing.T) {
	err := New(ErrCodeInvalidPipeline, "bad chain")
	if err.Code != ErrCodeInvalidPipeline {
		t.Errorf("expected code %s, got %s", ErrCodeInvalidPipeline, err.Code)
	}
	if err.Message != "bad chain" {
		t.Errorf("expected message 'bad chain', got %q", err.Message)
	}
}

func TestPipelineError_AlreadyConsumed(t *testing.T) {
	err := AlreadyConsumed()
	if err.Code != ErrCodeAlreadyConsumed {
		t.Errorf("expected ALREADY_CONSUMED, got %s", err.Code)
	}
	if !strings.Contains(err.Error(), "already been operated upon") {
		t.Errorf("unexpected message: %s", err.Error())
	}
}

func TestPipelineError_UnboundedWithoutShortCircuit(t *testing.T) {
	err := UnboundedWithoutShortCircuit("count")
	if err.Code != ErrCodeUnboundedSource {
		t.Errorf("expected UNBOUNDED_SOURCE, got %s", err.Code)
	}
	if err.Details["operation"] != "count" {
		t.Errorf("expected operation=count, got %v", err.Details["operation"])
	}
}

func TestPipelineError_ProducerFailure_Unwrap(t *testing.T) {
	cause := stderrors.New("read failed")
	err := ProducerFailure(cause)
	if !stderrors.Is(err, cause) {
		t.Error("expected errors.Is to match the cause")
	}
	if !strings.Contains(err.Error(), "read failed") {
		t.Errorf("expected cause in message, got %q", err.Error())
	}
}

func TestPipelineError_CollectorFailure_Details(t *testing.T) {
	cause := stderrors.New("overflow")
	err := CollectorFailure("accumulator", cause)
	if err.Code != ErrCodeCollectorFailure {
		t.Errorf("expected COLLECTOR_FAILURE, got %s", err.Code)
	}
	if err.Details["function"] != "accumulator" {
		t.Errorf("expected function=accumulator, got %v", err.Details["function"])
	}
	if !stderrors.Is(err, cause) {
		t.Error("expected errors.Is to match the cause")
	}
}

func TestPipelineError_WithDetail(t *testing.T) {
	err := InvalidPipeline("peek under parallel").WithDetail("stage", "peek")
	if err.Details["stage"] != "peek" {
		t.Errorf("expected stage=peek, got %v", err.Details["stage"])
	}
}

func TestPipelineError_CodeOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ErrorCode
	}{
		{"pipeline error", AlreadyConsumed(), ErrCodeAlreadyConsumed},
		{"wrapped pipeline error", ProducerFailure(stderrors.New("x")), ErrCodeProducerFailure},
		{"plain error", stderrors.New("plain"), ""},
		{"nil", nil, ""},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := CodeOf(tc.err); got != tc.want {
				t.Errorf("CodeOf() = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestPipelineError_HasCode(t *testing.T) {
	err := UnboundedWithoutShortCircuit("toSlice")
	if !HasCode(err, ErrCodeUnboundedSource) {
		t.Error("expected HasCode to match UNBOUNDED_SOURCE")
	}
	if HasCode(err, ErrCodeCancelled) {
		t.Error("HasCode matched the wrong code")
	}
}

func TestIsFatalCode(t *testing.T) {
	if !IsFatalCode(ErrCodeAlreadyConsumed) {
		t.Error("ALREADY_CONSUMED should be fatal")
	}
	if IsFatalCode(ErrCodeCancelled) {
		t.Error("CANCELLED should not be fatal")
	}
}

func TestAsPipelineError(t *testing.T) {
	var err error = Cancelled(stderrors.New("ctx done"))
	pe, ok := AsPipelineError(err)
	if !ok {
		t.Fatal("expected AsPipelineError to succeed")
	}
	if pe.Code != ErrCodeCancelled {
		t.Errorf("expected CANCELLED, got %s", pe.Code)
	}
	if _, ok := AsPipelineError(stderrors.New("plain")); ok {
		t.Error("plain error should not convert")
	}
}
