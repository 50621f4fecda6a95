package validation

import (
	"strings"
	"testing"

	"github.com/kbukum/streamkit/errors"
)

func TestValidatorRequired(t *testing.T) {
	v := New()
	v.Required("name", "engine")
	if v.HasErrors() {
		t.Error("expected no errors for valid input")
	}

	v2 := New()
	v2.Required("name", "")
	if !v2.HasErrors() {
		t.Error("expected error for empty required field")
	}

	v3 := New()
	v3.Required("name", "   ")
	if !v3.HasErrors() {
		t.Error("expected error for whitespace-only required field")
	}
}

func TestValidatorRange(t *testing.T) {
	v := New()
	v.Range("parallelism", 8, 0, 4096)
	if v.HasErrors() {
		t.Error("expected no error for value in range")
	}

	v2 := New()
	v2.Range("parallelism", -1, 0, 4096)
	if !v2.HasErrors() {
		t.Error("expected error for value below range")
	}

	v3 := New()
	v3.Range("split_factor", 65, 0, 64)
	if !v3.HasErrors() {
		t.Error("expected error for value above range")
	}
}

func TestValidatorMinMax(t *testing.T) {
	v := New()
	v.Min("min_leaf_size", 5, 1)
	v.Max("min_leaf_size", 5, 10)
	if v.HasErrors() {
		t.Error("expected no errors")
	}

	v2 := New()
	v2.Min("min_leaf_size", 0, 1)
	if !v2.HasErrors() {
		t.Error("expected error for value below min")
	}

	v3 := New()
	v3.Max("split_factor", 100, 64)
	if !v3.HasErrors() {
		t.Error("expected error for value above max")
	}
}

func TestValidatorOneOf(t *testing.T) {
	levels := []string{"debug", "info", "warn", "error"}

	v := New()
	v.OneOf("level", "info", levels)
	if v.HasErrors() {
		t.Error("expected no error for valid oneOf value")
	}

	v2 := New()
	v2.OneOf("level", "verbose", levels)
	if !v2.HasErrors() {
		t.Error("expected error for invalid oneOf value")
	}

	// Empty should be skipped
	v3 := New()
	v3.OneOf("level", "", levels)
	if v3.HasErrors() {
		t.Error("expected no error for empty oneOf value")
	}
}

func TestValidatorCustom(t *testing.T) {
	v := New()
	v.Custom(true, "field", "should pass")
	if v.HasErrors() {
		t.Error("expected no error for true condition")
	}

	v2 := New()
	v2.Custom(false, "field", "custom error")
	if !v2.HasErrors() {
		t.Error("expected error for false condition")
	}
	if v2.Errors()[0].Message != "custom error" {
		t.Errorf("expected 'custom error', got %q", v2.Errors()[0].Message)
	}
}

func TestValidatorChaining(t *testing.T) {
	v := New()
	result := v.Required("name", "engine").Range("parallelism", 4, 0, 4096).Min("split_factor", 4, 1)
	if result != v {
		t.Error("expected chaining to return same validator")
	}
	if v.HasErrors() {
		t.Error("expected no errors for valid chained validation")
	}
}

func TestValidatorErr(t *testing.T) {
	v := New()
	v.Required("name", "engine")
	if err := v.Err(); err != nil {
		t.Errorf("expected nil for valid input, got %v", err)
	}

	v2 := New()
	v2.AddError("parallelism", "must be at least 0")
	v2.AddError("split_factor", "must be 64 or less")
	err := v2.Err()
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.HasCode(err, errors.ErrCodeInvalidConfig) {
		t.Errorf("expected INVALID_CONFIG, got %v", err)
	}
	pe, _ := errors.AsPipelineError(err)
	if pe.Details["fields"] == nil {
		t.Fatal("expected field details in error")
	}
	if !strings.Contains(pe.Message, "parallelism") || !strings.Contains(pe.Message, "split_factor") {
		t.Errorf("expected both fields in message, got %q", pe.Message)
	}
}

func TestStructValidateValid(t *testing.T) {
	type Engine struct {
		Parallelism int `mapstructure:"parallelism" validate:"gte=0,lte=4096"`
		SplitFactor int `mapstructure:"split_factor" validate:"gte=0,lte=64"`
	}

	err := Validate(Engine{Parallelism: 4, SplitFactor: 4})
	if err != nil {
		t.Errorf("expected no error, got %v", err)
	}
}

func TestStructValidateInvalid(t *testing.T) {
	type Engine struct {
		Parallelism int `mapstructure:"parallelism" validate:"gte=0,lte=4096"`
		SplitFactor int `mapstructure:"split_factor" validate:"gte=0,lte=64"`
	}

	err := Validate(Engine{Parallelism: -1, SplitFactor: 999})
	if err == nil {
		t.Fatal("expected validation error")
	}
	pe, ok := errors.AsPipelineError(err)
	if !ok || pe.Code != errors.ErrCodeInvalidConfig {
		t.Fatalf("expected INVALID_CONFIG, got %v", err)
	}
	fields, ok := pe.Details["fields"].([]FieldError)
	if !ok || len(fields) != 2 {
		t.Fatalf("expected 2 field errors, got %v", pe.Details["fields"])
	}
	if !strings.Contains(pe.Message, "parallelism") || !strings.Contains(pe.Message, "split_factor") {
		t.Errorf("expected mapstructure names in message, got %q", pe.Message)
	}
}

func TestStructValidateOneOf(t *testing.T) {
	type Logging struct {
		Level string `mapstructure:"level" validate:"omitempty,oneof=debug info warn error"`
	}

	if err := Validate(Logging{Level: "warn"}); err != nil {
		t.Errorf("expected valid, got %v", err)
	}

	err := Validate(Logging{Level: "verbose"})
	if err == nil {
		t.Fatal("expected error for unknown level")
	}
	if !strings.Contains(err.Error(), "must be one of") {
		t.Errorf("expected oneof message, got %q", err.Error())
	}
}
