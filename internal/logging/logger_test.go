package logging

import (
	"context"
	"testing"

	"medley/internal/services"
)

func TestNewRejectsUnknownFormat(t *testing.T) {
	if _, err := New(Options{Format: "yaml"}); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}

func TestNewDefaultsToConsole(t *testing.T) {
	logger, err := New(Options{})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if logger == nil {
		t.Fatal("expected logger")
	}
}

func TestParseLevel(t *testing.T) {
	cases := map[string]string{
		"debug":   "DEBUG",
		"info":    "INFO",
		"":        "INFO",
		"warn":    "WARN",
		"error":   "ERROR",
		"unknown": "INFO",
	}
	for input, want := range cases {
		if got := parseLevel(input).String(); got != want {
			t.Errorf("parseLevel(%q) = %s, want %s", input, got, want)
		}
	}
}

func TestContextFields(t *testing.T) {
	ctx := services.WithItemID(context.Background(), "item-42")
	ctx = services.WithComponent(ctx, "refresh")
	ctx = services.WithRequestID(ctx, "req-1")

	fields := ContextFields(ctx)
	if len(fields) != 3 {
		t.Fatalf("expected 3 fields, got %d", len(fields))
	}

	logger := WithContext(ctx, NewNop())
	if logger == nil {
		t.Fatal("expected logger from WithContext")
	}
}

func TestWithContextNilLogger(t *testing.T) {
	if logger := WithContext(context.Background(), nil); logger == nil {
		t.Fatal("expected fallback logger")
	}
}
