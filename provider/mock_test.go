package provider

import (
	"context"
	"errors"
	"testing"
)

func TestMockProvider_Replacements(t *testing.T) {
	m := NewMockProvider()

	got, err := m.Translate(context.Background(), "Hello world", "it")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "Ciao mondo" {
		t.Errorf("expected 'Ciao mondo', got %q", got)
	}
}

func TestMockProvider_PreservesDelimiters(t *testing.T) {
	m := NewMockProvider()

	got, err := m.Translate(context.Background(), "Hello␞abc␞world ⟬MV0⟭", "it")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "Ciao␞abc␞mondo ⟬MV0⟭" {
		t.Errorf("delimiters and markers must pass through untouched, got %q", got)
	}
}

func TestMockProvider_Err(t *testing.T) {
	m := NewMockProvider()
	m.Err = errors.New("forced failure")

	if _, err := m.Translate(context.Background(), "Hello", "it"); !errors.Is(err, m.Err) {
		t.Errorf("expected the forced error, got: %v", err)
	}
}

func TestMockProvider_Recording(t *testing.T) {
	m := NewMockProvider()

	m.Translate(context.Background(), "first", "it")
	m.Translate(context.Background(), "second", "fr")

	if m.CallCount() != 2 {
		t.Errorf("expected 2 calls, got %d", m.CallCount())
	}
	if m.LastText() != "second" || m.LastLang() != "fr" {
		t.Errorf("unexpected last call: %q %q", m.LastText(), m.LastLang())
	}

	m.Reset()
	if m.CallCount() != 0 || m.LastText() != "" {
		t.Error("Reset should clear recorded calls")
	}
}

func TestMockProvider_Func(t *testing.T) {
	m := NewMockProvider()
	m.Func = func(_ context.Context, text, targetLang string) (string, error) {
		return "[" + targetLang + "]" + text, nil
	}

	got, err := m.Translate(context.Background(), "x", "de")
	if err != nil {
		t.Fatal(err)
	}
	if got != "[de]x" {
		t.Errorf("Func should take precedence over Replacements, got %q", got)
	}
}
