package logger

import (
	"bytes"
	"encoding/json"
	"testing"
)

func TestInit_ServiceField(t *testing.T) {
	t.Cleanup(Reset)
	var buf bytes.Buffer

	log := Init(Options{Level: "debug", Output: &buf, Service: "storefront-api"})
	log.Info().Msg("hello")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("decode log line %q: %v", buf.String(), err)
	}
	if entry["service"] != "storefront-api" {
		t.Errorf("service = %v", entry["service"])
	}
	if entry["message"] != "hello" {
		t.Errorf("message = %v", entry["message"])
	}
}

func TestInit_Disabled(t *testing.T) {
	t.Cleanup(Reset)
	var buf bytes.Buffer

	l := Init(Options{Output: &buf, Disabled: true})
	l.Error().Msg("dropped")
	g := Get()
	g.Error().Msg("dropped too")

	if buf.Len() != 0 {
		t.Errorf("expected no output, got %q", buf.String())
	}
}

func TestInit_OnlyFirstCallCounts(t *testing.T) {
	t.Cleanup(Reset)
	var first, second bytes.Buffer

	Init(Options{Output: &first})
	l := Init(Options{Output: &second})
	l.Info().Msg("x")

	if first.Len() == 0 || second.Len() != 0 {
		t.Errorf("first=%q second=%q", first.String(), second.String())
	}
}

func TestGet_PanicsBeforeInit(t *testing.T) {
	Reset()
	defer func() {
		if recover() == nil {
			t.Error("expected panic")
		}
	}()
	Get()
}
