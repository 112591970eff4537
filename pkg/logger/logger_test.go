package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"
)

func TestWithFieldsAttachesToContext(t *testing.T) {
	var buf bytes.Buffer
	logg := New(Options{ServiceName: "test", Output: &buf})

	ctx := logg.WithFields(context.Background(), map[string]any{
		"collection": "products",
		"object_id":  "p-1",
	})
	logg.Info(ctx, "record published")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("unmarshal log line: %v", err)
	}
	if entry["collection"] != "products" || entry["object_id"] != "p-1" {
		t.Fatalf("missing context fields: %v", entry)
	}
	if entry["service"] != "test" {
		t.Fatalf("missing service field: %v", entry)
	}
}

func TestParseLevelFallsBackToInfo(t *testing.T) {
	if got := ParseLevel("nonsense"); got.String() != "info" {
		t.Fatalf("unexpected level %s", got)
	}
	if got := ParseLevel("warn"); got.String() != "warn" {
		t.Fatalf("unexpected level %s", got)
	}
}
