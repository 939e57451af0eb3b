package types

import (
	"encoding/json"
	"testing"
)

func TestNullableUnmarshal(t *testing.T) {
	type payload struct {
		Value Nullable[string] `json:"value"`
	}

	var got payload
	if err := json.Unmarshal([]byte(`{"value": "x"}`), &got); err != nil {
		t.Fatalf("unmarshal value: %v", err)
	}
	if !got.Value.Present() || *got.Value.Value != "x" {
		t.Fatalf("expected present value, got %+v", got.Value)
	}

	got = payload{}
	if err := json.Unmarshal([]byte(`{"value": null}`), &got); err != nil {
		t.Fatalf("unmarshal null: %v", err)
	}
	if !got.Value.IsNull() {
		t.Fatalf("expected explicit null, got %+v", got.Value)
	}

	got = payload{}
	if err := json.Unmarshal([]byte(`{}`), &got); err != nil {
		t.Fatalf("unmarshal missing: %v", err)
	}
	if got.Value.Set {
		t.Fatalf("expected unset for missing field, got %+v", got.Value)
	}
}

func TestNullableRejectsWrongType(t *testing.T) {
	var n Nullable[string]
	if err := json.Unmarshal([]byte(`42`), &n); err == nil {
		t.Fatal("expected type error")
	}
}

func TestNullableConstructors(t *testing.T) {
	if s := Some(3); !s.Present() || *s.Value != 3 {
		t.Fatalf("unexpected Some: %+v", s)
	}
	if n := Null[int](); !n.IsNull() {
		t.Fatalf("unexpected Null: %+v", n)
	}
}
