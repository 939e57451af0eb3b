package env

import "testing"

func TestGet(t *testing.T) {
	t.Setenv("SITECMS_TEST_VALUE", "  console ")
	if got := Get("SITECMS_TEST_VALUE", "json"); got != "console" {
		t.Fatalf("expected trimmed value, got %q", got)
	}

	t.Setenv("SITECMS_TEST_VALUE", "   ")
	if got := Get("SITECMS_TEST_VALUE", "json"); got != "json" {
		t.Fatalf("expected fallback for blank value, got %q", got)
	}
}

func TestFirst(t *testing.T) {
	t.Setenv("SITECMS_TEST_A", "")
	t.Setenv("SITECMS_TEST_B", "8080")
	if got := First("8000", "SITECMS_TEST_A", "SITECMS_TEST_B"); got != "8080" {
		t.Fatalf("expected 8080, got %q", got)
	}
	if got := First("8000", "SITECMS_TEST_A"); got != "8000" {
		t.Fatalf("expected fallback, got %q", got)
	}
}
