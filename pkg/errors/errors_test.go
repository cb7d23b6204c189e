package errors

import (
	stdErrors "errors"
	"fmt"
	"net/http"
	"testing"
)

func TestMetadataFor(t *testing.T) {
	meta := MetadataFor(CodeInsufficientStock)
	if meta.HTTPStatus != http.StatusUnprocessableEntity {
		t.Fatalf("unexpected status %d", meta.HTTPStatus)
	}
	if !meta.DetailsAllowed {
		t.Fatal("insufficient stock details should be surfaced")
	}

	fallback := MetadataFor(Code("UNKNOWN"))
	if fallback.HTTPStatus != http.StatusInternalServerError {
		t.Fatalf("expected internal fallback, got %d", fallback.HTTPStatus)
	}
}

func TestInsufficientStock(t *testing.T) {
	err := InsufficientStock(2, 3)
	if err.Code() != CodeInsufficientStock {
		t.Fatalf("unexpected code %s", err.Code())
	}
	if err.Message() != "only 2 available (requested 3)" {
		t.Fatalf("unexpected message %q", err.Message())
	}
	details, ok := err.Details().(map[string]int)
	if !ok || details["available"] != 2 || details["requested"] != 3 {
		t.Fatalf("unexpected details %v", err.Details())
	}
}

func TestWrapAndAs(t *testing.T) {
	cause := fmt.Errorf("connection refused")
	wrapped := Wrap(CodeDependency, cause, "load edition")

	if !stdErrors.Is(wrapped, cause) {
		t.Fatal("wrapped error should unwrap to cause")
	}

	outer := fmt.Errorf("placing order: %w", wrapped)
	typed := As(outer)
	if typed == nil {
		t.Fatal("expected typed error through wrapping")
	}
	if typed.Code() != CodeDependency {
		t.Fatalf("unexpected code %s", typed.Code())
	}
}

func TestDumpChain(t *testing.T) {
	err := Wrap(CodeInternal, fmt.Errorf("root"), "outer")
	dump := Dump(err)
	if dump.Code != CodeInternal {
		t.Fatalf("unexpected dump code %s", dump.Code)
	}
	if len(dump.Chain) < 2 {
		t.Fatalf("expected chain to include cause, got %v", dump.Chain)
	}
}
