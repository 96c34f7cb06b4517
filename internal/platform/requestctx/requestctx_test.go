package requestctx

import (
	"context"
	"testing"
)

func TestRequestIDRoundTrip(t *testing.T) {
	ctx := WithRequestID(context.Background(), "req-1")
	if got := RequestIDFromContext(ctx); got != "req-1" {
		t.Fatalf("RequestIDFromContext = %q", got)
	}
}

func TestUserIDFromContextRoundTrip(t *testing.T) {
	ctx := WithUserID(context.Background(), "user-42")
	if got := UserIDFromContext(ctx); got != "user-42" {
		t.Fatalf("UserIDFromContext = %q, want %q", got, "user-42")
	}
}

func TestNilContextIsSafe(t *testing.T) {
	if RequestIDFromContext(nil) != "" || UserIDFromContext(nil) != "" {
		t.Fatal("expected empty values for nil context")
	}
}

func TestFields(t *testing.T) {
	if got := Fields(context.Background()); len(got) != 0 {
		t.Fatalf("expected no fields, got %d", len(got))
	}
	ctx := WithUserID(WithRequestID(context.Background(), "req-1"), "user-1")
	if got := Fields(ctx); len(got) != 2 {
		t.Fatalf("expected 2 fields, got %d", len(got))
	}
}
