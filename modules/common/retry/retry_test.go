package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"glowup-server/modules/common/apperr"
)

func TestDo_SucceedsFirstAttempt(t *testing.T) {
	calls := 0
	result, err := Do(context.Background(), func() (string, error) {
		calls++
		return "ok", nil
	}, 3, time.Millisecond)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result != "ok" {
		t.Errorf("expected ok, got %s", result)
	}
	if calls != 1 {
		t.Errorf("expected 1 call, got %d", calls)
	}
}

func TestDo_RetriesOverloadedThenSucceeds(t *testing.T) {
	calls := 0
	result, err := Do(context.Background(), func() (int, error) {
		calls++
		if calls < 3 {
			return 0, apperr.New(apperr.Unavailable, "model overloaded")
		}
		return 42, nil
	}, 5, time.Millisecond)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result != 42 {
		t.Errorf("expected 42, got %d", result)
	}
	if calls != 3 {
		t.Errorf("expected 3 calls, got %d", calls)
	}
}

func TestDo_NonRetryableFailsImmediately(t *testing.T) {
	calls := 0
	_, err := Do(context.Background(), func() (string, error) {
		calls++
		return "", apperr.New(apperr.InvalidArgument, "bad input")
	}, 5, time.Millisecond)
	if err == nil {
		t.Fatal("expected error")
	}
	if calls != 1 {
		t.Errorf("expected 1 call, got %d", calls)
	}
	if apperr.CodeOf(err) != apperr.InvalidArgument {
		t.Errorf("expected invalid-argument, got %s", apperr.CodeOf(err))
	}
}

func TestDo_ExhaustsAttemptsAndReturnsLastError(t *testing.T) {
	calls := 0
	_, err := Do(context.Background(), func() (string, error) {
		calls++
		return "", apperr.New(apperr.ResourceExhausted, "quota exceeded")
	}, 3, time.Millisecond)
	if err == nil {
		t.Fatal("expected error")
	}
	if calls != 3 {
		t.Errorf("expected 3 calls, got %d", calls)
	}
	if apperr.CodeOf(err) != apperr.ResourceExhausted {
		t.Errorf("expected resource-exhausted, got %s", apperr.CodeOf(err))
	}
}

func TestDo_ContextCancelStopsRetries(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Do(ctx, func() (string, error) {
		return "", apperr.New(apperr.Unavailable, "overloaded")
	}, 5, 10*time.Millisecond)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestRetryable(t *testing.T) {
	if Retryable(nil) {
		t.Error("nil should not be retryable")
	}
	if Retryable(errors.New("some error")) {
		t.Error("unclassified error should not be retryable")
	}
	if !Retryable(apperr.New(apperr.Unavailable, "overloaded")) {
		t.Error("unavailable should be retryable")
	}
	if !Retryable(apperr.New(apperr.ResourceExhausted, "quota")) {
		t.Error("resource-exhausted should be retryable")
	}
	if Retryable(apperr.New(apperr.GenerationEmpty, "empty")) {
		t.Error("generation-empty should not be retryable")
	}
}
