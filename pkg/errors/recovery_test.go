package errors

import (
	"errors"
	"testing"
)

// TestRecover_WithPanic tests the Recover function when a panic occurs
func TestRecover_WithPanic(t *testing.T) {
	testFunc := func() (err error) {
		defer Recover(&err, "PMMImputer.Fit")
		panic("singular design matrix")
	}

	err := testFunc()

	if err == nil {
		t.Fatal("Expected error from recovered panic, got nil")
	}

	var panicErr *PanicError
	if !errors.As(err, &panicErr) {
		t.Fatalf("Expected PanicError, got %T", err)
	}

	if panicErr.Operation != "PMMImputer.Fit" {
		t.Errorf("Expected operation 'PMMImputer.Fit', got '%s'", panicErr.Operation)
	}

	if panicErr.PanicValue != "singular design matrix" {
		t.Errorf("Expected panic value 'singular design matrix', got '%v'", panicErr.PanicValue)
	}

	if panicErr.StackTrace == "" {
		t.Error("Expected non-empty stack trace")
	}

	expectedMsg := "panic in PMMImputer.Fit: singular design matrix"
	if panicErr.Error() != expectedMsg {
		t.Errorf("Expected error message '%s', got '%s'", expectedMsg, panicErr.Error())
	}
}

// TestRecover_WithoutPanic tests the Recover function when no panic occurs
func TestRecover_WithoutPanic(t *testing.T) {
	testFunc := func() (err error) {
		defer Recover(&err, "PMMImputer.Fit")
		return nil
	}

	if err := testFunc(); err != nil {
		t.Fatalf("Expected no error when no panic occurs, got: %v", err)
	}
}

// TestRecoverWithHandler tests panic routing for goroutines with no error return
func TestRecoverWithHandler(t *testing.T) {
	var captured error

	func() {
		defer RecoverWithHandler("RandomForestClassifier.Fit", func(err error) {
			captured = err
		})
		panic("split on empty node")
	}()

	if captured == nil {
		t.Fatal("Expected handler to receive the recovered panic")
	}

	var panicErr *PanicError
	if !errors.As(captured, &panicErr) {
		t.Fatalf("Expected PanicError, got %T", captured)
	}
	if panicErr.Operation != "RandomForestClassifier.Fit" {
		t.Errorf("Expected operation 'RandomForestClassifier.Fit', got '%s'", panicErr.Operation)
	}
}

// TestRecoverWithHandler_NilHandler verifies a nil handler swallows the panic
func TestRecoverWithHandler_NilHandler(t *testing.T) {
	func() {
		defer RecoverWithHandler("RandomForestClassifier.Fit", nil)
		panic("ignored")
	}()
	// Reaching here means the panic was recovered.
}

// TestRecoverWithHandler_WithoutPanic verifies the handler is not called on a
// normal return
func TestRecoverWithHandler_WithoutPanic(t *testing.T) {
	called := false
	func() {
		defer RecoverWithHandler("RandomForestClassifier.Fit", func(error) {
			called = true
		})
	}()
	if called {
		t.Error("Handler should not run when no panic occurs")
	}
}
