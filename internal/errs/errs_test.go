package errs

import (
	"errors"
	"log/slog"
	"testing"
)

func TestKindSurvivesWrapping(t *testing.T) {
	root := errors.New("cycle already closed")
	err := Wrap(InvalidState(root, "verification cycle #3 is closed"), "close cycle")

	if got := KindOf(err); got != KindInvalidState {
		t.Fatalf("KindOf() = %q, want %q", got, KindInvalidState)
	}
	if !errors.Is(err, root) {
		t.Fatalf("errors.Is(err, root) = false")
	}
	if err.Error() != "close cycle: verification cycle #3 is closed" {
		t.Fatalf("Error() = %q", err.Error())
	}
}

func TestKindOfPlainError(t *testing.T) {
	if got := KindOf(errors.New("boom")); got != KindUnknown {
		t.Fatalf("KindOf() = %q, want unknown", got)
	}
	if IsKind(nil, KindValidation) {
		t.Fatalf("IsKind(nil) = true")
	}
}

func TestLoggableIncludesKind(t *testing.T) {
	value := Loggable(Wrap(Validation("title is required"), "start cycle")).LogValue()
	if value.Kind() != slog.KindGroup {
		t.Fatalf("LogValue kind = %v", value.Kind())
	}

	found := false
	for _, attr := range value.Group() {
		if attr.Key == "kind" && attr.Value.String() == string(KindValidation) {
			found = true
		}
	}
	if !found {
		t.Fatalf("LogValue() missing kind attr: %v", value.Group())
	}
}

func TestWithStackDoesNotDoubleCapture(t *testing.T) {
	first := WithStack(errors.New("root"))
	second := WithStack(Wrap(first, "outer"))

	var se *StackError
	if !errors.As(second, &se) {
		t.Fatalf("expected StackError in chain")
	}
	if second.Error() != "outer: root" {
		t.Fatalf("Error() = %q", second.Error())
	}
}
