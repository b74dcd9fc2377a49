package stimerr

import (
	"errors"
	"io"
	"strings"
	"testing"
)

func TestConfigErrorListsEveryField(t *testing.T) {
	var e ConfigError
	if e.Err() != nil {
		t.Fatal("empty ConfigError should not be an error")
	}
	e.Add("sample_rate", 0, "must be positive")
	e.Add("frequency", -1.0, "must be positive")

	err := e.Err()
	if err == nil {
		t.Fatal("ConfigError with fields should be an error")
	}
	msg := err.Error()
	for _, want := range []string{"sample_rate=0", "frequency=-1"} {
		if !strings.Contains(msg, want) {
			t.Errorf("Error() = %q, missing %q", msg, want)
		}
	}
	if !e.Has("frequency") || e.Has("duration") {
		t.Errorf("Has() mismatch for %v", e.Fields)
	}
}

func TestEncodingErrorUnwraps(t *testing.T) {
	err := error(&EncodingError{Op: "write", Frame: 4096, Err: io.ErrShortWrite})
	if !errors.Is(err, io.ErrShortWrite) {
		t.Error("EncodingError should unwrap to its cause")
	}
	var ee *EncodingError
	if !errors.As(err, &ee) || ee.Frame != 4096 {
		t.Errorf("errors.As failed or wrong frame: %v", ee)
	}
}

func TestInvariantErrorMessage(t *testing.T) {
	err := &InvariantError{What: "frame count", Want: 10, Got: 9}
	if !strings.Contains(err.Error(), "want 10, got 9") {
		t.Errorf("unexpected message %q", err.Error())
	}
}
