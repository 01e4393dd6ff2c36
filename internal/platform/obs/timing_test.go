package obs

import (
	"bytes"
	"context"
	"errors"
	"log"
	"strings"
	"testing"
)

func captureLog(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prev := log.Writer()
	log.SetOutput(&buf)
	t.Cleanup(func() { log.SetOutput(prev) })
	return &buf
}

func TestTimeLogsOperationAndRequestID(t *testing.T) {
	buf := captureLog(t)
	ctx := WithRequestID(context.Background(), "abc123")

	var err error
	Time(ctx, "unit.op")(&err)

	line := buf.String()
	if !strings.Contains(line, "req_id=abc123") || !strings.Contains(line, "op=unit.op") {
		t.Fatalf("unexpected log line %q", line)
	}
	if strings.Contains(line, "err=") {
		t.Fatalf("successful op logged an error: %q", line)
	}
}

func TestTimeLogsError(t *testing.T) {
	buf := captureLog(t)

	err := errors.New("boom")
	Time(context.Background(), "unit.fail")(&err)

	if !strings.Contains(buf.String(), "err=boom") {
		t.Fatalf("error not logged: %q", buf.String())
	}
}

func TestRequestIDMissing(t *testing.T) {
	if id := RequestID(context.Background()); id != "" {
		t.Fatalf("RequestID = %q, want empty", id)
	}
}
