package logadmin

import "testing"

func TestParseLineFullGrammar(t *testing.T) {
	line := "[ERROR] 2026-01-09 20:00:00,123 module 111 222 Disk failure"
	entry := ParseLine(line)

	if entry.Level != "ERROR" {
		t.Fatalf("level: got %q", entry.Level)
	}
	if entry.Timestamp != "2026-01-09 20:00:00,123" {
		t.Fatalf("timestamp: got %q", entry.Timestamp)
	}
	if entry.Module != "module" {
		t.Fatalf("module: got %q", entry.Module)
	}
	if entry.Message != "Disk failure" {
		t.Fatalf("message: got %q", entry.Message)
	}
	if entry.Raw != line {
		t.Fatalf("raw must be preserved verbatim")
	}
}

func TestParseLineWithoutMilliseconds(t *testing.T) {
	entry := ParseLine("[INFO] 2026-01-09 20:00:00 accounts 1 2 user logged in")
	if entry.Timestamp != "2026-01-09 20:00:00" {
		t.Fatalf("timestamp: got %q", entry.Timestamp)
	}
	if entry.Message != "user logged in" {
		t.Fatalf("message: got %q", entry.Message)
	}
}

func TestParseLineWithoutProcessPair(t *testing.T) {
	// No PID/TID pair: the fourth whitespace chunk after the bracket wins.
	entry := ParseLine("[WARNING] 2026-01-09 20:00:00 blog slow query detected")
	if entry.Level != "WARNING" {
		t.Fatalf("level: got %q", entry.Level)
	}
	if entry.Module != "blog" {
		t.Fatalf("module: got %q", entry.Module)
	}
	if entry.Message != "slow query detected" {
		t.Fatalf("message: got %q", entry.Message)
	}
}

func TestParseLineShortRemainder(t *testing.T) {
	// At most two chunks after the bracket: whole remainder is the message.
	entry := ParseLine("[CRITICAL] shutting down")
	if entry.Level != "CRITICAL" {
		t.Fatalf("level: got %q", entry.Level)
	}
	if entry.Message != "shutting down" {
		t.Fatalf("message: got %q", entry.Message)
	}
	if entry.Timestamp != "" || entry.Module != "" {
		t.Fatalf("missing fields must stay empty")
	}
}

func TestParseLineUnstructured(t *testing.T) {
	line := "a completely free-form line"
	entry := ParseLine(line)
	if entry.Level != LevelUnknown {
		t.Fatalf("level must default to UNKNOWN, got %q", entry.Level)
	}
	if entry.Raw != line {
		t.Fatalf("raw must be preserved verbatim")
	}
	if entry.Message != "" {
		t.Fatalf("no bracket means no message, got %q", entry.Message)
	}
}

func TestParseLinePreservesRawForAllInputs(t *testing.T) {
	lines := []string{
		"[DEBUG] 2026-02-01 00:00:01 db 9 9 select 1",
		"[ERROR]",
		"] stray bracket",
		"   [INFO] padded",
	}
	for _, line := range lines {
		if got := ParseLine(line).Raw; got != line {
			t.Fatalf("raw changed: %q -> %q", line, got)
		}
	}
}
