package logadmin

import (
	"regexp"
	"strings"
)

// Entry is one parsed log line. Raw always holds the original line; the
// other fields are best-effort extractions and stay empty on a parse miss.
type Entry struct {
	Level     string `json:"level"`
	Timestamp string `json:"timestamp"`
	Module    string `json:"module"`
	Message   string `json:"message"`
	Raw       string `json:"raw"`
}

// LevelUnknown is assigned when no level token is found on a line.
const LevelUnknown = "UNKNOWN"

// Levels lists the recognized level tokens in severity order.
var Levels = []string{"DEBUG", "INFO", "WARNING", "ERROR", "CRITICAL"}

// Expected line shape: [LEVEL] YYYY-MM-DD HH:MM:SS[,mmm] MODULE PID TID MESSAGE
var (
	levelRe     = regexp.MustCompile(`\[(DEBUG|INFO|WARNING|ERROR|CRITICAL)\]`)
	timestampRe = regexp.MustCompile(`\d{4}-\d{2}-\d{2} \d{2}:\d{2}:\d{2}(?:,\d{3})?`)
	moduleRe    = regexp.MustCompile(`\] \d{4}-\d{2}-\d{2} \d{2}:\d{2}:\d{2}(?:,\d{3})? (\w+)`)
	messageRe   = regexp.MustCompile(`\d+ \d+ (.+)$`)
)

// ParseLine extracts structured fields from a single log line. Parsing
// never fails: any field it cannot locate is left empty and the level
// defaults to UNKNOWN.
func ParseLine(line string) Entry {
	entry := Entry{Level: LevelUnknown, Raw: line}

	if m := levelRe.FindStringSubmatch(line); m != nil {
		entry.Level = m[1]
	}
	if m := timestampRe.FindString(line); m != "" {
		entry.Timestamp = m
	}
	if m := moduleRe.FindStringSubmatch(line); m != nil {
		entry.Module = m[1]
	}

	// Message extraction is layered: prefer everything after the trailing
	// "PID TID" integer pair, then the fourth whitespace chunk after the
	// closing bracket, then the whole remainder after the bracket.
	if m := messageRe.FindStringSubmatch(line); m != nil {
		entry.Message = m[1]
		return entry
	}
	if _, remaining, found := strings.Cut(line, "] "); found {
		parts := splitWhitespaceN(remaining, 4)
		if len(parts) > 2 {
			entry.Message = parts[len(parts)-1]
		} else {
			entry.Message = remaining
		}
	}
	return entry
}

// splitWhitespaceN splits on runs of whitespace into at most n chunks, the
// last chunk keeping the untouched remainder.
func splitWhitespaceN(s string, n int) []string {
	var parts []string
	rest := strings.TrimLeft(s, " \t")
	for len(rest) > 0 && len(parts) < n-1 {
		i := strings.IndexAny(rest, " \t")
		if i < 0 {
			break
		}
		parts = append(parts, rest[:i])
		rest = strings.TrimLeft(rest[i:], " \t")
	}
	if len(rest) > 0 {
		parts = append(parts, rest)
	}
	return parts
}
