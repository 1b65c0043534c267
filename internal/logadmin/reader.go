package logadmin

import (
	"context"
	"log/slog"
	"os"
	"strings"
	"time"

	"golang.org/x/text/cases"

	"github.com/plumecms/plume/internal/shared"
)

const (
	// tailWindow bounds how much history a single read inspects. Older
	// lines are reachable only through download.
	tailWindow = 500
	// pageSize is fixed; the viewer always paginates at 50 entries.
	pageSize = 50

	timestampLayout = "2006-01-02 15:04:05"
)

// Query describes one read of a channel. Filters are conjunctive; Page is
// 1-based.
type Query struct {
	Channel string
	Search  string
	Level   string
	Page    int
}

// Stats counts filtered entries per level. The counters sum to Total.
type Stats struct {
	Total    int `json:"total"`
	Debug    int `json:"debug"`
	Info     int `json:"info"`
	Warning  int `json:"warning"`
	Error    int `json:"error"`
	Critical int `json:"critical"`
	Unknown  int `json:"unknown"`
}

// Result is one page of entries plus statistics over the whole filtered
// set.
type Result struct {
	Channel    string
	Entries    []Entry
	Stats      Stats
	Pagination shared.Pagination
}

// Reader tails, parses, filters and paginates log channels.
type Reader struct {
	registry *Registry
	logger   *slog.Logger
	now      func() time.Time
}

// NewReader constructs a Reader over the given registry.
func NewReader(registry *Registry, logger *slog.Logger) *Reader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Reader{registry: registry, logger: logger, now: time.Now}
}

// Read executes a query. Only an unknown channel is a hard failure; a
// missing or unreadable backing file degrades to a single synthetic entry
// so the viewer stays available. Entries come back most-recent-first.
func (r *Reader) Read(ctx context.Context, query Query) (Result, error) {
	channel, err := r.registry.Resolve(query.Channel)
	if err != nil {
		return Result{}, err
	}

	entries := r.filteredEntries(channel, query)

	stats := Stats{Total: len(entries)}
	for _, entry := range entries {
		switch entry.Level {
		case "DEBUG":
			stats.Debug++
		case "INFO":
			stats.Info++
		case "WARNING":
			stats.Warning++
		case "ERROR":
			stats.Error++
		case "CRITICAL":
			stats.Critical++
		default:
			stats.Unknown++
		}
	}

	page := query.Page
	if page <= 0 {
		page = 1
	}
	pagination := shared.NewPagination(page, pageSize, len(entries))
	start := (page - 1) * pageSize
	end := start + pageSize
	switch {
	case start >= len(entries):
		entries = nil
	case end > len(entries):
		entries = entries[start:]
	default:
		entries = entries[start:end]
	}

	return Result{
		Channel:    channel.Name,
		Entries:    entries,
		Stats:      stats,
		Pagination: pagination,
	}, nil
}

func (r *Reader) filteredEntries(channel Channel, query Query) []Entry {
	data, err := os.ReadFile(channel.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return []Entry{{
				Level:     "INFO",
				Timestamp: r.now().Format(timestampLayout),
				Message:   "log file not created yet; it will appear after the first logged event",
			}}
		}
		r.logger.Error("read log file",
			slog.String("channel", channel.Name), slog.Any("error", err))
		return []Entry{{
			Level:     "ERROR",
			Timestamp: r.now().Format(timestampLayout),
			Message:   "failed to read log file: " + err.Error(),
			Raw:       err.Error(),
		}}
	}

	// A trailing newline would otherwise yield an empty final element that
	// eats one window slot.
	var lines []string
	if trimmed := strings.TrimRight(string(data), "\n"); trimmed != "" {
		lines = strings.Split(trimmed, "\n")
	}
	if len(lines) > tailWindow {
		lines = lines[len(lines)-tailWindow:]
	}

	fold := cases.Fold()
	search := fold.String(strings.TrimSpace(query.Search))
	levelToken := ""
	if query.Level != "" {
		levelToken = "[" + query.Level + "]"
	}

	// Most recent lines first; filters run on the raw line, matching what
	// download would show.
	var entries []Entry
	for i := len(lines) - 1; i >= 0; i-- {
		line := strings.TrimSpace(lines[i])
		if line == "" {
			continue
		}
		if search != "" && !strings.Contains(fold.String(line), search) {
			continue
		}
		if levelToken != "" && !strings.Contains(line, levelToken) {
			continue
		}
		entries = append(entries, ParseLine(line))
	}
	return entries
}
