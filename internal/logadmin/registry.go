// Package logadmin implements the operator-facing log inspection and
// maintenance service: a closed registry of log channels, a tailing reader
// that parses and filters rotating log files, and a maintainer that backs
// up and truncates them.
package logadmin

import (
	"errors"
	"os"
	"path/filepath"
	"sort"
	"time"
)

// ErrChannelNotFound is returned for channel names outside the closed set.
var ErrChannelNotFound = errors.New("logadmin: channel not found")

// ErrFileUnavailable wraps I/O failures on a channel's backing file.
var ErrFileUnavailable = errors.New("logadmin: log file unavailable")

// Channel is a named log stream with its backing file resolved.
type Channel struct {
	Name string
	Path string
}

// Registry maps channel names to backing files under a single directory.
// The mapping is fixed at construction; files themselves are owned by the
// external logging subsystem and may not exist yet.
type Registry struct {
	dir      string
	channels map[string]string
}

// NewRegistry builds the registry over the given log directory.
func NewRegistry(dir string) *Registry {
	return &Registry{
		dir: dir,
		channels: map[string]string{
			"general":  "general.log",
			"error":    "error.log",
			"security": "security.log",
			"database": "database.log",
		},
	}
}

// Resolve looks a channel up by name. Unknown names fail with
// ErrChannelNotFound; there is no fallback channel.
func (r *Registry) Resolve(name string) (Channel, error) {
	filename, ok := r.channels[name]
	if !ok {
		return Channel{}, ErrChannelNotFound
	}
	return Channel{Name: name, Path: filepath.Join(r.dir, filename)}, nil
}

// Names returns the channel names in stable order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.channels))
	for name := range r.channels {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Dir returns the directory holding the backing files.
func (r *Registry) Dir() string {
	return r.dir
}

// FileInfo describes a channel's backing file for the dashboard listing.
type FileInfo struct {
	Channel  string    `json:"channel"`
	Name     string    `json:"name"`
	Size     int64     `json:"size"`
	Modified time.Time `json:"modified"`
}

// Files stats every existing backing file. Channels whose file has not
// been created yet are skipped.
func (r *Registry) Files() []FileInfo {
	var files []FileInfo
	for _, name := range r.Names() {
		channel, _ := r.Resolve(name)
		info, err := os.Stat(channel.Path)
		if err != nil {
			continue
		}
		files = append(files, FileInfo{
			Channel:  name,
			Name:     r.channels[name],
			Size:     info.Size(),
			Modified: info.ModTime(),
		})
	}
	return files
}
