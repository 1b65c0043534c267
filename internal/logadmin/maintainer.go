package logadmin

import (
	"context"
	"fmt"
	"log/slog"
	"os"
)

// ClearResult reports the outcome of clearing a channel.
type ClearResult struct {
	Cleared    bool
	BackupPath string
	Message    string
}

// Maintainer performs the destructive log operations: verbatim download
// and backup-then-truncate clearing.
type Maintainer struct {
	registry *Registry
	logger   *slog.Logger
}

// NewMaintainer constructs a Maintainer over the given registry.
func NewMaintainer(registry *Registry, logger *slog.Logger) *Maintainer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Maintainer{registry: registry, logger: logger}
}

// Download returns the channel's full backing file verbatim, along with the
// file name for the attachment disposition. No parsing is applied.
func (m *Maintainer) Download(ctx context.Context, channelName string) ([]byte, string, error) {
	channel, err := m.registry.Resolve(channelName)
	if err != nil {
		return nil, "", err
	}
	data, err := os.ReadFile(channel.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, "", fmt.Errorf("%w: %s does not exist", ErrFileUnavailable, channel.Name)
		}
		return nil, "", fmt.Errorf("%w: %v", ErrFileUnavailable, err)
	}
	return data, m.registry.channels[channelName], nil
}

// Clear backs the channel's file up to a single sibling <file>.backup slot
// and truncates the original. The read/backup/truncate sequence is not
// atomic: lines appended by the log writer between the read and the
// truncate are lost and not backed up. The backup slot is overwritten on
// every clear; a second clear before the first backup is inspected
// destroys it. Both limitations are deliberate and operator-facing.
func (m *Maintainer) Clear(ctx context.Context, channelName string, actor string) (ClearResult, error) {
	channel, err := m.registry.Resolve(channelName)
	if err != nil {
		return ClearResult{}, err
	}

	data, err := os.ReadFile(channel.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return ClearResult{Message: "log file does not exist"}, nil
		}
		return ClearResult{}, fmt.Errorf("%w: %v", ErrFileUnavailable, err)
	}

	backupPath := channel.Path + ".backup"
	if err := os.WriteFile(backupPath, data, 0o644); err != nil {
		return ClearResult{}, fmt.Errorf("%w: write backup: %v", ErrFileUnavailable, err)
	}
	if err := os.WriteFile(channel.Path, nil, 0o644); err != nil {
		return ClearResult{}, fmt.Errorf("%w: truncate: %v", ErrFileUnavailable, err)
	}

	m.logger.Info("log channel cleared",
		slog.String("channel", channel.Name),
		slog.String("backup", backupPath),
		slog.String("actor", actor))

	return ClearResult{
		Cleared:    true,
		BackupPath: backupPath,
		Message:    fmt.Sprintf("log %s cleared; previous content saved to a single backup slot", channel.Name),
	}, nil
}
