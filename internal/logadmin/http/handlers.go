// Package logadminhttp exposes the log inspection and maintenance
// endpoints of the admin panel.
package logadminhttp

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/plumecms/plume/internal/authz"
	"github.com/plumecms/plume/internal/logadmin"
	"github.com/plumecms/plume/internal/platform/httpx"
	"github.com/plumecms/plume/internal/shared"
)

const defaultChannel = "general"

// LogReader reads a filtered, paginated window of a channel.
type LogReader interface {
	Read(ctx context.Context, query logadmin.Query) (logadmin.Result, error)
}

// LogMaintainer downloads and clears channel backing files.
type LogMaintainer interface {
	Download(ctx context.Context, channel string) ([]byte, string, error)
	Clear(ctx context.Context, channel string, actor string) (logadmin.ClearResult, error)
}

// Handler serves the operator log endpoints.
type Handler struct {
	logger     *slog.Logger
	reader     LogReader
	maintainer LogMaintainer
	channels   []string
	validator  *validator.Validate
}

// NewHandler constructs a Handler.
func NewHandler(logger *slog.Logger, reader LogReader, maintainer LogMaintainer, channels []string) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		logger:     logger,
		reader:     reader,
		maintainer: maintainer,
		channels:   channels,
		validator:  validator.New(),
	}
}

type listQuery struct {
	Channel string `validate:"required"`
	Search  string
	Level   string `validate:"omitempty,oneof=DEBUG INFO WARNING ERROR CRITICAL"`
	Page    int    `validate:"min=1"`
}

type listResponse struct {
	Channel    string            `json:"channel"`
	Channels   []string          `json:"channels"`
	Entries    []logadmin.Entry  `json:"entries"`
	Stats      logadmin.Stats    `json:"stats"`
	Pagination shared.Pagination `json:"pagination"`
}

type clearResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Backup  string `json:"backup,omitempty"`
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	query, err := h.parseListQuery(r)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}

	result, err := h.reader.Read(r.Context(), logadmin.Query{
		Channel: query.Channel,
		Search:  query.Search,
		Level:   query.Level,
		Page:    query.Page,
	})
	if err != nil {
		if errors.Is(err, logadmin.ErrChannelNotFound) {
			httpx.Problem(w, http.StatusNotFound, "Not Found", "unknown log channel: "+query.Channel)
			return
		}
		h.serverError(w, "read log channel", err)
		return
	}

	entries := result.Entries
	if entries == nil {
		entries = []logadmin.Entry{}
	}
	httpx.JSON(w, http.StatusOK, listResponse{
		Channel:    result.Channel,
		Channels:   h.channels,
		Entries:    entries,
		Stats:      result.Stats,
		Pagination: result.Pagination,
	})
}

func (h *Handler) handleDownload(w http.ResponseWriter, r *http.Request) {
	channel := chi.URLParam(r, "channel")
	data, filename, err := h.maintainer.Download(r.Context(), channel)
	if err != nil {
		switch {
		case errors.Is(err, logadmin.ErrChannelNotFound):
			httpx.Problem(w, http.StatusNotFound, "Not Found", "unknown log channel: "+channel)
		case errors.Is(err, logadmin.ErrFileUnavailable):
			httpx.Problem(w, http.StatusNotFound, "Not Found", "log file does not exist")
		default:
			h.serverError(w, "download log", err)
		}
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	if _, err := w.Write(data); err != nil {
		h.logger.Warn("write log download", slog.Any("error", err))
	}
}

// handleClear is mounted POST-only: a read-shaped request never reaches it
// and gets 405 from the router instead.
func (h *Handler) handleClear(w http.ResponseWriter, r *http.Request) {
	channel := chi.URLParam(r, "channel")
	actor := ""
	if principal := authz.PrincipalFromContext(r.Context()); principal != nil {
		actor = principal.Email
	}

	result, err := h.maintainer.Clear(r.Context(), channel, actor)
	if err != nil {
		switch {
		case errors.Is(err, logadmin.ErrChannelNotFound):
			httpx.Problem(w, http.StatusNotFound, "Not Found", "unknown log channel: "+channel)
		case errors.Is(err, logadmin.ErrFileUnavailable):
			h.serverError(w, "clear log", err)
		default:
			h.serverError(w, "clear log", err)
		}
		return
	}

	httpx.JSON(w, http.StatusOK, clearResponse{
		Success: result.Cleared,
		Message: result.Message,
		Backup:  result.BackupPath,
	})
}

func (h *Handler) parseListQuery(r *http.Request) (listQuery, error) {
	q := r.URL.Query()
	query := listQuery{
		Channel: strings.TrimSpace(q.Get("type")),
		Search:  q.Get("q"),
		Level:   strings.TrimSpace(q.Get("level")),
		Page:    1,
	}
	if query.Channel == "" {
		query.Channel = defaultChannel
	}
	if raw := strings.TrimSpace(q.Get("page")); raw != "" {
		page, err := strconv.Atoi(raw)
		if err != nil {
			return listQuery{}, fmt.Errorf("page must be an integer")
		}
		query.Page = page
	}
	if err := h.validator.Struct(query); err != nil {
		return listQuery{}, err
	}
	return query, nil
}

func (h *Handler) serverError(w http.ResponseWriter, message string, err error) {
	h.logger.Error(message, slog.Any("error", err))
	httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
}
