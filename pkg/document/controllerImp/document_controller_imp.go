package controllerImp

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"docqa/entities"
	"docqa/pkg/document/service"
)

// FolderChecker confirms that an upload target folder exists.
type FolderChecker interface {
	Exists(ctx context.Context, id uint) (bool, error)
}

type DocumentCtrl struct {
	s       service.DocumentService
	folders FolderChecker
	fetch   *Fetcher
}

func New(s service.DocumentService, folders FolderChecker, fetch *Fetcher) *DocumentCtrl {
	return &DocumentCtrl{s: s, folders: folders, fetch: fetch}
}

func (h *DocumentCtrl) Upload(c echo.Context) error {
	form, err := c.MultipartForm()
	if err != nil || len(form.File["files"]) == 0 {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "No files provided"})
	}
	opts, status, msg := h.folderOption(c)
	if status != 0 {
		return c.JSON(status, map[string]string{"error": msg})
	}

	uploads := make([]service.Upload, 0, len(form.File["files"]))
	for _, fh := range form.File["files"] {
		f, err := fh.Open()
		if err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "cannot read upload: " + fh.Filename})
		}
		data, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "cannot read upload: " + fh.Filename})
		}
		uploads = append(uploads, service.Upload{Filename: fh.Filename, Data: data})
	}

	res, err := h.s.Ingest(c.Request().Context(), uploads, opts)
	return ingestResponse(c, res, err)
}

func (h *DocumentCtrl) folderOption(c echo.Context) (service.IngestOptions, int, string) {
	raw := strings.TrimSpace(c.FormValue("folder_id"))
	if raw == "" {
		return service.IngestOptions{}, 0, ""
	}
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return service.IngestOptions{}, http.StatusBadRequest, "invalid folder_id"
	}
	return h.checkFolder(c.Request().Context(), uint(id))
}

func (h *DocumentCtrl) checkFolder(ctx context.Context, id uint) (service.IngestOptions, int, string) {
	if h.folders != nil {
		ok, err := h.folders.Exists(ctx, id)
		if err != nil {
			return service.IngestOptions{}, http.StatusInternalServerError, err.Error()
		}
		if !ok {
			return service.IngestOptions{}, http.StatusNotFound, "folder not found"
		}
	}
	return service.IngestOptions{FolderID: &id}, 0, ""
}

func ingestResponse(c echo.Context, res *service.IngestResult, err error) error {
	switch {
	case errors.Is(err, service.ErrNoValidFiles):
		return c.JSON(http.StatusBadRequest, map[string]any{"error": "No valid files uploaded", "results": res.Results})
	case err != nil:
		slog.Error("[upload] ingest failed", "err", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, map[string]any{
		"message":   "Files uploaded successfully",
		"files":     res.Files,
		"summaries": res.Summaries,
		"results":   res.Results,
	})
}

func (h *DocumentCtrl) Ask(c echo.Context) error {
	var body struct {
		Question string `json:"question"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid json: " + err.Error()})
	}
	ans, err := h.s.Ask(c.Request().Context(), body.Question)
	switch {
	case errors.Is(err, service.ErrQuestionRequired):
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Question is required"})
	case errors.Is(err, service.ErrEmbeddingFailed):
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to generate embeddings for the question"})
	case errors.Is(err, service.ErrNoRelevantDocuments):
		return c.JSON(http.StatusNotFound, map[string]string{"error": "No relevant documents found"})
	case err != nil:
		slog.Error("[ask] failed", "err", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, ans)
}

type documentView struct {
	FileName     string                    `json:"file_name"`
	DateUploaded string                    `json:"date_uploaded"`
	Summary      string                    `json:"summary"`
	Metadata     entities.DocumentMetadata `json:"metadata"`
	FolderID     *uint                     `json:"folder_id,omitempty"`
}

// List returns stored records without their extracted text.
func (h *DocumentCtrl) List(c echo.Context) error {
	recs, err := h.s.List(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, Views(recs))
}

func Views(recs []entities.DocumentRecord) []documentView {
	out := make([]documentView, 0, len(recs))
	for _, r := range recs {
		out = append(out, documentView{
			FileName:     r.FileName,
			DateUploaded: r.DateUploaded,
			Summary:      r.Summary,
			Metadata:     r.Metadata,
			FolderID:     r.FolderID,
		})
	}
	return out
}
