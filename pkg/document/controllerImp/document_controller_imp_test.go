package controllerImp

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docqa/entities"
	"docqa/pkg/document/service"
)

type fakeService struct {
	uploads []service.Upload
	opts    service.IngestOptions
	ingest  func([]service.Upload) (*service.IngestResult, error)
	ask     func(string) (*service.Answer, error)
	records []entities.DocumentRecord
}

func (f *fakeService) Ingest(_ context.Context, ups []service.Upload, opts service.IngestOptions) (*service.IngestResult, error) {
	f.uploads, f.opts = ups, opts
	if f.ingest != nil {
		return f.ingest(ups)
	}
	res := &service.IngestResult{}
	for _, u := range ups {
		res.Files = append(res.Files, u.Filename)
		res.Summaries = append(res.Summaries, service.FileSummary{Filename: u.Filename, Summary: "s"})
		res.Results = append(res.Results, service.FileResult{Filename: u.Filename, Status: service.StatusIndexed})
	}
	return res, nil
}

func (f *fakeService) Ask(_ context.Context, q string) (*service.Answer, error) { return f.ask(q) }

func (f *fakeService) List(context.Context) ([]entities.DocumentRecord, error) { return f.records, nil }

func (f *fakeService) ListByFolder(context.Context, uint) ([]entities.DocumentRecord, error) {
	return f.records, nil
}

type folders map[uint]bool

func (f folders) Exists(_ context.Context, id uint) (bool, error) { return f[id], nil }

func multipartBody(t *testing.T, fields map[string]string, files map[string]string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for name, content := range files {
		fw, err := w.CreateFormFile("files", name)
		require.NoError(t, err)
		_, err = fw.Write([]byte(content))
		require.NoError(t, err)
	}
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	require.NoError(t, w.Close())
	return &buf, w.FormDataContentType()
}

func serve(h echo.HandlerFunc, req *http.Request) *httptest.ResponseRecorder {
	e := echo.New()
	rec := httptest.NewRecorder()
	_ = h(e.NewContext(req, rec))
	return rec
}

func TestUpload_OK(t *testing.T) {
	svc := &fakeService{}
	h := New(svc, folders{2: true}, nil)

	body, ct := multipartBody(t, map[string]string{"folder_id": "2"}, map[string]string{"manual.pdf": "%PDF"})
	req := httptest.NewRequest(http.MethodPost, "/upload", body)
	req.Header.Set(echo.HeaderContentType, ct)
	rec := serve(h.Upload, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	assert.Equal(t, "Files uploaded successfully", out["message"])
	assert.Equal(t, []any{"manual.pdf"}, out["files"])
	require.Len(t, svc.uploads, 1)
	assert.Equal(t, []byte("%PDF"), svc.uploads[0].Data)
	require.NotNil(t, svc.opts.FolderID)
	assert.Equal(t, uint(2), *svc.opts.FolderID)
}

func TestUpload_NoFiles(t *testing.T) {
	h := New(&fakeService{}, nil, nil)
	body, ct := multipartBody(t, map[string]string{"x": "y"}, nil)
	req := httptest.NewRequest(http.MethodPost, "/upload", body)
	req.Header.Set(echo.HeaderContentType, ct)
	rec := serve(h.Upload, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "No files provided")
}

func TestUpload_UnknownFolder(t *testing.T) {
	h := New(&fakeService{}, folders{}, nil)
	body, ct := multipartBody(t, map[string]string{"folder_id": "9"}, map[string]string{"a.txt": "x"})
	req := httptest.NewRequest(http.MethodPost, "/upload", body)
	req.Header.Set(echo.HeaderContentType, ct)
	assert.Equal(t, http.StatusNotFound, serve(h.Upload, req).Code)
}

func TestUpload_NoValidFiles(t *testing.T) {
	svc := &fakeService{ingest: func(ups []service.Upload) (*service.IngestResult, error) {
		return &service.IngestResult{Results: []service.FileResult{
			{Filename: ups[0].Filename, Status: service.StatusRejected, Reason: service.ReasonUnsupportedType},
		}}, service.ErrNoValidFiles
	}}
	h := New(svc, nil, nil)
	body, ct := multipartBody(t, nil, map[string]string{"a.docx": "x"})
	req := httptest.NewRequest(http.MethodPost, "/upload", body)
	req.Header.Set(echo.HeaderContentType, ct)
	rec := serve(h.Upload, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "No valid files uploaded")
	assert.Contains(t, rec.Body.String(), `"reason":"unsupported_file_type"`)
}

func askReq(body string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/ask", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	return req
}

func TestAsk_StatusMapping(t *testing.T) {
	cases := []struct {
		err  error
		code int
	}{
		{service.ErrQuestionRequired, http.StatusBadRequest},
		{service.ErrNoRelevantDocuments, http.StatusNotFound},
		{service.ErrEmbeddingFailed, http.StatusInternalServerError},
	}
	for _, tc := range cases {
		h := New(&fakeService{ask: func(string) (*service.Answer, error) { return nil, tc.err }}, nil, nil)
		rec := serve(h.Ask, askReq(`{"question":"q"}`))
		assert.Equal(t, tc.code, rec.Code, tc.err.Error())
		assert.Contains(t, rec.Body.String(), `"error"`)
	}
}

func TestAsk_OK(t *testing.T) {
	var got string
	h := New(&fakeService{ask: func(q string) (*service.Answer, error) {
		got = q
		return &service.Answer{Answer: "Every 500 hours.", References: []service.Reference{{Filename: "manual.pdf", Score: 0.91}}}, nil
	}}, nil, nil)
	rec := serve(h.Ask, askReq(`{"question":"When?"}`))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "When?", got)
	assert.JSONEq(t, `{"answer":"Every 500 hours.","references":[{"filename":"manual.pdf","score":0.91}]}`, rec.Body.String())
}

func TestList_OmitsText(t *testing.T) {
	h := New(&fakeService{records: []entities.DocumentRecord{{FileName: "a.pdf", ExtractedText: "secret body", Summary: "sum"}}}, nil, nil)
	rec := serve(h.List, httptest.NewRequest(http.MethodGet, "/documents", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"file_name":"a.pdf"`)
	assert.NotContains(t, rec.Body.String(), "secret body")
}

func TestIngestURL(t *testing.T) {
	page := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte("<html><title>Pump Guide</title><main><p>Replace filter.</p></main></html>"))
	}))
	defer page.Close()

	svc := &fakeService{}
	h := New(svc, nil, NewFetcher([]string{"127.0.0.1"}, 0, time.Second))

	rec := serve(h.IngestURL, askReq(`{"url":"`+page.URL+`/guide","title":"Pump Guide"}`))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	require.Len(t, svc.uploads, 1)
	assert.Equal(t, "Pump_Guide.html", svc.uploads[0].Filename)
	assert.Contains(t, string(svc.uploads[0].Data), "Replace filter.")

	blocked := New(svc, nil, NewFetcher([]string{"example.com"}, 0, time.Second))
	rec = serve(blocked.IngestURL, askReq(`{"url":"`+page.URL+`"}`))
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = serve(h.IngestURL, askReq(`{"url":"ftp://127.0.0.1/x"}`))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPageName(t *testing.T) {
	assert.Equal(t, "Pump_Guide.html", pageName("Pump Guide", "https://x.com/a", "html"))
	assert.Equal(t, "docs.example.com_guide_pump.txt", pageName("", "https://docs.example.com/guide/pump", "txt"))
	assert.Equal(t, "notes.txt", pageName("notes.txt", "https://x.com", "txt"))
}
