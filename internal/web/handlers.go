package web

import (
	"bytes"
	"errors"
	"net/http"
	"strconv"

	"github.com/JonMunkholm/analyzer/internal/core"
	"github.com/JonMunkholm/analyzer/internal/logging"
	"github.com/JonMunkholm/analyzer/internal/web/templates"
)

// AppTitle is shown in the page header and browser tab.
const AppTitle = "Smart Data Analyzer"

// UploadResponse is returned by a successful upload.
type UploadResponse struct {
	SessionID string        `json:"sessionId"`
	Preview   *core.Preview `json:"preview"`
}

// handleIndex renders the main page.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	params := templates.PageParams{
		Title:       AppTitle,
		ChartTypes:  s.service.ChartTypes(),
		Extensions:  core.SupportedExtensions,
		MaxUploadMB: s.cfg.Upload.MaxFileSize >> 20,
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := templates.Page(params).Render(r.Context(), w); err != nil {
		logging.FromContext(r.Context()).Error("render page", "error", err)
	}
}

// handleHealth reports liveness plus session and ingest usage.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":   "ok",
		"sessions": s.service.SessionCount(),
		"uploads":  s.service.Limiter().Status(),
		"charts":   core.ChartCount(),
	})
}

// handleUpload parses the multipart "file" field into a session table.
// An optional "sessionId" field replaces that session's table instead of
// creating a new session.
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	maxSize := s.cfg.Upload.MaxFileSize
	r.Body = http.MaxBytesReader(w, r.Body, maxSize)

	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var maxBytes *http.MaxBytesError
		if errors.As(err, &maxBytes) || r.ContentLength > maxSize {
			s.respondError(w, r, uploadLimitError(maxSize), http.StatusRequestEntityTooLarge)
			return
		}
		s.respondError(w, r, errNoFile, http.StatusBadRequest)
		return
	}
	defer func() {
		if r.MultipartForm != nil {
			_ = r.MultipartForm.RemoveAll()
		}
	}()

	file, header, err := r.FormFile("file")
	if err != nil {
		s.respondError(w, r, errNoFile, http.StatusBadRequest)
		return
	}
	defer file.Close()

	ctx := r.Context()
	sessionID := r.FormValue("sessionId")
	if sessionID != "" {
		ctx = logging.WithSession(ctx, sessionID)
	}

	sess, err := s.service.Upload(ctx, sessionID, header.Filename, file)
	if err != nil {
		s.respondError(w, r, err, http.StatusBadRequest)
		return
	}

	preview, err := s.service.Preview(sess.ID)
	if err != nil {
		s.respondError(w, r, err, http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, UploadResponse{SessionID: sess.ID, Preview: preview})
}

// handleUploadStatus returns the current state of the ingest limiter.
// Used for monitoring and to check if the system can accept more uploads.
func (s *Server) handleUploadStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.service.Limiter().Status())
}

// handlePreview returns the preview as JSON, or as an HTML fragment with
// ?format=html.
func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	ctx, id := sessionRequest(r)
	r = r.WithContext(ctx)

	preview, err := s.service.Preview(id)
	if err != nil {
		s.respondError(w, r, err, http.StatusInternalServerError)
		return
	}

	if r.URL.Query().Get("format") == "html" || isHTMX(r) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if err := templates.PreviewTable(preview).Render(ctx, w); err != nil {
			logging.FromContext(ctx).Error("render preview", "error", err)
		}
		return
	}
	writeJSON(w, http.StatusOK, preview)
}

// handleColumns returns column metadata and classification.
func (s *Server) handleColumns(w http.ResponseWriter, r *http.Request) {
	ctx, id := sessionRequest(r)
	r = r.WithContext(ctx)

	cols, err := s.service.Columns(id)
	if err != nil {
		s.respondError(w, r, err, http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, cols)
}

// handleOptions returns the inputs to offer for ?type= given the current ?x=.
func (s *Server) handleOptions(w http.ResponseWriter, r *http.Request) {
	ctx, id := sessionRequest(r)
	r = r.WithContext(ctx)

	q := r.URL.Query()
	opts, err := s.service.Options(id, q.Get("type"), q.Get("x"))
	if err != nil {
		s.respondError(w, r, err, http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusOK, opts)
}

// handleChart builds a figure. POST takes a JSON ChartConfig; GET reads
// the same fields from the query string.
func (s *Server) handleChart(w http.ResponseWriter, r *http.Request) {
	ctx, id := sessionRequest(r)
	r = r.WithContext(ctx)

	cfg := chartConfigFromQuery(r)
	if r.Method == http.MethodPost {
		var err error
		if cfg, err = decodeChartConfig(w, r); err != nil {
			s.respondError(w, r, err, http.StatusBadRequest)
			return
		}
	}

	fig, err := s.service.Chart(ctx, id, cfg)
	if err != nil {
		s.respondError(w, r, err, http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, fig)
}

// handleReport streams the descriptive statistics as a CSV attachment.
func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	ctx, id := sessionRequest(r)
	r = r.WithContext(ctx)

	report, err := s.service.Report(ctx, id)
	if err != nil {
		s.respondError(w, r, err, http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	if err := report.WriteCSV(&buf); err != nil {
		s.respondError(w, r, err, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+core.ReportFileName+`"`)
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	_, _ = w.Write(buf.Bytes())
}

// handleDeleteSession discards a session and its table.
func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	ctx, id := sessionRequest(r)
	r = r.WithContext(ctx)

	if err := s.service.Delete(ctx, id); err != nil {
		s.respondError(w, r, err, http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleChartTypes lists the registered chart types in selector order.
func (s *Server) handleChartTypes(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.service.ChartTypes())
}

// handleColorScales lists continuous color scale names.
func (s *Server) handleColorScales(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"names":   core.ColorScaleNames(),
		"default": s.cfg.Chart.DefaultColorScale,
	})
}
