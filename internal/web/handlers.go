package web

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/KaramelBytes/dataglance/internal/analysis"
	"github.com/KaramelBytes/dataglance/internal/dataset"
	"github.com/KaramelBytes/dataglance/internal/render"
)

const (
	csvFileName  = "processed_data.csv"
	xlsxFileName = "processed_data.xlsx"
	xlsxMIME     = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// APIResponse is the JSON envelope of the api routes.
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

type summaryPayload struct {
	File           string                  `json:"file"`
	Shape          [2]int                  `json:"shape"`
	Classification dataset.Classification  `json:"classification"`
	Availability   render.Availability     `json:"availability"`
	Summary        *analysis.SummaryReport `json:"summary"`
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	rc := fromContext(r.Context())
	p := s.buildPage(rc.data.Snapshot(), r.URL.Query())
	for _, f := range rc.cookie.Flashes() {
		if msg, ok := f.(string); ok {
			p.Success = append(p.Success, msg)
		}
	}
	if len(p.Success) > 0 {
		if err := rc.cookie.Save(r, w); err != nil {
			s.logger.Error("save session cookie", "error", err)
		}
	}
	s.renderPage(w, http.StatusOK, p)
}

func (s *Server) renderPage(w http.ResponseWriter, status int, p pageData) {
	var buf bytes.Buffer
	if err := s.page.ExecuteTemplate(&buf, "index.html", p); err != nil {
		s.logger.Error("template error", "error", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-cache")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	rc := fromContext(r.Context())
	if s.cfg.MaxUploadBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes)
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		rc.data.Reset()
		s.uploadFailed(w, r, fmt.Errorf("read upload: %w", err))
		return
	}
	defer file.Close()

	t, err := rc.data.Load(header.Filename, file)
	if err != nil {
		s.uploadFailed(w, r, err)
		return
	}
	rows, cols := t.Shape()
	s.logger.Info("dataset loaded", "session", rc.data.ID, "file", header.Filename, "rows", rows, "columns", cols)

	rc.cookie.AddFlash(noticeUploaded)
	if err := rc.cookie.Save(r, w); err != nil {
		s.logger.Error("save session cookie", "error", err)
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) uploadFailed(w http.ResponseWriter, r *http.Request, err error) {
	rc := fromContext(r.Context())
	s.logger.Warn("upload rejected", "session", rc.data.ID, "error", err)
	p := s.buildPage(rc.data.Snapshot(), nil)
	p.Failure = fmt.Sprintf("%s: %v", noticeUploadFailed, err)
	s.renderPage(w, http.StatusBadRequest, p)
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	fromContext(r.Context()).data.Reset()
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// table writes 404 and returns false when the session has no dataset.
func (s *Server) table(w http.ResponseWriter, r *http.Request) (*dataset.Table, bool) {
	t, ok := fromContext(r.Context()).data.Table()
	if !ok {
		http.Error(w, "no dataset loaded", http.StatusNotFound)
		return nil, false
	}
	return t, true
}

func (s *Server) handleScatter(w http.ResponseWriter, r *http.Request) {
	t, ok := s.table(w, r)
	if !ok {
		return
	}
	q := r.URL.Query()
	img, err := render.Scatter(t, q.Get("x"), q.Get("y"), s.cfg.Chart)
	s.writeImage(w, img, err)
}

func (s *Server) handleHeatmap(w http.ResponseWriter, r *http.Request) {
	t, ok := s.table(w, r)
	if !ok {
		return
	}
	img, err := render.CorrelationHeatmap(t, s.cfg.Chart)
	s.writeImage(w, img, err)
}

func (s *Server) handleBar(w http.ResponseWriter, r *http.Request) {
	t, ok := s.table(w, r)
	if !ok {
		return
	}
	img, err := render.CategoricalBarChart(t, r.URL.Query().Get("column"), s.cfg.Chart)
	s.writeImage(w, img, err)
}

func (s *Server) writeImage(w http.ResponseWriter, img *render.Image, err error) {
	if err != nil {
		status := statusFor(err)
		if status == http.StatusInternalServerError {
			s.logger.Error("render chart", "error", err)
		}
		http.Error(w, err.Error(), status)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-store")
	if _, err := img.WriteTo(w); err != nil {
		s.logger.Debug("write chart", "error", err)
	}
}

func statusFor(err error) int {
	var sel *dataset.SelectionError
	switch {
	case errors.As(err, &sel):
		return http.StatusBadRequest
	case errors.Is(err, render.ErrUnavailable):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) handleDownloadCSV(w http.ResponseWriter, r *http.Request) {
	t, ok := s.table(w, r)
	if !ok {
		return
	}
	var buf bytes.Buffer
	if err := dataset.WriteCSV(&buf, t); err != nil {
		s.logger.Error("export csv", "error", err)
		http.Error(w, "export failed", http.StatusInternalServerError)
		return
	}
	attachment(w, "text/csv; charset=utf-8", csvFileName)
	_, _ = buf.WriteTo(w)
}

func (s *Server) handleDownloadXLSX(w http.ResponseWriter, r *http.Request) {
	t, ok := s.table(w, r)
	if !ok {
		return
	}
	var buf bytes.Buffer
	if err := dataset.WriteXLSX(&buf, t); err != nil {
		s.logger.Error("export xlsx", "error", err)
		http.Error(w, "export failed", http.StatusInternalServerError)
		return
	}
	attachment(w, xlsxMIME, xlsxFileName)
	_, _ = buf.WriteTo(w)
}

func attachment(w http.ResponseWriter, contentType, name string) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
}

func (s *Server) handleAPISummary(w http.ResponseWriter, r *http.Request) {
	t, ok := fromContext(r.Context()).data.Table()
	if !ok {
		writeJSON(w, http.StatusNotFound, APIResponse{Success: false, Error: "no dataset loaded"})
		return
	}
	rows, cols := t.Shape()
	writeJSON(w, http.StatusOK, APIResponse{Success: true, Data: summaryPayload{
		File:           t.Name(),
		Shape:          [2]int{rows, cols},
		Classification: dataset.Classify(t),
		Availability:   render.Available(t),
		Summary:        analysis.Describe(t),
	}})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"timestamp": time.Now().Format(time.RFC3339),
		"version":   s.cfg.Version,
	})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
