// Package apitest provides an in-memory stand-in for the PDF editor server.
// It implements the JSON contract the client depends on and nothing of the
// PDF processing behind it.
package apitest

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync"
)

const sessionCookie = "session"

// Server is a fake backend. Fields may be set before the first request.
type Server struct {
	*httptest.Server

	// PagesPerFile is how many page cards each uploaded file contributes.
	PagesPerFile int
	// FailDeletes makes delete_page report success=false for these ids.
	FailDeletes map[string]bool
	// Validation is returned by /api/validate.
	Validation map[string]any
	// Report is returned by /api/extract.
	Report string
	// UploadWarnings are returned as per-file errors on upload.
	UploadWarnings []string
	// CookieSession keeps the document in the session cookie instead of
	// server memory, like a signed-cookie session. Every change answers
	// with a new cookie and a request without it sees no pages.
	CookieSession bool

	mu       sync.Mutex
	pages    []string
	uploaded []string
	deleted  []string
}

// New starts a fake server. Callers must Close it.
func New() *Server {
	s := &Server{
		PagesPerFile: 1,
		FailDeletes:  map[string]bool{},
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/upload", s.handleUpload)
	mux.HandleFunc("/editor", s.handleEditor)
	mux.HandleFunc("/api/delete_page", s.handleDeletePage)
	mux.HandleFunc("/api/validate", s.handleValidate)
	mux.HandleFunc("/api/extract", s.handleExtract)
	mux.HandleFunc("/download", s.handleDownload)
	mux.HandleFunc("/reset", s.handleReset)
	s.Server = httptest.NewServer(mux)
	return s
}

// SetPages replaces the current document pages.
func (s *Server) SetPages(ids ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pages = append([]string(nil), ids...)
}

// Pages returns the document as last written by the server.
func (s *Server) Pages() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.pages...)
}

// Uploaded lists the filenames received by /upload in arrival order.
func (s *Server) Uploaded() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.uploaded...)
}

// Deleted lists delete_page requests in arrival order, failed ones included.
func (s *Server) Deleted() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.deleted...)
}

// current returns the document of the request's session.
func (s *Server) current(r *http.Request) []string {
	if !s.CookieSession {
		return s.Pages()
	}
	c, err := r.Cookie(sessionCookie)
	if err != nil {
		return nil
	}
	data, err := base64.RawURLEncoding.DecodeString(c.Value)
	if err != nil {
		return nil
	}
	var pages []string
	if err := json.Unmarshal(data, &pages); err != nil {
		return nil
	}
	return pages
}

// commit stores pages as the session's document. It sets a cookie, so it
// must run before the response body is written.
func (s *Server) commit(w http.ResponseWriter, pages []string) {
	s.SetPages(pages...)

	value := "fake-session"
	if s.CookieSession {
		data, err := json.Marshal(pages)
		if err != nil {
			slog.Error("Unable to encode session", "err", err)
			return
		}
		value = base64.RawURLEncoding.EncodeToString(data)
	}
	http.SetCookie(w, &http.Cookie{Name: sessionCookie, Value: value, Path: "/"})
}

func writeJSON(w http.ResponseWriter, code int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("Unable to encode JSON response", "err", err)
	}
}

func writeError(w http.ResponseWriter, message string, code int) {
	writeJSON(w, code, map[string]any{"error": message})
}

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		writeError(w, "No files provided", http.StatusBadRequest)
		return
	}
	files := r.MultipartForm.File["files[]"]
	if len(files) == 0 {
		writeError(w, "No files provided", http.StatusBadRequest)
		return
	}

	var accepted []map[string]string
	errs := append([]string{}, s.UploadWarnings...)
	pages := s.current(r)

	s.mu.Lock()
	for _, fh := range files {
		if !strings.EqualFold(filepath.Ext(fh.Filename), ".pdf") {
			errs = append(errs, fh.Filename+": Only PDF files are allowed")
			continue
		}
		s.uploaded = append(s.uploaded, fh.Filename)
		base := strings.TrimSuffix(fh.Filename, filepath.Ext(fh.Filename))
		for i := 1; i <= s.PagesPerFile; i++ {
			pages = append(pages, fmt.Sprintf("%s_p%d", base, i))
		}
		accepted = append(accepted, map[string]string{"id": base, "name": fh.Filename})
	}
	s.mu.Unlock()

	if len(accepted) == 0 {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "No files uploaded successfully", "details": errs})
		return
	}

	s.commit(w, pages)
	writeJSON(w, http.StatusOK, map[string]any{
		"success":  true,
		"files":    accepted,
		"errors":   errs,
		"redirect": "/editor",
	})
}

var editorTemplate = template.Must(template.New("editor").Parse(`<!DOCTYPE html>
<html><body>
<span id="pageCount">{{len .}}</span>
<div id="pageGrid">
{{range .}}<div class="page-card" data-page-id="{{.}}">
  <input type="checkbox" class="page-select" data-page-id="{{.}}">
  <button class="btn-delete" data-page-id="{{.}}">Delete</button>
</div>
{{end}}</div>
</body></html>`))

func (s *Server) handleEditor(w http.ResponseWriter, r *http.Request) {
	pages := s.current(r)
	if len(pages) == 0 {
		http.Redirect(w, r, "/", http.StatusFound)
		return
	}
	w.Header().Set("Content-Type", "text/html")
	if err := editorTemplate.Execute(w, pages); err != nil {
		slog.Error("Unable to render editor", "err", err)
	}
}

func (s *Server) handleDeletePage(w http.ResponseWriter, r *http.Request) {
	var req struct {
		PageID string `json:"page_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.PageID == "" {
		writeError(w, "No page_id provided", http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	s.deleted = append(s.deleted, req.PageID)
	locked := s.FailDeletes[req.PageID]
	s.mu.Unlock()
	if locked {
		writeJSON(w, http.StatusOK, map[string]any{"success": false, "error": "Page is locked"})
		return
	}

	var kept []string
	for _, id := range s.current(r) {
		if id != req.PageID {
			kept = append(kept, id)
		}
	}
	s.commit(w, kept)

	writeJSON(w, http.StatusOK, map[string]any{"success": true, "remaining_pages": len(kept)})
}

func (s *Server) handleValidate(w http.ResponseWriter, r *http.Request) {
	pages := s.current(r)
	if len(pages) == 0 {
		writeError(w, "No pages to validate", http.StatusBadRequest)
		return
	}
	if s.Validation != nil {
		writeJSON(w, http.StatusOK, s.Validation)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success":           true,
		"is_valid":          true,
		"missing_questions": []int{},
		"max_question":      len(pages),
		"total_pages":       len(pages),
	})
}

func (s *Server) handleExtract(w http.ResponseWriter, r *http.Request) {
	if len(s.current(r)) == 0 {
		writeError(w, "No pages to extract", http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "report": s.Report})
}

func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request) {
	pages := s.current(r)
	if len(pages) == 0 {
		http.Redirect(w, r, "/", http.StatusFound)
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="exam_merged.pdf"`)
	fmt.Fprintf(w, "%%PDF-1.4\n%% %d pages\n%%%%EOF\n", len(pages))
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	s.pages = nil
	s.mu.Unlock()
	http.SetCookie(w, &http.Cookie{Name: sessionCookie, Value: "", Path: "/", MaxAge: -1})
	w.WriteHeader(http.StatusOK)
}
