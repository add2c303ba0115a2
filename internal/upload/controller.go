package upload

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/lehigh-university-libraries/pagegrid/internal/api"
	"github.com/lehigh-university-libraries/pagegrid/internal/modal"
	"github.com/lehigh-university-libraries/pagegrid/internal/ui"
)

// PDFType is the declared content type of an acceptable file.
const PDFType = "application/pdf"

// DefaultRedirectDelay lets the "complete" state render before navigating.
const DefaultRedirectDelay = 500 * time.Millisecond

var (
	ErrNoPDF         = errors.New("no PDF files selected")
	ErrNothingStaged = errors.New("no files staged")
)

const (
	noPDFMessage         = "Please select only PDF files."
	nothingStagedMessage = "Please select at least one PDF file."
)

// Uploader sends staged files to the server.
type Uploader interface {
	Upload(ctx context.Context, files []api.UploadFile) (*api.UploadResponse, error)
}

// Picker is the file-picker input behind the upload zone.
type Picker interface {
	Open()
	Reset()
}

// File is a file selected by the user but not yet uploaded. Identity is the
// (Name, Size) pair.
type File struct {
	Name string
	Size int64
	// Type is the declared content type, possibly empty.
	Type  string
	Pages int
	Open  func() (io.ReadCloser, error)
}

func (f File) isPDF() bool {
	return f.Type == PDFType || strings.EqualFold(filepath.Ext(f.Name), ".pdf")
}

// Progress is the state of the upload progress indicator.
type Progress struct {
	Visible bool
	Percent int
	Text    string
}

// Deps are the collaborators of a Controller.
type Deps struct {
	Uploader      Uploader
	Dialog        *modal.Dialog
	Navigator     ui.Navigator
	Picker        Picker
	Clock         ui.Clock
	RedirectDelay time.Duration
}

// Controller owns the staged file list of the upload view.
type Controller struct {
	deps Deps

	mu       sync.Mutex
	files    []File
	dragOver bool
	progress Progress

	UploadButton *ui.Control
	ClearButton  *ui.Control
}

func NewController(deps Deps) *Controller {
	if deps.Clock == nil {
		deps.Clock = ui.RealClock()
	}
	return &Controller{
		deps:         deps,
		UploadButton: ui.NewControl("Upload"),
		ClearButton:  ui.NewControl("Clear"),
	}
}

// Files returns the staged files in display order.
func (c *Controller) Files() []File {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]File(nil), c.files...)
}

func (c *Controller) DragOver() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.dragOver
}

func (c *Controller) Progress() Progress {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.progress
}

// ClickZone opens the file picker.
func (c *Controller) ClickZone() {
	if c.deps.Picker != nil {
		c.deps.Picker.Open()
	}
}

func (c *Controller) DragEnter() {
	c.mu.Lock()
	c.dragOver = true
	c.mu.Unlock()
}

func (c *Controller) DragLeave() {
	c.mu.Lock()
	c.dragOver = false
	c.mu.Unlock()
}

// Drop stages dropped files. Only entries declared as PDF are considered.
func (c *Controller) Drop(files []File) error {
	c.DragLeave()

	typed := make([]File, 0, len(files))
	for _, f := range files {
		if f.Type == PDFType {
			typed = append(typed, f)
		}
	}
	return c.AddFiles(typed)
}

// Pick stages files chosen through the picker.
func (c *Controller) Pick(files []File) error {
	return c.AddFiles(files)
}

// AddFiles stages the PDF entries of files, skipping any whose name and size
// match an already staged file. If no entry is a PDF nothing changes and an
// error dialog is shown.
func (c *Controller) AddFiles(files []File) error {
	var pdfs []File
	for _, f := range files {
		if f.isPDF() {
			pdfs = append(pdfs, f)
		}
	}

	if len(pdfs) == 0 {
		c.deps.Dialog.ShowText("Error", noPDFMessage)
		return ErrNoPDF
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	for _, f := range pdfs {
		if !c.stagedLocked(f) {
			c.files = append(c.files, f)
		}
	}
	return nil
}

func (c *Controller) stagedLocked(f File) bool {
	for _, s := range c.files {
		if s.Name == f.Name && s.Size == f.Size {
			return true
		}
	}
	return false
}

// Remove drops the file at index in the current display order.
func (c *Controller) Remove(index int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if index < 0 || index >= len(c.files) {
		return
	}
	c.files = append(c.files[:index], c.files[index+1:]...)
}

// Clear empties the staged list and resets the picker so the same file can
// be chosen again.
func (c *Controller) Clear() {
	if c.ClearButton.Disabled() {
		return
	}
	c.mu.Lock()
	c.files = nil
	c.mu.Unlock()
	if c.deps.Picker != nil {
		c.deps.Picker.Reset()
	}
}

// Upload sends every staged file in one request. On success it navigates to
// the server's redirect after the redirect delay.
func (c *Controller) Upload(ctx context.Context) error {
	if c.UploadButton.Disabled() {
		return nil
	}

	staged := c.Files()
	if len(staged) == 0 {
		c.deps.Dialog.ShowText("Error", nothingStagedMessage)
		return ErrNothingStaged
	}

	c.UploadButton.SetDisabled(true)
	c.ClearButton.SetDisabled(true)
	c.setProgress(Progress{Visible: true, Percent: 50, Text: "Uploading files..."})

	parts := make([]api.UploadFile, len(staged))
	for i, f := range staged {
		parts[i] = api.UploadFile{Name: f.Name, Open: f.Open}
	}

	slog.Info("Uploading staged files", "count", len(parts))
	resp, err := c.deps.Uploader.Upload(ctx, parts)
	if err != nil {
		slog.Error("Upload failed", "error", err)
		msg := err.Error()
		if msg == "" {
			msg = "An error occurred during upload."
		}
		c.deps.Dialog.ShowText("Upload Error", msg)
		c.UploadButton.SetDisabled(false)
		c.ClearButton.SetDisabled(false)
		c.setProgress(Progress{})
		return err
	}

	c.setProgress(Progress{Visible: true, Percent: 100, Text: "Upload complete! Redirecting..."})
	if len(resp.Errors) > 0 {
		slog.Warn("Upload warnings", "errors", resp.Errors)
	}

	redirect := resp.Redirect
	c.deps.Clock.AfterFunc(c.deps.RedirectDelay, func() {
		c.deps.Navigator.Navigate(redirect)
	})
	return nil
}

func (c *Controller) setProgress(p Progress) {
	c.mu.Lock()
	c.progress = p
	c.mu.Unlock()
}
