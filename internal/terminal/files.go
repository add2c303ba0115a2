package terminal

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/lehigh-university-libraries/pagegrid/internal/upload"
	"github.com/pdfcpu/pdfcpu/pkg/api"
)

// LocalFile describes a file on disk the way a browser file picker would:
// name, size and a content type sniffed from its bytes. PDFs also get their
// page count.
func LocalFile(path string) (upload.File, error) {
	info, err := os.Stat(path)
	if err != nil {
		return upload.File{}, fmt.Errorf("failed to stat %s: %w", path, err)
	}
	if info.IsDir() {
		return upload.File{}, fmt.Errorf("%s is a directory", path)
	}

	f := upload.File{
		Name: info.Name(),
		Size: info.Size(),
		Open: func() (io.ReadCloser, error) {
			return os.Open(path)
		},
	}

	mtype, err := mimetype.DetectFile(path)
	if err != nil {
		slog.Warn("Unable to detect content type", "path", path, "error", err)
		return f, nil
	}
	f.Type = mtype.String()

	if mtype.Is(upload.PDFType) {
		pages, err := api.PageCountFile(path)
		if err != nil {
			// The count is informational; the server does its own parsing.
			reason, _, _ := strings.Cut(err.Error(), "\n")
			slog.Debug("Unable to read PDF page count", "path", path, "error", reason)
		} else {
			f.Pages = pages
		}
	}

	return f, nil
}

// LocalFiles describes each path, stopping at the first unreadable one.
func LocalFiles(paths []string) ([]upload.File, error) {
	files := make([]upload.File, 0, len(paths))
	for _, p := range paths {
		f, err := LocalFile(p)
		if err != nil {
			return nil, err
		}
		files = append(files, f)
	}
	return files, nil
}
