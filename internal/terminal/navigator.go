package terminal

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
)

// Downloader fetches the merged PDF.
type Downloader interface {
	DownloadURL() string
	Download(ctx context.Context, w io.Writer) (string, error)
}

// Visit is one navigation performed by the Navigator.
type Visit struct {
	URL    string
	Reload bool
	// SavedAs is set when the navigation produced a downloaded file.
	SavedAs string
	Err     error
}

// Navigator stands in for browser navigation. Navigating to the download
// URL saves the file under OutputDir; every other navigation is reported on
// Visits.
type Navigator struct {
	ctx        context.Context
	downloader Downloader
	outputDir  string
	out        io.Writer
	visits     chan Visit
}

func NewNavigator(ctx context.Context, downloader Downloader, outputDir string, out io.Writer) *Navigator {
	return &Navigator{
		ctx:        ctx,
		downloader: downloader,
		outputDir:  outputDir,
		out:        out,
		visits:     make(chan Visit, 8),
	}
}

// Visits delivers navigations in the order they happened.
func (n *Navigator) Visits() <-chan Visit {
	return n.visits
}

func (n *Navigator) Navigate(url string) {
	if n.downloader != nil && url == n.downloader.DownloadURL() {
		path, err := n.download()
		if err != nil {
			slog.Error("Download failed", "error", err)
		} else {
			fmt.Fprintf(n.out, "Saved %s\n", path)
		}
		n.visit(Visit{URL: url, SavedAs: path, Err: err})
		return
	}

	slog.Info("Navigated", "url", url)
	n.visit(Visit{URL: url})
}

func (n *Navigator) Reload() {
	fmt.Fprintln(n.out, "No pages remain in the document.")
	n.visit(Visit{Reload: true})
}

func (n *Navigator) visit(v Visit) {
	select {
	case n.visits <- v:
	default:
		slog.Debug("Dropping navigation nobody is waiting for", "url", v.URL)
	}
}

func (n *Navigator) download() (string, error) {
	if err := os.MkdirAll(n.outputDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	tmp, err := os.CreateTemp(n.outputDir, ".pagegrid-*.pdf")
	if err != nil {
		return "", fmt.Errorf("failed to create download file: %w", err)
	}
	defer os.Remove(tmp.Name())

	name, err := n.downloader.Download(n.ctx, tmp)
	if closeErr := tmp.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return "", err
	}

	path := filepath.Join(n.outputDir, filepath.Base(name))
	if err := os.Rename(tmp.Name(), path); err != nil {
		return "", fmt.Errorf("failed to save %s: %w", path, err)
	}
	return path, nil
}
