package cmd

import (
	"fmt"
	"log/slog"

	"github.com/lehigh-university-libraries/pagegrid/internal/terminal"
	"github.com/lehigh-university-libraries/pagegrid/internal/ui"
	"github.com/lehigh-university-libraries/pagegrid/internal/upload"
	"github.com/spf13/cobra"
)

func newUploadCmd(flags *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "upload FILE...",
		Short: "Upload PDF files into the merged document",
		Long: `Stages the given files, keeps only PDFs (duplicates by name and size are
dropped) and uploads them in a single request. Pages are appended to the
document of the current server session.`,
		Example: `  # Upload two exam parts
  pagegrid upload part1.pdf part2.pdf

  # Upload against another server
  pagegrid upload --server http://pdf.example.edu exam.pdf`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd, flags)
			if err != nil {
				return err
			}
			defer s.close()

			files, err := terminal.LocalFiles(args)
			if err != nil {
				return err
			}

			ctrl := upload.NewController(upload.Deps{
				Uploader:      s.client,
				Dialog:        s.dialog,
				Navigator:     s.navigator,
				Clock:         ui.RealClock(),
				RedirectDelay: s.cfg.RedirectDelay,
			})

			if err := ctrl.Pick(files); err != nil {
				return errShown
			}
			for i, f := range ctrl.Files() {
				fmt.Fprintf(s.out, "%2d. %s  %s  %d page(s)\n", i+1, f.Name, upload.FormatFileSize(f.Size), f.Pages)
			}

			if err := ctrl.Upload(cmd.Context()); err != nil {
				return errShown
			}
			fmt.Fprintln(s.out, ctrl.Progress().Text)

			select {
			case v := <-s.navigator.Visits():
				slog.Debug("Upload redirect", "url", v.URL)
			case <-cmd.Context().Done():
				return cmd.Context().Err()
			}

			fmt.Fprintf(s.out, "Uploaded %d file(s). Run 'pagegrid pages' to review the document.\n", len(ctrl.Files()))
			return nil
		},
	}

	return cmd
}
