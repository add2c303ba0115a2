package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newDownloadCmd(flags *globalFlags) *cobra.Command {
	var outputDir string

	cmd := &cobra.Command{
		Use:   "download",
		Short: "Download the merged PDF",
		Example: `  # Save into the current directory
  pagegrid download

  # Save into ./out
  pagegrid download -o out`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd, flags)
			if err != nil {
				return err
			}
			defer s.close()
			if outputDir != "" {
				s.cfg.OutputDir = outputDir
				s.navigator = s.newNavigator(cmd)
			}

			ed, err := s.editor(cmd.Context())
			if err != nil {
				return err
			}

			ed.Download()
			v := <-s.navigator.Visits()
			if v.Err != nil {
				return fmt.Errorf("download failed: %w", v.Err)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputDir, "output", "o", "", "Directory to save the merged PDF in")

	return cmd
}

func newResetCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Discard the current document and start over",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd, flags)
			if err != nil {
				return err
			}
			if !s.confirmer.Confirm("Discard all uploaded files and pages?") {
				return nil
			}
			if err := s.client.Reset(cmd.Context()); err != nil {
				return err
			}
			if err := s.store.Delete(s.client.BaseURL); err != nil {
				return err
			}
			fmt.Fprintln(s.out, "Session cleared.")
			return nil
		},
	}
}
