package cmd

import (
	"github.com/spf13/cobra"
)

func newValidateCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Check that question numbering is complete",
		Long: `Asks the server to verify that questions 1 through the highest question
number all appear in the merged document, and lists any that are missing.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd, flags)
			if err != nil {
				return err
			}
			defer s.close()
			ed, err := s.editor(cmd.Context())
			if err != nil {
				return err
			}

			ed.Validate(cmd.Context())
			if s.failed() {
				return errShown
			}
			return nil
		},
	}
}

func newExtractCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "extract",
		Short: "Preview question extraction",
		Long: `Shows the server's question extraction report. This is a preview only;
the extraction itself happens when the merged PDF is downloaded.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd, flags)
			if err != nil {
				return err
			}
			defer s.close()
			ed, err := s.editor(cmd.Context())
			if err != nil {
				return err
			}

			ed.Extract(cmd.Context())
			if s.failed() {
				return errShown
			}
			return nil
		},
	}
}
