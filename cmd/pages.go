package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newPagesCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "pages",
		Short: "List the pages of the current document",
		Args:  cobra.NoArgs,
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

			for i, card := range ed.Cards() {
				fmt.Fprintf(s.out, "%3d  %s\n", i+1, card.ID)
			}
			fmt.Fprintf(s.out, "Total pages: %d\n", ed.PageCount())
			return nil
		},
	}
}

func newDeleteCmd(flags *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete PAGE_ID...",
		Short: "Remove pages from the current document",
		Long: `Removes the given pages. A single page is deleted directly; several pages
are selected and deleted one request at a time, and a summary is shown if
any of them fail.`,
		Example: `  # Remove one page
  pagegrid delete exam_p3

  # Remove several pages without prompting
  pagegrid delete -y exam_p3 exam_p4 key_p1`,
		Args: cobra.MinimumNArgs(1),
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

			known := map[string]bool{}
			for _, c := range ed.Cards() {
				known[c.ID] = true
			}
			for _, id := range args {
				if !known[id] {
					return fmt.Errorf("page %q is not in the current document", id)
				}
			}

			if len(args) == 1 {
				ed.ClickDelete(cmd.Context(), args[0])
			} else {
				for _, id := range args {
					ed.ToggleSelect(id, true)
				}
				ed.DeleteSelected(cmd.Context())
			}

			fmt.Fprintf(s.out, "Remaining pages: %d\n", ed.PageCount())
			if s.failed() {
				return errShown
			}
			return nil
		},
	}

	return cmd
}
