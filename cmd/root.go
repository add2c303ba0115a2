package cmd

import (
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

type globalFlags struct {
	server     string
	configPath string
	assumeYes  bool
	verbose    bool
}

func NewRootCmd() *cobra.Command {
	flags := &globalFlags{}

	cmd := &cobra.Command{
		Use:   "pagegrid",
		Short: "Upload, review and merge exam PDFs from the terminal",
		Long: `pagegrid drives a PDF page editor server from the command line.

Upload PDFs into a merged document, remove pages, check that question
numbering is complete, preview question extraction and download the
merged PDF. The server session is remembered between commands.`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Load .env file if present (ignore errors)
			_ = godotenv.Load()

			level := slog.LevelInfo
			if flags.verbose {
				level = slog.LevelDebug
			}
			slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
		},
	}

	cmd.PersistentFlags().StringVar(&flags.server, "server", "", "Editor server URL (overrides config and PAGEGRID_SERVER)")
	cmd.PersistentFlags().StringVar(&flags.configPath, "config", "", "Path to YAML config file")
	cmd.PersistentFlags().BoolVarP(&flags.assumeYes, "yes", "y", false, "Answer yes to confirmation prompts")
	cmd.PersistentFlags().BoolVar(&flags.verbose, "verbose", false, "Verbose logging")

	cmd.AddCommand(newUploadCmd(flags))
	cmd.AddCommand(newPagesCmd(flags))
	cmd.AddCommand(newDeleteCmd(flags))
	cmd.AddCommand(newValidateCmd(flags))
	cmd.AddCommand(newExtractCmd(flags))
	cmd.AddCommand(newDownloadCmd(flags))
	cmd.AddCommand(newResetCmd(flags))

	return cmd
}
