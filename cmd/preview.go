package cmd

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dt-pm-tools/readme-publish/internal/config"
	"github.com/spf13/cobra"
)

var previewJSON bool

var previewCmd = &cobra.Command{
	Use:   "preview <devto|hashnode>",
	Short: "Show the document that would be published, without publishing",
	Long: `Locates the README and applies the platform's rewrites, then prints the
resulting title, tags and body. No credentials are needed and no network
call is made.

Use --json to get the document as a single JSON object.`,
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{config.PlatformDevTo, config.PlatformHashnode},
	RunE: func(cmd *cobra.Command, args []string) error {
		platform := args[0]
		if platform != config.PlatformDevTo && platform != config.PlatformHashnode {
			return fmt.Errorf("unknown platform %q (want %s or %s)", platform, config.PlatformDevTo, config.PlatformHashnode)
		}

		if err := loadConfig(); err != nil {
			return err
		}
		log := newLogger(cmd).With("platform", platform)

		doc, err := loadDocument(log, platform)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if previewJSON {
			return writeJSON(out, struct {
				Title string   `json:"title"`
				Tags  []string `json:"tags"`
				Body  string   `json:"body"`
			}{doc.Title, doc.Tags, doc.Body})
		}

		r := lipgloss.NewRenderer(out)
		heading := r.NewStyle().Bold(true).Foreground(lipgloss.Color("99"))
		label := r.NewStyle().Foreground(lipgloss.Color("241"))

		tags := "(none)"
		if doc.HasTags() {
			tags = strings.Join(doc.Tags, ", ")
		}

		fmt.Fprintln(out, heading.Render(doc.Title))
		fmt.Fprintln(out, label.Render("tags: ")+tags)
		fmt.Fprintln(out, label.Render("repo: ")+repoCoordinates().String())
		fmt.Fprintln(out)
		fmt.Fprintln(out, doc.Body)
		return nil
	},
}

func init() {
	previewCmd.Flags().BoolVar(&previewJSON, "json", false, "print the document as JSON")
	previewCmd.Flags().StringVar(&publishRepoPath, "repo-path", "", "repository root to search for the README (default USER_REPO_PATH or .)")
	previewCmd.Flags().StringVar(&publishContentPath, "content-path", "", "subdirectory searched before the root (default USER_CONTENT_PATH or content)")
	rootCmd.AddCommand(previewCmd)
}
