package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/dt-pm-tools/readme-publish/internal/config"
	"github.com/dt-pm-tools/readme-publish/internal/publish"
	"github.com/spf13/cobra"
)

var postsOutput string

var postsCmd = &cobra.Command{
	Use:   "posts <devto|hashnode>",
	Short: "List the posts a title search would consider",
	Long: `Fetches the first page of posts from the platform, the same page the
title search uses, and prints them as a table or as JSON with -o json.`,
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{config.PlatformDevTo, config.PlatformHashnode},
	RunE: func(cmd *cobra.Command, args []string) error {
		platform := args[0]
		if platform != config.PlatformDevTo && platform != config.PlatformHashnode {
			return fmt.Errorf("unknown platform %q (want %s or %s)", platform, config.PlatformDevTo, config.PlatformHashnode)
		}
		if postsOutput != "table" && postsOutput != "json" {
			return fmt.Errorf("unsupported output format %q (want table or json)", postsOutput)
		}

		if err := loadConfig(); err != nil {
			return err
		}
		if err := appConfig.Validate(platform); err != nil {
			return fmt.Errorf("invalid config: %w", err)
		}
		log := newLogger(cmd).With("platform", platform)

		posts, err := newAdapter(platform, log).ListPosts(cmd.Context())
		if err != nil {
			return fmt.Errorf("fetching posts: %w", err)
		}

		out := cmd.OutOrStdout()
		if postsOutput == "json" {
			return writeJSON(out, listing(posts))
		}

		tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "ID\tTITLE\tUPDATED\tURL")
		for _, p := range posts {
			updated := p.UpdatedAt
			if updated == "" {
				updated = p.PublishedAt
			}
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", p.ID, p.Title, updated, p.URL)
		}
		return tw.Flush()
	},
}

type listedPost struct {
	ID          string `json:"id"`
	Slug        string `json:"slug,omitempty"`
	Title       string `json:"title"`
	URL         string `json:"url"`
	PublishedAt string `json:"published_at,omitempty"`
	UpdatedAt   string `json:"updated_at,omitempty"`
}

func listing(posts []publish.Post) []listedPost {
	out := make([]listedPost, 0, len(posts))
	for _, p := range posts {
		out = append(out, listedPost(p))
	}
	return out
}

func init() {
	postsCmd.Flags().StringVarP(&postsOutput, "output", "o", "table", "output format: table or json")
	rootCmd.AddCommand(postsCmd)
}
