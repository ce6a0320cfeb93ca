package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"

	"github.com/dt-pm-tools/readme-publish/internal/config"
	"github.com/dt-pm-tools/readme-publish/internal/devto"
	"github.com/dt-pm-tools/readme-publish/internal/hashnode"
	"github.com/dt-pm-tools/readme-publish/internal/markdown"
	"github.com/dt-pm-tools/readme-publish/internal/publish"
	"github.com/dt-pm-tools/readme-publish/internal/state"
	"github.com/spf13/cobra"
)

var (
	publishStateFile   string
	publishSavedID     string
	publishRepoPath    string
	publishContentPath string
)

var publishCmd = &cobra.Command{
	Use:   "publish",
	Short: "Create or update the README post on a blogging platform",
	Long: `Finds the README, rewrites it for the platform and creates or updates the
matching post. An existing post is found by the saved id of a previous run,
then by exact title, then (Hashnode only) by slug.

The saved id comes from --saved-id, --state-file, or the platform's
*_SAVED_POST_* environment variables, in that order of precedence.`,
}

var publishDevToCmd = &cobra.Command{
	Use:   "devto",
	Short: "Publish to Dev.to",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runPublish(cmd, config.PlatformDevTo)
	},
}

var publishHashnodeCmd = &cobra.Command{
	Use:   "hashnode",
	Short: "Publish to a Hashnode publication",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runPublish(cmd, config.PlatformHashnode)
	},
}

func init() {
	flags := publishCmd.PersistentFlags()
	flags.StringVar(&publishStateFile, "state-file", "", "YAML file holding the previous run's result; updated on success")
	flags.StringVar(&publishSavedID, "saved-id", "", "id of the post a previous run created")
	flags.StringVar(&publishRepoPath, "repo-path", "", "repository root to search for the README (default USER_REPO_PATH or .)")
	flags.StringVar(&publishContentPath, "content-path", "", "subdirectory searched before the root (default USER_CONTENT_PATH or content)")

	publishCmd.AddCommand(publishDevToCmd, publishHashnodeCmd)
	rootCmd.AddCommand(publishCmd)
}

// runPublish performs one run for platform and writes exactly one JSON line
// to stdout: the result on success, the failure otherwise.
func runPublish(cmd *cobra.Command, platform string) error {
	out := cmd.OutOrStdout()

	if err := loadConfig(); err != nil {
		return fail(out, err, nil)
	}
	log := newLogger(cmd).With("platform", platform)

	hint := hintFromConfig(appConfig.Saved(platform))
	logEnvironment(log, platform)

	if err := appConfig.Validate(platform); err != nil {
		log.Error("configuration incomplete; run 'readme-publish config' or export the variables")
		return fail(out, err, hint)
	}

	if publishStateFile != "" {
		stored, err := state.Load(publishStateFile, platform)
		if err != nil {
			return fail(out, err, hint)
		}
		if stored != nil {
			hint = stored
		}
	}
	if publishSavedID != "" {
		if hint == nil {
			hint = &publish.Hint{}
		}
		hint.ID = publishSavedID
	}

	doc, err := loadDocument(log, platform)
	if err != nil {
		return fail(out, err, hint)
	}

	adapter := newAdapter(platform, log)
	result, err := publish.NewReconciler(adapter, log).Reconcile(cmd.Context(), publish.RunContext{
		Document: doc,
		Hint:     hint,
	})
	if err != nil {
		return fail(out, err, hint)
	}

	if publishStateFile != "" {
		if err := state.Save(publishStateFile, platform, result); err != nil {
			log.Warn("could not write state file", "path", publishStateFile, "error", err)
		}
	}

	log.Info("published", "id", result.ID, "url", result.URL, "method", result.Method)
	return writeJSON(out, result)
}

// loadDocument locates the README and transforms it with platform's policy.
func loadDocument(log *slog.Logger, platform string) (markdown.Document, error) {
	root, contentPath := repoLocation()
	path, raw, err := markdown.Locate(markdown.CandidateDirs(root, contentPath), markdown.DefaultNames)
	if err != nil {
		return markdown.Document{}, err
	}
	log.Info("found README", "path", path)

	t := &markdown.Transformer{
		Repo:   repoCoordinates(),
		Policy: policyFor(platform),
		Logger: log,
	}
	doc := t.Transform(string(raw))
	log.Info("document ready", "title", doc.Title, "tags", len(doc.Tags))
	return doc, nil
}

func repoLocation() (root, contentPath string) {
	root = appConfig.Repo.Path
	if publishRepoPath != "" {
		root = publishRepoPath
	}
	if root == "" {
		root = "."
	}
	contentPath = appConfig.Repo.ContentPath
	if publishContentPath != "" {
		contentPath = publishContentPath
	}
	return root, contentPath
}

func repoCoordinates() markdown.Repo {
	return markdown.Repo{
		Owner:  appConfig.Repo.Owner,
		Name:   appConfig.Repo.Name,
		Branch: appConfig.Repo.Branch,
	}
}

func policyFor(platform string) markdown.Policy {
	switch platform {
	case config.PlatformHashnode:
		return markdown.Policy{
			RewriteFileLinks: appConfig.Hashnode.RewriteFileLinks,
			StripBadges:      appConfig.Hashnode.StripBadges,
		}
	default:
		return markdown.Policy{
			RewriteFileLinks: appConfig.DevTo.RewriteFileLinks,
			StripBadges:      appConfig.DevTo.StripBadges,
		}
	}
}

func newAdapter(platform string, log *slog.Logger) publish.Adapter {
	if platform == config.PlatformHashnode {
		return hashnode.NewClient(appConfig.Hashnode, log)
	}
	return devto.NewClient(appConfig.DevTo, log)
}

// hintFromConfig returns nil unless a saved id is present; the other saved
// fields mean nothing without it.
func hintFromConfig(saved config.SavedPost) *publish.Hint {
	if saved.ID == "" {
		return nil
	}
	return &publish.Hint{
		ID:          saved.ID,
		Slug:        saved.Slug,
		Title:       saved.Title,
		URL:         saved.URL,
		PublishedAt: saved.PublishedAt,
		UpdatedAt:   saved.UpdatedAt,
	}
}

// logEnvironment narrates which settings are present. Secrets are reported
// as set or unset, never printed.
func logEnvironment(log *slog.Logger, platform string) {
	repo := repoCoordinates()
	switch platform {
	case config.PlatformDevTo:
		log.Info("environment check",
			"api_key_set", appConfig.DevTo.APIKey != "",
			"saved_id", appConfig.DevTo.Saved.ID,
			"repo", repo.String())
	case config.PlatformHashnode:
		log.Info("environment check",
			"token_set", appConfig.Hashnode.Token != "",
			"publication_id", appConfig.Hashnode.PublicationID,
			"publication_host", appConfig.Hashnode.PublicationHost,
			"saved_id", appConfig.Hashnode.Saved.ID,
			"repo", repo.String())
	}
}

// fail prints the structured failure line and returns err so the process
// exits non-zero.
func fail(w io.Writer, err error, hint *publish.Hint) error {
	if werr := writeJSON(w, publish.NewFailure(err, hint)); werr != nil {
		return fmt.Errorf("%w (writing failure: %v)", err, werr)
	}
	return err
}

func writeJSON(w io.Writer, v any) error {
	if err := json.NewEncoder(w).Encode(v); err != nil {
		return fmt.Errorf("encoding output: %w", err)
	}
	return nil
}
