package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Platform names accepted by Validate and the publish commands.
const (
	PlatformDevTo    = "devto"
	PlatformHashnode = "hashnode"
)

// ErrConfigurationMissing is returned by Validate when required credentials
// or identifiers for a platform are absent.
var ErrConfigurationMissing = errors.New("configuration missing")

// Config holds everything a publish run needs besides the document itself.
type Config struct {
	Repo     RepoConfig     `yaml:"repo"     mapstructure:"repo"`
	DevTo    DevToConfig    `yaml:"devto"    mapstructure:"devto"`
	Hashnode HashnodeConfig `yaml:"hashnode" mapstructure:"hashnode"`
	Log      LogConfig      `yaml:"log"      mapstructure:"log"`
}

// RepoConfig locates the README on disk and names the repository whose raw
// content URLs relative assets are rewritten to.
type RepoConfig struct {
	Path        string `yaml:"path,omitempty"         mapstructure:"path"`
	ContentPath string `yaml:"content_path,omitempty" mapstructure:"content_path"`
	Owner       string `yaml:"owner,omitempty"        mapstructure:"owner"`
	Name        string `yaml:"name,omitempty"         mapstructure:"name"`
	Branch      string `yaml:"branch,omitempty"       mapstructure:"branch"`
}

// DevToConfig holds Dev.to API settings.
type DevToConfig struct {
	APIKey           string    `yaml:"api_key,omitempty"   mapstructure:"api_key"   env:"DEV_TO_API_KEY" validate:"required"`
	APIURL           string    `yaml:"api_url,omitempty"   mapstructure:"api_url"   env:"DEV_TO_API_URL" validate:"required,url"`
	PageSize         int       `yaml:"page_size,omitempty" mapstructure:"page_size" env:"DEV_TO_PAGE_SIZE" validate:"min=1,max=1000"`
	StripBadges      bool      `yaml:"strip_badges"        mapstructure:"strip_badges"`
	RewriteFileLinks bool      `yaml:"rewrite_file_links"  mapstructure:"rewrite_file_links"`
	Saved            SavedPost `yaml:"-"                   mapstructure:"saved"`
}

// HashnodeConfig holds Hashnode GraphQL API settings.
type HashnodeConfig struct {
	Token            string    `yaml:"token,omitempty"            mapstructure:"token"            env:"HASHNODE_PAT" validate:"required"`
	PublicationID    string    `yaml:"publication_id,omitempty"   mapstructure:"publication_id"   env:"HASHNODE_PUBLICATION_ID" validate:"required"`
	PublicationHost  string    `yaml:"publication_host,omitempty" mapstructure:"publication_host" env:"HASHNODE_PUBLICATION_HOST" validate:"required,hostname"`
	APIURL           string    `yaml:"api_url,omitempty"          mapstructure:"api_url"          env:"HASHNODE_API_URL" validate:"required,url"`
	PageSize         int       `yaml:"page_size,omitempty"        mapstructure:"page_size"        env:"HASHNODE_PAGE_SIZE" validate:"min=1,max=50"`
	StripBadges      bool      `yaml:"strip_badges"               mapstructure:"strip_badges"`
	RewriteFileLinks bool      `yaml:"rewrite_file_links"         mapstructure:"rewrite_file_links"`
	Saved            SavedPost `yaml:"-"                          mapstructure:"saved"`
}

// SavedPost is the identity hint a previous run left behind in the
// environment. Only ID takes part in matching.
type SavedPost struct {
	ID          string `mapstructure:"id"`
	Slug        string `mapstructure:"slug"`
	Title       string `mapstructure:"title"`
	URL         string `mapstructure:"url"`
	PublishedAt string `mapstructure:"published_at"`
	UpdatedAt   string `mapstructure:"updated_at"`
}

// LogConfig controls the diagnostic channel on stderr.
type LogConfig struct {
	Level  string `yaml:"level,omitempty"  mapstructure:"level"`
	Format string `yaml:"format,omitempty" mapstructure:"format"`
}

// DefaultPath returns the default config file path (~/.readme-publish.yaml).
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".readme-publish.yaml"
	}
	return filepath.Join(home, ".readme-publish.yaml")
}

// Load reads config from the YAML file and applies env var overrides.
// configPath may be empty to use the default path.
func Load(configPath string) (Config, error) {
	v := viper.New()

	if configPath == "" {
		configPath = DefaultPath()
	}

	v.SetConfigFile(configPath)
	v.SetConfigType("yaml")

	setDefaults(v)
	bindEnv(v)

	// Read the config file (ignore "not found" errors so env vars still work)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			if !os.IsNotExist(err) {
				return Config{}, fmt.Errorf("reading config: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshalling config: %w", err)
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("repo.content_path", "content")
	v.SetDefault("repo.owner", "unknown-user")
	v.SetDefault("repo.name", "unknown-repo")
	v.SetDefault("repo.branch", "main")

	v.SetDefault("devto.api_url", "https://dev.to/api")
	v.SetDefault("devto.page_size", 30)
	v.SetDefault("devto.strip_badges", true)
	v.SetDefault("devto.rewrite_file_links", true)

	v.SetDefault("hashnode.api_url", "https://gql.hashnode.com")
	v.SetDefault("hashnode.page_size", 50)
	v.SetDefault("hashnode.strip_badges", false)
	v.SetDefault("hashnode.rewrite_file_links", true)

	v.SetDefault("log.level", "info")
}

func bindEnv(v *viper.Viper) {
	// Repository coordinates, as exported by the CI workflow
	v.BindEnv("repo.path", "USER_REPO_PATH")
	v.BindEnv("repo.content_path", "USER_CONTENT_PATH")
	v.BindEnv("repo.owner", "GITHUB_USERNAME")
	v.BindEnv("repo.name", "GITHUB_REPO")
	v.BindEnv("repo.branch", "GITHUB_BRANCH")

	v.BindEnv("devto.api_key", "DEV_TO_API_KEY")
	v.BindEnv("devto.api_url", "DEV_TO_API_URL")
	v.BindEnv("devto.page_size", "DEV_TO_PAGE_SIZE")
	v.BindEnv("devto.strip_badges", "DEV_TO_STRIP_BADGES")
	v.BindEnv("devto.rewrite_file_links", "DEV_TO_REWRITE_FILE_LINKS")
	bindSaved(v, "devto", "DEV_TO")

	v.BindEnv("hashnode.token", "HASHNODE_PAT")
	v.BindEnv("hashnode.publication_id", "HASHNODE_PUBLICATION_ID")
	v.BindEnv("hashnode.publication_host", "HASHNODE_PUBLICATION_HOST")
	v.BindEnv("hashnode.api_url", "HASHNODE_API_URL")
	v.BindEnv("hashnode.page_size", "HASHNODE_PAGE_SIZE")
	v.BindEnv("hashnode.strip_badges", "HASHNODE_STRIP_BADGES")
	v.BindEnv("hashnode.rewrite_file_links", "HASHNODE_REWRITE_FILE_LINKS")
	bindSaved(v, "hashnode", "HASHNODE")

	v.BindEnv("log.level", "LOG_LEVEL")
	v.BindEnv("log.format", "LOG_FORMAT")
}

// bindSaved binds the <PREFIX>_SAVED_POST_* variables a previous run's
// workflow persisted.
func bindSaved(v *viper.Viper, section, prefix string) {
	for _, field := range []string{"id", "slug", "title", "url", "published_at", "updated_at"} {
		v.BindEnv(section+".saved."+field, prefix+"_SAVED_POST_"+strings.ToUpper(field))
	}
}

// Saved returns the saved post for the given platform.
func (c Config) Saved(platform string) SavedPost {
	switch platform {
	case PlatformDevTo:
		return c.DevTo.Saved
	case PlatformHashnode:
		return c.Hashnode.Saved
	}
	return SavedPost{}
}

// Save writes the config to the given path (or default path if empty).
func Save(cfg Config, configPath string) error {
	if configPath == "" {
		configPath = DefaultPath()
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0600); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}
