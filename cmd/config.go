package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"
	"syscall"

	"github.com/dt-pm-tools/readme-publish/internal/config"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Configure platform credentials and repository settings",
	Long: `Interactively set up Dev.to and Hashnode credentials and the GitHub
repository used for raw asset URLs. Settings are saved to ~/.readme-publish.yaml.

Leave a platform's secret empty to skip that platform.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		reader := bufio.NewReader(os.Stdin)

		// Load existing config for defaults
		cfg, _ := config.Load(cfgFile)

		fmt.Println("Repository")
		cfg.Repo.Owner = prompt(reader, "  GitHub owner", cfg.Repo.Owner)
		cfg.Repo.Name = prompt(reader, "  GitHub repository", cfg.Repo.Name)
		cfg.Repo.Branch = prompt(reader, "  Branch", cfg.Repo.Branch)

		fmt.Println("Dev.to")
		key, err := promptSecret("  API key", cfg.DevTo.APIKey)
		if err != nil {
			return err
		}
		cfg.DevTo.APIKey = key

		fmt.Println("Hashnode")
		token, err := promptSecret("  Personal access token", cfg.Hashnode.Token)
		if err != nil {
			return err
		}
		cfg.Hashnode.Token = token
		if token != "" {
			cfg.Hashnode.PublicationID = prompt(reader, "  Publication ID", cfg.Hashnode.PublicationID)
			cfg.Hashnode.PublicationHost = prompt(reader, "  Publication host (e.g., blog.hashnode.dev)", cfg.Hashnode.PublicationHost)
		}

		if err := validateEntered(cfg); err != nil {
			return fmt.Errorf("invalid config: %w", err)
		}

		path := cfgFile
		if path == "" {
			path = config.DefaultPath()
		}

		if err := config.Save(cfg, path); err != nil {
			return err
		}

		fmt.Printf("Configuration saved to %s\n", path)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
}

// validateEntered validates every platform the user gave a secret for.
func validateEntered(cfg config.Config) error {
	var checked int
	if cfg.DevTo.APIKey != "" {
		if err := cfg.Validate(config.PlatformDevTo); err != nil {
			return err
		}
		checked++
	}
	if cfg.Hashnode.Token != "" {
		if err := cfg.Validate(config.PlatformHashnode); err != nil {
			return err
		}
		checked++
	}
	if checked == 0 {
		return errors.New("no platform credentials entered")
	}
	return nil
}

func prompt(reader *bufio.Reader, label, current string) string {
	if current != "" {
		fmt.Printf("%s [%s]: ", label, current)
	} else {
		fmt.Printf("%s: ", label)
	}
	value, _ := reader.ReadString('\n')
	value = strings.TrimSpace(value)
	if value == "" {
		return current
	}
	return value
}

// promptSecret reads a value with echo disabled. An empty answer keeps the
// current value.
func promptSecret(label, current string) (string, error) {
	if current != "" {
		fmt.Printf("%s [keep existing] (input hidden): ", label)
	} else {
		fmt.Printf("%s (input hidden): ", label)
	}
	secret, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println() // newline after hidden input
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", strings.TrimSpace(label), err)
	}
	value := strings.TrimSpace(string(secret))
	if value == "" {
		return current, nil
	}
	return value, nil
}
