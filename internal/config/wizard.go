package config

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/manifoldco/promptui"
)

// RunWizard runs an interactive configuration wizard, saves the result to
// path and returns it.
func RunWizard(path string) (*Config, error) {
	fmt.Println("Welcome to rtfd! Let's configure your documentation host.")
	fmt.Println()

	cfg := DefaultConfig()

	baseDirPrompt := promptui.Prompt{
		Label:   "Data directory for built docs and the database",
		Default: cfg.BaseDir,
	}
	baseDir, err := baseDirPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("base dir: %w", err)
	}
	cfg.BaseDir = baseDir

	branchPrompt := promptui.Prompt{
		Label:   "Default branch",
		Default: cfg.DefaultBranch,
	}
	branch, err := branchPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("default branch: %w", err)
	}
	cfg.DefaultBranch = branch

	portPrompt := promptui.Prompt{
		Label:   "Server port",
		Default: strconv.Itoa(cfg.Server.Port),
		Validate: func(s string) error {
			n, err := strconv.Atoi(s)
			if err != nil || n <= 0 || n > 65535 {
				return fmt.Errorf("invalid port")
			}
			return nil
		},
	}
	portStr, err := portPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("server port: %w", err)
	}
	cfg.Server.Port, _ = strconv.Atoi(portStr)

	publicPrompt := promptui.Prompt{
		Label:   "Public URL of this server (leave blank for same host)",
		Default: "",
	}
	publicURL, err := publicPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("public url: %w", err)
	}
	cfg.Server.PublicURL = strings.TrimSpace(publicURL)

	mountPrompt := promptui.Select{
		Label: "Where should the overlay be inserted",
		Items: []string{
			"append:  end of <body>",
			"prepend: start of <body>",
		},
	}
	mountIdx, _, err := mountPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("mount selection: %w", err)
	}
	cfg.Overlay.Mount = []MountMode{MountAppend, MountPrepend}[mountIdx]

	includePrompt := promptui.Prompt{
		Label:   "Include patterns for builds (comma-separated globs)",
		Default: strings.Join(cfg.Build.Include, ","),
	}
	includeStr, err := includePrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("include patterns: %w", err)
	}
	cfg.Build.Include = splitAndTrim(includeStr)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.Save(path); err != nil {
		return nil, fmt.Errorf("saving config: %w", err)
	}

	fmt.Printf("\nConfiguration saved to %s\n", path)
	return cfg, nil
}

// splitAndTrim splits a comma-separated string and drops empty entries.
func splitAndTrim(s string) []string {
	var result []string
	for _, part := range strings.Split(s, ",") {
		if token := strings.TrimSpace(part); token != "" {
			result = append(result, token)
		}
	}
	return result
}
