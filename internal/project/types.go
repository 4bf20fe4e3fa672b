package project

import (
	"errors"
	"time"
)

// Builder is the page layout a project is built with.
type Builder string

const (
	BuilderHTML       Builder = "html"
	BuilderDirHTML    Builder = "dirhtml"
	BuilderSingleHTML Builder = "singlehtml"
)

// Sender records what triggered a build.
type Sender string

const (
	SenderAPI     Sender = "api"
	SenderCLI     Sender = "cli"
	SenderWebhook Sender = "webhook"
)

// Git service providers.
const (
	GSPGitHub = "GitHub"
	GSPGitee  = "Gitee"
	GSPNA     = "N/A"
)

// LatestBranch is the alias every multi-version project serves its
// configured Latest branch under.
const LatestBranch = "latest"

var (
	// ErrNotFound is returned when a project or build does not exist.
	ErrNotFound = errors.New("not found")
	// ErrExists is returned when creating a project whose name is taken.
	ErrExists = errors.New("project already exists")
)

// Project is one documentation project.
type Project struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	URL           string    `json:"url"`
	Latest        string    `json:"latest"`
	DefaultBranch string    `json:"default_branch"`
	Single        bool      `json:"single"`
	SourceDir     string    `json:"source_dir"`
	Languages     []string  `json:"languages"`
	ShowNav       bool      `json:"show_nav"`
	HideGit       bool      `json:"hide_git"`
	Builder       Builder   `json:"builder"`
	GSP           string    `json:"gsp"`
	Public        bool      `json:"public"`
	CustomDomain  string    `json:"custom_domain,omitempty"`
	Secret        string    `json:"-"`
	Icon          string    `json:"icon,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// Build is the outcome of building one branch of a project.
type Build struct {
	ID         string        `json:"id"`
	ProjectID  string        `json:"project_id"`
	Branch     string        `json:"branch"`
	Language   string        `json:"language"`
	Passing    bool          `json:"passing"`
	Sender     Sender        `json:"sender"`
	Pages      int           `json:"pages"`
	Duration   time.Duration `json:"duration"`
	Message    string        `json:"message,omitempty"`
	FinishedAt time.Time     `json:"finished_at"`
}
