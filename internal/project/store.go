package project

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/rtfdocs/rtfd/internal/db"
)

// New returns a project with rtfd defaults for the given name and
// repository URL. The URL decides the provider and visibility.
func New(name, rawurl, defaultBranch string) (*Project, error) {
	name = strings.ToLower(name)
	if !IsName(name) {
		return nil, fmt.Errorf("invalid project name %q", name)
	}
	public, err := CheckGitURL(rawurl)
	if err != nil {
		return nil, fmt.Errorf("checking git url: %w", err)
	}
	rawurl = strings.TrimSuffix(rawurl, ".git")
	gsp, err := ServiceProvider(rawurl)
	if err != nil {
		return nil, err
	}
	if defaultBranch == "" {
		defaultBranch = "master"
	}
	return &Project{
		Name:          name,
		URL:           rawurl,
		Latest:        defaultBranch,
		DefaultBranch: defaultBranch,
		SourceDir:     "docs",
		Languages:     []string{"en"},
		ShowNav:       true,
		Builder:       BuilderHTML,
		GSP:           gsp,
		Public:        public,
	}, nil
}

// Store provides CRUD operations for projects and their builds.
type Store struct {
	db *db.DB
}

// NewStore creates a new project store.
func NewStore(d *db.DB) *Store {
	return &Store{db: d}
}

const projectColumns = `id, name, url, latest, default_branch, single, source_dir, languages,
	show_nav, hide_git, builder, gsp, public, custom_domain, secret, icon, created_at, updated_at`

type scanner interface {
	Scan(dest ...any) error
}

func scanProject(row scanner) (*Project, error) {
	p := &Project{}
	var langsJSON string
	if err := row.Scan(&p.ID, &p.Name, &p.URL, &p.Latest, &p.DefaultBranch, &p.Single,
		&p.SourceDir, &langsJSON, &p.ShowNav, &p.HideGit, &p.Builder, &p.GSP, &p.Public,
		&p.CustomDomain, &p.Secret, &p.Icon, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(langsJSON), &p.Languages); err != nil {
		return nil, fmt.Errorf("unmarshaling languages: %w", err)
	}
	return p, nil
}

// Create inserts a new project.
func (s *Store) Create(ctx context.Context, p *Project) error {
	p.Name = strings.ToLower(p.Name)
	if !IsName(p.Name) {
		return fmt.Errorf("invalid project name %q", p.Name)
	}
	if ok, err := s.Has(ctx, p.Name); err != nil {
		return err
	} else if ok {
		return fmt.Errorf("%w: %s", ErrExists, p.Name)
	}
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if len(p.Languages) == 0 {
		p.Languages = []string{"en"}
	}
	now := time.Now().UTC()
	p.CreatedAt = now
	p.UpdatedAt = now

	langsJSON, err := json.Marshal(p.Languages)
	if err != nil {
		return fmt.Errorf("marshaling languages: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO projects (`+projectColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.Name, p.URL, p.Latest, p.DefaultBranch, p.Single, p.SourceDir,
		string(langsJSON), p.ShowNav, p.HideGit, string(p.Builder), p.GSP, p.Public,
		p.CustomDomain, p.Secret, p.Icon, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("creating project: %w", err)
	}
	return nil
}

// Has reports whether a project named name exists.
func (s *Store) Has(ctx context.Context, name string) (bool, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM projects WHERE name = ?`, strings.ToLower(name)).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("checking project: %w", err)
	}
	return n > 0, nil
}

// Get retrieves a project by name.
func (s *Store) Get(ctx context.Context, name string) (*Project, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+projectColumns+` FROM projects WHERE name = ?`, strings.ToLower(name))
	p, err := scanProject(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("project %s: %w", name, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("getting project: %w", err)
	}
	return p, nil
}

// List returns all projects ordered by name.
func (s *Store) List(ctx context.Context) ([]Project, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+projectColumns+` FROM projects ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("listing projects: %w", err)
	}
	defer rows.Close()

	var result []Project
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning project: %w", err)
		}
		result = append(result, *p)
	}
	return result, rows.Err()
}

// Update writes every mutable field of p back to the store.
func (s *Store) Update(ctx context.Context, p *Project) error {
	p.UpdatedAt = time.Now().UTC()
	if len(p.Languages) == 0 {
		p.Languages = []string{"en"}
	}
	langsJSON, err := json.Marshal(p.Languages)
	if err != nil {
		return fmt.Errorf("marshaling languages: %w", err)
	}

	res, err := s.db.ExecContext(ctx,
		`UPDATE projects SET url=?, latest=?, default_branch=?, single=?, source_dir=?, languages=?,
		 show_nav=?, hide_git=?, builder=?, gsp=?, public=?, custom_domain=?, secret=?, icon=?, updated_at=?
		 WHERE name=?`,
		p.URL, p.Latest, p.DefaultBranch, p.Single, p.SourceDir, string(langsJSON),
		p.ShowNav, p.HideGit, string(p.Builder), p.GSP, p.Public, p.CustomDomain,
		p.Secret, p.Icon, p.UpdatedAt, strings.ToLower(p.Name),
	)
	if err != nil {
		return fmt.Errorf("updating project: %w", err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return fmt.Errorf("project %s: %w", p.Name, ErrNotFound)
	}
	return nil
}

// Delete removes a project and its build history.
func (s *Store) Delete(ctx context.Context, name string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM projects WHERE name=?`, strings.ToLower(name))
	if err != nil {
		return fmt.Errorf("deleting project: %w", err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return fmt.Errorf("project %s: %w", name, ErrNotFound)
	}
	return nil
}

// RecordBuild stores the outcome of a build of the named project.
func (s *Store) RecordBuild(ctx context.Context, name string, b *Build) error {
	p, err := s.Get(ctx, name)
	if err != nil {
		return err
	}
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	if b.Sender == "" {
		b.Sender = SenderCLI
	}
	if b.FinishedAt.IsZero() {
		b.FinishedAt = time.Now().UTC()
	}
	b.ProjectID = p.ID

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO builds (id, project_id, branch, language, status, sender, pages, duration_ms, message, finished_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		b.ID, b.ProjectID, b.Branch, b.Language, b.Passing, string(b.Sender),
		b.Pages, b.Duration.Milliseconds(), b.Message, b.FinishedAt,
	)
	if err != nil {
		return fmt.Errorf("recording build: %w", err)
	}
	return nil
}

// LatestBuild returns the most recent build of branch. The "latest" alias
// resolves to the project's Latest branch.
func (s *Store) LatestBuild(ctx context.Context, name, branch string) (*Build, error) {
	p, err := s.Get(ctx, name)
	if err != nil {
		return nil, err
	}
	if branch == "" || branch == LatestBranch {
		branch = p.Latest
	}

	b := &Build{}
	var durationMS int64
	err = s.db.QueryRowContext(ctx,
		`SELECT id, project_id, branch, language, status, sender, pages, duration_ms, message, finished_at
		 FROM builds WHERE project_id = ? AND branch = ? ORDER BY finished_at DESC LIMIT 1`,
		p.ID, branch,
	).Scan(&b.ID, &b.ProjectID, &b.Branch, &b.Language, &b.Passing, &b.Sender,
		&b.Pages, &durationMS, &b.Message, &b.FinishedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("build %s@%s: %w", name, branch, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("getting build: %w", err)
	}
	b.Duration = time.Duration(durationMS) * time.Millisecond
	return b, nil
}

// ListBuilds returns every build of the named project, newest first.
func (s *Store) ListBuilds(ctx context.Context, name string) ([]Build, error) {
	p, err := s.Get(ctx, name)
	if err != nil {
		return nil, err
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, project_id, branch, language, status, sender, pages, duration_ms, message, finished_at
		 FROM builds WHERE project_id = ? ORDER BY finished_at DESC`, p.ID)
	if err != nil {
		return nil, fmt.Errorf("listing builds: %w", err)
	}
	defer rows.Close()

	var result []Build
	for rows.Next() {
		var b Build
		var durationMS int64
		if err := rows.Scan(&b.ID, &b.ProjectID, &b.Branch, &b.Language, &b.Passing, &b.Sender,
			&b.Pages, &durationMS, &b.Message, &b.FinishedAt); err != nil {
			return nil, fmt.Errorf("scanning build: %w", err)
		}
		b.Duration = time.Duration(durationMS) * time.Millisecond
		result = append(result, b)
	}
	return result, rows.Err()
}
