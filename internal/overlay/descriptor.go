package overlay

import (
	"encoding/json"
	"errors"
)

var (
	// ErrMalformed is returned when a descriptor cannot be rendered.
	ErrMalformed = errors.New("malformed project descriptor")
	// ErrSuppressed is returned when the descriptor disables navigation.
	ErrSuppressed = errors.New("navigation disabled")
	// ErrNotSuccessful is returned when the API reports a failure.
	ErrNotSuccessful = errors.New("describe request not successful")
	// ErrAlreadyMounted is returned when the page already carries an overlay.
	ErrAlreadyMounted = errors.New("overlay already mounted")
)

// Descriptor is the metadata the overlay renders for one project.
type Descriptor struct {
	Single        bool                `json:"single"`
	DefaultBranch string              `json:"defaultBranch"`
	Latest        string              `json:"latest"`
	Languages     []string            `json:"languages"`
	Versions      map[string][]string `json:"versions"`
	URL           string              `json:"url"`
	SourceDir     string              `json:"sourceDir"`
	ShowNav       *bool               `json:"showNav,omitempty"`
	HideGit       bool                `json:"hideGit"`
	GSP           string              `json:"gsp"`
	Icon          string              `json:"icon,omitempty"`
	Builder       string              `json:"builder,omitempty"`
	Public        bool                `json:"public"`
	Domain        string              `json:"dn,omitempty"`
}

// NavEnabled reports whether the overlay may be shown. Only an explicit
// false disables it.
func (d *Descriptor) NavEnabled() bool {
	return d.ShowNav == nil || *d.ShowNav
}

// rawDescriptor accepts the field names used by every API revision.
type rawDescriptor struct {
	Single         bool                `json:"single"`
	DefaultBranch  string              `json:"defaultBranch"`
	Latest         string              `json:"latest"`
	Languages      []string            `json:"languages"`
	Lang           []string            `json:"lang"`
	Versions       map[string][]string `json:"versions"`
	URL            string              `json:"url"`
	SourceDir      string              `json:"sourceDir"`
	SourceDirLower string              `json:"sourcedir"`
	ShowNav        *bool               `json:"showNav"`
	ShowNavSnake   *bool               `json:"show_nav"`
	HideGit        *bool               `json:"hideGit"`
	ShowNavGit     *bool               `json:"show_nav_git"`
	GSP            string              `json:"gsp"`
	Icon           string              `json:"icon"`
	Builder        string              `json:"builder"`
	Public         bool                `json:"public"`
	Domain         any                 `json:"dn"`
}

// UnmarshalJSON implements json.Unmarshaler.
func (d *Descriptor) UnmarshalJSON(b []byte) error {
	var r rawDescriptor
	if err := json.Unmarshal(b, &r); err != nil {
		return err
	}
	*d = Descriptor{
		Single:        r.Single,
		DefaultBranch: r.DefaultBranch,
		Latest:        r.Latest,
		Languages:     r.Languages,
		Versions:      r.Versions,
		URL:           r.URL,
		SourceDir:     r.SourceDir,
		ShowNav:       r.ShowNav,
		GSP:           r.GSP,
		Icon:          r.Icon,
		Builder:       r.Builder,
		Public:        r.Public,
	}
	if d.Languages == nil {
		d.Languages = r.Lang
	}
	if d.SourceDir == "" {
		d.SourceDir = r.SourceDirLower
	}
	if d.ShowNav == nil {
		d.ShowNav = r.ShowNavSnake
	}
	switch {
	case r.HideGit != nil:
		d.HideGit = *r.HideGit
	case r.ShowNavGit != nil:
		d.HideGit = !*r.ShowNavGit
	}
	if d.DefaultBranch == "" {
		d.DefaultBranch = d.Latest
	}
	if d.DefaultBranch == "" {
		d.DefaultBranch = "master"
	}
	if dn, ok := r.Domain.(string); ok {
		d.Domain = dn
	}
	return nil
}

// Envelope is the response body of the describe API.
type Envelope struct {
	Success bool        `json:"success"`
	Code    *int        `json:"code,omitempty"`
	Message string      `json:"message,omitempty"`
	Data    *Descriptor `json:"data,omitempty"`
}

// OK reports whether the envelope signals success.
func (e Envelope) OK() bool {
	return e.Success || (e.Code != nil && *e.Code == 0)
}
