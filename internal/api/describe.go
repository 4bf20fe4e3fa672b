package api

import (
	"context"

	"github.com/rtfdocs/rtfd/internal/overlay"
	"github.com/rtfdocs/rtfd/internal/project"
)

// Describe builds the overlay descriptor of p. versions maps each language
// to its built versions, as returned by project.Versions.
func Describe(p *project.Project, versions map[string][]string) *overlay.Descriptor {
	show := p.ShowNav
	d := &overlay.Descriptor{
		Single:        p.Single,
		DefaultBranch: p.DefaultBranch,
		Latest:        p.Latest,
		Languages:     p.Languages,
		Versions:      versions,
		URL:           p.URL,
		SourceDir:     p.SourceDir,
		ShowNav:       &show,
		HideGit:       p.HideGit,
		GSP:           p.GSP,
		Icon:          p.Icon,
		Builder:       string(p.Builder),
		Public:        p.Public,
	}
	if !p.Public {
		if pub, err := project.PublicURL(p.URL); err == nil {
			d.URL = pub
		}
	}
	// Only the html builder keeps a page-to-source mapping.
	if p.Builder != "" && p.Builder != project.BuilderHTML {
		d.HideGit = true
	}
	if d.Icon == "" {
		d.Icon = overlay.DefaultIcon
	}
	if d.Versions == nil {
		d.Versions = map[string][]string{}
	}
	if project.IsDomain(p.CustomDomain) {
		d.Domain = p.CustomDomain
	}
	if d.DefaultBranch == "" {
		d.DefaultBranch = d.Latest
	}
	return d
}

// StoreFetcher serves descriptors from the project store without a round
// trip through the HTTP API.
type StoreFetcher struct {
	Store   *project.Store
	DocsDir string
}

// FetchDescriptor implements overlay.Fetcher.
func (f *StoreFetcher) FetchDescriptor(ctx context.Context, name string) (*overlay.Descriptor, error) {
	p, err := f.Store.Get(ctx, name)
	if err != nil {
		return nil, err
	}
	return Describe(p, project.Versions(f.DocsDir, p)), nil
}
