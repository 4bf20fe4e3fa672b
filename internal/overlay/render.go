package overlay

import (
	"bytes"
	"fmt"
	"html/template"
	"path"
	"strings"
)

// LatestBranch is the alias a project's configured latest branch is served under.
const LatestBranch = "latest"

// DefaultIcon is shown in the header when the descriptor carries none.
const DefaultIcon = "data:image/png;base64,iVBORw0KGgoAAAANSUhEUgAAABAAAAAQCAYAAAAf8/9hAAAAlUlEQVQ4T92S0Q0CMQxDnydBtwEbABvcRjAKK7DBscGNwCZGRbSKDigB/uhv4lc7svjxqeptj8AeWL9hTpJ2dScCLsAqY0hS00WA7+ITcJA0p2AhQgUMwBHYdAAtxoODYs92hb1k1BhdQMy6hKYAvRukANHB8lYpwB84+DTCVMrzdQ/ib7ZvsI6Ds6RtmbciZXr/bOcKjCNuESAd+XoAAAAASUVORK5CYII="

// PoweredByURL is linked from the footer of every overlay.
const PoweredByURL = "https://github.com/staugur/rtfd"

// Fragment is rendered overlay markup.
type Fragment string

// State is what the overlay derived from the page path.
type State struct {
	Language  string
	Branch    string
	OtherPath string
	// SourcePath is the source document of the page relative to the source dir.
	SourcePath string
	// Title is the popover title.
	Title string
}

// RenderOptions tune link generation.
type RenderOptions struct {
	// LinkPrefix is prepended to language and version links, for sites
	// served below the host root.
	LinkPrefix string
}

type link struct {
	Label  string
	Href   string
	Active bool
}

type fragmentData struct {
	Icon      any
	Branch    string
	Title     string
	Multi     bool
	Languages []link
	Versions  []link
	ShowGit   bool
	GSP       string
	Sources   []link
	Powered   string
}

var fragmentTmpl = template.Must(template.New("rtfd").Parse(
	`<div id="rtfd" class="rtfd">` +
		`<div id="rtfd-header" data-title="{{.Title}}"><img src="{{.Icon}}" alt="rtfd"><span>&nbsp;v: {{.Branch}}&nbsp;</span></div>` +
		`<div id="rtfd-body">` +
		`{{if .Multi}}` +
		`<dl><dt>Languages</dt>{{range .Languages}}<dd{{if .Active}} class="active"{{end}}><a href="{{.Href}}">{{.Label}}</a></dd>{{end}}</dl>` +
		`<dl><dt>Versions</dt>{{range .Versions}}<dd{{if .Active}} class="active"{{end}}><a href="{{.Href}}">{{.Label}}</a></dd>{{end}}</dl>` +
		`{{end}}` +
		`{{if .ShowGit}}<dl><dt>On {{.GSP}}</dt>{{range .Sources}}<dd><a href="{{.Href}}">{{.Label}}</a></dd>{{end}}</dl>{{end}}` +
		`<hr><small class="footer"><span>Powered by <a href="{{.Powered}}">rtfd</a></span></small>` +
		`</div></div>`))

// Render builds the overlay for the page at currentPath.
func Render(d *Descriptor, currentPath string) (Fragment, State, error) {
	return RenderWith(d, currentPath, RenderOptions{})
}

// RenderWith is Render with options.
func RenderWith(d *Descriptor, currentPath string, opts RenderOptions) (Fragment, State, error) {
	if d == nil {
		return "", State{}, fmt.Errorf("%w: nil descriptor", ErrMalformed)
	}

	st := ParsePath(currentPath, d.Single)
	data := fragmentData{
		Icon:    iconSrc(d.Icon),
		Branch:  st.Branch,
		Multi:   !d.Single,
		ShowGit: !d.HideGit,
		GSP:     d.GSP,
		Powered: PoweredByURL,
	}
	if data.GSP == "" {
		data.GSP = "Git"
	}

	if !d.Single {
		versions, ok := d.Versions[st.Language]
		if !ok {
			return "", State{}, fmt.Errorf("%w: no versions for language %q", ErrMalformed, st.Language)
		}
		prefix := strings.TrimSuffix(opts.LinkPrefix, "/")
		for _, lang := range d.Languages {
			data.Languages = append(data.Languages, link{
				Label:  lang,
				Href:   prefix + "/" + lang + "/" + LatestBranch + "/" + st.OtherPath,
				Active: lang == st.Language,
			})
		}
		for _, ver := range versions {
			data.Versions = append(data.Versions, link{
				Label:  ver,
				Href:   prefix + "/" + st.Language + "/" + ver + "/" + st.OtherPath,
				Active: ver == st.Branch,
			})
		}
	}

	st.Title = "Version: " + st.Branch
	if st.Branch == LatestBranch && d.Latest != "" {
		st.Title += " -> " + d.Latest
	}
	data.Title = st.Title

	if data.ShowGit {
		data.Sources = sourceLinks(d, st)
	}

	var buf bytes.Buffer
	if err := fragmentTmpl.Execute(&buf, data); err != nil {
		return "", State{}, fmt.Errorf("rendering overlay: %w", err)
	}
	return Fragment(buf.String()), st, nil
}

// ParsePath splits a page path into language, branch and the remainder.
// Single-version sites have no language or branch segments. A missing
// leading slash is assumed.
func ParsePath(p string, single bool) State {
	segs := strings.Split("/"+strings.TrimPrefix(p, "/"), "/")
	var st State
	if single {
		st.Branch = LatestBranch
		if len(segs) > 1 {
			st.OtherPath = strings.Join(segs[1:], "/")
		}
	} else {
		if len(segs) > 1 {
			st.Language = segs[1]
		}
		if len(segs) > 2 {
			st.Branch = segs[2]
		}
		if len(segs) > 3 {
			st.OtherPath = strings.Join(segs[3:], "/")
		}
	}
	st.SourcePath = SourcePath(st.OtherPath)
	return st
}

// SourcePath maps a page path to its source document: the first ".html"
// becomes ".rst" and an empty path is the index.
func SourcePath(otherPath string) string {
	if otherPath == "" {
		return "index.rst"
	}
	return strings.Replace(otherPath, ".html", ".rst", 1)
}

// IsDefaultBranch reports whether branch shows the default branch, either
// directly or through the latest alias.
func IsDefaultBranch(d *Descriptor, branch string) bool {
	return branch == d.DefaultBranch || (branch == LatestBranch && d.Latest == d.DefaultBranch)
}

func sourceLinks(d *Descriptor, st State) []link {
	base := strings.TrimSuffix(d.URL, "/")
	blob := func(kind, branch string) string {
		return base + "/" + path.Join(kind, branch, d.SourceDir, st.SourcePath)
	}
	if d.Single || IsDefaultBranch(d, st.Branch) {
		return []link{
			{Label: "View", Href: blob("blob", d.DefaultBranch)},
			{Label: "Edit", Href: blob("edit", d.DefaultBranch)},
		}
	}
	return []link{{Label: "View", Href: blob("blob", st.Branch)}}
}

// iconSrc lets data:image URIs through html/template's URL filter.
func iconSrc(icon string) any {
	if icon == "" {
		icon = DefaultIcon
	}
	if strings.HasPrefix(icon, "data:image/") {
		return template.URL(icon)
	}
	return icon
}
