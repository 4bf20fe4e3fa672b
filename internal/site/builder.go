package site

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/go-logr/logr"
	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"

	"github.com/rtfdocs/rtfd/internal/overlay"
	"github.com/rtfdocs/rtfd/internal/progress"
	"github.com/rtfdocs/rtfd/internal/project"
	"github.com/rtfdocs/rtfd/internal/walker"
)

var (
	// ErrNoPages is returned when the source dir holds nothing to publish.
	ErrNoPages = errors.New("no pages found")
	// ErrUnknownLanguage is returned for a language the project doesn't declare.
	ErrUnknownLanguage = errors.New("unknown language")
	// ErrReservedBranch is returned when building straight into "latest".
	ErrReservedBranch = errors.New(`branch "latest" is reserved`)
)

// stagingDir under the docs dir holds builds in progress.
const stagingDir = ".building"

// Builder renders documentation sources into the docs tree served by rtfd,
// <DocsDir>/<name>/<lang>/<branch>/.
type Builder struct {
	DocsDir string
	// Include selects the markdown sources rendered to pages. Other
	// markdown is skipped; HTML and assets are copied as they are.
	Include []string
	Exclude []string
	// Loader is written to every page's rtfd-script data attribute. The
	// project name is always set.
	Loader overlay.Config
	// LoaderSrc, when set, adds a script tag loading the browser overlay.
	LoaderSrc string
	Reporter  progress.Reporter
	Log       logr.Logger
}

// Result describes a finished build.
type Result struct {
	Project   string
	Language  string
	Branch    string
	OutputDir string
	Pages     int
	Assets    int
	// Latest is set when the build was also published as "latest".
	Latest   bool
	Duration time.Duration
}

// pageData holds the data passed to the HTML template for each page.
type pageData struct {
	Title       string
	ProjectName string
	Language    string
	Content     template.HTML
	TreeHTML    template.HTML
	BasePath    string
	Loader      string
	LoaderSrc   string
}

// Build renders srcDir as language lang of branch. Empty lang and branch
// default to the project's first language and default branch.
func (b *Builder) Build(ctx context.Context, p *project.Project, lang, branch, srcDir string) (*Result, error) {
	start := time.Now()
	if lang == "" && len(p.Languages) > 0 {
		lang = p.Languages[0]
	}
	if branch == "" {
		branch = p.DefaultBranch
	}
	branch = strings.ToLower(branch)
	if !p.Single && !slices.Contains(p.Languages, lang) {
		return nil, fmt.Errorf("%w %q for %s", ErrUnknownLanguage, lang, p.Name)
	}
	if branch == project.LatestBranch {
		return nil, ErrReservedBranch
	}

	files, err := walker.Walk(walker.WalkerConfig{RootDir: srcDir, Exclude: b.Exclude})
	if err != nil {
		return nil, err
	}

	var rendered, pages, copied []walker.FileInfo
	for _, f := range files {
		switch f.Kind {
		case walker.KindMarkdown:
			if walker.MatchesInclude(f.RelPath, b.Include) {
				rendered = append(rendered, f)
				pages = append(pages, f)
			}
		case walker.KindHTML:
			pages = append(pages, f)
			copied = append(copied, f)
		default:
			copied = append(copied, f)
		}
	}
	if len(pages) == 0 {
		return nil, fmt.Errorf("%w in %s", ErrNoPages, srcDir)
	}

	searchEntries, err := BuildSearchIndex(pages)
	if err != nil {
		return nil, fmt.Errorf("building search index: %w", err)
	}
	entries := make([]TreeEntry, len(pages))
	for i, f := range pages {
		entries[i] = TreeEntry{Path: f.RelPath, Title: searchEntries[i].Title}
		if searchEntries[i].Title == f.RelPath {
			entries[i].Title = ""
		}
	}
	tree := BuildTree(entries)

	tmpl, err := template.New("page").Parse(pageTemplate)
	if err != nil {
		return nil, fmt.Errorf("parsing page template: %w", err)
	}

	outDir := project.OutputDir(b.DocsDir, p, lang, branch)
	staging := filepath.Join(b.DocsDir, stagingDir, strings.Join([]string{p.Name, lang, branch}, "-"))
	if err := os.RemoveAll(staging); err != nil {
		return nil, err
	}
	if err := os.MkdirAll(staging, 0o755); err != nil {
		return nil, err
	}
	defer os.RemoveAll(staging)

	reporter := b.Reporter
	if reporter == nil {
		reporter = progress.Nop{}
	}
	reporter.Start(len(rendered)+len(copied), "Building "+p.Name)

	r := &pageRenderer{
		md:   newMarkdown(),
		tmpl: tmpl,
		tree: tree,
		out:  staging,
		data: pageData{
			ProjectName: p.Name,
			Language:    lang,
			Loader:      overlay.Config{overlay.KeyName: p.Name}.Merge(b.Loader).Encode(),
			LoaderSrc:   b.LoaderSrc,
		},
	}

	done := 0
	for _, f := range rendered {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := r.render(f); err != nil {
			return nil, fmt.Errorf("rendering %s: %w", f.RelPath, err)
		}
		done++
		reporter.Update(done, f.RelPath)
	}
	for _, f := range copied {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := copyFile(f.Path, filepath.Join(staging, filepath.FromSlash(f.RelPath))); err != nil {
			return nil, fmt.Errorf("copying %s: %w", f.RelPath, err)
		}
		done++
		reporter.Update(done, f.RelPath)
	}

	if err := WriteSearchIndex(searchEntries, filepath.Join(staging, "search-index.json")); err != nil {
		return nil, fmt.Errorf("writing search index: %w", err)
	}
	if err := os.WriteFile(filepath.Join(staging, "style.css"), []byte(cssContent), 0o644); err != nil {
		return nil, err
	}
	if err := os.WriteFile(filepath.Join(staging, "script.js"), []byte(jsContent), 0o644); err != nil {
		return nil, err
	}
	reporter.Finish()

	if err := os.RemoveAll(outDir); err != nil {
		return nil, err
	}
	if err := os.MkdirAll(filepath.Dir(outDir), 0o755); err != nil {
		return nil, err
	}
	if err := os.Rename(staging, outDir); err != nil {
		return nil, fmt.Errorf("publishing %s: %w", outDir, err)
	}

	res := &Result{
		Project:   p.Name,
		Language:  lang,
		Branch:    branch,
		OutputDir: outDir,
		Pages:     len(pages),
		Assets:    len(copied) - (len(pages) - len(rendered)),
	}

	if !p.Single && branch == strings.ToLower(p.Latest) {
		latestDir := project.OutputDir(b.DocsDir, p, lang, project.LatestBranch)
		if err := os.RemoveAll(latestDir); err != nil {
			return nil, err
		}
		if err := copyTree(outDir, latestDir); err != nil {
			return nil, fmt.Errorf("publishing latest: %w", err)
		}
		res.Latest = true
	}

	res.Duration = time.Since(start)
	b.Log.Info("built docs", "project", p.Name, "lang", lang, "branch", branch,
		"pages", res.Pages, "assets", res.Assets, "latest", res.Latest, "duration", res.Duration)
	return res, nil
}

type pageRenderer struct {
	md   goldmark.Markdown
	tmpl *template.Template
	tree *FileTree
	out  string
	data pageData
}

// render converts a single markdown file to an HTML page.
func (r *pageRenderer) render(f walker.FileInfo) error {
	content, err := os.ReadFile(f.Path)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := r.md.Convert(content, &buf); err != nil {
		return fmt.Errorf("converting markdown: %w", err)
	}

	htmlRel := pagePath(f.RelPath)
	outPath := filepath.Join(r.out, filepath.FromSlash(htmlRel))
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return err
	}

	basePath := strings.Repeat("../", strings.Count(htmlRel, "/"))
	data := r.data
	data.Title = extractTitle(string(content), f.RelPath)
	data.Content = template.HTML(buf.String())
	data.TreeHTML = template.HTML(r.tree.ToHTML(f.RelPath, basePath))
	data.BasePath = basePath

	out, err := os.Create(outPath)
	if err != nil {
		return err
	}
	defer out.Close()
	return r.tmpl.Execute(out, data)
}

func newMarkdown() goldmark.Markdown {
	return goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,
			highlighting.NewHighlighting(
				highlighting.WithStyle("github"),
			),
		),
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(),
			parser.WithASTTransformers(util.Prioritized(linkRewriter{}, 100)),
		),
		goldmark.WithRendererOptions(
			html.WithUnsafe(),
		),
	)
}

// linkRewriter points relative links to markdown sources at their pages.
type linkRewriter struct{}

func (linkRewriter) Transform(doc *ast.Document, _ text.Reader, _ parser.Context) {
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		if link, ok := n.(*ast.Link); ok {
			link.Destination = []byte(rewriteLink(string(link.Destination)))
		}
		return ast.WalkContinue, nil
	})
}

// rewriteLink maps "guide/setup.md#x" to "guide/setup.html#x". Absolute
// URLs and fragments are left alone.
func rewriteLink(dest string) string {
	if dest == "" || strings.HasPrefix(dest, "#") || strings.Contains(dest, ":") {
		return dest
	}
	target, frag, hasFrag := strings.Cut(dest, "#")
	if walker.DetectKind(target) != walker.KindMarkdown {
		return dest
	}
	target = pagePath(target)
	if hasFrag {
		return target + "#" + frag
	}
	return target
}

// pagePath is the output path of a page source.
func pagePath(rel string) string {
	if walker.DetectKind(rel) == walker.KindMarkdown {
		return strings.TrimSuffix(rel, path.Ext(rel)) + ".html"
	}
	return rel
}

// pageExt is the extension stripped from a page's display name.
func pageExt(name string) string {
	if walker.DetectKind(name).IsPage() {
		return path.Ext(name)
	}
	return ""
}

// extractTitle pulls the first # heading from markdown content, or falls back to the filename.
func extractTitle(content, relPath string) string {
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "# ") {
			return strings.TrimPrefix(line, "# ")
		}
	}
	base := path.Base(relPath)
	return strings.TrimSuffix(base, path.Ext(base))
}

func copyFile(src, dst string) error {
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()
	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

func copyTree(src, dst string) error {
	return filepath.WalkDir(src, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(src, p)
		if err != nil {
			return err
		}
		if d.IsDir() {
			return os.MkdirAll(filepath.Join(dst, rel), 0o755)
		}
		return copyFile(p, filepath.Join(dst, rel))
	})
}
