package site

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"

	"github.com/rtfdocs/rtfd/internal/overlay"
	"github.com/rtfdocs/rtfd/internal/project"
	"github.com/rtfdocs/rtfd/internal/walker"
)

func sampleDocs(t *testing.T) string {
	t.Helper()
	_, filename, _, ok := runtime.Caller(0)
	require.True(t, ok, "unable to determine test file location")
	return filepath.Join(filepath.Dir(filename), "..", "..", "testdata", "sample_docs")
}

func demoProject(t *testing.T) *project.Project {
	t.Helper()
	p, err := project.New("demo", "https://github.com/acme/demo", "master")
	require.NoError(t, err)
	p.Latest = "v2"
	p.Languages = []string{"en", "zh_CN"}
	return p
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func TestBuild(t *testing.T) {
	docs := t.TempDir()
	b := &Builder{
		DocsDir:   docs,
		Include:   []string{"**/*.md"},
		Loader:    overlay.Config{overlay.KeyAPI: "https://docs.acme.io", overlay.KeyName: "ignored"},
		LoaderSrc: "/rtfd/assets/rtfd.js",
	}

	res, err := b.Build(context.Background(), demoProject(t), "en", "V1", sampleDocs(t))
	require.NoError(t, err)

	assert.Equal(t, "v1", res.Branch, "branch is lower-cased")
	assert.Equal(t, 4, res.Pages)
	assert.Equal(t, 1, res.Assets)
	assert.False(t, res.Latest, "v1 is not the latest branch")

	out := filepath.Join(docs, "demo", "en", "v1")
	assert.Equal(t, out, res.OutputDir)
	for _, name := range []string{
		"index.html", "guide/setup.html", "guide/install.html", "raw.html",
		"images/logo.png", "style.css", "script.js", "search-index.json",
	} {
		assert.FileExists(t, filepath.Join(out, filepath.FromSlash(name)))
	}
	assert.NoDirExists(t, filepath.Join(out, "drafts"), "gitignored drafts were published")
	assert.NoDirExists(t, filepath.Join(docs, stagingDir, "demo-en-v1"), "staging dir was left behind")

	assert.Equal(t,
		readFile(t, filepath.Join(sampleDocs(t), "images", "logo.png")),
		readFile(t, filepath.Join(out, "images", "logo.png")),
		"binary asset was not copied verbatim")
	assert.NotContains(t, readFile(t, filepath.Join(out, "raw.html")), "rtfd-script",
		"hand written HTML is copied unchanged")
}

func TestBuildPageCarriesLoader(t *testing.T) {
	docs := t.TempDir()
	b := &Builder{
		DocsDir:   docs,
		Include:   []string{"**/*.md"},
		Loader:    overlay.Config{overlay.KeyAPI: "https://docs.acme.io"},
		LoaderSrc: "/rtfd/assets/rtfd.js",
	}
	_, err := b.Build(context.Background(), demoProject(t), "en", "v1", sampleDocs(t))
	require.NoError(t, err)

	page := readFile(t, filepath.Join(docs, "demo", "en", "v1", "guide", "setup.html"))
	doc, err := html.Parse(strings.NewReader(page))
	require.NoError(t, err)

	cfg := overlay.ResolveConfig(doc)
	assert.Equal(t, "demo", cfg[overlay.KeyName])
	assert.Equal(t, "https://docs.acme.io", cfg[overlay.KeyAPI])
	assert.Contains(t, page, `<script src="/rtfd/assets/rtfd.js" defer></script>`)
	assert.Contains(t, page, `<title>Setup - demo</title>`)
	assert.Contains(t, page, `href="../style.css"`, "nested pages reference the stylesheet relatively")
	assert.Contains(t, page, `class="active">Setup</a>`)

	index := readFile(t, filepath.Join(docs, "demo", "en", "v1", "index.html"))
	assert.Contains(t, index, `href="guide/setup.html"`)
	assert.Contains(t, index, `href="guide/install.html#linux"`)
}

func TestBuildLatestCopy(t *testing.T) {
	docs := t.TempDir()
	b := &Builder{DocsDir: docs, Include: []string{"**/*.md"}}
	res, err := b.Build(context.Background(), demoProject(t), "zh_CN", "v2", sampleDocs(t))
	require.NoError(t, err)
	assert.True(t, res.Latest, "building the latest branch publishes latest")
	assert.FileExists(t, filepath.Join(docs, "demo", "zh_CN", "latest", "guide", "setup.html"))

	got := project.Versions(docs, demoProject(t))
	assert.Equal(t, []string{"latest", "v2"}, got["zh_CN"])
}

func TestBuildSingle(t *testing.T) {
	docs := t.TempDir()
	p := demoProject(t)
	p.Single = true

	res, err := (&Builder{DocsDir: docs}).Build(context.Background(), p, "", "", sampleDocs(t))
	require.NoError(t, err)
	assert.False(t, res.Latest, "single projects have no latest copy")
	assert.FileExists(t, filepath.Join(docs, "demo", "index.html"))
}

func TestBuildErrors(t *testing.T) {
	docs := t.TempDir()
	b := &Builder{DocsDir: docs, Include: []string{"**/*.md"}}
	ctx := context.Background()

	_, err := b.Build(ctx, demoProject(t), "fr", "v1", sampleDocs(t))
	assert.ErrorIs(t, err, ErrUnknownLanguage)
	_, err = b.Build(ctx, demoProject(t), "en", "Latest", sampleDocs(t))
	assert.ErrorIs(t, err, ErrReservedBranch)
	_, err = b.Build(ctx, demoProject(t), "en", "v1", t.TempDir())
	assert.ErrorIs(t, err, ErrNoPages)

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	_, err = b.Build(cancelled, demoProject(t), "en", "v1", sampleDocs(t))
	assert.ErrorIs(t, err, context.Canceled)
	assert.NoDirExists(t, filepath.Join(docs, "demo", "en", "v1"), "cancelled build must not publish")
}

func TestSearchIndex(t *testing.T) {
	files, err := walker.Walk(walker.WalkerConfig{RootDir: sampleDocs(t)})
	require.NoError(t, err)
	entries, err := BuildSearchIndex(files)
	require.NoError(t, err)

	byPath := map[string]SearchEntry{}
	for _, e := range entries {
		byPath[e.Path] = e
	}
	assert.NotContains(t, byPath, "images/logo.png", "assets are not indexed")

	setup := byPath["guide/setup.html"]
	assert.Equal(t, "Setup", setup.Title)
	assert.Equal(t, "Configure the demo before first use.", setup.Summary)

	raw := byPath["raw.html"]
	assert.Equal(t, "Raw", raw.Title)
	assert.Equal(t, "Hand written page.", raw.Content)

	path := filepath.Join(t.TempDir(), "search-index.json")
	require.NoError(t, WriteSearchIndex(entries, path))
	var decoded []SearchEntry
	require.NoError(t, json.Unmarshal([]byte(readFile(t, path)), &decoded))
	assert.Len(t, decoded, len(entries))
}

func TestRewriteLink(t *testing.T) {
	tests := map[string]string{
		"guide/setup.md":           "guide/setup.html",
		"guide/setup.md#opts":      "guide/setup.html#opts",
		"../README.markdown":       "../README.html",
		"#top":                     "#top",
		"https://example.com/a.md": "https://example.com/a.md",
		"mailto:a@b.c":             "mailto:a@b.c",
		"images/logo.png":          "images/logo.png",
	}
	for in, want := range tests {
		assert.Equal(t, want, rewriteLink(in), in)
	}
}

func TestBuildTree(t *testing.T) {
	tree := BuildTree([]TreeEntry{
		{Path: "index.md", Title: "Demo"},
		{Path: "getting-started/setup.md", Title: "Setup"},
		{Path: "raw.html"},
	})
	out := tree.ToHTML("getting-started/setup.md", "../")

	assert.Contains(t, out, `<a href="../index.html">Home</a>`)
	assert.Contains(t, out, `<li class="dir expanded"><span class="dir-toggle">Getting Started</span>`,
		"active directory is expanded")
	assert.Contains(t, out, `<a href="../getting-started/setup.html" class="active">Setup</a>`)
	assert.Contains(t, out, `<a href="../raw.html">raw</a>`, "untitled pages fall back to their file name")
	assert.Less(t, strings.Index(out, "Getting Started"), strings.Index(out, "raw</a>"),
		"directories come before files")
}

func TestExtractTitle(t *testing.T) {
	assert.Equal(t, "Hello", extractTitle("intro\n# Hello\n", "a.md"))
	assert.Equal(t, "setup", extractTitle("no heading", "guide/setup.md"))
}
