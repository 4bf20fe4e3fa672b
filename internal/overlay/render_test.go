package overlay

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func multiDescriptor() *Descriptor {
	show := true
	return &Descriptor{
		DefaultBranch: "master",
		Latest:        "master",
		Languages:     []string{"en", "zh_CN"},
		Versions: map[string][]string{
			"en":    {"latest", "master", "v2"},
			"zh_CN": {"latest", "master"},
		},
		URL:       "https://github.com/acme/demo",
		SourceDir: "docs",
		ShowNav:   &show,
		GSP:       "GitHub",
	}
}

func TestParsePath(t *testing.T) {
	st := ParsePath("/en/v2/guide/setup.html", false)
	assert.Equal(t, "en", st.Language)
	assert.Equal(t, "v2", st.Branch)
	assert.Equal(t, "guide/setup.html", st.OtherPath)
	assert.Equal(t, "guide/setup.rst", st.SourcePath)

	st = ParsePath("/en/latest/", false)
	assert.Equal(t, "latest", st.Branch)
	assert.Equal(t, "", st.OtherPath)
	assert.Equal(t, "index.rst", st.SourcePath)

	st = ParsePath("/en", false)
	assert.Equal(t, "en", st.Language)
	assert.Equal(t, "", st.Branch)

	st = ParsePath("/guide/a.html", true)
	assert.Equal(t, LatestBranch, st.Branch)
	assert.Equal(t, "guide/a.html", st.OtherPath)
	assert.Equal(t, "guide/a.rst", st.SourcePath)

	st = ParsePath("/", true)
	assert.Equal(t, "index.rst", st.SourcePath)
}

func TestParsePathWithoutLeadingSlash(t *testing.T) {
	assert.Equal(t, ParsePath("/en/v2/x.html", false), ParsePath("en/v2/x.html", false))
	assert.Equal(t, ParsePath("/guide/a.html", true), ParsePath("guide/a.html", true))

	st := ParsePath("", false)
	assert.Equal(t, "", st.Language)
	assert.Equal(t, "index.rst", st.SourcePath)
}

func TestSourcePathReplacesFirstHTML(t *testing.T) {
	assert.Equal(t, "a.rst/b.html", SourcePath("a.html/b.html"))
	assert.Equal(t, "guide/", SourcePath("guide/"))
}

func TestRenderMarksActiveLanguageAndVersion(t *testing.T) {
	frag, st, err := Render(multiDescriptor(), "/en/v2/guide/setup.html")
	require.NoError(t, err)
	out := string(frag)

	assert.Equal(t, "guide/setup.rst", st.SourcePath)
	assert.True(t, strings.HasPrefix(out, `<div id="rtfd" class="rtfd">`))
	assert.Contains(t, out, `<dd class="active"><a href="/en/latest/guide/setup.html">en</a></dd>`)
	assert.Contains(t, out, `<dd><a href="/zh_CN/latest/guide/setup.html">zh_CN</a></dd>`)
	assert.Contains(t, out, `<dd class="active"><a href="/en/v2/guide/setup.html">v2</a></dd>`)
	assert.Contains(t, out, `<dd><a href="/en/master/guide/setup.html">master</a></dd>`)
	assert.Contains(t, out, "v: v2")

	// v2 is not the default branch: only a View link pinned to v2.
	assert.Contains(t, out, `href="https://github.com/acme/demo/blob/v2/docs/guide/setup.rst">View</a>`)
	assert.NotContains(t, out, ">Edit</a>")
	assert.Contains(t, out, "<dt>On GitHub</dt>")
	assert.Contains(t, out, "Powered by")
}

func TestRenderDefaultBranchHasEditLink(t *testing.T) {
	d := multiDescriptor()

	for _, p := range []string{"/en/master/", "/en/latest/"} {
		frag, st, err := Render(d, p)
		require.NoError(t, err)
		out := string(frag)
		assert.Equal(t, "index.rst", st.SourcePath)
		assert.Contains(t, out, `href="https://github.com/acme/demo/blob/master/docs/index.rst">View</a>`, p)
		assert.Contains(t, out, `href="https://github.com/acme/demo/edit/master/docs/index.rst">Edit</a>`, p)
	}

	// latest points elsewhere: no edit link.
	d.Latest = "v2"
	frag, st, err := Render(d, "/en/latest/")
	require.NoError(t, err)
	assert.NotContains(t, string(frag), ">Edit</a>")
	assert.Contains(t, string(frag), "/blob/latest/docs/index.rst")
	assert.Equal(t, "Version: latest -> v2", st.Title)
}

func TestRenderTitle(t *testing.T) {
	_, st, err := Render(multiDescriptor(), "/en/v2/")
	require.NoError(t, err)
	assert.Equal(t, "Version: v2", st.Title)

	frag, st, err := Render(multiDescriptor(), "/en/latest/")
	require.NoError(t, err)
	assert.Equal(t, "Version: latest -> master", st.Title)
	assert.Contains(t, string(frag), `data-title="Version: latest -&gt; master"`)
}

func TestRenderHideGit(t *testing.T) {
	d := multiDescriptor()
	d.HideGit = true
	frag, _, err := Render(d, "/en/master/a.html")
	require.NoError(t, err)
	assert.NotContains(t, string(frag), "On GitHub")
	assert.NotContains(t, string(frag), "View")
}

func TestRenderSingle(t *testing.T) {
	d := &Descriptor{
		Single:        true,
		DefaultBranch: "main",
		URL:           "https://gitee.com/acme/demo/",
		GSP:           "Gitee",
	}
	frag, st, err := Render(d, "/guide/a.html")
	require.NoError(t, err)
	out := string(frag)

	assert.Equal(t, LatestBranch, st.Branch)
	assert.NotContains(t, out, "Languages")
	assert.NotContains(t, out, "Versions")
	assert.Contains(t, out, `href="https://gitee.com/acme/demo/blob/main/guide/a.rst">View</a>`)
	assert.Contains(t, out, `href="https://gitee.com/acme/demo/edit/main/guide/a.rst">Edit</a>`)
}

func TestRenderMalformed(t *testing.T) {
	_, _, err := Render(multiDescriptor(), "/fr/latest/")
	assert.True(t, errors.Is(err, ErrMalformed))

	_, _, err = Render(nil, "/")
	assert.True(t, errors.Is(err, ErrMalformed))
}

func TestRenderEscapes(t *testing.T) {
	d := multiDescriptor()
	d.GSP = `<script>alert(1)</script>`
	d.Versions["en"] = append(d.Versions["en"], `"><img onerror=x>`)
	frag, _, err := Render(d, "/en/master/")
	require.NoError(t, err)
	out := string(frag)
	assert.NotContains(t, out, "<script>")
	assert.NotContains(t, out, "<img onerror")
}

func TestRenderIcon(t *testing.T) {
	frag, _, err := Render(multiDescriptor(), "/en/master/")
	require.NoError(t, err)
	assert.Contains(t, string(frag), `src="data:image/png;base64,iVBOR`)

	d := multiDescriptor()
	d.Icon = "javascript:alert(1)"
	frag, _, err = Render(d, "/en/master/")
	require.NoError(t, err)
	assert.NotContains(t, string(frag), "javascript:")
}

func TestRenderLinkPrefix(t *testing.T) {
	frag, _, err := RenderWith(multiDescriptor(), "/en/master/a.html", RenderOptions{LinkPrefix: "/docs/demo/"})
	require.NoError(t, err)
	assert.Contains(t, string(frag), `href="/docs/demo/zh_CN/latest/a.html"`)
	assert.Contains(t, string(frag), `href="/docs/demo/en/v2/a.html"`)
}
