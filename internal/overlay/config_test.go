package overlay

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustParse(t *testing.T, src string) Config {
	t.Helper()
	doc, err := Parse(strings.NewReader(src))
	require.NoError(t, err)
	return ResolveConfig(doc)
}

func TestParseConfig(t *testing.T) {
	cfg := ParseConfig("name=demo&rtfd_api=https%3A%2F%2Fapi.example.com&flag&&=x&a=b=c")
	assert.Equal(t, Config{
		"name":     "demo",
		"rtfd_api": "https://api.example.com",
		"flag":     "",
		"a":        "b=c",
	}, cfg)

	assert.Empty(t, ParseConfig(""))
	// Invalid escapes are kept verbatim.
	assert.Equal(t, "100%", ParseConfig("p=100%")["p"])
	// '+' is not a space.
	assert.Equal(t, "a+b", ParseConfig("q=a+b")["q"])
}

func TestConfigGetAndMerge(t *testing.T) {
	cfg := Config{"name": "demo", "rtfd_static": ""}
	assert.Equal(t, "demo", cfg.Get(KeyName, "x"))
	assert.Equal(t, "def", cfg.Get(KeyStatic, "def"))
	assert.Equal(t, "def", cfg.Get("missing", "def"))

	merged := cfg.Merge(Config{"name": "other", "rtfd_api": "http://a", "rtfd_static": "http://s/"})
	assert.Equal(t, "demo", merged[KeyName])
	assert.Equal(t, "http://a", merged[KeyAPI])
	assert.Equal(t, "http://s/", merged[KeyStatic])
	assert.Equal(t, "", cfg[KeyAPI], "merge must not modify the receiver")
}

func TestConfigEncodeRoundTrip(t *testing.T) {
	cfg := Config{"name": "demo", "rtfd_api": "http://x/a b", "api_no_fill": "yes"}
	enc := cfg.Encode()
	assert.True(t, strings.HasPrefix(enc, "name=demo&rtfd_api="))
	assert.Equal(t, cfg, ParseConfig(enc))
}

func TestResolveConfigFromDataAttribute(t *testing.T) {
	cfg := mustParse(t, `<html><head>
		<script src="/static/rtfd.js?name=fromsrc"></script>
		<script id="rtfd-script" data="name=demo&rtfd_api=http://api"></script>
		</head><body></body></html>`)
	assert.Equal(t, Config{"name": "demo", "rtfd_api": "http://api"}, cfg)
}

func TestResolveConfigDataAttributeMissing(t *testing.T) {
	cfg := mustParse(t, `<html><head>
		<script id="rtfd-script"></script>
		<script src="/rtfd.js?name=fromsrc"></script>
		</head><body></body></html>`)
	assert.Empty(t, cfg)
	assert.NotNil(t, cfg)
}

func TestResolveConfigFromLastLoaderScript(t *testing.T) {
	cfg := mustParse(t, `<html><head>
		<script src="/a/rtfd.js?name=first"></script>
		<script src="/jquery.js?name=nope"></script>
		</head><body>
		<script src="https://cdn.example.com/rtfd.js?name=second&rtfd_api=http%3A%2F%2Fapi#frag"></script>
		<script>var x = 1</script>
		</body></html>`)
	assert.Equal(t, Config{"name": "second", "rtfd_api": "http://api"}, cfg)
}

func TestResolveConfigNothing(t *testing.T) {
	assert.Empty(t, mustParse(t, `<html><body><script src="/app.js?name=x"></script></body></html>`))
	assert.Empty(t, mustParse(t, `<html><body><script src="/rtfd.js"></script></body></html>`))
}

func TestComposeAPIURL(t *testing.T) {
	tests := []struct {
		cfg  Config
		want string
	}{
		{Config{KeyAPI: "https://api.example.com"}, "https://api.example.com/rtfd/api"},
		{Config{KeyAPI: "https://api.example.com/"}, "https://api.example.com/rtfd/api"},
		{Config{KeyAPI: "https://api.example.com", KeyAPINoFill: "no"}, "https://api.example.com/rtfd/api"},
		{Config{KeyAPI: "https://api.example.com/custom", KeyAPINoFill: "yes"}, "https://api.example.com/custom"},
		{Config{}, "/rtfd/api"},
	}
	for _, tt := range tests {
		got := ComposeAPIURL(tt.cfg)
		assert.Equal(t, tt.want, got)
		assert.LessOrEqual(t, strings.Count(got, APIPath), 1)
	}
}
