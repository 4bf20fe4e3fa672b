package overlay

import (
	"net/url"
	"sort"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Recognized config keys.
const (
	KeyName      = "name"
	KeyAPI       = "rtfd_api"
	KeyStatic    = "rtfd_static"
	KeyAPINoFill = "api_no_fill"
)

const (
	// ScriptID is the id of the element whose data attribute carries the config.
	ScriptID = "rtfd-script"
	// LoaderName identifies the loader script by its src.
	LoaderName = "rtfd.js"
	// APIPath is appended to rtfd_api unless api_no_fill is "yes".
	APIPath = "/rtfd/api"
)

// Config is the widget configuration read from the hosting page.
type Config map[string]string

// Get returns the value of key, or def when it is missing or empty.
func (c Config) Get(key, def string) string {
	if v := c[key]; v != "" {
		return v
	}
	return def
}

// Merge returns a copy of c with keys missing from c taken from defaults.
func (c Config) Merge(defaults Config) Config {
	out := make(Config, len(c)+len(defaults))
	for k, v := range defaults {
		out[k] = v
	}
	for k, v := range c {
		if v != "" || out[k] == "" {
			out[k] = v
		}
	}
	return out
}

// Encode renders c in the key=value&key=value form ParseConfig reads.
// Known keys come first, the rest sorted, so pages are byte-stable.
func (c Config) Encode() string {
	var parts []string
	seen := map[string]bool{}
	for _, k := range []string{KeyName, KeyAPI, KeyStatic, KeyAPINoFill} {
		if v, ok := c[k]; ok {
			parts = append(parts, escape(k)+"="+escape(v))
			seen[k] = true
		}
	}
	var rest []string
	for k := range c {
		if !seen[k] {
			rest = append(rest, k)
		}
	}
	sort.Strings(rest)
	for _, k := range rest {
		parts = append(parts, escape(k)+"="+escape(c[k]))
	}
	return strings.Join(parts, "&")
}

func escape(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}

// ParseConfig parses a "key=value&key=value" string. Keys and values are
// percent-decoded; a pair without "=" gets an empty value.
func ParseConfig(s string) Config {
	cfg := Config{}
	for _, pair := range strings.Split(s, "&") {
		if pair == "" {
			continue
		}
		k, v, _ := strings.Cut(pair, "=")
		k = unescape(k)
		if k == "" {
			continue
		}
		cfg[k] = unescape(v)
	}
	return cfg
}

func unescape(s string) string {
	if u, err := url.PathUnescape(s); err == nil {
		return u
	}
	return s
}

// ResolveConfig reads the widget configuration from doc. The data attribute
// of the #rtfd-script element wins; otherwise the query string of the last
// script whose src names the loader is used. The result is empty, never nil,
// when neither source yields data.
func ResolveConfig(doc *html.Node) Config {
	if el := findByID(doc, ScriptID); el != nil {
		return ParseConfig(attr(el, "data"))
	}

	var src string
	walk(doc, func(n *html.Node) bool {
		if n.Type == html.ElementNode && n.DataAtom == atom.Script {
			if s := attr(n, "src"); strings.Contains(s, LoaderName) {
				src = s
			}
		}
		return true
	})
	if src == "" {
		return Config{}
	}
	_, query, ok := strings.Cut(src, "?")
	if !ok {
		return Config{}
	}
	query, _, _ = strings.Cut(query, "#")
	return ParseConfig(query)
}

// ComposeAPIURL returns the describe endpoint for cfg: rtfd_api, plus
// APIPath unless api_no_fill is "yes".
func ComposeAPIURL(cfg Config) string {
	api := cfg[KeyAPI]
	if cfg.Get(KeyAPINoFill, "no") == "yes" {
		return api
	}
	return strings.TrimSuffix(api, "/") + APIPath
}
