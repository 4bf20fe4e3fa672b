package site

import (
	"bufio"
	"bytes"
	"encoding/json"
	"os"
	"strings"
	"unicode/utf8"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/rtfdocs/rtfd/internal/walker"
)

// maxSearchContent bounds the text kept per page.
const maxSearchContent = 2000

// SearchEntry represents a single searchable page in the documentation.
type SearchEntry struct {
	Path    string `json:"path"`
	Title   string `json:"title"`
	Summary string `json:"summary"`
	Content string `json:"content"`
}

// BuildSearchIndex extracts a search entry from every page.
func BuildSearchIndex(pages []walker.FileInfo) ([]SearchEntry, error) {
	entries := make([]SearchEntry, 0, len(pages))
	for _, f := range pages {
		var (
			entry SearchEntry
			err   error
		)
		switch f.Kind {
		case walker.KindMarkdown:
			entry, err = parseMarkdownForSearch(f.Path)
		case walker.KindHTML:
			entry, err = parseHTMLForSearch(f.Path)
		default:
			continue
		}
		if err != nil {
			return nil, err
		}
		entry.Path = pagePath(f.RelPath)
		if entry.Title == "" {
			entry.Title = f.RelPath
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// parseMarkdownForSearch takes the first H1 as title and the first
// paragraph line after it as summary.
func parseMarkdownForSearch(filePath string) (SearchEntry, error) {
	f, err := os.Open(filePath)
	if err != nil {
		return SearchEntry{}, err
	}
	defer f.Close()

	var entry SearchEntry
	var words []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if entry.Title == "" && strings.HasPrefix(line, "# ") {
			entry.Title = strings.TrimPrefix(line, "# ")
			continue
		}
		if entry.Title != "" && entry.Summary == "" && !strings.HasPrefix(line, "#") {
			entry.Summary = line
		}
		words = append(words, line)
	}
	if err := scanner.Err(); err != nil {
		return SearchEntry{}, err
	}

	entry.Content = truncate(strings.Join(words, " "), maxSearchContent)
	return entry, nil
}

// parseHTMLForSearch uses <title> (or the first <h1>) and the body text.
func parseHTMLForSearch(filePath string) (SearchEntry, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return SearchEntry{}, err
	}
	doc, err := html.Parse(bytes.NewReader(data))
	if err != nil {
		return SearchEntry{}, err
	}

	var entry SearchEntry
	var text []string
	var walk func(n *html.Node, inBody bool)
	walk = func(n *html.Node, inBody bool) {
		if n.Type == html.ElementNode {
			switch n.DataAtom {
			case atom.Script, atom.Style:
				return
			case atom.Title:
				if entry.Title == "" {
					entry.Title = strings.TrimSpace(textOf(n))
				}
				return
			case atom.H1:
				if entry.Title == "" {
					entry.Title = strings.TrimSpace(textOf(n))
				}
			case atom.Body:
				inBody = true
			}
		}
		if n.Type == html.TextNode && inBody {
			if s := strings.Join(strings.Fields(n.Data), " "); s != "" {
				text = append(text, s)
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c, inBody)
		}
	}
	walk(doc, false)

	entry.Content = truncate(strings.Join(text, " "), maxSearchContent)
	return entry, nil
}

func textOf(n *html.Node) string {
	var b strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.TextNode {
			b.WriteString(c.Data)
		} else {
			b.WriteString(textOf(c))
		}
	}
	return b.String()
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	s = s[:n]
	for !utf8.ValidString(s) {
		s = s[:len(s)-1]
	}
	return s
}

// WriteSearchIndex writes the search index as JSON to the given path.
func WriteSearchIndex(entries []SearchEntry, outputPath string) error {
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(outputPath, data, 0o644)
}
