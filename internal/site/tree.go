package site

import (
	"fmt"
	"html"
	"sort"
	"strings"
)

// TreeEntry is one page shown in the sidebar.
type TreeEntry struct {
	Path  string // Source path relative to the source dir, slash separated.
	Title string // Display name; empty falls back to the file name.
}

// FileTree is a node of the sidebar navigation.
type FileTree struct {
	Name     string
	Title    string
	Path     string // Files: source path. Directories: directory path.
	IsDir    bool
	Children []*FileTree
}

// BuildTree arranges pages into a directory tree.
func BuildTree(pages []TreeEntry) *FileTree {
	root := &FileTree{Name: "", IsDir: true}
	index := map[string]*FileTree{"": root}

	for _, pg := range pages {
		parts := strings.Split(pg.Path, "/")
		parent := root
		for i := range parts[:len(parts)-1] {
			dir := strings.Join(parts[:i+1], "/")
			node, ok := index[dir]
			if !ok {
				node = &FileTree{Name: parts[i], Title: formatDirName(parts[i]), Path: dir, IsDir: true}
				index[dir] = node
				parent.Children = append(parent.Children, node)
			}
			parent = node
		}
		parent.Children = append(parent.Children, &FileTree{
			Name:  parts[len(parts)-1],
			Title: pg.Title,
			Path:  pg.Path,
		})
	}

	sortTree(root)
	return root
}

// sortTree orders directories before files, each alphabetically.
func sortTree(node *FileTree) {
	sort.Slice(node.Children, func(i, j int) bool {
		if node.Children[i].IsDir != node.Children[j].IsDir {
			return node.Children[i].IsDir
		}
		return node.Children[i].Name < node.Children[j].Name
	})
	for _, child := range node.Children {
		if child.IsDir {
			sortTree(child)
		}
	}
}

// ToHTML renders the tree as nested lists. basePath leads from the page
// being rendered back to the output root, e.g. "../" one level deep.
func (t *FileTree) ToHTML(activePath, basePath string) string {
	ancestors := make(map[string]bool)
	parts := strings.Split(activePath, "/")
	for i := 1; i < len(parts); i++ {
		ancestors[strings.Join(parts[:i], "/")] = true
	}

	var b strings.Builder
	homeActive := ""
	if isIndex(activePath) {
		homeActive = ` class="active"`
	}
	fmt.Fprintf(&b, `<ul><li class="file home-link"><a href="%sindex.html"%s>Home</a></li></ul>`+"\n", basePath, homeActive)

	renderChildren(&b, t, activePath, basePath, ancestors)
	return b.String()
}

func renderChildren(b *strings.Builder, node *FileTree, activePath, basePath string, ancestors map[string]bool) {
	if len(node.Children) == 0 {
		return
	}
	b.WriteString("<ul>\n")
	for _, child := range node.Children {
		if child.IsDir {
			expanded := ""
			if ancestors[child.Path] {
				expanded = " expanded"
			}
			fmt.Fprintf(b, `<li class="dir%s"><span class="dir-toggle">%s</span>`+"\n", expanded, html.EscapeString(child.Title))
			renderChildren(b, child, activePath, basePath, ancestors)
			b.WriteString("</li>\n")
			continue
		}
		if isIndex(child.Path) {
			continue
		}
		title := child.Title
		if title == "" {
			title = strings.TrimSuffix(child.Name, pageExt(child.Name))
		}
		active := ""
		if child.Path == activePath {
			active = ` class="active"`
		}
		fmt.Fprintf(b, `<li class="file"><a href="%s%s"%s>%s</a></li>`+"\n",
			basePath, html.EscapeString(pagePath(child.Path)), active, html.EscapeString(title))
	}
	b.WriteString("</ul>\n")
}

func isIndex(p string) bool {
	return p == "index.md" || p == "index.html"
}

// formatDirName title-cases a directory slug: "getting-started" -> "Getting Started".
func formatDirName(name string) string {
	words := strings.FieldsFunc(name, func(c rune) bool {
		return c == '-' || c == '_'
	})
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
