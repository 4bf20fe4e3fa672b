package walker

import (
	"path/filepath"
	"strings"
)

// Kind classifies a file of a documentation tree.
type Kind string

const (
	// KindMarkdown files are rendered to HTML pages.
	KindMarkdown Kind = "markdown"
	// KindHTML files are published as pages as they are.
	KindHTML Kind = "html"
	// KindAsset files are copied unchanged.
	KindAsset Kind = "asset"
)

var extensionToKind = map[string]Kind{
	".md":       KindMarkdown,
	".markdown": KindMarkdown,
	".mdown":    KindMarkdown,
	".mkd":      KindMarkdown,
	".html":     KindHTML,
	".htm":      KindHTML,
}

// DetectKind returns the kind of a file by its name or path.
func DetectKind(name string) Kind {
	if k, ok := extensionToKind[strings.ToLower(filepath.Ext(name))]; ok {
		return k
	}
	return KindAsset
}

// IsPage reports whether files of kind k are served as pages.
func (k Kind) IsPage() bool {
	return k == KindMarkdown || k == KindHTML
}
