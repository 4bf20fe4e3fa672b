package overlay

import (
	_ "embed"
	"errors"
	"strings"
	"sync"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

var (
	//go:embed assets/overlay.css
	overlayCSS string

	//go:embed assets/overlay.js
	bindingJS string

	//go:embed assets/rtfd.js
	loaderTemplate string
)

// Element ids of the injected assets.
const (
	StyleID         = "rtfd-style"
	PopoverCSSID    = "rtfd-popover-css"
	PopoverScriptID = "rtfd-popover-js"
	BindingID       = "rtfd-binding"
)

// ErrNoHead is returned when the document has no head element.
var ErrNoHead = errors.New("document has no head")

// BindingScript returns the script that binds the popover to the header.
func BindingScript() string { return bindingJS }

// Stylesheet returns the overlay stylesheet.
func Stylesheet() string { return overlayCSS }

var (
	loaderOnce sync.Once
	loaderJS   string
)

// LoaderScript returns the standalone browser loader served as rtfd.js.
func LoaderScript() string {
	loaderOnce.Do(func() {
		css := strings.Join(strings.Fields(overlayCSS), " ")
		loaderJS = strings.NewReplacer(
			"{{OVERLAY_CSS}}", strings.ReplaceAll(css, "'", `\'`),
			"{{DEFAULT_ICON}}", DefaultIcon,
		).Replace(loaderTemplate)
	})
	return loaderJS
}

// PopoverOptions locate the popover library.
type PopoverOptions struct {
	// Static is the base URL the library is loaded from.
	Static string
	// CSS and JS are resolved against Static unless absolute.
	CSS string
	JS  string
	// BindingURL serves the binding script; it is inlined when empty.
	BindingURL string
}

// AssetURL resolves ref against base. Absolute and scheme-relative refs are
// returned unchanged.
func AssetURL(base, ref string) string {
	if strings.Contains(ref, "://") || strings.HasPrefix(ref, "//") {
		return ref
	}
	if base == "" {
		return ref
	}
	return strings.TrimSuffix(base, "/") + "/" + strings.TrimPrefix(ref, "/")
}

// AttachPopover adds the overlay stylesheet, the popover library and the
// binding script to the head of doc. Assets already present are skipped.
func AttachPopover(doc *html.Node, opts PopoverOptions) error {
	head := findElement(doc, atom.Head)
	if head == nil {
		return ErrNoHead
	}

	if findByID(doc, StyleID) == nil {
		style := element(atom.Style, "id", StyleID)
		style.AppendChild(&html.Node{Type: html.TextNode, Data: overlayCSS})
		head.AppendChild(style)
	}
	if findByID(doc, PopoverCSSID) == nil {
		head.AppendChild(element(atom.Link,
			"id", PopoverCSSID, "rel", "stylesheet", "href", AssetURL(opts.Static, opts.CSS)))
	}
	if findByID(doc, PopoverScriptID) == nil {
		head.AppendChild(element(atom.Script,
			"id", PopoverScriptID, "src", AssetURL(opts.Static, opts.JS), "defer", ""))
	}
	if findByID(doc, BindingID) == nil {
		if opts.BindingURL != "" {
			head.AppendChild(element(atom.Script, "id", BindingID, "src", opts.BindingURL, "defer", ""))
		} else {
			s := element(atom.Script, "id", BindingID)
			s.AppendChild(&html.Node{Type: html.TextNode, Data: bindingJS})
			head.AppendChild(s)
		}
	}
	return nil
}
