package overlay

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// MountMode selects where the overlay is inserted into the body.
type MountMode string

const (
	MountAppend  MountMode = "append"
	MountPrepend MountMode = "prepend"
)

// ErrNoBody is returned when the document has no body element.
var ErrNoBody = errors.New("document has no body")

// Mount inserts frag into the body of doc. It reports false without touching
// doc when an overlay is already present.
func Mount(doc *html.Node, frag Fragment, mode MountMode) (bool, error) {
	if HasOverlay(doc) {
		return false, nil
	}
	body := findElement(doc, atom.Body)
	if body == nil {
		return false, ErrNoBody
	}

	nodes, err := html.ParseFragment(strings.NewReader(string(frag)), body)
	if err != nil {
		return false, fmt.Errorf("parsing overlay fragment: %w", err)
	}

	switch mode {
	case MountPrepend:
		first := body.FirstChild
		for _, n := range nodes {
			if first == nil {
				body.AppendChild(n)
			} else {
				body.InsertBefore(n, first)
			}
		}
	default:
		for _, n := range nodes {
			body.AppendChild(n)
		}
	}
	return true, nil
}
