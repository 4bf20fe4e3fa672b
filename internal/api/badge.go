package api

import (
	"bytes"
	"text/template"
)

// Badge is a build status shown by the docs badge.
type Badge string

const (
	BadgePassing Badge = "passing"
	BadgeFailing Badge = "failing"
	BadgeUnknown Badge = "unknown"
)

type badgeStyle struct {
	width int
	color string
}

var badgeStyles = map[Badge]badgeStyle{
	BadgePassing: {51, "#4c1"},
	BadgeFailing: {43, "#e05d44"},
	BadgeUnknown: {61, "#dfb317"},
}

// labelWidth is the width of the "docs" half of the badge.
const labelWidth = 35

var badgeTmpl = template.Must(template.New("badge").Parse(
	`<svg xmlns="http://www.w3.org/2000/svg" width="{{.Total}}" height="20">` +
		`<linearGradient id="b" x2="0" y2="100%"><stop offset="0" stop-color="#bbb" stop-opacity=".1"/><stop offset="1" stop-opacity=".1"/></linearGradient>` +
		`<clipPath id="a"><rect width="{{.Total}}" height="20" rx="3" fill="#fff"/></clipPath>` +
		`<g clip-path="url(#a)"><path fill="#555" d="M0 0h{{.Label}}v20H0z"/><path fill="{{.Color}}" d="M{{.Label}} 0h{{.Width}}v20H{{.Label}}z"/><path fill="url(#b)" d="M0 0h{{.Total}}v20H0z"/></g>` +
		`<g fill="#fff" text-anchor="middle" font-family="DejaVu Sans,Verdana,Geneva,sans-serif" font-size="110">` +
		`<text x="185" y="150" fill="#010101" fill-opacity=".3" transform="scale(.1)" textLength="250">docs</text>` +
		`<text x="185" y="140" transform="scale(.1)" textLength="250">docs</text>` +
		`<text x="{{.TextX}}" y="150" fill="#010101" fill-opacity=".3" transform="scale(.1)" textLength="{{.TextLen}}">{{.Text}}</text>` +
		`<text x="{{.TextX}}" y="140" transform="scale(.1)" textLength="{{.TextLen}}">{{.Text}}</text>` +
		`</g></svg>`))

// SVG renders the badge.
func (b Badge) SVG() []byte {
	st, ok := badgeStyles[b]
	if !ok {
		b, st = BadgeUnknown, badgeStyles[BadgeUnknown]
	}
	var buf bytes.Buffer
	badgeTmpl.Execute(&buf, map[string]any{
		"Total":   labelWidth + st.width,
		"Label":   labelWidth,
		"Width":   st.width,
		"Color":   st.color,
		"TextX":   labelWidth*10 + st.width*5 - 10,
		"TextLen": (st.width - 10) * 10,
		"Text":    string(b),
	})
	return buf.Bytes()
}
