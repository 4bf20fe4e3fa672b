package project

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"
)

// Export encodes p as base64 JSON for moving it to another rtfd instance.
// The webhook secret is not exported.
func Export(p *Project) (string, error) {
	data, err := json.Marshal(p)
	if err != nil {
		return "", fmt.Errorf("encoding project: %w", err)
	}
	return base64.StdEncoding.EncodeToString(data), nil
}

// DecodeExport returns the JSON carried by an Export string.
func DecodeExport(encoded string) ([]byte, error) {
	data, err := base64.StdEncoding.DecodeString(strings.TrimSpace(encoded))
	if err != nil {
		return nil, fmt.Errorf("decoding export: %w", err)
	}
	return data, nil
}

// Import decodes an Export string into a project ready for Store.Create.
// A non-empty rename replaces the exported name. The repository URL is
// checked again and the identity fields are reset.
func Import(encoded, rename string) (*Project, error) {
	data, err := DecodeExport(encoded)
	if err != nil {
		return nil, err
	}
	var p Project
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("decoding export: %w", err)
	}
	if rename != "" {
		p.Name = rename
	}
	p.Name = strings.ToLower(p.Name)
	if !IsName(p.Name) {
		return nil, fmt.Errorf("invalid project name %q", p.Name)
	}

	if p.Public, err = CheckGitURL(p.URL); err != nil {
		return nil, fmt.Errorf("checking git url: %w", err)
	}
	if p.GSP, err = ServiceProvider(p.URL); err != nil {
		return nil, err
	}
	if p.DefaultBranch == "" {
		p.DefaultBranch = "master"
	}
	if p.Latest == "" {
		p.Latest = p.DefaultBranch
	}
	if p.Builder == "" {
		p.Builder = BuilderHTML
	}

	p.ID = ""
	p.Secret = ""
	return &p, nil
}
