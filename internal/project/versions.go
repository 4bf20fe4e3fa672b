package project

import (
	"os"
	"path/filepath"
	"sort"
)

// Versions lists the built versions of p per language by reading
// <docsDir>/<name>/<lang>/<version>/ directories. "latest" always comes first;
// languages with nothing built beyond "latest" are omitted.
func Versions(docsDir string, p *Project) map[string][]string {
	versions := make(map[string][]string)
	for _, lang := range p.Languages {
		entries, err := os.ReadDir(filepath.Join(docsDir, p.Name, lang))
		if err != nil {
			continue
		}
		var names []string
		for _, e := range entries {
			if e.IsDir() && e.Name() != LatestBranch {
				names = append(names, e.Name())
			}
		}
		if len(names) == 0 {
			continue
		}
		sort.Strings(names)
		versions[lang] = append([]string{LatestBranch}, names...)
	}
	return versions
}

// OutputDir is where the pages of one language/branch of p are written.
// Single-version projects ignore both.
func OutputDir(docsDir string, p *Project, lang, branch string) string {
	if p.Single {
		return filepath.Join(docsDir, p.Name)
	}
	return filepath.Join(docsDir, p.Name, lang, branch)
}
