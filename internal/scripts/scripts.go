// Package scripts discovers the script files configured for a project.
package scripts

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"chatline/internal/config"
	"chatline/internal/parser"
)

var ErrDuplicateSender = errors.New("sender defined in more than one script")

type Script struct {
	Sender     string
	Keys       []string
	SourceFile string
}

type Result struct {
	Scripts      []Script
	FilesSkipped int
	Errors       []error
}

// Find returns the script for sender, matching names case-insensitively.
func (r *Result) Find(sender string) (Script, bool) {
	for _, s := range r.Scripts {
		if strings.EqualFold(s.Sender, sender) {
			return s, true
		}
	}
	return Script{}, false
}

func (r *Result) Senders() []string {
	names := make([]string, 0, len(r.Scripts))
	for _, s := range r.Scripts {
		names = append(names, s.Sender)
	}
	return names
}

// Load walks the configured paths and parses every markdown file. Files
// without frontmatter or without a sender are skipped; other problems are
// collected in Result.Errors.
func Load(cfg config.ScriptsConfig) (*Result, error) {
	files, err := walkMarkdownFiles(cfg.Paths, cfg.Exclude)
	if err != nil {
		return nil, fmt.Errorf("walking script files: %w", err)
	}

	result := &Result{}
	seen := make(map[string]string)
	for _, path := range files {
		doc, err := parser.ParseFile(path)
		if err != nil {
			if errors.Is(err, parser.ErrNoFrontmatter) || errors.Is(err, parser.ErrMissingSender) {
				result.FilesSkipped++
				continue
			}
			result.Errors = append(result.Errors, fmt.Errorf("parsing %s: %w", path, err))
			continue
		}

		name := strings.ToLower(doc.Sender)
		if first, ok := seen[name]; ok {
			result.Errors = append(result.Errors, fmt.Errorf("%s in %s and %s: %w", doc.Sender, first, path, ErrDuplicateSender))
			continue
		}
		seen[name] = path

		result.Scripts = append(result.Scripts, Script{
			Sender:     doc.Sender,
			Keys:       doc.Script,
			SourceFile: path,
		})
	}

	return result, nil
}

func walkMarkdownFiles(roots []string, excludes []string) ([]string, error) {
	excluded := make([]string, 0, len(excludes))
	for _, path := range excludes {
		if path == "" {
			continue
		}
		excluded = append(excluded, filepath.Clean(path))
	}

	var files []string
	for _, root := range roots {
		if root == "" {
			continue
		}
		err := filepath.WalkDir(filepath.Clean(root), func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if isExcluded(path, excluded) {
				if d.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}
			if d.IsDir() || !strings.HasSuffix(strings.ToLower(d.Name()), ".md") {
				return nil
			}
			files = append(files, path)
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	return files, nil
}

func isExcluded(path string, excludes []string) bool {
	clean := filepath.Clean(path)
	for _, exclude := range excludes {
		if exclude == clean || strings.HasPrefix(clean, exclude+string(os.PathSeparator)) {
			return true
		}
	}
	return false
}
