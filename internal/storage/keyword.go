package storage

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"fabric-artifact-manager/internal/core/domain"
)

// definitionFileExtensions are the text-based definition formats keyword
// replacement operates on.
var definitionFileExtensions = map[string]bool{
	".tmdl": true,
	".bim":  true,
}

// FindDefinitionFiles walks an artifact folder and collects its definition
// files, skipping the metadata and backup-info records.
func FindDefinitionFiles(folder string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(folder, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		name := d.Name()
		if name == metadataFileName || name == backupInfoFileName {
			return nil
		}
		if definitionFileExtensions[strings.ToLower(filepath.Ext(name))] {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan definition files: %w", err)
	}
	return files, nil
}

// ReplaceKeywords applies the ordered mappings to every file in one pass per
// file. Matching is case-insensitive and literal (regex metacharacters in the
// old value are escaped). Where two mappings could match overlapping text the
// earlier mapping wins, which is why mappings are a list and not a map.
//
// Counts accumulate per old key across all files; keys with zero matches are
// omitted. Any file that cannot be read or rewritten fails the whole call:
// partial text rewriting of a definition set must not be reported as success.
func ReplaceKeywords(files []string, mappings []domain.Mapping) (domain.ReplacementStats, error) {
	stats := domain.ReplacementStats{
		Status:       domain.ReplacementNoChanges,
		Replacements: map[string]int{},
	}

	if len(mappings) == 0 {
		return stats, domain.ErrNoMappings
	}
	for _, m := range mappings {
		if m.Old == "" || m.New == "" {
			return stats, domain.ErrEmptyMapping
		}
	}

	// One alternation in mapping order; Go's regexp picks the alternative a
	// backtracking engine would find first, which is exactly the
	// first-match-wins contract.
	alternatives := make([]string, len(mappings))
	for i, m := range mappings {
		alternatives[i] = regexp.QuoteMeta(m.Old)
	}
	pattern, err := regexp.Compile("(?i)(?:" + strings.Join(alternatives, "|") + ")")
	if err != nil {
		return stats, fmt.Errorf("compile mapping pattern: %w", err)
	}

	for _, file := range files {
		data, err := os.ReadFile(file)
		if err != nil {
			stats.Status = domain.ReplacementFailed
			stats.Error = err.Error()
			return stats, fmt.Errorf("%w: %s", domain.ErrPartialScan, err)
		}

		content := string(data)
		changed := false
		rewritten := pattern.ReplaceAllStringFunc(content, func(match string) string {
			for _, m := range mappings {
				if strings.EqualFold(match, m.Old) {
					stats.Replacements[m.Old]++
					changed = true
					return m.New
				}
			}
			return match
		})

		if !changed {
			continue
		}
		if err := os.WriteFile(file, []byte(rewritten), 0o644); err != nil {
			stats.Status = domain.ReplacementFailed
			stats.Error = err.Error()
			return stats, fmt.Errorf("%w: %s", domain.ErrPartialScan, err)
		}
		stats.FilesUpdated++
	}

	if stats.FilesUpdated > 0 {
		stats.Status = domain.ReplacementUpdated
	}
	return stats, nil
}
