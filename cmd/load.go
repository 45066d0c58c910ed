package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/KaramelBytes/dataglance/internal/dataset"
)

// loadFile opens and parses a dataset file.
func loadFile(path string) (*dataset.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open dataset: %w", err)
	}
	defer f.Close()
	t, err := dataset.Load(filepath.Base(path), f)
	if err != nil {
		return nil, err
	}
	logger.Debug("dataset loaded", "file", path, "rows", t.Len(), "columns", t.Width())
	return t, nil
}

// expandInputs resolves glob patterns, keeping literal paths that exist.
// Glob matches with an unsupported extension are skipped. Results are
// de-duplicated and sorted.
func expandInputs(args []string) ([]string, error) {
	var files []string
	seen := map[string]struct{}{}
	for _, arg := range args {
		matches, _ := filepath.Glob(arg)
		if len(matches) == 0 {
			// treat as literal path if exists
			if _, err := os.Stat(arg); err == nil {
				matches = []string{arg}
			}
		}
		wildcard := strings.ContainsAny(arg, "*?[")
		for _, m := range matches {
			if wildcard && !dataset.Supported(m) {
				continue
			}
			if _, ok := seen[m]; ok {
				continue
			}
			seen[m] = struct{}{}
			files = append(files, m)
		}
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no input files matched")
	}
	sort.Strings(files)
	return files, nil
}
