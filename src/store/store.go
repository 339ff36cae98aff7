// Package store persists the two pipeline artifacts: the filer-keyed trade
// cache (indented JSON) and the processed-set of document paths (sorted,
// one per line). Both are written through a temp file and rename so an
// interrupted run never truncates the previous state.
package store

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/username/tradewatch/src/models"
)

// LoadCache reads the persisted trade cache. A missing file is a valid
// first-run state and yields an empty cache.
func LoadCache(path string) (models.TradeCache, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return make(models.TradeCache), nil
		}
		return nil, fmt.Errorf("failed to read cache file %s: %w", path, err)
	}

	cache := make(models.TradeCache)
	if err := json.Unmarshal(data, &cache); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cache file %s: %w", path, err)
	}
	return cache, nil
}

// SaveCache writes the trade cache as indented, human-readable JSON.
func SaveCache(path string, cache models.TradeCache) error {
	data, err := json.MarshalIndent(cache, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal cache: %w", err)
	}
	return writeFileAtomic(path, append(data, '\n'))
}

// LoadProcessed reads the processed-set: one document path per line.
// A missing file yields an empty set.
func LoadProcessed(path string) (map[string]bool, error) {
	processed := make(map[string]bool)

	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return processed, nil
		}
		return nil, fmt.Errorf("failed to open processed log %s: %w", path, err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		if line := strings.TrimSpace(scanner.Text()); line != "" {
			processed[line] = true
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read processed log %s: %w", path, err)
	}
	return processed, nil
}

// SaveProcessed writes the processed-set sorted for determinism.
func SaveProcessed(path string, processed map[string]bool) error {
	paths := make([]string, 0, len(processed))
	for p := range processed {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	var sb strings.Builder
	for _, p := range paths {
		sb.WriteString(p)
		sb.WriteString("\n")
	}
	return writeFileAtomic(path, []byte(sb.String()))
}

func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create data directory %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file in %s: %w", dir, err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write %s: %w", tmpName, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to close %s: %w", tmpName, err)
	}

	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to replace %s: %w", path, err)
	}
	return nil
}
