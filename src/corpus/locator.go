package corpus

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/username/tradewatch/src/models"
)

// DocumentExtension is the only file type the locator reports.
const DocumentExtension = ".pdf"

// Summary maps a sanitized filer directory name to its filing years and the
// document filenames found under each year.
type Summary map[string]map[string][]string

// Summarize walks the corpus tree (<filer>/<year>/<docid>.pdf) and reports
// every document file, without interpreting content. A missing root is a
// valid "nothing to process yet" state and yields an empty summary; a root
// that exists but cannot be listed is an error. Stray non-directory entries
// at the filer and year levels are skipped silently.
func Summarize(baseDir string) (Summary, error) {
	summary := make(Summary)

	filerEntries, err := os.ReadDir(baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return summary, nil
		}
		return nil, fmt.Errorf("failed to read corpus root %s: %w", baseDir, err)
	}

	for _, filerEntry := range filerEntries {
		if !filerEntry.IsDir() {
			continue
		}
		filer := filerEntry.Name()

		yearEntries, err := os.ReadDir(filepath.Join(baseDir, filer))
		if err != nil {
			return nil, fmt.Errorf("failed to read filer directory %s: %w", filer, err)
		}

		for _, yearEntry := range yearEntries {
			if !yearEntry.IsDir() {
				continue
			}
			year := yearEntry.Name()

			docEntries, err := os.ReadDir(filepath.Join(baseDir, filer, year))
			if err != nil {
				return nil, fmt.Errorf("failed to read year directory %s/%s: %w", filer, year, err)
			}

			docs := []string{}
			for _, docEntry := range docEntries {
				if docEntry.IsDir() {
					continue
				}
				if strings.EqualFold(filepath.Ext(docEntry.Name()), DocumentExtension) {
					docs = append(docs, docEntry.Name())
				}
			}
			sort.Strings(docs)

			if summary[filer] == nil {
				summary[filer] = make(map[string][]string)
			}
			summary[filer][year] = docs
		}
	}

	return summary, nil
}

// Documents flattens a summary into document references with absolute paths,
// sorted by path for deterministic dispatch order.
func Documents(baseDir string, summary Summary) ([]models.DocumentRef, error) {
	var refs []models.DocumentRef
	for filer, years := range summary {
		for year, docs := range years {
			for _, doc := range docs {
				absPath, err := filepath.Abs(filepath.Join(baseDir, filer, year, doc))
				if err != nil {
					return nil, fmt.Errorf("failed to resolve document path %s: %w", doc, err)
				}
				refs = append(refs, models.DocumentRef{Filer: filer, Year: year, Path: absPath})
			}
		}
	}
	sort.Slice(refs, func(i, j int) bool { return refs[i].Path < refs[j].Path })
	return refs, nil
}
