// Package ptr parses House periodic transaction reports: the extracted text
// of one filing becomes a sequence of trade records tagged with the filing's
// header metadata.
package ptr

import (
	"regexp"
	"strings"

	"github.com/username/tradewatch/src/models"
)

var (
	// Header fields sit behind fixed labels near the top of the document.
	// The honorific prefix is stripped from the filer name when present.
	nameRe     = regexp.MustCompile(`(?i)Name:\s*(?:Hon\.\s*)?(.+)`)
	districtRe = regexp.MustCompile(`State/District:\s*(.+)`)

	// rowRe matches a complete trade row in unsegmented text, including the
	// owner column the block grammar cannot see.
	rowRe = regexp.MustCompile(
		`(Self|Spouse)` +
			`\s+([\w\s().,&-]+?)` + // asset name, non-greedy
			`\s+(P|S|E)` +
			`\s+(\d{1,2}/\d{1,2}/\d{4})` + // transaction date
			`\s+(\d{1,2}/\d{1,2}/\d{4})` + // notification date
			`\s+\$?([\d,<>.\-]+(?:\s*-\s*\$?[\d,]+)?)`) // amount or range
)

// blockGrammar describes one fixed-shape trade block: a marker line (the end
// of an asset description) followed by lines read positionally. Grammars are
// tried in order, so alternate document layouts can be registered without
// touching the scanner.
type blockGrammar struct {
	name      string
	marker    *regexp.Regexp
	span      int // total lines in the block, marker line included
	typeIdx   int // offsets from the marker line
	dateIdx   int
	amountIdx int
}

// defaultGrammars covers the standard layout: an asset line tagged [ST],
// then the type code, a "transaction-date notification-date" line, the
// amount band, and a trailing filler line.
var defaultGrammars = []blockGrammar{
	{
		name:      "st-tagged",
		marker:    regexp.MustCompile(`.+\[ST\]$`),
		span:      5,
		typeIdx:   1,
		dateIdx:   2,
		amountIdx: 3,
	},
}

type PTRParser struct {
	grammars []blockGrammar
}

func NewParser() *PTRParser {
	return &PTRParser{grammars: defaultGrammars}
}

// Parse extracts trade records from the full text of one report. The block
// scanner runs first; a whole-text row pass then back-fills owners and
// contributes rows the scanner missed. Never returns an error: malformed
// text degrades to fewer or zero records.
func (p *PTRParser) Parse(text string) []models.TradeRecord {
	lines := nonBlankLines(text)
	filerName, district := extractHeader(lines)

	records := p.scanBlocks(lines, filerName, district)
	return reconcileRowMatches(text, records, filerName, district)
}

// extractHeader finds the filer name and state/district. A label that never
// appears yields the explicit UnknownField value, never an empty string.
func extractHeader(lines []string) (string, string) {
	filerName, district := models.UnknownField, models.UnknownField
	for _, line := range lines {
		if filerName == models.UnknownField {
			if m := nameRe.FindStringSubmatch(line); m != nil {
				if v := strings.TrimSpace(m[1]); v != "" {
					filerName = v
				}
			}
		}
		if district == models.UnknownField {
			if m := districtRe.FindStringSubmatch(line); m != nil {
				if v := strings.TrimSpace(m[1]); v != "" {
					district = v
				}
			}
		}
		if filerName != models.UnknownField && district != models.UnknownField {
			break
		}
	}
	return filerName, district
}

// scanBlocks walks the line stream looking for marker lines and reads each
// block positionally per the first grammar that matches. A truncated
// trailing block (fewer lines left than the grammar needs) is dropped and
// the scan ends; earlier blocks are kept.
func (p *PTRParser) scanBlocks(lines []string, filerName, district string) []models.TradeRecord {
	var records []models.TradeRecord
	i := 0
	for i < len(lines) {
		matched := false
		for _, g := range p.grammars {
			if !g.marker.MatchString(lines[i]) {
				continue
			}
			if i+g.span > len(lines) {
				return records
			}

			rec := models.TradeRecord{
				FilerName:       filerName,
				StateDistrict:   district,
				Owner:           models.OwnerUndetermined,
				Asset:           lines[i],
				TransactionType: lines[i+g.typeIdx],
				Amount:          cleanAmount(lines[i+g.amountIdx]),
			}
			dateParts := strings.Fields(lines[i+g.dateIdx])
			if len(dateParts) > 0 {
				rec.TransactionDate = dateParts[0]
			}
			if len(dateParts) > 1 {
				rec.NotificationDate = dateParts[1]
			}

			records = append(records, rec)
			i += g.span
			matched = true
			break
		}
		if !matched {
			i++
		}
	}
	return records
}

// reconcileRowMatches runs the whole-text row pattern and merges its output
// with the block scan. The two strategies can see the same row, so matches
// are keyed by (type, dates, amount): a key already seen only upgrades an
// undetermined owner, an unseen key becomes a new record.
func reconcileRowMatches(text string, records []models.TradeRecord, filerName, district string) []models.TradeRecord {
	byKey := make(map[string]int, len(records))
	for idx, rec := range records {
		byKey[rowKey(rec.TransactionType, rec.TransactionDate, rec.NotificationDate, rec.Amount)] = idx
	}

	for _, m := range rowRe.FindAllStringSubmatch(text, -1) {
		owner := m[1]
		asset := strings.TrimSpace(m[2])
		txType := m[3]
		transDate := m[4]
		notifDate := m[5]
		amount := cleanAmount(m[6])

		key := rowKey(txType, transDate, notifDate, amount)
		if idx, ok := byKey[key]; ok {
			if records[idx].Owner == models.OwnerUndetermined {
				records[idx].Owner = owner
			}
			continue
		}

		records = append(records, models.TradeRecord{
			FilerName:        filerName,
			StateDistrict:    district,
			Owner:            owner,
			Asset:            asset,
			TransactionType:  txType,
			TransactionDate:  transDate,
			NotificationDate: notifDate,
			Amount:           amount,
		})
		byKey[key] = len(records) - 1
	}

	return records
}

func nonBlankLines(text string) []string {
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			lines = append(lines, trimmed)
		}
	}
	return lines
}

// rowKey identifies a trade row across both extraction strategies. The two
// render amounts differently (the block line keeps its leading dollar sign,
// the row pattern captures past it), so dollar signs and spaces are dropped
// from the key. Asset text is excluded for the same reason.
func rowKey(txType, transDate, notifDate, amount string) string {
	amount = strings.NewReplacer("$", "", " ", "").Replace(amount)
	return txType + "|" + transDate + "|" + notifDate + "|" + amount
}

func cleanAmount(s string) string {
	return strings.ReplaceAll(strings.TrimSpace(s), ",", "")
}
