package inventory

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/mwhardin/probata/internal/asset"
	enc "github.com/mwhardin/probata/internal/encoding"
)

// Parser reads inventory spreadsheet exports and produces asset params.
// It auto-detects which layout (worksheet, appraisal, schedule) is being
// used by matching column headers against known profiles.
type Parser struct{}

func NewParser() *Parser {
	return &Parser{}
}

func (p *Parser) Parse(r io.Reader) ([]asset.CreateParams, error) {
	utf8r, err := enc.NewUTF8Reader(r)
	if err != nil {
		return nil, fmt.Errorf("detect encoding: %w", err)
	}

	reader := csv.NewReader(utf8r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}

	profile, colMap, headerIdx := detectProfile(rows)
	if profile == nil {
		return nil, fmt.Errorf("no matching inventory layout found: expected columns for worksheet, appraisal, or schedule")
	}

	return parseRows(profile, colMap, rows[headerIdx+1:], headerIdx+1)
}

// colIndex maps column names to their index in the row.
type colIndex map[string]int

// detectProfile scans rows for a header that matches a known profile.
// Returns the matched profile, column index map, and header row index.
func detectProfile(rows [][]string) (*Profile, colIndex, int) {
	for rowIdx, row := range rows {
		cols := make(colIndex)

		for i, cell := range row {
			name := strings.TrimSpace(cell)
			if name != "" {
				cols[name] = i
			}
		}

		for i := range profiles {
			if matchesProfile(&profiles[i], cols) {
				return &profiles[i], cols, rowIdx
			}
		}
	}

	return nil, nil, 0
}

// matchesProfile checks if all required columns of a profile are present.
func matchesProfile(p *Profile, cols colIndex) bool {
	for _, name := range p.requiredCols() {
		if _, ok := cols[name]; !ok {
			return false
		}
	}

	return true
}

// parseRows extracts asset params from data rows using the matched profile.
// headerRowNum is the 0-based index of the header in the original file (for error messages).
func parseRows(p *Profile, cols colIndex, rows [][]string, headerRowNum int) ([]asset.CreateParams, error) {
	descIdx := cols[p.DescCol]
	valueIdx := cols[p.ValueCol]

	typeIdx := -1
	if p.TypeCol != "" {
		typeIdx = cols[p.TypeCol]
	}

	locIdx := -1
	if p.LocationCol != "" {
		locIdx = cols[p.LocationCol]
	}

	var params []asset.CreateParams

	for i, row := range rows {
		rowNum := headerRowNum + i + 2 // 1-based, skipping header

		if isBlank(row) {
			continue
		}

		desc := cellValue(row, descIdx)
		if desc == "" {
			return nil, fmt.Errorf("row %d: missing description", rowNum)
		}

		if isTotalRow(desc) {
			continue
		}

		valueStr := cellValue(row, valueIdx)
		if valueStr == "" {
			// Footer and subtotal rows carry a description but no value.
			continue
		}

		cents, err := parseAmount(valueStr)
		if err != nil {
			return nil, fmt.Errorf("row %d: bad value %q: %w", rowNum, valueStr, err)
		}

		typeHint := cellValue(row, typeIdx)
		if typeHint == "" {
			typeHint = desc
		}

		params = append(params, asset.CreateParams{
			Type:           classify(typeHint),
			Description:    desc,
			Location:       cellValue(row, locIdx),
			EstimatedValue: cents,
		})
	}

	return params, nil
}

// typeKeywords maps lowercase substrings of the type hint to asset types.
// Checked in order; first match wins.
var typeKeywords = []struct {
	keyword string
	t       asset.Type
}{
	{"real", asset.TypeRealProperty},
	{"house", asset.TypeRealProperty},
	{"home", asset.TypeRealProperty},
	{"land", asset.TypeRealProperty},
	{"condo", asset.TypeRealProperty},
	{"retirement", asset.TypeRetirementAccount},
	{"401", asset.TypeRetirementAccount},
	{"ira", asset.TypeRetirementAccount},
	{"pension", asset.TypeRetirementAccount},
	{"life insurance", asset.TypeLifeInsurance},
	{"insurance", asset.TypeLifeInsurance},
	{"business", asset.TypeBusinessInterest},
	{"partnership", asset.TypeBusinessInterest},
	{"llc", asset.TypeBusinessInterest},
	{"vehicle", asset.TypeVehicle},
	{"car", asset.TypeVehicle},
	{"truck", asset.TypeVehicle},
	{"boat", asset.TypeVehicle},
	{"stock", asset.TypeInvestment},
	{"bond", asset.TypeInvestment},
	{"brokerage", asset.TypeInvestment},
	{"investment", asset.TypeInvestment},
	{"mutual fund", asset.TypeInvestment},
	{"cash", asset.TypeCash},
	{"checking", asset.TypeCash},
	{"savings", asset.TypeCash},
	{"bank", asset.TypeCash},
}

// classify infers the asset type from a free-text hint (the type column when
// present, otherwise the description). Unrecognized hints fall back to
// personal property, the catch-all category on probate inventories.
func classify(hint string) asset.Type {
	h := strings.ToLower(hint)

	for _, kw := range typeKeywords {
		if strings.Contains(h, kw.keyword) {
			return kw.t
		}
	}

	return asset.TypePersonalProperty
}

// cellValue safely gets a trimmed cell value from a row.
func cellValue(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}

	return strings.TrimSpace(row[idx])
}

// isTotalRow recognizes subtotal and grand-total footer rows, which carry a
// value but describe no asset.
func isTotalRow(desc string) bool {
	d := strings.ToLower(desc)

	return strings.HasPrefix(d, "total") || strings.HasPrefix(d, "subtotal") || strings.HasPrefix(d, "grand total")
}

func isBlank(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}

	return true
}
