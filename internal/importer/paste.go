package importer

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/piwi3910/BarCut/internal/model"
)

// ParsePaste reads rows from text copied out of a spreadsheet or typed by
// hand. Each line is split on tabs, commas, semicolons, pipes and spaces; the
// first two numeric tokens are the length and the quantity. Lines without two
// numbers are ignored.
func ParsePaste(text string) ImportResult {
	result := ImportResult{}

	lines := strings.Split(strings.ReplaceAll(strings.TrimSpace(text), "\r\n", "\n"), "\n")
	for i, line := range lines {
		numbers := numericTokens(line)
		if len(numbers) < 2 {
			if strings.TrimSpace(line) != "" {
				result.Warnings = append(result.Warnings, fmt.Sprintf("Line %d: Skipped, expected a length and a quantity", i+1))
			}
			continue
		}

		length, qty := numbers[0], numbers[1]
		if length <= 0 || qty <= 0 {
			result.Errors = append(result.Errors, fmt.Sprintf("Line %d: Length and quantity must be positive", i+1))
			continue
		}
		if qty != math.Trunc(qty) {
			result.Errors = append(result.Errors, fmt.Sprintf("Line %d: Invalid quantity '%s'", i+1, model.FormatLength(qty)))
			continue
		}

		result.Rows = append(result.Rows, model.NewDemandRow(length, int(qty)))
	}

	return result
}

func numericTokens(line string) []float64 {
	fields := strings.FieldsFunc(line, func(r rune) bool {
		switch r {
		case '\t', ',', ';', '|', ' ':
			return true
		}
		return false
	})
	var out []float64
	for _, f := range fields {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil || math.IsInf(v, 0) || math.IsNaN(v) {
			continue
		}
		out = append(out, v)
	}
	return out
}
