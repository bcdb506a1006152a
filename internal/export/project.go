package export

import (
	"fmt"
	"sort"
	"strings"

	"github.com/donmerendolo/exportify-cli/internal/models"
)

// Row is one output row, with values aligned to the field set's column
// order. Values are nil (blank), int, string, or []string.
type Row []any

// Project flattens records into rows matching the field set's order, then
// sorts by the requested key.
//
// The sentinel sort key preserves upstream arrival order (reversed wholesale
// when reverse is set). For real keys the sort is stable, blank values order
// after all present values regardless of direction, and ties keep original
// position order.
func Project(records []models.TrackRecord, fields FieldSet, sortKey string, reverse bool) ([]Row, error) {
	keyIdx, err := fields.ResolveSortKey(sortKey)
	if err != nil {
		return nil, err
	}

	rows := make([]Row, len(records))
	for i, record := range records {
		row := make(Row, len(fields))
		for j, f := range fields {
			row[j] = f.Value(record)
		}
		rows[i] = row
	}

	if keyIdx < 0 {
		if reverse {
			reverseRows(rows)
		}
		return rows, nil
	}

	sort.SliceStable(rows, func(i, j int) bool {
		return rowLess(rows[i][keyIdx], rows[j][keyIdx], reverse)
	})

	return rows, nil
}

// rowLess orders two sort-key values. Blanks sort after everything in both
// directions; reverse only flips comparisons between present values.
func rowLess(a, b any, reverse bool) bool {
	aBlank, bBlank := isBlank(a), isBlank(b)
	switch {
	case aBlank && bBlank:
		return false
	case aBlank:
		return false
	case bBlank:
		return true
	}

	ai, aOK := a.(int)
	bi, bOK := b.(int)
	if aOK && bOK {
		if reverse {
			return bi < ai
		}
		return ai < bi
	}

	as, bs := valueString(a), valueString(b)
	if reverse {
		return strings.ToLower(bs) < strings.ToLower(as)
	}
	return strings.ToLower(as) < strings.ToLower(bs)
}

func isBlank(v any) bool {
	switch t := v.(type) {
	case nil:
		return true
	case string:
		return t == ""
	case []string:
		return len(t) == 0
	default:
		return false
	}
}

// valueString renders a value for comparison and for flat (CSV) output.
// Ordered lists join with a comma separator.
func valueString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case []string:
		return strings.Join(t, ", ")
	case int:
		return fmt.Sprintf("%d", t)
	default:
		return fmt.Sprint(t)
	}
}

func reverseRows(rows []Row) {
	for i, j := 0, len(rows)-1; i < j; i, j = i+1, j-1 {
		rows[i], rows[j] = rows[j], rows[i]
	}
}
