// Package internal holds helpers shared by the SQL backends.
package internal

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"
)

// Column describes one column as reported by the database catalog.
type Column struct {
	Name     string
	DataType string
	Nullable bool
}

// Schema maps column names to their description.
type Schema map[string]Column

// RecordColumns is the column list of the record table, in select order.
var RecordColumns = []string{"id", "url", "content_type", "created_at", "note"}

// CompareSchema reports every column of expected that is missing from actual
// or differs in type or nullability. Extra columns in actual are allowed.
func CompareSchema(table string, expected, actual Schema) error {
	var missing, mismatched []string

	for _, name := range slices.Sorted(maps.Keys(expected)) {
		want := expected[name]
		got, ok := actual[name]
		if !ok {
			missing = append(missing, name)
			continue
		}

		if !strings.EqualFold(got.DataType, want.DataType) {
			mismatched = append(mismatched,
				fmt.Sprintf("%s: expected %s, got %s", name, want.DataType, got.DataType))
		}
		if got.Nullable != want.Nullable {
			mismatched = append(mismatched,
				fmt.Sprintf("%s: expected nullable=%v, got nullable=%v", name, want.Nullable, got.Nullable))
		}
	}

	if len(missing) == 0 && len(mismatched) == 0 {
		return nil
	}

	var msg strings.Builder
	fmt.Fprintf(&msg, "table %s schema validation failed:\n", table)
	if len(missing) > 0 {
		fmt.Fprintf(&msg, "  missing columns: %s\n", strings.Join(missing, ", "))
	}
	if len(mismatched) > 0 {
		msg.WriteString("  mismatched columns:\n")
		for _, m := range mismatched {
			fmt.Fprintf(&msg, "    - %s\n", m)
		}
	}
	return errors.New(msg.String())
}
