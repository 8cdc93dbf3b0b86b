package table

import (
	"fmt"
	"io"
	"sort"
	"strings"
)

const rule = "----------------------------------------"

// Describe prints the table's fields and keys.
func (t *Table) Describe(w io.Writer) {
	s := t.Schema
	fmt.Fprintln(w, rule)
	fmt.Fprintln(w, "Global fields:")
	if len(s.Globals) == 0 {
		fmt.Fprintln(w, "    None")
	}
	names := make([]string, 0, len(s.Globals))
	for name := range s.Globals {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(w, "    '%s': %s\n", name, TypeStr)
	}
	describeFields(w, "Column fields:", s.ColFields)
	describeFields(w, "Row fields:", s.RowFields)
	describeFields(w, "Entry fields:", s.EntryFields)
	fmt.Fprintln(w, rule)
	fmt.Fprintf(w, "Column key: %s\n", quoteList(s.ColKey))
	fmt.Fprintf(w, "Row key: %s\n", quoteList(s.RowKey))
	fmt.Fprintf(w, "Partition key: %s\n", quoteList(s.PartitionKey))
	fmt.Fprintln(w, rule)
	fmt.Fprintf(w, "Rows: %d  Columns: %d  Partitions: %d\n", len(t.Rows), len(t.Cols), len(t.Partitions()))
}

func describeFields(w io.Writer, title string, fields []Field) {
	fmt.Fprintln(w, rule)
	fmt.Fprintln(w, title)
	if len(fields) == 0 {
		fmt.Fprintln(w, "    None")
	}
	for _, f := range fields {
		fmt.Fprintf(w, "    '%s': %s\n", f.Name, f.Type)
	}
}

func quoteList(names []string) string {
	q := make([]string, len(names))
	for i, n := range names {
		q[i] = "'" + n + "'"
	}
	return "[" + strings.Join(q, ", ") + "]"
}
