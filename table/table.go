/*Package table holds an in-memory matrix table: keyed rows of row fields,
columns of column fields, and one set of entry fields per row and column.

Values are kept in their text encoding, with NA marking a missing value.
The operations mirror the row-wise transformations of a liftover job:
annotate, filter, repartition, drop and rename.
*/
package table

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sort"

	"github.com/plantimals/eqtlift/locus"
	"github.com/plantimals/eqtlift/reference"
	"golang.org/x/sync/errgroup"
)

var (
	ErrSchema     = errors.New("invalid schema")
	ErrNoField    = errors.New("no such field")
	ErrKeyField   = errors.New("field is part of a key")
	ErrExists     = errors.New("table already exists")
	ErrIncomplete = errors.New("table write did not complete")
	ErrCorrupt    = errors.New("corrupt table")
)

// Missing is the encoding of an undefined value.
const Missing = locus.Missing

type Row struct {
	Values  []string   // one per row field
	Entries [][]string // one slice of entry values per column
}

type Table struct {
	Schema Schema
	Cols   [][]string
	Rows   []Row

	// NPartitions is the partition count used on write.
	NPartitions int

	genomes *reference.Registry
	bounds  []int // first row of each partition, set by PartitionRowsBy
}

// New returns an empty table. Loci are ordered with the contig orderings of
// genomes; a nil registry falls back to the built-in genomes.
func New(schema Schema, cols [][]string, genomes *reference.Registry) (*Table, error) {
	if err := schema.Validate(); err != nil {
		return nil, err
	}
	for i, c := range cols {
		if len(c) != len(schema.ColFields) {
			return nil, fmt.Errorf("%w: column %d has %d values, want %d", ErrSchema, i, len(c), len(schema.ColFields))
		}
	}
	if genomes == nil {
		genomes = reference.NewRegistry()
	}
	return &Table{Schema: schema, Cols: cols, NPartitions: 1, genomes: genomes}, nil
}

// Append adds rows after checking their shape.
func (t *Table) Append(rows ...Row) error {
	for _, r := range rows {
		if len(r.Values) != len(t.Schema.RowFields) {
			return fmt.Errorf("%w: row has %d values, want %d", ErrSchema, len(r.Values), len(t.Schema.RowFields))
		}
		if len(r.Entries) != len(t.Cols) {
			return fmt.Errorf("%w: row has %d entries, want %d", ErrSchema, len(r.Entries), len(t.Cols))
		}
		for _, e := range r.Entries {
			if len(e) != len(t.Schema.EntryFields) {
				return fmt.Errorf("%w: entry has %d values, want %d", ErrSchema, len(e), len(t.Schema.EntryFields))
			}
		}
	}
	t.Rows = append(t.Rows, rows...)
	t.bounds = nil
	return nil
}

func (t *Table) CountRows() int { return len(t.Rows) }

func (t *Table) CountCols() int { return len(t.Cols) }

// Value returns a row's value for the named row field.
func (t *Table) Value(r Row, field string) (string, error) {
	_, i := t.Schema.RowField(field)
	if i < 0 {
		return "", fmt.Errorf("%w: row field %q", ErrNoField, field)
	}
	return r.Values[i], nil
}

// AnnotateRows sets field on every row to the value fn computes, adding the
// field when it does not exist. Rows are processed by up to workers
// goroutines.
func (t *Table) AnnotateRows(ctx context.Context, f Field, workers int, fn func(Row) (string, error)) error {
	if !validType(f.Type) {
		return fmt.Errorf("%w: field %q has unknown type %q", ErrSchema, f.Name, f.Type)
	}
	_, idx := t.Schema.RowField(f.Name)
	if idx >= 0 && slices.Contains(t.Schema.RowKey, f.Name) {
		return fmt.Errorf("%w: cannot annotate row key %q", ErrKeyField, f.Name)
	}
	values := make([]string, len(t.Rows))

	if workers < 1 {
		workers = 1
	}
	const chunk = 4096
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for start := 0; start < len(t.Rows); start += chunk {
		start, end := start, min(start+chunk, len(t.Rows))
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			for i := start; i < end; i++ {
				v, err := fn(t.Rows[i])
				if err != nil {
					return fmt.Errorf("row %d: %w", i, err)
				}
				values[i] = v
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	if idx < 0 {
		t.Schema.RowFields = append(t.Schema.RowFields, f)
		for i := range t.Rows {
			t.Rows[i].Values = append(t.Rows[i].Values, values[i])
		}
		return nil
	}
	t.Schema.RowFields[idx] = f
	for i := range t.Rows {
		t.Rows[i].Values[idx] = values[i]
	}
	return nil
}

// FilterRows keeps (or with keep false, removes) the rows for which pred is
// true. It returns the number of rows removed.
func (t *Table) FilterRows(pred func(Row) bool, keep bool) int {
	kept := t.Rows[:0]
	for _, r := range t.Rows {
		if pred(r) == keep {
			kept = append(kept, r)
		}
	}
	removed := len(t.Rows) - len(kept)
	clear(t.Rows[len(kept):])
	t.Rows = kept
	if removed > 0 {
		t.bounds = nil
	}
	return removed
}

// IsDefined returns a predicate true for rows whose field is not missing.
func (t *Table) IsDefined(field string) (func(Row) bool, error) {
	_, i := t.Schema.RowField(field)
	if i < 0 {
		return nil, fmt.Errorf("%w: row field %q", ErrNoField, field)
	}
	return func(r Row) bool { return r.Values[i] != Missing && r.Values[i] != "" }, nil
}

// PartitionRowsBy re-keys the table by key, sorts the rows and splits them
// into NPartitions partitions whose boundaries fall only between different
// values of partitionKey, which must be a prefix of key.
func (t *Table) PartitionRowsBy(partitionKey []string, key ...string) error {
	if len(partitionKey) == 0 || len(partitionKey) > len(key) || !slices.Equal(partitionKey, key[:len(partitionKey)]) {
		return fmt.Errorf("%w: partition key %v is not a prefix of key %v", ErrSchema, partitionKey, key)
	}
	cmps := make([]comparer, len(key))
	for i, k := range key {
		f, idx := t.Schema.RowField(k)
		if idx < 0 {
			return fmt.Errorf("%w: row field %q", ErrNoField, k)
		}
		c, err := t.comparerFor(f, idx)
		if err != nil {
			return err
		}
		cmps[i] = c
	}

	keys := make([][]sortKey, len(t.Rows))
	for i, r := range t.Rows {
		keys[i] = make([]sortKey, len(cmps))
		for j, c := range cmps {
			k, err := c.key(r)
			if err != nil {
				return fmt.Errorf("row %d: %w", i, err)
			}
			keys[i][j] = k
		}
	}
	order := make([]int, len(t.Rows))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return compareKeys(cmps, keys[order[a]], keys[order[b]]) < 0
	})
	rows := make([]Row, len(t.Rows))
	sorted := make([][]sortKey, len(t.Rows))
	for i, o := range order {
		rows[i] = t.Rows[o]
		sorted[i] = keys[o]
	}
	t.Rows = rows
	t.Schema.RowKey = slices.Clone(key)
	t.Schema.PartitionKey = slices.Clone(partitionKey)

	n := max(t.NPartitions, 1)
	target := (len(rows) + n - 1) / n
	pk := cmps[:len(partitionKey)]
	t.bounds = []int{0}
	for i := 1; i < len(rows); i++ {
		if i-t.bounds[len(t.bounds)-1] < target || len(t.bounds) == n {
			continue
		}
		if compareKeys(pk, sorted[i-1][:len(pk)], sorted[i][:len(pk)]) != 0 {
			t.bounds = append(t.bounds, i)
		}
	}
	return nil
}

// Partitions returns the row ranges written as partitions.
func (t *Table) Partitions() [][2]int {
	bounds := t.bounds
	if bounds == nil {
		n := max(t.NPartitions, 1)
		size := (len(t.Rows) + n - 1) / n
		bounds = []int{0}
		for i := size; size > 0 && i < len(t.Rows); i += size {
			bounds = append(bounds, i)
		}
	}
	parts := make([][2]int, len(bounds))
	for i, b := range bounds {
		end := len(t.Rows)
		if i+1 < len(bounds) {
			end = bounds[i+1]
		}
		parts[i] = [2]int{b, end}
	}
	return parts
}

// Drop removes row, entry or global fields. Key fields cannot be dropped.
func (t *Table) Drop(fields ...string) error {
	for _, name := range fields {
		if slices.Contains(t.Schema.RowKey, name) || slices.Contains(t.Schema.ColKey, name) {
			return fmt.Errorf("%w: cannot drop %q", ErrKeyField, name)
		}
		if _, i := t.Schema.RowField(name); i >= 0 {
			t.Schema.RowFields = slices.Delete(t.Schema.RowFields, i, i+1)
			for r := range t.Rows {
				t.Rows[r].Values = slices.Delete(t.Rows[r].Values, i, i+1)
			}
			continue
		}
		if i := fieldIndex(t.Schema.EntryFields, name); i >= 0 {
			t.Schema.EntryFields = slices.Delete(t.Schema.EntryFields, i, i+1)
			for r := range t.Rows {
				for c := range t.Rows[r].Entries {
					t.Rows[r].Entries[c] = slices.Delete(t.Rows[r].Entries[c], i, i+1)
				}
			}
			continue
		}
		if _, ok := t.Schema.Globals[name]; ok {
			delete(t.Schema.Globals, name)
			continue
		}
		return fmt.Errorf("%w: %q", ErrNoField, name)
	}
	return nil
}

// Rename renames row, column or entry fields, keys included. All renames
// apply at once, so names may be swapped.
func (t *Table) Rename(names map[string]string) error {
	s := t.Schema.clone()
	found := make(map[string]bool, len(names))
	for _, fields := range [][]Field{s.RowFields, s.ColFields, s.EntryFields} {
		for i, f := range fields {
			if to, ok := names[f.Name]; ok {
				found[f.Name] = true
				fields[i].Name = to
			}
		}
	}
	for from := range names {
		if !found[from] {
			return fmt.Errorf("%w: %q", ErrNoField, from)
		}
	}
	for _, key := range [][]string{s.RowKey, s.PartitionKey, s.ColKey} {
		for i, k := range key {
			if to, ok := names[k]; ok {
				key[i] = to
			}
		}
	}
	if err := s.Validate(); err != nil {
		return err
	}
	t.Schema = s
	return nil
}

// Genome returns the reference genome a locus field is defined on.
func (t *Table) Genome(field string) (*reference.Genome, error) {
	f, i := t.Schema.RowField(field)
	if i < 0 {
		return nil, fmt.Errorf("%w: row field %q", ErrNoField, field)
	}
	name, ok := LocusGenome(f.Type)
	if !ok {
		return nil, fmt.Errorf("%w: field %q has type %s, not a locus", ErrSchema, field, f.Type)
	}
	return t.genomes.Get(name)
}
