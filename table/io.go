package table

import (
	"bufio"
	"compress/gzip"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/biogo/hts/bgzf"
	"github.com/google/uuid"
	"github.com/plantimals/eqtlift/reference"
	"github.com/plantimals/eqtlift/store"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"
)

const (
	formatVersion = 1
	metadataFile  = "metadata.yaml"
	colsFile      = "cols.tsv"
	successFile   = "_SUCCESS"
	rowsDir       = "rows/"
)

type partitionInfo struct {
	Path string `yaml:"path"`
	Rows int    `yaml:"rows"`
}

type metadata struct {
	FormatVersion int             `yaml:"format_version"`
	RunID         string          `yaml:"run_id"`
	Schema        Schema          `yaml:"schema"`
	Rows          int             `yaml:"rows"`
	Cols          int             `yaml:"cols"`
	Partitions    []partitionInfo `yaml:"partitions"`
}

// IOOptions tune reading and writing.
type IOOptions struct {
	Workers int
	// Level is the gzip level of BGZF blocks; zero means the default.
	Level int
}

func (o IOOptions) workers() int {
	if o.Workers < 1 {
		return 4
	}
	return o.Workers
}

func partitionPath(i int) string {
	return fmt.Sprintf("%spart-%05d.bgz", rowsDir, i)
}

// Read loads the table stored in s.
func Read(ctx context.Context, s store.Store, genomes *reference.Registry, opts IOOptions) (*Table, error) {
	ok, err := s.Exists(ctx, successFile)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s has no %s marker", ErrIncomplete, s.Location(), successFile)
	}

	var md metadata
	if err := readYAML(ctx, s, metadataFile, &md); err != nil {
		return nil, err
	}
	if md.FormatVersion != formatVersion {
		return nil, fmt.Errorf("%w: unsupported format version %d", ErrCorrupt, md.FormatVersion)
	}
	cols, err := readCols(ctx, s, md.Schema)
	if err != nil {
		return nil, err
	}
	if len(cols) != md.Cols {
		return nil, fmt.Errorf("%w: metadata lists %d columns, %s has %d", ErrCorrupt, md.Cols, colsFile, len(cols))
	}
	t, err := New(md.Schema, cols, genomes)
	if err != nil {
		return nil, err
	}
	t.NPartitions = max(len(md.Partitions), 1)

	parts := make([][]Row, len(md.Partitions))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.workers())
	for i, p := range md.Partitions {
		i, p := i, p
		g.Go(func() error {
			rows, err := t.readPartition(ctx, s, p.Path)
			if err != nil {
				return fmt.Errorf("reading %s: %w", p.Path, err)
			}
			if len(rows) != p.Rows {
				return fmt.Errorf("%w: %s has %d rows, metadata says %d", ErrCorrupt, p.Path, len(rows), p.Rows)
			}
			parts[i] = rows
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	bounds := make([]int, 0, len(parts))
	for _, rows := range parts {
		bounds = append(bounds, len(t.Rows))
		t.Rows = append(t.Rows, rows...)
	}
	if len(parts) > 0 {
		t.bounds = bounds
	}
	log.Debug().Str("location", s.Location()).Int("rows", len(t.Rows)).Int("cols", len(t.Cols)).
		Int("partitions", len(parts)).Msg("read table")
	return t, nil
}

func readYAML(ctx context.Context, s store.Store, name string, v any) error {
	r, err := s.Open(ctx, name)
	if err != nil {
		return err
	}
	defer r.Close()
	if err := yaml.NewDecoder(r).Decode(v); err != nil {
		return fmt.Errorf("%w: decoding %s: %v", ErrCorrupt, name, err)
	}
	return nil
}

func readCols(ctx context.Context, s store.Store, schema Schema) ([][]string, error) {
	r, err := s.Open(ctx, colsFile)
	if err != nil {
		return nil, err
	}
	defer r.Close()
	sc := bufio.NewScanner(r)
	if !sc.Scan() {
		return nil, fmt.Errorf("%w: %s has no header", ErrCorrupt, colsFile)
	}
	var cols [][]string
	for sc.Scan() {
		var vals []string
		if len(schema.ColFields) > 0 {
			vals = strings.Split(sc.Text(), "\t")
		}
		if len(vals) != len(schema.ColFields) {
			return nil, fmt.Errorf("%w: %s line %d has %d values, want %d",
				ErrCorrupt, colsFile, len(cols)+2, len(vals), len(schema.ColFields))
		}
		cols = append(cols, vals)
	}
	return cols, sc.Err()
}

func (t *Table) readPartition(ctx context.Context, s store.Store, name string) ([]Row, error) {
	f, err := s.Open(ctx, name)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	br, err := bgzf.NewReader(f, 1)
	if err != nil {
		return nil, err
	}
	defer br.Close()

	nr, ne := len(t.Schema.RowFields), len(t.Schema.EntryFields)
	width := nr + ne*len(t.Cols)
	sc := bufio.NewScanner(br)
	sc.Buffer(make([]byte, 64*1024), 64<<20)
	var rows []Row
	for line := 1; sc.Scan(); line++ {
		vals := strings.Split(sc.Text(), "\t")
		if len(vals) != width {
			return nil, fmt.Errorf("%w: line %d has %d values, want %d", ErrCorrupt, line, len(vals), width)
		}
		r := Row{Values: vals[:nr:nr], Entries: make([][]string, len(t.Cols))}
		for c := range t.Cols {
			off := nr + c*ne
			r.Entries[c] = vals[off : off+ne : off+ne]
		}
		rows = append(rows, r)
	}
	return rows, sc.Err()
}

// Write stores the table in s. An existing table there is replaced when
// overwrite is set, otherwise Write fails with ErrExists. The _SUCCESS marker
// is written last.
func (t *Table) Write(ctx context.Context, s store.Store, overwrite bool, opts IOOptions) error {
	if err := t.Schema.Validate(); err != nil {
		return err
	}
	existing, err := s.List(ctx, "")
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		if !overwrite {
			return fmt.Errorf("%w: %s", ErrExists, s.Location())
		}
		log.Info().Str("location", s.Location()).Int("objects", len(existing)).Msg("overwriting existing table")
		if err := s.RemoveAll(ctx); err != nil {
			return fmt.Errorf("removing %s: %w", s.Location(), err)
		}
	}

	parts := t.Partitions()
	md := metadata{
		FormatVersion: formatVersion,
		RunID:         uuid.NewString(),
		Schema:        t.Schema,
		Rows:          len(t.Rows),
		Cols:          len(t.Cols),
		Partitions:    make([]partitionInfo, len(parts)),
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.workers())
	for i, p := range parts {
		md.Partitions[i] = partitionInfo{Path: partitionPath(i), Rows: p[1] - p[0]}
		i, p := i, p
		g.Go(func() error {
			return t.writePartition(gctx, s, partitionPath(i), t.Rows[p[0]:p[1]], opts.Level)
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	if err := writeCols(ctx, s, t); err != nil {
		return err
	}
	if err := writeYAML(ctx, s, metadataFile, md); err != nil {
		return err
	}
	w, err := s.Create(ctx, successFile)
	if err != nil {
		return err
	}
	if err := w.Close(); err != nil {
		return err
	}
	log.Debug().Str("location", s.Location()).Str("run_id", md.RunID).Int("rows", md.Rows).
		Int("partitions", len(parts)).Msg("wrote table")
	return nil
}

var errBadValue = errors.New("value contains a tab or newline")

func checkValue(v string) error {
	if strings.ContainsAny(v, "\t\n\r") {
		return fmt.Errorf("%w: %q", errBadValue, v)
	}
	return nil
}

func (t *Table) writePartition(ctx context.Context, s store.Store, name string, rows []Row, level int) (err error) {
	f, err := s.Create(ctx, name)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	if level == 0 {
		level = gzip.DefaultCompression
	}
	bw, err := bgzf.NewWriterLevel(f, level, 1)
	if err != nil {
		return err
	}
	w := bufio.NewWriter(bw)
	for _, r := range rows {
		if err := ctx.Err(); err != nil {
			return err
		}
		first := true
		put := func(v string) error {
			if err := checkValue(v); err != nil {
				return err
			}
			if !first {
				w.WriteByte('\t')
			}
			first = false
			_, err := w.WriteString(v)
			return err
		}
		for _, v := range r.Values {
			if err := put(v); err != nil {
				return err
			}
		}
		for _, e := range r.Entries {
			for _, v := range e {
				if err := put(v); err != nil {
					return err
				}
			}
		}
		if err := w.WriteByte('\n'); err != nil {
			return err
		}
	}
	if err := w.Flush(); err != nil {
		return err
	}
	return bw.Close()
}

func writeCols(ctx context.Context, s store.Store, t *Table) (err error) {
	f, err := s.Create(ctx, colsFile)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	names := make([]string, len(t.Schema.ColFields))
	for i, c := range t.Schema.ColFields {
		names[i] = c.Name
	}
	w := bufio.NewWriter(f)
	fmt.Fprintln(w, strings.Join(names, "\t"))
	for _, c := range t.Cols {
		for _, v := range c {
			if err := checkValue(v); err != nil {
				return err
			}
		}
		fmt.Fprintln(w, strings.Join(c, "\t"))
	}
	return w.Flush()
}

func writeYAML(ctx context.Context, s store.Store, name string, v any) (err error) {
	f, err := s.Create(ctx, name)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	enc := yaml.NewEncoder(f)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}
