package liftover

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/plantimals/eqtlift/reference"
	"github.com/plantimals/eqtlift/store"
	"github.com/plantimals/eqtlift/table"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testChain = `chain 1000 chr1 249250621 + 10000 10100 chr1 248956422 + 20000 20100 1
100

chain 800 chr2 243199373 + 500 600 chr1 248956422 + 100 200 3
100
`

func writeSource(t *testing.T, dir string) {
	t.Helper()
	schema := table.Schema{
		ReferenceGenome: "GRCh37",
		ColFields:       []table.Field{{Name: "tissue", Type: table.TypeStr}},
		ColKey:          []string{"tissue"},
		RowFields: []table.Field{
			{Name: "locus", Type: table.LocusType("GRCh37")},
			{Name: "alleles", Type: table.TypeAlleles},
			{Name: "gene_id", Type: table.TypeStr},
		},
		RowKey:       []string{"locus", "alleles"},
		PartitionKey: []string{"locus"},
		EntryFields:  []table.Field{{Name: "beta", Type: table.TypeFloat64}},
	}
	tbl, err := table.New(schema, [][]string{{"Whole_Blood"}}, nil)
	require.NoError(t, err)
	require.NoError(t, tbl.Append(
		table.Row{Values: []string{"1:10050", "G,A", "ENSG1"}, Entries: [][]string{{"0.5"}}},
		table.Row{Values: []string{"1:10001", "C,T", "ENSG2"}, Entries: [][]string{{"0.1"}}},
		table.Row{Values: []string{"1:5", "A,C", "ENSG3"}, Entries: [][]string{{"NA"}}},
		table.Row{Values: []string{"2:550", "A,G", "ENSG4"}, Entries: [][]string{{"-1.2"}}},
		table.Row{Values: []string{table.Missing, "T,C", "ENSG5"}, Entries: [][]string{{"0.3"}}},
		table.Row{Values: []string{"", "T,G", "ENSG6"}, Entries: [][]string{{"0.4"}}},
	))
	require.NoError(t, tbl.Write(context.Background(), store.NewLocal(dir), false, table.IOOptions{}))
}

func testConfig(t *testing.T) Config {
	t.Helper()
	dir := t.TempDir()
	cfg := DefaultConfig()
	cfg.Source = filepath.Join(dir, "eqtl.GRCh37.mt")
	cfg.Destination = filepath.Join(dir, "eqtl.GRCh38.liftover.mt")
	cfg.Chain = filepath.Join(dir, "grch37_to_grch38.over.chain")
	cfg.Workers = 2
	writeSource(t, cfg.Source)
	require.NoError(t, os.WriteFile(cfg.Chain, []byte(testChain), 0o644))
	return cfg
}

func TestRun(t *testing.T) {
	ctx := context.Background()
	cfg := testConfig(t)
	var desc bytes.Buffer
	cfg.Describe = &desc

	p := New()
	stats, err := p.Run(ctx, cfg)
	require.NoError(t, err)
	assert.Equal(t, Stats{Read: 6, Mapped: 3, Dropped: 3, Partitions: 1}, stats)

	got, err := table.Read(ctx, store.NewLocal(cfg.Destination), nil, table.IOOptions{})
	require.NoError(t, err)
	assert.Equal(t, "GRCh38", got.Schema.ReferenceGenome)
	assert.Equal(t, []string{"locus", "alleles", "gene_id"}, got.Schema.RowKey)
	assert.Equal(t, []string{"locus"}, got.Schema.PartitionKey)
	f, idx := got.Schema.RowField("locus")
	require.Equal(t, 2, idx)
	assert.Equal(t, "locus<GRCh38>", f.Type)

	var loci, genes []string
	for _, r := range got.Rows {
		genes = append(genes, r.Values[1])
		loci = append(loci, r.Values[2])
	}
	assert.Equal(t, []string{"chr1:150", "chr1:20001", "chr1:20050"}, loci)
	assert.Equal(t, []string{"ENSG4", "ENSG2", "ENSG1"}, genes)
	assert.Equal(t, [][]string{{"-1.2"}}, got.Rows[0].Entries)

	assert.Contains(t, desc.String(), "'locus': locus<GRCh37>")
	assert.Contains(t, desc.String(), "'locus': locus<GRCh38>")

	assert.Equal(t, 6.0, testutil.ToFloat64(p.Metrics.Rows.WithLabelValues("read")))
	assert.Equal(t, 3.0, testutil.ToFloat64(p.Metrics.Rows.WithLabelValues("mapped")))
	assert.Equal(t, 3.0, testutil.ToFloat64(p.Metrics.Rows.WithLabelValues("unmapped")))

	prom := filepath.Join(t.TempDir(), "eqtlift.prom")
	require.NoError(t, p.Metrics.WriteTextfile(prom))
	b, err := os.ReadFile(prom)
	require.NoError(t, err)
	assert.Contains(t, string(b), `eqtlift_rows_total{outcome="mapped"} 3`)
}

func TestRunOntoUnplacedContig(t *testing.T) {
	ctx := context.Background()
	cfg := testConfig(t)
	unplaced := `chain 1000 chr1 249250621 + 10000 10100 chrUn_KI270742v1 186739 + 500 600 1
100
`
	require.NoError(t, os.WriteFile(cfg.Chain, []byte(unplaced), 0o644))

	stats, err := New().Run(ctx, cfg)
	require.NoError(t, err)
	assert.Equal(t, Stats{Read: 6, Mapped: 2, Dropped: 4, Partitions: 1}, stats)

	got, err := table.Read(ctx, store.NewLocal(cfg.Destination), nil, table.IOOptions{})
	require.NoError(t, err)
	var loci []string
	for _, r := range got.Rows {
		loci = append(loci, r.Values[2])
	}
	assert.Equal(t, []string{"chrUn_KI270742v1:501", "chrUn_KI270742v1:550"}, loci)
}

func TestRunReusesRegisteredChain(t *testing.T) {
	ctx := context.Background()
	cfg := testConfig(t)
	p := New()
	_, err := p.Run(ctx, cfg)
	require.NoError(t, err)

	// same chain: the registered liftover is reused
	cfg.Destination += ".again"
	_, err = p.Run(ctx, cfg)
	require.NoError(t, err)

	other := filepath.Join(t.TempDir(), "other.over.chain")
	require.NoError(t, os.WriteFile(other, []byte(testChain), 0o644))
	cfg.Chain = other
	cfg.Destination += ".other"
	_, err = p.Run(ctx, cfg)
	assert.True(t, errors.Is(err, reference.ErrLiftoverExists))
}

func TestRunOverwrite(t *testing.T) {
	ctx := context.Background()
	cfg := testConfig(t)
	require.NoError(t, os.MkdirAll(cfg.Destination, 0o755))
	stale := filepath.Join(cfg.Destination, "stale.txt")
	require.NoError(t, os.WriteFile(stale, []byte("old"), 0o644))

	cfg.Overwrite = false
	_, err := New().Run(ctx, cfg)
	assert.True(t, errors.Is(err, table.ErrExists))

	cfg.Overwrite = true
	_, err = New().Run(ctx, cfg)
	require.NoError(t, err)
	_, err = os.Stat(stale)
	assert.True(t, os.IsNotExist(err))
}

func TestRunPartitions(t *testing.T) {
	cfg := testConfig(t)
	cfg.Partitions = 3
	stats, err := New().Run(context.Background(), cfg)
	require.NoError(t, err)
	assert.Equal(t, 3, stats.Partitions)
}

func TestRunMissingSource(t *testing.T) {
	cfg := testConfig(t)
	cfg.Source = filepath.Join(t.TempDir(), "nothing.mt")
	_, err := New().Run(context.Background(), cfg)
	assert.True(t, errors.Is(err, table.ErrIncomplete))
}

func TestRunWrongReference(t *testing.T) {
	cfg := testConfig(t)
	cfg.SourceReference = "GRCh38"
	cfg.DestReference = "GRCh37"
	_, err := New().Run(context.Background(), cfg)
	assert.Error(t, err)
}

func TestConfigValidate(t *testing.T) {
	require.NoError(t, DefaultConfig().Validate())

	bad := []func(*Config){
		func(c *Config) { c.Source = "" },
		func(c *Config) { c.Destination = c.Source },
		func(c *Config) { c.Chain = "" },
		func(c *Config) { c.DestReference = "" },
		func(c *Config) { c.Key = []string{"alleles", "liftover_locus"} },
		func(c *Config) { c.PartitionKey = []string{"alleles"} },
		func(c *Config) { c.Partitions = -1 },
	}
	for i, mutate := range bad {
		c := DefaultConfig()
		mutate(&c)
		assert.Errorf(t, c.Validate(), "case %d", i)
	}
}
