package convert

import (
	"bytes"
	"compress/gzip"
	"io"
	"strings"
	"testing"

	"github.com/plantimals/eqtlift/table"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func liftedTable(t *testing.T) *table.Table {
	t.Helper()
	schema := table.Schema{
		ReferenceGenome: "GRCh38",
		ColFields:       []table.Field{{Name: "tissue", Type: table.TypeStr}},
		ColKey:          []string{"tissue"},
		RowFields: []table.Field{
			{Name: "alleles", Type: table.TypeAlleles},
			{Name: "gene_id", Type: table.TypeStr},
			{Name: "locus", Type: table.LocusType("GRCh38")},
		},
		RowKey:       []string{"locus", "alleles", "gene_id"},
		PartitionKey: []string{"locus"},
		EntryFields:  []table.Field{{Name: "beta", Type: table.TypeFloat64}},
	}
	tbl, err := table.New(schema, [][]string{{"Lung"}}, nil)
	require.NoError(t, err)
	rows := [][]string{
		{"C,T", "ENSG2", "chr10:20001"},
		{"G,A", "ENSG1", "chr2:20050"},
		{"G,A", "ENSG5", "chr2:20050"},
		{"A,G", "ENSG4", "chr2:150"},
		{"A,G", "ENSG9", "NA"},
	}
	for _, r := range rows {
		require.NoError(t, tbl.Append(table.Row{Values: r, Entries: [][]string{{"0.1"}}}))
	}
	return tbl
}

func TestConvertTable(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewClient(liftedTable(t)).ConvertTable(&buf))

	zr, err := gzip.NewReader(&buf)
	require.NoError(t, err)
	b, err := io.ReadAll(zr)
	require.NoError(t, err)
	out := string(b)

	assert.Contains(t, out, "##contig=<ID=chr2,length=242193529,assembly=GRCh38>")
	assert.Contains(t, out, "#CHROM\tPOS")

	var records []string
	for _, line := range strings.Split(out, "\n") {
		if line != "" && !strings.HasPrefix(line, "#") {
			records = append(records, line)
		}
	}
	require.Len(t, records, 3)
	assert.True(t, strings.HasPrefix(records[0], "chr2\t150\t.\tA\tG\t"), records[0])
	assert.True(t, strings.HasPrefix(records[1], "chr2\t20050\t.\tG\tA\t"), records[1])
	assert.Contains(t, records[1], "GENE=ENSG1,ENSG5")
	assert.True(t, strings.HasPrefix(records[2], "chr10\t20001\t.\tC\tT\t"), records[2])
}

func TestConvertTableNeedsLocus(t *testing.T) {
	tbl := liftedTable(t)
	c := NewClient(tbl)
	c.locusField = "gene_id"
	assert.Error(t, c.ConvertTable(io.Discard))
}
