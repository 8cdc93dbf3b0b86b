package reference

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/plantimals/eqtlift/chain"
	"github.com/plantimals/eqtlift/locus"
	"github.com/plantimals/eqtlift/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const b37ToB38 = `chain 1000 chr1 249250621 + 10000 10100 chr1 248956422 + 20000 20100 1
100

chain 900 chrM 16569 + 0 16569 chrM 16569 + 0 16569 2
16569

chain 800 chr2 243199373 + 500 600 chrUn_gl000220 161802 + 0 100 3
100
`

func writeChain(t *testing.T, src string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "grch37_to_grch38.over.chain")
	require.NoError(t, os.WriteFile(p, []byte(src), 0o644))
	return p
}

func TestResolve(t *testing.T) {
	b37, b38 := GRCh37(), GRCh38()
	tests := []struct {
		g    *Genome
		in   string
		want string
	}{
		{b37, "chr1", "1"},
		{b37, "1", "1"},
		{b37, "chrM", "MT"},
		{b38, "1", "chr1"},
		{b38, "MT", "chrM"},
		{b38, "chrX", "chrX"},
		{b37, "chrUn_gl000220", "GL000220.1"},
		{b37, "chr1_gl000191_random", "GL000191.1"},
		{b37, "hs37d5", "hs37d5"},
		{b38, "chrUn_KI270742v1", "chrUn_KI270742v1"},
		{b38, "chr1_KI270706v1_random", "chr1_KI270706v1_random"},
		{b38, "chrEBV", "chrEBV"},
	}
	for _, tt := range tests {
		got, ok := tt.g.Resolve(tt.in)
		assert.True(t, ok, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
	_, ok := b38.Resolve("chrUn_gl000220")
	assert.False(t, ok)
}

func TestIsValidAndCompare(t *testing.T) {
	b37 := GRCh37()
	assert.True(t, b37.IsValid(locus.Locus{Contig: "MT", Position: 16569}))
	assert.False(t, b37.IsValid(locus.Locus{Contig: "MT", Position: 16570}))
	assert.False(t, b37.IsValid(locus.Locus{Contig: "chr1", Position: 10}))

	assert.True(t, b37.IsValid(locus.Locus{Contig: "GL000192.1", Position: 547496}))
	assert.False(t, b37.IsValid(locus.Locus{Contig: "GL000192.1", Position: 547497}))
	assert.True(t, GRCh38().IsValid(locus.Locus{Contig: "chrUn_KI270742v1", Position: 186739}))

	i, ok := b37.ContigIndex("X")
	assert.True(t, ok)
	assert.Equal(t, 22, i)
	_, ok = b37.ContigIndex("chrX")
	assert.False(t, ok)

	l := func(c string, p int) locus.Locus { return locus.Locus{Contig: c, Position: p} }
	assert.Equal(t, -1, b37.Compare(l("2", 900), l("10", 5)))
	assert.Equal(t, 1, b37.Compare(l("X", 1), l("22", 5)))
	assert.Equal(t, -1, b37.Compare(l("1", 5), l("1", 6)))
	assert.Equal(t, 0, b37.Compare(l("1", 5), l("1", 5)))
	assert.Equal(t, -1, b37.Compare(l("MT", 5), l("GL000192.1", 1)))
	assert.Equal(t, -1, b37.Compare(l("GL000192.1", 1), l("contig_x", 1)))
}

func TestRegistryAddLiftover(t *testing.T) {
	ctx := context.Background()
	r := NewRegistry()
	p := writeChain(t, b37ToB38)

	require.NoError(t, r.AddLiftover(ctx, "GRCh37", p, "GRCh38", store.Options{}))
	b37, err := r.Get("GRCh37")
	require.NoError(t, err)
	assert.True(t, b37.HasLiftover("GRCh38"))
	loc, ok := b37.LiftoverChain("GRCh38")
	assert.True(t, ok)
	assert.Equal(t, p, loc)

	err = r.AddLiftover(ctx, "GRCh37", p, "GRCh38", store.Options{})
	assert.True(t, errors.Is(err, ErrLiftoverExists))

	got, ok, err := b37.Liftover(locus.Locus{Contig: "1", Position: 10050}, "GRCh38")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "chr1:20050", got.String())

	got, ok, err = b37.Liftover(locus.Locus{Contig: "MT", Position: 1}, "GRCh38")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "chrM:1", got.String())

	// outside every chain
	_, ok, err = b37.Liftover(locus.Locus{Contig: "1", Position: 5}, "GRCh38")
	require.NoError(t, err)
	assert.False(t, ok)

	// lands on a contig GRCh38 does not carry
	_, ok, err = b37.Liftover(locus.Locus{Contig: "2", Position: 550}, "GRCh38")
	require.NoError(t, err)
	assert.False(t, ok)

	b37.RemoveLiftover("GRCh38")
	_, _, err = b37.Liftover(locus.Locus{Contig: "1", Position: 10050}, "GRCh38")
	assert.True(t, errors.Is(err, ErrNoLiftover))
}

func TestLiftoverOutsideDestination(t *testing.T) {
	src := NewGenome("Src", []Contig{{"A", 1000}})
	dst := NewGenome("Dst", []Contig{{"B", 50}})
	idx, err := chain.Read(strings.NewReader("chain 1 A 1000 + 0 100 B 1000 + 0 100 1\n100\n"))
	require.NoError(t, err)
	require.NoError(t, src.AddLiftover(idx, dst, "A_to_B.over.chain"))
	loc, ok := src.LiftoverChain("Dst")
	assert.True(t, ok)
	assert.Equal(t, "A_to_B.over.chain", loc)
	assert.True(t, errors.Is(src.AddLiftover(idx, dst, "other.chain"), ErrLiftoverExists))

	got, ok, err := src.Liftover(locus.Locus{Contig: "A", Position: 50}, "Dst")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "B:50", got.String())

	_, ok, err = src.Liftover(locus.Locus{Contig: "A", Position: 51}, "Dst")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRegistryErrors(t *testing.T) {
	r := NewRegistry()
	_, err := r.Get("GRCm39")
	assert.True(t, errors.Is(err, ErrUnknownGenome))

	err = r.AddLiftover(context.Background(), "GRCh37", "missing.chain", "GRCh38", store.Options{})
	assert.True(t, errors.Is(err, store.ErrNotExist))

	err = r.AddLiftover(context.Background(), "GRCh37", writeChain(t, "garbage\n"), "GRCh38", store.Options{})
	assert.True(t, errors.Is(err, chain.ErrSyntax))
}

func TestLiftoverOntoScaffolds(t *testing.T) {
	r := NewRegistry()
	p := writeChain(t, `chain 1000 chr1 249250621 + 10000 10100 chrUn_KI270742v1 186739 + 500 600 1
100

chain 900 chrUn_gl000220 161802 + 0 100 chr1 248956422 + 1000 1100 2
100
`)
	require.NoError(t, r.AddLiftover(context.Background(), "GRCh37", p, "GRCh38", store.Options{}))
	b37, err := r.Get("GRCh37")
	require.NoError(t, err)

	got, ok, err := b37.Liftover(locus.Locus{Contig: "1", Position: 10050}, "GRCh38")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "chrUn_KI270742v1:550", got.String())

	got, ok, err = b37.Liftover(locus.Locus{Contig: "GL000220.1", Position: 1}, "GRCh38")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "chr1:1001", got.String())
}
