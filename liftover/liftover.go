/*Package liftover moves an eQTL matrix table from one reference build to
another.

Run reads the source table, registers the chain file, annotates every row
with its destination locus, drops rows that do not map, re-keys and
re-partitions by the new locus, swaps it in for the old locus field and
writes the result.
*/
package liftover

import (
	"context"
	"errors"
	"fmt"
	"io"
	"slices"
	"time"

	"github.com/plantimals/eqtlift/locus"
	"github.com/plantimals/eqtlift/reference"
	"github.com/plantimals/eqtlift/store"
	"github.com/plantimals/eqtlift/table"
	"github.com/rs/zerolog/log"
)

type Config struct {
	Source      string
	Destination string
	Chain       string

	SourceReference string
	DestReference   string

	// LocusField is the locus being lifted; Field holds the lifted locus
	// until it replaces LocusField.
	LocusField   string
	Field        string
	PartitionKey []string
	Key          []string

	// Partitions is the output partition count; zero keeps the source's.
	Partitions int
	Workers    int
	Overwrite  bool

	Store store.Options

	// Describe, when set, receives the schema of the source and the result.
	Describe io.Writer
}

// DefaultConfig lifts the GTEx v7 eQTL associations from GRCh37 to GRCh38.
func DefaultConfig() Config {
	return Config{
		Source:          "gs://hail-datasets/hail-data/gtex_v7_eqtl_associations.GRCh37.mt",
		Destination:     "gs://hail-datasets/hail-data/gtex_v7_eqtl_associations.GRCh38.liftover.mt",
		Chain:           "gs://hail-common/references/grch37_to_grch38.over.chain.gz",
		SourceReference: "GRCh37",
		DestReference:   "GRCh38",
		LocusField:      "locus",
		Field:           "liftover_locus",
		PartitionKey:    []string{"liftover_locus"},
		Key:             []string{"liftover_locus", "alleles", "gene_id"},
		Workers:         8,
		Overwrite:       true,
	}
}

func (c Config) Validate() error {
	switch {
	case c.Source == "":
		return errors.New("no source table")
	case c.Destination == "":
		return errors.New("no destination table")
	case c.Chain == "":
		return errors.New("no chain file")
	case c.Source == c.Destination:
		return fmt.Errorf("source and destination are both %s", c.Source)
	case c.SourceReference == "" || c.DestReference == "":
		return errors.New("source and destination references are required")
	case c.LocusField == "" || c.Field == "":
		return errors.New("locus fields are required")
	case len(c.Key) == 0 || c.Key[0] != c.Field:
		return fmt.Errorf("key %v must lead with %q", c.Key, c.Field)
	case len(c.PartitionKey) == 0 || !slices.Equal(c.PartitionKey, c.Key[:min(len(c.PartitionKey), len(c.Key))]):
		return fmt.Errorf("partition key %v must be a prefix of key %v", c.PartitionKey, c.Key)
	case c.Partitions < 0:
		return fmt.Errorf("negative partition count %d", c.Partitions)
	}
	return nil
}

type Stats struct {
	Read       int
	Mapped     int
	Dropped    int
	Partitions int
}

// Pipeline runs liftovers against one set of reference genomes.
type Pipeline struct {
	Genomes *reference.Registry
	Metrics *Metrics
}

func New() *Pipeline {
	return &Pipeline{Genomes: reference.NewRegistry(), Metrics: NewMetrics()}
}

// Run performs the liftover described by cfg.
func (p *Pipeline) Run(ctx context.Context, cfg Config) (Stats, error) {
	var stats Stats
	if err := cfg.Validate(); err != nil {
		return stats, err
	}
	ioOpts := table.IOOptions{Workers: cfg.Workers}

	start := time.Now()
	src, err := store.New(ctx, cfg.Source, cfg.Store)
	if err != nil {
		return stats, err
	}
	t, err := table.Read(ctx, src, p.Genomes, ioOpts)
	if err != nil {
		return stats, fmt.Errorf("reading %s: %w", cfg.Source, err)
	}
	p.Metrics.observe("read", start)
	stats.Read = t.CountRows()
	p.Metrics.Rows.WithLabelValues("read").Add(float64(stats.Read))
	log.Info().Str("source", cfg.Source).Int("rows", t.CountRows()).Int("cols", t.CountCols()).Msg("read source table")
	if cfg.Describe != nil {
		t.Describe(cfg.Describe)
	}

	start = time.Now()
	if err := p.addLiftover(ctx, cfg); err != nil {
		return stats, err
	}
	p.Metrics.observe("add_liftover", start)

	start = time.Now()
	if err := p.annotate(ctx, t, cfg); err != nil {
		return stats, err
	}
	p.Metrics.observe("annotate", start)

	defined, err := t.IsDefined(cfg.Field)
	if err != nil {
		return stats, err
	}
	stats.Dropped = t.FilterRows(defined, true)
	stats.Mapped = t.CountRows()
	p.Metrics.Rows.WithLabelValues("mapped").Add(float64(stats.Mapped))
	p.Metrics.Rows.WithLabelValues("unmapped").Add(float64(stats.Dropped))
	log.Info().Int("mapped", stats.Mapped).Int("dropped", stats.Dropped).Msg("lifted loci")

	start = time.Now()
	if cfg.Partitions > 0 {
		t.NPartitions = cfg.Partitions
	}
	if err := t.PartitionRowsBy(cfg.PartitionKey, cfg.Key...); err != nil {
		return stats, err
	}
	p.Metrics.observe("partition", start)

	if err := t.Drop(cfg.LocusField); err != nil {
		return stats, err
	}
	if err := t.Rename(map[string]string{cfg.Field: cfg.LocusField}); err != nil {
		return stats, err
	}
	t.Schema.ReferenceGenome = cfg.DestReference
	if cfg.Describe != nil {
		t.Describe(cfg.Describe)
	}

	start = time.Now()
	dst, err := store.New(ctx, cfg.Destination, cfg.Store)
	if err != nil {
		return stats, err
	}
	if err := t.Write(ctx, dst, cfg.Overwrite, ioOpts); err != nil {
		return stats, fmt.Errorf("writing %s: %w", cfg.Destination, err)
	}
	p.Metrics.observe("write", start)
	stats.Partitions = len(t.Partitions())
	log.Info().Str("destination", cfg.Destination).Int("rows", stats.Mapped).
		Int("partitions", stats.Partitions).Msg("wrote lifted table")
	return stats, nil
}

// addLiftover registers cfg.Chain, reusing a liftover an earlier run
// registered from the same chain.
func (p *Pipeline) addLiftover(ctx context.Context, cfg Config) error {
	err := p.Genomes.AddLiftover(ctx, cfg.SourceReference, cfg.Chain, cfg.DestReference, cfg.Store)
	if !errors.Is(err, reference.ErrLiftoverExists) {
		return err
	}
	src, gerr := p.Genomes.Get(cfg.SourceReference)
	if gerr != nil {
		return gerr
	}
	if prev, _ := src.LiftoverChain(cfg.DestReference); prev != cfg.Chain {
		return err
	}
	return nil
}

func (p *Pipeline) annotate(ctx context.Context, t *table.Table, cfg Config) error {
	g, err := t.Genome(cfg.LocusField)
	if err != nil {
		return err
	}
	if g.Name != cfg.SourceReference {
		return fmt.Errorf("field %q is on %s, not %s", cfg.LocusField, g.Name, cfg.SourceReference)
	}
	_, idx := t.Schema.RowField(cfg.LocusField)
	f := table.Field{Name: cfg.Field, Type: table.LocusType(cfg.DestReference)}
	return t.AnnotateRows(ctx, f, cfg.Workers, func(r table.Row) (string, error) {
		v := r.Values[idx]
		if v == table.Missing || v == "" {
			return table.Missing, nil
		}
		l, err := locus.Parse(v)
		if err != nil {
			return "", err
		}
		lifted, ok, err := g.Liftover(l, cfg.DestReference)
		if err != nil || !ok {
			return table.Missing, err
		}
		return lifted.String(), nil
	})
}
