/*Package reference describes reference genome builds and the liftovers
registered between them.
*/
package reference

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"sync"

	"github.com/plantimals/eqtlift/chain"
	"github.com/plantimals/eqtlift/locus"
	"github.com/plantimals/eqtlift/store"
	"github.com/rs/zerolog/log"
)

var (
	ErrUnknownGenome  = errors.New("unknown reference genome")
	ErrLiftoverExists = errors.New("liftover already registered")
	ErrNoLiftover     = errors.New("no liftover registered")
)

// hg19 spells GRCh37 scaffolds as chrUn_gl000220 or chr1_gl000191_random.
var hg19Scaffold = regexp.MustCompile(`^chr[0-9A-Za-z]+_(gl[0-9]+)(?:_random)?$`)

type Contig struct {
	Name   string
	Length int
}

// Genome is a named assembly with ordered contigs.
type Genome struct {
	Name    string
	Contigs []Contig

	index map[string]int

	mu        sync.RWMutex
	liftovers map[string]*liftover
}

type liftover struct {
	chain string // location the index was read from
	dest  *Genome
	idx   *chain.Index
	alias map[string]string // own contig name -> chain target name
}

func NewGenome(name string, contigs []Contig) *Genome {
	g := &Genome{
		Name:      name,
		Contigs:   append([]Contig(nil), contigs...),
		index:     make(map[string]int, len(contigs)),
		liftovers: make(map[string]*liftover),
	}
	for i, c := range g.Contigs {
		g.index[c.Name] = i
	}
	return g
}

// ContigIndex is the position of the contig in the genome's ordering.
func (g *Genome) ContigIndex(name string) (int, bool) {
	i, ok := g.index[name]
	return i, ok
}

// Resolve maps another assembly's spelling of a contig ("chr1", "1", "chrM",
// "MT", "chrUn_gl000220") onto this genome's own name.
func (g *Genome) Resolve(name string) (string, bool) {
	if _, ok := g.index[name]; ok {
		return name, true
	}
	bare := strings.TrimPrefix(name, "chr")
	candidates := []string{bare, "chr" + bare}
	switch bare {
	case "M", "MT":
		candidates = append(candidates, "MT", "chrM")
	}
	if m := hg19Scaffold.FindStringSubmatch(name); m != nil {
		candidates = append(candidates, strings.ToUpper(m[1])+".1")
	}
	for _, c := range candidates {
		if _, ok := g.index[c]; ok {
			return c, true
		}
	}
	return "", false
}

// IsValid reports whether l lies on one of the genome's contigs.
func (g *Genome) IsValid(l locus.Locus) bool {
	i, ok := g.index[l.Contig]
	return ok && l.Position >= 1 && l.Position <= g.Contigs[i].Length
}

// Compare orders loci by contig, then position. Contigs the genome does not
// know sort after the known ones, by name.
func (g *Genome) Compare(a, b locus.Locus) int {
	ai, aok := g.index[a.Contig]
	bi, bok := g.index[b.Contig]
	switch {
	case aok && !bok:
		return -1
	case !aok && bok:
		return 1
	case !aok && !bok:
		if c := strings.Compare(a.Contig, b.Contig); c != 0 {
			return c
		}
	case ai != bi:
		if ai < bi {
			return -1
		}
		return 1
	}
	switch {
	case a.Position < b.Position:
		return -1
	case a.Position > b.Position:
		return 1
	}
	return 0
}

// AddLiftover attaches a chain index, read from chainLocation, mapping this
// genome onto dest.
func (g *Genome) AddLiftover(idx *chain.Index, dest *Genome, chainLocation string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if lo, ok := g.liftovers[dest.Name]; ok {
		return fmt.Errorf("%w: %s -> %s from %s", ErrLiftoverExists, g.Name, dest.Name, lo.chain)
	}
	lo := &liftover{chain: chainLocation, dest: dest, idx: idx, alias: make(map[string]string)}
	var skipped []string
	for _, name := range idx.Contigs() {
		own, ok := g.Resolve(name)
		if !ok {
			skipped = append(skipped, name)
			continue
		}
		lo.alias[own] = name
	}
	if len(skipped) > 0 {
		log.Debug().Str("source", g.Name).Int("contigs", len(skipped)).
			Msg("chain contigs not in source genome are ignored")
	}
	g.liftovers[dest.Name] = lo
	return nil
}

func (g *Genome) HasLiftover(dest string) bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	_, ok := g.liftovers[dest]
	return ok
}

// LiftoverChain returns the chain location the liftover to dest was
// registered from.
func (g *Genome) LiftoverChain(dest string) (string, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	lo, ok := g.liftovers[dest]
	if !ok {
		return "", false
	}
	return lo.chain, true
}

func (g *Genome) RemoveLiftover(dest string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.liftovers, dest)
}

// Liftover maps l onto the dest genome. It reports false when the locus does
// not map uniquely or lands outside the dest genome's contigs.
func (g *Genome) Liftover(l locus.Locus, dest string) (locus.Locus, bool, error) {
	g.mu.RLock()
	lo, ok := g.liftovers[dest]
	g.mu.RUnlock()
	if !ok {
		return locus.Locus{}, false, fmt.Errorf("%w: %s -> %s", ErrNoLiftover, g.Name, dest)
	}
	name, ok := lo.alias[l.Contig]
	if !ok {
		return locus.Locus{}, false, nil
	}
	p, ok := lo.idx.Map(name, l.Position-1)
	if !ok {
		return locus.Locus{}, false, nil
	}
	contig, ok := lo.dest.Resolve(p.Contig)
	if !ok {
		return locus.Locus{}, false, nil
	}
	out := locus.Locus{Contig: contig, Position: p.Pos + 1}
	if !lo.dest.IsValid(out) {
		return locus.Locus{}, false, nil
	}
	return out, true, nil
}

// Registry holds the genomes known to a run.
type Registry struct {
	mu      sync.RWMutex
	genomes map[string]*Genome
}

// NewRegistry returns a registry holding GRCh37 and GRCh38.
func NewRegistry() *Registry {
	r := &Registry{genomes: make(map[string]*Genome)}
	r.Register(GRCh37())
	r.Register(GRCh38())
	return r
}

func (r *Registry) Register(g *Genome) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.genomes[g.Name] = g
}

func (r *Registry) Get(name string) (*Genome, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	g, ok := r.genomes[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownGenome, name)
	}
	return g, nil
}

// AddLiftover reads the chain file at chainLocation and registers it on the
// source genome as the liftover to dest.
func (r *Registry) AddLiftover(ctx context.Context, source, chainLocation, dest string, opts store.Options) error {
	src, err := r.Get(source)
	if err != nil {
		return err
	}
	dst, err := r.Get(dest)
	if err != nil {
		return err
	}
	if prev, ok := src.LiftoverChain(dest); ok {
		return fmt.Errorf("%w: %s -> %s from %s", ErrLiftoverExists, source, dest, prev)
	}
	f, err := store.OpenFile(ctx, chainLocation, opts)
	if err != nil {
		return fmt.Errorf("opening chain file: %w", err)
	}
	defer f.Close()
	idx, err := chain.Read(f)
	if err != nil {
		return fmt.Errorf("reading chain file %s: %w", chainLocation, err)
	}
	log.Info().Str("chain", chainLocation).Int("chains", len(idx.Chains())).
		Int("blocks", idx.Blocks()).Msg("loaded chain file")
	return src.AddLiftover(idx, dst, chainLocation)
}
