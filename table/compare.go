package table

import (
	"cmp"
	"fmt"
	"strconv"
	"strings"

	"github.com/plantimals/eqtlift/locus"
	"github.com/plantimals/eqtlift/reference"
)

// sortKey is a parsed field value. Missing values sort last.
type sortKey struct {
	missing bool
	s       string
	n       float64
	l       locus.Locus
	a       locus.Alleles
}

type comparer struct {
	idx    int
	typ    string
	genome *reference.Genome
}

func (t *Table) comparerFor(f Field, idx int) (comparer, error) {
	c := comparer{idx: idx, typ: f.Type}
	if name, ok := LocusGenome(f.Type); ok {
		g, err := t.genomes.Get(name)
		if err != nil {
			return c, err
		}
		c.genome = g
		c.typ = "locus"
	}
	return c, nil
}

func (c comparer) key(r Row) (sortKey, error) {
	v := r.Values[c.idx]
	if v == Missing || v == "" && c.typ != TypeStr {
		return sortKey{missing: true}, nil
	}
	switch c.typ {
	case "locus":
		l, err := locus.Parse(v)
		return sortKey{l: l}, err
	case TypeAlleles:
		return sortKey{a: locus.ParseAlleles(v)}, nil
	case TypeInt32, TypeInt64, TypeFloat64:
		n, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return sortKey{}, fmt.Errorf("parsing %s value %q: %w", c.typ, v, err)
		}
		return sortKey{n: n}, nil
	case TypeBool:
		b, err := strconv.ParseBool(v)
		if err != nil {
			return sortKey{}, fmt.Errorf("parsing bool value %q: %w", v, err)
		}
		if b {
			return sortKey{n: 1}, nil
		}
		return sortKey{}, nil
	}
	return sortKey{s: v}, nil
}

func (c comparer) compare(a, b sortKey) int {
	switch {
	case a.missing && b.missing:
		return 0
	case a.missing:
		return 1
	case b.missing:
		return -1
	}
	switch c.typ {
	case "locus":
		return c.genome.Compare(a.l, b.l)
	case TypeAlleles:
		return a.a.Compare(b.a)
	case TypeInt32, TypeInt64, TypeFloat64, TypeBool:
		return cmp.Compare(a.n, b.n)
	}
	return strings.Compare(a.s, b.s)
}

func compareKeys(cmps []comparer, a, b []sortKey) int {
	for i, c := range cmps {
		if r := c.compare(a[i], b[i]); r != 0 {
			return r
		}
	}
	return 0
}
