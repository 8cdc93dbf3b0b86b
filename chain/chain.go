package chain

import (
	"bufio"
	"compress/gzip"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/biogo/store/interval"
	"gopkg.in/h2non/filetype.v1"
)

var ErrSyntax = errors.New("chain syntax error")

// Chain is the header of one alignment chain. Coordinates are zero based
// and half open, the query ones on the query strand.
type Chain struct {
	ID     int64
	Score  float64
	TName  string
	TSize  int
	TStart int
	TEnd   int
	QName  string
	QSize  int
	Strand byte
	QStart int
	QEnd   int
}

type block struct {
	tStart, tEnd int
	qStart       int
	chain        *Chain
	uid          uintptr
}

func (b block) Overlap(r interval.IntRange) bool {
	return b.tStart < r.End && b.tEnd > r.Start
}

func (b block) ID() uintptr { return b.uid }

func (b block) Range() interval.IntRange {
	return interval.IntRange{Start: b.tStart, End: b.tEnd}
}

type point int

func (p point) Overlap(r interval.IntRange) bool {
	return int(p) >= r.Start && int(p) < r.End
}

// Index holds the aligned blocks of a chain file.
type Index struct {
	trees  map[string]*interval.IntTree
	chains []*Chain
	blocks int
}

// Position is the result of mapping a target position.
type Position struct {
	Contig string
	Pos    int // zero based
	Strand byte
	Chain  *Chain
}

// Read parses a chain file. Gzip and BGZF input is detected from its magic
// bytes and decompressed.
func Read(r io.Reader) (*Index, error) {
	br := bufio.NewReaderSize(r, 1<<16)
	head, err := br.Peek(262)
	if err != nil && err != io.EOF && err != bufio.ErrBufferFull {
		return nil, err
	}
	var in io.Reader = br
	if kind, _ := filetype.Match(head); kind.Extension == "gz" {
		gz, err := gzip.NewReader(br)
		if err != nil {
			return nil, fmt.Errorf("opening compressed chain: %w", err)
		}
		defer gz.Close()
		in = gz
	}
	return parse(in)
}

func parse(r io.Reader) (*Index, error) {
	idx := &Index{trees: make(map[string]*interval.IntTree)}
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 1<<20)

	var (
		cur    *Chain
		t, q   int
		lineNo int
		uid    uintptr
	)
	finish := func() error {
		if cur == nil {
			return nil
		}
		if t != cur.TEnd || q != cur.QEnd {
			return fmt.Errorf("%w: line %d: chain %d blocks end at %d/%d, header says %d/%d",
				ErrSyntax, lineNo, cur.ID, t, q, cur.TEnd, cur.QEnd)
		}
		cur = nil
		return nil
	}

	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if line == "" || line[0] == '#' {
			continue
		}
		fields := strings.Fields(line)
		if fields[0] == "chain" {
			if err := finish(); err != nil {
				return nil, err
			}
			c, err := parseHeader(fields)
			if err != nil {
				return nil, fmt.Errorf("%w: line %d: %v", ErrSyntax, lineNo, err)
			}
			cur, t, q = c, c.TStart, c.QStart
			idx.chains = append(idx.chains, c)
			continue
		}
		if cur == nil {
			return nil, fmt.Errorf("%w: line %d: alignment data outside a chain", ErrSyntax, lineNo)
		}
		if len(fields) != 1 && len(fields) != 3 {
			return nil, fmt.Errorf("%w: line %d: expected 1 or 3 fields, found %d", ErrSyntax, lineNo, len(fields))
		}
		nums := make([]int, len(fields))
		for i, f := range fields {
			n, err := strconv.Atoi(f)
			if err != nil || n < 0 {
				return nil, fmt.Errorf("%w: line %d: bad number %q", ErrSyntax, lineNo, f)
			}
			nums[i] = n
		}
		size := nums[0]
		if t+size > cur.TEnd || q+size > cur.QEnd {
			return nil, fmt.Errorf("%w: line %d: block overruns chain %d", ErrSyntax, lineNo, cur.ID)
		}
		if size > 0 {
			tree, ok := idx.trees[cur.TName]
			if !ok {
				tree = &interval.IntTree{}
				idx.trees[cur.TName] = tree
			}
			uid++
			if err := tree.Insert(block{tStart: t, tEnd: t + size, qStart: q, chain: cur, uid: uid}, true); err != nil {
				return nil, fmt.Errorf("line %d: %w", lineNo, err)
			}
			idx.blocks++
		}
		t += size
		q += size
		if len(nums) == 3 {
			t += nums[1]
			q += nums[2]
		} else if err := finish(); err != nil {
			return nil, err
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	if err := finish(); err != nil {
		return nil, err
	}
	for _, tree := range idx.trees {
		tree.AdjustRanges()
	}
	return idx, nil
}

func parseHeader(f []string) (*Chain, error) {
	if len(f) != 13 && len(f) != 12 {
		return nil, fmt.Errorf("chain header has %d fields", len(f))
	}
	var (
		c   = &Chain{TName: f[2], QName: f[7]}
		err error
	)
	if c.Score, err = strconv.ParseFloat(f[1], 64); err != nil {
		return nil, fmt.Errorf("score: %v", err)
	}
	ints := []struct {
		dst *int
		s   string
	}{
		{&c.TSize, f[3]}, {&c.TStart, f[5]}, {&c.TEnd, f[6]},
		{&c.QSize, f[8]}, {&c.QStart, f[10]}, {&c.QEnd, f[11]},
	}
	for _, v := range ints {
		if *v.dst, err = strconv.Atoi(v.s); err != nil {
			return nil, err
		}
	}
	if len(f) == 13 {
		if c.ID, err = strconv.ParseInt(f[12], 10, 64); err != nil {
			return nil, fmt.Errorf("id: %v", err)
		}
	}
	if f[4] != "+" {
		return nil, fmt.Errorf("target strand must be +, found %q", f[4])
	}
	if f[9] != "+" && f[9] != "-" {
		return nil, fmt.Errorf("unknown query strand %q", f[9])
	}
	c.Strand = f[9][0]
	if c.TStart > c.TEnd || c.TEnd > c.TSize || c.QStart > c.QEnd || c.QEnd > c.QSize {
		return nil, fmt.Errorf("chain %d coordinates out of range", c.ID)
	}
	return c, nil
}

// Map returns where the zero based pos on target contig lands in the query
// assembly. Positions in gaps, off every chain, or covered by more than one
// chain do not map.
func (idx *Index) Map(contig string, pos int) (Position, bool) {
	tree, ok := idx.trees[contig]
	if !ok {
		return Position{}, false
	}
	hits := tree.Get(point(pos))
	if len(hits) == 0 {
		return Position{}, false
	}
	b := hits[0].(block)
	for _, h := range hits[1:] {
		if h.(block).chain != b.chain {
			return Position{}, false
		}
	}
	q := b.qStart + pos - b.tStart
	if b.chain.Strand == '-' {
		q = b.chain.QSize - 1 - q
	}
	return Position{Contig: b.chain.QName, Pos: q, Strand: b.chain.Strand, Chain: b.chain}, true
}

// Contigs lists the target contigs that have at least one aligned block.
func (idx *Index) Contigs() []string {
	names := make([]string, 0, len(idx.trees))
	for name := range idx.trees {
		names = append(names, name)
	}
	return names
}

// QueryContigs lists the distinct query contigs named by the chains.
func (idx *Index) QueryContigs() []string {
	seen := make(map[string]bool)
	var names []string
	for _, c := range idx.chains {
		if !seen[c.QName] {
			seen[c.QName] = true
			names = append(names, c.QName)
		}
	}
	return names
}

func (idx *Index) Chains() []*Chain { return idx.chains }

func (idx *Index) Blocks() int { return idx.blocks }
