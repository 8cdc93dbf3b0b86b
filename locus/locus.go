package locus

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Missing is the text encoding of an undefined value.
const Missing = "NA"

var ErrMalformed = errors.New("malformed locus")

// Locus is a one based position on a named contig.
type Locus struct {
	Contig   string
	Position int
}

func (l Locus) String() string {
	return l.Contig + ":" + strconv.Itoa(l.Position)
}

// Parse reads a locus written as contig:position. The contig may itself hold
// colons (HLA alt contigs do), so the position is taken after the last one.
func Parse(s string) (Locus, error) {
	i := strings.LastIndexByte(s, ':')
	if i <= 0 || i == len(s)-1 {
		return Locus{}, fmt.Errorf("%w: %q", ErrMalformed, s)
	}
	pos, err := strconv.Atoi(s[i+1:])
	if err != nil {
		return Locus{}, fmt.Errorf("%w: %q: %v", ErrMalformed, s, err)
	}
	if pos < 1 {
		return Locus{}, fmt.Errorf("%w: %q: position must be one based", ErrMalformed, s)
	}
	return Locus{Contig: s[:i], Position: pos}, nil
}

//Alleles are the reference allele followed by the alternates
type Alleles []string

func ParseAlleles(s string) Alleles {
	if s == "" || s == Missing {
		return nil
	}
	return strings.Split(s, ",")
}

func (a Alleles) String() string {
	if len(a) == 0 {
		return Missing
	}
	return strings.Join(a, ",")
}

// Compare orders alleles lexicographically, element by element.
func (a Alleles) Compare(b Alleles) int {
	for i := 0; i < len(a) && i < len(b); i++ {
		if c := strings.Compare(a[i], b[i]); c != 0 {
			return c
		}
	}
	switch {
	case len(a) < len(b):
		return -1
	case len(a) > len(b):
		return 1
	}
	return 0
}
