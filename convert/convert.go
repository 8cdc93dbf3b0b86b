package convert

import (
	"compress/gzip"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/biogo/hts/bgzf"
	"github.com/brentp/vcfgo"
	"github.com/plantimals/eqtlift/locus"
	"github.com/plantimals/eqtlift/reference"
	"github.com/plantimals/eqtlift/table"
)

type Client struct {
	table       *table.Table
	locusField  string
	allelesFld  string
	geneField   string
	compression int
}

//NewClient returns a Client reading the default eQTL field names
func NewClient(t *table.Table) *Client {
	return &Client{
		table:       t,
		locusField:  "locus",
		allelesFld:  "alleles",
		geneField:   "gene_id",
		compression: gzip.BestCompression,
	}
}

type variant struct {
	locus   locus.Locus
	alleles locus.Alleles
	genes   []string
}

func (v *variant) key() string {
	return v.locus.String() + "|" + v.alleles.String()
}

// ConvertTable writes the table's variants to w as BGZF-compressed VCF.
func (c *Client) ConvertTable(w io.Writer) error {
	genome, err := c.table.Genome(c.locusField)
	if err != nil {
		return err
	}
	variants, err := c.collect(genome)
	if err != nil {
		return err
	}

	bgzfOut, err := bgzf.NewWriterLevel(w, c.compression, 1)
	if err != nil {
		return err
	}
	hdr := c.getHeader(genome)
	vcfWriter, err := vcfgo.NewWriter(bgzfOut, hdr)
	if err != nil {
		return fmt.Errorf("error opening vcfgo.Writer: %w", err)
	}
	for _, v := range variants {
		vcfWriter.WriteVariant(c.toVCF(v, hdr))
	}
	return bgzfOut.Close()
}

// collect groups rows into variants sorted by locus, then alleles.
func (c *Client) collect(genome *reference.Genome) ([]*variant, error) {
	byKey := make(map[string]*variant)
	var variants []*variant
	for i, r := range c.table.Rows {
		ls, err := c.table.Value(r, c.locusField)
		if err != nil {
			return nil, err
		}
		if ls == table.Missing {
			continue
		}
		l, err := locus.Parse(ls)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}
		as, err := c.table.Value(r, c.allelesFld)
		if err != nil {
			return nil, err
		}
		alleles := locus.ParseAlleles(as)
		if len(alleles) == 0 {
			continue
		}
		v := &variant{locus: l, alleles: alleles}
		if prev, ok := byKey[v.key()]; ok {
			v = prev
		} else {
			byKey[v.key()] = v
			variants = append(variants, v)
		}
		gene, err := c.table.Value(r, c.geneField)
		if err != nil {
			return nil, err
		}
		if gene != table.Missing {
			v.genes = append(v.genes, gene)
		}
	}
	sort.SliceStable(variants, func(i, j int) bool {
		if cmp := genome.Compare(variants[i].locus, variants[j].locus); cmp != 0 {
			return cmp < 0
		}
		return variants[i].alleles.Compare(variants[j].alleles) < 0
	})
	return variants, nil
}

func (c *Client) getHeader(genome *reference.Genome) *vcfgo.Header {
	hdr := vcfgo.NewHeader()
	hdr.FileFormat = "4.2"
	hdr.Infos["GENE"] = getInfoGene()
	for _, contig := range genome.Contigs {
		hdr.Extras = append(hdr.Extras, fmt.Sprintf("##contig=<ID=%s,length=%d,assembly=%s>", contig.Name, contig.Length, genome.Name))
	}
	return hdr
}

func getInfoGene() *vcfgo.Info {
	var answer vcfgo.Info
	answer.Id = "GENE"
	answer.Description = "Genes whose expression is associated with the variant"
	answer.Number = "."
	answer.Type = "String"
	return &answer
}

func (c *Client) toVCF(v *variant, hdr *vcfgo.Header) *vcfgo.Variant {
	info := "."
	if len(v.genes) > 0 {
		info = "GENE=" + strings.Join(v.genes, ",")
	}
	return &vcfgo.Variant{
		Chromosome: v.locus.Contig,
		Pos:        uint64(v.locus.Position),
		Id_:        ".",
		Reference:  v.alleles[0],
		Alternate:  v.alleles[1:],
		Filter:     ".",
		Info_:      vcfgo.NewInfoByte([]byte(info), hdr),
		Header:     hdr,
	}
}
