package table

import (
	"fmt"
	"slices"
	"strings"
)

// Value types a field may declare.
const (
	TypeStr     = "str"
	TypeInt32   = "int32"
	TypeInt64   = "int64"
	TypeFloat64 = "float64"
	TypeBool    = "bool"
	TypeAlleles = "array<str>"
)

// LocusType is the type of a locus field on the named genome.
func LocusType(genome string) string {
	return "locus<" + genome + ">"
}

// LocusGenome returns the genome a locus type refers to.
func LocusGenome(typ string) (string, bool) {
	if !strings.HasPrefix(typ, "locus<") || !strings.HasSuffix(typ, ">") {
		return "", false
	}
	return typ[len("locus<") : len(typ)-1], true
}

func validType(typ string) bool {
	switch typ {
	case TypeStr, TypeInt32, TypeInt64, TypeFloat64, TypeBool, TypeAlleles:
		return true
	}
	g, ok := LocusGenome(typ)
	return ok && g != ""
}

type Field struct {
	Name string `yaml:"name"`
	Type string `yaml:"type"`
}

// Schema describes the fields and keys of a matrix table. Rows are keyed,
// and the leading PartitionKey fields of the row key never straddle a
// partition boundary.
type Schema struct {
	ReferenceGenome string            `yaml:"reference_genome"`
	Globals         map[string]string `yaml:"globals,omitempty"`
	ColFields       []Field           `yaml:"col_fields"`
	ColKey          []string          `yaml:"col_key"`
	RowFields       []Field           `yaml:"row_fields"`
	RowKey          []string          `yaml:"row_key"`
	PartitionKey    []string          `yaml:"partition_key"`
	EntryFields     []Field           `yaml:"entry_fields"`
}

func fieldIndex(fields []Field, name string) int {
	return slices.IndexFunc(fields, func(f Field) bool { return f.Name == name })
}

func (s *Schema) RowField(name string) (Field, int) {
	i := fieldIndex(s.RowFields, name)
	if i < 0 {
		return Field{}, -1
	}
	return s.RowFields[i], i
}

// Validate checks that field names are unique, types are known and keys name
// existing fields.
func (s *Schema) Validate() error {
	groups := []struct {
		kind   string
		fields []Field
	}{{"column", s.ColFields}, {"row", s.RowFields}, {"entry", s.EntryFields}}
	for _, g := range groups {
		seen := make(map[string]bool, len(g.fields))
		for _, f := range g.fields {
			if f.Name == "" {
				return fmt.Errorf("%w: empty %s field name", ErrSchema, g.kind)
			}
			if seen[f.Name] {
				return fmt.Errorf("%w: duplicate %s field %q", ErrSchema, g.kind, f.Name)
			}
			seen[f.Name] = true
			if !validType(f.Type) {
				return fmt.Errorf("%w: %s field %q has unknown type %q", ErrSchema, g.kind, f.Name, f.Type)
			}
		}
	}
	for _, k := range s.ColKey {
		if fieldIndex(s.ColFields, k) < 0 {
			return fmt.Errorf("%w: column key %q is not a column field", ErrSchema, k)
		}
	}
	for _, k := range s.RowKey {
		if fieldIndex(s.RowFields, k) < 0 {
			return fmt.Errorf("%w: row key %q is not a row field", ErrSchema, k)
		}
	}
	if len(s.PartitionKey) > len(s.RowKey) || !slices.Equal(s.PartitionKey, s.RowKey[:len(s.PartitionKey)]) {
		return fmt.Errorf("%w: partition key %v is not a prefix of row key %v", ErrSchema, s.PartitionKey, s.RowKey)
	}
	return nil
}

func (s Schema) clone() Schema {
	c := s
	c.ColFields = slices.Clone(s.ColFields)
	c.ColKey = slices.Clone(s.ColKey)
	c.RowFields = slices.Clone(s.RowFields)
	c.RowKey = slices.Clone(s.RowKey)
	c.PartitionKey = slices.Clone(s.PartitionKey)
	c.EntryFields = slices.Clone(s.EntryFields)
	if s.Globals != nil {
		c.Globals = make(map[string]string, len(s.Globals))
		for k, v := range s.Globals {
			c.Globals[k] = v
		}
	}
	return c
}
