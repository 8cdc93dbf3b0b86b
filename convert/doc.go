/*Package convert writes the variants of a lifted eQTL table out as a VCF.

Rows of an eQTL table are variant-gene pairs, so one variant usually
appears on several rows. The converter collapses those rows into one VCF
record per locus and allele set, listing every associated gene in the
GENE info field.
*/
package convert
