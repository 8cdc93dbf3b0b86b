/*Package chain reads UCSC chain files and maps positions from the
target assembly of the chain onto its query assembly.

Each chain is broken into its ungapped aligned blocks, which are held in
one interval tree per target contig. A position maps only when exactly one
chain covers it.
*/
package chain
