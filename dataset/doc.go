// Package dataset holds the immutable record matrix clustered by lmbclust
// and loads it from delimited text.
//
// Records are stored row-major in one []float64. A Dataset never changes
// after construction, so evaluators and validity calculators reference it
// without copying.
//
// # Text Format
//
// One record per line. Fields are separated by any run of whitespace,
// commas or semicolons. Blank lines and lines starting with '#' are skipped.
// The configured record and feature counts must match the file exactly;
// any mismatch is reported as a *DataFormatError before clustering starts.
package dataset
