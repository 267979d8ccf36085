// Package signature implements perceptual image signatures: the packed
// bit-vector type, Hamming distance comparison, the ordered reference store,
// and signature computation from remote image bytes.
//
// Two signatures are only comparable when they have the same bit length;
// Distance rejects mismatched lengths instead of truncating.
package signature
