package facet

import "hash/fnv"

// Delimiter separates array elements within one document's facet row, per
// spec.md §4.5 ("a reserved delimiter value separating array elements").
// No third-party hashing library appears directly (non-indirect) in the
// example pack, so token hashing uses the standard library's FNV-1a, the
// idiomatic Go choice for a fast non-cryptographic string hash.
const Delimiter = ^uint64(0)

// combinePrime is the fixed prime used by the combined facet-value hash
// formula in spec.md §4.5. Its exact value is unspecified by the source;
// any large odd constant works for the stated purpose (collision
// resistance across a small alphabet, not cryptographic security) per
// spec.md §9's open question on the combined hash.
const combinePrime = 0x100000001b3

// HashToken returns the 64-bit hash of a string facet token.
func HashToken(token string) uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(token))
	return h.Sum64()
}

// CombineValue folds a run of token hashes belonging to one facet value
// (one array element, or the whole value for a scalar field) into a single
// order-sensitive combined hash, per spec.md §4.5's
// combined = combined * (P + 2*token_hash*(position_within_value+1)).
func CombineValue(tokenHashes []uint64) uint64 {
	combined := uint64(1)
	for i, h := range tokenHashes {
		combined *= combinePrime + 2*h*uint64(i+1)
	}
	return combined
}
