// Package dedup clusters catalogued items whose filenames are near-identical
// once release tags are stripped. Clustering is greedy against group
// founders, so membership depends on catalog order; this keeps the pass at
// O(items x groups) instead of a full pairwise comparison.
package dedup
