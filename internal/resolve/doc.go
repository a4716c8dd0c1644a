// Package resolve decides the canonical name for a parsed media file. It
// consults external metadata first, then sibling consensus for TV episodes,
// then the existing library, and finally falls back to the classifier's own
// parse.
package resolve
