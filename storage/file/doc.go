// Package file stores pipeline checkpoints as a single JSON document and
// provides the atomic file replacement used by every on-disk writer.
package file
