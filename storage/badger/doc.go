// Package badger stores pipeline checkpoints in a Badger database, one key
// per identifier.
package badger
