// Package sink writes extracted profile records to a CSV table.
//
// Every flush writes the complete set of records collected so far, so the
// file on disk is always a consistent snapshot: UTF-8 with a byte order
// mark, a fixed header (Columns) and one row per record. Load reads such a
// snapshot back so a resumed run keeps the rows of earlier runs.
package sink
