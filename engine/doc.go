// Package engine wraps the embedded SQLite database a kernel session works
// against.
//
// A Database is opened from an existing file (%LOAD), created (%CREATE) or
// built around an existing *sql.DB. Queries come back as *model.Table so the
// kernel can render them as text or attach them to a chart. The package also
// reads the raw file header, snapshots the database with VACUUM INTO and
// imports CSV, TSV, LTSV, XLSX and Parquet files into new tables.
package engine
