// Package sqlkernel is a notebook kernel for SQLite. A cell holds either raw
// SQL, which is run against the current database, or a magic command
// introduced by "%".
//
// # Magic Commands
//
//   - %LOAD <path> [RW|R] opens an existing database file (read-write by default)
//   - %CREATE <path> creates a new database file and makes it current
//   - %DELETE closes the current database and removes its file
//   - %TABLE_EXISTS <name> reports whether a table or view exists
//   - %IS_UNENCRYPTED reports whether the file carries the plain SQLite header
//   - %GET_INFO shows the decoded 100-byte database header
//   - %BACKUP <path> writes a snapshot; .gz, .xz and .zst suffixes compress it
//   - %IMPORT <file> [table] loads CSV, TSV, LTSV, XLSX or Parquet into a new table
//   - %XVEGA_PLOT <chart> <> <query> renders a Vega-Lite chart of a query result
//
// Keywords are case-insensitive.
//
// # Charts
//
// The chart half of %XVEGA_PLOT is a flat keyword list:
//
//	%XVEGA_PLOT X_FIELD price TYPE QUANTITATIVE BIN MAXBINS 10
//	    Y_FIELD qty AGGREGATE SUM MARK BAR COLOR red WIDTH 400
//	    <> SELECT price, qty FROM sales
//
// Every chart token must be recognized; anything left over rejects the cell.
// The chart document is returned under the application/vnd.vegalite.v3+json
// MIME type with the query rows embedded as inline data.
//
// # Basic Usage
//
//	k, err := sqlkernel.NewBuilder().
//	    WithDatabase("sales.db", engine.ModeReadWrite).
//	    Build(ctx)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	kernel, err := k.Open(ctx)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer kernel.Close()
//
//	reply := kernel.Execute(ctx, sqlkernel.ExecuteRequest{Code: "SELECT 1"})
//
// SQL follows the SQLite dialect: https://www.sqlite.org/lang.html
package sqlkernel
