// Package vegalite compiles the %XVEGA_PLOT chart language into Vega-Lite v3
// documents.
//
// Parsing happens in four levels that share the command dispatch engine: the
// chart level (WIDTH, HEIGHT, X_FIELD, Y_FIELD, MARK, GRID, TITLE), the field
// level (TYPE, BIN, AGGREGATE, TIME_UNIT), the bin level (ANCHOR, BASE,
// BINNED, MAXBINS, MINSTEP, NICE, STEP) and the mark level (a mark kind
// followed by COLOR). Each level is a plain function over the token slice and
// a cursor, so the levels can be exercised in isolation.
//
//	spec, err := vegalite.Parse(strings.Fields("X_FIELD price MARK bar COLOR red"))
//	if err != nil {
//		return err
//	}
//	doc, err := vegalite.Render(spec, result)
package vegalite
