package sqlkernel

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html/template"

	"github.com/cockroachdb/errors"
	"github.com/pterm/pterm"

	"github.com/nao1215/sqlkernel/domain/model"
	"github.com/nao1215/sqlkernel/vegalite"
)

// MIME types used in output bundles
const (
	MIMETextPlain = "text/plain"
	MIMETextHTML  = "text/html"
	MIMEVegaLite  = vegalite.MIMEType
)

// Bundle maps a MIME type to its representation of one output. Text entries
// are strings; JSON documents are json.RawMessage so they embed as objects.
type Bundle map[string]any

// Text returns the text/plain entry, or "" when there is none.
func (b Bundle) Text() string {
	s, _ := b[MIMETextPlain].(string)
	return s
}

// textBundle wraps a plain message.
func textBundle(format string, args ...any) Bundle {
	return Bundle{MIMETextPlain: fmt.Sprintf(format, args...)}
}

// chartBundle wraps a rendered Vega-Lite document.
func chartBundle(doc []byte) Bundle {
	return Bundle{
		MIMEVegaLite:  json.RawMessage(doc),
		MIMETextPlain: "<VegaLite 3 chart>",
	}
}

var htmlTable = template.Must(template.New("table").Parse(
	`<table>
<thead><tr>{{range .Header}}<th>{{.}}</th>{{end}}</tr></thead>
<tbody>
{{range .Records}}<tr>{{range .}}<td>{{.}}</td>{{end}}</tr>
{{end}}</tbody>
</table>
{{- if .Truncated}}
<p>{{.Shown}} of {{.Total}} rows shown</p>
{{- end}}
`))

type htmlTableData struct {
	Header    model.Header
	Records   []model.Record
	Truncated bool
	Shown     int
	Total     int
}

// tableRenderer turns result tables into bundles.
type tableRenderer struct {
	maxRows int
	html    bool
}

// render returns nil for a result without columns, such as a CREATE
// statement.
func (r tableRenderer) render(table *model.Table) (Bundle, error) {
	if table == nil || len(table.Header()) == 0 {
		return nil, nil
	}

	shown, truncated := table.Truncate(r.maxRows)
	text, err := renderText(shown)
	if err != nil {
		return nil, err
	}
	if truncated {
		text += fmt.Sprintf("\n%d of %d rows shown", shown.Len(), table.Len())
	}
	bundle := Bundle{MIMETextPlain: text}

	if r.html {
		var buf bytes.Buffer
		err := htmlTable.Execute(&buf, htmlTableData{
			Header:    shown.Header(),
			Records:   shown.Records(),
			Truncated: truncated,
			Shown:     shown.Len(),
			Total:     table.Len(),
		})
		if err != nil {
			return nil, errors.Wrap(err, "failed to render html table")
		}
		bundle[MIMETextHTML] = buf.String()
	}
	return bundle, nil
}

// renderText draws the table with pterm. Styles are cleared so the text
// carries no terminal escape codes into the front end.
func renderText(table *model.Table) (string, error) {
	data := make(pterm.TableData, 0, table.Len()+1)
	data = append(data, []string(table.Header()))
	for _, record := range table.Records() {
		data = append(data, []string(record))
	}

	out, err := pterm.DefaultTable.
		WithHasHeader().
		WithHeaderStyle(pterm.NewStyle()).
		WithSeparatorStyle(pterm.NewStyle()).
		WithData(data).
		Srender()
	if err != nil {
		return "", errors.Wrap(err, "failed to render table")
	}
	return out, nil
}
