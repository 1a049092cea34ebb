package vegalite

import (
	"encoding/json"

	"github.com/cockroachdb/errors"
	"github.com/nao1215/sqlkernel/domain/model"
)

const (
	// MIMEType identifies a Vega-Lite v3 document in a display bundle.
	MIMEType = "application/vnd.vegalite.v3+json"
	// SchemaURL is the $schema of every rendered document.
	SchemaURL = "https://vega.github.io/schema/vega-lite/v3.json"
)

// Field order of document is the order of the emitted JSON.
type document struct {
	Schema   string    `json:"$schema"`
	Data     dataDef   `json:"data"`
	Width    *int      `json:"width,omitempty"`
	Height   *int      `json:"height,omitempty"`
	Encoding *encDef   `json:"encoding,omitempty"`
	Mark     *markDef  `json:"mark,omitempty"`
	Config   configDef `json:"config"`
}

type dataDef struct {
	Values []map[string]string `json:"values"`
}

type encDef struct {
	X *fieldDef `json:"x,omitempty"`
	Y *fieldDef `json:"y,omitempty"`
}

type fieldDef struct {
	Field     string  `json:"field"`
	Type      string  `json:"type"`
	Bin       *binDef `json:"bin,omitempty"`
	Aggregate string  `json:"aggregate,omitempty"`
	TimeUnit  string  `json:"timeUnit,omitempty"`
}

// binDef is either a boolean or a parameter object.
type binDef struct {
	flag   *bool
	params *binParams
}

type binParams struct {
	Anchor  *float64 `json:"anchor,omitempty"`
	Base    *float64 `json:"base,omitempty"`
	Binned  *bool    `json:"binned,omitempty"`
	MaxBins *int     `json:"maxbins,omitempty"`
	MinStep *float64 `json:"minstep,omitempty"`
	Nice    *bool    `json:"nice,omitempty"`
	Step    *float64 `json:"step,omitempty"`
}

// MarshalJSON implements json.Marshaler.
func (b binDef) MarshalJSON() ([]byte, error) {
	if b.flag != nil {
		return json.Marshal(*b.flag)
	}
	return json.Marshal(b.params)
}

type markDef struct {
	Type  string `json:"type"`
	Color string `json:"color,omitempty"`
}

type configDef struct {
	Axis axisDef `json:"axis"`
}

type axisDef struct {
	Grid  bool     `json:"grid"`
	Title []string `json:"title,omitempty"`
}

// Render serializes spec with the rows of data attached as inline values.
// A nil data falls back to spec.Data.
func Render(spec *model.ChartSpec, data *model.Table) ([]byte, error) {
	if spec == nil {
		return nil, errors.New("nil chart specification")
	}
	if data == nil {
		data = spec.Data
	}

	doc := document{
		Schema: SchemaURL,
		Data:   dataDef{Values: []map[string]string{}},
		Width:  spec.Width,
		Height: spec.Height,
		Config: configDef{Axis: axisDef{Grid: spec.Axis.Grid, Title: spec.Axis.Title}},
	}
	if data != nil {
		doc.Data.Values = data.Rows()
	}
	if spec.X != nil || spec.Y != nil {
		doc.Encoding = &encDef{X: renderField(spec.X), Y: renderField(spec.Y)}
	}
	if spec.Mark != nil && spec.Mark.Kind != model.MarkUnknown {
		doc.Mark = &markDef{Type: spec.Mark.Kind.String(), Color: spec.Mark.Color}
	}

	out, err := json.Marshal(doc)
	if err != nil {
		return nil, errors.Wrap(err, "failed to encode vega-lite document")
	}
	return out, nil
}

func renderField(f *model.FieldSpec) *fieldDef {
	if f == nil {
		return nil
	}
	def := &fieldDef{
		Field:     f.Field,
		Type:      f.Type.String(),
		Aggregate: string(f.Aggregate),
		TimeUnit:  string(f.TimeUnit),
	}
	switch {
	case f.BinFlag != nil:
		def.Bin = &binDef{flag: f.BinFlag}
	case f.Bin != nil:
		def.Bin = &binDef{params: &binParams{
			Anchor:  f.Bin.Anchor,
			Base:    f.Bin.Base,
			Binned:  f.Bin.Binned,
			MaxBins: f.Bin.MaxBins,
			MinStep: f.Bin.MinStep,
			Nice:    f.Bin.Nice,
			Step:    f.Bin.Step,
		}}
	}
	return def
}
