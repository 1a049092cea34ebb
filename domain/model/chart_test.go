package model

import (
	"encoding/binary"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewChartSpec(t *testing.T) {
	t.Parallel()

	spec := NewChartSpec()
	assert.True(t, spec.Axis.Grid, "grid defaults to visible")
	assert.Nil(t, spec.Width)
	assert.Nil(t, spec.X)
	assert.Nil(t, spec.Mark)
}

func TestFieldSpec_Bin(t *testing.T) {
	t.Parallel()

	field := NewFieldSpec("price")
	assert.Equal(t, ScaleQuantitative, field.Type)

	field.SetBinFlag(true)
	require.NotNil(t, field.BinFlag)
	assert.True(t, *field.BinFlag)

	maxBins := 10
	field.SetBin(&BinSpec{MaxBins: &maxBins})
	assert.Nil(t, field.BinFlag, "explicit rule replaces the flag")
	require.NotNil(t, field.Bin)
	assert.Equal(t, 10, *field.Bin.MaxBins)

	field.SetBinFlag(false)
	assert.Nil(t, field.Bin)
}

func TestParseEnumerations(t *testing.T) {
	t.Parallel()

	scale, ok := ParseScaleType("Nominal")
	assert.True(t, ok)
	assert.Equal(t, ScaleNominal, scale)
	_, ok = ParseScaleType("geo")
	assert.False(t, ok)
	assert.Equal(t, "temporal", ScaleTemporal.String())

	agg, ok := ParseAggregate("SUM")
	assert.True(t, ok)
	assert.Equal(t, AggregateSum, agg)
	_, ok = ParseAggregate("product")
	assert.False(t, ok)
	assert.Len(t, Aggregates, 22)

	unit, ok := ParseTimeUnit("Quarter")
	assert.True(t, ok)
	assert.Equal(t, TimeUnitQuarter, unit)
	_, ok = ParseTimeUnit("week")
	assert.False(t, ok)
	assert.Len(t, TimeUnits, 9)

	mark, ok := ParseMarkKind("bar")
	assert.True(t, ok)
	assert.Equal(t, MarkBar, mark)
	assert.Equal(t, "trail", MarkTrail.String())
	_, ok = ParseMarkKind("")
	assert.False(t, ok)
	_, ok = ParseMarkKind("pie")
	assert.False(t, ok)
}

func TestMarkSpec_SetColor(t *testing.T) {
	t.Parallel()

	var unset MarkSpec
	assert.True(t, errors.Is(unset.SetColor("red"), ErrMarkKindUnset))

	mark := MarkSpec{Kind: MarkLine}
	require.NoError(t, mark.SetColor("red"))
	assert.Equal(t, "red", mark.Color)
}

func newHeaderBytes() []byte {
	data := make([]byte, HeaderSize)
	copy(data, headerMagic)
	binary.BigEndian.PutUint16(data[16:], 4096)
	data[18], data[19] = 1, 1
	data[21], data[22], data[23] = 64, 32, 32
	binary.BigEndian.PutUint32(data[24:], 7)
	binary.BigEndian.PutUint32(data[28:], 3)
	binary.BigEndian.PutUint32(data[44:], 4)
	binary.BigEndian.PutUint32(data[56:], 1)
	binary.BigEndian.PutUint32(data[60:], 42)
	binary.BigEndian.PutUint32(data[96:], 3045001)
	return data
}

func TestParseHeaderInfo(t *testing.T) {
	t.Parallel()

	info, err := ParseHeaderInfo(newHeaderBytes())
	require.NoError(t, err)
	assert.Equal(t, uint32(4096), info.PageSize)
	assert.Equal(t, uint8(64), info.MaxPayloadFraction)
	assert.Equal(t, uint32(7), info.FileChangeCounter)
	assert.Equal(t, uint32(3), info.DatabaseSizePages)
	assert.Equal(t, TextEncodingUTF8, info.TextEncoding)
	assert.Equal(t, uint32(42), info.UserVersion)

	fields := info.Fields()
	assert.Equal(t, HeaderField{"page_size", "4096"}, fields[0])
	assert.Equal(t, HeaderField{"sqlite_version", "3.45.1"}, fields[len(fields)-1])

	table := info.ToTable()
	assert.Equal(t, Header{"name", "value"}, table.Header())
	assert.Equal(t, len(fields), table.Len())
}

func TestParseHeaderInfo_MaxPageSize(t *testing.T) {
	t.Parallel()

	data := newHeaderBytes()
	binary.BigEndian.PutUint16(data[16:], 1)
	info, err := ParseHeaderInfo(data)
	require.NoError(t, err)
	assert.Equal(t, uint32(65536), info.PageSize)
}

func TestParseHeaderInfo_Invalid(t *testing.T) {
	t.Parallel()

	_, err := ParseHeaderInfo(nil)
	assert.True(t, errors.Is(err, ErrInvalidHeader))

	data := newHeaderBytes()
	copy(data, "not a database!!")
	_, err = ParseHeaderInfo(data)
	assert.True(t, errors.Is(err, ErrInvalidHeader))

	assert.Equal(t, "UTF-16be", TextEncodingUTF16BE.String())
	assert.Equal(t, "unknown", TextEncoding(9).String())
}
