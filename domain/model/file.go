package model

import (
	"bytes"
	"context"
	"encoding/csv"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/apache/arrow/go/v18/arrow/array"
	"github.com/apache/arrow/go/v18/arrow/memory"
	pqfile "github.com/apache/arrow/go/v18/parquet/file"
	"github.com/apache/arrow/go/v18/parquet/pqarrow"
	"github.com/cockroachdb/errors"
	"github.com/xuri/excelize/v2"
)

// FileType represents importable file types
type FileType int

const (
	// FileTypeUnsupported represents unsupported file type
	FileTypeUnsupported FileType = iota
	// FileTypeCSV represents CSV file type
	FileTypeCSV
	// FileTypeTSV represents TSV file type
	FileTypeTSV
	// FileTypeLTSV represents LTSV file type
	FileTypeLTSV
	// FileTypeXLSX represents Excel workbook file type (first sheet only)
	FileTypeXLSX
	// FileTypeParquet represents Parquet file type
	FileTypeParquet
)

// File extensions
const (
	// ExtCSV is the CSV file extension
	ExtCSV = ".csv"
	// ExtTSV is the TSV file extension
	ExtTSV = ".tsv"
	// ExtLTSV is the LTSV file extension
	ExtLTSV = ".ltsv"
	// ExtXLSX is the Excel file extension
	ExtXLSX = ".xlsx"
	// ExtParquet is the Parquet file extension
	ExtParquet = ".parquet"
)

// String returns the string representation of FileType
func (ft FileType) String() string {
	switch ft {
	case FileTypeCSV:
		return "csv"
	case FileTypeTSV:
		return "tsv"
	case FileTypeLTSV:
		return "ltsv"
	case FileTypeXLSX:
		return "xlsx"
	case FileTypeParquet:
		return "parquet"
	default:
		return "unsupported"
	}
}

// File is a file on disk that %IMPORT can turn into a Table.
type File struct {
	path        string
	fileType    FileType
	compression CompressionType
}

// NewFile creates a new File
func NewFile(path string) *File {
	return &File{
		path:        path,
		fileType:    detectFileType(path),
		compression: CompressionFromPath(path),
	}
}

// IsSupportedFile checks if the file has an importable extension
func IsSupportedFile(fileName string) bool {
	return detectFileType(fileName) != FileTypeUnsupported
}

// Path returns file path
func (f *File) Path() string {
	return f.path
}

// Type returns file type
func (f *File) Type() FileType {
	return f.fileType
}

// Compression returns the compression detected from the file name
func (f *File) Compression() CompressionType {
	return f.compression
}

// IsCompressed returns true if file is compressed
func (f *File) IsCompressed() bool {
	return f.compression != CompressionNone
}

// detectFileType detects file type from extension, considering compressed files
func detectFileType(path string) FileType {
	basePath := strings.ToLower(path)
	basePath = strings.TrimSuffix(basePath, CompressionFromPath(basePath).Extension())

	switch filepath.Ext(basePath) {
	case ExtCSV:
		return FileTypeCSV
	case ExtTSV:
		return FileTypeTSV
	case ExtLTSV:
		return FileTypeLTSV
	case ExtXLSX:
		return FileTypeXLSX
	case ExtParquet:
		return FileTypeParquet
	default:
		return FileTypeUnsupported
	}
}

// ToTable reads the file into a Table named tableName. An empty tableName
// falls back to the name derived from the file path.
func (f *File) ToTable(ctx context.Context, tableName string) (*Table, error) {
	if f.fileType == FileTypeUnsupported {
		return nil, errors.Wrapf(ErrUnsupportedFile, "%s", f.path)
	}
	if tableName == "" {
		tableName = TableFromFilePath(f.path)
	}

	reader, closer, err := f.openReader()
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = closer() // read-only, close errors carry no data loss
	}()

	var (
		header  Header
		records []Record
	)
	switch f.fileType {
	case FileTypeCSV:
		header, records, err = parseDelimited(reader, ',')
	case FileTypeTSV:
		header, records, err = parseDelimited(reader, '\t')
	case FileTypeLTSV:
		header, records, err = parseLTSV(reader)
	case FileTypeXLSX:
		header, records, err = parseXLSX(reader)
	case FileTypeParquet:
		header, records, err = parseParquet(ctx, reader)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "failed to parse %s", f.path)
	}
	if err := ValidateColumnNames(header); err != nil {
		return nil, err
	}
	return NewTable(tableName, header, records), nil
}

// openReader opens file and returns a reader that handles compression
func (f *File) openReader() (io.Reader, func() error, error) {
	file, err := os.Open(f.path)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "failed to open %s", f.path)
	}

	reader, closeCodec, err := NewCompressionHandler(f.compression).CreateReader(file)
	if err != nil {
		_ = file.Close()
		return nil, nil, err
	}
	return reader, func() error {
		codecErr := closeCodec()
		if err := file.Close(); err != nil {
			return err
		}
		return codecErr
	}, nil
}

// parseDelimited parses CSV or TSV content; the first row is the header.
func parseDelimited(reader io.Reader, comma rune) (Header, []Record, error) {
	csvReader := csv.NewReader(reader)
	csvReader.Comma = comma
	csvReader.FieldsPerRecord = -1

	rows, err := csvReader.ReadAll()
	if err != nil {
		return nil, nil, err
	}
	if len(rows) == 0 {
		return nil, nil, ErrEmptyFile
	}

	records := make([]Record, 0, len(rows)-1)
	for _, row := range rows[1:] {
		records = append(records, NewRecord(row))
	}
	return NewHeader(rows[0]), records, nil
}

// parseLTSV parses labeled tab-separated values. Columns are ordered by first
// appearance of their label.
func parseLTSV(reader io.Reader) (Header, []Record, error) {
	content, err := io.ReadAll(reader)
	if err != nil {
		return nil, nil, err
	}

	var (
		header  Header
		index   = make(map[string]int)
		entries []map[string]string
	)
	for _, line := range strings.Split(string(content), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		entry := make(map[string]string)
		for _, pair := range strings.Split(line, "\t") {
			key, value, ok := strings.Cut(pair, ":")
			if !ok {
				continue
			}
			key = strings.TrimSpace(key)
			if _, seen := index[key]; !seen {
				index[key] = len(header)
				header = append(header, key)
			}
			entry[key] = strings.TrimSpace(value)
		}
		if len(entry) > 0 {
			entries = append(entries, entry)
		}
	}
	if len(entries) == 0 {
		return nil, nil, ErrEmptyFile
	}

	records := make([]Record, 0, len(entries))
	for _, entry := range entries {
		record := make(Record, len(header))
		for key, value := range entry {
			record[index[key]] = value
		}
		records = append(records, record)
	}
	return header, records, nil
}

// parseXLSX reads the first sheet of a workbook; leading empty rows are skipped
// and the first non-empty row is the header.
func parseXLSX(reader io.Reader) (Header, []Record, error) {
	workbook, err := excelize.OpenReader(reader)
	if err != nil {
		return nil, nil, errors.Wrap(err, "failed to open XLSX file")
	}
	defer func() {
		_ = workbook.Close()
	}()

	sheets := workbook.GetSheetList()
	if len(sheets) == 0 {
		return nil, nil, ErrEmptyFile
	}
	rows, err := workbook.GetRows(sheets[0])
	if err != nil {
		return nil, nil, errors.Wrapf(err, "failed to read sheet %s", sheets[0])
	}

	var (
		header  Header
		records []Record
	)
	for _, row := range rows {
		if header == nil {
			if len(row) == 0 {
				continue
			}
			header = NewHeader(row)
			continue
		}
		record := make(Record, len(header))
		copy(record, row)
		records = append(records, record)
	}
	if header == nil {
		return nil, nil, ErrEmptyFile
	}
	return header, records, nil
}

// parseParquet loads the whole file in memory since Parquet needs random access.
func parseParquet(ctx context.Context, reader io.Reader) (Header, []Record, error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, nil, err
	}
	if len(data) == 0 {
		return nil, nil, ErrEmptyFile
	}

	pqReader, err := pqfile.NewParquetReader(bytes.NewReader(data))
	if err != nil {
		return nil, nil, errors.Wrap(err, "failed to create parquet reader")
	}
	defer func() {
		_ = pqReader.Close()
	}()

	arrowReader, err := pqarrow.NewFileReader(pqReader, pqarrow.ArrowReadProperties{}, memory.DefaultAllocator)
	if err != nil {
		return nil, nil, errors.Wrap(err, "failed to create arrow reader")
	}
	table, err := arrowReader.ReadTable(ctx)
	if err != nil {
		return nil, nil, errors.Wrap(err, "failed to read parquet table")
	}
	defer table.Release()

	fields := table.Schema().Fields()
	header := make(Header, 0, len(fields))
	for _, field := range fields {
		header = append(header, field.Name)
	}

	tableReader := array.NewTableReader(table, 0)
	defer tableReader.Release()

	var records []Record
	for tableReader.Next() {
		batch := tableReader.Record()
		for i := 0; i < int(batch.NumRows()); i++ {
			record := make(Record, batch.NumCols())
			for j, column := range batch.Columns() {
				if column.IsNull(i) {
					continue
				}
				record[j] = column.ValueStr(i)
			}
			records = append(records, record)
		}
	}
	if err := tableReader.Err(); err != nil {
		return nil, nil, errors.Wrap(err, "failed to iterate parquet records")
	}
	return header, records, nil
}
