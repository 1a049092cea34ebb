package engine

import (
	"bytes"
	"io"
	"os"

	"github.com/cockroachdb/errors"

	"github.com/nao1215/sqlkernel/domain/model"
)

// plainMagic starts every unencrypted SQLite 3 file.
var plainMagic = []byte("SQLite format 3\x00")

func (d *Database) readHeader(n int) ([]byte, error) {
	f, err := os.Open(d.path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open %s", d.path)
	}
	defer f.Close()

	buf := make([]byte, n)
	read, err := io.ReadFull(f, buf)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return nil, errors.Wrapf(err, "failed to read header of %s", d.path)
	}
	return buf[:read], nil
}

// HeaderInfo decodes the 100-byte header of the database file. A file that has
// never been written to has no header yet.
func (d *Database) HeaderInfo() (*model.HeaderInfo, error) {
	data, err := d.readHeader(model.HeaderSize)
	if err != nil {
		return nil, err
	}
	info, err := model.ParseHeaderInfo(data)
	if err != nil {
		return nil, errors.Wrapf(err, "%s", d.path)
	}
	return info, nil
}

// IsUnencrypted reports whether the file starts with the plain SQLite magic
// string. An empty file counts as unencrypted.
func (d *Database) IsUnencrypted() (bool, error) {
	data, err := d.readHeader(len(plainMagic))
	if err != nil {
		return false, err
	}
	if len(data) == 0 {
		return true, nil
	}
	return bytes.Equal(data, plainMagic), nil
}
