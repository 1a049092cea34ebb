package engine

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/cockroachdb/errors"

	"github.com/nao1215/sqlkernel/domain/model"
)

// Backup writes a consistent snapshot of the database to dest using VACUUM
// INTO. A .gz, .xz or .zst suffix compresses the snapshot.
func (d *Database) Backup(ctx context.Context, dest string) error {
	if err := ValidatePath(dest); err != nil {
		return err
	}
	if _, err := os.Stat(dest); err == nil {
		return errors.Wrapf(ErrDestinationExists, "%s", dest)
	}
	db, err := d.handle()
	if err != nil {
		return err
	}

	compression := model.CompressionFromPath(dest)
	if compression == model.CompressionNone {
		if _, err := db.ExecContext(ctx, "VACUUM INTO ?", dest); err != nil {
			return errors.Wrapf(err, "failed to back up %s to %s", d.path, dest)
		}
		d.logger.Infow("database backed up", "path", d.path, "dest", dest)
		return nil
	}

	if compression == model.CompressionBZ2 {
		return errors.Wrapf(model.ErrUnsupportedCompression, "cannot write %s", dest)
	}
	handler := model.NewCompressionHandler(compression)

	tmpDir, err := os.MkdirTemp(filepath.Dir(dest), ".sqlkernel-backup-")
	if err != nil {
		return errors.Wrap(err, "failed to create backup staging directory")
	}
	defer os.RemoveAll(tmpDir)

	snapshot := filepath.Join(tmpDir, "snapshot.db")
	if _, err := db.ExecContext(ctx, "VACUUM INTO ?", snapshot); err != nil {
		return errors.Wrapf(err, "failed to back up %s", d.path)
	}
	if err := compressFile(handler, snapshot, dest); err != nil {
		_ = os.Remove(dest)
		return err
	}
	d.logger.Infow("database backed up", "path", d.path, "dest", dest, "compression", compression.String())
	return nil
}

func compressFile(handler model.CompressionHandler, src, dest string) (err error) {
	in, err := os.Open(src)
	if err != nil {
		return errors.Wrapf(err, "failed to open %s", src)
	}
	defer in.Close()

	out, err := os.OpenFile(dest, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o600)
	if err != nil {
		return errors.Wrapf(err, "failed to create %s", dest)
	}
	defer func() {
		if closeErr := out.Close(); closeErr != nil && err == nil {
			err = errors.Wrapf(closeErr, "failed to close %s", dest)
		}
	}()

	writer, closeWriter, err := handler.CreateWriter(out)
	if err != nil {
		return err
	}
	if _, err := io.Copy(writer, in); err != nil {
		_ = closeWriter()
		return errors.Wrapf(err, "failed to write %s", dest)
	}
	if err := closeWriter(); err != nil {
		return errors.Wrapf(err, "failed to flush %s", dest)
	}
	return nil
}
