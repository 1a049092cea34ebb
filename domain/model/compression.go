package model

import (
	"compress/bzip2"
	"compress/gzip"
	"io"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/klauspost/compress/zstd"
	"github.com/ulikunitz/xz"
)

// Compression extensions
const (
	// ExtGZ is the gzip compression extension
	ExtGZ = ".gz"
	// ExtBZ2 is the bzip2 compression extension
	ExtBZ2 = ".bz2"
	// ExtXZ is the xz compression extension
	ExtXZ = ".xz"
	// ExtZSTD is the zstd compression extension
	ExtZSTD = ".zst"
)

// CompressionType represents the compression type
type CompressionType int

const (
	// CompressionNone represents no compression
	CompressionNone CompressionType = iota
	// CompressionGZ represents gzip compression
	CompressionGZ
	// CompressionBZ2 represents bzip2 compression
	CompressionBZ2
	// CompressionXZ represents xz compression
	CompressionXZ
	// CompressionZSTD represents zstd compression
	CompressionZSTD
)

// String returns the string representation of CompressionType
func (c CompressionType) String() string {
	switch c {
	case CompressionGZ:
		return "gz"
	case CompressionBZ2:
		return "bz2"
	case CompressionXZ:
		return "xz"
	case CompressionZSTD:
		return "zstd"
	default:
		return "none"
	}
}

// Extension returns the file extension for the compression type
func (c CompressionType) Extension() string {
	switch c {
	case CompressionGZ:
		return ExtGZ
	case CompressionBZ2:
		return ExtBZ2
	case CompressionXZ:
		return ExtXZ
	case CompressionZSTD:
		return ExtZSTD
	default:
		return ""
	}
}

// CompressionFromPath detects the compression type from a file name suffix.
func CompressionFromPath(path string) CompressionType {
	lower := strings.ToLower(path)
	for _, c := range []CompressionType{CompressionGZ, CompressionBZ2, CompressionXZ, CompressionZSTD} {
		if strings.HasSuffix(lower, c.Extension()) {
			return c
		}
	}
	return CompressionNone
}

// CompressionHandler wraps readers and writers with a codec.
type CompressionHandler interface {
	// CreateReader wraps an io.Reader with a decompression reader if needed
	CreateReader(reader io.Reader) (io.Reader, func() error, error)
	// CreateWriter wraps an io.Writer with a compression writer if needed
	CreateWriter(writer io.Writer) (io.Writer, func() error, error)
	// Extension returns the file extension for this compression type (e.g., ".gz")
	Extension() string
}

type compressionHandler struct {
	compressionType CompressionType
}

// NewCompressionHandler returns the handler for the given compression type.
func NewCompressionHandler(compressionType CompressionType) CompressionHandler {
	return &compressionHandler{compressionType: compressionType}
}

func noopClose() error { return nil }

// CreateReader creates a decompression reader based on the compression type
func (h *compressionHandler) CreateReader(reader io.Reader) (io.Reader, func() error, error) {
	switch h.compressionType {
	case CompressionNone:
		return reader, noopClose, nil
	case CompressionGZ:
		gzReader, err := gzip.NewReader(reader)
		if err != nil {
			return nil, nil, errors.Wrap(err, "failed to create gzip reader")
		}
		return gzReader, gzReader.Close, nil
	case CompressionBZ2:
		return bzip2.NewReader(reader), noopClose, nil
	case CompressionXZ:
		xzReader, err := xz.NewReader(reader)
		if err != nil {
			return nil, nil, errors.Wrap(err, "failed to create xz reader")
		}
		return xzReader, noopClose, nil
	case CompressionZSTD:
		decoder, err := zstd.NewReader(reader)
		if err != nil {
			return nil, nil, errors.Wrap(err, "failed to create zstd reader")
		}
		return decoder, func() error {
			decoder.Close()
			return nil
		}, nil
	default:
		return nil, nil, errors.Wrapf(ErrUnsupportedCompression, "reading %v", h.compressionType)
	}
}

// CreateWriter creates a compression writer based on the compression type.
// The returned close function must be called to flush the codec.
func (h *compressionHandler) CreateWriter(writer io.Writer) (io.Writer, func() error, error) {
	switch h.compressionType {
	case CompressionNone:
		return writer, noopClose, nil
	case CompressionGZ:
		gzWriter := gzip.NewWriter(writer)
		return gzWriter, gzWriter.Close, nil
	case CompressionXZ:
		xzWriter, err := xz.NewWriter(writer)
		if err != nil {
			return nil, nil, errors.Wrap(err, "failed to create xz writer")
		}
		return xzWriter, xzWriter.Close, nil
	case CompressionZSTD:
		encoder, err := zstd.NewWriter(writer)
		if err != nil {
			return nil, nil, errors.Wrap(err, "failed to create zstd writer")
		}
		return encoder, encoder.Close, nil
	default:
		return nil, nil, errors.Wrapf(ErrUnsupportedCompression, "writing %v", h.compressionType)
	}
}

// Extension returns the file extension for this compression type
func (h *compressionHandler) Extension() string {
	return h.compressionType.Extension()
}
