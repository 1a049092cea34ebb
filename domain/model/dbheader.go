package model

import (
	"encoding/binary"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
)

// HeaderSize is the length of the SQLite database file header.
const HeaderSize = 100

// headerMagic opens every SQLite 3 database file.
const headerMagic = "SQLite format 3\x00"

// TextEncoding is the database text encoding stored at header offset 56.
type TextEncoding uint32

const (
	// TextEncodingUnknown is reported for empty databases and corrupt values
	TextEncodingUnknown TextEncoding = 0
	// TextEncodingUTF8 is UTF-8
	TextEncodingUTF8 TextEncoding = 1
	// TextEncodingUTF16LE is little-endian UTF-16
	TextEncodingUTF16LE TextEncoding = 2
	// TextEncodingUTF16BE is big-endian UTF-16
	TextEncodingUTF16BE TextEncoding = 3
)

// String returns the SQLite name of the encoding
func (e TextEncoding) String() string {
	switch e {
	case TextEncodingUTF8:
		return "UTF-8"
	case TextEncodingUTF16LE:
		return "UTF-16le"
	case TextEncodingUTF16BE:
		return "UTF-16be"
	default:
		return "unknown"
	}
}

// HeaderInfo is the decoded 100-byte database header.
type HeaderInfo struct {
	PageSize               uint32
	WriteVersion           uint8
	ReadVersion            uint8
	ReservedSpace          uint8
	MaxPayloadFraction     uint8
	MinPayloadFraction     uint8
	LeafPayloadFraction    uint8
	FileChangeCounter      uint32
	DatabaseSizePages      uint32
	FirstFreelistTrunkPage uint32
	TotalFreelistPages     uint32
	SchemaCookie           uint32
	SchemaFormat           uint32
	DefaultPageCacheSize   uint32
	LargestRootBTreePage   uint32
	TextEncoding           TextEncoding
	UserVersion            uint32
	IncrementalVacuum      uint32
	ApplicationID          uint32
	VersionValidFor        uint32
	SQLiteVersion          uint32
}

// ParseHeaderInfo decodes the header at the start of data. Multi-byte values
// are big-endian.
func ParseHeaderInfo(data []byte) (*HeaderInfo, error) {
	if len(data) < HeaderSize {
		return nil, errors.WithHint(
			errors.Wrapf(ErrInvalidHeader, "got %d bytes", len(data)),
			"the database is empty or is not a SQLite file")
	}
	if string(data[:len(headerMagic)]) != headerMagic {
		return nil, errors.Wrap(ErrInvalidHeader, "magic string mismatch")
	}

	u32 := func(offset int) uint32 {
		return binary.BigEndian.Uint32(data[offset : offset+4])
	}

	pageSize := uint32(binary.BigEndian.Uint16(data[16:18]))
	if pageSize == 1 {
		pageSize = 65536
	}

	return &HeaderInfo{
		PageSize:               pageSize,
		WriteVersion:           data[18],
		ReadVersion:            data[19],
		ReservedSpace:          data[20],
		MaxPayloadFraction:     data[21],
		MinPayloadFraction:     data[22],
		LeafPayloadFraction:    data[23],
		FileChangeCounter:      u32(24),
		DatabaseSizePages:      u32(28),
		FirstFreelistTrunkPage: u32(32),
		TotalFreelistPages:     u32(36),
		SchemaCookie:           u32(40),
		SchemaFormat:           u32(44),
		DefaultPageCacheSize:   u32(48),
		LargestRootBTreePage:   u32(52),
		TextEncoding:           TextEncoding(u32(56)),
		UserVersion:            u32(60),
		IncrementalVacuum:      u32(64),
		ApplicationID:          u32(68),
		VersionValidFor:        u32(92),
		SQLiteVersion:          u32(96),
	}, nil
}

// HeaderField is one labelled header value.
type HeaderField struct {
	Name  string
	Value string
}

// Fields returns the header values in file order.
func (h *HeaderInfo) Fields() []HeaderField {
	u := func(v uint32) string { return strconv.FormatUint(uint64(v), 10) }
	b := func(v uint8) string { return strconv.Itoa(int(v)) }

	return []HeaderField{
		{"page_size", u(h.PageSize)},
		{"write_version", b(h.WriteVersion)},
		{"read_version", b(h.ReadVersion)},
		{"reserved_space", b(h.ReservedSpace)},
		{"max_payload_fraction", b(h.MaxPayloadFraction)},
		{"min_payload_fraction", b(h.MinPayloadFraction)},
		{"leaf_payload_fraction", b(h.LeafPayloadFraction)},
		{"file_change_counter", u(h.FileChangeCounter)},
		{"database_size_pages", u(h.DatabaseSizePages)},
		{"first_freelist_trunk_page", u(h.FirstFreelistTrunkPage)},
		{"total_freelist_pages", u(h.TotalFreelistPages)},
		{"schema_cookie", u(h.SchemaCookie)},
		{"schema_format", u(h.SchemaFormat)},
		{"default_page_cache_size", u(h.DefaultPageCacheSize)},
		{"largest_root_btree_page", u(h.LargestRootBTreePage)},
		{"text_encoding", h.TextEncoding.String()},
		{"user_version", u(h.UserVersion)},
		{"incremental_vacuum", u(h.IncrementalVacuum)},
		{"application_id", u(h.ApplicationID)},
		{"version_valid_for", u(h.VersionValidFor)},
		{"sqlite_version", formatVersion(h.SQLiteVersion)},
	}
}

// ToTable renders the header as a two column name/value table.
func (h *HeaderInfo) ToTable() *Table {
	fields := h.Fields()
	records := make([]Record, 0, len(fields))
	for _, f := range fields {
		records = append(records, NewRecord([]string{f.Name, f.Value}))
	}
	return NewTable("", NewHeader([]string{"name", "value"}), records)
}

// formatVersion turns SQLITE_VERSION_NUMBER (X*1000000 + Y*1000 + Z) into X.Y.Z.
func formatVersion(v uint32) string {
	parts := []string{
		strconv.FormatUint(uint64(v/1000000), 10),
		strconv.FormatUint(uint64(v/1000%1000), 10),
		strconv.FormatUint(uint64(v%1000), 10),
	}
	return strings.Join(parts, ".")
}
