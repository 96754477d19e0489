package disk

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/hexlane/commitlog/pkg/cursor"
)

// Metadata version tags. The tag byte fully determines the payload layout
// and length; adding a version must never change how existing tags decode.
const (
	metadataTagV1 uint8 = 0
)

const u64Size = 8

// Metadata is the versioned record stored in the disk header. Exactly one
// version exists today: V1, holding the creation timestamp. The record is
// written once when a fresh file is initialized and is authoritative from
// then on; subsequent opens read it back rather than regenerating it.
type Metadata struct {
	version uint8

	// CreatedAt is the Unix-epoch-seconds timestamp recorded when the
	// backing file was first initialized (V1).
	CreatedAt uint64
}

// NewMetadataV1 returns a V1 metadata record with the given creation time.
func NewMetadataV1(createdAt uint64) Metadata {
	return Metadata{version: metadataTagV1, CreatedAt: createdAt}
}

// Version returns the record's version tag.
func (m Metadata) Version() uint8 {
	return m.version
}

// IsV1 reports whether the record is the V1 variant.
func (m Metadata) IsV1() bool {
	return m.version == metadataTagV1
}

// Encode serializes the record as [tag][version-specific payload],
// little-endian, no padding. Deterministic for a given value.
func (m Metadata) Encode() []byte {
	buf := make([]byte, 0, 1+m.PayloadSize())
	buf = append(buf, m.version)

	switch m.version {
	case metadataTagV1:
		buf = binary.LittleEndian.AppendUint64(buf, m.CreatedAt)
	}

	return buf
}

// PayloadSize returns the byte size of the version-specific payload,
// excluding the one-byte tag. The header layout uses it to size the
// metadata block when a fresh file is initialized.
func (m Metadata) PayloadSize() int {
	switch m.version {
	case metadataTagV1:
		// created_at
		return u64Size
	default:
		return 0
	}
}

// DecodeMetadata parses a serialized metadata record. The version tag is
// read first and dispatches to the matching fixed-size payload parser.
// An unrecognized tag fails with ErrUnknownMetadataVersion; a truncated
// payload fails with the cursor's range error.
func DecodeMetadata(data []byte) (Metadata, error) {
	c := cursor.New(data)

	tag, err := c.Consume(1)
	if err != nil {
		return Metadata{}, fmt.Errorf("read metadata tag: %w", err)
	}

	switch tag[0] {
	case metadataTagV1:
		payload, err := c.Consume(u64Size)
		if err != nil {
			return Metadata{}, fmt.Errorf("read v1 payload: %w", err)
		}
		return NewMetadataV1(binary.LittleEndian.Uint64(payload)), nil
	default:
		return Metadata{}, fmt.Errorf("tag %d: %w", tag[0], ErrUnknownMetadataVersion)
	}
}

// IsUnknownVersion reports whether err is an unknown-metadata-version
// failure, as opposed to a range error from a truncated record.
func IsUnknownVersion(err error) bool {
	return errors.Is(err, ErrUnknownMetadataVersion)
}
