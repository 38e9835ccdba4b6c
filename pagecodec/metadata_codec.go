package pagecodec

import (
	"encoding/binary"
	"errors"
	"fmt"
	"hash/crc32"
)

const (
	METADATA_MAGIC   uint32 = 0x44524742 // "DRGB"
	METADATA_VERSION uint16 = 1

	// magic(4) + version(2) + reserved(2) + checksum(4) + reserved(4)
	METADATA_HEADER_SIZE = 16

	// max allocated page id(8) + deallocated list length(8)
	METADATA_FIXED_SIZE = METADATA_HEADER_SIZE + 16
)

var (
	ErrInvalidMetaDataPage      = errors.New("invalid metadata page")
	ErrMetaDataChecksumMismatch = errors.New("metadata page checksum mismatch")
	ErrMetaDataOverflow         = errors.New("deallocated page id list does not fit in metadata page")
)

// MetaData is the content of the reserved page 0 of a database file.
type MetaData struct {
	MaxAllocatedPageId    uint64
	DeallocatedPageIdList []uint64
}

type MetaDataCodec struct {
	pageSize int
}

func DefaultMetaDataCodec() MetaDataCodec {
	return MetaDataCodec{pageSize: 4096}
}

func NewMetaDataCodec(pageSize int) MetaDataCodec {
	return MetaDataCodec{pageSize: pageSize}
}

// MaxDeallocatedPageIds returns how many deallocated page IDs fit in a single metadata page.
func (codec MetaDataCodec) MaxDeallocatedPageIds() int {
	return (codec.pageSize - METADATA_FIXED_SIZE) / 8
}

// EncodeMetaDataPage encodes the max allocated page ID and the list of deallocated page IDs into a page sized buffer.
// The checksum covers everything after the header.
func (codec MetaDataCodec) EncodeMetaDataPage(metadata *MetaData, data []byte) error {

	if len(data) != codec.pageSize {
		return fmt.Errorf("metadata buffer size %d does not match page size %d", len(data), codec.pageSize)
	}

	if len(metadata.DeallocatedPageIdList) > codec.MaxDeallocatedPageIds() {
		return fmt.Errorf("%w: %d ids, capacity %d", ErrMetaDataOverflow, len(metadata.DeallocatedPageIdList), codec.MaxDeallocatedPageIds())
	}

	clear(data)

	binary.LittleEndian.PutUint32(data[0:4], METADATA_MAGIC)
	binary.LittleEndian.PutUint16(data[4:6], METADATA_VERSION)

	pointer := METADATA_HEADER_SIZE

	binary.LittleEndian.PutUint64(data[pointer:pointer+8], metadata.MaxAllocatedPageId)
	pointer += 8

	binary.LittleEndian.PutUint64(data[pointer:pointer+8], uint64(len(metadata.DeallocatedPageIdList)))
	pointer += 8

	for _, pageId := range metadata.DeallocatedPageIdList {
		binary.LittleEndian.PutUint64(data[pointer:pointer+8], pageId)
		pointer += 8
	}

	binary.LittleEndian.PutUint32(data[8:12], crc32.ChecksumIEEE(data[METADATA_HEADER_SIZE:]))

	return nil
}

// DecodeMetaDataPage validates the header and checksum of a metadata page and decodes its content.
func (codec MetaDataCodec) DecodeMetaDataPage(data []byte) (*MetaData, error) {

	if len(data) != codec.pageSize {
		return nil, fmt.Errorf("%w: size %d, expected %d", ErrInvalidMetaDataPage, len(data), codec.pageSize)
	}

	if magic := binary.LittleEndian.Uint32(data[0:4]); magic != METADATA_MAGIC {
		return nil, fmt.Errorf("%w: bad magic %#x", ErrInvalidMetaDataPage, magic)
	}

	if version := binary.LittleEndian.Uint16(data[4:6]); version != METADATA_VERSION {
		return nil, fmt.Errorf("%w: unsupported version %d", ErrInvalidMetaDataPage, version)
	}

	if checksum := binary.LittleEndian.Uint32(data[8:12]); checksum != crc32.ChecksumIEEE(data[METADATA_HEADER_SIZE:]) {
		return nil, ErrMetaDataChecksumMismatch
	}

	pointer := METADATA_HEADER_SIZE

	maxAllocatedPageId := binary.LittleEndian.Uint64(data[pointer : pointer+8])
	pointer += 8

	deallocatedPageListSize := binary.LittleEndian.Uint64(data[pointer : pointer+8])
	pointer += 8

	if deallocatedPageListSize > uint64(codec.MaxDeallocatedPageIds()) {
		return nil, fmt.Errorf("%w: deallocated list length %d", ErrInvalidMetaDataPage, deallocatedPageListSize)
	}

	deallocatedPageIdList := make([]uint64, deallocatedPageListSize)

	for i := range int(deallocatedPageListSize) {
		deallocatedPageIdList[i] = binary.LittleEndian.Uint64(data[pointer : pointer+8])
		pointer += 8
	}

	return &MetaData{
		MaxAllocatedPageId:    maxAllocatedPageId,
		DeallocatedPageIdList: deallocatedPageIdList,
	}, nil
}
