package bufferpoolmanager

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"

	codec "github.com/Adarsh-Kmt/DragonBuffer/pagecodec"
	"github.com/ncw/directio"
)

// DiskManager is responsible for reading, writing, allocating and deallocating pages on disk.
// The buffer pool is the only caller.
type DiskManager interface {

	// ReadPage fills buffer with the persisted content of a page.
	ReadPage(pageId PageID, buffer []byte) error

	// WritePage persists the content of buffer as the page.
	WritePage(pageId PageID, buffer []byte) error

	// AllocatePage returns a fresh page ID. IDs are assigned in increasing order and never handed out twice.
	AllocatePage() (PageID, error)

	// DeallocatePage marks a page ID as free at the storage layer.
	DeallocatePage(pageId PageID) error

	PageSize() int

	Close() error
}

// EXTENT_PAGES is the number of pages the file grows by when allocation reaches its end.
const EXTENT_PAGES = 16

// pageFile implements DiskManager on top of a single file. Page 0 holds the metadata page,
// data pages start at page ID 1.
type pageFile struct {
	file     *os.File
	filePath string
	pageSize int

	// directIO requires every buffer passed to the file to be aligned.
	directIO bool

	// component is the name used in log lines.
	component string

	// guards metadata, deallocated, fileSize and closed.
	mutex    *sync.Mutex
	metadata *codec.MetaData

	// deallocated holds every page ID deallocated while the file is open plus the persisted list,
	// including IDs that no longer fit in the metadata page.
	deallocated map[uint64]struct{}

	codec    codec.MetaDataCodec
	fileSize int64
	closed   bool
}

func openPageFile(file *os.File, filePath string, directIO bool, component string) (*pageFile, error) {

	if err := lockFile(file); err != nil {

		slog.Error("Failed to lock database file", "filePath", filePath, "error", err.Error(), "function", "openPageFile", "at", component)
		_ = file.Close()
		return nil, fmt.Errorf("lock %s: %w", filePath, err)
	}

	disk := &pageFile{
		file:        file,
		filePath:    filePath,
		pageSize:    PAGE_SIZE,
		directIO:    directIO,
		component:   component,
		mutex:       &sync.Mutex{},
		deallocated: make(map[uint64]struct{}),
		codec:       codec.NewMetaDataCodec(PAGE_SIZE),
	}

	if err := disk.loadMetaData(); err != nil {
		_ = unlockFile(file)
		_ = file.Close()
		return nil, err
	}

	return disk, nil
}

// loadMetaData reads the metadata page of an existing file, or writes a new one for an empty file.
func (disk *pageFile) loadMetaData() error {

	stats, err := disk.file.Stat()

	if err != nil {
		return err
	}

	disk.fileSize = stats.Size()

	if disk.fileSize == 0 {

		slog.Info("database file is empty, writing new metadata page", "filePath", disk.filePath, "function", "loadMetaData", "at", disk.component)

		disk.metadata = &codec.MetaData{
			DeallocatedPageIdList: []uint64{},
			MaxAllocatedPageId:    METADATA_PAGE_ID,
		}

		return disk.writeMetaData()
	}

	slog.Info("Reading metadata page from existing file", "filePath", disk.filePath, "function", "loadMetaData", "at", disk.component)

	data := disk.newBuffer()

	if _, err := disk.file.ReadAt(data, METADATA_PAGE_ID*int64(disk.pageSize)); err != nil {

		slog.Error("Failed to read metadata page", "error", err.Error(), "function", "loadMetaData", "at", disk.component)
		return err
	}

	metadata, err := disk.codec.DecodeMetaDataPage(data)

	if err != nil {

		slog.Error("Failed to decode metadata page", "error", err.Error(), "function", "loadMetaData", "at", disk.component)
		return err
	}

	disk.metadata = metadata

	for _, id := range metadata.DeallocatedPageIdList {
		disk.deallocated[id] = struct{}{}
	}
	return nil
}

func (disk *pageFile) writeMetaData() error {

	data := disk.newBuffer()

	if err := disk.codec.EncodeMetaDataPage(disk.metadata, data); err != nil {
		return err
	}

	if err := disk.writeAt(data, METADATA_PAGE_ID*int64(disk.pageSize)); err != nil {

		slog.Error("Failed to write metadata page", "error", err.Error(), "function", "writeMetaData", "at", disk.component)
		return err
	}

	return nil
}

// newBuffer returns a zeroed page sized buffer usable for I/O on this file.
func (disk *pageFile) newBuffer() []byte {

	if disk.directIO {
		return directio.AlignedBlock(disk.pageSize)
	}
	return make([]byte, disk.pageSize)
}

func (disk *pageFile) writeAt(data []byte, offset int64) error {

	// WriteAt uses pwrite, so concurrent writes to different offsets do not race on the file offset.
	n, err := disk.file.WriteAt(data, offset)

	if err != nil {
		return err
	}

	if n != len(data) {
		return io.ErrShortWrite
	}

	if end := offset + int64(n); end > disk.fileSize {
		disk.fileSize = end
	}
	return nil
}

// checkAllocated must be called with the mutex held.
func (disk *pageFile) checkAllocated(pageId PageID) error {

	if disk.closed {
		return ErrDiskClosed
	}

	if pageId <= METADATA_PAGE_ID {
		return fmt.Errorf("%w: %d is reserved", ErrInvalidPageId, pageId)
	}

	if uint64(pageId) > disk.metadata.MaxAllocatedPageId {
		return fmt.Errorf("%w: %d", ErrPageNotAllocated, pageId)
	}

	if _, exists := disk.deallocated[uint64(pageId)]; exists {
		return fmt.Errorf("%w: %d", ErrPageDeallocated, pageId)
	}

	return nil
}

func (disk *pageFile) PageSize() int {
	return disk.pageSize
}

func (disk *pageFile) ReadPage(pageId PageID, buffer []byte) error {

	if len(buffer) != disk.pageSize {
		return fmt.Errorf("%w: %d", ErrInvalidBufferSize, len(buffer))
	}

	disk.mutex.Lock()
	err := disk.checkAllocated(pageId)
	disk.mutex.Unlock()

	if err != nil {
		return err
	}

	slog.Debug("Reading page", "pageId", pageId, "function", "ReadPage", "at", disk.component)

	target := buffer
	bounced := disk.directIO && !isAligned(buffer)
	if bounced {
		target = disk.newBuffer()
	}

	// allocated pages inside the last extent may not have been written yet.
	n, err := disk.file.ReadAt(target, int64(pageId)*int64(disk.pageSize))

	if err != nil && err != io.EOF {

		slog.Error("Failed to read page", "pageId", pageId, "error", err.Error(), "function", "ReadPage", "at", disk.component)
		return err
	}

	clear(target[n:])

	if bounced {
		copy(buffer, target)
	}

	return nil
}

func (disk *pageFile) WritePage(pageId PageID, buffer []byte) error {

	if len(buffer) != disk.pageSize {
		return fmt.Errorf("%w: %d", ErrInvalidBufferSize, len(buffer))
	}

	disk.mutex.Lock()
	defer disk.mutex.Unlock()

	if err := disk.checkAllocated(pageId); err != nil {
		return err
	}

	slog.Debug("Writing page", "pageId", pageId, "function", "WritePage", "at", disk.component)

	source := buffer
	if disk.directIO && !isAligned(buffer) {
		source = disk.newBuffer()
		copy(source, buffer)
	}

	if err := disk.writeAt(source, int64(pageId)*int64(disk.pageSize)); err != nil {

		slog.Error("Failed to write page", "pageId", pageId, "error", err.Error(), "function", "WritePage", "at", disk.component)
		return err
	}

	return nil
}

// AllocatePage increments the max allocated page ID, persists it in the metadata page and returns it.
// If the file has no room for the new page it is extended by EXTENT_PAGES zeroed pages.
// The metadata page is written but not synced, durability still needs Sync or Close.
func (disk *pageFile) AllocatePage() (PageID, error) {

	disk.mutex.Lock()
	defer disk.mutex.Unlock()

	if disk.closed {
		return INVALID_PAGE_ID, ErrDiskClosed
	}

	pageId := disk.metadata.MaxAllocatedPageId + 1
	offset := int64(pageId) * int64(disk.pageSize)

	if offset+int64(disk.pageSize) > disk.fileSize {

		extent := make([]byte, disk.pageSize*EXTENT_PAGES)
		if disk.directIO {
			extent = directio.AlignedBlock(disk.pageSize * EXTENT_PAGES)
		}

		if err := disk.writeAt(extent, offset); err != nil {

			slog.Error("Failed to extend file", "pageId", pageId, "error", err.Error(), "function", "AllocatePage", "at", disk.component)
			return INVALID_PAGE_ID, err
		}
	}

	disk.metadata.MaxAllocatedPageId = pageId

	if err := disk.writeMetaData(); err != nil {
		disk.metadata.MaxAllocatedPageId = pageId - 1
		return INVALID_PAGE_ID, err
	}

	slog.Info("allocated new page", "pageId", pageId, "function", "AllocatePage", "at", disk.component)

	return PageID(pageId), nil
}

// DeallocatePage records the page ID in the metadata page. Page IDs are never handed out again,
// the list is kept for offline compaction. IDs that do not fit in the metadata page are dropped.
// Deallocating a reserved, unallocated or already deallocated page ID is a no-op.
// Reads and writes of a deallocated page ID fail with ErrPageDeallocated.
func (disk *pageFile) DeallocatePage(pageId PageID) error {

	disk.mutex.Lock()
	defer disk.mutex.Unlock()

	if disk.closed {
		return ErrDiskClosed
	}

	if pageId <= METADATA_PAGE_ID || uint64(pageId) > disk.metadata.MaxAllocatedPageId {
		slog.Debug("deallocation of page that was never allocated", "pageId", pageId, "function", "DeallocatePage", "at", disk.component)
		return nil
	}

	if _, exists := disk.deallocated[uint64(pageId)]; exists {
		return nil
	}

	disk.deallocated[uint64(pageId)] = struct{}{}

	if len(disk.metadata.DeallocatedPageIdList) >= disk.codec.MaxDeallocatedPageIds() {

		slog.Warn("deallocated page list is full, dropping page ID", "pageId", pageId, "function", "DeallocatePage", "at", disk.component)
		return nil
	}

	slog.Info("deallocating page", "pageId", pageId, "function", "DeallocatePage", "at", disk.component)

	disk.metadata.DeallocatedPageIdList = append(disk.metadata.DeallocatedPageIdList, uint64(pageId))
	return nil
}

// Sync writes the metadata page and flushes the file to stable storage.
func (disk *pageFile) Sync() error {

	disk.mutex.Lock()
	defer disk.mutex.Unlock()

	if disk.closed {
		return ErrDiskClosed
	}

	return disk.sync()
}

func (disk *pageFile) sync() error {

	if err := disk.writeMetaData(); err != nil {
		return err
	}

	return syncFile(disk.file)
}

// Close writes the metadata page, syncs, releases the file lock and closes the file.
func (disk *pageFile) Close() error {

	disk.mutex.Lock()
	defer disk.mutex.Unlock()

	if disk.closed {
		return nil
	}

	slog.Info("Closing disk manager...", "filePath", disk.filePath, "function", "Close", "at", disk.component)

	disk.closed = true

	if err := disk.sync(); err != nil {
		_ = unlockFile(disk.file)
		_ = disk.file.Close()
		return err
	}

	if err := unlockFile(disk.file); err != nil {
		slog.Error("Failed to unlock file", "error", err.Error(), "function", "Close", "at", disk.component)
	}

	if err := disk.file.Close(); err != nil {

		slog.Error("Failed to close file", "error", err.Error(), "function", "Close", "at", disk.component)
		return err
	}

	return nil
}

// MaxAllocatedPageId returns the highest page ID handed out so far.
func (disk *pageFile) MaxAllocatedPageId() PageID {

	disk.mutex.Lock()
	defer disk.mutex.Unlock()

	return PageID(disk.metadata.MaxAllocatedPageId)
}

// DeallocatedPageIds returns a copy of the recorded deallocated page IDs.
func (disk *pageFile) DeallocatedPageIds() []PageID {

	disk.mutex.Lock()
	defer disk.mutex.Unlock()

	pageIds := make([]PageID, len(disk.metadata.DeallocatedPageIdList))
	for i, id := range disk.metadata.DeallocatedPageIdList {
		pageIds[i] = PageID(id)
	}
	return pageIds
}
