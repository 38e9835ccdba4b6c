package bufferpoolmanager

import (
	"encoding/binary"
	"fmt"
	"sync"
)

// recordingDiskManager keeps pages in memory and records every I/O in order.
type recordingDiskManager struct {
	mutex *sync.Mutex

	pages       map[PageID][]byte
	nextPageId  PageID
	deallocated []PageID

	// operations holds "R<id>" for reads and "W<id>" for writes, in call order.
	operations []string
	writes     map[PageID]int

	failReads  map[PageID]error
	failWrites map[PageID]error
}

func newRecordingDiskManager() *recordingDiskManager {
	return &recordingDiskManager{
		mutex:      &sync.Mutex{},
		pages:      make(map[PageID][]byte),
		nextPageId: 1,
		writes:     make(map[PageID]int),
		failReads:  make(map[PageID]error),
		failWrites: make(map[PageID]error),
	}
}

func createPage(start int) []byte {

	page := make([]byte, PAGE_SIZE)

	pointer := 0
	for i := 0; i < 512; i++ {
		binary.LittleEndian.PutUint64(page[pointer:pointer+8], uint64(start+i))
		pointer += 8
	}

	return page
}

func checkPage(start int, page []byte) bool {

	pointer := 0

	for i := 0; i < 512; i++ {
		if uint64(i+start) != binary.LittleEndian.Uint64(page[pointer:pointer+8]) {
			return false
		}
		pointer += 8
	}
	return true
}

// seed stores pages 1..count, page i filled by createPage(i).
func (disk *recordingDiskManager) seed(count int) {

	disk.mutex.Lock()
	defer disk.mutex.Unlock()

	for i := 1; i <= count; i++ {
		disk.pages[PageID(i)] = createPage(i)
	}
	disk.nextPageId = PageID(count + 1)
}

func (disk *recordingDiskManager) ReadPage(pageId PageID, buffer []byte) error {

	disk.mutex.Lock()
	defer disk.mutex.Unlock()

	disk.operations = append(disk.operations, fmt.Sprintf("R%d", pageId))

	if err := disk.failReads[pageId]; err != nil {
		return err
	}

	if data, exists := disk.pages[pageId]; exists {
		copy(buffer, data)
	} else {
		clear(buffer)
	}
	return nil
}

func (disk *recordingDiskManager) WritePage(pageId PageID, buffer []byte) error {

	disk.mutex.Lock()
	defer disk.mutex.Unlock()

	disk.operations = append(disk.operations, fmt.Sprintf("W%d", pageId))

	if err := disk.failWrites[pageId]; err != nil {
		return err
	}

	disk.pages[pageId] = append([]byte(nil), buffer...)
	disk.writes[pageId]++
	return nil
}

func (disk *recordingDiskManager) AllocatePage() (PageID, error) {

	disk.mutex.Lock()
	defer disk.mutex.Unlock()

	pageId := disk.nextPageId
	disk.nextPageId++
	return pageId, nil
}

func (disk *recordingDiskManager) DeallocatePage(pageId PageID) error {

	disk.mutex.Lock()
	defer disk.mutex.Unlock()

	disk.deallocated = append(disk.deallocated, pageId)
	return nil
}

func (disk *recordingDiskManager) PageSize() int {
	return PAGE_SIZE
}

func (disk *recordingDiskManager) Close() error {
	return nil
}

func (disk *recordingDiskManager) writeCount(pageId PageID) int {

	disk.mutex.Lock()
	defer disk.mutex.Unlock()

	return disk.writes[pageId]
}

func (disk *recordingDiskManager) ops() []string {

	disk.mutex.Lock()
	defer disk.mutex.Unlock()

	return append([]string(nil), disk.operations...)
}

func (disk *recordingDiskManager) stored(pageId PageID) []byte {

	disk.mutex.Lock()
	defer disk.mutex.Unlock()

	return disk.pages[pageId]
}
