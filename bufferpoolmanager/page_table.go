package bufferpoolmanager

// PageTable maps every resident page to the frame holding it.
// It is not safe for concurrent use, the pool mutex guards it.
type PageTable struct {
	entries map[PageID]FrameID
}

func NewPageTable(poolSize int) *PageTable {
	return &PageTable{entries: make(map[PageID]FrameID, poolSize)}
}

func (table *PageTable) lookup(pageId PageID) (FrameID, bool) {
	frameId, exists := table.entries[pageId]
	return frameId, exists
}

func (table *PageTable) insert(pageId PageID, frameId FrameID) {
	table.entries[pageId] = frameId
}

func (table *PageTable) remove(pageId PageID) {
	delete(table.entries, pageId)
}

func (table *PageTable) size() int {
	return len(table.entries)
}
