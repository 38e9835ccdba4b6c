package bufferpoolmanager

import (
	"os"
	"testing"

	"github.com/stretchr/testify/suite"
)

type DirectIODiskManagerTestSuite struct {
	suite.Suite
	diskManager *DirectIODiskManager
}

func (ds *DirectIODiskManagerTestSuite) SetupTest() {

	diskManager, err := NewDirectIODiskManager("test_file")
	ds.Require().NoError(err)

	ds.diskManager = diskManager
}

func (ds *DirectIODiskManagerTestSuite) TearDownTest() {

	ds.Assert().NoError(ds.diskManager.Close())
	ds.Assert().NoError(os.Remove("test_file"))
}

func (ds *DirectIODiskManagerTestSuite) TestDiskManagerWriteRead() {

	pageId, err := ds.diskManager.AllocatePage()
	ds.Require().NoError(err)

	buffer := allocateFrameBuffers(1, PAGE_SIZE)[0]
	copy(buffer, createPage(7))

	ds.Require().NoError(ds.diskManager.WritePage(pageId, buffer))

	data := allocateFrameBuffers(1, PAGE_SIZE)[0]
	ds.Require().NoError(ds.diskManager.ReadPage(pageId, data))
	ds.Assert().True(checkPage(7, data))
}

// buffers that are not aligned go through an aligned copy.
func (ds *DirectIODiskManagerTestSuite) TestDiskManagerUnalignedBuffer() {

	pageId, err := ds.diskManager.AllocatePage()
	ds.Require().NoError(err)

	block := make([]byte, PAGE_SIZE+1)
	unaligned := block[1:]
	copy(unaligned, createPage(70))

	ds.Require().NoError(ds.diskManager.WritePage(pageId, unaligned))

	block = make([]byte, PAGE_SIZE+1)
	unaligned = block[1:]
	ds.Require().NoError(ds.diskManager.ReadPage(pageId, unaligned))
	ds.Assert().True(checkPage(70, unaligned))
}

func (ds *DirectIODiskManagerTestSuite) TestBufferPoolOverDirectIO() {

	bufferPool, err := NewSimpleBufferPoolManager(2, PAGE_SIZE, NewClockReplacer(2), ds.diskManager)
	ds.Require().NoError(err)

	pageIds := make([]PageID, 0)

	for i := range 4 {
		pageId, frame, err := bufferPool.NewPage()
		ds.Require().NoError(err)

		copy(frame.Data(), createPage(i*1000))
		ds.Require().NoError(bufferPool.UnpinPage(pageId, DIRTY))

		pageIds = append(pageIds, pageId)
	}

	ds.Require().NoError(bufferPool.Close())

	for i, pageId := range pageIds {
		data := allocateFrameBuffers(1, PAGE_SIZE)[0]
		ds.Require().NoError(ds.diskManager.ReadPage(pageId, data))
		ds.Assert().True(checkPage(i*1000, data))
	}
}

func TestDirectIODiskManager(t *testing.T) {
	suite.Run(t, new(DirectIODiskManagerTestSuite))
}
