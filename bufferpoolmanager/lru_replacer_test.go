package bufferpoolmanager

import (
	"testing"

	"github.com/stretchr/testify/suite"
)

type LRUReplacerTestSuite struct {
	suite.Suite
	replacer *LRUReplacer
}

func (rs *LRUReplacerTestSuite) SetupTest() {

	rs.replacer = NewLRUReplacer(8)

	// 5 is the least recently unpinned frame, 3 the most recent.
	for _, frameId := range []FrameID{5, 1, 4, 3} {
		rs.replacer.Unpin(frameId)
	}
}

func (rs *LRUReplacerTestSuite) TestLRUReplacerUnpin() {

	rs.replacer.Unpin(2)

	rs.Assert().Equal(5, rs.replacer.Size())

	MRU := rs.replacer.list.Front()

	rs.Assert().Equal(FrameID(2), MRU.Value.(FrameID))
}

func (rs *LRUReplacerTestSuite) TestLRUReplacerUnpinTwiceKeepsPosition() {

	rs.replacer.Unpin(5)

	rs.Assert().Equal(4, rs.replacer.Size())

	victim, ok := rs.replacer.Victim()

	rs.Require().True(ok)
	rs.Assert().Equal(FrameID(5), victim)
}

func (rs *LRUReplacerTestSuite) TestLRUReplacerVictim() {

	victim, ok := rs.replacer.Victim()

	rs.Require().True(ok)
	rs.Assert().Equal(FrameID(5), victim)

	victim, _ = rs.replacer.Victim()
	rs.Assert().Equal(FrameID(1), victim)
}

func (rs *LRUReplacerTestSuite) TestLRUReplacerVictimOnEmptyList() {

	replacer := NewLRUReplacer(2)

	_, ok := replacer.Victim()
	rs.Assert().False(ok)
}

func (rs *LRUReplacerTestSuite) TestLRUReplacerPin() {

	rs.replacer.Pin(1)
	rs.replacer.Pin(7)

	_, exists := rs.replacer.frameMap[1]

	rs.Assert().False(exists)
	rs.Assert().Equal(3, rs.replacer.Size())
}

func TestLRUReplacer(t *testing.T) {
	suite.Run(t, new(LRUReplacerTestSuite))
}
