package bufferpoolmanager

import (
	"testing"

	"github.com/stretchr/testify/suite"
)

type ClockReplacerTestSuite struct {
	suite.Suite
	replacer *ClockReplacer
}

func (cs *ClockReplacerTestSuite) SetupTest() {
	cs.replacer = NewClockReplacer(7)
}

func (cs *ClockReplacerTestSuite) TestVictimOnEmptyReplacer() {

	_, ok := cs.replacer.Victim()

	cs.Assert().False(ok)
	cs.Assert().Equal(0, cs.replacer.Size())
}

func (cs *ClockReplacerTestSuite) TestUnpinTracksFrame() {

	cs.replacer.Unpin(1)
	cs.replacer.Unpin(2)
	cs.replacer.Unpin(2)

	cs.Assert().Equal(2, cs.replacer.Size())
	cs.Assert().True(cs.replacer.isTracked(1))
	cs.Assert().True(cs.replacer.referenced[2])
}

func (cs *ClockReplacerTestSuite) TestInvalidFrameIsIgnored() {

	cs.replacer.Unpin(-1)
	cs.replacer.Unpin(7)
	cs.replacer.Pin(100)

	cs.Assert().Equal(0, cs.replacer.Size())
}

func (cs *ClockReplacerTestSuite) TestPinUntracksFrame() {

	cs.replacer.Unpin(3)
	cs.replacer.Unpin(4)

	cs.replacer.Pin(3)
	cs.replacer.Pin(5)

	cs.Assert().Equal(1, cs.replacer.Size())

	victim, ok := cs.replacer.Victim()

	cs.Require().True(ok)
	cs.Assert().Equal(FrameID(4), victim)
}

// every frame was just unpinned, so the sweep ages all of them and falls back to the first one seen.
func (cs *ClockReplacerTestSuite) TestVictimFallsBackToFirstAgedFrame() {

	for _, frameId := range []FrameID{1, 2, 3, 4, 5, 6} {
		cs.replacer.Unpin(frameId)
	}

	victim, ok := cs.replacer.Victim()
	cs.Require().True(ok)
	cs.Assert().Equal(FrameID(1), victim)
	cs.Assert().Equal(2, cs.replacer.hand)

	// the previous sweep cleared every reference bit, the next frames go in clock order.
	victim, _ = cs.replacer.Victim()
	cs.Assert().Equal(FrameID(2), victim)

	victim, _ = cs.replacer.Victim()
	cs.Assert().Equal(FrameID(3), victim)

	cs.Assert().Equal(3, cs.replacer.Size())
}

func (cs *ClockReplacerTestSuite) TestUnreferencedFrameBeatsFallback() {

	for _, frameId := range []FrameID{0, 1, 2} {
		cs.replacer.Unpin(frameId)
	}

	// ages 0, 1, 2 and evicts 0.
	victim, _ := cs.replacer.Victim()
	cs.Require().Equal(FrameID(0), victim)

	// 1 gets a second chance, 2 is unreferenced.
	cs.replacer.Unpin(1)

	victim, ok := cs.replacer.Victim()
	cs.Require().True(ok)
	cs.Assert().Equal(FrameID(2), victim)
	cs.Assert().False(cs.replacer.referenced[1])
	cs.Assert().Equal(3, cs.replacer.hand)
}

func (cs *ClockReplacerTestSuite) TestHandWrapsAround() {

	cs.replacer.Unpin(6)
	cs.replacer.Unpin(0)

	victim, _ := cs.replacer.Victim()
	cs.Require().Equal(FrameID(0), victim)
	cs.Assert().Equal(1, cs.replacer.hand)

	cs.replacer.Unpin(5)

	// 6 was aged by the previous sweep, 5 was not.
	victim, _ = cs.replacer.Victim()
	cs.Assert().Equal(FrameID(6), victim)
	cs.Assert().Equal(0, cs.replacer.hand)
}

func TestClockReplacer(t *testing.T) {
	suite.Run(t, new(ClockReplacerTestSuite))
}
