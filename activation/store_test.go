package activation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_AllZero(t *testing.T) {
	s := New(3)
	require.Equal(t, 3, s.Len())
	for i := 0; i < 3; i++ {
		assert.Zero(t, s.Current(i))
		assert.Zero(t, s.Pending(i))
	}
}

func TestStagePending_CoalescesLastWriterWins(t *testing.T) {
	s := New(1)
	s.StagePending(0, 0.2)
	s.StagePending(0, 0.9)
	assert.Equal(t, 0.9, s.Pending(0))
}

func TestCommit_SwapsBuffersAndClearsPending(t *testing.T) {
	s := New(2)
	s.StagePending(0, 0.5)
	s.SetNext(0, 0.7)
	s.SetNext(1, 0.3)

	// Current still reflects the pre-commit state.
	assert.Zero(t, s.Current(0))

	s.Commit()

	assert.Equal(t, 0.7, s.Current(0))
	assert.Equal(t, 0.3, s.Current(1))
	assert.Zero(t, s.Pending(0))
}

func TestSnapshot_IsACopy(t *testing.T) {
	s := New(2)
	s.SetNext(0, 1.0)
	s.SetNext(1, 0.5)
	s.Commit()

	snap := s.Snapshot()
	require.Len(t, snap, 2)
	snap[0] = 99

	assert.Equal(t, 1.0, s.Current(0), "mutating the snapshot must not affect the store")
}

func TestCommit_ReusesPreviousBufferAsNext(t *testing.T) {
	s := New(1)
	s.SetNext(0, 0.4)
	s.Commit()
	assert.Equal(t, 0.4, s.Current(0))

	// The old "current" buffer (now "next") must not leak its stale value
	// back into Current until the following SetNext+Commit.
	s.SetNext(0, 0.8)
	s.Commit()
	assert.Equal(t, 0.8, s.Current(0))
}
