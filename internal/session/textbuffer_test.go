package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTextBufferCommitThenPop(t *testing.T) {
	var b TextBuffer
	b.SetCurrent("he")
	b.AppendCurrent("llo")
	assert.Equal(t, 5, b.Len())

	before := b.HistoryLen()
	b.Commit()
	assert.Equal(t, "", b.Current())
	assert.Equal(t, 0, b.Len())
	assert.Equal(t, before+1, b.HistoryLen())

	assert.Equal(t, "hello", b.PopLast())
	assert.Equal(t, before, b.HistoryLen())
}

func TestTextBufferPopEmpty(t *testing.T) {
	var b TextBuffer
	assert.Equal(t, "", b.PopLast())
	_, ok := b.Last()
	assert.False(t, ok)
}

func TestTextBufferHistoryAccess(t *testing.T) {
	var b TextBuffer
	for _, w := range []string{"one", "two", "three"} {
		b.SetCurrent(w)
		b.Commit()
	}
	got, ok := b.HistoryAt(1)
	assert.True(t, ok)
	assert.Equal(t, "two", got)

	_, ok = b.HistoryAt(3)
	assert.False(t, ok)
	_, ok = b.HistoryAt(-1)
	assert.False(t, ok)

	last, ok := b.Last()
	assert.True(t, ok)
	assert.Equal(t, "three", last)

	h := b.History()
	h[0] = "changed"
	assert.Equal(t, []string{"one", "two", "three"}, b.History())
}

func TestTextBufferTrimCurrent(t *testing.T) {
	var b TextBuffer
	b.SetCurrent("naï")
	r, ok := b.TrimCurrent()
	assert.True(t, ok)
	assert.Equal(t, 'ï', r)
	assert.Equal(t, "na", b.Current())
	assert.Equal(t, 2, b.Len())

	b.ResetCurrent()
	_, ok = b.TrimCurrent()
	assert.False(t, ok)
}

func TestTextBufferResets(t *testing.T) {
	var b TextBuffer
	b.SetCurrent("a")
	b.Commit()
	b.SetCurrent("b")
	b.SetComposing(true)

	b.ResetHistory()
	assert.Equal(t, 0, b.HistoryLen())
	assert.Equal(t, "b", b.Current())

	b.Reset()
	assert.Equal(t, "", b.Current())
	assert.Equal(t, 0, b.Len())
	assert.False(t, b.Composing())
}
