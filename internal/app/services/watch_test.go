package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestShouldRefreshDebounces(t *testing.T) {
	w := NewWatchService(nil, "/repo", nil)
	now := time.Now()

	assert.True(t, w.ShouldRefresh(now), "first event always refreshes")
	assert.False(t, w.ShouldRefresh(now.Add(WatchDebounce/2)))
	assert.True(t, w.ShouldRefresh(now.Add(WatchDebounce+time.Millisecond)))
}

func TestNextEventArmsOnce(t *testing.T) {
	w := NewWatchService(nil, "/repo", nil)
	assert.Nil(t, w.NextEvent(), "no channel before Start")

	w.events = make(chan struct{}, 1)
	assert.NotNil(t, w.NextEvent())
	assert.Nil(t, w.NextEvent(), "channel stays armed until the event is handled")

	w.ResetWaiting()
	assert.NotNil(t, w.NextEvent())
}

func TestStartWithoutCommonDir(t *testing.T) {
	w := NewWatchService(nil, "/repo", nil)
	started, err := w.Start(context.Background())
	assert.NoError(t, err)
	assert.False(t, started, "no git runner means nothing to watch")
}
