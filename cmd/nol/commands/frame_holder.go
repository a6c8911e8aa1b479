package commands

import (
	"sync"

	"github.com/battlesnakeio/nol/store"
)

// frameHolder collects turns as they arrive over the socket.
type frameHolder struct {
	sync.RWMutex
	frames []*store.Turn
	first  chan *store.Turn
}

func newFrameHolder() *frameHolder {
	return &frameHolder{first: make(chan *store.Turn, 1)}
}

func (fh *frameHolder) append(frame *store.Turn) {
	fh.Lock()
	defer fh.Unlock()

	if len(fh.frames) == 0 {
		fh.first <- frame
		close(fh.first)
	}
	fh.frames = append(fh.frames, frame)
}

func (fh *frameHolder) get(index int) *store.Turn {
	fh.RLock()
	defer fh.RUnlock()

	if index < 0 || index >= len(fh.frames) {
		return nil
	}

	return fh.frames[index]
}

func (fh *frameHolder) initialFrame() <-chan *store.Turn {
	return fh.first
}

func (fh *frameHolder) count() int {
	fh.RLock()
	defer fh.RUnlock()

	return len(fh.frames)
}
