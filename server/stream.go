package server

import (
	"sync"

	"github.com/kidlingo/kidlingo/core"
)

// stream is the buffered message queue for one stream id. Several SSE
// connections may share it; subs counts them so the queue outlives any
// single connection.
type stream struct {
	id   string
	ch   chan []byte
	subs int
}

// streamHub tracks streams by id. Messages published to a full queue drop
// the oldest frame; a slow subscriber never blocks the publisher. A queue
// published before any subscriber attaches is kept until one does.
type streamHub struct {
	mu      sync.Mutex
	streams map[string]*stream
	size    int
}

func newStreamHub(queueSize int) *streamHub {
	return &streamHub{streams: make(map[string]*stream), size: queueSize}
}

// get returns the stream under id, creating it if needed. Callers hold h.mu.
func (h *streamHub) get(id string) *stream {
	if st, ok := h.streams[id]; ok {
		return st
	}
	st := &stream{id: id, ch: make(chan []byte, h.size)}
	h.streams[id] = st
	return st
}

// subscribe attaches a subscriber to the stream under the given id, or a
// fresh id when empty.
func (h *streamHub) subscribe(id string) *stream {
	h.mu.Lock()
	defer h.mu.Unlock()

	if id == "" {
		id = core.NewID()
	}
	st := h.get(id)
	st.subs++
	return st
}

// unsubscribe detaches one subscriber. The stream and any undelivered
// frames are dropped only when the last subscriber leaves.
func (h *streamHub) unsubscribe(st *stream) {
	h.mu.Lock()
	defer h.mu.Unlock()

	st.subs--
	if st.subs <= 0 {
		delete(h.streams, st.id)
	}
}

// publish queues a frame on the stream, creating it if the subscriber has
// not connected yet. Overflow drops the oldest frame.
func (h *streamHub) publish(id string, frame []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()

	st := h.get(id)
	for {
		select {
		case st.ch <- frame:
			return
		default:
			select {
			case <-st.ch:
			default:
			}
		}
	}
}
