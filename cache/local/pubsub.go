package local

import (
	"context"
	"sync"
)

// LocalMessage is one published payload as seen by a subscriber.
type LocalMessage struct {
	Channel string
	Payload string
}

// LocalPubSub fans messages out in-process. Delivery is best effort: a
// subscriber whose buffer is full skips the message instead of
// stalling every publisher.
type LocalPubSub struct {
	mu     sync.RWMutex
	nextID int
	// channel name -> subscriber id -> delivery channel
	chans   map[string]map[int]chan *LocalMessage
	bufSize int
}

// NewPubSub creates an in-process pub/sub hub. bufSize is the per
// subscriber delivery buffer.
func NewPubSub(bufSize int) *LocalPubSub {
	if bufSize <= 0 {
		bufSize = 256
	}
	return &LocalPubSub{
		chans:   make(map[string]map[int]chan *LocalMessage),
		bufSize: bufSize,
	}
}

// Publish delivers message to every current subscriber of channel.
func (ps *LocalPubSub) Publish(_ context.Context, channel, message string) error {
	msg := &LocalMessage{Channel: channel, Payload: message}
	ps.mu.RLock()
	defer ps.mu.RUnlock()
	for _, ch := range ps.chans[channel] {
		select {
		case ch <- msg:
		default:
		}
	}
	return nil
}

// Subscribe listens on one or more channels. The returned cancel
// detaches the subscriber and closes the message channel; it is safe
// to call once only.
func (ps *LocalPubSub) Subscribe(_ context.Context, channels ...string) (<-chan *LocalMessage, func(), error) {
	ch := make(chan *LocalMessage, ps.bufSize)

	ps.mu.Lock()
	id := ps.nextID
	ps.nextID++
	for _, name := range channels {
		if ps.chans[name] == nil {
			ps.chans[name] = make(map[int]chan *LocalMessage)
		}
		ps.chans[name][id] = ch
	}
	ps.mu.Unlock()

	cancel := func() {
		ps.mu.Lock()
		for _, name := range channels {
			delete(ps.chans[name], id)
			if len(ps.chans[name]) == 0 {
				delete(ps.chans, name)
			}
		}
		ps.mu.Unlock()
		close(ch)
	}
	return ch, cancel, nil
}
