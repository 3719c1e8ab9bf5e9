// Package notify provides a generic publish/subscribe fan-out.
package notify

import (
	"context"
	"sync"
)

// Options configures a Notifier.
type Options struct {
	// SubscriberBufferSize is the channel buffer per subscriber.
	// Default: 100
	SubscriberBufferSize int
	// QueueSize is the buffer of pending notifications.
	// Default: 1000
	QueueSize int
}

// DefaultOptions returns the default notifier options.
func DefaultOptions() Options {
	return Options{
		SubscriberBufferSize: 100,
		QueueSize:            1000,
	}
}

// Notifier delivers published items to all current subscribers.
// Publishing never blocks: items are dropped if the queue or a subscriber buffer is full.
type Notifier[T any] struct {
	mu          sync.RWMutex
	subscribers map[<-chan T]chan T
	bufferSize  int
	queue       chan T
	closed      bool
	done        chan struct{}
}

// New creates a notifier with default options.
func New[T any]() *Notifier[T] {
	return NewWithOptions[T](DefaultOptions())
}

// NewWithOptions creates a notifier and starts its fan-out loop. Call Close to stop it.
func NewWithOptions[T any](options Options) *Notifier[T] {
	if options.SubscriberBufferSize <= 0 {
		options.SubscriberBufferSize = DefaultOptions().SubscriberBufferSize
	}
	if options.QueueSize <= 0 {
		options.QueueSize = DefaultOptions().QueueSize
	}

	n := &Notifier[T]{
		subscribers: make(map[<-chan T]chan T),
		bufferSize:  options.SubscriberBufferSize,
		queue:       make(chan T, options.QueueSize),
		done:        make(chan struct{}),
	}
	go n.run()
	return n
}

// Subscribe returns a channel receiving published items until ctx is done or the notifier is closed.
func (n *Notifier[T]) Subscribe(ctx context.Context) <-chan T {
	n.mu.Lock()
	defer n.mu.Unlock()

	ch := make(chan T, n.bufferSize)
	if n.closed {
		close(ch)
		return ch
	}
	n.subscribers[ch] = ch

	context.AfterFunc(ctx, func() {
		n.Unsubscribe(ch)
	})
	return ch
}

// Unsubscribe removes a subscription and closes its channel.
func (n *Notifier[T]) Unsubscribe(ch <-chan T) {
	n.mu.Lock()
	defer n.mu.Unlock()

	if sub, ok := n.subscribers[ch]; ok {
		delete(n.subscribers, ch)
		close(sub)
	}
}

// Publish queues item for delivery.
func (n *Notifier[T]) Publish(item T) {
	n.mu.RLock()
	defer n.mu.RUnlock()
	if n.closed {
		return
	}

	select {
	case n.queue <- item:
	default:
	}
}

// Close stops delivery and closes all subscriber channels. Queued items are discarded.
func (n *Notifier[T]) Close() {
	n.mu.Lock()
	if n.closed {
		n.mu.Unlock()
		return
	}
	n.closed = true
	for ch, sub := range n.subscribers {
		delete(n.subscribers, ch)
		close(sub)
	}
	close(n.queue)
	n.mu.Unlock()

	<-n.done
}

func (n *Notifier[T]) run() {
	defer close(n.done)

	for item := range n.queue {
		n.deliver(item)
	}
}

func (n *Notifier[T]) deliver(item T) {
	// Subscriber channels are only closed under the write lock, so sending under the read lock is safe.
	n.mu.RLock()
	defer n.mu.RUnlock()

	for _, sub := range n.subscribers {
		select {
		case sub <- item:
		default:
		}
	}
}
