// Package mailbox provides an unbounded channel. Sends never block on a slow
// reader; values queue in memory until they are received.
package mailbox

import "sync"

// directCapacity values can sit in the receive channel itself. Beyond that
// they wait in the backlog until a reader makes room.
const directCapacity = 64

type Unbounded[T any] struct {
	mu      sync.Mutex
	out     chan T
	backlog []T
	moving  bool
	closed  bool
	wake    chan struct{}
}

func New[T any]() *Unbounded[T] {
	u := &Unbounded[T]{
		out:  make(chan T, directCapacity),
		wake: make(chan struct{}, 1),
	}
	go u.pump()
	return u
}

// Send queues v for delivery. It returns false once the mailbox is closed,
// in which case v is discarded. While nothing is backlogged, v is ready to
// receive by the time Send returns.
func (u *Unbounded[T]) Send(v T) bool {
	u.mu.Lock()
	defer u.mu.Unlock()

	if u.closed {
		return false
	}

	if len(u.backlog) == 0 && !u.moving {
		select {
		case u.out <- v:
			return true
		default:
		}
	}

	u.backlog = append(u.backlog, v)
	u.signal()
	return true
}

// Receive returns the channel values are delivered on. It is closed after
// Close once every value queued before it has been delivered.
func (u *Unbounded[T]) Receive() <-chan T {
	return u.out
}

// Close stops accepting new values. Safe to call more than once.
func (u *Unbounded[T]) Close() {
	u.mu.Lock()
	defer u.mu.Unlock()
	if u.closed {
		return
	}
	u.closed = true
	u.signal()
}

// Len reports how many values are waiting to be received.
func (u *Unbounded[T]) Len() int {
	u.mu.Lock()
	defer u.mu.Unlock()

	n := len(u.out) + len(u.backlog)
	if u.moving {
		n++
	}
	return n
}

func (u *Unbounded[T]) signal() {
	select {
	case u.wake <- struct{}{}:
	default:
	}
}

// pump moves backlogged values into the receive channel, one at a time and
// in order, and closes it once the mailbox is closed and empty.
func (u *Unbounded[T]) pump() {
	var zero T
	for range u.wake {
		for {
			u.mu.Lock()
			if len(u.backlog) == 0 {
				u.moving = false
				closed := u.closed
				u.mu.Unlock()
				if closed {
					close(u.out)
					return
				}
				break
			}
			v := u.backlog[0]
			u.backlog[0] = zero
			u.backlog = u.backlog[1:]
			u.moving = true
			u.mu.Unlock()

			u.out <- v
		}
	}
}
