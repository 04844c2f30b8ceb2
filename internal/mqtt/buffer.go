package mqtt

import "log"

// bufferedMsg is a serialized message waiting for the broker to come back.
type bufferedMsg struct {
	topic    string
	payload  []byte
	qos      byte
	retained bool
}

// ringBuffer keeps the most recent messages published while offline.
// Callers synchronize access.
type ringBuffer struct {
	msgs    []bufferedMsg
	next    int
	n       int
	dropped int
}

func newRingBuffer(capacity int) *ringBuffer {
	if capacity < 1 {
		capacity = 1
	}
	return &ringBuffer{msgs: make([]bufferedMsg, capacity)}
}

// push appends msg, overwriting the oldest entry when full.
func (r *ringBuffer) push(msg bufferedMsg) {
	size := len(r.msgs)
	if r.n == size {
		if r.dropped == 0 {
			log.Printf("mqtt: offline buffer full (%d messages), dropping oldest", size)
		}
		r.dropped++
	} else {
		r.n++
	}
	r.msgs[r.next] = msg
	r.next = (r.next + 1) % size
}

// drainAll returns buffered messages oldest first and empties the buffer.
func (r *ringBuffer) drainAll() []bufferedMsg {
	if r.n == 0 {
		return nil
	}
	size := len(r.msgs)
	first := (r.next - r.n + size) % size
	out := make([]bufferedMsg, 0, r.n)
	for i := 0; i < r.n; i++ {
		out = append(out, r.msgs[(first+i)%size])
	}
	if r.dropped > 0 {
		log.Printf("mqtt: %d buffered messages were dropped while offline", r.dropped)
	}
	r.next, r.n, r.dropped = 0, 0, 0
	return out
}

func (r *ringBuffer) len() int {
	return r.n
}
