// Package ringbuffer provides a fixed-capacity single-producer
// single-consumer ring buffer for audio samples, handing samples from an
// audio callback thread to a DSP loop without blocking either side.
package ringbuffer

import "sync/atomic"

// SPSC is a lock-free single-producer single-consumer ring buffer of
// float32 samples. Exactly one goroutine may call TryPush (the audio capture
// callback) and exactly one goroutine may call TryPop/DrainInto (the DSP loop);
// mixing producers or consumers is undefined behavior, matching the
// contract of the Rust ringbuf crate this is modeled on.
type SPSC struct {
	buffer   []float32
	capacity uint64
	writePos atomic.Uint64
	readPos  atomic.Uint64
}

// New creates a ring buffer holding up to capacity samples. 8192 samples at
// 48kHz is about 170ms of audio, the default this system uses between its
// capture callback and DSP thread.
func New(capacity int) *SPSC {
	return &SPSC{
		buffer:   make([]float32, capacity),
		capacity: uint64(capacity),
	}
}

// TryPush appends one sample. If the buffer is full, the new sample is
// dropped and TryPush returns false — the producer (an audio callback) must
// never block, so overflow always drops the newest sample rather than
// overwriting unread data.
func (r *SPSC) TryPush(sample float32) bool {
	write := r.writePos.Load()
	read := r.readPos.Load()

	if write-read >= r.capacity {
		return false
	}

	r.buffer[write%r.capacity] = sample
	r.writePos.Store(write + 1)
	return true
}

// TryPop removes and returns the oldest sample. ok is false if the buffer
// is empty.
func (r *SPSC) TryPop() (sample float32, ok bool) {
	read := r.readPos.Load()
	write := r.writePos.Load()

	if read >= write {
		return 0, false
	}

	sample = r.buffer[read%r.capacity]
	r.readPos.Store(read + 1)
	return sample, true
}

// DrainInto pops every currently available sample into dst, returning the
// number popped. This is the usual way a DSP loop services the buffer: one
// drain per tick rather than one TryPop call per sample.
func (r *SPSC) DrainInto(dst []float32) int {
	n := 0
	for n < len(dst) {
		sample, ok := r.TryPop()
		if !ok {
			break
		}
		dst[n] = sample
		n++
	}
	return n
}

// Len reports how many samples are currently buffered.
func (r *SPSC) Len() int {
	return int(r.writePos.Load() - r.readPos.Load())
}

// Capacity reports the maximum number of samples this buffer holds.
func (r *SPSC) Capacity() int {
	return int(r.capacity)
}
