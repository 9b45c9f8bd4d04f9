// Package memspace provides the memory spaces views allocate from and the
// shared allocation records that track their lifetime.
package memspace

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"unsafe"

	"k8s.io/klog/v2"
)

var (
	// ErrOutOfMemory indicates an allocation that would exceed the space limit.
	ErrOutOfMemory = errors.New("memspace: allocation exceeds space limit")

	// ErrReleased indicates use of a record whose last reference was dropped.
	ErrReleased = errors.New("memspace: record already released")
)

// Space hands out allocation records.
type Space interface {
	Name() string
	Allocate(label string, bytes int) (*Record, error)
}

// HostSpace allocates from the Go heap. A zero Limit means unlimited.
type HostSpace struct {
	Limit int64

	name  string
	inUse atomic.Int64
	peak  atomic.Int64
	live  atomic.Int64
}

var (
	hostOnce sync.Once
	host     *HostSpace
)

// Host returns the process-wide default host space.
func Host() *HostSpace {
	hostOnce.Do(func() { host = &HostSpace{} })
	return host
}

func NewHostSpace(limit int64) *HostSpace {
	return &HostSpace{Limit: limit}
}

// NewNamedHostSpace returns a host space reported under its own name, so
// views allocated from it do not mix with views of the default host space.
func NewNamedHostSpace(name string, limit int64) *HostSpace {
	return &HostSpace{Limit: limit, name: name}
}

func (h *HostSpace) Name() string {
	if h.name == "" {
		return "host"
	}
	return h.name
}

// InUse is the number of bytes held by live records.
func (h *HostSpace) InUse() int64 { return h.inUse.Load() }

// Peak is the largest InUse value observed.
func (h *HostSpace) Peak() int64 { return h.peak.Load() }

// Live is the number of records not yet released.
func (h *HostSpace) Live() int64 { return h.live.Load() }

func (h *HostSpace) Allocate(label string, bytes int) (*Record, error) {
	if bytes < 0 {
		return nil, fmt.Errorf("memspace: negative allocation size %d for %q", bytes, label)
	}
	n := h.inUse.Add(int64(bytes))
	if h.Limit > 0 && n > h.Limit {
		h.inUse.Add(-int64(bytes))
		return nil, fmt.Errorf("allocating %d bytes for %q (%d in use, limit %d): %w", bytes, label, n-int64(bytes), h.Limit, ErrOutOfMemory)
	}
	for {
		p := h.peak.Load()
		if n <= p || h.peak.CompareAndSwap(p, n) {
			break
		}
	}
	h.live.Add(1)

	r := &Record{label: label, size: bytes, space: h}
	if bytes > 0 {
		// uint64 words keep the block aligned for every supported scalar.
		r.words = make([]uint64, (bytes+7)/8)
		r.data = unsafe.Pointer(&r.words[0])
	}
	r.refs.Store(1)

	klog.V(4).InfoS("allocated record", "space", h.Name(), "label", label, "bytes", bytes, "inUse", n)
	return r, nil
}

func (h *HostSpace) free(r *Record) {
	n := h.inUse.Add(-int64(r.size))
	h.live.Add(-1)
	klog.V(4).InfoS("released record", "space", h.Name(), "label", r.label, "bytes", r.size, "inUse", n)
}
