package services

import (
	"sync"
	"time"

	"github.com/amineamaach/simulators/iotSimulatorMQTT/internal/simulators"
)

// DefaultHistorySize is how many published records the history keeps.
const DefaultHistorySize = 100

// Record is one published message as kept by the history.
type Record struct {
	Timestamp time.Time          `json:"timestamp"`
	Topic     string             `json:"topic"`
	Payload   simulators.Reading `json:"payload"`
}

// HistorySvc is a bounded FIFO log of recently published records. The
// buffer is capped, the total counter is not; it survives across
// simulations on purpose.
type HistorySvc struct {
	mu       sync.RWMutex
	records  []Record
	capacity int
	total    int64
}

func NewHistorySvc(capacity int) *HistorySvc {
	if capacity <= 0 {
		capacity = DefaultHistorySize
	}
	return &HistorySvc{capacity: capacity}
}

// Append records one published message, evicting the oldest entry once
// the buffer is full.
func (h *HistorySvc) Append(r Record) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.records = append(h.records, r)
	if len(h.records) > h.capacity {
		h.records = h.records[1:]
	}
	h.total++
}

// Tail returns up to the n most recent records in chronological order,
// oldest of the requested window first.
func (h *HistorySvc) Tail(n int) []Record {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if n <= 0 {
		return nil
	}
	if n > len(h.records) {
		n = len(h.records)
	}
	out := make([]Record, n)
	copy(out, h.records[len(h.records)-n:])
	return out
}

// TotalCount reports how many records were ever appended.
func (h *HistorySvc) TotalCount() int64 {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.total
}

func (h *HistorySvc) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.records)
}
