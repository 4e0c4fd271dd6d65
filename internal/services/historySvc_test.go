package services

import (
	"fmt"
	"testing"
	"time"

	"github.com/amineamaach/simulators/iotSimulatorMQTT/internal/simulators"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func appendN(h *HistorySvc, n int) {
	for i := 0; i < n; i++ {
		h.Append(Record{
			Timestamp: time.Now().UTC(),
			Topic:     "test/topic",
			Payload:   simulators.Reading{"seq": i},
		})
	}
}

func TestHistoryCapacity(t *testing.T) {
	history := NewHistorySvc(100)
	appendN(history, 150)

	tail := history.Tail(200)
	require.Len(t, tail, 100)
	assert.Equal(t, int64(150), history.TotalCount())

	// Oldest surviving record first, most recent last.
	assert.Equal(t, 50, tail[0].Payload["seq"])
	assert.Equal(t, 149, tail[99].Payload["seq"])
}

func TestHistoryTailWindow(t *testing.T) {
	history := NewHistorySvc(100)
	appendN(history, 10)

	tail := history.Tail(3)
	require.Len(t, tail, 3)
	assert.Equal(t, 7, tail[0].Payload["seq"])
	assert.Equal(t, 9, tail[2].Payload["seq"])

	assert.Empty(t, history.Tail(0))
	assert.Len(t, history.Tail(100), 10)
}

func TestHistoryCountSurvivesEviction(t *testing.T) {
	history := NewHistorySvc(5)
	appendN(history, 12)

	assert.Equal(t, 5, history.Len())
	assert.Equal(t, int64(12), history.TotalCount())
}

func TestHistoryConcurrentReads(t *testing.T) {
	history := NewHistorySvc(100)

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 500; i++ {
			history.Append(Record{
				Timestamp: time.Now().UTC(),
				Topic:     fmt.Sprintf("topic/%d", i),
				Payload:   simulators.Reading{"seq": i},
			})
		}
	}()

	for i := 0; i < 200; i++ {
		_ = history.Tail(50)
		_ = history.TotalCount()
	}
	<-done

	assert.Equal(t, int64(500), history.TotalCount())
	assert.Len(t, history.Tail(200), 100)
}
