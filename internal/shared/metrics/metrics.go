package metrics

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gin-gonic/gin"
)

var (
	uploadsTotal          atomic.Uint64
	streamsStartedTotal   atomic.Uint64
	streamsCompletedTotal atomic.Uint64
	streamsFailedTotal    atomic.Uint64
	streamedBytesTotal    atomic.Uint64

	streamDuration = newHistogram([]float64{50, 100, 250, 500, 1000, 2500, 5000, 15000, 60000})
)

// IncUpload increments the uploads counter.
func IncUpload() {
	uploadsTotal.Add(1)
}

// IncStreamStarted increments the started-streams counter.
func IncStreamStarted() {
	streamsStartedTotal.Add(1)
}

// IncStreamCompleted increments the completed-streams counter.
func IncStreamCompleted() {
	streamsCompletedTotal.Add(1)
}

// IncStreamFailed increments the failed-streams counter.
func IncStreamFailed() {
	streamsFailedTotal.Add(1)
}

// AddStreamedBytes records bytes relayed to clients.
func AddStreamedBytes(n int64) {
	if n > 0 {
		streamedBytesTotal.Add(uint64(n))
	}
}

// ObserveStreamDurationMs records a stream duration in milliseconds.
func ObserveStreamDurationMs(value float64) {
	if value < 0 {
		value = 0
	}
	streamDuration.Observe(value)
}

// Handler exposes metrics in Prometheus text format.
func Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Content-Type", "text/plain; version=0.0.4")
		c.String(http.StatusOK, Render())
	}
}

// Render renders metrics in Prometheus text format.
func Render() string {
	var buf bytes.Buffer
	writeCounter(&buf, "uploads_total", "Total media uploads accepted", uploadsTotal.Load())
	writeCounter(&buf, "streams_started_total", "Total streaming transfers started", streamsStartedTotal.Load())
	writeCounter(&buf, "streams_completed_total", "Total streaming transfers completed", streamsCompletedTotal.Load())
	writeCounter(&buf, "streams_failed_total", "Total streaming transfers failed", streamsFailedTotal.Load())
	writeCounter(&buf, "streamed_bytes_total", "Total bytes relayed to clients", streamedBytesTotal.Load())
	writeHistogram(&buf, "stream_duration_ms", "Streaming transfer duration in milliseconds", streamDuration.Snapshot())
	return buf.String()
}

type histogram struct {
	mu      sync.Mutex
	buckets []float64
	counts  []uint64
	sum     float64
	count   uint64
}

type histogramSnapshot struct {
	buckets []float64
	counts  []uint64
	sum     float64
	count   uint64
}

func newHistogram(buckets []float64) *histogram {
	return &histogram{
		buckets: buckets,
		counts:  make([]uint64, len(buckets)),
	}
}

func (h *histogram) Observe(value float64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.count++
	h.sum += value
	for i, bound := range h.buckets {
		if value <= bound {
			h.counts[i]++
			break
		}
	}
}

func (h *histogram) Snapshot() histogramSnapshot {
	h.mu.Lock()
	defer h.mu.Unlock()
	return histogramSnapshot{
		buckets: append([]float64(nil), h.buckets...),
		counts:  append([]uint64(nil), h.counts...),
		sum:     h.sum,
		count:   h.count,
	}
}

func writeCounter(buf *bytes.Buffer, name, help string, value uint64) {
	fmt.Fprintf(buf, "# HELP %s %s\n", name, help)
	fmt.Fprintf(buf, "# TYPE %s counter\n", name)
	fmt.Fprintf(buf, "%s %d\n", name, value)
}

func writeHistogram(buf *bytes.Buffer, name, help string, snap histogramSnapshot) {
	fmt.Fprintf(buf, "# HELP %s %s\n", name, help)
	fmt.Fprintf(buf, "# TYPE %s histogram\n", name)
	var cumulative uint64
	for i, bound := range snap.buckets {
		cumulative += snap.counts[i]
		fmt.Fprintf(buf, "%s_bucket{le=\"%s\"} %d\n", name, formatFloat(bound), cumulative)
	}
	fmt.Fprintf(buf, "%s_bucket{le=\"+Inf\"} %d\n", name, snap.count)
	fmt.Fprintf(buf, "%s_sum %s\n", name, formatFloat(snap.sum))
	fmt.Fprintf(buf, "%s_count %d\n", name, snap.count)
}

func formatFloat(value float64) string {
	if value == float64(int64(value)) {
		return strconv.FormatInt(int64(value), 10)
	}
	return strconv.FormatFloat(value, 'f', -1, 64)
}

// NowMillis returns current time in milliseconds.
func NowMillis() float64 {
	return float64(time.Now().UnixNano()) / float64(time.Millisecond)
}
