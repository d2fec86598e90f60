package workers

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// Buffered is a component backed by a buffered channel.
type Buffered interface {
	Len() int
	Cap() int
}

type NamedBuffer struct {
	Name   string
	Buffer Buffered
}

// ChannelCapacityWorker periodically samples the buffers feeding the session.
// Both Dispatch and Publish drop when a buffer is full, so a warning is logged
// once the space left falls to lowCapacityThreshold.
type ChannelCapacityWorker struct {
	log                  *slog.Logger
	buffers              []NamedBuffer
	metricInterval       time.Duration
	lowCapacityThreshold int
}

func NewChannelCapacityWorker(log *slog.Logger, buffers []NamedBuffer,
	metricInterval time.Duration, lowCapacityThreshold int) *ChannelCapacityWorker {
	return &ChannelCapacityWorker{
		log:                  log,
		buffers:              buffers,
		metricInterval:       metricInterval,
		lowCapacityThreshold: lowCapacityThreshold,
	}
}

func (w *ChannelCapacityWorker) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.metricInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			w.log.Debug("Context done, stopping capacity sampling")
			return nil
		case <-ticker.C:
			w.Sample()
		}
	}
}

// Sample logs the usage of every buffer and returns the names of those
// running low.
func (w *ChannelCapacityWorker) Sample() []string {
	var low []string
	for _, nb := range w.buffers {
		length, capacity := nb.Buffer.Len(), nb.Buffer.Cap()
		w.log.Debug(fmt.Sprintf("Channel %s usage: %d / %d", nb.Name, length, capacity))
		if capacity <= 0 {
			// Unbuffered
			continue
		}
		if left := capacity - length; left <= w.lowCapacityThreshold {
			w.log.Warn("Channel capacity running low", "channel", nb.Name, "left", left, "capacity", capacity)
			low = append(low, nb.Name)
		}
	}
	return low
}
