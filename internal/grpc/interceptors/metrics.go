package interceptors

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"google.golang.org/grpc"
)

// MetricsData holds counters for one gRPC method
type MetricsData struct {
	RequestCount    int64         `json:"request_count"`
	SuccessCount    int64         `json:"success_count"`
	ErrorCount      int64         `json:"error_count"`
	TotalDuration   time.Duration `json:"total_duration"`
	AverageDuration time.Duration `json:"average_duration"`
	LastUpdated     time.Time     `json:"last_updated"`
}

// MetricsCollector collects per-method call counters
type MetricsCollector struct {
	mu      sync.RWMutex
	methods map[string]*MetricsData
}

func NewMetricsCollector() *MetricsCollector {
	return &MetricsCollector{methods: make(map[string]*MetricsData)}
}

// RecordMetrics records one call
func (c *MetricsCollector) RecordMetrics(method string, duration time.Duration, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	m, ok := c.methods[method]
	if !ok {
		m = &MetricsData{}
		c.methods[method] = m
	}
	m.RequestCount++
	m.TotalDuration += duration
	m.AverageDuration = m.TotalDuration / time.Duration(m.RequestCount)
	m.LastUpdated = time.Now()
	if err != nil {
		m.ErrorCount++
	} else {
		m.SuccessCount++
	}
}

// Snapshot returns a copy of all counters
func (c *MetricsCollector) Snapshot() map[string]MetricsData {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make(map[string]MetricsData, len(c.methods))
	for k, v := range c.methods {
		out[k] = *v
	}
	return out
}

// Summary renders the counters as "requests/errors avg" strings for the
// status endpoint
func (c *MetricsCollector) Summary() map[string]string {
	snap := c.Snapshot()
	methods := make([]string, 0, len(snap))
	for m := range snap {
		methods = append(methods, m)
	}
	sort.Strings(methods)

	out := make(map[string]string, len(snap))
	for _, m := range methods {
		d := snap[m]
		out["grpc "+m] = fmt.Sprintf("%d requests, %d errors, avg %s", d.RequestCount, d.ErrorCount, d.AverageDuration)
	}
	return out
}

// UnaryInterceptor records unary calls
func (c *MetricsCollector) UnaryInterceptor() grpc.UnaryServerInterceptor {
	return func(
		ctx context.Context,
		req interface{},
		info *grpc.UnaryServerInfo,
		handler grpc.UnaryHandler,
	) (interface{}, error) {
		start := time.Now()
		resp, err := handler(ctx, req)
		c.RecordMetrics(info.FullMethod, time.Since(start), err)
		return resp, err
	}
}

// StreamInterceptor records streams
func (c *MetricsCollector) StreamInterceptor() grpc.StreamServerInterceptor {
	return func(
		srv interface{},
		ss grpc.ServerStream,
		info *grpc.StreamServerInfo,
		handler grpc.StreamHandler,
	) error {
		start := time.Now()
		err := handler(srv, ss)
		c.RecordMetrics(info.FullMethod, time.Since(start), err)
		return err
	}
}
