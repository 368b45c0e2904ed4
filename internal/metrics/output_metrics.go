// Package metrics measures the size of a dump: bytes, lines, and estimated
// tokens per dumped file.
package metrics

import (
	"encoding/json"
	"fmt"
	"sort"
	"sync"
)

// TypeFile is the metric type recorded for every dumped file.
const TypeFile = "file"

// MetricKey identifies a specific metric by type and key
type MetricKey struct {
	Type string
	Key  string
}

// String returns a string representation of the MetricKey
func (k MetricKey) String() string {
	return fmt.Sprintf("%s:%s", k.Type, k.Key)
}

// NewKey creates a new MetricKey with the given type and key
func NewKey(typ, key string) MetricKey {
	return MetricKey{Type: typ, Key: key}
}

// MetricItem stores the metrics for a specific item
type MetricItem struct {
	Bytes  int `json:"bytes"`
	Tokens int `json:"tokens"`
	Lines  int `json:"lines"`
}

// Add adds the given metrics to this item
func (m *MetricItem) Add(bytes, tokens, lines int) {
	m.Bytes += bytes
	m.Tokens += tokens
	m.Lines += lines
}

// Entry is one row of a breakdown.
type Entry struct {
	Key MetricKey
	MetricItem
}

type job struct {
	typ     string
	key     string
	content []byte
}

// OutputMetrics counts content on a pool of workers. Content added after Wait
// is dropped.
type OutputMetrics struct {
	mu    sync.Mutex
	wg    sync.WaitGroup
	Items map[MetricKey]MetricItem
	Ctr   Counter

	// queueMu serializes sends against closing the queue. Workers never take
	// it, so a blocked send cannot hold up the workers draining the queue.
	queueMu sync.RWMutex
	closed  bool
	jobs    chan job
}

// NewOutputMetrics creates a new OutputMetrics with the given counter and worker count
func NewOutputMetrics(counter Counter, workers int) *OutputMetrics {
	if workers < 1 {
		workers = 1
	}

	jobs := make(chan job, workers*2)
	m := &OutputMetrics{
		jobs:  jobs,
		Items: make(map[MetricKey]MetricItem),
		Ctr:   counter,
	}

	m.wg.Add(workers)
	for i := 0; i < workers; i++ {
		go m.worker(jobs)
	}

	return m
}

func (m *OutputMetrics) worker(jobs <-chan job) {
	defer m.wg.Done()

	for job := range jobs {
		bytes, tokens, lines := m.Ctr.Count(string(job.content))

		m.mu.Lock()
		key := MetricKey{Type: job.typ, Key: job.key}
		item := m.Items[key]
		item.Add(bytes, tokens, lines)
		m.Items[key] = item
		m.mu.Unlock()
	}
}

// Add queues content to be counted under (typ, key).
func (m *OutputMetrics) Add(typ, key string, content []byte) {
	m.queueMu.RLock()
	defer m.queueMu.RUnlock()

	if m.closed {
		return
	}
	m.jobs <- job{typ: typ, key: key, content: content}
}

// AddFile queues a dumped file's content.
func (m *OutputMetrics) AddFile(path string, content []byte) {
	m.Add(TypeFile, path, content)
}

// Wait closes the queue and waits for the workers. It is idempotent.
func (m *OutputMetrics) Wait() {
	m.queueMu.Lock()
	if !m.closed {
		m.closed = true
		close(m.jobs)
	}
	m.queueMu.Unlock()

	m.wg.Wait()
}

// SumBy returns the sum of all metrics for the given type
func (m *OutputMetrics) SumBy(typeName string) MetricItem {
	m.mu.Lock()
	defer m.mu.Unlock()

	var sum MetricItem
	for k, v := range m.Items {
		if k.Type == typeName {
			sum.Add(v.Bytes, v.Tokens, v.Lines)
		}
	}
	return sum
}

// Breakdown returns the items of one type, largest token count first, ties
// broken by key.
func (m *OutputMetrics) Breakdown(typeName string) []Entry {
	m.mu.Lock()
	defer m.mu.Unlock()

	var entries []Entry
	for k, v := range m.Items {
		if k.Type == typeName {
			entries = append(entries, Entry{Key: k, MetricItem: v})
		}
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Tokens != entries[j].Tokens {
			return entries[i].Tokens > entries[j].Tokens
		}
		return entries[i].Key.Key < entries[j].Key.Key
	})
	return entries
}

// MarshalJSON marshals the metrics to JSON with string keys
func (m *OutputMetrics) MarshalJSON() ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	result := make(map[string]MetricItem, len(m.Items))
	for k, v := range m.Items {
		result[k.String()] = v
	}

	return json.Marshal(result)
}
