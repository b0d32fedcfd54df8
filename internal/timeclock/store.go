package timeclock

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

// EventStore provides thread-safe, chronological storage for TimeEvents,
// partitioned by employee id.
type EventStore struct {
	mu   sync.RWMutex
	logs map[string][]TimeEvent
}

// NewEventStore creates a new empty EventStore.
func NewEventStore() *EventStore {
	return &EventStore{
		logs: make(map[string][]TimeEvent),
	}
}

// Append adds new events for an employee, ensuring chronological order
// and deduplication. Double ingestion of the same device feed is
// therefore harmless.
func (s *EventStore) Append(employeeID string, events []TimeEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stream := s.logs[employeeID]

	// 1. Build existing identities for deduplication
	existing := make(map[string]bool)
	for _, e := range stream {
		existing[e.identity()] = true
	}

	// 2. Filter new events
	newCount := 0
	for _, e := range events {
		if !existing[e.identity()] {
			stream = append(stream, e)
			existing[e.identity()] = true
			newCount++
		}
	}

	if newCount == 0 {
		return
	}

	// 3. Sort by timestamp, then type, for deterministic ordering.
	// Chronological order within one employee's stream is a hard
	// requirement of the duplicate-punch state machine.
	sort.Slice(stream, func(i, j int) bool {
		if !stream[i].Timestamp.Equal(stream[j].Timestamp) {
			return stream[i].Timestamp.Before(stream[j].Timestamp)
		}
		return stream[i].Type < stream[j].Type
	})

	s.logs[employeeID] = stream
}

// Load reads events from a JSONL cache file for the given employee.
func (s *EventStore) Load(cacheDir string, employeeID string) error {
	path := filepath.Join(cacheDir, fmt.Sprintf("%s.jsonl", employeeID))
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil // No cache yet, not an error
		}
		return fmt.Errorf("failed to open cache: %w", err)
	}
	defer file.Close()

	var events []TimeEvent
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		var e TimeEvent
		if err := json.Unmarshal(scanner.Bytes(), &e); err != nil {
			log.Warn().Err(err).Str("employee", employeeID).Msg("Skipping invalid JSON line in cache")
			continue
		}
		events = append(events, e)
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("error reading cache: %w", err)
	}

	log.Debug().Str("employee", employeeID).Int("count", len(events)).Msg("Loaded events from cache")
	s.Append(employeeID, events)
	return nil
}

// Save persists events for the given employee to a JSONL cache file.
func (s *EventStore) Save(cacheDir string, employeeID string) error {
	s.mu.RLock()
	stream, ok := s.logs[employeeID]
	s.mu.RUnlock()

	if !ok || len(stream) == 0 {
		return nil
	}

	path := filepath.Join(cacheDir, fmt.Sprintf("%s.jsonl", employeeID))
	tmpPath := path + ".tmp"

	file, err := os.Create(tmpPath)
	if err != nil {
		return fmt.Errorf("failed to create temp cache file: %w", err)
	}

	writer := bufio.NewWriter(file)
	encoder := json.NewEncoder(writer)

	for _, e := range stream {
		if err := encoder.Encode(e); err != nil {
			file.Close()
			os.Remove(tmpPath)
			return fmt.Errorf("failed to encode event: %w", err)
		}
	}

	if err := writer.Flush(); err != nil {
		file.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("failed to flush writer: %w", err)
	}

	if err := file.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to close file: %w", err)
	}

	// Atomic rename
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("failed to rename cache file: %w", err)
	}

	log.Debug().Str("employee", employeeID).Int("count", len(stream)).Msg("Events saved to cache")
	return nil
}

// LoadDir loads every per-employee JSONL cache file under cacheDir.
func (s *EventStore) LoadDir(cacheDir string) error {
	matches, err := filepath.Glob(filepath.Join(cacheDir, "*.jsonl"))
	if err != nil {
		return fmt.Errorf("failed to scan cache dir: %w", err)
	}
	for _, path := range matches {
		employeeID := strings.TrimSuffix(filepath.Base(path), ".jsonl")
		if err := s.Load(cacheDir, employeeID); err != nil {
			return err
		}
	}
	return nil
}

// Events returns a copy of the chronological stream for an employee.
func (s *EventStore) Events(employeeID string) []TimeEvent {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stream, ok := s.logs[employeeID]
	if !ok {
		return nil
	}
	out := make([]TimeEvent, len(stream))
	copy(out, stream)
	return out
}

// EmployeeIDs returns the sorted set of employees with events.
func (s *EventStore) EmployeeIDs() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]string, 0, len(s.logs))
	for id := range s.logs {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Count returns the number of events stored for an employee.
func (s *EventStore) Count(employeeID string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.logs[employeeID])
}

// LatestTimestamp returns the timestamp of the most recent event for an
// employee, or the zero time when none exist.
func (s *EventStore) LatestTimestamp(employeeID string) time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stream, ok := s.logs[employeeID]
	if !ok || len(stream) == 0 {
		return time.Time{}
	}

	// Streams are sorted, so the last one is the latest
	return stream[len(stream)-1].Timestamp
}
