package db

import (
	"context"
	"encoding/json"
	"fmt"
	"reflect"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryStore is an in-process DocumentStore for local runs and tests.
// Records are held as JSON-normalized field maps, so the json tags of a
// record decide its stored field names exactly as the firestore tags do
// for FirestoreStore.
type MemoryStore struct {
	mu          sync.RWMutex
	collections map[string]map[string]*memoryRecord
	watchers    map[*memoryWatcher]struct{}
	seq         uint64
	last        time.Time
}

type memoryRecord struct {
	fields    map[string]any
	createdAt time.Time
	seq       uint64
}

type memoryWatcher struct {
	collection string
	notify     chan struct{}
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		collections: make(map[string]map[string]*memoryRecord),
		watchers:    make(map[*memoryWatcher]struct{}),
	}
}

func (s *MemoryStore) Set(ctx context.Context, collection, id string, data any) (time.Time, error) {
	if err := ctx.Err(); err != nil {
		return time.Time{}, err
	}
	fields, err := toFields(data)
	if err != nil {
		return time.Time{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.put(collection, id, fields), nil
}

func (s *MemoryStore) Add(ctx context.Context, collection string, data any) (string, time.Time, error) {
	if err := ctx.Err(); err != nil {
		return "", time.Time{}, err
	}
	fields, err := toFields(data)
	if err != nil {
		return "", time.Time{}, err
	}
	id := uuid.NewString()
	s.mu.Lock()
	defer s.mu.Unlock()
	return id, s.put(collection, id, fields), nil
}

func (s *MemoryStore) Get(ctx context.Context, collection, id string) (*Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.collections[collection][id]
	if !ok {
		return nil, fmt.Errorf("%s/%s: %w", collection, id, ErrNotFound)
	}
	return recordDocument(id, rec)
}

func (s *MemoryStore) Update(ctx context.Context, collection, id string, fields map[string]any) (time.Time, error) {
	if err := ctx.Err(); err != nil {
		return time.Time{}, err
	}
	normalized := make(map[string]any, len(fields))
	for k, v := range fields {
		if k == FieldCreatedAt || k == FieldUpdatedAt {
			continue
		}
		nv, err := normalize(v)
		if err != nil {
			return time.Time{}, fmt.Errorf("field %q: %w", k, err)
		}
		normalized[k] = nv
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.collections[collection][id]
	if !ok {
		return time.Time{}, fmt.Errorf("%s/%s: %w", collection, id, ErrNotFound)
	}
	now := s.tick()
	for k, v := range normalized {
		rec.fields[k] = v
	}
	rec.fields[FieldUpdatedAt] = stamp(now)
	s.changed(collection)
	return now, nil
}

func (s *MemoryStore) Delete(ctx context.Context, collection, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.collections[collection][id]; ok {
		delete(s.collections[collection], id)
		s.changed(collection)
	}
	return nil
}

func (s *MemoryStore) Query(ctx context.Context, collection string, filters ...Filter) ([]*Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	want := make([]any, len(filters))
	for i, f := range filters {
		v, err := normalize(f.Value)
		if err != nil {
			return nil, fmt.Errorf("filter %q: %w", f.Field, err)
		}
		want[i] = v
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	type hit struct {
		id  string
		rec *memoryRecord
	}
	var hits []hit
	for id, rec := range s.collections[collection] {
		matched := true
		for i, f := range filters {
			if !reflect.DeepEqual(rec.fields[f.Field], want[i]) {
				matched = false
				break
			}
		}
		if matched {
			hits = append(hits, hit{id: id, rec: rec})
		}
	}
	sort.Slice(hits, func(i, j int) bool {
		a, b := hits[i].rec, hits[j].rec
		if !a.createdAt.Equal(b.createdAt) {
			return a.createdAt.After(b.createdAt)
		}
		return a.seq > b.seq
	})

	docs := make([]*Document, 0, len(hits))
	for _, h := range hits {
		doc, err := recordDocument(h.id, h.rec)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

func (s *MemoryStore) Watch(ctx context.Context, collection string, filters []Filter, fn func([]*Document)) error {
	w := &memoryWatcher{collection: collection, notify: make(chan struct{}, 1)}
	s.mu.Lock()
	s.watchers[w] = struct{}{}
	s.mu.Unlock()
	defer func() {
		s.mu.Lock()
		delete(s.watchers, w)
		s.mu.Unlock()
	}()

	for {
		docs, err := s.Query(ctx, collection, filters...)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return err
		}
		fn(docs)
		select {
		case <-ctx.Done():
			return nil
		case <-w.notify:
		}
	}
}

// put must be called with s.mu held.
func (s *MemoryStore) put(collection, id string, fields map[string]any) time.Time {
	now := s.tick()
	s.seq++
	fields[FieldCreatedAt] = stamp(now)
	fields[FieldUpdatedAt] = stamp(now)
	if s.collections[collection] == nil {
		s.collections[collection] = make(map[string]*memoryRecord)
	}
	s.collections[collection][id] = &memoryRecord{fields: fields, createdAt: now, seq: s.seq}
	s.changed(collection)
	return now
}

// tick returns a strictly increasing commit time. Must be called with s.mu held.
func (s *MemoryStore) tick() time.Time {
	now := time.Now().UTC().Truncate(time.Microsecond)
	if !now.After(s.last) {
		now = s.last.Add(time.Microsecond)
	}
	s.last = now
	return now
}

// changed wakes every watcher of collection. Must be called with s.mu held.
func (s *MemoryStore) changed(collection string) {
	for w := range s.watchers {
		if w.collection != collection {
			continue
		}
		select {
		case w.notify <- struct{}{}:
		default:
		}
	}
}

func recordDocument(id string, rec *memoryRecord) (*Document, error) {
	raw, err := json.Marshal(rec.fields)
	if err != nil {
		return nil, err
	}
	return &Document{ID: id, dataTo: func(v any) error {
		return json.Unmarshal(raw, v)
	}}, nil
}

func toFields(data any) (map[string]any, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}
	var fields map[string]any
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, fmt.Errorf("document data must encode to an object: %w", err)
	}
	if fields == nil {
		fields = make(map[string]any)
	}
	return fields, nil
}

func normalize(v any) (any, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var out any
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func stamp(t time.Time) string {
	return t.Format(time.RFC3339Nano)
}
