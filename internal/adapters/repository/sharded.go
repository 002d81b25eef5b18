package repository

import (
	"context"
	"encoding/binary"
	"slices"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/cespare/xxhash/v2"

	"github.com/okian/nyusatsu/internal/domain/record"
	"github.com/okian/nyusatsu/pkg/metrics"
)

const defaultShardCount = 8

type shard struct {
	mu      sync.RWMutex
	records map[int64]record.Record
}

// ShardedStore is an in-memory Store split into mutex-guarded shards so that
// concurrent workers rarely contend on the same lock.
type ShardedStore struct {
	shards     []*shard
	shardCount int
	total      atomic.Int64
}

// NewShardedStore creates an empty store.
func NewShardedStore(opts ...Option) *ShardedStore {
	s := &ShardedStore{shardCount: defaultShardCount}
	for _, opt := range opts {
		opt(s)
	}
	s.shards = make([]*shard, s.shardCount)
	for i := range s.shards {
		s.shards[i] = &shard{records: make(map[int64]record.Record)}
		metrics.UpdateRepositoryRecordsPerShard(strconv.Itoa(i), 0)
	}
	metrics.UpdateRepositoryShardCount(s.shardCount)
	metrics.UpdateRepositoryRecordsTotal(0)
	return s
}

func (s *ShardedStore) shardFor(caseID int64) (int, *shard) {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], uint64(caseID))
	i := int(xxhash.Sum64(buf[:]) % uint64(len(s.shards)))
	return i, s.shards[i]
}

// Save inserts or replaces rec.
func (s *ShardedStore) Save(_ context.Context, rec record.Record) (bool, error) { //nolint:gocritic // hugeParam: records are stored by value
	start := time.Now()
	defer func() {
		metrics.RecordRepositorySaveLatency(float64(time.Since(start).Microseconds()) / 1000)
	}()

	i, sh := s.shardFor(rec.CaseID)
	sh.mu.Lock()
	_, exists := sh.records[rec.CaseID]
	sh.records[rec.CaseID] = rec
	size := len(sh.records)
	sh.mu.Unlock()

	if !exists {
		metrics.UpdateRepositoryRecordsTotal(int(s.total.Add(1)))
		metrics.UpdateRepositoryRecordsPerShard(strconv.Itoa(i), size)
	}
	return !exists, nil
}

// Get returns the record for caseID.
func (s *ShardedStore) Get(_ context.Context, caseID int64) (record.Record, error) {
	_, sh := s.shardFor(caseID)
	sh.mu.RLock()
	rec, ok := sh.records[caseID]
	sh.mu.RUnlock()
	if !ok {
		metrics.RecordErrorByComponent("repository", "not_found")
		return record.Record{}, ErrNotFound
	}
	return rec, nil
}

// Count returns the number of stored cases.
func (s *ShardedStore) Count(_ context.Context) int {
	return int(s.total.Load())
}

// All returns every record ordered by case id.
func (s *ShardedStore) All(_ context.Context) []record.Record {
	out := make([]record.Record, 0, s.total.Load())
	for _, sh := range s.shards {
		sh.mu.RLock()
		for _, rec := range sh.records {
			out = append(out, rec)
		}
		sh.mu.RUnlock()
	}
	slices.SortFunc(out, func(a, b record.Record) int {
		switch {
		case a.CaseID < b.CaseID:
			return -1
		case a.CaseID > b.CaseID:
			return 1
		default:
			return 0
		}
	})
	return out
}
