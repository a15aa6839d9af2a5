// Package store keeps vectors in memory and answers exact nearest-neighbour
// queries by scanning every record.
package store

import (
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sanonone/hermes/pkg/core/distance"
	"github.com/sanonone/hermes/pkg/metrics"
	"github.com/tidwall/btree"
)

var (
	ErrNotFound          = errors.New("vector not found")
	ErrEmptyVector       = errors.New("vector cannot be empty")
	ErrDimensionMismatch = distance.ErrDimensionMismatch
)

// Options configures a MemoryStore.
type Options struct {
	Metric    distance.Metric
	Precision distance.Precision
	// Dimension, when positive, is enforced on every insert and query.
	// Zero accepts vectors of any length; searches then skip records whose
	// length differs from the query.
	Dimension int
}

// DefaultOptions returns euclidean, float32, unconstrained dimension.
func DefaultOptions() Options {
	return Options{
		Metric:    distance.MetricEuclidean,
		Precision: distance.Float32,
	}
}

// Record is a stored vector as returned to callers.
type Record struct {
	ID     string    `json:"id"`
	Vector []float32 `json:"vector"`
}

// SearchResult is one hit of a Search.
type SearchResult struct {
	ID       string  `json:"id"`
	Distance float32 `json:"distance"`
}

// Info summarises the store.
type Info struct {
	Metric      distance.Metric    `json:"metric"`
	Precision   distance.Precision `json:"precision"`
	Dimension   int                `json:"dimension"`
	VectorCount int                `json:"vector_count"`
}

// entry holds exactly one of vec32 and vec16, depending on precision.
type entry struct {
	vec32 []float32
	vec16 []uint16
}

func (e *entry) len() int {
	if e.vec16 != nil {
		return len(e.vec16)
	}
	return len(e.vec32)
}

// MemoryStore is safe for concurrent use. Searches share a read lock.
type MemoryStore struct {
	mu   sync.RWMutex
	data *btree.Map[string, *entry]

	opts   Options
	dist   distance.Func
	dist16 distance.Func16
}

// New creates an empty store. It fails if the metric is unknown or has no
// implementation at the requested precision.
func New(opts Options) (*MemoryStore, error) {
	if opts.Metric == "" {
		opts.Metric = distance.MetricEuclidean
	}
	if opts.Precision == "" {
		opts.Precision = distance.Float32
	}
	if opts.Dimension < 0 {
		return nil, fmt.Errorf("invalid dimension %d", opts.Dimension)
	}

	s := &MemoryStore{
		data: btree.NewMap[string, *entry](0),
		opts: opts,
	}

	var err error
	switch opts.Precision {
	case distance.Float32:
		s.dist, err = distance.GetFunc(opts.Metric)
	case distance.Float16:
		s.dist16, err = distance.GetFloat16Func(opts.Metric)
	default:
		err = fmt.Errorf("unknown precision '%s'", opts.Precision)
	}
	if err != nil {
		return nil, err
	}
	return s, nil
}

// Insert stores a copy of vector under id, replacing any previous vector with
// the same id. An empty id is replaced by a random UUID. The stored id is
// returned.
func (s *MemoryStore) Insert(id string, vector []float32) (string, error) {
	if len(vector) == 0 {
		return "", ErrEmptyVector
	}
	if s.opts.Dimension > 0 && len(vector) != s.opts.Dimension {
		return "", fmt.Errorf("%w: got %d, store dimension is %d", ErrDimensionMismatch, len(vector), s.opts.Dimension)
	}
	if id == "" {
		id = uuid.NewString()
	}

	e := &entry{}
	if s.opts.Precision == distance.Float16 {
		e.vec16 = distance.EncodeFloat16(vector)
	} else {
		e.vec32 = slices.Clone(vector)
	}

	s.mu.Lock()
	s.data.Set(id, e)
	// Under the lock so concurrent writers publish counts in order.
	metrics.TotalVectors.Set(float64(s.data.Len()))
	s.mu.Unlock()

	return id, nil
}

// Get returns the vector stored under id. Float16 stores return the widened
// values.
func (s *MemoryStore) Get(id string) (Record, error) {
	s.mu.RLock()
	e, ok := s.data.Get(id)
	s.mu.RUnlock()
	if !ok {
		return Record{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return Record{ID: id, Vector: e.float32s()}, nil
}

// Delete removes id.
func (s *MemoryStore) Delete(id string) error {
	s.mu.Lock()
	_, ok := s.data.Delete(id)
	if ok {
		metrics.TotalVectors.Set(float64(s.data.Len()))
	}
	s.mu.Unlock()
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return nil
}

// Search returns the k stored vectors closest to query, nearest first. Ties
// are ordered by id. k <= 0 is treated as 1.
func (s *MemoryStore) Search(query []float32, k int) ([]SearchResult, error) {
	if len(query) == 0 {
		return nil, ErrEmptyVector
	}
	if s.opts.Dimension > 0 && len(query) != s.opts.Dimension {
		return nil, fmt.Errorf("%w: got %d, store dimension is %d", ErrDimensionMismatch, len(query), s.opts.Dimension)
	}
	if k <= 0 {
		k = 1
	}

	start := time.Now()
	defer func() { metrics.SearchDuration.Observe(time.Since(start).Seconds()) }()

	var q16 []uint16
	if s.dist16 != nil {
		q16 = distance.EncodeFloat16(query)
	}

	s.mu.RLock()
	results := make([]SearchResult, 0, s.data.Len())
	var scanErr error
	s.data.Scan(func(id string, e *entry) bool {
		if e.len() != len(query) {
			return true
		}
		var d float32
		var err error
		if q16 != nil {
			d, err = s.dist16(q16, e.vec16)
		} else {
			d, err = s.dist(query, e.vec32)
		}
		if err != nil {
			scanErr = err
			return false
		}
		results = append(results, SearchResult{ID: id, Distance: d})
		return true
	})
	s.mu.RUnlock()
	if scanErr != nil {
		return nil, scanErr
	}

	// Scan yields ids in order, so a stable sort keeps ties ordered by id.
	slices.SortStableFunc(results, func(a, b SearchResult) int {
		switch {
		case a.Distance < b.Distance:
			return -1
		case a.Distance > b.Distance:
			return 1
		}
		return 0
	})
	if k > len(results) {
		k = len(results)
	}
	return results[:k], nil
}

// Len returns the number of stored vectors.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.data.Len()
}

// List returns up to limit ids in ascending order, skipping the first offset.
// limit <= 0 means no limit.
func (s *MemoryStore) List(offset, limit int) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := []string{}
	i := 0
	s.data.Scan(func(id string, _ *entry) bool {
		if i >= offset {
			if limit > 0 && len(ids) >= limit {
				return false
			}
			ids = append(ids, id)
		}
		i++
		return true
	})
	return ids
}

// Info reports the store configuration and size.
func (s *MemoryStore) Info() Info {
	return Info{
		Metric:      s.opts.Metric,
		Precision:   s.opts.Precision,
		Dimension:   s.opts.Dimension,
		VectorCount: s.Len(),
	}
}

func (e *entry) float32s() []float32 {
	if e.vec16 != nil {
		return distance.DecodeFloat16(e.vec16)
	}
	return slices.Clone(e.vec32)
}
