// Package rebuild reconstructs the derived indexes from an entity scan.
//
// The index maintainer's appends are read-modify-write with no isolation, so
// a concurrent append can occasionally lose an id and a failed append after
// a successful entity write leaves the entity unindexed. This pass restores
// both indexes to the exact state implied by the entities themselves:
// user-listings from the non-deleted listings, conversation threads from the
// messages, ordered by creation time.
package rebuild

import (
	"context"
	"encoding/json"
	"hash/fnv"
	"sort"
	"sync"

	"github.com/rs/zerolog"

	"github.com/campusmarket/campus-market/internal/core/domain"
	"github.com/campusmarket/campus-market/internal/core/ports"
	"github.com/campusmarket/campus-market/internal/infrastructure/db/kvstore"
)

const (
	defaultWorkers = 8
	channelBuffer  = 256
)

// job is one rebuilt index ready to be written. The shard key guarantees each
// index key is written by exactly one worker, so rebuilt lists never race
// with each other.
type job struct {
	shardKey string
	write    func(ctx context.Context) error
}

// Rebuilder scans entities and rewrites the derived indexes through a fixed
// set of workers sharded by index key.
type Rebuilder struct {
	kv         ports.KVStore
	idx        *kvstore.IndexMaintainer
	numWorkers int
	log        zerolog.Logger
}

// NewRebuilder creates a Rebuilder with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewRebuilder(kv ports.KVStore, idx *kvstore.IndexMaintainer, numWorkers int, log zerolog.Logger) *Rebuilder {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	return &Rebuilder{
		kv:         kv,
		idx:        idx,
		numWorkers: numWorkers,
		log:        log,
	}
}

// Run performs one full rebuild pass and returns how many index keys were
// rewritten. Entity writes happening concurrently with the pass may be
// missed; run it again or run it during a quiet window.
func (r *Rebuilder) Run(ctx context.Context) (int, error) {
	jobs, err := r.collectListingJobs(ctx)
	if err != nil {
		return 0, err
	}
	messageJobs, err := r.collectMessageJobs(ctx)
	if err != nil {
		return 0, err
	}
	jobs = append(jobs, messageJobs...)

	r.dispatch(ctx, jobs)
	return len(jobs), nil
}

// collectListingJobs groups non-deleted listing ids by owner, oldest first.
func (r *Rebuilder) collectListingJobs(ctx context.Context) ([]job, error) {
	values, err := r.kv.GetByPrefix(ctx, kvstore.ListingPrefix)
	if err != nil {
		return nil, err
	}

	byOwner := make(map[string][]domain.Listing)
	for _, raw := range values {
		var l domain.Listing
		if err := json.Unmarshal(raw, &l); err != nil {
			r.log.Warn().Err(err).Msg("skipping undecodable listing record")
			continue
		}
		if l.Status == domain.StatusDeleted {
			continue
		}
		byOwner[l.UserID] = append(byOwner[l.UserID], l)
	}

	jobs := make([]job, 0, len(byOwner))
	for ownerID, listings := range byOwner {
		ownerID := ownerID
		sort.Slice(listings, func(i, j int) bool {
			return listings[i].CreatedAt.Before(listings[j].CreatedAt)
		})
		ids := make([]string, len(listings))
		for i, l := range listings {
			ids[i] = l.ID
		}

		jobs = append(jobs, job{
			shardKey: "user-listings:" + ownerID,
			write: func(ctx context.Context) error {
				return r.idx.ReplaceListingIDs(ctx, ownerID, ids)
			},
		})
	}
	return jobs, nil
}

// collectMessageJobs groups message ids by conversation, oldest first.
func (r *Rebuilder) collectMessageJobs(ctx context.Context) ([]job, error) {
	values, err := r.kv.GetByPrefix(ctx, kvstore.MessagePrefix)
	if err != nil {
		return nil, err
	}

	byThread := make(map[string][]domain.Message)
	for _, raw := range values {
		var m domain.Message
		if err := json.Unmarshal(raw, &m); err != nil {
			r.log.Warn().Err(err).Msg("skipping undecodable message record")
			continue
		}
		key := kvstore.ConversationKey(m.SenderID, m.RecipientID, m.ListingID)
		byThread[key] = append(byThread[key], m)
	}

	jobs := make([]job, 0, len(byThread))
	for key, msgs := range byThread {
		sort.Slice(msgs, func(i, j int) bool {
			return msgs[i].CreatedAt.Before(msgs[j].CreatedAt)
		})
		ids := make([]string, len(msgs))
		for i, m := range msgs {
			ids[i] = m.ID
		}

		first := msgs[0]
		jobs = append(jobs, job{
			shardKey: key,
			write: func(ctx context.Context) error {
				return r.idx.ReplaceMessageIDs(ctx, first.SenderID, first.RecipientID, first.ListingID, ids)
			},
		})
	}
	return jobs, nil
}

// dispatch fans the jobs out to the workers and waits for completion.
func (r *Rebuilder) dispatch(ctx context.Context, jobs []job) {
	channels := make([]chan job, r.numWorkers)
	for i := range channels {
		channels[i] = make(chan job, channelBuffer)
	}

	var wg sync.WaitGroup
	for i, ch := range channels {
		wg.Add(1)
		go func(id int, ch <-chan job) {
			defer wg.Done()
			r.runWorker(ctx, id, ch)
		}(i, ch)
	}

	for _, j := range jobs {
		channels[shardIndex(j.shardKey, r.numWorkers)] <- j
	}
	for _, ch := range channels {
		close(ch)
	}
	wg.Wait()
}

// shardIndex maps an index key deterministically to a worker index.
func shardIndex(key string, numWorkers int) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(key))
	return int(h.Sum32()) % numWorkers
}

func (r *Rebuilder) runWorker(ctx context.Context, id int, ch <-chan job) {
	for {
		select {
		case <-ctx.Done():
			return
		case j, ok := <-ch:
			if !ok {
				return
			}
			if err := j.write(ctx); err != nil {
				r.log.Error().Err(err).
					Str("index_key", j.shardKey).
					Int("worker_id", id).
					Msg("index rewrite failed")
			}
		}
	}
}
