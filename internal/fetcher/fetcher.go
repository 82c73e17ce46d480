package fetcher

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/arunsworld/nursery"
	log "github.com/sirupsen/logrus"

	"karolbroda.com/lyrisync/internal/cache"
	"karolbroda.com/lyrisync/internal/config"
	"karolbroda.com/lyrisync/internal/lyrics"
	"karolbroda.com/lyrisync/internal/providers"
)

// Candidate is one provider's answer for a manual search.
type Candidate struct {
	Provider string
	LRC      string
}

// searchResult is one completed (query, provider) task inside a fetch.
type searchResult struct {
	queryIndex    int
	providerIndex int
	query         string
	provider      string
	lrc           string
}

// Fetcher orchestrates query generation, the concurrent provider race,
// duration validation and the cache.
type Fetcher struct {
	providers    []providers.Provider
	cache        *cache.Store
	validator    *lyrics.Validator
	maxAttempts  int
	workers      int
	searchWindow time.Duration
}

type Option func(*Fetcher)

func WithMaxAttempts(n int) Option {
	return func(f *Fetcher) {
		if n > 0 {
			f.maxAttempts = n
		}
	}
}

func WithWorkers(n int) Option {
	return func(f *Fetcher) {
		if n > 0 {
			f.workers = n
		}
	}
}

func WithSearchWindow(d time.Duration) Option {
	return func(f *Fetcher) {
		if d > 0 {
			f.searchWindow = d
		}
	}
}

func New(provs []providers.Provider, store *cache.Store, validator *lyrics.Validator, opts ...Option) *Fetcher {
	f := &Fetcher{
		providers:    provs,
		cache:        store,
		validator:    validator,
		maxAttempts:  config.MaxQueryAttempts,
		workers:      config.SearchWorkers,
		searchWindow: config.CandidateSearchWindow,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Fetch races every (query, provider) combination and returns the best
// validated LRC text. A validated hit for the top-ranked query is
// trusted immediately and cancels everything still in flight; lower
// ranked hits accumulate until the search window has elapsed, then the
// lowest query rank wins with provider priority as the tie-break.
func (f *Fetcher) Fetch(ctx context.Context, title, artist string, durationMs int64) (string, bool) {
	if cached, ok := f.cache.Get(title, artist); ok {
		if f.validator.Valid(cached, durationMs) {
			log.WithField("track", title+" - "+artist).Debug("lyrics cache hit")
			return cached, true
		}
		log.WithField("track", title+" - "+artist).Debug("cached lyrics failed duration check, re-searching")
	}

	queries := lyrics.GenerateQueries(title, artist)
	if len(queries) == 0 {
		queries = []string{artist + " " + title}
	}
	if len(queries) > f.maxAttempts {
		queries = queries[:f.maxAttempts]
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	results := f.race(ctx, queries)
	start := time.Now()

	var candidates []searchResult
	for res := range results {
		if !f.validator.Valid(res.lrc, durationMs) {
			log.WithFields(log.Fields{"provider": res.provider, "query": res.query}).
				Debug("candidate rejected by duration check")
			continue
		}

		if res.queryIndex == 0 {
			// the best-guess query is trusted the moment any provider
			// confirms it
			log.WithField("provider", res.provider).Info("top-priority lyrics result accepted")
			f.store(title, artist, res.lrc)
			return res.lrc, true
		}

		candidates = append(candidates, res)
		if time.Since(start) >= f.searchWindow {
			log.Debug("top-priority search too slow, settling for best candidate")
			break
		}
	}

	if len(candidates) == 0 {
		log.WithField("track", title+" - "+artist).Info("no lyrics found")
		return "", false
	}

	slices.SortStableFunc(candidates, func(a, b searchResult) int {
		if a.queryIndex != b.queryIndex {
			return a.queryIndex - b.queryIndex
		}
		return a.providerIndex - b.providerIndex
	})
	best := candidates[0]
	log.WithFields(log.Fields{"provider": best.provider, "rank": best.queryIndex + 1}).
		Info("lower-priority lyrics result accepted")
	f.store(title, artist, best.lrc)
	return best.lrc, true
}

// FetchMultiSource fans the single top query out to every provider and
// prefers the first validated answer. When nothing validates it still
// returns the first answer obtained: a guess beats a blank overlay.
func (f *Fetcher) FetchMultiSource(ctx context.Context, title, artist string, durationMs int64) (string, bool) {
	if cached, ok := f.cache.Get(title, artist); ok && f.validator.Valid(cached, durationMs) {
		log.WithField("track", title+" - "+artist).Debug("lyrics cache hit")
		return cached, true
	}

	queries := lyrics.GenerateQueries(title, artist)
	if len(queries) == 0 {
		queries = []string{artist + " " + title}
	}

	candidates := f.SearchCandidates(ctx, queries[0], false)
	for _, c := range candidates {
		if f.validator.Valid(c.LRC, durationMs) {
			log.WithField("provider", c.Provider).Info("multi-source lyrics result accepted")
			f.store(title, artist, c.LRC)
			return c.LRC, true
		}
	}

	if len(candidates) > 0 {
		first := candidates[0]
		log.WithField("provider", first.Provider).Info("no candidate validated, using first result")
		f.store(title, artist, first.LRC)
		return first.LRC, true
	}

	log.WithField("track", title+" - "+artist).Info("multi-source search found nothing")
	return "", false
}

// SearchCandidates races all providers for one raw query and returns
// whatever they produce, unfiltered - the caller (a human picking from
// a list) decides. With returnFirst set it stops and cancels the rest
// as soon as one answer lands.
func (f *Fetcher) SearchCandidates(ctx context.Context, query string, returnFirst bool) []Candidate {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	results := make(chan Candidate, len(f.providers))

	jobs := make([]nursery.ConcurrentJob, 0, len(f.providers))
	for _, prov := range f.providers {
		jobs = append(jobs, func(jobCtx context.Context, _ chan error) {
			lrc, err := prov.Search(jobCtx, query)
			if err != nil || lrc == "" {
				if err != nil {
					log.WithError(err).WithField("provider", prov.Name()).Debug("provider search failed")
				}
				return
			}
			select {
			case results <- Candidate{Provider: prov.Name(), LRC: lrc}:
			case <-jobCtx.Done():
			}
		})
	}

	done := make(chan struct{})
	go func() {
		_ = nursery.RunConcurrentlyWithContext(ctx, jobs...)
		close(done)
	}()

	var out []Candidate
	for {
		select {
		case c := <-results:
			out = append(out, c)
			if returnFirst {
				cancel()
				return out
			}
		case <-done:
			// drain answers that landed while we were not listening
			for {
				select {
				case c := <-results:
					out = append(out, c)
				default:
					return out
				}
			}
		}
	}
}

// race launches the full (query, provider) cross-product on a bounded
// worker pool. The returned channel is closed once every task has
// finished; tasks observe ctx and abandon work on cancellation. The
// channel is buffered for the full task count so stragglers never
// block after the consumer walks away.
func (f *Fetcher) race(ctx context.Context, queries []string) <-chan searchResult {
	type task struct {
		queryIndex    int
		providerIndex int
		query         string
	}

	tasks := make(chan task)
	results := make(chan searchResult, len(queries)*len(f.providers))

	var wg sync.WaitGroup
	workers := f.workers
	if total := len(queries) * len(f.providers); workers > total {
		workers = total
	}

	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for t := range tasks {
				if ctx.Err() != nil {
					continue
				}
				prov := f.providers[t.providerIndex]
				lrc, err := prov.Search(ctx, t.query)
				if err != nil || lrc == "" {
					continue
				}
				results <- searchResult{
					queryIndex:    t.queryIndex,
					providerIndex: t.providerIndex,
					query:         t.query,
					provider:      prov.Name(),
					lrc:           lrc,
				}
			}
		}()
	}

	go func() {
		for qIdx, query := range queries {
			for pIdx := range f.providers {
				tasks <- task{queryIndex: qIdx, providerIndex: pIdx, query: query}
			}
		}
		close(tasks)
		wg.Wait()
		close(results)
	}()

	return results
}

func (f *Fetcher) store(title, artist, lrc string) {
	if err := f.cache.Put(title, artist, lrc); err != nil {
		log.WithError(err).Warn("could not persist lyrics cache")
	}
}
