// Package service implements the ingestion orchestrator
package service

import (
	"context"
	"math"
	"sync"
	"sync/atomic"
	"time"

	"blockparty/internal/core/textfold"
	perr "blockparty/internal/platform/errors"
	"blockparty/internal/platform/logger"
	evdom "blockparty/internal/services/events/domain"
	"blockparty/internal/services/ingest/domain"
	"blockparty/internal/services/ingest/metrics"
)

// ErrRunInProgress is returned when Run is called while another run is live
var ErrRunInProgress = perr.Conflictf("ingestion run already in progress")

// dedupWindow is how close in time two listings must be to count as the
// same event
const dedupWindow = 24 * time.Hour

// Config for the ingest service
type Config struct {
	// RunTimeout bounds one full run, zero means no extra bound
	RunTimeout time.Duration
}

// Service implements domain.RunnerPort over a set of fetchers and the
// events gateway
type Service struct {
	Writer   evdom.WriterPort
	External evdom.ExternalPort
	Fetchers []domain.Fetcher
	Cfg      Config

	log      logger.Logger
	now      func() time.Time
	inFlight atomic.Bool
}

// New constructs a new ingest service
func New(w evdom.WriterPort, ext evdom.ExternalPort, fetchers []domain.Fetcher, cfg Config) *Service {
	return &Service{
		Writer:   w,
		External: ext,
		Fetchers: fetchers,
		Cfg:      cfg,
		log:      *logger.Named("ingest"),
		now:      time.Now,
	}
}

// Run implements domain.RunnerPort. One pass: expire stale external events,
// snapshot what remains, fetch all sources, dedup against the snapshot, and
// persist the survivors. Source failures are absorbed; only a second
// concurrent Run or a broken store surfaces as an error
func (s *Service) Run(ctx context.Context) (domain.Result, error) {
	if !s.inFlight.CompareAndSwap(false, true) {
		return domain.Result{}, ErrRunInProgress
	}
	defer s.inFlight.Store(false)

	if s.Cfg.RunTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.Cfg.RunTimeout)
		defer cancel()
	}

	start := s.now()
	defer func() { metrics.RunDuration.Observe(s.now().Sub(start).Seconds()) }()

	expired, err := s.External.DeleteExternalBefore(ctx, start)
	if err != nil {
		metrics.RunsTotal.WithLabelValues("error").Inc()
		return domain.Result{}, perr.Wrapf(err, perr.ErrorCodeDB, "expire external events failed")
	}

	snapshot, err := s.External.ListExternal(ctx)
	if err != nil {
		metrics.RunsTotal.WithLabelValues("error").Inc()
		return domain.Result{}, perr.Wrapf(err, perr.ErrorCodeDB, "snapshot external events failed")
	}

	candidates := s.fetchAll(ctx)

	saved := 0
	deduped := 0
	for _, c := range candidates {
		if !c.Usable() {
			continue
		}
		if isDuplicate(c, snapshot) {
			deduped++
			metrics.DedupDiscards.Inc()
			continue
		}
		if _, err := s.Writer.Insert(ctx, toWrite(c)); err != nil {
			s.log.Warn().Err(err).Str("title", c.Title).Str("source", c.Owner).Msg("candidate insert failed")
			continue
		}
		saved++
		metrics.SavedTotal.Inc()
	}

	metrics.RunsTotal.WithLabelValues("ok").Inc()
	s.log.Info().
		Int64("expired", expired).
		Int("snapshot", len(snapshot)).
		Int("total", len(candidates)).
		Int("deduped", deduped).
		Int("saved", saved).
		Dur("took", s.now().Sub(start)).
		Msg("ingestion run complete")

	return domain.Result{Saved: saved, Total: len(candidates)}, nil
}

// fetchAll runs every fetcher concurrently and gathers whatever settled.
// A panicking or failing fetcher contributes nothing
func (s *Service) fetchAll(ctx context.Context) []domain.Candidate {
	results := make([][]domain.Candidate, len(s.Fetchers))

	var wg sync.WaitGroup
	for i, f := range s.Fetchers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			defer func() {
				if rec := recover(); rec != nil {
					metrics.AdapterFailures.WithLabelValues(f.Name()).Inc()
					s.log.Error().Interface("panic", rec).Str("source", f.Name()).Msg("fetcher panicked")
				}
			}()

			cs, err := f.Fetch(ctx)
			if err != nil {
				metrics.AdapterFailures.WithLabelValues(f.Name()).Inc()
				s.log.Warn().Err(err).Str("source", f.Name()).Msg("fetcher failed")
				return
			}
			metrics.CandidatesTotal.WithLabelValues(f.Name()).Add(float64(len(cs)))
			s.log.Debug().Int("candidates", len(cs)).Str("source", f.Name()).Msg("fetcher done")
			results[i] = cs
		}()
	}
	wg.Wait()

	var all []domain.Candidate
	for _, cs := range results {
		all = append(all, cs...)
	}
	return all
}

// isDuplicate matches a candidate against the stored snapshot only, never
// against other candidates from the same run
func isDuplicate(c domain.Candidate, snapshot []evdom.Event) bool {
	for _, ev := range snapshot {
		if ev.Owner != c.Owner {
			continue
		}
		if !textfold.Equal(ev.Title, c.Title) {
			continue
		}
		if !textfold.Equal(ev.LocationDescription, c.LocationDescription) {
			continue
		}
		if !closeInTime(c.Time, ev.Time) {
			continue
		}
		return true
	}
	return false
}

func closeInTime(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	d := a.Sub(*b)
	return math.Abs(d.Seconds()) < dedupWindow.Seconds()
}

func toWrite(c domain.Candidate) evdom.EventWrite {
	return evdom.EventWrite{
		Title:               c.Title,
		Description:         c.Description,
		LocationDescription: c.LocationDescription,
		Lat:                 c.Lat,
		Long:                c.Long,
		Time:                c.Time,
		Owner:               c.Owner,
		Image:               c.Image,
		ExternalLink:        c.ExternalLink,
		IsExternal:          true,
	}
}
