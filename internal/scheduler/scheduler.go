package scheduler

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/go-co-op/gocron"
)

// DefaultInterval applies when no positive interval is configured.
const DefaultInterval = 15 * time.Minute

// Fetcher samples a location and records the result. *weather.Service
// satisfies it.
type Fetcher interface {
	FetchAndStore(ctx context.Context, query string) error
}

// Scheduler periodically samples current conditions for the watch list.
type Scheduler struct {
	scheduler *gocron.Scheduler
	fetcher   Fetcher
	locations []string
	interval  time.Duration
	timeout   time.Duration
}

// New creates a new Scheduler.
func New(locations []string, interval time.Duration, fetcher Fetcher) *Scheduler {
	return &Scheduler{
		scheduler: gocron.NewScheduler(time.UTC),
		fetcher:   fetcher,
		locations: locations,
		interval:  interval,
		timeout:   30 * time.Second,
	}
}

// Start schedules the periodic job and starts the underlying scheduler. The
// first run happens immediately.
func (s *Scheduler) Start() error {
	if len(s.locations) == 0 {
		log.Println("INFO: scheduler: no watch locations configured; nothing to schedule")
		return nil
	}

	every := s.every()
	_, err := s.scheduler.Every(every).Do(func() {
		s.RunOnce(context.Background())
	})
	if err != nil {
		return err
	}

	log.Printf("INFO: scheduler: watching %d location(s) every %s", len(s.locations), every)
	s.scheduler.StartAsync()
	return nil
}

// every is the configured interval, or DefaultInterval when unset.
func (s *Scheduler) every() time.Duration {
	if s.interval <= 0 {
		return DefaultInterval
	}
	return s.interval
}

// RunOnce fetches every watch location concurrently and returns the number
// of failed fetches.
func (s *Scheduler) RunOnce(ctx context.Context) int {
	log.Println("DEBUG: scheduler: running weather fetch job")

	var (
		wg     sync.WaitGroup
		mu     sync.Mutex
		failed int
	)
	for _, loc := range s.locations {
		loc := loc
		wg.Add(1)
		go func() {
			defer wg.Done()

			ctx, cancel := context.WithTimeout(ctx, s.timeout)
			defer cancel()

			if err := s.fetcher.FetchAndStore(ctx, loc); err != nil {
				log.Printf("ERROR: scheduler: fetch failed for %q: %v", loc, err)
				mu.Lock()
				failed++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	log.Printf("DEBUG: scheduler: completed weather fetch job (%d/%d ok)", len(s.locations)-failed, len(s.locations))
	return failed
}

// Stop stops the scheduler and cancels any future jobs.
func (s *Scheduler) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}
