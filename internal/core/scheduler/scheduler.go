package scheduler

import (
	"fmt"
	"log"
	"sort"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

// Scheduler runs named maintenance jobs on cron schedules
type Scheduler struct {
	cron    *cron.Cron
	jobs    map[string]cron.EntryID // job name -> entry_id
	jobsMux sync.RWMutex
}

// Overlapping runs of the same job are skipped and panics are logged
var chain = cron.WithChain(
	cron.Recover(cron.DefaultLogger),
	cron.SkipIfStillRunning(cron.DefaultLogger),
)

// New creates a new scheduler
func New() *Scheduler {
	return &Scheduler{
		cron: cron.New(cron.WithSeconds(), chain), // Support seconds in cron expressions
		jobs: make(map[string]cron.EntryID),
	}
}

// Start starts the scheduler
func (s *Scheduler) Start() {
	log.Println("⏰ Starting scheduler...")
	s.cron.Start()
	log.Println("✅ Scheduler started")
}

// Stop stops the scheduler and waits for running jobs
func (s *Scheduler) Stop() {
	log.Println("⏰ Stopping scheduler...")
	<-s.cron.Stop().Done()
	log.Println("✅ Scheduler stopped")
}

// Add schedules job under name, replacing any job with the same name.
// schedule is a six-field cron expression (e.g. "0 */15 * * * *").
func (s *Scheduler) Add(name string, schedule string, job func()) error {
	s.jobsMux.Lock()
	defer s.jobsMux.Unlock()

	// Remove existing job if any
	if entryID, exists := s.jobs[name]; exists {
		s.cron.Remove(entryID)
		delete(s.jobs, name)
	}

	entryID, err := s.cron.AddFunc(schedule, job)
	if err != nil {
		return fmt.Errorf("failed to add cron job: %w", err)
	}

	s.jobs[name] = entryID
	log.Printf("   ✅ Scheduled job %s: %s", name, schedule)

	return nil
}

// Run starts a scheduled job right away, outside its schedule.
// It returns false when no job is registered under name.
func (s *Scheduler) Run(name string) bool {
	s.jobsMux.RLock()
	entryID, exists := s.jobs[name]
	s.jobsMux.RUnlock()
	if !exists {
		return false
	}

	entry := s.cron.Entry(entryID)
	if entry.WrappedJob == nil {
		return false
	}
	go entry.WrappedJob.Run()
	return true
}

// Next returns the next activation of a job, or the zero time when the job
// is unknown or the scheduler is not running
func (s *Scheduler) Next(name string) time.Time {
	s.jobsMux.RLock()
	defer s.jobsMux.RUnlock()

	entryID, exists := s.jobs[name]
	if !exists {
		return time.Time{}
	}
	return s.cron.Entry(entryID).Next
}

// Remove removes a job from the scheduler
func (s *Scheduler) Remove(name string) {
	s.jobsMux.Lock()
	defer s.jobsMux.Unlock()

	if entryID, exists := s.jobs[name]; exists {
		s.cron.Remove(entryID)
		delete(s.jobs, name)
		log.Printf("   ✅ Removed scheduled job: %s", name)
	}
}

// Jobs returns the names of all scheduled jobs, sorted
func (s *Scheduler) Jobs() []string {
	s.jobsMux.RLock()
	defer s.jobsMux.RUnlock()

	names := make([]string, 0, len(s.jobs))
	for name := range s.jobs {
		names = append(names, name)
	}
	sort.Strings(names)

	return names
}
