package service

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/robfig/cron/v3"
)

// InboxScheduler imports the inbox directory on a cron schedule.
// A run that is still busy when the next one is due causes that one to be skipped.
type InboxScheduler struct {
	cron          *cron.Cron
	importService *ImportService
	dir           string
}

// NewInboxScheduler validates the cron spec and registers the inbox job.
// The scheduler does nothing until Start is called.
func NewInboxScheduler(importService *ImportService, dir, schedule string) (*InboxScheduler, error) {
	logger := cron.PrintfLogger(log.New(os.Stderr, "cron: ", log.LstdFlags))
	s := &InboxScheduler{
		cron:          cron.New(cron.WithChain(cron.Recover(logger), cron.SkipIfStillRunning(logger))),
		importService: importService,
		dir:           dir,
	}
	if _, err := s.cron.AddFunc(schedule, func() { s.RunOnce(context.Background()) }); err != nil {
		return nil, fmt.Errorf("invalid import schedule %q: %w", schedule, err)
	}
	return s, nil
}

// RunOnce imports the inbox immediately.
func (s *InboxScheduler) RunOnce(ctx context.Context) {
	summary, err := s.importService.ImportInbox(ctx, s.dir)
	if err != nil {
		log.Printf("inbox: import failed: %v", err)
		return
	}
	if summary.Total > 0 {
		log.Printf("inbox: %d documents, %d imported, %d duplicate, %d failed",
			summary.Total, summary.Imported, summary.Duplicate, summary.Failed)
	}
}

func (s *InboxScheduler) Start() {
	s.cron.Start()
}

// Stop halts the schedule and returns a context that is done once a running import finished.
func (s *InboxScheduler) Stop() context.Context {
	return s.cron.Stop()
}
