package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"jbt-blog/config"
)

// Importer 定时导入任务
type Importer interface {
	FetchAllFeeds(ctx context.Context) (int, error)
}

type Scheduler struct {
	cron          *cron.Cron
	importer      Importer
	config        config.ImportConfig
	log           zerolog.Logger
	importEntryID cron.EntryID
}

func NewScheduler(importer Importer, cfg config.ImportConfig, log zerolog.Logger) *Scheduler {
	return &Scheduler{
		cron:     cron.New(),
		importer: importer,
		config:   cfg,
		log:      log.With().Str("component", "cron").Logger(),
	}
}

// Start 注册导入任务并启动,未启用导入时不注册任务
func (s *Scheduler) Start() error {
	if s.config.Enabled {
		id, err := s.cron.AddFunc(s.config.Interval, s.runImport)
		if err != nil {
			return fmt.Errorf("schedule import %q: %w", s.config.Interval, err)
		}
		s.importEntryID = id
	}

	s.cron.Start()
	s.log.Info().Bool("import", s.config.Enabled).Str("interval", s.config.Interval).Msg("Scheduler started")
	return nil
}

func (s *Scheduler) runImport() {
	s.log.Info().Msg("Importing feeds...")
	n, err := s.importer.FetchAllFeeds(context.Background())
	if err != nil {
		s.log.Error().Err(err).Int("imported", n).Msg("Feed import finished with errors")
		return
	}
	s.log.Info().Int("imported", n).Msg("Feed import finished")
}

// GetNextFetchTime 获取下次导入时间,未调度时为零值
func (s *Scheduler) GetNextFetchTime() time.Time {
	if s.importEntryID == 0 {
		return time.Time{}
	}
	return s.cron.Entry(s.importEntryID).Next
}

func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
}
