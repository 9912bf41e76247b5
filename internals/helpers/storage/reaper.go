package storage

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

type ReaperConfig struct {
	Schedule  string
	Retention time.Duration
	DryRun    bool
}

// ReapJob satu pembersihan; Run menerima cutoff dan mengembalikan jumlah item yang dibuang.
type ReapJob struct {
	Name string
	Run  func(ctx context.Context, cutoff time.Time) (int, error)
}

// StagingJob membersihkan binary staging yang tidak pernah di-submit.
func StagingJob(s Staging) ReapJob {
	return ReapJob{Name: "staging", Run: s.Sweep}
}

// RunReapJobs menjalankan semua job sekali (dipakai cron & test).
func RunReapJobs(ctx context.Context, log *zap.Logger, cfg ReaperConfig, jobs ...ReapJob) map[string]int {
	cutoff := time.Now().Add(-cfg.Retention)
	out := make(map[string]int, len(jobs))
	for _, j := range jobs {
		if cfg.DryRun {
			log.Info("[REAPER] DRY-RUN skip", zap.String("job", j.Name), zap.Time("cutoff", cutoff))
			continue
		}
		n, err := j.Run(ctx, cutoff)
		if err != nil {
			log.Error("[REAPER] job gagal", zap.String("job", j.Name), zap.Error(err))
			continue
		}
		out[j.Name] = n
		if n > 0 {
			log.Info("[REAPER] dibersihkan", zap.String("job", j.Name), zap.Int("count", n))
		}
	}
	return out
}

// ── ENTRYPOINT: panggil dari main.go, Stop() saat shutdown
func StartReaperCron(log *zap.Logger, cfg ReaperConfig, jobs ...ReapJob) (*cron.Cron, error) {
	if log == nil {
		log = zap.L()
	}
	log = log.Named("reaper")
	if cfg.Schedule == "" {
		cfg.Schedule = "*/30 * * * *"
	}
	if cfg.Retention <= 0 {
		cfg.Retention = 24 * time.Hour
	}

	c := cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DefaultLogger)))
	_, err := c.AddFunc(cfg.Schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 4*time.Minute)
		defer cancel()
		RunReapJobs(ctx, log, cfg, jobs...)
	})
	if err != nil {
		return nil, err
	}
	log.Info("[REAPER] started",
		zap.String("schedule", cfg.Schedule),
		zap.Duration("retention", cfg.Retention),
		zap.Bool("dryRun", cfg.DryRun),
		zap.Int("jobs", len(jobs)))
	c.Start()
	return c, nil
}
