package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rateyourbarber/trustengine/internal/config"
	"github.com/rateyourbarber/trustengine/internal/models"
	"github.com/rateyourbarber/trustengine/pkg/logger"
	"github.com/robfig/cron/v3"
	"gorm.io/gorm"
)

// SchedulerService runs the periodic enrichment sweep and trust-score
// recompute. Every job first takes a database lock keyed by job name, so
// concurrent instances cannot double-run the same sweep.
type SchedulerService struct {
	db         *gorm.DB
	enrichment *EnrichmentService
	trust      *TrustService
	cfg        *config.EnrichmentConfig

	holderID      string
	cronScheduler *cron.Cron
}

func NewSchedulerService(db *gorm.DB, enrichment *EnrichmentService, trust *TrustService, cfg *config.EnrichmentConfig) *SchedulerService {
	return &SchedulerService{
		db:         db,
		enrichment: enrichment,
		trust:      trust,
		cfg:        cfg,
		holderID:   uuid.NewString(),
	}
}

const (
	schedulerLockTTL = 10 * time.Minute
	logCleanupCron   = "0 3 * * *"
)

func (s *SchedulerService) Start() {
	s.cronScheduler = cron.New()

	if _, err := s.cronScheduler.AddFunc(s.cfg.SweepCron, s.runEnrichmentSweep); err != nil {
		logger.Errorf("[Scheduler] Invalid sweep cron %q: %v", s.cfg.SweepCron, err)
	}
	if _, err := s.cronScheduler.AddFunc(s.cfg.RecomputeCron, s.runTrustRecompute); err != nil {
		logger.Errorf("[Scheduler] Invalid recompute cron %q: %v", s.cfg.RecomputeCron, err)
	}
	if _, err := s.cronScheduler.AddFunc(logCleanupCron, s.runLogCleanup); err != nil {
		logger.Errorf("[Scheduler] Invalid log cleanup cron %q: %v", logCleanupCron, err)
	}

	s.cronScheduler.Start()
	logger.Infof("[Scheduler] Started (sweep: %s, recompute: %s, holder: %s)",
		s.cfg.SweepCron, s.cfg.RecomputeCron, s.holderID)
}

func (s *SchedulerService) Stop() {
	if s.cronScheduler != nil {
		s.cronScheduler.Stop()
	}
}

func (s *SchedulerService) runEnrichmentSweep() {
	if !s.tryAcquireLock("enrichment_sweep", "batch") {
		logger.Infof("[Scheduler] Enrichment sweep already running elsewhere, skipping")
		return
	}
	defer s.releaseLock("enrichment_sweep", "batch")

	if _, err := s.enrichment.RunFullPass(context.Background(), false); err != nil {
		logger.Errorf("[Scheduler] Enrichment sweep failed: %v", err)
		LogError("scheduler", "enrichment_sweep", "enrichment sweep failed", map[string]string{"error": err.Error()})
	}
}

func (s *SchedulerService) runTrustRecompute() {
	if !s.tryAcquireLock("trust_recompute", "all") {
		logger.Infof("[Scheduler] Trust recompute already running elsewhere, skipping")
		return
	}
	defer s.releaseLock("trust_recompute", "all")

	n, err := s.trust.RecomputeAll()
	if err != nil {
		logger.Errorf("[Scheduler] Trust recompute failed after %d entities: %v", n, err)
		LogError("scheduler", "trust_recompute", "trust recompute failed", map[string]interface{}{"recomputed": n, "error": err.Error()})
		return
	}
	logger.Infof("[Scheduler] Trust recompute complete: %d entities", n)
	LogInfo("scheduler", "trust_recompute", "trust recompute complete", map[string]int{"recomputed": n})
}

func (s *SchedulerService) runLogCleanup() {
	if !s.tryAcquireLock("log_cleanup", "daily") {
		return
	}
	defer s.releaseLock("log_cleanup", "daily")

	deleted, err := NewSystemLogService(s.db).CleanupOldLogs(defaultLogRetentionDays)
	if err != nil {
		logger.Errorf("[Scheduler] Log cleanup failed: %v", err)
		return
	}
	if deleted > 0 {
		logger.Infof("[Scheduler] Cleaned up %d logs older than %d days", deleted, defaultLogRetentionDays)
	}
}

// tryAcquireLock inserts or steals the lock row for a job. A live lock held
// by another holder wins; an expired one is taken over.
func (s *SchedulerService) tryAcquireLock(name, key string) bool {
	now := time.Now()

	var existing models.SchedulerLock
	err := s.db.Where("lock_name = ? AND lock_key = ?", name, key).First(&existing).Error
	if err == gorm.ErrRecordNotFound {
		lock := models.SchedulerLock{
			LockName:  name,
			LockKey:   key,
			LockedBy:  s.holderID,
			LockedAt:  now,
			ExpiresAt: now.Add(schedulerLockTTL),
		}
		// A unique index race here means someone else just took it.
		return s.db.Create(&lock).Error == nil
	}
	if err != nil {
		logger.Errorf("[Scheduler] Lock lookup failed: %v", err)
		return false
	}

	if existing.ExpiresAt.After(now) && existing.LockedBy != s.holderID {
		return false
	}

	res := s.db.Model(&models.SchedulerLock{}).
		Where("id = ? AND expires_at = ?", existing.ID, existing.ExpiresAt).
		Updates(map[string]interface{}{
			"locked_by":  s.holderID,
			"locked_at":  now,
			"expires_at": now.Add(schedulerLockTTL),
		})
	return res.Error == nil && res.RowsAffected == 1
}

func (s *SchedulerService) releaseLock(name, key string) {
	s.db.Where("lock_name = ? AND lock_key = ? AND locked_by = ?", name, key, s.holderID).
		Delete(&models.SchedulerLock{})
}
