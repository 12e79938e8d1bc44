package services

import (
	"testing"
	"time"

	"github.com/rateyourbarber/trustengine/internal/config"
	"github.com/rateyourbarber/trustengine/internal/models"
)

func newTestScheduler(t *testing.T) *SchedulerService {
	db := setupTestDB(t)
	store := NewStore(db)
	enrichment := NewEnrichmentService(store, NewHeuristicProvider(nil, ""), 100)
	trust := NewTrustService(store)
	cfg := &config.EnrichmentConfig{SweepCron: "*/30 * * * *", RecomputeCron: "0 * * * *"}
	return NewSchedulerService(db, enrichment, trust, cfg)
}

func TestSchedulerLockExclusive(t *testing.T) {
	svc := newTestScheduler(t)
	other := NewSchedulerService(svc.db, svc.enrichment, svc.trust, svc.cfg)

	if !svc.tryAcquireLock("enrichment_sweep", "batch") {
		t.Fatal("first acquire should succeed")
	}
	if other.tryAcquireLock("enrichment_sweep", "batch") {
		t.Fatal("second holder should not acquire a live lock")
	}

	// Same holder re-entering its own lock refreshes it.
	if !svc.tryAcquireLock("enrichment_sweep", "batch") {
		t.Fatal("holder should be able to refresh its own lock")
	}

	svc.releaseLock("enrichment_sweep", "batch")
	if !other.tryAcquireLock("enrichment_sweep", "batch") {
		t.Fatal("released lock should be acquirable")
	}
}

func TestSchedulerLockDifferentJobsIndependent(t *testing.T) {
	svc := newTestScheduler(t)
	other := NewSchedulerService(svc.db, svc.enrichment, svc.trust, svc.cfg)

	if !svc.tryAcquireLock("enrichment_sweep", "batch") {
		t.Fatal("acquire enrichment_sweep failed")
	}
	if !other.tryAcquireLock("trust_recompute", "all") {
		t.Fatal("different job name should not block")
	}
}

func TestSchedulerLockExpiredStealable(t *testing.T) {
	svc := newTestScheduler(t)

	stale := models.SchedulerLock{
		LockName:  "trust_recompute",
		LockKey:   "all",
		LockedBy:  "dead-holder",
		LockedAt:  time.Now().Add(-time.Hour),
		ExpiresAt: time.Now().Add(-30 * time.Minute),
	}
	if err := svc.db.Create(&stale).Error; err != nil {
		t.Fatalf("seed stale lock: %v", err)
	}

	if !svc.tryAcquireLock("trust_recompute", "all") {
		t.Fatal("expired lock should be stealable")
	}

	var lock models.SchedulerLock
	if err := svc.db.Where("lock_name = ? AND lock_key = ?", "trust_recompute", "all").First(&lock).Error; err != nil {
		t.Fatalf("read lock: %v", err)
	}
	if lock.LockedBy != svc.holderID {
		t.Fatalf("lock holder = %q, want %q", lock.LockedBy, svc.holderID)
	}
	if !lock.ExpiresAt.After(time.Now()) {
		t.Fatal("stolen lock should have a fresh expiry")
	}
}

func TestSchedulerSweepRunsEnrichment(t *testing.T) {
	svc := newTestScheduler(t)

	shop := models.Shop{Name: "Fresh Cuts"}
	if err := svc.db.Create(&shop).Error; err != nil {
		t.Fatalf("create shop: %v", err)
	}
	review := models.Review{ShopID: shop.ID, Rating: 5, Text: "Maria gave me a great haircut, best fade in town."}
	if err := svc.db.Create(&review).Error; err != nil {
		t.Fatalf("create review: %v", err)
	}

	svc.runEnrichmentSweep()

	var got models.Review
	if err := svc.db.First(&got, review.ID).Error; err != nil {
		t.Fatalf("reload review: %v", err)
	}
	if !got.Enriched() {
		t.Fatal("sweep should enrich pending reviews")
	}

	// Lock must be released afterwards.
	var count int64
	svc.db.Model(&models.SchedulerLock{}).Count(&count)
	if count != 0 {
		t.Fatalf("lock rows remaining = %d, want 0", count)
	}
}
