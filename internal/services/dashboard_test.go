package services

import (
	"testing"
	"time"

	"github.com/rateyourbarber/trustengine/internal/models"
)

func TestDashboardGetStats(t *testing.T) {
	db := setupTestDB(t)
	store := NewStore(db)
	svc := NewDashboardService(db, NewTrustService(store))

	shops := []models.Shop{
		{Name: "Fade Factory", Verified: true},
		{Name: "Clipper Corner"},
	}
	for i := range shops {
		if err := db.Create(&shops[i]).Error; err != nil {
			t.Fatalf("create shop: %v", err)
		}
	}
	barber := models.Barber{ShopID: &shops[0].ID, Name: "Maria"}
	if err := db.Create(&barber).Error; err != nil {
		t.Fatalf("create barber: %v", err)
	}

	now := time.Now()
	sentiment := 0.95
	reviews := []models.Review{
		{ShopID: shops[0].ID, Rating: 5, Text: "Maria is amazing", AdjustedSentiment: &sentiment, EnrichedAt: &now},
		{ShopID: shops[1].ID, Rating: 1, Text: "BUY FOLLOWERS NOW!!!", IsSpam: true},
	}
	for i := range reviews {
		if err := db.Create(&reviews[i]).Error; err != nil {
			t.Fatalf("create review: %v", err)
		}
	}

	scores := []models.TrustScore{
		{EntityType: models.EntityTypeShop, EntityID: shops[0].ID, Score: 85, Bucket: "80-100"},
		{EntityType: models.EntityTypeShop, EntityID: shops[1].ID, Score: 35, Bucket: "20-40"},
		{EntityType: models.EntityTypeBarber, EntityID: barber.ID, Score: 62, Bucket: "60-80"},
	}
	for i := range scores {
		scores[i].ComputedAt = now
		if err := db.Create(&scores[i]).Error; err != nil {
			t.Fatalf("create trust score: %v", err)
		}
	}

	resp, err := svc.GetStats()
	if err != nil {
		t.Fatalf("GetStats: %v", err)
	}

	if resp.Stats.TotalShops != 2 || resp.Stats.VerifiedShops != 1 {
		t.Fatalf("shops = %d verified = %d, want 2/1", resp.Stats.TotalShops, resp.Stats.VerifiedShops)
	}
	if resp.Stats.VerifiedPercent != 50 {
		t.Fatalf("verified percent = %v, want 50", resp.Stats.VerifiedPercent)
	}
	if resp.Stats.TotalReviews != 2 || resp.Stats.EnrichedReviews != 1 {
		t.Fatalf("reviews = %d enriched = %d, want 2/1", resp.Stats.TotalReviews, resp.Stats.EnrichedReviews)
	}
	if resp.Stats.FlaggedReviews != 1 {
		t.Fatalf("flagged reviews = %d, want 1", resp.Stats.FlaggedReviews)
	}
	if resp.Stats.AvgShopTrust != 60 {
		t.Fatalf("avg shop trust = %v, want 60", resp.Stats.AvgShopTrust)
	}
	if resp.Stats.AvgBarberTrust != 62 {
		t.Fatalf("avg barber trust = %v, want 62", resp.Stats.AvgBarberTrust)
	}

	if resp.ShopBuckets["80-100"] != 1 || resp.ShopBuckets["20-40"] != 1 {
		t.Fatalf("shop buckets = %v", resp.ShopBuckets)
	}
	if resp.ShopBuckets["40-60"] != 0 {
		t.Fatalf("empty bucket should report zero, got %v", resp.ShopBuckets)
	}

	if len(resp.TopShops) != 2 {
		t.Fatalf("top shops = %d, want 2", len(resp.TopShops))
	}
	if resp.TopShops[0].Name != "Fade Factory" || resp.TopShops[0].Score != 85 {
		t.Fatalf("top shop = %+v", resp.TopShops[0])
	}
	if len(resp.TopBarbers) != 1 || resp.TopBarbers[0].Name != "Maria" {
		t.Fatalf("top barbers = %+v", resp.TopBarbers)
	}
}

func TestDashboardEmptyDatabase(t *testing.T) {
	db := setupTestDB(t)
	svc := NewDashboardService(db, NewTrustService(NewStore(db)))

	resp, err := svc.GetStats()
	if err != nil {
		t.Fatalf("GetStats: %v", err)
	}
	if resp.Stats.TotalShops != 0 || resp.Stats.VerifiedPercent != 0 {
		t.Fatalf("stats = %+v, want zeros", resp.Stats)
	}
	if len(resp.TopShops) != 0 {
		t.Fatalf("top shops = %+v, want empty", resp.TopShops)
	}
}
