package services

import (
	"testing"

	"github.com/rateyourbarber/trustengine/internal/config"
	"github.com/rateyourbarber/trustengine/internal/models"
	"github.com/rateyourbarber/trustengine/internal/utils"
)

func newTestAuthService(t *testing.T) *AuthService {
	utils.SetJWTSecret("test-secret-for-auth-service")
	return NewAuthService(setupTestDB(t), &config.JWTConfig{Secret: "test-secret-for-auth-service", ExpireHour: 24})
}

func TestAuthLogin(t *testing.T) {
	svc := newTestAuthService(t)
	if err := svc.CreateAdminIfNotExists(); err != nil {
		t.Fatalf("CreateAdminIfNotExists: %v", err)
	}

	resp, err := svc.Login(&LoginRequest{Username: "admin", Password: "admin123"})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if resp.Token == "" {
		t.Error("login should return a token")
	}
	if resp.User.LastLogin == nil {
		t.Error("login should record last login time")
	}

	claims, err := utils.ParseToken(resp.Token)
	if err != nil {
		t.Fatalf("ParseToken: %v", err)
	}
	if claims.Role != "admin" {
		t.Errorf("role = %q, want admin", claims.Role)
	}
}

func TestAuthLoginWrongPassword(t *testing.T) {
	svc := newTestAuthService(t)
	svc.CreateAdminIfNotExists()

	if _, err := svc.Login(&LoginRequest{Username: "admin", Password: "wrong"}); err == nil {
		t.Fatal("wrong password should fail")
	}
	if _, err := svc.Login(&LoginRequest{Username: "nobody", Password: "admin123"}); err == nil {
		t.Fatal("unknown user should fail")
	}
}

func TestAuthLoginDisabledUser(t *testing.T) {
	svc := newTestAuthService(t)

	hash, _ := utils.HashPassword("secret")
	svc.db.Create(&models.User{Username: "ghost", Password: hash, Role: "user", IsActive: false})

	if _, err := svc.Login(&LoginRequest{Username: "ghost", Password: "secret"}); err == nil {
		t.Fatal("disabled user should not log in")
	}
}

func TestCreateAdminIfNotExists_Idempotent(t *testing.T) {
	svc := newTestAuthService(t)
	svc.CreateAdminIfNotExists()
	svc.CreateAdminIfNotExists()

	var count int64
	svc.db.Model(&models.User{}).Where("role = ?", "admin").Count(&count)
	if count != 1 {
		t.Fatalf("admin count = %d, want 1", count)
	}
}
