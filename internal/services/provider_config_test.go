package services

import (
	"testing"
)

func TestProviderConfigCreateDefaults(t *testing.T) {
	svc := NewProviderConfigService(setupTestDB(t))

	cfg, err := svc.Create(&CreateProviderConfigRequest{Name: "Rules", Model: "rules-v1", IsActive: true})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if cfg.Kind != "heuristic" {
		t.Errorf("kind = %q, want heuristic", cfg.Kind)
	}
	if cfg.MaxTokens != 1024 || cfg.Temperature != 0.1 {
		t.Errorf("defaults = %d/%v, want 1024/0.1", cfg.MaxTokens, cfg.Temperature)
	}
}

func TestProviderConfigSetDefaultUnsetsOthers(t *testing.T) {
	svc := NewProviderConfigService(setupTestDB(t))

	first, _ := svc.Create(&CreateProviderConfigRequest{Name: "Rules", Model: "rules-v1", IsDefault: true, IsActive: true})
	second, _ := svc.Create(&CreateProviderConfigRequest{Name: "GPT", Kind: "openai", Model: "gpt-4o-mini", APIKey: "sk-test-1234567890"})

	if _, err := svc.SetDefault(second.ID); err != nil {
		t.Fatalf("SetDefault: %v", err)
	}

	reloaded, err := svc.GetByID(first.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if reloaded.IsDefault {
		t.Error("previous default should be unset")
	}

	def, err := svc.GetDefault()
	if err != nil {
		t.Fatalf("GetDefault: %v", err)
	}
	if def.ID != second.ID {
		t.Errorf("default = %d, want %d", def.ID, second.ID)
	}
}

func TestProviderConfigDeleteLastRefused(t *testing.T) {
	svc := NewProviderConfigService(setupTestDB(t))

	only, _ := svc.Create(&CreateProviderConfigRequest{Name: "Rules", Model: "rules-v1", IsActive: true})
	if err := svc.Delete(only.ID); err == nil {
		t.Fatal("deleting the last provider config should fail")
	}

	extra, _ := svc.Create(&CreateProviderConfigRequest{Name: "GPT", Kind: "openai", Model: "gpt-4o-mini"})
	if err := svc.Delete(extra.ID); err != nil {
		t.Fatalf("Delete with two configs: %v", err)
	}
}

func TestProviderConfigListMasksAPIKey(t *testing.T) {
	svc := NewProviderConfigService(setupTestDB(t))

	svc.Create(&CreateProviderConfigRequest{Name: "GPT", Kind: "openai", Model: "gpt-4o-mini", APIKey: "sk-test-1234567890"})

	resp, err := svc.List(&ProviderConfigListRequest{Page: 1, PageSize: 10})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if resp.Total != 1 || len(resp.Items) != 1 {
		t.Fatalf("total = %d items = %d", resp.Total, len(resp.Items))
	}
	mask := resp.Items[0].APIKeyMask
	if mask == "" || mask == "sk-test-1234567890" {
		t.Errorf("API key should be masked, got %q", mask)
	}
}
