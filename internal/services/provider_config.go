package services

import (
	"errors"

	"github.com/rateyourbarber/trustengine/internal/models"
	"gorm.io/gorm"
)

type ProviderConfigService struct {
	db *gorm.DB
}

func NewProviderConfigService(db *gorm.DB) *ProviderConfigService {
	return &ProviderConfigService{db: db}
}

type ProviderConfigListRequest struct {
	Page     int    `form:"page" binding:"min=1"`
	PageSize int    `form:"page_size" binding:"min=1,max=100"`
	Name     string `form:"name"`
	Kind     string `form:"kind"`
	IsActive *bool  `form:"is_active"`
}

type ProviderConfigListResponse struct {
	Total    int64                   `json:"total"`
	Page     int                     `json:"page"`
	PageSize int                     `json:"page_size"`
	Items    []models.ProviderConfig `json:"items"`
}

type CreateProviderConfigRequest struct {
	Name        string  `json:"name" binding:"required"`
	Kind        string  `json:"kind"`
	BaseURL     string  `json:"base_url"`
	APIKey      string  `json:"api_key"`
	Model       string  `json:"model" binding:"required"`
	MaxTokens   int     `json:"max_tokens"`
	Temperature float64 `json:"temperature"`
	IsDefault   bool    `json:"is_default"`
	IsActive    bool    `json:"is_active"`
}

type UpdateProviderConfigRequest struct {
	Name        string   `json:"name"`
	Kind        string   `json:"kind"`
	BaseURL     string   `json:"base_url"`
	APIKey      string   `json:"api_key"`
	Model       string   `json:"model"`
	MaxTokens   *int     `json:"max_tokens"`
	Temperature *float64 `json:"temperature"`
	IsDefault   *bool    `json:"is_default"`
	IsActive    *bool    `json:"is_active"`
}

// List returns paginated provider configs
func (s *ProviderConfigService) List(req *ProviderConfigListRequest) (*ProviderConfigListResponse, error) {
	if req.Page == 0 {
		req.Page = 1
	}
	if req.PageSize == 0 {
		req.PageSize = 10
	}

	var configs []models.ProviderConfig
	var total int64

	query := s.db.Model(&models.ProviderConfig{})

	if req.Name != "" {
		query = query.Where("name LIKE ? OR model LIKE ?", "%"+req.Name+"%", "%"+req.Name+"%")
	}
	if req.Kind != "" {
		query = query.Where("kind = ?", req.Kind)
	}
	if req.IsActive != nil {
		query = query.Where("is_active = ?", *req.IsActive)
	}

	query.Count(&total)

	offset := (req.Page - 1) * req.PageSize
	if err := query.Offset(offset).Limit(req.PageSize).Order("created_at DESC").Find(&configs).Error; err != nil {
		return nil, err
	}

	// Mask API keys for response
	for i := range configs {
		configs[i].APIKeyMask = configs[i].MaskAPIKey()
	}

	return &ProviderConfigListResponse{
		Total:    total,
		Page:     req.Page,
		PageSize: req.PageSize,
		Items:    configs,
	}, nil
}

// GetByID returns a provider config by ID
func (s *ProviderConfigService) GetByID(id uint) (*models.ProviderConfig, error) {
	var config models.ProviderConfig
	if err := s.db.First(&config, id).Error; err != nil {
		return nil, err
	}
	config.APIKeyMask = config.MaskAPIKey()
	return &config, nil
}

// GetDefault returns the default active provider config, falling back to any
// active config.
func (s *ProviderConfigService) GetDefault() (*models.ProviderConfig, error) {
	var config models.ProviderConfig
	if err := s.db.Where("is_default = ? AND is_active = ?", true, true).First(&config).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			if err := s.db.Where("is_active = ?", true).First(&config).Error; err != nil {
				return nil, err
			}
		} else {
			return nil, err
		}
	}
	return &config, nil
}

// Create creates a new provider config
func (s *ProviderConfigService) Create(req *CreateProviderConfigRequest) (*models.ProviderConfig, error) {
	if req.Kind == "" {
		req.Kind = "heuristic"
	}
	if req.MaxTokens == 0 {
		req.MaxTokens = 1024
	}
	if req.Temperature == 0 {
		req.Temperature = 0.1
	}

	config := models.ProviderConfig{
		Name:        req.Name,
		Kind:        req.Kind,
		BaseURL:     req.BaseURL,
		APIKey:      req.APIKey,
		Model:       req.Model,
		MaxTokens:   req.MaxTokens,
		Temperature: req.Temperature,
		IsDefault:   req.IsDefault,
		IsActive:    req.IsActive,
	}

	// If this is set as default, unset other defaults
	if req.IsDefault {
		s.db.Model(&models.ProviderConfig{}).Where("is_default = ?", true).Update("is_default", false)
	}

	if err := s.db.Create(&config).Error; err != nil {
		return nil, err
	}

	config.APIKeyMask = config.MaskAPIKey()
	return &config, nil
}

// Update updates a provider config
func (s *ProviderConfigService) Update(id uint, req *UpdateProviderConfigRequest) (*models.ProviderConfig, error) {
	var config models.ProviderConfig
	if err := s.db.First(&config, id).Error; err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})

	if req.Name != "" {
		updates["name"] = req.Name
	}
	if req.Kind != "" {
		updates["kind"] = req.Kind
	}
	if req.BaseURL != "" {
		updates["base_url"] = req.BaseURL
	}
	if req.APIKey != "" {
		updates["api_key"] = req.APIKey
	}
	if req.Model != "" {
		updates["model"] = req.Model
	}
	if req.MaxTokens != nil {
		updates["max_tokens"] = *req.MaxTokens
	}
	if req.Temperature != nil {
		updates["temperature"] = *req.Temperature
	}
	if req.IsDefault != nil {
		if *req.IsDefault {
			s.db.Model(&models.ProviderConfig{}).Where("is_default = ? AND id != ?", true, id).Update("is_default", false)
		}
		updates["is_default"] = *req.IsDefault
	}
	if req.IsActive != nil {
		updates["is_active"] = *req.IsActive
	}

	if len(updates) > 0 {
		if err := s.db.Model(&config).Updates(updates).Error; err != nil {
			return nil, err
		}
	}

	if err := s.db.First(&config, id).Error; err != nil {
		return nil, err
	}
	config.APIKeyMask = config.MaskAPIKey()
	return &config, nil
}

// Delete removes a provider config. The last remaining config cannot be
// deleted, an enrichment pass always needs somewhere to dispatch.
func (s *ProviderConfigService) Delete(id uint) error {
	var count int64
	s.db.Model(&models.ProviderConfig{}).Count(&count)
	if count <= 1 {
		return errors.New("cannot delete the last provider config")
	}
	return s.db.Delete(&models.ProviderConfig{}, id).Error
}

// SetDefault marks one config as the default and unsets the rest.
func (s *ProviderConfigService) SetDefault(id uint) (*models.ProviderConfig, error) {
	var config models.ProviderConfig
	if err := s.db.First(&config, id).Error; err != nil {
		return nil, err
	}

	if err := s.db.Model(&models.ProviderConfig{}).Where("id != ?", id).Update("is_default", false).Error; err != nil {
		return nil, err
	}
	if err := s.db.Model(&config).Updates(map[string]interface{}{"is_default": true, "is_active": true}).Error; err != nil {
		return nil, err
	}

	config.IsDefault = true
	config.IsActive = true
	config.APIKeyMask = config.MaskAPIKey()
	return &config, nil
}
