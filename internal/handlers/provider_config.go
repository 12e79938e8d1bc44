package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rateyourbarber/trustengine/internal/services"
	"github.com/rateyourbarber/trustengine/pkg/response"
	"gorm.io/gorm"
)

type ProviderConfigHandler struct {
	providerConfigService *services.ProviderConfigService
}

func NewProviderConfigHandler(db *gorm.DB) *ProviderConfigHandler {
	return &ProviderConfigHandler{
		providerConfigService: services.NewProviderConfigService(db),
	}
}

func (h *ProviderConfigHandler) List(c *gin.Context) {
	var req services.ProviderConfigListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	resp, err := h.providerConfigService.List(&req)
	if err != nil {
		response.ServerError(c, err.Error())
		return
	}
	response.Success(c, resp)
}

func (h *ProviderConfigHandler) GetByID(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "invalid config id")
		return
	}

	config, err := h.providerConfigService.GetByID(uint(id))
	if err != nil {
		response.NotFound(c, "config not found")
		return
	}
	response.Success(c, config)
}

func (h *ProviderConfigHandler) Create(c *gin.Context) {
	var req services.CreateProviderConfigRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	config, err := h.providerConfigService.Create(&req)
	if err != nil {
		response.ServerError(c, err.Error())
		return
	}
	response.Created(c, config)
}

func (h *ProviderConfigHandler) Update(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "invalid config id")
		return
	}

	var req services.UpdateProviderConfigRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	config, err := h.providerConfigService.Update(uint(id), &req)
	if err != nil {
		response.ServerError(c, err.Error())
		return
	}
	response.Success(c, config)
}

func (h *ProviderConfigHandler) Delete(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "invalid config id")
		return
	}

	if err := h.providerConfigService.Delete(uint(id)); err != nil {
		response.ServerError(c, err.Error())
		return
	}
	response.Success(c, gin.H{"deleted": id})
}

func (h *ProviderConfigHandler) SetDefault(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "invalid config id")
		return
	}

	config, err := h.providerConfigService.SetDefault(uint(id))
	if err != nil {
		response.ServerError(c, err.Error())
		return
	}
	response.Success(c, config)
}
