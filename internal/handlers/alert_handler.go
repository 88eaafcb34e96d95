package handlers

import (
	"net/http"

	"loadlink_backend/internal/middleware"
	"loadlink_backend/internal/services"
	"loadlink_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

type AlertHandler struct {
	*BaseHandler
	alertService services.AlertService
}

func NewAlertHandler(base *BaseHandler, alertService services.AlertService) *AlertHandler {
	return &AlertHandler{
		BaseHandler:  base,
		alertService: alertService,
	}
}

// RegisterRoutes mounts the alert configuration routes.
func (h *AlertHandler) RegisterRoutes(rg *gin.RouterGroup) {
	alerts := rg.Group("/alerts")
	alerts.Use(middleware.AuthMiddleware())
	{
		alerts.POST("/service-areas", h.CreateServiceArea)
		alerts.GET("/service-areas", h.ListServiceAreas)
		alerts.DELETE("/service-areas/:id", h.DeleteServiceArea)
		alerts.GET("/preferences", h.GetPreference)
		alerts.PUT("/preferences", h.UpdatePreference)
	}
}

func (h *AlertHandler) CreateServiceArea(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.CreateServiceAreaRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}
	req.UserID = userID

	area, err := h.alertService.CreateServiceArea(&req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, area)
}

func (h *AlertHandler) ListServiceAreas(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	areas, err := h.alertService.ListServiceAreas(userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"service_areas": areas})
}

func (h *AlertHandler) DeleteServiceArea(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	if err := h.alertService.DeleteServiceArea(userID, c.Param("id")); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Service area deleted"})
}

func (h *AlertHandler) GetPreference(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	pref, err := h.alertService.GetPreference(userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, pref)
}

func (h *AlertHandler) UpdatePreference(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.UpdateAlertPreferenceRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	pref, err := h.alertService.UpdatePreference(userID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, pref)
}
