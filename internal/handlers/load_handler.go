package handlers

import (
	"net/http"

	"loadlink_backend/internal/middleware"
	"loadlink_backend/internal/models"
	"loadlink_backend/internal/services"
	"loadlink_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

type LoadHandler struct {
	*BaseHandler
	loadService services.LoadService
}

func NewLoadHandler(base *BaseHandler, loadService services.LoadService) *LoadHandler {
	return &LoadHandler{
		BaseHandler: base,
		loadService: loadService,
	}
}

// RegisterRoutes mounts the load routes. Listing and reading single
// loads is public; everything else requires authentication.
func (h *LoadHandler) RegisterRoutes(rg *gin.RouterGroup) {
	public := rg.Group("/loads")
	{
		public.GET("", h.List)
		public.GET("/:id", h.Get)
	}

	authed := rg.Group("/loads")
	authed.Use(middleware.AuthMiddleware())
	{
		authed.POST("", middleware.RequireRoles(models.UserRoleBroker, models.UserRoleCarrier), h.Create)
		authed.GET("/my", h.ListMine)
		authed.GET("/assigned", h.ListAssigned)
		authed.PATCH("/:id", h.Update)
		authed.POST("/:id/cancel", h.Cancel)
		authed.POST("/:id/complete", h.Complete)
	}
}

func (h *LoadHandler) Create(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.CreateLoadRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}
	req.OwnerID = userID

	load, err := h.loadService.CreateLoad(&req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, load)
}

func (h *LoadHandler) Get(c *gin.Context) {
	load, err := h.loadService.GetLoad(c.Param("id"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, load)
}

func (h *LoadHandler) List(c *gin.Context) {
	var req dto.ListLoadsRequest
	if !h.BindAndValidate_Query(c, &req) {
		return
	}

	loads, err := h.loadService.ListLoads(&req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, loads)
}

func (h *LoadHandler) ListMine(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	loads, err := h.loadService.ListMyLoads(userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"loads": loads})
}

func (h *LoadHandler) ListAssigned(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	loads, err := h.loadService.ListAssignedLoads(userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"loads": loads})
}

func (h *LoadHandler) Update(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.UpdateLoadRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	load, err := h.loadService.UpdateLoad(userID, c.Param("id"), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, load)
}

func (h *LoadHandler) Cancel(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	if err := h.loadService.CancelLoad(userID, c.Param("id")); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Load cancelled"})
}

func (h *LoadHandler) Complete(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	if err := h.loadService.CompleteLoad(userID, c.Param("id")); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Load completed"})
}
