package handlers

import (
	"net/http"

	"loadlink_backend/internal/middleware"
	"loadlink_backend/internal/services"
	"loadlink_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

type RequestHandler struct {
	*BaseHandler
	requestService services.RequestService
}

func NewRequestHandler(base *BaseHandler, requestService services.RequestService) *RequestHandler {
	return &RequestHandler{
		BaseHandler:    base,
		requestService: requestService,
	}
}

// RegisterRoutes mounts the request routes. All of them require
// authentication.
func (h *RequestHandler) RegisterRoutes(rg *gin.RouterGroup) {
	loads := rg.Group("/loads")
	loads.Use(middleware.AuthMiddleware())
	{
		loads.POST("/:id/requests", h.Create)
		loads.GET("/:id/requests", h.ListByLoad)
	}

	requests := rg.Group("/requests")
	requests.Use(middleware.AuthMiddleware())
	{
		requests.GET("/my", h.ListMine)
		requests.PATCH("/:id/status", h.Decide)
	}
}

// Create handles POST /loads/:id/requests.
func (h *RequestHandler) Create(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.CreateLoadRequestRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}
	req.RequesterID = userID
	req.LoadID = c.Param("id")

	request, err := h.requestService.CreateRequest(&req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, request)
}

// Decide handles PATCH /requests/:id/status. Only the load owner may
// call it; accepting assigns the load and closes out competing requests.
func (h *RequestHandler) Decide(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.DecideRequestRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	request, err := h.requestService.DecideRequest(userID, c.Param("id"), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, request)
}

// ListByLoad handles GET /loads/:id/requests (owner only).
func (h *RequestHandler) ListByLoad(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	requests, err := h.requestService.ListByLoad(userID, c.Param("id"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"requests": requests})
}

// ListMine handles GET /requests/my.
func (h *RequestHandler) ListMine(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	requests, err := h.requestService.ListMine(userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"requests": requests})
}
