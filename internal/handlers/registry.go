package handlers

// AppHandlers holds every handler the router mounts.
type AppHandlers struct {
	AuthHandler         *AuthHandler
	LoadHandler         *LoadHandler
	RequestHandler      *RequestHandler
	AlertHandler        *AlertHandler
	NotificationHandler *NotificationHandler
	HealthHandler       *HealthHandler
}
