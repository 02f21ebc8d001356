package api

import "github.com/gin-gonic/gin"

func SetupRoutes(router *gin.Engine, handler *Handler) {
	router.GET("/health", handler.Health)

	api := router.Group("/api")
	{
		api.POST("/predict", handler.Predict)
		api.GET("/properties", handler.GetProperties)
		api.GET("/dashboard", handler.GetDashboard)
		api.GET("/analytics", handler.GetAnalytics)
		api.GET("/filters", handler.GetFilters)
		api.GET("/zones", handler.ListZones)
		api.GET("/zones/:name", handler.GetZone)
	}
}
