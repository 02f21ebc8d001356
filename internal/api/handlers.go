package api

import (
	"context"
	"net/http"
	"os"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"housevalue/server/config"
	"housevalue/server/internal/estimator"
	"housevalue/server/internal/models"
)

// ListingStore is the read side of the sample dataset
type ListingStore interface {
	GetProperties(ctx context.Context, filter models.ListingFilter, page, perPage int) (models.ListingPage, error)
	GetDashboardStats(ctx context.Context) (models.DashboardStats, error)
	GetAnalytics(ctx context.Context) (models.Analytics, error)
	GetLocations(ctx context.Context) ([]string, error)
}

type Handler struct {
	store     ListingStore
	estimator estimator.Estimator
	zones     *config.ZoneTable
	features  *FeatureValidator
	logger    *logrus.Logger
}

func NewHandler(store ListingStore, est estimator.Estimator, zones *config.ZoneTable, referenceYear int, logger *logrus.Logger) *Handler {
	if logger == nil {
		logger = logrus.New()
		logger.SetFormatter(&logrus.JSONFormatter{})
		logger.SetOutput(os.Stdout)
	}

	return &Handler{
		store:     store,
		estimator: est,
		zones:     zones,
		features:  NewFeatureValidator(zones, referenceYear),
		logger:    logger,
	}
}

func (h *Handler) GetProperties(c *gin.Context) {
	var filter models.ListingFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.logger.WithError(err).Warn("Failed to parse listing filter")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid filter parameters"})
		return
	}

	page := queryInt(c, "page", 1)
	perPage := queryInt(c, "per_page", 20)

	result, err := h.store.GetProperties(c.Request.Context(), filter, page, perPage)
	if err != nil {
		h.logger.WithError(err).Error("Failed to get properties")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get properties"})
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *Handler) GetDashboard(c *gin.Context) {
	stats, err := h.store.GetDashboardStats(c.Request.Context())
	if err != nil {
		h.logger.WithError(err).Error("Failed to get dashboard stats")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get dashboard stats"})
		return
	}

	c.JSON(http.StatusOK, stats)
}

func (h *Handler) GetAnalytics(c *gin.Context) {
	analytics, err := h.store.GetAnalytics(c.Request.Context())
	if err != nil {
		h.logger.WithError(err).Error("Failed to get analytics")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get analytics"})
		return
	}

	c.JSON(http.StatusOK, analytics)
}

// GetFilters returns the zones the prediction form can choose from and
// the locations present in the sample dataset
func (h *Handler) GetFilters(c *gin.Context) {
	datasetLocations, err := h.store.GetLocations(c.Request.Context())
	if err != nil {
		h.logger.WithError(err).Error("Failed to get dataset locations")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get filters"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"locations":         h.zones.Names(),
		"dataset_locations": datasetLocations,
	})
}

func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":     "ok",
		"model":      h.estimator.Name(),
		"strategies": estimator.Strategies(),
	})
}

// queryInt falls back to def when the parameter is absent or not a number
func queryInt(c *gin.Context, key string, def int) int {
	v, err := strconv.Atoi(c.DefaultQuery(key, strconv.Itoa(def)))
	if err != nil {
		return def
	}
	return v
}
