package search

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"newshub/auth"
	"newshub/logger"
	"newshub/models"
)

const listLimit = 20

type SearchModule struct {
	db      *gorm.DB
	log     *logger.Logger
	timeout time.Duration
}

func NewSearchModule(db *gorm.DB, log *logger.Logger, timeout time.Duration) *SearchModule {
	return &SearchModule{db: db, log: log, timeout: timeout}
}

func (s *SearchModule) RegisterRoutes(api *gin.RouterGroup, requireAuth gin.HandlerFunc) {
	group := api.Group("/search-history")
	group.Use(requireAuth)
	{
		group.POST("", s.add)
		group.GET("", s.list)
		group.DELETE("", s.clear)
	}
}

type addRequest struct {
	SearchQuery   string `json:"search_query"`
	SearchResults int    `json:"search_results"`
}

func (s *SearchModule) add(c *gin.Context) {
	claims := auth.ClaimsFrom(c)

	var req addRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.SearchQuery == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Search query is required"})
		return
	}

	entry := models.SearchHistory{
		UserID:        claims.UserID,
		SearchQuery:   req.SearchQuery,
		SearchResults: req.SearchResults,
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), s.timeout)
	defer cancel()

	if err := s.db.WithContext(ctx).Create(&entry).Error; err != nil {
		s.log.Error("search history: insert failed", "error", err.Error())
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save search history"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Search history saved"})
}

func (s *SearchModule) list(c *gin.Context) {
	claims := auth.ClaimsFrom(c)

	ctx, cancel := context.WithTimeout(c.Request.Context(), s.timeout)
	defer cancel()

	entries := []models.SearchHistory{}
	if err := s.db.WithContext(ctx).
		Where("user_id = ?", claims.UserID).
		Order("searched_at DESC").
		Limit(listLimit).
		Find(&entries).Error; err != nil {
		s.log.Error("search history: list failed", "error", err.Error())
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"searchHistory": entries})
}

func (s *SearchModule) clear(c *gin.Context) {
	claims := auth.ClaimsFrom(c)

	ctx, cancel := context.WithTimeout(c.Request.Context(), s.timeout)
	defer cancel()

	if err := s.db.WithContext(ctx).
		Where("user_id = ?", claims.UserID).
		Delete(&models.SearchHistory{}).Error; err != nil {
		s.log.Error("search history: clear failed", "error", err.Error())
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to clear search history"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Search history cleared"})
}
