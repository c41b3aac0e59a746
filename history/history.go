package history

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"newshub/auth"
	"newshub/logger"
	"newshub/models"
)

// listLimit caps the reading history feed at the most recent entries.
const listLimit = 20

type HistoryModule struct {
	db      *gorm.DB
	log     *logger.Logger
	timeout time.Duration
}

func NewHistoryModule(db *gorm.DB, log *logger.Logger, timeout time.Duration) *HistoryModule {
	return &HistoryModule{db: db, log: log, timeout: timeout}
}

func (h *HistoryModule) RegisterRoutes(api *gin.RouterGroup, requireAuth gin.HandlerFunc) {
	group := api.Group("/reading-history")
	group.Use(requireAuth)
	{
		group.POST("", h.add)
		group.GET("", h.list)
		group.DELETE("", h.clear)
		group.GET("/:historyId", h.get)
	}
}

func (h *HistoryModule) queryContext(c *gin.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request.Context(), h.timeout)
}

type addRequest struct {
	ArticleID       string `json:"article_id"`
	ArticleTitle    string `json:"article_title"`
	ArticleCategory string `json:"article_category"`
	ArticleSource   string `json:"article_source"`
	Description     string `json:"description"`
	Content         string `json:"content"`
	ImageURL        string `json:"image_url"`
	Link            string `json:"link"`
	PubDate         string `json:"pubDate"`
}

// add records one read event. Repeated reads of the same article each
// insert a new row.
func (h *HistoryModule) add(c *gin.Context) {
	claims := auth.ClaimsFrom(c)

	var req addRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.ArticleTitle == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Article title is required"})
		return
	}

	pubDate := time.Now()
	if req.PubDate != "" {
		if parsed, err := time.Parse(time.RFC3339, req.PubDate); err == nil {
			pubDate = parsed
		}
	}

	entry := models.ReadingHistory{
		UserID:          claims.UserID,
		ArticleID:       req.ArticleID,
		ArticleTitle:    req.ArticleTitle,
		ArticleCategory: req.ArticleCategory,
		ArticleSource:   req.ArticleSource,
		Description:     req.Description,
		Content:         req.Content,
		ImageURL:        req.ImageURL,
		Link:            req.Link,
		PubDate:         pubDate,
	}

	ctx, cancel := h.queryContext(c)
	defer cancel()

	if err := h.db.WithContext(ctx).Create(&entry).Error; err != nil {
		h.log.Error("reading history: insert failed", "error", err.Error())
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save reading history"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Reading history saved"})
}

func (h *HistoryModule) list(c *gin.Context) {
	claims := auth.ClaimsFrom(c)

	ctx, cancel := h.queryContext(c)
	defer cancel()

	entries := []models.ReadingHistory{}
	if err := h.db.WithContext(ctx).
		Where("user_id = ?", claims.UserID).
		Order("read_at DESC").
		Limit(listLimit).
		Find(&entries).Error; err != nil {
		h.log.Error("reading history: list failed", "error", err.Error())
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"readingHistory": entries})
}

// get returns a single owned entry. An entry belonging to another user
// yields the same 404 as a missing one.
func (h *HistoryModule) get(c *gin.Context) {
	claims := auth.ClaimsFrom(c)

	historyID, err := strconv.Atoi(c.Param("historyId"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Reading history entry not found"})
		return
	}

	ctx, cancel := h.queryContext(c)
	defer cancel()

	var entry models.ReadingHistory
	err = h.db.WithContext(ctx).
		Where("history_id = ? AND user_id = ?", historyID, claims.UserID).
		First(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Reading history entry not found"})
		return
	}
	if err != nil {
		h.log.Error("reading history: get failed", "error", err.Error())
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"article": entry})
}

func (h *HistoryModule) clear(c *gin.Context) {
	claims := auth.ClaimsFrom(c)

	ctx, cancel := h.queryContext(c)
	defer cancel()

	if err := h.db.WithContext(ctx).
		Where("user_id = ?", claims.UserID).
		Delete(&models.ReadingHistory{}).Error; err != nil {
		h.log.Error("reading history: clear failed", "error", err.Error())
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to clear reading history"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Reading history cleared"})
}
