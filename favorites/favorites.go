package favorites

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"newshub/auth"
	"newshub/logger"
	"newshub/models"
)

type FavoritesModule struct {
	db      *gorm.DB
	log     *logger.Logger
	timeout time.Duration
}

func NewFavoritesModule(db *gorm.DB, log *logger.Logger, timeout time.Duration) *FavoritesModule {
	return &FavoritesModule{db: db, log: log, timeout: timeout}
}

func (f *FavoritesModule) RegisterRoutes(api *gin.RouterGroup, requireAuth gin.HandlerFunc) {
	group := api.Group("/favorites")
	group.Use(requireAuth)
	{
		group.POST("", f.toggle)
		group.GET("", f.list)
	}
}

type toggleRequest struct {
	ArticleID       string `json:"article_id"`
	ArticleTitle    string `json:"article_title"`
	ArticleCategory string `json:"article_category"`
	ArticleSource   string `json:"article_source"`
	ArticleImage    string `json:"article_image"`
	ArticleURL      string `json:"article_url"`
	Description     string `json:"description"`
	PubDate         string `json:"pubDate"`
}

// toggle removes the favorite when (user, article) already exists and
// inserts it otherwise. The check-then-act pair runs in one transaction
// so concurrent duplicate toggles cannot double-insert.
func (f *FavoritesModule) toggle(c *gin.Context) {
	claims := auth.ClaimsFrom(c)

	var req toggleRequest
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

	ctx, cancel := context.WithTimeout(c.Request.Context(), f.timeout)
	defer cancel()

	var removed bool
	err := f.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing models.Favorite
		err := tx.Where("user_id = ? AND article_id = ?", claims.UserID, req.ArticleID).
			First(&existing).Error
		if err == nil {
			removed = true
			return tx.Where("user_id = ? AND article_id = ?", claims.UserID, req.ArticleID).
				Delete(&models.Favorite{}).Error
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		entry := models.Favorite{
			UserID:          claims.UserID,
			ArticleID:       req.ArticleID,
			ArticleTitle:    req.ArticleTitle,
			ArticleCategory: req.ArticleCategory,
			ArticleSource:   req.ArticleSource,
			ArticleImage:    req.ArticleImage,
			ArticleURL:      req.ArticleURL,
			Description:     req.Description,
			PubDate:         pubDate,
		}
		return tx.Create(&entry).Error
	})
	if err != nil {
		f.log.Error("favorites: toggle failed", "error", err.Error())
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	if removed {
		c.JSON(http.StatusOK, gin.H{"message": "Removed from favorites", "isFavorite": false})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Added to favorites", "isFavorite": true})
}

func (f *FavoritesModule) list(c *gin.Context) {
	claims := auth.ClaimsFrom(c)

	ctx, cancel := context.WithTimeout(c.Request.Context(), f.timeout)
	defer cancel()

	entries := []models.Favorite{}
	if err := f.db.WithContext(ctx).
		Where("user_id = ?", claims.UserID).
		Order("saved_at DESC").
		Find(&entries).Error; err != nil {
		f.log.Error("favorites: list failed", "error", err.Error())
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"favorites": entries})
}
