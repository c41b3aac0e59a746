package history

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"newshub/auth"
	"newshub/config"
	"newshub/email"
	"newshub/logger"
	"newshub/models"
)

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.ReadingHistory{},
		&models.Favorite{},
		&models.SearchHistory{},
	))
	return db
}

func setupRouter(db *gorm.DB) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	api := router.Group("/api")

	cfg := &config.Config{AppEnv: "test", StorageTimeout: 5 * time.Second}
	authModule := auth.NewAuthModule(db, auth.NewTokenService("test-secret"), email.NewService(), logger.New(0), cfg)
	authModule.RegisterRoutes(api)

	NewHistoryModule(db, logger.New(0), cfg.StorageTimeout).RegisterRoutes(api, authModule.RequireAuth)
	return router
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, body any, token string) *httptest.ResponseRecorder {
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		require.NoError(t, err)
	}

	req, err := http.NewRequest(method, path, bytes.NewReader(payload))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func registerUser(t *testing.T, router *gin.Engine, username string) string {
	w := doJSON(t, router, "POST", "/api/register", gin.H{
		"username": username,
		"email":    username + "@x.com",
		"password": "secret1",
	}, "")
	require.Equal(t, http.StatusCreated, w.Code)
	return decodeBody(t, w)["token"].(string)
}

func userID(t *testing.T, db *gorm.DB, username string) int {
	var user models.User
	require.NoError(t, db.Where("username = ?", username).First(&user).Error)
	return user.UserID
}

func TestAdd_RequiresTitle(t *testing.T) {
	db := setupTestDB(t)
	router := setupRouter(db)
	token := registerUser(t, router, "alice")

	w := doJSON(t, router, "POST", "/api/reading-history", gin.H{"article_id": "a1"}, token)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Article title is required", decodeBody(t, w)["error"])
}

func TestAdd_EachReadIsANewRow(t *testing.T) {
	db := setupTestDB(t)
	router := setupRouter(db)
	token := registerUser(t, router, "alice")

	article := gin.H{"article_id": "a1", "article_title": "Breaking"}
	for i := 0; i < 2; i++ {
		w := doJSON(t, router, "POST", "/api/reading-history", article, token)
		assert.Equal(t, http.StatusOK, w.Code)
	}

	var count int64
	db.Model(&models.ReadingHistory{}).Count(&count)
	assert.Equal(t, int64(2), count)
}

func TestList_CappedAtTwenty(t *testing.T) {
	db := setupTestDB(t)
	router := setupRouter(db)
	token := registerUser(t, router, "alice")
	uid := userID(t, db, "alice")

	base := time.Now().Add(-time.Hour)
	for i := 0; i < 25; i++ {
		entry := models.ReadingHistory{
			UserID:       uid,
			ArticleTitle: fmt.Sprintf("article %d", i),
			PubDate:      base,
			ReadAt:       base.Add(time.Duration(i) * time.Minute),
		}
		require.NoError(t, db.Create(&entry).Error)
	}

	w := doJSON(t, router, "GET", "/api/reading-history", nil, token)
	assert.Equal(t, http.StatusOK, w.Code)

	list := decodeBody(t, w)["readingHistory"].([]any)
	assert.Len(t, list, 20)

	newest := list[0].(map[string]any)
	assert.Equal(t, "article 24", newest["article_title"])
}

func TestList_ScopedToOwner(t *testing.T) {
	db := setupTestDB(t)
	router := setupRouter(db)
	aliceToken := registerUser(t, router, "alice")
	bobToken := registerUser(t, router, "bob")

	doJSON(t, router, "POST", "/api/reading-history", gin.H{"article_title": "alice read"}, aliceToken)

	w := doJSON(t, router, "GET", "/api/reading-history", nil, bobToken)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, decodeBody(t, w)["readingHistory"])
}

func TestGet_OwnershipCollapsesToNotFound(t *testing.T) {
	db := setupTestDB(t)
	router := setupRouter(db)
	aliceToken := registerUser(t, router, "alice")
	bobToken := registerUser(t, router, "bob")

	doJSON(t, router, "POST", "/api/reading-history", gin.H{"article_title": "alice read"}, aliceToken)

	var entry models.ReadingHistory
	require.NoError(t, db.First(&entry).Error)
	path := fmt.Sprintf("/api/reading-history/%d", entry.HistoryID)

	w := doJSON(t, router, "GET", path, nil, aliceToken)
	assert.Equal(t, http.StatusOK, w.Code)
	article := decodeBody(t, w)["article"].(map[string]any)
	assert.Equal(t, "alice read", article["article_title"])

	// another user's entry is indistinguishable from a missing one
	w = doJSON(t, router, "GET", path, nil, bobToken)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Reading history entry not found", decodeBody(t, w)["error"])
}

func TestGet_NotFound(t *testing.T) {
	db := setupTestDB(t)
	router := setupRouter(db)
	token := registerUser(t, router, "alice")

	w := doJSON(t, router, "GET", "/api/reading-history/9999", nil, token)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doJSON(t, router, "GET", "/api/reading-history/abc", nil, token)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestClear_Idempotent(t *testing.T) {
	db := setupTestDB(t)
	router := setupRouter(db)
	token := registerUser(t, router, "alice")

	doJSON(t, router, "POST", "/api/reading-history", gin.H{"article_title": "read"}, token)

	w := doJSON(t, router, "DELETE", "/api/reading-history", nil, token)
	assert.Equal(t, http.StatusOK, w.Code)

	var count int64
	db.Model(&models.ReadingHistory{}).Count(&count)
	assert.Equal(t, int64(0), count)

	// clearing an already-empty history still succeeds
	w = doJSON(t, router, "DELETE", "/api/reading-history", nil, token)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestEndpointsRequireToken(t *testing.T) {
	db := setupTestDB(t)
	router := setupRouter(db)

	w := doJSON(t, router, "GET", "/api/reading-history", nil, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doJSON(t, router, "POST", "/api/reading-history", gin.H{"article_title": "x"}, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
