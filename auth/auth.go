package auth

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"net/http"
	"regexp"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"newshub/config"
	"newshub/email"
	"newshub/logger"
	"newshub/models"
)

const resetTokenTTL = time.Hour

var emailRegex = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// dummyHash keeps the missing-user login path as expensive as a hash
// mismatch, so failure timing does not reveal whether the account exists.
var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("newshub-timing-pad"), bcrypt.DefaultCost)

type AuthModule struct {
	db     *gorm.DB
	tokens *TokenService
	mailer *email.Service
	log    *logger.Logger
	cfg    *config.Config
}

func NewAuthModule(db *gorm.DB, tokens *TokenService, mailer *email.Service, log *logger.Logger, cfg *config.Config) *AuthModule {
	return &AuthModule{
		db:     db,
		tokens: tokens,
		mailer: mailer,
		log:    log,
		cfg:    cfg,
	}
}

func (a *AuthModule) RegisterRoutes(api *gin.RouterGroup) {
	api.POST("/register", a.register)
	api.POST("/login", a.login)
	api.POST("/forgot-password", a.forgotPassword)
	api.POST("/reset-password", a.resetPassword)
	api.GET("/verify", a.RequireAuth, a.verify)
}

func (a *AuthModule) queryContext(c *gin.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request.Context(), a.cfg.StorageTimeout)
}

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (a *AuthModule) register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Username == "" || req.Email == "" || req.Password == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "All fields are required"})
		return
	}

	if !emailRegex.MatchString(req.Email) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid email format"})
		return
	}

	if len(req.Password) < 6 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Password must be at least 6 characters long"})
		return
	}

	ctx, cancel := a.queryContext(c)
	defer cancel()
	db := a.db.WithContext(ctx)

	var count int64
	if err := db.Model(&models.User{}).
		Where("username = ? OR email = ?", req.Username, req.Email).
		Count(&count).Error; err != nil {
		a.log.Error("register: user lookup failed", "error", err.Error())
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	if count > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Username or email already exists"})
		return
	}

	passwordHash, err := hashPassword(req.Password)
	if err != nil {
		a.log.Error("register: password hashing failed", "error", err.Error())
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create user"})
		return
	}

	user := models.User{
		Username: req.Username,
		Email:    req.Email,
		Password: passwordHash,
	}
	if err := db.Create(&user).Error; err != nil {
		a.log.Error("register: insert failed", "error", err.Error())
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create user"})
		return
	}

	token, err := a.tokens.Issue(user.UserID, user.Username, user.Email, TokenTTL)
	if err != nil {
		a.log.Error("register: token issue failed", "error", err.Error())
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create user"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "User registered successfully",
		"token":   token,
		"user": gin.H{
			"userId":   user.UserID,
			"username": user.Username,
			"email":    user.Email,
		},
	})
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (a *AuthModule) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Username == "" || req.Password == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Username and password are required"})
		return
	}

	ctx, cancel := a.queryContext(c)
	defer cancel()

	var user models.User
	err := a.db.WithContext(ctx).
		Where("username = ? OR email = ?", req.Username, req.Username).
		First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		bcrypt.CompareHashAndPassword(dummyHash, []byte(req.Password))
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}
	if err != nil {
		a.log.Error("login: user lookup failed", "error", err.Error())
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)) != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}

	token, err := a.tokens.Issue(user.UserID, user.Username, user.Email, TokenTTL)
	if err != nil {
		a.log.Error("login: token issue failed", "error", err.Error())
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Login successful",
		"token":   token,
		"user": gin.H{
			"userId":   user.UserID,
			"username": user.Username,
			"email":    user.Email,
		},
	})
}

const forgotPasswordMessage = "If your email exists, you will receive a reset link"

type forgotPasswordRequest struct {
	Email string `json:"email"`
}

func (a *AuthModule) forgotPassword(c *gin.Context) {
	var req forgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Email == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Email is required"})
		return
	}

	ctx, cancel := a.queryContext(c)
	defer cancel()
	db := a.db.WithContext(ctx)

	var user models.User
	err := db.Where("email = ?", req.Email).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		// same message as the hit path, no account enumeration
		c.JSON(http.StatusOK, gin.H{"message": forgotPasswordMessage})
		return
	}
	if err != nil {
		a.log.Error("forgot password: user lookup failed", "error", err.Error())
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	resetToken, err := generateResetToken()
	if err != nil {
		a.log.Error("forgot password: token generation failed", "error", err.Error())
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to process request"})
		return
	}
	expiry := time.Now().Add(resetTokenTTL)

	if err := db.Model(&user).Updates(map[string]interface{}{
		"reset_token":        resetToken,
		"reset_token_expiry": expiry,
	}).Error; err != nil {
		a.log.Error("forgot password: update failed", "error", err.Error())
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to process request"})
		return
	}

	a.log.Info("password reset token issued", "email", req.Email)

	if a.mailer.Configured() {
		if err := a.mailer.SendPasswordResetEmail(user.Email, resetToken); err != nil {
			a.log.Error("forgot password: email delivery failed", "email", user.Email, "error", err.Error())
		}
	}

	if a.cfg.IsProduction() {
		c.JSON(http.StatusOK, gin.H{"message": forgotPasswordMessage})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":    forgotPasswordMessage,
		"resetToken": resetToken,
	})
}

type resetPasswordRequest struct {
	Token       string `json:"token"`
	NewPassword string `json:"newPassword"`
}

func (a *AuthModule) resetPassword(c *gin.Context) {
	var req resetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Token == "" || req.NewPassword == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Token and new password are required"})
		return
	}

	ctx, cancel := a.queryContext(c)
	defer cancel()
	db := a.db.WithContext(ctx)

	var user models.User
	err := db.Where("reset_token = ? AND reset_token_expiry > ?", req.Token, time.Now()).
		First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid or expired reset token"})
		return
	}
	if err != nil {
		a.log.Error("reset password: user lookup failed", "error", err.Error())
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	passwordHash, err := hashPassword(req.NewPassword)
	if err != nil {
		a.log.Error("reset password: password hashing failed", "error", err.Error())
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to reset password"})
		return
	}

	// the token is single-use: cleared in the same update as the password
	if err := db.Model(&user).Updates(map[string]interface{}{
		"password":           passwordHash,
		"reset_token":        nil,
		"reset_token_expiry": nil,
	}).Error; err != nil {
		a.log.Error("reset password: update failed", "error", err.Error())
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to reset password"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Password reset successfully"})
}

func (a *AuthModule) verify(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"user": ClaimsFrom(c)})
}

// SweepExpiredResetTokens clears reset tokens whose expiry has passed.
// Invoked from the hourly maintenance job.
func (a *AuthModule) SweepExpiredResetTokens() {
	ctx, cancel := context.WithTimeout(context.Background(), a.cfg.StorageTimeout)
	defer cancel()

	result := a.db.WithContext(ctx).Model(&models.User{}).
		Where("reset_token IS NOT NULL AND reset_token_expiry <= ?", time.Now()).
		Updates(map[string]interface{}{
			"reset_token":        nil,
			"reset_token_expiry": nil,
		})
	if result.Error != nil {
		a.log.Error("reset token sweep failed", "error", result.Error.Error())
		return
	}
	if result.RowsAffected > 0 {
		a.log.Info("cleared expired reset tokens", "count", result.RowsAffected)
	}
}

func generateResetToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.URLEncoding.EncodeToString(b), nil
}

func hashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(bytes), err
}
