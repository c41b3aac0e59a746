package models

import "time"

type User struct {
	UserID           int        `gorm:"column:user_id;primaryKey;autoIncrement" json:"user_id"`
	Username         string     `gorm:"size:50;unique;not null" json:"username"`
	Email            string     `gorm:"size:100;unique;not null" json:"email"`
	Password         string     `gorm:"size:255;not null" json:"-"` // bcrypt hash, never exposed
	ResetToken       *string    `gorm:"size:255" json:"-"`          // nil when no reset in flight
	ResetTokenExpiry *time.Time `json:"-"`
	CreatedAt        time.Time  `json:"created_at"`
}

func (User) TableName() string { return "users" }

type ReadingHistory struct {
	HistoryID       int       `gorm:"column:history_id;primaryKey;autoIncrement" json:"history_id"`
	UserID          int       `gorm:"not null;index" json:"user_id"`
	User            User      `gorm:"foreignKey:UserID;references:UserID;constraint:OnDelete:CASCADE" json:"-"`
	ArticleID       string    `gorm:"size:255" json:"article_id"`
	ArticleTitle    string    `gorm:"type:text;not null" json:"article_title"`
	ArticleCategory string    `gorm:"size:100" json:"article_category"`
	ArticleSource   string    `gorm:"size:100" json:"article_source"`
	Description     string    `gorm:"type:text" json:"description"`
	Content         string    `gorm:"type:text" json:"content"`
	ImageURL        string    `gorm:"type:text" json:"image_url"`
	Link            string    `gorm:"type:text" json:"link"`
	PubDate         time.Time `gorm:"column:pubDate" json:"pubDate"`
	ReadAt          time.Time `gorm:"autoCreateTime" json:"read_at"`
}

func (ReadingHistory) TableName() string { return "reading_history" }

type Favorite struct {
	FavoriteID      int       `gorm:"column:favorite_id;primaryKey;autoIncrement" json:"favorite_id"`
	UserID          int       `gorm:"not null;index" json:"user_id"`
	User            User      `gorm:"foreignKey:UserID;references:UserID;constraint:OnDelete:CASCADE" json:"-"`
	ArticleID       string    `gorm:"size:255;index" json:"article_id"`
	ArticleTitle    string    `gorm:"type:text;not null" json:"article_title"`
	ArticleCategory string    `gorm:"size:100" json:"article_category"`
	ArticleSource   string    `gorm:"size:100" json:"article_source"`
	ArticleImage    string    `gorm:"type:text" json:"article_image"`
	ArticleURL      string    `gorm:"type:text" json:"article_url"`
	Description     string    `gorm:"type:text" json:"description"`
	PubDate         time.Time `gorm:"column:pubDate" json:"pubDate"`
	SavedAt         time.Time `gorm:"autoCreateTime" json:"saved_at"`
}

func (Favorite) TableName() string { return "favorites" }

type SearchHistory struct {
	SearchID      int       `gorm:"column:search_id;primaryKey;autoIncrement" json:"search_id"`
	UserID        int       `gorm:"not null;index" json:"user_id"`
	User          User      `gorm:"foreignKey:UserID;references:UserID;constraint:OnDelete:CASCADE" json:"-"`
	SearchQuery   string    `gorm:"type:text;not null" json:"search_query"`
	SearchResults int       `gorm:"default:0" json:"search_results"`
	SearchedAt    time.Time `gorm:"autoCreateTime" json:"searched_at"`
}

func (SearchHistory) TableName() string { return "search_history" }
