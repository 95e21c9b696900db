package models

import (
	"time"

	"github.com/lib/pq"
)

const DefaultAvatarURL = "https://ac.goit.global/fullstack/react/default-avatar.jpg"

type User struct {
	UserID         string         `json:"id" db:"user_id"`
	Name           string         `json:"name" db:"name"`
	Email          string         `json:"email" db:"email"`
	PasswordHash   string         `json:"-" db:"password_hash"`
	AvatarURL      string         `json:"avatarUrl" db:"avatar_url"`
	Description    string         `json:"description" db:"description"`
	ArticlesAmount int            `json:"articlesAmount" db:"articles_amount"`
	SavedStories   pq.StringArray `json:"savedStories" db:"saved_stories"`
	CreatedAt      time.Time      `json:"createdAt" db:"created_at"`
	UpdatedAt      time.Time      `json:"updatedAt" db:"updated_at"`
}

// HasSaved reports whether storyID is in the user's saved set.
func (u *User) HasSaved(storyID string) bool {
	for _, id := range u.SavedStories {
		if id == storyID {
			return true
		}
	}
	return false
}

type Category struct {
	CategoryID string `json:"id" db:"category_id"`
	Name       string `json:"name" db:"name"`
}

type Story struct {
	StoryID       string    `json:"id" db:"story_id"`
	Img           string    `json:"img" db:"img"`
	Title         string    `json:"title" db:"title"`
	Article       string    `json:"article" db:"article"`
	CategoryID    string    `json:"categoryId" db:"category_id"`
	OwnerID       string    `json:"ownerId" db:"owner_id"`
	Date          string    `json:"date" db:"date"`
	FavoriteCount int       `json:"favoriteCount" db:"favorite_count"`
	CreatedAt     time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt     time.Time `json:"updatedAt" db:"updated_at"`
}

// Owner is the public projection of a story author.
type Owner struct {
	UserID    string `json:"id"`
	Name      string `json:"name"`
	AvatarURL string `json:"avatarUrl"`
}

// StoryView is a story with its category and owner resolved.
type StoryView struct {
	StoryID       string    `json:"id"`
	Img           string    `json:"img"`
	Title         string    `json:"title"`
	Article       string    `json:"article"`
	Category      Category  `json:"category"`
	Owner         Owner     `json:"owner"`
	Date          string    `json:"date"`
	FavoriteCount int       `json:"favoriteCount"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

type Session struct {
	SessionID              string    `json:"id" db:"session_id"`
	UserID                 string    `json:"userId" db:"user_id"`
	AccessToken            string    `json:"-" db:"access_token"`
	RefreshToken           string    `json:"-" db:"refresh_token"`
	AccessTokenValidUntil  time.Time `json:"accessTokenValidUntil" db:"access_token_valid_until"`
	RefreshTokenValidUntil time.Time `json:"refreshTokenValidUntil" db:"refresh_token_valid_until"`
	CreatedAt              time.Time `json:"createdAt" db:"created_at"`
}

func (s *Session) AccessExpired(now time.Time) bool {
	return now.After(s.AccessTokenValidUntil)
}

func (s *Session) RefreshExpired(now time.Time) bool {
	return now.After(s.RefreshTokenValidUntil)
}
