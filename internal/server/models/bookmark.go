package models

import "time"

type Bookmark struct {
	ID          int64     `json:"id"`
	BoardID     int64     `json:"boardId"`
	Title       string    `json:"title"`
	URL         string    `json:"url"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type NewBookmark struct {
	BoardID     int64  `json:"boardId"`
	Title       string `json:"title"`
	URL         string `json:"url"`
	Description string `json:"description"`
}

type BookmarkUpdate struct {
	Title       *string `json:"title,omitempty"`
	URL         *string `json:"url,omitempty"`
	Description *string `json:"description,omitempty"`
}
