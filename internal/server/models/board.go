package models

import "time"

type Board struct {
	ID          int64     `json:"id"`
	OwnerID     int64     `json:"ownerId"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// NewBoard lists every column a board insert may set.
type NewBoard struct {
	OwnerID     int64  `json:"ownerId" validate:"required,gt=0"`
	Title       string `json:"title" validate:"required,max=50"`
	Description string `json:"description" validate:"max=80"`
}

// BoardUpdate lists every column a board update may set. Nil fields are left
// unchanged.
type BoardUpdate struct {
	Title       *string `json:"title,omitempty" validate:"omitempty,min=1,max=50"`
	Description *string `json:"description,omitempty" validate:"omitempty,max=80"`
}
