package models

import "time"

// Plant is a monitored plant. Threshold bounds are optional; a nil bound is
// not checked.
type Plant struct {
	ID          int64     `json:"id"`
	UserID      int64     `json:"userId"`
	Nickname    string    `json:"nickname"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	MaxTemp     *float64  `json:"maxtemp"`
	MinTemp     *float64  `json:"mintemp"`
	MaxPH       *float64  `json:"maxph"`
	MinPH       *float64  `json:"minph"`
	MaxHum      *float64  `json:"maxhum"`
	MinHum      *float64  `json:"minhum"`
	MaxLux      *float64  `json:"maxlux"`
	MinLux      *float64  `json:"minlux"`
	PhotoKey    *string   `json:"photoKey,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// PlantWithReadings is a plant together with its readings grouped by type.
type PlantWithReadings struct {
	Plant
	Readings ReadingBuckets `json:"readings"`
}

type NewPlant struct {
	UserID      int64    `json:"userId" validate:"required,gt=0"`
	Nickname    string   `json:"nickname" validate:"max=50"`
	Name        string   `json:"name" validate:"required,max=100"`
	Description string   `json:"description" validate:"max=500"`
	MaxTemp     *float64 `json:"maxtemp" validate:"omitempty"`
	MinTemp     *float64 `json:"mintemp" validate:"omitempty"`
	MaxPH       *float64 `json:"maxph" validate:"omitempty,gte=0,lte=14"`
	MinPH       *float64 `json:"minph" validate:"omitempty,gte=0,lte=14"`
	MaxHum      *float64 `json:"maxhum" validate:"omitempty,gte=0,lte=100"`
	MinHum      *float64 `json:"minhum" validate:"omitempty,gte=0,lte=100"`
	MaxLux      *float64 `json:"maxlux" validate:"omitempty,gte=0"`
	MinLux      *float64 `json:"minlux" validate:"omitempty,gte=0"`
}

type PlantUpdate struct {
	Nickname    *string  `json:"nickname,omitempty" validate:"omitempty,max=50"`
	Name        *string  `json:"name,omitempty" validate:"omitempty,min=1,max=100"`
	Description *string  `json:"description,omitempty" validate:"omitempty,max=500"`
	MaxTemp     *float64 `json:"maxtemp,omitempty" validate:"omitempty"`
	MinTemp     *float64 `json:"mintemp,omitempty" validate:"omitempty"`
	MaxPH       *float64 `json:"maxph,omitempty" validate:"omitempty,gte=0,lte=14"`
	MinPH       *float64 `json:"minph,omitempty" validate:"omitempty,gte=0,lte=14"`
	MaxHum      *float64 `json:"maxhum,omitempty" validate:"omitempty,gte=0,lte=100"`
	MinHum      *float64 `json:"minhum,omitempty" validate:"omitempty,gte=0,lte=100"`
	MaxLux      *float64 `json:"maxlux,omitempty" validate:"omitempty,gte=0"`
	MinLux      *float64 `json:"minlux,omitempty" validate:"omitempty,gte=0"`
}
