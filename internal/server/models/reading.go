package models

import "time"

// Reading types as stored in the data table.
const (
	ReadingTemperature = "temperature"
	ReadingLux         = "lux"
	ReadingHumidity    = "humidity"
	ReadingPH          = "ph"
)

// Reading is a single sensor sample. Readings are append-only.
type Reading struct {
	ID        int64     `json:"id"`
	PlantID   int64     `json:"plantId"`
	Type      string    `json:"type"`
	Value     float64   `json:"value"`
	CreatedAt time.Time `json:"createdAt"`
}

type NewReading struct {
	PlantID int64   `json:"plantId" validate:"required,gt=0"`
	Type    string  `json:"type" validate:"required,oneof=temperature lux humidity ph"`
	Value   float64 `json:"value"`
}

// ReadingBuckets groups a plant's readings by type, each in stored order.
type ReadingBuckets struct {
	Temp     []Reading `json:"temp"`
	Lux      []Reading `json:"lux"`
	Humidity []Reading `json:"humidity"`
	PH       []Reading `json:"ph"`
}

// GroupReadings partitions readings into buckets, keeping their relative
// order. Readings of an unknown type are left out; their count is returned.
func GroupReadings(readings []Reading) (ReadingBuckets, int) {
	b := ReadingBuckets{
		Temp:     []Reading{},
		Lux:      []Reading{},
		Humidity: []Reading{},
		PH:       []Reading{},
	}
	skipped := 0
	for _, r := range readings {
		switch r.Type {
		case ReadingTemperature:
			b.Temp = append(b.Temp, r)
		case ReadingLux:
			b.Lux = append(b.Lux, r)
		case ReadingHumidity:
			b.Humidity = append(b.Humidity, r)
		case ReadingPH:
			b.PH = append(b.PH, r)
		default:
			skipped++
		}
	}
	return b, skipped
}
