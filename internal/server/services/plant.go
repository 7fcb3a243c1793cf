package services

import (
	"context"
	"database/sql"

	"github.com/florify/florify/internal/dbx"
	"github.com/florify/florify/internal/logging"
	"github.com/florify/florify/internal/server/config"
	"github.com/florify/florify/internal/server/models"
	"github.com/florify/florify/internal/server/repositories/repomanager"
)

// PlantService stores plants and aggregates their sensor readings.
type PlantService struct {
	store
}

func NewPlantService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config, log logging.Logger) *PlantService {
	return &PlantService{store: newStore(db, m, cfg, log)}
}

func (s *PlantService) ListPlants(ctx context.Context, userID int64) ([]models.Plant, error) {
	ctx, cancel := s.opContext(ctx)
	defer cancel()

	list, err := s.repomanager.Plants(s.db).ListByUser(ctx, userID)
	if err != nil {
		return nil, dbx.Classify(err)
	}
	return list, nil
}

func (s *PlantService) GetPlant(ctx context.Context, id int64) (*models.Plant, error) {
	ctx, cancel := s.opContext(ctx)
	defer cancel()

	p, err := s.repomanager.Plants(s.db).GetByID(ctx, id)
	if err != nil {
		return nil, dbx.Classify(err)
	}
	return p, nil
}

func (s *PlantService) CreatePlant(ctx context.Context, p models.NewPlant) (*models.Plant, error) {
	if err := s.validator.Plant(p); err != nil {
		return nil, err
	}

	ctx, cancel := s.opContext(ctx)
	defer cancel()

	out, err := dbx.InTx(ctx, s.db, func(ctx context.Context, tx dbx.DBTX) (*models.Plant, error) {
		repo := s.repomanager.Plants(tx)
		id, err := repo.Create(ctx, p)
		if err != nil {
			return nil, err
		}
		return repo.GetByID(ctx, id)
	})
	if err != nil {
		return nil, dbx.Classify(err)
	}

	s.log.Info(ctx, "plant created", "plant_id", out.ID, "user_id", out.UserID)
	return out, nil
}

func (s *PlantService) UpdatePlant(ctx context.Context, id int64, u models.PlantUpdate) (*models.Plant, error) {
	if err := s.validator.PlantUpdate(u); err != nil {
		return nil, err
	}

	ctx, cancel := s.opContext(ctx)
	defer cancel()

	out, err := dbx.InTx(ctx, s.db, func(ctx context.Context, tx dbx.DBTX) (*models.Plant, error) {
		repo := s.repomanager.Plants(tx)
		if err := repo.Update(ctx, id, u); err != nil {
			return nil, err
		}
		return repo.GetByID(ctx, id)
	})
	if err != nil {
		return nil, dbx.Classify(err)
	}
	return out, nil
}

// DeletePlant removes the plant and, by cascade, its readings.
func (s *PlantService) DeletePlant(ctx context.Context, id int64) error {
	ctx, cancel := s.opContext(ctx)
	defer cancel()

	if err := s.repomanager.Plants(s.db).Delete(ctx, id); err != nil {
		return dbx.Classify(err)
	}
	s.log.Info(ctx, "plant deleted", "plant_id", id)
	return nil
}

// GetPlantWithReadings loads a plant and its readings grouped into the
// temp, lux, humidity and ph buckets. A missing plant yields
// common.ErrorNotFound. Readings of unknown type are dropped with a warning.
func (s *PlantService) GetPlantWithReadings(ctx context.Context, id int64) (*models.PlantWithReadings, error) {
	ctx, cancel := s.opContext(ctx)
	defer cancel()

	p, err := s.repomanager.Plants(s.db).GetByID(ctx, id)
	if err != nil {
		return nil, dbx.Classify(err)
	}

	readings, err := s.repomanager.Readings(s.db).ListByPlant(ctx, id)
	if err != nil {
		return nil, dbx.Classify(err)
	}

	buckets, skipped := models.GroupReadings(readings)
	if skipped > 0 {
		s.log.Warn(ctx, "skipped readings of unknown type", "plant_id", id, "count", skipped)
	}

	return &models.PlantWithReadings{Plant: *p, Readings: buckets}, nil
}

// RecordReading appends a reading and returns its id. An unknown plant
// yields common.ErrorNotFound.
func (s *PlantService) RecordReading(ctx context.Context, r models.NewReading) (int64, error) {
	if err := s.validator.Reading(r); err != nil {
		return 0, err
	}

	ctx, cancel := s.opContext(ctx)
	defer cancel()

	id, err := s.repomanager.Readings(s.db).Create(ctx, r)
	if err != nil {
		return 0, dbx.Classify(err)
	}
	return id, nil
}
