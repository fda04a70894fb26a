package households

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/Overland-East-Bay/household-fpl-api/internal/domain"
	"github.com/Overland-East-Bay/household-fpl-api/internal/ports/out/householdstore"
)

// Service implements the household use-cases on top of an opaque blob store.
// It holds no state between calls; every request re-validates and recomputes.
type Service struct {
	store      householdstore.Store
	guidelines domain.Guidelines

	newHouseholdID func() (domain.HouseholdID, error)
}

func NewService(store householdstore.Store, guidelines domain.Guidelines) *Service {
	return &Service{
		store:      store,
		guidelines: guidelines,
		newHouseholdID: func() (domain.HouseholdID, error) {
			// Version 1 ids are time/host based, matching the records already in circulation.
			id, err := uuid.NewUUID()
			if err != nil {
				return "", err
			}
			return domain.HouseholdID(id.String()), nil
		},
	}
}

// Guidelines returns the poverty guideline values the service computes with.
func (s *Service) Guidelines() domain.Guidelines {
	return s.guidelines
}

// SampleHousehold returns a fixed example household. It does not touch the store.
func (s *Service) SampleHousehold() domain.Household {
	return domain.SampleHousehold()
}

// CreateHousehold validates raw and stores its canonical form under a fresh id.
func (s *Service) CreateHousehold(ctx context.Context, raw []byte) (domain.HouseholdID, error) {
	h, err := domain.ValidateHousehold(raw)
	if err != nil {
		return "", validationError(err)
	}
	id, err := s.newHouseholdID()
	if err != nil {
		return "", fmt.Errorf("generate household id: %w", err)
	}
	if err := s.put(ctx, id, h); err != nil {
		return "", err
	}
	return id, nil
}

// GetHousehold returns the stored household. Missing or unreadable records are not-found.
func (s *Service) GetHousehold(ctx context.Context, id domain.HouseholdID) (domain.Household, error) {
	return s.load(ctx, id)
}

// UpdateHousehold validates raw and overwrites whatever is stored under id.
// Nothing from the previous version is carried over.
func (s *Service) UpdateHousehold(ctx context.Context, id domain.HouseholdID, raw []byte) (domain.Household, error) {
	h, err := domain.ValidateHousehold(raw)
	if err != nil {
		return domain.Household{}, validationError(err)
	}
	if err := s.put(ctx, id, h); err != nil {
		return domain.Household{}, err
	}
	return h, nil
}

// DeleteHousehold removes the record. Deleting an unknown id is not an error.
func (s *Service) DeleteHousehold(ctx context.Context, id domain.HouseholdID) error {
	if err := s.store.Delete(ctx, string(id)); err != nil {
		return fmt.Errorf("delete household %s: %w", id, err)
	}
	return nil
}

// HouseholdFPL returns the stored household's income as a fraction of its poverty guideline.
func (s *Service) HouseholdFPL(ctx context.Context, id domain.HouseholdID) (float64, error) {
	h, err := s.load(ctx, id)
	if err != nil {
		return 0, err
	}
	return s.guidelines.HouseholdFPL(h), nil
}

func (s *Service) put(ctx context.Context, id domain.HouseholdID, h domain.Household) error {
	b, err := json.Marshal(h)
	if err != nil {
		return fmt.Errorf("encode household: %w", err)
	}
	if err := s.store.Set(ctx, string(id), b); err != nil {
		return fmt.Errorf("store household %s: %w", id, err)
	}
	return nil
}

// load reads and re-validates a stored record. Bytes that do not validate are treated the
// same as a missing key so the calculator never sees inconsistent input.
func (s *Service) load(ctx context.Context, id domain.HouseholdID) (domain.Household, error) {
	b, err := s.store.Get(ctx, string(id))
	if err != nil {
		if errors.Is(err, householdstore.ErrNotFound) {
			return domain.Household{}, notFoundError(string(id), err)
		}
		return domain.Household{}, fmt.Errorf("load household %s: %w", id, err)
	}
	h, err := domain.ValidateHousehold(b)
	if err != nil {
		return domain.Household{}, notFoundError(string(id), err)
	}
	return h, nil
}
