package lookup

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/heartmarshall/myvocab-backend/internal/domain"
)

const (
	defaultSearchLimit = 25
	maxSearchLimit     = 50
)

// SearchUnits lists learning units whose label or stem contains query,
// newest first. An empty query lists the newest units.
func (s *Service) SearchUnits(ctx context.Context, query string, limit int) ([]domain.UnitSummary, error) {
	units, err := s.units.Search(ctx, query, clampLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("search units: %w", err)
	}
	return units, nil
}

// GetUnitDetail returns a unit with its stem and the graph of its
// representative entry.
func (s *Service) GetUnitDetail(ctx context.Context, unitID uuid.UUID) (*domain.UnitDetail, error) {
	unit, err := s.units.GetByID(ctx, unitID)
	if err != nil {
		return nil, fmt.Errorf("get unit: %w", err)
	}

	stem, err := s.entries.GetStem(ctx, unit.StemID)
	if err != nil {
		return nil, fmt.Errorf("get stem: %w", err)
	}

	graph, err := s.entries.GetGraph(ctx, unit.RepresentativeEntryID)
	if err != nil {
		return nil, fmt.Errorf("get entry graph: %w", err)
	}

	return &domain.UnitDetail{Unit: *unit, Stem: *stem, Graph: graph}, nil
}

func clampLimit(limit int) int {
	switch {
	case limit <= 0:
		return defaultSearchLimit
	case limit > maxSearchLimit:
		return maxSearchLimit
	}
	return limit
}
