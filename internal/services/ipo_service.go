package services

import (
	"context"
	"fmt"
	"time"

	"github.com/parshjain/stockdesk/internal/models"
)

// IpoService serves IPO listings from the externally populated store.
type IpoService struct {
	dbm          ConnectionEnsurer
	queryTimeout time.Duration
}

func NewIpoService(dbm ConnectionEnsurer, queryTimeout time.Duration) *IpoService {
	return &IpoService{dbm: dbm, queryTimeout: queryTimeout}
}

// ListIpos returns IPO records newest-first, mapped onto the stable
// output schema. board filters by listing board ("main" or "sme"); empty
// returns all boards.
func (s *IpoService) ListIpos(ctx context.Context, board string) ([]models.IpoListing, error) {
	conn, err := s.dbm.Ensure(ctx)
	if err != nil {
		return nil, err
	}

	queryCtx, cancel := context.WithTimeout(ctx, s.queryTimeout)
	defer cancel()

	query := conn.WithContext(queryCtx).
		Model(&models.IpoRecord{}).
		Order("uploaded_at desc")
	if board != "" {
		query = query.Where("board = ?", board)
	}

	var records []models.IpoRecord
	if err := query.Find(&records).Error; err != nil {
		return nil, fmt.Errorf("querying ipo records: %w", err)
	}

	listings := make([]models.IpoListing, 0, len(records))
	for i := range records {
		listings = append(listings, records[i].ToAPI())
	}
	return listings, nil
}
