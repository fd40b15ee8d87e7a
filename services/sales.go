package services

import (
	"context"
	"fmt"

	"realtimesales/database"
	"realtimesales/domain"
)

var _ domain.SalesMetricsService = &salesMetricsService{}

// SalesMetricsReader queries the sales history mirror
type SalesMetricsReader interface {
	GetSalesMetrics(ctx context.Context, request domain.SalesMetricRequest) ([]database.SalesMetricRow, error)
}

type salesMetricsService struct {
	reader SalesMetricsReader
}

func (s salesMetricsService) GetSalesMetrics(ctx context.Context, request *domain.SalesMetricRequest) (*domain.SalesMetricResponse, error) {
	rows, err := s.reader.GetSalesMetrics(ctx, *request)
	if err != nil {
		return &domain.SalesMetricResponse{
			Success: false,
			Message: "Failed to retrieve sales metrics: " + err.Error(),
			Metrics: nil,
		}, err
	}

	results := make([]domain.SalesMetricResult, len(rows))
	for i, row := range rows {
		results[i] = domain.SalesMetricResult{
			Bucket:  row.Bucket,
			Orders:  row.Orders,
			Units:   row.Units,
			Revenue: row.Revenue,
		}
	}

	return &domain.SalesMetricResponse{
		Success: true,
		Message: "Sales metrics retrieved successfully",
		Metrics: results,
	}, nil
}

func NewSalesMetricsService(reader SalesMetricsReader) (domain.SalesMetricsService, error) {
	if reader == nil {
		return nil, fmt.Errorf("sales metrics reader cannot be nil")
	}
	return &salesMetricsService{reader: reader}, nil
}
