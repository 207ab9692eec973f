package handlers

import (
	"context"

	"github.com/shawnadoherty9/travelogie-sub001/dto"
)

type ImportServiceInterface interface {
	ImportCSV(ctx context.Context, text, country string) (*dto.ImportSummary, error)
	ImportRows(ctx context.Context, rows []dto.ImportSourceRow, country string) (*dto.ImportSummary, error)
	ImportObject(ctx context.Context, objectKey, country string) (*dto.ImportSummary, error)
}

type RateLimitServiceInterface interface {
	IsAllowed(ctx context.Context, identifier, endpoint string) *dto.RateLimitInfo
	ListConfigs() []dto.RateLimitConfigResponse
	Stats(ctx context.Context) (*dto.RateLimitStats, error)
	Reset(ctx context.Context, identifier, endpoint string) error
	UpdateConfig(ctx context.Context, endpoint string, req dto.UpdateRateLimitConfigRequest) (*dto.RateLimitConfigResponse, error)
}
