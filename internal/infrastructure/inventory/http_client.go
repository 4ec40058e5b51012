package inventory

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/shopspring/decimal"
	"github.com/sony/gobreaker"
	"go.uber.org/ratelimit"

	"github.com/ddleblanc/hypetrade/internal/core/domain"
	"github.com/ddleblanc/hypetrade/internal/core/ports"
	"github.com/ddleblanc/hypetrade/pkg/httputil"
)

const (
	maxNumOfFailingRequests = 10
	failingRatio            = 0.6
)

type service struct {
	apiURL  string
	limiter ratelimit.Limiter
	breaker *gobreaker.CircuitBreaker
}

type assetDTO struct {
	ID            string `json:"id"`
	DisplayName   string `json:"display_name"`
	ImageRef      string `json:"image_ref"`
	AssessedValue string `json:"assessed_value"`
	RarityTag     string `json:"rarity_tag"`
}

// NewService returns an AssetInventory client for the indexer reachable at
// apiURL, pacing requests at reqsPerSec and tripping a circuit breaker when
// the indexer keeps failing.
func NewService(apiURL string, reqsPerSec int) (ports.AssetInventory, error) {
	if len(apiURL) <= 0 {
		return nil, fmt.Errorf("missing inventory api url")
	}
	if reqsPerSec <= 0 {
		return nil, fmt.Errorf("requests per second must be a positive number")
	}

	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name: "inventory",
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			ratio := float64(counts.TotalFailures) / float64(counts.Requests)
			return int(counts.Requests) > maxNumOfFailingRequests &&
				ratio >= failingRatio
		},
	})

	return &service{
		apiURL:  apiURL,
		limiter: ratelimit.New(reqsPerSec),
		breaker: breaker,
	}, nil
}

func (s *service) OwnedAssets(
	ctx context.Context, address string,
) ([]domain.AssetRef, error) {
	s.limiter.Take()

	url := fmt.Sprintf("%s/assets/%s", s.apiURL, address)
	resp, err := s.breaker.Execute(func() (interface{}, error) {
		status, body, err := httputil.Get(ctx, url, nil)
		if err != nil {
			return nil, err
		}
		if status != http.StatusOK {
			return nil, fmt.Errorf("inventory responded with status %d", status)
		}
		return body, nil
	})
	if err != nil {
		return nil, err
	}

	var dtos []assetDTO
	if err := json.Unmarshal([]byte(resp.(string)), &dtos); err != nil {
		return nil, fmt.Errorf("invalid inventory response: %w", err)
	}

	assets := make([]domain.AssetRef, 0, len(dtos))
	for _, dto := range dtos {
		value, err := decimal.NewFromString(dto.AssessedValue)
		if err != nil {
			return nil, fmt.Errorf(
				"invalid assessed value for asset %s: %w", dto.ID, err,
			)
		}
		assets = append(assets, domain.AssetRef{
			ID:            dto.ID,
			DisplayName:   dto.DisplayName,
			ImageRef:      dto.ImageRef,
			AssessedValue: value,
			RarityTag:     dto.RarityTag,
		})
	}
	return assets, nil
}
