package predict

import (
	"context"
	"fmt"
)

// Service ties the predictor client to the model cache: predictions
// require the region model to be loaded first, and a retrain
// invalidates the cached handle.
type Service struct {
	client *Client
	cache  *ModelCache
}

func NewService(client *Client) *Service {
	return &Service{
		client: client,
		cache:  NewModelCache(client.LoadModel),
	}
}

// Predict ensures the region model is loaded, then runs inference.
func (s *Service) Predict(ctx context.Context, regionKey string) (*Prediction, error) {
	if _, err := s.cache.Get(ctx, regionKey); err != nil {
		return nil, fmt.Errorf("load model for %s: %w", regionKey, err)
	}

	pred, err := s.client.Predict(ctx, regionKey)
	if err != nil {
		return nil, fmt.Errorf("predict for %s: %w", regionKey, err)
	}

	return pred, nil
}

// Retrain triggers a retrain and drops the stale cached model.
func (s *Service) Retrain(ctx context.Context, regionKey string) (*ModelInfo, error) {
	info, err := s.client.Train(ctx, regionKey)
	if err != nil {
		return nil, fmt.Errorf("retrain for %s: %w", regionKey, err)
	}

	s.cache.Invalidate(regionKey)

	return info, nil
}
