package progress

import (
	"context"
	"fmt"

	"constellation/internal/ports"
)

// RewardFunc returns the stardust granted for a first solve of a constellation.
type RewardFunc func(constellationID string) int64

// Result captures the outcome of recording a completion.
type Result struct {
	FirstSolve bool
	Stardust   int64
	// RewardErr is set when the solve was recorded but the stardust grant failed.
	RewardErr error
}

// Service records solved constellations and pays first-solve rewards.
type Service struct {
	progress ports.ProgressPort
	economy  ports.EconomyPort
	reward   RewardFunc
}

// NewService constructs a progress service. economy and reward may be nil to
// disable stardust rewards.
func NewService(progress ports.ProgressPort, economy ports.EconomyPort, reward RewardFunc) *Service {
	return &Service{progress: progress, economy: economy, reward: reward}
}

// RecordCompletion marks a constellation solved and grants stardust only the first time.
func (s *Service) RecordCompletion(ctx context.Context, userID, constellationID string) (Result, error) {
	if s.progress == nil {
		return Result{}, fmt.Errorf("progress service not configured")
	}
	if userID == "" || constellationID == "" {
		return Result{}, fmt.Errorf("user and constellation are required")
	}

	first, err := s.progress.MarkSolved(ctx, userID, constellationID)
	if err != nil {
		return Result{}, fmt.Errorf("failed to record completion: %w", err)
	}
	result := Result{FirstSolve: first}
	if !first || s.economy == nil || s.reward == nil {
		return result, nil
	}

	amount := s.reward(constellationID)
	if amount <= 0 {
		return result, nil
	}
	grant := ports.StardustGrant{
		UserID: userID,
		Amount: amount,
		Metadata: map[string]interface{}{
			"reason":           "first_solve",
			"constellation_id": constellationID,
		},
	}
	if err := s.economy.Grant(ctx, []ports.StardustGrant{grant}); err != nil {
		// The solve is recorded; the grant is reported but not retried here.
		result.RewardErr = err
		return result, nil
	}
	result.Stardust = amount
	return result, nil
}

// Solved lists the constellations the user has solved.
func (s *Service) Solved(ctx context.Context, userID string) ([]string, error) {
	if s.progress == nil {
		return nil, fmt.Errorf("progress service not configured")
	}
	ids, err := s.progress.Solved(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list progress: %w", err)
	}
	return ids, nil
}
