package onboarding

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"constellation/internal/ports"
)

// Result captures non-fatal onboarding outcomes.
type Result struct {
	DisplayName string
	// ProfileUpdateErr is set when the profile update failed but onboarding continued.
	ProfileUpdateErr error
}

// Service handles post-auth onboarding for new users.
type Service struct {
	accounts ports.AccountPort
	progress ports.ProgressPort
	rng      *rand.Rand
	lang     string
}

// NewService constructs an onboarding service with required ports.
// accounts/progress must be non-nil; rng may be nil to use a time-seeded default.
func NewService(accounts ports.AccountPort, progress ports.ProgressPort, rng *rand.Rand, lang string) *Service {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if lang == "" {
		lang = "en"
	}
	return &Service{
		accounts: accounts,
		progress: progress,
		rng:      rng,
		lang:     lang,
	}
}

// OnboardNewUser gives a new account a stargazer name and an empty progress record.
// Returns a Result with any non-fatal issues and an error if the progress record cannot be created.
func (s *Service) OnboardNewUser(ctx context.Context, userID string) (Result, error) {
	if s.accounts == nil || s.progress == nil {
		return Result{}, fmt.Errorf("onboarding service not configured")
	}

	name := s.generateStargazerName()
	result := Result{DisplayName: name}
	profile := ports.Profile{Username: name, DisplayName: name, LangTag: s.lang}
	if err := s.accounts.UpdateProfile(ctx, userID, profile); err != nil {
		// Names are cosmetic; the progress record is what later RPCs depend on.
		result.ProfileUpdateErr = err
	}

	if err := s.progress.Init(ctx, userID); err != nil {
		return result, fmt.Errorf("failed to create progress record: %w", err)
	}

	return result, nil
}

func (s *Service) generateStargazerName() string {
	adjectives := []string{"Bright", "Distant", "Silent", "Swift", "Radiant", "Curious", "Wandering", "Cosmic", "Stellar", "Lunar"}
	nouns := []string{"Comet", "Nebula", "Quasar", "Pulsar", "Meteor", "Orbit", "Nova", "Galaxy", "Aurora", "Zenith"}

	adj := adjectives[s.rng.Intn(len(adjectives))]
	noun := nouns[s.rng.Intn(len(nouns))]
	num := s.rng.Intn(9000) + 1000

	return fmt.Sprintf("%s%s%d", adj, noun, num)
}
