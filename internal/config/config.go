package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"sync"
)

// Reward is the stardust granted the first time a constellation is solved.
type Reward struct {
	ConstellationID string `json:"constellation_id"`
	Stardust        int64  `json:"stardust"`
}

type GameConfig struct {
	PickRadius      float64 `json:"pick_radius"`
	CanvasSize      float64 `json:"canvas_size"`
	BackgroundStars int     `json:"background_stars"`
	DefaultLanguage string  `json:"default_language"`
	// MaxPlayersPerMatch caps how many private sessions one match hosts.
	MaxPlayersPerMatch int      `json:"max_players_per_match"`
	TickRate           int      `json:"tick_rate"`
	DefaultReward      int64    `json:"default_reward"`
	Rewards            []Reward `json:"rewards"`
	ReceiptIssuer      string   `json:"receipt_issuer"`
	ReceiptTTLSeconds  int      `json:"receipt_ttl_seconds"`
}

// Defaults returns the configuration used when no file is available.
func Defaults() GameConfig {
	return GameConfig{
		PickRadius:         15,
		CanvasSize:         300,
		BackgroundStars:    100,
		DefaultLanguage:    "en",
		MaxPlayersPerMatch: 8,
		TickRate:           10,
		DefaultReward:      50,
		ReceiptIssuer:      "cosmic-explorer",
		ReceiptTTLSeconds:  7 * 24 * 3600,
	}
}

var (
	cfg      *GameConfig
	loadOnce sync.Once
	loadErr  error
)

// Load reads a config file over Defaults and sanitizes out-of-range values.
func Load(path string) (*GameConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read game config: %w", err)
	}

	c := Defaults()
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("failed to unmarshal game config: %w", err)
	}
	c.fillDefaults()
	return &c, nil
}

// LoadGameConfig loads the process-wide configuration from the given path once.
func LoadGameConfig(path string) error {
	loadOnce.Do(func() {
		cfg, loadErr = Load(path)
	})
	return loadErr
}

// GetGameConfig returns the process-wide configuration, or Defaults if none was loaded.
func GetGameConfig() *GameConfig {
	if cfg == nil {
		d := Defaults()
		return &d
	}
	return cfg
}

// GetReward returns the stardust for a constellation, or the default reward if not listed.
func (c *GameConfig) GetReward(constellationID string) int64 {
	for _, r := range c.Rewards {
		if r.ConstellationID == constellationID {
			return r.Stardust
		}
	}
	return c.DefaultReward
}

// WithEnv returns a copy of c with Nakama runtime env overrides applied.
// Unparseable values are ignored.
func (c *GameConfig) WithEnv(env map[string]string) *GameConfig {
	out := *c
	out.Rewards = append([]Reward(nil), c.Rewards...)

	if val, ok := env["constellation_pick_radius"]; ok {
		if f, err := strconv.ParseFloat(val, 64); err == nil && f > 0 {
			out.PickRadius = f
		}
	}
	if val, ok := env["constellation_background_stars"]; ok {
		if i, err := strconv.Atoi(val); err == nil && i >= 0 {
			out.BackgroundStars = i
		}
	}
	if val, ok := env["constellation_max_players"]; ok {
		if i, err := strconv.Atoi(val); err == nil && i > 0 {
			out.MaxPlayersPerMatch = i
		}
	}
	if val, ok := env["constellation_default_language"]; ok && val != "" {
		out.DefaultLanguage = val
	}
	if val, ok := env["constellation_receipt_issuer"]; ok && val != "" {
		out.ReceiptIssuer = val
	}
	return &out
}

func (c *GameConfig) fillDefaults() {
	d := Defaults()
	if c.PickRadius <= 0 {
		c.PickRadius = d.PickRadius
	}
	if c.CanvasSize <= 0 {
		c.CanvasSize = d.CanvasSize
	}
	if c.BackgroundStars < 0 {
		c.BackgroundStars = d.BackgroundStars
	}
	if c.DefaultLanguage == "" {
		c.DefaultLanguage = d.DefaultLanguage
	}
	if c.MaxPlayersPerMatch <= 0 {
		c.MaxPlayersPerMatch = d.MaxPlayersPerMatch
	}
	if c.TickRate <= 0 || c.TickRate > 60 {
		c.TickRate = d.TickRate
	}
	if c.ReceiptIssuer == "" {
		c.ReceiptIssuer = d.ReceiptIssuer
	}
	if c.ReceiptTTLSeconds <= 0 {
		c.ReceiptTTLSeconds = d.ReceiptTTLSeconds
	}
}
