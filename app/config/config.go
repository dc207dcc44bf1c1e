package config

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type ScoringCfg struct {
	AliasWeight          int `yaml:"alias_weight" json:"alias_weight"`
	TokenWeight          int `yaml:"token_weight" json:"token_weight"`
	ConfusingTokenWeight int `yaml:"confusing_token_weight" json:"confusing_token_weight"`
	BigramWeight         int `yaml:"bigram_weight" json:"bigram_weight"`
}

type GateCfg struct {
	AliasScoreFloor int     `yaml:"alias_score_floor" json:"alias_score_floor"`
	PlainScoreFloor int     `yaml:"plain_score_floor" json:"plain_score_floor"`
	MinMatchRatio   float64 `yaml:"min_match_ratio" json:"min_match_ratio"`
}

type FallbackCfg struct {
	Model     string `yaml:"model" json:"model"`
	TimeoutMs int    `yaml:"timeout_ms" json:"timeout_ms"`
}

type ResolverCfg struct {
	Scoring  ScoringCfg  `yaml:"scoring" json:"scoring"`
	Gate     GateCfg     `yaml:"gate" json:"gate"`
	Fallback FallbackCfg `yaml:"fallback" json:"fallback"`
}

var C ResolverCfg

// Defaults trả về tuning mặc định của resolver
func Defaults() ResolverCfg {
	return ResolverCfg{
		Scoring: ScoringCfg{
			AliasWeight:          500,
			TokenWeight:          10,
			ConfusingTokenWeight: 5,
			BigramWeight:         30,
		},
		Gate: GateCfg{
			AliasScoreFloor: 100,
			PlainScoreFloor: 40,
			MinMatchRatio:   0.4,
		},
		Fallback: FallbackCfg{
			Model:     "gemini-2.5-flash",
			TimeoutMs: 15000,
		},
	}
}

func Load(path string) error {
	C = Defaults()
	b, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := yaml.Unmarshal(b, &C); err != nil {
		return err
	}
	// ENV overrides
	if model := os.Getenv("GEMINI_MODEL"); model != "" {
		C.Fallback.Model = model
	}
	return nil
}

func FallbackTimeout() time.Duration {
	if C.Fallback.TimeoutMs <= 0 {
		return 15 * time.Second
	}
	return time.Duration(C.Fallback.TimeoutMs) * time.Millisecond
}
