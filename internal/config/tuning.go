package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/scythe504/stopgo-backend/internal"
)

// Tuning holds every gameplay constant. Durations are written as Go duration
// strings in YAML ("2s", "500ms").
type Tuning struct {
	MaxRounds     int           `yaml:"maxRounds"`
	RoundDuration time.Duration `yaml:"roundDuration"`

	StartLine       float64 `yaml:"startLine"`
	FinishLine      float64 `yaml:"finishLine"`
	BaseMove        float64 `yaml:"baseMove"`
	BoostMultiplier float64 `yaml:"boostMultiplier"`
	SlowMultiplier  float64 `yaml:"slowMultiplier"`
	PickupRadius    float64 `yaml:"pickupRadius"`

	EffectDuration       time.Duration `yaml:"effectDuration"`
	PenaltyFlashDuration time.Duration `yaml:"penaltyFlashDuration"`
	WinCelebrationDelay  time.Duration `yaml:"winCelebrationDelay"`

	QuizTimeout       time.Duration `yaml:"quizTimeout"`
	QuizCorrectPoints int           `yaml:"quizCorrectPoints"`
	QuizTimeoutPoints int           `yaml:"quizTimeoutPoints"`

	CountdownFrom int           `yaml:"countdownFrom"`
	CountdownStep time.Duration `yaml:"countdownStep"`

	GreenDwell  internal.DurationRange `yaml:"greenDwell"`
	YellowDwell internal.DurationRange `yaml:"yellowDwell"`
	RedDwell    internal.DurationRange `yaml:"redDwell"`

	FirstSpawnDelay    internal.DurationRange `yaml:"firstSpawnDelay"`
	NextSpawnDelay     internal.DurationRange `yaml:"nextSpawnDelay"`
	MaxItems           int                    `yaml:"maxItems"`
	MinItemDistance    float64                `yaml:"minItemDistance"`
	SpawnAheadDistance float64                `yaml:"spawnAheadDistance"`
	SpawnMinPosition   float64                `yaml:"spawnMinPosition"`
	SpawnFinishMargin  float64                `yaml:"spawnFinishMargin"`
	ItemLifetime       time.Duration          `yaml:"itemLifetime"`
	ItemFadeDuration   time.Duration          `yaml:"itemFadeDuration"`
}

func DefaultTuning() Tuning {
	return Tuning{
		MaxRounds:     internal.DefaultMaxRounds,
		RoundDuration: internal.DefaultRoundDuration,

		StartLine:       internal.StartLine,
		FinishLine:      internal.FinishLine,
		BaseMove:        internal.BaseMove,
		BoostMultiplier: internal.BoostMultiplier,
		SlowMultiplier:  internal.SlowMultiplier,
		PickupRadius:    internal.PickupRadius,

		EffectDuration:       internal.ItemEffectDuration,
		PenaltyFlashDuration: internal.PenaltyFlashDuration,
		WinCelebrationDelay:  internal.WinCelebrationDelay,

		QuizTimeout:       internal.QuizTimeout,
		QuizCorrectPoints: internal.QuizCorrectPoints,
		QuizTimeoutPoints: internal.QuizTimeoutPoints,

		CountdownFrom: internal.CountdownFrom,
		CountdownStep: internal.CountdownStep,

		GreenDwell:  internal.GreenDwell,
		YellowDwell: internal.YellowDwell,
		RedDwell:    internal.RedDwell,

		FirstSpawnDelay:    internal.FirstSpawnDelay,
		NextSpawnDelay:     internal.NextSpawnDelay,
		MaxItems:           internal.MaxItemsOnField,
		MinItemDistance:    internal.MinItemDistance,
		SpawnAheadDistance: internal.SpawnAheadDistance,
		SpawnMinPosition:   internal.SpawnMinPosition,
		SpawnFinishMargin:  internal.SpawnFinishMargin,
		ItemLifetime:       internal.ItemLifetime,
		ItemFadeDuration:   internal.ItemFadeDuration,
	}
}

// LoadTuning reads a YAML tuning file. Keys absent from the file keep their
// default values.
func LoadTuning(path string) (Tuning, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Tuning{}, fmt.Errorf("read tuning file: %w", err)
	}
	return ParseTuning(b)
}

func ParseTuning(b []byte) (Tuning, error) {
	t := DefaultTuning()
	if err := yaml.Unmarshal(b, &t); err != nil {
		return Tuning{}, fmt.Errorf("parse tuning: %w", err)
	}
	if err := t.Validate(); err != nil {
		return Tuning{}, err
	}
	return t, nil
}

func (t Tuning) Validate() error {
	var errs []error
	if t.MaxRounds < 1 {
		errs = append(errs, fmt.Errorf("maxRounds must be at least 1, got %d", t.MaxRounds))
	}
	if t.RoundDuration < time.Second {
		errs = append(errs, fmt.Errorf("roundDuration must be at least 1s, got %v", t.RoundDuration))
	}
	if t.StartLine >= t.FinishLine {
		errs = append(errs, fmt.Errorf("startLine %.1f must be below finishLine %.1f", t.StartLine, t.FinishLine))
	}
	if t.BaseMove <= 0 {
		errs = append(errs, fmt.Errorf("baseMove must be positive"))
	}
	if t.MaxItems < 0 {
		errs = append(errs, fmt.Errorf("maxItems must not be negative"))
	}
	if t.CountdownFrom < 0 {
		errs = append(errs, fmt.Errorf("countdownFrom must not be negative"))
	}
	if t.QuizCorrectPoints < 0 || t.QuizTimeoutPoints < 0 {
		errs = append(errs, fmt.Errorf("quiz points must not be negative"))
	}
	for name, r := range map[string]internal.DurationRange{
		"greenDwell":      t.GreenDwell,
		"yellowDwell":     t.YellowDwell,
		"redDwell":        t.RedDwell,
		"firstSpawnDelay": t.FirstSpawnDelay,
		"nextSpawnDelay":  t.NextSpawnDelay,
	} {
		if r.Min <= 0 || r.Max < r.Min {
			errs = append(errs, fmt.Errorf("%s range [%v, %v] invalid", name, r.Min, r.Max))
		}
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("invalid tuning: %w", err)
	}
	return nil
}
