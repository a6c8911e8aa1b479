package brain

import "github.com/pkg/errors"

// Weights tune the move scorer. Only the qualitative ordering matters: the
// danger penalty has to dominate every other term put together.
type Weights struct {
	// DangerPenalty is subtracted when an opponent is within one move of the
	// destination.
	DangerPenalty float64 `yaml:"danger_penalty" json:"danger_penalty"`
	// EnemyWeight scales the normalized distance to the nearest opponent.
	EnemyWeight float64 `yaml:"enemy_weight" json:"enemy_weight"`
	// FoodWeight scales the normalized closeness of food.
	FoodWeight float64 `yaml:"food_weight" json:"food_weight"`
	// HungerMultiplier is applied to the food term when starvation is
	// closer than the nearest food plus HungerBuffer turns.
	HungerMultiplier float64 `yaml:"hunger_multiplier" json:"hunger_multiplier"`
	HungerBuffer     int     `yaml:"hunger_buffer" json:"hunger_buffer"`
	// SpaceWeight scales the share of open space a move keeps.
	SpaceWeight float64 `yaml:"space_weight" json:"space_weight"`
}

// DefaultWeights returns the weights the snake plays with.
func DefaultWeights() Weights {
	return Weights{
		DangerPenalty:    100,
		EnemyWeight:      1,
		FoodWeight:       1,
		HungerMultiplier: 4,
		HungerBuffer:     10,
		SpaceWeight:      1,
	}
}

// Validate checks the weights keep collision avoidance dominant.
func (w Weights) Validate() error {
	switch {
	case w.DangerPenalty < 0, w.EnemyWeight < 0, w.FoodWeight < 0, w.SpaceWeight < 0:
		return errors.New("brain: weights must not be negative")
	case w.HungerMultiplier < 1:
		return errors.Errorf("brain: hunger multiplier %v is below 1", w.HungerMultiplier)
	case w.HungerBuffer < 0:
		return errors.Errorf("brain: hunger buffer %d is negative", w.HungerBuffer)
	}
	if most := w.EnemyWeight + w.FoodWeight*w.HungerMultiplier + w.SpaceWeight; w.DangerPenalty <= most {
		return errors.Errorf("brain: danger penalty %v must exceed the largest positive score %v", w.DangerPenalty, most)
	}
	return nil
}
