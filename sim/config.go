package sim

import (
	"errors"
	"fmt"

	"github.com/milk9111/towersim/ecs/component"
	"github.com/milk9111/towersim/ecs/system"
	"github.com/milk9111/towersim/prefabs"
)

const (
	DefaultTowerCooldown  = 1.0
	DefaultBulletLifetime = 5.5
	DefaultStartingMoney  = 100
	DefaultTargetSpeed    = 1.0
	DefaultTargetHealth   = 3
)

var ErrInvalidConfig = errors.New("sim: invalid config")

// Config is the tuning a Simulation runs with.
type Config struct {
	TowerCooldown  float64
	BulletLifetime float64
	HitRadius      float64
	KillReward     int
	StartingMoney  int
	TargetSpeed    float64
	TargetHealth   int
	Kinds          component.TowerKindTable
}

func DefaultConfig() Config {
	return Config{
		TowerCooldown:  DefaultTowerCooldown,
		BulletLifetime: DefaultBulletLifetime,
		HitRadius:      system.DefaultHitRadius,
		KillReward:     system.DefaultKillReward,
		StartingMoney:  DefaultStartingMoney,
		TargetSpeed:    DefaultTargetSpeed,
		TargetHealth:   DefaultTargetHealth,
		Kinds:          component.DefaultTowerKinds(),
	}
}

func (c Config) Validate() error {
	switch {
	case !(c.TowerCooldown > 0):
		return fmt.Errorf("%w: tower cooldown %v must be positive", ErrInvalidConfig, c.TowerCooldown)
	case !(c.BulletLifetime > 0):
		return fmt.Errorf("%w: bullet lifetime %v must be positive", ErrInvalidConfig, c.BulletLifetime)
	case !(c.HitRadius > 0):
		return fmt.Errorf("%w: hit radius %v must be positive", ErrInvalidConfig, c.HitRadius)
	case c.KillReward < 0:
		return fmt.Errorf("%w: kill reward %d is negative", ErrInvalidConfig, c.KillReward)
	case c.StartingMoney < 0:
		return fmt.Errorf("%w: starting money %d is negative", ErrInvalidConfig, c.StartingMoney)
	case c.TargetSpeed < 0:
		return fmt.Errorf("%w: target speed %v is negative", ErrInvalidConfig, c.TargetSpeed)
	case c.TargetHealth <= 0:
		return fmt.Errorf("%w: target health %d must be positive", ErrInvalidConfig, c.TargetHealth)
	}
	if err := c.Kinds.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return nil
}

// ConfigFromSpecs layers the prefab specs over DefaultConfig. Fields left
// out of the YAML keep the default; explicit values, zero included, are
// applied and then validated.
func ConfigFromSpecs(simSpec *prefabs.SimSpec, towers *prefabs.TowersSpec) (Config, error) {
	cfg := DefaultConfig()

	kinds, err := prefabs.BuildTowerKinds(towers)
	if err != nil {
		return cfg, err
	}
	cfg.Kinds = kinds

	if s := simSpec; s != nil {
		override(&cfg.TowerCooldown, s.TowerCooldown)
		override(&cfg.BulletLifetime, s.BulletLifetime)
		override(&cfg.HitRadius, s.HitRadius)
		override(&cfg.KillReward, s.KillReward)
		override(&cfg.StartingMoney, s.StartingMoney)
		override(&cfg.TargetSpeed, s.TargetSpeed)
		override(&cfg.TargetHealth, s.TargetHealth)
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func override[T any](dst *T, v *T) {
	if v != nil {
		*dst = *v
	}
}

// LoadConfig reads sim.yaml and towers.yaml through the prefab loader.
func LoadConfig() (Config, *prefabs.SimSpec, error) {
	simSpec, err := prefabs.LoadSimSpec()
	if err != nil {
		return Config{}, nil, err
	}
	towers, err := prefabs.LoadTowersSpec()
	if err != nil {
		return Config{}, nil, err
	}
	cfg, err := ConfigFromSpecs(simSpec, towers)
	if err != nil {
		return Config{}, nil, err
	}
	return cfg, simSpec, nil
}
