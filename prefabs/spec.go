package prefabs

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

const (
	TowersFile = "towers.yaml"
	SimFile    = "sim.yaml"
)

// ErrEmptySpec is returned for a prefab file with no YAML document, such as
// one an editor has truncated mid-save.
var ErrEmptySpec = errors.New("prefabs: empty document")

func LoadSpec[T any](filename string) (T, error) {
	var zero T
	data, err := Load(filename)
	if err != nil {
		return zero, fmt.Errorf("prefabs: load %s: %w", filename, err)
	}
	return ParseSpec[T](filename, data)
}

// ParseSpec decodes data as a T. Unknown keys are rejected so a typo in a
// tuning file fails loudly instead of silently keeping the default.
func ParseSpec[T any](filename string, data []byte) (T, error) {
	var zero T
	var spec T
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&spec); err != nil {
		if errors.Is(err, io.EOF) {
			return zero, fmt.Errorf("%w: %s", ErrEmptySpec, filename)
		}
		return zero, fmt.Errorf("prefabs: unmarshal %s: %w", filename, err)
	}
	return spec, nil
}

// TowerKindSpec overrides one row of the tower-kind table. Nil fields and an
// empty model keep the built-in value.
type TowerKindSpec struct {
	Kind   string   `yaml:"kind"`
	Speed  *float64 `yaml:"speed"`
	Model  string   `yaml:"model"`
	Damage *int     `yaml:"damage"`
}

type TowersSpec struct {
	Name  string          `yaml:"name"`
	Kinds []TowerKindSpec `yaml:"kinds"`
}

func LoadTowersSpec() (*TowersSpec, error) {
	spec, err := LoadSpec[TowersSpec](TowersFile)
	if err != nil {
		return nil, err
	}
	return &spec, nil
}

// SimSpec holds simulation tuning. A key left out of the file is nil and
// keeps the default; an explicit 0 is applied as written.
type SimSpec struct {
	Name           string   `yaml:"name"`
	TickRate       *float64 `yaml:"tick_rate"`
	TowerCooldown  *float64 `yaml:"tower_cooldown"`
	BulletLifetime *float64 `yaml:"bullet_lifetime"`
	HitRadius      *float64 `yaml:"hit_radius"`
	KillReward     *int     `yaml:"kill_reward"`
	StartingMoney  *int     `yaml:"starting_money"`
	TargetSpeed    *float64 `yaml:"target_speed"`
	TargetHealth   *int     `yaml:"target_health"`
	Scene          string   `yaml:"scene"`
}

func LoadSimSpec() (*SimSpec, error) {
	spec, err := LoadSpec[SimSpec](SimFile)
	if err != nil {
		return nil, err
	}
	return &spec, nil
}
