package component

import (
	"errors"
	"fmt"
	"strings"
)

var ErrUnknownTowerKind = errors.New("ecs: unknown tower kind")

// TowerKind is the closed set of tower variants. All kinds share targeting;
// they differ only in the bullet they fire.
type TowerKind uint8

const (
	TowerBasic TowerKind = iota
	TowerTomato
	TowerPotato
	TowerCabbage

	TowerKindCount = int(TowerCabbage) + 1
)

var towerKindNames = [TowerKindCount]string{
	TowerBasic:   "basic",
	TowerTomato:  "tomato",
	TowerPotato:  "potato",
	TowerCabbage: "cabbage",
}

func (k TowerKind) String() string {
	if !k.Valid() {
		return fmt.Sprintf("TowerKind(%d)", uint8(k))
	}
	return towerKindNames[k]
}

func (k TowerKind) Valid() bool {
	return int(k) < TowerKindCount
}

func (k TowerKind) MarshalText() ([]byte, error) {
	if !k.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownTowerKind, uint8(k))
	}
	return []byte(k.String()), nil
}

func (k *TowerKind) UnmarshalText(text []byte) error {
	parsed, err := ParseTowerKind(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// ParseTowerKind is case-insensitive.
func ParseTowerKind(s string) (TowerKind, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for i, n := range towerKindNames {
		if n == name {
			return TowerKind(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownTowerKind, s)
}

func TowerKinds() []TowerKind {
	out := make([]TowerKind, 0, TowerKindCount)
	for i := 0; i < TowerKindCount; i++ {
		out = append(out, TowerKind(i))
	}
	return out
}

// BulletProfile is what a tower kind fires.
type BulletProfile struct {
	Speed  float64
	Model  string
	Damage int
}

// TowerKindTable maps every tower kind to its bullet profile.
type TowerKindTable [TowerKindCount]BulletProfile

func DefaultTowerKinds() TowerKindTable {
	return TowerKindTable{
		TowerBasic:   {Speed: 5.5, Model: "bullet_basic", Damage: 1},
		TowerTomato:  {Speed: 4.5, Model: "bullet_tomato", Damage: 1},
		TowerPotato:  {Speed: 6.5, Model: "bullet_potato", Damage: 1},
		TowerCabbage: {Speed: 3.0, Model: "bullet_cabbage", Damage: 1},
	}
}

func (t *TowerKindTable) Lookup(k TowerKind) (BulletProfile, error) {
	if t == nil || !k.Valid() {
		return BulletProfile{}, fmt.Errorf("%w: %s", ErrUnknownTowerKind, k)
	}
	return t[k], nil
}

func (t *TowerKindTable) Validate() error {
	for i, p := range t {
		if p.Speed < 0 {
			return fmt.Errorf("tower kind %s: bullet speed %v is negative", TowerKind(i), p.Speed)
		}
		if p.Damage < 0 {
			return fmt.Errorf("tower kind %s: damage %d is negative", TowerKind(i), p.Damage)
		}
	}
	return nil
}
