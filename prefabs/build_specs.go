package prefabs

import (
	"fmt"

	"github.com/milk9111/towersim/ecs/component"
)

// BuildTowerKinds overlays the kinds listed in spec on the built-in table.
// Kinds the spec does not mention keep their defaults.
func BuildTowerKinds(spec *TowersSpec) (component.TowerKindTable, error) {
	table := component.DefaultTowerKinds()
	if spec == nil {
		return table, nil
	}

	seen := make(map[component.TowerKind]bool, len(spec.Kinds))
	for i, ks := range spec.Kinds {
		kind, err := component.ParseTowerKind(ks.Kind)
		if err != nil {
			return table, fmt.Errorf("prefabs: %s kinds[%d]: %w", TowersFile, i, err)
		}
		if seen[kind] {
			return table, fmt.Errorf("prefabs: %s kinds[%d]: duplicate kind %s", TowersFile, i, kind)
		}
		seen[kind] = true

		profile := table[kind]
		if ks.Speed != nil {
			profile.Speed = *ks.Speed
		}
		if ks.Model != "" {
			profile.Model = ks.Model
		}
		if ks.Damage != nil {
			profile.Damage = *ks.Damage
		}
		table[kind] = profile
	}

	if err := table.Validate(); err != nil {
		return table, fmt.Errorf("prefabs: %s: %w", TowersFile, err)
	}
	return table, nil
}
