// Package scene populates a simulation from a tengo script. Scripts get
// three functions:
//
//	spawn_tower(kind, x, y, z)
//	spawn_target(x, y, z[, speed, health])
//	spawn_player([money])
//
// plus a tower_kinds array and the tengo stdlib modules.
package scene

import (
	"context"
	"fmt"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"
	"github.com/milk9111/towersim/common"
	"github.com/milk9111/towersim/ecs"
	"github.com/milk9111/towersim/ecs/component"
	"github.com/milk9111/towersim/internal/logging"
	"github.com/milk9111/towersim/prefabs"
	"github.com/milk9111/towersim/sim"
)

// Spawner is the part of a simulation a scene can drive.
type Spawner interface {
	SpawnTower(kind component.TowerKind, pos common.Vec3) (ecs.Entity, error)
	SpawnTarget(pos common.Vec3, speed float64, health int) (ecs.Entity, error)
	SpawnPlayer(money int) (ecs.Entity, error)
	Config() sim.Config
}

// Result counts what a scene queued.
type Result struct {
	Towers  int
	Targets int
	Players int
}

// Run executes src. Spawns issued before a failing call stay queued.
func Run(ctx context.Context, sp Spawner, name string, src []byte, log logging.Logger) (Result, error) {
	log = logging.OrNoop(log)
	var res Result

	script := tengo.NewScript(src)
	script.SetImports(stdlib.GetModuleMap(stdlib.AllModuleNames()...))

	kinds := make([]any, 0, component.TowerKindCount)
	for _, k := range component.TowerKinds() {
		kinds = append(kinds, k.String())
	}
	if err := script.Add("tower_kinds", kinds); err != nil {
		return res, fmt.Errorf("scene: %s: %w", name, err)
	}
	for fname, fn := range builtins(sp, &res) {
		if err := script.Add(fname, fn); err != nil {
			return res, fmt.Errorf("scene: %s: %w", name, err)
		}
	}

	if _, err := script.RunContext(ctx); err != nil {
		return res, fmt.Errorf("scene: run %s: %w", name, err)
	}

	log.Info(ctx, "scene loaded",
		logging.String("scene", name),
		logging.Int("towers", res.Towers),
		logging.Int("targets", res.Targets),
		logging.Int("players", res.Players),
	)
	return res, nil
}

// Load reads name through the prefab loader and runs it.
func Load(ctx context.Context, sp Spawner, name string, log logging.Logger) (Result, error) {
	src, err := prefabs.LoadScript(name)
	if err != nil {
		return Result{}, fmt.Errorf("scene: load %s: %w", name, err)
	}
	return Run(ctx, sp, name, src, log)
}

func builtins(sp Spawner, res *Result) map[string]*tengo.UserFunction {
	return map[string]*tengo.UserFunction{
		"spawn_tower": {Name: "spawn_tower", Value: func(args ...tengo.Object) (tengo.Object, error) {
			if len(args) != 4 {
				return nil, tengo.ErrWrongNumArguments
			}
			name, ok := tengo.ToString(args[0])
			if !ok {
				return nil, tengo.ErrInvalidArgumentType{Name: "kind", Expected: "string", Found: args[0].TypeName()}
			}
			kind, err := component.ParseTowerKind(name)
			if err != nil {
				return nil, err
			}
			pos, err := vecArg(args[1:4])
			if err != nil {
				return nil, err
			}
			e, err := sp.SpawnTower(kind, pos)
			if err != nil {
				return nil, err
			}
			res.Towers++
			return entityObject(e), nil
		}},

		"spawn_target": {Name: "spawn_target", Value: func(args ...tengo.Object) (tengo.Object, error) {
			if len(args) != 3 && len(args) != 5 {
				return nil, tengo.ErrWrongNumArguments
			}
			pos, err := vecArg(args[0:3])
			if err != nil {
				return nil, err
			}
			cfg := sp.Config()
			speed, health := cfg.TargetSpeed, cfg.TargetHealth
			if len(args) == 5 {
				if speed, err = floatArg("speed", args[3]); err != nil {
					return nil, err
				}
				h, ok := tengo.ToInt(args[4])
				if !ok {
					return nil, tengo.ErrInvalidArgumentType{Name: "health", Expected: "int", Found: args[4].TypeName()}
				}
				health = h
			}
			e, err := sp.SpawnTarget(pos, speed, health)
			if err != nil {
				return nil, err
			}
			res.Targets++
			return entityObject(e), nil
		}},

		"spawn_player": {Name: "spawn_player", Value: func(args ...tengo.Object) (tengo.Object, error) {
			if len(args) > 1 {
				return nil, tengo.ErrWrongNumArguments
			}
			money := sp.Config().StartingMoney
			if len(args) == 1 {
				m, ok := tengo.ToInt(args[0])
				if !ok {
					return nil, tengo.ErrInvalidArgumentType{Name: "money", Expected: "int", Found: args[0].TypeName()}
				}
				money = m
			}
			e, err := sp.SpawnPlayer(money)
			if err != nil {
				return nil, err
			}
			res.Players++
			return entityObject(e), nil
		}},
	}
}

func vecArg(args []tengo.Object) (common.Vec3, error) {
	x, err := floatArg("x", args[0])
	if err != nil {
		return common.Vec3{}, err
	}
	y, err := floatArg("y", args[1])
	if err != nil {
		return common.Vec3{}, err
	}
	z, err := floatArg("z", args[2])
	if err != nil {
		return common.Vec3{}, err
	}
	return common.V3(x, y, z), nil
}

func floatArg(name string, obj tengo.Object) (float64, error) {
	f, ok := tengo.ToFloat64(obj)
	if !ok {
		return 0, tengo.ErrInvalidArgumentType{Name: name, Expected: "float", Found: obj.TypeName()}
	}
	return f, nil
}

func entityObject(e ecs.Entity) tengo.Object {
	return &tengo.Int{Value: int64(e)}
}
