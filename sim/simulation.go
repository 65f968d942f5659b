package sim

import (
	"context"
	"fmt"

	"github.com/milk9111/towersim/common"
	"github.com/milk9111/towersim/ecs"
	"github.com/milk9111/towersim/ecs/component"
	"github.com/milk9111/towersim/ecs/entity"
	"github.com/milk9111/towersim/ecs/system"
	"github.com/milk9111/towersim/internal/logging"
)

// Simulation owns a world and the fixed system pipeline that advances it.
// It is not safe for concurrent use; hosts drive it from one goroutine (see
// Runner) and hand Snapshots to anything else.
type Simulation struct {
	cfg       Config
	world     *ecs.World
	scheduler *ecs.Scheduler
	log       logging.Logger

	firing    *system.TowerFiringSystem
	collision *system.CollisionSystem
	reward    *system.RewardListener

	elapsed float64
}

type Option func(*Simulation)

func WithLogger(l logging.Logger) Option {
	return func(s *Simulation) { s.log = logging.OrNoop(l) }
}

func New(cfg Config, opts ...Option) (*Simulation, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	s := &Simulation{
		cfg:   cfg,
		world: ecs.NewWorld(),
		log:   logging.Noop(),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.firing = system.NewTowerFiringSystem(cfg.Kinds, cfg.BulletLifetime)
	s.collision = system.NewCollisionSystem(cfg.HitRadius)
	s.reward = system.NewRewardListener(cfg.KillReward)

	s.scheduler = ecs.NewScheduler(
		s.firing,
		system.NewBulletMovementSystem(),
		system.NewTargetMovementSystem(),
		system.NewLifetimeSystem(),
		s.collision,
		system.NewDeathSystem(),
	)
	s.reward.Subscribe(s.world)
	s.world.Events().Subscribe(system.TargetDied, s.logKill)

	return s, nil
}

// Advance runs one tick of dt seconds. It panics on a negative dt.
func (s *Simulation) Advance(dt float64) {
	s.scheduler.Tick(s.world, dt)
	s.elapsed += dt
}

func (s *Simulation) World() *ecs.World { return s.world }

func (s *Simulation) Config() Config { return s.cfg }

func (s *Simulation) Tick() uint64 { return s.world.Tick() }

// Elapsed is the simulated time in seconds.
func (s *Simulation) Elapsed() float64 { return s.elapsed }

// Reconfigure swaps in new tuning between ticks. Bullets and towers already
// in the world keep the values they were created with.
func (s *Simulation) Reconfigure(cfg Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	s.cfg = cfg
	s.firing.Kinds = cfg.Kinds
	s.firing.BulletLifetime = cfg.BulletLifetime
	s.collision.HitRadius = cfg.HitRadius
	s.reward.Reward = cfg.KillReward
	s.log.Info(context.Background(), "simulation reconfigured",
		logging.Float64("tower_cooldown", cfg.TowerCooldown),
		logging.Float64("bullet_lifetime", cfg.BulletLifetime),
		logging.Int("kill_reward", cfg.KillReward),
	)
	return nil
}

// Subscribe registers l for events of type t, delivered in the event phase
// of the tick that raised them.
func (s *Simulation) Subscribe(t ecs.EventType, l ecs.Listener) {
	s.world.Events().Subscribe(t, l)
}

// SpawnTower queues a tower with the configured cooldown and no offset. It
// appears in the world at the start of the next tick.
func (s *Simulation) SpawnTower(kind component.TowerKind, pos common.Vec3) (ecs.Entity, error) {
	e, err := entity.NewTower(s.world.Commands(), kind, pos, s.cfg.TowerCooldown)
	if err != nil {
		return 0, fmt.Errorf("sim: spawn tower: %w", err)
	}
	s.log.Info(context.Background(), "tower placed",
		logging.Stringer("kind", kind),
		logging.Stringer("entity", e),
		logging.Any("position", pos),
	)
	return e, nil
}

func (s *Simulation) SpawnTarget(pos common.Vec3, speed float64, health int) (ecs.Entity, error) {
	e, err := entity.NewTarget(s.world.Commands(), pos, speed, health)
	if err != nil {
		return 0, fmt.Errorf("sim: spawn target: %w", err)
	}
	s.log.Debug(context.Background(), "target spawned", logging.Stringer("entity", e), logging.Any("position", pos))
	return e, nil
}

func (s *Simulation) SpawnPlayer(money int) (ecs.Entity, error) {
	e, err := entity.NewPlayer(s.world.Commands(), money)
	if err != nil {
		return 0, fmt.Errorf("sim: spawn player: %w", err)
	}
	return e, nil
}

// Money returns the player's balance, or false when there is no player.
func (s *Simulation) Money() (int, bool) {
	e, ok := ecs.First(s.world, component.PlayerComponent.Kind())
	if !ok {
		return 0, false
	}
	p, ok := ecs.Get(s.world, e, component.PlayerComponent.Kind())
	if !ok {
		return 0, false
	}
	return p.Money, true
}

func (s *Simulation) logKill(w *ecs.World, evt ecs.Event) {
	money, _ := s.Money()
	s.log.Debug(context.Background(), "target killed",
		logging.Stringer("entity", evt.Entity),
		logging.Uint64("tick", w.Tick()),
		logging.Int("money", money),
	)
}
