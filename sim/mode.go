package sim

import "fmt"

// Mode is the host's game state. Only InGame advances the simulation.
type Mode int

const (
	Menu Mode = iota
	InGame
	Paused
)

func (m Mode) String() string {
	switch m {
	case Menu:
		return "menu"
	case InGame:
		return "in_game"
	case Paused:
		return "paused"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

func ParseMode(s string) (Mode, error) {
	switch s {
	case "menu":
		return Menu, nil
	case "in_game", "ingame", "play":
		return InGame, nil
	case "paused", "pause":
		return Paused, nil
	default:
		return Menu, fmt.Errorf("sim: unknown mode %q", s)
	}
}
