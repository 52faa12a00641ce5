package herd

import "github.com/plus3/sheepdog/ecs"

// Control is one of the four directional controls.
type Control int

const (
	Up Control = iota
	Down
	Left
	Right
)

// Input is the pressed state of each control for the current tick. Hosts map
// their two bindings per control (W/ArrowUp, S/ArrowDown, A/ArrowLeft,
// D/ArrowRight) onto it.
type Input struct {
	Up, Down, Left, Right bool
}

func (in Input) Pressed(c Control) bool {
	switch c {
	case Up:
		return in.Up
	case Down:
		return in.Down
	case Left:
		return in.Left
	case Right:
		return in.Right
	}
	return false
}

// controlPrecedence is checked in order; the first pressed control wins.
var controlPrecedence = []struct {
	control Control
	command DogCommand
}{
	{Down, LayDown},
	{Right, Away},
	{Left, ComeBye},
	{Up, WalkOn},
}

// CommandForInput returns the command for the pressed controls, or false when
// none is pressed.
func CommandForInput(in Input) (DogCommand, bool) {
	for _, p := range controlPrecedence {
		if in.Pressed(p.control) {
			return p.command, true
		}
	}
	return 0, false
}

// CommandSystem applies the current input to every dog. Without input the
// dog keeps its previous command.
type CommandSystem struct {
	Dogs  ecs.Query[struct{ *Dog }]
	Input ecs.Singleton[Input]
}

func (s *CommandSystem) Execute(frame *ecs.UpdateFrame) {
	cmd, ok := CommandForInput(*s.Input.Get())
	if !ok {
		return
	}
	for d := range s.Dogs.Values() {
		d.Command = cmd
	}
}
