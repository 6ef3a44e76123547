package handlers

import (
	"errors"
	"strconv"
	"strings"

	"github.com/vancomm/hexmines/internal/mines"
)

// Maps known commands to number of arguments
var commandNargs = map[string]int{
	"g": 0, // get the whole board
	"o": 2, // open
	"f": 2, // flag
	"p": 0, // pause
	"r": 0, // resume
	"q": 0, // forfeit
}

type command struct {
	name string
	x, y int
}

func parseXY(twoStrings []string) (x int, y int, err error) {
	if x, err = strconv.Atoi(twoStrings[0]); err != nil {
		err = errors.New("first argument must be an int")
		return
	}
	if y, err = strconv.Atoi(twoStrings[1]); err != nil {
		err = errors.New("second argument must be an int")
		return
	}
	return
}

func parseCommand(c string) (cmd command, err error) {
	parts := strings.Fields(c)
	if len(parts) == 0 {
		return cmd, errors.New("empty command")
	}
	nargs, ok := commandNargs[parts[0]]
	if !ok {
		return cmd, errors.New("unknown command")
	}
	if nargs != len(parts)-1 {
		return cmd, errors.New("invalid number of arguments")
	}
	cmd.name = parts[0]
	if nargs == 2 {
		cmd.x, cmd.y, err = parseXY(parts[1:])
	}
	return cmd, err
}

func actionCommand(dto ActionDTO) command {
	name := "o"
	if dto.Alt {
		name = "f"
	}
	return command{name: name, x: dto.X, y: dto.Y}
}

// apply runs the command on g and reports whether the game accepted it.
// Actions outside the board are not errors, the game just ignores them.
func (c command) apply(g *mines.Game) (bool, error) {
	switch c.name {
	case "g":
		return true, nil
	case "o", "f":
		return g.Action(c.x, c.y, c.name == "f"), nil
	case "p":
		return g.Pause(), nil
	case "r":
		return g.Resume(), nil
	case "q":
		return g.Forfeit(), nil
	}
	return false, errors.New("invalid command")
}

// reply is sent back after c was applied: the whole board for "g", the
// tiles changed since the last reply otherwise.
func (c command) reply(g *mines.Game) mines.GameView {
	changed := g.DrainChanged()
	if c.name == "g" {
		return g.View()
	}
	return g.ViewOf(changed)
}
