package control

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/armlab/go-armview/pkg/state"
)

const consoleHelp = `commands:
  connect              link the controller to the arm
  disconnect           release the arm (motors power off)
  motors on|off        toggle motor power
  tool on|off          toggle the end effector
  mode abs|rel         coordinate interpretation for move
  move <x> <y> <z> [speed]
  home                 return to the rest position
  status               query the controller
  help
  quit`

// Console is a line-oriented command shell driving a Commander. It reads
// commands from in and writes replies to out, returning when the input
// ends or the user quits.
type Console struct {
	cmd *Commander
	in  io.Reader
	out io.Writer
}

// NewConsole creates a console over the given streams.
func NewConsole(cmd *Commander, in io.Reader, out io.Writer) *Console {
	return &Console{cmd: cmd, in: in, out: out}
}

// Run processes commands until EOF or quit.
func (c *Console) Run() error {
	fmt.Fprintln(c.out, "armview console - 'help' for commands")
	scanner := bufio.NewScanner(c.in)
	for {
		fmt.Fprint(c.out, "> ")
		if !scanner.Scan() {
			return scanner.Err()
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if quit := c.dispatch(line); quit {
			return nil
		}
	}
}

// dispatch executes one command line. Returns true on quit.
func (c *Console) dispatch(line string) bool {
	parts := strings.Fields(line)
	var err error

	switch parts[0] {
	case "quit", "exit":
		return true

	case "help":
		fmt.Fprintln(c.out, consoleHelp)

	case "connect":
		err = c.cmd.Connect()

	case "disconnect":
		err = c.cmd.Disconnect()

	case "motors":
		if on, argErr := onOffArg(parts); argErr != nil {
			err = argErr
		} else {
			err = c.cmd.SetMotors(on)
		}

	case "tool":
		if on, argErr := onOffArg(parts); argErr != nil {
			err = argErr
		} else {
			err = c.cmd.SetTool(on)
		}

	case "mode":
		err = c.setMode(parts)

	case "move":
		err = c.move(parts)

	case "home":
		err = c.cmd.Home()

	case "status":
		remote, stErr := c.cmd.Status()
		if stErr != nil {
			err = stErr
			break
		}
		fmt.Fprintln(c.out, Describe(remote))

	default:
		fmt.Fprintf(c.out, "unknown command %q - 'help' for commands\n", parts[0])
	}

	if err != nil {
		fmt.Fprintf(c.out, "error: %v\n", err)
	}
	return false
}

func (c *Console) setMode(parts []string) error {
	if len(parts) != 2 {
		return fmt.Errorf("usage: mode abs|rel")
	}
	switch parts[1] {
	case "abs", "absolute":
		return c.cmd.SetCoordMode(state.CoordAbsolute)
	case "rel", "relative":
		return c.cmd.SetCoordMode(state.CoordRelative)
	default:
		return fmt.Errorf("usage: mode abs|rel")
	}
}

func (c *Console) move(parts []string) error {
	if len(parts) != 4 && len(parts) != 5 {
		return fmt.Errorf("usage: move <x> <y> <z> [speed]")
	}
	coords := make([]float64, 3)
	for i := 0; i < 3; i++ {
		v, err := strconv.ParseFloat(parts[i+1], 64)
		if err != nil {
			return fmt.Errorf("invalid coordinate %q", parts[i+1])
		}
		coords[i] = v
	}
	if len(parts) == 5 {
		speed, err := strconv.ParseFloat(parts[4], 64)
		if err != nil || speed <= 0 {
			return fmt.Errorf("invalid speed %q", parts[4])
		}
		return c.cmd.Move(coords[0], coords[1], coords[2], speed)
	}
	return c.cmd.MoveDefaultSpeed(coords[0], coords[1], coords[2])
}

func onOffArg(parts []string) (bool, error) {
	if len(parts) != 2 {
		return false, fmt.Errorf("usage: %s on|off", parts[0])
	}
	switch parts[1] {
	case "on":
		return true, nil
	case "off":
		return false, nil
	default:
		return false, fmt.Errorf("usage: %s on|off", parts[0])
	}
}
