package viewer

import "strings"

// HandleCommandInput processes one character of `:`-prompt input.
func HandleCommandInput(s *State, key Key) []Effect {
	switch key.Name {
	case "Esc":
		s.CommandBuf = ""
		return []Effect{setMode(ModeNormal), redrawStatusBar()}

	case "Backspace":
		if len(s.CommandBuf) > 0 {
			s.CommandBuf = s.CommandBuf[:len(s.CommandBuf)-1]
		}
		return []Effect{redrawStatusBar()}

	case "Enter":
		cmd := strings.TrimSpace(s.CommandBuf)
		s.CommandBuf = ""
		return runCommand(cmd)
	}

	if key.Rune != 0 {
		s.CommandBuf += string(key.Rune)
		return []Effect{redrawStatusBar()}
	}
	return nil
}

func runCommand(cmd string) []Effect {
	switch cmd {
	case "":
		return []Effect{setMode(ModeNormal), redrawStatusBar()}
	case "reload", "rel":
		return []Effect{exit(ExitConfigReload)}
	case "q", "quit":
		return []Effect{exit(ExitQuit)}
	default:
		return []Effect{flash("unknown command: " + cmd), setMode(ModeNormal)}
	}
}
