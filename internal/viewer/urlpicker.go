package viewer

// HandleURLPickerInput drives the URL-picker overlay: j/k move selection,
// Enter opens the selected URL, Esc cancels back to normal mode.
func HandleURLPickerInput(s *State, key Key) []Effect {
	switch {
	case key.Name == "Esc":
		s.URLPickerList = nil
		return []Effect{setMode(ModeNormal), redrawStatusBar()}

	case key.Name == "Enter":
		if s.URLPickerSelected < 0 || s.URLPickerSelected >= len(s.URLPickerList) {
			return []Effect{setMode(ModeNormal)}
		}
		url := s.URLPickerList[s.URLPickerSelected].URL
		s.URLPickerList = nil
		return []Effect{openURL(url), setMode(ModeNormal)}

	case key.Name == "Down" || key.Rune == 'j':
		if s.URLPickerSelected < len(s.URLPickerList)-1 {
			s.URLPickerSelected++
		}
		return []Effect{redrawURLPicker()}

	case key.Name == "Up" || key.Rune == 'k':
		if s.URLPickerSelected > 0 {
			s.URLPickerSelected--
		}
		return []Effect{redrawURLPicker()}
	}
	return nil
}
