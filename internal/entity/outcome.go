package entity

import "fmt"

type Outcome uint8

const (
	InProgress Outcome = iota
	WinA
	WinB
	Draw
)

var outcomeNames = map[Outcome]string{
	InProgress: "in_progress",
	WinA:       "x_wins",
	WinB:       "o_wins",
	Draw:       "draw",
}

// Winner returns the owner of the completed line, or CellEmpty.
func (that Outcome) Winner() Cell {
	switch that {
	case WinA:
		return PlayerA
	case WinB:
		return PlayerB
	default:
		return CellEmpty
	}
}

func (that Outcome) IsTerminal() bool {
	return that != InProgress
}

func (that Outcome) String() string {
	if name, ok := outcomeNames[that]; ok {
		return name
	}

	return fmt.Sprintf("outcome(%d)", uint8(that))
}

func (that Outcome) MarshalText() ([]byte, error) {
	if _, ok := outcomeNames[that]; !ok {
		return nil, fmt.Errorf("unknown outcome %d", uint8(that))
	}

	return []byte(that.String()), nil
}

func (that *Outcome) UnmarshalText(text []byte) error {
	for outcome, name := range outcomeNames {
		if name == string(text) {
			*that = outcome
			return nil
		}
	}

	return fmt.Errorf("unknown outcome %q", text)
}
