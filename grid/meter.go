package grid

import (
	"fmt"
	"strconv"
	"strings"
)

// TimeSignatures lists every meter offered for selection, additive meters included
var TimeSignatures = []string{
	"4/4", "3/4", "6/8", "7/8", "5/4", "9/8", "12/8", "2/4", "7/4", "9/4",
	"5/8", "10/8", "11/8", "13/8", "15/8", "17/8", "19/8", "21/8",
	"5/16", "7/16", "9/16", "11/16", "13/16", "15/16", "17/16", "19/16",
	"3+2/8", "2+3/8", "2+2+3/8", "3+2+2/8", "2+3+2/8", "3+3+2/8", "3+2+3/8",
	"2+3+3/8", "4+3/8", "3+4/8", "3+2+2+3/8",
}

// TimeSignature is a meter. Cells holds the additive grouping (in denominator units) when one was given.
type TimeSignature struct {
	Num   int   `yaml:"num"`
	Den   int   `yaml:"den"`
	Cells []int `yaml:"cells,omitempty"`
}

// FourFour is the default meter
var FourFour = TimeSignature{Num: 4, Den: 4}

// ParseTimeSignature parses "7/8" or "3+2+2/8". Anything unparseable yields 4/4.
func ParseTimeSignature(s string) TimeSignature {
	s = strings.TrimSpace(s)
	numPart, denPart, ok := strings.Cut(s, "/")
	if !ok {
		return FourFour
	}
	den, err := strconv.Atoi(strings.TrimSpace(denPart))
	if err != nil || (den != 4 && den != 8 && den != 16) {
		return FourFour
	}

	var cells []int
	num := 0
	for _, f := range strings.Split(numPart, "+") {
		n, err := strconv.Atoi(strings.TrimSpace(f))
		if err != nil || n <= 0 {
			return FourFour
		}
		cells = append(cells, n)
		num += n
	}
	if num <= 0 || num > 32 {
		return FourFour
	}
	if len(cells) < 2 {
		cells = nil
	}
	return TimeSignature{Num: num, Den: den, Cells: cells}
}

// String formats the meter the way it was parsed
func (ts TimeSignature) String() string {
	if len(ts.Cells) > 1 {
		parts := make([]string, len(ts.Cells))
		for i, c := range ts.Cells {
			parts[i] = strconv.Itoa(c)
		}
		return fmt.Sprintf("%s/%d", strings.Join(parts, "+"), ts.Den)
	}
	return fmt.Sprintf("%d/%d", ts.Num, ts.Den)
}

// IsZero reports an unset meter
func (ts TimeSignature) IsZero() bool {
	return ts.Num == 0 || ts.Den == 0
}

// OrDefault returns 4/4 for an unset meter
func (ts TimeSignature) OrDefault() TimeSignature {
	if ts.IsZero() {
		return FourFour
	}
	return ts
}

// StepsPerBar maps the meter onto the 16th-step grid
func (ts TimeSignature) StepsPerBar() int {
	ts = ts.OrDefault()
	switch ts.Den {
	case 8:
		return ts.Num * 2
	case 16:
		return ts.Num
	default:
		return ts.Num * 4
	}
}

// StepsPerBeat returns how many 16th steps one denominator unit spans
func (ts TimeSignature) StepsPerBeat() int {
	switch ts.OrDefault().Den {
	case 8:
		return 2
	case 16:
		return 1
	default:
		return 4
	}
}

// AccentSteps returns the steps inside one bar that start an accent cell.
// Meters without a grouping accent every beat.
func (ts TimeSignature) AccentSteps(cells []int) []int {
	unit := ts.StepsPerBeat()
	if len(cells) == 0 {
		var out []int
		for s := 0; s < ts.StepsPerBar(); s += unit {
			out = append(out, s)
		}
		return out
	}
	out := make([]int, 0, len(cells))
	pos := 0
	for _, c := range cells {
		if pos >= ts.StepsPerBar() {
			break
		}
		out = append(out, pos)
		pos += c * unit
	}
	return out
}

// BackbeatSteps returns the steps of beats 2 and 4 inside one bar.
// Grouped meters use the starts of the second and fourth cells.
func (ts TimeSignature) BackbeatSteps(cells []int) []int {
	ts = ts.OrDefault()
	if len(cells) > 0 {
		accents := ts.AccentSteps(cells)
		var out []int
		for i := 1; i < len(accents); i += 2 {
			out = append(out, accents[i])
		}
		return out
	}
	var out []int
	for _, s := range []int{4, 12} {
		if s < ts.StepsPerBar() {
			out = append(out, s)
		}
	}
	return out
}
