// Package focus holds the Pomodoro cycle and the distribution of
// working-area tasks over its work slots.
package focus

import "time"

// SlotKind tells work periods and breaks apart.
type SlotKind string

const (
	SlotWork       SlotKind = "work"
	SlotShortBreak SlotKind = "short_break"
	SlotLongBreak  SlotKind = "long_break"
)

// Slot is one period of the focus cycle.
type Slot struct {
	Index    int           `json:"index"`
	Name     string        `json:"name"`
	Kind     SlotKind      `json:"type"`
	Duration time.Duration `json:"-"`
	Minutes  int           `json:"minutes"`
}

const (
	workDuration       = 25 * time.Minute
	shortBreakDuration = 5 * time.Minute
	longBreakDuration  = 20 * time.Minute
)

// WorkSlots are the cycle indices of the four work periods, in canonical order.
var WorkSlots = [4]int{0, 2, 4, 6}

var cycle = []Slot{
	newSlot(0, "Work 1", SlotWork, workDuration),
	newSlot(1, "Break", SlotShortBreak, shortBreakDuration),
	newSlot(2, "Work 2", SlotWork, workDuration),
	newSlot(3, "Break", SlotShortBreak, shortBreakDuration),
	newSlot(4, "Work 3", SlotWork, workDuration),
	newSlot(5, "Break", SlotShortBreak, shortBreakDuration),
	newSlot(6, "Work 4", SlotWork, workDuration),
	newSlot(7, "Long Break", SlotLongBreak, longBreakDuration),
}

func newSlot(index int, name string, kind SlotKind, d time.Duration) Slot {
	return Slot{Index: index, Name: name, Kind: kind, Duration: d, Minutes: int(d / time.Minute)}
}

// Cycle returns a copy of the eight cycle slots.
func Cycle() []Slot {
	out := make([]Slot, len(cycle))
	copy(out, cycle)
	return out
}

// CycleLength is the number of slots in one cycle.
func CycleLength() int {
	return len(cycle)
}

// SlotAt returns the slot at index. ok is false when index is out of range.
func SlotAt(index int) (Slot, bool) {
	if index < 0 || index >= len(cycle) {
		return Slot{}, false
	}
	return cycle[index], true
}

// IsWorkSlot reports whether index is one of the four work periods.
func IsWorkSlot(index int) bool {
	for _, s := range WorkSlots {
		if s == index {
			return true
		}
	}
	return false
}

// Next returns the slot index that follows index, wrapping after the long break.
func Next(index int) int {
	return (index + 1) % len(cycle)
}
