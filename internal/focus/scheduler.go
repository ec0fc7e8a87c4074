package focus

import (
	"errors"
	"sort"

	taskdomain "daystart-backend/internal/task/domain"
)

// ErrInvalidSlot is returned when a task is moved to a slot that is not a work period.
var ErrInvalidSlot = errors.New("slot is not a work slot")

// Assignments maps a work slot index to the ordered task ids queued in it.
type Assignments map[int][]uint

// Clone returns a deep copy of a. Empty slots stay empty lists, never nil.
func (a Assignments) Clone() Assignments {
	out := make(Assignments, len(a))
	for slot, ids := range a {
		out[slot] = append(make([]uint, 0, len(ids)), ids...)
	}
	return out
}

// Move removes taskID from every slot and appends it to slot. Applying the
// same move twice leaves the same state as applying it once.
func (a Assignments) Move(taskID uint, slot int) error {
	if !IsWorkSlot(slot) {
		return ErrInvalidSlot
	}
	for _, s := range WorkSlots {
		ids := a[s]
		kept := make([]uint, 0, len(ids))
		for _, id := range ids {
			if id != taskID {
				kept = append(kept, id)
			}
		}
		a[s] = kept
	}
	a[slot] = append(a[slot], taskID)
	return nil
}

// Contains reports whether taskID is queued in any slot.
func (a Assignments) Contains(taskID uint) bool {
	for _, ids := range a {
		for _, id := range ids {
			if id == taskID {
				return true
			}
		}
	}
	return false
}

// OrderWorkingTasks keeps the tasks in the working area and orders them by
// priority, most recently created first among equal priorities.
func OrderWorkingTasks(tasks []*taskdomain.Task) []*taskdomain.Task {
	var working []*taskdomain.Task
	for _, t := range tasks {
		if t != nil && t.InWorkingArea {
			working = append(working, t)
		}
	}
	sort.SliceStable(working, func(i, j int) bool {
		pi, pj := working[i].EffectivePriority(), working[j].EffectivePriority()
		if pi != pj {
			return pi < pj
		}
		return working[i].CreatedAt.After(working[j].CreatedAt)
	})
	return working
}

// TaskIDs extracts the ids of tasks, keeping their order.
func TaskIDs(tasks []*taskdomain.Task) []uint {
	ids := make([]uint, 0, len(tasks))
	for _, t := range tasks {
		ids = append(ids, t.ID)
	}
	return ids
}

// Distribute spreads the ordered ids round-robin over the four work slots.
// When there are fewer ids than slots, the empty slots are filled by
// repeating ids so that no work slot stays empty.
func Distribute(orderedIDs []uint) Assignments {
	out := Assignments{}
	n := len(orderedIDs)
	if n == 0 {
		return out
	}

	for _, slot := range WorkSlots {
		out[slot] = []uint{}
	}
	for i, id := range orderedIDs {
		slot := WorkSlots[i%len(WorkSlots)]
		out[slot] = append(out[slot], id)
	}
	for canonical, slot := range WorkSlots {
		if len(out[slot]) == 0 {
			out[slot] = append(out[slot], orderedIDs[canonical%n])
		}
	}
	return out
}

// RecomputeIfCountChanged redistributes orderedIDs when the working-area
// count moved from prevCount to newCount. Otherwise current is returned
// untouched and changed is false, so manual moves survive.
func RecomputeIfCountChanged(prevCount, newCount int, orderedIDs []uint, current Assignments) (next Assignments, changed bool) {
	if prevCount == newCount {
		return current, false
	}
	return Distribute(orderedIDs), true
}
