package project

import "tasktrove/internal/model"

// Edge identifies which boundary of the drop target the pointer was
// nearest when the drag concluded. The pixel hit-testing happens in the
// client; the resolver only consumes its verdict.
type Edge string

const (
	EdgeTop    Edge = "top"
	EdgeBottom Edge = "bottom"
	EdgeNone   Edge = ""
)

// DropIntent describes one concluded drag-and-drop gesture. It is
// transient: built per gesture, never persisted.
type DropIntent struct {
	TaskID        model.TaskID    `json:"taskId"`
	FromSectionID model.SectionID `json:"fromSectionId"`
	ToSectionID   model.SectionID `json:"toSectionId"`

	// TargetTaskID is the task the pointer was over, if any. It may
	// reference a task that vanished mid-drag; the resolver falls back
	// to end-of-list rather than failing.
	TargetTaskID model.TaskID `json:"targetTaskId,omitempty"`
	Edge         Edge         `json:"edge,omitempty"`
}

// ResolveDestinationIndex computes the insertion index for a drop.
// A negative targetIndex or EdgeNone means the drop landed on empty list
// space (or on a target that no longer exists): insert at the end.
// EdgeTop inserts before the target, EdgeBottom after it.
func ResolveDestinationIndex(targetIndex int, edge Edge, listLength int) int {
	if targetIndex < 0 || edge == EdgeNone {
		return listLength
	}

	idx := targetIndex
	if edge == EdgeBottom {
		idx = targetIndex + 1
	}

	if idx < 0 {
		idx = 0
	}
	if idx > listLength {
		idx = listLength
	}
	return idx
}

// MovePlan is the outcome of resolving a DropIntent against the current
// ordered lists. SameSection distinguishes a reorder from a structural
// move; for a reorder, TargetTaskIDs is the single updated list.
type MovePlan struct {
	SameSection   bool
	Index         int
	SourceTaskIDs []model.TaskID
	TargetTaskIDs []model.TaskID
}

// PlanMove resolves a DropIntent into updated ordered lists.
//
// Returns ok=false when nothing should change: the dragged task is no
// longer in the source list (stale gesture), or the drop resolves to
// the task's original slot, so no spurious update reaches persistence.
// The input slices are not mutated.
func PlanMove(intent DropIntent, sourceTaskIDs, targetTaskIDs []model.TaskID) (MovePlan, bool) {
	sameSection := intent.FromSectionID == intent.ToSectionID

	source := append([]model.TaskID(nil), sourceTaskIDs...)
	sourceIdx := indexOfTask(source, intent.TaskID)
	if sourceIdx < 0 {
		return MovePlan{}, false
	}

	if sameSection {
		targetIdx := -1
		if intent.TargetTaskID != "" {
			targetIdx = indexOfTask(source, intent.TargetTaskID)
		}
		dest := ResolveDestinationIndex(targetIdx, intent.Edge, len(source))

		// Remove before insert; the destination shifts down when the
		// source sat above it.
		source = append(source[:sourceIdx], source[sourceIdx+1:]...)
		if sourceIdx < dest {
			dest--
		}
		if dest == sourceIdx {
			return MovePlan{}, false
		}

		source = insertTask(source, intent.TaskID, dest)
		return MovePlan{
			SameSection:   true,
			Index:         dest,
			SourceTaskIDs: source,
			TargetTaskIDs: source,
		}, true
	}

	target := append([]model.TaskID(nil), targetTaskIDs...)
	targetIdx := -1
	if intent.TargetTaskID != "" {
		targetIdx = indexOfTask(target, intent.TargetTaskID)
	}
	dest := ResolveDestinationIndex(targetIdx, intent.Edge, len(target))

	source = append(source[:sourceIdx], source[sourceIdx+1:]...)
	target = insertTask(target, intent.TaskID, dest)

	return MovePlan{
		SameSection:   false,
		Index:         dest,
		SourceTaskIDs: source,
		TargetTaskIDs: target,
	}, true
}

func indexOfTask(ids []model.TaskID, id model.TaskID) int {
	for i, tid := range ids {
		if tid == id {
			return i
		}
	}
	return -1
}

func insertTask(ids []model.TaskID, id model.TaskID, index int) []model.TaskID {
	if index < 0 {
		index = 0
	}
	if index > len(ids) {
		index = len(ids)
	}
	ids = append(ids, "")
	copy(ids[index+1:], ids[index:])
	ids[index] = id
	return ids
}
