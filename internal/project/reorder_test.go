package project

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"tasktrove/internal/model"
)

func ids(ss ...string) []model.TaskID {
	out := make([]model.TaskID, len(ss))
	for i, s := range ss {
		out[i] = model.TaskID(s)
	}
	return out
}

func TestResolveDestinationIndex_EdgeSemantics(t *testing.T) {
	assert.Equal(t, 3, ResolveDestinationIndex(3, EdgeTop, 10))
	assert.Equal(t, 4, ResolveDestinationIndex(3, EdgeBottom, 10))
	assert.Equal(t, 5, ResolveDestinationIndex(-1, EdgeNone, 5))
	assert.Equal(t, 5, ResolveDestinationIndex(2, EdgeNone, 5))
}

func TestResolveDestinationIndex_ClampsToList(t *testing.T) {
	assert.Equal(t, 3, ResolveDestinationIndex(2, EdgeBottom, 3))
	assert.Equal(t, 0, ResolveDestinationIndex(0, EdgeTop, 0))
}

func TestPlanMove_SameSectionReorder(t *testing.T) {
	intent := DropIntent{
		TaskID:        "a",
		FromSectionID: "s1",
		ToSectionID:   "s1",
		TargetTaskID:  "c",
		Edge:          EdgeBottom,
	}
	list := ids("a", "b", "c", "d")

	plan, ok := PlanMove(intent, list, list)
	if !ok {
		t.Fatal("expected a move")
	}
	assert.True(t, plan.SameSection)
	assert.Equal(t, ids("b", "c", "a", "d"), plan.TargetTaskIDs)
	assert.Equal(t, 2, plan.Index)

	// Input untouched.
	assert.Equal(t, ids("a", "b", "c", "d"), list)
}

func TestPlanMove_DropOnOwnSlotIsNoop(t *testing.T) {
	list := ids("a", "b", "c", "d")

	// Dropping "b" on its own top edge resolves back to index 1.
	intent := DropIntent{
		TaskID:        "b",
		FromSectionID: "s1",
		ToSectionID:   "s1",
		TargetTaskID:  "b",
		Edge:          EdgeTop,
	}
	if _, ok := PlanMove(intent, list, list); ok {
		t.Fatal("drop on own slot must be a no-op")
	}

	// Bottom edge of the task directly above is the same slot.
	intent = DropIntent{
		TaskID:        "b",
		FromSectionID: "s1",
		ToSectionID:   "s1",
		TargetTaskID:  "a",
		Edge:          EdgeBottom,
	}
	if _, ok := PlanMove(intent, list, list); ok {
		t.Fatal("equivalent slot must be a no-op")
	}
}

func TestPlanMove_CrossSectionPreservesTotalCount(t *testing.T) {
	intent := DropIntent{
		TaskID:        "b",
		FromSectionID: "s1",
		ToSectionID:   "s2",
		TargetTaskID:  "y",
		Edge:          EdgeTop,
	}
	source := ids("a", "b", "c")
	target := ids("x", "y")

	plan, ok := PlanMove(intent, source, target)
	if !ok {
		t.Fatal("expected a move")
	}
	assert.False(t, plan.SameSection)
	assert.Equal(t, ids("a", "c"), plan.SourceTaskIDs)
	assert.Equal(t, ids("x", "b", "y"), plan.TargetTaskIDs)
	assert.Equal(t, 1, plan.Index)
	assert.Len(t, plan.SourceTaskIDs, 2)
	assert.Len(t, plan.TargetTaskIDs, 3)
	assert.NotContains(t, plan.SourceTaskIDs, model.TaskID("b"))
}

func TestPlanMove_StaleTargetFallsBackToEnd(t *testing.T) {
	// Target task was deleted mid-drag: insert at the end, never fail.
	intent := DropIntent{
		TaskID:        "a",
		FromSectionID: "s1",
		ToSectionID:   "s2",
		TargetTaskID:  "gone",
		Edge:          EdgeTop,
	}
	plan, ok := PlanMove(intent, ids("a"), ids("x", "y"))
	if !ok {
		t.Fatal("expected a move")
	}
	assert.Equal(t, ids("x", "y", "a"), plan.TargetTaskIDs)
	assert.Equal(t, 2, plan.Index)
}

func TestPlanMove_StaleSourceIsNoop(t *testing.T) {
	intent := DropIntent{
		TaskID:        "gone",
		FromSectionID: "s1",
		ToSectionID:   "s1",
	}
	if _, ok := PlanMove(intent, ids("a", "b"), ids("a", "b")); ok {
		t.Fatal("missing source task must be a no-op")
	}
}

func TestPlanMove_EmptySpaceDropGoesToEnd(t *testing.T) {
	intent := DropIntent{
		TaskID:        "a",
		FromSectionID: "s1",
		ToSectionID:   "s1",
		Edge:          EdgeNone,
	}
	plan, ok := PlanMove(intent, ids("a", "b", "c"), ids("a", "b", "c"))
	if !ok {
		t.Fatal("expected a move")
	}
	assert.Equal(t, ids("b", "c", "a"), plan.TargetTaskIDs)

	// Already last: dropping on empty space below is a no-op.
	intent.TaskID = "c"
	if _, ok := PlanMove(intent, ids("a", "b", "c"), ids("a", "b", "c")); ok {
		t.Fatal("moving the last task to the end must be a no-op")
	}
}
