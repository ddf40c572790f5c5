package tools

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tuanns/meetmind/meeting"
)

func newTestToolBox(t *testing.T) (*ToolBox, *meeting.Store) {
	t.Helper()
	store := meeting.NewStore()
	return NewToolBox(store), store
}

func TestToolBox_Definitions(t *testing.T) {
	tb, _ := newTestToolBox(t)

	names := make([]string, 0)
	for _, def := range tb.Definitions() {
		assert.NotEmpty(t, def.Description, "tool %s has no description", def.Name)
		assert.NotNil(t, def.InputSchema, "tool %s has no input schema", def.Name)
		names = append(names, def.Name)
	}

	assert.ElementsMatch(t, []string{
		ToolNameScheduleMeeting,
		ToolNameAddAttendee,
		ToolNameAddActionItem,
		ToolNameAddNote,
		ToolNameMeetingSummary,
		ToolNameListMeetings,
		ToolNameFormatReport,
		ToolNameDemoPopulate,
	}, names)
}

func TestInvoke_UnknownTool(t *testing.T) {
	tb, _ := newTestToolBox(t)

	_, err := tb.Invoke("delete_everything", map[string]any{"confirm": true})
	assert.ErrorIs(t, err, ErrUnknownTool)

	// Arguments must not matter
	_, err = tb.Invoke("delete_everything", nil)
	assert.ErrorIs(t, err, ErrUnknownTool)
}

func TestInvoke_ScheduleMeeting(t *testing.T) {
	tb, store := newTestToolBox(t)

	out, err := tb.Invoke(ToolNameScheduleMeeting, map[string]any{
		"title": "Standup",
		"time":  "09:00",
	})
	require.NoError(t, err)
	assert.Contains(t, out, "Standup")

	all := store.List()
	require.Len(t, all, 1)
	assert.Equal(t, "Standup", all[0].Title)
	assert.Equal(t, "09:00", all[0].Time)
}

func TestInvoke_MissingRequiredField(t *testing.T) {
	tb, store := newTestToolBox(t)

	_, err := tb.Invoke(ToolNameScheduleMeeting, map[string]any{"title": "Standup"})
	assert.ErrorIs(t, err, ErrInvalidArguments)
	assert.Equal(t, 0, store.Len(), "failed call must not mutate the store")
}

func TestInvoke_MistypedField(t *testing.T) {
	tb, _ := newTestToolBox(t)

	_, err := tb.Invoke(ToolNameScheduleMeeting, map[string]any{
		"title": 42,
		"time":  "09:00",
	})
	assert.ErrorIs(t, err, ErrInvalidArguments)
}

func TestInvoke_AddAttendee_NotFound(t *testing.T) {
	tb, _ := newTestToolBox(t)

	_, err := tb.Invoke(ToolNameAddAttendee, map[string]any{
		"meeting_id": "no-such-meeting",
		"name":       "Alice",
	})
	assert.ErrorIs(t, err, meeting.ErrNotFound)
}

func TestInvoke_MeetingSummary(t *testing.T) {
	tb, store := newTestToolBox(t)

	id, err := store.Create("Planning", "14:00")
	require.NoError(t, err)
	require.NoError(t, store.AddAttendee(id, "Alice"))
	require.NoError(t, store.AddActionItem(id, "Alice", "Write the plan"))

	out, err := tb.Invoke(ToolNameMeetingSummary, map[string]any{"meeting_id": id})
	require.NoError(t, err)

	assert.Contains(t, out, "Planning")
	assert.Contains(t, out, "Alice")
	assert.Contains(t, out, "Write the plan")
}

func TestInvoke_ListMeetings(t *testing.T) {
	tb, store := newTestToolBox(t)

	out, err := tb.Invoke(ToolNameListMeetings, map[string]any{})
	require.NoError(t, err)
	assert.Contains(t, out, "no meetings")

	id, err := store.Create("Retro", "16:00")
	require.NoError(t, err)

	out, err = tb.Invoke(ToolNameListMeetings, map[string]any{})
	require.NoError(t, err)
	assert.Contains(t, out, id)
	assert.Contains(t, out, "Retro")
}

func TestInvoke_DemoPopulate(t *testing.T) {
	tb, store := newTestToolBox(t)

	out, err := tb.Invoke(ToolNameDemoPopulate, map[string]any{})
	require.NoError(t, err)

	assert.Greater(t, store.Len(), 0)
	assert.Contains(t, out, "Q3 Financial Review")

	var alphaFound bool
	for _, m := range store.List() {
		if m.Title == "Project Alpha Sync" {
			alphaFound = true
			assert.Equal(t, []string{"Charlie", "Dana"}, m.Attendees)
			assert.Len(t, m.ActionItems, 2)
		}
	}
	assert.True(t, alphaFound)
}

func TestInvoke_FormatReport(t *testing.T) {
	tb, store := newTestToolBox(t)

	_, err := store.Create("Design Review", "Wed 15:00")
	require.NoError(t, err)

	out, err := tb.Invoke(ToolNameFormatReport, map[string]any{})
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(out, "# Meeting Report"))
	assert.Contains(t, out, "## Meeting: Design Review")
}
