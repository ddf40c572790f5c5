package tools

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/tuanns/meetmind/meeting"
	"github.com/tuanns/meetmind/schema"
)

type ScheduleMeetingInput struct {
	Title string `json:"title" jsonschema_description:"The title or topic of the meeting."`
	Time  string `json:"time" jsonschema_description:"When the meeting takes place, e.g. '09:00' or 'tomorrow 3pm'."`
}

type AddAttendeeInput struct {
	MeetingID string `json:"meeting_id" jsonschema_description:"The id of the meeting to add an attendee to."`
	Name      string `json:"name" jsonschema_description:"The name of the person attending the meeting."`
}

type AddActionItemInput struct {
	MeetingID string `json:"meeting_id" jsonschema_description:"The id of the meeting for the action item."`
	Owner     string `json:"owner,omitempty" jsonschema_description:"Who is responsible for the action item."`
	Item      string `json:"item" jsonschema_description:"The description of the action item."`
}

type AddNoteInput struct {
	MeetingID string `json:"meeting_id" jsonschema_description:"The id of the meeting to attach the note to."`
	Note      string `json:"note" jsonschema_description:"Free-text note to record for the meeting."`
}

type MeetingSummaryInput struct {
	MeetingID string `json:"meeting_id" jsonschema_description:"The id of the meeting to summarize."`
}

type ListMeetingsInput struct{}

type FormatReportInput struct{}

type DemoPopulateInput struct{}

func scheduleMeetingTool(store *meeting.Store) *ToolDefinition {
	return &ToolDefinition{
		Name:        ToolNameScheduleMeeting,
		Description: "Schedules a new, empty meeting with a given title and time. Returns the meeting id.",
		InputSchema: schema.Generate[ScheduleMeetingInput](),
		Function: func(input json.RawMessage) (string, error) {
			var in ScheduleMeetingInput
			if err := json.Unmarshal(input, &in); err != nil {
				return "", fmt.Errorf("%w: %v", ErrInvalidArguments, err)
			}

			id, err := store.Create(in.Title, in.Time)
			if err != nil {
				return "", err
			}

			return fmt.Sprintf("Successfully scheduled new meeting %q at %q (id: %s)", in.Title, in.Time, id), nil
		},
	}
}

func addAttendeeTool(store *meeting.Store) *ToolDefinition {
	return &ToolDefinition{
		Name:        ToolNameAddAttendee,
		Description: "Adds an attendee to a specific meeting, referenced by meeting id.",
		InputSchema: schema.Generate[AddAttendeeInput](),
		Function: func(input json.RawMessage) (string, error) {
			var in AddAttendeeInput
			if err := json.Unmarshal(input, &in); err != nil {
				return "", fmt.Errorf("%w: %v", ErrInvalidArguments, err)
			}

			if err := store.AddAttendee(in.MeetingID, in.Name); err != nil {
				return "", err
			}

			return fmt.Sprintf("Successfully added attendee %q to meeting %s", in.Name, in.MeetingID), nil
		},
	}
}

func addActionItemTool(store *meeting.Store) *ToolDefinition {
	return &ToolDefinition{
		Name:        ToolNameAddActionItem,
		Description: "Adds an action item to a specific meeting, optionally with an owner.",
		InputSchema: schema.Generate[AddActionItemInput](),
		Function: func(input json.RawMessage) (string, error) {
			var in AddActionItemInput
			if err := json.Unmarshal(input, &in); err != nil {
				return "", fmt.Errorf("%w: %v", ErrInvalidArguments, err)
			}

			if err := store.AddActionItem(in.MeetingID, in.Owner, in.Item); err != nil {
				return "", err
			}

			return fmt.Sprintf("Successfully added action item to meeting %s: %q", in.MeetingID, in.Item), nil
		},
	}
}

func addNoteTool(store *meeting.Store) *ToolDefinition {
	return &ToolDefinition{
		Name:        ToolNameAddNote,
		Description: "Records a free-text note on a specific meeting.",
		InputSchema: schema.Generate[AddNoteInput](),
		Function: func(input json.RawMessage) (string, error) {
			var in AddNoteInput
			if err := json.Unmarshal(input, &in); err != nil {
				return "", fmt.Errorf("%w: %v", ErrInvalidArguments, err)
			}

			if err := store.AddNote(in.MeetingID, in.Note); err != nil {
				return "", err
			}

			return fmt.Sprintf("Successfully added note to meeting %s", in.MeetingID), nil
		},
	}
}

func meetingSummaryTool(store *meeting.Store) *ToolDefinition {
	return &ToolDefinition{
		Name:        ToolNameMeetingSummary,
		Description: "Retrieves the attendees, action items and notes for a specific meeting.",
		InputSchema: schema.Generate[MeetingSummaryInput](),
		Function: func(input json.RawMessage) (string, error) {
			var in MeetingSummaryInput
			if err := json.Unmarshal(input, &in); err != nil {
				return "", fmt.Errorf("%w: %v", ErrInvalidArguments, err)
			}

			m, err := store.Get(in.MeetingID)
			if err != nil {
				return "", err
			}

			return summarize(m), nil
		},
	}
}

func listMeetingsTool(store *meeting.Store) *ToolDefinition {
	return &ToolDefinition{
		Name:        ToolNameListMeetings,
		Description: "Lists the id, title and time of all currently scheduled meetings.",
		InputSchema: schema.Generate[ListMeetingsInput](),
		Function: func(input json.RawMessage) (string, error) {
			all := store.List()
			if len(all) == 0 {
				return "There are no meetings scheduled at the moment.", nil
			}

			var b strings.Builder
			for _, m := range all {
				fmt.Fprintf(&b, "%s\t%s\t%s\n", m.ID, m.Title, m.Time)
			}
			return b.String(), nil
		},
	}
}

func formatReportTool(store *meeting.Store) *ToolDefinition {
	return &ToolDefinition{
		Name:        ToolNameFormatReport,
		Description: "Formats every scheduled meeting into a single markdown report.",
		InputSchema: schema.Generate[FormatReportInput](),
		Function: func(input json.RawMessage) (string, error) {
			all := store.List()
			if len(all) == 0 {
				return "There are no meetings to report on.", nil
			}

			var b strings.Builder
			b.WriteString("# Meeting Report\n")
			for _, m := range all {
				fmt.Fprintf(&b, "\n## Meeting: %s\n", m.Title)
				if m.Time != "" {
					fmt.Fprintf(&b, "\nScheduled: %s\n", m.Time)
				}
				b.WriteString("\nAttendees:\n")
				if len(m.Attendees) == 0 {
					b.WriteString("- None\n")
				}
				for _, a := range m.Attendees {
					fmt.Fprintf(&b, "- %s\n", a)
				}
				b.WriteString("\nAction Items:\n")
				if len(m.ActionItems) == 0 {
					b.WriteString("- None\n")
				}
				for _, item := range m.ActionItems {
					if item.Owner != "" {
						fmt.Fprintf(&b, "- %s (%s)\n", item.Description, item.Owner)
					} else {
						fmt.Fprintf(&b, "- %s\n", item.Description)
					}
				}
			}
			return b.String(), nil
		},
	}
}

func demoPopulateTool(store *meeting.Store) *ToolDefinition {
	return &ToolDefinition{
		Name:        ToolNameDemoPopulate,
		Description: "Populates the assistant with realistic sample meetings for a demo.",
		InputSchema: schema.Generate[DemoPopulateInput](),
		Function: func(input json.RawMessage) (string, error) {
			seeds := []struct {
				title     string
				time      string
				attendees []string
				items     []meeting.ActionItem
			}{
				{
					title:     "Q3 Financial Review",
					time:      "Mon 10:00",
					attendees: []string{"Alice", "Bob"},
					items: []meeting.ActionItem{
						{Owner: "Alice", Description: "Finalize revenue report"},
					},
				},
				{
					title:     "Project Alpha Sync",
					time:      "Tue 14:00",
					attendees: []string{"Charlie", "Dana"},
					items: []meeting.ActionItem{
						{Owner: "Charlie", Description: "Update project timeline"},
						{Owner: "Dana", Description: "Resolve blocking issue #123"},
					},
				},
				{
					title:     "Marketing Brainstorm",
					time:      "Fri 11:30",
					attendees: []string{"Eve"},
					items: []meeting.ActionItem{
						{Owner: "Eve", Description: "Draft new ad campaign slogans"},
					},
				},
			}

			var titles []string
			for _, seed := range seeds {
				id, err := store.Create(seed.title, seed.time)
				if err != nil {
					return "", err
				}
				for _, a := range seed.attendees {
					if err := store.AddAttendee(id, a); err != nil {
						return "", err
					}
				}
				for _, item := range seed.items {
					if err := store.AddActionItem(id, item.Owner, item.Description); err != nil {
						return "", err
					}
				}
				titles = append(titles, seed.title)
			}

			return fmt.Sprintf("Created %d sample meetings: %s", len(titles), strings.Join(titles, ", ")), nil
		},
	}
}

func summarize(m *meeting.Meeting) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Details for meeting %q (id: %s)\n", m.Title, m.ID)
	if m.Time != "" {
		fmt.Fprintf(&b, "Scheduled: %s\n", m.Time)
	}

	if len(m.Attendees) == 0 {
		b.WriteString("Attendees: None\n")
	} else {
		fmt.Fprintf(&b, "Attendees: %s\n", strings.Join(m.Attendees, ", "))
	}

	if len(m.ActionItems) == 0 {
		b.WriteString("Action Items: none\n")
	} else {
		b.WriteString("Action Items:\n")
		for _, item := range m.ActionItems {
			if item.Owner != "" {
				fmt.Fprintf(&b, "- %s (owner: %s)\n", item.Description, item.Owner)
			} else {
				fmt.Fprintf(&b, "- %s\n", item.Description)
			}
		}
	}

	if m.Notes != "" {
		fmt.Fprintf(&b, "Notes:\n%s\n", m.Notes)
	}

	return b.String()
}
