package tools

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/invopop/jsonschema"
	"github.com/tuanns/meetmind/meeting"
)

const (
	ToolNameScheduleMeeting = "schedule_meeting"
	ToolNameAddAttendee     = "add_attendee"
	ToolNameAddActionItem   = "add_action_item"
	ToolNameAddNote         = "add_note"
	ToolNameMeetingSummary  = "meeting_summary"
	ToolNameListMeetings    = "list_meetings"
	ToolNameFormatReport    = "format_report"
	ToolNameDemoPopulate    = "demo_populate"
)

var (
	ErrUnknownTool      = errors.New("unknown tool")
	ErrInvalidArguments = errors.New("invalid arguments")
)

type ToolDefinition struct {
	Name        string             `json:"name"`
	Description string             `json:"description"`
	InputSchema *jsonschema.Schema `json:"input_schema"`
	Function    func(input json.RawMessage) (string, error)
}

// ToolBox is the closed set of tools exposed to the model. Lookup and
// argument validation happen at a single point before dispatch.
type ToolBox struct {
	defs   []*ToolDefinition
	byName map[string]*ToolDefinition
}

func NewToolBox(store *meeting.Store) *ToolBox {
	tb := &ToolBox{byName: make(map[string]*ToolDefinition)}

	tb.register(scheduleMeetingTool(store))
	tb.register(addAttendeeTool(store))
	tb.register(addActionItemTool(store))
	tb.register(addNoteTool(store))
	tb.register(meetingSummaryTool(store))
	tb.register(listMeetingsTool(store))
	tb.register(formatReportTool(store))
	tb.register(demoPopulateTool(store))

	return tb
}

func (tb *ToolBox) register(def *ToolDefinition) {
	tb.defs = append(tb.defs, def)
	tb.byName[def.Name] = def
}

// Definitions returns the registered tools in registration order.
func (tb *ToolBox) Definitions() []*ToolDefinition {
	return tb.defs
}

// Invoke validates the named call and executes it. The error kinds a
// caller can see are ErrUnknownTool, ErrInvalidArguments and whatever
// the tool itself returns (e.g. meeting.ErrNotFound).
func (tb *ToolBox) Invoke(name string, args map[string]any) (string, error) {
	def, ok := tb.byName[name]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownTool, name)
	}

	if err := validateArgs(def.InputSchema, args); err != nil {
		return "", err
	}

	input, err := json.Marshal(args)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidArguments, err)
	}

	return def.Function(input)
}

func validateArgs(s *jsonschema.Schema, args map[string]any) error {
	if s == nil {
		return nil
	}

	for _, name := range s.Required {
		v, present := args[name]
		if !present {
			return fmt.Errorf("%w: missing required field %q", ErrInvalidArguments, name)
		}
		if prop, ok := s.Properties.Get(name); ok {
			if err := checkType(name, prop.Type, v); err != nil {
				return err
			}
		}
	}

	return nil
}

func checkType(name, schemaType string, v any) error {
	switch schemaType {
	case "string":
		str, ok := v.(string)
		if !ok {
			return fmt.Errorf("%w: field %q must be a string", ErrInvalidArguments, name)
		}
		if str == "" {
			return fmt.Errorf("%w: field %q must not be empty", ErrInvalidArguments, name)
		}
	case "number", "integer":
		if _, ok := v.(float64); !ok {
			return fmt.Errorf("%w: field %q must be a number", ErrInvalidArguments, name)
		}
	case "boolean":
		if _, ok := v.(bool); !ok {
			return fmt.Errorf("%w: field %q must be a boolean", ErrInvalidArguments, name)
		}
	}
	return nil
}
