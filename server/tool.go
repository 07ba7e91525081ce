package server

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/kidlingo/kidlingo/internal/util"
)

// JSON-RPC methods.
const (
	methodToolsList = "tools.list"
	methodToolsCall = "tools.call"
	methodManifest  = "manifest"
)

// Tool names, the closed set accepted by tools.call.
const (
	toolStartSession    = "start_session"
	toolNextActivity    = "next_activity"
	toolSubmitUtterance = "submit_utterance"
	toolSetGoal         = "set_goal"
	toolGetProgress     = "get_progress"
	toolSaveParentNote  = "save_note_for_parent"
)

type startSessionParams struct {
	LearnerID string `json:"learner_id" description:"Stable identifier for the child"`
	AgeBand   string `json:"age_band" description:"Age band such as 3-6 or 7-10"`
	Goal      string `json:"goal" description:"Curriculum goal to practice"`
	Locale    string `json:"locale,omitempty" description:"Caretaker UI locale, e.g. zh-CN"`
}

type sessionParams struct {
	SessionID string `json:"session_id" description:"Session token from start_session"`
}

type submitUtteranceParams struct {
	SessionID string `json:"session_id" description:"Session token from start_session"`
	Utterance string `json:"utterance" description:"Transcribed text of what the child said"`
}

type setGoalParams struct {
	SessionID string `json:"session_id" description:"Session token from start_session"`
	Goal      string `json:"goal" description:"Curriculum goal to switch to"`
}

type saveNoteParams struct {
	SessionID string `json:"session_id" description:"Session token from start_session"`
	Note      string `json:"note" description:"Free-form note for the caretaker log"`
}

// toolSpec describes one callable tool for the manifest and for parameter
// validation.
type toolSpec struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	InputSchema map[string]any `json:"input_schema"`
}

var toolSpecs = []toolSpec{
	{
		Name:        toolStartSession,
		Description: "Start or resume an English practice session for a child.",
		InputSchema: util.CreateSchema(startSessionParams{}),
	},
	{
		Name:        toolNextActivity,
		Description: "Get the next teaching card for the session.",
		InputSchema: util.CreateSchema(sessionParams{}),
	},
	{
		Name:        toolSubmitUtterance,
		Description: "Score what the child said and get feedback plus the next card.",
		InputSchema: util.CreateSchema(submitUtteranceParams{}),
	},
	{
		Name:        toolSetGoal,
		Description: "Switch the session to another curriculum goal.",
		InputSchema: util.CreateSchema(setGoalParams{}),
	},
	{
		Name:        toolGetProgress,
		Description: "Summarize the session's progress for a caretaker.",
		InputSchema: util.CreateSchema(sessionParams{}),
	},
	{
		Name:        toolSaveParentNote,
		Description: "Attach a caretaker note to the session.",
		InputSchema: util.CreateSchema(saveNoteParams{}),
	},
}

func findTool(name string) (toolSpec, bool) {
	for _, spec := range toolSpecs {
		if spec.Name == name {
			return spec, true
		}
	}
	return toolSpec{}, false
}

// callTool validates the raw params against the tool's schema and invokes
// the engine operation.
func (s *Server) callTool(ctx context.Context, name string, raw json.RawMessage) (any, error) {
	spec, ok := findTool(name)
	if !ok {
		return nil, fmt.Errorf("unknown tool %q", name)
	}

	fields := map[string]any{}
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &fields); err != nil {
			return nil, &util.ValidationError{Field: "params", Message: "params must be an object"}
		}
	}
	if err := util.ValidateParameters(fields, spec.InputSchema); err != nil {
		return nil, err
	}

	switch name {
	case toolStartSession:
		var p startSessionParams
		if err := json.Unmarshal(raw, &p); err != nil {
			return nil, &util.ValidationError{Field: "params", Message: err.Error()}
		}
		return s.engine.StartSession(ctx, p.LearnerID, p.AgeBand, p.Goal, p.Locale)
	case toolNextActivity:
		var p sessionParams
		if err := json.Unmarshal(raw, &p); err != nil {
			return nil, &util.ValidationError{Field: "params", Message: err.Error()}
		}
		return s.engine.NextActivity(ctx, p.SessionID)
	case toolSubmitUtterance:
		var p submitUtteranceParams
		if err := json.Unmarshal(raw, &p); err != nil {
			return nil, &util.ValidationError{Field: "params", Message: err.Error()}
		}
		return s.engine.SubmitUtterance(ctx, p.SessionID, p.Utterance)
	case toolSetGoal:
		var p setGoalParams
		if err := json.Unmarshal(raw, &p); err != nil {
			return nil, &util.ValidationError{Field: "params", Message: err.Error()}
		}
		return s.engine.SetGoal(ctx, p.SessionID, p.Goal)
	case toolGetProgress:
		var p sessionParams
		if err := json.Unmarshal(raw, &p); err != nil {
			return nil, &util.ValidationError{Field: "params", Message: err.Error()}
		}
		return s.engine.Progress(ctx, p.SessionID)
	case toolSaveParentNote:
		var p saveNoteParams
		if err := json.Unmarshal(raw, &p); err != nil {
			return nil, &util.ValidationError{Field: "params", Message: err.Error()}
		}
		if err := s.engine.SaveParentNote(ctx, p.SessionID, p.Note); err != nil {
			return nil, err
		}
		return map[string]any{"saved": true}, nil
	default:
		return nil, fmt.Errorf("unknown tool %q", name)
	}
}
