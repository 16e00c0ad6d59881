package mcp

import (
	"context"
	"fmt"
	"strings"

	sdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"chatline/internal/key"
	"chatline/internal/present"
	"chatline/internal/session"
)

type SenderInput struct {
	Sender string `json:"sender" jsonschema:"name of the conversation partner"`
}

type ByIndexInput struct {
	Sender string `json:"sender" jsonschema:"name of the conversation partner"`
	Index  int    `json:"index" jsonschema:"zero-based position in the sender's script"`
}

type ChooseInput struct {
	Sender string `json:"sender" jsonschema:"name of the conversation partner"`
	Answer string `json:"answer" jsonschema:"yes or no"`
}

type ListSendersInput struct{}

type ListSendersOutput struct {
	Senders []string `json:"senders"`
}

type EventOutput struct {
	Type  string `json:"type"`
	Table string `json:"table,omitempty"`
	Key   string `json:"key,omitempty"`
	Kind  string `json:"kind,omitempty"`
	Side  string `json:"side,omitempty"`
	Text  string `json:"text,omitempty"`
}

type PlaybackOutput struct {
	Sender    string        `json:"sender"`
	Outcome   string        `json:"outcome,omitempty"`
	Events    []EventOutput `json:"events"`
	Cursor    int           `json:"cursor"`
	ScriptLen int           `json:"script_len"`
	Choosing  bool          `json:"choosing"`
	Pending   []string      `json:"pending"`
}

type HistoryOutput struct {
	Sender  string   `json:"sender"`
	History []string `json:"history"`
	Cursor  int      `json:"cursor"`
}

func (s *Server) registerTools() {
	sdk.AddTool(s.mcp, &sdk.Tool{
		Name:        "list_senders",
		Description: "List the senders that have a dialogue script",
	}, s.handleListSenders)

	sdk.AddTool(s.mcp, &sdk.Tool{
		Name:        "next",
		Description: "Show the next line of a sender's dialogue",
	}, s.handleNext)

	sdk.AddTool(s.mcp, &sdk.Tool{
		Name:        "play_all",
		Description: "Play a sender's dialogue until it ends or a choice is offered",
	}, s.handlePlayAll)

	sdk.AddTool(s.mcp, &sdk.Tool{
		Name:        "by_index",
		Description: "Request a specific script entry by position",
	}, s.handleByIndex)

	sdk.AddTool(s.mcp, &sdk.Tool{
		Name:        "choose",
		Description: "Answer the pending yes/no choice",
	}, s.handleChoose)

	sdk.AddTool(s.mcp, &sdk.Tool{
		Name:        "reset",
		Description: "Forget a sender's progress and clear the conversation",
	}, s.handleReset)

	sdk.AddTool(s.mcp, &sdk.Tool{
		Name:        "history",
		Description: "Return the lines already shown for a sender",
	}, s.handleHistory)
}

func (s *Server) handleListSenders(ctx context.Context, req *sdk.CallToolRequest, input ListSendersInput) (*sdk.CallToolResult, ListSendersOutput, error) {
	senders := s.ctl.Senders()
	if senders == nil {
		senders = []string{}
	}
	return nil, ListSendersOutput{Senders: senders}, nil
}

func (s *Server) handleNext(ctx context.Context, req *sdk.CallToolRequest, input SenderInput) (*sdk.CallToolResult, PlaybackOutput, error) {
	if input.Sender == "" {
		return nil, PlaybackOutput{}, fmt.Errorf("sender is required")
	}
	return playback(s.ctl.Next(ctx, input.Sender))
}

func (s *Server) handlePlayAll(ctx context.Context, req *sdk.CallToolRequest, input SenderInput) (*sdk.CallToolResult, PlaybackOutput, error) {
	if input.Sender == "" {
		return nil, PlaybackOutput{}, fmt.Errorf("sender is required")
	}
	return playback(s.ctl.PlayAll(ctx, input.Sender))
}

func (s *Server) handleByIndex(ctx context.Context, req *sdk.CallToolRequest, input ByIndexInput) (*sdk.CallToolResult, PlaybackOutput, error) {
	if input.Sender == "" {
		return nil, PlaybackOutput{}, fmt.Errorf("sender is required")
	}
	return playback(s.ctl.ByIndex(ctx, input.Sender, input.Index))
}

func (s *Server) handleChoose(ctx context.Context, req *sdk.CallToolRequest, input ChooseInput) (*sdk.CallToolResult, PlaybackOutput, error) {
	if input.Sender == "" {
		return nil, PlaybackOutput{}, fmt.Errorf("sender is required")
	}
	answer, err := parseAnswer(input.Answer)
	if err != nil {
		return nil, PlaybackOutput{}, err
	}
	return playback(s.ctl.Choose(ctx, input.Sender, answer))
}

func (s *Server) handleReset(ctx context.Context, req *sdk.CallToolRequest, input SenderInput) (*sdk.CallToolResult, PlaybackOutput, error) {
	if input.Sender == "" {
		return nil, PlaybackOutput{}, fmt.Errorf("sender is required")
	}
	return playback(s.ctl.Reset(ctx, input.Sender))
}

func (s *Server) handleHistory(ctx context.Context, req *sdk.CallToolRequest, input SenderInput) (*sdk.CallToolResult, HistoryOutput, error) {
	if input.Sender == "" {
		return nil, HistoryOutput{}, fmt.Errorf("sender is required")
	}
	result, err := s.ctl.State(ctx, input.Sender)
	if err != nil {
		return nil, HistoryOutput{}, err
	}
	return nil, HistoryOutput{
		Sender:  result.State.Sender,
		History: append([]string{}, result.State.History...),
		Cursor:  result.State.Cursor,
	}, nil
}

func parseAnswer(s string) (key.Variant, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "y", "yes":
		return key.Yes, nil
	case "n", "no":
		return key.No, nil
	default:
		return key.None, fmt.Errorf("answer must be yes or no, got %q", s)
	}
}

func playback(result *session.Result, err error) (*sdk.CallToolResult, PlaybackOutput, error) {
	if err != nil {
		return nil, PlaybackOutput{}, err
	}
	return nil, playbackOutputFromResult(result), nil
}

func playbackOutputFromResult(result *session.Result) PlaybackOutput {
	out := PlaybackOutput{
		Sender:    result.State.Sender,
		Outcome:   result.Outcome,
		Events:    make([]EventOutput, 0, len(result.Events)),
		Cursor:    result.State.Cursor,
		ScriptLen: result.State.ScriptLen,
		Choosing:  result.State.Choosing,
		Pending:   append([]string{}, result.State.Pending...),
	}
	for _, e := range result.Events {
		out.Events = append(out.Events, eventOutputFromPresent(e))
	}
	return out
}

func eventOutputFromPresent(e present.Event) EventOutput {
	return EventOutput{
		Type:  string(e.Type),
		Table: e.Table,
		Key:   e.Key,
		Kind:  e.Kind,
		Side:  e.Side,
		Text:  e.Text,
	}
}
