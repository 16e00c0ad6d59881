package mcp

import (
	"context"

	sdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"chatline/internal/key"
	"chatline/internal/session"
)

// Controller drives the conversations exposed as tools. session.Manager
// implements it.
type Controller interface {
	Senders() []string
	Next(ctx context.Context, sender string) (*session.Result, error)
	PlayAll(ctx context.Context, sender string) (*session.Result, error)
	ByIndex(ctx context.Context, sender string, index int) (*session.Result, error)
	Choose(ctx context.Context, sender string, answer key.Variant) (*session.Result, error)
	Reset(ctx context.Context, sender string) (*session.Result, error)
	State(ctx context.Context, sender string) (*session.Result, error)
}

type Server struct {
	ctl Controller
	mcp *sdk.Server
}

func NewServer(ctl Controller, version string) *Server {
	s := &Server{
		ctl: ctl,
		mcp: sdk.NewServer(&sdk.Implementation{
			Name:    "chatline",
			Version: version,
		}, nil),
	}
	s.registerTools()
	return s
}

func (s *Server) Run(ctx context.Context, transport sdk.Transport) error {
	return s.mcp.Run(ctx, transport)
}
