// Package mcpserver exposes the episode engine as MCP tools.
package mcpserver

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/metalagman/flowdebug/internal/env"
	"github.com/rs/zerolog/log"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

// Server wraps the MCP SDK server around a single engine.
type Server struct {
	MCPServer *sdkmcp.Server

	mu     sync.Mutex
	engine *env.Engine
}

// New creates a server with the reset and step tools registered.
func New(engine *env.Engine, version string) *Server {
	s := &Server{
		MCPServer: sdkmcp.NewServer(&sdkmcp.Implementation{Name: "flowdebug", Version: version}, nil),
		engine:    engine,
	}
	s.registerTools()
	return s
}

// Run serves the tools over transport until ctx is done or the client disconnects.
func (s *Server) Run(ctx context.Context, transport sdkmcp.Transport) error {
	return s.MCPServer.Run(ctx, transport)
}

func (s *Server) registerTools() {
	sdkmcp.AddTool(s.MCPServer, &sdkmcp.Tool{
		Name:        "reset",
		Description: "Start a new episode with a randomly drawn failing flow. Returns the initial observation.",
	}, s.handleReset)

	sdkmcp.AddTool(s.MCPServer, &sdkmcp.Tool{
		Name: "step",
		Description: "Patch the expression of a flow step. Every call consumes one attempt. " +
			"Returns observation, reward, done and info.",
	}, s.handleStep)
}

type resetInput struct{}

// stepInput arguments are optional; incomplete actions are scored by the engine.
type stepInput struct {
	Action *string `json:"action,omitempty" jsonschema:"action kind, must be patch_step"`
	Step   *string `json:"step,omitempty"   jsonschema:"name of the step to patch"`
	Field  *string `json:"field,omitempty"  jsonschema:"field path, must be inputs.expression"`
	Value  *string `json:"value,omitempty"  jsonschema:"replacement expression"`
}

func (in stepInput) action() env.Action {
	data, err := json.Marshal(in)
	if err != nil {
		return env.Action{}
	}
	a, err := env.ParseAction(data)
	if err != nil {
		log.Debug().Err(err).Msg("mcp: malformed action")
		return env.Action{}
	}
	return a
}

func (s *Server) handleReset(_ context.Context, _ *sdkmcp.CallToolRequest, _ resetInput) (*sdkmcp.CallToolResult, any, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	obs := s.engine.Reset()
	log.Info().Str("case_id", obs.CaseID).Msg("mcp: episode started")
	return nil, obs, nil
}

func (s *Server) handleStep(_ context.Context, _ *sdkmcp.CallToolRequest, in stepInput) (*sdkmcp.CallToolResult, any, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.engine.Step(in.action())
	if err != nil {
		return nil, nil, err
	}
	if res.Done {
		log.Info().
			Str("case_id", res.Info.CaseID).
			Str("result", string(res.Info.Result)).
			Msg("mcp: episode finished")
	}
	return nil, res, nil
}
