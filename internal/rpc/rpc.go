// Package rpc serves the engine over newline-delimited JSON-RPC, the
// framing the desktop shell speaks to its worker process: one request
// object per line on stdin, one response object per line on stdout.
// Status notifications are emitted without an id; the shell ignores
// id-less lines by design.
package rpc

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sync"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"

	"github.com/sortdesk/sortdesk/internal/engine"
	"github.com/sortdesk/sortdesk/internal/folders"
)

// Error codes mirror the JSON-RPC reserved range.
const (
	codeParse          = -32700
	codeInvalidRequest = -32600
	codeMethodNotFound = -32601
	codeInvalidParams  = -32602
	codeInternal       = -32603
)

// Request is one incoming line.
type Request struct {
	ID     *uint64         `json:"id"`
	Method string          `json:"method"`
	Params json.RawMessage `json:"params"`
}

// Error is the error member of a failed response.
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// Response is one outgoing line answering a request.
type Response struct {
	ID     *uint64     `json:"id"`
	Result interface{} `json:"result,omitempty"`
	Error  *Error      `json:"error,omitempty"`
}

// notification is an id-less outgoing line.
type notification struct {
	Method string      `json:"method"`
	Params interface{} `json:"params"`
}

type reorganizeParams struct {
	Path          string `json:"path"`
	IncludeNested bool   `json:"includeNested"`
}

type createFoldersParams struct {
	Path    string          `json:"path"`
	Folders []*folders.Spec `json:"folders"`
}

// Server dispatches requests against one workspace engine.
type Server struct {
	fs        afero.Fs
	workspace string
	cfg       engine.Config
	log       zerolog.Logger

	mu  sync.Mutex // serializes writes to out
	out *json.Encoder
}

// NewServer creates a server for the given workspace. The engine config's
// Notify hook is chained so engine status events stream out as
// notifications.
func NewServer(workspace string, cfg engine.Config, log zerolog.Logger) *Server {
	if cfg.Fs == nil {
		cfg.Fs = afero.NewOsFs()
	}
	return &Server{
		fs:        cfg.Fs,
		workspace: workspace,
		cfg:       cfg,
		log:       log,
	}
}

// Serve reads requests line by line until EOF. Requests are handled
// sequentially: the engine assumes exclusive workspace access, so there
// is nothing to gain from dispatching them concurrently.
func (s *Server) Serve(ctx context.Context, in io.Reader, out io.Writer) error {
	s.out = json.NewEncoder(out)

	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)

	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}

		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var req Request
		if err := json.Unmarshal(line, &req); err != nil {
			s.respondError(nil, codeParse, fmt.Sprintf("invalid request: %v", err))
			continue
		}

		s.handle(ctx, &req)
	}

	return scanner.Err()
}

func (s *Server) handle(ctx context.Context, req *Request) {
	s.log.Debug().Str("method", req.Method).Msg("rpc request")

	switch req.Method {
	case "reorganize":
		s.handleReorganize(ctx, req)
	case "createFolders":
		s.handleCreateFolders(req)
	case "ping":
		s.respond(req.ID, "pong")
	default:
		s.respondError(req.ID, codeMethodNotFound, fmt.Sprintf("unknown method: %s", req.Method))
	}
}

func (s *Server) handleReorganize(ctx context.Context, req *Request) {
	var params reorganizeParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		s.respondError(req.ID, codeInvalidParams, fmt.Sprintf("invalid params: %v", err))
		return
	}

	cfg := s.cfg
	caller := cfg.Notify
	cfg.Notify = func(ev engine.StatusEvent) {
		s.notify("status", ev)
		if caller != nil {
			caller(ev)
		}
	}

	report, err := engine.New(s.workspace, cfg).Reorganize(ctx, params.Path, params.IncludeNested)
	if err != nil {
		s.respondError(req.ID, codeInternal, err.Error())
		return
	}

	s.respond(req.ID, report)
}

func (s *Server) handleCreateFolders(req *Request) {
	var params createFoldersParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		s.respondError(req.ID, codeInvalidParams, fmt.Sprintf("invalid params: %v", err))
		return
	}
	if len(params.Folders) == 0 {
		s.respondError(req.ID, codeInvalidRequest, "no folders given")
		return
	}

	created, err := folders.Create(s.fs, s.workspace, params.Folders)
	if err != nil {
		s.respondError(req.ID, codeInternal, err.Error())
		return
	}

	s.respond(req.ID, map[string]interface{}{"created": created})
}

func (s *Server) respond(id *uint64, result interface{}) {
	s.write(Response{ID: id, Result: result})
}

func (s *Server) respondError(id *uint64, code int, message string) {
	s.write(Response{ID: id, Error: &Error{Code: code, Message: message}})
}

func (s *Server) notify(method string, params interface{}) {
	s.writeValue(notification{Method: method, Params: params})
}

func (s *Server) write(resp Response) {
	s.writeValue(resp)
}

func (s *Server) writeValue(v interface{}) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.out.Encode(v); err != nil {
		s.log.Error().Err(err).Msg("failed to write response")
	}
}
