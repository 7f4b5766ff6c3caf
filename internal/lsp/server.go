// Package lsp implements the language-server front end: a stdio JSON-RPC
// loop that keeps editor documents in sync and publishes diagnostics on
// every open and change.
package lsp

import (
	"bufio"
	"encoding/json"
	"errors"
	"io"
	"sync"

	"go.uber.org/zap"

	"github.com/nasalint/nasalint/internal/analyzer"
	tt "github.com/nasalint/nasalint/internal/types"
)

const (
	serverName    = "nasalint"
	serverVersion = "0.1.0"

	diagnosticSource  = "NASA"
	severityWarning   = 2
	syncKindFull      = 1
	codeMethodMissing = -32601
)

var (
	// ErrExit is returned by Run after a clean shutdown/exit sequence.
	ErrExit = errors.New("exit requested")
	// ErrExitWithoutShutdown is returned when the client sends exit
	// without a preceding shutdown request.
	ErrExitWithoutShutdown = errors.New("exit requested without shutdown")
)

// ServerOptions tune a Server. The zero value works: diagnostics come from
// the built-in analyzer and logging is disabled.
type ServerOptions struct {
	Analyze func(source string) []tt.Diagnostic
	Logger  *zap.Logger
}

// Server is a single-client LSP server over a reader/writer pair,
// typically stdin and stdout.
type Server struct {
	reader  *bufio.Reader
	writer  io.Writer
	writeMu sync.Mutex

	analyze func(string) []tt.Diagnostic
	logger  *zap.Logger

	docs         map[string]string
	versions     map[string]int
	shutdownSeen bool
}

// NewServer builds a server reading requests from r and writing responses
// and notifications to w.
func NewServer(r io.Reader, w io.Writer, opts ServerOptions) *Server {
	analyze := opts.Analyze
	if analyze == nil {
		analyze = analyzer.Analyze
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{
		reader:   bufio.NewReader(r),
		writer:   w,
		analyze:  analyze,
		logger:   logger,
		docs:     make(map[string]string),
		versions: make(map[string]int),
	}
}

// Run serves messages until the client exits or the transport fails.
// A clean client exit yields ErrExit; io.EOF is treated the same way.
func (s *Server) Run() error {
	for {
		payload, err := readMessage(s.reader)
		if err != nil {
			if errors.Is(err, io.EOF) {
				return ErrExit
			}
			return err
		}

		var msg rpcMessage
		if err := json.Unmarshal(payload, &msg); err != nil {
			s.logger.Warn("dropping malformed message", zap.Error(err))
			continue
		}

		if err := s.handleMessage(&msg); err != nil {
			return err
		}
	}
}

func (s *Server) handleMessage(msg *rpcMessage) error {
	switch msg.Method {
	case "initialize":
		return s.respond(msg.ID, initializeResult{
			Capabilities: serverCapabilities{
				TextDocumentSync: textDocumentSyncOptions{
					OpenClose: true,
					Change:    syncKindFull,
				},
			},
			ServerInfo: serverInfo{Name: serverName, Version: serverVersion},
		})

	case "initialized":
		return nil

	case "shutdown":
		s.shutdownSeen = true
		return s.respond(msg.ID, nil)

	case "exit":
		if s.shutdownSeen {
			return ErrExit
		}
		return ErrExitWithoutShutdown

	case "textDocument/didOpen":
		var params didOpenTextDocumentParams
		if err := json.Unmarshal(msg.Params, &params); err != nil {
			s.logger.Warn("bad didOpen params", zap.Error(err))
			return nil
		}
		s.docs[params.TextDocument.URI] = params.TextDocument.Text
		s.versions[params.TextDocument.URI] = params.TextDocument.Version
		return s.publish(params.TextDocument.URI)

	case "textDocument/didChange":
		var params didChangeTextDocumentParams
		if err := json.Unmarshal(msg.Params, &params); err != nil {
			s.logger.Warn("bad didChange params", zap.Error(err))
			return nil
		}
		uri := params.TextDocument.URI
		s.docs[uri] = applyChanges(s.docs[uri], params.ContentChanges)
		s.versions[uri] = params.TextDocument.Version
		return s.publish(uri)

	case "textDocument/didClose":
		var params didCloseTextDocumentParams
		if err := json.Unmarshal(msg.Params, &params); err != nil {
			s.logger.Warn("bad didClose params", zap.Error(err))
			return nil
		}
		uri := params.TextDocument.URI
		delete(s.docs, uri)
		delete(s.versions, uri)
		// clear stale diagnostics in the editor
		return s.notify("textDocument/publishDiagnostics", publishDiagnosticsParams{
			URI:         uri,
			Diagnostics: []lspDiagnostic{},
		})

	default:
		if len(msg.ID) != 0 {
			return s.respondError(msg.ID, codeMethodMissing, "method not found: "+msg.Method)
		}
		return nil
	}
}

func (s *Server) publish(uri string) error {
	diags := s.analyze(s.docs[uri])

	out := make([]lspDiagnostic, 0, len(diags))
	for _, d := range diags {
		out = append(out, toLSPDiagnostic(d))
	}

	s.logger.Debug("publishing diagnostics",
		zap.String("uri", uri), zap.Int("count", len(out)))

	return s.notify("textDocument/publishDiagnostics", publishDiagnosticsParams{
		URI:         uri,
		Version:     s.versions[uri],
		Diagnostics: out,
	})
}

func toLSPDiagnostic(d tt.Diagnostic) lspDiagnostic {
	return lspDiagnostic{
		Range: lspRange{
			Start: position{Line: d.Range.Start.Line, Character: d.Range.Start.Character},
			End:   position{Line: d.Range.End.Line, Character: d.Range.End.Character},
		},
		Severity: severityWarning,
		Code:     d.Code,
		Source:   diagnosticSource,
		Message:  d.Message,
	}
}

func (s *Server) respond(id json.RawMessage, result any) error {
	payload, err := json.Marshal(struct {
		JSONRPC string          `json:"jsonrpc"`
		ID      json.RawMessage `json:"id"`
		Result  any             `json:"result"`
	}{JSONRPC: "2.0", ID: id, Result: result})
	if err != nil {
		return err
	}
	return s.send(payload)
}

func (s *Server) respondError(id json.RawMessage, code int, message string) error {
	payload, err := json.Marshal(rpcMessage{
		JSONRPC: "2.0",
		ID:      id,
		Error:   &rpcError{Code: code, Message: message},
	})
	if err != nil {
		return err
	}
	return s.send(payload)
}

func (s *Server) notify(method string, params any) error {
	raw, err := json.Marshal(params)
	if err != nil {
		return err
	}
	payload, err := json.Marshal(rpcMessage{
		JSONRPC: "2.0",
		Method:  method,
		Params:  raw,
	})
	if err != nil {
		return err
	}
	return s.send(payload)
}

func (s *Server) send(payload []byte) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	return writeMessage(s.writer, payload)
}
