package server

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/menuserve/menuserve/pkg/config"
	"github.com/menuserve/menuserve/pkg/fuzzy"
	"github.com/menuserve/menuserve/pkg/menu"
)

// Server drives one completion menu over msgpack IPC. Requests are processed
// one at a time, so the engine runs with the inline dispatcher and the loop
// goroutine owns all menu state.
type Server struct {
	cfg     *config.Config
	matcher *fuzzy.Matcher
	dec     *msgpack.Decoder
	enc     *msgpack.Encoder

	menu   *menu.CompletionsMenu
	nextID uint64
}

// New creates a completion menu server using stdin/stdout for IPC.
func New(cfg *config.Config) *Server {
	return NewWithIO(cfg, os.Stdin, os.Stdout)
}

// NewWithIO creates a server over explicit streams, mainly for tests.
func NewWithIO(cfg *config.Config, r io.Reader, w io.Writer) *Server {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	return &Server{
		cfg:     cfg,
		matcher: fuzzy.NewMatcher(cfg.Matcher.ResultLimit),
		dec:     msgpack.NewDecoder(r),
		enc:     msgpack.NewEncoder(w),
	}
}

// Start begins listening for IPC requests. Returns nil on EOF.
func (s *Server) Start() error {
	log.Debug("Starting menu server.")

	for {
		var request Request
		if err := s.dec.Decode(&request); err != nil {
			if err == io.EOF {
				return nil
			}
			log.Errorf("Decoding request: %v", err)
			return err
		}
		s.handleRequest(request)
	}
}

func (s *Server) handleRequest(request Request) {
	start := time.Now()

	switch request.Op {
	case "open":
		s.handleOpen(request, start)
	case "snippet":
		s.handleSnippet(request, start)
	case "filter":
		s.handleFilter(request, start)
	case "move":
		s.handleMove(request, start)
	case "hint":
		s.handleHint(request, start)
	case "details":
		s.handleDetails(request, start)
	case "close":
		s.handleClose(request, start)
	case "health":
		s.reply(request.ID, start)
	default:
		s.sendError(request.ID, fmt.Sprintf("Unknown op: %s", request.Op), 400)
	}
}

func (s *Server) handleOpen(request Request, start time.Time) {
	if len(request.Candidates) == 0 {
		s.sendError(request.ID, "Missing 'cands' parameter", 400)
		return
	}
	if max := s.cfg.Server.MaxCandidates; len(request.Candidates) > max {
		s.sendError(request.ID, fmt.Sprintf("Too many candidates (%d > %d)", len(request.Candidates), max), 400)
		return
	}

	completions := make([]*menu.Completion, len(request.Candidates))
	for i, spec := range request.Candidates {
		c := &menu.Completion{
			Label:      spec.Label,
			FilterText: spec.FilterText,
			SortText:   spec.SortText,
			Kind:       menu.CompletionKind(spec.Kind),
			NewText:    spec.NewText,
			Deprecated: spec.Deprecated,
		}
		// Hosts ship detail inline; there is no source to resolve against.
		if spec.Doc != "" {
			c.Documentation = menu.Documentation{Kind: menu.DocSingleLine, Text: spec.Doc}
			c.Resolved = true
		}
		completions[i] = c
	}

	s.replaceMenu(menu.New(s.menuID(), menu.Point{}, 0, completions, s.menuOptions()))
	s.menu.Filter(request.Query)
	s.reply(request.ID, start)
}

func (s *Server) handleSnippet(request Request, start time.Time) {
	if len(request.Choices) == 0 {
		s.sendError(request.ID, "Missing 'choices' parameter", 400)
		return
	}
	s.replaceMenu(menu.NewSnippetChoices(s.menuID(), menu.Point{}, 0, request.Choices, s.menuOptions()))
	s.reply(request.ID, start)
}

func (s *Server) handleFilter(request Request, start time.Time) {
	if s.menu == nil {
		s.sendError(request.ID, "No open menu", 409)
		return
	}
	if max := s.cfg.Server.MaxQueryLen; len(request.Query) > max {
		s.sendError(request.ID, fmt.Sprintf("Query too long (%d > %d)", len(request.Query), max), 400)
		return
	}
	s.menu.Filter(request.Query)
	s.reply(request.ID, start)
}

func (s *Server) handleMove(request Request, start time.Time) {
	if s.menu == nil {
		s.sendError(request.ID, "No open menu", 409)
		return
	}
	ctx := menu.NewCompletionsContext(s.menu)
	var handled bool
	switch request.Dir {
	case "first":
		handled = ctx.SelectFirst()
	case "prev":
		handled = ctx.SelectPrev()
	case "next":
		handled = ctx.SelectNext()
	case "last":
		handled = ctx.SelectLast()
	default:
		s.sendError(request.ID, fmt.Sprintf("Unknown dir: %s", request.Dir), 400)
		return
	}
	if !handled {
		log.Debug("move on invisible menu ignored", "dir", request.Dir)
	}
	s.reply(request.ID, start)
}

func (s *Server) handleHint(request Request, start time.Time) {
	if s.menu == nil {
		s.sendError(request.ID, "No open menu", 409)
		return
	}
	s.menu.ShowInlineHint(menu.HintEntry{Provider: request.Provider, Preview: request.Text})
	s.reply(request.ID, start)
}

func (s *Server) handleDetails(request Request, start time.Time) {
	if s.menu == nil {
		s.sendError(request.ID, "No open menu", 409)
		return
	}
	response := s.snapshot(request.ID, start)
	if docs, ok := s.menu.SelectedDocumentation(); ok {
		response.Docs = docs.Text
	}
	s.send(response)
}

func (s *Server) handleClose(request Request, start time.Time) {
	if s.menu != nil {
		s.menu.Dismiss()
		s.menu = nil
	}
	s.send(Response{ID: request.ID, Status: "ok", TimeTaken: time.Since(start).Microseconds()})
}

func (s *Server) menuID() uint64 {
	s.nextID++
	return s.nextID
}

func (s *Server) menuOptions() menu.Options {
	return menu.Options{
		SortCompletions:   s.cfg.Menu.SortCompletions,
		ShowDocumentation: s.cfg.Menu.ShowDocs,
		StrongThreshold:   s.cfg.Matcher.StrongThreshold,
		Matcher:           s.matcher,
		Dispatcher:        menu.Sync{},
	}
}

func (s *Server) replaceMenu(next *menu.CompletionsMenu) {
	if s.menu != nil {
		s.menu.Dismiss()
	}
	s.menu = next
}

func (s *Server) reply(id string, start time.Time) {
	s.send(s.snapshot(id, start))
}

// snapshot captures the live menu state into a response.
func (s *Server) snapshot(id string, start time.Time) Response {
	response := Response{
		ID:        id,
		Status:    "ok",
		Selected:  -1,
		TimeTaken: time.Since(start).Microseconds(),
	}
	if s.menu == nil {
		return response
	}
	response.Visible = s.menu.Visible()
	if response.Visible {
		response.Selected = s.menu.Selected()
	}
	candidates := s.menu.Candidates()
	for _, entry := range s.menu.Entries() {
		switch e := entry.(type) {
		case menu.MatchEntry:
			c := candidates[e.CandidateIndex]
			response.Entries = append(response.Entries, EntryPayload{
				Index:      e.CandidateIndex,
				Label:      e.Display,
				Score:      e.Score,
				Positions:  e.Positions,
				Kind:       int(c.Kind),
				Deprecated: c.Deprecated,
			})
		case menu.HintEntry:
			response.Entries = append(response.Entries, EntryPayload{
				Index: -1,
				Label: e.Provider,
				Hint:  true,
			})
		}
	}
	return response
}

func (s *Server) send(response any) {
	if err := s.enc.Encode(response); err != nil {
		log.Errorf("Encoding response: %v", err)
	}
}

func (s *Server) sendError(id, message string, code int) {
	s.send(ErrorResponse{ID: id, Error: message, Code: code})
}
