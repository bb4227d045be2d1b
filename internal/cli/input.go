// Package cli handles cmd line input and menu driving for DBG and testing various features
package cli

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/charmbracelet/log"

	"github.com/menuserve/menuserve/pkg/config"
	"github.com/menuserve/menuserve/pkg/fuzzy"
	"github.com/menuserve/menuserve/pkg/menu"
	"github.com/menuserve/menuserve/pkg/source"
)

// InputHandler processes queries from stdin: each line harvests candidates
// from the sample dictionary, builds a menu, filters it, and prints the
// ranked entries with the selected candidate's resolved detail.
type InputHandler struct {
	cfg          *config.Config
	matcher      *fuzzy.Matcher
	dict         *source.DictSource
	suggestLimit int
	requestCount uint64
}

// NewInputHandler handles initialization of the InputHandler with basic parameters
func NewInputHandler(cfg *config.Config, limit int) *InputHandler {
	return &InputHandler{
		cfg:          cfg,
		matcher:      fuzzy.NewMatcher(cfg.Matcher.ResultLimit),
		dict:         sampleDict(),
		suggestLimit: limit,
	}
}

// Start begins the interface loop.
// It continuously prompts for input, reads a line from stdin,
// and passes the trimmed input to handleInput() for processing.
// Loop terminates if an error occurs while reading from stdin
func (h *InputHandler) Start() error {
	log.Print("MenuServe CLI [BETA]")
	reader := bufio.NewReader(os.Stdin)
	log.Print("type a query and press Enter to see the ranked menu (Ctrl+C to exit):")

	for {
		log.Print("> ")
		query, err := reader.ReadString('\n')
		if err != nil {
			return err
		}
		query = strings.TrimSpace(query)
		if query == "" {
			continue
		}
		h.handleInput(query)
	}
}

// handleInput runs one query through the full pipeline: candidate harvest,
// background-free filter (inline dispatcher), ranking, and resolve-on-select
// against the dictionary source.
func (h *InputHandler) handleInput(query string) {
	h.requestCount++
	start := time.Now()

	prefix := harvestPrefix(query)
	completions := h.dict.Completions(prefix, h.suggestLimit)
	if len(completions) == 0 {
		log.Infof("No candidates for prefix %q", prefix)
		return
	}

	m := menu.New(h.requestCount, menu.Point{}, 0, completions, menu.Options{
		SortCompletions:   h.cfg.Menu.SortCompletions,
		ShowDocumentation: h.cfg.Menu.ShowDocs,
		StrongThreshold:   h.cfg.Matcher.StrongThreshold,
		Matcher:           h.matcher,
		Source:            h.dict,
		Dispatcher:        menu.Sync{},
	})
	m.Filter(query)

	if !m.Visible() {
		log.Infof("No matches for %q", query)
		return
	}

	elapsed := time.Since(start).Microseconds()
	log.Printf("%d entries in %dµs:", len(m.Entries()), elapsed)
	for i, entry := range m.Entries() {
		match, ok := entry.(menu.MatchEntry)
		if !ok {
			continue
		}
		marker := " "
		if i == m.Selected() {
			marker = ">"
		}
		line := fmt.Sprintf("%s %2d. %s (%.3f)", marker, i+1, match.Display, match.Score)
		if i == m.Selected() {
			if docs, ok := m.SelectedDocumentation(); ok {
				line += "  -- " + docs.Text
			}
		}
		log.Print(line)
	}
	m.Dismiss()
}

// harvestPrefix is the dictionary prefix for a query: its first rune,
// lowercased. Byte slicing would split multi-byte runes.
func harvestPrefix(query string) string {
	r, _ := utf8.DecodeRuneInString(query)
	return strings.ToLower(string(r))
}

// sampleDict is a small identifier dictionary for interactive testing.
func sampleDict() *source.DictSource {
	dict := source.NewDictSource()
	for _, w := range []source.Word{
		{Text: "append", Freq: 90, Doc: "append(slice, elems...) grows a slice"},
		{Text: "applyChanges", Freq: 40, Doc: "applyChanges commits pending edits"},
		{Text: "buffer", Freq: 70, Doc: "buffer holds text being edited"},
		{Text: "bufferSize", Freq: 35},
		{Text: "CreateComponent", Freq: 55, Doc: "CreateComponent mounts a new UI component"},
		{Text: "create_all", Freq: 60, Doc: "create_all provisions every resource"},
		{Text: "createBuffer", Freq: 45},
		{Text: "context", Freq: 85, Doc: "context carries deadlines and cancellation"},
		{Text: "cursor", Freq: 65},
		{Text: "dispatch", Freq: 50, Doc: "dispatch routes an event to handlers"},
		{Text: "document", Freq: 75},
		{Text: "fuzzyMatch", Freq: 30},
		{Text: "handleInput", Freq: 42},
		{Text: "insertText", Freq: 58},
		{Text: "position", Freq: 80},
		{Text: "renderMenu", Freq: 33},
		{Text: "resolve", Freq: 66, Doc: "resolve fetches expensive candidate detail"},
		{Text: "selection", Freq: 72},
		{Text: "snippet", Freq: 48},
		{Text: "tabstop", Freq: 28},
	} {
		dict.Add(w)
	}
	return dict
}
