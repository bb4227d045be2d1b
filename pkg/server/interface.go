/*
Package server implements msgpack IPC for the completion menu engine.

The server wraps the library core in a stdin/stdout request loop so editor
hosts in other languages can drive a menu as a child process. Messages use
binary msgpack encoding with short field tags; each request carries an ID
that is echoed back on the response.

# IPC

One menu is live at a time, mirroring the engine's lifecycle: a menu is built
per completion request and wholly replaced by the next one.

Open a menu over a candidate set, then filter it as the user types:

	{"id": "r1", "op": "open", "cands": [{"l": "CreateComponent"}, {"l": "create_all"}]}
	{"id": "r2", "op": "filter", "q": "Creat"}

The server answers with the derived entries, the selection cursor, and
timing:

	{"id": "r2", "st": "ok", "e": [{"i": 0, "l": "CreateComponent", "sc": 0.55, "p": [0,1,2,3,4]}], "sel": 0, "v": true, "t": 180}

Navigation and detail requests operate on the live menu:

	{"id": "r3", "op": "move", "dir": "next"}
	{"id": "r4", "op": "details"}
	{"id": "r5", "op": "close"}

"snippet" opens a menu straight from literal choices, and "hint" pins an
inline-suggestion line at index 0. Errors come back with an error string and
a code; the menu is left untouched.
*/
package server

// Request is the envelope for every operation.
// Op is one of: "open", "snippet", "filter", "move", "hint", "details",
// "close", "health".
type Request struct {
	ID         string          `msgpack:"id"`
	Op         string          `msgpack:"op"`
	Candidates []CandidateSpec `msgpack:"cands,omitempty"`
	Choices    []string        `msgpack:"choices,omitempty"`
	Query      string          `msgpack:"q,omitempty"`
	Dir        string          `msgpack:"dir,omitempty"` // "first" | "prev" | "next" | "last"
	Provider   string          `msgpack:"prov,omitempty"`
	Text       string          `msgpack:"text,omitempty"`
}

// CandidateSpec is one completion candidate as the host supplies it.
// Kind takes menu.CompletionKind values; variables win score ties.
type CandidateSpec struct {
	Label      string  `msgpack:"l"`
	FilterText string  `msgpack:"f,omitempty"`
	SortText   *string `msgpack:"s,omitempty"`
	NewText    string  `msgpack:"n,omitempty"`
	Doc        string  `msgpack:"d,omitempty"`
	Kind       int     `msgpack:"k,omitempty"`
	Deprecated bool    `msgpack:"dep,omitempty"`
}

// EntryPayload is one derived menu line. Index is the candidate index, or -1
// for the inline hint. Kind and Deprecated echo the candidate so renderers
// can pick icons and strikethrough without holding their own copy.
type EntryPayload struct {
	Index      int     `msgpack:"i"`
	Label      string  `msgpack:"l"`
	Score      float64 `msgpack:"sc"`
	Positions  []int   `msgpack:"p,omitempty"`
	Hint       bool    `msgpack:"h,omitempty"`
	Kind       int     `msgpack:"k,omitempty"`
	Deprecated bool    `msgpack:"dep,omitempty"`
}

// Response is the reply to any successful request.
type Response struct {
	ID        string         `msgpack:"id"`
	Status    string         `msgpack:"st"`
	Entries   []EntryPayload `msgpack:"e,omitempty"`
	Selected  int            `msgpack:"sel"`
	Visible   bool           `msgpack:"v"`
	Docs      string         `msgpack:"docs,omitempty"`
	TimeTaken int64          `msgpack:"t"`
}

// ErrorResponse reports a failed request.
type ErrorResponse struct {
	ID    string `msgpack:"id"`
	Error string `msgpack:"error"`
	Code  int    `msgpack:"code"`
}
