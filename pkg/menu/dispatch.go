package menu

import "sync"

// Dispatcher separates where work runs. Menu state is owned by a single
// goroutine; Foreground closures must execute there. Background closures run
// off that goroutine and may only touch immutable snapshots plus the one
// candidate slot a resolve addresses.
type Dispatcher interface {
	Background(fn func())
	Foreground(fn func())
}

// Sync runs every closure inline. Suits tests and hosts that already process
// requests one at a time, like the IPC server.
type Sync struct{}

func (Sync) Background(fn func()) { fn() }
func (Sync) Foreground(fn func()) { fn() }

// Loop pumps foreground closures onto the goroutine that calls Run, and gives
// each background closure its own goroutine. Stop unblocks everything;
// foreground closures submitted after Stop never run.
type Loop struct {
	fg   chan func()
	done chan struct{}
	once sync.Once
}

func NewLoop() *Loop {
	return &Loop{
		fg:   make(chan func(), 64),
		done: make(chan struct{}),
	}
}

func (l *Loop) Background(fn func()) { go fn() }

func (l *Loop) Foreground(fn func()) {
	select {
	case l.fg <- fn:
	case <-l.done:
	}
}

// Run processes foreground closures until Stop. The calling goroutine becomes
// the owner of every menu using this dispatcher.
func (l *Loop) Run() {
	for {
		select {
		case fn := <-l.fg:
			fn()
		case <-l.done:
			return
		}
	}
}

func (l *Loop) Stop() {
	l.once.Do(func() { close(l.done) })
}
