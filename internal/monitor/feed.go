package monitor

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/growmonitor/growdash/internal/dashboard"
)

// stateFeed carries view model snapshots from whichever goroutine changed the
// state into the Bubble Tea loop. It holds at most one pending snapshot; a
// newer one replaces an unread older one, so publishers never block.
type stateFeed struct {
	ch        chan dashboard.State
	done      chan struct{}
	closeOnce sync.Once
}

func newStateFeed() *stateFeed {
	return &stateFeed{
		ch:   make(chan dashboard.State, 1),
		done: make(chan struct{}),
	}
}

// push publishes s, dropping any snapshot that was not picked up yet.
func (f *stateFeed) push(s dashboard.State) {
	for {
		select {
		case <-f.done:
			return
		case f.ch <- s:
			return
		default:
		}
		select {
		case <-f.ch:
		default:
		}
	}
}

// next waits for the next snapshot. After close it yields nil.
func (f *stateFeed) next() tea.Cmd {
	return func() tea.Msg {
		select {
		case s := <-f.ch:
			return stateMsg(s)
		case <-f.done:
			return nil
		}
	}
}

func (f *stateFeed) close() {
	f.closeOnce.Do(func() { close(f.done) })
}
