// Package clock schedules delayed callbacks so game code never touches
// time.AfterFunc directly. Callbacks scheduled through a Program scheduler run
// on the bubbletea event loop, never on a timer goroutine.
package clock

import (
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// Scheduler arms a callback to run once after d.
type Scheduler interface {
	AfterFunc(d time.Duration, f func()) Timer
}

// Timer is a handle to a scheduled callback.
type Timer interface {
	// Stop prevents the callback from running. It returns false if the
	// callback already ran or was already stopped.
	Stop() bool
}

// Sender is the part of *tea.Program the scheduler needs.
type Sender interface {
	Send(msg tea.Msg)
}

// FireMsg is delivered to the bubbletea model when a timer expires. The model
// must call Fire from its Update method.
type FireMsg struct {
	timer *programTimer
}

// Fire runs the callback unless the timer was stopped after it expired.
func (m FireMsg) Fire() {
	if m.timer == nil {
		return
	}
	m.timer.fire()
}

// Program schedules callbacks through a bubbletea program.
type Program struct {
	mu     sync.Mutex
	sender Sender
}

func NewProgram() *Program {
	return &Program{}
}

// Attach sets the program that receives FireMsg. Timers that expire before a
// program is attached are dropped.
func (p *Program) Attach(s Sender) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.sender = s
}

func (p *Program) AfterFunc(d time.Duration, f func()) Timer {
	t := &programTimer{f: f}
	t.timer = time.AfterFunc(d, func() {
		p.mu.Lock()
		sender := p.sender
		p.mu.Unlock()
		if sender != nil {
			sender.Send(FireMsg{timer: t})
		}
	})
	return t
}

type programTimer struct {
	mu    sync.Mutex
	timer *time.Timer
	f     func()
	done  bool
}

func (t *programTimer) Stop() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.done {
		return false
	}
	t.done = true
	t.timer.Stop()
	return true
}

func (t *programTimer) fire() {
	t.mu.Lock()
	if t.done {
		t.mu.Unlock()
		return
	}
	t.done = true
	t.mu.Unlock()
	t.f()
}
