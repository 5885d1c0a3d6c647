package framework

import (
	"bytes"
	"context"
	"io"
	"sync"
	"sync/atomic"
	"time"

	"github.com/golang/glog"

	"github.com/robotalks/logicbox/pkg/irq"
)

// Built-in command mnemonics handled by App itself.
const (
	CmdHelp    = "?"
	CmdVersion = "IDQ"
)

// DefaultPollInterval is the polling pass interval when nothing wakes
// the loop earlier.
const DefaultPollInterval = time.Millisecond

// App dispatches ticks, commands and report generation to the registered
// event handlers. Handlers are called in registration order, so
// producers should be added ahead of consumers.
type App struct {
	// Output receives report lines and built-in command responses.
	Output io.Writer
	// VersionLine answers CmdVersion.
	VersionLine string
	// HelpScreen is printed ahead of the handlers' help screens.
	HelpScreen string
	// Interval between polling passes when not woken up.
	Interval time.Duration

	mask *irq.Mask

	initializers []Initializer
	tickHandlers []TickHandler
	reporters    []Reporter
	helpers      []Helper
	routes       map[string]commandRoute

	cmds     commandList
	cmdsLock sync.Mutex

	inISR    int32
	wakeUpCh chan struct{}
	buf      bytes.Buffer
}

type commandRoute struct {
	handler CommandHandler
	def     CommandDef
}

type commandList struct {
	head *commandItem
	tail *commandItem
}

type commandItem struct {
	cmd  Command
	next *commandItem
}

func (l *commandList) append(item *commandItem) {
	if l.head == nil {
		l.head = item
	} else {
		l.tail.next = item
	}
	l.tail = item
}

func (l *commandList) splice(src *commandList) {
	l.head, l.tail = src.head, src.tail
	src.head, src.tail = nil, nil
}

// NewApp creates an App writing to out. mask must be shared with the
// handlers that exchange state with their tick handler.
func NewApp(mask *irq.Mask, out io.Writer) *App {
	if mask == nil {
		mask = &irq.Mask{}
	}
	return &App{
		Output:   out,
		Interval: DefaultPollInterval,
		mask:     mask,
		routes:   make(map[string]commandRoute),
		wakeUpCh: make(chan struct{}, 1),
	}
}

// Mask returns the interrupt mask held during tick dispatch.
func (a *App) Mask() *irq.Mask {
	return a.mask
}

// Add registers event handlers. Each handler is hooked up for every
// capability interface it implements. Must not be called after the App
// starts running.
func (a *App) Add(handlers ...interface{}) *App {
	for _, h := range handlers {
		if init, ok := h.(Initializer); ok {
			init.InitState()
			a.initializers = append(a.initializers, init)
		}
		if th, ok := h.(TickHandler); ok {
			a.tickHandlers = append(a.tickHandlers, th)
		}
		if r, ok := h.(Reporter); ok {
			a.reporters = append(a.reporters, r)
		}
		if hp, ok := h.(Helper); ok {
			a.helpers = append(a.helpers, hp)
		}
		if ch, ok := h.(CommandHandler); ok {
			for _, def := range ch.Commands() {
				if _, exist := a.routes[def.Name]; exist {
					glog.Warningf("command %s already registered, ignored", def.Name)
					continue
				}
				a.routes[def.Name] = commandRoute{handler: ch, def: def}
			}
		}
	}
	return a
}

// InitState re-initializes all handlers.
func (a *App) InitState() {
	for _, init := range a.initializers {
		init.InitState()
	}
}

// DoUpdateISR implements ISRHandler. It runs every tick handler with
// interrupts masked. A call that arrives while a previous one is still
// running is dropped.
func (a *App) DoUpdateISR() {
	if !atomic.CompareAndSwapInt32(&a.inISR, 0, 1) {
		return
	}
	a.mask.Disable()
	for _, h := range a.tickHandlers {
		h.HandleTickISR()
	}
	a.mask.Enable()
	atomic.StoreInt32(&a.inISR, 0)
	a.TriggerNext()
}

// PostCommand implements CommandPoster. The command is dispatched in
// the next polling pass.
func (a *App) PostCommand(cmd Command) {
	a.cmdsLock.Lock()
	a.cmds.append(&commandItem{cmd: cmd})
	a.cmdsLock.Unlock()
	a.TriggerNext()
}

// TriggerNext schedules a polling pass as soon as possible.
func (a *App) TriggerNext() {
	select {
	case a.wakeUpCh <- struct{}{}:
	default:
	}
}

// DoPolling runs one polling pass: queued commands first, then one
// report per reporter. It returns the number of report lines written.
func (a *App) DoPolling() int {
	var cmds commandList
	a.cmdsLock.Lock()
	cmds.splice(&a.cmds)
	a.cmdsLock.Unlock()
	for item := cmds.head; item != nil; item = item.next {
		if err := a.Dispatch(item.cmd); err != nil {
			glog.V(2).Infof("command %q ignored: %v", item.cmd.Name, err)
		}
	}

	var lines int
	for _, r := range a.reporters {
		a.buf.Reset()
		if r.DrainAndReport(&a.buf) {
			a.write(a.buf.Bytes())
			lines++
		}
	}
	return lines
}

// Dispatch routes cmd to the handler that registered its mnemonic.
// Handlers never report failures; the returned error only tells the
// caller that nothing was routed.
func (a *App) Dispatch(cmd Command) error {
	switch cmd.Name {
	case CmdHelp:
		a.writeHelp()
		return nil
	case CmdVersion:
		a.write([]byte(a.VersionLine))
		return nil
	}
	route, ok := a.routes[cmd.Name]
	if !ok {
		return ErrUnknownCommand
	}
	if len(cmd.Args) != route.def.Args {
		return &ArityError{Name: cmd.Name, Expected: route.def.Args, Actual: len(cmd.Args)}
	}
	var args [2]uint16
	copy(args[:], cmd.Args)
	route.handler.HandleCommand(route.def.Opcode, args[0], args[1])
	return nil
}

// Run implements Runnable. It runs polling passes until ctx is done.
func (a *App) Run(ctx context.Context) error {
	interval := a.Interval
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			a.DoPolling()
		case <-a.wakeUpCh:
			a.DoPolling()
		}
	}
}

func (a *App) writeHelp() {
	var w bytes.Buffer
	w.WriteString(a.HelpScreen)
	for _, h := range a.helpers {
		w.WriteString("\r\n")
		w.WriteString(h.HelpScreen())
	}
	a.write(w.Bytes())
}

func (a *App) write(p []byte) {
	if a.Output == nil || len(p) == 0 {
		return
	}
	if _, err := a.Output.Write(p); err != nil {
		glog.Errorf("write output error: %v", err)
	}
}
