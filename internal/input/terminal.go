package input

import (
	"context"
	"fmt"
	"sync"

	"github.com/gdamore/tcell/v2"
	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"
)

// TerminalSource reads keyboard and mouse events from the controlling
// terminal. Terminals report presses (and auto-repeat) but never releases,
// so a key counts as held only for the tick in which its event arrived.
type TerminalSource struct {
	screen tcell.Screen
	log    *zap.Logger

	mu      sync.Mutex
	keys    map[Key]struct{}
	buttons map[MouseButton]struct{}
	pos     mgl32.Vec2
	scroll  int
}

func NewTerminalSource(log *zap.Logger) (*TerminalSource, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, fmt.Errorf("new terminal screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return nil, fmt.Errorf("init terminal screen: %w", err)
	}
	screen.EnableMouse()
	screen.HideCursor()
	return &TerminalSource{
		screen:  screen,
		log:     log,
		keys:    make(map[Key]struct{}, 8),
		buttons: make(map[MouseButton]struct{}, 2),
	}, nil
}

// Screen exposes the terminal so a renderer can draw to it.
func (t *TerminalSource) Screen() tcell.Screen { return t.screen }

// Run pumps terminal events until ctx is cancelled. It owns the screen and
// finalizes it on return.
func (t *TerminalSource) Run(ctx context.Context) error {
	go func() {
		<-ctx.Done()
		t.screen.Fini() // unblocks PollEvent
	}()
	for {
		ev := t.screen.PollEvent()
		if ev == nil {
			return nil
		}
		t.handle(ev)
	}
}

func (t *TerminalSource) handle(ev tcell.Event) {
	t.mu.Lock()
	defer t.mu.Unlock()
	switch ev := ev.(type) {
	case *tcell.EventKey:
		if k := mapKey(ev); k != KeyNone {
			t.keys[k] = struct{}{}
		}
	case *tcell.EventMouse:
		x, y := ev.Position()
		t.pos = mgl32.Vec2{float32(x), float32(y)}
		btn := ev.Buttons()
		if btn&tcell.Button1 != 0 {
			t.buttons[MouseLeft] = struct{}{}
		}
		if btn&tcell.Button2 != 0 {
			t.buttons[MouseRight] = struct{}{}
		}
		if btn&tcell.Button3 != 0 {
			t.buttons[MouseMiddle] = struct{}{}
		}
		if btn&tcell.WheelUp != 0 {
			t.scroll++
		}
		if btn&tcell.WheelDown != 0 {
			t.scroll--
		}
	case *tcell.EventResize:
		w, h := ev.Size()
		t.log.Debug("terminal resized", zap.Int("width", w), zap.Int("height", h))
	}
}

// Poll drains the events gathered since the previous call.
func (t *TerminalSource) Poll() Snapshot {
	t.mu.Lock()
	defer t.mu.Unlock()
	s := Snapshot{Position: t.pos, Scroll: t.scroll}
	for k := range t.keys {
		s.Keys = append(s.Keys, k)
	}
	for b := range t.buttons {
		s.Buttons = append(s.Buttons, b)
	}
	clear(t.keys)
	clear(t.buttons)
	t.scroll = 0
	return s
}

func mapKey(ev *tcell.EventKey) Key {
	switch ev.Key() {
	case tcell.KeyUp:
		return KeyUp
	case tcell.KeyDown:
		return KeyDown
	case tcell.KeyLeft:
		return KeyLeft
	case tcell.KeyRight:
		return KeyRight
	case tcell.KeyEscape:
		return KeyEscape
	case tcell.KeyEnter:
		return KeyEnter
	case tcell.KeyF1:
		return KeyF1
	case tcell.KeyF2:
		return KeyF2
	case tcell.KeyRune:
		return runeKeys[ev.Rune()]
	}
	return KeyNone
}

var runeKeys = map[rune]Key{
	'w': KeyW, 'W': KeyW,
	'a': KeyA, 'A': KeyA,
	's': KeyS, 'S': KeyS,
	'd': KeyD, 'D': KeyD,
	'r': KeyR, 'R': KeyR,
	'c': KeyC, 'C': KeyC,
	'p': KeyP, 'P': KeyP,
	'o': KeyO, 'O': KeyO,
	'q': KeyQ, 'Q': KeyQ,
	' ': KeySpace,
}
