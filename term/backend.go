// Package term provides a concrete terminal-based implementation of
// vm.DisplayBackend, vm.KeypadBackend, and vm.AudioBackend built directly
// on github.com/gdamore/tcell/v2 (not rivo/tview, which is built for
// widget panels rather than a raw pixel grid). This is the one place the
// interpreter's abstract collaborators meet a real I/O surface (§6); the
// vm package itself never imports this package.
package term

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/gdamore/tcell/v2"

	"chip8emu/config"
	"chip8emu/vm"
)

// releaseHoldoff is how long a key is reported "down" after a keystroke,
// since terminal input carries no true key-up event — only key-down — so
// IsDown is approximated by a short hold window rather than real key
// state. The key is queued for PollRelease as soon as the keystroke
// arrives, not when the window ends.
const releaseHoldoff = 60 * time.Millisecond

// keyLayout maps host keys to the CHIP-8 hex keypad per §6:
//
//	1 2 3 4     1 2 3 C
//	Q W E R     4 5 6 D
//	A S D F  →  7 8 9 E
//	Z X C V     A 0 B F
var keyLayout = map[rune]int{
	'1': 0x1, '2': 0x2, '3': 0x3, '4': 0xC,
	'q': 0x4, 'w': 0x5, 'e': 0x6, 'r': 0xD,
	'a': 0x7, 's': 0x8, 'd': 0x9, 'f': 0xE,
	'z': 0xA, 'x': 0x0, 'c': 0xB, 'v': 0xF,
}

// Backend is a tcell.Screen-backed DisplayBackend/KeypadBackend/
// AudioBackend triple.
type Backend struct {
	screen tcell.Screen

	onStyle  tcell.Style
	offStyle tcell.Style
	scale    int

	mu       sync.Mutex
	down     [vm.NumKeys]bool
	releases chan int

	quit int32
	done chan struct{}
}

// NewBackend initializes a tcell screen and starts its event-polling
// goroutine. Call Close when the interpreter exits.
func NewBackend(cfg *config.Config) (*Backend, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	return newBackendWithScreen(screen, cfg)
}

// newBackendWithScreen lets tests inject a tcell.NewSimulationScreen
// instead of a real terminal.
func newBackendWithScreen(screen tcell.Screen, cfg *config.Config) (*Backend, error) {
	if err := screen.Init(); err != nil {
		return nil, err
	}
	screen.Clear()
	screen.HideCursor()

	scale := cfg.Display.Scale
	if scale < 1 {
		scale = 1
	}

	b := &Backend{
		screen:   screen,
		onStyle:  tcell.StyleDefault.Background(tcell.GetColor(cfg.Display.OnColor)),
		offStyle: tcell.StyleDefault.Background(tcell.GetColor(cfg.Display.OffColor)),
		scale:    scale,
		releases: make(chan int, vm.NumKeys),
		done:     make(chan struct{}),
	}

	go b.pollLoop()
	return b, nil
}

func (b *Backend) Close() {
	b.screen.Fini()
}

func (b *Backend) pollLoop() {
	for {
		ev := b.screen.PollEvent()
		if ev == nil {
			close(b.done)
			return
		}
		keyEv, ok := ev.(*tcell.EventKey)
		if !ok {
			continue
		}
		if keyEv.Key() == tcell.KeyEscape || keyEv.Key() == tcell.KeyCtrlC {
			atomic.StoreInt32(&b.quit, 1)
			continue
		}
		key, ok := keyLayout[keyEv.Rune()]
		if !ok {
			continue
		}
		b.markDown(key)
	}
}

func (b *Backend) markDown(key int) {
	b.mu.Lock()
	b.down[key] = true
	b.mu.Unlock()

	select {
	case b.releases <- key:
	default:
	}

	go func() {
		time.Sleep(releaseHoldoff)
		b.mu.Lock()
		b.down[key] = false
		b.mu.Unlock()
	}()
}

// IsDown implements vm.KeypadBackend.
func (b *Backend) IsDown(key int) bool {
	if key < 0 || key >= vm.NumKeys {
		return false
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.down[key]
}

// PollRelease implements vm.KeypadBackend.
func (b *Backend) PollRelease() (int, bool) {
	select {
	case key := <-b.releases:
		return key, true
	default:
		return 0, false
	}
}

// PollQuit implements vm.KeypadBackend.
func (b *Backend) PollQuit() bool {
	return atomic.LoadInt32(&b.quit) == 1
}

// SetGated implements vm.AudioBackend. Real PCM tone generation is a
// windowing/audio-backend concern out of scope per §1; the terminal bell
// is used as the audible gate signal.
func (b *Backend) SetGated(on bool) {
	if on {
		b.screen.Beep()
	}
}

// Present implements vm.DisplayBackend, rendering each logical pixel as a
// scale x scale block of colored terminal cells.
func (b *Backend) Present(frame *vm.Display) {
	for y := 0; y < vm.DisplayHeight; y++ {
		for x := 0; x < vm.DisplayWidth; x++ {
			style := b.offStyle
			if frame.At(x, y) {
				style = b.onStyle
			}
			for dy := 0; dy < b.scale; dy++ {
				for dx := 0; dx < b.scale; dx++ {
					b.screen.SetContent(x*b.scale+dx, y*b.scale+dy, ' ', nil, style)
				}
			}
		}
	}
	b.screen.Show()
}
