package indicator

import (
	"fmt"
	"io"
	"sync"

	"github.com/fatih/color"

	"github.com/hwchain/hwchain-cli/internal/domain"
	"github.com/hwchain/hwchain-cli/internal/usecase"
)

// Console prints the gate's state as colored lines in place of the LEDs,
// servo and display of the physical gate
type Console struct {
	mu  sync.Mutex
	out io.Writer
}

// NewConsole creates a console indicator writing to out
func NewConsole(out io.Writer) *Console {
	return &Console{out: out}
}

var (
	centerColor = color.New(color.FgCyan)
	openColor   = color.New(color.FgGreen, color.Bold)
	tickColor   = color.New(color.FgYellow)
	faint       = color.New(color.Faint)
)

// Center shows the idle position
func (c *Console) Center() {
	c.mu.Lock()
	defer c.mu.Unlock()
	centerColor.Fprintln(c.out, "◆ gate centered")
}

// Begin announces a countdown pulse
func (c *Console) Begin(pulse *domain.Pulse) {
	c.mu.Lock()
	defer c.mu.Unlock()
	openColor.Fprintf(c.out, "▶ gate open for %ds", pulse.Seconds())
	faint.Fprintf(c.out, " from %s (block %d)\n", pulse.From.Hex(), pulse.BlockNumber)
}

// Tick shows the remaining steps of the current countdown
func (c *Console) Tick(pulse *domain.Pulse, remaining uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	tickColor.Fprintln(c.out, fmt.Sprintf("  %d", remaining))
}

// Ensure the indicator implements the interface
var _ usecase.GateIndicator = (*Console)(nil)
