package render

import (
	"fmt"
	"io"
	"time"

	"github.com/hwchain/hwchain-cli/internal/usecase"
)

// GateRenderer renders the listener summary printed on shutdown
type GateRenderer struct {
	out io.Writer
}

// NewGateRenderer creates a new gate renderer
func NewGateRenderer(out io.Writer) *GateRenderer {
	return &GateRenderer{out: out}
}

// RenderListening announces the gate before the first poll
func (r *GateRenderer) RenderListening(gate, network string) {
	headerStyle.Fprintf(r.out, "👂 Listening for GatePulse on %s (%s), Ctrl+C to stop\n", gate, network)
}

// Render renders the session counters
func (r *GateRenderer) Render(result *usecase.ListenGateResult) error {
	fmt.Fprintln(r.out)
	headerStyle.Fprintf(r.out, "Gate session %s\n", result.SessionID)
	fmt.Fprintf(r.out, "%s %s\n", field("Gate"), result.Gate.Hex())
	fmt.Fprintf(r.out, "%s %d → %d\n", field("Blocks"), result.StartBlock, result.LastBlock)
	fmt.Fprintf(r.out, "%s %s\n", field("Duration"), result.Duration.Round(time.Second))
	fmt.Fprintf(r.out, "%s %d received, %d handled\n", field("Pulses"), result.Received, result.Handled)
	if result.Duplicates > 0 {
		fmt.Fprintf(r.out, "%s %d\n", field("Duplicates"), result.Duplicates)
	}
	if result.Undecoded > 0 {
		fmt.Fprintln(r.out, FormatWarning(fmt.Sprintf("%d logs could not be decoded", result.Undecoded)))
	}
	if result.Dropped > 0 {
		fmt.Fprintln(r.out, FormatWarning(fmt.Sprintf("%d pulses dropped on a full queue", result.Dropped)))
	}
	if result.Abandoned > 0 {
		fmt.Fprintln(r.out, FormatWarning(fmt.Sprintf("%d queued pulses abandoned at shutdown", result.Abandoned)))
	}
	return nil
}
