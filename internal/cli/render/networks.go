package render

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/hwchain/hwchain-cli/internal/usecase"
)

// NetworksRenderer renders network lists
type NetworksRenderer struct {
	out io.Writer
}

// NewNetworksRenderer creates a new networks renderer
func NewNetworksRenderer(out io.Writer) *NetworksRenderer {
	return &NetworksRenderer{out: out}
}

// Render renders the configured networks with what their RPC reports
func (r *NetworksRenderer) Render(result *usecase.ListNetworksResult) error {
	if len(result.Networks) == 0 {
		fmt.Fprintln(r.out, "No networks configured")
		return nil
	}

	fmt.Fprintln(r.out, "🌐 Available Networks:")
	fmt.Fprintln(r.out)

	t := table.NewWriter()
	t.SetStyle(table.StyleLight)
	t.Style().Options.DrawBorder = false
	t.Style().Options.SeparateColumns = false
	t.Style().Options.SeparateHeader = false
	t.Style().Box.PaddingRight = "   "
	t.AppendHeader(table.Row{"", "NETWORK", "CHAIN", "RPC", "STATUS"})

	for _, network := range result.Networks {
		marker := " "
		if network.Name == result.Current {
			marker = "*"
		}

		status := verifiedStyle.Sprintf("✅ chain %d", network.LiveChainID)
		switch {
		case network.Error != nil:
			status = failedStyle.Sprintf("❌ %v", network.Error)
		case network.Mismatch():
			status = warningStyle.Sprintf("⚠️  RPC reports chain %d", network.LiveChainID)
		}

		t.AppendRow(table.Row{marker, network.Name, network.ChainID, network.RPCURL, status})
	}

	fmt.Fprintln(r.out, t.Render())
	return nil
}
