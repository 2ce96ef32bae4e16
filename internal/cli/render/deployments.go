package render

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/samber/lo"

	"github.com/hwchain/hwchain-cli/internal/domain/models"
	"github.com/hwchain/hwchain-cli/internal/usecase"
)

var (
	chainHeader     = color.New(color.BgCyan, color.FgBlack)
	chainHeaderBold = color.New(color.BgCyan, color.FgBlack, color.Bold)
	contractStyle   = color.New(color.FgGreen, color.Bold)
	timestampStyle  = color.New(color.Faint)
)

// DeploymentsRenderer renders the registry grouped by chain
type DeploymentsRenderer struct {
	out io.Writer
}

// NewDeploymentsRenderer creates a new deployments renderer
func NewDeploymentsRenderer(out io.Writer) *DeploymentsRenderer {
	return &DeploymentsRenderer{out: out}
}

// Render renders one table per chain followed by the summary
func (r *DeploymentsRenderer) Render(result *usecase.DeploymentListResult) error {
	if len(result.Deployments) == 0 {
		fmt.Fprintln(r.out, "No deployments found")
		return nil
	}

	byChain := lo.GroupBy(result.Deployments, func(d *models.Deployment) uint64 { return d.ChainID })
	chainIDs := lo.Keys(byChain)
	sort.Slice(chainIDs, func(i, j int) bool { return chainIDs[i] < chainIDs[j] })

	for _, chainID := range chainIDs {
		deployments := byChain[chainID]
		network := deployments[0].Network
		if network == "" {
			network = "-"
		}
		fmt.Fprintf(r.out, "%s%s\n",
			chainHeader.Sprintf(" ⛓ chain %-8d ", chainID),
			chainHeaderBold.Sprintf(" %-20s ", network))
		fmt.Fprint(r.out, r.table(deployments))
		fmt.Fprintln(r.out)
		fmt.Fprintln(r.out)
	}

	r.summary(result.Summary)
	return nil
}

func (r *DeploymentsRenderer) table(deployments []*models.Deployment) string {
	t := table.NewWriter()
	t.SetStyle(table.StyleLight)
	t.Style().Options.DrawBorder = false
	t.Style().Options.SeparateColumns = false
	t.Style().Options.SeparateHeader = false
	t.Style().Box.PaddingRight = "   "

	t.AppendHeader(table.Row{"CONTRACT", "PROJECT", "ADDRESS", "VERIFICATION", "CREATED"})
	for _, d := range deployments {
		t.AppendRow(table.Row{
			contractStyle.Sprint(d.ShortID()),
			string(d.Project),
			addressStyle.Sprint(d.Address),
			verificationStyle(d.Verification.Status),
			timestampStyle.Sprint(d.CreatedAt.Format("2006-01-02 15:04:05")),
		})
	}
	return t.Render()
}

func (r *DeploymentsRenderer) summary(s usecase.DeploymentSummary) {
	contracts := lo.Keys(s.ByContract)
	sort.Strings(contracts)
	parts := lo.Map(contracts, func(name string, _ int) string {
		return fmt.Sprintf("%s %d", name, s.ByContract[name])
	})

	fmt.Fprintf(r.out, "Total deployments: %d across %d chains", s.Total, len(s.ByChain))
	if len(parts) > 0 {
		fmt.Fprintf(r.out, " (%s)", strings.Join(parts, ", "))
	}
	fmt.Fprintln(r.out)
	if n := s.ByVerification[models.VerificationStatusVerified]; n > 0 {
		fmt.Fprintf(r.out, "Verified: %d/%d\n", n, s.Total)
	}
}

// DeploymentRenderer renders detailed information about a single deployment
type DeploymentRenderer struct {
	out         io.Writer
	explorerURL string
}

// NewDeploymentRenderer creates a new deployment renderer
func NewDeploymentRenderer(out io.Writer, explorerURL string) *DeploymentRenderer {
	return &DeploymentRenderer{out: out, explorerURL: explorerURL}
}

// Render renders detailed deployment information
func (r *DeploymentRenderer) Render(d *models.Deployment) error {
	headerStyle.Fprintf(r.out, "Deployment: %s\n", d.ID)
	fmt.Fprintln(r.out, strings.Repeat("=", 80))

	fmt.Fprintln(r.out, "\nBasic Information:")
	fmt.Fprintf(r.out, "  %s %s\n", field("Contract"), contractStyle.Sprint(d.ContractName))
	fmt.Fprintf(r.out, "  %s %s\n", field("Label"), d.Label)
	fmt.Fprintf(r.out, "  %s %s\n", field("Project"), d.Project)
	fmt.Fprintf(r.out, "  %s %s\n", field("Address"), d.Address)
	fmt.Fprintf(r.out, "  %s %s (chain %d)\n", field("Network"), lo.Ternary(d.Network == "", "-", d.Network), d.ChainID)
	if link := explorerLink(r.explorerURL, "address", d.Address); link != "" {
		fmt.Fprintf(r.out, "  %s %s\n", field("Explorer"), link)
	}

	fmt.Fprintln(r.out, "\nTransaction:")
	fmt.Fprintf(r.out, "  %s %s\n", field("Hash"), lo.Ternary(d.TxHash == "", "-", d.TxHash))
	fmt.Fprintf(r.out, "  %s %s\n", field("Deployer"), d.Deployer)
	fmt.Fprintf(r.out, "  %s %d\n", field("Block"), d.BlockNumber)
	if d.GasUsed > 0 {
		fmt.Fprintf(r.out, "  %s %d\n", field("Gas used"), d.GasUsed)
	}
	if d.ConstructorArgs != "" {
		fmt.Fprintf(r.out, "  %s %s\n", field("Args"), d.ConstructorArgs)
	}

	fmt.Fprintln(r.out, "\nArtifact:")
	fmt.Fprintf(r.out, "  %s %s\n", field("Path"), d.Artifact.Path)
	if d.Artifact.CompilerVersion != "" {
		fmt.Fprintf(r.out, "  %s %s\n", field("Compiler"), d.Artifact.CompilerVersion)
	}
	if d.Artifact.BytecodeHash != "" {
		fmt.Fprintf(r.out, "  %s %s\n", field("Bytecode hash"), d.Artifact.BytecodeHash)
	}

	fmt.Fprintln(r.out, "\nVerification:")
	fmt.Fprintf(r.out, "  %s %s\n", field("Status"), verificationStyle(d.Verification.Status))
	if d.Verification.URL != "" {
		fmt.Fprintf(r.out, "  %s %s\n", field("URL"), d.Verification.URL)
	}
	if d.Verification.Reason != "" {
		fmt.Fprintf(r.out, "  %s %s\n", field("Reason"), d.Verification.Reason)
	}
	if d.Verification.VerifiedAt != nil {
		fmt.Fprintf(r.out, "  %s %s\n", field("Verified at"), d.Verification.VerifiedAt.Format("2006-01-02 15:04:05"))
	}

	fmt.Fprintln(r.out, "\nTimestamps:")
	fmt.Fprintf(r.out, "  %s %s\n", field("Created"), d.CreatedAt.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(r.out, "  %s %s\n", field("Updated"), d.UpdatedAt.Format("2006-01-02 15:04:05"))
	if !d.DeployedAt.IsZero() {
		fmt.Fprintf(r.out, "  %s %s\n", field("Deployed"), d.DeployedAt.Format("2006-01-02 15:04:05"))
	}
	return nil
}

// CheckRenderer renders on-chain checks of the registry
type CheckRenderer struct {
	out io.Writer
}

// NewCheckRenderer creates a new check renderer
func NewCheckRenderer(out io.Writer) *CheckRenderer {
	return &CheckRenderer{out: out}
}

// Render renders one line per deployment plus its issues
func (r *CheckRenderer) Render(result *usecase.CheckDeploymentsResult) error {
	if len(result.Checks) == 0 {
		fmt.Fprintf(r.out, "No deployments recorded on %s (chain %d)\n", result.Network, result.ChainID)
		return nil
	}

	headerStyle.Fprintf(r.out, "Checking %d deployments on %s (chain %d)\n\n", len(result.Checks), result.Network, result.ChainID)
	for _, check := range result.Checks {
		icon := verifiedStyle.Sprint("✓")
		if !check.Healthy() {
			icon = failedStyle.Sprint("✗")
		}
		fmt.Fprintf(r.out, "  %s %-28s %s\n", icon, check.Deployment.ShortID(), shortAddress(check.Deployment.Address))
		for _, issue := range check.Issues {
			fmt.Fprintf(r.out, "      %s\n", warningStyle.Sprint(issue))
		}
	}

	fmt.Fprintln(r.out)
	if missing := result.Missing(); missing > 0 {
		fmt.Fprintln(r.out, FormatWarning(fmt.Sprintf("%d of %d deployments have issues", missing, len(result.Checks))))
	} else {
		fmt.Fprintln(r.out, FormatSuccess("All deployments found on chain"))
	}
	return nil
}
