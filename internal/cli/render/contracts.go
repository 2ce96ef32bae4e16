package render

import (
	"fmt"
	"io"

	"github.com/hwchain/hwchain-cli/internal/domain/models"
	"github.com/hwchain/hwchain-cli/internal/usecase"
)

// ContractsRenderer renders deploy and switch results
type ContractsRenderer struct {
	out         io.Writer
	explorerURL string
}

// NewContractsRenderer creates a new contracts renderer. explorerURL may be
// empty.
func NewContractsRenderer(out io.Writer, explorerURL string) *ContractsRenderer {
	return &ContractsRenderer{out: out, explorerURL: explorerURL}
}

// RenderSwitchDeployment renders a confirmed Switch deployment
func (r *ContractsRenderer) RenderSwitchDeployment(result *usecase.DeploySwitchResult) error {
	fmt.Fprintln(r.out, FormatSuccess(fmt.Sprintf("%s deployed to %s", result.Deployment.ContractName, result.Deployment.Address)))
	r.deploymentLines(result.Deployment)
	fmt.Fprintf(r.out, "%s %s\n", field("Owner"), result.Owner.Hex())
	fmt.Fprintf(r.out, "%s %s\n", field("readState()"), stateStyle(result.State.Label))
	return nil
}

// RenderTokenGateDeployment renders the token and gate deployments
func (r *ContractsRenderer) RenderTokenGateDeployment(result *usecase.DeployTokenGateResult) error {
	fmt.Fprintln(r.out, FormatSuccess(fmt.Sprintf("%s deployed to %s", result.Token.ContractName, result.Token.Address)))
	r.deploymentLines(result.Token)
	if info := result.TokenInfo; info != nil {
		fmt.Fprintf(r.out, "%s %s (%s)\n", field("Token"), info.Name, info.Symbol)
		fmt.Fprintf(r.out, "%s %s %s\n", field("Supply"), formatUnits(info.TotalSupply, info.Decimals), info.Symbol)
		fmt.Fprintf(r.out, "%s %s %s\n", field("Balance"), formatUnits(info.DeployerBalance, info.Decimals), info.Symbol)
	}
	fmt.Fprintln(r.out)

	fmt.Fprintln(r.out, FormatSuccess(fmt.Sprintf("%s deployed to %s", result.Gate.ContractName, result.Gate.Address)))
	r.deploymentLines(result.Gate)

	for _, warning := range result.Warnings {
		fmt.Fprintln(r.out, FormatWarning(warning))
	}
	return nil
}

func (r *ContractsRenderer) deploymentLines(d *models.Deployment) {
	fmt.Fprintf(r.out, "%s %s (chain %d)\n", field("Network"), d.Network, d.ChainID)
	fmt.Fprintf(r.out, "%s %s\n", field("Deployer"), d.Deployer)
	fmt.Fprintf(r.out, "%s %s\n", field("Transaction"), d.TxHash)
	fmt.Fprintf(r.out, "%s %d (gas used %d)\n", field("Block"), d.BlockNumber, d.GasUsed)
	fmt.Fprintf(r.out, "%s %d bytes\n", field("Code size"), d.CodeSize)
	if link := explorerLink(r.explorerURL, "address", d.Address); link != "" {
		fmt.Fprintf(r.out, "%s %s\n", field("Explorer"), link)
	}
}

// RenderSwitchState renders a readState() result
func (r *ContractsRenderer) RenderSwitchState(result *usecase.ReadSwitchStateResult) error {
	fmt.Fprintf(r.out, "%s %s (%s)\n", field("Switch"), addressStyle.Sprint(result.Address.Hex()), result.Source)
	fmt.Fprintf(r.out, "%s %s\n", field("Block"), result.Block)
	fmt.Fprintf(r.out, "%s %s\n", field("State"), stateStyle(result.State.Label))
	return nil
}

// RenderToggle renders a changeState() transaction and the state read after it
func (r *ContractsRenderer) RenderToggle(result *usecase.ToggleSwitchResult) error {
	fmt.Fprintln(r.out, FormatSuccess(fmt.Sprintf("Switch toggled %s → %s", result.Previous, result.Final)))
	fmt.Fprintf(r.out, "%s %s\n", field("Switch"), addressStyle.Sprint(result.Address.Hex()))
	fmt.Fprintf(r.out, "%s %s\n", field("Account"), result.Account.Hex())
	fmt.Fprintf(r.out, "%s %s\n", field("Transaction"), result.TxHash.Hex())
	fmt.Fprintf(r.out, "%s %d (gas used %d)\n", field("Block"), result.BlockNumber, result.GasUsed)
	if link := explorerLink(r.explorerURL, "tx", result.TxHash.Hex()); link != "" {
		fmt.Fprintf(r.out, "%s %s\n", field("Explorer"), link)
	}
	fmt.Fprintf(r.out, "%s %s\n", field("State"), stateStyle(result.Final))
	for _, warning := range result.Warnings {
		fmt.Fprintln(r.out, FormatWarning(warning))
	}
	return nil
}
