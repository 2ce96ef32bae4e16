package render

import (
	"fmt"
	"io"

	"github.com/fatih/color"

	"github.com/hwchain/hwchain-cli/internal/usecase"
)

// VerifyRenderer handles rendering of verification results
type VerifyRenderer struct {
	out io.Writer
}

// NewVerifyRenderer creates a new verify renderer
func NewVerifyRenderer(out io.Writer) *VerifyRenderer {
	return &VerifyRenderer{out: out}
}

// Render renders the result of verifying a deployment
func (r *VerifyRenderer) Render(result *usecase.VerifyResult) error {
	d := result.Deployment
	if result.AlreadyVerified {
		color.New(color.FgYellow).Fprintf(r.out, "Contract %s is already verified. Use --force to re-verify.\n", d.ShortID())
		if d.Verification.URL != "" {
			fmt.Fprintf(r.out, "%s %s\n", field("URL"), d.Verification.URL)
		}
		return nil
	}

	fmt.Fprintln(r.out, FormatSuccess(fmt.Sprintf("Verified %s on chain %d", d.ShortID(), d.ChainID)))
	fmt.Fprintf(r.out, "%s %s\n", field("Address"), d.Address)
	fmt.Fprintf(r.out, "%s %s\n", field("Status"), verificationStyle(d.Verification.Status))
	if d.Verification.GUID != "" {
		fmt.Fprintf(r.out, "%s %s\n", field("GUID"), d.Verification.GUID)
	}
	if d.Verification.URL != "" {
		fmt.Fprintf(r.out, "%s %s\n", field("URL"), d.Verification.URL)
	}
	return nil
}
