package render

import (
	"math/big"
	"strings"

	"github.com/fatih/color"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/hwchain/hwchain-cli/internal/domain"
	"github.com/hwchain/hwchain-cli/internal/domain/models"
)

var (
	labelStyle    = color.New(color.Faint)
	addressStyle  = color.New(color.FgWhite)
	onStyle       = color.New(color.FgGreen, color.Bold)
	offStyle      = color.New(color.FgRed, color.Bold)
	headerStyle   = color.New(color.FgCyan, color.Bold)
	warningStyle  = color.New(color.FgYellow)
	verifiedStyle = color.New(color.FgGreen)
	failedStyle   = color.New(color.FgRed)
	pendingStyle  = color.New(color.FgYellow)

	titleCase = cases.Title(language.English)
)

// FormatWarning formats a warning message with the warning icon
func FormatWarning(message string) string {
	return warningStyle.Sprintf("⚠️  %s", message)
}

// FormatError formats an error message with the error icon
func FormatError(message string) string {
	// Extract just the error message part (after the last colon if it's an error chain)
	parts := strings.Split(message, ": ")
	msg := parts[len(parts)-1]

	if len(msg) > 0 {
		msg = strings.ToUpper(msg[:1]) + msg[1:]
	}

	return color.New(color.FgRed).Sprintf("❌ %s", msg)
}

// FormatSuccess formats a success message with the success icon
func FormatSuccess(message string) string {
	return color.New(color.FgGreen).Sprintf("✅ %s", message)
}

// field prints one aligned "Label: value" line
func field(label string) string {
	return labelStyle.Sprintf("%-14s", label+":")
}

// stateStyle colors a switch label
func stateStyle(label string) string {
	if label == domain.SwitchOn {
		return onStyle.Sprint(label)
	}
	return offStyle.Sprint(label)
}

// verificationStyle renders a registry verification status
func verificationStyle(status models.VerificationStatus) string {
	if status == "" {
		status = models.VerificationStatusUnverified
	}
	label := titleCase.String(strings.ToLower(string(status)))
	switch status {
	case models.VerificationStatusVerified:
		return verifiedStyle.Sprint("✓ " + label)
	case models.VerificationStatusFailed:
		return failedStyle.Sprint("✗ " + label)
	default:
		return pendingStyle.Sprint("? " + label)
	}
}

// shortAddress abbreviates an address for tables
func shortAddress(addr string) string {
	if len(addr) <= 14 {
		return addr
	}
	return addr[:8] + "…" + addr[len(addr)-6:]
}

// formatUnits renders an integer amount with the given decimals
func formatUnits(amount *big.Int, decimals uint8) string {
	if amount == nil {
		return "-"
	}
	if decimals == 0 {
		return amount.String()
	}
	scale := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(decimals)), nil)
	whole, frac := new(big.Int).QuoRem(amount, scale, new(big.Int))
	if frac.Sign() == 0 {
		return whole.String()
	}
	fracStr := frac.String()
	if pad := int(decimals) - len(fracStr); pad > 0 {
		fracStr = strings.Repeat("0", pad) + fracStr
	}
	return whole.String() + "." + strings.TrimRight(fracStr, "0")
}

// explorerLink joins an explorer base URL and a path, empty without a base
func explorerLink(base, kind, value string) string {
	if base == "" || value == "" {
		return ""
	}
	return strings.TrimRight(base, "/") + "/" + kind + "/" + value
}
