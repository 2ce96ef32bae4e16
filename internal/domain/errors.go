package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for domain operations
var (
	// ErrNotFound is returned when a requested resource doesn't exist
	ErrNotFound = errors.New("not found")

	// ErrInvalidAddress is returned when an Ethereum address is invalid
	ErrInvalidAddress = errors.New("invalid address")

	// ErrInvalidChainID is returned when a chain ID is invalid
	ErrInvalidChainID = errors.New("invalid chain ID")

	// ErrNetworkMismatch is returned when the RPC reports a different chain than configured
	ErrNetworkMismatch = errors.New("network mismatch")

	// ErrNoNetwork is returned when a command needs a network and none resolves to an RPC URL
	ErrNoNetwork = errors.New("no network configured")

	// ErrMissingPrivateKey is returned when a transaction must be signed without a key
	ErrMissingPrivateKey = errors.New("PRIVATE_KEY is not set")

	// ErrMissingAPIKey is returned when verification runs without ETHERSCAN_API_KEY
	ErrMissingAPIKey = errors.New("ETHERSCAN_API_KEY is not set")

	// ErrContractNotFound is returned when no artifact exists for a contract
	ErrContractNotFound = errors.New("contract not found")

	// ErrEmptyBytecode is returned when an artifact has no creation code
	ErrEmptyBytecode = errors.New("artifact has no bytecode")

	// ErrTxReverted is returned when a mined transaction has status 0
	ErrTxReverted = errors.New("transaction reverted")

	// ErrNoCode is returned when a deployed address holds no runtime code
	ErrNoCode = errors.New("no code at address")

	// ErrOwnerMismatch is returned when owner() differs from the deployer after deploy
	ErrOwnerMismatch = errors.New("owner does not match deployer")

	// ErrStateMismatch is returned when readState() differs from the constructor argument
	ErrStateMismatch = errors.New("state does not match initial state")

	// ErrTokenMismatch is returned when the gate reports a different token than it was built with
	ErrTokenMismatch = errors.New("gate token does not match deployed token")

	// ErrNotOwner is returned when a toggle is attempted by a non-owner account
	ErrNotOwner = errors.New("denied, not owner")

	// ErrNoContractAddress is returned when no address is given, configured or recorded
	ErrNoContractAddress = errors.New("no contract address")

	// ErrInvalidState is returned when readState() returns neither ON nor OFF
	ErrInvalidState = errors.New("invalid switch state")

	// ErrVerificationFailed is returned when contract verification fails
	ErrVerificationFailed = errors.New("verification failed")

	// ErrAborted is returned when the user declines a confirmation prompt
	ErrAborted = errors.New("aborted by user")
)

// UnknownNetworkError is returned when a network name is not configured
type UnknownNetworkError struct {
	Name        string
	Suggestions []string
}

func (e UnknownNetworkError) Error() string {
	if len(e.Suggestions) == 0 {
		return fmt.Sprintf("unknown network '%s'", e.Name)
	}
	return fmt.Sprintf("unknown network '%s' (did you mean: %s?)", e.Name, strings.Join(e.Suggestions, ", "))
}

// Is lets errors.Is(err, ErrNoNetwork) match unknown network names
func (e UnknownNetworkError) Is(target error) bool {
	return target == ErrNoNetwork
}
