package models

import (
	"encoding/json"

	"github.com/ethereum/go-ethereum/crypto"
)

// Artifact is a compiled contract loaded from the toolchain output
type Artifact struct {
	Name       string          `json:"contractName"`
	SourceName string          `json:"sourceName"` // e.g., "contracts/Switch.sol"
	Path       string          `json:"-"`          // artifact file on disk
	ABI        json.RawMessage `json:"abi"`
	Bytecode   []byte          `json:"-"`
}

// FullyQualifiedName returns "source:Contract"
func (a *Artifact) FullyQualifiedName() string {
	if a.SourceName == "" {
		return a.Name
	}
	return a.SourceName + ":" + a.Name
}

// BytecodeHash returns the keccak256 of the creation code
func (a *Artifact) BytecodeHash() string {
	return crypto.Keccak256Hash(a.Bytecode).Hex()
}

// BuildInfo is the compiler input/output bundle used for source verification
type BuildInfo struct {
	ID              string          `json:"id"`
	SolcVersion     string          `json:"solcVersion"`
	SolcLongVersion string          `json:"solcLongVersion"`
	Input           json.RawMessage `json:"input"`
	Path            string          `json:"-"`
}
