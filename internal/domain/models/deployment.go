package models

import (
	"fmt"
	"time"
)

// Project groups the contracts that are deployed together
type Project string

const (
	ProjectButton    Project = "button"
	ProjectTokenGate Project = "tokengate"
)

// Contract names as they appear in the artifacts
const (
	ContractSwitch         = "Switch"
	ContractTokenGateToken = "TokenGateToken"
	ContractTokenGate      = "TokenGate"
)

// VerificationStatus represents the verification status
type VerificationStatus string

const (
	VerificationStatusUnverified VerificationStatus = "UNVERIFIED"
	VerificationStatusVerified   VerificationStatus = "VERIFIED"
	VerificationStatusFailed     VerificationStatus = "FAILED"
)

// Deployment represents a contract deployment record
type Deployment struct {
	// Core identification
	ID           string  `json:"id"` // e.g., "button/84532/Switch:default"
	Project      Project `json:"project"`
	ChainID      uint64  `json:"chainId"`
	Network      string  `json:"network"`
	ContractName string  `json:"contractName"`
	Label        string  `json:"label"`
	Address      string  `json:"address"`

	// Transaction data
	Deployer        string `json:"deployer"`
	TxHash          string `json:"txHash"`
	BlockNumber     uint64 `json:"blockNumber"`
	GasUsed         uint64 `json:"gasUsed,omitempty"`
	ConstructorArgs string `json:"constructorArgs,omitempty"` // Hex encoded

	// Contract artifact information
	Artifact ArtifactInfo `json:"artifact"`

	// Verification information
	Verification VerificationInfo `json:"verification"`

	// CodeSize is the runtime code length in bytes at the deployed address
	CodeSize int `json:"codeSize,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
	// DeployedAt moves when the ID is redeployed to a new address
	DeployedAt time.Time `json:"deployedAt"`
}

// ArtifactInfo contains contract artifact details
type ArtifactInfo struct {
	Path            string `json:"path"` // e.g., "contracts/Switch.sol:Switch"
	CompilerVersion string `json:"compilerVersion,omitempty"`
	BytecodeHash    string `json:"bytecodeHash,omitempty"`
}

// VerificationInfo contains verification status
type VerificationInfo struct {
	Status     VerificationStatus `json:"status"`
	GUID       string             `json:"guid,omitempty"`
	URL        string             `json:"url,omitempty"`
	Reason     string             `json:"reason,omitempty"`
	VerifiedAt *time.Time         `json:"verifiedAt,omitempty"`
}

// DeploymentID builds the registry key for a deployment
func DeploymentID(project Project, chainID uint64, contractName, label string) string {
	if label == "" {
		label = "default"
	}
	return fmt.Sprintf("%s/%d/%s:%s", project, chainID, contractName, label)
}

// ShortID returns the ID without the project prefix
func (d *Deployment) ShortID() string {
	return fmt.Sprintf("%s:%s", d.ContractName, d.Label)
}
