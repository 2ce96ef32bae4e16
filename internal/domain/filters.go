package domain

import (
	"strings"

	"github.com/hwchain/hwchain-cli/internal/domain/models"
)

// DeploymentFilter defines filtering options for deployments
type DeploymentFilter struct {
	Project      models.Project
	ChainID      uint64
	ContractName string
	Label        string
}

// Matches reports whether a deployment passes every set field of the filter
func (f DeploymentFilter) Matches(d *models.Deployment) bool {
	if f.Project != "" && d.Project != f.Project {
		return false
	}
	if f.ChainID != 0 && d.ChainID != f.ChainID {
		return false
	}
	if f.ContractName != "" && !strings.EqualFold(d.ContractName, f.ContractName) {
		return false
	}
	if f.Label != "" && d.Label != f.Label {
		return false
	}
	return true
}
