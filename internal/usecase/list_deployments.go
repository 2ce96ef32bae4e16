package usecase

import (
	"context"
	"sort"

	"github.com/hwchain/hwchain-cli/internal/domain"
	"github.com/hwchain/hwchain-cli/internal/domain/models"
)

// ListDeploymentsParams contains parameters for listing deployments. Zero
// values match everything, so all chains are listed by default.
type ListDeploymentsParams struct {
	ChainID      uint64
	ContractName string
	Project      models.Project
}

// DeploymentListResult contains the listed deployments
type DeploymentListResult struct {
	Deployments []*models.Deployment `json:"deployments"`
	Summary     DeploymentSummary    `json:"summary"`
}

// DeploymentSummary counts deployments per grouping
type DeploymentSummary struct {
	Total          int                               `json:"total"`
	ByChain        map[uint64]int                    `json:"byChain"`
	ByContract     map[string]int                    `json:"byContract"`
	ByVerification map[models.VerificationStatus]int `json:"byVerification"`
}

// ListDeployments is the use case for listing deployments
type ListDeployments struct {
	registry DeploymentRepository
	sink     ProgressSink
}

// NewListDeployments creates a new ListDeployments use case
func NewListDeployments(registry DeploymentRepository, sink ProgressSink) *ListDeployments {
	return &ListDeployments{
		registry: registry,
		sink:     sink,
	}
}

// Run executes the list deployments use case
func (uc *ListDeployments) Run(ctx context.Context, params ListDeploymentsParams) (*DeploymentListResult, error) {
	uc.sink.OnProgress(ctx, ProgressEvent{
		Stage:   "loading",
		Message: "Loading deployments from registry",
		Spinner: true,
	})

	deployments, err := uc.registry.ListDeployments(ctx, domain.DeploymentFilter{
		Project:      params.Project,
		ChainID:      params.ChainID,
		ContractName: params.ContractName,
	})
	if err != nil {
		return nil, err
	}

	sortDeployments(deployments)

	uc.sink.OnProgress(ctx, ProgressEvent{
		Stage:   "complete",
		Current: len(deployments),
		Total:   len(deployments),
		Message: "Deployments loaded",
	})

	return &DeploymentListResult{
		Deployments: deployments,
		Summary:     calculateSummary(deployments),
	}, nil
}

// sortDeployments sorts deployments by chain, project, contract name, and label
func sortDeployments(deployments []*models.Deployment) {
	sort.SliceStable(deployments, func(i, j int) bool {
		a, b := deployments[i], deployments[j]
		if a.ChainID != b.ChainID {
			return a.ChainID < b.ChainID
		}
		if a.Project != b.Project {
			return a.Project < b.Project
		}
		if a.ContractName != b.ContractName {
			return a.ContractName < b.ContractName
		}
		return a.Label < b.Label
	})
}

func calculateSummary(deployments []*models.Deployment) DeploymentSummary {
	summary := DeploymentSummary{
		Total:          len(deployments),
		ByChain:        make(map[uint64]int),
		ByContract:     make(map[string]int),
		ByVerification: make(map[models.VerificationStatus]int),
	}
	for _, dep := range deployments {
		summary.ByChain[dep.ChainID]++
		summary.ByContract[dep.ContractName]++
		status := dep.Verification.Status
		if status == "" {
			status = models.VerificationStatusUnverified
		}
		summary.ByVerification[status]++
	}
	return summary
}
