package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/hwchain/hwchain-cli/internal/domain"
	"github.com/hwchain/hwchain-cli/internal/domain/config"
	"github.com/hwchain/hwchain-cli/internal/domain/models"
)

// VerifyDeploymentParams contains options for verification
type VerifyDeploymentParams struct {
	Identifier string
	// Force re-verifies a deployment already marked verified
	Force bool
}

// VerifyResult contains the result of verification
type VerifyResult struct {
	Deployment      *models.Deployment `json:"deployment"`
	AlreadyVerified bool               `json:"alreadyVerified"`
}

// VerifyDeployment submits a recorded deployment's source to the explorer and
// records the outcome in the registry
type VerifyDeployment struct {
	finder    *deploymentFinder
	registry  DeploymentRepository
	artifacts ArtifactRepository
	verifier  ContractVerifier
	progress  ProgressSink
	log       *slog.Logger
}

// NewVerifyDeployment creates a new verify deployment use case
func NewVerifyDeployment(
	cfg *config.RuntimeConfig,
	registry DeploymentRepository,
	artifacts ArtifactRepository,
	verifier ContractVerifier,
	selector DeploymentSelector,
	progress ProgressSink,
	log *slog.Logger,
) *VerifyDeployment {
	return &VerifyDeployment{
		finder:    &deploymentFinder{config: cfg, registry: registry, selector: selector},
		registry:  registry,
		artifacts: artifacts,
		verifier:  verifier,
		progress:  progress,
		log:       log.With("component", "verify"),
	}
}

// Run executes the verification
func (uc *VerifyDeployment) Run(ctx context.Context, params VerifyDeploymentParams) (*VerifyResult, error) {
	deployment, err := uc.finder.find(ctx, params.Identifier)
	if err != nil {
		return nil, err
	}

	if deployment.Verification.Status == models.VerificationStatusVerified && !params.Force {
		return &VerifyResult{Deployment: deployment, AlreadyVerified: true}, nil
	}
	if domain.IsLocalChain(deployment.ChainID) {
		return nil, fmt.Errorf("%s is on local chain %d, nothing to verify against", deployment.ID, deployment.ChainID)
	}

	uc.progress.OnProgress(ctx, ProgressEvent{Stage: "Verify", Current: 1, Total: 2, Message: "Loading build info", Spinner: true})
	artifact, err := uc.artifacts.GetArtifact(ctx, deployment.Artifact.Path)
	if err != nil {
		return nil, err
	}
	buildInfo, err := uc.artifacts.GetBuildInfo(ctx, artifact)
	if err != nil {
		return nil, err
	}

	uc.progress.OnProgress(ctx, ProgressEvent{Stage: "Verify", Current: 2, Total: 2, Message: "Submitting to explorer", Spinner: true})
	info, verifyErr := uc.verifier.Verify(ctx, VerificationRequest{
		Deployment: deployment,
		Artifact:   artifact,
		BuildInfo:  buildInfo,
	})
	if info != nil {
		deployment.Verification = *info
		if err := uc.registry.SaveDeployment(ctx, deployment); err != nil {
			return nil, fmt.Errorf("failed to update registry: %w", err)
		}
		uc.log.Info("verification recorded", "id", deployment.ID, "status", info.Status)
	}
	if verifyErr != nil {
		return nil, verifyErr
	}

	return &VerifyResult{Deployment: deployment}, nil
}
