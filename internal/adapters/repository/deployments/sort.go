package deployments

import (
	"sort"
	"strings"
	"time"

	"github.com/hwchain/hwchain-cli/internal/domain/models"
)

// SortNewestFirst orders deployments by DeployedAt descending, then by ID
func SortNewestFirst(deployments []*models.Deployment) {
	sort.SliceStable(deployments, func(i, j int) bool {
		a, b := deployments[i], deployments[j]
		if !a.DeployedAt.Equal(b.DeployedAt) {
			return a.DeployedAt.After(b.DeployedAt)
		}
		return a.ID < b.ID
	})
}

// stamp sets the registry timestamps on dep before it is stored. CreatedAt
// survives a redeploy of the same ID; DeployedAt only survives saves that
// keep the address and transaction, such as a verification update.
func stamp(dep, existing *models.Deployment, now time.Time) {
	dep.UpdatedAt = now
	if existing == nil {
		if dep.CreatedAt.IsZero() {
			dep.CreatedAt = now
		}
		dep.DeployedAt = now
		return
	}

	dep.CreatedAt = existing.CreatedAt
	if dep.CreatedAt.IsZero() {
		dep.CreatedAt = now
	}
	if redeployed(dep, existing) {
		dep.DeployedAt = now
		return
	}
	dep.DeployedAt = existing.DeployedAt
	if dep.DeployedAt.IsZero() {
		dep.DeployedAt = dep.CreatedAt
	}
}

func redeployed(dep, existing *models.Deployment) bool {
	return !strings.EqualFold(dep.Address, existing.Address) || !strings.EqualFold(dep.TxHash, existing.TxHash)
}
