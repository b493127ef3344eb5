// internal/services/policy.go
package services

import (
	"fmt"

	"github.com/omstudio/studio-ops/internal/models"
)

type Capability string

const (
	CapCreateAsset     Capability = "create_asset"
	CapUpdateAsset     Capability = "update_asset"
	CapSubmitForReview Capability = "submit_for_review"
	CapSign            Capability = "sign"
	CapReject          Capability = "reject"
	CapGrantOptions    Capability = "grant_options"
	CapAddShareholder  Capability = "add_shareholder"
	CapResizePool      Capability = "resize_pool"
	CapCreateEmployee  Capability = "create_employee"
	CapRecordLedger    Capability = "record_ledger"
	CapViewAudit       Capability = "view_audit"
)

var capabilities = map[Capability][]models.Role{
	CapCreateAsset:     {models.RoleCreator, models.RoleAdmin},
	CapUpdateAsset:     {models.RoleCreator, models.RoleAdmin},
	CapSubmitForReview: {models.RoleCreator, models.RoleAdmin},
	CapSign:            {models.RoleAdmin},
	CapReject:          {models.RoleAdmin},
	CapGrantOptions:    {models.RoleAdmin},
	CapAddShareholder:  {models.RoleAdmin},
	CapResizePool:      {models.RoleAdmin},
	CapCreateEmployee:  {models.RoleAdmin},
	CapRecordLedger:    {models.RoleAdmin},
	CapViewAudit:       {models.RoleAdmin},
}

// Authorize checks the actor's role against the capability table. Unknown
// capabilities are denied.
func Authorize(actor models.Actor, capability Capability) error {
	if actor.ID == "" {
		return fmt.Errorf("%w: anonymous actor", ErrPermissionDenied)
	}
	for _, role := range capabilities[capability] {
		if actor.Role == role {
			return nil
		}
	}
	return fmt.Errorf("%w: role %q may not %s", ErrPermissionDenied, actor.Role, capability)
}
