package usecase

import (
	"context"
	"fmt"

	"github.com/m-mizutani/goerr/v2"
	"golang.org/x/sync/errgroup"

	"github.com/seamark-lab/quartermaster/pkg/domain/model"
	"github.com/seamark-lab/quartermaster/pkg/domain/model/auth"
	"github.com/seamark-lab/quartermaster/pkg/domain/types"
)

// ErrUnknownAction is returned by Preview for an action outside the catalog
var ErrUnknownAction = goerr.New("unknown action")

// ErrActionForbidden is returned by Preview when the role is not permitted
var ErrActionForbidden = goerr.New("action not permitted for role")

// Preview describes what executing the request would do, without doing it.
// It is read-only and repeatable: entity lookups only, never a write. The
// duplicate lookup runs here too so the client can enter its warning state
// before the user fills the form.
func (uc *UseCases) Preview(ctx context.Context, tok *auth.Token, req *model.ExecuteRequest) (*model.PreviewResult, error) {
	spec, ok := uc.registry.Lookup(req.Action)
	if !ok {
		return nil, goerr.Wrap(ErrUnknownAction, "action is not in the catalog",
			goerr.V("action_id", req.Action))
	}
	if !spec.PermittedFor(tok.Role) {
		return nil, goerr.Wrap(ErrActionForbidden, "role may not preview this action",
			goerr.V("action_id", req.Action), goerr.V("role", tok.Role))
	}

	preview := &model.PreviewResult{
		Summary:           fmt.Sprintf("%s on yacht %s", spec.Label, tok.YachtID),
		Changes:           map[string]string{},
		SideEffects:       []string{},
		RequiresSignature: spec.Variant == types.ActionVariantSigned,
	}

	// The per-entity lookups are independent reads; run them concurrently.
	// The duplicate result lands in a local so only one goroutine touches
	// the preview struct.
	eg, egCtx := errgroup.WithContext(ctx)

	var dup *model.DuplicateInfo
	if spec.DuplicateCheck != "" && !req.OverrideDuplicate() {
		eg.Go(func() error {
			found, err := uc.findDuplicate(egCtx, tok.YachtID, spec.DuplicateCheck, req)
			if err != nil {
				return err
			}
			dup = found
			return nil
		})
	}

	eg.Go(func() error {
		return uc.describeChanges(egCtx, tok, spec, req, preview)
	})

	if err := eg.Wait(); err != nil {
		return nil, goerr.Wrap(err, "failed to build preview", goerr.V("action_id", req.Action))
	}

	if dup != nil {
		preview.Duplicate = dup
		preview.Warning = duplicateMessage(dup)
	}

	if preview.RequiresSignature {
		preview.SideEffects = append(preview.SideEffects, "records your signature in the audit trail")
	}
	if uc.notifier != nil {
		preview.SideEffects = append(preview.SideEffects, "posts a notification to the operations channel")
	}

	return preview, nil
}

// describeChanges fills the per-action change summary from current entity
// state. Missing entities are not preview errors: the execute will surface
// them, the preview just describes less.
func (uc *UseCases) describeChanges(ctx context.Context, tok *auth.Token, spec *model.ActionSpec, req *model.ExecuteRequest, preview *model.PreviewResult) error {
	switch spec.ID {
	case "create_work_order":
		preview.Changes["status"] = "(new) -> " + types.WorkOrderStatusOpen.String()
		if title := req.FieldString("title"); title != "" {
			preview.Changes["title"] = title
		}
		if faultID, ok := contextInt(req, "fault_id"); ok {
			fault, err := uc.repo.Fault().Get(ctx, tok.YachtID, faultID)
			if err == nil {
				preview.Summary = fmt.Sprintf("Create work order from fault #%d (%s)", faultID, fault.Title)
				preview.SideEffects = append(preview.SideEffects,
					fmt.Sprintf("links fault #%d to the new work order", faultID))
			} else if !isNotFound(err) {
				return err
			}
		}

	case "complete_work_order", "archive_work_order", "add_crew_note":
		woID, ok := contextInt(req, "work_order_id")
		if !ok {
			return nil
		}
		wo, err := uc.repo.WorkOrder().Get(ctx, tok.YachtID, woID)
		if err != nil {
			if isNotFound(err) {
				return nil
			}
			return err
		}
		preview.Summary = fmt.Sprintf("%s: work order #%d (%s)", spec.Label, woID, wo.Title)
		switch spec.ID {
		case "complete_work_order":
			outcome := req.FieldString("outcome")
			if outcome == "" {
				outcome = "?"
			}
			preview.Changes["status"] = wo.Status.String() + " -> " + types.WorkOrderStatusCompleted.String()
			preview.Changes["outcome"] = outcome
		case "archive_work_order":
			preview.Changes["status"] = wo.Status.String() + " -> " + types.WorkOrderStatusArchived.String()
		case "add_crew_note":
			preview.Changes["notes"] = fmt.Sprintf("%d -> %d entries", len(wo.Notes), len(wo.Notes)+1)
		}

	case "adjust_inventory":
		itemID, ok := contextInt(req, "item_id")
		if !ok {
			return nil
		}
		item, err := uc.repo.Inventory().Get(ctx, tok.YachtID, itemID)
		if err != nil {
			if isNotFound(err) {
				return nil
			}
			return err
		}
		preview.Summary = fmt.Sprintf("Adjust stock of %s", item.Name)
		if delta, ok := req.FieldInt("quantity_change"); ok {
			after := item.Quantity + delta
			preview.Changes["quantity"] = fmt.Sprintf("%d -> %d", item.Quantity, after)
			if after < item.MinLevel {
				preview.Warning = fmt.Sprintf("stock would fall below the minimum level of %d", item.MinLevel)
			}
		}

	case "dismiss_compliance_warning":
		warningID, ok := contextInt(req, "warning_id")
		if !ok {
			return nil
		}
		warning, err := uc.repo.Compliance().Get(ctx, tok.YachtID, warningID)
		if err != nil {
			if isNotFound(err) {
				return nil
			}
			return err
		}
		preview.Summary = fmt.Sprintf("Dismiss %s certificate warning", warning.CertificateType)
		preview.Changes["dismissed"] = "false -> true"

	case "upload_document":
		if spec.StorageOptions != nil {
			path := spec.StorageOptions.RenderPath(req.FieldString("filename"))
			preview.Changes["path"] = path
			preview.SideEffects = append(preview.SideEffects,
				fmt.Sprintf("stores the file in bucket %s", spec.StorageOptions.Bucket))
			if spec.StorageOptions.ConfirmationRequired {
				preview.Warning = "the file will be stored at " + path
			}
		}
	}

	return nil
}
