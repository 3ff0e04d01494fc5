package usecase

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/seamark-lab/quartermaster/pkg/domain/model"
	"github.com/seamark-lab/quartermaster/pkg/domain/model/auth"
	"github.com/seamark-lab/quartermaster/pkg/domain/types"
	"github.com/seamark-lab/quartermaster/pkg/utils/errutil"
)

// actionHandler executes one catalog action after the pipeline checks passed
type actionHandler func(ctx context.Context, tok *auth.Token, spec *model.ActionSpec, req *model.ExecuteRequest) *model.ExecuteResult

// builtinHandlers maps the known action IDs to their implementations. The
// catalog may declare a subset of these; it may not declare an ID outside
// this table (validate rejects it).
func builtinHandlers(uc *UseCases) map[types.ActionID]actionHandler {
	return map[types.ActionID]actionHandler{
		"create_work_order":          uc.createWorkOrder,
		"complete_work_order":        uc.completeWorkOrder,
		"archive_work_order":         uc.archiveWorkOrder,
		"add_crew_note":              uc.addCrewNote,
		"adjust_inventory":           uc.adjustInventory,
		"dismiss_compliance_warning": uc.dismissComplianceWarning,
		"upload_document":            uc.uploadDocument,
	}
}

// HandledActionIDs returns the action IDs the server can execute, used by
// catalog validation
func HandledActionIDs() []types.ActionID {
	return []types.ActionID{
		"create_work_order",
		"complete_work_order",
		"archive_work_order",
		"add_crew_note",
		"adjust_inventory",
		"dismiss_compliance_warning",
		"upload_document",
	}
}

func (uc *UseCases) createWorkOrder(ctx context.Context, tok *auth.Token, spec *model.ActionSpec, req *model.ExecuteRequest) *model.ExecuteResult {
	title := strings.TrimSpace(req.FieldString("title"))
	if title == "" {
		return errResult(types.ErrCodeValidationFailed, "title is required")
	}

	wo := &model.WorkOrder{
		Title:       title,
		Description: req.FieldString("description"),
		Priority:    req.FieldString("priority"),
		Status:      types.WorkOrderStatusOpen,
		CreatedBy:   tok.Sub,
	}

	faultID, fromFault := contextInt(req, "fault_id")
	if fromFault {
		if _, err := uc.repo.Fault().Get(ctx, tok.YachtID, faultID); err != nil {
			if isNotFound(err) {
				return errResult(types.ErrCodeValidationFailed, "fault %d not found", faultID)
			}
			_ = errutil.Handle(ctx, err, "failed to load fault")
			return errResult(types.ErrCodeInternalFailed, "failed to create work order")
		}
		wo.FaultID = faultID
	}

	created, err := uc.repo.WorkOrder().Create(ctx, tok.YachtID, wo)
	if err != nil {
		_ = errutil.Handle(ctx, err, "failed to create work order")
		return errResult(types.ErrCodeInternalFailed, "failed to create work order")
	}

	// Back-reference from the fault, so the next create attempt trips the
	// duplicate check
	if fromFault {
		fault, err := uc.repo.Fault().Get(ctx, tok.YachtID, faultID)
		if err == nil {
			fault.WorkOrderID = created.ID
			_, err = uc.repo.Fault().Update(ctx, tok.YachtID, fault)
		}
		if err != nil {
			_ = errutil.Handle(ctx, err, "failed to link fault to work order")
		}
	}

	return okResult(map[string]any{"work_order_id": created.ID},
		"work order #%d created", created.ID)
}

func (uc *UseCases) completeWorkOrder(ctx context.Context, tok *auth.Token, spec *model.ActionSpec, req *model.ExecuteRequest) *model.ExecuteResult {
	woID, ok := contextInt(req, "work_order_id")
	if !ok {
		return errResult(types.ErrCodeValidationFailed, "work_order_id is required")
	}

	outcome := req.FieldString("outcome")
	switch outcome {
	case "completed", "deferred", "cancelled":
	default:
		return errResult(types.ErrCodeValidationFailed,
			"outcome must be one of completed, deferred, cancelled")
	}

	if outcome == "completed" && !req.FieldBool("quality_check_passed") {
		return errResult(types.ErrCodeValidationFailed,
			"quality check confirmation is required to complete a work order")
	}

	wo, err := uc.repo.WorkOrder().Get(ctx, tok.YachtID, woID)
	if err != nil {
		if isNotFound(err) {
			return errResult(types.ErrCodeValidationFailed, "work order %d not found", woID)
		}
		_ = errutil.Handle(ctx, err, "failed to load work order")
		return errResult(types.ErrCodeInternalFailed, "failed to complete work order")
	}

	switch wo.Status {
	case types.WorkOrderStatusCompleted:
		return errResult(types.ErrCodeValidationFailed, "work order %d is already completed", woID)
	case types.WorkOrderStatusArchived:
		return errResult(types.ErrCodeValidationFailed, "work order %d is archived", woID)
	}

	now := uc.now()
	wo.Status = types.WorkOrderStatusCompleted
	wo.Outcome = outcome
	wo.CompletionNote = req.FieldString("completion_note")
	wo.QualityCheckPassed = req.FieldBool("quality_check_passed")
	wo.CompletedBy = tok.Sub
	wo.CompletedAt = &now

	if _, err := uc.repo.WorkOrder().Update(ctx, tok.YachtID, wo); err != nil {
		_ = errutil.Handle(ctx, err, "failed to complete work order")
		return errResult(types.ErrCodeInternalFailed, "failed to complete work order")
	}

	return okResult(map[string]any{"work_order_id": woID, "outcome": outcome},
		"work order #%d closed as %s", woID, outcome)
}

func (uc *UseCases) archiveWorkOrder(ctx context.Context, tok *auth.Token, spec *model.ActionSpec, req *model.ExecuteRequest) *model.ExecuteResult {
	woID, ok := contextInt(req, "work_order_id")
	if !ok {
		return errResult(types.ErrCodeValidationFailed, "work_order_id is required")
	}

	wo, err := uc.repo.WorkOrder().Get(ctx, tok.YachtID, woID)
	if err != nil {
		if isNotFound(err) {
			return errResult(types.ErrCodeValidationFailed, "work order %d not found", woID)
		}
		_ = errutil.Handle(ctx, err, "failed to load work order")
		return errResult(types.ErrCodeInternalFailed, "failed to archive work order")
	}

	if wo.Status == types.WorkOrderStatusArchived {
		return errResult(types.ErrCodeValidationFailed, "work order %d is already archived", woID)
	}

	wo.Status = types.WorkOrderStatusArchived
	if _, err := uc.repo.WorkOrder().Update(ctx, tok.YachtID, wo); err != nil {
		_ = errutil.Handle(ctx, err, "failed to archive work order")
		return errResult(types.ErrCodeInternalFailed, "failed to archive work order")
	}

	return okResult(map[string]any{"work_order_id": woID},
		"work order #%d archived", woID)
}

func (uc *UseCases) addCrewNote(ctx context.Context, tok *auth.Token, spec *model.ActionSpec, req *model.ExecuteRequest) *model.ExecuteResult {
	woID, ok := contextInt(req, "work_order_id")
	if !ok {
		return errResult(types.ErrCodeValidationFailed, "work_order_id is required")
	}

	note := strings.TrimSpace(req.FieldString("note"))
	if note == "" {
		return errResult(types.ErrCodeValidationFailed, "note is required")
	}

	wo, err := uc.repo.WorkOrder().Get(ctx, tok.YachtID, woID)
	if err != nil {
		if isNotFound(err) {
			return errResult(types.ErrCodeValidationFailed, "work order %d not found", woID)
		}
		_ = errutil.Handle(ctx, err, "failed to load work order")
		return errResult(types.ErrCodeInternalFailed, "failed to add note")
	}

	wo.Notes = append(wo.Notes, fmt.Sprintf("[%s] %s", tok.Sub, note))
	if _, err := uc.repo.WorkOrder().Update(ctx, tok.YachtID, wo); err != nil {
		_ = errutil.Handle(ctx, err, "failed to add note")
		return errResult(types.ErrCodeInternalFailed, "failed to add note")
	}

	return okResult(map[string]any{"work_order_id": woID, "note_count": len(wo.Notes)},
		"note added to work order #%d", woID)
}

func (uc *UseCases) adjustInventory(ctx context.Context, tok *auth.Token, spec *model.ActionSpec, req *model.ExecuteRequest) *model.ExecuteResult {
	itemID, ok := contextInt(req, "item_id")
	if !ok {
		return errResult(types.ErrCodeValidationFailed, "item_id is required")
	}

	delta, ok := req.FieldInt("quantity_change")
	if !ok {
		return errResult(types.ErrCodeValidationFailed, "quantity_change is required")
	}
	if strings.TrimSpace(req.FieldString("reason")) == "" {
		return errResult(types.ErrCodeValidationFailed, "reason is required")
	}

	item, err := uc.repo.Inventory().Get(ctx, tok.YachtID, itemID)
	if err != nil {
		if isNotFound(err) {
			return errResult(types.ErrCodeValidationFailed, "inventory item %d not found", itemID)
		}
		_ = errutil.Handle(ctx, err, "failed to load inventory item")
		return errResult(types.ErrCodeInternalFailed, "failed to adjust inventory")
	}

	newQuantity := item.Quantity + delta
	if newQuantity < 0 {
		return errResult(types.ErrCodeStockFailed,
			"insufficient stock: %d on hand, cannot remove %d", item.Quantity, -delta)
	}

	item.Quantity = newQuantity
	if _, err := uc.repo.Inventory().Update(ctx, tok.YachtID, item); err != nil {
		_ = errutil.Handle(ctx, err, "failed to adjust inventory")
		return errResult(types.ErrCodeInternalFailed, "failed to adjust inventory")
	}

	return okResult(map[string]any{"item_id": itemID, "quantity": newQuantity},
		"%s adjusted to %d", item.Name, newQuantity)
}

func (uc *UseCases) dismissComplianceWarning(ctx context.Context, tok *auth.Token, spec *model.ActionSpec, req *model.ExecuteRequest) *model.ExecuteResult {
	warningID, ok := contextInt(req, "warning_id")
	if !ok {
		return errResult(types.ErrCodeValidationFailed, "warning_id is required")
	}

	reason := strings.TrimSpace(req.FieldString("dismiss_reason"))
	if reason == "" {
		return errResult(types.ErrCodeValidationFailed, "dismiss_reason is required")
	}

	warning, err := uc.repo.Compliance().Get(ctx, tok.YachtID, warningID)
	if err != nil {
		if isNotFound(err) {
			return errResult(types.ErrCodeValidationFailed, "compliance warning %d not found", warningID)
		}
		_ = errutil.Handle(ctx, err, "failed to load compliance warning")
		return errResult(types.ErrCodeInternalFailed, "failed to dismiss warning")
	}

	if warning.Dismissed {
		return errResult(types.ErrCodeValidationFailed,
			"compliance warning %d is already dismissed", warningID)
	}

	warning.Dismissed = true
	warning.DismissedBy = tok.Sub
	warning.DismissReason = reason

	if _, err := uc.repo.Compliance().Update(ctx, tok.YachtID, warning); err != nil {
		_ = errutil.Handle(ctx, err, "failed to dismiss warning")
		return errResult(types.ErrCodeInternalFailed, "failed to dismiss warning")
	}

	return okResult(map[string]any{"warning_id": warningID},
		"compliance warning #%d dismissed", warningID)
}

func (uc *UseCases) uploadDocument(ctx context.Context, tok *auth.Token, spec *model.ActionSpec, req *model.ExecuteRequest) *model.ExecuteResult {
	if spec.StorageOptions == nil {
		return errResult(types.ErrCodeStorageFailed, "action has no storage configuration")
	}
	if uc.storage == nil {
		return errResult(types.ErrCodeStorageFailed, "storage backend is not configured")
	}

	title := strings.TrimSpace(req.FieldString("title"))
	filename := strings.TrimSpace(req.FieldString("filename"))
	if title == "" || filename == "" {
		return errResult(types.ErrCodeValidationFailed, "title and filename are required")
	}

	data, err := base64.StdEncoding.DecodeString(req.FieldString("content_base64"))
	if err != nil || len(data) == 0 {
		return errResult(types.ErrCodeValidationFailed, "content_base64 must carry the file content")
	}

	contentType := req.FieldString("content_type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	path := spec.StorageOptions.RenderPath(filename)
	if err := uc.storage.Put(ctx, spec.StorageOptions.Bucket, path, contentType, data); err != nil {
		_ = errutil.Handle(ctx, err, "failed to store document")
		return errResult(types.ErrCodeStorageFailed, "failed to store document")
	}

	doc := &model.Document{
		Title:       title,
		Bucket:      spec.StorageOptions.Bucket,
		Path:        path,
		Filename:    filename,
		ContentType: contentType,
		SizeBytes:   int64(len(data)),
		UploadedBy:  tok.Sub,
	}
	created, err := uc.repo.Document().Create(ctx, tok.YachtID, doc)
	if err != nil {
		_ = errutil.Handle(ctx, err, "failed to record document")
		return errResult(types.ErrCodeStorageFailed, "failed to record document")
	}

	return okResult(map[string]any{"document_id": created.ID, "path": path},
		"%s stored at %s", filename, path)
}
