package usecase

import (
	"context"
	"strconv"

	"github.com/google/uuid"
	"github.com/m-mizutani/goerr/v2"

	"github.com/seamark-lab/quartermaster/pkg/domain/model"
	"github.com/seamark-lab/quartermaster/pkg/domain/model/auth"
	"github.com/seamark-lab/quartermaster/pkg/domain/types"
	"github.com/seamark-lab/quartermaster/pkg/utils/async"
	"github.com/seamark-lab/quartermaster/pkg/utils/errutil"
)

// ExecuteAction runs the full dispatch pipeline for one request. It always
// returns a non-nil result; protocol failures are error-status results, not
// Go errors. The pipeline order is fixed: catalog lookup, role policy,
// signature verification, idempotency dedup, duplicate detection, handler.
func (uc *UseCases) ExecuteAction(ctx context.Context, tok *auth.Token, req *model.ExecuteRequest) *model.ExecuteResult {
	spec, ok := uc.registry.Lookup(req.Action)
	if !ok {
		return errResult(types.ErrCodeUnknownActionFailed,
			"unknown action: %s", req.Action)
	}

	if !spec.PermittedFor(tok.Role) {
		return errResult(types.ErrCodeInsufficientPermissions,
			"your role does not permit this action")
	}

	var signatureHash string
	if spec.Variant == types.ActionVariantSigned {
		sig, result := uc.verifySignature(spec, req)
		if result != nil {
			return result
		}
		signatureHash = sig.ActionHash
	}

	result := uc.executeDeduped(ctx, tok, spec, req)

	uc.recordAudit(ctx, tok, req, result, signatureHash)
	uc.notify(ctx, tok, spec, result)
	return result
}

// verifySignature enforces the SIGNED variant contract: a signature must be
// present, its hash must match the submitted content, and it must be fresh.
// All three failures map to SIGNATURE_REQUIRED so the client re-enters the
// signing step rather than treating it as a permission problem.
func (uc *UseCases) verifySignature(spec *model.ActionSpec, req *model.ExecuteRequest) (*model.Signature, *model.ExecuteResult) {
	sig, err := req.Signature()
	if err != nil {
		return nil, errResult(types.ErrCodeSignatureRequired,
			"signature payload is malformed")
	}
	if sig == nil {
		return nil, errResult(types.ErrCodeSignatureRequired,
			"this action requires a signature")
	}

	if err := sig.Verify(req.Action, req.Context, req.Payload); err != nil {
		return nil, errResult(types.ErrCodeSignatureRequired,
			"signature does not match the submitted content, please sign again")
	}

	if sig.Age(uc.now()) > uc.signatureMaxAge {
		return nil, errResult(types.ErrCodeSignatureRequired,
			"signature has expired, please sign again")
	}

	return sig, nil
}

// executeDeduped wraps the handler in the idempotency window. The first
// request with a key claims it and records its outcome; repeats within the
// window get the recorded result back without re-running the handler.
// Requests without a key (manual curl, legacy clients) run unconditionally.
func (uc *UseCases) executeDeduped(ctx context.Context, tok *auth.Token, spec *model.ActionSpec, req *model.ExecuteRequest) *model.ExecuteResult {
	key := req.IdempotencyKey()
	if key == "" {
		return uc.runHandler(ctx, tok, spec, req)
	}

	now := uc.now()
	record := &model.IdempotencyRecord{
		Key:         key,
		ActionID:    req.Action,
		FirstSeenAt: now,
		ExpiresAt:   now.Add(uc.dedupWindow),
	}

	stored, claimed, err := uc.repo.Idempotency().PutIfAbsent(ctx, record)
	if err != nil {
		_ = errutil.Handle(ctx, err, "idempotency claim failed")
		return errResult(types.ErrCodeInternalFailed, "failed to process request")
	}

	if !claimed {
		if !stored.Expired(now) {
			if stored.RecordedResult != nil {
				return stored.RecordedResult
			}
			// Claimed but no outcome yet: a concurrent attempt with the same
			// key is still running
			return errResult(types.ErrCodeInternalFailed,
				"a request with this idempotency key is already in progress")
		}
		// The window passed but the sweep has not collected the record yet.
		// Reclaim it for this attempt.
		record.RecordedResult = nil
		if err := uc.repo.Idempotency().Update(ctx, record); err != nil {
			_ = errutil.Handle(ctx, err, "idempotency reclaim failed")
			return errResult(types.ErrCodeInternalFailed, "failed to process request")
		}
	}

	result := uc.runHandler(ctx, tok, spec, req)

	record.RecordedResult = result
	if err := uc.repo.Idempotency().Update(ctx, record); err != nil {
		// The action ran; losing the dedup record is worse than failing the
		// response, so log and return the real outcome.
		_ = errutil.Handle(ctx, err, "failed to record idempotency outcome")
	}

	return result
}

// runHandler applies duplicate detection and dispatches to the per-action
// handler
func (uc *UseCases) runHandler(ctx context.Context, tok *auth.Token, spec *model.ActionSpec, req *model.ExecuteRequest) *model.ExecuteResult {
	if spec.DuplicateCheck != "" && !req.OverrideDuplicate() {
		dup, err := uc.findDuplicate(ctx, tok.YachtID, spec.DuplicateCheck, req)
		if err != nil {
			_ = errutil.Handle(ctx, err, "duplicate check failed")
			return errResult(types.ErrCodeInternalFailed, "failed to process request")
		}
		if dup != nil {
			return &model.ExecuteResult{
				Status:    types.ExecStatusError,
				Message:   duplicateMessage(dup),
				ErrorCode: types.ErrCodeDuplicateFound,
				Result: map[string]any{
					"entity_kind": dup.EntityKind,
					"entity_id":   dup.EntityID,
					"created_at":  dup.CreatedAt,
					"days_ago":    dup.DaysAgo,
				},
			}
		}
	}

	handler, ok := uc.handlers[spec.ID]
	if !ok {
		// Catalog validation rejects unhandled actions at startup, so this is
		// a deployment inconsistency, not user error
		_ = errutil.Handle(ctx, goerr.New("no handler for catalog action",
			goerr.V("action_id", spec.ID)), "action handler missing")
		return errResult(types.ErrCodeInternalFailed, "action is not available")
	}

	return handler(ctx, tok, spec, req)
}

// findDuplicate runs the named related-entity lookup. A nil result means no
// duplicate; not-found from the repository is the expected negative.
func (uc *UseCases) findDuplicate(ctx context.Context, yachtID, check string, req *model.ExecuteRequest) (*model.DuplicateInfo, error) {
	switch check {
	case model.DuplicateCheckWorkOrderForFault:
		faultID, ok := contextInt(req, "fault_id")
		if !ok {
			return nil, nil
		}
		wo, err := uc.repo.WorkOrder().GetByFault(ctx, yachtID, faultID)
		if err != nil {
			if isNotFound(err) {
				return nil, nil
			}
			return nil, err
		}
		return model.NewDuplicateInfo("work_order", wo.ID, wo.CreatedAt, uc.now()), nil

	default:
		return nil, goerr.New("unknown duplicate check", goerr.V("check", check))
	}
}

func duplicateMessage(dup *model.DuplicateInfo) string {
	when := "today"
	switch {
	case dup.DaysAgo == 1:
		when = "1 day ago"
	case dup.DaysAgo > 1:
		when = strconv.Itoa(dup.DaysAgo) + " days ago"
	}
	return "a related " + dup.EntityKind + " already exists (created " + when + ")"
}

// contextInt parses a numeric entity reference from the request context
func contextInt(req *model.ExecuteRequest, name string) (int64, bool) {
	raw, ok := req.Context[name]
	if !ok || raw == "" {
		return 0, false
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}

// recordAudit appends the execution trail entry, fire-and-forget
func (uc *UseCases) recordAudit(ctx context.Context, tok *auth.Token, req *model.ExecuteRequest, result *model.ExecuteResult, signatureHash string) {
	record := &model.AuditRecord{
		ID:             uuid.NewString(),
		ActionID:       req.Action,
		YachtID:        tok.YachtID,
		ActorID:        tok.Sub,
		ActorRole:      tok.Role,
		Status:         result.Status,
		ErrorCode:      result.ErrorCode,
		IdempotencyKey: req.IdempotencyKey(),
		SignatureHash:  signatureHash,
		CreatedAt:      uc.now(),
	}

	yachtID := tok.YachtID
	async.Dispatch(ctx, func(ctx context.Context) error {
		return uc.repo.Audit().Put(ctx, yachtID, record)
	})
}

// notify posts the outcome to the configured channel, fire-and-forget
func (uc *UseCases) notify(ctx context.Context, tok *auth.Token, spec *model.ActionSpec, result *model.ExecuteResult) {
	if uc.notifier == nil {
		return
	}

	n := &model.ActionNotification{
		ActionID:  spec.ID,
		Label:     spec.Label,
		YachtID:   tok.YachtID,
		ActorID:   tok.Sub,
		ActorRole: tok.Role,
		Status:    result.Status,
		Message:   result.Message,
		ErrorCode: result.ErrorCode,
	}

	async.Dispatch(ctx, func(ctx context.Context) error {
		return uc.notifier.NotifyActionResult(ctx, n)
	})
}
