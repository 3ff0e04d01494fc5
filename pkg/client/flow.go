package client

import (
	"context"
	"strings"
	"sync"

	"github.com/m-mizutani/goerr/v2"

	"github.com/seamark-lab/quartermaster/pkg/domain/model"
	"github.com/seamark-lab/quartermaster/pkg/domain/types"
)

// FlowState is the lifecycle phase of one action flow instance
type FlowState string

const (
	FlowStateLoading          FlowState = "loading"
	FlowStateForm             FlowState = "form"
	FlowStateDuplicateWarning FlowState = "duplicate_warning"
	FlowStatePreview          FlowState = "preview"
	FlowStateSigning          FlowState = "signing"
	FlowStateSuccess          FlowState = "success"
	FlowStateError            FlowState = "error"
	FlowStateClosed           FlowState = "closed"
)

// ErrIllegalTransition is returned when an operation is invoked from a state
// it is not defined for
var ErrIllegalTransition = goerr.New("illegal flow transition")

// ErrFlowBusy is returned when a second request is started while one is in
// flight. A flow runs at most one request at a time.
var ErrFlowBusy = goerr.New("flow has a request in flight")

// Flow is one instance of the action modal lifecycle. It owns the single
// idempotency key for all dispatch attempts of this instance, the entered
// field values, and the state transitions. A Flow is not safe for concurrent
// use except for Close, which may interrupt a flow from another goroutine.
type Flow struct {
	mu       sync.Mutex
	client   *Client
	actionID types.ActionID
	context  map[string]string

	state      FlowState
	inflight   bool
	idempKey   string
	override   bool
	suggestion *model.ActionSuggestion
	fields     map[string]any
	preview    *model.PreviewResult
	duplicate  *model.DuplicateInfo
	signature  *model.Signature
	result     *model.ExecuteResult
}

// NewFlow opens a flow for one action against one entity context. The
// idempotency key is generated here, once, and reused for every dispatch
// attempt of this instance. The session's yacht scope is merged into the
// context here so the signing step hashes the same context the wire carries.
func NewFlow(c *Client, actionID types.ActionID, entityContext map[string]string) *Flow {
	ctx := c.mergedContext(entityContext)
	return &Flow{
		client:   c,
		actionID: actionID,
		context:  ctx,
		state:    FlowStateLoading,
		idempKey: NewIdempotencyKey(),
		fields:   map[string]any{},
	}
}

// State returns the current flow state
func (f *Flow) State() FlowState {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// Suggestion returns the resolved action declaration, nil before Load
func (f *Flow) Suggestion() *model.ActionSuggestion {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.suggestion
}

// Duplicate returns the duplicate found during prefill, nil when none
func (f *Flow) Duplicate() *model.DuplicateInfo {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.duplicate
}

// Preview returns the last preview result, nil before ToPreview
func (f *Flow) Preview() *model.PreviewResult {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.preview
}

// Result returns the dispatch outcome, nil before a terminal state
func (f *Flow) Result() *model.ExecuteResult {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.result
}

// IdempotencyKey returns the key fixed for this flow instance
func (f *Flow) IdempotencyKey() string {
	return f.idempKey
}

// SetField records a user-entered field value. Valid only while the form is
// editable.
func (f *Flow) SetField(name string, value any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.state != FlowStateForm {
		return goerr.Wrap(ErrIllegalTransition, "fields are editable only in form state",
			goerr.V("state", f.state))
	}
	f.fields[name] = value
	return nil
}

// Field returns an entered field value
func (f *Flow) Field(name string) any {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.fields[name]
}

// Load resolves the action declaration and runs prefill. It moves to form,
// or to duplicate_warning when prefill found a pre-existing related entity.
func (f *Flow) Load(ctx context.Context) error {
	if err := f.begin(FlowStateLoading); err != nil {
		return err
	}

	suggestion, err := f.client.Suggestion(ctx, f.actionID)
	if err != nil {
		f.finish(FlowStateError, nil)
		return goerr.Wrap(err, "failed to load action", goerr.V("action_id", f.actionID))
	}
	if suggestion == nil {
		f.finish(FlowStateError, &model.ExecuteResult{
			Status:    types.ExecStatusError,
			Message:   "this action is not available",
			ErrorCode: types.ErrCodeUnknownActionFailed,
		})
		return goerr.New("action not available", goerr.V("action_id", f.actionID))
	}

	prefill, err := f.client.Preview(ctx, f.actionID, f.context, f.payload())
	if err != nil {
		// Prefill is best-effort: an unreachable preview endpoint degrades to
		// an empty form rather than a dead modal.
		f.mu.Lock()
		f.suggestion = suggestion
		f.mu.Unlock()
		f.finish(FlowStateForm, nil)
		return nil
	}

	f.mu.Lock()
	f.suggestion = suggestion
	f.duplicate = prefill.Duplicate
	next := FlowStateForm
	if prefill.Duplicate != nil {
		next = FlowStateDuplicateWarning
	}
	f.mu.Unlock()
	f.finish(next, nil)
	return nil
}

// Override acknowledges the duplicate warning and proceeds to the form with
// override_duplicate set on every subsequent request of this flow
func (f *Flow) Override() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.state != FlowStateDuplicateWarning {
		return goerr.Wrap(ErrIllegalTransition, "override requires a duplicate warning",
			goerr.V("state", f.state))
	}
	f.override = true
	f.state = FlowStateForm
	return nil
}

// ToPreview validates the form and fetches the execution preview. Validation
// failures keep the flow in form state with the error returned for display.
func (f *Flow) ToPreview(ctx context.Context) error {
	if err := f.begin(FlowStateForm); err != nil {
		return err
	}

	if err := f.validateForm(); err != nil {
		f.finish(FlowStateForm, nil)
		return err
	}

	preview, err := f.client.Preview(ctx, f.actionID, f.context, f.payload())
	if err != nil {
		f.finish(FlowStateForm, nil)
		return goerr.Wrap(err, "failed to preview")
	}

	f.mu.Lock()
	f.preview = preview
	f.mu.Unlock()
	f.finish(FlowStatePreview, nil)
	return nil
}

// Back returns from preview to the editable form
func (f *Flow) Back() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.state != FlowStatePreview && f.state != FlowStateSigning {
		return goerr.Wrap(ErrIllegalTransition, "back requires preview or signing state",
			goerr.V("state", f.state))
	}
	f.signature = nil
	f.state = FlowStateForm
	return nil
}

// Confirm accepts the preview. A SIGNED action moves to signing and captures
// the proof-of-intent signature over the exact pending content; a STANDARD
// action dispatches immediately.
func (f *Flow) Confirm(ctx context.Context) error {
	f.mu.Lock()
	if f.state != FlowStatePreview {
		f.mu.Unlock()
		return goerr.Wrap(ErrIllegalTransition, "confirm requires preview state",
			goerr.V("state", f.state))
	}
	signed := f.suggestion.Variant == types.ActionVariantSigned
	f.mu.Unlock()

	if !signed {
		return f.Dispatch(ctx)
	}

	sig, err := f.client.Signer().Build(f.actionID, f.context, f.payload())
	if err != nil {
		return goerr.Wrap(err, "failed to sign action")
	}

	f.mu.Lock()
	f.signature = sig
	f.state = FlowStateSigning
	f.mu.Unlock()
	return nil
}

// Dispatch submits the action. Callable from signing (SIGNED, via Confirm's
// captured signature) and reachable from preview for STANDARD actions
// through Confirm. Every attempt reuses the flow's idempotency key.
func (f *Flow) Dispatch(ctx context.Context) error {
	f.mu.Lock()
	if f.state != FlowStatePreview && f.state != FlowStateSigning {
		f.mu.Unlock()
		return goerr.Wrap(ErrIllegalTransition, "dispatch requires preview or signing state",
			goerr.V("state", f.state))
	}
	if f.inflight {
		f.mu.Unlock()
		return ErrFlowBusy
	}
	f.inflight = true
	from := f.state
	f.mu.Unlock()

	payload := f.payload()
	if sig := f.currentSignature(); sig != nil {
		payload[model.PayloadKeySignature] = sig
	}

	result, _ := f.client.Execute(ctx, f.actionID, f.context, payload)

	f.mu.Lock()
	defer f.mu.Unlock()
	f.inflight = false

	// A close while the request was in flight wins: the response is
	// discarded and the flow stays closed.
	if f.state == FlowStateClosed {
		return nil
	}
	if f.state != from {
		return nil
	}

	f.result = result
	if result.OK() {
		f.state = FlowStateSuccess
	} else {
		f.state = FlowStateError
	}
	return nil
}

// Retry returns from a terminal error to the editable form, keeping the
// entered values and the idempotency key
func (f *Flow) Retry() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.state != FlowStateError {
		return goerr.Wrap(ErrIllegalTransition, "retry requires error state",
			goerr.V("state", f.state))
	}
	f.result = nil
	f.signature = nil
	f.state = FlowStateForm
	return nil
}

// Close terminates the flow from any state. Responses arriving after close
// are discarded. Close is idempotent.
func (f *Flow) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.state = FlowStateClosed
}

// payload assembles the wire payload: entered fields plus the reserved keys
// the flow manages
func (f *Flow) payload() map[string]any {
	f.mu.Lock()
	defer f.mu.Unlock()

	payload := make(map[string]any, len(f.fields)+3)
	for k, v := range f.fields {
		payload[k] = v
	}
	payload[model.PayloadKeyIdempotencyKey] = f.idempKey
	if f.override {
		payload[model.PayloadKeyOverrideDuplicate] = true
	}
	return payload
}

func (f *Flow) currentSignature() *model.Signature {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.signature
}

// validateForm enforces the submit preconditions: every visible required
// field non-empty, plus per-action consistency rules
func (f *Flow) validateForm() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, name := range f.suggestion.VisibleFields() {
		if isEmptyFieldValue(f.fields[name]) {
			return goerr.New("required field is empty", goerr.V("field", name))
		}
	}

	// Completing a work order as completed needs the quality check box
	if f.actionID == "complete_work_order" {
		outcome, _ := f.fields["outcome"].(string)
		passed, _ := f.fields["quality_check_passed"].(bool)
		if outcome == "completed" && !passed {
			return goerr.New("quality check confirmation is required to complete a work order")
		}
	}

	return nil
}

func isEmptyFieldValue(v any) bool {
	switch t := v.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(t) == ""
	default:
		return false
	}
}

// begin moves into a transient working phase from the required state and
// takes the single in-flight slot
func (f *Flow) begin(required FlowState) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.state != required {
		return goerr.Wrap(ErrIllegalTransition, "operation not valid in current state",
			goerr.V("state", f.state), goerr.V("required", required))
	}
	if f.inflight {
		return ErrFlowBusy
	}
	f.inflight = true
	return nil
}

// finish releases the in-flight slot and settles the next state, unless the
// flow was closed while working
func (f *Flow) finish(next FlowState, result *model.ExecuteResult) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.inflight = false
	if f.state == FlowStateClosed {
		return
	}
	if result != nil {
		f.result = result
	}
	f.state = next
}
