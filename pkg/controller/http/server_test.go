package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/m-mizutani/gt"

	httpctrl "github.com/seamark-lab/quartermaster/pkg/controller/http"
	"github.com/seamark-lab/quartermaster/pkg/domain/model"
	"github.com/seamark-lab/quartermaster/pkg/domain/types"
	"github.com/seamark-lab/quartermaster/pkg/repository/memory"
	"github.com/seamark-lab/quartermaster/pkg/usecase"
)

func testRegistry(t *testing.T) *model.ActionRegistry {
	t.Helper()

	registry, err := model.NewActionRegistry(
		&model.ActionSpec{
			ID:             "create_work_order",
			Label:          "Create work order",
			Variant:        types.ActionVariantStandard,
			RequiredFields: []string{"yacht_id", "title"},
			DuplicateCheck: model.DuplicateCheckWorkOrderForFault,
		},
		&model.ActionSpec{
			ID:             "complete_work_order",
			Label:          "Complete work order",
			Variant:        types.ActionVariantSigned,
			RequiredFields: []string{"yacht_id", "outcome", "signature"},
		},
		&model.ActionSpec{
			ID:      "archive_work_order",
			Label:   "Archive work order",
			Variant: types.ActionVariantStandard,
			MinRole: types.RoleCaptain,
		},
	)
	gt.NoError(t, err).Required()
	return registry
}

func newTestServer(t *testing.T, opts ...httpctrl.Options) (*httpctrl.Server, *memory.Memory) {
	t.Helper()
	repo := memory.New()
	uc := usecase.New(repo, testRegistry(t))
	return httpctrl.New(uc, opts...), repo
}

func doJSON(t *testing.T, srv http.Handler, method, path, bearer string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		gt.NoError(t, err).Required()
		buf = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	return rec
}

func decodeResult(t *testing.T, rec *httptest.ResponseRecorder) *model.ExecuteResult {
	t.Helper()
	var result model.ExecuteResult
	gt.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result)).Required()
	return &result
}

func TestHealthEndpoint(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := doJSON(t, srv, http.MethodGet, "/v1/health", "", nil)
	gt.Number(t, rec.Code).Equal(http.StatusOK)
	gt.String(t, rec.Body.String()).Contains(`"ok"`)
}

func TestNoAuthMode(t *testing.T) {
	ctx := context.Background()

	t.Run("requests run as the anonymous captain", func(t *testing.T) {
		srv, _ := newTestServer(t)

		rec := doJSON(t, srv, http.MethodGet, "/v1/actions", "", nil)
		gt.Number(t, rec.Code).Equal(http.StatusOK)

		var body struct {
			Actions []*model.ActionSuggestion `json:"actions"`
		}
		gt.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body)).Required()
		gt.Array(t, body.Actions).Length(3)
	})

	t.Run("execute writes under the development yacht", func(t *testing.T) {
		srv, repo := newTestServer(t)

		rec := doJSON(t, srv, http.MethodPost, "/v1/actions/execute", "", map[string]any{
			"action":  "create_work_order",
			"payload": map[string]any{"title": "Bilge pump overhaul"},
		})
		gt.Number(t, rec.Code).Equal(http.StatusOK)

		result := decodeResult(t, rec)
		gt.Bool(t, result.OK()).True()

		orders, err := repo.WorkOrder().List(ctx, "dev-yacht")
		gt.NoError(t, err).Required()
		gt.Array(t, orders).Length(1)
	})
}

func TestBearerAuth(t *testing.T) {
	authUC, err := usecase.NewAuthUseCase([]byte("0123456789abcdef0123456789abcdef"))
	gt.NoError(t, err).Required()

	srv, repo := newTestServer(t, httpctrl.WithAuth(authUC))

	t.Run("missing token is rejected", func(t *testing.T) {
		rec := doJSON(t, srv, http.MethodGet, "/v1/actions", "", nil)
		gt.Number(t, rec.Code).Equal(http.StatusUnauthorized)
		gt.String(t, rec.Body.String()).Contains("Authentication required")
	})

	t.Run("garbage token is rejected", func(t *testing.T) {
		rec := doJSON(t, srv, http.MethodGet, "/v1/actions", "not-a-jwt", nil)
		gt.Number(t, rec.Code).Equal(http.StatusUnauthorized)
		gt.String(t, rec.Body.String()).Contains("Invalid authentication token")
	})

	t.Run("valid token carries the yacht and role", func(t *testing.T) {
		raw, err := authUC.IssueToken("chief-eng", types.RoleHODEngineering, "yacht-aurora", "bridge-tablet")
		gt.NoError(t, err).Required()

		rec := doJSON(t, srv, http.MethodPost, "/v1/actions/execute", raw, map[string]any{
			"action":  "create_work_order",
			"payload": map[string]any{"title": "Replace impeller"},
		})
		gt.Number(t, rec.Code).Equal(http.StatusOK)

		orders, err := repo.WorkOrder().List(context.Background(), "yacht-aurora")
		gt.NoError(t, err).Required()
		gt.Array(t, orders).Length(1)
		gt.Value(t, orders[0].CreatedBy).Equal("chief-eng")
	})

	t.Run("health stays open", func(t *testing.T) {
		rec := doJSON(t, srv, http.MethodGet, "/v1/health", "", nil)
		gt.Number(t, rec.Code).Equal(http.StatusOK)
	})
}

func TestExecuteStatusMapping(t *testing.T) {
	authUC, err := usecase.NewAuthUseCase([]byte("0123456789abcdef0123456789abcdef"))
	gt.NoError(t, err).Required()

	token := func(t *testing.T, role types.Role) string {
		t.Helper()
		raw, err := authUC.IssueToken("user-1", role, "yacht-aurora", "")
		gt.NoError(t, err).Required()
		return raw
	}

	t.Run("role denial maps to 403", func(t *testing.T) {
		srv, _ := newTestServer(t, httpctrl.WithAuth(authUC))

		rec := doJSON(t, srv, http.MethodPost, "/v1/actions/execute", token(t, types.RoleCrew), map[string]any{
			"action":  "archive_work_order",
			"context": map[string]string{"work_order_id": "1"},
		})
		gt.Number(t, rec.Code).Equal(http.StatusForbidden)

		result := decodeResult(t, rec)
		gt.Value(t, result.Status).Equal(types.ExecStatusError)
		gt.Value(t, result.ErrorCode).Equal(types.ErrCodeInsufficientPermissions)
	})

	t.Run("missing signature maps to 400", func(t *testing.T) {
		srv, _ := newTestServer(t, httpctrl.WithAuth(authUC))

		rec := doJSON(t, srv, http.MethodPost, "/v1/actions/execute", token(t, types.RoleCaptain), map[string]any{
			"action":  "complete_work_order",
			"context": map[string]string{"work_order_id": "1"},
			"payload": map[string]any{"outcome": "completed"},
		})
		gt.Number(t, rec.Code).Equal(http.StatusBadRequest)

		result := decodeResult(t, rec)
		gt.Value(t, result.ErrorCode).Equal(types.ErrCodeSignatureRequired)
	})

	t.Run("duplicate maps to 409 with the full result body", func(t *testing.T) {
		ctx := context.Background()
		srv, repo := newTestServer(t, httpctrl.WithAuth(authUC))

		fault, err := repo.Fault().Create(ctx, "yacht-aurora", &model.Fault{Title: "Genset overheating"})
		gt.NoError(t, err).Required()
		_, err = repo.WorkOrder().Create(ctx, "yacht-aurora", &model.WorkOrder{
			Title: "Existing", FaultID: fault.ID,
		})
		gt.NoError(t, err).Required()

		rec := doJSON(t, srv, http.MethodPost, "/v1/actions/execute", token(t, types.RoleCaptain), map[string]any{
			"action":  "create_work_order",
			"context": map[string]string{"fault_id": "1"},
			"payload": map[string]any{"title": "Again"},
		})
		gt.Number(t, rec.Code).Equal(http.StatusConflict)

		result := decodeResult(t, rec)
		gt.Value(t, result.ErrorCode).Equal(types.ErrCodeDuplicateFound)
		gt.Value(t, result.Result["entity_kind"]).Equal("work_order")
	})

	t.Run("malformed body maps to 400", func(t *testing.T) {
		srv, _ := newTestServer(t, httpctrl.WithAuth(authUC))

		req := httptest.NewRequest(http.MethodPost, "/v1/actions/execute",
			bytes.NewReader([]byte("{not json")))
		req.Header.Set("Authorization", "Bearer "+token(t, types.RoleCaptain))
		rec := httptest.NewRecorder()
		srv.ServeHTTP(rec, req)

		gt.Number(t, rec.Code).Equal(http.StatusBadRequest)
	})

	t.Run("missing action maps to 400", func(t *testing.T) {
		srv, _ := newTestServer(t, httpctrl.WithAuth(authUC))

		rec := doJSON(t, srv, http.MethodPost, "/v1/actions/execute", token(t, types.RoleCaptain), map[string]any{
			"payload": map[string]any{"title": "No action named"},
		})
		gt.Number(t, rec.Code).Equal(http.StatusBadRequest)
	})
}

func TestPreviewEndpoint(t *testing.T) {
	srv, _ := newTestServer(t)

	t.Run("returns the described changes", func(t *testing.T) {
		rec := doJSON(t, srv, http.MethodPost, "/v1/actions/create_work_order/preview", "", map[string]any{
			"payload": map[string]any{"title": "Bilge pump overhaul"},
		})
		gt.Number(t, rec.Code).Equal(http.StatusOK)

		var preview model.PreviewResult
		gt.NoError(t, json.Unmarshal(rec.Body.Bytes(), &preview)).Required()
		gt.Value(t, preview.Changes["title"]).Equal("Bilge pump overhaul")
		gt.Bool(t, preview.RequiresSignature).False()
	})

	t.Run("unknown action is a 400", func(t *testing.T) {
		rec := doJSON(t, srv, http.MethodPost, "/v1/actions/launch_tender/preview", "", map[string]any{})
		gt.Number(t, rec.Code).Equal(http.StatusBadRequest)
	})

	t.Run("role denial is a 403", func(t *testing.T) {
		authUC, err := usecase.NewAuthUseCase([]byte("0123456789abcdef0123456789abcdef"))
		gt.NoError(t, err).Required()
		authedSrv, _ := newTestServer(t, httpctrl.WithAuth(authUC))

		raw, err := authUC.IssueToken("deckhand", types.RoleCrew, "yacht-aurora", "")
		gt.NoError(t, err).Required()

		rec := doJSON(t, authedSrv, http.MethodPost, "/v1/actions/archive_work_order/preview", raw, map[string]any{})
		gt.Number(t, rec.Code).Equal(http.StatusForbidden)
	})
}

func TestListActionsFiltersByRole(t *testing.T) {
	authUC, err := usecase.NewAuthUseCase([]byte("0123456789abcdef0123456789abcdef"))
	gt.NoError(t, err).Required()
	srv, _ := newTestServer(t, httpctrl.WithAuth(authUC))

	list := func(t *testing.T, role types.Role) []*model.ActionSuggestion {
		t.Helper()
		raw, err := authUC.IssueToken("user-1", role, "yacht-aurora", "")
		gt.NoError(t, err).Required()

		rec := doJSON(t, srv, http.MethodGet, "/v1/actions", raw, nil)
		gt.Number(t, rec.Code).Equal(http.StatusOK)

		var body struct {
			Actions []*model.ActionSuggestion `json:"actions"`
		}
		gt.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body)).Required()
		return body.Actions
	}

	gt.Array(t, list(t, types.RoleCrew)).Length(2)
	gt.Array(t, list(t, types.RoleCaptain)).Length(3)

	for _, suggestion := range list(t, types.RoleCrew) {
		gt.Value(t, suggestion.ActionID).NotEqual(types.ActionID("archive_work_order"))
	}
}
