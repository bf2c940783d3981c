package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/andyspruebas-jpg/Stock-Pro/internal/application/auth"
	"github.com/andyspruebas-jpg/Stock-Pro/internal/application/dto"
	"github.com/andyspruebas-jpg/Stock-Pro/internal/application/forecast"
	appinv "github.com/andyspruebas-jpg/Stock-Pro/internal/application/inventory"
	"github.com/andyspruebas-jpg/Stock-Pro/internal/application/usecase"
	"github.com/andyspruebas-jpg/Stock-Pro/internal/domain/entity"
	domaininv "github.com/andyspruebas-jpg/Stock-Pro/internal/domain/inventory"
	apphttp "github.com/andyspruebas-jpg/Stock-Pro/internal/interfaces/http"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes de repositorios y puertos
// ──────────────────────────────────────────────────────────────────────────────

type memUsers struct {
	mu   sync.Mutex
	byID map[string]entity.User
}

func (m *memUsers) Create(_ context.Context, u *entity.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.byID[u.ID] = *u
	return nil
}

func (m *memUsers) GetByID(_ context.Context, id string) (*entity.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u, ok := m.byID[id]; ok {
		return &u, nil
	}
	return nil, nil
}

func (m *memUsers) GetByUsername(_ context.Context, username string) (*entity.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.byID {
		if u.Username == username {
			cp := u
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *memUsers) Update(ctx context.Context, u *entity.User) error { return m.Create(ctx, u) }

type fakeWarehouses []entity.Warehouse

func (f fakeWarehouses) List(_ context.Context) ([]entity.Warehouse, error) { return f, nil }

type fakeSnapshotRepo struct {
	snap entity.Snapshot
	err  error
}

func (r *fakeSnapshotRepo) Load(_ context.Context) (*entity.Snapshot, error) {
	if r.err != nil {
		return nil, r.err
	}
	cp := r.snap
	cp.Products = append([]entity.ProductSnapshot(nil), r.snap.Products...)
	return &cp, nil
}

type fakeLLM struct{ text string }

func (f fakeLLM) Complete(_ context.Context, _, _ string) (string, error) { return f.text, nil }

type fakeReports struct{}

func (fakeReports) GenerateTransferOrder(_ *dto.TransferOrder) ([]byte, error) {
	return []byte("%PDF-1.3 fake"), nil
}

// ──────────────────────────────────────────────────────────────────────────────
// Aplicación completa sobre fakes
// ──────────────────────────────────────────────────────────────────────────────

var network = []entity.Warehouse{
	{ID: "W1", Name: "Sucursal Norte", Role: entity.WarehouseRoleBranch},
	{ID: "W2", Name: "Sucursal Sur", Role: entity.WarehouseRoleBranch},
}

func networkSnapshot() entity.Snapshot {
	return entity.Snapshot{
		Warehouses: network,
		Products: []entity.ProductSnapshot{{
			ID:               "P1",
			Name:             "Aceite 900ml",
			Barcode:          "7771234",
			StockByWarehouse: map[string]float64{"W1": 0, "W2": 100},
			SalesByWarehouse: map[string]float64{"W1": 30, "W2": 30},
			PendingOrders: []entity.PendingOrder{
				{OrderRef: "PO-2", Quantity: 5, WarehouseID: "W1"},
				{OrderRef: "PO-1", Quantity: 7, WarehouseID: "W2"},
			},
		}},
	}
}

type testEnv struct {
	app   *fiber.App
	users *auth.AuthUseCase
	repo  *fakeSnapshotRepo
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	params := domaininv.DefaultParams()
	engine := domaininv.NewEngine(params)

	repo := &fakeSnapshotRepo{snap: networkSnapshot()}
	snapshots := appinv.NewSnapshotUseCase(repo, nil, params.ABC, 0, nil)
	authUC := auth.NewAuthUseCase(&memUsers{byID: map[string]entity.User{}}, auth.JWTConfig{
		Secret: testJWTSecret, ExpMinutes: testExpMin, Issuer: testIssuer,
	}).WithHashCost(bcrypt.MinCost)

	app := fiber.New()
	apphttp.Router(app, apphttp.RouterDeps{
		AuthUC:      authUC,
		WarehouseUC: usecase.NewWarehouseUseCase(fakeWarehouses(network)),
		SnapshotUC:  snapshots,
		RebalanceUC: appinv.NewRebalanceUseCase(engine, snapshots, forecast.NewHeuristicPredictor(params), fakeReports{}, nil),
		NarrativeUC: usecase.NewNarrativeUseCase(fakeLLM{text: "  Conviene traspasar desde Sucursal Sur.  "}, snapshots, params),
		JWTSecret:   testJWTSecret,
	})
	return &testEnv{app: app, users: authUC, repo: repo}
}

func (e *testEnv) do(t *testing.T, method, path string, body any, token string) *http.Response {
	t.Helper()
	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", token)
	}
	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()
	var out T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

// ──────────────────────────────────────────────────────────────────────────────
// Auth
// ──────────────────────────────────────────────────────────────────────────────

func TestLoginYVerify(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.users.RegisterUser(context.Background(), dto.CreateUserRequest{
		Username: "Andy", Password: "secreto1", Role: entity.RoleAnalista,
	})
	require.NoError(t, err)

	resp := env.do(t, http.MethodPost, "/api/auth/login", dto.LoginRequest{Username: "andy", Password: "malo"}, "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp = env.do(t, http.MethodPost, "/api/auth/login", dto.LoginRequest{Username: "andy", Password: "secreto1"}, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	login := decode[dto.LoginResponse](t, resp)
	require.NotEmpty(t, login.Token)
	assert.Equal(t, "analista", login.User.Role)

	resp = env.do(t, http.MethodGet, "/api/auth/verify", nil, "Bearer "+login.Token)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	me := decode[dto.UserResponse](t, resp)
	assert.Equal(t, "andy", me.Username)
}

func TestLogin_BodyIncompleto(t *testing.T) {
	env := newTestEnv(t)
	resp := env.do(t, http.MethodPost, "/api/auth/login", dto.LoginRequest{Username: "andy"}, "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestCreateUser_SoloAdmin(t *testing.T) {
	env := newTestEnv(t)
	body := dto.CreateUserRequest{Username: "bodega1", Password: "secreto1"}

	resp := env.do(t, http.MethodPost, "/api/auth/users", body, tokenForRole(t, entity.RoleAnalista))
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp = env.do(t, http.MethodPost, "/api/auth/users", body, tokenForRole(t, entity.RoleAdmin))
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	u := decode[dto.UserResponse](t, resp)
	assert.Equal(t, entity.RoleBodeguero, u.Role)

	resp = env.do(t, http.MethodPost, "/api/auth/users", body, tokenForRole(t, entity.RoleAdmin))
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestUpdateProfile_PasswordActualIncorrecta(t *testing.T) {
	env := newTestEnv(t)
	u, err := env.users.RegisterUser(context.Background(), dto.CreateUserRequest{Username: "andy", Password: "secreto1"})
	require.NoError(t, err)
	login, err := env.users.Login(context.Background(), dto.LoginRequest{Username: u.Username, Password: "secreto1"})
	require.NoError(t, err)

	resp := env.do(t, http.MethodPut, "/api/auth/profile", dto.UpdateProfileRequest{
		CurrentPassword: "otra", NewPassword: "nueva123",
	}, "Bearer "+login.Token)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp = env.do(t, http.MethodPut, "/api/auth/profile", dto.UpdateProfileRequest{Name: "Andy P."}, "Bearer "+login.Token)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Andy P.", decode[dto.UserResponse](t, resp).Name)
}

func TestRutaProtegida_SinToken(t *testing.T) {
	env := newTestEnv(t)
	resp := env.do(t, http.MethodGet, "/api/products", nil, "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

// ──────────────────────────────────────────────────────────────────────────────
// Bodegas y snapshot
// ──────────────────────────────────────────────────────────────────────────────

func TestWarehouses(t *testing.T) {
	env := newTestEnv(t)
	tok := tokenForRole(t, entity.RoleBodeguero)

	resp := env.do(t, http.MethodGet, "/api/warehouses", nil, tok)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	list := decode[[]dto.WarehouseDTO](t, resp)
	require.Len(t, list, 2)
	assert.Equal(t, "Sucursal Norte", list[0].Name)

	resp = env.do(t, http.MethodGet, "/api/warehouses/W9", nil, tok)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestProducts_SnapshotClasificadoConCabeceras(t *testing.T) {
	env := newTestEnv(t)
	resp := env.do(t, http.MethodGet, "/api/products", nil, tokenForRole(t, entity.RoleBodeguero))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get("X-Last-Sync"))

	snap := decode[dto.SnapshotDTO](t, resp)
	require.Len(t, snap.Products, 1)
	assert.Equal(t, entity.TierAA, snap.Products[0].ABCCategory)
	assert.Equal(t, 100.0, snap.Products[0].TotalStock)
}

func TestProducts_SnapshotNoDisponible(t *testing.T) {
	env := newTestEnv(t)
	env.repo.err = errors.New("conexión rechazada")

	resp := env.do(t, http.MethodGet, "/api/products", nil, tokenForRole(t, entity.RoleBodeguero))
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
}

func TestProducts_PendientesOrdenados(t *testing.T) {
	env := newTestEnv(t)
	tok := tokenForRole(t, entity.RoleBodeguero)

	resp := env.do(t, http.MethodGet, "/api/products/P1/pending", nil, tok)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	orders := decode[[]dto.PendingOrderDTO](t, resp)
	require.Len(t, orders, 2)
	assert.Equal(t, "PO-1", orders[0].OrderRef)

	resp = env.do(t, http.MethodGet, "/api/products/P9/pending", nil, tok)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestProducts_SyncRequiereRol(t *testing.T) {
	env := newTestEnv(t)

	resp := env.do(t, http.MethodPost, "/api/products/sync", nil, tokenForRole(t, entity.RoleBodeguero))
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp = env.do(t, http.MethodPost, "/api/products/sync", nil, tokenForRole(t, entity.RoleAnalista))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	st := decode[dto.SyncStatus](t, resp)
	assert.False(t, st.LastSync.IsZero())
}

// ──────────────────────────────────────────────────────────────────────────────
// ABC, rebalanceo, pronóstico y narrativa
// ──────────────────────────────────────────────────────────────────────────────

func TestClassify(t *testing.T) {
	env := newTestEnv(t)
	resp := env.do(t, http.MethodPost, "/api/abc/classify", dto.ClassifyRequest{
		Values: map[string]float64{"a": 5, "b": 95},
	}, tokenForRole(t, entity.RoleBodeguero))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	out := decode[dto.ClassifyResponse](t, resp)
	assert.Equal(t, entity.TierAA, out.Segments["b"].Tier)
}

func TestRebalanceGlobal(t *testing.T) {
	env := newTestEnv(t)
	tok := tokenForRole(t, entity.RoleAnalista)

	resp := env.do(t, http.MethodPost, "/api/rebalance/global", dto.GlobalRebalanceRequest{DestinationID: "W1"}, tok)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	out := decode[dto.GlobalRebalanceResponse](t, resp)
	assert.NotEmpty(t, out.RunID)
	require.Len(t, out.Products, 1)
	assert.Equal(t, "W2", out.Products[0].BestSourceID)
	assert.Equal(t, domaininv.PhaseRescue, out.Products[0].Phase)

	resp = env.do(t, http.MethodPost, "/api/rebalance/global", dto.GlobalRebalanceRequest{}, tok)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = env.do(t, http.MethodPost, "/api/rebalance/global", dto.GlobalRebalanceRequest{DestinationID: "W9"}, tok)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestRebalancePairwise(t *testing.T) {
	env := newTestEnv(t)
	tok := tokenForRole(t, entity.RoleAnalista)

	resp := env.do(t, http.MethodPost, "/api/rebalance/pairwise", dto.PairwiseTransferRequest{SourceID: "W2", DestinationID: "W1"}, tok)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	out := decode[dto.PairwiseTransferResponse](t, resp)
	assert.Equal(t, 1, out.Stats.Total)
	assert.Equal(t, "Sucursal Sur", out.Source.Name)
	assert.True(t, strings.HasPrefix(out.Analysis, "Transfer Sucursal Sur -> Sucursal Norte"))

	resp = env.do(t, http.MethodPost, "/api/rebalance/pairwise", dto.PairwiseTransferRequest{SourceID: "W1", DestinationID: "W1"}, tok)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestRebalancePairwiseReport(t *testing.T) {
	env := newTestEnv(t)
	resp := env.do(t, http.MethodPost, "/api/rebalance/pairwise/report",
		dto.PairwiseTransferRequest{SourceID: "W2", DestinationID: "W1"}, tokenForRole(t, entity.RoleBodeguero))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	defer resp.Body.Close()

	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "traspaso-W2-W1.pdf")
	assert.NotEmpty(t, resp.Header.Get("X-Run-ID"))
	body, _ := io.ReadAll(resp.Body)
	assert.True(t, bytes.HasPrefix(body, []byte("%PDF")))
}

func TestForecast(t *testing.T) {
	env := newTestEnv(t)
	resp := env.do(t, http.MethodPost, "/api/forecast", dto.ForecastRequest{DestinationID: "W1"}, tokenForRole(t, entity.RoleAnalista))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	out := decode[dto.ForecastResponse](t, resp)
	require.Contains(t, out.Predictions, "P1")
	assert.Greater(t, out.Predictions["P1"].Velocity, 0.0)
}

func TestNarrative(t *testing.T) {
	env := newTestEnv(t)
	tok := tokenForRole(t, entity.RoleBodeguero)

	resp := env.do(t, http.MethodPost, "/api/narrative", dto.NarrativeRequest{ProductID: "P1", WarehouseID: "W1"}, tok)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	out := decode[dto.NarrativeResponse](t, resp)
	assert.Equal(t, "Conviene traspasar desde Sucursal Sur.", out.Analysis)

	resp = env.do(t, http.MethodPost, "/api/narrative", dto.NarrativeRequest{}, tok)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = env.do(t, http.MethodPost, "/api/narrative", dto.NarrativeRequest{ProductID: "P9"}, tok)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
