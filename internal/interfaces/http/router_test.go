package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Requisiciones-api/internal/application/auth"
	"github.com/jhoicas/Requisiciones-api/internal/application/dto"
	"github.com/jhoicas/Requisiciones-api/internal/application/inventory"
	"github.com/jhoicas/Requisiciones-api/internal/application/ports"
	"github.com/jhoicas/Requisiciones-api/internal/application/report"
	"github.com/jhoicas/Requisiciones-api/internal/application/requisition"
	"github.com/jhoicas/Requisiciones-api/internal/application/usecase"
	"github.com/jhoicas/Requisiciones-api/internal/infrastructure/memory"
	"github.com/jhoicas/Requisiciones-api/internal/infrastructure/pdf"
	"github.com/jhoicas/Requisiciones-api/internal/infrastructure/spreadsheet"
	"github.com/jhoicas/Requisiciones-api/internal/infrastructure/xmlexport"
	apphttp "github.com/jhoicas/Requisiciones-api/internal/interfaces/http"
)

type apiEnv struct {
	app        *fiber.App
	adminToken string
	userToken  string
}

// newAPI arma el router completo sobre el almacén en memoria, con un admin y un usuario.
func newAPI(t *testing.T) *apiEnv {
	t.Helper()
	store := memory.NewStore()
	ledger := inventory.NewLedger()
	log := zerolog.Nop()
	authUC := auth.NewAuthUseCase(store.Users(), auth.JWTConfig{Secret: testJWTSecret, ExpMinutes: testExpMin, Issuer: testIssuer})

	app := fiber.New()
	apphttp.Router(app, apphttp.RouterDeps{
		AuthUC:           authUC,
		UserUC:           usecase.NewUserUseCase(store.Users()),
		ItemUC:           usecase.NewItemUseCase(store, ledger, store.Items()),
		RegisterMovement: inventory.NewRegisterMovementUseCase(store, ledger, store.Movements()),
		Replenishment:    inventory.NewReplenishmentUseCase(store.Items()),
		PackageUC:        requisition.NewPackageUseCase(store, ledger, store.Packages(), store.Requisitions(), ports.NopPublisher{}, log),
		RequisitionUC:    requisition.NewRequisitionUseCase(store, ledger, store.Requisitions(), ports.NopPublisher{}, log),
		Reports: report.NewService(report.Deps{
			TxRunner: store, Ledger: ledger,
			Items: store.Items(), Movements: store.Movements(),
			Packages: store.Packages(), Requisitions: store.Requisitions(),
			PDF: pdf.NewStockReportGenerator("Pruebas"), Sheets: spreadsheet.NewCodec(), XML: xmlexport.NewEncoder(),
			Log: log,
		}),
		JWTSecret: testJWTSecret,
	})

	_, err := authUC.EnsureAdmin(context.Background(), "admin@example.com", "admin-pass-1", "Admin")
	require.NoError(t, err)
	env := &apiEnv{app: app}
	env.adminToken = env.login(t, "admin@example.com", "admin-pass-1")

	resp := env.call(t, http.MethodPost, "/api/users", env.adminToken, dto.CreateUserRequest{
		Email: "ana@example.com", Password: "user-pass-1", Name: "Ana",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()
	env.userToken = env.login(t, "ana@example.com", "user-pass-1")
	return env
}

func (e *apiEnv) call(t *testing.T, method, path, token string, body any) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func (e *apiEnv) login(t *testing.T, email, password string) string {
	t.Helper()
	resp := e.call(t, http.MethodPost, "/api/auth/login", "", dto.LoginRequest{Email: email, Password: password})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var out dto.LoginResponse
	decode(t, resp, &out)
	require.NotEmpty(t, out.Token)
	return out.Token
}

func decode(t *testing.T, resp *http.Response, dest any) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(dest))
}

func (e *apiEnv) createItem(t *testing.T, name string, qty int) string {
	t.Helper()
	resp := e.call(t, http.MethodPost, "/api/items", e.adminToken, dto.CreateItemRequest{Name: name, Quantity: qty, Minimum: 1, Ideal: 5})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var it dto.ItemResponse
	decode(t, resp, &it)
	return it.ID
}

func TestAPI_FlujoDePaquete(t *testing.T) {
	env := newAPI(t)
	itemA := env.createItem(t, "Tubo PVC", 10)

	resp := env.call(t, http.MethodPost, "/api/packages", env.userToken, dto.CreatePackageRequest{
		CostCenter: "CC-01", Project: "Obra norte",
		Items: []dto.PackageLineRequest{{ItemID: itemA, Quantity: 7}},
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var created dto.CreatePackageResponse
	decode(t, resp, &created)

	resp = env.call(t, http.MethodPost, "/api/packages/"+created.ID+"/approve", env.userToken, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode, "un usuario no aprueba")
	resp.Body.Close()

	resp = env.call(t, http.MethodPost, "/api/packages/"+created.ID+"/approve", env.adminToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var pkg dto.PackageResponse
	decode(t, resp, &pkg)
	assert.Equal(t, "approved", pkg.Status)
	require.Len(t, pkg.Items, 1)
	assert.Equal(t, "approved", pkg.Items[0].Status)

	resp = env.call(t, http.MethodGet, "/api/items/"+itemA, env.userToken, nil)
	var it dto.ItemResponse
	decode(t, resp, &it)
	assert.Equal(t, 3, it.Quantity)

	resp = env.call(t, http.MethodPost, "/api/packages/"+created.ID+"/approve", env.adminToken, nil)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	resp.Body.Close()

	resp = env.call(t, http.MethodPost, "/api/packages", env.userToken, dto.CreatePackageRequest{
		CostCenter: "CC-01", Project: "Obra norte",
		Items: []dto.PackageLineRequest{{ItemID: itemA, Quantity: 4}},
	})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	var errBody dto.ErrorResponse
	decode(t, resp, &errBody)
	assert.Equal(t, "INSUFFICIENT_STOCK", errBody.Code)
	assert.Equal(t, itemA, errBody.ItemID)

	resp = env.call(t, http.MethodGet, "/api/packages/mine", env.userToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var mine []dto.PackageResponse
	decode(t, resp, &mine)
	require.Len(t, mine, 1)
	assert.Equal(t, created.ID, mine[0].ID)
}

func TestAPI_AprobacionParcialPorSubconjunto(t *testing.T) {
	env := newAPI(t)
	itemA := env.createItem(t, "Guantes", 10)
	itemB := env.createItem(t, "Casco", 10)

	resp := env.call(t, http.MethodPost, "/api/packages", env.userToken, dto.CreatePackageRequest{
		CostCenter: "CC", Project: "P",
		Items: []dto.PackageLineRequest{{ItemID: itemA, Quantity: 2}, {ItemID: itemB, Quantity: 3}},
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var created dto.CreatePackageResponse
	decode(t, resp, &created)

	resp = env.call(t, http.MethodGet, "/api/packages/"+created.ID+"/items", env.adminToken, nil)
	var members []dto.RequisitionResponse
	decode(t, resp, &members)
	require.Len(t, members, 2)

	resp = env.call(t, http.MethodPost, "/api/packages/"+created.ID+"/items/approve", env.adminToken,
		dto.PackageItemsRequest{RequisitionIDs: []string{members[0].ID}})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var pkg dto.PackageResponse
	decode(t, resp, &pkg)
	assert.Equal(t, "pending", pkg.Status)

	resp = env.call(t, http.MethodPost, "/api/packages/"+created.ID+"/items/reject", env.adminToken,
		dto.PackageItemsRequest{RequisitionIDs: []string{members[1].ID}, Reason: "sin presupuesto"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decode(t, resp, &pkg)
	assert.Equal(t, "partially_approved", pkg.Status)

	resp = env.call(t, http.MethodPost, "/api/packages/"+created.ID+"/items/approve", env.adminToken,
		dto.PackageItemsRequest{})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()
}

func TestAPI_ErroresDeEntradaYPermisos(t *testing.T) {
	env := newAPI(t)

	resp := env.call(t, http.MethodPost, "/api/auth/login", "", dto.LoginRequest{Email: "ana@example.com", Password: "incorrecta"})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()

	resp = env.call(t, http.MethodPost, "/api/packages", env.userToken, dto.CreatePackageRequest{CostCenter: "CC", Project: "P"})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	var errBody dto.ErrorResponse
	decode(t, resp, &errBody)
	assert.Equal(t, "VALIDATION", errBody.Code)
	assert.Contains(t, errBody.Fields, "Items")

	// Cantidades fuera de int32 se rechazan antes de llegar al caso de uso.
	itemID := env.createItem(t, "Arena", 10)
	resp = env.call(t, http.MethodPost, "/api/packages", env.userToken, map[string]any{
		"cost_center": "CC", "project": "P",
		"items": []map[string]any{{"item_id": itemID, "quantity": int64(1) << 31}},
	})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	errBody = dto.ErrorResponse{}
	decode(t, resp, &errBody)
	assert.Equal(t, "VALIDATION", errBody.Code)
	assert.Equal(t, "lte", errBody.Fields["Quantity"])

	resp = env.call(t, http.MethodGet, "/api/items/no-existe", env.userToken, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()

	resp = env.call(t, http.MethodPost, "/api/items", env.userToken, dto.CreateItemRequest{Name: "X"})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp.Body.Close()

	resp = env.call(t, http.MethodGet, "/api/reports/stock", env.userToken, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp.Body.Close()

	resp = env.call(t, http.MethodGet, "/api/packages/pending", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()
}

func TestAPI_MovimientosYReportes(t *testing.T) {
	env := newAPI(t)
	itemA := env.createItem(t, "Cemento", 2)

	resp := env.call(t, http.MethodPost, "/api/inventory/withdrawals", env.adminToken,
		dto.RegisterWithdrawalRequest{ItemID: itemA, Quantity: 3, Destination: "Obra"})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	var errBody dto.ErrorResponse
	decode(t, resp, &errBody)
	assert.Equal(t, itemA, errBody.ItemID)

	resp = env.call(t, http.MethodPost, "/api/inventory/entries", env.adminToken,
		dto.RegisterEntryRequest{ItemID: itemA, Quantity: 5, Origin: "Proveedor"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	resp = env.call(t, http.MethodGet, "/api/inventory/movements?item_id="+itemA, env.adminToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var movs dto.MovementListResponse
	decode(t, resp, &movs)
	require.Len(t, movs.Items, 2, "registro inicial + entrada")
	assert.Equal(t, "entry", movs.Items[0].Kind)

	resp = env.call(t, http.MethodGet, "/api/inventory/movements?kind=otro", env.adminToken, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()

	resp = env.call(t, http.MethodGet, "/api/reports/stock", env.adminToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var rep dto.StockReport
	decode(t, resp, &rep)
	require.Len(t, rep.Lines, 1)
	assert.Equal(t, 7, rep.Lines[0].Quantity)

	resp = env.call(t, http.MethodGet, "/api/export/items.csv", env.adminToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/csv")
	resp.Body.Close()
}
