package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"campuscoin-ledger/internal/adapter/http/dto"
	"campuscoin-ledger/internal/adapter/http/middleware"
	"campuscoin-ledger/internal/core/domain"
	"campuscoin-ledger/internal/core/ports"
	"campuscoin-ledger/internal/core/ports/mocks"
	"campuscoin-ledger/pkg/apperror"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func init() {
	gin.SetMode(gin.TestMode)
}

const (
	adminHex    = "0xaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"
	studentHex  = "0x1111111111111111111111111111111111111111"
	student2Hex = "0x2222222222222222222222222222222222222222"
	providerHex = "0x3333333333333333333333333333333333333333"
)

func jsonRequest(t *testing.T, payload interface{}) *http.Request {
	t.Helper()
	body, err := json.Marshal(payload)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, "/", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func asCaller(c *gin.Context, addr string) {
	c.Set(middleware.CtxCallerAddress, domain.Address(addr))
}

func responseData(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data, ok := resp["data"].(map[string]interface{})
	require.True(t, ok, "response has no data object: %s", w.Body.String())
	return data
}

func errorCode(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	code, _ := resp["error_code"].(string)
	return code
}

// --- Auth Handler Tests ---

func TestIssueToken_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockAuth := mocks.NewMockAuthService(ctrl)
	h := NewAuthHandler(mockAuth)

	expiry := time.Now().Add(24 * time.Hour)
	mockAuth.EXPECT().IssueToken(gomock.Any(), studentHex, "api-secret").Return("jwt-token-123", expiry, nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = jsonRequest(t, dto.TokenRequest{Address: studentHex, APISecret: "api-secret"})

	h.IssueToken(c)

	assert.Equal(t, http.StatusOK, w.Code)
	data := responseData(t, w)
	assert.Equal(t, "jwt-token-123", data["token"])
	assert.Equal(t, float64(expiry.Unix()), data["expiry"])
}

func TestIssueToken_ValidationError(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	h := NewAuthHandler(mocks.NewMockAuthService(ctrl))

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/", bytes.NewReader([]byte("{}")))
	c.Request.Header.Set("Content-Type", "application/json")

	h.IssueToken(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestIssueToken_InvalidCredentials(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockAuth := mocks.NewMockAuthService(ctrl)
	h := NewAuthHandler(mockAuth)

	mockAuth.EXPECT().IssueToken(gomock.Any(), gomock.Any(), gomock.Any()).
		Return("", time.Time{}, apperror.ErrInvalidCredentials())

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = jsonRequest(t, dto.TokenRequest{Address: studentHex, APISecret: "wrong"})

	h.IssueToken(c)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "AUTH_001", errorCode(t, w))
}

// --- Ledger Handler Tests ---

func TestMint_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockLedger := mocks.NewMockLedgerService(ctrl)
	h := NewLedgerHandler(mockLedger)

	mockLedger.EXPECT().Mint(gomock.Any(), ports.MintRequest{
		Caller:  domain.Address(adminHex),
		Student: domain.Address(studentHex),
		Amount:  500,
	}).Return(nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = jsonRequest(t, dto.MintRequest{Student: studentHex, Amount: 500})
	asCaller(c, adminHex)

	h.Mint(c)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestMint_MissingCaller(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	h := NewLedgerHandler(mocks.NewMockLedgerService(ctrl))

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = jsonRequest(t, dto.MintRequest{Student: studentHex, Amount: 500})

	h.Mint(c)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestMint_InvalidStudentAddress(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	h := NewLedgerHandler(mocks.NewMockLedgerService(ctrl))

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = jsonRequest(t, dto.MintRequest{Student: "not-an-address", Amount: 500})
	asCaller(c, adminHex)

	h.Mint(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "LED_009", errorCode(t, w))
}

func TestMint_UppercaseAddressNormalized(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockLedger := mocks.NewMockLedgerService(ctrl)
	h := NewLedgerHandler(mockLedger)

	mockLedger.EXPECT().Mint(gomock.Any(), ports.MintRequest{
		Caller:  domain.Address(adminHex),
		Student: domain.Address("0xabcdef1234567890abcdef1234567890abcdef12"),
		Amount:  100,
	}).Return(nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = jsonRequest(t, dto.MintRequest{
		Student: "0xABCDEF1234567890abcdef1234567890ABCDEF12",
		Amount:  100,
	})
	asCaller(c, adminHex)

	h.Mint(c)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestTransfer_RecipientNotStudent(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockLedger := mocks.NewMockLedgerService(ctrl)
	h := NewLedgerHandler(mockLedger)

	mockLedger.EXPECT().Transfer(gomock.Any(), gomock.Any()).
		Return(apperror.ErrUnregisteredStudent())

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = jsonRequest(t, dto.TransferRequest{To: providerHex, Amount: 100})
	asCaller(c, studentHex)

	h.Transfer(c)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, "LED_003", errorCode(t, w))
}

func TestApprove_ZeroAmountRevokes(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockLedger := mocks.NewMockLedgerService(ctrl)
	h := NewLedgerHandler(mockLedger)

	mockLedger.EXPECT().Approve(gomock.Any(), ports.ApproveRequest{
		Caller:  domain.Address(studentHex),
		Spender: domain.Address(student2Hex),
		Amount:  0,
	}).Return(nil)

	zero := int64(0)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = jsonRequest(t, dto.ApproveRequest{Spender: student2Hex, Amount: &zero})
	asCaller(c, studentHex)

	h.Approve(c)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestApprove_MissingAmount(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	h := NewLedgerHandler(mocks.NewMockLedgerService(ctrl))

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = jsonRequest(t, map[string]interface{}{"spender": student2Hex})
	asCaller(c, studentHex)

	h.Approve(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestTransferFrom_InsufficientAllowance(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockLedger := mocks.NewMockLedgerService(ctrl)
	h := NewLedgerHandler(mockLedger)

	mockLedger.EXPECT().TransferFrom(gomock.Any(), ports.TransferFromRequest{
		Caller: domain.Address(student2Hex),
		From:   domain.Address(studentHex),
		To:     domain.Address(student2Hex),
		Amount: 900,
	}).Return(apperror.ErrInsufficientAllowance())

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = jsonRequest(t, dto.TransferFromRequest{From: studentHex, To: student2Hex, Amount: 900})
	asCaller(c, student2Hex)

	h.TransferFrom(c)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, "LED_007", errorCode(t, w))
}

func TestPayService_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockLedger := mocks.NewMockLedgerService(ctrl)
	h := NewLedgerHandler(mockLedger)

	mockLedger.EXPECT().PayService(gomock.Any(), ports.PayServiceRequest{
		Caller:   domain.Address(studentHex),
		Provider: domain.Address(providerHex),
		Amount:   250,
	}).Return(&ports.PaymentReceipt{
		Student:       domain.Address(studentHex),
		Provider:      domain.Address(providerHex),
		Amount:        250,
		Fee:           2,
		ProviderShare: 248,
	}, nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = jsonRequest(t, dto.PayServiceRequest{Provider: providerHex, Amount: 250})
	asCaller(c, studentHex)

	h.PayService(c)

	assert.Equal(t, http.StatusOK, w.Code)
	data := responseData(t, w)
	assert.Equal(t, float64(250), data["amount"])
	assert.Equal(t, float64(2), data["fee"])
	assert.Equal(t, float64(248), data["provider_share"])
}

func TestPayService_InactiveProvider(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockLedger := mocks.NewMockLedgerService(ctrl)
	h := NewLedgerHandler(mockLedger)

	mockLedger.EXPECT().PayService(gomock.Any(), gomock.Any()).
		Return(nil, apperror.ErrInactiveProvider())

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = jsonRequest(t, dto.PayServiceRequest{Provider: providerHex, Amount: 100})
	asCaller(c, studentHex)

	h.PayService(c)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, "LED_004", errorCode(t, w))
}

// --- Registry Handler Tests ---

func TestAddStudent_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRegistry := mocks.NewMockRegistryService(ctrl)
	h := NewRegistryHandler(mockRegistry)

	mockRegistry.EXPECT().AddStudent(gomock.Any(), domain.Address(adminHex), domain.Address(studentHex)).Return(nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = jsonRequest(t, dto.AddStudentRequest{Student: studentHex})
	asCaller(c, adminHex)

	h.AddStudent(c)

	assert.Equal(t, http.StatusCreated, w.Code)
	data := responseData(t, w)
	assert.Equal(t, studentHex, data["address"])
	assert.Equal(t, true, data["is_student"])
}

func TestAddStudent_NotAdmin(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRegistry := mocks.NewMockRegistryService(ctrl)
	h := NewRegistryHandler(mockRegistry)

	mockRegistry.EXPECT().AddStudent(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(apperror.ErrUnauthorized())

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = jsonRequest(t, dto.AddStudentRequest{Student: studentHex})
	asCaller(c, student2Hex)

	h.AddStudent(c)

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "LED_001", errorCode(t, w))
}

func TestRemoveStudent_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRegistry := mocks.NewMockRegistryService(ctrl)
	h := NewRegistryHandler(mockRegistry)

	mockRegistry.EXPECT().RemoveStudent(gomock.Any(), domain.Address(adminHex), domain.Address(studentHex)).Return(nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodDelete, "/", nil)
	c.Params = gin.Params{{Key: "address", Value: studentHex}}
	asCaller(c, adminHex)

	h.RemoveStudent(c)

	assert.Equal(t, http.StatusOK, w.Code)
	data := responseData(t, w)
	assert.Equal(t, false, data["is_student"])
}

func TestGetStudent_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRegistry := mocks.NewMockRegistryService(ctrl)
	h := NewRegistryHandler(mockRegistry)

	mockRegistry.EXPECT().IsStudent(gomock.Any(), domain.Address(studentHex)).Return(true, nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	c.Params = gin.Params{{Key: "address", Value: studentHex}}

	h.GetStudent(c)

	assert.Equal(t, http.StatusOK, w.Code)
	data := responseData(t, w)
	assert.Equal(t, true, data["is_student"])
}

func TestAddProvider_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRegistry := mocks.NewMockRegistryService(ctrl)
	h := NewRegistryHandler(mockRegistry)

	mockRegistry.EXPECT().AddServiceProvider(gomock.Any(), ports.AddProviderRequest{
		Caller:   domain.Address(adminHex),
		Provider: domain.Address(providerHex),
		Name:     "Campus Bookstore",
		Category: "retail",
	}).Return(nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = jsonRequest(t, dto.AddProviderRequest{
		Provider: providerHex,
		Name:     "Campus Bookstore",
		Category: "retail",
	})
	asCaller(c, adminHex)

	h.AddProvider(c)

	assert.Equal(t, http.StatusCreated, w.Code)
	data := responseData(t, w)
	assert.Equal(t, "Campus Bookstore", data["name"])
	assert.Equal(t, true, data["active"])
}

func TestUpdateProvider_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRegistry := mocks.NewMockRegistryService(ctrl)
	h := NewRegistryHandler(mockRegistry)

	mockRegistry.EXPECT().UpdateServiceProvider(gomock.Any(), ports.UpdateProviderRequest{
		Caller:   domain.Address(adminHex),
		Provider: domain.Address(providerHex),
		Name:     "Campus Cafe",
		Category: "food",
		Active:   true,
	}).Return(nil)

	active := true
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = jsonRequest(t, dto.UpdateProviderRequest{
		Name:     "Campus Cafe",
		Category: "food",
		Active:   &active,
	})
	c.Params = gin.Params{{Key: "address", Value: providerHex}}
	asCaller(c, adminHex)

	h.UpdateProvider(c)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestGetProvider_Unknown(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRegistry := mocks.NewMockRegistryService(ctrl)
	h := NewRegistryHandler(mockRegistry)

	mockRegistry.EXPECT().ServiceProviderOf(gomock.Any(), domain.Address(providerHex)).
		Return(nil, apperror.ErrUnknownProvider())

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	c.Params = gin.Params{{Key: "address", Value: providerHex}}

	h.GetProvider(c)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "LED_005", errorCode(t, w))
}

// --- Query Handler Tests ---

func TestGetTokenInfo_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockQuery := mocks.NewMockQueryService(ctrl)
	h := NewQueryHandler(mockQuery)

	mockQuery.EXPECT().TokenInfo(gomock.Any()).Return(&ports.TokenInfo{
		Name:        "CampusCoin",
		Symbol:      "CC",
		TotalSupply: 1_000_000,
		Admin:       domain.Address(adminHex),
		University:  domain.Address("0xffffffffffffffffffffffffffffffffffffffff"),
	}, nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

	h.GetTokenInfo(c)

	assert.Equal(t, http.StatusOK, w.Code)
	data := responseData(t, w)
	assert.Equal(t, "CampusCoin", data["name"])
	assert.Equal(t, "CC", data["symbol"])
	assert.Equal(t, float64(1_000_000), data["total_supply"])
}

func TestGetAccount_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockQuery := mocks.NewMockQueryService(ctrl)
	h := NewQueryHandler(mockQuery)

	mockQuery.EXPECT().BalanceOf(gomock.Any(), domain.Address(studentHex)).Return(int64(750), nil)
	mockQuery.EXPECT().TotalSpentOf(gomock.Any(), domain.Address(studentHex)).Return(int64(250), nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	c.Params = gin.Params{{Key: "address", Value: studentHex}}

	h.GetAccount(c)

	assert.Equal(t, http.StatusOK, w.Code)
	data := responseData(t, w)
	assert.Equal(t, float64(750), data["balance"])
	assert.Equal(t, float64(250), data["total_spent"])
}

func TestGetAccount_InvalidAddress(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	h := NewQueryHandler(mocks.NewMockQueryService(ctrl))

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	c.Params = gin.Params{{Key: "address", Value: "garbage"}}

	h.GetAccount(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "LED_009", errorCode(t, w))
}

func TestGetAllowance_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockQuery := mocks.NewMockQueryService(ctrl)
	h := NewQueryHandler(mockQuery)

	mockQuery.EXPECT().AllowanceOf(gomock.Any(), domain.Address(studentHex), domain.Address(student2Hex)).
		Return(int64(300), nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	c.Params = gin.Params{
		{Key: "address", Value: studentHex},
		{Key: "spender", Value: student2Hex},
	}

	h.GetAllowance(c)

	assert.Equal(t, http.StatusOK, w.Code)
	data := responseData(t, w)
	assert.Equal(t, float64(300), data["allowance"])
}

func TestGetAudit_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockQuery := mocks.NewMockQueryService(ctrl)
	h := NewQueryHandler(mockQuery)

	mockQuery.EXPECT().Audit(gomock.Any()).Return(&ports.AuditReport{
		TotalSupply: 1_000_000,
		SumBalances: 1_000_000,
		Balanced:    true,
	}, nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

	h.GetAudit(c)

	assert.Equal(t, http.StatusOK, w.Code)
	data := responseData(t, w)
	assert.Equal(t, true, data["balanced"])
}

func TestListEvents_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockQuery := mocks.NewMockQueryService(ctrl)
	h := NewQueryHandler(mockQuery)

	evt, err := domain.NewEvent(domain.EventTokensMinted, domain.MintAttrs{
		Student: domain.Address(studentHex),
		Amount:  500,
	})
	require.NoError(t, err)

	mockQuery.EXPECT().ListEvents(gomock.Any(), 5, 10).Return([]domain.Event{*evt}, nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/?limit=5&offset=10", nil)

	h.ListEvents(c)

	assert.Equal(t, http.StatusOK, w.Code)
	data := responseData(t, w)
	items := data["items"].([]interface{})
	require.Len(t, items, 1)
	first := items[0].(map[string]interface{})
	assert.Equal(t, string(domain.EventTokensMinted), first["type"])
	attrs := first["attributes"].(map[string]interface{})
	assert.Equal(t, float64(500), attrs["amount"])
}

func TestListEvents_ServiceError(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockQuery := mocks.NewMockQueryService(ctrl)
	h := NewQueryHandler(mockQuery)

	mockQuery.EXPECT().ListEvents(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(nil, errors.New("db down"))

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

	h.ListEvents(c)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

// --- Health Check Tests ---

type stubChecker struct {
	name string
	err  error
}

func (s stubChecker) Name() string                 { return s.name }
func (s stubChecker) Ping(_ context.Context) error { return s.err }

func TestHealthCheck_AllHealthy(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/health", nil)

	HealthCheck(stubChecker{name: "postgres"}, stubChecker{name: "redis"})(c)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "healthy", resp["status"])
}

func TestHealthCheck_Degraded(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/health", nil)

	HealthCheck(
		stubChecker{name: "postgres"},
		stubChecker{name: "redis", err: errors.New("connection refused")},
	)(c)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "degraded", resp["status"])
	deps := resp["dependencies"].(map[string]interface{})
	redisDep := deps["redis"].(map[string]interface{})
	assert.Equal(t, "unhealthy", redisDep["status"])
}
