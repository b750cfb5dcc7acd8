package routes

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/pkock/brewhub-backend/internal/auth"
	"github.com/pkock/brewhub-backend/internal/community"
	"github.com/pkock/brewhub-backend/internal/inventory"
	"github.com/pkock/brewhub-backend/internal/orders"
	"github.com/pkock/brewhub-backend/internal/ratings"
	"github.com/pkock/brewhub-backend/internal/users"
	pkgauth "github.com/pkock/brewhub-backend/pkg/auth"
	"github.com/pkock/brewhub-backend/pkg/auth/session"
	"github.com/pkock/brewhub-backend/pkg/config"
	"github.com/pkock/brewhub-backend/pkg/enums"
	"github.com/pkock/brewhub-backend/pkg/logger"
	"github.com/pkock/brewhub-backend/pkg/pagination"
)

type stubPinger struct{}

func (stubPinger) Ping(context.Context) error { return nil }

type stubAuthService struct{}

func (stubAuthService) Login(ctx context.Context, req auth.LoginRequest) (*auth.LoginResponse, error) {
	return nil, fmt.Errorf("not implemented")
}

type stubRegisterService struct{}

func (stubRegisterService) Register(ctx context.Context, req auth.RegisterRequest) (*users.UserDTO, error) {
	return &users.UserDTO{}, nil
}

type stubSessionManager struct{}

func (stubSessionManager) HasSession(ctx context.Context, accessID string) (bool, error) {
	return true, nil
}

func (stubSessionManager) Rotate(ctx context.Context, oldAccessID, provided string) (string, string, error) {
	return "", "", nil
}

func (stubSessionManager) Revoke(ctx context.Context, accessID string) error { return nil }

type stubInventoryService struct{}

func (stubInventoryService) Create(ctx context.Context, retailerID uuid.UUID, input inventory.CreateIngredientInput) (*inventory.IngredientDTO, error) {
	return &inventory.IngredientDTO{}, nil
}

func (stubInventoryService) Update(ctx context.Context, retailerID, ingredientID uuid.UUID, input inventory.UpdateIngredientInput) (*inventory.IngredientDTO, error) {
	return &inventory.IngredientDTO{}, nil
}

func (stubInventoryService) Get(ctx context.Context, ingredientID uuid.UUID) (*inventory.IngredientDTO, error) {
	return &inventory.IngredientDTO{}, nil
}

func (stubInventoryService) ListForRetailer(ctx context.Context, retailerID uuid.UUID, params pagination.Params, filters inventory.IngredientFilters) (*inventory.IngredientList, error) {
	return &inventory.IngredientList{}, nil
}

func (stubInventoryService) ListCatalog(ctx context.Context, params pagination.Params, filters inventory.IngredientFilters) (*inventory.IngredientList, error) {
	return &inventory.IngredientList{}, nil
}

func (stubInventoryService) Deactivate(ctx context.Context, retailerID, ingredientID uuid.UUID) error {
	return nil
}

type stubOrdersService struct{}

func (stubOrdersService) Place(ctx context.Context, customerID uuid.UUID, input orders.PlaceOrderInput) (*orders.OrderDTO, error) {
	return &orders.OrderDTO{}, nil
}

func (stubOrdersService) Cancel(ctx context.Context, customerID, orderID uuid.UUID) (*orders.OrderDTO, error) {
	return &orders.OrderDTO{}, nil
}

func (stubOrdersService) UpdateStatus(ctx context.Context, retailerID, orderID uuid.UUID, status enums.OrderStatus) (*orders.OrderDTO, error) {
	return &orders.OrderDTO{}, nil
}

func (stubOrdersService) Get(ctx context.Context, actorID uuid.UUID, orderID uuid.UUID) (*orders.OrderDTO, error) {
	return &orders.OrderDTO{}, nil
}

func (stubOrdersService) ListForCustomer(ctx context.Context, customerID uuid.UUID, params pagination.Params, filters orders.OrderFilters) (*orders.OrderList, error) {
	return &orders.OrderList{}, nil
}

func (stubOrdersService) ListForRetailer(ctx context.Context, retailerID uuid.UUID, params pagination.Params, filters orders.OrderFilters) (*orders.OrderList, error) {
	return &orders.OrderList{}, nil
}

func (stubOrdersService) RetailerStats(ctx context.Context, retailerID uuid.UUID) (*orders.RetailerStats, error) {
	return &orders.RetailerStats{}, nil
}

type stubCommunityService struct{}

func (stubCommunityService) CreateQuestion(ctx context.Context, authorID uuid.UUID, input community.CreateQuestionInput) (*community.QuestionDTO, error) {
	return &community.QuestionDTO{}, nil
}

func (stubCommunityService) GetQuestion(ctx context.Context, questionID uuid.UUID) (*community.QuestionDetail, error) {
	return &community.QuestionDetail{}, nil
}

func (stubCommunityService) ListQuestions(ctx context.Context, params pagination.Params, filters community.QuestionFilters) (*community.QuestionList, error) {
	return &community.QuestionList{}, nil
}

func (stubCommunityService) CreateAnswer(ctx context.Context, authorID, questionID uuid.UUID, input community.CreateAnswerInput) (*community.AnswerDTO, error) {
	return &community.AnswerDTO{}, nil
}

func (stubCommunityService) VerifyAnswer(ctx context.Context, actorID, answerID uuid.UUID) (*community.AnswerDTO, error) {
	return &community.AnswerDTO{}, nil
}

func (stubCommunityService) ToggleVote(ctx context.Context, userID uuid.UUID, input community.VoteInput) (*community.VoteResult, error) {
	return &community.VoteResult{}, nil
}

func (stubCommunityService) FileReport(ctx context.Context, reporterID uuid.UUID, input community.FileReportInput) (*community.ReportDTO, error) {
	return &community.ReportDTO{}, nil
}

func (stubCommunityService) ListPendingReports(ctx context.Context) ([]community.ReportDTO, error) {
	return []community.ReportDTO{}, nil
}

func (stubCommunityService) ResolveReport(ctx context.Context, reportID uuid.UUID, decision enums.ReportStatus) (*community.ReportDTO, error) {
	return &community.ReportDTO{}, nil
}

type stubRatingsService struct{}

func (stubRatingsService) Create(ctx context.Context, customerID, orderID uuid.UUID, input ratings.CreateRatingInput) (*ratings.RatingDTO, error) {
	return &ratings.RatingDTO{}, nil
}

func (stubRatingsService) GetForOrder(ctx context.Context, orderID uuid.UUID) (*ratings.RatingDTO, error) {
	return &ratings.RatingDTO{}, nil
}

func (stubRatingsService) ListForRetailer(ctx context.Context, retailerID uuid.UUID, params pagination.Params) (*ratings.RatingList, error) {
	return &ratings.RatingList{}, nil
}

func (stubRatingsService) RetailerSummary(ctx context.Context, retailerID uuid.UUID) (*ratings.RetailerSummary, error) {
	return &ratings.RetailerSummary{}, nil
}

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{Env: "test", Port: "0"},
		JWT: config.JWTConfig{
			Secret:                 "secret",
			Issuer:                 "issuer",
			ExpirationMinutes:      60,
			RefreshTokenTTLMinutes: 120,
		},
	}
}

func newTestRouter(cfg *config.Config) http.Handler {
	logg := logger.New(logger.Options{ServiceName: "test-routing", Level: logger.ParseLevel("debug"), Output: io.Discard})
	return NewRouter(Deps{
		Config:           cfg,
		Logger:           logg,
		DB:               stubPinger{},
		SessionManager:   stubSessionManager{},
		AuthService:      stubAuthService{},
		RegisterService:  stubRegisterService{},
		InventoryService: stubInventoryService{},
		OrdersService:    stubOrdersService{},
		CommunityService: stubCommunityService{},
		RatingsService:   stubRatingsService{},
	})
}

func buildToken(t *testing.T, cfg *config.Config, role enums.UserRole) string {
	t.Helper()
	token, err := pkgauth.MintAccessToken(cfg.JWT, time.Now(), pkgauth.AccessTokenPayload{
		UserID: uuid.New(),
		Role:   role,
		JTI:    session.NewAccessID(),
	})
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}
	return token
}

func TestHealthLiveIsPublic(t *testing.T) {
	router := newTestRouter(testConfig())
	req := httptest.NewRequest(http.MethodGet, "/health/live", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for liveness got %d", resp.Code)
	}
}

func TestAuthenticatedGroupRejectsMissingJWT(t *testing.T) {
	router := newTestRouter(testConfig())
	req := httptest.NewRequest(http.MethodGet, "/api/v1/ingredients", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token got %d", resp.Code)
	}
}

func TestAuthenticatedGroupSucceedsWithJWT(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg)
	req := httptest.NewRequest(http.MethodGet, "/api/v1/ingredients", nil)
	req.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.UserRoleCustomer))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for catalog got %d", resp.Code)
	}
}

func TestCustomerGroupRequiresCustomerRole(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg)

	asRetailer := httptest.NewRequest(http.MethodGet, "/api/v1/orders", nil)
	asRetailer.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.UserRoleRetailer))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, asRetailer)
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for retailer on customer orders got %d", resp.Code)
	}

	asCustomer := httptest.NewRequest(http.MethodGet, "/api/v1/orders", nil)
	asCustomer.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.UserRoleCustomer))
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, asCustomer)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for customer orders got %d", resp.Code)
	}
}

func TestRetailerGroupRequiresRetailerRole(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg)

	asCustomer := httptest.NewRequest(http.MethodGet, "/api/v1/retailer/stats", nil)
	asCustomer.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.UserRoleCustomer))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, asCustomer)
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for customer on retailer stats got %d", resp.Code)
	}

	asRetailer := httptest.NewRequest(http.MethodGet, "/api/v1/retailer/stats", nil)
	asRetailer.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.UserRoleRetailer))
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, asRetailer)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for retailer stats got %d", resp.Code)
	}
}

func TestModerationQueueRequiresModeratorRole(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg)

	asCustomer := httptest.NewRequest(http.MethodGet, "/api/v1/community/reports/pending", nil)
	asCustomer.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.UserRoleCustomer))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, asCustomer)
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for customer on moderation queue got %d", resp.Code)
	}

	asModerator := httptest.NewRequest(http.MethodGet, "/api/v1/community/reports/pending", nil)
	asModerator.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.UserRoleModerator))
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, asModerator)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for moderator on moderation queue got %d", resp.Code)
	}
}
