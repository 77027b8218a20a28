package routes

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/vitalfit/vitalfit-backend/api/controllers"
	billingsvc "github.com/vitalfit/vitalfit-backend/internal/billing"
	catalogsvc "github.com/vitalfit/vitalfit-backend/internal/catalog"
	checkoutsvc "github.com/vitalfit/vitalfit-backend/internal/checkout"
	"github.com/vitalfit/vitalfit-backend/internal/members"
	receiptsvc "github.com/vitalfit/vitalfit-backend/internal/receipts"
	"github.com/vitalfit/vitalfit-backend/internal/selection"
	"github.com/vitalfit/vitalfit-backend/internal/wishlist"
	pkgauth "github.com/vitalfit/vitalfit-backend/pkg/auth"
	"github.com/vitalfit/vitalfit-backend/pkg/config"
	"github.com/vitalfit/vitalfit-backend/pkg/db/models"
	"github.com/vitalfit/vitalfit-backend/pkg/enums"
	"github.com/vitalfit/vitalfit-backend/pkg/logger"
	"github.com/vitalfit/vitalfit-backend/pkg/vitalfit"
)

type stubPinger struct{}

func (stubPinger) Ping(context.Context) error { return nil }

type stubWishlistRepo struct{}

func (stubWishlistRepo) AddItem(context.Context, models.WishlistItem) error { return nil }
func (stubWishlistRepo) RemoveItem(context.Context, uuid.UUID, uuid.UUID) error {
	return nil
}
func (stubWishlistRepo) ListItems(context.Context, uuid.UUID, string, int) (wishlist.PageDTO, error) {
	return wishlist.PageDTO{}, nil
}
func (stubWishlistRepo) ListItemIDs(context.Context, uuid.UUID, string, int) (wishlist.IDsDTO, error) {
	return wishlist.IDsDTO{}, nil
}

type stubResolver struct{}

func (stubResolver) GetServiceByID(_ context.Context, serviceID uuid.UUID, _ enums.Currency) (*vitalfit.Service, error) {
	return &vitalfit.Service{ID: serviceID, PriceUSD: decimal.NewFromInt(10)}, nil
}

type stubMembersRepo struct{}

func (stubMembersRepo) FindProfile(context.Context, uuid.UUID) (models.MemberProfile, error) {
	return models.MemberProfile{}, nil
}
func (stubMembersRepo) UpsertProfile(_ context.Context, record models.MemberProfile) (models.MemberProfile, error) {
	return record, nil
}
func (stubMembersRepo) FindMedicalRecord(context.Context, uuid.UUID) (models.MedicalRecord, error) {
	return models.MedicalRecord{}, nil
}
func (stubMembersRepo) UpsertMedicalRecord(_ context.Context, record models.MedicalRecord) (models.MedicalRecord, error) {
	return record, nil
}

type stubActivityCache struct{}

func (stubActivityCache) PushRecent(context.Context, string, string, int64, time.Duration) error {
	return nil
}
func (stubActivityCache) ListRecent(context.Context, string, int64) ([]string, error) {
	return nil, nil
}
func (stubActivityCache) Set(context.Context, string, any, time.Duration) error { return nil }
func (stubActivityCache) Get(context.Context, string) (string, error)           { return "grid", nil }
func (stubActivityCache) RecentServicesKey(memberID string) string              { return "recent:" + memberID }
func (stubActivityCache) ViewModeKey(memberID string) string                    { return "mode:" + memberID }

type stubUploader struct{}

func (stubUploader) Upload(_ context.Context, key, _ string, _ io.Reader) (string, error) {
	return "https://storage.example.com/receipts/" + key, nil
}

func testConfig() *config.Config {
	return &config.Config{
		App:      config.AppConfig{Env: "test", Port: "8080"},
		JWT:      config.JWTConfig{Secret: "router-test-secret", Issuer: "vitalfit-auth"},
		Receipts: config.ReceiptsConfig{MaxSizeBytes: 1 << 20, KeyPrefix: "receipts"},
	}
}

func testRouter(t *testing.T, coreURL string) http.Handler {
	t.Helper()
	cfg := testConfig()
	logg := logger.New(logger.Options{ServiceName: "test", Output: io.Discard})

	core, err := vitalfit.NewClient(context.Background(), config.CoreAPIConfig{
		BaseURL: coreURL,
		APIKey:  "test-key",
		Timeout: 2 * time.Second,
	}, logg)
	if err != nil {
		t.Fatalf("core client: %v", err)
	}

	catalog, err := catalogsvc.NewService(catalogsvc.ServiceParams{Client: core, Logger: logg})
	if err != nil {
		t.Fatalf("catalog service: %v", err)
	}
	store, err := selection.NewStore(selection.StoreParams{TTL: time.Hour, Logger: logg})
	if err != nil {
		t.Fatalf("selection store: %v", err)
	}
	checkout, err := checkoutsvc.NewService(checkoutsvc.ServiceParams{
		Store:   store,
		Catalog: catalog,
		Billing: core,
		Logger:  logg,
	})
	if err != nil {
		t.Fatalf("checkout service: %v", err)
	}
	wishlistSvc, err := wishlist.NewService(wishlist.ServiceParams{Repo: stubWishlistRepo{}, Resolver: stubResolver{}})
	if err != nil {
		t.Fatalf("wishlist service: %v", err)
	}
	membersSvc, err := members.NewService(members.ServiceParams{Repo: stubMembersRepo{}})
	if err != nil {
		t.Fatalf("members service: %v", err)
	}
	activity, err := members.NewActivity(stubActivityCache{})
	if err != nil {
		t.Fatalf("activity: %v", err)
	}
	receipts, err := receiptsvc.NewService(receiptsvc.ServiceParams{Storage: stubUploader{}, Logger: logg})
	if err != nil {
		t.Fatalf("receipts service: %v", err)
	}
	billing, err := billingsvc.NewService(billingsvc.ServiceParams{Client: core, Logger: logg})
	if err != nil {
		t.Fatalf("billing service: %v", err)
	}

	return NewRouter(RouterParams{
		Config:   cfg,
		Logger:   logg,
		Pingers:  map[string]controllers.Pinger{"core": stubPinger{}},
		Checkout: checkout,
		Catalog:  catalog,
		Wishlist: wishlistSvc,
		Members:  membersSvc,
		Activity: activity,
		Receipts: receipts,
		Billing:  billing,
	})
}

func bearerToken(t *testing.T, memberID uuid.UUID) string {
	t.Helper()
	claims := &pkgauth.Claims{
		MemberID: memberID,
		IsMember: true,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "vitalfit-auth",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("router-test-secret"))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return "Bearer " + token
}

func TestHealthLive(t *testing.T) {
	router := testRouter(t, "http://core.invalid")

	r := httptest.NewRequest(http.MethodGet, "/health/live", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, r)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if got := w.Header().Get("X-VitalFit-Env"); got != "test" {
		t.Fatalf("unexpected env header %q", got)
	}
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	router := testRouter(t, "http://core.invalid")

	r := httptest.NewRequest(http.MethodGet, "/api/v1/catalog/branches", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, r)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
}

func TestCheckoutSessionLifecycleOverHTTP(t *testing.T) {
	core := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"data": []}`))
	}))
	defer core.Close()

	router := testRouter(t, core.URL)
	memberID := uuid.New()
	token := bearerToken(t, memberID)

	r := httptest.NewRequest(http.MethodPost, "/api/v1/checkout/sessions", strings.NewReader(`{}`))
	r.Header.Set("Authorization", token)
	r.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, r)

	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}

	var envelope struct {
		Data struct {
			SessionID uuid.UUID `json:"session_id"`
			Step      int       `json:"step"`
		} `json:"data"`
	}
	if err := json.NewDecoder(w.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.SessionID == uuid.Nil || envelope.Data.Step != 1 {
		t.Fatalf("unexpected session payload: %+v", envelope.Data)
	}

	r = httptest.NewRequest(http.MethodGet, "/api/v1/checkout/sessions/"+envelope.Data.SessionID.String()+"/", nil)
	r.Header.Set("Authorization", token)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, r)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
}
