package helpers

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"iskort_backend/internal/app"
	"iskort_backend/internal/config"
	"iskort_backend/internal/models"
	"iskort_backend/internal/services"
	"iskort_backend/internal/storage"
)

// TestServer - приложение целиком поверх httptest и in-memory БД
type TestServer struct {
	Server     *httptest.Server
	DB         *gorm.DB
	Config     *config.Config
	Dispatcher *RecordingDispatcher
	Services   *services.ServiceContainer
}

func NewTestServer(t *testing.T) *TestServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := config.Defaults()
	cfg.Server.Env = "test"
	cfg.JWT.Secret = "test-secret-key"
	cfg.Storage.BasePath = t.TempDir()

	db := NewTestDB(t)

	store, err := storage.NewLocalStorage(storage.Config{
		BasePath: cfg.Storage.BasePath,
		BaseURL:  cfg.Storage.BaseURL,
	})
	require.NoError(t, err)

	dispatcher := &RecordingDispatcher{}
	deps := app.Deps{Config: cfg, DB: db, Dispatcher: dispatcher, Storage: store}
	container := app.BuildServices(deps)

	server := httptest.NewServer(app.SetupRouter(deps, container))
	t.Cleanup(server.Close)

	return &TestServer{
		Server:     server,
		DB:         db,
		Config:     cfg,
		Dispatcher: dispatcher,
		Services:   container,
	}
}

// SendRequest отправляет JSON запрос и возвращает ответ с телом
func (ts *TestServer) SendRequest(t *testing.T, method, path, token string, body interface{}) (*http.Response, string) {
	t.Helper()

	var reqBody io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		require.NoError(t, err, "Ошибка кодирования JSON для запроса")
		reqBody = bytes.NewBuffer(jsonBody)
	}

	req, err := http.NewRequest(method, ts.Server.URL+path, reqBody)
	require.NoError(t, err)

	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	return ts.Do(t, req)
}

// Do выполняет готовый запрос (multipart и т.п.)
func (ts *TestServer) Do(t *testing.T, req *http.Request) (*http.Response, string) {
	t.Helper()

	res, err := ts.Server.Client().Do(req)
	require.NoError(t, err, "Ошибка отправки HTTP-запроса")
	defer res.Body.Close()

	resBody, err := io.ReadAll(res.Body)
	require.NoError(t, err, "Ошибка чтения тела ответа")
	return res, string(resBody)
}

// Login входит в роли role и возвращает токен
func (ts *TestServer) Login(t *testing.T, role models.Role, email, password string) string {
	t.Helper()

	res, body := ts.SendRequest(t, http.MethodPost, "/api/"+string(role)+"/login", "", map[string]string{
		"email":    email,
		"password": password,
	})
	require.Equal(t, http.StatusOK, res.StatusCode, "Логин должен быть успешным. Ответ: "+body)

	var resp struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal([]byte(body), &resp))
	require.NotEmpty(t, resp.Token)
	return resp.Token
}

// CreateAndLogin создаёт подтверждённый аккаунт и сразу входит
func (ts *TestServer) CreateAndLogin(t *testing.T, role models.Role, email string) (uint, string) {
	t.Helper()
	id := CreateAccount(t, ts.DB, role, email)
	return id, ts.Login(t, role, email, DefaultPassword)
}
