package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"devlink/connect-api/internal/model"
	"devlink/connect-api/pkg/middleware"
	"devlink/connect-api/pkg/security"

	"github.com/gin-gonic/gin"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// stubAvatarStore stands in for S3 and records the last uploaded key
type stubAvatarStore struct {
	lastKey string
	fail    bool
}

func (s *stubAvatarStore) Upload(_ context.Context, key, _ string, body io.Reader, _ int64) (string, error) {
	if s.fail {
		return "", io.ErrUnexpectedEOF
	}

	io.Copy(io.Discard, body)
	s.lastKey = key
	return "https://media.test/" + key, nil
}

func newTestAPI(t *testing.T) (*API, *stubAvatarStore) {
	t.Helper()

	gin.SetMode(gin.TestMode)

	viper.Set("jwt.access_secret", "test-access-secret")
	viper.Set("jwt.refresh_secret", "test-refresh-secret")
	viper.Set("jwt.access_expiry", "15m")
	viper.Set("jwt.refresh_expiry", "720h")
	viper.Set("cookies.same_site", "lax")
	viper.Set("host.domain", "localhost")
	viper.Set("host.ssl.enabled", false)
	viper.Set("upload.max_avatar_size", int64(5<<20))

	db, err := gorm.Open(sqlite.Open(":memory:"))
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(model.User{}, model.ConnectionRequest{}))

	avatars := &stubAvatarStore{}

	a := &API{
		DB:      db,
		Argon:   security.NewArgon(),
		Tokens:  security.NewTokenIssuer(),
		Avatars: avatars,
	}

	router := gin.New()
	router.Use(gin.Recovery(), middleware.NewRequestIDMiddleware())
	a.Router = router
	a.registerRoutes()

	return a, avatars
}

func registerForm(t *testing.T, fields map[string]string, withAvatar bool) (*bytes.Buffer, string) {
	t.Helper()

	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)

	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}

	if withAvatar {
		fw, err := w.CreateFormFile("avatar", "avatar.png")
		require.NoError(t, err)
		fw.Write([]byte("not-really-a-png"))
	}

	require.NoError(t, w.Close())
	return body, w.FormDataContentType()
}

func defaultRegisterFields(email string) map[string]string {
	return map[string]string{
		"firstName": "Ada",
		"lastName":  "Lovelace",
		"email":     email,
		"password":  "Sup3rSecret",
		"age":       "28",
		"gender":    "female",
		"about":     "first programmer",
		"skills":    "go, math",
	}
}

func doRegister(t *testing.T, a *API, email string) *httptest.ResponseRecorder {
	t.Helper()

	body, contentType := registerForm(t, defaultRegisterFields(email), true)

	req := httptest.NewRequest(http.MethodPost, "/api/users/register", body)
	req.Header.Set("Content-Type", contentType)

	rec := httptest.NewRecorder()
	a.Router.ServeHTTP(rec, req)
	return rec
}

func doLogin(t *testing.T, a *API, email, password string) *httptest.ResponseRecorder {
	t.Helper()

	body, err := json.Marshal(gin.H{"email": email, "password": password})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/users/login", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	rec := httptest.NewRecorder()
	a.Router.ServeHTTP(rec, req)
	return rec
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()

	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func cookieValue(rec *httptest.ResponseRecorder, name string) string {
	for _, ck := range rec.Result().Cookies() {
		if ck.Name == name {
			return ck.Value
		}
	}
	return ""
}

func TestRegisterStripsCredentials(t *testing.T) {
	a, _ := newTestAPI(t)

	rec := doRegister(t, a, "ada@example.com")
	require.Equal(t, http.StatusCreated, rec.Code)

	env := decodeEnvelope(t, rec)
	data := env["data"].(map[string]any)

	require.NotContains(t, data, "password")
	require.NotContains(t, data, "passwordHash")
	require.NotContains(t, data, "refreshToken")
	require.Equal(t, "ada@example.com", data["email"])
	require.Equal(t, "ada", data["firstName"])

	var stored model.User
	require.NoError(t, a.DB.Where("email = ?", "ada@example.com").First(&stored).Error)
	require.NotEqual(t, "Sup3rSecret", stored.PasswordHash)
	require.NotEmpty(t, stored.AvatarURL)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	a, _ := newTestAPI(t)

	require.Equal(t, http.StatusCreated, doRegister(t, a, "dup@example.com").Code)
	require.Equal(t, http.StatusConflict, doRegister(t, a, "dup@example.com").Code)
}

func TestRegisterMissingAvatar(t *testing.T) {
	a, _ := newTestAPI(t)

	body, contentType := registerForm(t, defaultRegisterFields("noavatar@example.com"), false)

	req := httptest.NewRequest(http.MethodPost, "/api/users/register", body)
	req.Header.Set("Content-Type", contentType)

	rec := httptest.NewRecorder()
	a.Router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRegisterFailedUpload(t *testing.T) {
	a, avatars := newTestAPI(t)
	avatars.fail = true

	rec := doRegister(t, a, "failed@example.com")
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var count int64
	a.DB.Model(model.User{}).Count(&count)
	require.Zero(t, count)
}

func TestRegisterOversizedBodyRejectedBeforeHandler(t *testing.T) {
	a, _ := newTestAPI(t)

	body, contentType := registerForm(t, defaultRegisterFields("oversized@example.com"), true)

	req := httptest.NewRequest(http.MethodPost, "/api/users/register", body)
	req.Header.Set("Content-Type", contentType)
	req.ContentLength = 100 << 20

	rec := httptest.NewRecorder()
	a.Router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)

	// The limiter aborts the chain, so exactly one JSON body comes
	// back and no user was created
	env := decodeEnvelope(t, rec)
	require.NotContains(t, env, "data")

	var count int64
	a.DB.Model(model.User{}).Count(&count)
	require.Zero(t, count)
}

func TestRegisterMissingLastName(t *testing.T) {
	a, _ := newTestAPI(t)

	fields := defaultRegisterFields("noname@example.com")
	delete(fields, "lastName")

	body, contentType := registerForm(t, fields, true)

	req := httptest.NewRequest(http.MethodPost, "/api/users/register", body)
	req.Header.Set("Content-Type", contentType)

	rec := httptest.NewRecorder()
	a.Router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)

	var count int64
	a.DB.Model(model.User{}).Count(&count)
	require.Zero(t, count)
}

func TestRegisterWeakPassword(t *testing.T) {
	a, _ := newTestAPI(t)

	fields := defaultRegisterFields("weak@example.com")
	fields["password"] = "alllowercase"

	body, contentType := registerForm(t, fields, true)

	req := httptest.NewRequest(http.MethodPost, "/api/users/register", body)
	req.Header.Set("Content-Type", contentType)

	rec := httptest.NewRecorder()
	a.Router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestLoginWrongPassword(t *testing.T) {
	a, _ := newTestAPI(t)

	doRegister(t, a, "ada@example.com")

	require.Equal(t, http.StatusUnauthorized, doLogin(t, a, "ada@example.com", "WrongPass1").Code)
	require.Equal(t, http.StatusNotFound, doLogin(t, a, "nobody@example.com", "Sup3rSecret").Code)
}

func TestLoginSetsCookiesAndTokens(t *testing.T) {
	a, _ := newTestAPI(t)

	doRegister(t, a, "ada@example.com")

	rec := doLogin(t, a, "ada@example.com", "Sup3rSecret")
	require.Equal(t, http.StatusOK, rec.Code)

	require.NotEmpty(t, cookieValue(rec, "accessToken"))
	require.NotEmpty(t, cookieValue(rec, "refreshToken"))

	env := decodeEnvelope(t, rec)
	data := env["data"].(map[string]any)

	require.NotEmpty(t, data["accessToken"])
	require.NotEmpty(t, data["refreshToken"])

	user := data["user"].(map[string]any)
	require.NotContains(t, user, "passwordHash")
	require.NotContains(t, user, "refreshToken")
}

func TestRefreshTokenRotation(t *testing.T) {
	a, _ := newTestAPI(t)

	doRegister(t, a, "ada@example.com")
	login := doLogin(t, a, "ada@example.com", "Sup3rSecret")
	firstRefresh := cookieValue(login, "refreshToken")

	refresh := func(token string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/api/users/refresh-token", nil)
		req.AddCookie(&http.Cookie{Name: "refreshToken", Value: token})

		rec := httptest.NewRecorder()
		a.Router.ServeHTTP(rec, req)
		return rec
	}

	// First use of the freshly issued token succeeds
	rec := refresh(firstRefresh)
	require.Equal(t, http.StatusOK, rec.Code)

	secondRefresh := cookieValue(rec, "refreshToken")
	require.NotEmpty(t, secondRefresh)
	require.NotEqual(t, firstRefresh, secondRefresh)

	// The superseded token is dead
	require.Equal(t, http.StatusUnauthorized, refresh(firstRefresh).Code)

	// The replacement still works
	require.Equal(t, http.StatusOK, refresh(secondRefresh).Code)
}

func TestRefreshTokenMissingOrGarbage(t *testing.T) {
	a, _ := newTestAPI(t)

	req := httptest.NewRequest(http.MethodPost, "/api/users/refresh-token", nil)
	rec := httptest.NewRecorder()
	a.Router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	req = httptest.NewRequest(http.MethodPost, "/api/users/refresh-token", nil)
	req.AddCookie(&http.Cookie{Name: "refreshToken", Value: "garbage"})
	rec = httptest.NewRecorder()
	a.Router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestLogoutInvalidatesSession(t *testing.T) {
	a, _ := newTestAPI(t)

	doRegister(t, a, "ada@example.com")
	login := doLogin(t, a, "ada@example.com", "Sup3rSecret")

	access := cookieValue(login, "accessToken")
	refresh := cookieValue(login, "refreshToken")

	req := httptest.NewRequest(http.MethodPost, "/api/users/logout", nil)
	req.AddCookie(&http.Cookie{Name: "accessToken", Value: access})

	rec := httptest.NewRecorder()
	a.Router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var user model.User
	require.NoError(t, a.DB.Where("email = ?", "ada@example.com").First(&user).Error)
	require.Nil(t, user.RefreshToken)

	// The old refresh token can't revive the session
	req = httptest.NewRequest(http.MethodPost, "/api/users/refresh-token", nil)
	req.AddCookie(&http.Cookie{Name: "refreshToken", Value: refresh})

	rec = httptest.NewRecorder()
	a.Router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestLogoutRequiresAuth(t *testing.T) {
	a, _ := newTestAPI(t)

	req := httptest.NewRequest(http.MethodPost, "/api/users/logout", nil)
	rec := httptest.NewRecorder()
	a.Router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestResetPassword(t *testing.T) {
	a, _ := newTestAPI(t)

	doRegister(t, a, "ada@example.com")

	reset := func(body gin.H) *httptest.ResponseRecorder {
		raw, err := json.Marshal(body)
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodPost, "/api/users/reset-password", bytes.NewReader(raw))
		req.Header.Set("Content-Type", "application/json")

		rec := httptest.NewRecorder()
		a.Router.ServeHTTP(rec, req)
		return rec
	}

	rec := reset(gin.H{"email": "ada@example.com", "newPassword": "N3wSecret!", "confirmPassword": "Different1"})
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = reset(gin.H{"email": "nobody@example.com", "newPassword": "N3wSecret!", "confirmPassword": "N3wSecret!"})
	require.Equal(t, http.StatusNotFound, rec.Code)

	rec = reset(gin.H{"email": "ada@example.com", "newPassword": "N3wSecret!", "confirmPassword": "N3wSecret!"})
	require.Equal(t, http.StatusOK, rec.Code)

	require.Equal(t, http.StatusUnauthorized, doLogin(t, a, "ada@example.com", "Sup3rSecret").Code)
	require.Equal(t, http.StatusOK, doLogin(t, a, "ada@example.com", "N3wSecret!").Code)
}

func TestUserDetailsAndUpdate(t *testing.T) {
	a, _ := newTestAPI(t)

	rec := doRegister(t, a, "ada@example.com")
	userID := decodeEnvelope(t, rec)["data"].(map[string]any)["id"].(string)

	req := httptest.NewRequest(http.MethodGet, "/api/users/details/"+userID, nil)
	rec = httptest.NewRecorder()
	a.Router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/api/users/details/missing", nil)
	rec = httptest.NewRecorder()
	a.Router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusNotFound, rec.Code)

	update, err := json.Marshal(gin.H{
		"lastName": "Byron",
		"about":    "poetical science",
		"skills":   []string{"go", "analysis"},
	})
	require.NoError(t, err)

	req = httptest.NewRequest(http.MethodPut, "/api/users/details/"+userID, bytes.NewReader(update))
	req.Header.Set("Content-Type", "application/json")
	rec = httptest.NewRecorder()
	a.Router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var stored model.User
	require.NoError(t, a.DB.Where("id = ?", userID).First(&stored).Error)
	require.Equal(t, "byron", stored.LastName)
	require.Equal(t, "poetical science", stored.About)
	require.Equal(t, model.StringSlice{"go", "analysis"}, stored.Skills)
	// Immutable fields untouched
	require.Equal(t, "ada@example.com", stored.Email)
	require.Equal(t, "ada", stored.FirstName)
}

func TestUserUpdateRejectsCommaSkills(t *testing.T) {
	a, _ := newTestAPI(t)

	rec := doRegister(t, a, "ada@example.com")
	userID := decodeEnvelope(t, rec)["data"].(map[string]any)["id"].(string)

	update, err := json.Marshal(gin.H{"skills": []string{"go", "sql,injection"}})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPut, "/api/users/details/"+userID, bytes.NewReader(update))
	req.Header.Set("Content-Type", "application/json")

	rec = httptest.NewRecorder()
	a.Router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	// The stored profile keeps its previous tags
	var stored model.User
	require.NoError(t, a.DB.Where("id = ?", userID).First(&stored).Error)
	require.Equal(t, model.StringSlice{"go", "math"}, stored.Skills)
}

func TestAvatarUpdate(t *testing.T) {
	a, avatars := newTestAPI(t)

	doRegister(t, a, "ada@example.com")
	login := doLogin(t, a, "ada@example.com", "Sup3rSecret")
	access := cookieValue(login, "accessToken")

	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)
	fw, err := w.CreateFormFile("avatar", "new.jpg")
	require.NoError(t, err)
	fw.Write([]byte("new-image-bytes"))
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPatch, "/api/users/avatar", body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	req.AddCookie(&http.Cookie{Name: "accessToken", Value: access})

	rec := httptest.NewRecorder()
	a.Router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var stored model.User
	require.NoError(t, a.DB.Where("email = ?", "ada@example.com").First(&stored).Error)
	require.Equal(t, "https://media.test/"+avatars.lastKey, stored.AvatarURL)

	// No auth cookie -> gateway rejects before the handler
	req = httptest.NewRequest(http.MethodPatch, "/api/users/avatar", nil)
	rec = httptest.NewRecorder()
	a.Router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestFeedExcludesCredentials(t *testing.T) {
	a, _ := newTestAPI(t)

	doRegister(t, a, "feed1@example.com")

	req := httptest.NewRequest(http.MethodGet, "/api/users/feed", nil)
	rec := httptest.NewRecorder()
	a.Router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	env := decodeEnvelope(t, rec)
	users := env["data"].([]any)
	require.Len(t, users, 1)

	u := users[0].(map[string]any)
	require.NotContains(t, u, "passwordHash")
	require.NotContains(t, u, "refreshToken")
}

func TestAuthGatewayRejectsDeletedUser(t *testing.T) {
	a, _ := newTestAPI(t)

	doRegister(t, a, "ada@example.com")
	login := doLogin(t, a, "ada@example.com", "Sup3rSecret")
	access := cookieValue(login, "accessToken")

	require.NoError(t, a.DB.Where("email = ?", "ada@example.com").Delete(&model.User{}).Error)

	req := httptest.NewRequest(http.MethodPost, "/api/users/logout", nil)
	req.AddCookie(&http.Cookie{Name: "accessToken", Value: access})

	rec := httptest.NewRecorder()
	a.Router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}
