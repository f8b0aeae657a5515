package app_test

import (
	"bytes"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"hash/crc32"
	"image"
	"image/color"
	"image/png"
	"mime/multipart"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"iskort_backend/internal/models"
	"iskort_backend/internal/notify"
	"iskort_backend/test/helpers"
)

func decode(t *testing.T, body string, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal([]byte(body), v), body)
}

type idResponse struct {
	User struct {
		ID uint `json:"id"`
	} `json:"user"`
	Eatery struct {
		ID         uint `json:"id"`
		IsVerified bool `json:"is_verified"`
	} `json:"eatery"`
	Result struct {
		AccountID *uint  `json:"account_id"`
		Outcome   string `json:"outcome"`
	} `json:"result"`
	Error struct {
		Code string `json:"code"`
	} `json:"error"`
}

func TestSystemRoutes(t *testing.T) {
	ts := helpers.NewTestServer(t)

	res, body := ts.SendRequest(t, http.MethodGet, "/", "", nil)
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, "Iskort API is live and ready for use!", body)

	res, body = ts.SendRequest(t, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, res.StatusCode, body)
	assert.NotEmpty(t, res.Header.Get("X-Request-ID"))
}

func TestVerificationFlow(t *testing.T) {
	ts := helpers.NewTestServer(t)
	_, adminToken := ts.CreateAndLogin(t, models.RoleAdmin, "admin@iskort.kz")
	_, userToken := ts.CreateAndLogin(t, models.RoleUser, "student@iskort.kz")

	// регистрация владельца попадает в очередь проверки
	res, body := ts.SendRequest(t, http.MethodPost, "/api/owner/register", "", map[string]string{
		"name":             "Nurlan",
		"email":            "nurlan@iskort.kz",
		"password":         "secret12",
		"phone_num":        "+77017778899",
		"notif_preference": "both",
	})
	require.Equal(t, http.StatusCreated, res.StatusCode, body)
	var reg idResponse
	decode(t, body, &reg)
	require.NotZero(t, reg.User.ID)

	res, body = ts.SendRequest(t, http.MethodPost, "/api/owner/register", "", map[string]string{
		"name": "Nurlan", "email": "nurlan@iskort.kz", "password": "secret12",
	})
	assert.Equal(t, http.StatusConflict, res.StatusCode, body)

	res, body = ts.SendRequest(t, http.MethodPost, "/api/owner/login", "", map[string]string{
		"email": "nurlan@iskort.kz", "password": "secret12",
	})
	assert.Equal(t, http.StatusForbidden, res.StatusCode, body)

	// админка закрыта без токена и для других ролей
	res, _ = ts.SendRequest(t, http.MethodGet, "/api/admin/users", "", nil)
	assert.Equal(t, http.StatusUnauthorized, res.StatusCode)
	res, _ = ts.SendRequest(t, http.MethodGet, "/api/admin/users", userToken, nil)
	assert.Equal(t, http.StatusForbidden, res.StatusCode)

	res, body = ts.SendRequest(t, http.MethodGet, "/api/admin/users?status=pending", adminToken, nil)
	require.Equal(t, http.StatusOK, res.StatusCode, body)
	var pending struct {
		Users []struct {
			ID          uint   `json:"id"`
			Email       string `json:"email"`
			Role        string `json:"role"`
			SourceTable string `json:"source_table"`
		} `json:"users"`
	}
	decode(t, body, &pending)
	require.Len(t, pending.Users, 1)
	assert.Equal(t, "nurlan@iskort.kz", pending.Users[0].Email)
	assert.Equal(t, "owner", pending.Users[0].Role)
	assert.Equal(t, "registrations", pending.Users[0].SourceTable)

	verifyPath := fmt.Sprintf("/api/admin/verify/owner/%d", reg.User.ID)
	res, body = ts.SendRequest(t, http.MethodPut, verifyPath, adminToken, nil)
	require.Equal(t, http.StatusOK, res.StatusCode, body)
	var verified idResponse
	decode(t, body, &verified)
	assert.Equal(t, "verified", verified.Result.Outcome)
	require.NotNil(t, verified.Result.AccountID)

	res, body = ts.SendRequest(t, http.MethodPut, verifyPath, adminToken, nil)
	assert.Equal(t, http.StatusConflict, res.StatusCode, body)

	ownerToken := ts.Login(t, models.RoleOwner, "nurlan@iskort.kz", "secret12")

	// объявление: создаётся непроверенным, редактируется только после проверки
	res, body = ts.SendRequest(t, http.MethodPost, "/api/eatery", ownerToken, map[string]string{
		"name":      "Nomad Cafe",
		"location":  "Almaty, Dostyk 5",
		"open_time": "09:00",
		"end_time":  "21:00",
	})
	require.Equal(t, http.StatusCreated, res.StatusCode, body)
	var created idResponse
	decode(t, body, &created)
	assert.False(t, created.Eatery.IsVerified)
	eateryPath := fmt.Sprintf("/api/eatery/%d", created.Eatery.ID)

	res, _ = ts.SendRequest(t, http.MethodPost, "/api/eatery", userToken, map[string]string{
		"name": "Not mine", "location": "Somewhere",
	})
	assert.Equal(t, http.StatusForbidden, res.StatusCode)

	res, body = ts.SendRequest(t, http.MethodPut, eateryPath, ownerToken, map[string]string{"name": "Nomad Bistro"})
	assert.Equal(t, http.StatusForbidden, res.StatusCode, body)

	res, body = ts.SendRequest(t, http.MethodPut, fmt.Sprintf("/api/admin/verify/eatery/%d", created.Eatery.ID), adminToken, nil)
	require.Equal(t, http.StatusOK, res.StatusCode, body)

	res, body = ts.SendRequest(t, http.MethodPut, eateryPath, ownerToken, map[string]string{"name": "Nomad Bistro"})
	require.Equal(t, http.StatusOK, res.StatusCode, body)

	res, body = ts.SendRequest(t, http.MethodGet, eateryPath, "", nil)
	require.Equal(t, http.StatusOK, res.StatusCode, body)
	assert.Contains(t, body, "Nomad Bistro")

	// отзывы
	res, body = ts.SendRequest(t, http.MethodPost, "/api/eatery_reviews", userToken, map[string]interface{}{
		"eatery_id": created.Eatery.ID, "rating": 6,
	})
	assert.Equal(t, http.StatusBadRequest, res.StatusCode, body)

	res, body = ts.SendRequest(t, http.MethodPost, "/api/eatery_reviews", userToken, map[string]interface{}{
		"eatery_id": created.Eatery.ID, "rating": 5, "comment": "Great beshbarmak",
	})
	require.Equal(t, http.StatusCreated, res.StatusCode, body)

	res, body = ts.SendRequest(t, http.MethodGet, "/api/user/reviews", userToken, nil)
	require.Equal(t, http.StatusOK, res.StatusCode, body)
	var mine struct {
		Reviews []struct {
			ListingKind string `json:"listing_kind"`
			Rating      int    `json:"rating"`
		} `json:"reviews"`
	}
	decode(t, body, &mine)
	require.Len(t, mine.Reviews, 1)
	assert.Equal(t, "eatery", mine.Reviews[0].ListingKind)
	assert.Equal(t, 5, mine.Reviews[0].Rating)

	messages := ts.Dispatcher.Messages()
	require.Len(t, messages, 2)
	assert.Equal(t, notify.EventAccountVerified, messages[0].Event)
	assert.Equal(t, notify.EventListingVerified, messages[1].Event)
	assert.Equal(t, "+77017778899", messages[1].Contact.Phone)
}

func TestRejectFlow(t *testing.T) {
	ts := helpers.NewTestServer(t)
	_, adminToken := ts.CreateAndLogin(t, models.RoleAdmin, "admin@iskort.kz")

	res, body := ts.SendRequest(t, http.MethodPost, "/api/user/register", "", map[string]string{
		"name": "Spam", "email": "spam@iskort.kz", "password": "secret12",
	})
	require.Equal(t, http.StatusCreated, res.StatusCode, body)
	var reg idResponse
	decode(t, body, &reg)

	rejectPath := fmt.Sprintf("/api/admin/reject/user/%d", reg.User.ID)
	res, body = ts.SendRequest(t, http.MethodDelete, rejectPath, adminToken, nil)
	require.Equal(t, http.StatusOK, res.StatusCode, body)

	res, body = ts.SendRequest(t, http.MethodDelete, rejectPath, adminToken, nil)
	assert.Equal(t, http.StatusNotFound, res.StatusCode, body)

	res, body = ts.SendRequest(t, http.MethodPut, fmt.Sprintf("/api/admin/verify/user/%d", reg.User.ID), adminToken, nil)
	assert.Equal(t, http.StatusNotFound, res.StatusCode, body)

	res, body = ts.SendRequest(t, http.MethodPut, "/api/admin/verify/planet/1", adminToken, nil)
	assert.Equal(t, http.StatusBadRequest, res.StatusCode, body)

	res, body = ts.SendRequest(t, http.MethodPut, "/api/admin/verify/user/abc", adminToken, nil)
	assert.Equal(t, http.StatusBadRequest, res.StatusCode, body)

	messages := ts.Dispatcher.Messages()
	require.Len(t, messages, 1)
	assert.Equal(t, notify.EventAccountRejected, messages[0].Event)
}

func TestUploadPhoto(t *testing.T) {
	ts := helpers.NewTestServer(t)
	_, ownerToken := ts.CreateAndLogin(t, models.RoleOwner, "owner@iskort.kz")

	img := image.NewRGBA(image.Rect(0, 0, 40, 20))
	img.Set(1, 1, color.RGBA{R: 255, A: 255})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))

	var form bytes.Buffer
	writer := multipart.NewWriter(&form)
	part, err := writer.CreateFormFile("photo", "menu.png")
	require.NoError(t, err)
	_, err = part.Write(buf.Bytes())
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req, err := http.NewRequest(http.MethodPost, ts.Server.URL+"/api/uploads", &form)
	require.NoError(t, err)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+ownerToken)

	res, body := ts.Do(t, req)
	require.Equal(t, http.StatusCreated, res.StatusCode, body)

	var uploaded struct {
		URL         string `json:"url"`
		ContentType string `json:"content_type"`
		Width       int    `json:"width"`
	}
	decode(t, body, &uploaded)
	assert.Equal(t, "image/png", uploaded.ContentType)
	assert.Equal(t, 40, uploaded.Width)
	require.NotEmpty(t, uploaded.URL)

	res, _ = ts.SendRequest(t, http.MethodGet, uploaded.URL, "", nil)
	assert.Equal(t, http.StatusOK, res.StatusCode)

	// текст вместо изображения
	form.Reset()
	writer = multipart.NewWriter(&form)
	part, err = writer.CreateFormFile("photo", "notes.txt")
	require.NoError(t, err)
	_, err = part.Write([]byte("just some text, not an image"))
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req, err = http.NewRequest(http.MethodPost, ts.Server.URL+"/api/uploads", &form)
	require.NoError(t, err)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+ownerToken)

	res, body = ts.Do(t, req)
	assert.Equal(t, http.StatusUnsupportedMediaType, res.StatusCode, body)
}

func TestOwnerInfoAndNotificationLog(t *testing.T) {
	ts := helpers.NewTestServer(t)
	ownerID := helpers.CreateAccount(t, ts.DB, models.RoleOwner, "owner@iskort.kz")
	helpers.CreateEatery(t, ts.DB, ownerID, "Verified Cafe", true)
	helpers.CreateEatery(t, ts.DB, ownerID, "Pending Cafe", false)

	res, body := ts.SendRequest(t, http.MethodGet, "/api/owners", "", nil)
	require.Equal(t, http.StatusOK, res.StatusCode, body)
	var list struct {
		Total int64 `json:"total"`
	}
	decode(t, body, &list)
	assert.Equal(t, int64(1), list.Total)

	// карточка владельца показывает только проверенные объявления
	res, body = ts.SendRequest(t, http.MethodGet, fmt.Sprintf("/api/owners/%d", ownerID), "", nil)
	require.Equal(t, http.StatusOK, res.StatusCode, body)
	var card struct {
		Owner struct {
			Email    string `json:"email"`
			Eateries []struct {
				Name string `json:"name"`
			} `json:"eateries"`
		} `json:"owner"`
	}
	decode(t, body, &card)
	assert.Equal(t, "owner@iskort.kz", card.Owner.Email)
	require.Len(t, card.Owner.Eateries, 1)
	assert.Equal(t, "Verified Cafe", card.Owner.Eateries[0].Name)

	res, body = ts.SendRequest(t, http.MethodGet, fmt.Sprintf("/api/owners/%d/eateries", ownerID), "", nil)
	require.Equal(t, http.StatusOK, res.StatusCode, body)
	var eateries struct {
		Eateries []struct {
			Name string `json:"name"`
		} `json:"eateries"`
	}
	decode(t, body, &eateries)
	assert.Len(t, eateries.Eateries, 2)

	res, _ = ts.SendRequest(t, http.MethodGet, "/api/owners/9999", "", nil)
	assert.Equal(t, http.StatusNotFound, res.StatusCode)

	_, adminToken := ts.CreateAndLogin(t, models.RoleAdmin, "admin@iskort.kz")
	_, userToken := ts.CreateAndLogin(t, models.RoleUser, "student@iskort.kz")

	res, body = ts.SendRequest(t, http.MethodGet, "/api/admin/notifications", adminToken, nil)
	assert.Equal(t, http.StatusOK, res.StatusCode, body)
	res, _ = ts.SendRequest(t, http.MethodGet, "/api/admin/notifications", userToken, nil)
	assert.Equal(t, http.StatusForbidden, res.StatusCode)
}

// pngHeader - только сигнатура и IHDR: этого достаточно для image.DecodeConfig
func pngHeader(width, height uint32) []byte {
	ihdr := make([]byte, 13)
	binary.BigEndian.PutUint32(ihdr[0:], width)
	binary.BigEndian.PutUint32(ihdr[4:], height)
	ihdr[8] = 8 // bit depth
	ihdr[9] = 0 // grayscale

	var buf bytes.Buffer
	buf.WriteString("\x89PNG\r\n\x1a\n")
	_ = binary.Write(&buf, binary.BigEndian, uint32(len(ihdr)))
	chunk := append([]byte("IHDR"), ihdr...)
	buf.Write(chunk)
	_ = binary.Write(&buf, binary.BigEndian, crc32.ChecksumIEEE(chunk))
	return buf.Bytes()
}

func TestUploadPhoto_PixelLimit(t *testing.T) {
	ts := helpers.NewTestServer(t)
	_, ownerToken := ts.CreateAndLogin(t, models.RoleOwner, "owner@iskort.kz")

	var form bytes.Buffer
	writer := multipart.NewWriter(&form)
	part, err := writer.CreateFormFile("photo", "huge.png")
	require.NoError(t, err)
	_, err = part.Write(pngHeader(12000, 12000))
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req, err := http.NewRequest(http.MethodPost, ts.Server.URL+"/api/uploads", &form)
	require.NoError(t, err)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+ownerToken)

	res, body := ts.Do(t, req)
	require.Equal(t, http.StatusBadRequest, res.StatusCode, body)
	var resp idResponse
	decode(t, body, &resp)
	assert.Equal(t, "LIMIT_EXCEEDED", resp.Error.Code)
}

func TestSwaggerDocCoversAdminRoutes(t *testing.T) {
	ts := helpers.NewTestServer(t)

	res, body := ts.SendRequest(t, http.MethodGet, "/swagger/doc.json", "", nil)
	require.Equal(t, http.StatusOK, res.StatusCode, body)

	var doc struct {
		Paths map[string]map[string]json.RawMessage `json:"paths"`
	}
	decode(t, body, &doc)

	for path, method := range map[string]string{
		"/api/admin/users":              "get",
		"/api/admin/notifications":      "get",
		"/api/admin/verify/{kind}/{id}": "put",
		"/api/admin/reject/{kind}/{id}": "delete",
	} {
		require.Contains(t, doc.Paths, path)
		assert.Contains(t, doc.Paths[path], method, path)
	}
}
