package controllers

import (
	"bytes"
	"fmt"
	"html/template"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/ibrhimmese/garage/models"
	"github.com/ibrhimmese/garage/utils"
)

const listTemplate = `{{range .Vehicles}}[{{.ID}}|{{.Brand}}|{{.Model}}]{{end}}`

func newTestRouter(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	utils.Logger = zap.NewNop()
	utils.Sugar = utils.Logger.Sugar()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Vehicle{}))

	r := gin.New()
	r.SetHTMLTemplate(template.Must(template.New("index.html").Parse(listTemplate)))

	vc := NewVehicleController(db, t.TempDir())
	r.GET("/", vc.Index)
	r.POST("/vehicles", vc.Create)
	r.POST("/vehicles/:id/update", vc.Update)
	r.POST("/vehicles/:id/delete", vc.Delete)

	return r, db
}

func postForm(r *gin.Engine, path string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func postMultipart(t *testing.T, r *gin.Engine, path string, fields map[string]string, fileField, fileName string) *httptest.ResponseRecorder {
	t.Helper()
	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	if fileField != "" {
		fw, err := mw.CreateFormFile(fileField, fileName)
		require.NoError(t, err)
		_, err = fw.Write([]byte("image payload"))
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, path, body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func assertRedirectHome(t *testing.T, w *httptest.ResponseRecorder) {
	t.Helper()
	require.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/", w.Header().Get("Location"))
}

func TestCreateVehicleRoundTrip(t *testing.T) {
	r, db := newTestRouter(t)
	start := time.Now()

	w := postForm(r, "/vehicles", url.Values{
		"brand":           {"Toyota"},
		"model":           {"Corolla"},
		"technical_specs": {"1.8L"},
	})
	assertRedirectHome(t, w)

	var vehicles []models.Vehicle
	require.NoError(t, db.Find(&vehicles).Error)
	require.Len(t, vehicles, 1)

	v := vehicles[0]
	assert.Equal(t, "Toyota", v.Brand)
	assert.Equal(t, "Corolla", v.Model)
	assert.Equal(t, "1.8L", v.TechnicalSpecs)
	assert.Empty(t, v.ImagePath)
	assert.NotZero(t, v.ID)
	assert.WithinDuration(t, start, v.CreatedAt, 5*time.Second)

	list := httptest.NewRecorder()
	r.ServeHTTP(list, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusOK, list.Code)
	assert.Contains(t, list.Body.String(), "Toyota|Corolla")
}

func TestCreateVehicleWithImage(t *testing.T) {
	r, db := newTestRouter(t)

	w := postMultipart(t, r, "/vehicles", map[string]string{
		"brand":           "Honda",
		"model":           "Civic",
		"technical_specs": "2.0L",
	}, "image", "civic.png")
	assertRedirectHome(t, w)

	var v models.Vehicle
	require.NoError(t, db.First(&v).Error)
	assert.True(t, strings.HasPrefix(v.ImagePath, "/uploads/"))
	assert.True(t, strings.HasSuffix(v.ImagePath, ".png"))
}

func TestUpdateKeepsImageWhenNoneAttached(t *testing.T) {
	r, db := newTestRouter(t)
	seed := models.Vehicle{Brand: "Ford", Model: "Focus", TechnicalSpecs: "1.6L", ImagePath: "/uploads/123.png"}
	require.NoError(t, db.Create(&seed).Error)

	w := postForm(r, fmt.Sprintf("/vehicles/%d/update", seed.ID), url.Values{
		"brand":           {"Ford"},
		"model":           {"Focus ST"},
		"technical_specs": {"2.3L turbo"},
	})
	assertRedirectHome(t, w)

	var v models.Vehicle
	require.NoError(t, db.First(&v, seed.ID).Error)
	assert.Equal(t, "/uploads/123.png", v.ImagePath)
	assert.Equal(t, "Focus ST", v.Model)
	assert.Equal(t, "2.3L turbo", v.TechnicalSpecs)
}

func TestUpdateReplacesImageWhenAttached(t *testing.T) {
	r, db := newTestRouter(t)
	seed := models.Vehicle{Brand: "Ford", Model: "Focus", ImagePath: "/uploads/123.png"}
	require.NoError(t, db.Create(&seed).Error)

	w := postMultipart(t, r, fmt.Sprintf("/vehicles/%d/update", seed.ID), map[string]string{
		"brand":           "Ford",
		"model":           "Focus",
		"technical_specs": "1.6L",
	}, "image", "new.jpg")
	assertRedirectHome(t, w)

	var v models.Vehicle
	require.NoError(t, db.First(&v, seed.ID).Error)
	assert.NotEmpty(t, v.ImagePath)
	assert.NotEqual(t, "/uploads/123.png", v.ImagePath)
	assert.True(t, strings.HasPrefix(v.ImagePath, "/uploads/"))
	assert.True(t, strings.HasSuffix(v.ImagePath, ".jpg"))
}

func TestDeleteIsIdempotent(t *testing.T) {
	r, db := newTestRouter(t)
	seed := models.Vehicle{Brand: "Opel", Model: "Astra"}
	require.NoError(t, db.Create(&seed).Error)

	w := postForm(r, fmt.Sprintf("/vehicles/%d/delete", seed.ID), url.Values{})
	assertRedirectHome(t, w)

	var count int64
	require.NoError(t, db.Model(&models.Vehicle{}).Count(&count).Error)
	assert.Zero(t, count)

	// Deleting a row that no longer exists answers the same redirect.
	w = postForm(r, fmt.Sprintf("/vehicles/%d/delete", seed.ID), url.Values{})
	assertRedirectHome(t, w)

	w = postForm(r, "/vehicles/99999/delete", url.Values{})
	assertRedirectHome(t, w)
}

func TestListingOrderIsNewestFirst(t *testing.T) {
	r, db := newTestRouter(t)
	base := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	for i, name := range []string{"First", "Second", "Third"} {
		v := models.Vehicle{Brand: name, Model: "M", CreatedAt: base.Add(time.Duration(i) * time.Hour)}
		require.NoError(t, db.Create(&v).Error)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusOK, w.Code)

	body := w.Body.String()
	third := strings.Index(body, "Third")
	second := strings.Index(body, "Second")
	first := strings.Index(body, "First")
	require.NotEqual(t, -1, third)
	require.NotEqual(t, -1, second)
	require.NotEqual(t, -1, first)
	assert.Less(t, third, second)
	assert.Less(t, second, first)
}
