package registrations

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/lumen-meetup/backend/internal/models"
)

type memStore struct {
	mu        sync.Mutex
	regs      []models.Registration
	insertErr error
	nextID    int64
}

func (m *memStore) Insert(_ context.Context, reg *models.Registration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.insertErr != nil {
		return m.insertErr
	}
	m.nextID++
	reg.ID = m.nextID
	reg.CreatedAt = time.Now()
	m.regs = append(m.regs, *reg)
	return nil
}

func (m *memStore) ListAll(context.Context) ([]models.Registration, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.Registration, 0, len(m.regs))
	for i := len(m.regs) - 1; i >= 0; i-- {
		out = append(out, m.regs[i])
	}
	return out, nil
}

func (m *memStore) ListSpeakers(ctx context.Context) ([]models.Registration, error) {
	all, _ := m.ListAll(ctx)
	var speakers []models.Registration
	for _, reg := range all {
		if reg.IsSpeaker {
			speakers = append(speakers, reg)
		}
	}
	return speakers, nil
}

func newTestRouter(store Store) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewHandler(store, zap.NewNop())
	r := gin.New()
	r.POST("/api/submit", h.Submit)
	r.GET("/api/speakers", h.Speakers)
	return r
}

func postJSON(t *testing.T, router *gin.Engine, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestSubmitStoresRegistration(t *testing.T) {
	store := &memStore{}
	router := newTestRouter(store)

	w := postJSON(t, router, "/api/submit", `{"name":"Ana","email":"a@x.com"}`)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"success":true}`, w.Body.String())

	list, err := store.ListAll(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Ana", list[0].Name)
	assert.Equal(t, "a@x.com", list[0].Email)
	assert.NotZero(t, list[0].ID)
}

func TestSubmitSpeakerStoresTopicAndPicture(t *testing.T) {
	store := &memStore{}
	router := newTestRouter(store)

	w := postJSON(t, router, "/api/submit",
		`{"name":"Cy","email":"c@x.com","is_speaker":true,"topic":"SSE from scratch","profile_pic":"https://img.example/cy.png"}`)

	assert.Equal(t, http.StatusOK, w.Code)
	list, _ := store.ListAll(context.Background())
	require.Len(t, list, 1)
	assert.True(t, list[0].IsSpeaker)
	require.NotNil(t, list[0].Topic)
	assert.Equal(t, "SSE from scratch", *list[0].Topic)
	require.NotNil(t, list[0].ProfilePic)
}

func TestSubmitMissingEmailCheckedBeforeSpeakerRules(t *testing.T) {
	store := &memStore{}
	router := newTestRouter(store)

	w := postJSON(t, router, "/api/submit",
		`{"name":"Bo","email":"","is_speaker":true,"topic":"Bo talk"}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "email is required", w.Body.String())
	list, _ := store.ListAll(context.Background())
	assert.Empty(t, list)
}

func TestSubmitSpeakerWithoutTopic(t *testing.T) {
	router := newTestRouter(&memStore{})

	w := postJSON(t, router, "/api/submit",
		`{"name":"Cy","email":"c@x.com","is_speaker":true}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "topic required for speakers", w.Body.String())
}

func TestSubmitMissingName(t *testing.T) {
	router := newTestRouter(&memStore{})

	w := postJSON(t, router, "/api/submit", `{"email":"a@x.com"}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "name is required", w.Body.String())
}

func TestSubmitMalformedBody(t *testing.T) {
	router := newTestRouter(&memStore{})

	w := postJSON(t, router, "/api/submit", `{"name": "Ana", `)

	// Unparseable bodies surface as 500 on this endpoint, as they always have.
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestSubmitStoreFailure(t *testing.T) {
	router := newTestRouter(&memStore{insertErr: errors.New("store down")})

	w := postJSON(t, router, "/api/submit", `{"name":"Ana","email":"a@x.com"}`)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestSubmitNonSpeakerDropsSpeakerFields(t *testing.T) {
	store := &memStore{}
	router := newTestRouter(store)

	w := postJSON(t, router, "/api/submit",
		`{"name":"Ana","email":"a@x.com","topic":"not speaking","profile_pic":"https://img.example/a.png"}`)

	assert.Equal(t, http.StatusOK, w.Code)
	list, _ := store.ListAll(context.Background())
	require.Len(t, list, 1)
	assert.Nil(t, list[0].Topic)
	assert.Nil(t, list[0].ProfilePic)
}

func TestSpeakersEndpoint(t *testing.T) {
	store := &memStore{}
	router := newTestRouter(store)
	postJSON(t, router, "/api/submit", `{"name":"Ana","email":"a@x.com"}`)
	postJSON(t, router, "/api/submit", `{"name":"Cy","email":"c@x.com","is_speaker":true,"topic":"SSE from scratch"}`)

	req := httptest.NewRequest(http.MethodGet, "/api/speakers", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, `"Cy"`)
	assert.NotContains(t, body, `"Ana"`)
}
