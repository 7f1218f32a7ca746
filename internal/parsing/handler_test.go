package parsing

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"menuparser/internal/llm"
	"menuparser/internal/menu"
	"menuparser/internal/ocr"
	"menuparser/internal/pipeline"
	"menuparser/internal/storage"
)

func pieReply(title string) string {
	return fmt.Sprintf(`{"data":{"category":[{"id":1,"title":"Food","description":""}],
"sub_category":[{"id":1,"catId":1,"title":"Desserts","description":""}],
"items":[{"itemId":1,"subCatId":1,"title":%q,"description":"","price":4,
"variantAvailable":0,"variants":[],"optionsAvailable":0,"options":[]}]}}`, title)
}

type harness struct {
	repo   *InMemoryRepository
	store  *storage.MemoryStore
	client *llm.FakeClient
	router *gin.Engine
	now    time.Time
}

func newHarness(t *testing.T, replies ...llm.Reply) *harness {
	t.Helper()
	gin.SetMode(gin.TestMode)

	validator, err := menu.NewValidator()
	require.NoError(t, err)
	canon := menu.NewCanonicalizer()
	merger := menu.NewMerger(canon)
	prompts := llm.DefaultPrompts()
	client := llm.NewFakeClient(replies...)

	text := pipeline.NewTextPipeline(client, prompts, merger, validator, 0)
	vision := pipeline.NewVisionPipeline(text, client, prompts, merger, validator, canon, ocr.DefaultSectionItems)
	store := storage.NewMemoryStore()
	files := pipeline.NewFileParser(store, nil, nil, text, vision, pipeline.StrategyTwoStep)

	h := &harness{
		repo:   NewInMemoryRepository(),
		store:  store,
		client: client,
		now:    time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC),
	}
	service := NewService(h.repo, text, files, store)
	service.now = func() time.Time { return h.now }
	handler := NewHandler(service)

	r := gin.New()
	r.POST("/parse-menu", handler.ParseMenu)
	r.POST("/parse-menu-from-file", handler.ParseMenuFromFile)
	r.GET("/menus/:collection/:docId", handler.GetMenu)
	h.router = r
	return h
}

func (h *harness) do(method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.router.ServeHTTP(w, req)
	return w
}

func TestParseMenuStoresRecord(t *testing.T) {
	h := newHarness(t, llm.Texts(pieReply("Pie"))...)

	w := h.do(http.MethodPost, "/parse-menu", `{"menu_text":"DESSERTS\nPie $4","docId":"abc.png","sourceFilePath":"r2://menus/abc.png"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.JSONEq(t, `{"success":true}`, w.Body.String())

	rec, err := h.repo.Get(context.Background(), CollectionText, "abc")
	require.NoError(t, err)
	require.Len(t, rec.Menu, 1)
	assert.Equal(t, "Pie", rec.Menu[0].Data.Items[0].Title)
	assert.Equal(t, "Dessert", rec.Menu[0].Data.SubCategories[0].Title)
	assert.Equal(t, SourceLangchain, rec.Source)
	require.NotNil(t, rec.SourceFilePath)
	assert.Equal(t, "r2://menus/abc.png", *rec.SourceFilePath)
	assert.Equal(t, "debug_langchain/abc.raw.txt", rec.DebugRawTextPath)
	assert.True(t, h.now.Equal(rec.CreatedAt))

	raw, err := h.store.Fetch(context.Background(), rec.DebugRawTextPath)
	require.NoError(t, err)
	assert.Equal(t, "DESSERTS\nPie $4", string(raw))
}

func TestParseMenuWithoutDocIDDoesNotStore(t *testing.T) {
	h := newHarness(t, llm.Texts(pieReply("Pie"))...)

	w := h.do(http.MethodPost, "/parse-menu", `{"menu_text":"Pie $4"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Zero(t, h.repo.Len())
}

func TestParseMenuRecordShape(t *testing.T) {
	h := newHarness(t, llm.Texts(pieReply("Pie"))...)

	w := h.do(http.MethodPost, "/parse-menu", `{"menu_text":"Pie $4","docId":"doc-1"}`)
	require.Equal(t, http.StatusOK, w.Code)

	w = h.do(http.MethodGet, "/menus/menus_langchain/doc-1.pdf", "")
	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.ElementsMatch(t, []string{"menu", "sourceFilePath", "source", "createdAt", "debugRawTextPath"}, keys(body))
	assert.Nil(t, body["sourceFilePath"])

	docs := body["menu"].([]any)
	require.Len(t, docs, 1)
	data := docs[0].(map[string]any)["data"].(map[string]any)
	assert.ElementsMatch(t, []string{"category", "sub_category", "items"}, keys(data))
}

func keys(m map[string]any) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}

func TestParseMenuBadRequests(t *testing.T) {
	h := newHarness(t)

	w := h.do(http.MethodPost, "/parse-menu", `{"docId":"x"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = h.do(http.MethodPost, "/parse-menu", `not json`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = h.do(http.MethodPost, "/parse-menu-from-file", `{"ocr_data":"[]"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Zero(t, h.client.Calls())
}

func TestParseMenuModelFailure(t *testing.T) {
	h := newHarness(t, llm.Reply{Err: errors.New("upstream timeout")})

	w := h.do(http.MethodPost, "/parse-menu", `{"menu_text":"Pie $4","docId":"x"}`)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "upstream timeout")
	assert.Zero(t, h.repo.Len())
}

func TestParseMenuFromFile(t *testing.T) {
	h := newHarness(t,
		llm.Reply{Text: pieReply("Pie")},
		llm.Reply{Text: pieReply("Apple Pie")},
	)
	h.store.Put("menus/abc.png", []byte("\x89PNG\r\n\x1a\n"))

	// ocr_data as a JSON-encoded string
	body := `{"sourceFilePath":"menus/abc.png","docId":"abc.png","ocr_data":"[{\"text\":\"DESSERTS\"},{\"text\":\"Apple Pie $4\"}]"}`
	w := h.do(http.MethodPost, "/parse-menu-from-file", body)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	rec, err := h.repo.Get(context.Background(), CollectionVision, "abc")
	require.NoError(t, err)
	assert.Equal(t, "Apple Pie", rec.Menu[0].Data.Items[0].Title)
	assert.Equal(t, "debug_langchain_vision/abc.raw.txt", rec.DebugRawTextPath)
	require.NotNil(t, rec.SourceFilePath)
	assert.Equal(t, "menus/abc.png", *rec.SourceFilePath)
}

func TestParseMenuFromFileRawOCRArray(t *testing.T) {
	h := newHarness(t,
		llm.Reply{Text: pieReply("Pie")},
		llm.Reply{Err: errors.New("vision unavailable")},
	)
	h.store.Put("menus/abc.jpg", []byte("jpeg"))

	body := `{"sourceFilePath":"menus/abc.jpg","docId":"abc","ocr_data":[{"text":"DESSERTS"},{"text":"Pie $4"}]}`
	w := h.do(http.MethodPost, "/parse-menu-from-file", body)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	rec, err := h.repo.Get(context.Background(), CollectionVision, "abc")
	require.NoError(t, err)
	assert.Equal(t, "Pie", rec.Menu[0].Data.Items[0].Title)
}

func TestParseMenuFromFileErrors(t *testing.T) {
	h := newHarness(t)

	tests := []struct {
		name   string
		body   string
		status int
	}{
		{"unsupported type", `{"sourceFilePath":"menus/menu.docx"}`, http.StatusBadRequest},
		{"image without ocr", `{"sourceFilePath":"menus/menu.png"}`, http.StatusBadRequest},
		{"missing object", `{"sourceFilePath":"menus/gone.png","ocr_data":[{"text":"Pie"}]}`, http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := h.do(http.MethodPost, "/parse-menu-from-file", tt.body)
			assert.Equal(t, tt.status, w.Code, w.Body.String())
		})
	}
}

func TestGetMenuNotFound(t *testing.T) {
	h := newHarness(t)

	w := h.do(http.MethodGet, "/menus/menus_langchain/missing", "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = h.do(http.MethodGet, "/menus/restaurants/abc", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestStorageID(t *testing.T) {
	assert.Equal(t, "abc", StorageID("abc.png"))
	assert.Equal(t, "menu.v2", StorageID("menu.v2.pdf"))
	assert.Equal(t, "abc", StorageID("abc"))
	assert.Equal(t, ".env", StorageID(".env"))
}

func TestOCRText(t *testing.T) {
	assert.Equal(t, "", ocrText(nil))
	assert.Equal(t, "", ocrText(json.RawMessage("null")))
	assert.Equal(t, `[{"text":"Pie"}]`, ocrText(json.RawMessage(`"[{\"text\":\"Pie\"}]"`)))
	assert.Equal(t, `[{"text":"Pie"}]`, ocrText(json.RawMessage(` [{"text":"Pie"}] `)))
}
