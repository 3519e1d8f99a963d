package dish

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"mealflow/pkg/storage/memory"
)

func newTestHandler() (*Handler, *memory.Repository[Dish]) {
	repo := memory.New(func(d Dish) string { return d.ID })
	return NewHandler(repo, zap.NewNop()), repo
}

func serve(h *Handler, method, path, body string) *httptest.ResponseRecorder {
	r := mux.NewRouter()
	h.Register(r)
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func decodeDish(t *testing.T, rec *httptest.ResponseRecorder) Dish {
	t.Helper()
	var env struct {
		Data Dish `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return env.Data
}

func errMessage(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var got map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	return got["error"]
}

func TestCreateDish(t *testing.T) {
	h, repo := newTestHandler()
	rec := serve(h, http.MethodPost, "/dishes",
		`{"data":{"name":"Taco","description":"x","price":3,"image_url":"u"}}`)

	require.Equal(t, http.StatusCreated, rec.Code)
	d := decodeDish(t, rec)
	assert.NotEmpty(t, d.ID)
	assert.Equal(t, "Taco", d.Name)
	assert.Equal(t, 3, d.Price)

	stored, err := repo.Get(context.Background(), d.ID)
	require.NoError(t, err)
	assert.Equal(t, d, stored)
}

func TestCreateDishInvalidPrice(t *testing.T) {
	h, repo := newTestHandler()
	for name, body := range map[string]string{
		"negative":    `{"data":{"name":"Taco","description":"x","price":-1,"image_url":"u"}}`,
		"non-integer": `{"data":{"name":"Taco","description":"x","price":3.5,"image_url":"u"}}`,
	} {
		t.Run(name, func(t *testing.T) {
			rec := serve(h, http.MethodPost, "/dishes", body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Contains(t, errMessage(t, rec), "price that is an integer greater than 0")
		})
	}
	list, err := repo.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestCreateDishMissingFields(t *testing.T) {
	h, _ := newTestHandler()
	cases := map[string]struct {
		body string
		want string
	}{
		"name":        {`{"data":{"description":"x","price":3,"image_url":"u"}}`, "Dish must include a name"},
		"description": {`{"data":{"name":"Taco","price":3,"image_url":"u"}}`, "Dish must include a description"},
		"zero price":  {`{"data":{"name":"Taco","description":"x","price":0,"image_url":"u"}}`, "Dish must include a price"},
		"image_url":   {`{"data":{"name":"Taco","description":"x","price":3}}`, "Dish must include a image_url"},
		"empty data":  {`{"data":{}}`, "Dish must include a name"},
		"no body":     {``, "Dish must include a name"},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			rec := serve(h, http.MethodPost, "/dishes", tc.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, tc.want, errMessage(t, rec))
		})
	}
}

func TestListDishes(t *testing.T) {
	h, repo := newTestHandler()
	ctx := context.Background()
	require.NoError(t, repo.Create(ctx, Dish{ID: "1", Name: "Taco", Price: 3}))
	require.NoError(t, repo.Create(ctx, Dish{ID: "2", Name: "Soup", Price: 5}))

	rec := serve(h, http.MethodGet, "/dishes", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var env struct {
		Data []Dish `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	require.Len(t, env.Data, 2)
	assert.Equal(t, "Taco", env.Data[0].Name)
	assert.Equal(t, "Soup", env.Data[1].Name)
}

func TestListDishesEmpty(t *testing.T) {
	h, _ := newTestHandler()
	rec := serve(h, http.MethodGet, "/dishes", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"data":[]}`, rec.Body.String())
}

func TestReadDish(t *testing.T) {
	h, repo := newTestHandler()
	require.NoError(t, repo.Create(context.Background(),
		Dish{ID: "1", Name: "Taco", Description: "x", Price: 3, ImageURL: "u"}))

	rec := serve(h, http.MethodGet, "/dishes/1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Taco", decodeDish(t, rec).Name)
}

func TestReadDishNotFound(t *testing.T) {
	h, _ := newTestHandler()
	rec := serve(h, http.MethodGet, "/dishes/9", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Dish id not found: 9", errMessage(t, rec))
}

func TestUpdateDish(t *testing.T) {
	h, repo := newTestHandler()
	require.NoError(t, repo.Create(context.Background(),
		Dish{ID: "1", Name: "Taco", Description: "x", Price: 3, ImageURL: "u"}))

	rec := serve(h, http.MethodPut, "/dishes/1",
		`{"data":{"id":"1","name":"Burrito","description":"y","price":7,"image_url":"v"}}`)
	require.Equal(t, http.StatusOK, rec.Code)
	d := decodeDish(t, rec)
	assert.Equal(t, "1", d.ID)
	assert.Equal(t, "Burrito", d.Name)
	assert.Equal(t, 7, d.Price)

	stored, err := repo.Get(context.Background(), "1")
	require.NoError(t, err)
	assert.Equal(t, d, stored)
}

func TestUpdateDishBodyIDAbsent(t *testing.T) {
	h, _ := newTestHandler()
	require.NoError(t, h.repo.Create(context.Background(),
		Dish{ID: "1", Name: "Taco", Description: "x", Price: 3, ImageURL: "u"}))

	rec := serve(h, http.MethodPut, "/dishes/1",
		`{"data":{"name":"Burrito","description":"y","price":7,"image_url":"v"}}`)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestUpdateDishIDMismatch(t *testing.T) {
	h, repo := newTestHandler()
	require.NoError(t, repo.Create(context.Background(),
		Dish{ID: "1", Name: "Taco", Description: "x", Price: 3, ImageURL: "u"}))

	rec := serve(h, http.MethodPut, "/dishes/1",
		`{"data":{"id":"2","name":"Burrito","description":"y","price":7,"image_url":"v"}}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Dish id does not match route id. Dish: 2, Route: 1", errMessage(t, rec))

	stored, err := repo.Get(context.Background(), "1")
	require.NoError(t, err)
	assert.Equal(t, "Taco", stored.Name)
}

func TestUpdateDishNotFound(t *testing.T) {
	h, _ := newTestHandler()
	rec := serve(h, http.MethodPut, "/dishes/9",
		`{"data":{"name":"Burrito","description":"y","price":7,"image_url":"v"}}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Dish id not found: 9", errMessage(t, rec))
}
