package pipeline

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type body struct {
	Name string `json:"name"`
}

type entity struct{ ID string }

func TestChainShortCircuits(t *testing.T) {
	var ran []string
	step := func(name string, fail *Error) Guard[body, entity] {
		return func(req *Request[body, entity]) *Error {
			ran = append(ran, name)
			return fail
		}
	}
	chain := Chain[body, entity]{
		step("first", nil),
		step("second", Invalid("nope")),
		step("third", nil),
	}

	err := chain.Run(&Request[body, entity]{Ctx: context.Background()})
	require.NotNil(t, err)
	assert.Equal(t, http.StatusBadRequest, err.Status)
	assert.Equal(t, "nope", err.Message)
	assert.Equal(t, []string{"first", "second"}, ran)
}

func TestChainEmptyPasses(t *testing.T) {
	var chain Chain[body, entity]
	assert.Nil(t, chain.Run(&Request[body, entity]{}))
}

func TestRequire(t *testing.T) {
	guard := Require[body, entity]("Dish", "name", func(b body) bool { return b.Name != "" })

	assert.Nil(t, guard(&Request[body, entity]{Body: body{Name: "Taco"}}))

	err := guard(&Request[body, entity]{})
	require.NotNil(t, err)
	assert.Equal(t, http.StatusBadRequest, err.Status)
	assert.Equal(t, "Dish must include a name", err.Message)
}

func TestDecode(t *testing.T) {
	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"data":{"name":"Taco"}}`))
	got, err := Decode[body](r)
	require.Nil(t, err)
	assert.Equal(t, "Taco", got.Name)
}

func TestDecodeEmptyBody(t *testing.T) {
	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(""))
	got, err := Decode[body](r)
	require.Nil(t, err)
	assert.Empty(t, got.Name)
}

func TestDecodeBadJSON(t *testing.T) {
	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader("{"))
	_, err := Decode[body](r)
	require.NotNil(t, err)
	assert.Equal(t, http.StatusBadRequest, err.Status)
}

func TestRespond(t *testing.T) {
	rec := httptest.NewRecorder()
	Respond(rec, http.StatusCreated, entity{ID: "1"})

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var env struct {
		Data entity `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	assert.Equal(t, "1", env.Data.ID)
}

func TestRespondError(t *testing.T) {
	rec := httptest.NewRecorder()
	RespondError(rec, NotFound("Dish id not found: %s", "9"))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	var got map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "Dish id not found: 9", got["error"])
}
