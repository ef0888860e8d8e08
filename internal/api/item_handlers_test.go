package api

import (
	"encoding/json/v2"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddItem(t *testing.T) {
	ts := setupTestServer(t)
	defer ts.cleanup()

	token, _ := ts.registerUser(t, "anna@example.com")
	listID := ts.createList(t, token, "Groceries")

	resp := ts.api.Post("/api/v1/lists/"+listID+"/items", "Authorization: "+authHeader(token), map[string]any{
		"name":     "Milk",
		"note":     "the lactose free one",
		"price":    300.0,
		"quantity": 2,
	})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	var envelope testEnvelope[ItemResponse]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))
	assert.Equal(t, "Milk", envelope.Data.Name)
	assert.Equal(t, "the lactose free one", envelope.Data.Note)
	assert.Equal(t, listID, envelope.Data.ListID)
	assert.False(t, envelope.Data.Purchased)
}

func TestAddItem_Validation(t *testing.T) {
	ts := setupTestServer(t)
	defer ts.cleanup()

	token, _ := ts.registerUser(t, "anna@example.com")
	listID := ts.createList(t, token, "Groceries")

	tests := []struct {
		name string
		body map[string]any
	}{
		{name: "empty name", body: map[string]any{"price": 100.0}},
		{name: "whitespace name", body: map[string]any{"name": "   ", "price": 100.0}},
		{name: "negative price", body: map[string]any{"name": "Milk", "price": -5.0}},
		{name: "negative quantity", body: map[string]any{"name": "Milk", "quantity": -1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := ts.api.Post("/api/v1/lists/"+listID+"/items", "Authorization: "+authHeader(token), tt.body)
			assert.Equal(t, http.StatusBadRequest, resp.Code, resp.Body.String())
		})
	}
}

func TestAddItem_FeedsSuggestions(t *testing.T) {
	ts := setupTestServer(t)
	defer ts.cleanup()

	token, _ := ts.registerUser(t, "anna@example.com")
	listID := ts.createList(t, token, "Groceries")

	ts.addItem(t, token, listID, map[string]any{"name": "Milk", "price": 300.0, "quantity": 1})
	ts.addItem(t, token, listID, map[string]any{"name": "Milk", "price": 450.0, "quantity": 1})
	ts.addItem(t, token, listID, map[string]any{"name": "Bread", "price": 500.0, "quantity": 1})

	resp := ts.api.Get("/api/v1/suggestions", "Authorization: "+authHeader(token))
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	var envelope testEnvelope[SuggestionsResponse]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))
	require.Len(t, envelope.Data.Suggestions, 2)

	// Milk was added twice so it ranks first with the latest price.
	assert.Equal(t, "Milk", envelope.Data.Suggestions[0].Name)
	assert.Equal(t, 2, envelope.Data.Suggestions[0].Frequency)
	assert.InDelta(t, 450.0, envelope.Data.Suggestions[0].LastPrice, 0.001)
	assert.Equal(t, "Bread", envelope.Data.Suggestions[1].Name)
}

func TestUpdateItem_Partial(t *testing.T) {
	ts := setupTestServer(t)
	defer ts.cleanup()

	token, _ := ts.registerUser(t, "anna@example.com")
	listID := ts.createList(t, token, "Groceries")
	itemID := ts.addItem(t, token, listID, map[string]any{"name": "Milk", "price": 300.0, "quantity": 1})

	resp := ts.api.Patch("/api/v1/items/"+itemID, "Authorization: "+authHeader(token), map[string]any{
		"price": 350.0,
	})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	var envelope testEnvelope[ItemResponse]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))
	assert.Equal(t, "Milk", envelope.Data.Name)
	assert.InDelta(t, 350.0, envelope.Data.Price, 0.001)
	assert.Equal(t, 1, envelope.Data.Quantity)
}

func TestTogglePurchased_Flips(t *testing.T) {
	ts := setupTestServer(t)
	defer ts.cleanup()

	token, _ := ts.registerUser(t, "anna@example.com")
	listID := ts.createList(t, token, "Groceries")
	itemID := ts.addItem(t, token, listID, map[string]any{"name": "Milk", "price": 300.0, "quantity": 1})

	resp := ts.api.Post("/api/v1/items/"+itemID+"/toggle", "Authorization: "+authHeader(token))
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	var envelope testEnvelope[ItemResponse]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))
	assert.True(t, envelope.Data.Purchased)

	resp = ts.api.Post("/api/v1/items/"+itemID+"/toggle", "Authorization: "+authHeader(token))
	require.Equal(t, http.StatusOK, resp.Code)
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))
	assert.False(t, envelope.Data.Purchased)
}

func TestItemMutations_CompletedListIsConflict(t *testing.T) {
	ts := setupTestServer(t)
	defer ts.cleanup()

	token, _ := ts.registerUser(t, "anna@example.com")
	listID := ts.createList(t, token, "Groceries")
	itemID := ts.addItem(t, token, listID, map[string]any{"name": "Milk", "price": 300.0, "quantity": 1})

	resp := ts.api.Post("/api/v1/lists/"+listID+"/complete", "Authorization: "+authHeader(token))
	require.Equal(t, http.StatusOK, resp.Code)

	resp = ts.api.Post("/api/v1/lists/"+listID+"/items", "Authorization: "+authHeader(token), map[string]any{
		"name": "Eggs",
	})
	assert.Equal(t, http.StatusConflict, resp.Code, resp.Body.String())

	resp = ts.api.Post("/api/v1/items/"+itemID+"/toggle", "Authorization: "+authHeader(token))
	assert.Equal(t, http.StatusConflict, resp.Code, resp.Body.String())

	resp = ts.api.Patch("/api/v1/items/"+itemID, "Authorization: "+authHeader(token), map[string]any{
		"price": 500.0,
	})
	assert.Equal(t, http.StatusConflict, resp.Code, resp.Body.String())

	resp = ts.api.Delete("/api/v1/items/"+itemID, "Authorization: "+authHeader(token))
	assert.Equal(t, http.StatusConflict, resp.Code, resp.Body.String())
}

func TestDeleteItem_MissingIsNotFound(t *testing.T) {
	ts := setupTestServer(t)
	defer ts.cleanup()

	token, _ := ts.registerUser(t, "anna@example.com")
	listID := ts.createList(t, token, "Groceries")
	itemID := ts.addItem(t, token, listID, map[string]any{"name": "Milk", "price": 300.0, "quantity": 1})

	resp := ts.api.Delete("/api/v1/items/"+itemID, "Authorization: "+authHeader(token))
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	resp = ts.api.Delete("/api/v1/items/"+itemID, "Authorization: "+authHeader(token))
	assert.Equal(t, http.StatusNotFound, resp.Code, resp.Body.String())
}

func TestItem_CrossUserIsNotFound(t *testing.T) {
	ts := setupTestServer(t)
	defer ts.cleanup()

	annaToken, _ := ts.registerUser(t, "anna@example.com")
	benToken, _ := ts.registerUser(t, "ben@example.com")

	listID := ts.createList(t, annaToken, "Groceries")
	itemID := ts.addItem(t, annaToken, listID, map[string]any{"name": "Milk", "price": 300.0, "quantity": 1})

	resp := ts.api.Post("/api/v1/lists/"+listID+"/items", "Authorization: "+authHeader(benToken), map[string]any{
		"name": "Sneaky",
	})
	assert.Equal(t, http.StatusNotFound, resp.Code, resp.Body.String())

	resp = ts.api.Post("/api/v1/items/"+itemID+"/toggle", "Authorization: "+authHeader(benToken))
	assert.Equal(t, http.StatusNotFound, resp.Code, resp.Body.String())
}
