package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/cartlyapp/cartly-server/internal/domain"
	"github.com/cartlyapp/cartly-server/internal/service"
)

func (s *Server) registerItemRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "addItem",
		Method:      http.MethodPost,
		Path:        "/api/v1/lists/{listID}/items",
		Summary:     "Add item",
		Description: "Adds an item to an open list and records it in purchase history",
		Tags:        []string{"Items"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleAddItem)

	huma.Register(s.api, huma.Operation{
		OperationID: "updateItem",
		Method:      http.MethodPatch,
		Path:        "/api/v1/items/{id}",
		Summary:     "Update item",
		Description: "Updates item fields on an open list",
		Tags:        []string{"Items"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleUpdateItem)

	huma.Register(s.api, huma.Operation{
		OperationID: "togglePurchased",
		Method:      http.MethodPost,
		Path:        "/api/v1/items/{id}/toggle",
		Summary:     "Toggle purchased",
		Description: "Flips the purchased flag of an item on an open list",
		Tags:        []string{"Items"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleTogglePurchased)

	huma.Register(s.api, huma.Operation{
		OperationID: "deleteItem",
		Method:      http.MethodDelete,
		Path:        "/api/v1/items/{id}",
		Summary:     "Delete item",
		Description: "Removes an item from an open list",
		Tags:        []string{"Items"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleDeleteItem)
}

// === DTOs ===

// ItemResponse contains item data in API responses.
type ItemResponse struct {
	ID        string    `json:"id" doc:"Item ID"`
	ListID    string    `json:"list_id" doc:"Owning list ID"`
	Name      string    `json:"name" doc:"Item name"`
	Note      string    `json:"note,omitempty" doc:"Optional note"`
	Price     float64   `json:"price" doc:"Unit price"`
	Quantity  int       `json:"quantity" doc:"Quantity"`
	Purchased bool      `json:"purchased" doc:"Whether the item has been purchased"`
	CreatedAt time.Time `json:"created_at" doc:"Creation time"`
	UpdatedAt time.Time `json:"updated_at" doc:"Last update time"`
}

// ItemOutput wraps a single item response for Huma.
type ItemOutput struct {
	Body ItemResponse
}

// AddItemRequest is the request body for adding an item.
type AddItemRequest struct {
	Name     string  `json:"name,omitempty" doc:"Item name"`
	Note     string  `json:"note,omitempty" doc:"Optional note"`
	Price    float64 `json:"price,omitempty" doc:"Unit price"`
	Quantity int     `json:"quantity,omitempty" doc:"Quantity"`
}

// AddItemInput wraps the add item request for Huma.
type AddItemInput struct {
	Authorization string `header:"Authorization"`
	ListID        string `path:"listID" doc:"List ID"`
	Body          AddItemRequest
}

// UpdateItemRequest is the request body for updating an item.
// Only fields present in the request are changed.
type UpdateItemRequest struct {
	Name     *string  `json:"name,omitempty" doc:"Item name"`
	Note     *string  `json:"note,omitempty" doc:"Optional note"`
	Price    *float64 `json:"price,omitempty" doc:"Unit price"`
	Quantity *int     `json:"quantity,omitempty" doc:"Quantity"`
}

// UpdateItemInput wraps the update item request for Huma.
type UpdateItemInput struct {
	Authorization string `header:"Authorization"`
	ID            string `path:"id" doc:"Item ID"`
	Body          UpdateItemRequest
}

// ToggleItemInput contains parameters for toggling an item.
type ToggleItemInput struct {
	Authorization string `header:"Authorization"`
	ID            string `path:"id" doc:"Item ID"`
}

// DeleteItemInput contains parameters for deleting an item.
type DeleteItemInput struct {
	Authorization string `header:"Authorization"`
	ID            string `path:"id" doc:"Item ID"`
}

// === Handlers ===

func (s *Server) handleAddItem(ctx context.Context, input *AddItemInput) (*ItemOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	item, err := s.services.Item.AddItem(ctx, userID, input.ListID, service.AddItemRequest{
		Name:     input.Body.Name,
		Note:     input.Body.Note,
		Price:    input.Body.Price,
		Quantity: input.Body.Quantity,
	})
	if err != nil {
		return nil, err
	}

	return &ItemOutput{Body: mapItemResponse(item)}, nil
}

func (s *Server) handleUpdateItem(ctx context.Context, input *UpdateItemInput) (*ItemOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	item, err := s.services.Item.UpdateItem(ctx, userID, input.ID, service.UpdateItemRequest{
		Name:     input.Body.Name,
		Note:     input.Body.Note,
		Price:    input.Body.Price,
		Quantity: input.Body.Quantity,
	})
	if err != nil {
		return nil, err
	}

	return &ItemOutput{Body: mapItemResponse(item)}, nil
}

func (s *Server) handleTogglePurchased(ctx context.Context, input *ToggleItemInput) (*ItemOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	item, err := s.services.Item.TogglePurchased(ctx, userID, input.ID)
	if err != nil {
		return nil, err
	}

	return &ItemOutput{Body: mapItemResponse(item)}, nil
}

func (s *Server) handleDeleteItem(ctx context.Context, input *DeleteItemInput) (*MessageOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	if err := s.services.Item.DeleteItem(ctx, userID, input.ID); err != nil {
		return nil, err
	}

	return &MessageOutput{Body: MessageResponse{Message: "Item deleted"}}, nil
}

// === Helpers ===

func mapItemResponse(item *domain.Item) ItemResponse {
	return ItemResponse{
		ID:        item.ID,
		ListID:    item.ListID,
		Name:      item.Name,
		Note:      item.Note,
		Price:     item.Price,
		Quantity:  item.Quantity,
		Purchased: item.Purchased,
		CreatedAt: item.CreatedAt,
		UpdatedAt: item.UpdatedAt,
	}
}
