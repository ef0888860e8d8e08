package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/cartlyapp/cartly-server/internal/domain"
	"github.com/cartlyapp/cartly-server/internal/service"
)

func (s *Server) registerListRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "createList",
		Method:      http.MethodPost,
		Path:        "/api/v1/lists",
		Summary:     "Create list",
		Description: "Creates a new open shopping list",
		Tags:        []string{"Lists"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleCreateList)

	huma.Register(s.api, huma.Operation{
		OperationID: "listLists",
		Method:      http.MethodGet,
		Path:        "/api/v1/lists",
		Summary:     "List lists",
		Description: "Returns all lists for the current user with live totals, newest first",
		Tags:        []string{"Lists"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleListLists)

	huma.Register(s.api, huma.Operation{
		OperationID: "completedLists",
		Method:      http.MethodGet,
		Path:        "/api/v1/lists/completed",
		Summary:     "Completed lists",
		Description: "Returns completed lists sorted by completion time, newest first",
		Tags:        []string{"Lists"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleCompletedLists)

	huma.Register(s.api, huma.Operation{
		OperationID: "getList",
		Method:      http.MethodGet,
		Path:        "/api/v1/lists/{id}",
		Summary:     "Get list",
		Description: "Returns a list with its items, optionally filtered by search and status",
		Tags:        []string{"Lists"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleGetList)

	huma.Register(s.api, huma.Operation{
		OperationID: "renameList",
		Method:      http.MethodPatch,
		Path:        "/api/v1/lists/{id}",
		Summary:     "Rename list",
		Description: "Renames an open list",
		Tags:        []string{"Lists"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleRenameList)

	huma.Register(s.api, huma.Operation{
		OperationID: "completeList",
		Method:      http.MethodPost,
		Path:        "/api/v1/lists/{id}/complete",
		Summary:     "Complete list",
		Description: "Completes a list, freezing the purchased total as its spend snapshot",
		Tags:        []string{"Lists"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleCompleteList)

	huma.Register(s.api, huma.Operation{
		OperationID: "deleteList",
		Method:      http.MethodDelete,
		Path:        "/api/v1/lists/{id}",
		Summary:     "Delete list",
		Description: "Deletes a list and all of its items",
		Tags:        []string{"Lists"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleDeleteList)
}

// === DTOs ===

// ListResponse contains list data in API responses.
type ListResponse struct {
	ID          string     `json:"id" doc:"List ID"`
	Name        string     `json:"name" doc:"List name"`
	Category    string     `json:"category,omitempty" doc:"Optional category for statistics"`
	Completed   bool       `json:"completed" doc:"Whether the list is completed"`
	CompletedAt *time.Time `json:"completed_at,omitempty" doc:"Completion time"`
	TotalSpent  float64    `json:"total_spent" doc:"Spend snapshot frozen at completion"`
	CreatedAt   time.Time  `json:"created_at" doc:"Creation time"`
	UpdatedAt   time.Time  `json:"updated_at" doc:"Last update time"`
}

// TotalsResponse contains aggregate costs for a set of items.
type TotalsResponse struct {
	TotalCost     float64 `json:"total_cost" doc:"Cost of all items"`
	PurchasedCost float64 `json:"purchased_cost" doc:"Cost of purchased items"`
}

// ListSummaryResponse pairs a list with its live totals.
type ListSummaryResponse struct {
	List      ListResponse   `json:"list" doc:"The list"`
	Totals    TotalsResponse `json:"totals" doc:"Live aggregate costs"`
	ItemCount int            `json:"item_count" doc:"Number of items on the list"`
}

// ListListsResponse contains all lists for a user.
type ListListsResponse struct {
	Lists []ListSummaryResponse `json:"lists" doc:"Lists with totals, newest first"`
}

// ListListsInput contains parameters for listing lists.
type ListListsInput struct {
	Authorization string `header:"Authorization"`
}

// ListListsOutput wraps the list overview response for Huma.
type ListListsOutput struct {
	Body ListListsResponse
}

// CompletedListsResponse contains a user's completed lists.
type CompletedListsResponse struct {
	Lists []ListResponse `json:"lists" doc:"Completed lists, most recently completed first"`
}

// CompletedListsInput contains parameters for the completed lists view.
type CompletedListsInput struct {
	Authorization string `header:"Authorization"`
}

// CompletedListsOutput wraps the completed lists response for Huma.
type CompletedListsOutput struct {
	Body CompletedListsResponse
}

// CreateListRequest is the request body for creating a list.
type CreateListRequest struct {
	Name     string `json:"name,omitempty" doc:"List name"`
	Category string `json:"category,omitempty" doc:"Optional category for statistics grouping"`
}

// CreateListInput wraps the create list request for Huma.
type CreateListInput struct {
	Authorization string `header:"Authorization"`
	Body          CreateListRequest
}

// ListOutput wraps a single list response for Huma.
type ListOutput struct {
	Body ListResponse
}

// GetListInput contains parameters for fetching a list with its items.
type GetListInput struct {
	Authorization string `header:"Authorization"`
	ID            string `path:"id" doc:"List ID"`
	Search        string `query:"search" doc:"Case-insensitive substring filter on item names"`
	Status        string `query:"status" doc:"Item status filter: all, purchased, or unpurchased"`
}

// ListDetailResponse contains a list with its items and totals.
// Totals always cover the full item set, not the filtered view.
type ListDetailResponse struct {
	List   ListResponse   `json:"list" doc:"The list"`
	Items  []ItemResponse `json:"items" doc:"Items, filtered by search and status"`
	Totals TotalsResponse `json:"totals" doc:"Aggregate costs over all items"`
}

// ListDetailOutput wraps the list detail response for Huma.
type ListDetailOutput struct {
	Body ListDetailResponse
}

// RenameListRequest is the request body for renaming a list.
type RenameListRequest struct {
	Name string `json:"name,omitempty" doc:"New list name"`
}

// RenameListInput wraps the rename request for Huma.
type RenameListInput struct {
	Authorization string `header:"Authorization"`
	ID            string `path:"id" doc:"List ID"`
	Body          RenameListRequest
}

// CompleteListInput contains parameters for completing a list.
type CompleteListInput struct {
	Authorization string `header:"Authorization"`
	ID            string `path:"id" doc:"List ID"`
}

// DeleteListInput contains parameters for deleting a list.
type DeleteListInput struct {
	Authorization string `header:"Authorization"`
	ID            string `path:"id" doc:"List ID"`
}

// === Handlers ===

func (s *Server) handleCreateList(ctx context.Context, input *CreateListInput) (*ListOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	list, err := s.services.List.CreateList(ctx, userID, service.CreateListRequest{
		Name:     input.Body.Name,
		Category: input.Body.Category,
	})
	if err != nil {
		return nil, err
	}

	return &ListOutput{Body: mapListResponse(list)}, nil
}

func (s *Server) handleListLists(ctx context.Context, input *ListListsInput) (*ListListsOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	summaries, err := s.services.List.ListLists(ctx, userID)
	if err != nil {
		return nil, err
	}

	resp := make([]ListSummaryResponse, len(summaries))
	for i, sum := range summaries {
		resp[i] = ListSummaryResponse{
			List:      mapListResponse(sum.List),
			Totals:    mapTotalsResponse(sum.Totals),
			ItemCount: sum.ItemCount,
		}
	}

	return &ListListsOutput{Body: ListListsResponse{Lists: resp}}, nil
}

func (s *Server) handleCompletedLists(ctx context.Context, input *CompletedListsInput) (*CompletedListsOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	lists, err := s.services.List.CompletedLists(ctx, userID)
	if err != nil {
		return nil, err
	}

	resp := make([]ListResponse, len(lists))
	for i, list := range lists {
		resp[i] = mapListResponse(list)
	}

	return &CompletedListsOutput{Body: CompletedListsResponse{Lists: resp}}, nil
}

func (s *Server) handleGetList(ctx context.Context, input *GetListInput) (*ListDetailOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	detail, err := s.services.List.GetListDetail(ctx, userID, input.ID, input.Search, domain.ItemStatus(input.Status))
	if err != nil {
		return nil, err
	}

	items := make([]ItemResponse, len(detail.Items))
	for i := range detail.Items {
		items[i] = mapItemResponse(&detail.Items[i])
	}

	return &ListDetailOutput{
		Body: ListDetailResponse{
			List:   mapListResponse(detail.List),
			Items:  items,
			Totals: mapTotalsResponse(detail.Totals),
		},
	}, nil
}

func (s *Server) handleRenameList(ctx context.Context, input *RenameListInput) (*ListOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	list, err := s.services.List.RenameList(ctx, userID, input.ID, input.Body.Name)
	if err != nil {
		return nil, err
	}

	return &ListOutput{Body: mapListResponse(list)}, nil
}

func (s *Server) handleCompleteList(ctx context.Context, input *CompleteListInput) (*ListOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	list, err := s.services.List.CompleteList(ctx, userID, input.ID)
	if err != nil {
		return nil, err
	}

	return &ListOutput{Body: mapListResponse(list)}, nil
}

func (s *Server) handleDeleteList(ctx context.Context, input *DeleteListInput) (*MessageOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	if err := s.services.List.DeleteList(ctx, userID, input.ID); err != nil {
		return nil, err
	}

	return &MessageOutput{Body: MessageResponse{Message: "List deleted"}}, nil
}

// === Helpers ===

func mapListResponse(list *domain.List) ListResponse {
	return ListResponse{
		ID:          list.ID,
		Name:        list.Name,
		Category:    list.Category,
		Completed:   list.Completed,
		CompletedAt: list.CompletedAt,
		TotalSpent:  list.TotalSpent,
		CreatedAt:   list.CreatedAt,
		UpdatedAt:   list.UpdatedAt,
	}
}

func mapTotalsResponse(totals domain.Totals) TotalsResponse {
	return TotalsResponse{
		TotalCost:     totals.TotalCost,
		PurchasedCost: totals.PurchasedCost,
	}
}
