package api

import (
	"github.com/cartlyapp/cartly-server/internal/service"
)

// Services groups all business logic services used by the API server.
// This reduces the parameter count for NewServer and improves testability.
type Services struct {
	Auth       *service.AuthService
	Session    *service.SessionService
	List       *service.ListService
	Item       *service.ItemService
	Suggestion *service.SuggestionService
	Stats      *service.StatsService
	Profile    *service.ProfileService
}
