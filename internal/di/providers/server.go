package providers

import (
	"context"
	"net/http"

	"github.com/samber/do/v2"

	"github.com/cartlyapp/cartly-server/internal/api"
	"github.com/cartlyapp/cartly-server/internal/config"
	"github.com/cartlyapp/cartly-server/internal/logger"
	"github.com/cartlyapp/cartly-server/internal/service"
	"github.com/cartlyapp/cartly-server/internal/sse"
)

// HTTPServerHandle wraps http.Server with Shutdownable.
type HTTPServerHandle struct {
	*http.Server
}

// sseTokenVerifier adapts AuthService to the sse.TokenVerifier interface.
type sseTokenVerifier struct {
	authService *service.AuthService
}

// VerifyAccessToken implements sse.TokenVerifier.
func (v *sseTokenVerifier) VerifyAccessToken(ctx context.Context, token string) (string, error) {
	user, _, err := v.authService.VerifyAccessToken(ctx, token)
	if err != nil {
		return "", err
	}
	return user.ID, nil
}

// Shutdown implements do.Shutdownable.
func (h *HTTPServerHandle) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return h.Server.Shutdown(ctx)
}

// ProvideHTTPServer provides the HTTP server.
func ProvideHTTPServer(i do.Injector) (*HTTPServerHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	storeHandle := do.MustInvoke[*StoreHandle](i)
	sseHandle := do.MustInvoke[*SSEManagerHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	authService := do.MustInvoke[*service.AuthService](i)
	sessionService := do.MustInvoke[*service.SessionService](i)
	listService := do.MustInvoke[*service.ListService](i)
	itemService := do.MustInvoke[*service.ItemService](i)
	suggestionService := do.MustInvoke[*service.SuggestionService](i)
	statsService := do.MustInvoke[*service.StatsService](i)
	profileService := do.MustInvoke[*service.ProfileService](i)

	tokenVerifier := &sseTokenVerifier{authService: authService}
	sseHandler := sse.NewHandler(sseHandle.Manager, tokenVerifier, log.Logger)

	services := &api.Services{
		Auth:       authService,
		Session:    sessionService,
		List:       listService,
		Item:       itemService,
		Suggestion: suggestionService,
		Stats:      statsService,
		Profile:    profileService,
	}

	handler := api.NewServer(cfg, storeHandle.Store, services, sseHandle.Manager, sseHandler, log.Logger)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Start in background
	go func() {
		log.Info("HTTP server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("HTTP server error", "error", err)
		}
	}()

	log.Info("Server running", "addr", srv.Addr)

	return &HTTPServerHandle{Server: srv}, nil
}
