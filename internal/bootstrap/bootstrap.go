package bootstrap

import (
	"context"
	"fmt"

	adminHandler "adpulse-server/internal/admin/handler"
	adminProcessor "adpulse-server/internal/admin/processor"
	authHandler "adpulse-server/internal/auth/handler"
	authProcessor "adpulse-server/internal/auth/processor"
	"adpulse-server/internal/clients/bluesky"
	"adpulse-server/internal/clients/composio"
	"adpulse-server/internal/clients/huggingface"
	"adpulse-server/internal/config"
	creativeHandler "adpulse-server/internal/creative/handler"
	creativeProcessor "adpulse-server/internal/creative/processor"
	"adpulse-server/internal/observability"
	socialHandler "adpulse-server/internal/social/handler"
	socialProcessor "adpulse-server/internal/social/processor"
	"adpulse-server/internal/store"
)

// Dependencies holds all initialized application dependencies
type Dependencies struct {
	Store  store.Store
	Logger *observability.Logger

	AuthHandler     authHandler.Handler
	AdminHandler    adminHandler.Handler
	SocialHandler   socialHandler.Handler
	CreativeHandler creativeHandler.Handler
}

// Initialize sets up all application dependencies
func Initialize(ctx context.Context, cfg *config.Config, logger *observability.Logger) (*Dependencies, error) {
	deps := &Dependencies{
		Logger: logger,
	}

	var err error
	deps.Store, err = store.New(ctx, cfg.Database.URI, cfg.Database.Name, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	composioClient := composio.NewClient(composio.OAuthClientCredentials{
		ClientID:     cfg.Services.ComposioOAuthClient.ClientID,
		ClientSecret: cfg.Services.ComposioOAuthClient.ClientSecret,
		RedirectURI:  cfg.Services.ComposioOAuthClient.RedirectURI,
	}, logger)
	blueskyClient := bluesky.NewClient(cfg.Services.BlueskyActorDID, logger)
	huggingFaceClient := huggingface.NewClient(cfg.Services.HuggingFaceAPIKey, logger)

	authProc := authProcessor.New(&deps.Store, cfg.Auth.JWTSecret, logger)
	deps.AuthHandler = authHandler.New(authProc, composioClient, logger)

	adminProc := adminProcessor.New(&deps.Store, logger)
	deps.AdminHandler = adminHandler.New(adminProc, logger)

	socialProc := socialProcessor.New(blueskyClient, &deps.Store, logger)
	deps.SocialHandler = socialHandler.New(socialProc, logger)

	creativeProc := creativeProcessor.New(huggingFaceClient, cfg.Services.GeminiAPIKey, logger)
	deps.CreativeHandler = creativeHandler.New(creativeProc, logger)

	return deps, nil
}

// Cleanup releases held resources during shutdown.
func (d *Dependencies) Cleanup(ctx context.Context) {
	if err := d.Store.Close(ctx); err != nil {
		d.Logger.Error(ctx, "failed to close database connection", err)
	}
}
