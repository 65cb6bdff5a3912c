package api

import (
	"net/http"

	adminHandler "adpulse-server/internal/admin/handler"
	authHandler "adpulse-server/internal/auth/handler"
	creativeHandler "adpulse-server/internal/creative/handler"
	socialHandler "adpulse-server/internal/social/handler"

	"github.com/gin-gonic/gin"
)

type API struct {
	router          *gin.RouterGroup
	authHandler     authHandler.Handler
	adminHandler    adminHandler.Handler
	socialHandler   socialHandler.Handler
	creativeHandler creativeHandler.Handler
}

func New(
	router *gin.RouterGroup,
	authHandler authHandler.Handler,
	adminHandler adminHandler.Handler,
	socialHandler socialHandler.Handler,
	creativeHandler creativeHandler.Handler,
) API {
	return API{
		router:          router,
		authHandler:     authHandler,
		adminHandler:    adminHandler,
		socialHandler:   socialHandler,
		creativeHandler: creativeHandler,
	}
}

func (a *API) RegisterRoutes() {
	a.Health()

	authGroup := a.router.Group("/auth")
	{
		authGroup.POST("/signup", a.authHandler.HandleSignup)
		authGroup.POST("/login", a.authHandler.HandleLogin)
		authGroup.GET("/refresh", a.authHandler.HandleRefresh)
		authGroup.POST("/authenticate", a.authHandler.HandleVendorAuthentication)
	}

	botGroup := a.router.Group("/bot")
	{
		botGroup.GET("/getFollowers", a.socialHandler.HandleGetFollowers)
		botGroup.GET("/getReach", a.socialHandler.HandleGetReach)
		botGroup.GET("/getReachFeed", a.socialHandler.HandleGetReachFeed)
		botGroup.GET("/getMyPost", a.socialHandler.HandleGetMyPosts)
		botGroup.GET("/getAllTweets", a.socialHandler.HandleGetAllTweets)
		botGroup.GET("/getPosts", a.socialHandler.HandleGetPosts)
	}

	imageGroup := a.router.Group("/image")
	{
		// /image/caption must be registered before the :slot wildcard would
		// otherwise shadow it; gin resolves static segments first.
		imageGroup.GET("/caption", a.creativeHandler.HandleGenerateCaption)
		imageGroup.POST("/:slot", a.creativeHandler.HandleGenerateImage)
	}

	adminGroup := a.router.Group("/admin", a.authHandler.HandleJWTMiddleware)
	{
		adminGroup.PATCH("/complaint/status", a.adminHandler.HandleUpdateComplaintStatus)
		adminGroup.PATCH("/campaign/status", a.adminHandler.HandleToggleCampaignStatus)
		adminGroup.POST("/campaign", a.adminHandler.HandleAddCampaign)
		adminGroup.DELETE("/campaign/:index", a.adminHandler.HandleDeleteCampaign)
	}
}

func (a *API) Health() {
	a.router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "ok"})
	})
}
