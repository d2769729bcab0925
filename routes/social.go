package routes

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"hashtag-feed-platform/internal/config"
	"hashtag-feed-platform/internal/linkedin"
	"hashtag-feed-platform/internal/logger"
	"hashtag-feed-platform/middleware"
	"hashtag-feed-platform/utils"
)

type createPostRequest struct {
	Content string `json:"content" binding:"required"`
}

type commentRequest struct {
	Text string `json:"text" binding:"required"`
}

type repostRequest struct {
	Commentary string `json:"commentary"`
}

// SetupSocialRoutes wires the thin write-back proxies. They act on the
// upstream with the app-level token as the owner account, so they sit
// behind bearer auth.
func SetupSocialRoutes(router *gin.Engine, cfg *config.Config, client *linkedin.Client, authMiddleware *middleware.AuthMiddleware) {
	api := router.Group("/api")
	api.Use(authMiddleware.RequireAuth())

	api.POST("/posts", func(c *gin.Context) {
		var req createPostRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.RespondWithBadRequest(c, "content is required", gin.H{"error": err.Error()})
			return
		}

		postID, err := client.CreatePost(c.Request.Context(), req.Content)
		if err != nil {
			respondSocialError(c, "create post", err)
			return
		}

		logger.Info("Post created", "post_id", postID, "user_id", middleware.GetUserID(c))
		c.JSON(http.StatusCreated, gin.H{"success": true, "id": postID})
	})

	api.POST("/posts/:id/like", func(c *gin.Context) {
		postURN := c.Param("id")
		if err := client.LikePost(c.Request.Context(), postURN); err != nil {
			respondSocialError(c, "like", err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true})
	})

	api.POST("/posts/:id/comments", func(c *gin.Context) {
		var req commentRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.RespondWithBadRequest(c, "text is required", gin.H{"error": err.Error()})
			return
		}

		postURN := c.Param("id")
		if err := client.CommentOnPost(c.Request.Context(), postURN, req.Text); err != nil {
			respondSocialError(c, "comment", err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true})
	})

	api.POST("/posts/:id/repost", func(c *gin.Context) {
		var req repostRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.RespondWithBadRequest(c, "invalid request body", gin.H{"error": err.Error()})
			return
		}

		postURN := c.Param("id")
		if err := client.Repost(c.Request.Context(), postURN, req.Commentary); err != nil {
			respondSocialError(c, "repost", err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true})
	})
}

func respondSocialError(c *gin.Context, action string, err error) {
	var upstreamErr *linkedin.UpstreamError
	switch {
	case errors.Is(err, linkedin.ErrMissingCredentials):
		logger.Error("Social action failed: credentials not configured", "action", action)
		utils.RespondWithInternalError(c, "LinkedIn credentials are not configured", nil)
	case errors.As(err, &upstreamErr):
		logger.Error("Social action rejected upstream",
			"action", action, "status", upstreamErr.Status, "body", linkedin.Truncate(upstreamErr.Body, 200))
		utils.RespondWithBadGateway(c, "LinkedIn rejected the "+action+" request", nil)
	default:
		logger.Error("Social action failed", "action", action, "error", err)
		utils.RespondWithInternalError(c, "Failed to "+action, nil)
	}
}
