package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/navbryce/next-dorm-blog/controllers"
	"github.com/navbryce/next-dorm-blog/db"
	"github.com/navbryce/next-dorm-blog/middleware"
	"github.com/navbryce/next-dorm-blog/util"
)

type postRoutes struct {
	controller *controllers.PostController
}

// AddPostRoutes serves the JSON API. Reads are public, writes need an admin token.
func AddPostRoutes(group *gin.RouterGroup, controller *controllers.PostController, verifier middleware.TokenVerifier) {
	routes := postRoutes{controller}
	posts := group.Group("/api/posts")
	posts.GET("", util.HandlerWrapper(routes.getPosts, &util.HandlerOpts{}))
	posts.GET("/:id", util.HandlerWrapper(routes.getPostById, &util.HandlerOpts{}))

	admin := posts.Group("", middleware.GenAuth(verifier, &middleware.AuthConfig{}), middleware.RequireAdmin())
	admin.PUT("", util.HandlerWrapper(routes.createPost, &util.HandlerOpts{SuccessStatus: http.StatusCreated}))
	admin.POST("/:id", util.HandlerWrapper(routes.updatePost, &util.HandlerOpts{}))
}

func (pr *postRoutes) getPosts(c *gin.Context) (interface{}, *util.HTTPError) {
	return pr.controller.GetPosts(c, db.Cursor(c.Query("cursor")))
}

func (pr *postRoutes) getPostById(c *gin.Context) (interface{}, *util.HTTPError) {
	id, httpErr := util.ParseId(c.Param("id"))
	if httpErr != nil {
		return nil, httpErr
	}
	return pr.controller.GetPostById(c, id)
}

type savePostReq struct {
	Title   string `json:"title" binding:"required"`
	Content string `json:"content" binding:"required"`
}

func (pr *postRoutes) createPost(c *gin.Context) (interface{}, *util.HTTPError) {
	var req savePostReq
	if err := c.ShouldBindJSON(&req); err != nil {
		return nil, util.BuildJSONBindHTTPErr(err)
	}
	id, httpErr := pr.controller.CreatePost(c, req.Title, req.Content)
	if httpErr != nil {
		return nil, httpErr
	}
	return gin.H{
		"id": id,
	}, nil
}

func (pr *postRoutes) updatePost(c *gin.Context) (interface{}, *util.HTTPError) {
	id, httpErr := util.ParseId(c.Param("id"))
	if httpErr != nil {
		return nil, httpErr
	}
	var req savePostReq
	if err := c.ShouldBindJSON(&req); err != nil {
		return nil, util.BuildJSONBindHTTPErr(err)
	}
	if httpErr := pr.controller.UpdatePost(c, id, req.Title, req.Content); httpErr != nil {
		return nil, httpErr
	}
	return nil, nil
}
