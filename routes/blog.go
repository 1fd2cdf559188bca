package routes

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/navbryce/next-dorm-blog/app"
	"github.com/navbryce/next-dorm-blog/controllers"
	"github.com/navbryce/next-dorm-blog/db"
	"github.com/navbryce/next-dorm-blog/util"
)

type blogRoutes struct {
	db         db.PostCollection
	controller *controllers.PostController
	renderer   *app.Renderer
	opts       *app.BlogOpts
}

// AddBlogRoutes serves the HTML blog pages.
func AddBlogRoutes(group *gin.RouterGroup, db db.PostCollection, controller *controllers.PostController, renderer *app.Renderer, opts *app.BlogOpts) {
	routes := blogRoutes{db, controller, renderer, opts}
	blog := group.Group("/blog")
	blog.GET("", routes.getBlog)
	blog.GET("/more", routes.getMorePosts)
	blog.GET("/:id", routes.getPost)
}

func (br *blogRoutes) getBlog(c *gin.Context) {
	view := app.NewBlogView(br.db, br.opts)
	view.LoadFirstPage(c)
	br.html(c, http.StatusOK, func() error {
		return br.renderer.RenderPage(c.Writer, view.State())
	})
}

func (br *blogRoutes) getMorePosts(c *gin.Context) {
	view := app.NewBlogView(br.db, br.opts)
	view.Resume(db.Cursor(c.Query("cursor")))
	view.LoadNextPage(c)
	br.html(c, http.StatusOK, func() error {
		return br.renderer.RenderMore(c.Writer, view.State())
	})
}

func (br *blogRoutes) getPost(c *gin.Context) {
	id, httpErr := util.ParseId(c.Param("id"))
	if httpErr != nil {
		br.notFound(c)
		return
	}
	post, httpErr := br.controller.GetPostById(c, id)
	if httpErr != nil {
		if httpErr.Status == http.StatusNotFound {
			br.notFound(c)
			return
		}
		c.String(httpErr.Status, httpErr.Message)
		return
	}
	br.html(c, http.StatusOK, func() error {
		return br.renderer.RenderPost(c.Writer, post)
	})
}

func (br *blogRoutes) notFound(c *gin.Context) {
	br.html(c, http.StatusNotFound, func() error {
		return br.renderer.RenderNotFound(c.Writer)
	})
}

func (br *blogRoutes) html(c *gin.Context, status int, render func() error) {
	c.Header("Content-Type", "text/html; charset=utf-8")
	c.Status(status)
	if err := render(); err != nil {
		slog.Error("failed to render template", "path", c.FullPath(), "error", err)
	}
}
