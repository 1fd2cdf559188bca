package routes

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/navbryce/next-dorm-blog/app"
	"github.com/navbryce/next-dorm-blog/controllers"
	"github.com/navbryce/next-dorm-blog/db"
	"github.com/navbryce/next-dorm-blog/middleware"
)

type RouterOpts struct {
	Collection db.PostCollection
	Verifier   middleware.TokenVerifier
	Renderer   *app.Renderer
	Blog       *app.BlogOpts
	FEOrigins  []string
}

func NewRouter(opts *RouterOpts) *gin.Engine {
	blogOpts := opts.Blog.WithDefaults()
	controller := controllers.NewPostController(opts.Collection, blogOpts.Collection, blogOpts.PageSize)

	r := gin.New()
	r.Use(gin.Logger())
	r.Use(gin.Recovery())
	if len(opts.FEOrigins) > 0 {
		r.Use(cors.New(cors.Config{
			AllowOrigins:  opts.FEOrigins,
			AllowMethods:  []string{"GET", "POST", "PUT"},
			AllowHeaders:  []string{"Origin", "Authorization", "Content-Type"},
			ExposeHeaders: []string{"Content-Length"},
			MaxAge:        12 * time.Hour,
		}))
	}
	r.StaticFS("/static", app.StaticFS())

	AddHealthCheckRoutes(&r.RouterGroup)
	AddBlogRoutes(&r.RouterGroup, opts.Collection, controller, opts.Renderer, &blogOpts)
	AddPostRoutes(&r.RouterGroup, controller, opts.Verifier)
	return r
}
