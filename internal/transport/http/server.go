package http

import (
	stdhttp "net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/hoshizora/wishcannon-server/internal/config"
	"github.com/hoshizora/wishcannon-server/internal/core"
)

// NewServer builds the HTTP server: WebSocket endpoint, landing pages
// with mobile redirection, and the static client bundle.
func NewServer(hub *core.Hub, cfg config.Config, logger *zerolog.Logger) *stdhttp.Server {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()
	router.Use(gin.Recovery(), LoggerMiddleware(logger))

	router.GET("/health", healthHandler)
	router.GET("/", indexHandler(cfg.StaticDir))
	router.GET("/mobile", mobileHandler(cfg.StaticDir))
	router.GET("/ws", gin.WrapH(NewWSHandler(hub, logger)))

	// Everything else resolves against the client bundle.
	router.NoRoute(gin.WrapH(stdhttp.FileServer(stdhttp.Dir(cfg.StaticDir))))

	return &stdhttp.Server{
		Addr:              cfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
	}
}

func healthHandler(c *gin.Context) {
	c.String(stdhttp.StatusOK, "ok")
}
