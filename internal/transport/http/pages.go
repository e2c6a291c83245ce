package http

import (
	stdhttp "net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
)

// Tokens that identify a mobile browser in the User-Agent header. The
// desktop and mobile clients differ only in input handling, so a rough
// match is enough.
var mobileTokens = []string{
	"Android",
	"iPhone",
	"iPad",
	"iPod",
	"Windows Phone",
	"BlackBerry",
	"webOS",
	"Mobile",
}

func isMobile(userAgent string) bool {
	for _, token := range mobileTokens {
		if strings.Contains(userAgent, token) {
			return true
		}
	}
	return false
}

func indexHandler(staticDir string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if isMobile(c.GetHeader("User-Agent")) {
			c.Redirect(stdhttp.StatusFound, "/mobile")
			return
		}
		c.File(filepath.Join(staticDir, "index.html"))
	}
}

func mobileHandler(staticDir string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.File(filepath.Join(staticDir, "mobile.html"))
	}
}
