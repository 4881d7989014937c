package middleware

import (
	"net/http"
	"os"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/cors"
)

// CORS middleware built on rs/cors. Allowed origins come from CORS_ORIGINS
// (comma-separated); the default allows everything, which suits local
// notebook frontends.
func CORS() gin.HandlerFunc {
	origins := []string{"*"}
	if env := os.Getenv("CORS_ORIGINS"); env != "" {
		origins = origins[:0]
		for _, o := range strings.Split(env, ",") {
			if o = strings.TrimSpace(o); o != "" {
				origins = append(origins, o)
			}
		}
	}
	c := cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"*"},
	})
	return func(gc *gin.Context) {
		c.HandlerFunc(gc.Writer, gc.Request)
		if gc.Request.Method == http.MethodOptions {
			gc.AbortWithStatus(http.StatusNoContent)
			return
		}
		gc.Next()
	}
}
