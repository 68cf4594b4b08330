package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"neurosurg/learning-app/internal/atlas"
	"neurosurg/learning-app/internal/service"
)

// SetupRoutes wires every endpoint onto the router. mediaService may
// be nil when the server runs without object storage; the media
// routes are skipped in that case.
func SetupRoutes(
	router *gin.Engine,
	jwtSecret string,
	authService service.AuthService,
	procedureService service.ProcedureService,
	caseLogService service.CaseLogService,
	atlasReader *atlas.Reader,
	mediaService service.MediaService,
) {
	authHandler := NewAuthHandler(authService)
	procedureHandler := NewProcedureHandler(procedureService)
	caseLogHandler := NewCaseLogHandler(caseLogService)
	atlasHandler := NewAtlasHandler(atlasReader)

	authMiddleware := AuthMiddleware(jwtSecret)
	optionalAuth := OptionalAuthMiddleware(jwtSecret)

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	apiGroup := router.Group("/api")
	{
		authGroup := apiGroup.Group("/auth")
		{
			authGroup.POST("/register", authHandler.Register)
			authGroup.POST("/login", authHandler.Login)
			authGroup.GET("/me", authMiddleware, authHandler.Me)
		}

		// Reads are public (listing accepts an optional token so a
		// frontend can send it unconditionally); writes need auth.
		procedures := apiGroup.Group("/procedures")
		{
			procedures.GET("", optionalAuth, procedureHandler.List)
			procedures.GET("/:id", procedureHandler.Get)
			procedures.POST("", authMiddleware, procedureHandler.Create)
			procedures.PUT("/:id", authMiddleware, procedureHandler.Update)
			procedures.DELETE("/:id", authMiddleware, procedureHandler.Delete)
		}
		apiGroup.GET("/categories", procedureHandler.Categories)

		caseLogs := apiGroup.Group("/caselogs")
		caseLogs.Use(authMiddleware)
		{
			caseLogs.GET("", caseLogHandler.List)
			// gin matches the static /stats segment before /:id.
			caseLogs.GET("/stats", caseLogHandler.Stats)
			caseLogs.GET("/:id", caseLogHandler.Get)
			caseLogs.POST("", caseLogHandler.Create)
			caseLogs.PUT("/:id", caseLogHandler.Update)
			caseLogs.DELETE("/:id", caseLogHandler.Delete)
		}

		atlasGroup := apiGroup.Group("/atlas")
		{
			atlasGroup.GET("/regions", atlasHandler.Regions)
			atlasGroup.GET("/regions/:regionId", atlasHandler.Region)
			atlasGroup.GET("/regions/:regionId/:subregionId", atlasHandler.Subregion)
			atlasGroup.GET("/search", atlasHandler.Search)
		}

		if mediaService != nil {
			mediaHandler := NewMediaHandler(mediaService)
			media := apiGroup.Group("/media")
			media.Use(authMiddleware)
			{
				media.POST("/upload-url", mediaHandler.RequestUploadURL)
				media.GET("/download-url", mediaHandler.DownloadURL)
				media.DELETE("", mediaHandler.Delete)
			}
		}
	}
}
