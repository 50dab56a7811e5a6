package router

import (
	"github.com/blues/arbigrants/internal/config"
	"github.com/blues/arbigrants/internal/handler"
	"github.com/blues/arbigrants/internal/logic"
	"github.com/gin-gonic/gin"
)

func Setup(submissionLogic *logic.SubmissionLogic, cfg *config.Config) *gin.Engine {
	r := gin.New()
	r.MaxMultipartMemory = cfg.Server.MaxUploadMB << 20

	// 中间件
	r.Use(gin.Logger())
	r.Use(gin.Recovery())
	r.Use(corsMiddleware())

	// 健康检查
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"service": "arbigrants-submission",
		})
	})

	v1 := r.Group("/api/v1")
	{
		submissionHandler := handler.NewSubmissionHandler(
			submissionLogic,
			cfg.Server.MaxUploadMB<<20,
			cfg.Server.Mode != gin.ReleaseMode,
		)
		submissions := v1.Group("/submissions")
		{
			submissions.GET("/options", submissionHandler.GetOptions)
			submissions.POST("", submissionHandler.CreateSubmission)
		}
	}

	return r
}

// CORS中间件
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
