package routes

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/ibrhimmese/garage/config"
	"github.com/ibrhimmese/garage/controllers"
	"github.com/ibrhimmese/garage/middleware"
	"github.com/ibrhimmese/garage/utils"
)

// UploadDir is where incoming images are written; the same tree is served
// back under the public upload prefix.
const UploadDir = "public/uploads"

// SetupRouter wires middlewares, templates, static files and controllers.
func SetupRouter(db *gorm.DB) *gin.Engine {
	cfg := config.Get()
	switch strings.ToLower(cfg.GinMode) {
	case "debug":
		gin.SetMode(gin.DebugMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(middleware.RequestLogger(utils.Logger))
	r.Use(middleware.Recovery(utils.Logger))

	corsCfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(cfg.AllowedOrigins) == 1 && cfg.AllowedOrigins[0] == "*" {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = cfg.AllowedOrigins
	}
	r.Use(cors.New(corsCfg))

	r.MaxMultipartMemory = 32 << 20

	r.LoadHTMLGlob("templates/*.html")
	r.Static(utils.PublicUploadPrefix, "./"+UploadDir)

	r.GET("/health", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	vehicleController := controllers.NewVehicleController(db, UploadDir)

	r.GET("/", vehicleController.Index)
	r.POST("/vehicles", vehicleController.Create)
	r.POST("/vehicles/:id/update", vehicleController.Update)
	r.POST("/vehicles/:id/delete", vehicleController.Delete)

	return r
}
