package handlers

import (
	"log/slog"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/yukikurage/bug-tracker-api/internal/constants"
	"github.com/yukikurage/bug-tracker-api/internal/database"
	"github.com/yukikurage/bug-tracker-api/internal/middleware"
	"github.com/yukikurage/bug-tracker-api/internal/repository"
	"github.com/yukikurage/bug-tracker-api/internal/services"
	"github.com/yukikurage/bug-tracker-api/internal/storage"
	"gorm.io/gorm"
)

// RouterConfig holds everything the HTTP layer is built from.
// A nil DB falls back to the connection installed in the database package.
type RouterConfig struct {
	DB             *gorm.DB
	Store          storage.BlobStore
	Authorizer     *services.AdminAuthorizer
	Logger         *slog.Logger
	CORSOrigins    []string
	MaxUploadBytes int64
}

// NewRouter wires repositories, services and handlers into a Gin engine
func NewRouter(cfg RouterConfig) *gin.Engine {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	db := cfg.DB
	if db == nil {
		db = database.GetDB()
	}

	// Repositories
	productRepo := repository.NewProductRepository(db)
	statusRepo := repository.NewStatusRepository(db)
	bugRepo := repository.NewBugRepository(db)

	// Services
	productService := services.NewProductService(productRepo)
	statusService := services.NewStatusService(statusRepo)
	attachmentService := services.NewAttachmentService(cfg.Store, bugRepo, cfg.MaxUploadBytes)
	bugService := services.NewBugService(bugRepo, productRepo, statusRepo, attachmentService)

	// Handlers
	systemHandler := NewSystemHandler(db)
	authHandler := NewAuthHandler(cfg.Authorizer)
	productHandler := NewProductHandler(productService)
	statusHandler := NewStatusHandler(statusService)
	bugHandler := NewBugHandler(bugService)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger(logger))
	r.Use(cors.New(corsConfig(cfg.CORSOrigins)))

	// Multipart bodies above this spill to temp files
	r.MaxMultipartMemory = 8 << 20

	requireAdmin := middleware.RequireAdmin(cfg.Authorizer)

	r.GET("/", systemHandler.Root)
	r.GET("/health", systemHandler.Health)

	api := r.Group("/api")
	{
		// Auth routes (public)
		api.POST("/auth/validate", authHandler.Validate)

		// Public catalog and bug routes
		api.GET("/products", productHandler.ListProducts)
		api.GET("/statuses", statusHandler.ListStatuses)

		bugs := api.Group("/bugs")
		{
			bugs.GET("", bugHandler.ListBugs)
			bugs.POST("", bugHandler.CreateBug)
			bugs.GET("/:id", bugHandler.GetBug)
			bugs.GET("/:id/screenshots/:filename", bugHandler.GetScreenshot)
			bugs.PATCH("/:id", requireAdmin, bugHandler.UpdateBug)
			bugs.DELETE("/:id", requireAdmin, bugHandler.DeleteBug)
		}

		// Admin routes (shared secret)
		admin := api.Group("/admin")
		admin.Use(requireAdmin)
		{
			admin.GET("/products", productHandler.ListAllProducts)
			admin.POST("/products", productHandler.CreateProduct)
			admin.PATCH("/products/:id", productHandler.UpdateProduct)
			admin.DELETE("/products/:id", productHandler.DeleteProduct)

			admin.POST("/statuses", statusHandler.CreateStatus)
			admin.PATCH("/statuses/reorder", statusHandler.ReorderStatuses)
			admin.PATCH("/statuses/:id", statusHandler.UpdateStatus)
			admin.DELETE("/statuses/:id", statusHandler.DeleteStatus)
		}
	}

	return r
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", constants.AdminPasswordHeader},
		ExposeHeaders: []string{"Content-Length"},
		MaxAge:        12 * time.Hour,
	}

	if len(origins) == 0 || containsWildcard(origins) {
		cfg.AllowAllOrigins = true
		return cfg
	}
	cfg.AllowOrigins = origins
	cfg.AllowCredentials = true
	return cfg
}

func containsWildcard(origins []string) bool {
	for _, o := range origins {
		if o == "*" {
			return true
		}
	}
	return false
}
