package routes

import (
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"quotebuilder/internal/adapter/http/handlers"
	"quotebuilder/internal/adapter/persistence/repository"
	"quotebuilder/internal/config"
	"quotebuilder/internal/infrastructure/auth"
	"quotebuilder/internal/infrastructure/database"
	"quotebuilder/internal/usecase/interfaces"
)

// Run starts the local quotation API stand-in. The production backend is an
// external collaborator; this server exists so the client side can be
// developed and exercised without it.
func Run() {
	cfg := config.Load()

	router := NewRouter(cfg, newRepository(cfg))
	if err := router.Run(cfg.HTTPAddr); err != nil {
		log.Fatalf("Failed to startup the quotation API stand-in: %v", err)
	}
}

// NewRouter wires middleware, handlers and routes; tests drive it through
// httptest instead of a listening socket.
func NewRouter(cfg config.Config, repo interfaces.IQuoteRepository) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		log.Printf("Recovered from panic: %v", recovered)
		c.AbortWithStatus(http.StatusInternalServerError)
	}))

	if cfg.JWTSecret != "" {
		minter, err := auth.NewHS256Minter(cfg.JWTSecret)
		if err != nil {
			log.Fatalf("Failed to configure bearer verification: %v", err)
		}
		router.Use(requireBearer(minter))
	} else {
		log.Printf("[http][routes] QUOTE_API_JWT_SECRET unset, serving without bearer verification")
	}

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	quoteHandler := handlers.NewQuoteHandler(repo)
	rateHandler := handlers.NewConvRateHandler(cfg.ConvRate, cfg.ConvRateUnavailable)

	api := router.Group("/api")
	addQuotationRoutes(api, quoteHandler, rateHandler)
	return router
}

func newRepository(cfg config.Config) interfaces.IQuoteRepository {
	switch cfg.Backend {
	case "dynamodb":
		log.Printf("[http][routes] backing store: dynamodb")
		return repository.NewQuoteDynamoRepository(database.ConnectDynamoDB())
	default:
		log.Printf("[http][routes] backing store: memory")
		return repository.NewQuoteMemoryRepository()
	}
}

// requireBearer rejects requests without a valid HS256 bearer token minted
// from the shared secret. Health stays open.
func requireBearer(minter *auth.HS256Minter) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.URL.Path == "/healthz" {
			c.Next()
			return
		}
		header := c.GetHeader("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || minter.Verify(token) != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"code":    "UNAUTHORIZED",
				"message": "Missing or invalid bearer token",
			})
			return
		}
		c.Next()
	}
}
