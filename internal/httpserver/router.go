package httpserver

import (
	"context"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"shopcore/internal/domain"
)

// Deps carries the services the routes dispatch to. They are interfaces so
// handler tests can run against stubs.
type Deps struct {
	Orders   orderService
	Carts    cartService
	Products productService
}

type orderService interface {
	Checkout(ctx context.Context, userID string, recv domain.Receiver) (*domain.Order, error)
	Pay(ctx context.Context, userID, orderNumber string) (*domain.Order, error)
	Ship(ctx context.Context, orderNumber string) (*domain.Order, error)
	Receive(ctx context.Context, userID, orderNumber string) (*domain.Order, error)
	Cancel(ctx context.Context, userID, orderNumber string) (*domain.Order, error)
	UpdateReceiver(ctx context.Context, userID, orderNumber string, recv domain.Receiver) (*domain.Order, error)
	Get(ctx context.Context, userID, orderNumber string) (*domain.Order, error)
	ListByUser(ctx context.Context, userID string) ([]domain.Order, error)
	ListAll(ctx context.Context) ([]domain.Order, error)
	Purge(ctx context.Context, id string) error
}

type cartService interface {
	Get(ctx context.Context, userID string) ([]domain.CartLine, error)
	AddItem(ctx context.Context, userID, sku string, quantity int) (*domain.CartLine, error)
	ChangeItem(ctx context.Context, userID, lineID string, quantity int) error
	Clear(ctx context.Context, userID string) error
}

type productService interface {
	List(ctx context.Context) ([]domain.Availability, error)
	Get(ctx context.Context, id string) (*domain.Availability, error)
}

// buildRouter wires routes for the API.
func buildRouter(logger zerolog.Logger, db *pgxpool.Pool, deps Deps, corsOrigins []string) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.LoggerWithWriter(logger), gin.Recovery())
	router.Use(cors.New(cors.Config{
		AllowOrigins: corsOrigins,
		AllowMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE"},
		AllowHeaders: []string{"Content-Type", "X-User-ID"},
	}))

	router.GET("/healthz", healthHandler)
	router.GET("/readyz", readyHandler(db))

	v1 := router.Group("/v1")

	v1.GET("/products", listProductsHandler(deps.Products))
	v1.GET("/products/:id", getProductHandler(deps.Products))

	user := v1.Group("", identityMiddleware())
	user.GET("/cart", getCartHandler(deps.Carts))
	user.POST("/cart/items", addCartItemHandler(deps.Carts))
	user.PATCH("/cart/items/:id", changeCartItemHandler(deps.Carts))
	user.DELETE("/cart", clearCartHandler(deps.Carts))

	user.POST("/checkout", checkoutHandler(deps.Orders))
	user.GET("/orders", listOrdersHandler(deps.Orders))
	user.GET("/orders/:number", getOrderHandler(deps.Orders))
	user.POST("/orders/:number/pay", payHandler(deps.Orders))
	user.POST("/orders/:number/receive", receiveHandler(deps.Orders))
	user.POST("/orders/:number/cancel", cancelHandler(deps.Orders))
	user.PUT("/orders/:number/receiver", updateReceiverHandler(deps.Orders))

	// Fulfilment and back-office operations. Access control for these is the
	// surrounding system's concern, same as user identity.
	admin := v1.Group("/admin")
	admin.POST("/orders/:number/ship", shipHandler(deps.Orders))
	admin.GET("/orders", listAllOrdersHandler(deps.Orders))
	admin.DELETE("/orders/:id", purgeOrderHandler(deps.Orders))

	return router
}
