package routes

import (
	"log"
	"os"
	"strconv"

	_ "mioto/docs" // This will be auto-generated
	"mioto/internal/adapter/http/handlers"
	repository2 "mioto/internal/adapter/persistence/repository"
	"mioto/internal/infrastructure/database"
	"mioto/internal/infrastructure/payments"
	"mioto/internal/usecase"
	"mioto/internal/usecase/interfaces"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

var router = gin.Default()

const PORT = 8080

// Run will start the server
func Run() {
	setMiddlewares()

	// Swagger documentation endpoint
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	getRoutes()

	err := router.Run(":" + strconv.Itoa(PORT))
	if err != nil {
		log.Fatalf("Failed to startup the application: %v", err.Error())
	}
}

func getRoutes() {
	ddb := database.ConnectDynamoDB()

	var orderRepo interfaces.IServiceOrderRepository = repository2.NewServiceOrderDynamoRepository(ddb)
	if getenvBool("ORDERS_STORE_FALLBACK", true) {
		orderRepo = repository2.NewServiceOrderFallbackRepository(orderRepo)
	}

	var paymentGateway interfaces.IPaymentGateway
	mpGateway, err := payments.NewMercadoPagoGateway(os.Getenv("MERCADOPAGO_ACCESS_TOKEN"))
	if err != nil {
		log.Printf("Mercado Pago gateway not configured: %v", err)
	} else {
		paymentGateway = mpGateway
	}

	orderUseCase := usecase.NewServiceOrderUseCase(orderRepo, paymentGateway)
	scheduleUseCase := usecase.NewScheduleUseCase(orderRepo)
	reviewUseCase := usecase.NewReviewUseCase(orderRepo)

	orderHandler := handlers.NewServiceOrderHandler(orderUseCase)
	scheduleHandler := handlers.NewScheduleHandler(scheduleUseCase)
	reviewHandler := handlers.NewReviewHandler(reviewUseCase)

	// Rotas publicas
	v1 := router.Group("/v1")
	addPingRoutes(v1)
	addOrderRoutes(v1, orderHandler, scheduleHandler, reviewHandler)
}

func setMiddlewares() {
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	router.Use(gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		log.Printf("Recovered from panic: %v", recovered)
		c.AbortWithStatus(500)
	}))
}

func getenvBool(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}
