package main

import (
	"os"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/hugohenrick/erp-pdv/internal/adapter/api/controller"
	"github.com/hugohenrick/erp-pdv/internal/adapter/api/route"
	"github.com/hugohenrick/erp-pdv/internal/adapter/repository"
	"github.com/hugohenrick/erp-pdv/internal/infrastructure/database"
	"github.com/hugohenrick/erp-pdv/internal/service"
	"github.com/hugohenrick/erp-pdv/pkg/auth"
	"github.com/hugohenrick/erp-pdv/pkg/logger"
)

// App representa a aplicação e suas dependências
type App struct {
	router *gin.Engine
	db     *database.PostgresDB
	log    logger.Logger
}

// NewApp cria uma nova instância do aplicativo, conectando banco,
// repositórios, serviços e controllers.
func NewApp() (*App, error) {
	log := logger.NewLogger()

	db, err := database.NewPostgresDB()
	if err != nil {
		return nil, err
	}

	if os.Getenv("RUN_MIGRATIONS") == "true" {
		if err := database.RunMigrations(); err != nil {
			return nil, err
		}
		log.Info("migrações executadas")
	}

	jwtService, err := auth.NewJWTService()
	if err != nil {
		return nil, err
	}

	pool := db.Pool()

	// Repositórios
	principalRepo := repository.NewPrincipalRepository(pool)
	organizationRepo := repository.NewOrganizationRepository(pool)
	terminalRepo := repository.NewTerminalRepository(pool)
	catalogRepo := repository.NewCatalogRepository(pool)
	inventoryRepo := repository.NewInventoryRepository(pool)
	cashierRepo := repository.NewCashierRepository(pool)
	saleRepo := repository.NewSaleRepository(pool)
	ledgerRepo := repository.NewLedgerRepository(pool)
	sequenceRepo := repository.NewSequenceRepository(pool)
	reportRepo := repository.NewReportRepository(pool)

	// Serviços
	principalService := service.NewPrincipalService(principalRepo, jwtService)
	capabilityService := service.NewCapabilityService(principalRepo)
	organizationService := service.NewOrganizationService(organizationRepo, terminalRepo)
	catalogService := service.NewCatalogService(db, catalogRepo, sequenceRepo)
	inventoryService := service.NewInventoryService(inventoryRepo)
	cashierService := service.NewCashierService(db, cashierRepo, capabilityService)
	saleService := service.NewSaleService(db, saleRepo, cashierRepo, terminalRepo,
		organizationRepo, catalogRepo, ledgerRepo, inventoryService, capabilityService)
	ledgerService := service.NewLedgerService(db, ledgerRepo)
	reportService := service.NewReportService(reportRepo)

	// Controllers
	authController := controller.NewAuthController(principalService)
	principalController := controller.NewPrincipalController(principalService)
	organizationController := controller.NewOrganizationController(organizationService)
	catalogController := controller.NewCatalogController(catalogService, catalogRepo, inventoryRepo)
	cashierController := controller.NewCashierController(cashierService, cashierRepo)
	saleController := controller.NewSaleController(saleService, saleRepo)
	ledgerController := controller.NewLedgerController(ledgerService, ledgerRepo)
	reportController := controller.NewReportController(reportService)

	router := gin.Default()
	router.Use(gin.Recovery())

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowAllOrigins = true
	corsConfig.AllowHeaders = append(corsConfig.AllowHeaders, "Authorization")
	router.Use(cors.New(corsConfig))

	api := router.Group("/api/v1")

	api.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"version": "1.0.0",
		})
	})

	route.SetupAuthRoutes(api, authController)
	route.SetupPrincipalRoutes(api, principalController)
	route.SetupOrganizationRoutes(api, organizationController)
	route.SetupCatalogRoutes(api, catalogController)
	route.SetupCashierRoutes(api, cashierController)
	route.SetupSaleRoutes(api, saleController)
	route.SetupLedgerRoutes(api, ledgerController)
	route.SetupReportRoutes(api, reportController)

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	return &App{
		router: router,
		db:     db,
		log:    log,
	}, nil
}

// Start inicia o servidor HTTP
func (a *App) Start(addr string) error {
	a.log.Info("servidor iniciado", "addr", addr)
	return a.router.Run(addr)
}

// Close libera os recursos da aplicação
func (a *App) Close() {
	a.db.Close()
}
