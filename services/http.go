package services

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/alphabatem/common/context"
	"github.com/bytedance/sonic"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/swagger"
	log "github.com/sirupsen/logrus"

	_ "github.com/shawnadoherty9/travelogie-sub001/docs"
	"github.com/shawnadoherty9/travelogie-sub001/services/handlers"
	"github.com/shawnadoherty9/travelogie-sub001/shared"
)

type HttpService struct {
	context.DefaultService

	authSvc       *AuthMiddleware
	rateLimitSvc  *RateLimitService
	importSvc     *ImportService
	monitoringSvc *MonitoringService

	port int
	app  *fiber.App
}

const HTTP_SVC = "http_svc"

func (svc HttpService) Id() string {
	return HTTP_SVC
}

func (svc *HttpService) Configure(ctx *context.Context) error {
	if port := os.Getenv("HTTP_PORT"); port != "" {
		var err error
		if svc.port, err = strconv.Atoi(port); err != nil {
			return err
		}
	} else {
		svc.port = 8000
	}

	return svc.DefaultService.Configure(ctx)
}

func (svc *HttpService) Start() error {
	svc.authSvc = svc.Service(AUTH_MIDDLEWARE_SVC).(*AuthMiddleware)
	svc.rateLimitSvc = svc.Service(RATE_LIMIT_SVC).(*RateLimitService)
	svc.importSvc = svc.Service(IMPORT_SVC).(*ImportService)
	if monitoringSvc, ok := svc.Service(MONITORING_SVC).(*MonitoringService); ok {
		svc.monitoringSvc = monitoringSvc
	}

	svc.app = NewFiberApp()

	if svc.monitoringSvc != nil {
		svc.app.Use(MonitoringMiddleware(svc.monitoringSvc))
	}
	if os.Getenv("LOG_LEVEL") == "TRACE" {
		svc.app.Use(logger.New())
	}

	svc.registerRoutes()

	log.WithField("port", svc.port).Info("HTTP server starting")
	return svc.app.Listen(fmt.Sprintf(":%v", svc.port))
}

func (svc *HttpService) Shutdown() {
	if svc.app != nil {
		_ = svc.app.Shutdown()
	}
}

// NewFiberApp builds the app with the JSON codec, error rendering and the
// middleware every route shares.
func NewFiberApp() *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               SERVICE_NAME,
		DisableStartupMessage: true,
		JSONEncoder:           sonic.Marshal,
		JSONDecoder:           sonic.Unmarshal,
		BodyLimit:             32 << 20,
		ErrorHandler:          ErrorHandler,
	})

	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization, " + AdminKeyHeader,
	}))

	return app
}

func (svc *HttpService) registerRoutes() {
	rateLimitHandler := handlers.NewRateLimitHandler(svc.rateLimitSvc)
	importHandler := handlers.NewImportHandler(svc.importSvc)

	//Validation endpoints
	svc.app.Get("/ping", svc.ping)
	svc.app.Get("/swagger/*", swagger.HandlerDefault)

	v1 := svc.app.Group("/api/v1", svc.authSvc.OptionalAuth())
	v1.Get("/ping", svc.ping)
	v1.Post("/rate-limit/check", rateLimitHandler.Check)

	admin := v1.Group("/admin",
		svc.authSvc.RequireAdmin(),
		svc.rateLimitSvc.RateLimit(shared.EndpointAPIGeneral),
	)

	imports := admin.Group("/import", svc.rateLimitSvc.RateLimit(shared.EndpointPOIImport))
	imports.Post("/csv", importHandler.ImportCSV)
	imports.Post("/rows", importHandler.ImportRows)
	imports.Post("/object", importHandler.ImportObject)

	admin.Get("/rate-limits", rateLimitHandler.ListConfigs)
	admin.Get("/rate-limits/stats", rateLimitHandler.Stats)
	admin.Put("/rate-limits/:endpoint", rateLimitHandler.UpdateConfig)
	admin.Delete("/rate-limits/:identifier/:endpoint", rateLimitHandler.Reset)

	svc.app.Use(func(c *fiber.Ctx) error {
		return shared.NewNotFoundError(nil, "Page not found")
	})
}

// @Summary Ping
// @Description This endpoint checks the health of the service
// @Tags health
// @Accept  json
// @Produce json
// @Success 200 {object} shared.Response{data=string}
// @Router /ping [get]
func (svc *HttpService) ping(c *fiber.Ctx) error {
	c.Set(fiber.HeaderCacheControl, "max-age=10")

	return shared.ResponseOK(c, "pong")
}

// ErrorHandler renders handler errors in the response envelope.
func ErrorHandler(c *fiber.Ctx, err error) error {
	if appErr, ok := shared.GetAppError(err); ok {
		if appErr.StatusCode >= fiber.StatusInternalServerError {
			log.WithError(err).WithField("path", c.Path()).Error("Request failed")
		}
		return shared.ResponseJSON(c, appErr.StatusCode, appErr.Message, appErr.Data)
	}

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return shared.ResponseJSON(c, fiberErr.Code, fiberErr.Message, nil)
	}

	log.WithError(err).WithField("path", c.Path()).Error("Unhandled request error")
	internal := shared.NewInternalError(err)
	return shared.ResponseJSON(c, internal.StatusCode, internal.Message, nil)
}
