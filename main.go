package main

import (
	"fmt"
	"net/http"
	"time"

	"neoevents/auth"
	"neoevents/config"
	"neoevents/controllers"
	"neoevents/database"
	"neoevents/mailer"
	"neoevents/repositories"
	"neoevents/services"

	restfulspec "github.com/emicklei/go-restful-openapi/v2"
	restful "github.com/emicklei/go-restful/v3"
	"github.com/go-openapi/spec"
	"go.uber.org/zap"
)

// Request logging filter
func requestLogger(logger *zap.Logger) restful.FilterFunction {
	return func(req *restful.Request, resp *restful.Response, chain *restful.FilterChain) {
		startTime := time.Now()

		chain.ProcessFilter(req, resp)

		logger.Info("Request",
			zap.String("client_ip", req.Request.RemoteAddr),
			zap.String("method", req.Request.Method),
			zap.Int("status_code", resp.StatusCode()),
			zap.Duration("latency", time.Since(startTime)),
			zap.String("user_agent", req.Request.UserAgent()),
			zap.String("path", req.Request.URL.Path),
		)
	}
}

func enrichSwaggerObject(swo *spec.Swagger) {
	swo.Info = &spec.Info{
		InfoProps: spec.InfoProps{
			Title:       "NeoEvents API",
			Description: "Events listing backend for Montenegro",
			Version:     "1.0",
		},
	}
}

func main() {
	// Initialize configs
	config.InitConfig()

	var logger *zap.Logger
	switch config.AppConfig.LogLevel {
	case "debug":
		logger, _ = zap.NewDevelopment()
	default:
		logger, _ = zap.NewProduction()
	}
	defer logger.Sync() // Make sure the buffer is flushed before the program exits

	auth.SetSigningKey([]byte(config.AppConfig.JwtSecret))

	db := database.InitDB()

	userRepo := repositories.NewUserRepository(db)
	eventRepo := repositories.NewEventRepository(db)

	currentUserService := services.NewCurrentUserService(userRepo,
		config.AppConfig.CurrentUserCacheSize, config.AppConfig.CurrentUserCacheTTL)
	authService := services.NewAuthService(userRepo, currentUserService)
	userService := services.NewUserService(userRepo, currentUserService)
	eventService := services.NewEventService(eventRepo)
	saveEventService := services.NewSaveEventService(userRepo, eventRepo, currentUserService)
	attendEventService := services.NewAttendEventService(userRepo, eventRepo, currentUserService)

	smtpSender := mailer.NewSMTPSender(config.AppConfig.SMTPHost, config.AppConfig.SMTPPort,
		config.AppConfig.SMTPUsername, config.AppConfig.SMTPPassword)
	submitEventService := services.NewSubmitEventService(smtpSender, config.AppConfig.AdminEmail, logger)

	authController := controllers.NewAuthController(authService)
	eventController := controllers.NewEventController(eventService)
	userController := controllers.NewUserController(userService, currentUserService,
		saveEventService, attendEventService, submitEventService)

	container := restful.NewContainer()
	// The curly router resolves mixed static and {parameter} paths such as
	// /user/current next to /user/{user-id}.
	container.Router(restful.CurlyRouter{})
	container.Filter(requestLogger(logger))
	container.RecoverHandler(func(panicReason interface{}, httpWriter http.ResponseWriter) {
		logger.Error("Recovered from panic", zap.Any("reason", panicReason))
		httpWriter.WriteHeader(http.StatusInternalServerError)
	})

	authWS := new(restful.WebService)
	authController.RegisterRoutes(authWS)
	container.Add(authWS)

	eventWS := new(restful.WebService)
	eventController.RegisterRoutes(eventWS)
	container.Add(eventWS)

	userWS := new(restful.WebService)
	userController.RegisterRoutes(userWS)
	container.Add(userWS)

	swaggerConfig := restfulspec.Config{
		WebServices:                   container.RegisteredWebServices(),
		APIPath:                       "/apidocs.json",
		PostBuildSwaggerObjectHandler: enrichSwaggerObject,
	}
	container.Add(restfulspec.NewOpenAPIService(swaggerConfig))

	addr := fmt.Sprintf(":%d", config.AppConfig.HTTPPort)
	logger.Info("Starting server", zap.String("addr", addr))
	if err := http.ListenAndServe(addr, container); err != nil {
		logger.Fatal("Failed to start server", zap.Error(err))
	}
}
