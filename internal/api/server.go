package api

import (
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	swaggerfiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"

	"github.com/lets-assist/api/docs"
	v1 "github.com/lets-assist/api/internal/api/handler/v1"
	"github.com/lets-assist/api/internal/api/middleware"
	"github.com/lets-assist/api/internal/config"
	"github.com/lets-assist/api/internal/pkg/mailer"
	"github.com/lets-assist/api/internal/repository"
	"github.com/lets-assist/api/internal/repository/dao"
	"github.com/lets-assist/api/internal/service"
)

type Server struct {
	Config *config.AppConfig
	Router *gin.Engine
}

func NewServer(conf *config.AppConfig, db *gorm.DB) *Server {
	gin.SetMode(conf.Gin.Mode)
	engine := gin.New()

	s := &Server{
		Config: conf,
		Router: engine,
	}

	s.MountMiddlewares()

	authHandler := s.initAuthHandler(db)
	userHandler := s.initUserHandler(db)
	projectHandler := s.initProjectHandler(db)
	signupHandler := s.initSignupHandler(db)
	attendanceHandler := s.initAttendanceHandler(db)
	confirmationHandler := s.initConfirmationHandler(db)
	dashboardHandler := s.initDashboardHandler(db)
	certificateHandler := s.initCertificateHandler(db)
	s.MountHandlers(
		authHandler,
		userHandler,
		projectHandler,
		signupHandler,
		attendanceHandler,
		confirmationHandler,
		dashboardHandler,
		certificateHandler,
	)

	return s
}

func (s *Server) initAuthHandler(db *gorm.DB) *v1.AuthHandler {
	userDAO := dao.NewUserDAO(db)
	repo := repository.NewUserRepository(userDAO)
	svc := service.NewAuthService(repo)
	handler := v1.NewAuthHandler(s.Config.API, svc)

	return handler
}

func (s *Server) initUserHandler(db *gorm.DB) *v1.UserHandler {
	userDAO := dao.NewUserDAO(db)
	repo := repository.NewUserRepository(userDAO)
	svc := service.NewUserService(repo)
	handler := v1.NewUserHandler(svc)

	return handler
}

func (s *Server) initProjectHandler(db *gorm.DB) *v1.ProjectHandler {
	repo := repository.NewProjectRepository(dao.NewProjectDAO(db))
	signupRepo := repository.NewSignupRepository(dao.NewSignupDAO(db))
	userRepo := repository.NewUserRepository(dao.NewUserDAO(db))
	certRepo := repository.NewCertificateRepository(dao.NewCertificateDAO(db))
	svc := service.NewProjectService(repo, signupRepo, userRepo, certRepo)
	uSvc := service.NewUserService(repository.NewUserRepository(dao.NewUserDAO(db)))
	handler := v1.NewProjectHandler(svc, uSvc)

	return handler
}

func (s *Server) initSignupHandler(db *gorm.DB) *v1.SignupHandler {
	repo := repository.NewSignupRepository(dao.NewSignupDAO(db))
	projectRepo := repository.NewProjectRepository(dao.NewProjectDAO(db))
	m := mailer.New(s.Config.Mail, s.Config.API.BaseURL)
	svc := service.NewSignupService(repo, projectRepo, m)
	uSvc := service.NewUserService(repository.NewUserRepository(dao.NewUserDAO(db)))
	handler := v1.NewSignupHandler(svc, uSvc)

	return handler
}

func (s *Server) initAttendanceHandler(db *gorm.DB) *v1.AttendanceHandler {
	signupRepo := repository.NewSignupRepository(dao.NewSignupDAO(db))
	projectRepo := repository.NewProjectRepository(dao.NewProjectDAO(db))
	userRepo := repository.NewUserRepository(dao.NewUserDAO(db))
	lookupSvc := service.NewLookupService(userRepo, signupRepo)
	svc := service.NewAttendanceService(signupRepo)
	m := mailer.New(s.Config.Mail, s.Config.API.BaseURL)
	signupSvc := service.NewSignupService(signupRepo, projectRepo, m)
	handler := v1.NewAttendanceHandler(lookupSvc, svc, signupSvc, s.Config.API.JWTSigningKey)

	return handler
}

func (s *Server) initConfirmationHandler(db *gorm.DB) *v1.ConfirmationHandler {
	repo := repository.NewSignupRepository(dao.NewSignupDAO(db))
	svc := service.NewConfirmationService(repo)
	handler := v1.NewConfirmationHandler(svc)

	return handler
}

func (s *Server) initDashboardHandler(db *gorm.DB) *v1.DashboardHandler {
	signupRepo := repository.NewSignupRepository(dao.NewSignupDAO(db))
	projectRepo := repository.NewProjectRepository(dao.NewProjectDAO(db))
	svc := service.NewDashboardService(signupRepo, projectRepo)
	uSvc := service.NewUserService(repository.NewUserRepository(dao.NewUserDAO(db)))
	handler := v1.NewDashboardHandler(svc, uSvc)

	return handler
}

func (s *Server) initCertificateHandler(db *gorm.DB) *v1.CertificateHandler {
	repo := repository.NewCertificateRepository(dao.NewCertificateDAO(db))
	svc := service.NewCertificateService(repo)
	uSvc := service.NewUserService(repository.NewUserRepository(dao.NewUserDAO(db)))
	handler := v1.NewCertificateHandler(svc, uSvc)

	return handler
}

func (s *Server) MountMiddlewares() {
	// Logger and Recovery are needed unless we use gin.Default().
	s.Router.Use(gin.Logger())
	s.Router.Use(gin.Recovery())
	s.Router.Use(requestid.New())
	s.Router.Use(middleware.ConfigCORS(s.Config.API.AllowedCORSDomains))
}

func (s *Server) MountHandlers(
	authHandler *v1.AuthHandler,
	userHandler *v1.UserHandler,
	projectHandler *v1.ProjectHandler,
	signupHandler *v1.SignupHandler,
	attendanceHandler *v1.AttendanceHandler,
	confirmationHandler *v1.ConfirmationHandler,
	dashboardHandler *v1.DashboardHandler,
	certificateHandler *v1.CertificateHandler,
) {
	const basePath = "/api/v1"

	public := s.Router.Group(basePath)
	{
		public.POST("/auth/signup", authHandler.HandleSignup)
		public.POST("/auth/login", authHandler.HandleLogin)

		public.GET("/projects", projectHandler.HandleGetProjects)
		public.GET("/projects/:projectID", projectHandler.HandleGetProject)

		// Kiosk and self-service attendance flows work without an account.
		public.POST("/projects/:projectID/schedules/:scheduleID/lookup", attendanceHandler.HandleLookupEmail)
		public.POST("/projects/:projectID/schedules/:scheduleID/checkin/anonymous", attendanceHandler.HandleCheckInAnonymous)
		public.POST("/projects/:projectID/schedules/:scheduleID/signup/anonymous", signupHandler.HandleSignupAnonymous)
		public.GET("/anonymous/:anonymousID/confirm", confirmationHandler.HandleConfirm)
		public.POST("/attendance/checkin/qr", attendanceHandler.HandleCheckInQR)

		public.GET("/certificates/:certificateID", certificateHandler.HandleGetCertificate)
	}

	authed := s.Router.Group(basePath, middleware.NewAuthenticator(s.Config.API.JWTSigningKey).VerifyJWT())
	{
		authed.GET("/users/:userID", userHandler.HandleGetUser)
		authed.GET("/dashboard", dashboardHandler.HandleGetDashboard)

		authed.POST("/projects", projectHandler.HandleCreateProject)
		authed.DELETE("/projects/:projectID", projectHandler.HandleCancelProject)
		authed.POST("/projects/:projectID/schedules/:scheduleID/signup", signupHandler.HandleSignupRegistered)
		authed.POST("/projects/:projectID/schedules/:scheduleID/publish", projectHandler.HandlePublishHours)
		authed.GET("/projects/:projectID/schedules/:scheduleID/signups", signupHandler.HandleGetSignupsBySchedule)

		authed.POST("/signups/:signupID/approve", signupHandler.HandleApproveSignup)
		authed.POST("/signups/:signupID/reject", signupHandler.HandleRejectSignup)
		authed.POST("/signups/:signupID/checkin", attendanceHandler.HandleCheckInSignup)
		authed.GET("/signups/:signupID/checkin-token", attendanceHandler.HandleGetCheckInToken)

		authed.GET("/certificates", certificateHandler.HandleGetMyCertificates)
	}

	s.Router.GET("/", v1.HandleHealthcheck)

	// Setup Swagger UI.
	docs.SwaggerInfo.Host = s.Config.API.BaseURL
	docs.SwaggerInfo.BasePath = basePath
	docs.SwaggerInfo.Title = "Let's Assist API"
	docs.SwaggerInfo.Description = "Volunteer project coordination: signups, attendance and volunteer hours."
	docs.SwaggerInfo.Version = "1.0"
	s.Router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerfiles.Handler))
}
