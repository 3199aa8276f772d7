package bootstrap

import (
	firebaseauth "firebase.google.com/go/v4/auth"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	httpapi "github.com/roomify-labs/roomify-backend/internal/api/http"
	apimw "github.com/roomify-labs/roomify-backend/internal/api/http/middleware"
	"github.com/roomify-labs/roomify-backend/internal/auth"
	authmw "github.com/roomify-labs/roomify-backend/internal/auth/middleware"
	"github.com/roomify-labs/roomify-backend/internal/generation"
	"github.com/roomify-labs/roomify-backend/internal/hosting"
	"github.com/roomify-labs/roomify-backend/internal/imaging"
	projhttp "github.com/roomify-labs/roomify-backend/internal/projects/http"
	"github.com/roomify-labs/roomify-backend/internal/projects/repository"
	projsvc "github.com/roomify-labs/roomify-backend/internal/projects/service"
	"github.com/roomify-labs/roomify-backend/internal/viewer"
	viewerhttp "github.com/roomify-labs/roomify-backend/internal/viewer/http"

	"github.com/roomify-labs/roomify-backend/config"
)

type RouterDeps struct {
	ServiceName string
	Version     string
	Config      *config.Config
	KV          *redis.Client
	AuthClient  *firebaseauth.Client
	Backend     hosting.Backend
	Generator   viewer.Generator
}

func BuildRouter(dep RouterDeps) *gin.Engine {
	r := gin.Default()

	corsCfg := cors.DefaultConfig()
	if len(dep.Config.Server.CORSOrigins) == 1 && dep.Config.Server.CORSOrigins[0] == "*" {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = dep.Config.Server.CORSOrigins
	}
	corsCfg.AllowHeaders = append(corsCfg.AllowHeaders, "Authorization", "X-User-Id", "X-Request-Id")
	r.Use(cors.New(corsCfg))

	healthHandler := httpapi.NewHealthHandler(dep.ServiceName, dep.Version, dep.KV)
	healthHandler.RegisterRoutes(r)

	converter := imaging.NewConverter()
	configRepo := hosting.NewConfigRepository(dep.KV)
	manager := hosting.NewManager(configRepo, dep.Backend, dep.Config.Hosting.RootDir, dep.Config.Hosting.DomainSuffix)
	uploader := hosting.NewUploader(dep.Backend, converter)

	projectRepo := repository.NewProjectRepository(dep.KV)
	projectService := projsvc.NewProjectService(projectRepo, manager, uploader)

	generator := dep.Generator
	if generator == nil {
		generator = generation.NewClient(&dep.Config.Generation, converter)
	}
	viewerService := viewer.NewService(projectService, generator, manager, uploader)
	viewer.NewJanitor(viewerService).Start()

	api := r.Group("/api")
	api.Use(apimw.RequestIDMiddleware())

	if dep.AuthClient != nil {
		api.Use(authmw.FirebaseAuthMiddleware(dep.AuthClient))
	} else if dep.Config.Firebase.DevBypass {
		api.Use(auth.DevUser())
	}

	projhttp.NewHandler(projectService).Register(api.Group("/projects"))
	viewerhttp.NewHandler(viewerService).Register(api.Group("/viewer"))

	return r
}
