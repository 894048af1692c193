package main

import (
	"context"
	"os"

	"binregistry/cmd/internal/domain/sqlite"
	"binregistry/cmd/internal/domain/sqlite/repository"
	handler2 "binregistry/cmd/internal/http/handler"
	"binregistry/cmd/internal/infrastructure/aws/storage"
	"binregistry/cmd/internal/infrastructure/prgapp"
	"binregistry/cmd/internal/service"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"
)

const envVarsPrefix = "/binregistry/prod/"

func main() {
	validate := validator.New()

	// Loads env vars depending on environment
	if os.Getenv("GO_ENV") == "production" {
		loadProdEnv() // AWS SSM Parameter Store
	} else {
		// Loads from .env
		err := godotenv.Load()
		if err != nil {
			panic(err)
		}
	}

	// Init SQLite
	db, err := sqlite.Init()
	if err != nil {
		panic(err)
	}

	// Init registry source client
	registryClient := prgapp.NewClient(os.Getenv("PRGAPP_BASE_URL"))

	// Init S3 client
	s3Client, err := storage.NewStorageClient()
	if err != nil {
		panic(err)
	}

	// Getting repos
	companyRepo := repository.NewCompanyRepository(db)
	classifierRepo := repository.NewClassifierRepository(db)
	programRepo := repository.NewProgramRepository(db)

	// Getting services
	loaderService := service.NewLoaderService(db, registryClient, validate)
	companyService := service.NewCompanyService(companyRepo, classifierRepo, programRepo, validate)
	catalogService := service.NewCatalogService(classifierRepo, programRepo)
	exportService := service.NewExportService(companyRepo, classifierRepo, programRepo, s3Client, validate)

	// Getting handlers
	loaderRoutes := handler2.NewLoaderRoute(loaderService)
	companyRoutes := handler2.NewCompanyRoute(companyService)
	catalogRoutes := handler2.NewCatalogRoute(catalogService)
	exportRoutes := handler2.NewExportRoute(exportService)

	e := echo.New()
	e.Use(middleware.CORS())
	e.Use(middleware.BodyLimit("5M"))

	// Companies
	e.POST("/api/companies/load", loaderRoutes.LoadCompany)
	e.GET("/api/companies", companyRoutes.GetCompanies)
	e.GET("/api/companies/:bin", companyRoutes.GetCompany)
	e.POST("/api/companies/export", exportRoutes.ExportCompanies)

	// Filter catalogs
	e.GET("/api/classifiers/:taxonomy/options", catalogRoutes.GetDrilldownOptions)
	e.GET("/api/programs/options", catalogRoutes.GetProgramOptions)

	// Docker Compose healthcheck
	e.GET("/health", healthCheckRoute)

	if err := e.Start(":7070"); err != nil {
		panic(err)
	}
}

func loadProdEnv() {
	ctx := context.Background()
	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion("us-east-2"))
	if err != nil {
		log.Fatalf("unable to load SDK config, %v", err)
	}

	client := ssm.NewFromConfig(cfg)
	out, err := client.GetParametersByPath(ctx, &ssm.GetParametersByPathInput{
		Path:           aws.String(envVarsPrefix),
		WithDecryption: aws.Bool(true),
		Recursive:      aws.Bool(true),
	})
	if err != nil {
		log.Fatalf("unable to load prod environment, %v", err)
	}

	prefixLength := len(envVarsPrefix)
	// Export vars
	for _, param := range out.Parameters {
		key := (*param.Name)[prefixLength:]
		value := *param.Value
		enverr := os.Setenv(key, value)
		if enverr != nil {
			log.Fatalf("unable to set environment variable, %v", enverr)
		}
	}
	log.Debugf("loaded %d prod environment variables", len(out.Parameters))
}

func healthCheckRoute(c echo.Context) error {
	return c.String(200, "OK")
}
