package main

import (
	"context"
	"net/http"
	"os"

	"github.com/bufbuild/connect-go"
	"github.com/tierklinik-dobersberg/apis/pkg/cors"
	"github.com/tierklinik-dobersberg/apis/pkg/discovery"
	"github.com/tierklinik-dobersberg/apis/pkg/discovery/consuldiscover"
	"github.com/tierklinik-dobersberg/apis/pkg/log"
	"github.com/tierklinik-dobersberg/apis/pkg/server"
	"github.com/tierklinik-dobersberg/markdown-service/internal/config"
	"github.com/tierklinik-dobersberg/markdown-service/internal/service"
)

func main() {
	ctx := context.Background()

	logger := log.L(ctx)

	var cfgFilePath string
	if len(os.Args) > 1 {
		cfgFilePath = os.Args[1]
	}

	cfg, err := config.LoadConfig(ctx, cfgFilePath)
	if err != nil {
		logger.Fatalf("failed to load configuration: %s", err)
	}
	logger.Infof("configuration loaded successfully")

	providers, err := config.NewProviders(ctx, *cfg)
	if err != nil {
		logger.Fatalf("failed to prepare providers: %s", err)
	}
	defer providers.Close(ctx)

	logger.Infof("application providers prepared successfully")

	// requests are validated by the handlers while decoding
	interceptors := connect.WithInterceptors(
		log.NewLoggingInterceptor(),
	)

	corsConfig := cors.Config{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowCredentials: true,
	}

	// Prepare our servemux and add handlers.
	serveMux := http.NewServeMux()

	svc := service.New(providers)
	svc.Register(serveMux, interceptors)

	// Register at service catalog
	if cfg.RegisterService {
		catalog, err := consuldiscover.NewFromEnv()
		if err != nil {
			logger.Fatalf("failed to get service catalog client: %s", err)
		}

		if err := discovery.Register(ctx, catalog, &discovery.ServiceInstance{
			Name:    service.ServiceName,
			Address: cfg.ListenAddress,
		}); err != nil {
			logger.Errorf("failed to register markdown service at service catalog: %s", err)
		}
	}

	// Create the server
	srv := server.Create(cfg.ListenAddress, cors.Wrap(corsConfig, serveMux))

	logger.Infof("HTTP/2 server (h2c) prepared successfully, starting to listen on %s ...", cfg.ListenAddress)

	if err := server.Serve(ctx, srv); err != nil {
		logger.Fatalf("failed to serve: %s", err)
	}
}
