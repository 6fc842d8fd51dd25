package main

import (
	"os"

	log "github.com/sirupsen/logrus"

	"github.com/ssokit/slogate/internal/otel"
	"github.com/ssokit/slogate/pkg/api"
	"github.com/ssokit/slogate/pkg/config"
	"github.com/ssokit/slogate/pkg/metrics"
	"github.com/ssokit/slogate/pkg/server"
	"github.com/ssokit/slogate/pkg/service"
	"github.com/ssokit/slogate/pkg/slo"
	"github.com/ssokit/slogate/pkg/ticket"
	urlpkg "github.com/ssokit/slogate/pkg/url"
)

func run() error {
	cfg, err := config.Initialize()
	if err != nil {
		return err
	}

	otel.Setup()

	registeredServices, aliases, err := service.LoadRegistry(cfg.Services.RegistryFile)
	if err != nil {
		return err
	}

	registry, err := ticket.NewRegistry(cfg)
	if err != nil {
		return err
	}

	messageHandler := slo.NewMessageHandler(
		service.NewManager(registeredServices),
		service.NewAliasSelectionStrategy(aliases),
		slo.NewURLBuilder(urlpkg.NewAbsoluteValidator(cfg.SLO.AllowedDomains)),
		slo.NewMessageCreator(),
		slo.NewDispatcher(cfg.SLO.Timeout),
		cfg.SLO.Asynchronous,
	)

	plan := slo.NewExecutionPlan()
	plan.RegisterHandler(messageHandler)
	plan.RegisterPostProcessor(slo.NewDescendantTicketsPostProcessor(registry))

	manager := slo.NewManager(plan, slo.NewMessageCreator(), cfg.SLO.Disabled, cfg.SLO.Parallelism)

	go func() {
		err := metrics.Handle(cfg.MetricsBindAddress)
		if err != nil {
			log.Fatalf("fatal: metrics server error: %+v", err)
		}
	}()

	router := api.Router(api.New(manager, registry))

	log.Infof("listening on %s", cfg.BindAddress)
	return server.Start(cfg, router)
}

func main() {
	err := run()
	if err != nil {
		log.Errorf("Fatal error: %+v", err)
		os.Exit(1)
	}
}
