package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/tmc/langchaingo/llms/openai"

	"github.com/flux690/nightwatch/internal/capability"
	"github.com/flux690/nightwatch/internal/config"
	"github.com/flux690/nightwatch/internal/human"
	"github.com/flux690/nightwatch/internal/knowledge"
	"github.com/flux690/nightwatch/internal/observer"
	"github.com/flux690/nightwatch/internal/orchestrator"
	"github.com/flux690/nightwatch/internal/reasoner"
	"github.com/flux690/nightwatch/internal/runtime"
	"github.com/flux690/nightwatch/internal/topology"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Watch container logs and resolve incidents",
	RunE:  runRun,
}

func runRun(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return err
	}
	if modeOverride != "" {
		cfg.Mode = config.Mode(modeOverride)
		if err := cfg.Validate(); err != nil {
			return err
		}
	}

	known, err := topology.Load(topologyFile)
	if err != nil {
		return fmt.Errorf("loading topology: %w", err)
	}

	store := knowledge.Open(knowledgeFile)

	dialog, err := human.NewDialog()
	if err != nil {
		return fmt.Errorf("opening terminal dialog: %w", err)
	}
	defer dialog.Close()

	dockerRuntime, err := runtime.NewDockerRuntime()
	if err != nil {
		return fmt.Errorf("connecting to container runtime: %w", err)
	}

	if viper.GetString("OPENAI_API_KEY") == "" {
		return fmt.Errorf("OPENAI_API_KEY not found in environment")
	}
	modelID := viper.GetString("NIGHTWATCH_MODEL")
	if modelID == "" {
		modelID = "gpt-4o"
	}
	model, err := openai.New(openai.WithModel(modelID))
	if err != nil {
		return fmt.Errorf("initializing reasoner model: %w", err)
	}
	gateway := reasoner.NewGateway(model, logger)

	deps := capability.Deps{
		Reasoner:  gateway,
		Runtime:   dockerRuntime,
		Knowledge: store,
		Human:     dialog,
		Known:     known,
		Logger:    logger,
	}
	orch := orchestrator.New(cfg.Mode, gateway, deps, logger)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	containers := make([]string, 0, len(known))
	for name := range known {
		containers = append(containers, name)
	}

	events := make(chan observer.LogEvent, 256)
	go observer.StreamContainers(ctx, dockerRuntime, containers, events)

	done := make(chan struct{})
	coordinator := observer.NewCoordinator(events, 5*time.Second, func(batch observer.Batch) {
		logger.Infof("incident batch triggered: %d events across %v", len(batch.Logs), batch.Containers)
		result := orch.Resolve(context.WithoutCancel(ctx), batch, cfg.Constraints.MaxActionsPerIncident)
		logger.Infof("incident resolution: %s", result.Resolution)
	})

	go func() {
		<-ctx.Done()
		close(done)
	}()

	coordinator.Run(done)
	return nil
}
