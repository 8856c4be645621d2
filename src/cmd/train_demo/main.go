package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/jiaming2012/trainer-otel/src/telemetry"
	"github.com/jiaming2012/trainer-otel/src/trainer"
	"github.com/jiaming2012/trainer-otel/src/utils"
)

type RunArgs struct {
	GoEnv       string
	ConfigFile  string
	ModelName   string
	TrainerFunc string
}

var runCmd = &cobra.Command{
	Use:   "go run src/cmd/train_demo/main.go --model qwen-7b --trainer-func my_lora_script.py",
	Short: "Submit a demo fine-tuning job with trace propagation",
	Run: func(cmd *cobra.Command, args []string) {
		goEnv, err := cmd.Flags().GetString("go-env")
		if err != nil {
			log.Fatalf("error getting go-env: %v", err)
		}

		configFile, err := cmd.Flags().GetString("config")
		if err != nil {
			log.Fatalf("error getting config: %v", err)
		}

		modelName, err := cmd.Flags().GetString("model")
		if err != nil {
			log.Fatalf("error getting model: %v", err)
		}

		trainerFunc, err := cmd.Flags().GetString("trainer-func")
		if err != nil {
			log.Fatalf("error getting trainer-func: %v", err)
		}

		if err := Run(RunArgs{
			GoEnv:       goEnv,
			ConfigFile:  configFile,
			ModelName:   modelName,
			TrainerFunc: trainerFunc,
		}); err != nil {
			log.Errorf("Error: %v", err)
		}
	},
}

func Run(args RunArgs) (err error) {
	// Handle SIGINT (CTRL+C) gracefully.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if projectsDir := os.Getenv("PROJECTS_DIR"); projectsDir != "" {
		if err := utils.InitEnvironmentVariables(projectsDir, args.GoEnv); err != nil {
			log.Warnf("error loading environment variables: %v", err)
		}
	}

	cfg := telemetry.ConfigFromEnv("trainer-otel-demo")
	if args.ConfigFile != "" {
		cfg, err = telemetry.LoadConfig(args.ConfigFile)
		if err != nil {
			return fmt.Errorf("Run: failed to load telemetry config: %w", err)
		}
	}

	otelShutdown, err := telemetry.Setup(ctx, cfg)
	if err != nil {
		return fmt.Errorf("Run: failed to set up telemetry: %w", err)
	}

	// Flush all spans before exit.
	defer func() {
		err = errors.Join(err, otelShutdown(context.Background()))
	}()

	appTracer := otel.Tracer("trainer-otel-demo")

	ctx, workflowSpan := appTracer.Start(ctx, "fine_tune_workflow", trace.WithAttributes(
		attribute.String("workflow.name", "llm-fine-tuning"),
	))

	defer workflowSpan.End()

	client := trainer.NewClient()

	result, err := client.Train(ctx, trainer.TrainRequest{
		TrainerFunc: args.TrainerFunc,
		ModelName:   args.ModelName,
	})

	if err != nil {
		return fmt.Errorf("Run: failed to submit training job: %w", err)
	}

	log.Infof("job submitted: %v", result.JobID)
	log.Infof("pod env: %v", result.PodEnv)

	workflowSpan.SetAttributes(
		attribute.Int("gen_ai.usage.input_tokens", 1024),
		attribute.Int("gen_ai.usage.output_tokens", 256),
	)

	workflowSpan.AddEvent("Fine-tuning started", trace.WithAttributes(
		attribute.String("gen_ai.request.model", args.ModelName),
	))

	return nil
}

func main() {
	runCmd.Flags().String("go-env", "development", "The go environment to run the command in")
	runCmd.Flags().String("config", "", "Path to a telemetry YAML config file")
	runCmd.Flags().String("model", "qwen-7b", "Model to fine-tune")
	runCmd.Flags().String("trainer-func", "my_lora_script.py", "Training script to run on the remote side")

	if err := runCmd.Execute(); err != nil {
		log.Fatal(err)
	}
}
