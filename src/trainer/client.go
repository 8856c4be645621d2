package trainer

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/jiaming2012/trainer-otel/src/propagator"
)

const tracerName = "github.com/jiaming2012/trainer-otel/src/trainer"

type TrainRequest struct {
	TrainerFunc string
	ModelName   string
}

// TrainResult carries the opaque job id returned by the submitter plus
// the env-var carrier captured while the submit span was active. PodEnv
// is what a deployment step merges into the Pod spec so the remote
// training job continues the same trace.
type TrainResult struct {
	JobID  string
	PodEnv map[string]string
}

// Client instruments training-job submission with a span per Train call.
// It depends only on the OpenTelemetry API: with no TracerProvider
// configured the no-op tracer is used and Train still works, producing an
// empty carrier.
type Client struct {
	tracer    trace.Tracer
	submitter JobSubmitter
}

type ClientOption func(*Client)

func WithTracerProvider(tp trace.TracerProvider) ClientOption {
	return func(c *Client) {
		c.tracer = tp.Tracer(tracerName)
	}
}

func WithSubmitter(submitter JobSubmitter) ClientOption {
	return func(c *Client) {
		c.submitter = submitter
	}
}

func NewClient(opts ...ClientOption) *Client {
	client := &Client{}

	for _, opt := range opts {
		opt(client)
	}

	if client.tracer == nil {
		client.tracer = otel.Tracer(tracerName)
	}

	if client.submitter == nil {
		client.submitter = &simulatedSubmitter{}
	}

	return client
}

// Train submits a training job, recording the submission as a span. The
// span is a child of whatever span context ctx carries; with no parent a
// fresh trace is started. The only error surfaced to the caller is a
// submitter failure, which is also recorded on the span as status Error.
func (c *Client) Train(ctx context.Context, req TrainRequest) (TrainResult, error) {
	if req.TrainerFunc == "" {
		return TrainResult{}, fmt.Errorf("Train: missing trainer func")
	}

	if req.ModelName == "" {
		return TrainResult{}, fmt.Errorf("Train: missing model name")
	}

	ctx, span := c.tracer.Start(ctx, "trainer.submit_job", trace.WithAttributes(
		attribute.String("gen_ai.request.model", req.ModelName),
		attribute.String("gen_ai.system", "kubeflow-training"),
		attribute.String("kubeflow.job_type", "PyTorchJob"),
		attribute.String("kubeflow.trainer_func", req.TrainerFunc),
	))

	defer span.End()

	podEnv := propagator.InjectEnv(ctx)

	logger := log.WithContext(ctx)
	logger.Infof("submitting job for model '%v'", req.ModelName)

	if traceparent, found := podEnv[propagator.TraceparentEnvVar]; found {
		logger.Infof("injecting TRACEPARENT: %v", traceparent)
	}

	jobID, err := c.submitter.Submit(ctx, req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "job submission failed")
		return TrainResult{}, fmt.Errorf("Train: failed to submit job: %w", err)
	}

	span.SetAttributes(attribute.String("kubeflow.job_id", jobID))
	span.SetStatus(codes.Ok, "job submitted")

	return TrainResult{
		JobID:  jobID,
		PodEnv: podEnv,
	}, nil
}
