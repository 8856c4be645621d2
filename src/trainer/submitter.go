package trainer

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// JobSubmitter is the boundary to the actual job-submission backend. The
// carrier in TrainResult, not the submitter, is responsible for trace
// continuity on the remote side.
type JobSubmitter interface {
	Submit(ctx context.Context, req TrainRequest) (string, error)
}

// simulatedSubmitter stands in for the Kubernetes API call. It performs
// no I/O and never fails.
type simulatedSubmitter struct{}

func (s *simulatedSubmitter) Submit(ctx context.Context, req TrainRequest) (string, error) {
	return fmt.Sprintf("job-%s", uuid.NewString()[:8]), nil
}
