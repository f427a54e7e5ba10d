package lumo

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lumoai/lumo/agent"
	"github.com/lumoai/lumo/core"
	"github.com/lumoai/lumo/model"
	"github.com/lumoai/lumo/queue"
	"github.com/lumoai/lumo/runner"
)

func newFastLumo(optFns ...func(o *Options)) *Lumo {
	base := func(o *Options) {
		o.QueueOptions = []func(o *queue.Options){
			func(o *queue.Options) {
				o.PollInterval = 5 * time.Millisecond
				o.PingInterval = time.Hour
				o.ListenTimeout = time.Hour
			},
		}
	}
	return New(append([]func(o *Options){base}, optFns...)...)
}

func TestRunSyncCollectsAnswer(t *testing.T) {
	m := model.NewMockModel("mock", "mock")
	m.AddTextTurn("The capital ", "is Paris.")

	l := newFastLumo()

	events, answer, err := l.RunSync(context.Background(), runner.RunInput{
		UserID:     uuid.New(),
		InvokeFrom: core.InvokeFromServiceAPI,
		Config:     agent.Config{Model: m},
		Query:      "capital of France?",
	})
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, "The capital is Paris.", answer)
}

// slowModel stalls before answering so liveness checks run while the model
// turn is still in flight.
type slowModel struct {
	delay time.Duration
}

func (s slowModel) Generate(ctx context.Context, _ model.Request) (<-chan model.Chunk, <-chan error) {
	out := make(chan model.Chunk, 1)
	errCh := make(chan error, 1)
	go func() {
		defer close(out)
		defer close(errCh)
		select {
		case <-ctx.Done():
			errCh <- ctx.Err()
		case <-time.After(s.delay):
			out <- model.Chunk{Text: "late answer", FinishReason: "stop"}
		}
	}()
	return out, errCh
}

func (s slowModel) Info() model.Info {
	return model.Info{Name: "slow", Provider: "test"}
}

func TestStopCancelsLiveRun(t *testing.T) {
	m := slowModel{delay: 200 * time.Millisecond}

	stops := queue.NewInMemoryStopStore()
	l := newFastLumo(func(o *Options) { o.StopStore = stops })

	taskID := uuid.New()
	require.NoError(t, l.Stop(context.Background(), taskID))

	events, err := l.Run(context.Background(), runner.RunInput{
		UserID:     uuid.New(),
		TaskID:     taskID,
		InvokeFrom: core.InvokeFromWebApp,
		Config:     agent.Config{Model: m},
		Query:      "hi",
	})
	require.NoError(t, err)

	sawStop := false
	for ev := range events {
		if ev.Kind == core.EventStop {
			sawStop = true
		}
	}
	assert.True(t, sawStop, "stop flag must surface as a stop event")
}
