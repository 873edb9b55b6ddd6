package state

import (
	"context"
	"testing"
)

func TestContextRoundTrip(t *testing.T) {
	ctx := ContextWithEnv(context.Background())
	env := EnvFromContext(ctx)
	if env == nil {
		t.Fatal("EnvFromContext returned nil")
	}
	if env.RunID == "" {
		t.Error("RunID was not assigned")
	}
}

func TestEnvFromContextPanicsWithoutEnv(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic when context has no LocalEnv")
		}
	}()
	EnvFromContext(context.Background())
}

func TestUptimeIsPositive(t *testing.T) {
	ctx := ContextWithEnv(context.Background())
	env := EnvFromContext(ctx)
	if env.Uptime() < 0 {
		t.Error("Uptime returned negative duration")
	}
}
