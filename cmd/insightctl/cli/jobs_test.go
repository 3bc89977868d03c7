package cli

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNilJobsCLI(t *testing.T) {
	var c *JobsCLI
	ctx := context.Background()

	_, err := c.TriggerWarmup(ctx)
	assert.Error(t, err)
	_, err = c.InspectQueue(ctx)
	assert.Error(t, err)
	_, err = c.ListScheduled(ctx, 5)
	assert.Error(t, err)
	assert.NoError(t, c.Close())
}
