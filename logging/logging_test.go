package logging_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/acm-engine/logging"
)

func TestNew_Levels(t *testing.T) {
	for _, level := range []string{"debug", "info", "WARN", "error"} {
		log, err := logging.New(level)
		require.NoError(t, err, level)
		assert.NotNil(t, log.SugaredLogger)
	}

	_, err := logging.New("loud")
	assert.Error(t, err)
}

func TestOr_FallsBackToDefault(t *testing.T) {
	own := logging.Nop()
	assert.Same(t, own, logging.Or(own))
	assert.Same(t, logging.L, logging.Or(nil))
}
