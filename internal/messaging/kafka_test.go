package messaging

import (
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arxrec/arxrec/internal/config"
)

func TestNewFeedbackBus_RequiresBrokers(t *testing.T) {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)

	cfg := &config.KafkaConfig{}
	_, err := NewFeedbackBus(cfg, logger)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no kafka brokers")
}
