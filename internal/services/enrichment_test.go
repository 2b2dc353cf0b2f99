package services

import (
	"io"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

func TestNewEnrichmentServiceSeasonFallback(t *testing.T) {
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	s := NewEnrichmentService(nil, NewScheduleService(logger), 2025, logger)
	assert.Equal(t, 2025, s.defaultSeason)

	// An unset season falls back to the current year.
	s = NewEnrichmentService(nil, NewScheduleService(logger), 0, logger)
	assert.Equal(t, time.Now().Year(), s.defaultSeason)
}
