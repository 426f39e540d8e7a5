package kafka

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	audit "jobgate/pkg/platform/audit"
)

func TestRecordKeysBySubject(t *testing.T) {
	event := audit.Event{
		ID:        uuid.New(),
		Category:  audit.CategoryCompliance,
		Action:    audit.EventEligibilityVerified,
		Subject:   "application:123",
		Decision:  "eligible",
		Timestamp: time.Date(2025, 2, 2, 10, 0, 0, 0, time.UTC),
	}

	rec, err := Record(event)
	require.NoError(t, err)

	assert.Equal(t, "application:123", string(rec.Key))
	assert.Empty(t, rec.Topic)
	assert.Equal(t, event.Timestamp, rec.Timestamp)

	headers := map[string]string{}
	for _, h := range rec.Headers {
		headers[h.Key] = string(h.Value)
	}
	assert.Equal(t, "eligibility_verified", headers[HeaderAction])
	assert.Equal(t, "compliance", headers[HeaderCategory])

	var decoded audit.Event
	require.NoError(t, json.Unmarshal(rec.Value, &decoded))
	assert.Equal(t, event, decoded)
}

func TestNewValidatesArguments(t *testing.T) {
	_, err := New(nil, "audit")
	assert.ErrorContains(t, err, "no brokers")

	_, err = New([]string{"localhost:9092"}, "")
	assert.ErrorContains(t, err, "no topic")
}
