//go:build integration

package realtime

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/twmb/franz-go/pkg/kgo"

	"guardhq/internal/platform/config"
	"guardhq/internal/platform/kafka"
	"guardhq/internal/realtime/bus"
	"guardhq/internal/realtime/models"
	"guardhq/internal/realtime/service"
	id "guardhq/pkg/domain"
	"guardhq/pkg/testutil/containers"
)

const activityTopic = "guardhq.activity.test"

func TestActivityFeedReachesBroker(t *testing.T) {
	ctx := context.Background()
	rp := containers.NewRedpandaContainer(t)

	producer, err := kafka.NewProducer(config.KafkaConfig{
		Seeds:         []string{rp.Broker},
		ActivityTopic: activityTopic,
	})
	require.NoError(t, err)
	require.NotNil(t, producer)
	t.Cleanup(producer.Close)

	svc := service.New(bus.New(), config.RealtimeConfig{
		PanicAlertLimit: 50,
		GeofenceLimit:   50,
		ActivityLimit:   100,
	}, service.WithActivityPublisher(producer))
	t.Cleanup(svc.Close)

	officerID := id.NewOfficerID()
	svc.RecordActivity(ctx, "shift_assigned", "Shift assigned to Dana Reyes", officerID, id.SiteID{})

	consumer, err := kgo.NewClient(
		kgo.SeedBrokers(rp.Broker),
		kgo.ConsumeTopics(activityTopic),
		kgo.ConsumeResetOffset(kgo.NewOffset().AtStart()),
	)
	require.NoError(t, err)
	t.Cleanup(consumer.Close)

	pollCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()
	fetches := consumer.PollFetches(pollCtx)
	require.NoError(t, fetches.Err())

	records := fetches.Records()
	require.NotEmpty(t, records)

	record := records[0]
	assert.Equal(t, "shift_assigned", string(record.Key), "records are keyed by activity type")

	var entry models.ActivityEntry
	require.NoError(t, json.Unmarshal(record.Value, &entry))
	assert.Equal(t, "shift_assigned", entry.Type)
	assert.Equal(t, "Shift assigned to Dana Reyes", entry.Message)
	assert.Equal(t, officerID, entry.OfficerID)
	assert.False(t, entry.ID.IsNil())
}
