package scheduler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
)

const publishTimeout = 5 * time.Second

// ErrPublishTimeout is returned when the broker does not acknowledge a publish in time.
var ErrPublishTimeout = errors.New("mqtt publish timed out")

// NewMQTTClient connects to the broker and returns the client.
func NewMQTTClient(brokerURL, clientID string, log *slog.Logger) (mqtt.Client, error) {
	opts := mqtt.NewClientOptions()
	opts.AddBroker(brokerURL)
	opts.SetClientID(clientID)
	opts.SetAutoReconnect(true)
	opts.OnConnect = func(_ mqtt.Client) {
		log.Info("Connected to MQTT broker", "broker", brokerURL)
	}
	opts.OnConnectionLost = func(_ mqtt.Client, err error) {
		log.Warn("MQTT connection lost", "error", err)
	}

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return nil, fmt.Errorf("failed to connect to MQTT broker: %w", token.Error())
	}

	return client, nil
}

func publish(client mqtt.Client, topic string, qos byte, payload any) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode mqtt payload: %w", err)
	}

	token := client.Publish(topic, qos, false, raw)
	if !token.WaitTimeout(publishTimeout) {
		return fmt.Errorf("%w: topic %s", ErrPublishTimeout, topic)
	}
	if err = token.Error(); err != nil {
		return fmt.Errorf("failed to publish to %s: %w", topic, err)
	}

	return nil
}

// MQTTNotifier publishes fired notifications to <prefix>/alarms.
type MQTTNotifier struct {
	client mqtt.Client
	topic  string
	log    *slog.Logger
}

// NewMQTTNotifier creates a notifier publishing under the given topic prefix.
func NewMQTTNotifier(client mqtt.Client, topicPrefix string, log *slog.Logger) *MQTTNotifier {
	return &MQTTNotifier{client: client, topic: topicPrefix + "/alarms", log: log}
}

// Notify implements Notifier.
func (n *MQTTNotifier) Notify(ctx context.Context, notification Notification) error {
	if err := publish(n.client, n.topic, 1, notification); err != nil {
		return err
	}

	n.log.DebugContext(ctx, "Alarm notification published", "topic", n.topic, "handle", notification.Handle)

	return nil
}

// LogNotifier writes fired notifications to the log. Used when no broker is configured.
type LogNotifier struct {
	log *slog.Logger
}

// NewLogNotifier creates a LogNotifier.
func NewLogNotifier(log *slog.Logger) *LogNotifier {
	return &LogNotifier{log: log}
}

// Notify implements Notifier.
func (n *LogNotifier) Notify(ctx context.Context, notification Notification) error {
	n.log.InfoContext(ctx, "Alarm fired", "title", notification.Title, "body", notification.Body, "at", notification.At)
	return nil
}

type deviceAlarmCommand struct {
	Action  string              `json:"action"`
	ID      string              `json:"id"`
	At      *time.Time          `json:"at,omitempty"`
	Title   string              `json:"title,omitempty"`
	Body    string              `json:"body,omitempty"`
	Options *NativeAlarmOptions `json:"options,omitempty"`
}

// DeviceAlarmBridge asks the paired device to register full native alarms by
// publishing commands to <prefix>/device/alarms.
type DeviceAlarmBridge struct {
	client mqtt.Client
	topic  string
	log    *slog.Logger
}

// NewDeviceAlarmBridge creates a NativeAlarmScheduler backed by MQTT commands.
func NewDeviceAlarmBridge(client mqtt.Client, topicPrefix string, log *slog.Logger) *DeviceAlarmBridge {
	return &DeviceAlarmBridge{client: client, topic: topicPrefix + "/device/alarms", log: log}
}

// ScheduleNativeAlarm implements NativeAlarmScheduler.
func (b *DeviceAlarmBridge) ScheduleNativeAlarm(
	ctx context.Context,
	id string,
	at time.Time,
	title, body string,
	opts NativeAlarmOptions,
) error {
	if !b.client.IsConnectionOpen() {
		return ErrPlatformUnsupported
	}

	cmd := deviceAlarmCommand{Action: "schedule", ID: id, At: &at, Title: title, Body: body, Options: &opts}
	if err := publish(b.client, b.topic, 1, cmd); err != nil {
		return err
	}

	b.log.InfoContext(ctx, "Native alarm requested", "id", id, "at", at)

	return nil
}

// CancelNativeAlarm implements NativeAlarmScheduler.
func (b *DeviceAlarmBridge) CancelNativeAlarm(ctx context.Context, id string) error {
	if err := publish(b.client, b.topic, 1, deviceAlarmCommand{Action: "cancel", ID: id}); err != nil {
		return err
	}

	b.log.InfoContext(ctx, "Native alarm cancellation requested", "id", id)

	return nil
}
