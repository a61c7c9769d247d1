package sqs

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/aws/aws-sdk-go-v2/service/sqs/types"
	"go.uber.org/zap"

	"github.com/yildizemre/visapa/internal/config"
	"github.com/yildizemre/visapa/internal/dto"
	"github.com/yildizemre/visapa/internal/queue"
)

const (
	// maxReceive is the SQS per-call message limit
	maxReceive      = 10
	waitTimeSeconds = 20
)

// API is the subset of the SQS client the adapter uses
type API interface {
	SendMessage(ctx context.Context, params *sqs.SendMessageInput, optFns ...func(*sqs.Options)) (*sqs.SendMessageOutput, error)
	ReceiveMessage(ctx context.Context, params *sqs.ReceiveMessageInput, optFns ...func(*sqs.Options)) (*sqs.ReceiveMessageOutput, error)
	DeleteMessage(ctx context.Context, params *sqs.DeleteMessageInput, optFns ...func(*sqs.Options)) (*sqs.DeleteMessageOutput, error)
}

// Client publishes and receives telemetry through SQS
type Client struct {
	api      API
	queueURL string
	log      *zap.Logger
}

var (
	_ queue.Publisher = (*Client)(nil)
	_ queue.Source    = (*Client)(nil)
)

// NewClient creates a new SQS client
func NewClient(ctx context.Context, cfg *config.SQSConfig, log *zap.Logger) (*Client, error) {
	configOpts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}

	var clientOpts []func(*sqs.Options)

	// Configure for local development with ElasticMQ
	if cfg.Endpoint != "" {
		log.Info("Configuring SQS for local development",
			zap.String("endpoint", cfg.Endpoint))
		configOpts = append(configOpts,
			awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider("dummy", "dummy", "")))

		clientOpts = append(clientOpts, func(o *sqs.Options) {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		})
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, configOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	log.Info("SQS client created",
		zap.String("region", cfg.Region),
		zap.String("queue_url", cfg.QueueURL))

	return NewWithAPI(sqs.NewFromConfig(awsCfg, clientOpts...), cfg.QueueURL, log), nil
}

// NewWithAPI wraps an existing SQS API implementation
func NewWithAPI(api API, queueURL string, log *zap.Logger) *Client {
	return &Client{
		api:      api,
		queueURL: queueURL,
		log:      log,
	}
}

// PublishTelemetry sends one telemetry event to the queue
func (c *Client) PublishTelemetry(ctx context.Context, event *dto.TelemetryRequest) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal telemetry: %w", err)
	}

	_, err = c.api.SendMessage(ctx, &sqs.SendMessageInput{
		QueueUrl:    aws.String(c.queueURL),
		MessageBody: aws.String(string(body)),
		MessageAttributes: map[string]types.MessageAttributeValue{
			"Kind": {
				DataType:    aws.String("String"),
				StringValue: aws.String(event.Kind),
			},
			"OwnerID": {
				DataType:    aws.String("Number"),
				StringValue: aws.String(fmt.Sprint(event.OwnerID)),
			},
		},
	})
	if err != nil {
		c.log.Error("Failed to send message to SQS",
			zap.String("id", event.ID),
			zap.String("kind", event.Kind),
			zap.Error(err))
		return fmt.Errorf("failed to send message to SQS: %w", err)
	}

	c.log.Debug("Telemetry published to SQS",
		zap.String("id", event.ID),
		zap.String("kind", event.Kind))
	return nil
}

// Receive long-polls the queue for up to max messages
func (c *Client) Receive(ctx context.Context, max int) ([]queue.Message, error) {
	if max <= 0 || max > maxReceive {
		max = maxReceive
	}

	out, err := c.api.ReceiveMessage(ctx, &sqs.ReceiveMessageInput{
		QueueUrl:              aws.String(c.queueURL),
		MaxNumberOfMessages:   int32(max),
		WaitTimeSeconds:       waitTimeSeconds,
		MessageAttributeNames: []string{"All"},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to receive messages from SQS: %w", err)
	}

	messages := make([]queue.Message, 0, len(out.Messages))
	for _, m := range out.Messages {
		receipt := m.ReceiptHandle
		id := aws.ToString(m.MessageId)
		messages = append(messages, queue.Message{
			ID:   id,
			Body: []byte(aws.ToString(m.Body)),
			Ack: func(ctx context.Context) error {
				_, err := c.api.DeleteMessage(ctx, &sqs.DeleteMessageInput{
					QueueUrl:      aws.String(c.queueURL),
					ReceiptHandle: receipt,
				})
				if err != nil {
					return fmt.Errorf("failed to delete message %s: %w", id, err)
				}
				return nil
			},
		})
	}

	return messages, nil
}

// Close is a no-op; the SQS client holds no connections of its own
func (c *Client) Close() error {
	return nil
}
