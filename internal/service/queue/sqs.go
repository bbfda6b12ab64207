package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"

	"github.com/kingrain94/remote-config-api/internal/config"
)

type MessageType string

const (
	MessageTypeIndex  MessageType = "INDEX"
	MessageTypeDelete MessageType = "DELETE"
	MessageTypeExport MessageType = "EXPORT"
)

// Message names a config; workers reload its current state before acting.
type Message struct {
	Type      MessageType `json:"type"`
	ConfigID  string      `json:"config_id"`
	TenantID  string      `json:"tenant_id,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}

type ReceivedMessage struct {
	Message       Message
	ReceiptHandle *string
}

// API is the subset of the SQS client used here.
type API interface {
	SendMessage(ctx context.Context, params *sqs.SendMessageInput, optFns ...func(*sqs.Options)) (*sqs.SendMessageOutput, error)
	ReceiveMessage(ctx context.Context, params *sqs.ReceiveMessageInput, optFns ...func(*sqs.Options)) (*sqs.ReceiveMessageOutput, error)
	DeleteMessage(ctx context.Context, params *sqs.DeleteMessageInput, optFns ...func(*sqs.Options)) (*sqs.DeleteMessageOutput, error)
}

type SQSService struct {
	client         API
	indexQueueURL  string
	exportQueueURL string
	now            func() time.Time
}

func NewSQSService(client API, cfg *config.AWSConfig) *SQSService {
	return &SQSService{
		client:         client,
		indexQueueURL:  cfg.IndexQueueURL,
		exportQueueURL: cfg.ExportQueueURL,
		now:            time.Now,
	}
}

func (s *SQSService) IndexQueueURL() string {
	return s.indexQueueURL
}

func (s *SQSService) ExportQueueURL() string {
	return s.exportQueueURL
}

func (s *SQSService) SendIndexMessage(ctx context.Context, configID string) error {
	return s.sendMessage(ctx, Message{
		Type:      MessageTypeIndex,
		ConfigID:  configID,
		Timestamp: s.now().UTC(),
	}, s.indexQueueURL)
}

func (s *SQSService) SendDeleteMessage(ctx context.Context, configID, tenantID string) error {
	return s.sendMessage(ctx, Message{
		Type:      MessageTypeDelete,
		ConfigID:  configID,
		TenantID:  tenantID,
		Timestamp: s.now().UTC(),
	}, s.indexQueueURL)
}

func (s *SQSService) SendExportMessage(ctx context.Context, configID string) error {
	return s.sendMessage(ctx, Message{
		Type:      MessageTypeExport,
		ConfigID:  configID,
		Timestamp: s.now().UTC(),
	}, s.exportQueueURL)
}

func (s *SQSService) sendMessage(ctx context.Context, msg Message, queueURL string) error {
	msgBody, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}

	input := &sqs.SendMessageInput{
		MessageBody: aws.String(string(msgBody)),
		QueueUrl:    aws.String(queueURL),
	}

	if _, err := s.client.SendMessage(ctx, input); err != nil {
		return fmt.Errorf("failed to send message: %w", err)
	}

	return nil
}

func (s *SQSService) ReceiveMessages(ctx context.Context, queueURL string, maxMessages int32, waitTimeSeconds int32) ([]ReceivedMessage, error) {
	input := &sqs.ReceiveMessageInput{
		QueueUrl:            aws.String(queueURL),
		MaxNumberOfMessages: maxMessages,
		WaitTimeSeconds:     waitTimeSeconds,
	}

	output, err := s.client.ReceiveMessage(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("failed to receive messages: %w", err)
	}

	messages := make([]ReceivedMessage, 0, len(output.Messages))
	for _, msg := range output.Messages {
		var message Message
		if err := json.Unmarshal([]byte(aws.ToString(msg.Body)), &message); err != nil {
			return nil, fmt.Errorf("failed to unmarshal message: %w", err)
		}
		messages = append(messages, ReceivedMessage{
			Message:       message,
			ReceiptHandle: msg.ReceiptHandle,
		})
	}

	return messages, nil
}

func (s *SQSService) DeleteMessage(ctx context.Context, queueURL string, receiptHandle *string) error {
	input := &sqs.DeleteMessageInput{
		QueueUrl:      aws.String(queueURL),
		ReceiptHandle: receiptHandle,
	}

	if _, err := s.client.DeleteMessage(ctx, input); err != nil {
		return fmt.Errorf("failed to delete message: %w", err)
	}

	return nil
}
