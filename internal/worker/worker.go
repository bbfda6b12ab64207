package worker

import (
	"context"

	"github.com/kingrain94/remote-config-api/internal/service/queue"
)

// MessageQueue is the consuming side of queue.SQSService.
type MessageQueue interface {
	ReceiveMessages(ctx context.Context, queueURL string, maxMessages int32, waitTimeSeconds int32) ([]queue.ReceivedMessage, error)
	DeleteMessage(ctx context.Context, queueURL string, receiptHandle *string) error
}

const (
	defaultMaxMessages int32 = 10 // Process up to 10 messages at a time
	defaultWaitTime    int32 = 20 // Long polling: wait up to 20 seconds for messages
)
