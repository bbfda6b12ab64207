package worker

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/prometheus/client_golang/prometheus"
	promtest "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
	"gorm.io/datatypes"

	"github.com/kingrain94/remote-config-api/internal/config"
	"github.com/kingrain94/remote-config-api/internal/domain"
	"github.com/kingrain94/remote-config-api/internal/metrics"
	"github.com/kingrain94/remote-config-api/internal/mocks"
	"github.com/kingrain94/remote-config-api/internal/repository"
	"github.com/kingrain94/remote-config-api/internal/service/queue"
	"github.com/kingrain94/remote-config-api/pkg/logger"
)

type fakeQueue struct {
	messages   []queue.ReceivedMessage
	receiveErr error
	deleted    []string
}

func (f *fakeQueue) ReceiveMessages(_ context.Context, _ string, _ int32, _ int32) ([]queue.ReceivedMessage, error) {
	if f.receiveErr != nil {
		return nil, f.receiveErr
	}
	out := f.messages
	f.messages = nil
	return out, nil
}

func (f *fakeQueue) DeleteMessage(_ context.Context, _ string, receiptHandle *string) error {
	f.deleted = append(f.deleted, aws.ToString(receiptHandle))
	return nil
}

type fakeStore struct {
	objects map[string]string
	err     error
}

func (f *fakeStore) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	body, _ := io.ReadAll(in.Body)
	if f.objects == nil {
		f.objects = map[string]string{}
	}
	f.objects[aws.ToString(in.Bucket)+"/"+aws.ToString(in.Key)] = string(body)
	return &s3.PutObjectOutput{}, nil
}

func received(handle string, msgType queue.MessageType, configID string) queue.ReceivedMessage {
	return queue.ReceivedMessage{
		Message:       queue.Message{Type: msgType, ConfigID: configID, TenantID: "tenant1"},
		ReceiptHandle: aws.String(handle),
	}
}

type WorkerTestSuite struct {
	suite.Suite
	mockRepo   *mocks.Repository
	mockConfig *mocks.AppConfigRepository
	mockSearch *mocks.SearchRepository
	queue      *fakeQueue
	metrics    *metrics.Metrics
	published  time.Time
}

func (s *WorkerTestSuite) SetupTest() {
	s.mockRepo = new(mocks.Repository)
	s.mockConfig = new(mocks.AppConfigRepository)
	s.mockSearch = new(mocks.SearchRepository)
	s.mockRepo.On("AppConfig").Return(s.mockConfig)
	s.queue = &fakeQueue{}
	s.metrics = metrics.NewMetrics(prometheus.NewRegistry())
	s.published = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
}

func TestWorker(t *testing.T) {
	suite.Run(t, new(WorkerTestSuite))
}

func (s *WorkerTestSuite) publishedConfig() *domain.AppConfigWithTenant {
	return &domain.AppConfigWithTenant{
		AppConfig: domain.AppConfig{
			ID:              "cfg1",
			TenantID:        "tenant1",
			KeyName:         "homepage_flags",
			DraftJSON:       datatypes.JSON(`{"enabled":false}`),
			PublishedJSON:   datatypes.JSON(`{"enabled":true}`),
			LastPublishedAt: &s.published,
		},
		TenantName: "Mobile App",
	}
}

func (s *WorkerTestSuite) indexWorker() *IndexWorker {
	return NewIndexWorker(s.queue, "index-url", s.mockRepo, s.metrics, logger.NewNopLogger(), 1, time.Second)
}

func (s *WorkerTestSuite) exportWorker(store ObjectStore) *ExportWorker {
	cfg := &config.AWSConfig{ExportQueueURL: "export-url", ExportBucket: "snapshots", ExportPrefix: "configs"}
	return NewExportWorker(s.queue, s.mockRepo, store, cfg, s.metrics, logger.NewNopLogger(), 1, time.Second)
}

func (s *WorkerTestSuite) TestIndex_ReloadsAndIndexes() {
	// Arrange
	ctx := context.Background()
	cfg := s.publishedConfig()
	s.mockRepo.On("Search").Return(s.mockSearch)
	s.mockConfig.On("GetByID", ctx, "cfg1").Return(cfg, nil)
	s.mockSearch.On("Index", ctx, cfg).Return(nil)
	s.queue.messages = []queue.ReceivedMessage{received("h1", queue.MessageTypeIndex, "cfg1")}

	// Act
	err := s.indexWorker().processMessages(ctx)

	// Assert
	s.NoError(err)
	s.Equal([]string{"h1"}, s.queue.deleted)
	s.Equal(1.0, promtest.ToFloat64(s.metrics.WorkerMessages.WithLabelValues("INDEX", "ok")))
	s.mockSearch.AssertExpectations(s.T())
}

func (s *WorkerTestSuite) TestIndex_MissingConfigRemovesDocument() {
	// Arrange
	ctx := context.Background()
	s.mockRepo.On("Search").Return(s.mockSearch)
	s.mockConfig.On("GetByID", ctx, "gone").Return(nil, repository.ErrNotFound)
	s.mockSearch.On("Delete", ctx, "gone").Return(nil)
	s.queue.messages = []queue.ReceivedMessage{received("h1", queue.MessageTypeIndex, "gone")}

	// Act
	err := s.indexWorker().processMessages(ctx)

	// Assert
	s.NoError(err)
	s.Equal([]string{"h1"}, s.queue.deleted)
	s.mockSearch.AssertCalled(s.T(), "Delete", ctx, "gone")
}

func (s *WorkerTestSuite) TestIndex_DeleteMessage() {
	// Arrange
	ctx := context.Background()
	s.mockRepo.On("Search").Return(s.mockSearch)
	s.mockSearch.On("Delete", ctx, "cfg1").Return(nil)
	s.queue.messages = []queue.ReceivedMessage{received("h1", queue.MessageTypeDelete, "cfg1")}

	// Act
	err := s.indexWorker().processMessages(ctx)

	// Assert
	s.NoError(err)
	s.Equal([]string{"h1"}, s.queue.deleted)
	s.mockConfig.AssertNotCalled(s.T(), "GetByID", mock.Anything, mock.Anything)
}

func (s *WorkerTestSuite) TestIndex_FailureKeepsMessage() {
	// Arrange
	ctx := context.Background()
	cfg := s.publishedConfig()
	s.mockRepo.On("Search").Return(s.mockSearch)
	s.mockConfig.On("GetByID", ctx, "cfg1").Return(cfg, nil)
	s.mockSearch.On("Index", ctx, cfg).Return(errors.New("cluster red"))
	s.queue.messages = []queue.ReceivedMessage{received("h1", queue.MessageTypeIndex, "cfg1")}

	// Act
	err := s.indexWorker().processMessages(ctx)

	// Assert
	s.NoError(err)
	s.Empty(s.queue.deleted)
	s.Equal(1.0, promtest.ToFloat64(s.metrics.WorkerMessages.WithLabelValues("INDEX", "error")))
}

func (s *WorkerTestSuite) TestIndex_ReceiveError() {
	// Arrange
	s.queue.receiveErr = errors.New("throttled")

	// Act
	err := s.indexWorker().processMessages(context.Background())

	// Assert
	s.Error(err)
	s.Contains(err.Error(), "throttled")
}

func (s *WorkerTestSuite) TestExport_WritesVersionedAndLatest() {
	// Arrange
	ctx := context.Background()
	store := &fakeStore{}
	s.mockConfig.On("GetByID", ctx, "cfg1").Return(s.publishedConfig(), nil)
	s.queue.messages = []queue.ReceivedMessage{received("h1", queue.MessageTypeExport, "cfg1")}

	// Act
	err := s.exportWorker(store).processMessages(ctx)

	// Assert
	s.NoError(err)
	versioned := "snapshots/configs/tenant1/homepage_flags/" + "1772366400.json"
	s.Equal(`{"enabled":true}`, store.objects[versioned])
	s.Equal(`{"enabled":true}`, store.objects["snapshots/configs/tenant1/homepage_flags/latest.json"])
	s.Equal([]string{"h1"}, s.queue.deleted)
	s.Equal(1.0, promtest.ToFloat64(s.metrics.WorkerMessages.WithLabelValues("EXPORT", "ok")))
}

func (s *WorkerTestSuite) TestExport_UnpublishedIsSkipped() {
	// Arrange
	ctx := context.Background()
	store := &fakeStore{}
	cfg := s.publishedConfig()
	cfg.LastPublishedAt = nil
	s.mockConfig.On("GetByID", ctx, "cfg1").Return(cfg, nil)
	s.queue.messages = []queue.ReceivedMessage{received("h1", queue.MessageTypeExport, "cfg1")}

	// Act
	err := s.exportWorker(store).processMessages(ctx)

	// Assert
	s.NoError(err)
	s.Empty(store.objects)
	s.Equal([]string{"h1"}, s.queue.deleted)
}

func (s *WorkerTestSuite) TestExport_UploadFailureKeepsMessage() {
	// Arrange
	ctx := context.Background()
	store := &fakeStore{err: errors.New("access denied")}
	s.mockConfig.On("GetByID", ctx, "cfg1").Return(s.publishedConfig(), nil)
	s.queue.messages = []queue.ReceivedMessage{received("h1", queue.MessageTypeExport, "cfg1")}

	// Act
	err := s.exportWorker(store).processMessages(ctx)

	// Assert
	s.NoError(err)
	s.Empty(s.queue.deleted)
	s.Equal(1.0, promtest.ToFloat64(s.metrics.WorkerMessages.WithLabelValues("EXPORT", "error")))
}

func (s *WorkerTestSuite) TestExport_DropsForeignMessage() {
	// Arrange
	store := &fakeStore{}
	s.queue.messages = []queue.ReceivedMessage{received("h1", queue.MessageTypeIndex, "cfg1")}

	// Act
	err := s.exportWorker(store).processMessages(context.Background())

	// Assert
	s.NoError(err)
	s.Empty(store.objects)
	s.Equal([]string{"h1"}, s.queue.deleted)
}

func (s *WorkerTestSuite) TestReindex_PagesThroughConfigs() {
	// Arrange
	ctx := context.Background()
	page := []domain.AppConfigWithTenant{*s.publishedConfig()}
	s.mockRepo.On("Search").Return(s.mockSearch)
	s.mockSearch.On("CreateIndex", ctx).Return(nil)
	s.mockConfig.On("List", ctx, domain.AppConfigFilter{Limit: reindexPageSize}).Return(page, nil)
	s.mockSearch.On("BulkIndex", ctx, page).Return(nil)

	// Act
	n, err := NewReindexWorker(s.mockRepo, logger.NewNopLogger(), time.Minute).Reindex(ctx)

	// Assert
	s.NoError(err)
	s.Equal(1, n)
	s.mockSearch.AssertExpectations(s.T())
}

func (s *WorkerTestSuite) TestReindex_NoSearchIndex() {
	// Arrange
	s.mockRepo.On("Search").Return(nil)

	// Act
	n, err := NewReindexWorker(s.mockRepo, logger.NewNopLogger(), time.Minute).Reindex(context.Background())

	// Assert
	s.NoError(err)
	s.Zero(n)
}

func (s *WorkerTestSuite) TestSnapshotKeys() {
	// Arrange
	cfg := &s.publishedConfig().AppConfig

	// Act
	keys := SnapshotKeys("configs", cfg)

	// Assert
	s.Equal([]string{
		"configs/tenant1/homepage_flags/1772366400.json",
		"configs/tenant1/homepage_flags/latest.json",
	}, keys)
}

func (s *WorkerTestSuite) TestStartStop() {
	// Arrange
	w := s.indexWorker()

	// Act
	w.Start()
	w.Stop()

	// Assert
	s.Empty(s.queue.deleted)
}
