package app

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/glabrego/zhihu-cli/internal/logging"
	"github.com/glabrego/zhihu-cli/internal/render/answers"
	"github.com/glabrego/zhihu-cli/internal/storage"
	"github.com/glabrego/zhihu-cli/internal/zhihu"
)

type ZhihuClient interface {
	FetchFeed(ctx context.Context) ([]zhihu.Topic, error)
	FetchReplies(ctx context.Context, topicID string, offset int) ([]zhihu.Reply, error)
}

type Repository interface {
	LoadSettings(ctx context.Context) (storage.Settings, error)
	SaveSettings(ctx context.Context, settings storage.Settings) error
}

// Settings is the persisted reader state as the app sees it.
type Settings struct {
	Mode          answers.Mode
	Credential    string
	HasCredential bool
}

type Service struct {
	client ZhihuClient
	repo   Repository
	logger *log.Logger
}

func NewService(client ZhihuClient, repo Repository, logger *log.Logger) *Service {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Service{client: client, repo: repo, logger: logger}
}

func (s *Service) FetchFeed(ctx context.Context) ([]zhihu.Topic, error) {
	start := time.Now()
	topics, err := s.client.FetchFeed(ctx)
	if err != nil {
		s.logger.Warn("fetch feed failed", "err", err, "duration", time.Since(start))
		return nil, fmt.Errorf("fetch feed from zhihu: %w", err)
	}
	s.logger.Debug("fetched feed", "topics", len(topics), "duration", time.Since(start))
	return topics, nil
}

func (s *Service) FetchReplies(ctx context.Context, topicID string, offset int) ([]zhihu.Reply, error) {
	start := time.Now()
	replies, err := s.client.FetchReplies(ctx, topicID, offset)
	if err != nil {
		s.logger.Warn("fetch answers failed", "question", topicID, "offset", offset, "err", err, "duration", time.Since(start))
		return nil, fmt.Errorf("fetch answers for question %s: %w", topicID, err)
	}
	s.logger.Debug("fetched answers", "question", topicID, "offset", offset, "answers", len(replies), "duration", time.Since(start))
	return replies, nil
}

// FetchPage loads one page of answers for topic.
func (s *Service) FetchPage(ctx context.Context, topic zhihu.Topic, offset int) (answers.Page, error) {
	replies, err := s.FetchReplies(ctx, topic.ID, offset)
	if err != nil {
		return answers.Page{}, err
	}
	return answers.Page{Topic: topic, Offset: offset, Replies: replies}, nil
}

func (s *Service) LoadSettings(ctx context.Context) (Settings, error) {
	stored, err := s.repo.LoadSettings(ctx)
	if err != nil {
		return Settings{}, fmt.Errorf("load settings from database: %w", err)
	}
	return Settings{
		Mode:          answers.ParseMode(stored.RenderMode),
		Credential:    stored.Cookie,
		HasCredential: stored.HasCookie,
	}, nil
}

func (s *Service) SaveSettings(ctx context.Context, settings Settings) error {
	err := s.repo.SaveSettings(ctx, storage.Settings{
		RenderMode: settings.Mode.String(),
		Cookie:     settings.Credential,
		HasCookie:  settings.HasCredential,
	})
	if err != nil {
		return fmt.Errorf("save settings to database: %w", err)
	}
	s.logger.Debug("saved settings", "mode", settings.Mode, "cookie_set", settings.HasCredential)
	return nil
}
