package chatService

import (
	"context"
	"time"

	chatRepository "FintechAgent/internal/api/chat/repository"
	"FintechAgent/pkg/knowledge"
	"FintechAgent/pkg/nlp"
	"FintechAgent/pkg/utils"
	"github.com/sirupsen/logrus"
)

// IChatService answers one user message at a time. Reply never fails; every
// internal error becomes a user-facing apology.
type IChatService interface {
	Reply(ctx context.Context, userID string, message string) string
}

// Generator produces free text for messages no rule handles. It must
// already degrade failures into displayable text.
type Generator interface {
	Generate(ctx context.Context, prompt string, maxLength int) string
}

type ServiceOption func(*chatService)

// WithClock replaces time.Now for session timestamps and sweeps.
func WithClock(now func() time.Time) ServiceOption {
	return func(s *chatService) {
		s.now = now
	}
}

type chatService struct {
	log        *logrus.Logger
	sessions   chatRepository.Repository
	classifier nlp.IClassifier
	responses  map[string]string
	retriever  knowledge.IRetriever
	generator  Generator
	utils      utils.IUtils
	now        func() time.Time
}

func New(
	log *logrus.Logger,
	sessions chatRepository.Repository,
	classifier nlp.IClassifier,
	responses map[string]string,
	retriever knowledge.IRetriever,
	generator Generator,
	utils utils.IUtils,
	opts ...ServiceOption,
) IChatService {
	s := &chatService{
		log:        log,
		sessions:   sessions,
		classifier: classifier,
		responses:  responses,
		retriever:  retriever,
		generator:  generator,
		utils:      utils,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}
