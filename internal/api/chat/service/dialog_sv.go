package chatService

import (
	"context"
	"fmt"
	"strings"
	"time"

	"FintechAgent/internal/entity"
	contextPkg "FintechAgent/pkg/context"
	"FintechAgent/pkg/llm"
	"FintechAgent/pkg/metrics"
	"FintechAgent/pkg/nlp"
)

const (
	ReplySessionCanceled = "Session canceled. Type 'help' if you need assistance."
	ReplyNoSession       = "No active session to cancel."
	ReplyAskBillType     = "What type of bill would you like to pay? (electricity, water, internet)? Type 'stop' to cancel."
	ReplyNotUnderstood   = "I'm sorry, I didn't understand that."
	ReplyError           = "An error occurred. Please try again later."

	payBillsIntent = "pay_bills"
)

const (
	stageCancel        = "cancel"
	stageBillMention   = "bill_type_mention"
	stageSession       = "session"
	stagePayKeyword    = "pay_keyword"
	stageIntent        = "intent"
	stageKnowledgeBase = "knowledge_base"
	stageGenerative    = "generative"
	stageError         = "error"
)

var payKeywords = []string{"pay bill", "i want to pay my bill", "pay my bill", "pay my bills"}

func (s *chatService) Reply(ctx context.Context, userID string, message string) (reply string) {
	if contextPkg.GetUserID(ctx) == "" {
		ctx = contextPkg.WithUserID(ctx, userID)
	}
	start := time.Now()
	stage := stageError

	defer func() {
		if r := recover(); r != nil {
			s.log.WithFields(contextPkg.Fields(ctx)).
				WithField("panic", fmt.Sprint(r)).
				Error("Recovered from panic while processing message")
			reply, stage = ReplyError, stageError
		}
		metrics.ChatTurns.WithLabelValues(stage).Inc()
		metrics.ChatTurnLatency.Observe(time.Since(start).Seconds())
	}()

	now := s.now()
	s.sessions.Sweep(now)

	unlock := s.sessions.Lock(userID)
	defer unlock()

	reply, stage, err := s.turn(ctx, userID, message, now)
	if err != nil {
		s.log.WithFields(contextPkg.Fields(ctx)).
			WithError(err).
			Error("Error processing input")
		stage = stageError
		return ReplyError
	}

	s.log.WithFields(contextPkg.Fields(ctx)).
		WithField("stage", stage).
		Debug("Message handled")

	return reply
}

// turn walks the resolution steps in priority order. The caller holds the
// user lock.
func (s *chatService) turn(ctx context.Context, userID string, message string, now time.Time) (string, string, error) {
	input := strings.ToLower(strings.TrimSpace(message))

	if input == "stop" || input == "cancel" {
		if s.sessions.Delete(userID) {
			return ReplySessionCanceled, stageCancel, nil
		}
		return ReplyNoSession, stageCancel, nil
	}

	// A bill type anywhere in the message restarts the flow, replacing any
	// session in progress.
	if billType, ok := detectBillType(input); ok {
		s.sessions.Put(entity.BillSession{
			UserID:     userID,
			State:      entity.BillStateNumber,
			BillType:   billType,
			LastActive: now,
		})
		return askBillNumber(billType), stageBillMention, nil
	}

	if session, ok := s.sessions.Get(userID); ok {
		s.sessions.Touch(userID, now)
		session.LastActive = now
		reply, err := s.advance(ctx, session, input)
		return reply, stageSession, err
	}

	if containsPayKeyword(input) {
		return s.startPayment(userID, now), stagePayKeyword, nil
	}

	intent := s.classifier.Classify(message)
	metrics.IntentsResolved.WithLabelValues(intent).Inc()

	if intent == payBillsIntent {
		return s.startPayment(userID, now), stageIntent, nil
	}
	if intent != nlp.FallbackIntent {
		if reply, ok := s.responses[intent]; ok {
			return reply, stageIntent, nil
		}
		return ReplyNotUnderstood, stageIntent, nil
	}

	answer, found, err := s.retriever.Retrieve(ctx, message)
	if err != nil {
		return "", stageKnowledgeBase, fmt.Errorf("knowledge base lookup: %w", err)
	}
	if found {
		return answer, stageKnowledgeBase, nil
	}

	return s.generator.Generate(ctx, message, llm.DefaultMaxLength), stageGenerative, nil
}

func (s *chatService) startPayment(userID string, now time.Time) string {
	s.sessions.Put(entity.BillSession{
		UserID:     userID,
		State:      entity.BillStateType,
		LastActive: now,
	})
	return ReplyAskBillType
}

func detectBillType(input string) (entity.BillType, bool) {
	for _, billType := range entity.BillTypes {
		if strings.Contains(input, string(billType)) {
			return billType, true
		}
	}
	return "", false
}

func containsPayKeyword(input string) bool {
	for _, keyword := range payKeywords {
		if strings.Contains(input, keyword) {
			return true
		}
	}
	return false
}
