package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/inferlab/inquest/internal/domain"
	"github.com/inferlab/inquest/internal/engine"
)

var (
	ErrSessionNotFound   = errors.New("consultation not found")
	ErrSessionNotWaiting = errors.New("consultation is not awaiting input")
	ErrSessionDone       = errors.New("consultation already finished")
	ErrSessionNotDone    = errors.New("consultation has not finished")
)

// session owns one live consultation: the goroutine driving the engine, the
// channel that goroutine parks on while a question is pending, and the
// record the API reads.
type session struct {
	mu      sync.Mutex
	record  domain.ConsultationRecord
	answers chan string
	cancel  context.CancelFunc
	done    chan struct{}
}

// queuePort adapts the engine's blocking conversation to the
// request-response API. Ask publishes the pending question and parks the
// session goroutine until Answer delivers a reply; cancellation withdraws
// the question with "unknown" so the engine always completes normally.
type queuePort struct {
	sess *session
}

var _ domain.Interactor = (*queuePort)(nil)

func (p *queuePort) Ask(ctx context.Context, prompt string) (string, error) {
	p.sess.mu.Lock()
	p.sess.record.Status = domain.StatusAwaitingInput
	p.sess.record.Question = prompt
	p.sess.mu.Unlock()

	select {
	case answer := <-p.sess.answers:
		p.sess.mu.Lock()
		p.sess.record.Transcript = append(p.sess.record.Transcript, prompt+answer)
		p.sess.mu.Unlock()
		return answer, nil
	case <-ctx.Done():
		p.sess.mu.Lock()
		p.sess.record.Status = domain.StatusRunning
		p.sess.record.Question = ""
		p.sess.record.Transcript = append(p.sess.record.Transcript, prompt+"unknown")
		p.sess.mu.Unlock()
		return "unknown", nil
	}
}

func (p *queuePort) Tell(ctx context.Context, text string) error {
	p.sess.mu.Lock()
	p.sess.record.Transcript = append(p.sess.record.Transcript, text)
	p.sess.mu.Unlock()
	return nil
}

// ConsultationService hosts consultations over a shared knowledge base.
// Each session gets its own engine on its own goroutine; the service only
// routes questions and answers between that goroutine and API callers.
// Terminal sessions are archived and later dropped by the janitor.
type ConsultationService struct {
	kb      *domain.KnowledgeBase
	archive domain.ArchiveStore
	logger  *zap.Logger

	maxDepth int

	mu       sync.Mutex
	sessions map[uuid.UUID]*session
	wg       sync.WaitGroup
}

// NewConsultationService builds a service over the knowledge base. The
// archive store may be nil; finished consultations are then kept in memory
// only until the janitor drops them.
func NewConsultationService(kb *domain.KnowledgeBase, archive domain.ArchiveStore, logger *zap.Logger) *ConsultationService {
	return &ConsultationService{
		kb:       kb,
		archive:  archive,
		logger:   logger,
		sessions: make(map[uuid.UUID]*session),
	}
}

// SetMaxDepth bounds recursive premise resolution for every session the
// service starts. Values below one keep the engine default.
func (s *ConsultationService) SetMaxDepth(n int) {
	if n > 0 {
		s.maxDepth = n
	}
}

// Start launches a consultation over the named contexts, all of the
// knowledge base's contexts when none are given, and returns its initial
// record. The session advances on its own goroutine until it needs input.
func (s *ConsultationService) Start(ctx context.Context, contexts []string) (*domain.ConsultationRecord, error) {
	if len(contexts) == 0 {
		for _, c := range s.kb.Contexts() {
			contexts = append(contexts, c.Name)
		}
	}
	for _, name := range contexts {
		if _, err := s.kb.Context(name); err != nil {
			return nil, err
		}
	}

	sessCtx, cancel := context.WithCancel(context.Background())
	sess := &session{
		record: domain.ConsultationRecord{
			ID:        uuid.New(),
			KBName:    s.kb.Name,
			Contexts:  contexts,
			Status:    domain.StatusRunning,
			CreatedAt: time.Now().UTC(),
		},
		answers: make(chan string, 1),
		cancel:  cancel,
		done:    make(chan struct{}),
	}

	s.mu.Lock()
	s.sessions[sess.record.ID] = sess
	s.mu.Unlock()

	s.logger.Info("consultation started",
		zap.String("id", sess.record.ID.String()),
		zap.Strings("contexts", contexts))

	s.wg.Add(1)
	go s.run(sessCtx, sess)

	return snapshot(sess), nil
}

func (s *ConsultationService) run(ctx context.Context, sess *session) {
	defer s.wg.Done()
	defer close(sess.done)

	eng := engine.New(s.kb, &queuePort{sess: sess}, s.logger)
	if s.maxDepth > 0 {
		eng.SetMaxDepth(s.maxDepth)
	}
	result, err := eng.Execute(ctx, sess.record.Contexts)

	sess.mu.Lock()
	sess.record.Question = ""
	sess.record.FinishedAt = time.Now().UTC()
	switch {
	case ctx.Err() != nil:
		sess.record.Status = domain.StatusCancelled
	case err != nil:
		sess.record.Status = domain.StatusFailed
	default:
		sess.record.Status = domain.StatusDone
		sess.record.Findings = result.Flatten()
	}
	rec := sess.record
	sess.mu.Unlock()

	if err != nil && ctx.Err() == nil {
		s.logger.Error("consultation failed",
			zap.String("id", rec.ID.String()),
			zap.Error(err))
	} else {
		s.logger.Info("consultation finished",
			zap.String("id", rec.ID.String()),
			zap.String("status", string(rec.Status)))
	}

	if s.archive != nil {
		actx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if aerr := s.archive.Save(actx, &rec); aerr != nil {
			s.logger.Warn("archiving consultation",
				zap.String("id", rec.ID.String()),
				zap.Error(aerr))
		}
	}
}

// Get returns a copy of the session's current record.
func (s *ConsultationService) Get(id uuid.UUID) (*domain.ConsultationRecord, error) {
	sess, err := s.session(id)
	if err != nil {
		return nil, err
	}
	return snapshot(sess), nil
}

// Answer delivers a reply to the session's pending question and returns the
// record as of delivery; the engine resumes asynchronously.
func (s *ConsultationService) Answer(id uuid.UUID, text string) (*domain.ConsultationRecord, error) {
	sess, err := s.session(id)
	if err != nil {
		return nil, err
	}

	sess.mu.Lock()
	switch {
	case sess.record.Status.Terminal():
		sess.mu.Unlock()
		return nil, fmt.Errorf("%w: %s", ErrSessionDone, id)
	case sess.record.Status != domain.StatusAwaitingInput:
		sess.mu.Unlock()
		return nil, fmt.Errorf("%w: %s", ErrSessionNotWaiting, id)
	}
	sess.record.Status = domain.StatusRunning
	sess.record.Question = ""
	sess.mu.Unlock()

	// Buffered; exactly one answer can be in flight per pending question.
	sess.answers <- text
	return snapshot(sess), nil
}

// Cancel stops the session and waits for its goroutine to finish, so the
// final record and archive write are visible on return.
func (s *ConsultationService) Cancel(id uuid.UUID) error {
	sess, err := s.session(id)
	if err != nil {
		return err
	}

	sess.mu.Lock()
	if sess.record.Status.Terminal() {
		sess.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrSessionDone, id)
	}
	sess.mu.Unlock()

	sess.cancel()
	<-sess.done
	return nil
}

// Findings returns the goal findings of a finished consultation.
func (s *ConsultationService) Findings(id uuid.UUID) (map[string]map[string]map[string]float64, error) {
	sess, err := s.session(id)
	if err != nil {
		return nil, err
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()
	if sess.record.Status != domain.StatusDone {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotDone, id)
	}
	return sess.record.Findings, nil
}

// List returns copies of every live session record, newest first.
func (s *ConsultationService) List() []*domain.ConsultationRecord {
	s.mu.Lock()
	sessions := make([]*session, 0, len(s.sessions))
	for _, sess := range s.sessions {
		sessions = append(sessions, sess)
	}
	s.mu.Unlock()

	recs := make([]*domain.ConsultationRecord, 0, len(sessions))
	for _, sess := range sessions {
		recs = append(recs, snapshot(sess))
	}
	sort.Slice(recs, func(i, j int) bool { return recs[i].CreatedAt.After(recs[j].CreatedAt) })
	return recs
}

// Shutdown cancels every live consultation and waits for the session
// goroutines to finish.
func (s *ConsultationService) Shutdown() {
	s.mu.Lock()
	for _, sess := range s.sessions {
		sess.cancel()
	}
	s.mu.Unlock()
	s.wg.Wait()
}

func (s *ConsultationService) session(id uuid.UUID) (*session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	return sess, nil
}

// expireBefore drops terminal sessions that finished before the cutoff and
// reports how many were removed.
func (s *ConsultationService) expireBefore(cutoff time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for id, sess := range s.sessions {
		sess.mu.Lock()
		expired := sess.record.Status.Terminal() && sess.record.FinishedAt.Before(cutoff)
		sess.mu.Unlock()
		if expired {
			delete(s.sessions, id)
			n++
		}
	}
	return n
}

func snapshot(sess *session) *domain.ConsultationRecord {
	sess.mu.Lock()
	defer sess.mu.Unlock()
	rec := sess.record
	rec.Contexts = append([]string(nil), sess.record.Contexts...)
	rec.Transcript = append([]string(nil), sess.record.Transcript...)
	return &rec
}
