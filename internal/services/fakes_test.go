package services

import (
	"context"
	"database/sql"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/nexchat/nexchat-backend/internal/providers"
	"github.com/nexchat/nexchat-backend/internal/repository"
)

// In-memory repository fakes backing the service tests.

type fakeSessionRepo struct {
	mu       sync.Mutex
	sessions map[string]*repository.Session
	order    []string
}

func newFakeSessionRepo() *fakeSessionRepo {
	return &fakeSessionRepo{sessions: map[string]*repository.Session{}}
}

func (r *fakeSessionRepo) Create(_ context.Context, session *repository.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if session.ID == "" {
		session.ID = uuid.New().String()
	}
	now := time.Now()
	session.CreatedAt = now
	session.UpdatedAt = now
	clone := *session
	r.sessions[session.ID] = &clone
	r.order = append(r.order, session.ID)
	return nil
}

func (r *fakeSessionRepo) Get(_ context.Context, id string) (*repository.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	session, ok := r.sessions[id]
	if !ok || session.IsDeleted {
		return nil, sql.ErrNoRows
	}
	clone := *session
	return &clone, nil
}

func (r *fakeSessionRepo) ListByUser(_ context.Context, userID string) ([]*repository.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []*repository.Session{}
	for _, id := range r.order {
		session := r.sessions[id]
		if session.UserID == userID && !session.IsDeleted {
			clone := *session
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (r *fakeSessionRepo) UpdateTitle(_ context.Context, id, title string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	session, ok := r.sessions[id]
	if !ok || session.IsDeleted {
		return 0, nil
	}
	session.Title = title
	session.UpdatedAt = time.Now()
	return 1, nil
}

func (r *fakeSessionRepo) SoftDelete(_ context.Context, id string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	session, ok := r.sessions[id]
	if !ok || session.IsDeleted {
		return 0, nil
	}
	session.IsDeleted = true
	return 1, nil
}

func (r *fakeSessionRepo) SoftDeleteBatch(_ context.Context, ids []string, userID string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, id := range ids {
		session, ok := r.sessions[id]
		if ok && session.UserID == userID && !session.IsDeleted {
			session.IsDeleted = true
			n++
		}
	}
	return n, nil
}

func (r *fakeSessionRepo) CountByUser(_ context.Context, userID string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, session := range r.sessions {
		if session.UserID == userID && !session.IsDeleted {
			n++
		}
	}
	return n, nil
}

type fakeMessageRepo struct {
	mu       sync.Mutex
	messages []*repository.Message
	seq      int
}

func newFakeMessageRepo() *fakeMessageRepo {
	return &fakeMessageRepo{}
}

func (r *fakeMessageRepo) Create(_ context.Context, message *repository.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if message.ID == "" {
		message.ID = uuid.New().String()
	}
	// Distinct timestamps keep creation order observable
	r.seq++
	message.CreatedAt = time.Unix(0, int64(r.seq))
	clone := *message
	r.messages = append(r.messages, &clone)
	return nil
}

func (r *fakeMessageRepo) ListBySession(_ context.Context, sessionID string) ([]*repository.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []*repository.Message{}
	for _, message := range r.messages {
		if message.SessionID == sessionID {
			clone := *message
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (r *fakeMessageRepo) DeleteBySession(_ context.Context, sessionID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	kept := r.messages[:0]
	for _, message := range r.messages {
		if message.SessionID != sessionID {
			kept = append(kept, message)
		}
	}
	r.messages = kept
	return nil
}

func (r *fakeMessageRepo) CountBySession(_ context.Context, sessionID string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, message := range r.messages {
		if message.SessionID == sessionID {
			n++
		}
	}
	return n, nil
}

// fakeTxRunner runs the function directly; the fakes mutate in place so
// there is nothing to roll back.
type fakeTxRunner struct{}

func (fakeTxRunner) ExecTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// stubProvider returns a canned reply and records the last request.
type stubProvider struct {
	reply   string
	err     error
	lastReq providers.CompletionRequest
}

func (p *stubProvider) Name() string { return "stub" }

func (p *stubProvider) Complete(_ context.Context, req providers.CompletionRequest) (*providers.CompletionResponse, error) {
	p.lastReq = req
	if p.err != nil {
		return nil, p.err
	}
	return &providers.CompletionResponse{Content: p.reply, Model: req.Model}, nil
}

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	return log
}

type testEnv struct {
	sessionRepo *fakeSessionRepo
	messageRepo *fakeMessageRepo
	provider    *stubProvider
	svc         *Services
}

func newTestEnv() *testEnv {
	sessionRepo := newFakeSessionRepo()
	messageRepo := newFakeMessageRepo()
	provider := &stubProvider{reply: "ok"}

	registry := providers.NewRegistry()
	registry.Register("stub", provider)

	svc := NewServices(sessionRepo, messageRepo, fakeTxRunner{}, registry, "stub", testLogger())

	return &testEnv{
		sessionRepo: sessionRepo,
		messageRepo: messageRepo,
		provider:    provider,
		svc:         svc,
	}
}
