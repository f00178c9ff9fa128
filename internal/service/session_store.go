package service

import (
	"os"
	"sync"

	"regcheck-bot/internal/models"

	"go.uber.org/zap"
)

// SessionStore holds the pending classification of each user until the
// payment is confirmed. It lives in memory only.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[int64]models.Session
	logger   *zap.Logger
}

func NewSessionStore(logger *zap.Logger) *SessionStore {
	return &SessionStore{
		sessions: make(map[int64]models.Session),
		logger:   logger,
	}
}

// Put stores the session and returns the one it replaced, if any.
func (s *SessionStore) Put(userID int64, session models.Session) (models.Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev, ok := s.sessions[userID]
	s.sessions[userID] = session
	return prev, ok
}

// Take returns the session and removes it from the store.
func (s *SessionStore) Take(userID int64) (models.Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions[userID]
	delete(s.sessions, userID)
	return session, ok
}

func (s *SessionStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// Close drops every pending session and removes the documents they hold.
func (s *SessionStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for userID, session := range s.sessions {
		if err := os.Remove(session.FilePath); err != nil && !os.IsNotExist(err) {
			s.logger.Warn("Failed to remove pending document",
				zap.Int64("user_id", userID),
				zap.String("file", session.FilePath),
				zap.Error(err),
			)
		}
		delete(s.sessions, userID)
	}
	return nil
}
