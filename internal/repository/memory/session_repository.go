package memory

import (
	"sync"

	"ai-support-chat-be/internal/constant"
	"ai-support-chat-be/internal/entity"
)

// SessionRepository keeps every session in process memory until the process exits.
// One mutex covers the whole map. Nothing spans "read history, generate, append",
// so two requests on the same session may interleave their appends.
type SessionRepository struct {
	mu       sync.Mutex
	sessions map[string]*entity.Session
}

func NewSessionRepository() *SessionRepository {
	return &SessionRepository{
		sessions: make(map[string]*entity.Session),
	}
}

// GetOrCreate returns a snapshot of the session, creating it on first reference.
func (r *SessionRepository) GetOrCreate(sessionId string) entity.Session {
	r.mu.Lock()
	defer r.mu.Unlock()

	return snapshot(r.getOrCreateLocked(sessionId))
}

// Clear resets the session to empty. Unknown ids are created empty.
func (r *SessionRepository) Clear(sessionId string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.sessions[sessionId] = &entity.Session{}
}

// AppendTurn appends one turn and keeps only the newest MaxHistoryMessages.
func (r *SessionRepository) AppendTurn(sessionId, role, content string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s := r.getOrCreateLocked(sessionId)
	s.History = append(s.History, entity.Turn{Role: role, Content: content})
	if over := len(s.History) - constant.MaxHistoryMessages; over > 0 {
		trimmed := make([]entity.Turn, constant.MaxHistoryMessages)
		copy(trimmed, s.History[over:])
		s.History = trimmed
	}
}

// History returns a copy of the turns. Unknown ids yield an empty slice.
func (r *SessionRepository) History(sessionId string) []entity.Turn {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.sessions[sessionId]
	if !ok {
		return []entity.Turn{}
	}
	return append([]entity.Turn{}, s.History...)
}

// AddChunks appends chunks without deduplication.
func (r *SessionRepository) AddChunks(sessionId string, chunks []entity.RetrievalChunk) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s := r.getOrCreateLocked(sessionId)
	s.Chunks = append(s.Chunks, chunks...)
}

func (r *SessionRepository) Chunks(sessionId string) []entity.RetrievalChunk {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.sessions[sessionId]
	if !ok {
		return []entity.RetrievalChunk{}
	}
	return append([]entity.RetrievalChunk{}, s.Chunks...)
}

func (r *SessionRepository) Status(sessionId string) entity.SessionStatus {
	r.mu.Lock()
	defer r.mu.Unlock()

	status := entity.SessionStatus{ByDoc: map[string]int{}}
	s, ok := r.sessions[sessionId]
	if !ok {
		return status
	}
	for _, c := range s.Chunks {
		status.ByDoc[c.DocName]++
	}
	status.TotalChunks = len(s.Chunks)
	return status
}

func (r *SessionRepository) Exists(sessionId string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, ok := r.sessions[sessionId]
	return ok
}

func (r *SessionRepository) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return len(r.sessions)
}

func (r *SessionRepository) getOrCreateLocked(sessionId string) *entity.Session {
	s, ok := r.sessions[sessionId]
	if !ok {
		s = &entity.Session{}
		r.sessions[sessionId] = s
	}
	return s
}

func snapshot(s *entity.Session) entity.Session {
	return entity.Session{
		History: append([]entity.Turn{}, s.History...),
		Chunks:  append([]entity.RetrievalChunk{}, s.Chunks...),
	}
}
