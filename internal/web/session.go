package web

import (
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const sessionCookie = "pt_session"

// flash is a one-shot message rendered on the next page load.
type flash struct {
	Kind string // "notice" or "warning"
	Text string
}

// session holds transient per-browser UI state that mirrors nothing
// durable: the armed delete confirmations and the pending flash.
type session struct {
	armed map[string]bool
	flash *flash
}

// sessions is an in-memory session registry keyed by cookie value.
// State here is disposable; losing it on restart only disarms pending
// delete confirmations.
type sessions struct {
	mu sync.Mutex
	m  map[string]*session
}

func newSessions() *sessions {
	return &sessions{m: make(map[string]*session)}
}

// get returns the session for the request, creating it and setting the
// cookie when absent.
func (s *sessions) get(c *gin.Context) *session {
	s.mu.Lock()
	defer s.mu.Unlock()

	id, err := c.Cookie(sessionCookie)
	if err != nil || id == "" {
		id = uuid.NewString()
		c.SetCookie(sessionCookie, id, 0, "/", "", false, true)
	}
	sess, ok := s.m[id]
	if !ok {
		sess = &session{armed: make(map[string]bool)}
		s.m[id] = sess
	}
	return sess
}

func (s *sessions) arm(c *gin.Context, topicID string) {
	sess := s.get(c)
	s.mu.Lock()
	defer s.mu.Unlock()
	sess.armed[topicID] = true
}

func (s *sessions) disarm(c *gin.Context, topicID string) {
	sess := s.get(c)
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(sess.armed, topicID)
}

func (s *sessions) isArmed(c *gin.Context, topicID string) bool {
	sess := s.get(c)
	s.mu.Lock()
	defer s.mu.Unlock()
	return sess.armed[topicID]
}

// setFlash queues a one-shot message.
func (s *sessions) setFlash(c *gin.Context, kind, text string) {
	sess := s.get(c)
	s.mu.Lock()
	defer s.mu.Unlock()
	sess.flash = &flash{Kind: kind, Text: text}
}

// takeFlash returns and clears the pending message, if any.
func (s *sessions) takeFlash(c *gin.Context) *flash {
	sess := s.get(c)
	s.mu.Lock()
	defer s.mu.Unlock()
	f := sess.flash
	sess.flash = nil
	return f
}

// redirectBack sends the browser to the list, preserving the view
// controls (search, filter, sort) carried as hidden form fields.
func redirectBack(c *gin.Context) {
	target := "/?" + viewQuery(c).Encode()
	c.Redirect(http.StatusSeeOther, target)
}
