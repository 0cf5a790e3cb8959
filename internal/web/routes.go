package web

import (
	"io/fs"
	"net/http"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/psychiclamb/poster-tracker/internal/store"
	"github.com/psychiclamb/poster-tracker/internal/tracker"
)

// app wires the handlers to the store and the session registry. The
// mutex serializes user actions: each handler runs a full
// load-mutate-persist-render cycle before the next one starts.
type app struct {
	store    *store.Store
	sessions *sessions
	mu       sync.Mutex
}

func newApp(conn *gorm.DB) *app {
	return &app{
		store:    store.New(conn),
		sessions: newSessions(),
	}
}

// registerRoutes sets up all routes on the Gin router. Every mutation
// is a POST followed by a 303 back to the list, so the rendered view
// always reflects the just-committed store state.
func registerRoutes(router *gin.Engine, a *app) {
	staticFS, _ := fs.Sub(assetsFS, "assets")
	router.StaticFS("/static", http.FS(staticFS))

	router.GET("/", a.handleIndex)

	router.POST("/topics", a.handleAdd)
	router.POST("/topics/:id/steps", a.handleSteps)
	router.POST("/topics/:id/all", a.handleMarkAll(true))
	router.POST("/topics/:id/none", a.handleMarkAll(false))
	router.POST("/topics/:id/reset", a.handleMarkAll(false))
	router.POST("/topics/:id/delete", a.handleDeleteArm)
	router.POST("/topics/:id/delete/confirm", a.handleDeleteConfirm)
	router.POST("/topics/:id/delete/cancel", a.handleDeleteCancel)
	router.POST("/topics/:id/up", a.handleMove(-1))
	router.POST("/topics/:id/down", a.handleMove(1))
	router.POST("/reorder", a.handleReorder)
	router.POST("/reset-all", a.handleResetAll)
}

// fail renders the storage-failure page. Nothing has been committed
// when this runs; the next load shows true store state.
func (a *app) fail(c *gin.Context, err error) {
	c.HTML(http.StatusInternalServerError, "error.html", gin.H{
		"Error": err.Error(),
	})
}

func (a *app) handleIndex(c *gin.Context) {
	a.mu.Lock()
	defer a.mu.Unlock()

	topics, err := a.store.LoadAll(c.Request.Context())
	if err != nil {
		a.fail(c, err)
		return
	}
	c.HTML(http.StatusOK, "index.html", a.buildPage(c, topics))
}

func (a *app) handleAdd(c *gin.Context) {
	a.mu.Lock()
	defer a.mu.Unlock()

	topics, err := a.store.LoadAll(c.Request.Context())
	if err != nil {
		a.fail(c, err)
		return
	}

	label := strings.TrimSpace(c.PostForm("label"))
	if label == "" {
		a.sessions.setFlash(c, "warning", "Topic label cannot be empty.")
		redirectBack(c)
		return
	}
	if tracker.FindByLabel(topics, label) != nil {
		a.sessions.setFlash(c, "warning", "That topic is already on the list.")
		redirectBack(c)
		return
	}

	t := tracker.NewTopic(label, tracker.MaxOrder(topics)+1)
	topics[t.ID] = t
	if err := a.store.SaveAll(c.Request.Context(), topics); err != nil {
		a.fail(c, err)
		return
	}
	a.sessions.setFlash(c, "notice", "Added "+t.Label+".")
	redirectBack(c)
}

// handleSteps commits the full checkbox set for one topic from the
// posted form. Unchecked boxes are simply absent from the form.
func (a *app) handleSteps(c *gin.Context) {
	a.mu.Lock()
	defer a.mu.Unlock()

	topics, err := a.store.LoadAll(c.Request.Context())
	if err != nil {
		a.fail(c, err)
		return
	}
	t, ok := topics[c.Param("id")]
	if !ok {
		// Stale form for a topic deleted meanwhile; re-render reality.
		redirectBack(c)
		return
	}

	for _, v := range tracker.Variants {
		for _, s := range tracker.Steps {
			_, checked := c.GetPostForm("step__" + v.Key + "__" + s.Key)
			t.SetStep(v.Key, s.Key, checked)
		}
	}
	if err := a.store.SaveAll(c.Request.Context(), topics); err != nil {
		a.fail(c, err)
		return
	}
	redirectBack(c)
}

func (a *app) handleMarkAll(done bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		a.mu.Lock()
		defer a.mu.Unlock()

		topics, err := a.store.LoadAll(c.Request.Context())
		if err != nil {
			a.fail(c, err)
			return
		}
		t, ok := topics[c.Param("id")]
		if !ok {
			redirectBack(c)
			return
		}

		t.SetAll(done)
		if err := a.store.SaveAll(c.Request.Context(), topics); err != nil {
			a.fail(c, err)
			return
		}
		redirectBack(c)
	}
}

func (a *app) handleDeleteArm(c *gin.Context) {
	a.sessions.arm(c, c.Param("id"))
	redirectBack(c)
}

func (a *app) handleDeleteCancel(c *gin.Context) {
	a.sessions.disarm(c, c.Param("id"))
	redirectBack(c)
}

func (a *app) handleDeleteConfirm(c *gin.Context) {
	a.mu.Lock()
	defer a.mu.Unlock()

	id := c.Param("id")
	if !a.sessions.isArmed(c, id) {
		// Confirm without a prior arm, e.g. a replayed form.
		redirectBack(c)
		return
	}
	if err := a.store.Delete(c.Request.Context(), id); err != nil {
		a.fail(c, err)
		return
	}
	a.sessions.disarm(c, id)
	a.sessions.setFlash(c, "notice", "Deleted.")
	redirectBack(c)
}

func (a *app) handleMove(delta int) gin.HandlerFunc {
	return func(c *gin.Context) {
		a.mu.Lock()
		defer a.mu.Unlock()

		topics, err := a.store.LoadAll(c.Request.Context())
		if err != nil {
			a.fail(c, err)
			return
		}
		if tracker.SwapAdjacent(topics, c.Param("id"), delta) {
			if err := a.store.SaveAll(c.Request.Context(), topics); err != nil {
				a.fail(c, err)
				return
			}
			a.sessions.setFlash(c, "notice", "Order updated.")
		}
		redirectBack(c)
	}
}

// handleReorder receives the drag-and-drop client's full id sequence
// and reconciles it against the stored set. No write happens when the
// computed order matches what is already stored.
func (a *app) handleReorder(c *gin.Context) {
	a.mu.Lock()
	defer a.mu.Unlock()

	topics, err := a.store.LoadAll(c.Request.Context())
	if err != nil {
		a.fail(c, err)
		return
	}

	var ids []string
	for _, id := range strings.Split(c.PostForm("order"), ",") {
		if id = strings.TrimSpace(id); id != "" {
			ids = append(ids, id)
		}
	}

	if tracker.ApplyOrder(topics, ids) {
		if err := a.store.SaveAll(c.Request.Context(), topics); err != nil {
			a.fail(c, err)
			return
		}
		a.sessions.setFlash(c, "notice", "Order updated.")
	}
	redirectBack(c)
}

func (a *app) handleResetAll(c *gin.Context) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if err := a.store.TruncateAll(c.Request.Context()); err != nil {
		a.fail(c, err)
		return
	}
	a.sessions.setFlash(c, "notice", "Everything reset.")
	redirectBack(c)
}
