package web

import (
	"net/url"

	"github.com/gin-gonic/gin"

	"github.com/psychiclamb/poster-tracker/internal/tracker"
)

// stepView is one checkbox row.
type stepView struct {
	Key   string
	Label string
	Done  bool
}

// topicView is one rendered topic card.
type topicView struct {
	ID          string
	Label       string
	Rank        int
	Done        int
	Total       int
	Steps       []stepView
	DeleteArmed bool
	First       bool
	Last        bool
}

// pageView is everything the list template needs.
type pageView struct {
	Topics      []topicView
	Sidebar     []topicView // full set in manual order, for the reorder list
	Query       string
	Filter      string
	Sort        string
	OverallDone int
	OverallTot  int
	Flash       *flash
	Error       string
}

// viewQuery extracts the list-view controls from the request, checking
// posted hidden fields first so mutations keep the current view.
func viewQuery(c *gin.Context) url.Values {
	pick := func(name string) string {
		if v, ok := c.GetPostForm(name); ok {
			return v
		}
		return c.Query(name)
	}
	v := url.Values{}
	if q := pick("q"); q != "" {
		v.Set("q", q)
	}
	if f := pick("filter"); f != "" && f != tracker.FilterAll {
		v.Set("filter", f)
	}
	if s := pick("sort"); s != "" && s != tracker.SortManual {
		v.Set("sort", s)
	}
	return v
}

// buildPage assembles the view model from the loaded topic set.
func (a *app) buildPage(c *gin.Context, topics map[string]*tracker.Topic) pageView {
	query := c.Query("q")
	filter := c.Query("filter")
	if filter == "" {
		filter = tracker.FilterAll
	}
	sortMode := c.Query("sort")
	if sortMode == "" {
		sortMode = tracker.SortManual
	}

	visible := tracker.Visible(topics, query, filter, sortMode)
	done, total := tracker.Overall(visible)

	page := pageView{
		Query:       query,
		Filter:      filter,
		Sort:        sortMode,
		OverallDone: done,
		OverallTot:  total,
		Flash:       a.sessions.takeFlash(c),
	}
	for _, t := range visible {
		page.Topics = append(page.Topics, a.topicView(c, t))
	}

	ordered := tracker.ByOrder(topics)
	for i, t := range ordered {
		tv := a.topicView(c, t)
		tv.First = i == 0
		tv.Last = i == len(ordered)-1
		page.Sidebar = append(page.Sidebar, tv)
	}
	return page
}

func (a *app) topicView(c *gin.Context, t *tracker.Topic) topicView {
	done, total := tracker.DoneTotal(t)
	tv := topicView{
		ID:          t.ID,
		Label:       t.Label,
		Rank:        t.Order,
		Done:        done,
		Total:       total,
		DeleteArmed: a.sessions.isArmed(c, t.ID),
	}
	for _, v := range tracker.Variants {
		for _, s := range tracker.Steps {
			tv.Steps = append(tv.Steps, stepView{
				Key:   v.Key + "__" + s.Key,
				Label: s.Label,
				Done:  t.StepDone(v.Key, s.Key),
			})
		}
	}
	return tv
}
