package tracker

import "testing"

func TestDoneTotal(t *testing.T) {
	topic := NewTopic("a", 1)

	done, total := DoneTotal(topic)
	if total != len(Variants)*len(Steps) {
		t.Fatalf("total = %d, want %d", total, len(Variants)*len(Steps))
	}
	if total != 7 {
		t.Fatalf("total = %d, want 7", total)
	}
	if done != 0 {
		t.Errorf("fresh topic done = %d, want 0", done)
	}

	topic.SetStep("vertical", "copyright_review_done", true)
	topic.SetStep("vertical", "quality_enhanced", true)
	topic.SetStep("vertical", "upload_marketplace_b", true)

	done, total = DoneTotal(topic)
	if done != 3 || total != 7 {
		t.Errorf("done/total = %d/%d, want 3/7", done, total)
	}
	if done > total {
		t.Error("done exceeds total")
	}
}

func TestFraction(t *testing.T) {
	if got := Fraction(0, 0); got != 0 {
		t.Errorf("Fraction(0,0) = %v, want 0", got)
	}
	if got := Fraction(3, 7); got != 3.0/7.0 {
		t.Errorf("Fraction(3,7) = %v", got)
	}
}

func makeSet(t *testing.T) (map[string]*Topic, *Topic, *Topic, *Topic) {
	t.Helper()
	a := NewTopic("Alpine Villages", 1)
	b := NewTopic("beach sunsets", 2)
	c := NewTopic("City Skylines", 3)
	c.SetAll(true)
	b.SetStep("vertical", "posters_edited", true)
	return map[string]*Topic{a.ID: a, b.ID: b, c.ID: c}, a, b, c
}

func TestVisible_Filter(t *testing.T) {
	topics, a, b, c := makeSet(t)

	complete := Visible(topics, "", FilterComplete, SortManual)
	if len(complete) != 1 || complete[0] != c {
		t.Fatalf("complete filter returned %d items", len(complete))
	}

	incomplete := Visible(topics, "", FilterIncomplete, SortManual)
	if len(incomplete) != 2 {
		t.Fatalf("incomplete filter returned %d items, want 2", len(incomplete))
	}
	if incomplete[0] != a || incomplete[1] != b {
		t.Error("incomplete filter lost manual order")
	}
}

func TestVisible_Search(t *testing.T) {
	topics, _, b, _ := makeSet(t)

	got := Visible(topics, "BEACH", FilterAll, SortManual)
	if len(got) != 1 || got[0] != b {
		t.Fatalf("search returned %d items", len(got))
	}
	if got := Visible(topics, "nothing here", FilterAll, SortManual); len(got) != 0 {
		t.Errorf("search returned %d items, want 0", len(got))
	}
}

func TestVisible_Sort(t *testing.T) {
	topics, a, b, c := makeSet(t)

	byLabel := Visible(topics, "", FilterAll, SortLabel)
	if byLabel[0] != a || byLabel[1] != b || byLabel[2] != c {
		t.Error("label sort is not case-insensitive A→Z")
	}

	byProgress := Visible(topics, "", FilterAll, SortProgress)
	if byProgress[0] != c || byProgress[1] != b || byProgress[2] != a {
		t.Error("progress sort is not descending")
	}

	// Equal progress keeps manual order (stable ties).
	b.SetStep("vertical", "posters_edited", false)
	byProgress = Visible(topics, "", FilterAll, SortProgress)
	if byProgress[1] != a || byProgress[2] != b {
		t.Error("progress ties broke manual order")
	}
}

func TestOverall(t *testing.T) {
	topics, _, _, _ := makeSet(t)
	done, total := Overall(ByOrder(topics))
	if total != 21 {
		t.Fatalf("total = %d, want 21", total)
	}
	if done != 8 {
		t.Errorf("done = %d, want 8", done)
	}
}
