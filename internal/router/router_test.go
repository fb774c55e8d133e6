package router

import "testing"

type recordingHandler struct {
	paths []string
}

func (h *recordingHandler) OnEdit(path string) { h.paths = append(h.paths, path) }

func TestRoute_Admitted(t *testing.T) {
	h := &recordingHandler{}
	r := New(h, []string{"Archive"})

	r.Route("Daily/2024-03-07.md")

	if len(h.paths) != 1 || h.paths[0] != "Daily/2024-03-07.md" {
		t.Errorf("dispatched: got %v, want [Daily/2024-03-07.md]", h.paths)
	}
}

func TestRoute_ExcludedPrefix(t *testing.T) {
	h := &recordingHandler{}
	r := New(h, []string{"Archive"})
	var dropped []string
	r.OnExcluded = func(path string) { dropped = append(dropped, path) }

	r.Route("Archive/notes.md")
	r.Route("Archive/2023/old.md")

	if len(h.paths) != 0 {
		t.Errorf("excluded events dispatched: %v", h.paths)
	}
	if len(dropped) != 2 {
		t.Errorf("dropped: got %d, want 2", len(dropped))
	}
}

func TestRoute_PrefixNeedsSeparator(t *testing.T) {
	h := &recordingHandler{}
	r := New(h, []string{"Archive"})

	// "Archived" shares the prefix text but is a different folder.
	r.Route("Archived/notes.md")

	if len(h.paths) != 1 {
		t.Errorf("Archived/notes.md was excluded; dispatched: %v", h.paths)
	}
}

func TestRoute_ExactFolderNameNotExcluded(t *testing.T) {
	h := &recordingHandler{}
	r := New(h, []string{"Archive"})

	// A file literally named like the prefix has no separator after it.
	r.Route("Archive")

	if len(h.paths) != 1 {
		t.Errorf("bare prefix path dropped; dispatched: %v", h.paths)
	}
}

func TestRoute_NestedExclusion(t *testing.T) {
	h := &recordingHandler{}
	r := New(h, []string{"Projects/Done"})

	r.Route("Projects/Done/x.md")
	r.Route("Projects/Active/x.md")

	if len(h.paths) != 1 || h.paths[0] != "Projects/Active/x.md" {
		t.Errorf("dispatched: got %v, want [Projects/Active/x.md]", h.paths)
	}
}

func TestSetExcluded_SwapsAtRuntime(t *testing.T) {
	h := &recordingHandler{}
	r := New(h, nil)

	r.Route("Archive/a.md")
	r.SetExcluded([]string{"Archive"})
	r.Route("Archive/b.md")

	if len(h.paths) != 1 || h.paths[0] != "Archive/a.md" {
		t.Errorf("dispatched: got %v, want [Archive/a.md]", h.paths)
	}
}
