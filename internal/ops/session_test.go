package ops

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/jacksmith/snip/internal/model"
	"github.com/jacksmith/snip/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestSession opens a session over an in-memory store.
func newTestSession(t *testing.T) (*Session, *storage.MemoryKV) {
	t.Helper()
	kv := storage.NewMemoryKV()
	s, err := NewSession(context.Background(), kv)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s, kv
}

type fixture struct {
	g1, g2     int
	a, b, c, x int
}

// seed creates G1{A,B,C} and G2{X}.
func seed(t *testing.T, s *Session) fixture {
	t.Helper()
	ctx := context.Background()
	var f fixture
	var err error
	f.g1, err = s.AddGroup(ctx, "G1")
	require.NoError(t, err)
	f.g2, err = s.AddGroup(ctx, "G2")
	require.NoError(t, err)
	f.a, err = s.AddTemplate(ctx, f.g1, "A", "alpha")
	require.NoError(t, err)
	f.b, err = s.AddTemplate(ctx, f.g1, "B", "bravo")
	require.NoError(t, err)
	f.c, err = s.AddTemplate(ctx, f.g1, "C", "charlie")
	require.NoError(t, err)
	f.x, err = s.AddTemplate(ctx, f.g2, "X", "x-ray")
	require.NoError(t, err)
	return f
}

func names(ts []model.Template) []string {
	out := make([]string, len(ts))
	for i, t := range ts {
		out[i] = t.Name
	}
	return out
}

func orders(ts []model.Template) []int {
	out := make([]int, len(ts))
	for i, t := range ts {
		out[i] = t.Order
	}
	return out
}

// stored reads back what the session persisted.
func stored(t *testing.T, kv storage.Blobs) *model.StorageData {
	t.Helper()
	d, err := storage.LoadData(context.Background(), kv)
	require.NoError(t, err)
	return d
}

func TestNewSession(t *testing.T) {
	t.Run("absent blob yields defaults", func(t *testing.T) {
		s, kv := newTestSession(t)
		assert.Equal(t, model.NewStorageData(), s.Snapshot())
		assert.Equal(t, model.DefaultShortcutKey, s.ShortcutKey())
		assert.Equal(t, 0, kv.SaveCount())
	})

	t.Run("read failure is surfaced", func(t *testing.T) {
		kv := storage.NewMemoryKV()
		boom := errors.New("disk on fire")
		kv.FailLoad(boom)

		_, err := NewSession(context.Background(), kv)
		require.Error(t, err)
		var se *StorageError
		require.True(t, errors.As(err, &se))
		assert.Equal(t, KindRead, se.Kind)
		assert.ErrorIs(t, err, boom)
	})
}

func TestOperationsPersist(t *testing.T) {
	s, kv := newTestSession(t)
	f := seed(t, s)
	ctx := context.Background()

	require.NoError(t, s.MoveTemplateToGroup(ctx, f.a, f.g2, 1))
	require.NoError(t, s.ReorderGroups(ctx, []int{f.g2, f.g1}))
	require.NoError(t, s.SetShortcutKey(ctx, "//"))

	if diff := cmp.Diff(s.Snapshot(), stored(t, kv)); diff != "" {
		t.Errorf("persisted state differs (-session +stored):\n%s", diff)
	}
}

func TestMoveTemplateSameGroupForward(t *testing.T) {
	s, _ := newTestSession(t)
	f := seed(t, s)

	require.NoError(t, s.MoveTemplateToGroup(context.Background(), f.a, f.g1, 2))

	ts := s.TemplatesInGroup(f.g1)
	assert.Equal(t, []string{"B", "C", "A"}, names(ts))
	assert.Equal(t, []int{0, 1, 2}, orders(ts))
}

func TestMoveTemplateAcrossGroups(t *testing.T) {
	s, _ := newTestSession(t)
	ctx := context.Background()
	g1, err := s.AddGroup(ctx, "G1")
	require.NoError(t, err)
	g2, err := s.AddGroup(ctx, "G2")
	require.NoError(t, err)
	a, err := s.AddTemplate(ctx, g1, "A", "")
	require.NoError(t, err)
	_, err = s.AddTemplate(ctx, g1, "B", "")
	require.NoError(t, err)
	_, err = s.AddTemplate(ctx, g2, "X", "")
	require.NoError(t, err)

	require.NoError(t, s.MoveTemplateToGroup(ctx, a, g2, 1))

	assert.Equal(t, []string{"B"}, names(s.TemplatesInGroup(g1)))
	assert.Equal(t, []int{0}, orders(s.TemplatesInGroup(g1)))
	assert.Equal(t, []string{"X", "A"}, names(s.TemplatesInGroup(g2)))
	assert.Equal(t, []int{0, 1}, orders(s.TemplatesInGroup(g2)))
}

func TestMoveTemplateToMissingGroup(t *testing.T) {
	s, kv := newTestSession(t)
	f := seed(t, s)
	saves := kv.SaveCount()

	err := s.MoveTemplateToGroup(context.Background(), f.a, 99, 0)
	assert.ErrorIs(t, err, model.ErrGroupNotFound)
	assert.Equal(t, saves, kv.SaveCount())
}

func TestReorderGroups(t *testing.T) {
	s, _ := newTestSession(t)
	ctx := context.Background()
	p, _ := s.AddGroup(ctx, "P")
	q, _ := s.AddGroup(ctx, "Q")
	r, _ := s.AddGroup(ctx, "R")

	require.NoError(t, s.ReorderGroups(ctx, []int{r, p, q}))

	got := map[string]int{}
	for _, g := range s.Groups() {
		got[g.Name] = g.Order
	}
	assert.Equal(t, map[string]int{"R": 0, "P": 1, "Q": 2}, got)
}

func TestReorderTemplatesRoundTrip(t *testing.T) {
	s, _ := newTestSession(t)
	f := seed(t, s)

	ids := []int{f.c, f.a, f.b}
	require.NoError(t, s.ReorderTemplates(context.Background(), f.g1, ids))

	var got []int
	for _, tp := range s.TemplatesInGroup(f.g1) {
		got = append(got, tp.ID)
	}
	assert.Equal(t, ids, got)
}

func TestDeleteTemplateReindexes(t *testing.T) {
	s, _ := newTestSession(t)
	f := seed(t, s)

	require.NoError(t, s.DeleteTemplate(context.Background(), f.b))

	ts := s.TemplatesInGroup(f.g1)
	assert.Equal(t, []string{"A", "C"}, names(ts))
	assert.Equal(t, []int{0, 1}, orders(ts))
}

func TestAddTemplate(t *testing.T) {
	t.Run("into empty group gets order 0", func(t *testing.T) {
		s, _ := newTestSession(t)
		ctx := context.Background()
		g, err := s.AddGroup(ctx, "empty")
		require.NoError(t, err)

		id, err := s.AddTemplate(ctx, g, "first", "")
		require.NoError(t, err)

		tp, ok := s.FindTemplate(id)
		require.True(t, ok)
		assert.Equal(t, 0, tp.Order)
		require.NotNil(t, tp.GroupID)
		assert.Equal(t, g, *tp.GroupID)
	})

	t.Run("order equals prior count", func(t *testing.T) {
		s, _ := newTestSession(t)
		f := seed(t, s)

		id, err := s.AddTemplate(context.Background(), f.g1, "D", "")
		require.NoError(t, err)
		tp, _ := s.FindTemplate(id)
		assert.Equal(t, 3, tp.Order)
	})

	t.Run("blank name never reaches the store", func(t *testing.T) {
		s, kv := newTestSession(t)
		f := seed(t, s)
		saves := kv.SaveCount()

		_, err := s.AddTemplate(context.Background(), f.g1, "   ", "content")
		var ve *ValidationError
		require.True(t, errors.As(err, &ve))
		assert.Equal(t, "name", ve.Field)
		assert.Equal(t, saves, kv.SaveCount())
	})

	t.Run("missing group", func(t *testing.T) {
		s, _ := newTestSession(t)
		_, err := s.AddTemplate(context.Background(), 7, "x", "")
		assert.ErrorIs(t, err, model.ErrGroupNotFound)
	})
}

func TestUpdateTemplate(t *testing.T) {
	s, _ := newTestSession(t)
	f := seed(t, s)
	ctx := context.Background()

	content := "ALPHA"
	require.NoError(t, s.UpdateTemplate(ctx, f.a, model.TemplatePatch{Content: &content}))
	tp, _ := s.FindTemplate(f.a)
	assert.Equal(t, "A", tp.Name)
	assert.Equal(t, "ALPHA", tp.Content)

	blank := ""
	err := s.UpdateTemplate(ctx, f.a, model.TemplatePatch{Name: &blank})
	var ve *ValidationError
	assert.True(t, errors.As(err, &ve))
}

func TestDeleteGroupCascades(t *testing.T) {
	s, kv := newTestSession(t)
	f := seed(t, s)

	require.NoError(t, s.DeleteGroup(context.Background(), f.g1))

	for _, tp := range stored(t, kv).Templates {
		if tp.GroupID != nil {
			assert.NotEqual(t, f.g1, *tp.GroupID)
		}
	}
	groups := s.Groups()
	require.Len(t, groups, 1)
	assert.Equal(t, 0, groups[0].Order)
}

func TestDeleteAll(t *testing.T) {
	s, _ := newTestSession(t)
	seed(t, s)
	ctx := context.Background()

	require.NoError(t, s.DeleteAllTemplates(ctx))
	assert.Empty(t, s.Snapshot().Templates)
	assert.Len(t, s.Groups(), 2)

	require.NoError(t, s.DeleteAllGroups(ctx))
	assert.Empty(t, s.Groups())
}

func TestNoopsSkipTheStore(t *testing.T) {
	s, kv := newTestSession(t)
	f := seed(t, s)
	ctx := context.Background()
	saves := kv.SaveCount()
	name := "renamed"

	require.NoError(t, s.UpdateGroup(ctx, 99, model.GroupPatch{Name: &name}))
	require.NoError(t, s.UpdateTemplate(ctx, 99, model.TemplatePatch{Name: &name}))
	require.NoError(t, s.DeleteGroup(ctx, 99))
	require.NoError(t, s.DeleteTemplate(ctx, 99))
	require.NoError(t, s.MoveTemplateToGroup(ctx, f.b, f.g1, 1))
	require.NoError(t, s.SetShortcutKey(ctx, model.DefaultShortcutKey))

	assert.Equal(t, saves, kv.SaveCount())
}

func TestSetShortcutKeyValidation(t *testing.T) {
	s, _ := newTestSession(t)
	ctx := context.Background()

	var ve *ValidationError
	assert.True(t, errors.As(s.SetShortcutKey(ctx, ""), &ve))
	assert.True(t, errors.As(s.SetShortcutKey(ctx, "a b"), &ve))

	require.NoError(t, s.SetShortcutKey(ctx, ";;"))
	assert.Equal(t, ";;", s.ShortcutKey())
}

func TestRollbackOnWriteFailure(t *testing.T) {
	s, kv := newTestSession(t)
	f := seed(t, s)
	ctx := context.Background()

	before := s.Snapshot()
	boom := errors.New("write refused")
	kv.FailSave(boom)

	err := s.MoveTemplateToGroup(ctx, f.a, f.g2, 1)
	require.Error(t, err)

	var se *StorageError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, KindWrite, se.Kind)
	assert.Equal(t, "moveTemplateToGroup", se.Op)
	assert.ErrorIs(t, err, boom)

	if diff := cmp.Diff(before, s.Snapshot()); diff != "" {
		t.Errorf("state not restored (-before +after):\n%s", diff)
	}
	if diff := cmp.Diff(before, stored(t, kv)); diff != "" {
		t.Errorf("store changed (-before +stored):\n%s", diff)
	}

	kv.FailSave(nil)
	require.NoError(t, s.MoveTemplateToGroup(ctx, f.a, f.g2, 1))
	assert.Equal(t, []string{"X", "A"}, names(s.TemplatesInGroup(f.g2)))
}

func TestQuotaExceeded(t *testing.T) {
	mem := storage.NewMemoryKV()
	s, err := NewSession(context.Background(), storage.WithQuota(mem, 512))
	require.NoError(t, err)
	defer s.Close()
	ctx := context.Background()

	g, err := s.AddGroup(ctx, "big")
	require.NoError(t, err)

	before := s.Snapshot()
	_, err = s.AddTemplate(ctx, g, "huge", strings.Repeat("x", 1024))
	require.Error(t, err)
	assert.True(t, IsQuotaExceeded(err))
	assert.Equal(t, before, s.Snapshot())

	assert.False(t, IsQuotaExceeded(errors.New("other")))
}

func TestFIFOQueue(t *testing.T) {
	s, _ := newTestSession(t)
	ctx := context.Background()
	g, err := s.AddGroup(ctx, "queue")
	require.NoError(t, err)

	const n = 40
	results := make([]<-chan error, n)
	for i := 0; i < n; i++ {
		name := fmt.Sprintf("t%02d", i)
		results[i] = s.Submit(ctx, "addTemplate", func(d *model.StorageData) error {
			_, err := d.AddTemplate(g, name, "")
			return err
		})
	}
	for _, res := range results {
		require.NoError(t, <-res)
	}

	ts := s.TemplatesInGroup(g)
	require.Len(t, ts, n)
	for i, tp := range ts {
		assert.Equal(t, fmt.Sprintf("t%02d", i), tp.Name)
		assert.Equal(t, i, tp.Order)
	}
}

func TestConcurrentWritersKeepInvariants(t *testing.T) {
	s, _ := newTestSession(t)
	f := seed(t, s)
	ctx := context.Background()

	var wg sync.WaitGroup
	for w := 0; w < 8; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < 10; i++ {
				gid := f.g1
				if (w+i)%2 == 0 {
					gid = f.g2
				}
				id, err := s.AddTemplate(ctx, gid, fmt.Sprintf("w%d-%d", w, i), "")
				assert.NoError(t, err)
				assert.NoError(t, s.MoveTemplateToGroup(ctx, id, f.g1, 0))
			}
		}(w)
	}
	wg.Wait()

	assert.Empty(t, s.Check().Violations)
	assert.Len(t, s.TemplatesInGroup(f.g1), 3+80)
}

func TestCanceledContextIsDroppedFromQueue(t *testing.T) {
	s, kv := newTestSession(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.AddGroup(ctx, "never")
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, s.Groups())
	assert.Equal(t, 0, kv.SaveCount())
}

func TestClosedSession(t *testing.T) {
	s, _ := newTestSession(t)
	require.NoError(t, s.Close())

	_, err := s.AddGroup(context.Background(), "late")
	assert.ErrorIs(t, err, ErrSessionClosed)
	assert.NoError(t, s.Close())
}

func TestReload(t *testing.T) {
	kv := storage.NewMemoryKV()
	ctx := context.Background()
	s1, err := NewSession(ctx, kv)
	require.NoError(t, err)
	defer s1.Close()
	s2, err := NewSession(ctx, kv)
	require.NoError(t, err)
	defer s2.Close()

	_, err = s2.AddGroup(ctx, "from s2")
	require.NoError(t, err)
	assert.Empty(t, s1.Groups())

	require.NoError(t, s1.Reload(ctx))
	require.Len(t, s1.Groups(), 1)
	assert.Equal(t, "from s2", s1.Groups()[0].Name)

	boom := errors.New("gone")
	kv.FailLoad(boom)
	err = s1.Reload(ctx)
	var se *StorageError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, KindRead, se.Kind)
	assert.Len(t, s1.Groups(), 1)
}

// gatedKV holds Load open until release is closed, once entered is set.
type gatedKV struct {
	*storage.MemoryKV
	entered chan struct{}
	release chan struct{}
}

func (g *gatedKV) Load(ctx context.Context, key string) ([]byte, bool, error) {
	if g.entered != nil {
		close(g.entered)
		<-g.release
	}
	return g.MemoryKV.Load(ctx, key)
}

func TestReloadDoesNotBlockReaders(t *testing.T) {
	kv := &gatedKV{MemoryKV: storage.NewMemoryKV()}
	ctx := context.Background()
	s, err := NewSession(ctx, kv)
	require.NoError(t, err)
	defer s.Close()
	_, err = s.AddGroup(ctx, "Writing")
	require.NoError(t, err)

	kv.entered = make(chan struct{})
	kv.release = make(chan struct{})
	reloaded := make(chan error, 1)
	go func() { reloaded <- s.Reload(ctx) }()
	<-kv.entered

	read := make(chan []model.Group, 1)
	go func() { read <- s.Groups() }()
	select {
	case gs := <-read:
		assert.Len(t, gs, 1)
	case <-time.After(time.Second):
		close(kv.release)
		t.Fatal("Groups blocked while the blob was loading")
	}

	close(kv.release)
	require.NoError(t, <-reloaded)
	assert.Len(t, s.Groups(), 1)
}

func TestImport(t *testing.T) {
	s, kv := newTestSession(t)
	seed(t, s)

	in := model.NewStorageData()
	in.ShortcutKey = ""
	g := in.AddGroup("Imported")
	_, err := in.AddTemplate(g.ID, "only", "")
	require.NoError(t, err)

	require.NoError(t, s.Import(context.Background(), in))
	snap := s.Snapshot()
	assert.Equal(t, model.DefaultShortcutKey, snap.ShortcutKey)
	require.Len(t, snap.Groups, 1)
	assert.Equal(t, "Imported", snap.Groups[0].Name)
	if diff := cmp.Diff(snap, stored(t, kv)); diff != "" {
		t.Errorf("import not persisted:\n%s", diff)
	}
}

func TestCheckAndRepair(t *testing.T) {
	s, kv := newTestSession(t)
	ctx := context.Background()
	gid := 1
	broken := &model.StorageData{
		Groups: []model.Group{{ID: 1, Name: "g", Order: 5}},
		Templates: []model.Template{
			{ID: 1, GroupID: &gid, Name: "a", Order: 4},
			{ID: 2, GroupID: model.GroupRef(9), Name: "dangling", Order: 0},
		},
		ShortcutKey: "#",
	}
	require.NoError(t, s.Import(ctx, broken))

	assert.NotEmpty(t, s.Check().Violations)

	result, err := s.Repair(ctx)
	require.NoError(t, err)
	assert.NotEmpty(t, result.Violations)
	assert.NotEmpty(t, result.Fixes)
	assert.Empty(t, s.Check().Violations)
	assert.Empty(t, stored(t, kv).Check())

	result, err = s.Repair(ctx)
	require.NoError(t, err)
	assert.Empty(t, result.Fixes)
}
