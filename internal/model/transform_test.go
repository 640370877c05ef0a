package model

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newFixture builds G1{A,B,C} and G2{X} plus one orphan.
func newFixture(t *testing.T) *StorageData {
	t.Helper()
	d := NewStorageData()
	g1 := d.AddGroup("G1")
	g2 := d.AddGroup("G2")
	for _, name := range []string{"A", "B", "C"} {
		_, err := d.AddTemplate(g1.ID, name, "content "+name)
		require.NoError(t, err)
	}
	_, err := d.AddTemplate(g2.ID, "X", "x")
	require.NoError(t, err)
	d.Templates = append(d.Templates, Template{ID: NextID(d.Templates), Name: "loose"})
	return d
}

func namesInGroup(d *StorageData, gid int) []string {
	var out []string
	for _, t := range d.TemplatesInGroup(GroupRef(gid)) {
		out = append(out, t.Name)
	}
	return out
}

func groupNames(d *StorageData) []string {
	var out []string
	for _, g := range d.SortedGroups() {
		out = append(out, g.Name)
	}
	return out
}

func TestAddGroup(t *testing.T) {
	d := NewStorageData()
	a := d.AddGroup("a")
	b := d.AddGroup("b")
	assert.Equal(t, 1, a.ID)
	assert.Equal(t, 0, a.Order)
	assert.Equal(t, 2, b.ID)
	assert.Equal(t, 1, b.Order)

	d.DeleteGroup(a.ID)
	c := d.AddGroup("c")
	assert.Equal(t, 3, c.ID, "ids are never reused")
	assert.Equal(t, 1, c.Order)
}

func TestAddTemplate(t *testing.T) {
	t.Run("into empty group gets order 0", func(t *testing.T) {
		d := NewStorageData()
		g := d.AddGroup("g")
		tp, err := d.AddTemplate(g.ID, "n", "c")
		require.NoError(t, err)
		assert.Equal(t, 0, tp.Order)
		assert.Equal(t, 1, tp.ID)
		assert.Equal(t, g.ID, *tp.GroupID)
	})

	t.Run("appends after existing templates", func(t *testing.T) {
		d := newFixture(t)
		before := len(d.TemplatesInGroup(GroupRef(1)))
		tp, err := d.AddTemplate(1, "D", "")
		require.NoError(t, err)
		assert.Equal(t, before, tp.Order)
	})

	t.Run("unknown group", func(t *testing.T) {
		d := NewStorageData()
		_, err := d.AddTemplate(4, "n", "c")
		assert.ErrorIs(t, err, ErrGroupNotFound)
		assert.Empty(t, d.Templates)
	})
}

func TestDeleteGroupCascades(t *testing.T) {
	d := newFixture(t)
	require.True(t, d.DeleteGroup(1))

	for _, tp := range d.Templates {
		if tp.GroupID != nil {
			assert.NotEqual(t, 1, *tp.GroupID)
		}
	}
	assert.Equal(t, []string{"G2"}, groupNames(d))
	assert.Equal(t, 0, d.Groups[0].Order)
	assert.Len(t, d.Templates, 2, "X and the orphan survive")

	assert.False(t, d.DeleteGroup(1))
}

func TestUpdateGroup(t *testing.T) {
	d := newFixture(t)
	name := "Renamed"
	assert.True(t, d.UpdateGroup(2, GroupPatch{Name: &name}))
	assert.Equal(t, "Renamed", d.FindGroup(2).Name)

	before := d.Clone()
	assert.False(t, d.UpdateGroup(42, GroupPatch{Name: &name}))
	assert.Equal(t, before, d)
}

func TestReorderGroups(t *testing.T) {
	d := NewStorageData()
	p := d.AddGroup("P")
	q := d.AddGroup("Q")
	r := d.AddGroup("R")

	d.ReorderGroups([]int{r.ID, p.ID, q.ID})
	assert.Equal(t, 0, d.FindGroup(r.ID).Order)
	assert.Equal(t, 1, d.FindGroup(p.ID).Order)
	assert.Equal(t, 2, d.FindGroup(q.ID).Order)

	d.ReorderGroups([]int{q.ID, 99})
	assert.Equal(t, []string{"Q", "R", "P"}, groupNames(d), "missing ids follow in current order")
}

func TestUpdateTemplate(t *testing.T) {
	d := newFixture(t)
	content := "new"
	assert.True(t, d.UpdateTemplate(2, TemplatePatch{Content: &content}))
	assert.Equal(t, "new", d.FindTemplate(2).Content)
	assert.Equal(t, "B", d.FindTemplate(2).Name)
	assert.False(t, d.UpdateTemplate(404, TemplatePatch{Content: &content}))
}

func TestDeleteTemplateReindexesSiblings(t *testing.T) {
	d := newFixture(t)
	require.True(t, d.DeleteTemplate(2)) // B

	ts := d.TemplatesInGroup(GroupRef(1))
	require.Len(t, ts, 2)
	assert.Equal(t, "A", ts[0].Name)
	assert.Equal(t, 0, ts[0].Order)
	assert.Equal(t, "C", ts[1].Name)
	assert.Equal(t, 1, ts[1].Order)

	assert.False(t, d.DeleteTemplate(2))
}

func TestReorderTemplatesRoundTrip(t *testing.T) {
	d := newFixture(t)
	d.ReorderTemplates(1, []int{3, 1, 2})

	var ids []int
	for _, tp := range d.TemplatesInGroup(GroupRef(1)) {
		ids = append(ids, tp.ID)
	}
	assert.Equal(t, []int{3, 1, 2}, ids)
	assert.Equal(t, 0, d.FindTemplate(4).Order, "other groups untouched")
}

func TestReorderTemplatesIgnoresForeignIDs(t *testing.T) {
	d := newFixture(t)
	d.ReorderTemplates(1, []int{4, 2})

	assert.Equal(t, []string{"B", "A", "C"}, namesInGroup(d, 1))
	assert.Equal(t, 0, d.FindTemplate(4).Order)
}

func TestStorageMoveTemplate(t *testing.T) {
	t.Run("same group forward", func(t *testing.T) {
		d := newFixture(t)
		changed, err := d.MoveTemplate(1, 1, 2)
		require.NoError(t, err)
		assert.True(t, changed)
		assert.Equal(t, []string{"B", "C", "A"}, namesInGroup(d, 1))
	})

	t.Run("cross group", func(t *testing.T) {
		d := newFixture(t)
		_, err := d.MoveTemplate(1, 2, 1)
		require.NoError(t, err)
		assert.Equal(t, []string{"B", "C"}, namesInGroup(d, 1))
		assert.Equal(t, []string{"X", "A"}, namesInGroup(d, 2))
		assert.Equal(t, 2, *d.FindTemplate(1).GroupID)
	})

	t.Run("orphan adopted into group", func(t *testing.T) {
		d := newFixture(t)
		_, err := d.MoveTemplate(5, 2, 0)
		require.NoError(t, err)
		assert.Equal(t, []string{"loose", "X"}, namesInGroup(d, 2))
	})

	t.Run("sparse orders are compacted first", func(t *testing.T) {
		d := newFixture(t)
		for i := range d.Templates {
			d.Templates[i].Order *= 10
		}
		_, err := d.MoveTemplate(3, 1, 0)
		require.NoError(t, err)
		assert.Equal(t, []string{"C", "A", "B"}, namesInGroup(d, 1))
		assert.True(t, IsDense(d.Templates, func(t Template) bool { return t.InGroup(GroupRef(1)) }))
	})

	t.Run("no-op keeps every order", func(t *testing.T) {
		d := newFixture(t)
		before := d.Clone()
		for _, tp := range before.Templates {
			if tp.GroupID == nil {
				continue
			}
			changed, err := d.MoveTemplate(tp.ID, *tp.GroupID, tp.Order)
			require.NoError(t, err)
			assert.False(t, changed)
		}
		assert.Equal(t, before, d)
	})

	t.Run("unknown target group", func(t *testing.T) {
		d := newFixture(t)
		_, err := d.MoveTemplate(1, 77, 0)
		assert.ErrorIs(t, err, ErrGroupNotFound)
	})
}

func TestDeleteAll(t *testing.T) {
	d := newFixture(t)
	d.DeleteAllGroups()
	assert.Empty(t, d.Groups)
	require.Len(t, d.Templates, 1)
	assert.Equal(t, "loose", d.Templates[0].Name)

	d.DeleteAllTemplates()
	assert.Empty(t, d.Templates)
}

// TestRandomOperationsKeepInvariants drives a random mix of operations and
// checks after each step that orders are unique and dense per scope and no
// template points at a missing group.
func TestRandomOperationsKeepInvariants(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	d := NewStorageData()

	pickGroup := func() (int, bool) {
		if len(d.Groups) == 0 {
			return 0, false
		}
		return d.Groups[rng.Intn(len(d.Groups))].ID, true
	}
	pickTemplate := func() (int, bool) {
		if len(d.Templates) == 0 {
			return 0, false
		}
		return d.Templates[rng.Intn(len(d.Templates))].ID, true
	}

	for step := 0; step < 2000; step++ {
		switch rng.Intn(8) {
		case 0:
			d.AddGroup("g")
		case 1, 2:
			if gid, ok := pickGroup(); ok {
				_, err := d.AddTemplate(gid, "t", "")
				require.NoError(t, err)
			}
		case 3:
			if gid, ok := pickGroup(); ok && rng.Intn(4) == 0 {
				d.DeleteGroup(gid)
			}
		case 4:
			if id, ok := pickTemplate(); ok {
				d.DeleteTemplate(id)
			}
		case 5:
			ids := SortedIDs(d.Groups, nil)
			rng.Shuffle(len(ids), func(i, j int) { ids[i], ids[j] = ids[j], ids[i] })
			d.ReorderGroups(ids)
		case 6:
			if gid, ok := pickGroup(); ok {
				ref := GroupRef(gid)
				ids := SortedIDs(d.Templates, func(t Template) bool { return t.InGroup(ref) })
				rng.Shuffle(len(ids), func(i, j int) { ids[i], ids[j] = ids[j], ids[i] })
				d.ReorderTemplates(gid, ids)
			}
		case 7:
			id, ok1 := pickTemplate()
			gid, ok2 := pickGroup()
			if ok1 && ok2 {
				_, err := d.MoveTemplate(id, gid, rng.Intn(6))
				require.NoError(t, err)
			}
		}
		require.Empty(t, d.Check(), "step %d", step)
	}
}
