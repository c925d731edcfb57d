package instance

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dukerupert/kinobi/internal/model"
	"github.com/dukerupert/kinobi/internal/scoring"
)

var t0 = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

func ptr[T any](v T) *T { return &v }

func TestNewSeedsDefaultChore(t *testing.T) {
	inst := New()

	require.Len(t, inst.Chores, 1)
	c := inst.Chores[0]
	assert.Equal(t, "Water the plants", c.Name)
	assert.Equal(t, "🪴", c.Icon)
	assert.Equal(t, 24.0, c.CycleDuration)
	assert.Equal(t, 10, c.Points)
	assert.Nil(t, c.LastCompleted)
	assert.Nil(t, c.DueDate)
	assert.Regexp(t, `^chore_[0-9a-f]{32}$`, c.ID)
	assert.Equal(t, model.DefaultConfig(), inst.Config)
	assert.Empty(t, inst.Tenders)
	assert.Empty(t, inst.TendingLog)
	assert.Nil(t, inst.LastTender)
}

func TestTendSetsDueDateAndLeavesOthers(t *testing.T) {
	inst := New()
	other, err := AddChore(inst, ChoreInput{Name: "Dishes", Icon: "🍽️", CycleDuration: ptr(6.0)})
	require.NoError(t, err)
	target := inst.Chores[0]

	entry, err := Tend(inst, TendInput{Tender: "  Ann ", ChoreID: target.ID, Notes: ptr("  all of them ")}, t0)
	require.NoError(t, err)

	got := inst.Chores[0]
	require.NotNil(t, got.LastCompleted)
	require.NotNil(t, got.DueDate)
	assert.True(t, got.LastCompleted.Equal(t0))
	assert.True(t, got.DueDate.Equal(t0.Add(24*time.Hour)))
	assert.Equal(t, other, inst.Chores[1])

	assert.Equal(t, "Ann", entry.Person)
	assert.Equal(t, target.ID, entry.ChoreID)
	require.NotNil(t, entry.Notes)
	assert.Equal(t, "all of them", *entry.Notes)
	assert.Regexp(t, `^h_`, entry.ID)

	require.NotNil(t, inst.LastTender)
	assert.Equal(t, "Ann", *inst.LastTender)
	assert.True(t, inst.LastTendedTimestamp.Equal(t0))
}

func TestTendUsesCurrentCycle(t *testing.T) {
	inst := New()
	id := inst.Chores[0].ID
	_, err := Tend(inst, TendInput{Tender: "Ann", ChoreID: id}, t0)
	require.NoError(t, err)

	_, err = UpdateChore(inst, id, ChorePatch{CycleDuration: ptr(48.0)})
	require.NoError(t, err)
	assert.True(t, inst.Chores[0].DueDate.Equal(t0.Add(24*time.Hour)), "edit must not move the due date")

	later := t0.Add(time.Hour)
	_, err = Tend(inst, TendInput{Tender: "Ann", ChoreID: id}, later)
	require.NoError(t, err)
	assert.True(t, inst.Chores[0].DueDate.Equal(later.Add(48*time.Hour)))
}

func TestTendValidation(t *testing.T) {
	inst := New()
	before := inst.Clone()

	_, err := Tend(inst, TendInput{Tender: " ", ChoreID: inst.Chores[0].ID}, t0)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "tender", verr.Field)

	_, err = Tend(inst, TendInput{Tender: "Ann"}, t0)
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "choreId", verr.Field)

	assert.Equal(t, before, inst)
}

func TestTendOrphanedChore(t *testing.T) {
	inst := New()
	before := inst.Chores[0]

	entry, err := Tend(inst, TendInput{Tender: "Ann", ChoreID: "chore_gone"}, t0)
	require.NoError(t, err)

	assert.Equal(t, before, inst.Chores[0])
	require.Len(t, inst.TendingLog, 1)
	assert.Equal(t, "chore_gone", entry.ChoreID)
	require.Len(t, inst.TenderScores, 1)
	assert.Equal(t, 10, inst.TenderScores[0].TotalPoints)
}

func TestEmptyNotesBecomeNil(t *testing.T) {
	inst := New()
	entry, err := Tend(inst, TendInput{Tender: "Ann", ChoreID: inst.Chores[0].ID, Notes: ptr("   ")}, t0)
	require.NoError(t, err)
	assert.Nil(t, entry.Notes)
}

func TestScoreCacheAgreesWithLeaderboard(t *testing.T) {
	inst := New()
	_, err := AddTender(inst, "Ann")
	require.NoError(t, err)
	_, err = AddTender(inst, "Bob")
	require.NoError(t, err)
	big, err := AddChore(inst, ChoreInput{Name: "Mow", Icon: "🌱", Points: ptr(25)})
	require.NoError(t, err)

	tends := []TendInput{
		{Tender: "Ann", ChoreID: inst.Chores[0].ID},
		{Tender: "Bob", ChoreID: big.ID},
		{Tender: "Ann", ChoreID: big.ID},
		{Tender: "Bob", ChoreID: "chore_orphan"},
	}
	for i, in := range tends {
		_, err := Tend(inst, in, t0.Add(time.Duration(i)*time.Minute))
		require.NoError(t, err)
	}

	board := scoring.ComputeLeaderboard(inst, t0.Add(time.Hour))
	require.Len(t, board, 2)
	for _, entry := range board {
		var cached *model.TenderScore
		for i := range inst.TenderScores {
			if inst.TenderScores[i].Name == entry.Tender.Name {
				cached = &inst.TenderScores[i]
			}
		}
		require.NotNil(t, cached, entry.Tender.Name)
		assert.Equal(t, entry.Score.TotalPoints, cached.TotalPoints)
		assert.Equal(t, entry.Score.CompletionCount, cached.CompletionCount)
		assert.Equal(t, entry.Score.LastActivity.Millis(), cached.LastActivity.Millis())
		assert.Equal(t, entry.Tender.ID, cached.TenderID)
	}
	assert.False(t, scoring.Reconcile(inst))
}

func TestDeleteEntryRepointsLastTended(t *testing.T) {
	inst := New()
	id := inst.Chores[0].ID
	first, err := Tend(inst, TendInput{Tender: "Ann", ChoreID: id}, t0)
	require.NoError(t, err)
	second, err := Tend(inst, TendInput{Tender: "Bob", ChoreID: id}, t0.Add(time.Hour))
	require.NoError(t, err)
	scoresBefore := append([]model.TenderScore{}, inst.TenderScores...)

	require.NoError(t, DeleteEntry(inst, second.ID))
	require.NotNil(t, inst.LastTender)
	assert.Equal(t, "Ann", *inst.LastTender)
	assert.True(t, inst.LastTendedTimestamp.Equal(first.Timestamp.Time))
	assert.Equal(t, scoresBefore, inst.TenderScores, "delete leaves the cache alone")

	require.NoError(t, DeleteEntry(inst, first.ID))
	assert.Nil(t, inst.LastTender)
	assert.Nil(t, inst.LastTendedTimestamp)
	assert.Empty(t, inst.TendingLog)

	assert.True(t, scoring.Reconcile(inst))
	assert.Empty(t, inst.TenderScores)
}

func TestDeleteEntryNotFound(t *testing.T) {
	inst := New()
	err := DeleteEntry(inst, "h_missing")
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestHistoryNewestFirst(t *testing.T) {
	inst := New()
	id := inst.Chores[0].ID
	_, _ = Tend(inst, TendInput{Tender: "Ann", ChoreID: id}, t0.Add(2*time.Hour))
	_, _ = Tend(inst, TendInput{Tender: "Bob", ChoreID: id}, t0)
	_, _ = Tend(inst, TendInput{Tender: "Cid", ChoreID: id}, t0.Add(time.Hour))

	h := History(inst)
	require.Len(t, h, 3)
	assert.Equal(t, []string{"Ann", "Cid", "Bob"}, []string{h[0].Person, h[1].Person, h[2].Person})
	assert.Equal(t, "Ann", inst.TendingLog[0].Person, "stored order untouched")
	assert.Equal(t, "Bob", inst.TendingLog[1].Person)
}

func TestTenderLifecycle(t *testing.T) {
	inst := New()

	_, err := AddTender(inst, "  ")
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)

	ann, err := AddTender(inst, " Ann ")
	require.NoError(t, err)
	assert.Equal(t, "Ann", ann.Name)
	assert.Regexp(t, `^c_`, ann.ID)

	renamed, err := RenameTender(inst, ann.ID, "Annie")
	require.NoError(t, err)
	assert.Equal(t, "Annie", renamed.Name)
	assert.Equal(t, "Annie", inst.Tenders[0].Name)

	_, err = RenameTender(inst, "c_missing", "X")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, DeleteTender(inst, ann.ID))
	assert.Empty(t, inst.Tenders)
	assert.ErrorIs(t, DeleteTender(inst, ann.ID), ErrNotFound)
}

func TestAddChoreDefaults(t *testing.T) {
	inst := New()
	inst.Config.DefaultCycleDuration = 72
	inst.Config.DefaultPoints = 3

	c, err := AddChore(inst, ChoreInput{Name: "Vacuum", Icon: "🧹", CycleDuration: ptr(-1.0)})
	require.NoError(t, err)
	assert.Equal(t, 72.0, c.CycleDuration)
	assert.Equal(t, 3, c.Points)

	c, err = AddChore(inst, ChoreInput{Name: "Trash", Icon: "🗑️", CycleDuration: ptr(12.0), Points: ptr(5)})
	require.NoError(t, err)
	assert.Equal(t, 12.0, c.CycleDuration)
	assert.Equal(t, 5, c.Points)

	_, err = AddChore(inst, ChoreInput{Name: "No icon"})
	var verr *ValidationError
	assert.ErrorAs(t, err, &verr)
	assert.Len(t, inst.Chores, 3)
}

func TestUpdateChore(t *testing.T) {
	inst := New()
	id := inst.Chores[0].ID

	c, err := UpdateChore(inst, id, ChorePatch{Name: ptr(" Water ferns "), Points: ptr(15)})
	require.NoError(t, err)
	assert.Equal(t, "Water ferns", c.Name)
	assert.Equal(t, "🪴", c.Icon)
	assert.Equal(t, 15, c.Points)

	_, err = UpdateChore(inst, id, ChorePatch{Points: ptr(0)})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "points", verr.Field)

	_, err = UpdateChore(inst, id, ChorePatch{})
	require.ErrorAs(t, err, &verr)

	_, err = UpdateChore(inst, "chore_missing", ChorePatch{Icon: ptr("x")})
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, 15, inst.Chores[0].Points)
}

func TestDeleteChoreKeepsHistory(t *testing.T) {
	inst := New()
	_, _ = AddTender(inst, "Ann")
	big, _ := AddChore(inst, ChoreInput{Name: "Mow", Icon: "🌱", Points: ptr(40)})
	_, err := Tend(inst, TendInput{Tender: "Ann", ChoreID: big.ID}, t0)
	require.NoError(t, err)

	require.NoError(t, DeleteChore(inst, big.ID))
	assert.Len(t, inst.TendingLog, 1)
	assert.ErrorIs(t, DeleteChore(inst, big.ID), ErrNotFound)

	board := scoring.ComputeLeaderboard(inst, t0)
	assert.Equal(t, 10, board[0].Score.TotalPoints)
}

func TestReorderChores(t *testing.T) {
	inst := New()
	a := inst.Chores[0]
	b, _ := AddChore(inst, ChoreInput{Name: "B", Icon: "b"})
	c, _ := AddChore(inst, ChoreInput{Name: "C", Icon: "c"})

	got, err := ReorderChores(inst, []string{c.ID, a.ID})
	require.NoError(t, err)
	assert.Equal(t, []string{c.ID, a.ID, b.ID}, []string{got[0].ID, got[1].ID, got[2].ID})
	assert.Equal(t, got, inst.Chores)

	before := inst.Clone()
	_, err = ReorderChores(inst, []string{a.ID, a.ID})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	_, err = ReorderChores(inst, []string{"chore_nope"})
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, before, inst)
}

func TestReplaceConfig(t *testing.T) {
	inst := New()

	cfg, err := ReplaceConfig(inst, ConfigInput{
		DefaultCycleDuration: ptr(12.0),
		DefaultPoints:        ptr(5),
		WarningThreshold:     ptr(50.0),
		UrgentThreshold:      ptr(80.0),
	})
	require.NoError(t, err)
	assert.Equal(t, model.Config{DefaultCycleDuration: 12, DefaultPoints: 5, WarningThreshold: 50, UrgentThreshold: 80}, cfg)
	assert.Equal(t, cfg, inst.Config)

	bad := []ConfigInput{
		{DefaultPoints: ptr(5), WarningThreshold: ptr(50.0), UrgentThreshold: ptr(80.0)},
		{DefaultCycleDuration: ptr(0.0), DefaultPoints: ptr(5), WarningThreshold: ptr(50.0), UrgentThreshold: ptr(80.0)},
		{DefaultCycleDuration: ptr(1.0), DefaultPoints: ptr(-1), WarningThreshold: ptr(50.0), UrgentThreshold: ptr(80.0)},
		{DefaultCycleDuration: ptr(1.0), DefaultPoints: ptr(5), WarningThreshold: ptr(101.0), UrgentThreshold: ptr(80.0)},
		{DefaultCycleDuration: ptr(1.0), DefaultPoints: ptr(5), WarningThreshold: ptr(50.0), UrgentThreshold: ptr(-1.0)},
		{DefaultCycleDuration: ptr(1.0), DefaultPoints: ptr(5), WarningThreshold: ptr(90.0), UrgentThreshold: ptr(80.0)},
	}
	for i, in := range bad {
		_, err := ReplaceConfig(inst, in)
		var verr *ValidationError
		assert.ErrorAs(t, err, &verr, "case %d", i)
	}
	assert.Equal(t, cfg, inst.Config)
}

func TestNormalizeLegacyRecord(t *testing.T) {
	last := model.At(t0)
	inst := &model.Instance{
		Chores: []model.Chore{
			{ID: "chore_old", Name: "Old", Icon: "x", LastCompleted: &last},
			{ID: "chore_stale", Name: "Stale", Icon: "y", CycleDuration: 5, Points: 2, DueDate: last.Ptr()},
		},
	}
	Normalize(inst)

	assert.NotNil(t, inst.Tenders)
	assert.NotNil(t, inst.TendingLog)
	assert.NotNil(t, inst.TenderScores)
	assert.Equal(t, 24.0, inst.Chores[0].CycleDuration)
	assert.Equal(t, 10, inst.Chores[0].Points)
	require.NotNil(t, inst.Chores[0].DueDate)
	assert.True(t, inst.Chores[0].DueDate.Equal(t0.Add(24*time.Hour)))
	assert.Nil(t, inst.Chores[1].DueDate)
}

func TestCycleDurationUpperBound(t *testing.T) {
	inst := New()
	id := inst.Chores[0].ID
	huge := float64(model.MaxCycleHours) + 1
	var verr *ValidationError

	_, err := UpdateChore(inst, id, ChorePatch{CycleDuration: ptr(huge)})
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "cycleDuration", verr.Field)
	assert.Equal(t, 24.0, inst.Chores[0].CycleDuration)

	_, err = AddChore(inst, ChoreInput{Name: "Attic", Icon: "📦", CycleDuration: ptr(3e6)})
	require.ErrorAs(t, err, &verr)
	assert.Len(t, inst.Chores, 1)

	_, err = ReplaceConfig(inst, ConfigInput{
		DefaultCycleDuration: ptr(huge),
		DefaultPoints:        ptr(5),
		WarningThreshold:     ptr(50.0),
		UrgentThreshold:      ptr(80.0),
	})
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "defaultCycleDuration", verr.Field)

	c, err := UpdateChore(inst, id, ChorePatch{CycleDuration: ptr(float64(model.MaxCycleHours))})
	require.NoError(t, err)
	assert.Positive(t, c.Cycle())

	_, err = Tend(inst, TendInput{Tender: "Ann", ChoreID: id}, t0)
	require.NoError(t, err)
	chore := inst.Chores[0]
	require.NotNil(t, chore.DueDate)
	assert.True(t, chore.DueDate.After(t0), "dueDate %v should follow the tend", chore.DueDate.Time)
}

func TestNormalizeZeroLastCompleted(t *testing.T) {
	zero := model.FromMillis(0)
	inst := &model.Instance{
		Chores: []model.Chore{
			{ID: "chore_fresh", Name: "Fresh", Icon: "x", CycleDuration: 24, Points: 10, LastCompleted: &zero, DueDate: zero.Ptr()},
			{ID: "chore_long", Name: "Long", Icon: "y", CycleDuration: 1e9, Points: 10},
		},
		Config: model.Config{WarningThreshold: 75, UrgentThreshold: 90},
	}
	Normalize(inst)

	assert.Nil(t, inst.Chores[0].LastCompleted)
	assert.Nil(t, inst.Chores[0].DueDate)
	assert.Equal(t, 24.0, inst.Chores[1].CycleDuration)
	assert.Equal(t, model.DefaultConfig(), inst.Config)
}

func TestReorderEmptyCatalog(t *testing.T) {
	inst := New()
	require.NoError(t, DeleteChore(inst, inst.Chores[0].ID))

	got, err := ReorderChores(inst, []string{})
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)

	seeded := New()
	_, err = ReorderChores(seeded, nil)
	var verr *ValidationError
	assert.ErrorAs(t, err, &verr)
}
