package overlay

import (
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault_EveryDayPresent(t *testing.T) {
	o := Default()

	assert.Equal(t, CurrentVersion, o.SchemaVersion)
	require.Len(t, o.DayProgress, len(DayIDs()))
	for _, d := range DayIDs() {
		dp, ok := o.DayProgress[d]
		require.True(t, ok, "missing day %s", d)
		assert.NotNil(t, dp.TickedItemIDs)
		assert.Empty(t, dp.TickedItemIDs)
		assert.False(t, dp.Complete)
	}
	assert.Nil(t, o.LastSavedAt)
	assert.Equal(t, ThemeSystem, o.Settings.Theme)
}

func TestDefault_FreshInstances(t *testing.T) {
	a := Default()
	b := Default()

	a.UserEntries.Bugs = append(a.UserEntries.Bugs, Bug{ID: "x"})
	dp := a.DayProgress["D1"]
	dp.Complete = true
	a.DayProgress["D1"] = dp

	assert.Empty(t, b.UserEntries.Bugs)
	assert.False(t, b.DayProgress["D1"].Complete)
}

func TestDefault_SerializesEmptyCollections(t *testing.T) {
	data, err := json.Marshal(Default())
	require.NoError(t, err)

	s := string(data)
	assert.Contains(t, s, `"bugs":[]`)
	assert.Contains(t, s, `"activityLog":[]`)
	assert.Contains(t, s, `"tickedItemIds":[]`)
	assert.NotContains(t, s, `null`)
	assert.NotContains(t, s, `lastSavedAt`)
}

func TestDayIDs_Ordered(t *testing.T) {
	ids := DayIDs()
	require.Len(t, ids, 10)
	assert.Equal(t, "D1", ids[0])
	assert.Equal(t, "D10", ids[9])

	ids[0] = "mutated"
	assert.Equal(t, "D1", DayIDs()[0], "DayIDs must return a copy")
}

func TestIsDay(t *testing.T) {
	assert.True(t, IsDay("D3"))
	assert.False(t, IsDay("D11"))
	assert.False(t, IsDay("d3"))
}

func TestAppendActivity_CapAndFIFO(t *testing.T) {
	o := Default()
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	total := ActivityCap + 57
	for i := 0; i < total; i++ {
		o.AppendActivity(Activity{Timestamp: base.Add(time.Duration(i) * time.Second), Kind: "tick", Detail: fmt.Sprint(i)})
		require.LessOrEqual(t, len(o.ActivityLog), ActivityCap)
	}

	require.Len(t, o.ActivityLog, ActivityCap)
	assert.Equal(t, fmt.Sprint(total-ActivityCap), o.ActivityLog[0].Detail, "oldest entries evicted first")
	assert.Equal(t, fmt.Sprint(total-1), o.ActivityLog[ActivityCap-1].Detail, "most recent entry retained")
}

func TestClone_Deep(t *testing.T) {
	o := Default()
	now := time.Date(2026, 2, 3, 4, 5, 6, 0, time.UTC)
	o.LastSavedAt = &now
	o.DayProgress["D2"] = DayProgress{TickedItemIDs: []string{"a"}}
	o.UserEntries.Ideas = append(o.UserEntries.Ideas, Idea{ID: "i1", Name: "idea"})

	c := o.Clone()
	require.Equal(t, o, c)

	c.DayProgress["D2"].TickedItemIDs[0] = "changed"
	c.UserEntries.Ideas[0].Name = "changed"
	*c.LastSavedAt = now.Add(time.Hour)

	assert.Equal(t, "a", o.DayProgress["D2"].TickedItemIDs[0])
	assert.Equal(t, "idea", o.UserEntries.Ideas[0].Name)
	assert.Equal(t, now, *o.LastSavedAt)
}

func TestDay_UnknownReturnsEmpty(t *testing.T) {
	o := Default()
	dp := o.Day("D42")
	assert.Empty(t, dp.TickedItemIDs)
	assert.False(t, dp.Complete)
}
