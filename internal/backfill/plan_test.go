package backfill

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildDayGranularity(t *testing.T) {
	plan, err := Build(Spec{
		StartDate:       "2024-01-30",
		EndDate:         "2024-02-02",
		DateGranularity: GranularityDay,
		DateParamNames:  []string{"day_id", "batch"},
		DateParamFormats: map[string]string{
			"batch": "%Y%m%d",
		},
	})
	require.NoError(t, err)
	require.Len(t, plan.Points, 4)

	mid := plan.Points[1]
	assert.Equal(t, "2024-01-31", mid.Date.Format(canonicalLayout))
	assert.Equal(t, "2024-01-31", mid.Overlay["day_id"])
	assert.Equal(t, "20240131", mid.Overlay["day_id_no_dash"])
	assert.Equal(t, "2024-01-31", mid.Overlay["batch"])
	assert.Equal(t, "20240131", mid.Overlay["batch_no_dash"])
	assert.Equal(t, "20240131", mid.Overlay["batch_fmt"])
}

func TestBuildWeekGranularity(t *testing.T) {
	// 2024-01-03 is a Wednesday; the week's Monday is 2024-01-01.
	plan, err := Build(Spec{
		StartDate:       "2024-01-03",
		EndDate:         "2024-01-16",
		DateGranularity: GranularityWeek,
		DateParamName:   "day_id",
	})
	require.NoError(t, err)
	require.Len(t, plan.Points, 3)
	assert.Equal(t, "2024-01-01", plan.Points[0].Date.Format(canonicalLayout))
	assert.Equal(t, "2024-01-08", plan.Points[1].Date.Format(canonicalLayout))
	assert.Equal(t, "2024-01-15", plan.Points[2].Date.Format(canonicalLayout))
}

func TestBuildMonthGranularity(t *testing.T) {
	plan, err := Build(Spec{
		StartDate:       "2024-01-15",
		EndDate:         "2024-03-05",
		DateGranularity: GranularityMonth,
	})
	require.NoError(t, err)
	require.Len(t, plan.Points, 3)
	assert.Equal(t, "2024-01-01", plan.Points[0].Date.Format(canonicalLayout))
	assert.Equal(t, "2024-02-01", plan.Points[1].Date.Format(canonicalLayout))
	assert.Equal(t, "2024-03-01", plan.Points[2].Date.Format(canonicalLayout))
}

func TestBuildCustomDates(t *testing.T) {
	plan, err := Build(Spec{
		CustomDates:   []string{"2024-05-01", "2024-05-03", "2024-05-02"},
		DateParamName: "day_id",
	})
	require.NoError(t, err)
	require.Len(t, plan.Points, 3)
	// custom_dates used verbatim, in given order — not sorted.
	assert.Equal(t, "2024-05-01", plan.Points[0].Overlay["day_id"])
	assert.Equal(t, "2024-05-03", plan.Points[1].Overlay["day_id"])
	assert.Equal(t, "2024-05-02", plan.Points[2].Overlay["day_id"])
}

func TestStaticParamsMergeWithDateKeysWinning(t *testing.T) {
	plan, err := Build(Spec{
		StartDate:       "2024-01-01",
		EndDate:         "2024-01-01",
		DateGranularity: GranularityDay,
		DateParamName:   "day_id",
		Params: map[string]string{
			"day_id": "should-be-overridden",
			"region": "us",
		},
	})
	require.NoError(t, err)
	require.Len(t, plan.Points, 1)
	assert.Equal(t, "2024-01-01", plan.Points[0].Overlay["day_id"])
	assert.Equal(t, "us", plan.Points[0].Overlay["region"])
}

func TestBuildInvalidRange(t *testing.T) {
	_, err := Build(Spec{StartDate: "2024-02-01", EndDate: "2024-01-01"})
	assert.Error(t, err)
}

func TestBuildInvalidDate(t *testing.T) {
	_, err := Build(Spec{StartDate: "not-a-date", EndDate: "2024-01-01"})
	assert.Error(t, err)
}
