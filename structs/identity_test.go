package structs

import (
	"testing"

	"github.com/shoenig/test/must"
)

func TestFormatTaskID(t *testing.T) {
	t.Parallel()
	must.Eq(t, "fake_name.fake_uuid", FormatTaskID("fake_name", "fake_uuid"))
}

func TestFormatRetryUUID(t *testing.T) {
	t.Parallel()
	must.Eq(t, "fake_uuid-retry1", FormatRetryUUID("fake_uuid", 1))
	must.Eq(t, "fake_uuid-retry12", FormatRetryUUID("fake_uuid", 12))
}

func TestSplitRetryAttempt(t *testing.T) {
	t.Parallel()

	base, attempt, ok := SplitRetryAttempt("fake_name.fake-uuid-with-dashes-retry3")
	must.True(t, ok)
	must.Eq(t, "fake_name.fake-uuid-with-dashes", base)
	must.Eq(t, 3, attempt)
}

func TestSplitRetryAttempt_NoSuffix(t *testing.T) {
	t.Parallel()

	_, _, ok := SplitRetryAttempt("fake_name.fake_uuid")
	must.False(t, ok)
}

func TestSplitRetryAttempt_RoundTrip(t *testing.T) {
	t.Parallel()

	taskID := FormatTaskID("fake_name", "fake-uuid-1234")
	tagged := taskID + "-retry" + "7"

	base, attempt, ok := SplitRetryAttempt(tagged)
	must.True(t, ok)
	must.Eq(t, taskID, base)
	must.Eq(t, 7, attempt)
}
