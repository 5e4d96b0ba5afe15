package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIDSetToggleTwiceRestoresMembership(t *testing.T) {
	set := NewIDSet("u1", "u2")

	toggled := set.Toggle("u3")
	assert.True(t, toggled.Contains("u3"))
	assert.Equal(t, 3, toggled.Len())

	restored := toggled.Toggle("u3")
	assert.Equal(t, set, restored)

	without := set.Toggle("u1")
	assert.False(t, without.Contains("u1"))
	assert.True(t, set.Contains("u1"), "toggle must not mutate the receiver")
}

func TestIDSetRejectsDuplicates(t *testing.T) {
	set := NewIDSet("c11", "c11", "", "c3")
	assert.Equal(t, IDSet{"c11", "c3"}, set)
	assert.Equal(t, set, set.Add("c3"))
	assert.Equal(t, IDSet{"c3"}, set.Remove("c11"))
	assert.Equal(t, set, set.Remove("missing"))
}

func TestIDSetDatabaseRoundTrip(t *testing.T) {
	value, err := IDSet{"a", "b"}.Value()
	require.NoError(t, err)
	assert.Equal(t, `{"a","b"}`, value)

	value, err = IDSet(nil).Value()
	require.NoError(t, err)
	assert.Equal(t, "{}", value)

	var set IDSet
	require.NoError(t, set.Scan([]byte(`{x,y,x}`)))
	assert.Equal(t, IDSet{"x", "y"}, set)

	require.NoError(t, set.Scan(nil))
	assert.NotNil(t, set)
	assert.Zero(t, set.Len())
}

func TestIDSetMarshalsEmptyAsArray(t *testing.T) {
	raw, err := json.Marshal(struct {
		Likes IDSet `json:"likes"`
	}{})
	require.NoError(t, err)
	assert.JSONEq(t, `{"likes":[]}`, string(raw))
}

func TestCourseEffectiveYear(t *testing.T) {
	course := Course{
		Year:         2,
		Programs:     []string{"preddiplomski-matematika", "preddiplomski-matematika-racunarstvo"},
		ProgramYears: ProgramYears{"preddiplomski-matematika": 3},
	}
	assert.Equal(t, 3, course.EffectiveYear("preddiplomski-matematika"))
	assert.Equal(t, 2, course.EffectiveYear("preddiplomski-matematika-racunarstvo"))
	assert.True(t, course.OfferedIn("preddiplomski-matematika-racunarstvo"))
	assert.False(t, course.OfferedIn("diplomski-financijska-matematika"))

	byID := map[string]Course{"c11": course}
	assert.Equal(t, 3, byID["c11"].EffectiveYear("preddiplomski-matematika"))
	assert.True(t, byID["c11"].OfferedIn("preddiplomski-matematika"))
}

func TestProgramYearsScan(t *testing.T) {
	var years ProgramYears
	require.NoError(t, years.Scan([]byte(`{"diplomski-matematika-racunarstvo":1}`)))
	assert.Equal(t, 1, years["diplomski-matematika-racunarstvo"])

	require.NoError(t, years.Scan(nil))
	assert.Empty(t, years)

	assert.Error(t, years.Scan(42))
}

func TestAttachmentScanAndValue(t *testing.T) {
	var missing *Attachment
	value, err := missing.Value()
	require.NoError(t, err)
	assert.Nil(t, value)

	att := &Attachment{Filename: "graf-1-2.png", OriginalName: "graf.png", Path: "/uploads/graf-1-2.png", Size: 10, Mimetype: "image/png"}
	value, err = att.Value()
	require.NoError(t, err)

	var scanned Attachment
	require.NoError(t, scanned.Scan(value))
	assert.Equal(t, *att, scanned)
}

func TestUserNeverSerialisesPassword(t *testing.T) {
	raw, err := json.Marshal(User{ID: "u1", Username: "ana", PasswordHash: "$2a$10$secret"})
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "secret")
	assert.Contains(t, string(raw), `"_id":"u1"`)
	assert.Contains(t, string(raw), `"joinedCourses":[]`)
}
