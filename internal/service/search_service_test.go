package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TinArambasic/ScholarSync/internal/dto"
	"github.com/TinArambasic/ScholarSync/internal/models"
)

func TestSearchServiceBlankQuery(t *testing.T) {
	f := newForumFixture(t)
	f.ask(t, f.ana)
	svc := NewSearchService(memQuestions{memStore: f.store}, memUsers{f.store}, memCourses{f.store}, nil)

	for _, q := range []string{"", "   ", "\t\n"} {
		res, err := svc.Search(context.Background(), q)
		require.NoError(t, err)
		assert.NotNil(t, res.Questions)
		assert.NotNil(t, res.Users)
		assert.NotNil(t, res.Courses)
		assert.Empty(t, res.Questions)
		assert.Empty(t, res.Users)
		assert.Empty(t, res.Courses)
	}
}

func TestSearchServiceMatchesAcrossEntities(t *testing.T) {
	f := newForumFixture(t)
	ctx := context.Background()
	_, err := f.questions.Create(ctx, f.ana, dto.CreateQuestionRequest{Title: "Linear maps", Content: "Is every linear map continuous?", CourseID: "c11"}, nil)
	require.NoError(t, err)
	_, err = f.questions.Create(ctx, f.ivo, dto.CreateQuestionRequest{Title: "Integrals", Content: "Riemann versus Lebesgue?", CourseID: "c12"}, nil)
	require.NoError(t, err)
	f.store.addUser(models.User{Username: "linus", Email: "linus@x.hr"})

	svc := NewSearchService(memQuestions{memStore: f.store}, memUsers{f.store}, memCourses{f.store}, nil)
	res, err := svc.Search(ctx, "  LIN ")
	require.NoError(t, err)

	require.Len(t, res.Questions, 1)
	assert.Equal(t, "Linear maps", res.Questions[0].Title)
	assert.Equal(t, "Linearna algebra", res.Questions[0].CourseName)

	require.Len(t, res.Users, 1)
	assert.Equal(t, "linus", res.Users[0].Username)

	require.Len(t, res.Courses, 1)
	assert.Equal(t, "c11", res.Courses[0].ID)
}

func TestSearchServiceNoMatches(t *testing.T) {
	f := newForumFixture(t)
	svc := NewSearchService(memQuestions{memStore: f.store}, memUsers{f.store}, memCourses{f.store}, nil)

	res, err := svc.Search(context.Background(), "%_")
	require.NoError(t, err)
	assert.NotNil(t, res.Questions)
	assert.NotNil(t, res.Users)
	assert.NotNil(t, res.Courses)
	assert.Empty(t, res.Users)
}
