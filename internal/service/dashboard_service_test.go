package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"smartquiz/internal/dto"
	"smartquiz/internal/model"
)

func TestDashboardTotals(t *testing.T) {
	db := newTestDB(t)
	exams := NewExamService(db, nil)
	classes := NewClassService(db)
	svc := NewDashboardService(db, exams)

	exam, err := exams.Create("teacher-1", dto.ExamReq{Title: "Đề A", Questions: sampleQuestions()})
	require.NoError(t, err)
	class, err := classes.Create("teacher-1", dto.ClassReq{Name: "Lớp 10A"})
	require.NoError(t, err)
	_, err = classes.AddStudent(class.ID, "teacher-1", "hs1@example.com")
	require.NoError(t, err)
	_, err = classes.AddStudent(class.ID, "teacher-1", "hs2@example.com")
	require.NoError(t, err)
	require.NoError(t, db.Create(&model.ExamResult{ExamID: exam.ID, GuestName: "HS 1", Score: 8, CorrectCount: 8, TotalQuestions: 10}).Error)

	// another teacher's data must not leak into the totals
	_, err = exams.Create("teacher-2", dto.ExamReq{Title: "Đề B", Questions: sampleQuestions()})
	require.NoError(t, err)

	resp, err := svc.Get(context.Background(), "teacher-1")
	require.NoError(t, err)

	assert.EqualValues(t, 1, resp.Stats.TotalExams)
	assert.EqualValues(t, 1, resp.Stats.TotalClasses)
	assert.EqualValues(t, 2, resp.Stats.TotalStudents)
	assert.EqualValues(t, 1, resp.Stats.TotalAttempts)

	// without Redis the series is present but empty of traffic
	require.Len(t, resp.Traffic, 24)
	for _, point := range resp.Traffic {
		assert.EqualValues(t, 0, point.Count)
	}
}
