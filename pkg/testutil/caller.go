package testutil

import (
	"context"

	"github.com/bprlabs/backend/internal/client"
)

type MockProtocolCaller struct {
	HomeExercisesFunc func(ctx context.Context, patientID string) ([]client.ExerciseItem, error)
}

func (m *MockProtocolCaller) HomeExercises(ctx context.Context, patientID string) ([]client.ExerciseItem, error) {
	if m.HomeExercisesFunc != nil {
		return m.HomeExercisesFunc(ctx, patientID)
	}

	return nil, nil
}

type MockAssessmentCaller struct {
	LatestScoreFunc func(ctx context.Context, patientID string) (*int, error)
}

func (m *MockAssessmentCaller) LatestScore(ctx context.Context, patientID string) (*int, error) {
	if m.LatestScoreFunc != nil {
		return m.LatestScoreFunc(ctx, patientID)
	}

	return nil, nil
}

type MockAppointmentCaller struct {
	CountCompletedFunc func(ctx context.Context, patientID string) (int, error)
}

func (m *MockAppointmentCaller) CountCompleted(ctx context.Context, patientID string) (int, error) {
	if m.CountCompletedFunc != nil {
		return m.CountCompletedFunc(ctx, patientID)
	}

	return 0, nil
}

type MockUserCaller struct {
	GetFunc               func(ctx context.Context, patientID string) (*client.PatientInfo, error)
	GetActivePatientsFunc func(ctx context.Context) ([]client.PatientInfo, error)
}

func (m *MockUserCaller) Get(ctx context.Context, patientID string) (*client.PatientInfo, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, patientID)
	}

	return &client.PatientInfo{ID: patientID, Language: "en"}, nil
}

func (m *MockUserCaller) GetActivePatients(ctx context.Context) ([]client.PatientInfo, error) {
	if m.GetActivePatientsFunc != nil {
		return m.GetActivePatientsFunc(ctx)
	}

	return nil, nil
}

type MockGeneratorCaller struct {
	GenerateFunc func(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

func (m *MockGeneratorCaller) Generate(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	if m.GenerateFunc != nil {
		return m.GenerateFunc(ctx, systemPrompt, userPrompt)
	}

	return "ok", nil
}
