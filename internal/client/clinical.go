package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/bprlabs/backend/pkg/xcontext"
)

// ExerciseItem is one entry of the patient's home exercise plan as reported
// by the clinical platform.
type ExerciseItem struct {
	Name      string `json:"name"`
	Completed bool   `json:"completed"`
}

type PatientInfo struct {
	ID       string `json:"id"`
	ClinicID string `json:"clinic_id"`
	Name     string `json:"name"`
	Language string `json:"language"`
}

// ProtocolCaller exposes the patient's home exercise plan.
type ProtocolCaller interface {
	HomeExercises(ctx context.Context, patientID string) ([]ExerciseItem, error)
}

// AssessmentCaller exposes the latest wellbeing assessment. A nil score means
// the patient was never assessed.
type AssessmentCaller interface {
	LatestScore(ctx context.Context, patientID string) (*int, error)
}

type AppointmentCaller interface {
	CountCompleted(ctx context.Context, patientID string) (int, error)
}

// UserCaller exposes patient account data, including the preferred language
// used to localize notifications.
type UserCaller interface {
	Get(ctx context.Context, patientID string) (*PatientInfo, error)
	GetActivePatients(ctx context.Context) ([]PatientInfo, error)
}

type clinicalCaller struct {
	client *http.Client
}

func NewClinicalCaller() *clinicalCaller {
	return &clinicalCaller{client: &http.Client{Timeout: 10 * time.Second}}
}

func (c *clinicalCaller) HomeExercises(ctx context.Context, patientID string) ([]ExerciseItem, error) {
	var result struct {
		Exercises []ExerciseItem `json:"exercises"`
	}

	path := fmt.Sprintf("/internal/patients/%s/exercises", url.PathEscape(patientID))
	if err := c.get(ctx, path, &result); err != nil {
		return nil, err
	}

	return result.Exercises, nil
}

func (c *clinicalCaller) LatestScore(ctx context.Context, patientID string) (*int, error) {
	var result struct {
		Score *int `json:"score"`
	}

	path := fmt.Sprintf("/internal/patients/%s/assessments/latest", url.PathEscape(patientID))
	if err := c.get(ctx, path, &result); err != nil {
		return nil, err
	}

	return result.Score, nil
}

func (c *clinicalCaller) CountCompleted(ctx context.Context, patientID string) (int, error) {
	var result struct {
		Count int `json:"count"`
	}

	path := fmt.Sprintf("/internal/patients/%s/appointments/completed/count", url.PathEscape(patientID))
	if err := c.get(ctx, path, &result); err != nil {
		return 0, err
	}

	return result.Count, nil
}

func (c *clinicalCaller) Get(ctx context.Context, patientID string) (*PatientInfo, error) {
	var result PatientInfo
	path := fmt.Sprintf("/internal/patients/%s", url.PathEscape(patientID))
	if err := c.get(ctx, path, &result); err != nil {
		return nil, err
	}

	return &result, nil
}

func (c *clinicalCaller) GetActivePatients(ctx context.Context) ([]PatientInfo, error) {
	var result struct {
		Patients []PatientInfo `json:"patients"`
	}

	if err := c.get(ctx, "/internal/patients?status=active", &result); err != nil {
		return nil, err
	}

	return result.Patients, nil
}

func (c *clinicalCaller) get(ctx context.Context, path string, out any) error {
	cfg := xcontext.Configs(ctx).Clinical

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, cfg.Endpoint+path, nil)
	if err != nil {
		return err
	}

	req.Header.Set("Authorization", "Bearer "+cfg.APIKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("clinical platform returned status %d for %s", resp.StatusCode, path)
	}

	return json.NewDecoder(resp.Body).Decode(out)
}
