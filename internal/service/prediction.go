package service

import (
	"context"
	"fmt"

	"gencontrol/internal/analytics"
	"gencontrol/internal/catalog"
	"gencontrol/internal/physics"
)

type PredictionService struct {
	opts physics.Options
}

func NewPredictionService(opts physics.Options) *PredictionService {
	return &PredictionService{opts: opts}
}

// Predict builds a model for the profile at the declared power and evaluates it.
func (s *PredictionService) Predict(ctx context.Context, p PredictParams) (PredictResult, error) {
	code, err := catalog.ParseProfileCode(p.ProfileCode)
	if err != nil {
		return PredictResult{}, err
	}
	profile, _ := catalog.Engine(code)

	model, err := physics.FromReference(profile, p.DeclaredPowerKW, s.opts)
	if err != nil {
		return PredictResult{}, err
	}
	pred, err := model.Predict(p.LoadPct, p.Ambient)
	if err != nil {
		return PredictResult{}, err
	}
	return PredictResult{
		Prediction: pred,
		Model:      *model,
		LoadBand:   catalog.LoadBand(pred.LoadPct),
	}, nil
}

type DetectionService struct {
	detector *analytics.Detector
}

func NewDetectionService(d *analytics.Detector) *DetectionService {
	return &DetectionService{detector: d}
}

func (s *DetectionService) Detect(ctx context.Context, deviationPct float64, history []float64) (analytics.AnomalyResult, error) {
	res, err := s.detector.Classify(deviationPct, history)
	if err != nil {
		return analytics.AnomalyResult{}, fmt.Errorf("detect: %w", err)
	}
	return res, nil
}
