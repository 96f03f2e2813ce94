package ml

import (
	"errors"
	"fmt"
)

// GradientBoosting is a binary boosted ensemble of regression trees with a
// log-loss link. Each leaf carries a single score in Value[0].
type GradientBoosting struct {
	InitScore    float64      `json:"init_score"`
	LearningRate float64      `json:"learning_rate"`
	Trees        [][]TreeNode `json:"trees"`
}

func (gb *GradientBoosting) Predict(features []float64) (int, error) {
	score, err := gb.rawScore(features)
	if err != nil {
		return 0, err
	}
	if score > 0 {
		return 1, nil
	}
	return 0, nil
}

func (gb *GradientBoosting) PredictProba(features []float64) ([]float64, error) {
	score, err := gb.rawScore(features)
	if err != nil {
		return nil, err
	}
	p := sigmoid(score)
	return []float64{1 - p, p}, nil
}

func (gb *GradientBoosting) rawScore(features []float64) (float64, error) {
	score := gb.InitScore
	for i, tree := range gb.Trees {
		leaf, err := walkTree(tree, features)
		if err != nil {
			return 0, fmt.Errorf("tree %d: %w", i, err)
		}
		score += gb.LearningRate * leaf.Value[0]
	}
	return score, nil
}

func (gb *GradientBoosting) validate(featureCount int) error {
	if len(gb.Trees) == 0 {
		return errors.New("ensemble has no trees")
	}
	if gb.LearningRate <= 0 {
		return errors.New("learning rate must be positive")
	}
	for i, tree := range gb.Trees {
		if err := validateTree(tree, featureCount); err != nil {
			return fmt.Errorf("tree %d: %w", i, err)
		}
	}
	return nil
}
