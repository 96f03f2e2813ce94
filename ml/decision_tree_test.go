package ml

import "testing"

func TestDecisionTreePredict(t *testing.T) {
	model := &DecisionTree{Nodes: []TreeNode{
		{FeatureIdx: 0, Threshold: 0.5, LeftChild: 1, RightChild: 2},
		{IsLeaf: true, Value: []float64{8, 2}},
		{IsLeaf: true, Value: []float64{1, 3}},
	}}
	if err := model.validate(2, 2); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	label, err := model.Predict([]float64{0.15, 0.15})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if label != 0 {
		t.Fatalf("expected label 0, got %d", label)
	}

	proba, err := model.PredictProba([]float64{0.9, 0.1})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if proba[0] != 0.25 || proba[1] != 0.75 {
		t.Fatalf("unexpected probabilities %v", proba)
	}
}

func TestDecisionTreeRejectsBrokenTrees(t *testing.T) {
	tests := []struct {
		name  string
		nodes []TreeNode
	}{
		{"empty", nil},
		{"child before parent", []TreeNode{
			{FeatureIdx: 0, LeftChild: 0, RightChild: 1},
			{IsLeaf: true, Value: []float64{1, 1}},
		}},
		{"child out of range", []TreeNode{
			{FeatureIdx: 0, LeftChild: 1, RightChild: 5},
			{IsLeaf: true, Value: []float64{1, 1}},
		}},
		{"feature out of range", []TreeNode{
			{FeatureIdx: 7, LeftChild: 1, RightChild: 2},
			{IsLeaf: true, Value: []float64{1, 1}},
			{IsLeaf: true, Value: []float64{1, 1}},
		}},
		{"wrong class count", []TreeNode{
			{IsLeaf: true, Value: []float64{1, 1, 1}},
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			model := &DecisionTree{Nodes: tt.nodes}
			if err := model.validate(2, 2); err == nil {
				t.Fatal("expected validation error")
			}
		})
	}
}

func TestDecisionTreeEmptyLeaf(t *testing.T) {
	model := &DecisionTree{Nodes: []TreeNode{{IsLeaf: true, Value: []float64{0, 0}}}}
	if _, err := model.Predict([]float64{1}); err == nil {
		t.Fatal("expected error for leaf without samples")
	}
}
