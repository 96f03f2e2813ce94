package ml

import (
	"errors"
	"fmt"
)

type DecisionTree struct {
	Nodes []TreeNode `json:"nodes"`
}

// TreeNode is one node of a flattened tree. Value holds the per-class sample
// counts for classification trees and a single leaf score for regression
// trees.
type TreeNode struct {
	FeatureIdx int       `json:"feature_idx"`
	Threshold  float64   `json:"threshold"`
	LeftChild  int       `json:"left_child"`
	RightChild int       `json:"right_child"`
	Value      []float64 `json:"value"`
	IsLeaf     bool      `json:"is_leaf"`
}

func (dt *DecisionTree) Predict(features []float64) (int, error) {
	proba, err := dt.PredictProba(features)
	if err != nil {
		return 0, err
	}
	return argmax(proba), nil
}

func (dt *DecisionTree) PredictProba(features []float64) ([]float64, error) {
	leaf, err := walkTree(dt.Nodes, features)
	if err != nil {
		return nil, err
	}
	total := 0.0
	for _, v := range leaf.Value {
		total += v
	}
	if total <= 0 {
		return nil, errors.New("leaf has no samples")
	}
	proba := make([]float64, len(leaf.Value))
	for i, v := range leaf.Value {
		proba[i] = v / total
	}
	return proba, nil
}

func (dt *DecisionTree) validate(featureCount, classCount int) error {
	if err := validateTree(dt.Nodes, featureCount); err != nil {
		return err
	}
	for i, node := range dt.Nodes {
		if node.IsLeaf && len(node.Value) != classCount {
			return fmt.Errorf("leaf %d has %d class counts, want %d", i, len(node.Value), classCount)
		}
	}
	return nil
}

func walkTree(nodes []TreeNode, features []float64) (TreeNode, error) {
	if len(nodes) == 0 {
		return TreeNode{}, errors.New("model not trained")
	}
	idx := 0
	// a well formed tree reaches a leaf in fewer steps than it has nodes
	for steps := 0; steps <= len(nodes); steps++ {
		node := nodes[idx]
		if node.IsLeaf {
			return node, nil
		}
		if node.FeatureIdx < 0 || node.FeatureIdx >= len(features) {
			return TreeNode{}, errors.New("feature index out of range")
		}
		if features[node.FeatureIdx] <= node.Threshold {
			idx = node.LeftChild
		} else {
			idx = node.RightChild
		}
		if idx < 0 || idx >= len(nodes) {
			return TreeNode{}, errors.New("invalid tree state")
		}
	}
	return TreeNode{}, errors.New("invalid tree state: cycle detected")
}

func validateTree(nodes []TreeNode, featureCount int) error {
	if len(nodes) == 0 {
		return errors.New("tree has no nodes")
	}
	for i, node := range nodes {
		if node.IsLeaf {
			if len(node.Value) == 0 {
				return fmt.Errorf("leaf %d has no value", i)
			}
			continue
		}
		if node.FeatureIdx < 0 || node.FeatureIdx >= featureCount {
			return fmt.Errorf("node %d: feature index %d out of range", i, node.FeatureIdx)
		}
		if node.LeftChild <= i || node.LeftChild >= len(nodes) {
			return fmt.Errorf("node %d: left child %d out of range", i, node.LeftChild)
		}
		if node.RightChild <= i || node.RightChild >= len(nodes) {
			return fmt.Errorf("node %d: right child %d out of range", i, node.RightChild)
		}
	}
	return nil
}

func argmax(values []float64) int {
	best := 0
	for i := 1; i < len(values); i++ {
		if values[i] > values[best] {
			best = i
		}
	}
	return best
}
