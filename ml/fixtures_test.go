package ml

import (
	"os"
	"path/filepath"
	"testing"

	"sepsisguard/schema"
)

const allFeatures = `["PRG","PL","PR","SK","TS","M11","BD2","Age","Insurance"]`

const logisticArtifact = `{
  "name": "LogisticRegression",
  "kind": "logistic_regression",
  "feature_names": ` + allFeatures + `,
  "classes": [0, 1],
  "estimator": {"coef": [0, 0.05, 0, 0, 0, 0.1, 0, 0, 0], "intercept": -9}
}`

const treeArtifact = `{
  "name": "DecisionTree",
  "kind": "decision_tree",
  "feature_names": ["PL", "M11"],
  "classes": [0, 1],
  "estimator": {"nodes": [
    {"feature_idx": 0, "threshold": 127.5, "left_child": 1, "right_child": 2},
    {"is_leaf": true, "value": [30, 5]},
    {"feature_idx": 1, "threshold": 30, "left_child": 3, "right_child": 4},
    {"is_leaf": true, "value": [4, 6]},
    {"is_leaf": true, "value": [1, 9]}
  ]}
}`

const boostingArtifact = `{
  "name": "GradientBoosting",
  "kind": "gradient_boosting",
  "feature_names": ["Age"],
  "classes": [0, 1],
  "estimator": {"init_score": -0.5, "learning_rate": 0.1, "trees": [[
    {"feature_idx": 0, "threshold": 40, "left_child": 1, "right_child": 2},
    {"is_leaf": true, "value": [-1]},
    {"is_leaf": true, "value": [2]}
  ]]}
}`

const svmArtifact = `{
  "name": "SVM",
  "kind": "linear_svm",
  "feature_names": ["PL"],
  "classes": [0, 1],
  "estimator": {"coef": [0.02], "intercept": -2}
}`

const encoderArtifact = `{"classes": ["Negative", "Positive"]}`

var scenario = schema.FeatureVector{PRG: 2, PL: 130, PR: 70, SK: 20, TS: 85, M11: 28.5, BD2: 0.4, Age: 45, Insurance: 1}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func writeArtifacts(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	writeFile(t, dir, "lr.json", logisticArtifact)
	writeFile(t, dir, "dt.json", treeArtifact)
	writeFile(t, dir, "gb.json", boostingArtifact)
	writeFile(t, dir, "svm.json", svmArtifact)
	writeFile(t, dir, "label_encoder.json", encoderArtifact)
	return dir
}
