package model

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

const (
	testArtifactsDir = "../../testdata/artifacts"

	testVectorizerJSON = `{
		"vocabulary": {"work": 0, "home": 1, "work home": 2, "money": 3},
		"idf": [1, 2, 3, 1]
	}`

	testTreeJSON = `{
		"type": "xgboost",
		"base_score": 0.5,
		"num_features": 3,
		"trees": [
			{"nodeid": 0, "split": "f1", "split_condition": 0.5, "yes": 1, "no": 2, "missing": 1,
			 "children": [{"nodeid": 1, "leaf": -1.0}, {"nodeid": 2, "leaf": 2.0}]}
		]
	}`
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}
