package model

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/mchmarny/jobfraud/pkg/vector"
)

// TreeEnsemble is a gradient boosted binary:logistic model exported with
// XGBoost's get_dump(dump_format="json"). Features absent from the sparse
// input follow each split's missing branch, as XGBoost does for CSR input.
type TreeEnsemble struct {
	BaseScore    *float64   `json:"base_score,omitempty"`
	FeatureCount int        `json:"num_features,omitempty"`
	Trees        []TreeNode `json:"trees"`

	compiled  []map[int]*TreeNode
	baseLogit float64
}

// TreeNode is one node of a dumped tree. Leaves carry Leaf; splits carry
// the remaining fields.
type TreeNode struct {
	NodeID         int        `json:"nodeid"`
	Split          string     `json:"split,omitempty"`
	SplitCondition float64    `json:"split_condition,omitempty"`
	Yes            int        `json:"yes,omitempty"`
	No             int        `json:"no,omitempty"`
	Missing        int        `json:"missing,omitempty"`
	Leaf           *float64   `json:"leaf,omitempty"`
	Children       []TreeNode `json:"children,omitempty"`

	feature int
}

func (m *TreeEnsemble) validate() error {
	if len(m.Trees) == 0 {
		return errors.New("no trees")
	}

	base := 0.5
	if m.BaseScore != nil {
		base = *m.BaseScore
	}
	if base <= 0 || base >= 1 {
		return fmt.Errorf("base_score %v outside (0,1)", base)
	}
	m.baseLogit = math.Log(base / (1 - base))

	m.compiled = make([]map[int]*TreeNode, len(m.Trees))
	for i := range m.Trees {
		nodes := make(map[int]*TreeNode)
		if err := index(&m.Trees[i], nodes); err != nil {
			return fmt.Errorf("tree %d: %w", i, err)
		}
		for _, n := range nodes {
			if err := checkBranches(n); err != nil {
				return fmt.Errorf("tree %d: %w", i, err)
			}
		}
		m.compiled[i] = nodes
	}
	return nil
}

func index(n *TreeNode, nodes map[int]*TreeNode) error {
	if _, dup := nodes[n.NodeID]; dup {
		return fmt.Errorf("duplicate node id %d", n.NodeID)
	}
	nodes[n.NodeID] = n
	if n.Leaf != nil {
		return nil
	}

	f, err := parseFeature(n.Split)
	if err != nil {
		return fmt.Errorf("node %d: %w", n.NodeID, err)
	}
	n.feature = f
	for i := range n.Children {
		if err := index(&n.Children[i], nodes); err != nil {
			return err
		}
	}
	return nil
}

// checkBranches requires every branch of a split to target one of its own
// children, so traversal always moves down and terminates at a leaf.
func checkBranches(n *TreeNode) error {
	if n.Leaf != nil {
		return nil
	}
	for _, next := range []int{n.Yes, n.No, n.Missing} {
		found := false
		for _, c := range n.Children {
			if c.NodeID == next {
				found = true
				break
			}
		}
		if !found {
			return fmt.Errorf("node %d branches to %d, which is not one of its children", n.NodeID, next)
		}
	}
	return nil
}

// parseFeature accepts XGBoost's default "f123" names and bare indices.
func parseFeature(s string) (int, error) {
	f, err := strconv.Atoi(strings.TrimPrefix(s, "f"))
	if err != nil || f < 0 {
		return 0, fmt.Errorf("unsupported split feature %q", s)
	}
	return f, nil
}

// NumFeatures implements WidthReporter.
func (m *TreeEnsemble) NumFeatures() (int, bool) {
	return m.FeatureCount, m.FeatureCount > 0
}

// Margin returns the raw boosted score of x before the logistic link.
func (m *TreeEnsemble) Margin(x vector.Sparse) (float64, error) {
	margin := m.baseLogit
	for i, nodes := range m.compiled {
		n := nodes[m.Trees[i].NodeID]
		for n.Leaf == nil {
			if n.feature >= x.Width {
				return 0, fmt.Errorf("%w: split on feature %d, vector width %d", ErrWidth, n.feature, x.Width)
			}
			next := n.Missing
			if v, ok := x.At(n.feature); ok {
				if float32(v) < float32(n.SplitCondition) {
					next = n.Yes
				} else {
					next = n.No
				}
			}
			n = nodes[next]
		}
		margin += *n.Leaf
	}
	return margin, nil
}

// PredictProba implements Classifier.
func (m *TreeEnsemble) PredictProba(x vector.Sparse) ([]float64, error) {
	if want, ok := m.NumFeatures(); ok && x.Width != want {
		return nil, fmt.Errorf("%w: tree model expects %d features, got %d", ErrWidth, want, x.Width)
	}
	if err := x.Validate(); err != nil {
		return nil, fmt.Errorf("invalid feature vector: %w", err)
	}
	margin, err := m.Margin(x)
	if err != nil {
		return nil, err
	}
	return binary(sigmoid(margin)), nil
}
