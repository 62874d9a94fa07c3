package risk

import (
	"context"
	"fmt"

	"github.com/elgs/gojq"
)

// TreeFormat is the value of the "format" key of a tree artifact.
const TreeFormat = "decision_tree"

type treeNode struct {
	leaf      bool
	class     int
	feature   int
	threshold float64
	left      int
	right     int
}

// TreeClassifier evaluates a binary decision tree. Internal nodes send a
// vector left when features[feature] <= threshold; leaves name a class.
type TreeClassifier struct {
	classes []string
	nodes   []treeNode
}

// ParseTree decodes a tree artifact:
//
//	{"format": "decision_tree",
//	 "classes": ["normal", "modéré", "élevé"],
//	 "nodes": [{"feature": 6, "threshold": 2.5, "left": 1, "right": 2},
//	           {"class": 0}, {"class": 2}]}
//
// Node 0 is the root. The tree is checked for out of range references and
// cycles so that Predict always terminates.
func ParseTree(data []byte) (*TreeClassifier, error) {
	jq, err := gojq.NewStringQuery(string(data))
	if err != nil {
		return nil, fmt.Errorf("failed to parse model artifact: %w", err)
	}

	format, err := jq.Query("format")
	if err != nil {
		return nil, fmt.Errorf("model artifact has no format: %w", err)
	}
	if format != TreeFormat {
		return nil, fmt.Errorf("unsupported model format %v", format)
	}

	rawClasses, err := jq.Query("classes")
	if err != nil {
		return nil, fmt.Errorf("model artifact has no classes: %w", err)
	}
	classList, ok := rawClasses.([]interface{})
	if !ok || len(classList) == 0 {
		return nil, fmt.Errorf("model classes must be a non-empty array")
	}
	classes := make([]string, len(classList))
	for i, c := range classList {
		s, ok := c.(string)
		if !ok {
			return nil, fmt.Errorf("model class %d is not a string", i)
		}
		classes[i] = s
	}

	rawNodes, err := jq.Query("nodes")
	if err != nil {
		return nil, fmt.Errorf("model artifact has no nodes: %w", err)
	}
	nodeList, ok := rawNodes.([]interface{})
	if !ok || len(nodeList) == 0 {
		return nil, fmt.Errorf("model nodes must be a non-empty array")
	}

	nodes := make([]treeNode, len(nodeList))
	for i, raw := range nodeList {
		obj, ok := raw.(map[string]interface{})
		if !ok {
			return nil, fmt.Errorf("model node %d is not an object", i)
		}
		n, err := decodeNode(obj, len(classes), len(nodeList))
		if err != nil {
			return nil, fmt.Errorf("model node %d: %w", i, err)
		}
		nodes[i] = n
	}

	t := &TreeClassifier{classes: classes, nodes: nodes}
	if err := t.checkAcyclic(); err != nil {
		return nil, err
	}
	return t, nil
}

func decodeNode(obj map[string]interface{}, numClasses, numNodes int) (treeNode, error) {
	if _, ok := obj["class"]; ok {
		class, err := intField(obj, "class")
		if err != nil {
			return treeNode{}, err
		}
		if class < 0 || class >= numClasses {
			return treeNode{}, fmt.Errorf("class %d out of range", class)
		}
		return treeNode{leaf: true, class: class}, nil
	}

	feature, err := intField(obj, "feature")
	if err != nil {
		return treeNode{}, err
	}
	if feature < 0 || feature >= NumFeatures {
		return treeNode{}, fmt.Errorf("feature %d out of range", feature)
	}
	threshold, ok := obj["threshold"].(float64)
	if !ok {
		return treeNode{}, fmt.Errorf("threshold must be a number")
	}
	left, err := intField(obj, "left")
	if err != nil {
		return treeNode{}, err
	}
	right, err := intField(obj, "right")
	if err != nil {
		return treeNode{}, err
	}
	if left < 0 || left >= numNodes || right < 0 || right >= numNodes {
		return treeNode{}, fmt.Errorf("child index out of range")
	}

	return treeNode{feature: feature, threshold: threshold, left: left, right: right}, nil
}

func intField(obj map[string]interface{}, key string) (int, error) {
	f, ok := obj[key].(float64)
	if !ok || f != float64(int(f)) {
		return 0, fmt.Errorf("%s must be an integer", key)
	}
	return int(f), nil
}

// checkAcyclic runs a depth-first search from the root that visits each node
// once. Reaching a node still on the current path means a cycle; shared
// subtrees are fine.
func (t *TreeClassifier) checkAcyclic() error {
	const (
		unvisited = iota
		onPath
		done
	)
	state := make([]uint8, len(t.nodes))

	type frame struct {
		node     int
		children int
	}
	stack := []frame{{node: 0}}
	state[0] = onPath
	for len(stack) > 0 {
		top := &stack[len(stack)-1]
		n := t.nodes[top.node]
		if n.leaf || top.children == 2 {
			state[top.node] = done
			stack = stack[:len(stack)-1]
			continue
		}

		next := n.left
		if top.children == 1 {
			next = n.right
		}
		top.children++

		switch state[next] {
		case onPath:
			return fmt.Errorf("model tree contains a cycle")
		case unvisited:
			state[next] = onPath
			stack = append(stack, frame{node: next})
		}
	}
	return nil
}

// Classes returns the class labels of the tree.
func (t *TreeClassifier) Classes() []string {
	return append([]string(nil), t.classes...)
}

// Predict walks the tree from the root.
func (t *TreeClassifier) Predict(_ context.Context, features Vector) (string, error) {
	i := 0
	for {
		n := t.nodes[i]
		if n.leaf {
			return t.classes[n.class], nil
		}
		if features[n.feature] <= n.threshold {
			i = n.left
		} else {
			i = n.right
		}
	}
}
