package forecast

import (
	"fmt"
	"math/rand"
	"sort"

	"SharePulse/internal/domain/models"
)

// Ensemble is a bagged forest of depth-limited regression trees. Trees
// consume raw feature values; no standardization is required.
type Ensemble struct {
	nTrees   int
	maxDepth int
	minLeaf  int
	rng      *rand.Rand
	trees    []*treeNode
}

func NewEnsemble(nTrees, maxDepth int, seed int64) *Ensemble {
	if nTrees <= 0 {
		nTrees = 50
	}
	if maxDepth <= 0 {
		maxDepth = 6
	}
	return &Ensemble{
		nTrees:   nTrees,
		maxDepth: maxDepth,
		minLeaf:  2,
		rng:      rand.New(rand.NewSource(seed)),
	}
}

// Fit grows nTrees trees, each on a bootstrap sample of the rows.
func (e *Ensemble) Fit(feats []models.FeatureVector, closes []float64) error {
	n := len(feats)
	if n == 0 || n != len(closes) {
		return fmt.Errorf("ensemble fit: %d feature rows vs %d targets", n, len(closes))
	}
	rows := make([][]float64, n)
	for i, fv := range feats {
		rows[i] = featurize(fv)
	}

	e.trees = make([]*treeNode, e.nTrees)
	idx := make([]int, n)
	for t := 0; t < e.nTrees; t++ {
		for i := range idx {
			idx[i] = e.rng.Intn(n)
		}
		e.trees[t] = e.grow(rows, closes, idx, 0)
	}
	return nil
}

// Predict averages the per-tree predictions.
func (e *Ensemble) Predict(feats []models.FeatureVector) []float64 {
	out := make([]float64, len(feats))
	for i, fv := range feats {
		row := featurize(fv)
		sum := 0.0
		for _, t := range e.trees {
			sum += t.predict(row)
		}
		out[i] = sum / float64(len(e.trees))
	}
	return out
}

type treeNode struct {
	feature   int
	threshold float64
	left      *treeNode
	right     *treeNode
	value     float64
	leaf      bool
}

func (t *treeNode) predict(row []float64) float64 {
	for !t.leaf {
		if row[t.feature] <= t.threshold {
			t = t.left
		} else {
			t = t.right
		}
	}
	return t.value
}

func (e *Ensemble) grow(rows [][]float64, y []float64, idx []int, depth int) *treeNode {
	if depth >= e.maxDepth || len(idx) < 2*e.minLeaf {
		return &treeNode{leaf: true, value: meanAt(y, idx)}
	}
	feature, threshold, ok := e.bestSplit(rows, y, idx)
	if !ok {
		return &treeNode{leaf: true, value: meanAt(y, idx)}
	}
	var left, right []int
	for _, i := range idx {
		if rows[i][feature] <= threshold {
			left = append(left, i)
		} else {
			right = append(right, i)
		}
	}
	if len(left) < e.minLeaf || len(right) < e.minLeaf {
		return &treeNode{leaf: true, value: meanAt(y, idx)}
	}
	return &treeNode{
		feature:   feature,
		threshold: threshold,
		left:      e.grow(rows, y, left, depth+1),
		right:     e.grow(rows, y, right, depth+1),
	}
}

// bestSplit scans every feature with a single sorted pass using prefix
// sums, minimising the summed squared error of the two children.
func (e *Ensemble) bestSplit(rows [][]float64, y []float64, idx []int) (int, float64, bool) {
	n := len(idx)
	bestErr := 0.0
	bestFeature, bestThreshold := -1, 0.0
	order := make([]int, n)

	total := 0.0
	total2 := 0.0
	for _, i := range idx {
		total += y[i]
		total2 += y[i] * y[i]
	}
	baseErr := total2 - total*total/float64(n)
	bestErr = baseErr

	for f := 0; f < numFeatures; f++ {
		copy(order, idx)
		sort.Slice(order, func(a, b int) bool { return rows[order[a]][f] < rows[order[b]][f] })

		sumL, sum2L := 0.0, 0.0
		for k := 0; k < n-1; k++ {
			i := order[k]
			sumL += y[i]
			sum2L += y[i] * y[i]
			// Splits only between distinct values.
			if rows[i][f] == rows[order[k+1]][f] {
				continue
			}
			nl := float64(k + 1)
			nr := float64(n - k - 1)
			if int(nl) < e.minLeaf || int(nr) < e.minLeaf {
				continue
			}
			sumR := total - sumL
			sum2R := total2 - sum2L
			err := (sum2L - sumL*sumL/nl) + (sum2R - sumR*sumR/nr)
			if err < bestErr {
				bestErr = err
				bestFeature = f
				bestThreshold = (rows[i][f] + rows[order[k+1]][f]) / 2
			}
		}
	}
	if bestFeature < 0 || bestErr >= baseErr {
		return 0, 0, false
	}
	return bestFeature, bestThreshold, true
}

func meanAt(y []float64, idx []int) float64 {
	if len(idx) == 0 {
		return 0
	}
	sum := 0.0
	for _, i := range idx {
		sum += y[i]
	}
	return sum / float64(len(idx))
}

var _ TrendModel = (*Ensemble)(nil)
