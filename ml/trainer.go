package ml

import (
	"math"
	"math/rand"
	"sort"
	"time"

	"github.com/google/uuid"
	"gonum.org/v1/gonum/integrate"
	"gonum.org/v1/gonum/stat"

	"vitalrisk/patient"
)

// EvaluationReport carries the held-out metrics of one training run. It is
// informational output only and is not persisted inside the bundle's
// decision logic.
type EvaluationReport struct {
	Accuracy      float64 `json:"accuracy"`
	Precision     float64 `json:"precision"`
	Recall        float64 `json:"recall"`
	F1            float64 `json:"f1"`
	ROCAUC        float64 `json:"roc_auc"`
	TrainRows     int     `json:"train_rows"`
	TestRows      int     `json:"test_rows"`
	PositiveRatio float64 `json:"positive_ratio"`
}

// Trainer fits a classifier and its scaler from labeled records.
type Trainer struct {
	TestRatio float64
	Seed      int64
	Model     *LogisticRegression
}

// NewTrainer returns a trainer with an 80/20 split under the given seed.
func NewTrainer(seed int64) *Trainer {
	return &Trainer{
		TestRatio: 0.2,
		Seed:      seed,
	}
}

// Train validates the cohort, performs a deterministic stratified split,
// fits the scaler on the training split only, fits the classifier on the
// scaled training rows, and evaluates on the held-out split. It returns the
// bundle and the evaluation report.
//
// Errors: *SchemaError when a record carries no risk label,
// *InsufficientDataError when either split would hold fewer than two
// examples of either class.
func (t *Trainer) Train(records []patient.VitalRecord) (*Bundle, *EvaluationReport, error) {
	if len(records) == 0 {
		return nil, nil, &SchemaError{Reason: "no training records"}
	}
	labels := make([]int, len(records))
	vectors := make([][]float64, len(records))
	for i, r := range records {
		if !r.HasRisk {
			return nil, nil, &SchemaError{Reason: "record without risk label in training data"}
		}
		labels[i] = r.Risk
		vectors[i] = FeatureVector(r)
	}

	testRatio := t.TestRatio
	if testRatio <= 0 || testRatio >= 1 {
		testRatio = 0.2
	}
	rng := rand.New(rand.NewSource(t.Seed))
	trainIdx, testIdx, err := stratifiedSplit(labels, testRatio, rng)
	if err != nil {
		return nil, nil, err
	}

	trainX := gather(vectors, trainIdx)
	trainY := gatherLabels(labels, trainIdx)
	testX := gather(vectors, testIdx)
	testY := gatherLabels(labels, testIdx)

	// The scaler sees the training split only. Fitting it on rows that later
	// land in the held-out split would leak evaluation data into the model.
	scaler, err := FitScaler(FeatureNames(), trainX)
	if err != nil {
		return nil, nil, err
	}
	scaledTrain, err := scaler.TransformBatch(trainX)
	if err != nil {
		return nil, nil, err
	}
	scaledTest, err := scaler.TransformBatch(testX)
	if err != nil {
		return nil, nil, err
	}

	model := t.newModel()
	if err := model.Train(scaledTrain, trainY); err != nil {
		return nil, nil, err
	}

	report, err := evaluate(model, scaledTest, testY)
	if err != nil {
		return nil, nil, err
	}
	report.TrainRows = len(trainIdx)
	report.TestRows = len(testIdx)
	report.PositiveRatio = positiveRatio(labels)

	bundle := &Bundle{
		Version:   uuid.NewString(),
		TrainedAt: time.Now().UTC(),
		ModelType: ModelTypeLogistic,
		Schema:    FeatureNames(),
		Scaler:    scaler,
		Model:     model,
		TrainRows: len(trainIdx),
		TestRows:  len(testIdx),
	}
	return bundle, report, nil
}

func (t *Trainer) newModel() *LogisticRegression {
	if t.Model == nil {
		return NewLogisticRegression()
	}
	return &LogisticRegression{
		LearnRate: t.Model.LearnRate,
		Epochs:    t.Model.Epochs,
		L2:        t.Model.L2,
	}
}

// stratifiedSplit partitions indices per class so both splits preserve the
// overall label ratio. Deterministic for a fixed rng seed.
func stratifiedSplit(labels []int, testRatio float64, rng *rand.Rand) (trainIdx, testIdx []int, err error) {
	byClass := map[int][]int{}
	for i, y := range labels {
		byClass[y] = append(byClass[y], i)
	}
	for _, class := range []int{0, 1} {
		idxs := byClass[class]
		nTest := int(math.Round(float64(len(idxs)) * testRatio))
		nTrain := len(idxs) - nTest
		if nTest < 2 {
			return nil, nil, &InsufficientDataError{Class: class, Split: "test", Count: nTest}
		}
		if nTrain < 2 {
			return nil, nil, &InsufficientDataError{Class: class, Split: "train", Count: nTrain}
		}
		shuffled := append([]int(nil), idxs...)
		rng.Shuffle(len(shuffled), func(a, b int) {
			shuffled[a], shuffled[b] = shuffled[b], shuffled[a]
		})
		testIdx = append(testIdx, shuffled[:nTest]...)
		trainIdx = append(trainIdx, shuffled[nTest:]...)
	}
	sort.Ints(trainIdx)
	sort.Ints(testIdx)
	return trainIdx, testIdx, nil
}

func evaluate(model *LogisticRegression, testX [][]float64, testY []int) (*EvaluationReport, error) {
	var correct, tp, fp, fn int
	scores := make([]float64, len(testX))
	for i, vec := range testX {
		label, prob, err := model.Predict(vec)
		if err != nil {
			return nil, err
		}
		scores[i] = prob
		if label == testY[i] {
			correct++
		}
		switch {
		case label == 1 && testY[i] == 1:
			tp++
		case label == 1 && testY[i] == 0:
			fp++
		case label == 0 && testY[i] == 1:
			fn++
		}
	}

	report := &EvaluationReport{
		Accuracy: float64(correct) / float64(len(testX)),
		ROCAUC:   rocAUC(scores, testY),
	}
	if tp+fp > 0 {
		report.Precision = float64(tp) / float64(tp+fp)
	}
	if tp+fn > 0 {
		report.Recall = float64(tp) / float64(tp+fn)
	}
	if report.Precision+report.Recall > 0 {
		report.F1 = 2 * report.Precision * report.Recall / (report.Precision + report.Recall)
	}
	return report, nil
}

// rocAUC computes the area under the ROC curve from positive-class scores.
func rocAUC(scores []float64, labels []int) float64 {
	order := make([]int, len(scores))
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(a, b int) bool {
		return scores[order[a]] < scores[order[b]]
	})
	sorted := make([]float64, len(scores))
	classes := make([]bool, len(scores))
	for i, idx := range order {
		sorted[i] = scores[idx]
		classes[i] = labels[idx] == 1
	}
	tpr, fpr, _ := stat.ROC(nil, sorted, classes, nil)
	return integrate.Trapezoidal(fpr, tpr)
}

func positiveRatio(labels []int) float64 {
	if len(labels) == 0 {
		return 0
	}
	pos := 0
	for _, y := range labels {
		if y == 1 {
			pos++
		}
	}
	return float64(pos) / float64(len(labels))
}

func gather(vectors [][]float64, idx []int) [][]float64 {
	out := make([][]float64, len(idx))
	for i, j := range idx {
		out[i] = vectors[j]
	}
	return out
}

func gatherLabels(labels []int, idx []int) []int {
	out := make([]int, len(idx))
	for i, j := range idx {
		out[i] = labels[j]
	}
	return out
}
