package model

// Model is the fixed inference contract of the classifier: a feature
// vector in, a sentiment label and its class probabilities out. The
// pipeline depends only on this interface so a different artifact
// family can be swapped in without touching the consumer stages.
type Model interface {
	// Predict returns the predicted label and the probability per class
	// in the model's label order. The probabilities sum to 1.
	Predict(features []float64) (string, []float64)

	// Labels returns the class labels in artifact order.
	Labels() []string

	// Dim returns the expected feature vector dimension.
	Dim() int
}
