package domain

// UncertainFoodName is the answer the model gives when it cannot identify the food.
const UncertainFoodName = "不清楚"

// Low-trust values forced onto an uncertain recognition.
const (
	UncertainConfidence = 0.1
	UncertainExpiryDays = 1
)

// RecognitionResult is the structured guess produced from a food photo
type RecognitionResult struct {
	Confidence float64 `json:"confidence" validate:"gte=0,lte=1"`
	ExpiryDays int     `json:"expiry_days" validate:"gt=0"`
	FoodName   string  `json:"food_name" validate:"required,min=2,max=5"`
}

// IsUncertain reports whether the model declined to name the food.
func (r *RecognitionResult) IsUncertain() bool {
	return r.FoodName == UncertainFoodName
}

// ApplyFallback replaces self-reported confidence and shelf life with fixed
// defaults when the model is uncertain.
func (r *RecognitionResult) ApplyFallback() {
	if r.IsUncertain() {
		r.Confidence = UncertainConfidence
		r.ExpiryDays = UncertainExpiryDays
	}
}
