package models

import "time"

// Fila del ledger de experimentos: una por (userId, variante).
// Los campos derivados se recalculan en cada mutación de contadores,
// nunca se setean por separado.
type ExperimentDoc struct {
	UserID           int     `json:"userId" bson:"userId"`
	AlgorithmVariant string  `json:"algorithmVariant" bson:"algorithmVariant"`
	Shown            int     `json:"recommendationsShown" bson:"recommendationsShown"`
	Clicked          int     `json:"recommendationsClicked" bson:"recommendationsClicked"`
	Rated            int     `json:"recommendationsRated" bson:"recommendationsRated"`
	CTR              float64 `json:"ctr" bson:"ctr"`
	ConversionRate   float64 `json:"conversionRate" bson:"conversionRate"`
	AvgRatingGiven   float64 `json:"avgRatingGiven" bson:"avgRatingGiven"`

	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt" bson:"updatedAt"`
}

// RecomputeRates recalcula ctr y conversionRate desde los contadores
// actuales. Con shown=0 ambas tasas son 0, no NaN.
func (e *ExperimentDoc) RecomputeRates() {
	if e.Shown > 0 {
		e.CTR = float64(e.Clicked) / float64(e.Shown) * 100
		e.ConversionRate = float64(e.Rated) / float64(e.Shown) * 100
	} else {
		e.CTR = 0
		e.ConversionRate = 0
	}
}

// Muestra append-only de performance por servida de recomendaciones.
type PerformanceDoc struct {
	Algorithm          string    `json:"algorithm" bson:"algorithm"`
	UserID             int       `json:"userId" bson:"userId"`
	NumRecommendations int       `json:"numRecommendations" bson:"numRecommendations"`
	AverageRating      float64   `json:"averageRating" bson:"averageRating"`
	ResponseTime       float64   `json:"responseTime" bson:"responseTime"` // segundos
	DiversityScore     float64   `json:"diversityScore" bson:"diversityScore"`
	TestDate           time.Time `json:"testDate" bson:"testDate"`
}

// Agregado por algoritmo que consume el dashboard de performance.
type AlgorithmStats struct {
	Algorithm    string  `json:"algorithm" bson:"_id"`
	AvgRating    float64 `json:"avgRating" bson:"avgRating"`
	AvgTime      float64 `json:"avgTime" bson:"avgTime"`
	AvgDiversity float64 `json:"avgDiversity" bson:"avgDiversity"`
	TotalUsers   int     `json:"totalUsers" bson:"totalUsers"`
	TotalTests   int     `json:"totalTests" bson:"totalTests"`
}
