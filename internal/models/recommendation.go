// internal/models/recommendation.go
package models

// DefaultTopN is the number of results requested when a text request does not set one.
const DefaultTopN = 5

// RecommendByAgeRequest asks the backend for tasks matching a patient's age and disorder.
type RecommendByAgeRequest struct {
	Age      int
	Disorder string
}

func NewRecommendByAgeRequest(age int, disorder string) RecommendByAgeRequest {
	return RecommendByAgeRequest{Age: age, Disorder: disorder}
}

// RecommendByTextRequest asks the backend for the TopN tasks most similar to Text.
type RecommendByTextRequest struct {
	Text string
	TopN int
}

// TextRequestOption configures a RecommendByTextRequest.
type TextRequestOption func(*RecommendByTextRequest)

// WithTopN overrides DefaultTopN. Zero and negative values are passed through as given.
func WithTopN(n int) TextRequestOption {
	return func(r *RecommendByTextRequest) {
		r.TopN = n
	}
}

func NewRecommendByTextRequest(text string, opts ...TextRequestOption) RecommendByTextRequest {
	r := RecommendByTextRequest{Text: text, TopN: DefaultTopN}
	for _, opt := range opts {
		opt(&r)
	}
	return r
}

// TherapyTask is one recommended activity. Similarity is set only for results of a
// text-similarity lookup; nil means absent, which is distinct from a score of 0.
type TherapyTask struct {
	Title       string
	Description string
	AgeGroup    string
	Disorder    string
	Activity    string
	Materials   string
	Duration    string
	Tips        string
	Similarity  *float64
}

// TherapyTaskOption configures a TherapyTask.
type TherapyTaskOption func(*TherapyTask)

// WithSimilarity sets the relevance score.
func WithSimilarity(score float64) TherapyTaskOption {
	return func(t *TherapyTask) {
		t.Similarity = &score
	}
}

func NewTherapyTask(title, description, ageGroup, disorder, activity, materials, duration, tips string, opts ...TherapyTaskOption) TherapyTask {
	t := TherapyTask{
		Title:       title,
		Description: description,
		AgeGroup:    ageGroup,
		Disorder:    disorder,
		Activity:    activity,
		Materials:   materials,
		Duration:    duration,
		Tips:        tips,
	}
	for _, opt := range opts {
		opt(&t)
	}
	return t
}

// Score returns the similarity score and whether it is present.
func (t TherapyTask) Score() (float64, bool) {
	if t.Similarity == nil {
		return 0, false
	}
	return *t.Similarity, true
}

// RecommendationsResponse is the body returned by both recommendation endpoints.
// Recommendations are in rank order, best first.
type RecommendationsResponse struct {
	Recommendations []TherapyTask
}

func NewRecommendationsResponse(tasks []TherapyTask) RecommendationsResponse {
	if tasks == nil {
		tasks = []TherapyTask{}
	}
	return RecommendationsResponse{Recommendations: tasks}
}

// Len returns the number of recommendations.
func (r RecommendationsResponse) Len() int {
	return len(r.Recommendations)
}

// Top returns at most the n best-ranked recommendations. Appending to the result never
// writes into the response.
func (r RecommendationsResponse) Top(n int) []TherapyTask {
	if n <= 0 {
		return []TherapyTask{}
	}
	if n > len(r.Recommendations) {
		n = len(r.Recommendations)
	}
	return r.Recommendations[:n:n]
}
