// internal/models/wire.go
package models

import (
	"encoding/json"
	"strconv"

	"therapy-recommendations/internal/common/errors"
	"therapy-recommendations/internal/common/wire"
)

const recommendationsResponseName = "RecommendationsResponse"

// Field tables. Only AgeGroup (age_group) and TopN (top_n) differ between the in-memory
// and the wire name.
var (
	AgeRequestMapping = &wire.Mapping[RecommendByAgeRequest]{
		Name: "RecommendByAgeRequest",
		Fields: []wire.Field[RecommendByAgeRequest]{
			wire.IntField("Age", "age", func(r *RecommendByAgeRequest) *int { return &r.Age }),
			wire.StringField("Disorder", "disorder", func(r *RecommendByAgeRequest) *string { return &r.Disorder }),
		},
	}

	TextRequestMapping = &wire.Mapping[RecommendByTextRequest]{
		Name: "RecommendByTextRequest",
		Fields: []wire.Field[RecommendByTextRequest]{
			wire.StringField("Text", "text", func(r *RecommendByTextRequest) *string { return &r.Text }),
			wire.OptionalIntField("TopN", "top_n", func(r *RecommendByTextRequest) *int { return &r.TopN }),
		},
		Defaults: func(r *RecommendByTextRequest) {
			r.TopN = DefaultTopN
		},
	}

	TherapyTaskMapping = &wire.Mapping[TherapyTask]{
		Name: "TherapyTask",
		Fields: []wire.Field[TherapyTask]{
			wire.StringField("Title", "title", func(t *TherapyTask) *string { return &t.Title }),
			wire.StringField("Description", "description", func(t *TherapyTask) *string { return &t.Description }),
			wire.StringField("AgeGroup", "age_group", func(t *TherapyTask) *string { return &t.AgeGroup }),
			wire.StringField("Disorder", "disorder", func(t *TherapyTask) *string { return &t.Disorder }),
			wire.StringField("Activity", "activity", func(t *TherapyTask) *string { return &t.Activity }),
			wire.StringField("Materials", "materials", func(t *TherapyTask) *string { return &t.Materials }),
			wire.StringField("Duration", "duration", func(t *TherapyTask) *string { return &t.Duration }),
			wire.StringField("Tips", "tips", func(t *TherapyTask) *string { return &t.Tips }),
			wire.NullableFloatField("Similarity", "similarity", func(t *TherapyTask) **float64 { return &t.Similarity }),
		},
	}

	RecommendationsResponseMapping = &wire.Mapping[RecommendationsResponse]{
		Name: recommendationsResponseName,
		Fields: []wire.Field[RecommendationsResponse]{
			{
				Local:    "Recommendations",
				Wire:     "recommendations",
				Kind:     wire.KindArray,
				Required: true,
				Items:    TherapyTaskMapping,
				Get: func(r *RecommendationsResponse) (interface{}, bool) {
					if r.Recommendations == nil {
						return []TherapyTask{}, true
					}
					return r.Recommendations, true
				},
				Set: setRecommendations,
			},
		},
	}
)

func setRecommendations(r *RecommendationsResponse, raw json.RawMessage) error {
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return err
	}

	tasks := make([]TherapyTask, len(items))
	for i, item := range items {
		if err := wire.Unmarshal(TherapyTaskMapping, item, &tasks[i]); err != nil {
			stdErr := errors.Normalize(err)
			violations := make([]errors.Violation, 0, len(stdErr.Violations))
			for _, v := range stdErr.Violations {
				v.Field = strconv.Itoa(i) + "." + v.Field
				violations = append(violations, v)
			}
			return errors.NewMalformedPayloadError(recommendationsResponseName, violations)
		}
	}
	r.Recommendations = tasks
	return nil
}

func (r RecommendByAgeRequest) MarshalJSON() ([]byte, error) {
	return wire.Marshal(AgeRequestMapping, &r)
}

func (r *RecommendByAgeRequest) UnmarshalJSON(data []byte) error {
	return wire.Unmarshal(AgeRequestMapping, data, r)
}

func (r RecommendByTextRequest) MarshalJSON() ([]byte, error) {
	return wire.Marshal(TextRequestMapping, &r)
}

func (r *RecommendByTextRequest) UnmarshalJSON(data []byte) error {
	return wire.Unmarshal(TextRequestMapping, data, r)
}

func (t TherapyTask) MarshalJSON() ([]byte, error) {
	return wire.Marshal(TherapyTaskMapping, &t)
}

func (t *TherapyTask) UnmarshalJSON(data []byte) error {
	return wire.Unmarshal(TherapyTaskMapping, data, t)
}

func (r RecommendationsResponse) MarshalJSON() ([]byte, error) {
	return wire.Marshal(RecommendationsResponseMapping, &r)
}

func (r *RecommendationsResponse) UnmarshalJSON(data []byte) error {
	return wire.Unmarshal(RecommendationsResponseMapping, data, r)
}
