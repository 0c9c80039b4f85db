package models

type Profile struct {
	Age              int         `json:"age"`
	Gender           string      `json:"gender"`
	Height           float64     `json:"height"`
	Weight           float64     `json:"weight"`
	Goals            []Goal      `json:"goals"`
	HealthConditions []Condition `json:"healthConditions"`
}

// ProfileUpdate is the body of the wholesale profile PUT.
type ProfileUpdate struct {
	Age    int     `json:"age"`
	Gender string  `json:"gender"`
	Height float64 `json:"height"`
	Weight float64 `json:"weight"`
}

type Goal struct {
	GoalID                  int64   `json:"goalId"`
	GoalDescription         string  `json:"goalDescription"`
	TargetWeight            float64 `json:"targetWeight"`
	TargetBodyFatPercentage float64 `json:"targetBodyFatPercentage"`
	TargetCaloricIntake     float64 `json:"targetCaloricIntake"`
}

type Condition struct {
	ConditionID          int64  `json:"conditionId"`
	ConditionDescription string `json:"conditionDescription"`
}
