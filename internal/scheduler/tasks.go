package scheduler

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const TaskWeeklyDigest = "analytics.weekly_digest"

type WeeklyDigestPayload struct {
	Period string `json:"period"`
}

func NewWeeklyDigestTask(payload WeeklyDigestPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskWeeklyDigest, data), nil
}

func ParseWeeklyDigestPayload(task *asynq.Task) (WeeklyDigestPayload, error) {
	var payload WeeklyDigestPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return WeeklyDigestPayload{}, err
	}
	return payload, nil
}
