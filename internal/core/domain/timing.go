package domain

import "time"

// Длительность этапа синхронизации, попадает в логи и снимок
type StageTiming struct {
	Stage     string    `json:"stage"`
	Millis    int64     `json:"millis"`
	StartedAt time.Time `json:"-"`
}

func StartStage(stage string) StageTiming {
	return StageTiming{Stage: stage, StartedAt: time.Now()}
}

func (t *StageTiming) Stop() {
	t.Millis = time.Since(t.StartedAt).Milliseconds()
}

type StageTimings []StageTiming

func (s StageTimings) LogValue() map[string]int64 {
	values := make(map[string]int64, len(s))
	for _, t := range s {
		values[t.Stage] = t.Millis
	}
	return values
}
