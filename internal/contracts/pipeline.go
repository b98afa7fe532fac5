package contracts

// Pipeline Stage 정의 (SSOT)
// 모든 로그, 실행 기록, 이벤트에서 이 상수를 사용해야 함
//
// 파이프라인 흐름:
//   fetch → decode → map → validate → clean → persist
//   (persisted canonical dataset) → metrics / quality (on demand)

// Stage represents a pipeline stage
type Stage string

const (
	// StageFetch downloads the archive and extracts the CSV entry
	// 위치: internal/s0_ingest/fetcher/
	StageFetch Stage = "fetch"

	// StageDecode turns entry bytes into a RecordSet
	// 위치: internal/dataset/
	StageDecode Stage = "decode"

	// StageMap builds the best-effort ColumnMapping
	// 위치: internal/s0_ingest/schema/
	StageMap Stage = "map"

	// StageValidate enforces the required-field gate
	// 위치: internal/s0_ingest/schema/
	StageValidate Stage = "validate"

	// StageClean normalizes names, dates and column order
	// 위치: internal/s1_clean/
	StageClean Stage = "clean"

	// StagePersist writes the canonical dataset
	// 위치: internal/dataset/
	StagePersist Stage = "persist"
)

// String returns the stage name
func (s Stage) String() string {
	return string(s)
}

// AllStages returns all ingestion stages in order
func AllStages() []Stage {
	return []Stage{
		StageFetch,
		StageDecode,
		StageMap,
		StageValidate,
		StageClean,
		StagePersist,
	}
}

// IsValidStage checks if a stage string is valid
func IsValidStage(s string) bool {
	for _, stage := range AllStages() {
		if string(stage) == s {
			return true
		}
	}
	return false
}
