package metadata

import "fmt"

/** Definition for the body of a job. */
type JobStart func() error

/** Definition for completion of a job. */
type JobOnComplete func(err error)

/** @brief Describes a type of job */
type JobType int

const (
	/**
	 * @brief A general job that does not have any specific thread requirements.
	 */
	JOB_TYPE_GENERAL JobType = 0x02
	/**
	 * @brief A resource loading job, such as decoding one image file.
	 */
	JOB_TYPE_RESOURCE_LOAD JobType = 0x04
)

func (jt JobType) String() string {
	switch jt {
	case JOB_TYPE_GENERAL:
		return "general"
	case JOB_TYPE_RESOURCE_LOAD:
		return "resource-load"
	default:
		return fmt.Sprintf("JobType(%d)", int(jt))
	}
}

/**
 * @brief Describes a job to be run.
 */
type JobTask struct {
	/** @brief The type of job. */
	JobType JobType
	/** @brief Human readable label used in logs. */
	Name string
	/** @brief Invoked on a worker goroutine. Required. */
	OnStart JobStart
	/** @brief Invoked after OnStart with its result. Optional. */
	OnCompletion JobOnComplete
}
