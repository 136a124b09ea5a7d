package metadata

/**
 * @brief Describes a job to be run by the job system.
 */
type JobTask struct {
	/** @brief Name used when the job is logged. */
	Name string
	/** @brief Invoked on a worker when the job starts. Required. */
	OnStart func() error
	/** @brief Invoked when OnStart succeeds. Optional. */
	OnComplete func()
	/** @brief Invoked with the error when OnStart fails. Optional. */
	OnFailure func(error)
	/** @brief Invoked after either outcome. Optional. */
	OnCompletionCallback func()
}
