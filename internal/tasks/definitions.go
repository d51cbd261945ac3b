package tasks

// DefineTasks registers all available tasks
func DefineTasks() {
	// Register general tasks
	RegisterHandler(LogInfoTask.TaskID(), LogInfoTask.HandleExecution)

	// Register session tasks
	RegisterHandler(GenerateSessionsTask.TaskID(), GenerateSessionsTask.HandleExecution)

	// Register payment tasks
	RegisterHandler(PollPaymentTask.TaskID(), PollPaymentTask.HandleExecution)

	// Register notification tasks
	RegisterHandler(SendEmailTask.TaskID(), SendEmailTask.HandleExecution)
}
