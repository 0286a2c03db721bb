// Package jobs runs the scheduler gateway's background side using
// github.com/robfig/cron/v3.
//
// # Available Jobs
//
//  1. TaskDispatchJob - ticks the TaskDispatcher, which claims due tasks from
//     the task table and runs the handler registered for each task name
//  2. TaskReaperJob - returns tasks stuck in running past their lease to pending
//
// # Usage
//
//	dispatcher := jobs.NewTaskDispatcher(taskStore, clock.NewSystem(), cfg, logger)
//	dispatcher.Register(task.ProcessPendingTransitions, jobs.NewProcessTransitionsTaskHandler(processor))
//
//	jobManager := jobs.NewJobManager(
//		jobs.NewTaskDispatchJob(dispatcher, "*/1 * * * * *", logger),
//		jobs.NewTaskReaperJob(taskStore, time.Minute, "*/30 * * * * *", logger),
//	)
//	if err := jobManager.StartAll(); err != nil {
//		log.Fatal("Failed to start jobs:", err)
//	}
//	defer jobManager.StopAll()
//
// # Delivery
//
// Tasks are delivered at least once. A task whose handler fails is retried
// after a fixed delay up to a maximum attempt count and then marked failed.
// A dispatcher that dies mid-run leaves its tasks in running until the reaper
// releases them.
package jobs
