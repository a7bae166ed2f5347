package models

import "time"

type TaskStatus string

const (
	TaskStatusPending         TaskStatus = "PENDING"
	TaskStatusInProcess       TaskStatus = "IN_PROCESS"
	TaskStatusFinish          TaskStatus = "FINISH"
	TaskStatusFinishWithError TaskStatus = "FINISH_WITH_ERROR"
)

const TaskNameTokenMigration = "token-migration"

// Task is a unit of deferred, resumable background work. Status moves
// monotonically PENDING -> IN_PROCESS -> FINISH or FINISH_WITH_ERROR, and
// the processor must tolerate being re-invoked on a task that already carries
// partial progress in its task_data payload.
type Task struct {
	ID         string     `gorm:"primaryKey;size:36"`
	Name       string     `gorm:"column:name;size:64;index"`
	TaskData   string     `gorm:"column:task_data;type:text"`
	Status     TaskStatus `gorm:"column:status;size:20;index"`
	ReturnData string     `gorm:"column:return_data;type:text"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (Task) TableName() string {
	return "tasks"
}
