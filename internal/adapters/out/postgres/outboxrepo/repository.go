// Package outboxrepo persists durable side-effect tasks. Tasks are written
// in the same transaction as the business change that caused them and
// drained oldest-first by the dispatch job.
package outboxrepo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/outbox"
	"fulfillment/internal/pkg/errs"
)

// TaskDTO represents the database structure for persisting outbox tasks.
type TaskDTO struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	Kind        string    `gorm:"type:varchar(64);not null"`
	Payload     datatypes.JSONMap
	Status      string `gorm:"type:varchar(16);not null;index"`
	Attempts    int    `gorm:"type:int;not null"`
	LastError   string `gorm:"type:text"`
	CreatedAt   time.Time
	ProcessedAt *time.Time
}

// TableName specifies the database table name for outbox tasks.
func (TaskDTO) TableName() string {
	return "outbox_tasks"
}

// fromDomain converts a task to its database representation.
func fromDomain(task *outbox.Task) TaskDTO {
	return TaskDTO{
		ID:          task.ID().Bytes(),
		Kind:        string(task.Kind()),
		Payload:     datatypes.JSONMap(task.Payload()),
		Status:      string(task.Status()),
		Attempts:    task.Attempts(),
		LastError:   task.LastError(),
		CreatedAt:   task.CreatedAt(),
		ProcessedAt: task.ProcessedAt(),
	}
}

// toDomain converts a database DTO to a task via RestoreTask.
func toDomain(dto TaskDTO) (*outbox.Task, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	return outbox.RestoreTask(
		id,
		outbox.Kind(dto.Kind),
		map[string]any(dto.Payload),
		outbox.Status(dto.Status),
		dto.Attempts,
		dto.LastError,
		dto.CreatedAt,
		dto.ProcessedAt,
	)
}

// GormOutboxRepository implements OutboxRepository using GORM.
type GormOutboxRepository struct {
	db *gorm.DB
}

// NewGormOutboxRepository creates a new GORM outbox repository.
func NewGormOutboxRepository(db *gorm.DB) *GormOutboxRepository {
	return &GormOutboxRepository{db: db}
}

// Add persists a new pending task.
func (r *GormOutboxRepository) Add(ctx context.Context, task *outbox.Task) error {
	if err := task.Validate(); err != nil {
		return err
	}

	dto := fromDomain(task)
	return r.db.WithContext(ctx).Create(&dto).Error
}

// Update persists dispatch-state changes of a task.
func (r *GormOutboxRepository) Update(ctx context.Context, task *outbox.Task) error {
	if err := task.Validate(); err != nil {
		return err
	}

	dto := fromDomain(task)
	result := r.db.WithContext(ctx).
		Model(&TaskDTO{}).
		Where("id = ?", dto.ID).
		Select("status", "attempts", "last_error", "processed_at").
		Updates(&dto)
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("outboxTask", task.ID().String())
	}

	return nil
}

// GetPending retrieves up to limit pending tasks, oldest first.
func (r *GormOutboxRepository) GetPending(ctx context.Context, limit int) ([]*outbox.Task, error) {
	var dtos []TaskDTO
	err := r.db.WithContext(ctx).
		Where("status = ?", string(outbox.StatusPending)).
		Order("created_at").
		Limit(limit).
		Find(&dtos).Error
	if err != nil {
		return nil, err
	}

	tasks := make([]*outbox.Task, 0, len(dtos))
	for _, dto := range dtos {
		task, taskErr := toDomain(dto)
		if taskErr != nil {
			return nil, taskErr
		}
		tasks = append(tasks, task)
	}

	return tasks, nil
}
