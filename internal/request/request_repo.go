package request

import (
	"context"
	"database/sql"

	"gorm.io/gorm"
)

type StatusCount struct {
	Status string
	Count  int64
}

type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Insert(ctx context.Context, r *LeaveRequest) error
	FindByID(ctx context.Context, id uint) (*LeaveRequest, error)
	FindRecent(ctx context.Context, limit int) ([]LeaveRequest, error)
	FindByEmail(ctx context.Context, email string) ([]LeaveRequest, error)
	FindPendingByEmail(ctx context.Context, email string) ([]LeaveRequest, error)
	UpdateStatus(ctx context.Context, id uint, status string, comments *string) (bool, error)
	CountByStatus(ctx context.Context, email string) ([]StatusCount, error)
}

type repository struct {
	db *gorm.DB
	tx *sql.Tx
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *sql.Tx) Repository {
	return &repository{db: r.db, tx: tx}
}

func (r *repository) Insert(ctx context.Context, req *LeaveRequest) error {
	req.Status = StatusPending
	return r.db.WithContext(ctx).Create(req).Error
}

func (r *repository) FindByID(ctx context.Context, id uint) (*LeaveRequest, error) {
	var req LeaveRequest
	err := r.db.WithContext(ctx).First(&req, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &req, nil
}

func (r *repository) FindRecent(ctx context.Context, limit int) ([]LeaveRequest, error) {
	var reqs []LeaveRequest
	err := r.db.WithContext(ctx).
		Order("id DESC").
		Limit(limit).
		Find(&reqs).Error
	return reqs, err
}

func (r *repository) FindByEmail(ctx context.Context, email string) ([]LeaveRequest, error) {
	var reqs []LeaveRequest
	err := r.db.WithContext(ctx).
		Where("email = ?", email).
		Order("id DESC").
		Find(&reqs).Error
	return reqs, err
}

func (r *repository) FindPendingByEmail(ctx context.Context, email string) ([]LeaveRequest, error) {
	var reqs []LeaveRequest
	err := r.db.WithContext(ctx).
		Where("email = ?", email).
		Where("status = ?", StatusPending).
		Order("id DESC").
		Find(&reqs).Error
	return reqs, err
}

// UpdateStatus is a single UPDATE so a racing cancellation and admin review
// serialize on the row. Returns false when the row does not exist.
func (r *repository) UpdateStatus(ctx context.Context, id uint, status string, comments *string) (bool, error) {
	values := map[string]any{"status": status}
	if comments != nil {
		values["comments"] = *comments
	}

	res := r.db.WithContext(ctx).
		Model(&LeaveRequest{}).
		Where("id = ?", id).
		Updates(values)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *repository) CountByStatus(ctx context.Context, email string) ([]StatusCount, error) {
	var counts []StatusCount
	err := r.db.WithContext(ctx).
		Model(&LeaveRequest{}).
		Select("status, COUNT(*) as count").
		Where("email = ?", email).
		Group("status").
		Scan(&counts).Error
	return counts, err
}
