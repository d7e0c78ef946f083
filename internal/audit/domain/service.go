package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type ListRequest struct {
	Action string
	Limit  int
}

type Service interface {
	// Record writes an audit entry. When tx is non-nil the entry joins the
	// caller's transaction and rolls back with it.
	Record(ctx context.Context, tx *gorm.DB, actorID *snowflake.ID, action, targetType string, targetID *string, detail map[string]any) error
	List(ctx context.Context, req ListRequest) ([]Entry, error)
}
