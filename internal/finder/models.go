package finder

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Block is a placed activity finder block and its per-placement configuration.
type Block struct {
	bun.BaseModel `bun:"table:activity_finder_blocks,alias:afb"`

	ID              uuid.UUID `bun:",pk,type:uuid" json:"id"`
	Region          string    `bun:"region,notnull" json:"region"`
	Label           string    `bun:"label,notnull" json:"label"`
	LegacyMode      bool      `bun:"legacy_mode,notnull" json:"legacy_mode"`
	BackgroundImage string    `bun:"background_image,notnull" json:"background_image"`
	CreatedAt       time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at"`
	UpdatedAt       time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at"`
}
