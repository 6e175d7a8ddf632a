package models

import (
	"database/sql/driver"
	"time"

	"github.com/gofrs/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
	"gorm.io/gorm/schema"
)

const DefaultPriority = 1

type Todo struct {
	ID          uuid.UUID  `json:"id" gorm:"primaryKey;type:uuid"`
	Task        string     `json:"task" gorm:"not null"`
	Completed   bool       `json:"completed" gorm:"not null;default:false"`
	Priority    int        `json:"priority" gorm:"not null;default:1"`
	Description *string    `json:"description"`
	DueDate     *time.Time `json:"dueDate"`
	Tags        Tags       `json:"tags" gorm:"not null"`
	AssignedTo  *string    `json:"assignedTo"`
	Category    *string    `json:"category"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

func (Todo) TableName() string {
	return "todos"
}

// BeforeCreate assigns the identifier when the caller did not.
func (t *Todo) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		id, err := uuid.NewV4()
		if err != nil {
			return err
		}
		t.ID = id
	}
	if t.Tags == nil {
		t.Tags = Tags{}
	}
	return nil
}

// Tags is an ordered list of labels. It is stored as a text[] column on
// PostgreSQL and as the array literal text on SQLite.
type Tags []string

func (t Tags) Value() (driver.Value, error) {
	if t == nil {
		return pq.StringArray{}.Value()
	}
	return pq.StringArray(t).Value()
}

func (t *Tags) Scan(src interface{}) error {
	var arr pq.StringArray
	if err := arr.Scan(src); err != nil {
		return err
	}
	if arr == nil {
		*t = Tags{}
		return nil
	}
	*t = Tags(arr)
	return nil
}

func (Tags) GormDataType() string {
	return "tags"
}

func (Tags) GormDBDataType(db *gorm.DB, field *schema.Field) string {
	if db.Dialector.Name() == "postgres" {
		return "text[]"
	}
	return "text"
}
