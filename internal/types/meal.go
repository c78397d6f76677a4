package types

import (
  "time"

  "github.com/google/uuid"
)

type Meal struct {
  ID                  uuid.UUID                 `gorm:"type:uuid;primaryKey" json:"id"`
  SessionID           uuid.UUID                 `gorm:"type:uuid;index;not null;column:session_id" json:"-"`

  Name                string                    `gorm:"not null;column:name" json:"name"`
  Description         string                    `gorm:"not null;column:description" json:"description"`
  DateTime            time.Time                 `gorm:"not null;column:date_time" json:"date_time"`
  IsOnDiet            bool                      `gorm:"not null;column:is_on_diet" json:"is_on_diet"`

  CreatedAt           time.Time                 `gorm:"not null;column:created_at" json:"created_at"`
}

func (Meal) TableName() string {
  return "meals"
}

// MealMetrics is the adherence summary for one session.
type MealMetrics struct {
  TotalMeals          int64                     `json:"totalMeals"`
  MealsOnDiet         int64                     `json:"mealsOnDiet"`
  MealsOffDiet        int64                     `json:"mealsOffDiet"`
  BestSequenceOnDiet  int64                     `json:"bestSequenceOnDiet"`
}
