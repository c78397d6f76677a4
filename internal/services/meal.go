package services

import (
  "context"
  "fmt"
  "strings"
  "time"

  "github.com/google/uuid"
  "gorm.io/gorm"

  "github.com/daily-diet-org/daily-diet-backend/internal/logger"
  "github.com/daily-diet-org/daily-diet-backend/internal/repos"
  "github.com/daily-diet-org/daily-diet-backend/internal/types"
)

// CreateMealInput is the decoded POST /meals body. All four fields are
// required; pointers distinguish "absent" from zero values.
type CreateMealInput struct {
  Name          string      `json:"name"`
  Description   *string     `json:"description"`
  DateTime      string      `json:"date_time"`
  IsOnDiet      *bool       `json:"is_on_diet"`
}

// UpdateMealInput is the decoded PUT /meals/:id body. Every field is optional
// and an empty body is a valid no-op.
type UpdateMealInput struct {
  Name          *string     `json:"name"`
  Description   *string     `json:"description"`
  DateTime      *string     `json:"date_time"`
  IsOnDiet      *bool       `json:"is_on_diet"`
}

type MealService interface {
  CreateMeal(ctx context.Context, tx *gorm.DB, sessionID uuid.UUID, input CreateMealInput) (*types.Meal, error)
  ListMeals(ctx context.Context, tx *gorm.DB, sessionID uuid.UUID) ([]*types.Meal, error)
  GetMeal(ctx context.Context, tx *gorm.DB, sessionID uuid.UUID, mealID uuid.UUID) (*types.Meal, error)
  UpdateMeal(ctx context.Context, tx *gorm.DB, sessionID uuid.UUID, mealID uuid.UUID, input UpdateMealInput) error
  DeleteMeal(ctx context.Context, tx *gorm.DB, sessionID uuid.UUID, mealID uuid.UUID) error
  Metrics(ctx context.Context, tx *gorm.DB, sessionID uuid.UUID) (*types.MealMetrics, error)
}

type mealService struct {
  log       *logger.Logger
  mealRepo  repos.MealRepo
}

func NewMealService(log *logger.Logger, mealRepo repos.MealRepo) MealService {
  serviceLog := log.With("service", "MealService")
  return &mealService{log: serviceLog, mealRepo: mealRepo}
}

func (ms *mealService) CreateMeal(ctx context.Context, tx *gorm.DB, sessionID uuid.UUID, input CreateMealInput) (*types.Meal, error) {
  ms.log.Info("Starting CreateMeal now...", "sessionID", sessionID)

  if strings.TrimSpace(input.Name) == "" {
    ms.log.Warn("CreateMeal rejected, name is required")
    return nil, fmt.Errorf("%w: name is required", ErrValidation)
  }
  if input.Description == nil {
    ms.log.Warn("CreateMeal rejected, description is required")
    return nil, fmt.Errorf("%w: description is required", ErrValidation)
  }
  if input.IsOnDiet == nil {
    ms.log.Warn("CreateMeal rejected, is_on_diet is required")
    return nil, fmt.Errorf("%w: is_on_diet is required", ErrValidation)
  }
  if input.DateTime == "" {
    ms.log.Warn("CreateMeal rejected, date_time is required")
    return nil, fmt.Errorf("%w: date_time is required", ErrValidation)
  }
  dateTime, err := parseDateTime(input.DateTime)
  if err != nil {
    ms.log.Warn("CreateMeal rejected, date_time is not a valid datetime", "date_time", input.DateTime)
    return nil, err
  }

  meal := &types.Meal{
    ID:          uuid.New(),
    SessionID:   sessionID,
    Name:        input.Name,
    Description: *input.Description,
    DateTime:    dateTime,
    IsOnDiet:    *input.IsOnDiet,
  }
  created, err := ms.mealRepo.Create(ctx, tx, meal)
  if err != nil {
    ms.log.Warn("CreateMeal failed at the store", "error", err)
    return nil, err
  }
  ms.log.Info("Successfully created meal", "mealID", created.ID)
  return created, nil
}

func (ms *mealService) ListMeals(ctx context.Context, tx *gorm.DB, sessionID uuid.UUID) ([]*types.Meal, error) {
  ms.log.Info("Starting ListMeals now...", "sessionID", sessionID)
  meals, err := ms.mealRepo.GetBySession(ctx, tx, sessionID)
  if err != nil {
    ms.log.Warn("ListMeals failed at the store", "error", err)
    return nil, err
  }
  ms.log.Info("Successfully listed meals", "count", len(meals))
  return meals, nil
}

func (ms *mealService) GetMeal(ctx context.Context, tx *gorm.DB, sessionID uuid.UUID, mealID uuid.UUID) (*types.Meal, error) {
  ms.log.Info("Starting GetMeal now...", "sessionID", sessionID, "mealID", mealID)
  meal, err := ms.mealRepo.GetByIDAndSession(ctx, tx, mealID, sessionID)
  if err != nil {
    ms.log.Warn("GetMeal failed at the store", "error", err)
    return nil, err
  }
  if meal == nil {
    ms.log.Debug("GetMeal found no meal for that id in this session", "mealID", mealID)
  }
  return meal, nil
}

func (ms *mealService) UpdateMeal(ctx context.Context, tx *gorm.DB, sessionID uuid.UUID, mealID uuid.UUID, input UpdateMealInput) error {
  ms.log.Info("Starting UpdateMeal now...", "sessionID", sessionID, "mealID", mealID)

  fields := map[string]interface{}{}
  if input.Name != nil {
    if strings.TrimSpace(*input.Name) == "" {
      ms.log.Warn("UpdateMeal rejected, name must not be empty")
      return fmt.Errorf("%w: name must not be empty", ErrValidation)
    }
    fields["name"] = *input.Name
  }
  if input.Description != nil {
    fields["description"] = *input.Description
  }
  if input.DateTime != nil {
    dateTime, err := parseDateTime(*input.DateTime)
    if err != nil {
      ms.log.Warn("UpdateMeal rejected, date_time is not a valid datetime", "date_time", *input.DateTime)
      return err
    }
    fields["date_time"] = dateTime
  }
  if input.IsOnDiet != nil {
    fields["is_on_diet"] = *input.IsOnDiet
  }

  // An empty update is a valid no-op; the repo skips the query.
  if err := ms.mealRepo.UpdateFields(ctx, tx, mealID, sessionID, fields); err != nil {
    ms.log.Warn("UpdateMeal failed at the store", "error", err)
    return err
  }
  ms.log.Info("Successfully updated meal", "mealID", mealID, "fieldCount", len(fields))
  return nil
}

func (ms *mealService) DeleteMeal(ctx context.Context, tx *gorm.DB, sessionID uuid.UUID, mealID uuid.UUID) error {
  ms.log.Info("Starting DeleteMeal now...", "sessionID", sessionID, "mealID", mealID)
  if err := ms.mealRepo.DeleteByIDAndSession(ctx, tx, mealID, sessionID); err != nil {
    ms.log.Warn("DeleteMeal failed at the store", "error", err)
    return err
  }
  ms.log.Info("Successfully deleted meal (or nothing matched)", "mealID", mealID)
  return nil
}

func (ms *mealService) Metrics(ctx context.Context, tx *gorm.DB, sessionID uuid.UUID) (*types.MealMetrics, error) {
  ms.log.Info("Starting Metrics now...", "sessionID", sessionID)

  // Four independent reads; an interleaved write may skew one against another,
  // which is accepted for this endpoint.
  total, err := ms.mealRepo.CountBySession(ctx, tx, sessionID)
  if err != nil {
    ms.log.Warn("Metrics failed counting all meals", "error", err)
    return nil, err
  }
  onDiet, err := ms.mealRepo.CountBySessionOnDiet(ctx, tx, sessionID, true)
  if err != nil {
    ms.log.Warn("Metrics failed counting on-diet meals", "error", err)
    return nil, err
  }
  offDiet, err := ms.mealRepo.CountBySessionOnDiet(ctx, tx, sessionID, false)
  if err != nil {
    ms.log.Warn("Metrics failed counting off-diet meals", "error", err)
    return nil, err
  }
  flags, err := ms.mealRepo.GetFlagsBySessionDesc(ctx, tx, sessionID)
  if err != nil {
    ms.log.Warn("Metrics failed fetching the ordered diet flags", "error", err)
    return nil, err
  }

  metrics := &types.MealMetrics{
    TotalMeals:         total,
    MealsOnDiet:        onDiet,
    MealsOffDiet:       offDiet,
    BestSequenceOnDiet: BestSequenceOnDiet(flags),
  }
  ms.log.Info("Successfully computed metrics", "totalMeals", metrics.TotalMeals, "bestSequenceOnDiet", metrics.BestSequenceOnDiet)
  return metrics, nil
}

// BestSequenceOnDiet returns the length of the longest contiguous run of true
// in the date_time-descending flag sequence. Note this is the global longest
// run, not the streak ending at the most recent meal.
func BestSequenceOnDiet(flags []bool) int64 {
  var best, current int64
  for _, onDiet := range flags {
    if onDiet {
      current++
      if current > best {
        best = current
      }
    } else {
      current = 0
    }
  }
  return best
}

func parseDateTime(raw string) (time.Time, error) {
  dateTime, err := time.Parse(time.RFC3339, raw)
  if err != nil {
    return time.Time{}, fmt.Errorf("%w: date_time must be an ISO-8601 datetime", ErrValidation)
  }
  return dateTime, nil
}
