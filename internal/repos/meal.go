package repos

import (
    "context"
    "errors"

    "github.com/google/uuid"
    "gorm.io/gorm"

    "github.com/daily-diet-org/daily-diet-backend/internal/logger"
    "github.com/daily-diet-org/daily-diet-backend/internal/types"
)

type MealRepo interface {
    // CREATE
    Create(ctx context.Context, tx *gorm.DB, meal *types.Meal) (*types.Meal, error)

    // READ
    GetBySession(ctx context.Context, tx *gorm.DB, sessionID uuid.UUID) ([]*types.Meal, error)
    GetByIDAndSession(ctx context.Context, tx *gorm.DB, mealID uuid.UUID, sessionID uuid.UUID) (*types.Meal, error)

    // PARTIAL UPDATE
    UpdateFields(ctx context.Context, tx *gorm.DB, mealID uuid.UUID, sessionID uuid.UUID, fields map[string]interface{}) error

    // FULL (HARD) DELETE
    DeleteByIDAndSession(ctx context.Context, tx *gorm.DB, mealID uuid.UUID, sessionID uuid.UUID) error

    // METRICS
    CountBySession(ctx context.Context, tx *gorm.DB, sessionID uuid.UUID) (int64, error)
    CountBySessionOnDiet(ctx context.Context, tx *gorm.DB, sessionID uuid.UUID, onDiet bool) (int64, error)
    GetFlagsBySessionDesc(ctx context.Context, tx *gorm.DB, sessionID uuid.UUID) ([]bool, error)
}

type mealRepo struct {
    db      *gorm.DB
    log     *logger.Logger
}

func NewMealRepo(db *gorm.DB, baseLog *logger.Logger) MealRepo {
    repoLog := baseLog.With("repo", "MealRepo")
    return &mealRepo{db: db, log: repoLog}
}

//------------------------------------------------------------------------------
// CREATE
//------------------------------------------------------------------------------

func (mr *mealRepo) Create(ctx context.Context, tx *gorm.DB, meal *types.Meal) (*types.Meal, error) {
    mr.log.Info("Starting Create Meal now...")

    // 1) Transaction check
    transaction := tx
    if transaction == nil {
        transaction = mr.db
        mr.log.Debug("Transaction is nil, using mr.db")
    }

    // 2) Create
    mr.log.Debug("Creating meal in DB", "mealID", meal.ID, "sessionID", meal.SessionID)
    if err := transaction.WithContext(ctx).Create(meal).Error; err != nil {
        mr.log.Error("Failed to create meal", "error", err)
        return nil, err
    }
    mr.log.Info("Successfully created meal", "mealID", meal.ID)

    return meal, nil
}

//------------------------------------------------------------------------------
// READ
//------------------------------------------------------------------------------

func (mr *mealRepo) GetBySession(ctx context.Context, tx *gorm.DB, sessionID uuid.UUID) ([]*types.Meal, error) {
    mr.log.Info("Starting GetBySession for Meals...")

    transaction := tx
    if transaction == nil {
        transaction = mr.db
        mr.log.Debug("Transaction is nil, using mr.db")
    }

    var results []*types.Meal
    mr.log.Debug("Fetching meals by sessionID", "sessionID", sessionID)
    if err := transaction.WithContext(ctx).
        Where("session_id = ?", sessionID).
        Find(&results).Error; err != nil {
        mr.log.Error("Failed to fetch meals by sessionID", "error", err)
        return nil, err
    }
    mr.log.Info("Successfully fetched meals by sessionID", "count", len(results))
    return results, nil
}

func (mr *mealRepo) GetByIDAndSession(ctx context.Context, tx *gorm.DB, mealID uuid.UUID, sessionID uuid.UUID) (*types.Meal, error) {
    mr.log.Info("Starting GetByIDAndSession for Meal...")

    transaction := tx
    if transaction == nil {
        transaction = mr.db
        mr.log.Debug("Transaction is nil, using mr.db")
    }

    // A row owned by another session is treated the same as a missing row.
    var result types.Meal
    mr.log.Debug("Fetching meal by mealID and sessionID", "mealID", mealID, "sessionID", sessionID)
    if err := transaction.WithContext(ctx).
        Where("id = ? AND session_id = ?", mealID, sessionID).
        First(&result).Error; err != nil {
        if errors.Is(err, gorm.ErrRecordNotFound) {
            mr.log.Debug("No meal found for mealID and sessionID", "mealID", mealID)
            return nil, nil
        }
        mr.log.Error("Failed to fetch meal by mealID and sessionID", "error", err)
        return nil, err
    }
    mr.log.Info("Successfully fetched meal by mealID and sessionID", "mealID", mealID)
    return &result, nil
}

//------------------------------------------------------------------------------
// PARTIAL UPDATE
//------------------------------------------------------------------------------

func (mr *mealRepo) UpdateFields(ctx context.Context, tx *gorm.DB, mealID uuid.UUID, sessionID uuid.UUID, fields map[string]interface{}) error {
    mr.log.Info("Starting UpdateFields for Meal now...")

    transaction := tx
    if transaction == nil {
        transaction = mr.db
        mr.log.Debug("Transaction is nil, using mr.db")
    }

    if len(fields) == 0 {
        mr.log.Debug("No fields provided, skipping update")
        return nil
    }
    mr.log.Debug("Updating meal fields", "mealID", mealID, "sessionID", sessionID, "fieldCount", len(fields))

    // Zero matched rows (missing or foreign meal) is a silent no-op.
    result := transaction.WithContext(ctx).
        Model(&types.Meal{}).
        Where("id = ? AND session_id = ?", mealID, sessionID).
        Updates(fields)
    if result.Error != nil {
        mr.log.Error("Failed to update meal fields", "error", result.Error)
        return result.Error
    }
    mr.log.Info("Successfully updated meal fields", "mealID", mealID, "rowsAffected", result.RowsAffected)
    return nil
}

//------------------------------------------------------------------------------
// FULL (HARD) DELETE
//------------------------------------------------------------------------------

func (mr *mealRepo) DeleteByIDAndSession(ctx context.Context, tx *gorm.DB, mealID uuid.UUID, sessionID uuid.UUID) error {
    mr.log.Info("Starting DeleteByIDAndSession now...")

    transaction := tx
    if transaction == nil {
        transaction = mr.db
        mr.log.Debug("Transaction is nil, using mr.db")
    }

    mr.log.Debug("Deleting meal by mealID and sessionID", "mealID", mealID, "sessionID", sessionID)
    result := transaction.WithContext(ctx).
        Where("id = ? AND session_id = ?", mealID, sessionID).
        Delete(&types.Meal{})
    if result.Error != nil {
        mr.log.Error("Failed to delete meal", "error", result.Error)
        return result.Error
    }
    mr.log.Info("Successfully deleted meal", "mealID", mealID, "rowsAffected", result.RowsAffected)
    return nil
}

//------------------------------------------------------------------------------
// METRICS
//------------------------------------------------------------------------------

func (mr *mealRepo) CountBySession(ctx context.Context, tx *gorm.DB, sessionID uuid.UUID) (int64, error) {
    mr.log.Info("Starting CountBySession for Meals...")

    transaction := tx
    if transaction == nil {
        transaction = mr.db
        mr.log.Debug("Transaction is nil, using mr.db")
    }

    var count int64
    if err := transaction.WithContext(ctx).
        Model(&types.Meal{}).
        Where("session_id = ?", sessionID).
        Count(&count).Error; err != nil {
        mr.log.Error("Failed to count meals by sessionID", "error", err)
        return 0, err
    }
    mr.log.Info("Successfully counted meals by sessionID", "count", count)
    return count, nil
}

func (mr *mealRepo) CountBySessionOnDiet(ctx context.Context, tx *gorm.DB, sessionID uuid.UUID, onDiet bool) (int64, error) {
    mr.log.Info("Starting CountBySessionOnDiet for Meals...")

    transaction := tx
    if transaction == nil {
        transaction = mr.db
        mr.log.Debug("Transaction is nil, using mr.db")
    }

    var count int64
    if err := transaction.WithContext(ctx).
        Model(&types.Meal{}).
        Where("session_id = ? AND is_on_diet = ?", sessionID, onDiet).
        Count(&count).Error; err != nil {
        mr.log.Error("Failed to count meals by sessionID and diet flag", "error", err)
        return 0, err
    }
    mr.log.Info("Successfully counted meals by sessionID and diet flag", "onDiet", onDiet, "count", count)
    return count, nil
}

func (mr *mealRepo) GetFlagsBySessionDesc(ctx context.Context, tx *gorm.DB, sessionID uuid.UUID) ([]bool, error) {
    mr.log.Info("Starting GetFlagsBySessionDesc for Meals...")

    transaction := tx
    if transaction == nil {
        transaction = mr.db
        mr.log.Debug("Transaction is nil, using mr.db")
    }

    var flags []bool
    if err := transaction.WithContext(ctx).
        Model(&types.Meal{}).
        Where("session_id = ?", sessionID).
        Order("date_time DESC").
        Pluck("is_on_diet", &flags).Error; err != nil {
        mr.log.Error("Failed to fetch diet flags by sessionID", "error", err)
        return nil, err
    }
    mr.log.Info("Successfully fetched diet flags by sessionID", "count", len(flags))
    return flags, nil
}
