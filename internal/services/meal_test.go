package services

import (
  "context"
  "errors"
  "sort"
  "testing"
  "time"

  "github.com/google/uuid"
  "github.com/stretchr/testify/assert"
  "github.com/stretchr/testify/require"
  "gorm.io/gorm"

  "github.com/daily-diet-org/daily-diet-backend/internal/logger"
  "github.com/daily-diet-org/daily-diet-backend/internal/types"
)

// fakeMealRepo keeps meals in a map and answers queries the way the GORM repo
// does, so the service can be exercised without a database.
type fakeMealRepo struct {
  meals       map[uuid.UUID]*types.Meal
  lastFields  map[string]interface{}
  createCalls int
}

func newFakeMealRepo() *fakeMealRepo {
  return &fakeMealRepo{meals: map[uuid.UUID]*types.Meal{}}
}

func (f *fakeMealRepo) Create(ctx context.Context, tx *gorm.DB, meal *types.Meal) (*types.Meal, error) {
  f.createCalls++
  copied := *meal
  f.meals[meal.ID] = &copied
  return meal, nil
}

func (f *fakeMealRepo) GetBySession(ctx context.Context, tx *gorm.DB, sessionID uuid.UUID) ([]*types.Meal, error) {
  var results []*types.Meal
  for _, m := range f.meals {
    if m.SessionID == sessionID {
      results = append(results, m)
    }
  }
  return results, nil
}

func (f *fakeMealRepo) GetByIDAndSession(ctx context.Context, tx *gorm.DB, mealID uuid.UUID, sessionID uuid.UUID) (*types.Meal, error) {
  m, ok := f.meals[mealID]
  if !ok || m.SessionID != sessionID {
    return nil, nil
  }
  return m, nil
}

func (f *fakeMealRepo) UpdateFields(ctx context.Context, tx *gorm.DB, mealID uuid.UUID, sessionID uuid.UUID, fields map[string]interface{}) error {
  f.lastFields = fields
  if len(fields) == 0 {
    return nil
  }
  m, ok := f.meals[mealID]
  if !ok || m.SessionID != sessionID {
    return nil
  }
  if v, ok := fields["name"]; ok {
    m.Name = v.(string)
  }
  if v, ok := fields["description"]; ok {
    m.Description = v.(string)
  }
  if v, ok := fields["is_on_diet"]; ok {
    m.IsOnDiet = v.(bool)
  }
  return nil
}

func (f *fakeMealRepo) DeleteByIDAndSession(ctx context.Context, tx *gorm.DB, mealID uuid.UUID, sessionID uuid.UUID) error {
  m, ok := f.meals[mealID]
  if ok && m.SessionID == sessionID {
    delete(f.meals, mealID)
  }
  return nil
}

func (f *fakeMealRepo) CountBySession(ctx context.Context, tx *gorm.DB, sessionID uuid.UUID) (int64, error) {
  var count int64
  for _, m := range f.meals {
    if m.SessionID == sessionID {
      count++
    }
  }
  return count, nil
}

func (f *fakeMealRepo) CountBySessionOnDiet(ctx context.Context, tx *gorm.DB, sessionID uuid.UUID, onDiet bool) (int64, error) {
  var count int64
  for _, m := range f.meals {
    if m.SessionID == sessionID && m.IsOnDiet == onDiet {
      count++
    }
  }
  return count, nil
}

func (f *fakeMealRepo) GetFlagsBySessionDesc(ctx context.Context, tx *gorm.DB, sessionID uuid.UUID) ([]bool, error) {
  var owned []*types.Meal
  for _, m := range f.meals {
    if m.SessionID == sessionID {
      owned = append(owned, m)
    }
  }
  sort.Slice(owned, func(i, j int) bool {
    return owned[i].DateTime.After(owned[j].DateTime)
  })
  flags := make([]bool, 0, len(owned))
  for _, m := range owned {
    flags = append(flags, m.IsOnDiet)
  }
  return flags, nil
}

func testLogger(t *testing.T) *logger.Logger {
  t.Helper()
  log, err := logger.New("production")
  require.NoError(t, err)
  return log
}

func strPtr(s string) *string { return &s }
func boolPtr(b bool) *bool    { return &b }

func TestBestSequenceOnDiet(t *testing.T) {
  tests := []struct {
    name  string
    flags []bool
    want  int64
  }{
    {name: "no meals", flags: nil, want: 0},
    {name: "single on-diet meal", flags: []bool{true}, want: 1},
    {name: "single off-diet meal", flags: []bool{false}, want: 0},
    {name: "all off diet", flags: []bool{false, false, false}, want: 0},
    {name: "all on diet", flags: []bool{true, true, true, true}, want: 4},
    {name: "run in the middle", flags: []bool{true, false, true, true, true}, want: 3},
    {name: "run at the end", flags: []bool{false, true, true}, want: 2},
    {name: "two maximal runs report their common length", flags: []bool{true, true, false, true, true}, want: 2},
  }
  for _, tt := range tests {
    t.Run(tt.name, func(t *testing.T) {
      assert.Equal(t, tt.want, BestSequenceOnDiet(tt.flags))
    })
  }
}

func TestCreateMealValidation(t *testing.T) {
  tests := []struct {
    name  string
    input CreateMealInput
  }{
    {name: "missing name", input: CreateMealInput{Description: strPtr("d"), DateTime: "2025-09-02T08:00:00.000Z", IsOnDiet: boolPtr(true)}},
    {name: "blank name", input: CreateMealInput{Name: "   ", Description: strPtr("d"), DateTime: "2025-09-02T08:00:00.000Z", IsOnDiet: boolPtr(true)}},
    {name: "missing description", input: CreateMealInput{Name: "Breakfast", DateTime: "2025-09-02T08:00:00.000Z", IsOnDiet: boolPtr(true)}},
    {name: "missing date_time", input: CreateMealInput{Name: "Breakfast", Description: strPtr("d"), IsOnDiet: boolPtr(true)}},
    {name: "unparseable date_time", input: CreateMealInput{Name: "Breakfast", Description: strPtr("d"), DateTime: "yesterday at eight", IsOnDiet: boolPtr(true)}},
    {name: "missing is_on_diet", input: CreateMealInput{Name: "Breakfast", Description: strPtr("d"), DateTime: "2025-09-02T08:00:00.000Z"}},
  }
  for _, tt := range tests {
    t.Run(tt.name, func(t *testing.T) {
      repo := newFakeMealRepo()
      svc := NewMealService(testLogger(t), repo)

      _, err := svc.CreateMeal(context.Background(), nil, uuid.New(), tt.input)
      require.Error(t, err)
      assert.True(t, errors.Is(err, ErrValidation))
      assert.Zero(t, repo.createCalls, "validation must reject before any store access")
    })
  }
}

func TestCreateMealPopulatesRecord(t *testing.T) {
  repo := newFakeMealRepo()
  svc := NewMealService(testLogger(t), repo)
  sessionID := uuid.New()

  meal, err := svc.CreateMeal(context.Background(), nil, sessionID, CreateMealInput{
    Name:        "Breakfast",
    Description: strPtr("Healthy breakfast with fruits"),
    DateTime:    "2025-09-02T08:00:00.000Z",
    IsOnDiet:    boolPtr(true),
  })
  require.NoError(t, err)
  assert.NotEqual(t, uuid.Nil, meal.ID)
  assert.Equal(t, sessionID, meal.SessionID)
  assert.Equal(t, "Breakfast", meal.Name)
  assert.Equal(t, "Healthy breakfast with fruits", meal.Description)
  assert.True(t, meal.IsOnDiet)
  assert.Equal(t, 2025, meal.DateTime.Year())
  assert.Equal(t, 1, repo.createCalls)
}

func TestCreateMealAllowsEmptyDescription(t *testing.T) {
  repo := newFakeMealRepo()
  svc := NewMealService(testLogger(t), repo)

  meal, err := svc.CreateMeal(context.Background(), nil, uuid.New(), CreateMealInput{
    Name:        "Snack",
    Description: strPtr(""),
    DateTime:    "2025-09-02T10:00:00Z",
    IsOnDiet:    boolPtr(false),
  })
  require.NoError(t, err)
  assert.Equal(t, "", meal.Description)
}

func TestUpdateMealEmptyInputIsANoOp(t *testing.T) {
  repo := newFakeMealRepo()
  svc := NewMealService(testLogger(t), repo)
  sessionID := uuid.New()

  meal, err := svc.CreateMeal(context.Background(), nil, sessionID, CreateMealInput{
    Name:        "Lunch",
    Description: strPtr("Rice and beans"),
    DateTime:    "2025-09-02T12:00:00Z",
    IsOnDiet:    boolPtr(true),
  })
  require.NoError(t, err)

  require.NoError(t, svc.UpdateMeal(context.Background(), nil, sessionID, meal.ID, UpdateMealInput{}))
  assert.Empty(t, repo.lastFields)

  got, err := svc.GetMeal(context.Background(), nil, sessionID, meal.ID)
  require.NoError(t, err)
  assert.Equal(t, "Lunch", got.Name)
  assert.Equal(t, "Rice and beans", got.Description)
}

func TestUpdateMealValidation(t *testing.T) {
  repo := newFakeMealRepo()
  svc := NewMealService(testLogger(t), repo)

  err := svc.UpdateMeal(context.Background(), nil, uuid.New(), uuid.New(), UpdateMealInput{DateTime: strPtr("not-a-date")})
  require.Error(t, err)
  assert.True(t, errors.Is(err, ErrValidation))

  err = svc.UpdateMeal(context.Background(), nil, uuid.New(), uuid.New(), UpdateMealInput{Name: strPtr("  ")})
  require.Error(t, err)
  assert.True(t, errors.Is(err, ErrValidation))
}

func TestUpdateMealAppliesOnlySuppliedFields(t *testing.T) {
  repo := newFakeMealRepo()
  svc := NewMealService(testLogger(t), repo)
  sessionID := uuid.New()

  meal, err := svc.CreateMeal(context.Background(), nil, sessionID, CreateMealInput{
    Name:        "Breakfast",
    Description: strPtr("Healthy breakfast with fruits"),
    DateTime:    "2025-09-02T08:00:00Z",
    IsOnDiet:    boolPtr(true),
  })
  require.NoError(t, err)

  err = svc.UpdateMeal(context.Background(), nil, sessionID, meal.ID, UpdateMealInput{
    Name:     strPtr("Updated Breakfast"),
    IsOnDiet: boolPtr(false),
  })
  require.NoError(t, err)

  got, err := svc.GetMeal(context.Background(), nil, sessionID, meal.ID)
  require.NoError(t, err)
  assert.Equal(t, "Updated Breakfast", got.Name)
  assert.False(t, got.IsOnDiet)
  assert.Equal(t, "Healthy breakfast with fruits", got.Description, "unsupplied fields stay unchanged")
}

func TestDeleteMealForeignOrMissingIsANoOp(t *testing.T) {
  repo := newFakeMealRepo()
  svc := NewMealService(testLogger(t), repo)
  owner := uuid.New()
  stranger := uuid.New()

  meal, err := svc.CreateMeal(context.Background(), nil, owner, CreateMealInput{
    Name:        "Dinner",
    Description: strPtr("Soup"),
    DateTime:    "2025-09-02T19:00:00Z",
    IsOnDiet:    boolPtr(true),
  })
  require.NoError(t, err)

  require.NoError(t, svc.DeleteMeal(context.Background(), nil, stranger, meal.ID))
  require.NoError(t, svc.DeleteMeal(context.Background(), nil, owner, uuid.New()))

  got, err := svc.GetMeal(context.Background(), nil, owner, meal.ID)
  require.NoError(t, err)
  require.NotNil(t, got, "foreign and missing deletes must not touch the record")
}

func TestGetMealCrossSessionIsAMiss(t *testing.T) {
  repo := newFakeMealRepo()
  svc := NewMealService(testLogger(t), repo)
  owner := uuid.New()

  meal, err := svc.CreateMeal(context.Background(), nil, owner, CreateMealInput{
    Name:        "Dinner",
    Description: strPtr("Soup"),
    DateTime:    "2025-09-02T19:00:00Z",
    IsOnDiet:    boolPtr(true),
  })
  require.NoError(t, err)

  got, err := svc.GetMeal(context.Background(), nil, uuid.New(), meal.ID)
  require.NoError(t, err)
  assert.Nil(t, got)
}

func TestMetricsZeroMeals(t *testing.T) {
  repo := newFakeMealRepo()
  svc := NewMealService(testLogger(t), repo)

  metrics, err := svc.Metrics(context.Background(), nil, uuid.New())
  require.NoError(t, err)
  assert.Equal(t, &types.MealMetrics{}, metrics)
}

func TestMetricsScenario(t *testing.T) {
  repo := newFakeMealRepo()
  svc := NewMealService(testLogger(t), repo)
  sessionID := uuid.New()

  create := func(name, dateTime string, onDiet bool) {
    t.Helper()
    _, err := svc.CreateMeal(context.Background(), nil, sessionID, CreateMealInput{
      Name:        name,
      Description: strPtr(name),
      DateTime:    dateTime,
      IsOnDiet:    boolPtr(onDiet),
    })
    require.NoError(t, err)
  }

  create("Healthy meal", "2025-09-02T08:00:00Z", true)
  create("Cheat meal", "2025-09-02T12:00:00Z", false)

  metrics, err := svc.Metrics(context.Background(), nil, sessionID)
  require.NoError(t, err)
  assert.Equal(t, int64(2), metrics.TotalMeals)
  assert.Equal(t, int64(1), metrics.MealsOnDiet)
  assert.Equal(t, int64(1), metrics.MealsOffDiet)
  assert.Equal(t, int64(1), metrics.BestSequenceOnDiet)
}

func TestMetricsCountsAddUp(t *testing.T) {
  repo := newFakeMealRepo()
  svc := NewMealService(testLogger(t), repo)
  sessionID := uuid.New()

  flags := []bool{true, true, false, true, false, false, true, true, true}
  for i, onDiet := range flags {
    _, err := svc.CreateMeal(context.Background(), nil, sessionID, CreateMealInput{
      Name:        "Meal",
      Description: strPtr(""),
      DateTime:    time.Date(2025, 9, 1, i, 0, 0, 0, time.UTC).Format(time.RFC3339),
      IsOnDiet:    boolPtr(onDiet),
    })
    require.NoError(t, err)
  }

  metrics, err := svc.Metrics(context.Background(), nil, sessionID)
  require.NoError(t, err)
  assert.Equal(t, metrics.TotalMeals, metrics.MealsOnDiet+metrics.MealsOffDiet)
  // Descending order reverses the creation order: t,t,t,f,f,t,f,t,t
  assert.Equal(t, int64(3), metrics.BestSequenceOnDiet)
}
