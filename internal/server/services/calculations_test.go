package services

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/dmitrijs2005/calcledger/internal/common"
	"github.com/dmitrijs2005/calcledger/internal/server/models"
)

type fakeCalcRepo struct {
	createErr error
	updateErr error
	deleteErr error

	getOut *models.Calculation
	getErr error

	listOut []*models.Calculation
	listErr error

	lastLimit  int
	lastOffset int
}

func (f *fakeCalcRepo) Create(ctx context.Context, c *models.Calculation) (*models.Calculation, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	c.ID = "c-1"
	return c, nil
}

func (f *fakeCalcRepo) GetByID(ctx context.Context, id, userID string) (*models.Calculation, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.getOut, nil
}

func (f *fakeCalcRepo) List(ctx context.Context, userID string, limit, offset int) ([]*models.Calculation, error) {
	f.lastLimit, f.lastOffset = limit, offset
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.listOut, nil
}

func (f *fakeCalcRepo) Update(ctx context.Context, c *models.Calculation) (*models.Calculation, error) {
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	return c, nil
}

func (f *fakeCalcRepo) Delete(ctx context.Context, id, userID string) error {
	return f.deleteErr
}

func newCalcService(repo *fakeCalcRepo) *CalculationService {
	return NewCalculationService(nil, &fakeRepoManager{c: repo})
}

// newCalcServiceWithTx backs the service with a sqlmock db for operations
// that open a transaction.
func newCalcServiceWithTx(t *testing.T, repo *fakeCalcRepo) (*CalculationService, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewCalculationService(db, &fakeRepoManager{c: repo}), mock
}

func TestCalcCreate_ComputesResult(t *testing.T) {
	s := newCalcService(&fakeCalcRepo{})

	got, err := s.Create(context.Background(), "u-1", models.CalculationAddition, []float64{1, 2, 3.5})
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if got.Result != 6.5 {
		t.Fatalf("want 6.5, got %v", got.Result)
	}
	if got.UserID != "u-1" || got.ID != "c-1" {
		t.Fatalf("unexpected record: %+v", got)
	}
}

func TestCalcCreate_DivisionByZero(t *testing.T) {
	repo := &fakeCalcRepo{}
	s := newCalcService(repo)

	_, err := s.Create(context.Background(), "u-1", models.CalculationDivision, []float64{10, 0})
	if !errors.Is(err, common.ErrorValidation) {
		t.Fatalf("want ErrorValidation, got %v", err)
	}
}

func TestCalcCreate_TooFewInputs(t *testing.T) {
	s := newCalcService(&fakeCalcRepo{})

	_, err := s.Create(context.Background(), "u-1", models.CalculationAddition, []float64{1})
	if !errors.Is(err, common.ErrorValidation) {
		t.Fatalf("want ErrorValidation, got %v", err)
	}
}

func TestCalcList_DefaultsAndCaps(t *testing.T) {
	repo := &fakeCalcRepo{}
	s := newCalcService(repo)

	if _, err := s.List(context.Background(), "u-1", 0, -5); err != nil {
		t.Fatalf("List error: %v", err)
	}
	if repo.lastLimit != defaultListLimit || repo.lastOffset != 0 {
		t.Fatalf("want default limit %d offset 0, got %d %d", defaultListLimit, repo.lastLimit, repo.lastOffset)
	}

	if _, err := s.List(context.Background(), "u-1", 10000, 40); err != nil {
		t.Fatalf("List error: %v", err)
	}
	if repo.lastLimit != maxListLimit || repo.lastOffset != 40 {
		t.Fatalf("want capped limit %d offset 40, got %d %d", maxListLimit, repo.lastLimit, repo.lastOffset)
	}
}

func TestCalcGet_NotFound(t *testing.T) {
	s := newCalcService(&fakeCalcRepo{getErr: common.ErrorNotFound})

	_, err := s.Get(context.Background(), "u-1", "c-9")
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("want ErrorNotFound, got %v", err)
	}
}

func TestCalcUpdate_RecomputesWithExistingType(t *testing.T) {
	existing := &models.Calculation{ID: "c-1", UserID: "u-1", Type: models.CalculationModulus, Inputs: []float64{7, 2}, Result: 1}
	s, mock := newCalcServiceWithTx(t, &fakeCalcRepo{getOut: existing})
	mock.ExpectBegin()
	mock.ExpectCommit()

	got, err := s.Update(context.Background(), "u-1", "c-1", []float64{10, 3})
	if err != nil {
		t.Fatalf("Update error: %v", err)
	}
	if got.Type != models.CalculationModulus || got.Result != 1 {
		t.Fatalf("unexpected record: %+v", got)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("sql expectations: %v", err)
	}
}

func TestCalcUpdate_NotFound(t *testing.T) {
	s, mock := newCalcServiceWithTx(t, &fakeCalcRepo{getErr: common.ErrorNotFound})
	mock.ExpectBegin()
	mock.ExpectRollback()

	_, err := s.Update(context.Background(), "u-1", "c-9", []float64{1, 2})
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("want ErrorNotFound, got %v", err)
	}
}

func TestCalcUpdate_ValidationBeforeRepo(t *testing.T) {
	existing := &models.Calculation{ID: "c-1", UserID: "u-1", Type: models.CalculationModulus, Inputs: []float64{7, 2}, Result: 1}
	repo := &fakeCalcRepo{getOut: existing, updateErr: errors.New("must not be reached")}
	s, mock := newCalcServiceWithTx(t, repo)
	mock.ExpectBegin()
	mock.ExpectRollback()

	_, err := s.Update(context.Background(), "u-1", "c-1", []float64{10, 0})
	if !errors.Is(err, common.ErrorValidation) {
		t.Fatalf("want ErrorValidation, got %v", err)
	}
}

func TestCalcDelete_NotFound(t *testing.T) {
	s := newCalcService(&fakeCalcRepo{deleteErr: common.ErrorNotFound})

	err := s.Delete(context.Background(), "u-1", "c-9")
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("want ErrorNotFound, got %v", err)
	}
}
